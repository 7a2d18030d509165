// Package api is a thin client for the CardForge HTTP server.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"CardForge/internal/auth"
)

// ErrUnauthorized is returned when the server rejects the credentials or the token.
var ErrUnauthorized = errors.New("unauthorized")

// Client talks to one server.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), HTTP: http.DefaultClient}
}

// do sends a request with an optional JSON payload and auth cookie and returns the body.
func (c *Client) do(ctx context.Context, method, path string, payload any, token string) (*http.Response, []byte, error) {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, nil, err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: token})
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	return resp, b, nil
}

func statusError(resp *http.Response, body []byte) error {
	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return fmt.Errorf("server status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
}

// Login signs in and returns the token the server set as auth cookie.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	payload := map[string]string{"email": email, "password": password}
	resp, body, err := c.do(ctx, http.MethodPost, "/api/user/login", payload, "")
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", statusError(resp, body)
	}
	return TokenFromResponse(resp)
}

// Me returns the user the server sees for token.
func (c *Client) Me(ctx context.Context, token string) (*auth.User, error) {
	resp, body, err := c.do(ctx, http.MethodGet, "/api/user/me", nil, token)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp, body)
	}
	var u auth.User
	if err := json.Unmarshal(body, &u); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &u, nil
}

// TokenFromResponse extracts the auth cookie value.
func TokenFromResponse(resp *http.Response) (string, error) {
	for _, c := range resp.Cookies() {
		if c.Name == auth.CookieName && c.Value != "" {
			return c.Value, nil
		}
	}
	return "", errors.New("no auth cookie in response")
}
