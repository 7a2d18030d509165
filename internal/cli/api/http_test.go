package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"CardForge/internal/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_ReturnsCookieToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/user/login", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var m map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&m))
		if m["password"] != "password" {
			http.Error(w, "invalid credentials", http.StatusUnauthorized)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: auth.CookieName, Value: "tok123"})
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL + "/")
	tok, err := c.Login(context.Background(), "ann@example.com", "password")
	require.NoError(t, err)
	assert.Equal(t, "tok123", tok)

	_, err = c.Login(context.Background(), "ann@example.com", "nope")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestLogin_NoCookie(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL).Login(context.Background(), "a@b", "password")
	assert.ErrorContains(t, err, "no auth cookie")
}

func TestMe(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(auth.CookieName)
		if err != nil || c.Value != "tok123" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(auth.User{UID: auth.MockUserID, Email: "ann@example.com"})
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	u, err := c.Me(context.Background(), "tok123")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", u.Email)

	_, err = c.Me(context.Background(), "")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestMe_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL).Me(context.Background(), "tok")
	assert.ErrorContains(t, err, "server status 500: boom")
}
