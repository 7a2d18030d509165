// Package auth is the mock sign-in gate: any email with the shared demo password is accepted.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	// CookieName carries the session token on HTTP requests.
	CookieName = "auth_token"
	// MockUserID is the uid of every signed-in user.
	MockUserID = "mock-user-123"
	// TokenTTL is the lifetime of issued tokens.
	TokenTTL = 24 * time.Hour

	demoPassword = "password"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
)

// User is the signed-in identity.
type User struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

var demoHash = sync.OnceValue(func() []byte {
	h, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.MinCost)
	if err != nil {
		panic(fmt.Sprintf("hash demo password: %v", err))
	}
	return h
})

// Authenticate accepts any non-empty email together with the demo password.
func Authenticate(email, password string) (*User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(demoHash(), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	name, _, _ := strings.Cut(email, "@")
	return &User{UID: MockUserID, Email: email, DisplayName: name}, nil
}

type claims struct {
	jwt.RegisteredClaims
	Email       string `json:"email"`
	DisplayName string `json:"name"`
}

// IssueToken signs an HS256 token for u.
func IssueToken(u User, secret string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("empty token secret")
	}
	now := time.Now()
	c := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.UID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email:       u.Email,
		DisplayName: u.DisplayName,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
}

// ParseToken verifies a token issued by IssueToken.
func ParseToken(token, secret string) (*User, error) {
	var c claims
	parsed, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if c.Subject == "" {
		return nil, fmt.Errorf("%w: no subject", ErrInvalidToken)
	}
	return &User{UID: c.Subject, Email: c.Email, DisplayName: c.DisplayName}, nil
}
