package commands

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"CardForge/internal/auth"
	"CardForge/internal/cli/bootstrap"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_LocalAndLogout(t *testing.T) {
	cfg := withTempConfig(t)

	code, out := run(t, cfg, "login", "ann@example.com", "wrong")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "invalid email or password")

	code, _ = run(t, cfg, "login", "ann@example.com")
	assert.Equal(t, 2, code)

	code, out = run(t, cfg, "login", "ann@example.com", "password")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Logged in as ann@example.com")

	login, _, err := bootstrap.Auth(cfg).CurrentUser()
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", login)

	code, out = run(t, cfg, "logout")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Logged out")
	_, _, err = bootstrap.Auth(cfg).CurrentUser()
	assert.Error(t, err)
}

func TestLogin_Server(t *testing.T) {
	cfg := withTempConfig(t)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := auth.User{UID: auth.MockUserID, Email: "ann@example.com"}
		token, err := auth.IssueToken(u, cfg.AuthSecret, auth.TokenTTL)
		require.NoError(t, err)
		http.SetCookie(w, &http.Cookie{Name: auth.CookieName, Value: token})
		_ = json.NewEncoder(w).Encode(u)
	}))
	defer ts.Close()
	cfg.ServerURL = ts.URL

	code, out := run(t, cfg, "login", "-server", "ann@example.com", "password")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Logged in to "+ts.URL)

	login, _, err := bootstrap.Auth(cfg).CurrentUser()
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", login)
}

func TestStatus(t *testing.T) {
	cfg := loggedIn(t)
	seedDeck(t, cfg, "Kanji", "text")

	code, out := run(t, cfg, "status")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Logged in as: ann@example.com")
	assert.Contains(t, out, "Decks:        1")
	assert.Contains(t, out, "unavailable")

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(auth.User{Email: "ann@example.com"})
	}))
	defer ts.Close()
	cfg.ServerURL = ts.URL
	_, out = run(t, cfg, "status")
	assert.Contains(t, out, "signed in as ann@example.com")

	code, _ = run(t, cfg, "status", "extra")
	assert.Equal(t, 2, code)
}
