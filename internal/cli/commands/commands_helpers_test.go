package commands

import (
	"bytes"
	"context"
	"path/filepath"
	"runtime"
	"testing"

	"CardForge/internal/cli/bootstrap"
	"CardForge/internal/config"
	"CardForge/internal/model"

	"github.com/stretchr/testify/require"
)

// withTempConfig points the user config dir and the client databases at a temp dir.
func withTempConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	if runtime.GOOS == "windows" {
		t.Setenv("APPDATA", dir)
	} else {
		t.Setenv("XDG_CONFIG_HOME", dir)
	}
	return &config.Config{
		AuthSecret:    "test-secret",
		ClientDBPath:  filepath.Join(dir, "db"),
		BlobMaxSizeMB: 1,
		ServerURL:     "http://127.0.0.1:1",
	}
}

// loggedIn returns a temp config with an active login.
func loggedIn(t *testing.T) *config.Config {
	t.Helper()
	cfg := withTempConfig(t)
	_, err := bootstrap.Auth(cfg).Login("ann@example.com", "password")
	require.NoError(t, err)
	return cfg
}

// withStdoutCapture captures Out while fn runs.
func withStdoutCapture(t *testing.T, fn func()) string {
	t.Helper()
	old := Out
	var buf bytes.Buffer
	Out = &buf
	defer func() { Out = old }()
	fn()
	return buf.String()
}

// run dispatches args and returns the exit code and output.
func run(t *testing.T, cfg *config.Config, args ...string) (int, string) {
	t.Helper()
	var code int
	out := withStdoutCapture(t, func() { code = Dispatch(context.Background(), cfg, args) })
	return code, out
}

// testApp opens the active user's database directly.
func testApp(t *testing.T, cfg *config.Config) *bootstrap.App {
	t.Helper()
	app, done, err := bootstrap.OpenApp(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = done() })
	return app
}

func seedDeck(t *testing.T, cfg *config.Config, name, deckType string) *model.Deck {
	t.Helper()
	app, done, err := bootstrap.OpenApp(cfg)
	require.NoError(t, err)
	defer func() { _ = done() }()
	d, err := app.Decks.Create(context.Background(), name, deckType)
	require.NoError(t, err)
	return d
}
