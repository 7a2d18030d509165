package fs

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// helper: перенастройка конфиг‑каталога в temp
func setTempCfg(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if runtime.GOOS == "windows" {
		t.Setenv("APPDATA", dir)
	} else {
		t.Setenv("XDG_CONFIG_HOME", dir)
	}
	return dir
}

func TestAuthFSStore_SaveLoad_Token_TrimsWhitespace(t *testing.T) {
	setTempCfg(t)
	st := AuthFSStore{}
	require.NoError(t, st.Save("tok-123\n\n"))

	// дописываем пробелы и перевод строки вручную
	p, _ := tokenPath()
	f, err := os.OpenFile(p, os.O_APPEND|os.O_WRONLY, 0o600)
	require.NoError(t, err)
	_, _ = f.WriteString("  \r\n")
	_ = f.Close()

	tok, err := st.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-123", tok)
}

func TestAuthFSStore_Load_TokenMissingOrEmpty(t *testing.T) {
	setTempCfg(t)
	st := AuthFSStore{}
	_, err := st.Load()
	assert.Error(t, err, "missing file")

	p, _ := tokenPath()
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o700))
	require.NoError(t, os.WriteFile(p, []byte(" \n"), 0o600))
	_, err = st.Load()
	assert.Error(t, err, "blank file")
}

func TestAuthFSStore_Login(t *testing.T) {
	setTempCfg(t)
	st := AuthFSStore{}

	assert.Error(t, st.SaveLogin(""))
	require.NoError(t, st.SaveLogin("ann@example.com"))
	login, err := st.LoadLogin()
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", login)
}

func TestAuthFSStore_Clear(t *testing.T) {
	setTempCfg(t)
	st := AuthFSStore{}
	require.NoError(t, st.Save("tok"))
	require.NoError(t, st.SaveLogin("ann"))

	require.NoError(t, st.Clear())
	require.NoError(t, st.ClearLogin())
	_, err := st.Load()
	assert.Error(t, err)
	_, err = st.LoadLogin()
	assert.Error(t, err)

	// повторная очистка не ошибка
	assert.NoError(t, st.Clear())
	assert.NoError(t, st.ClearLogin())
}

func TestConfigDir_IsCreated(t *testing.T) {
	base := setTempCfg(t)
	dir, err := configDir()
	require.NoError(t, err)
	if runtime.GOOS != "windows" {
		assert.Equal(t, filepath.Join(base, "CardForge"), dir)
	}
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
