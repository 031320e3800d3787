package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deimosfr/i3-status-info/internal/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, CurrentConfigVersion, cfg.Version)
	assert.Equal(t, "auto", cfg.Output)
	assert.False(t, cfg.Debug)
	assert.NotNil(t, cfg.Printers)
	assert.Empty(t, cfg.Printers)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")

	content := `
version: 1
output: i3status-rust
printers:
  mk4:
    backend: prusa-link
    url: http://mk4.local/
    login: maker
    password: hunter2
    timeout: 500ms
    hide_remaining_time: true
  ender:
    backend: octoprint
    url: http://octopi.local
    api_key: ${OCTO_KEY}
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "i3status-rust", cfg.Output)
	require.Len(t, cfg.Printers, 2)

	mk4 := cfg.Printers["mk4"]
	assert.Equal(t, BackendPrusaLink, mk4.Backend)
	assert.Equal(t, "http://mk4.local", mk4.URL, "trailing slash is trimmed")
	assert.Equal(t, "maker", mk4.Login)
	assert.Equal(t, 500*time.Millisecond, mk4.Timeout)
	assert.True(t, mk4.HideRemainingTime)

	assert.Equal(t, "${OCTO_KEY}", cfg.Printers["ender"].APIKey, "references stay unexpanded until use")
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("output: i3blocks\n"), 0o600))

	t.Setenv("I3SI_OUTPUT", "terminal")
	t.Setenv("I3SI_DEBUG", "true")

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "terminal", cfg.Output)
	assert.True(t, cfg.Debug)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.True(t, errors.IsCode(err, errors.ErrConfig))

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("printers: [unclosed\n"), 0o600))
	_, err = Load(bad)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))

	wrongType := filepath.Join(dir, "wrong.yaml")
	require.NoError(t, os.WriteFile(wrongType, []byte("printers:\n  mk4:\n    timeout: forever\n"), 0o600))
	_, err = Load(wrongType)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestFind(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	t.Run("nothing found", func(t *testing.T) {
		path, err := Find("")
		require.NoError(t, err)
		assert.Empty(t, path)
	})

	t.Run("explicit path must exist", func(t *testing.T) {
		_, err := Find(filepath.Join(home, "nope.yaml"))
		assert.True(t, errors.IsCode(err, errors.ErrConfig))
	})

	t.Run("global config", func(t *testing.T) {
		global := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		require.NoError(t, os.MkdirAll(filepath.Dir(global), 0o700))
		require.NoError(t, os.WriteFile(global, []byte("debug: true\n"), 0o600))

		path, err := Find("")
		require.NoError(t, err)
		assert.Equal(t, global, path)
		assert.Equal(t, global, DefaultPath())
	})

	t.Run("explicit path with tilde", func(t *testing.T) {
		explicit := filepath.Join(home, "custom.yaml")
		require.NoError(t, os.WriteFile(explicit, []byte("{}\n"), 0o600))

		path, err := Find("~/custom.yaml")
		require.NoError(t, err)
		assert.Equal(t, explicit, path)
	})
}

func TestLoadOrDefault(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("I3SI_OUTPUT", "i3blocks")

	cfg, path, err := LoadOrDefault("")
	require.NoError(t, err)

	assert.Empty(t, path)
	assert.Equal(t, "i3blocks", cfg.Output, "env applies without a file")
	assert.NotNil(t, cfg.Printers)
}

func TestPrinterOptions(t *testing.T) {
	t.Setenv("PRUSA_PASS", "s3cret")

	p := Printer{
		Backend:  BackendPrusaLink,
		URL:      "http://mk4.local",
		Login:    "maker",
		Password: "${PRUSA_PASS}",
		Timeout:  time.Second,
	}
	opts := p.Options()

	assert.Equal(t, "http://mk4.local", opts.BaseURL)
	assert.Equal(t, "maker", opts.Login)
	assert.Equal(t, "s3cret", opts.Password)
	assert.Equal(t, time.Second, opts.Timeout)
	assert.Empty(t, opts.APIKey)

	raw := p.RawOptions()
	assert.Equal(t, "${PRUSA_PASS}", raw.Password)
}

func TestValidatePrinter_UnsetSecretReference(t *testing.T) {
	t.Setenv("PRUSA_PASS", "")
	require.NoError(t, os.Unsetenv("PRUSA_PASS"))

	p := Printer{
		Backend:  BackendPrusaLink,
		URL:      "http://mk4.local",
		Login:    "maker",
		Password: "${PRUSA_PASS}",
	}
	assert.NoError(t, ValidatePrinter("mk4", p))
	assert.Empty(t, p.Options().Password, "expands to nothing at use")
}
