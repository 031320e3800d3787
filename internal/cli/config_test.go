package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deimosfr/i3-status-info/internal/config"
	"github.com/deimosfr/i3-status-info/internal/ui"
)

func TestConfigInit_NonInteractive(t *testing.T) {
	path := withHome(t, "")
	ui.DisableColors()
	t.Setenv("PRUSA_PASSWORD", "")
	require.NoError(t, os.Unsetenv("PRUSA_PASSWORD"))

	var out bytes.Buffer
	err := ConfigInit(context.Background(), &out, ConfigInitOptions{
		Name:              "mk4",
		Backend:           config.BackendPrusaLink,
		URL:               "http://mk4.local/",
		Login:             "maker",
		Password:          "${PRUSA_PASSWORD}",
		HideRemainingTime: true,
		NonInteractive:    true,
		SkipTest:          true,
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Saved printer 'mk4' to "+path)
	assert.Contains(t, out.String(), "i3-status-info prusa-link --profile mk4")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, config.Printer{
		Backend:           config.BackendPrusaLink,
		URL:               "http://mk4.local",
		Login:             "maker",
		Password:          "${PRUSA_PASSWORD}",
		HideRemainingTime: true,
	}, cfg.Printers["mk4"])

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestConfigInit_ExistingProfile(t *testing.T) {
	path := withHome(t, `
printers:
  mk4:
    backend: prusa-link
    url: http://old.local
    api_key: abc
`)

	opts := ConfigInitOptions{
		Name:           "mk4",
		Backend:        config.BackendPrusaLink,
		URL:            "http://new.local",
		APIKey:         "def",
		NonInteractive: true,
		SkipTest:       true,
	}

	err := ConfigInit(context.Background(), &bytes.Buffer{}, opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	opts.Overwrite = true
	require.NoError(t, ConfigInit(context.Background(), &bytes.Buffer{}, opts))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://new.local", cfg.Printers["mk4"].URL)
	assert.Equal(t, "def", cfg.Printers["mk4"].APIKey)
}

func TestConfigInit_InvalidProfile(t *testing.T) {
	path := withHome(t, "")

	tests := []struct {
		name string
		opts ConfigInitOptions
		want string
	}{
		{
			name: "name with whitespace",
			opts: ConfigInitOptions{Name: "my printer", Backend: "octoprint", URL: "http://x", APIKey: "k"},
			want: "is not valid",
		},
		{
			name: "unknown backend",
			opts: ConfigInitOptions{Name: "p", Backend: "klipper", URL: "http://x", APIKey: "k"},
			want: "unknown backend",
		},
		{
			name: "digest on octoprint",
			opts: ConfigInitOptions{Name: "p", Backend: "octoprint", URL: "http://x", Login: "a", Password: "b"},
			want: "not supported",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.opts.NonInteractive = true
			tt.opts.SkipTest = true
			err := ConfigInit(context.Background(), &bytes.Buffer{}, tt.opts)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)

			_, statErr := os.Stat(path)
			assert.True(t, os.IsNotExist(statErr), "nothing is written")
		})
	}
}

func TestConfigInit_TestsConnection(t *testing.T) {
	path := withHome(t, "")
	ui.DisableColors()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"state":"Operational","progress":{"completion":null}}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	err := ConfigInit(context.Background(), &out, ConfigInitOptions{
		Name:           "voron",
		Backend:        config.BackendOctoprint,
		URL:            srv.URL,
		APIKey:         "k3y",
		NonInteractive: true,
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), ui.SymbolSuccess+" Polling "+srv.URL)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Contains(t, cfg.Printers, "voron")
}

func TestConfigInit_FailedConnection(t *testing.T) {
	path := withHome(t, "")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	err := ConfigInit(context.Background(), &bytes.Buffer{}, ConfigInitOptions{
		Name:           "voron",
		Backend:        config.BackendOctoprint,
		URL:            srv.URL,
		APIKey:         "bad",
		NonInteractive: true,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not answer")

	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestConfigShow(t *testing.T) {
	withHome(t, `
output: i3blocks
printers:
  mk4:
    backend: prusa-link
    url: http://mk4.local
    login: maker
    password: hunter2
`)
	ui.DisableColors()

	stdout, stderr, err := executeCommand(t, "config", "show")
	require.NoError(t, err)
	assert.Empty(t, stderr)
	assert.Contains(t, stdout, "output: i3blocks")
	assert.Contains(t, stdout, "login: maker")
	assert.NotContains(t, stdout, "hunter2")
}

func TestConfigShow_ReportsInvalidProfile(t *testing.T) {
	withHome(t, `
printers:
  broken:
    backend: octoprint
    url: octopi.local
    api_key: k
`)
	ui.DisableColors()

	stdout, stderr, err := executeCommand(t, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, stdout, "broken:")
	assert.Contains(t, stderr, ui.SymbolFail+" Printer 'broken': Invalid URL: octopi.local")
}

func TestConfigList(t *testing.T) {
	withHome(t, `
printers:
  voron:
    backend: octoprint
    url: http://voron.local
    api_key: k
  mk4:
    backend: prusa-link
    url: http://mk4.local
    login: maker
    password: ${MK4_PASSWORD}
`)
	ui.DisableColors()
	t.Setenv("MK4_PASSWORD", "")
	require.NoError(t, os.Unsetenv("MK4_PASSWORD"))

	stdout, _, err := executeCommand(t, "config", "list")
	require.NoError(t, err)
	assert.Contains(t, stdout, ui.SymbolSuccess+" mk4    prusa-link  http://mk4.local    digest")
	assert.NotContains(t, stdout, "No token or login/password provided")
	assert.Contains(t, stdout, ui.SymbolSuccess+" voron  octoprint   http://voron.local  api-key")
}
