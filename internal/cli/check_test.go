package cli

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deimosfr/i3-status-info/internal/errors"
	"github.com/deimosfr/i3-status-info/internal/metrics"
)

const octoprintJob = `{
  "job": {"file": {"name": "benchy.gcode"}},
  "progress": {"completion": 62.0, "printTimeLeft": 34320},
  "state": "Printing"
}`

// fakeProc writes a /proc tree holding a meminfo with 5 GiB of 8 GiB used.
func fakeProc(t *testing.T) {
	t.Helper()
	root := t.TempDir()
	meminfo := "MemTotal: 8388608 kB\nMemFree: 1048576 kB\nMemAvailable: 2097152 kB\nShmem: 1048576 kB\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, "meminfo"), []byte(meminfo), 0o644))
	t.Setenv(metrics.ProcRootEnv, root)
}

func fakeSys(t *testing.T, profile string) {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "firmware", "acpi")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "platform_profile"), []byte(profile+"\n"), 0o644))
	t.Setenv(metrics.SysRootEnv, root)
}

func requireExitCode(t *testing.T, err error, want int) {
	t.Helper()
	require.Error(t, err)
	code, ok := errors.GetExitCode(err)
	require.True(t, ok, "expected an exit error, got %v", err)
	assert.Equal(t, want, code)
}

func TestMem(t *testing.T) {
	withHome(t, "")
	fakeProc(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "used in GB",
			args: []string{"--output", "i3blocks", "mem"},
			want: "5.0G\n5.0G\n#FFFC00\n",
		},
		{
			name: "remaining in MB",
			args: []string{"--output", "i3blocks", "mem", "-d", "remaining", "-u", "mb"},
			want: "3072.0M\n3072.0M\n#FFFC00\n",
		},
		{
			name: "critical from 60 percent",
			args: []string{"--output", "i3blocks", "mem", "-d", "used-percentage", "-w", "50", "-c", "60"},
			want: "62%\n62%\n#FF0000\n",
		},
		{
			name: "i3status-rust",
			args: []string{"--output", "i3status-rust", "mem", "-d", "used-percentage"},
			want: `{"text":"62%","short_text":"62%","state":"Warning"}` + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, err := executeCommand(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stdout)
			assert.Empty(t, stderr)
		})
	}
}

func TestMem_InvalidFlags(t *testing.T) {
	withHome(t, "")
	fakeProc(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown unit", []string{"mem", "-u", "tb"}},
		{"unknown display", []string{"mem", "-d", "free"}},
		{"warning above critical", []string{"mem", "-w", "90", "-c", "80"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stdout, stderr, err := executeCommand(t, append([]string{"--output", "i3blocks"}, tt.args...)...)
			requireExitCode(t, err, 1)
			assert.Empty(t, stdout)
			assert.NotEmpty(t, stderr)
		})
	}
}

func TestPerfMode(t *testing.T) {
	withHome(t, "")
	fakeSys(t, "low-power")

	stdout, _, err := executeCommand(t, "--output", "i3blocks", "perf-mode", "-d", "text")
	require.NoError(t, err)
	assert.Equal(t, "Low Power\nLow Power\n", stdout)

	stdout, _, err = executeCommand(t, "--output", "i3blocks", "perf-mode")
	require.NoError(t, err)
	assert.Equal(t, "\uF299\n\uF299\n", stdout)
}

func TestPerfMode_Unavailable(t *testing.T) {
	withHome(t, "")
	t.Setenv(metrics.SysRootEnv, t.TempDir())

	stdout, stderr, err := executeCommand(t, "--output", "i3status-rust", "perf-mode")
	requireExitCode(t, err, 1)
	assert.Empty(t, stderr)

	var block map[string]string
	require.NoError(t, json.Unmarshal([]byte(stdout), &block))
	assert.Equal(t, "Critical", block["state"])
	assert.NotEmpty(t, block["text"])
}

func fakeBattery(t *testing.T, capacity, status string) {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "class", "power_supply", "BAT0")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "capacity"), []byte(capacity+"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "status"), []byte(status+"\n"), 0o644))
	t.Setenv(metrics.SysRootEnv, root)
}

func TestBattery(t *testing.T) {
	tests := []struct {
		name     string
		capacity string
		status   string
		args     []string
		want     string
	}{
		{
			name:     "discharging below warning",
			capacity: "45",
			status:   "Discharging",
			want:     "\uF57D 45%\n\uF57D 45%\n#FFFC00\n",
		},
		{
			name:     "discharging at critical",
			capacity: "30",
			status:   "Discharging",
			want:     "\uF57B 30%\n\uF57B 30%\n#FF0000\n",
		},
		{
			name:     "custom bounds",
			capacity: "45",
			status:   "Discharging",
			args:     []string{"-w", "40", "-c", "15"},
			want:     "\uF57D 45%\n\uF57D 45%\n",
		},
		{
			name:     "charging is never coloured",
			capacity: "10",
			status:   "Charging",
			want:     "\uF585 10%\n\uF585 10%\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withHome(t, "")
			fakeBattery(t, tt.capacity, tt.status)

			stdout, _, err := executeCommand(t, append([]string{"--output", "i3blocks", "battery"}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stdout)
		})
	}
}

func TestBattery_InvalidBounds(t *testing.T) {
	withHome(t, "")
	fakeBattery(t, "80", "Discharging")

	stdout, stderr, err := executeCommand(t, "--output", "i3blocks", "battery", "-w", "20", "-c", "40")
	requireExitCode(t, err, 1)
	assert.Empty(t, stdout)
	assert.NotEmpty(t, stderr)
}

func TestColorOverrides(t *testing.T) {
	fakeProc(t)

	tests := []struct {
		name   string
		config string
		args   []string
		want   string
	}{
		{
			name:   "i3blocks uses the override",
			config: "colors:\n  warning: \"#ffa500\"\n",
			args:   []string{"--output", "i3blocks", "mem"},
			want:   "5.0G\n5.0G\n#FFA500\n",
		},
		{
			name:   "other states keep the palette",
			config: "colors:\n  critical: \"#AA0000\"\n",
			args:   []string{"--output", "i3blocks", "mem"},
			want:   "5.0G\n5.0G\n#FFFC00\n",
		},
		{
			name:   "i3status-rust keeps the state",
			config: "colors:\n  warning: \"#FFA500\"\n",
			args:   []string{"--output", "i3status-rust", "mem", "-d", "used-percentage"},
			want:   `{"text":"62%","short_text":"62%","state":"Warning"}` + "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withHome(t, tt.config)

			stdout, _, err := executeCommand(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stdout)
		})
	}
}

func TestColorOverrides_Invalid(t *testing.T) {
	withHome(t, "colors:\n  warning: orange\n")
	fakeProc(t)

	stdout, stderr, err := executeCommand(t, "--output", "i3blocks", "mem")
	requireExitCode(t, err, 1)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "Invalid color")
}

// closedPort returns a local port nothing listens on.
func closedPort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func TestTCPCheck(t *testing.T) {
	withHome(t, "")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	open := strconv.Itoa(ln.Addr().(*net.TCPAddr).Port)
	closed := strconv.Itoa(closedPort(t))

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"open port", []string{"-o", "127.0.0.1", "-p", open}, "up\nup\n"},
		{"custom text", []string{"-o", "127.0.0.1", "-p", open, "-a", "nas"}, "nas\nnas\n"},
		{"closed port hides the block", []string{"-o", "127.0.0.1", "-p", closed}, ""},
		{"closed port with text", []string{"-o", "127.0.0.1", "-p", closed, "-u", "down"}, "down\ndown\n"},
		{"open port without text", []string{"-o", "127.0.0.1", "-p", open, "-a", ""}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--output", "i3blocks", "tcp-check", "--timeout", "500"}, tt.args...)
			stdout, _, err := executeCommand(t, args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stdout)
		})
	}
}

func TestTCPCheck_SSHAlias(t *testing.T) {
	withHome(t, "")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	port := ln.Addr().(*net.TCPAddr).Port

	sshConfig := filepath.Join(t.TempDir(), "config")
	content := "Host homelab\n  HostName 127.0.0.1\n  Port " + strconv.Itoa(port) + "\n"
	require.NoError(t, os.WriteFile(sshConfig, []byte(content), 0o600))

	stdout, _, err := executeCommand(t, "--output", "i3blocks", "tcp-check",
		"--ssh-alias", "homelab", "--ssh-config", sshConfig, "-a", "homelab")
	require.NoError(t, err)
	assert.Equal(t, "homelab\nhomelab\n", stdout)
}

func TestTCPCheck_InvalidPort(t *testing.T) {
	withHome(t, "")

	_, stderr, err := executeCommand(t, "--output", "i3blocks", "tcp-check", "-o", "127.0.0.1", "-p", "70000")
	requireExitCode(t, err, 1)
	assert.Contains(t, stderr, "Invalid port 70000")
}

func TestICMPCheck_RequiresIP(t *testing.T) {
	withHome(t, "")

	_, stderr, err := executeCommand(t, "--output", "i3blocks", "icmp-check")
	requireExitCode(t, err, 1)
	assert.Contains(t, stderr, "No IP provided")
}

func TestOctoprint(t *testing.T) {
	withHome(t, "")

	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		if r.URL.Path != "/api/job" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(octoprintJob))
	}))
	defer srv.Close()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"full", nil, "\U000F0E5B 62.0% 9h32m\n\U000F0E5B 62.0% 9h32m\n"},
		{"hide remaining time", []string{"-r"}, "\U000F0E5B 62.0%\n\U000F0E5B 62.0%\n"},
		{"short hide", []string{"--short-hide-remaining-time"}, "\U000F0E5B 62.0% 9h32m\n\U000F0E5B 62.0%\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--output", "i3blocks", "octoprint", "-u", srv.URL, "-a", "k3y"}, tt.args...)
			stdout, _, err := executeCommand(t, args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stdout)
			assert.Equal(t, "k3y", gotKey)
		})
	}
}

func TestOctoprint_Forbidden(t *testing.T) {
	withHome(t, "")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	stdout, stderr, err := executeCommand(t, "--output", "i3status-rust", "octoprint", "-u", srv.URL, "-a", "bad")
	requireExitCode(t, err, 1)
	assert.Empty(t, stderr)
	assert.Equal(t,
		`{"text":"Connection forbidden: invalid api key?","short_text":"Connection forbidden: invalid api key?","state":"Critical"}`+"\n",
		stdout)
}

func TestOctoprint_RefusedIsSilent(t *testing.T) {
	withHome(t, "")

	url := "http://127.0.0.1:" + strconv.Itoa(closedPort(t))
	stdout, stderr, err := executeCommand(t, "--output", "i3blocks", "octoprint", "-u", url, "-a", "k3y")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Empty(t, stderr)
}

func TestOctoprint_MissingKey(t *testing.T) {
	withHome(t, "")

	_, stderr, err := executeCommand(t, "--output", "i3blocks", "octoprint", "-u", "http://octopi.local")
	requireExitCode(t, err, 1)
	assert.Contains(t, stderr, "No api key provided")
}

func TestPrusaLink_Profile(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		_, _ = w.Write([]byte(`{"job":{"progress":62.0,"time_remaining":34320},"printer":{"state":"PRINTING"}}`))
	}))
	defer srv.Close()

	withHome(t, `
printers:
  mk4:
    backend: prusa-link
    url: `+srv.URL+`
    api_key: ${MK4_TOKEN}
    hide_remaining_time: true
  voron:
    backend: octoprint
    url: http://voron.local
    api_key: abc
`)
	t.Setenv("MK4_TOKEN", "s3cret")

	stdout, _, err := executeCommand(t, "--output", "i3blocks", "prusa-link", "--profile", "mk4")
	require.NoError(t, err)
	assert.Equal(t, "\U000F0E5B 62.0%\n\U000F0E5B 62.0%\n", stdout)
	assert.Equal(t, "s3cret", gotKey)

	// A flag set on the command line wins over the profile.
	stdout, _, err = executeCommand(t, "--output", "i3blocks", "prusa-link", "--profile", "mk4", "-t", "other", "-r=false")
	require.NoError(t, err)
	assert.Equal(t, "\U000F0E5B 62.0% 9h32m\n\U000F0E5B 62.0% 9h32m\n", stdout)
	assert.Equal(t, "other", gotKey)

	_, stderr, err := executeCommand(t, "--output", "i3blocks", "prusa-link", "--profile", "voron")
	requireExitCode(t, err, 1)
	assert.Contains(t, stderr, "is a octoprint printer, not prusa-link")
}

func TestPrusaLink_FlagAuthReplacesProfileAuth(t *testing.T) {
	var gotKey, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"printer":{"state":"IDLE"}}`))
	}))
	defer srv.Close()

	withHome(t, `
printers:
  digest:
    backend: prusa-link
    url: `+srv.URL+`
    login: maker
    password: hunter2
  token:
    backend: prusa-link
    url: `+srv.URL+`
    api_key: abc
`)

	_, _, err := executeCommand(t, "--output", "i3blocks", "prusa-link", "--profile", "digest", "-t", "flagtoken")
	require.NoError(t, err)
	assert.Equal(t, "flagtoken", gotKey)
	assert.Empty(t, gotAuth)

	gotKey = ""
	_, _, err = executeCommand(t, "--output", "i3blocks", "prusa-link", "--profile", "token", "-l", "maker", "-p", "pw")
	require.NoError(t, err)
	assert.Empty(t, gotKey, "the profile token is dropped for digest flags")
}

func TestPrusaLink_Finished(t *testing.T) {
	withHome(t, "")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"printer":{"state":"FINISHED"}}`))
	}))
	defer srv.Close()

	stdout, _, err := executeCommand(t, "--output", "i3blocks", "prusa-link", "-u", srv.URL, "-t", "x")
	require.NoError(t, err)
	assert.Equal(t, "\U000F042B \uF058\n\U000F042B \uF058\n#00FF00\n", stdout)
}

func TestBrokenConfigFile(t *testing.T) {
	withHome(t, "output: [not, a, string\n")
	fakeProc(t)

	stdout, stderr, err := executeCommand(t, "mem")
	requireExitCode(t, err, 1)
	assert.Empty(t, stdout)
	assert.NotEmpty(t, stderr)
}

func TestUnknownOutputFormat(t *testing.T) {
	withHome(t, "")
	fakeProc(t)

	_, stderr, err := executeCommand(t, "--output", "xml", "mem")
	requireExitCode(t, err, 1)
	assert.Contains(t, stderr, `Unknown output format "xml"`)
}
