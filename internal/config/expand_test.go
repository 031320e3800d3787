package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"tilde only", "~", home},
		{"tilde path", "~/.config/x.yaml", filepath.Join(home, ".config/x.yaml")},
		{"absolute", "/etc/x.yaml", "/etc/x.yaml"},
		{"other user", "~bob/x", "~bob/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandTilde(tt.input))
		})
	}
}

func TestExpandSecret(t *testing.T) {
	t.Setenv("OCTO_KEY", "abc123")

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"reference", "${OCTO_KEY}", "abc123"},
		{"unset reference", "${I3SI_SURELY_UNSET}", ""},
		{"literal", "plain-key", "plain-key"},
		{"literal with dollar", "pa$$word", "pa$$word"},
		{"partial reference", "x${OCTO_KEY}", "x${OCTO_KEY}"},
		{"empty name", "${}", "${}"},
		{"nested", "${A${B}}", "${A${B}}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExpandSecret(tt.input))
		})
	}
}
