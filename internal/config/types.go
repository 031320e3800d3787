package config

import (
	"time"

	"github.com/deimosfr/i3-status-info/internal/printer"
)

// CurrentConfigVersion is the schema version for the config file.
// Increment when making breaking changes to the config structure.
const CurrentConfigVersion = 1

// Printer backends accepted in a profile.
const (
	BackendOctoprint = "octoprint"
	BackendPrusaLink = "prusa-link"
)

// Config represents the complete config.yaml file.
type Config struct {
	Version  int                `yaml:"version" mapstructure:"version"`
	Output   string             `yaml:"output" mapstructure:"output"`
	Debug    bool               `yaml:"debug" mapstructure:"debug"`
	Printers map[string]Printer `yaml:"printers" mapstructure:"printers"`

	// Colors replaces the i3blocks and terminal colour of a state, e.g.
	// warning: "#FFA500". i3status-rust colours states with its own theme.
	Colors map[string]string `yaml:"colors,omitempty" mapstructure:"colors"`
}

// Printer is a named connection profile for the octoprint and prusa-link
// commands.
type Printer struct {
	// Backend is "octoprint" or "prusa-link".
	Backend string `yaml:"backend" mapstructure:"backend"`

	// URL is the base URL of the printer web interface.
	URL string `yaml:"url" mapstructure:"url"`

	// APIKey is the OctoPrint API key or the PrusaLink token.
	APIKey string `yaml:"api_key,omitempty" mapstructure:"api_key"`

	// Login and Password enable PrusaLink digest authentication.
	Login    string `yaml:"login,omitempty" mapstructure:"login"`
	Password string `yaml:"password,omitempty" mapstructure:"password"`

	// Timeout bounds the status request. Zero means the default.
	Timeout time.Duration `yaml:"timeout,omitempty" mapstructure:"timeout"`

	// HideRemainingTime drops the remaining time from the job line.
	HideRemainingTime bool `yaml:"hide_remaining_time,omitempty" mapstructure:"hide_remaining_time"`
}

// Options converts the profile to backend options. Secrets go through
// environment expansion so the file can reference ${VARS}.
func (p Printer) Options() printer.Options {
	opts := p.RawOptions()
	opts.APIKey = ExpandSecret(opts.APIKey)
	opts.Password = ExpandSecret(opts.Password)
	return opts
}

// RawOptions converts the profile as written. A ${VAR} secret counts as set
// whether or not the variable exists yet.
func (p Printer) RawOptions() printer.Options {
	return printer.Options{
		BaseURL:  p.URL,
		APIKey:   p.APIKey,
		Login:    p.Login,
		Password: p.Password,
		Timeout:  p.Timeout,
	}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version:  CurrentConfigVersion,
		Output:   "auto",
		Printers: make(map[string]Printer),
	}
}
