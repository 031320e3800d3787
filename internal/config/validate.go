package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/deimosfr/i3-status-info/internal/errors"
)

// OutputFormats are the accepted values of the output key.
var OutputFormats = []string{"auto", "i3blocks", "i3status-rust", "terminal"}

// Validate checks the config for errors and returns structured error messages.
func Validate(cfg *Config) error {
	if cfg.Version > CurrentConfigVersion {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("This config is from the future (version %d, but i3-status-info only knows up to %d)", cfg.Version, CurrentConfigVersion),
			"Upgrade i3-status-info or lower the version key")
	}

	if err := validateOutput(cfg.Output); err != nil {
		return err
	}
	if _, err := cfg.ColorOverrides(); err != nil {
		return err
	}

	names := make([]string, 0, len(cfg.Printers))
	for name := range cfg.Printers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if err := ValidatePrinter(name, cfg.Printers[name]); err != nil {
			return err
		}
	}
	return nil
}

func validateOutput(output string) error {
	if output == "" {
		return nil
	}
	for _, f := range OutputFormats {
		if output == f {
			return nil
		}
	}
	return errors.New(errors.ErrConfig,
		fmt.Sprintf("Unknown output format '%s'", output),
		"Use one of: "+strings.Join(OutputFormats, ", "))
}

// ValidatePrinter checks one printer profile with the same rules the backend
// applies to command line flags. Secrets are checked as written; ${VAR}
// references are only resolved when the printer is polled.
func ValidatePrinter(name string, p Printer) error {
	if strings.TrimSpace(name) == "" || strings.ContainsAny(name, " \t\n") {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Printer name '%s' is not valid", name),
			"Use a single word, like 'mk4' or 'ender'")
	}

	var digestAllowed bool
	switch p.Backend {
	case BackendOctoprint:
	case BackendPrusaLink:
		digestAllowed = true
	case "":
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Printer '%s' has no backend", name),
			"Set backend to 'octoprint' or 'prusa-link'")
	default:
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Printer '%s' has unknown backend '%s'", name, p.Backend),
			"Set backend to 'octoprint' or 'prusa-link'")
	}

	if err := p.RawOptions().Validate(digestAllowed); err != nil {
		return errors.New(errors.ErrConfig,
			fmt.Sprintf("Printer '%s': %s", name, errors.ShortMessage(err)),
			"Check the 'printers' section of your config file")
	}
	return nil
}

// Profile returns a printer profile by name, checked against the backend the
// calling command expects.
func (c *Config) Profile(name, backend string) (Printer, error) {
	p, ok := c.Printers[name]
	if !ok {
		return Printer{}, errors.New(errors.ErrConfig,
			fmt.Sprintf("Printer profile '%s' not found", name),
			"Add it with 'i3-status-info config init' or check the 'printers' section")
	}
	if p.Backend != backend {
		return Printer{}, errors.New(errors.ErrConfig,
			fmt.Sprintf("Printer profile '%s' is a %s printer, not %s", name, p.Backend, backend),
			"Use the command matching the profile backend")
	}
	return p, nil
}
