package config

import (
	"fmt"
	"sort"

	"github.com/deimosfr/i3-status-info/internal/errors"
	"github.com/deimosfr/i3-status-info/internal/render"
	"github.com/deimosfr/i3-status-info/internal/threshold"
)

// ColorOverrides parses the colors section. Keys are state names matched
// without regard to case; values are #RRGGBB codes.
func (c *Config) ColorOverrides() (map[threshold.Severity]render.Color, error) {
	if len(c.Colors) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(c.Colors))
	for name := range c.Colors {
		names = append(names, name)
	}
	sort.Strings(names)

	overrides := make(map[threshold.Severity]render.Color, len(c.Colors))
	for _, name := range names {
		code := c.Colors[name]
		var s threshold.Severity
		if err := s.UnmarshalText([]byte(name)); err != nil {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				fmt.Sprintf("Unknown state '%s' in colors", name),
				"Use one of: info, good, warning, critical")
		}
		if s == threshold.Idle {
			return nil, errors.New(errors.ErrConfig,
				"The idle state has no colour to replace",
				"Remove 'idle' from the colors section")
		}

		color, err := render.RawColor(code)
		if err != nil {
			return nil, errors.New(errors.ErrConfig,
				fmt.Sprintf("colors.%s: %s", name, errors.ShortMessage(err)),
				"Use the #RRGGBB form")
		}
		overrides[s] = color
	}
	return overrides, nil
}
