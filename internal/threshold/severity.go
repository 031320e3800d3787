package threshold

import (
	"fmt"
	"strings"
)

// Severity classifies a reading. Values are ordered: a larger Severity is worse.
type Severity uint8

const (
	// Idle means nothing noteworthy.
	Idle Severity = iota
	// Info means the value crossed the first (warning) bound.
	Info
	// Good is only set explicitly, e.g. for a finished print job.
	Good
	// Warning means the value crossed the danger bound.
	Warning
	// Critical means the value reached the critical bound.
	Critical
)

var severityNames = [...]string{
	Idle:     "Idle",
	Info:     "Info",
	Good:     "Good",
	Warning:  "Warning",
	Critical: "Critical",
}

// String returns the i3status-rust state name for the severity.
func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return fmt.Sprintf("Severity(%d)", uint8(s))
}

// MarshalText produces the state name of this Severity.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name, case-insensitively.
func (s *Severity) UnmarshalText(text []byte) error {
	parsed, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseSeverity converts a state name into a Severity.
func ParseSeverity(name string) (Severity, error) {
	for i, n := range severityNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return Severity(i), nil
		}
	}
	return Idle, fmt.Errorf("unknown severity %q (want one of %s)", name, strings.Join(severityNames[:], ", "))
}
