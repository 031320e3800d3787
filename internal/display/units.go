// Package display turns readings into status bar text: unit conversion,
// percentages, CPU and I/O lines, reachability text and printer job lines.
package display

import (
	"fmt"
	"strings"

	"github.com/deimosfr/i3-status-info/internal/errors"
)

const step = 1024

// Unit is a binary byte unit.
type Unit int

const (
	KB Unit = iota + 1
	MB
	GB
)

// Units lists the accepted unit names.
var Units = []string{"kb", "mb", "gb"}

// ParseUnit accepts kb, mb or gb in any case.
func ParseUnit(name string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "kb":
		return KB, nil
	case "mb":
		return MB, nil
	case "gb":
		return GB, nil
	}
	return 0, errors.New(errors.ErrConfig,
		fmt.Sprintf("Unknown unit %q", name),
		"Use one of: "+strings.Join(Units, ", "))
}

func (u Unit) String() string {
	switch u {
	case KB:
		return "KB"
	case MB:
		return "MB"
	case GB:
		return "GB"
	default:
		return fmt.Sprintf("Unit(%d)", int(u))
	}
}

// Letter is the one letter suffix used for sizes.
func (u Unit) Letter() string {
	return u.String()[:1]
}

func (u Unit) divisor() float64 {
	d := 1.0
	for i := KB; i <= u; i++ {
		d *= step
	}
	return d
}

// Convert expresses a byte count in u.
func Convert(bytes uint64, u Unit) float64 {
	return float64(bytes) / u.divisor()
}

// FromMB expresses a megabyte amount in u.
func FromMB(mb float64, u Unit) float64 {
	switch u {
	case KB:
		return mb * step
	case GB:
		return mb / step
	default:
		return mb
	}
}

// Adaptive picks a unit for a megabyte amount: below 1 goes down to KB,
// above 1024 goes up to GB. It never steps more than once.
func Adaptive(mb float64) (float64, Unit) {
	switch {
	case mb < 1:
		return mb * step, KB
	case mb > step:
		return mb / step, GB
	default:
		return mb, MB
	}
}
