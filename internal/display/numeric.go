package display

import (
	"fmt"
	"strings"

	"github.com/deimosfr/i3-status-info/internal/errors"
	"github.com/deimosfr/i3-status-info/internal/metrics"
	"github.com/deimosfr/i3-status-info/internal/render"
	"github.com/deimosfr/i3-status-info/internal/threshold"
)

// SizeStyle selects what a memory or disk line shows.
type SizeStyle string

const (
	Used                SizeStyle = "used"
	Remaining           SizeStyle = "remaining"
	UsedPercentage      SizeStyle = "used-percentage"
	RemainingPercentage SizeStyle = "remaining-percentage"
)

// SizeStyles lists the accepted size styles.
var SizeStyles = []string{string(Used), string(Remaining), string(UsedPercentage), string(RemainingPercentage)}

// ParseSizeStyle validates a size style name.
func ParseSizeStyle(name string) (SizeStyle, error) {
	for _, s := range SizeStyles {
		if name == s {
			return SizeStyle(s), nil
		}
	}
	return "", errors.New(errors.ErrConfig,
		fmt.Sprintf("Unknown display %q", name),
		"Use one of: "+strings.Join(SizeStyles, ", "))
}

// CPUStyle selects per-core or averaged CPU output.
type CPUStyle string

const (
	AllCores CPUStyle = "all"
	Average  CPUStyle = "average"
)

// ParseCPUStyle validates a CPU style name.
func ParseCPUStyle(name string) (CPUStyle, error) {
	switch CPUStyle(name) {
	case AllCores, Average:
		return CPUStyle(name), nil
	}
	return "", errors.New(errors.ErrConfig,
		fmt.Sprintf("Unknown display %q", name),
		"Use one of: all, average")
}

// Size formats used or remaining bytes, or the matching integer percentage.
// Percentages are truncated, and remaining percentage is 100 minus the
// truncated used percentage.
func Size(used, total uint64, usedPercent float64, style SizeStyle, unit Unit) string {
	switch style {
	case UsedPercentage:
		return fmt.Sprintf("%d%%", int(usedPercent))
	case RemainingPercentage:
		return fmt.Sprintf("%d%%", 100-int(usedPercent))
	case Remaining:
		free := Convert(total, unit) - Convert(used, unit)
		return fmt.Sprintf("%.1f%s", free, unit.Letter())
	default:
		return fmt.Sprintf("%.1f%s", Convert(used, unit), unit.Letter())
	}
}

// Memory builds the memory line, coloured by used percentage.
func Memory(r *metrics.MemoryReading, style SizeStyle, unit Unit, band threshold.Band) *render.Output {
	return sameLines(Size(r.UsedBytes, r.TotalBytes, r.UsedPercent, style, unit),
		threshold.Classify(band, r.UsedPercent))
}

// Disk builds the disk usage line, coloured by used percentage.
func Disk(r *metrics.DiskReading, style SizeStyle, unit Unit, band threshold.Band) *render.Output {
	return sameLines(Size(r.UsedBytes, r.TotalBytes, r.UsedPercent, style, unit),
		threshold.Classify(band, r.UsedPercent))
}

// CPU builds the CPU line. The colour always follows the average.
func CPU(r *metrics.CPUReading, style CPUStyle, band threshold.Band) *render.Output {
	var text string
	switch style {
	case AllCores:
		cores := make([]string, len(r.PerCore))
		for i, v := range r.PerCore {
			cores[i] = fmt.Sprintf("%02d%%", uint8(v))
		}
		text = strings.Join(cores, " ")
	default:
		text = fmt.Sprintf("%.1f%%", r.Average)
		// keeps the width of "99.9%"
		if r.Average == 100 {
			text = "100"
		}
	}
	return sameLines(text, threshold.Classify(band, r.Average))
}

// IOBands are the bounds used to colour each part of the disk-io line.
type IOBands struct {
	Throughput threshold.Band
	IOWait     threshold.Band
}

// IO builds the disk-io line. A nil unit adapts each rate on its own. Every
// part is coloured with a pango span; the block as a whole has no colour.
func IO(r *metrics.IOReading, unit *Unit, bands IOBands) *render.Output {
	rate := func(mb float64) string {
		value, u := Adaptive(mb)
		if unit != nil {
			value, u = FromMB(mb, *unit), *unit
		}
		return span(fmt.Sprintf("%5.1f%s/s", value, u), threshold.Classify(bands.Throughput, mb))
	}
	wait := span(fmt.Sprintf("%3.1f%%", r.IOWaitPercent), threshold.Classify(bands.IOWait, r.IOWaitPercent))

	text := strings.Join([]string{rate(r.ReadMBps), rate(r.WriteMBps), wait}, " ")
	return &render.Output{Long: text, Short: text}
}

var spanColors = map[threshold.Severity]string{
	threshold.Info:     "#FFFC00",
	threshold.Warning:  "#FFFC00",
	threshold.Critical: "#FF0000",
	threshold.Good:     "#00FF00",
}

func span(text string, s threshold.Severity) string {
	color, ok := spanColors[s]
	if !ok {
		return text
	}
	return fmt.Sprintf("<span foreground='%s'>%s</span>", color, text)
}

// Load builds the load average line, coloured by the 1 minute average.
func Load(r *metrics.LoadReading, band threshold.Band) *render.Output {
	text := fmt.Sprintf("%.2f/%.2f/%.2f", r.Load1, r.Load5, r.Load15)
	return sameLines(text, threshold.Classify(band, r.Load1))
}

var (
	drainingIcons = [5]string{"\uF579", "\uF57B", "\uF57D", "\uF580", "\uF578"}
	chargingIcons = [5]string{"\uF585", "\uF586", "\uF587", "\uF58A", "\uF583"}
)

// BatteryIcon picks the gauge glyph for a charge level.
func BatteryIcon(capacity int, status metrics.BatteryStatus) string {
	icons := chargingIcons
	if status.Draining() {
		icons = drainingIcons
	}
	switch {
	case capacity < 20:
		return icons[0]
	case capacity < 40:
		return icons[1]
	case capacity < 60:
		return icons[2]
	case capacity < 85:
		return icons[3]
	default:
		return icons[4]
	}
}

// Battery builds the battery line. It is coloured only while discharging,
// and lower charge is worse.
func Battery(r *metrics.BatteryReading, band threshold.Band) *render.Output {
	text := fmt.Sprintf("%s %d%%", BatteryIcon(r.Capacity, r.Status), r.Capacity)
	severity := threshold.Idle
	if r.Status == metrics.BatteryDischarging {
		severity = threshold.ClassifyReverse(band, float64(r.Capacity))
	}
	return sameLines(text, severity)
}

// Reachability returns the configured text for the outcome, or nil when no
// text was configured for it.
func Reachability(r *metrics.ReachabilityReading, availableText, unavailableText string) *render.Output {
	text := unavailableText
	if r.Available {
		text = availableText
	}
	if text == "" {
		return nil
	}
	return &render.Output{Long: text, Short: text}
}

func sameLines(text string, s threshold.Severity) *render.Output {
	return &render.Output{Long: text, Short: text, Color: render.SeverityColor(s)}
}
