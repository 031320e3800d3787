package threshold

import (
	"math"
	"testing"

	"github.com/deimosfr/i3-status-info/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	band := Band{Warning: 60, Danger: 70, Critical: 80}

	tests := []struct {
		name  string
		value float64
		want  Severity
	}{
		{name: "below warning", value: 10, want: Idle},
		{name: "at warning", value: 60, want: Info},
		{name: "between warning and danger", value: 65.5, want: Info},
		{name: "at danger", value: 70, want: Warning},
		{name: "at critical", value: 80, want: Critical},
		{name: "above critical", value: 100, want: Critical},
		{name: "negative", value: -5, want: Idle},
		{name: "NaN", value: math.NaN(), want: Idle},
		{name: "+Inf", value: math.Inf(1), want: Critical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(band, tt.value))
		})
	}
}

func TestClassify_CollapsedBandCriticalWins(t *testing.T) {
	band := Band{Warning: 50, Danger: 50, Critical: 50}

	assert.Equal(t, Critical, Classify(band, 50))
	assert.Equal(t, Idle, Classify(band, 49.999))
}

func TestClassify_AtCriticalIsCritical(t *testing.T) {
	bands := []Band{
		{Warning: 0, Danger: 0, Critical: 0},
		{Warning: 1, Danger: 2, Critical: 3},
		{Warning: 10, Danger: 55, Critical: 100},
		{Warning: -10, Danger: -5, Critical: -1},
	}
	for _, b := range bands {
		assert.Equal(t, Critical, Classify(b, b.Critical), "band %+v", b)
	}
}

func TestClassify_Monotonic(t *testing.T) {
	bands := []Band{
		{Warning: 60, Danger: 70, Critical: 80},
		{Warning: 5, Danger: 5, Critical: 10},
		{Warning: 0, Danger: 50, Critical: 50},
		{Warning: 33, Danger: 33, Critical: 33},
	}

	for _, b := range bands {
		prev := Classify(b, -1000)
		for v := -10.0; v <= 120; v += 0.25 {
			got := Classify(b, v)
			require.GreaterOrEqual(t, got, prev, "band %+v not monotonic at %v", b, v)
			prev = got
		}
	}
}

func TestClassifyReverse(t *testing.T) {
	band := Band{Warning: 30, Danger: 20, Critical: 10}

	tests := []struct {
		value float64
		want  Severity
	}{
		{value: 90, want: Idle},
		{value: 30, want: Info},
		{value: 25, want: Info},
		{value: 20, want: Warning},
		{value: 10, want: Critical},
		{value: 0, want: Critical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ClassifyReverse(band, tt.value), "value %v", tt.value)
	}
}

func TestClassifyReverse_MonotonicNonIncreasing(t *testing.T) {
	band := Band{Warning: 40, Danger: 25, Critical: 10}
	prev := ClassifyReverse(band, -1)
	for v := 0.0; v <= 100; v += 0.5 {
		got := ClassifyReverse(band, v)
		require.LessOrEqual(t, got, prev, "not monotonic at %v", v)
		prev = got
	}
}

func TestNewBand(t *testing.T) {
	tests := []struct {
		name     string
		w, d, c  float64
		wantErr  bool
		wantBand Band
	}{
		{name: "ordered", w: 60, d: 70, c: 80, wantBand: Band{60, 70, 80}},
		{name: "collapsed", w: 50, d: 50, c: 50, wantBand: Band{50, 50, 50}},
		{name: "warning above danger", w: 75, d: 70, c: 80, wantErr: true},
		{name: "danger above critical", w: 60, d: 90, c: 80, wantErr: true},
		{name: "NaN", w: math.NaN(), d: 1, c: 2, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewBand(tt.w, tt.d, tt.c)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, errors.ErrConfig))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantBand, b)
		})
	}
}

func TestNewReverseBand(t *testing.T) {
	_, err := NewReverseBand(30, 20, 10)
	require.NoError(t, err)

	_, err = NewReverseBand(10, 20, 30)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrConfig))
}

func TestNewPercentBand(t *testing.T) {
	tests := []struct {
		name     string
		w, c     float64
		want     Band
		errorMsg string
	}{
		{name: "defaults", w: 60, c: 80, want: Band{60, 60, 80}},
		{name: "equal bounds", w: 50, c: 50, want: Band{50, 50, 50}},
		{name: "warning too low", w: 0, c: 80, errorMsg: "between 1 and 99"},
		{name: "warning too high", w: 100, c: 100, errorMsg: "between 1 and 99"},
		{name: "critical too low", w: 1, c: 1, errorMsg: "between 2 and 100"},
		{name: "critical too high", w: 10, c: 101, errorMsg: "between 2 and 100"},
		{name: "inverted", w: 90, c: 20, errorMsg: "can't be greater than critical"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewPercentBand(tt.w, tt.c)
			if tt.errorMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				assert.True(t, errors.IsCode(err, errors.ErrConfig))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, b)
		})
	}
}

func TestNewWarningBand_WarningFromWarningBound(t *testing.T) {
	band, err := NewWarningBand(60, 80)
	require.NoError(t, err)

	assert.Equal(t, Idle, Classify(band, 59.9))
	assert.Equal(t, Warning, Classify(band, 60))
	assert.Equal(t, Warning, Classify(band, 62))
	assert.Equal(t, Critical, Classify(band, 80))

	_, err = NewWarningBand(8, 4)
	assert.Error(t, err)
}

func TestNewReversePercentBand(t *testing.T) {
	tests := []struct {
		name     string
		w, c     float64
		want     Band
		errorMsg string
	}{
		{name: "battery defaults", w: 50, c: 30, want: Band{50, 50, 30}},
		{name: "equal bounds", w: 20, c: 20, want: Band{20, 20, 20}},
		{name: "warning too low", w: 1, c: 1, errorMsg: "between 2 and 100"},
		{name: "critical too high", w: 100, c: 100, errorMsg: "between 1 and 99"},
		{name: "inverted", w: 20, c: 40, errorMsg: "can't be lower than critical"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := NewReversePercentBand(tt.w, tt.c)
			if tt.errorMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorMsg)
				assert.True(t, errors.IsCode(err, errors.ErrConfig))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, b)
		})
	}

	band, err := NewReversePercentBand(50, 30)
	require.NoError(t, err)
	assert.Equal(t, Idle, ClassifyReverse(band, 51))
	assert.Equal(t, Warning, ClassifyReverse(band, 50))
	assert.Equal(t, Critical, ClassifyReverse(band, 30))
}

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "Idle", Idle.String())
	assert.Equal(t, "Info", Info.String())
	assert.Equal(t, "Good", Good.String())
	assert.Equal(t, "Warning", Warning.String())
	assert.Equal(t, "Critical", Critical.String())
	assert.Equal(t, "Severity(42)", Severity(42).String())
}

func TestSeverity_Order(t *testing.T) {
	assert.Less(t, Idle, Info)
	assert.Less(t, Info, Good)
	assert.Less(t, Good, Warning)
	assert.Less(t, Warning, Critical)
}

func TestParseSeverity(t *testing.T) {
	s, err := ParseSeverity("warning")
	require.NoError(t, err)
	assert.Equal(t, Warning, s)

	var text Severity
	require.NoError(t, text.UnmarshalText([]byte("Critical")))
	assert.Equal(t, Critical, text)

	_, err = ParseSeverity("urgent")
	assert.Error(t, err)

	b, err := Good.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "Good", string(b))
}
