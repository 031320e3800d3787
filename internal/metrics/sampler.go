package metrics

import (
	"context"
	"time"
)

// Default sampling intervals.
const (
	CPUSampleInterval = 500 * time.Millisecond
	IOSampleInterval  = time.Second
)

// Sampler takes two snapshots of a cumulative counter separated by a fixed delay.
// Sleep and Now are injectable for tests.
type Sampler struct {
	Interval time.Duration
	Sleep    func(ctx context.Context, d time.Duration) error
	Now      func() time.Time
}

// NewSampler returns a Sampler using the wall clock.
func NewSampler(interval time.Duration) Sampler {
	return Sampler{
		Interval: interval,
		Sleep:    sleepContext,
		Now:      time.Now,
	}
}

// Sample runs take, waits one interval and runs take again. elapsed is the
// measured time between the two snapshots in seconds, or the nominal interval
// when the clock did not move forward. It is always positive.
func Sample[T any](ctx context.Context, s Sampler, take func(context.Context) (T, error)) (first, second T, elapsed float64, err error) {
	now := s.Now
	if now == nil {
		now = time.Now
	}
	sleep := s.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	first, err = take(ctx)
	if err != nil {
		return first, second, 0, err
	}
	start := now()

	if err = sleep(ctx, s.Interval); err != nil {
		return first, second, 0, err
	}

	second, err = take(ctx)
	if err != nil {
		return first, second, 0, err
	}

	elapsed = now().Sub(start).Seconds()
	if elapsed <= 0 {
		elapsed = s.Interval.Seconds()
	}
	if elapsed <= 0 {
		elapsed = 1
	}
	return first, second, elapsed, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// rate returns (second - first) / elapsed for cumulative counters.
// A counter that went backwards (reset or wrap) reads as zero.
func rate(first, second uint64, elapsed float64) float64 {
	if second <= first || elapsed <= 0 {
		return 0
	}
	return float64(second-first) / elapsed
}

// share returns part/whole as a percentage, zero when whole is zero.
func share(part, whole uint64) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}

// delta is second-first clamped at zero.
func delta(first, second uint64) uint64 {
	if second < first {
		return 0
	}
	return second - first
}
