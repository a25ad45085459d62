package service

import (
	"math"
	"time"
)

const (
	// graceMinutes is the free period at the start of every stay.
	graceMinutes = 15.0

	// ratePerMinute is the per-minute price in minor currency units once the
	// grace period is exceeded.
	ratePerMinute = 100.0
)

// ComputeFee maps a stay to its price. A zero exit time means "now". The
// duration is clamped at zero so a skewed clock or back-dated entry yields a
// zero fee instead of a negative one. Registered vehicles are zeroed by the
// caller; this function knows nothing about registration.
func ComputeFee(entry, exit time.Time, now func() time.Time) (int64, time.Time) {
	if exit.IsZero() {
		exit = now()
	}

	minutes := exit.Sub(entry).Minutes()
	if minutes < 0 {
		minutes = 0
	}

	if minutes <= graceMinutes {
		return 0, exit
	}

	return int64(math.Round(minutes * ratePerMinute)), exit
}
