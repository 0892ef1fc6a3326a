package utils

import (
	"context"
	"math/rand/v2"
	"strings"
	"time"
)

// WaitFor blocks for d or until ctx is done, whichever comes first.
func WaitFor(ctx context.Context, d time.Duration) error {
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

// Jitter returns a uniformly distributed duration in [lo, hi]. Bounds given in
// the wrong order are swapped.
func Jitter(lo, hi time.Duration, float func() float64) time.Duration {
	if hi < lo {
		lo, hi = hi, lo
	}
	if float == nil {
		float = rand.Float64
	}
	return lo + time.Duration(float()*float64(hi-lo))
}

// TruncateForLog shortens the provided string to the specified limit, appending an ellipsis when truncated.
func TruncateForLog(s string, limit int) string {
	s = strings.TrimSpace(s)
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}
