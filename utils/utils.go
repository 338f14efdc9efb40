package utils

import (
	"context"
	"fmt"
	"slices"
	"time"
)

func AssertInvariant(condition bool, message string) {
	if !condition {
		panic("invariant violated - " + message)
	}
}

// ParseDebugLevel validates the value given to --debug
func ParseDebugLevel(value int) (int, error) {
	if !slices.Contains([]int{0, 1, 2, 9}, value) {
		return 0, fmt.Errorf("invalid debug level %d: expected one of 0, 1, 2, 9", value)
	}
	return value, nil
}

// SleepContext waits for d or until ctx is done, whichever comes first
func SleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
