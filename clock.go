package marker

import (
	"context"
	"time"
)

// Sleeper is the pacing suspension point of a run. The wall clock is the
// only production implementation.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type wallClock struct{}

func (wallClock) Sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
