package authform

import (
	"context"
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultSubmitDelay stands in for a backend round-trip.
const DefaultSubmitDelay = 1500 * time.Millisecond

// Submitter performs the backend side of a form submission. It must return
// promptly once ctx is cancelled.
type Submitter interface {
	Submit(ctx context.Context, mode Mode, fields FieldSet) error
}

// SubmitterFunc adapts a function to Submitter.
type SubmitterFunc func(ctx context.Context, mode Mode, fields FieldSet) error

func (f SubmitterFunc) Submit(ctx context.Context, mode Mode, fields FieldSet) error {
	return f(ctx, mode, fields)
}

// SimulatedBackend accepts every submission after a fixed delay.
type SimulatedBackend struct {
	clock  clockwork.Clock
	delay  time.Duration
	logger *slog.Logger
}

// NewSimulatedBackend returns a backend that waits delay on clock. A
// non-positive delay falls back to DefaultSubmitDelay.
func NewSimulatedBackend(clock clockwork.Clock, delay time.Duration, logger *slog.Logger) *SimulatedBackend {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if delay <= 0 {
		delay = DefaultSubmitDelay
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SimulatedBackend{clock: clock, delay: delay, logger: logger}
}

// Submit blocks for the configured delay or until ctx is cancelled.
// Field values are never logged.
func (b *SimulatedBackend) Submit(ctx context.Context, mode Mode, fields FieldSet) error {
	b.logger.Debug("simulated submit started", "mode", mode, "fields", len(fields), "delay", b.delay)

	timer := b.clock.NewTimer(b.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.Chan():
		return nil
	}
}
