package util

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Pacer spaces out consecutive calls. The extractors share one so that
// requests to different sites are spaced too; the dispatcher uses its own for
// inter-message delay.
type Pacer interface {
	Wait(ctx context.Context) error
}

type ratePacer struct {
	lim *rate.Limiter
}

// NewPacer returns a Pacer that lets the first call through and then one call
// per gap. A gap <= 0 disables pacing.
func NewPacer(gap time.Duration) Pacer {
	if gap <= 0 {
		return NoPacing()
	}
	return ratePacer{lim: rate.NewLimiter(rate.Every(gap), 1)}
}

func (p ratePacer) Wait(ctx context.Context) error {
	return p.lim.Wait(ctx)
}

type noPacing struct{}

func (noPacing) Wait(ctx context.Context) error { return ctx.Err() }

// NoPacing never waits. Tests use it.
func NoPacing() Pacer { return noPacing{} }
