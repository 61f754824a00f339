package browser

import (
	"context"
	"time"
)

const (
	// DefaultScrollDelay is the wait after each scroll for lazy content
	DefaultScrollDelay = 900 * time.Millisecond
	// DefaultIdleRounds is how many consecutive no-growth checks end the scroll
	DefaultIdleRounds = 4
)

// Page is the capability the stabilizer needs from the automation
// driver: scroll instructions and the current scrollable height.
type Page interface {
	ScrollToBottom(ctx context.Context) error
	ScrollToTop(ctx context.Context) error
	ContentHeight(ctx context.Context) (float64, error)
}

// Stabilizer drives progressive scrolling of an infinite-scroll page
// until its content height stops growing, so every lazily-loaded card
// is present before extraction.
type Stabilizer struct {
	Delay      time.Duration
	IdleRounds int
}

// Settle scrolls to the bottom until the height has not grown for
// IdleRounds consecutive checks, then returns to the top. The idle
// counter resets whenever the height grows; there is no round cap
// here, the caller bounds the session through ctx.
func (s Stabilizer) Settle(ctx context.Context, page Page) error {
	delay := s.Delay
	if delay <= 0 {
		delay = DefaultScrollDelay
	}
	idleRounds := s.IdleRounds
	if idleRounds <= 0 {
		idleRounds = DefaultIdleRounds
	}

	var lastHeight float64
	idle := 0
	for idle < idleRounds {
		if err := page.ScrollToBottom(ctx); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}

		height, err := page.ContentHeight(ctx)
		if err != nil {
			return err
		}
		if height <= lastHeight {
			idle++
		} else {
			idle = 0
		}
		lastHeight = height
	}

	return page.ScrollToTop(ctx)
}
