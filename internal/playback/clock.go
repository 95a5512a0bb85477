package playback

import (
	"context"
	"log/slog"
	"time"

	"github.com/lumina/iris-studio/internal/project"
)

// Clock advances the project playhead while the project is playing. It
// ticks every frame interval regardless of play state so that state
// changes are picked up promptly, and it advances time through the same
// Seek operation manual scrubbing uses; there is no separate path.
//
// The clock never clamps: stopping playback at the composition end is a
// collaborator decision, not the clock's.
type Clock struct {
	project *project.Store
	frames  Ticker
	logger  *slog.Logger

	lastTick time.Time
	primed   bool
}

func NewClock(store *project.Store, frames Ticker, logger *slog.Logger) *Clock {
	return &Clock{project: store, frames: frames, logger: logger}
}

// Run consumes frame ticks until the context is cancelled.
func (c *Clock) Run(ctx context.Context) error {
	defer c.frames.Stop()

	if c.logger != nil {
		c.logger.Info("playback clock started")
	}

	for {
		select {
		case <-ctx.Done():
			if c.logger != nil {
				c.logger.Info("playback clock stopping")
			}
			return nil
		case now := <-c.frames.C():
			c.tick(now)
		}
	}
}

// tick applies one frame. lastTick is updated even while paused, so
// resuming play never applies a stale, accumulated delta.
func (c *Clock) tick(now time.Time) {
	if !c.primed {
		c.lastTick = now
		c.primed = true
		return
	}

	delta := now.Sub(c.lastTick).Seconds()
	c.lastTick = now

	if delta <= 0 {
		return
	}

	snap := c.project.Snapshot()
	if !snap.IsPlaying {
		return
	}

	c.project.Seek(snap.CurrentTime + delta)
}
