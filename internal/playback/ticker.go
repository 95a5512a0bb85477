// Package playback drives the preview playhead: a frame-interval clock
// that advances project time with wall-clock deltas while playing, and
// the drift rule for keeping a real media element in step with the
// computed playhead.
package playback

import "time"

// Ticker is the periodic tick source the clock runs on. Production code
// wraps time.Ticker; tests feed a channel by hand to advance a virtual
// clock without waiting on real timers.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type realTicker struct {
	t *time.Ticker
}

func NewTicker(interval time.Duration) Ticker {
	return &realTicker{t: time.NewTicker(interval)}
}

func (r *realTicker) C() <-chan time.Time {
	return r.t.C
}

func (r *realTicker) Stop() {
	r.t.Stop()
}
