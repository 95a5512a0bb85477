package playback

import (
	"math"

	"github.com/lumina/iris-studio/internal/timeline"
)

// DriftTolerance is how far (seconds) a media element's native position
// may drift from the computed playhead before it is re-seeked. Constant
// re-seeking causes visible stutter, so small drift is left alone.
const DriftTolerance = 0.15

// ClipLocalTime converts the project playhead into the active clip's
// own time base.
func ClipLocalTime(clip *timeline.VideoClip, playhead float64) float64 {
	return playhead - clip.StartTime
}

// NeedsResync reports whether the media element should be re-seeked to
// the target position.
func NeedsResync(mediaPosition, target float64) bool {
	return math.Abs(mediaPosition-target) > DriftTolerance
}
