// Package timeline holds the composition model of a studio project:
// visual clips packed into a contiguous sequence, free-floating audio
// tracks and text overlays, and the resolver that selects the segments
// live at a given playhead time.
package timeline

import "github.com/google/uuid"

type SourceKind string

const (
	SourceLocal SourceKind = "local"
	SourceAI    SourceKind = "ai"
)

type MediaKind string

const (
	MediaVideo MediaKind = "video"
	MediaImage MediaKind = "image"
)

type OverlayStyle string

const (
	StyleNeon    OverlayStyle = "neon"
	StyleGlitch  OverlayStyle = "glitch"
	StyleMinimal OverlayStyle = "minimal"
	StyleImpact  OverlayStyle = "impact"
)

// Default segment durations in seconds used when the media itself does
// not carry one.
const (
	DefaultTextDuration  = 3.0
	DefaultVideoDuration = 5.0
	DefaultImageDuration = 4.0
	DefaultAudioDuration = 15.0
)

// Effects is the per-clip visual parameter bundle. All fields are
// required; Normalize establishes documented defaults for zero values.
type Effects struct {
	Speed      float64 `json:"speed"`      // playback rate multiplier, default 1
	Volume     int     `json:"volume"`     // 0-100, default 100
	Filter     string  `json:"filter"`     // named filter, default "None"
	Blur       float64 `json:"blur"`       // px, 0-20, default 0
	Brightness int     `json:"brightness"` // percent, 0-200, default 100
	Contrast   int     `json:"contrast"`   // percent, default 100
	Shake      bool    `json:"shake"`      // camera-shake flag, default off
}

// DefaultEffects returns the effects bundle every new clip starts with.
func DefaultEffects() Effects {
	return Effects{
		Speed:      1,
		Volume:     100,
		Filter:     "None",
		Blur:       0,
		Brightness: 100,
		Contrast:   100,
		Shake:      false,
	}
}

// Normalize fills defaults for fields left at their zero value. Volume
// is not touched: zero is a valid (muted) setting.
func (e Effects) Normalize() Effects {
	if e.Speed == 0 {
		e.Speed = 1
	}
	if e.Filter == "" {
		e.Filter = "None"
	}
	if e.Brightness == 0 {
		e.Brightness = 100
	}
	if e.Contrast == 0 {
		e.Contrast = 100
	}
	return e
}

// VideoClip is a visual segment of the packed sequence.
type VideoClip struct {
	ID        string     `json:"id"`
	Source    SourceKind `json:"source"`
	Media     MediaKind  `json:"media"`
	URL       string     `json:"url"`
	Title     string     `json:"title"`
	Thumbnail string     `json:"thumbnail,omitempty"`
	Prompt    string     `json:"prompt,omitempty"`
	StartTime float64    `json:"start_time"`
	Duration  float64    `json:"duration"`
	Effects   Effects    `json:"effects"`
}

// AudioTrack is a sound segment. Tracks are placed independently; no
// contiguity invariant applies.
type AudioTrack struct {
	ID        string  `json:"id"`
	URL       string  `json:"url"`
	Title     string  `json:"title"`
	StartTime float64 `json:"start_time"`
	Duration  float64 `json:"duration"`
	Volume    int     `json:"volume"`
}

// TextOverlay is a timed caption rendered over the active clip.
type TextOverlay struct {
	ID        string       `json:"id"`
	Content   string       `json:"content"`
	StartTime float64      `json:"start_time"`
	Duration  float64      `json:"duration"`
	Style     OverlayStyle `json:"style"`
	Color     string       `json:"color"`
}

func NewID() string {
	return uuid.NewString()
}

// NewVideoClip builds a clip with the default effects bundle. StartTime
// is assigned when the clip is appended to a sequence.
func NewVideoClip(source SourceKind, media MediaKind, url, title string, duration float64) VideoClip {
	if duration <= 0 {
		if media == MediaImage {
			duration = DefaultImageDuration
		} else {
			duration = DefaultVideoDuration
		}
	}
	return VideoClip{
		ID:       NewID(),
		Source:   source,
		Media:    media,
		URL:      url,
		Title:    title,
		Duration: duration,
		Effects:  DefaultEffects(),
	}
}

func NewAudioTrack(url, title string, duration float64) AudioTrack {
	if duration <= 0 {
		duration = DefaultAudioDuration
	}
	return AudioTrack{
		ID:       NewID(),
		URL:      url,
		Title:    title,
		Duration: duration,
		Volume:   100,
	}
}

// NewTextOverlay builds an overlay starting at the given playhead time
// with the default three-second duration.
func NewTextOverlay(content string, style OverlayStyle, playhead float64) TextOverlay {
	if style == "" {
		style = StyleMinimal
	}
	return TextOverlay{
		ID:        NewID(),
		Content:   content,
		StartTime: playhead,
		Duration:  DefaultTextDuration,
		Style:     style,
		Color:     "#FFFFFF",
	}
}

// covers reports whether t falls inside [start, start+duration). The end
// is exclusive so that adjacent segments never double-count a boundary.
func covers(start, duration, t float64) bool {
	return t >= start && t < start+duration
}
