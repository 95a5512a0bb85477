// Package project holds the aggregate editing state of a studio
// project and the store through which it is mutated. The store is the
// single source of truth: every mutation replaces the state wholesale
// (copy-on-write), which gives the persistence adapter and the UI layer
// cheap change detection.
package project

import "github.com/lumina/iris-studio/internal/timeline"

// State is the full editing state of a project. Selections are mutually
// exclusive: selecting a clip clears the text selection and vice versa.
type State struct {
	Clips          []timeline.VideoClip   `json:"clips"`
	AudioTracks    []timeline.AudioTrack  `json:"audio_tracks"`
	TextOverlays   []timeline.TextOverlay `json:"text_overlays"`
	SelectedClipID string                 `json:"selected_clip_id,omitempty"`
	SelectedTextID string                 `json:"selected_text_id,omitempty"`
	CurrentTime    float64                `json:"current_time"`
	IsPlaying      bool                   `json:"is_playing"`
}

// Empty returns a fresh project with no segments and a parked playhead.
func Empty() State {
	return State{}
}

// Clone deep-copies the state so callers can hand out snapshots without
// aliasing the store's segment slices.
func (s State) Clone() State {
	out := s
	if s.Clips != nil {
		out.Clips = make([]timeline.VideoClip, len(s.Clips))
		copy(out.Clips, s.Clips)
	}
	if s.AudioTracks != nil {
		out.AudioTracks = make([]timeline.AudioTrack, len(s.AudioTracks))
		copy(out.AudioTracks, s.AudioTracks)
	}
	if s.TextOverlays != nil {
		out.TextOverlays = make([]timeline.TextOverlay, len(s.TextOverlays))
		copy(out.TextOverlays, s.TextOverlays)
	}
	return out
}

// TotalDuration is the exclusive end of the packed clip sequence.
func (s State) TotalDuration() float64 {
	return timeline.TotalDuration(s.Clips)
}

// SelectedClip returns the currently selected clip, or nil.
func (s State) SelectedClip() *timeline.VideoClip {
	if s.SelectedClipID == "" {
		return nil
	}
	for i := range s.Clips {
		if s.Clips[i].ID == s.SelectedClipID {
			return &s.Clips[i]
		}
	}
	return nil
}
