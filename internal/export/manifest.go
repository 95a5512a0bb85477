package export

import (
	"encoding/json"
	"time"

	"github.com/lumina/iris-studio/internal/project"
	"github.com/lumina/iris-studio/internal/timeline"
)

// Manifest is the JSON export format. Unlike the EDL it carries the
// full composition: effects, audio tracks and text overlays.
type Manifest struct {
	Title         string                 `json:"title"`
	GeneratedAt   time.Time              `json:"generated_at"`
	TotalDuration float64                `json:"total_duration"`
	Clips         []timeline.VideoClip   `json:"clips"`
	AudioTracks   []timeline.AudioTrack  `json:"audio_tracks"`
	TextOverlays  []timeline.TextOverlay `json:"text_overlays"`
}

func GenerateManifest(state project.State, title string) ([]byte, error) {
	m := Manifest{
		Title:         title,
		GeneratedAt:   time.Now().UTC(),
		TotalDuration: state.TotalDuration(),
		Clips:         state.Clips,
		AudioTracks:   state.AudioTracks,
		TextOverlays:  state.TextOverlays,
	}
	if m.Clips == nil {
		m.Clips = []timeline.VideoClip{}
	}
	if m.AudioTracks == nil {
		m.AudioTracks = []timeline.AudioTrack{}
	}
	if m.TextOverlays == nil {
		m.TextOverlays = []timeline.TextOverlay{}
	}
	return json.MarshalIndent(m, "", "  ")
}
