// Package export turns a project into interchange formats an external
// editor can consume: a CMX-style EDL or a JSON manifest.
package export

import (
	"math"

	"github.com/lumina/iris-studio/internal/project"
)

const (
	FormatEDL      = "edl"
	FormatManifest = "manifest"
)

// ResolvedClip is a timeline clip flattened to export-ready fields.
// Times are milliseconds in the source media.
type ResolvedClip struct {
	ClipName  string
	MediaPath string
	StartMs   int
	EndMs     int
}

// Resolve flattens the project's clip sequence. Each clip plays from
// the start of its source media for its full timeline duration.
func Resolve(state project.State) []ResolvedClip {
	resolved := make([]ResolvedClip, 0, len(state.Clips))
	for _, clip := range state.Clips {
		name := SanitizeName(clip.Title, 64)
		if name == "" {
			name = "Untitled Clip"
		}
		resolved = append(resolved, ResolvedClip{
			ClipName:  name,
			MediaPath: clip.URL,
			StartMs:   0,
			EndMs:     toMs(clip.Duration),
		})
	}
	return resolved
}

func toMs(seconds float64) int {
	return int(math.Round(seconds * 1000))
}
