// Package media manages locally imported assets: storing uploads on
// disk, cataloguing them, and streaming them back with HTTP range
// support.
package media

import (
	"time"

	"github.com/lumina/iris-studio/internal/timeline"
)

const (
	TypeVideo = "video"
	TypeImage = "image"
	TypeAudio = "audio"
)

// File is a catalogued local asset.
type File struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Path      string    `json:"-"`
	MediaType string    `json:"media_type"`
	Size      int64     `json:"size"`
	Duration  float64   `json:"duration"`
	CreatedAt time.Time `json:"created_at"`
}

// DefaultDuration is the timeline length assigned to an imported asset
// when its real duration is unknown.
func DefaultDuration(mediaType string) float64 {
	switch mediaType {
	case TypeImage:
		return timeline.DefaultImageDuration
	case TypeAudio:
		return timeline.DefaultAudioDuration
	default:
		return timeline.DefaultVideoDuration
	}
}

// TypeForExtension classifies a filename extension into a media type.
// Unknown extensions are treated as video.
func TypeForExtension(ext string) string {
	switch ext {
	case ".mp3", ".wav", ".ogg", ".m4a", ".flac", ".aac":
		return TypeAudio
	case ".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".svg":
		return TypeImage
	default:
		return TypeVideo
	}
}
