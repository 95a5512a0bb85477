// Package generate runs AI media generation as background jobs. The
// backend is opaque: a prompt goes in, a playable media URL comes out,
// possibly after tens of seconds. Completed assets are appended to the
// project through the same operation any other clip uses; results that
// arrive after their job was cancelled or deleted are discarded.
package generate

import (
	"time"

	"github.com/google/uuid"
)

const (
	KindVideo = "video"
	KindImage = "image"

	StatusPending   = "pending"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
)

// Job is a persisted generation request.
type Job struct {
	ID           string    `json:"id"`
	Kind         string    `json:"kind"`
	Prompt       string    `json:"prompt"`
	Status       string    `json:"status"`
	MediaURL     string    `json:"media_url,omitempty"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	Error        string    `json:"error,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Asset is the result of a successful generation.
type Asset struct {
	MediaURL     string `json:"media_url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
}

func NewJob(kind, prompt string) *Job {
	now := time.Now()
	return &Job{
		ID:        uuid.NewString(),
		Kind:      kind,
		Prompt:    prompt,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
