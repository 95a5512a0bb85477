package api

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/lumina/iris-studio/internal/auth"
	"github.com/lumina/iris-studio/internal/generate"
	"github.com/lumina/iris-studio/internal/media"
	"github.com/lumina/iris-studio/internal/moderation"
	"github.com/lumina/iris-studio/internal/project"
	"github.com/lumina/iris-studio/internal/timeline"
)

var validate = validator.New()

type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	UptimeS int64  `json:"uptime_s"`
}

type StatusResponse struct {
	State         string  `json:"state"`
	ClipCount     int     `json:"clip_count"`
	TotalDuration float64 `json:"total_duration"`
	CurrentTime   float64 `json:"current_time"`
	Identity      string  `json:"identity,omitempty"`
	Banned        bool    `json:"banned"`
	JobsPending   int     `json:"jobs_pending"`
}

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name"`
	Password string `json:"password" validate:"required,min=4"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type SessionResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
	Provider string `json:"provider"`
}

type ProjectResponse struct {
	Version       uint64                 `json:"version"`
	Clips         []timeline.VideoClip   `json:"clips"`
	AudioTracks   []timeline.AudioTrack  `json:"audio_tracks"`
	TextOverlays  []timeline.TextOverlay `json:"text_overlays"`
	SelectedClip  string                 `json:"selected_clip_id,omitempty"`
	SelectedText  string                 `json:"selected_text_id,omitempty"`
	CurrentTime   float64                `json:"current_time"`
	IsPlaying     bool                   `json:"is_playing"`
	TotalDuration float64                `json:"total_duration"`
}

type AddClipRequest struct {
	URL      string  `json:"url" validate:"required"`
	Title    string  `json:"title"`
	Media    string  `json:"media" validate:"omitempty,oneof=video image"`
	Source   string  `json:"source" validate:"omitempty,oneof=local ai"`
	Duration float64 `json:"duration" validate:"omitempty,gt=0"`
}

type AddAudioRequest struct {
	URL      string  `json:"url" validate:"required"`
	Title    string  `json:"title"`
	Duration float64 `json:"duration" validate:"omitempty,gt=0"`
}

type AddTextRequest struct {
	Content string `json:"content" validate:"required"`
	Style   string `json:"style" validate:"omitempty,oneof=neon glitch minimal impact"`
}

type SeekRequest struct {
	Time float64 `json:"time" validate:"gte=0"`
}

type SetPlayingRequest struct {
	Playing bool `json:"playing"`
}

type SelectRequest struct {
	ClipID string `json:"clip_id"`
	TextID string `json:"text_id"`
}

type GenerateSubmitRequest struct {
	Kind   string `json:"kind" validate:"required,oneof=video image"`
	Prompt string `json:"prompt" validate:"required"`
}

type JobResponse struct {
	ID           string `json:"id"`
	Kind         string `json:"kind"`
	Prompt       string `json:"prompt"`
	Status       string `json:"status"`
	MediaURL     string `json:"media_url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Error        string `json:"error,omitempty"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

type JobsResponse struct {
	Jobs []JobResponse `json:"jobs"`
}

type MediaFileResponse struct {
	ID        string  `json:"id"`
	Filename  string  `json:"filename"`
	MediaType string  `json:"media_type"`
	Size      int64   `json:"size"`
	Duration  float64 `json:"duration"`
	CreatedAt string  `json:"created_at"`
}

type MediaFilesResponse struct {
	Files []MediaFileResponse `json:"files"`
}

type ExportRequest struct {
	Title     string  `json:"title"`
	Format    string  `json:"format" validate:"omitempty,oneof=edl manifest"`
	FrameRate float64 `json:"frame_rate" validate:"omitempty,gt=0"`
}

type UserResponse struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar"`
	IsBanned  bool   `json:"is_banned"`
	BanReason string `json:"ban_reason,omitempty"`
	UnbanAt   string `json:"unban_at,omitempty"`
	CreatedAt string `json:"created_at"`
}

type UsersResponse struct {
	Users []UserResponse `json:"users"`
}

type BanRequest struct {
	Reason        string `json:"reason"`
	DurationHours int    `json:"duration_hours" validate:"omitempty,gt=0"`
}

type WarnRequest struct {
	Seconds int `json:"seconds" validate:"omitempty,gt=0"`
}

type BanStateResponse struct {
	IsBanned         bool   `json:"is_banned"`
	BanReason        string `json:"ban_reason,omitempty"`
	IsWarningActive  bool   `json:"is_warning_active"`
	WarningCountdown int    `json:"warning_countdown,omitempty"`
	UnbanAt          string `json:"unban_at,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func SessionToResponse(s *auth.Session) SessionResponse {
	return SessionResponse{
		ID:       s.ID,
		Name:     s.Name,
		Email:    s.Email,
		Avatar:   s.Avatar,
		Provider: s.Provider,
	}
}

func SnapshotToResponse(snap project.Snapshot) ProjectResponse {
	resp := ProjectResponse{
		Version:       snap.Version,
		Clips:         snap.Clips,
		AudioTracks:   snap.AudioTracks,
		TextOverlays:  snap.TextOverlays,
		SelectedClip:  snap.SelectedClipID,
		SelectedText:  snap.SelectedTextID,
		CurrentTime:   snap.CurrentTime,
		IsPlaying:     snap.IsPlaying,
		TotalDuration: snap.TotalDuration(),
	}
	if resp.Clips == nil {
		resp.Clips = []timeline.VideoClip{}
	}
	if resp.AudioTracks == nil {
		resp.AudioTracks = []timeline.AudioTrack{}
	}
	if resp.TextOverlays == nil {
		resp.TextOverlays = []timeline.TextOverlay{}
	}
	return resp
}

func JobToResponse(j *generate.Job) JobResponse {
	return JobResponse{
		ID:           j.ID,
		Kind:         j.Kind,
		Prompt:       j.Prompt,
		Status:       j.Status,
		MediaURL:     j.MediaURL,
		ThumbnailURL: j.ThumbnailURL,
		Error:        j.Error,
		CreatedAt:    j.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    j.UpdatedAt.Format(time.RFC3339),
	}
}

func FileToResponse(f *media.File) MediaFileResponse {
	return MediaFileResponse{
		ID:        f.ID,
		Filename:  f.Filename,
		MediaType: f.MediaType,
		Size:      f.Size,
		Duration:  f.Duration,
		CreatedAt: f.CreatedAt.Format(time.RFC3339),
	}
}

func UserToResponse(u *moderation.User) UserResponse {
	resp := UserResponse{
		Email:     u.Email,
		Name:      u.Name,
		Avatar:    u.Avatar,
		IsBanned:  u.IsBanned,
		BanReason: u.BanReason,
		CreatedAt: u.CreatedAt.Format(time.RFC3339),
	}
	if u.UnbanAt != nil {
		resp.UnbanAt = u.UnbanAt.Format(time.RFC3339)
	}
	return resp
}

func BanStateToResponse(b moderation.BanState) BanStateResponse {
	resp := BanStateResponse{
		IsBanned:         b.IsBanned,
		BanReason:        b.BanReason,
		IsWarningActive:  b.IsWarningActive,
		WarningCountdown: b.WarningCountdown,
	}
	if b.UnbanAt != nil {
		resp.UnbanAt = b.UnbanAt.Format(time.RFC3339)
	}
	return resp
}
