package generate

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/lumina/iris-studio/internal/logging"
	"github.com/lumina/iris-studio/internal/project"
	"github.com/lumina/iris-studio/internal/timeline"
)

// Runner polls for pending generation jobs and executes them one at a
// time. Completed assets land on the timeline as new clips; results for
// jobs that were cancelled or deleted while in flight are discarded.
type Runner struct {
	repo     Repository
	client   Client
	project  *project.Store
	logger   *slog.Logger
	interval time.Duration

	running atomic.Bool
	paused  atomic.Bool
}

func NewRunner(repo Repository, client Client, proj *project.Store, logger *slog.Logger, interval time.Duration) *Runner {
	if interval <= 0 {
		interval = 8 * time.Second
	}
	return &Runner{
		repo:     repo,
		client:   client,
		project:  proj,
		logger:   logging.WithComponent(logger, "generate"),
		interval: interval,
	}
}

func (r *Runner) Pause()  { r.paused.Store(true) }
func (r *Runner) Resume() { r.paused.Store(false) }

func (r *Runner) IsPaused() bool  { return r.paused.Load() }
func (r *Runner) IsRunning() bool { return r.running.Load() }

// Run blocks until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info("generation runner started", "interval", r.interval.String())

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("generation runner stopped")
			return
		case <-ticker.C:
			if r.paused.Load() {
				continue
			}
			r.ProcessNext(ctx)
		}
	}
}

// ProcessNext claims and executes the oldest pending job, if any.
func (r *Runner) ProcessNext(ctx context.Context) {
	if !r.running.CompareAndSwap(false, true) {
		return
	}
	defer r.running.Store(false)

	job, err := r.repo.NextPendingJob(ctx)
	if err != nil {
		r.logger.Error("failed to fetch pending job", "error", err)
		return
	}
	if job == nil {
		return
	}

	log := logging.WithJobID(r.logger, job.ID)
	log.Info("processing generation job", "kind", job.Kind, "prompt", job.Prompt)

	if err := r.repo.UpdateJobStatus(ctx, job.ID, StatusRunning, ""); err != nil {
		log.Error("failed to mark job running", "error", err)
		return
	}

	asset, err := r.client.Generate(ctx, job.Kind, job.Prompt)
	if err != nil {
		log.Error("generation failed", "error", err)
		if uerr := r.repo.UpdateJobStatus(ctx, job.ID, StatusFailed, err.Error()); uerr != nil {
			log.Error("failed to mark job failed", "error", uerr)
		}
		return
	}

	// The job may have been cancelled or deleted while the backend was
	// working. Only a still-running job may apply its result.
	current, err := r.repo.GetJob(ctx, job.ID)
	if err != nil {
		log.Error("failed to re-fetch job", "error", err)
		return
	}
	if current == nil || current.Status != StatusRunning {
		log.Info("discarding stale generation result")
		return
	}

	if err := r.repo.CompleteJob(ctx, job.ID, asset); err != nil {
		log.Error("failed to mark job completed", "error", err)
		return
	}

	clip := timeline.NewVideoClip(timeline.SourceAI, mediaKindFor(job.Kind), asset.MediaURL, clipTitle(job), 0)
	clip.Thumbnail = asset.ThumbnailURL
	clip.Prompt = job.Prompt
	r.project.AddClip(clip)

	log.Info("generation job completed", "media_url", asset.MediaURL)
}

func mediaKindFor(kind string) timeline.MediaKind {
	if kind == KindImage {
		return timeline.MediaImage
	}
	return timeline.MediaVideo
}

func clipTitle(job *Job) string {
	const max = 48
	title := job.Prompt
	if len(title) > max {
		title = title[:max]
	}
	if title == "" {
		title = "Generated " + job.Kind
	}
	return title
}
