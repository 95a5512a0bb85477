// Package persist snapshots the project state to the key-value store on
// a trailing debounce and rehydrates it at startup.
package persist

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/lumina/iris-studio/internal/project"
	"github.com/lumina/iris-studio/internal/store"
)

// Snapshotter writes the latest project snapshot after a quiet period.
// A new snapshot inside the window restarts the timer: last write wins,
// intermediate snapshots are dropped, never queued.
type Snapshotter struct {
	kv     store.Store
	key    string
	quiet  time.Duration
	logger *slog.Logger

	mu      sync.Mutex
	timer   *time.Timer
	pending *project.State
}

func NewSnapshotter(kv store.Store, key string, quiet time.Duration, logger *slog.Logger) *Snapshotter {
	return &Snapshotter{kv: kv, key: key, quiet: quiet, logger: logger}
}

// Notify records the snapshot as the pending write and (re)starts the
// quiet-period timer. Safe to call from project store listeners.
func (s *Snapshotter) Notify(snap project.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := snap.State
	s.pending = &st

	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.quiet, s.write)
}

func (s *Snapshotter) write() {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	if pending == nil {
		return
	}

	data, err := json.Marshal(pending)
	if err != nil {
		if s.logger != nil {
			s.logger.Error("failed to marshal project snapshot", "error", err)
		}
		return
	}

	if err := s.kv.Save(context.Background(), s.key, data); err != nil {
		if s.logger != nil {
			s.logger.Error("failed to persist project snapshot", "error", err)
		}
		return
	}

	if s.logger != nil {
		s.logger.Debug("project snapshot persisted", "key", s.key, "bytes", len(data))
	}
}

// Flush writes any pending snapshot immediately, bypassing the quiet
// period. Called on shutdown.
func (s *Snapshotter) Flush() {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	s.write()
}

// Load rehydrates the last persisted project state. The play flag is
// forced off: a reloaded session must never resume autoplay. Malformed
// or absent data yields a fresh empty project, never an error.
func Load(ctx context.Context, kv store.Store, key string, logger *slog.Logger) project.State {
	data, err := kv.Load(ctx, key)
	if err != nil {
		if err != store.ErrNotFound && logger != nil {
			logger.Warn("failed to load project snapshot, starting fresh", "error", err)
		}
		return project.Empty()
	}

	var st project.State
	if err := json.Unmarshal(data, &st); err != nil {
		if logger != nil {
			logger.Warn("malformed project snapshot, starting fresh", "error", err)
		}
		return project.Empty()
	}

	st.IsPlaying = false
	return st
}
