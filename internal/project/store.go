package project

import (
	"log/slog"
	"sync"

	"github.com/lumina/iris-studio/internal/timeline"
)

// Snapshot is an immutable view of the project at a point in its
// mutation history. Version increases by one per applied mutation;
// no-op operations do not produce a new snapshot.
type Snapshot struct {
	State
	Version uint64
}

// Listener receives a snapshot after every applied mutation. Listeners
// run on the mutating goroutine, outside the store lock; they must not
// call back into mutation operations.
type Listener func(Snapshot)

// Store owns the project state. All mutations are serialized by an
// internal mutex, so consumers always observe either the fully-old or
// fully-new state. Operations are total: malformed ids are silent
// no-ops and nothing here ever returns an error.
type Store struct {
	mu        sync.Mutex
	state     State
	version   uint64
	listeners []Listener
	logger    *slog.Logger
}

func NewStore(initial State, logger *slog.Logger) *Store {
	return &Store{state: initial.Clone(), logger: logger}
}

// OnChange registers a change listener. Register before mutations start
// flowing; registration is not synchronized with notification order.
func (s *Store) OnChange(fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{State: s.state.Clone(), Version: s.version}
}

// mutate applies fn to a copy of the state. fn returns false to signal
// a no-op; otherwise the copy becomes current and listeners are
// notified with the new snapshot.
func (s *Store) mutate(fn func(*State) bool) Snapshot {
	s.mu.Lock()

	next := s.state.Clone()
	if !fn(&next) {
		snap := Snapshot{State: s.state.Clone(), Version: s.version}
		s.mu.Unlock()
		return snap
	}

	s.state = next
	s.version++
	snap := Snapshot{State: next.Clone(), Version: s.version}
	listeners := make([]Listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(snap)
	}
	return snap
}

// AddClip appends the clip to the packed sequence and selects it. The
// returned snapshot carries the clip with its assigned start time.
func (s *Store) AddClip(clip timeline.VideoClip) Snapshot {
	return s.mutate(func(st *State) bool {
		st.Clips = timeline.Append(st.Clips, clip)
		st.SelectedClipID = clip.ID
		st.SelectedTextID = ""
		return true
	})
}

// UpdateClip merges the patch into the matching clip. Unknown ids are a
// no-op.
func (s *Store) UpdateClip(id string, patch timeline.ClipPatch) Snapshot {
	return s.mutate(func(st *State) bool {
		if !clipExists(st.Clips, id) {
			return false
		}
		st.Clips = timeline.Update(st.Clips, id, patch)
		return true
	})
}

// RemoveClip drops the clip and re-packs the rest. If the removed clip
// was selected, the selection is cleared.
func (s *Store) RemoveClip(id string) Snapshot {
	return s.mutate(func(st *State) bool {
		clips, removed := timeline.Remove(st.Clips, id)
		if !removed {
			return false
		}
		st.Clips = clips
		if st.SelectedClipID == id {
			st.SelectedClipID = ""
		}
		return true
	})
}

// AddAudio appends an audio track. No re-packing applies.
func (s *Store) AddAudio(track timeline.AudioTrack) Snapshot {
	return s.mutate(func(st *State) bool {
		st.AudioTracks = append(st.AudioTracks, track)
		return true
	})
}

// AddText creates an overlay at the current playhead with default
// duration and selects it.
func (s *Store) AddText(content string, style timeline.OverlayStyle) Snapshot {
	return s.mutate(func(st *State) bool {
		overlay := timeline.NewTextOverlay(content, style, st.CurrentTime)
		st.TextOverlays = append(st.TextOverlays, overlay)
		st.SelectedTextID = overlay.ID
		st.SelectedClipID = ""
		return true
	})
}

// Seek assigns the playhead directly. No clamping: downstream consumers
// clamp for display, and the clock uses this same operation to advance
// time while playing.
func (s *Store) Seek(t float64) Snapshot {
	return s.mutate(func(st *State) bool {
		if st.CurrentTime == t {
			return false
		}
		st.CurrentTime = t
		return true
	})
}

// SelectClip selects a clip and clears any text selection. An empty id
// clears the clip selection; unknown ids are a no-op.
func (s *Store) SelectClip(id string) Snapshot {
	return s.mutate(func(st *State) bool {
		if id == "" {
			if st.SelectedClipID == "" {
				return false
			}
			st.SelectedClipID = ""
			return true
		}
		if !clipExists(st.Clips, id) {
			return false
		}
		st.SelectedClipID = id
		st.SelectedTextID = ""
		return true
	})
}

// SelectText selects an overlay and clears any clip selection. An empty
// id clears the text selection; unknown ids are a no-op.
func (s *Store) SelectText(id string) Snapshot {
	return s.mutate(func(st *State) bool {
		if id == "" {
			if st.SelectedTextID == "" {
				return false
			}
			st.SelectedTextID = ""
			return true
		}
		if !overlayExists(st.TextOverlays, id) {
			return false
		}
		st.SelectedTextID = id
		st.SelectedClipID = ""
		return true
	})
}

// DeselectAll clears both selections.
func (s *Store) DeselectAll() Snapshot {
	return s.mutate(func(st *State) bool {
		if st.SelectedClipID == "" && st.SelectedTextID == "" {
			return false
		}
		st.SelectedClipID = ""
		st.SelectedTextID = ""
		return true
	})
}

// SetPlaying toggles the play/pause flag.
func (s *Store) SetPlaying(playing bool) Snapshot {
	return s.mutate(func(st *State) bool {
		if st.IsPlaying == playing {
			return false
		}
		st.IsPlaying = playing
		return true
	})
}

func clipExists(clips []timeline.VideoClip, id string) bool {
	for i := range clips {
		if clips[i].ID == id {
			return true
		}
	}
	return false
}

func overlayExists(overlays []timeline.TextOverlay, id string) bool {
	for i := range overlays {
		if overlays[i].ID == id {
			return true
		}
	}
	return false
}
