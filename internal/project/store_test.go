package project

import (
	"testing"

	"github.com/lumina/iris-studio/internal/timeline"
)

func newClip(title string, duration float64) timeline.VideoClip {
	return timeline.NewVideoClip(timeline.SourceLocal, timeline.MediaVideo, "file:///"+title, title, duration)
}

func TestStore_AddClip_SelectsAndPacks(t *testing.T) {
	s := NewStore(Empty(), nil)

	first := newClip("a", 5)
	s.AddClip(first)
	snap := s.AddClip(newClip("b", 3))

	if len(snap.Clips) != 2 {
		t.Fatalf("len(Clips) = %d, want 2", len(snap.Clips))
	}
	if snap.Clips[1].StartTime != 5 {
		t.Errorf("second clip StartTime = %v, want 5", snap.Clips[1].StartTime)
	}
	if snap.SelectedClipID != snap.Clips[1].ID {
		t.Errorf("SelectedClipID = %q, want newly added clip", snap.SelectedClipID)
	}
}

func TestStore_RemoveClip_RepacksAndClearsSelection(t *testing.T) {
	s := NewStore(Empty(), nil)

	first := newClip("a", 5)
	s.AddClip(first)
	s.AddClip(newClip("b", 3))
	s.SelectClip(first.ID)

	snap := s.RemoveClip(first.ID)

	if len(snap.Clips) != 1 {
		t.Fatalf("len(Clips) = %d, want 1", len(snap.Clips))
	}
	if snap.Clips[0].StartTime != 0 {
		t.Errorf("remaining clip StartTime = %v, want 0", snap.Clips[0].StartTime)
	}
	if snap.SelectedClipID != "" {
		t.Errorf("SelectedClipID = %q, want cleared", snap.SelectedClipID)
	}
}

func TestStore_RemoveClip_UnselectedKeepsSelection(t *testing.T) {
	s := NewStore(Empty(), nil)

	first := newClip("a", 5)
	second := newClip("b", 3)
	s.AddClip(first)
	s.AddClip(second)

	snap := s.RemoveClip(first.ID)
	if snap.SelectedClipID != second.ID {
		t.Errorf("SelectedClipID = %q, want %q", snap.SelectedClipID, second.ID)
	}
}

func TestStore_UpdateClip_UnknownIDNoVersionBump(t *testing.T) {
	s := NewStore(Empty(), nil)
	s.AddClip(newClip("a", 5))
	before := s.Snapshot()

	speed := 2.0
	after := s.UpdateClip("missing", timeline.ClipPatch{Speed: &speed})

	if after.Version != before.Version {
		t.Errorf("Version bumped on no-op: %d -> %d", before.Version, after.Version)
	}
}

func TestStore_AddText_AtPlayhead(t *testing.T) {
	s := NewStore(Empty(), nil)

	s.Seek(10)
	snap := s.AddText("Hello", timeline.StyleNeon)

	if len(snap.TextOverlays) != 1 {
		t.Fatalf("len(TextOverlays) = %d, want 1", len(snap.TextOverlays))
	}
	o := snap.TextOverlays[0]
	if o.StartTime != 10 {
		t.Errorf("overlay StartTime = %v, want 10", o.StartTime)
	}
	if o.Duration != 3 {
		t.Errorf("overlay Duration = %v, want 3", o.Duration)
	}
	if snap.SelectedTextID != o.ID {
		t.Errorf("SelectedTextID = %q, want %q", snap.SelectedTextID, o.ID)
	}
}

func TestStore_SelectionsMutuallyExclusive(t *testing.T) {
	s := NewStore(Empty(), nil)

	clip := newClip("a", 5)
	s.AddClip(clip)
	textSnap := s.AddText("caption", timeline.StyleMinimal)

	if textSnap.SelectedClipID != "" {
		t.Error("adding text should clear clip selection")
	}

	clipSnap := s.SelectClip(clip.ID)
	if clipSnap.SelectedTextID != "" {
		t.Error("selecting clip should clear text selection")
	}
	if clipSnap.SelectedClipID != clip.ID {
		t.Errorf("SelectedClipID = %q, want %q", clipSnap.SelectedClipID, clip.ID)
	}
}

func TestStore_SelectClip_UnknownIDIsNoOp(t *testing.T) {
	s := NewStore(Empty(), nil)
	clip := newClip("a", 5)
	s.AddClip(clip)

	snap := s.SelectClip("missing")
	if snap.SelectedClipID != clip.ID {
		t.Errorf("SelectedClipID = %q, want unchanged %q", snap.SelectedClipID, clip.ID)
	}
}

func TestStore_DeselectAll(t *testing.T) {
	s := NewStore(Empty(), nil)
	s.AddClip(newClip("a", 5))

	snap := s.DeselectAll()
	if snap.SelectedClipID != "" || snap.SelectedTextID != "" {
		t.Error("DeselectAll left a selection behind")
	}
}

func TestStore_SeekAndSetPlaying(t *testing.T) {
	s := NewStore(Empty(), nil)

	snap := s.Seek(42.5)
	if snap.CurrentTime != 42.5 {
		t.Errorf("CurrentTime = %v, want 42.5", snap.CurrentTime)
	}

	snap = s.SetPlaying(true)
	if !snap.IsPlaying {
		t.Error("IsPlaying = false, want true")
	}

	before := snap.Version
	snap = s.SetPlaying(true)
	if snap.Version != before {
		t.Error("SetPlaying with same value bumped version")
	}
}

func TestStore_ListenersGetEveryAppliedMutation(t *testing.T) {
	s := NewStore(Empty(), nil)

	var got []uint64
	s.OnChange(func(snap Snapshot) {
		got = append(got, snap.Version)
	})

	s.AddClip(newClip("a", 5))
	s.Seek(1)
	s.UpdateClip("missing", timeline.ClipPatch{}) // no-op, no notification
	s.SetPlaying(true)

	if len(got) != 3 {
		t.Fatalf("listener fired %d times, want 3", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i] != got[i-1]+1 {
			t.Errorf("versions not monotonic: %v", got)
		}
	}
}

func TestStore_SnapshotIsolatedFromLaterMutations(t *testing.T) {
	s := NewStore(Empty(), nil)
	s.AddClip(newClip("a", 5))

	snap := s.Snapshot()
	s.AddClip(newClip("b", 3))

	if len(snap.Clips) != 1 {
		t.Errorf("earlier snapshot grew to %d clips", len(snap.Clips))
	}
}
