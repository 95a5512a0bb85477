package persist

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/lumina/iris-studio/internal/project"
	"github.com/lumina/iris-studio/internal/store"
	"github.com/lumina/iris-studio/internal/timeline"
)

const testKey = "test_project"

func waitForSaves(t *testing.T, mem *store.MemStore, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if mem.SaveCount[testKey] >= want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("saves = %d, want %d", mem.SaveCount[testKey], want)
}

func TestSnapshotter_DebouncesBursts(t *testing.T) {
	mem := store.NewMemStore()
	snapper := NewSnapshotter(mem, testKey, 50*time.Millisecond, nil)

	ps := project.NewStore(project.Empty(), nil)
	ps.OnChange(snapper.Notify)

	clip := timeline.NewVideoClip(timeline.SourceLocal, timeline.MediaVideo, "u", "a", 5)
	ps.AddClip(clip)
	speed := 2.0
	ps.UpdateClip(clip.ID, timeline.ClipPatch{Speed: &speed})
	blur := 3.0
	ps.UpdateClip(clip.ID, timeline.ClipPatch{Blur: &blur})

	// Three mutations inside the quiet window produce exactly one write.
	waitForSaves(t, mem, 1)
	time.Sleep(100 * time.Millisecond)
	if got := mem.SaveCount[testKey]; got != 1 {
		t.Errorf("saves = %d, want exactly 1", got)
	}

	// And the persisted snapshot is the last one.
	data, err := mem.Load(context.Background(), testKey)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	var st project.State
	if err := json.Unmarshal(data, &st); err != nil {
		t.Fatalf("unmarshal error = %v", err)
	}
	if st.Clips[0].Effects.Blur != 3 {
		t.Errorf("persisted Blur = %v, want last write 3", st.Clips[0].Effects.Blur)
	}
}

func TestSnapshotter_NewChangeRestartsTimer(t *testing.T) {
	mem := store.NewMemStore()
	snapper := NewSnapshotter(mem, testKey, 60*time.Millisecond, nil)

	ps := project.NewStore(project.Empty(), nil)
	ps.OnChange(snapper.Notify)

	ps.Seek(1)
	time.Sleep(30 * time.Millisecond)
	ps.Seek(2)
	time.Sleep(30 * time.Millisecond)

	// 60ms elapsed since the first change but only 30ms since the
	// second; the trailing debounce must not have fired yet.
	if got := mem.SaveCount[testKey]; got != 0 {
		t.Errorf("saves = %d before quiet period elapsed, want 0", got)
	}

	waitForSaves(t, mem, 1)
}

func TestSnapshotter_FlushWritesImmediately(t *testing.T) {
	mem := store.NewMemStore()
	snapper := NewSnapshotter(mem, testKey, 10*time.Second, nil)

	ps := project.NewStore(project.Empty(), nil)
	ps.OnChange(snapper.Notify)
	ps.Seek(5)

	snapper.Flush()

	if got := mem.SaveCount[testKey]; got != 1 {
		t.Fatalf("saves = %d after Flush, want 1", got)
	}

	// Nothing pending: a second flush writes nothing new.
	snapper.Flush()
	if got := mem.SaveCount[testKey]; got != 1 {
		t.Errorf("saves = %d after second Flush, want still 1", got)
	}
}

func TestLoad_RoundTripForcesPaused(t *testing.T) {
	mem := store.NewMemStore()

	st := project.Empty()
	st.Clips = timeline.Append(nil, timeline.NewVideoClip(timeline.SourceAI, timeline.MediaVideo, "u", "a", 5))
	st.CurrentTime = 12.5
	st.IsPlaying = true

	data, err := json.Marshal(st)
	if err != nil {
		t.Fatalf("marshal error = %v", err)
	}
	if err := mem.Save(context.Background(), testKey, data); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got := Load(context.Background(), mem, testKey, nil)

	if got.IsPlaying {
		t.Error("IsPlaying = true after load, must be forced false")
	}
	if got.CurrentTime != 12.5 {
		t.Errorf("CurrentTime = %v, want 12.5", got.CurrentTime)
	}
	if len(got.Clips) != 1 || got.Clips[0].Duration != 5 {
		t.Error("clips did not survive the round trip")
	}
}

func TestLoad_AbsentRecordYieldsEmpty(t *testing.T) {
	mem := store.NewMemStore()

	got := Load(context.Background(), mem, testKey, nil)
	if len(got.Clips) != 0 || got.CurrentTime != 0 || got.IsPlaying {
		t.Errorf("Load() on absent record = %+v, want empty state", got)
	}
}

func TestLoad_MalformedRecordYieldsEmpty(t *testing.T) {
	mem := store.NewMemStore()
	if err := mem.Save(context.Background(), testKey, []byte("{not json")); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got := Load(context.Background(), mem, testKey, nil)
	if len(got.Clips) != 0 || got.IsPlaying {
		t.Errorf("Load() on malformed record = %+v, want empty state", got)
	}
}
