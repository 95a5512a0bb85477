package timeline

import "testing"

func assertPacked(t *testing.T, clips []VideoClip) {
	t.Helper()
	if len(clips) == 0 {
		return
	}
	if clips[0].StartTime != 0 {
		t.Errorf("clips[0].StartTime = %v, want 0", clips[0].StartTime)
	}
	for i := 1; i < len(clips); i++ {
		want := clips[i-1].StartTime + clips[i-1].Duration
		if clips[i].StartTime != want {
			t.Errorf("clips[%d].StartTime = %v, want %v", i, clips[i].StartTime, want)
		}
	}
}

func TestAppend_PackedSequence(t *testing.T) {
	var clips []VideoClip

	durations := []float64{5, 3, 7.5, 0.5, 12}
	for _, d := range durations {
		clips = Append(clips, NewVideoClip(SourceLocal, MediaVideo, "file:///c.mp4", "clip", d))
	}

	if len(clips) != len(durations) {
		t.Fatalf("len(clips) = %d, want %d", len(clips), len(durations))
	}
	assertPacked(t, clips)

	if got := TotalDuration(clips); got != 28 {
		t.Errorf("TotalDuration() = %v, want 28", got)
	}
}

func TestAppend_SecondClipStartsAtFirstDuration(t *testing.T) {
	clips := Append(nil, NewVideoClip(SourceLocal, MediaVideo, "u", "first", 5))
	clips = Append(clips, NewVideoClip(SourceLocal, MediaVideo, "u", "second", 3))

	if clips[1].StartTime != 5 {
		t.Errorf("second clip StartTime = %v, want 5", clips[1].StartTime)
	}
}

func TestAppend_FillsEffectDefaults(t *testing.T) {
	clip := VideoClip{ID: NewID(), Source: SourceAI, Media: MediaVideo, Duration: 5}

	clips := Append(nil, clip)

	e := clips[0].Effects
	if e.Speed != 1 {
		t.Errorf("Speed = %v, want 1", e.Speed)
	}
	if e.Brightness != 100 {
		t.Errorf("Brightness = %d, want 100", e.Brightness)
	}
	if e.Contrast != 100 {
		t.Errorf("Contrast = %d, want 100", e.Contrast)
	}
	if e.Filter != "None" {
		t.Errorf("Filter = %q, want None", e.Filter)
	}
	if e.Blur != 0 || e.Shake {
		t.Errorf("Blur/Shake = %v/%v, want 0/false", e.Blur, e.Shake)
	}
}

func TestAppend_DoesNotModifyInput(t *testing.T) {
	clips := Append(nil, NewVideoClip(SourceLocal, MediaVideo, "u", "a", 5))
	before := clips[0]

	Append(clips, NewVideoClip(SourceLocal, MediaVideo, "u", "b", 3))

	if clips[0] != before || len(clips) != 1 {
		t.Error("Append modified its input slice")
	}
}

func TestRemove_FirstClipRepacksFromZero(t *testing.T) {
	clips := Append(nil, NewVideoClip(SourceLocal, MediaVideo, "u", "a", 5))
	clips = Append(clips, NewVideoClip(SourceLocal, MediaVideo, "u", "b", 3))

	out, removed := Remove(clips, clips[0].ID)
	if !removed {
		t.Fatal("Remove() reported no removal")
	}
	if len(out) != 1 {
		t.Fatalf("len = %d, want 1", len(out))
	}
	if out[0].StartTime != 0 {
		t.Errorf("remaining clip StartTime = %v, want 0", out[0].StartTime)
	}
	if out[0].Title != "b" {
		t.Errorf("remaining clip = %q, want b", out[0].Title)
	}
}

func TestRemove_MiddleClipKeepsContiguity(t *testing.T) {
	var clips []VideoClip
	for _, d := range []float64{2, 4, 6, 8} {
		clips = Append(clips, NewVideoClip(SourceLocal, MediaVideo, "u", "c", d))
	}

	out, removed := Remove(clips, clips[2].ID)
	if !removed {
		t.Fatal("Remove() reported no removal")
	}
	assertPacked(t, out)
	if got := TotalDuration(out); got != 14 {
		t.Errorf("TotalDuration() = %v, want 14", got)
	}
}

func TestRemove_UnknownIDIsNoOp(t *testing.T) {
	clips := Append(nil, NewVideoClip(SourceLocal, MediaVideo, "u", "a", 5))

	out, removed := Remove(clips, "no-such-id")
	if removed {
		t.Error("Remove() reported removal for unknown id")
	}
	if len(out) != 1 || out[0].ID != clips[0].ID {
		t.Error("Remove() altered sequence for unknown id")
	}
}

func TestRemove_ThenAppendPreservesContiguity(t *testing.T) {
	var clips []VideoClip
	for _, d := range []float64{1, 2, 3} {
		clips = Append(clips, NewVideoClip(SourceLocal, MediaVideo, "u", "c", d))
	}

	clips, _ = Remove(clips, clips[1].ID)
	clips = Append(clips, NewVideoClip(SourceLocal, MediaVideo, "u", "d", 4))

	assertPacked(t, clips)
	if clips[len(clips)-1].StartTime != 4 {
		t.Errorf("appended clip StartTime = %v, want 4", clips[len(clips)-1].StartTime)
	}
}

func TestRepack_Idempotent(t *testing.T) {
	var clips []VideoClip
	for _, d := range []float64{2.5, 1.5, 3} {
		clips = Append(clips, NewVideoClip(SourceLocal, MediaVideo, "u", "c", d))
	}

	once := Repack(clips)
	twice := Repack(once)
	for i := range once {
		if once[i].StartTime != twice[i].StartTime {
			t.Errorf("clips[%d] start changed on second repack: %v vs %v", i, once[i].StartTime, twice[i].StartTime)
		}
	}
}

func TestUpdate_MergesPartialFields(t *testing.T) {
	clips := Append(nil, NewVideoClip(SourceLocal, MediaVideo, "u", "a", 5))

	blur := 4.0
	shake := true
	title := "renamed"
	out := Update(clips, clips[0].ID, ClipPatch{Blur: &blur, Shake: &shake, Title: &title})

	if out[0].Effects.Blur != 4 {
		t.Errorf("Blur = %v, want 4", out[0].Effects.Blur)
	}
	if !out[0].Effects.Shake {
		t.Error("Shake = false, want true")
	}
	if out[0].Title != "renamed" {
		t.Errorf("Title = %q, want renamed", out[0].Title)
	}
	// Untouched fields keep their values.
	if out[0].Effects.Brightness != 100 || out[0].Duration != 5 {
		t.Error("Update changed fields not present in the patch")
	}
	// Input untouched.
	if clips[0].Effects.Blur != 0 {
		t.Error("Update modified its input slice")
	}
}

func TestUpdate_UnknownIDIsNoOp(t *testing.T) {
	clips := Append(nil, NewVideoClip(SourceLocal, MediaVideo, "u", "a", 5))

	speed := 2.0
	out := Update(clips, "missing", ClipPatch{Speed: &speed})
	if out[0].Effects.Speed != 1 {
		t.Errorf("Speed = %v, want 1 for unknown id", out[0].Effects.Speed)
	}
}

func TestNewVideoClip_DurationDefaults(t *testing.T) {
	video := NewVideoClip(SourceAI, MediaVideo, "u", "v", 0)
	if video.Duration != DefaultVideoDuration {
		t.Errorf("video Duration = %v, want %v", video.Duration, DefaultVideoDuration)
	}

	image := NewVideoClip(SourceAI, MediaImage, "u", "i", 0)
	if image.Duration != DefaultImageDuration {
		t.Errorf("image Duration = %v, want %v", image.Duration, DefaultImageDuration)
	}
}

func TestNewTextOverlay_Defaults(t *testing.T) {
	o := NewTextOverlay("Hello", "", 10)
	if o.StartTime != 10 {
		t.Errorf("StartTime = %v, want playhead 10", o.StartTime)
	}
	if o.Duration != DefaultTextDuration {
		t.Errorf("Duration = %v, want %v", o.Duration, DefaultTextDuration)
	}
	if o.Style != StyleMinimal {
		t.Errorf("Style = %q, want minimal", o.Style)
	}
	if o.Color != "#FFFFFF" {
		t.Errorf("Color = %q, want #FFFFFF", o.Color)
	}
}
