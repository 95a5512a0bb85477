package timeline

// TotalDuration returns the combined duration of a clip sequence, which
// for a packed sequence is also its exclusive end time.
func TotalDuration(clips []VideoClip) float64 {
	var total float64
	for _, c := range clips {
		total += c.Duration
	}
	return total
}

// Append places the clip at the end of the packed sequence: its start
// time is the sum of all existing durations. Zero-valued effect fields
// are filled with their defaults. Returns a new slice; the input is not
// modified.
func Append(clips []VideoClip, clip VideoClip) []VideoClip {
	clip.StartTime = TotalDuration(clips)
	clip.Effects = clip.Effects.Normalize()

	out := make([]VideoClip, 0, len(clips)+1)
	out = append(out, clips...)
	return append(out, clip)
}

// Remove filters out the clip with the given id and re-packs the
// remainder so the sequence stays contiguous from zero. The second
// return value reports whether anything was removed; unknown ids are a
// no-op.
func Remove(clips []VideoClip, id string) ([]VideoClip, bool) {
	out := make([]VideoClip, 0, len(clips))
	removed := false
	for _, c := range clips {
		if c.ID == id {
			removed = true
			continue
		}
		out = append(out, c)
	}
	if !removed {
		return out, false
	}
	return Repack(out), true
}

// Repack re-assigns every start time by walking the sequence in order
// and accumulating durations from zero. Safe to apply to any sequence,
// packed or not.
func Repack(clips []VideoClip) []VideoClip {
	var pos float64
	out := make([]VideoClip, len(clips))
	for i, c := range clips {
		c.StartTime = pos
		pos += c.Duration
		out[i] = c
	}
	return out
}

// ClipPatch is a partial-field update for a clip. Nil fields are left
// unchanged.
type ClipPatch struct {
	Title      *string  `json:"title,omitempty"`
	URL        *string  `json:"url,omitempty"`
	Thumbnail  *string  `json:"thumbnail,omitempty"`
	Duration   *float64 `json:"duration,omitempty"`
	Speed      *float64 `json:"speed,omitempty"`
	Volume     *int     `json:"volume,omitempty"`
	Filter     *string  `json:"filter,omitempty"`
	Blur       *float64 `json:"blur,omitempty"`
	Brightness *int     `json:"brightness,omitempty"`
	Contrast   *int     `json:"contrast,omitempty"`
	Shake      *bool    `json:"shake,omitempty"`
}

// Update merges the patch into the clip with the given id. Unknown ids
// are a no-op. Returns a new slice; the input is not modified.
func Update(clips []VideoClip, id string, patch ClipPatch) []VideoClip {
	out := make([]VideoClip, len(clips))
	copy(out, clips)
	for i := range out {
		if out[i].ID != id {
			continue
		}
		applyPatch(&out[i], patch)
		break
	}
	return out
}

func applyPatch(c *VideoClip, p ClipPatch) {
	if p.Title != nil {
		c.Title = *p.Title
	}
	if p.URL != nil {
		c.URL = *p.URL
	}
	if p.Thumbnail != nil {
		c.Thumbnail = *p.Thumbnail
	}
	if p.Duration != nil && *p.Duration > 0 {
		c.Duration = *p.Duration
	}
	if p.Speed != nil {
		c.Effects.Speed = *p.Speed
	}
	if p.Volume != nil {
		c.Effects.Volume = *p.Volume
	}
	if p.Filter != nil {
		c.Effects.Filter = *p.Filter
	}
	if p.Blur != nil {
		c.Effects.Blur = *p.Blur
	}
	if p.Brightness != nil {
		c.Effects.Brightness = *p.Brightness
	}
	if p.Contrast != nil {
		c.Effects.Contrast = *p.Contrast
	}
	if p.Shake != nil {
		c.Effects.Shake = *p.Shake
	}
}
