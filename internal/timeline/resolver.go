package timeline

// ActiveClip returns the clip covering playhead time t, or nil when no
// clip covers it (past the end, before the start, or inside a gap left
// by a corrupted sequence). In a packed sequence at most one clip can
// match; the first match wins regardless.
func ActiveClip(clips []VideoClip, t float64) *VideoClip {
	for i := range clips {
		if covers(clips[i].StartTime, clips[i].Duration, t) {
			return &clips[i]
		}
	}
	return nil
}

// ActiveOverlays returns every overlay covering t, in insertion order.
// Overlapping overlays all render; there is no dedup or z-order rule
// beyond that order.
func ActiveOverlays(overlays []TextOverlay, t float64) []TextOverlay {
	var out []TextOverlay
	for _, o := range overlays {
		if covers(o.StartTime, o.Duration, t) {
			out = append(out, o)
		}
	}
	return out
}

// ActiveAudio returns every audio track covering t. Tracks drive a side
// channel rather than the primary view, so overlaps are expected.
func ActiveAudio(tracks []AudioTrack, t float64) []AudioTrack {
	var out []AudioTrack
	for _, a := range tracks {
		if covers(a.StartTime, a.Duration, t) {
			out = append(out, a)
		}
	}
	return out
}
