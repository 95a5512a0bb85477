// Package moderation holds the user registry and the ban-state machine
// gating access to the editor. The registry is the source of truth;
// local ban state follows it on a periodic re-check and all timed
// transitions are re-derived from the wall clock, never from stored
// timers, so the machine survives process suspension.
package moderation

import "time"

// EnforcementReason is the reason recorded when a warning countdown
// expires into a ban.
const EnforcementReason = "Automatic System Enforcement"

// User is a moderation-registry record.
type User struct {
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Password  string     `json:"password"`
	Avatar    string     `json:"avatar"`
	IsBanned  bool       `json:"is_banned"`
	BanReason string     `json:"ban_reason,omitempty"`
	UnbanAt   *time.Time `json:"unban_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// BanState is the session-local enforcement state. Invariants: while
// IsWarningActive the countdown is meaningful and the state reaches
// IsBanned exactly when it hits zero; a past UnbanAt clears the ban on
// the next evaluation; a nil UnbanAt on a ban means permanent.
type BanState struct {
	IsBanned         bool       `json:"is_banned"`
	BanReason        string     `json:"ban_reason,omitempty"`
	IsWarningActive  bool       `json:"is_warning_active"`
	WarningCountdown int        `json:"warning_countdown,omitempty"`
	UnbanAt          *time.Time `json:"unban_at,omitempty"`
}

// Tick advances the state by one evaluation at wall-clock time now.
// Called once per second by the gate.
func (b BanState) Tick(now time.Time) BanState {
	if b.IsBanned {
		if b.UnbanAt != nil && !now.Before(*b.UnbanAt) {
			return BanState{}
		}
		return b
	}

	if b.IsWarningActive {
		b.WarningCountdown--
		if b.WarningCountdown <= 0 {
			return BanState{IsBanned: true, BanReason: EnforcementReason}
		}
	}

	return b
}

// ApplyRegistry reconciles local state with the registry record for the
// current identity. A banned record overrides local state; a clear (or
// missing) record lifts a locally held ban. The warning countdown is a
// session-local affair and is left untouched by registry sync.
func (b BanState) ApplyRegistry(rec *User) BanState {
	if rec != nil && rec.IsBanned {
		return BanState{
			IsBanned:  true,
			BanReason: rec.BanReason,
			UnbanAt:   rec.UnbanAt,
		}
	}

	if b.IsBanned {
		b.IsBanned = false
		b.BanReason = ""
		b.UnbanAt = nil
	}
	return b
}
