// Package model defines shared data structures.
package model

import (
	"fmt"
	"time"
)

// KeyIdentity is the hardware code name of a physical key, e.g. "KeyA" or "ShiftLeft".
type KeyIdentity string

// Modifiers holds the modifier flags carried by an input event.
type Modifiers struct {
	Ctrl  bool
	Alt   bool
	Meta  bool
	Shift bool
}

// Any reports whether a command modifier is held. Shift only changes the character.
func (m Modifiers) Any() bool {
	return m.Ctrl || m.Alt || m.Meta
}

// KeyInput is a normalized key-down event.
type KeyInput struct {
	Key  KeyIdentity
	Text string
	Mods Modifiers
	At   time.Time
}

// KeyEvent is one entry of the recent press history.
type KeyEvent struct {
	Key     KeyIdentity
	At      time.Time
	Chatter bool
}

// Profile selects the sound of a feedback click.
type Profile int

const (
	// ProfileClicky is the sharp, high-pitched click used for normal input.
	ProfileClicky Profile = iota
	// ProfileLinear is the duller click used for corrective and reset actions.
	ProfileLinear
)

func (p Profile) String() string {
	switch p {
	case ProfileClicky:
		return "clicky"
	case ProfileLinear:
		return "linear"
	default:
		return fmt.Sprintf("profile(%d)", int(p))
	}
}

// MissingKey is a key that was never pressed when a snapshot was taken.
type MissingKey struct {
	Code  KeyIdentity `json:"code"`
	Label string      `json:"label"`
}

// ReportSnapshot records which keys of the inventory had been exercised.
type ReportSnapshot struct {
	ID           string       `json:"id"`
	CreatedAt    time.Time    `json:"createdAt"`
	WorkingCount int          `json:"workingCount"`
	TotalCount   int          `json:"totalCount"`
	Percentage   int          `json:"percentage"`
	Missing      []MissingKey `json:"missing"`
}

// Score renders the working/total ratio.
func (r ReportSnapshot) Score() string {
	return fmt.Sprintf("%d/%d", r.WorkingCount, r.TotalCount)
}

// Attempt captures a completed typing drill attempt.
type Attempt struct {
	ID         int64
	SessionID  string
	StartedAt  time.Time
	EndedAt    time.Time
	Author     string
	TextLen    int
	Keystrokes int
	Errors     int
	MaxCombo   int
	WPM        int
	Accuracy   int
	DurationMs int64
}

// CharMiss counts mismatches on one expected character.
type CharMiss struct {
	Char   string
	Misses int
}

// AttemptFilter restricts which attempts are listed.
type AttemptFilter struct {
	Since *time.Time
	Last  int
}

// Config defines runtime settings for the tester and the drill.
type Config struct {
	OS             string
	Layout         string
	ChatterWindow  time.Duration
	HistoryLimit   int
	ReleaseAfter   time.Duration
	SuppressRepeat bool

	Corpus      string
	KeepStreaks bool
	ResetOnExit bool
	ErrorFlash  time.Duration

	Sound       string
	SoundPerSec int
	SessionID   string
	StartInZen  bool
}
