// Package session tracks which keys are held and which have been exercised.
package session

import (
	"sort"
	"time"

	"github.com/verte-zerg/keyzen/internal/model"
)

const (
	// DefaultChatterWindow is the press interval below which a repeat is flagged as chatter.
	DefaultChatterWindow = 50 * time.Millisecond
	// DefaultHistoryLimit bounds the recent event history.
	DefaultHistoryLimit = 20
)

// Option configures a Tracker.
type Option func(*Tracker)

// WithChatterWindow overrides the chatter window. Non-positive values keep the default.
func WithChatterWindow(d time.Duration) Option {
	return func(t *Tracker) {
		if d > 0 {
			t.window = d
		}
	}
}

// WithHistoryLimit overrides the history length. Non-positive values keep the default.
func WithHistoryLimit(n int) Option {
	return func(t *Tracker) {
		if n > 0 {
			t.limit = n
		}
	}
}

// Tracker holds the key-test state for one session.
type Tracker struct {
	active  map[model.KeyIdentity]struct{}
	tested  map[model.KeyIdentity]struct{}
	history []model.KeyEvent

	window time.Duration
	limit  int
}

// New returns an empty Tracker.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		active: map[model.KeyIdentity]struct{}{},
		tested: map[model.KeyIdentity]struct{}{},
		window: DefaultChatterWindow,
		limit:  DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Press records a key-down. Presses of an already held key are accepted.
func (t *Tracker) Press(key model.KeyIdentity, now time.Time) model.KeyEvent {
	t.active[key] = struct{}{}
	t.tested[key] = struct{}{}

	ev := model.KeyEvent{Key: key, At: now}
	if len(t.history) > 0 {
		prev := t.history[0]
		ev.Chatter = prev.Key == key && now.Sub(prev.At) < t.window
	}

	n := len(t.history) + 1
	if n > t.limit {
		n = t.limit
	}
	next := make([]model.KeyEvent, n)
	next[0] = ev
	copy(next[1:], t.history)
	t.history = next
	return ev
}

// Release records a key-up. Unknown keys are ignored.
func (t *Tracker) Release(key model.KeyIdentity) {
	delete(t.active, key)
}

// Reset forgets tested keys and history. Held keys stay active.
func (t *Tracker) Reset() {
	t.tested = map[model.KeyIdentity]struct{}{}
	t.history = nil
}

// IsActive reports whether key is currently held.
func (t *Tracker) IsActive(key model.KeyIdentity) bool {
	_, ok := t.active[key]
	return ok
}

// IsTested reports whether key was pressed since the last reset.
func (t *Tracker) IsTested(key model.KeyIdentity) bool {
	_, ok := t.tested[key]
	return ok
}

// ActiveKeys returns the held keys in sorted order.
func (t *Tracker) ActiveKeys() []model.KeyIdentity {
	return sortedKeys(t.active)
}

// TestedKeys returns the tested keys in sorted order.
func (t *Tracker) TestedKeys() []model.KeyIdentity {
	return sortedKeys(t.tested)
}

// TestedCount returns the number of tested keys.
func (t *Tracker) TestedCount() int {
	return len(t.tested)
}

// History returns the recent events, most recent first.
func (t *Tracker) History() []model.KeyEvent {
	out := make([]model.KeyEvent, len(t.history))
	copy(out, t.history)
	return out
}

func sortedKeys(set map[model.KeyIdentity]struct{}) []model.KeyIdentity {
	keys := make([]model.KeyIdentity, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
