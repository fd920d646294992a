package drill

import (
	"time"

	"github.com/verte-zerg/keyzen/internal/corpus"
	"github.com/verte-zerg/keyzen/internal/model"
)

// Picker supplies quotes for new attempts.
type Picker interface {
	Pick() corpus.Quote
}

// Option configures an Engine.
type Option func(*Engine)

// WithKeepStreaks controls whether the best combo and completed count survive a new attempt.
func WithKeepStreaks(keep bool) Option {
	return func(e *Engine) {
		e.keepStreaks = keep
	}
}

// WithResetOnExit makes Exit zero the cross-attempt counters.
func WithResetOnExit(reset bool) Option {
	return func(e *Engine) {
		e.resetOnExit = reset
	}
}

// WithErrorFlash overrides how long a mismatch stays flagged. Non-positive values keep the default.
func WithErrorFlash(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.errorFlash = d
		}
	}
}

// Engine runs drill attempts one after another.
type Engine struct {
	picker      Picker
	state       State
	keepStreaks bool
	resetOnExit bool
	errorFlash  time.Duration
}

// New returns an Engine with a first attempt loaded.
func New(picker Picker, opts ...Option) *Engine {
	e := &Engine{
		picker:      picker,
		keepStreaks: true,
		errorFlash:  DefaultErrorFlash,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.load(false)
	return e
}

// State returns the current state.
func (e *Engine) State() State {
	return e.state
}

// Handle applies one key-down and returns the requested effects.
// A NextAttempt effect has already been acted on when Handle returns.
func (e *Engine) Handle(in model.KeyInput) []Effect {
	next, effects := Step(e.state, in)
	e.state = next
	for _, eff := range effects {
		if _, ok := eff.(NextAttempt); ok {
			e.load(e.keepStreaks)
		}
	}
	return effects
}

// Next abandons the current attempt and loads a new one.
func (e *Engine) Next() {
	e.load(e.keepStreaks)
}

// ClearError drops the error flag raised by the mismatch with sequence seq.
// Later mismatches or a new attempt make older sequences stale.
func (e *Engine) ClearError(seq uint64) {
	if e.state.ErrorFlag && e.state.ErrorSeq == seq {
		e.state.ErrorFlag = false
	}
}

// Exit is called when practice mode is left.
func (e *Engine) Exit() {
	if e.resetOnExit {
		e.load(false)
	}
}

func (e *Engine) load(keep bool) {
	prev := e.state
	var quote corpus.Quote
	if e.picker != nil {
		quote = e.picker.Pick()
	}
	s := NewState(quote)
	s.ErrorFlash = e.errorFlash
	s.ErrorSeq = prev.ErrorSeq
	if keep {
		s.MaxCombo = prev.MaxCombo
		s.Completed = prev.Completed
	}
	e.state = s
}
