// Package drill implements the typing-practice state machine.
//
// Step is a pure transition from a State and one key-down to the next State
// plus the side effects the caller should perform (sounds, particles, timers).
// Engine owns the current State and starts new attempts.
package drill

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/verte-zerg/keyzen/internal/corpus"
	"github.com/verte-zerg/keyzen/internal/model"
)

// Phase is the stage of one attempt.
type Phase int

// Attempt phases.
const (
	NotStarted Phase = iota
	InProgress
	Complete
)

func (p Phase) String() string {
	switch p {
	case NotStarted:
		return "not started"
	case InProgress:
		return "in progress"
	case Complete:
		return "complete"
	default:
		return "phase(" + strconv.Itoa(int(p)) + ")"
	}
}

const (
	// DefaultErrorFlash is how long a mismatch stays highlighted.
	DefaultErrorFlash = 300 * time.Millisecond

	keyBackspace = "Backspace"
	keyEnter     = "Enter"

	completeSeed = "1000"
	mismatchSeed = "50"

	minMinutes = 1.0 / 60000.0
)

// Result holds the statistics frozen when an attempt completes.
type Result struct {
	Chars      int
	Keystrokes int
	Errors     int
	MaxCombo   int
	Elapsed    time.Duration
	WPM        int
	Accuracy   int
}

// State is the full state of one attempt plus the session-level counters.
type State struct {
	Quote  corpus.Quote
	Target []rune
	Caret  int
	Phase  Phase

	StartedAt time.Time
	EndedAt   time.Time

	Errors     int
	Keystrokes int
	Combo      int
	MaxCombo   int
	Completed  int

	ErrorFlag  bool
	ErrorSeq   uint64
	ErrorFlash time.Duration

	Misses map[rune]int
	Result Result
}

// NewState returns a fresh attempt for quote.
func NewState(quote corpus.Quote) State {
	return State{
		Quote:      quote,
		Target:     []rune(quote.Text),
		ErrorFlash: DefaultErrorFlash,
	}
}

// Remaining returns the untyped part of the target.
func (s State) Remaining() string {
	if s.Caret >= len(s.Target) {
		return ""
	}
	return string(s.Target[s.Caret:])
}

// Effect is a side effect requested by Step.
type Effect interface {
	effect()
}

// Sound asks for a feedback click.
type Sound struct {
	Profile model.Profile
	Seed    string
}

// Burst asks for a particle burst over the character at Index.
type Burst struct {
	Index int
}

// ClearError asks for ClearError(Seq) to be called after the given delay.
type ClearError struct {
	Seq   uint64
	After time.Duration
}

// Finished reports that the attempt completed.
type Finished struct {
	Result Result
}

// NextAttempt asks the owner to load a new attempt.
type NextAttempt struct{}

func (Sound) effect()       {}
func (Burst) effect()       {}
func (ClearError) effect()  {}
func (Finished) effect()    {}
func (NextAttempt) effect() {}

// Step applies one key-down to s.
func Step(s State, in model.KeyInput) (State, []Effect) {
	if len(s.Target) == 0 {
		return s, nil
	}
	if s.Phase == Complete {
		if in.Text == keyEnter && !in.Mods.Any() {
			return s, []Effect{NextAttempt{}}
		}
		return s, nil
	}
	if in.Mods.Any() {
		return s, nil
	}
	if in.Text == keyBackspace {
		return backspace(s)
	}
	if utf8.RuneCountInString(in.Text) != 1 {
		return s, nil
	}

	typed, _ := utf8.DecodeRuneInString(in.Text)
	if s.Phase == NotStarted {
		s.Phase = InProgress
		s.StartedAt = in.At
	}
	s.Keystrokes++

	expected := s.Target[s.Caret]
	if !strings.EqualFold(string(typed), string(expected)) {
		return mismatch(s, expected)
	}

	index := s.Caret
	s.Caret++
	s.Combo++
	if s.Combo > s.MaxCombo {
		s.MaxCombo = s.Combo
	}
	s.ErrorFlag = false
	effects := []Effect{
		Sound{Profile: model.ProfileClicky, Seed: strconv.Itoa(int(typed))},
		Burst{Index: index},
	}
	if s.Caret == len(s.Target) {
		s = complete(s, in.At)
		effects = append(effects,
			Sound{Profile: model.ProfileClicky, Seed: completeSeed},
			Finished{Result: s.Result},
		)
	}
	return s, effects
}

func backspace(s State) (State, []Effect) {
	if s.Caret == 0 {
		return s, nil
	}
	s.Caret--
	s.Combo = 0
	s.ErrorFlag = false
	return s, []Effect{Sound{Profile: model.ProfileLinear, Seed: keyBackspace}}
}

func mismatch(s State, expected rune) (State, []Effect) {
	s.Errors++
	s.Combo = 0
	s.ErrorFlag = true
	s.ErrorSeq++

	misses := make(map[rune]int, len(s.Misses)+1)
	for r, n := range s.Misses {
		misses[r] = n
	}
	misses[expected]++
	s.Misses = misses

	return s, []Effect{
		Sound{Profile: model.ProfileLinear, Seed: mismatchSeed},
		ClearError{Seq: s.ErrorSeq, After: s.ErrorFlash},
	}
}

func complete(s State, now time.Time) State {
	s.Phase = Complete
	s.EndedAt = now
	s.Completed++
	elapsed := now.Sub(s.StartedAt)
	wpm, acc := Metrics(len(s.Target), s.Keystrokes, s.Errors, elapsed)
	s.Result = Result{
		Chars:      len(s.Target),
		Keystrokes: s.Keystrokes,
		Errors:     s.Errors,
		MaxCombo:   s.MaxCombo,
		Elapsed:    elapsed,
		WPM:        wpm,
		Accuracy:   acc,
	}
	return s
}

// Metrics computes words per minute and accuracy percentage for a finished attempt.
// A word is five characters.
func Metrics(chars, keystrokes, errors int, elapsed time.Duration) (wpm, accuracy int) {
	minutes := math.Max(elapsed.Seconds()/60, minMinutes)
	wpm = int(math.Round((float64(chars) / 5) / minutes))
	if wpm < 0 {
		wpm = 0
	}
	accuracy = 100
	if keystrokes > 0 {
		accuracy = int(math.Round(100 * float64(keystrokes-errors) / float64(keystrokes)))
	}
	return wpm, accuracy
}
