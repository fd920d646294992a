package input

import (
	"github.com/verte-zerg/keyzen/internal/drill"
	"github.com/verte-zerg/keyzen/internal/model"
	"github.com/verte-zerg/keyzen/internal/session"
)

// ResetKey clears tested keys when pressed in test mode.
const ResetKey model.KeyIdentity = "Delete"

// Mode selects which engine receives input.
type Mode int

// Modes.
const (
	ModeTest Mode = iota
	ModeZen
)

// Sounder plays feedback clicks. Implementations must not block.
type Sounder interface {
	Play(profile model.Profile, seed string)
}

// Option configures a Router.
type Option func(*Router)

// WithSuppressRepeat drops presses of keys that are already held.
func WithSuppressRepeat(suppress bool) Option {
	return func(r *Router) {
		r.suppressRepeat = suppress
	}
}

// Router sends each input to exactly one engine.
type Router struct {
	mode           Mode
	tracker        *session.Tracker
	engine         *drill.Engine
	sounds         Sounder
	suppressRepeat bool
}

// NewRouter returns a Router starting in test mode.
func NewRouter(tracker *session.Tracker, engine *drill.Engine, sounds Sounder, opts ...Option) *Router {
	r := &Router{tracker: tracker, engine: engine, sounds: sounds}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Mode returns the active mode.
func (r *Router) Mode() Mode {
	return r.mode
}

// SetMode switches engines. Leaving zen mode notifies the drill engine.
func (r *Router) SetMode(m Mode) {
	if r.mode == ModeZen && m != ModeZen {
		r.engine.Exit()
	}
	r.mode = m
}

// Down handles a key-down. In zen mode the drill effects other than sounds are returned.
func (r *Router) Down(in model.KeyInput) []drill.Effect {
	if r.mode == ModeZen {
		return r.zen(in)
	}
	if in.Key == "" {
		return nil
	}
	if r.suppressRepeat && r.tracker.IsActive(in.Key) {
		return nil
	}
	if in.Key == ResetKey {
		r.tracker.Reset()
		r.play(model.ProfileLinear, string(in.Key))
	} else {
		r.play(model.ProfileClicky, string(in.Key))
	}
	r.tracker.Press(in.Key, in.At)
	return nil
}

// Up handles a key-up. Releases always reach the tracker so keys held across a
// mode switch do not stay highlighted.
func (r *Router) Up(key model.KeyIdentity) {
	r.tracker.Release(key)
}

func (r *Router) zen(in model.KeyInput) []drill.Effect {
	effects := r.engine.Handle(in)
	rest := make([]drill.Effect, 0, len(effects))
	for _, eff := range effects {
		if s, ok := eff.(drill.Sound); ok {
			r.play(s.Profile, s.Seed)
			continue
		}
		rest = append(rest, eff)
	}
	return rest
}

func (r *Router) play(profile model.Profile, seed string) {
	if r.sounds != nil {
		r.sounds.Play(profile, seed)
	}
}
