package feedback

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Backends accepted by NewPlayer.
const (
	BackendBell = "bell"
	BackendOff  = "off"
)

// Player renders a voice on some audio device.
type Player interface {
	Play(v Voice) error
}

// NewPlayer returns the player for a configured backend name.
func NewPlayer(backend string, w io.Writer) (Player, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case BackendBell, "":
		return NewBellPlayer(w), nil
	case BackendOff, "none":
		return NopPlayer{}, nil
	default:
		return nil, fmt.Errorf("unknown sound backend %q", backend)
	}
}

// BellPlayer rings the terminal bell. The terminal decides how the bell sounds,
// so only the voice's duration is honored: a click arriving while the previous
// one is still sounding is merged into it instead of ringing again.
type BellPlayer struct {
	mu    sync.Mutex
	w     io.Writer
	now   func() time.Time
	until time.Time
}

// NewBellPlayer writes bells to w.
func NewBellPlayer(w io.Writer) *BellPlayer {
	return &BellPlayer{w: w, now: time.Now}
}

// Play writes one BEL character unless the previous voice is still sounding.
func (p *BellPlayer) Play(v Voice) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.w == nil {
		return nil
	}
	now := p.now()
	if now.Before(p.until) {
		return nil
	}
	p.until = now.Add(v.Duration())
	_, err := io.WriteString(p.w, "\a")
	return err
}

// NopPlayer discards every voice.
type NopPlayer struct{}

// Play does nothing.
func (NopPlayer) Play(Voice) error { return nil }
