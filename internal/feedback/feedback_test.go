package feedback

import (
	"bytes"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/verte-zerg/keyzen/internal/model"
)

func TestOffsetFixtures(t *testing.T) {
	cases := map[string]float64{
		"":          0,
		"a":         0.2425,
		"50":        0.2275,
		"97":        0.055,
		"1000":      0.0575,
		"KeyA":      0.005,
		"Backspace": -0.1525,
	}
	for seed, want := range cases {
		assert.InDelta(t, want, Offset(seed), 1e-9, "seed %q", seed)
	}
}

func TestOffsetBounded(t *testing.T) {
	for _, seed := range []string{"Delete", "ShiftLeft", "Space", "1000", "ÿ漢"} {
		o := Offset(seed)
		assert.Greater(t, o, -0.25, seed)
		assert.Less(t, o, 0.25, seed)
	}
}

func TestRateJitter(t *testing.T) {
	assert.InDelta(t, 1.2425, Rate("a", nil), 1e-9)

	rnd := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		r := Rate("a", rnd)
		assert.GreaterOrEqual(t, r, 1.2425-0.05)
		assert.Less(t, r, 1.2425+0.05)
	}
}

func TestNewVoice(t *testing.T) {
	clicky := NewVoice(model.ProfileClicky, 1.5)
	assert.Equal(t, HighPass, clicky.NoiseFilter)
	assert.InDelta(t, 3000, clicky.NoiseCutoffHz, 1e-9)
	assert.Equal(t, 600.0, clicky.ToneStartHz)
	assert.Equal(t, 100*time.Millisecond, clicky.ToneLength)

	linear := NewVoice(model.ProfileLinear, 0.5)
	assert.Equal(t, LowPass, linear.NoiseFilter)
	assert.InDelta(t, 200, linear.NoiseCutoffHz, 1e-9)
	assert.InDelta(t, 100, linear.ToneStartHz, 1e-9)
	assert.Equal(t, 50.0, linear.ToneEndHz)
	assert.Equal(t, 150*time.Millisecond, linear.ToneLength)
}

func TestNewPlayer(t *testing.T) {
	var buf bytes.Buffer
	p, err := NewPlayer("bell", &buf)
	require.NoError(t, err)
	require.NoError(t, p.Play(Voice{}))
	assert.Equal(t, "\a", buf.String())

	p, err = NewPlayer("off", &buf)
	require.NoError(t, err)
	assert.IsType(t, NopPlayer{}, p)

	_, err = NewPlayer("midi", &buf)
	assert.Error(t, err)
}

func TestBellMergesOverlappingClicks(t *testing.T) {
	var buf bytes.Buffer
	clock := time.Unix(0, 0)
	p := NewBellPlayer(&buf)
	p.now = func() time.Time { return clock }

	clicky := NewVoice(model.ProfileClicky, 1)
	require.NoError(t, p.Play(clicky))
	clock = clock.Add(50 * time.Millisecond)
	require.NoError(t, p.Play(clicky))
	assert.Equal(t, "\a", buf.String())

	clock = clock.Add(50 * time.Millisecond)
	require.NoError(t, p.Play(NewVoice(model.ProfileLinear, 1)))
	assert.Equal(t, "\a\a", buf.String())

	clock = clock.Add(100 * time.Millisecond)
	require.NoError(t, p.Play(clicky))
	assert.Equal(t, "\a\a", buf.String())
	clock = clock.Add(50 * time.Millisecond)
	require.NoError(t, p.Play(clicky))
	assert.Equal(t, "\a\a\a", buf.String())
}

type countingPlayer struct {
	mu     sync.Mutex
	voices []Voice
	err    error
	played chan struct{}
}

func newCountingPlayer(err error) *countingPlayer {
	return &countingPlayer{err: err, played: make(chan struct{}, 64)}
}

func (p *countingPlayer) Play(v Voice) error {
	p.mu.Lock()
	p.voices = append(p.voices, v)
	p.mu.Unlock()
	p.played <- struct{}{}
	return p.err
}

func (p *countingPlayer) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.voices)
}

func waitPlayed(t *testing.T, p *countingPlayer, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		select {
		case <-p.played:
		case <-time.After(2 * time.Second):
			t.Fatalf("player saw %d of %d clicks", i, n)
		}
	}
}

func TestDispatcherPlaysAndStops(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := newCountingPlayer(nil)
	d := NewDispatcher(p, WithRand(rand.New(rand.NewSource(7))))
	d.Play(model.ProfileClicky, "KeyA")
	d.Play(model.ProfileLinear, "Delete")
	waitPlayed(t, p, 2)
	d.Close()
	d.Close()

	assert.Equal(t, 2, p.count())
	d.Play(model.ProfileClicky, "KeyB")
	assert.Equal(t, 2, p.count())

	assert.Equal(t, model.ProfileClicky, p.voices[0].Profile)
	assert.InDelta(t, 1+Offset("KeyA"), p.voices[0].Rate, jitterSpan/2+1e-9)
	assert.Equal(t, LowPass, p.voices[1].NoiseFilter)
	assert.InDelta(t, 1+Offset("Delete"), p.voices[1].Rate, jitterSpan/2+1e-9)
}

func TestDispatcherSwallowsPlayerErrors(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := newCountingPlayer(errors.New("no audio device"))
	d := NewDispatcher(p)
	defer d.Close()
	for i := 0; i < 3; i++ {
		d.Play(model.ProfileClicky, "KeyA")
		waitPlayed(t, p, 1)
	}
	assert.Equal(t, 3, p.count())
}

type blockingPlayer struct {
	release chan struct{}
}

func (p blockingPlayer) Play(Voice) error {
	<-p.release
	return nil
}

func TestDispatcherNeverBlocks(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := blockingPlayer{release: make(chan struct{})}
	d := NewDispatcher(p, WithQueueSize(1))
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			d.Play(model.ProfileClicky, "KeyA")
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Play blocked on a stuck player")
	}
	close(p.release)
	d.Close()
}

func TestDispatcherRateLimit(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := newCountingPlayer(nil)
	d := NewDispatcher(p, WithMaxPerSecond(2))
	for i := 0; i < 10; i++ {
		d.Play(model.ProfileClicky, "KeyA")
	}
	waitPlayed(t, p, 2)
	d.Close()
	assert.Equal(t, 2, p.count())
}

func TestEmitterBurst(t *testing.T) {
	e := NewEmitter(rand.New(rand.NewSource(3)))
	for i := 0; i < 20; i++ {
		e.Clear()
		e.Spawn(10, 5)
		assert.GreaterOrEqual(t, e.Alive(), minBurst)
		assert.LessOrEqual(t, e.Alive(), maxBurst)
	}
}

func TestEmitterParticlesRise(t *testing.T) {
	e := NewEmitter(rand.New(rand.NewSource(3)))
	e.Spawn(10, 5)
	e.Step()
	for _, p := range e.Particles() {
		assert.Less(t, p.Position().Y, 5.0)
		assert.InDelta(t, 0.98, p.Life, 1e-9)
	}
}

func TestEmitterParticlesDie(t *testing.T) {
	e := NewEmitter(rand.New(rand.NewSource(3)))
	e.Spawn(0, 0)
	steps := 0
	for e.Alive() > 0 {
		e.Step()
		steps++
		require.Less(t, steps, 100)
	}
	assert.GreaterOrEqual(t, steps, 49)
	assert.Empty(t, e.Particles())
}

func TestEmitterClear(t *testing.T) {
	e := NewEmitter(nil)
	e.Spawn(1, 1)
	e.Clear()
	assert.Zero(t, e.Alive())
}
