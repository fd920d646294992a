package feedback

import (
	"math/rand"
	"time"

	"github.com/charmbracelet/harmonica"
)

// FrameRate is the animation rate in frames per second.
const FrameRate = 30

const (
	minBurst  = 5
	maxBurst  = 10
	lifeDecay = 0.02
	shrink    = 0.95
	minSize   = 0.1
)

// Particle is one spark of a burst. Positions are in terminal cells.
type Particle struct {
	proj *harmonica.Projectile
	Life float64
	Size float64
}

// Position returns the current cell position.
func (p Particle) Position() harmonica.Point {
	return p.proj.Position()
}

func (p Particle) dead() bool {
	return p.Life <= 0 || p.Size < minSize
}

// Emitter owns the live particles. It is not safe for concurrent use.
type Emitter struct {
	particles []Particle
	rnd       *rand.Rand
	dt        float64
}

// NewEmitter returns an empty emitter. A nil rnd seeds one from the clock.
func NewEmitter(rnd *rand.Rand) *Emitter {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Emitter{rnd: rnd, dt: harmonica.FPS(FrameRate)}
}

// Spawn adds a burst of particles at the given cell, drifting upward.
func (e *Emitter) Spawn(x, y float64) {
	n := minBurst + e.rnd.Intn(maxBurst-minBurst+1)
	for i := 0; i < n; i++ {
		vel := harmonica.Vector{
			X: (e.rnd.Float64() - 0.5) * 12,
			Y: (e.rnd.Float64()-1)*12 - 6,
		}
		e.particles = append(e.particles, Particle{
			proj: harmonica.NewProjectile(e.dt, harmonica.Point{X: x, Y: y}, vel, harmonica.TerminalGravity),
			Life: 1,
			Size: 2 + e.rnd.Float64()*3,
		})
	}
}

// Step advances one frame and drops dead particles.
func (e *Emitter) Step() {
	live := e.particles[:0]
	for _, p := range e.particles {
		p.proj.Update()
		p.Life -= lifeDecay
		p.Size *= shrink
		if p.dead() {
			continue
		}
		live = append(live, p)
	}
	for i := len(live); i < len(e.particles); i++ {
		e.particles[i] = Particle{}
	}
	e.particles = live
}

// Alive returns the number of live particles.
func (e *Emitter) Alive() int {
	return len(e.particles)
}

// Particles returns a copy of the live particles.
func (e *Emitter) Particles() []Particle {
	out := make([]Particle, len(e.particles))
	copy(out, e.particles)
	return out
}

// Clear removes every particle.
func (e *Emitter) Clear() {
	e.particles = nil
}
