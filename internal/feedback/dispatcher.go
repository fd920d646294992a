package feedback

import (
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/verte-zerg/keyzen/internal/logging"
	"github.com/verte-zerg/keyzen/internal/model"
)

const defaultQueueSize = 32

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithMaxPerSecond caps how many clicks reach the player each second.
// Non-positive values disable the cap.
func WithMaxPerSecond(n int) DispatcherOption {
	return func(d *Dispatcher) {
		if n <= 0 {
			d.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		d.limiter = rate.NewLimiter(rate.Limit(n), n)
	}
}

// WithQueueSize sets how many clicks may wait for the player.
func WithQueueSize(n int) DispatcherOption {
	return func(d *Dispatcher) {
		if n > 0 {
			d.queueSize = n
		}
	}
}

// WithRand replaces the jitter source.
func WithRand(rnd *rand.Rand) DispatcherOption {
	return func(d *Dispatcher) {
		d.rnd = rnd
	}
}

// Dispatcher plays clicks on a background worker. Play never blocks and never
// fails: clicks that cannot be queued or played are dropped.
type Dispatcher struct {
	player    Player
	limiter   *rate.Limiter
	queueSize int
	queue     chan click
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once

	// rnd is only touched by the worker.
	rnd *rand.Rand
}

type click struct {
	profile model.Profile
	seed    string
}

// NewDispatcher starts a worker feeding player.
func NewDispatcher(player Player, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		player:    player,
		limiter:   rate.NewLimiter(rate.Inf, 0),
		queueSize: defaultQueueSize,
		done:      make(chan struct{}),
		rnd:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.player == nil {
		d.player = NopPlayer{}
	}
	d.queue = make(chan click, d.queueSize)
	d.wg.Add(1)
	go d.run()
	return d
}

// Play queues a click for profile with a pitch derived from seed.
func (d *Dispatcher) Play(profile model.Profile, seed string) {
	select {
	case <-d.done:
		return
	default:
	}
	if !d.limiter.Allow() {
		return
	}
	select {
	case d.queue <- click{profile: profile, seed: seed}:
	default:
	}
}

// Close stops the worker and waits for it. Queued clicks are discarded.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.done)
	})
	d.wg.Wait()
}

func (d *Dispatcher) run() {
	defer d.wg.Done()
	logger := logging.GetLogger().Named("feedback")
	for {
		select {
		case <-d.done:
			return
		case c := <-d.queue:
			v := NewVoice(c.profile, Rate(c.seed, d.rnd))
			if err := d.player.Play(v); err != nil {
				logger.Debug("click dropped", zap.Stringer("profile", v.Profile), zap.Error(err))
			}
		}
	}
}
