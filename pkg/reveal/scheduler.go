package reveal

import (
	"errors"
	"math"
	"sync"
	"time"

	"github.com/mpapenbr/trackroll/log"
	"github.com/mpapenbr/trackroll/pkg/model"
)

var ErrEmptyPool = errors.New("pool is empty")

// MaxTimeScale bounds the time scale so that scaled delays stay in range.
const MaxTimeScale = 100.0

// Picker draws uniform random indexes. *rand.Rand from math/rand/v2 satisfies it.
type Picker interface {
	IntN(n int) int
}

type (
	Option    func(*Scheduler)
	Scheduler struct {
		clock    Clock
		picker   Picker
		schedule Schedule
		scale    float64
		l        *log.Logger
	}
)

func WithClock(c Clock) Option {
	return func(s *Scheduler) {
		s.clock = c
	}
}

func WithPicker(p Picker) Option {
	return func(s *Scheduler) {
		s.picker = p
	}
}

// WithTimeScale multiplies all delays by f, see ClampTimeScale.
// 0 runs the roll as fast as the clock allows.
func WithTimeScale(f float64) Option {
	return func(s *Scheduler) {
		if v, ok := ClampTimeScale(f); ok {
			s.scale = v
		}
	}
}

// ClampTimeScale limits f to MaxTimeScale. ok is false for negative
// values and NaN, these must not be used.
func ClampTimeScale(f float64) (scale float64, ok bool) {
	if math.IsNaN(f) || f < 0 {
		return 0, false
	}
	return min(f, MaxTimeScale), true
}

func WithLogger(l *log.Logger) Option {
	return func(s *Scheduler) {
		s.l = l
	}
}

func New(picker Picker, opts ...Option) *Scheduler {
	s := &Scheduler{
		clock:    RealClock(),
		picker:   picker,
		schedule: DefaultSchedule,
		scale:    1,
		l:        log.Default().Named("reveal"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Roll starts the reveal sequence over pool. onTick is called once per tick
// with a random track of pool, afterwards onDone is called exactly once with an
// independently drawn track. Both callbacks run on the clock's goroutine.
// Roll returns immediately. The caller must not start another roll before
// onDone was called.
//
//nolint:whitespace // can't make both editor and linter happy
func (s *Scheduler) Roll(
	pool []model.Track,
	onTick func(*model.Track),
	onDone func(*model.Track),
) (*Run, error) {
	if len(pool) == 0 {
		return nil, ErrEmptyPool
	}
	r := &Run{s: s, pool: pool, onTick: onTick, onDone: onDone}
	s.l.Debug("roll started", log.Int("pool", len(pool)))
	r.mu.Lock()
	r.next(s.scaled(s.schedule.InitialDelay))
	r.mu.Unlock()
	return r, nil
}

func (s *Scheduler) scaled(d time.Duration) time.Duration {
	return time.Duration(float64(d) * s.scale)
}

func (s *Scheduler) pick(pool []model.Track) *model.Track {
	return &pool[s.picker.IntN(len(pool))]
}

type runState int

const (
	runPending runState = iota
	runDone
	runStopped
)

// Run is a single roll in progress.
type Run struct {
	s      *Scheduler
	pool   []model.Track
	onTick func(*model.Track)
	onDone func(*model.Track)

	mu    sync.Mutex
	ticks int
	state runState
	timer Timer
}

// next must be called with r.mu held.
func (r *Run) next(d time.Duration) {
	r.timer = r.s.clock.AfterFunc(d, r.step)
}

func (r *Run) step() {
	r.mu.Lock()
	if r.state != runPending {
		r.mu.Unlock()
		return
	}
	r.ticks++
	tick := r.ticks
	last := tick >= r.s.schedule.Ticks
	if last {
		r.state = runDone
	}
	r.mu.Unlock()

	if r.onTick != nil {
		r.onTick(r.s.pick(r.pool))
	}
	if !last {
		r.mu.Lock()
		if r.state == runPending {
			r.next(r.s.scaled(r.s.schedule.Delay(tick)))
		}
		r.mu.Unlock()
		return
	}
	final := r.s.pick(r.pool)
	r.s.l.Debug("roll done", log.Int("ticks", tick), log.String("track", final.Name))
	if r.onDone != nil {
		r.onDone(final)
	}
}

// Ticks returns the number of ticks delivered so far.
func (r *Run) Ticks() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ticks
}

// Done reports whether onDone was invoked (or is being invoked).
func (r *Run) Done() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state == runDone
}

// Stop clears the pending timer. A stopped run never completes; this is only
// meant for teardown.
func (r *Run) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != runPending {
		return
	}
	r.state = runStopped
	if r.timer != nil {
		r.timer.Stop()
	}
}
