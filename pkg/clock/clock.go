// Package clock drives the pipeline at a fixed rate, independent of how
// fast the source decodes.
package clock

import (
	"errors"
	"sync"
	"time"

	"github.com/tauraamui/blurplayer/pkg/log"
)

const DefaultRate = 20.0

var (
	ErrRunning = errors.New("clock already running")
	ErrStopped = errors.New("clock has been stopped")
)

type Ticker interface {
	C() <-chan time.Time
	Stop()
}

type Option func(*Clock)

// WithTicker replaces the wall clock ticker, mostly so tests can fire
// ticks by hand.
func WithTicker(newTicker func(period time.Duration) Ticker) Option {
	return func(c *Clock) { c.newTicker = newTicker }
}

type state int

const (
	idle state = iota
	running
	stopped
)

// Tick is handed to every callback.
type Tick struct {
	Time  time.Time
	clock *Clock
}

// Stop halts the clock from inside the callback without waiting on it.
// The current callback runs to completion and is the last one.
func (t Tick) Stop() { t.clock.halt() }

// Clock calls back once per tick on its own goroutine. Callbacks never
// overlap; a tick that arrives while one is still running is dropped.
type Clock struct {
	newTicker func(time.Duration) Ticker
	mu        sync.Mutex
	state     state
	stopping  chan interface{}
	done      chan interface{}

	// calling is held for the whole of each callback, state check included.
	calling sync.Mutex
}

func New(opts ...Option) *Clock {
	c := &Clock{newTicker: newTimeTicker, done: make(chan interface{})}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Start begins firing fn at rateHz, a rate of zero or less uses the
// default. A clock runs once, it cannot be restarted after Stop.
func (c *Clock) Start(rateHz float64, fn func(Tick)) error {
	if rateHz <= 0 {
		rateHz = DefaultRate
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case running:
		return ErrRunning
	case stopped:
		return ErrStopped
	}
	c.state = running
	c.stopping = make(chan interface{})

	period := time.Duration(float64(time.Second) / rateHz)
	log.Debug("starting frame clock at %.2fHz (%s)", rateHz, period)
	go c.run(c.newTicker(period), fn)
	return nil
}

func (c *Clock) run(t Ticker, fn func(Tick)) {
	defer close(c.done)
	defer t.Stop()
	for {
		select {
		case <-c.stopping:
			return
		case now := <-t.C():
			if !c.call(fn, now) {
				return
			}
		}
	}
}

func (c *Clock) call(fn func(Tick), now time.Time) bool {
	c.calling.Lock()
	defer c.calling.Unlock()
	if !c.Running() {
		return false
	}
	fn(Tick{Time: now, clock: c})
	return true
}

func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == running
}

// Stop halts the clock and blocks until a callback in progress has
// returned, so none runs once Stop returns. From inside the callback use
// Tick.Stop, calling Stop there deadlocks.
func (c *Clock) Stop() {
	c.halt()
	c.calling.Lock()
	defer c.calling.Unlock()
}

func (c *Clock) halt() {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.state {
	case running:
		close(c.stopping)
	case idle:
		close(c.done)
	}
	c.state = stopped
}

// Wait blocks until the clock goroutine has exited. It must not be
// called from inside the callback.
func (c *Clock) Wait() {
	c.mu.Lock()
	st := c.state
	c.mu.Unlock()
	if st == idle {
		return
	}
	<-c.done
}

type timeTicker struct{ t *time.Ticker }

func newTimeTicker(period time.Duration) Ticker {
	return &timeTicker{t: time.NewTicker(period)}
}

func (t *timeTicker) C() <-chan time.Time { return t.t.C }
func (t *timeTicker) Stop()               { t.t.Stop() }
