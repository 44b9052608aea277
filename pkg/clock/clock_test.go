package clock_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/tauraamui/blurplayer/pkg/clock"
	"go.uber.org/atomic"
)

type manualTicker struct {
	c       chan time.Time
	period  time.Duration
	stopped atomic.Bool
}

func (m *manualTicker) C() <-chan time.Time { return m.c }
func (m *manualTicker) Stop()               { m.stopped.Store(true) }

func withManualTicker(m *manualTicker) clock.Option {
	return clock.WithTicker(func(period time.Duration) clock.Ticker {
		m.period = period
		return m
	})
}

func TestClockFiresOncePerTick(t *testing.T) {
	is := is.New(t)
	m := &manualTicker{c: make(chan time.Time)}
	c := clock.New(withManualTicker(m))

	var count atomic.Int32
	fired := make(chan struct{})
	is.NoErr(c.Start(20, func(clock.Tick) {
		count.Inc()
		fired <- struct{}{}
	}))
	is.Equal(m.period, 50*time.Millisecond)
	is.True(c.Running())

	for i := 0; i < 3; i++ {
		m.c <- time.Now()
		<-fired
	}
	c.Stop()
	c.Wait()

	is.Equal(count.Load(), int32(3))
	is.True(m.stopped.Load())
	is.True(!c.Running())
}

func TestClockDefaultRate(t *testing.T) {
	is := is.New(t)
	m := &manualTicker{c: make(chan time.Time)}
	c := clock.New(withManualTicker(m))
	is.NoErr(c.Start(0, func(clock.Tick) {}))
	is.Equal(m.period, 50*time.Millisecond)
	c.Stop()
	c.Wait()
}

func TestClockCallbacksNeverOverlap(t *testing.T) {
	is := is.New(t)
	var (
		mu       sync.Mutex
		inFlight int
		overlap  bool
		count    atomic.Int32
	)
	c := clock.New()
	is.NoErr(c.Start(500, func(clock.Tick) {
		mu.Lock()
		inFlight++
		if inFlight > 1 {
			overlap = true
		}
		mu.Unlock()
		time.Sleep(3 * time.Millisecond)
		mu.Lock()
		inFlight--
		mu.Unlock()
		count.Inc()
	}))
	time.Sleep(60 * time.Millisecond)
	c.Stop()
	c.Wait()

	is.True(!overlap)
	is.True(count.Load() > 0)
}

func TestClockZeroCallbacksAfterStop(t *testing.T) {
	is := is.New(t)
	var count atomic.Int32
	c := clock.New()
	is.NoErr(c.Start(1000, func(clock.Tick) { count.Inc() }))
	time.Sleep(20 * time.Millisecond)

	c.Stop()
	c.Wait()
	after := count.Load()
	time.Sleep(30 * time.Millisecond)
	is.Equal(count.Load(), after)
}

func TestClockStopFromInsideCallbackLetsItFinish(t *testing.T) {
	is := is.New(t)
	m := &manualTicker{c: make(chan time.Time, 2)}
	c := clock.New(withManualTicker(m))

	var finished, calls atomic.Int32
	is.NoErr(c.Start(20, func(tick clock.Tick) {
		calls.Inc()
		tick.Stop()
		finished.Inc()
	}))
	m.c <- time.Now()
	m.c <- time.Now()
	c.Wait()

	is.Equal(calls.Load(), int32(1))
	is.Equal(finished.Load(), int32(1))
}

func TestClockStopIsIdempotent(t *testing.T) {
	is := is.New(t)
	c := clock.New()
	is.NoErr(c.Start(50, func(clock.Tick) {}))
	c.Stop()
	c.Stop()
	c.Wait()
	c.Wait()
	is.True(!c.Running())
}

func TestClockCannotRestart(t *testing.T) {
	is := is.New(t)
	c := clock.New()
	is.NoErr(c.Start(50, func(clock.Tick) {}))
	is.True(errors.Is(c.Start(50, func(clock.Tick) {}), clock.ErrRunning))
	c.Stop()
	c.Wait()
	is.True(errors.Is(c.Start(50, func(clock.Tick) {}), clock.ErrStopped))
}

func TestClockStopBeforeStart(t *testing.T) {
	is := is.New(t)
	c := clock.New()
	c.Wait()
	c.Stop()
	c.Wait()
	is.True(errors.Is(c.Start(50, func(clock.Tick) {}), clock.ErrStopped))
}

func TestClockNoCallbackStartsAfterStopReturns(t *testing.T) {
	is := is.New(t)
	for i := 0; i < 500; i++ {
		m := &manualTicker{c: make(chan time.Time)}
		c := clock.New(withManualTicker(m))

		var stopped, late atomic.Bool
		is.NoErr(c.Start(20, func(clock.Tick) {
			if stopped.Load() {
				late.Store(true)
			}
		}))

		go func() {
			for {
				select {
				case m.c <- time.Now():
				case <-time.After(5 * time.Millisecond):
					return
				}
			}
		}()

		c.Stop()
		stopped.Store(true)
		c.Wait()
		is.True(!late.Load())
	}
}

func TestClockStopWaitsForRunningCallback(t *testing.T) {
	is := is.New(t)
	m := &manualTicker{c: make(chan time.Time)}
	c := clock.New(withManualTicker(m))

	entered := make(chan struct{})
	release := make(chan struct{})
	var finished atomic.Bool
	is.NoErr(c.Start(20, func(clock.Tick) {
		close(entered)
		<-release
		finished.Store(true)
	}))
	m.c <- time.Now()
	<-entered

	returned := make(chan struct{})
	go func() {
		c.Stop()
		close(returned)
	}()

	select {
	case <-returned:
		t.Fatal("stop returned while the callback was still running")
	case <-time.After(20 * time.Millisecond):
	}
	close(release)
	<-returned
	is.True(finished.Load())
}
