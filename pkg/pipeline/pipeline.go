// Package pipeline ties a frame source, the frame clock, a blur backend
// and a presenter together. One pipeline plays one session: once stopped
// it stays stopped.
package pipeline

import (
	"errors"
	"math"
	"sync"

	"github.com/tauraamui/blurplayer/pkg/blur"
	"github.com/tauraamui/blurplayer/pkg/clock"
	"github.com/tauraamui/blurplayer/pkg/gpu"
	"github.com/tauraamui/blurplayer/pkg/log"
	"github.com/tauraamui/blurplayer/pkg/surface"
	"github.com/tauraamui/blurplayer/pkg/video/videosource"
	"github.com/tauraamui/xerror"
	"go.uber.org/atomic"
)

var (
	ErrNoGraphicsContext = errors.New("no usable graphics context")
	ErrNotIdle           = errors.New("pipeline has already been played")
)

type State int

const (
	Idle State = iota
	Buffering
	Playing
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Buffering:
		return "buffering"
	case Playing:
		return "playing"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

type Stats struct {
	Ticks           uint64
	Frames          uint64
	EmptyTicks      uint64
	SurfaceFailures uint64
}

type Option func(*settings)

type settings struct {
	rate         float64
	kind         blur.Kind
	clockOptions []clock.Option
}

func WithRate(hz float64) Option {
	return func(s *settings) { s.rate = hz }
}

func WithBackend(kind blur.Kind) Option {
	return func(s *settings) { s.kind = kind }
}

func WithClockOptions(opts ...clock.Option) Option {
	return func(s *settings) { s.clockOptions = append(s.clockOptions, opts...) }
}

type Pipeline struct {
	device gpu.Device
	screen surface.Screen
	queue  gpu.CommandQueue
	rate   float64
	clock  *clock.Clock
	radius atomic.Float64

	mu sync.Mutex
	// notifying is held while the ready callback is decided and run.
	notifying sync.Mutex
	state     State
	src       videosource.Source
	stopping  chan interface{}
	done      chan interface{}
	waiting   sync.WaitGroup

	// render guards everything a tick touches besides the radius.
	render    sync.Mutex
	kind      blur.Kind
	backend   blur.Backend
	presenter surface.Presenter

	ticks, frames, emptyTicks, surfaceFailures atomic.Uint64
}

// New fails only when there is nowhere to present to. Without a device,
// or one that cannot hand out a command queue, frames are blurred in
// software and drawn straight into the screen's layer.
func New(device gpu.Device, screen surface.Screen, opts ...Option) (*Pipeline, error) {
	if screen == nil {
		return nil, ErrNoGraphicsContext
	}
	s := settings{rate: clock.DefaultRate, kind: blur.GPUSeparable}
	for _, opt := range opts {
		opt(&s)
	}

	p := &Pipeline{
		device:   device,
		screen:   screen,
		rate:     s.rate,
		clock:    clock.New(s.clockOptions...),
		stopping: make(chan interface{}),
		done:     make(chan interface{}),
	}
	if device != nil {
		q, err := device.NewCommandQueue()
		if err != nil {
			log.Warn("unable to create command queue on %s, drawing directly: %v", device.Name(), err)
			p.device = nil
		} else {
			p.queue = q
		}
	}
	p.use(s.kind)
	return p, nil
}

// use must be called with render held, or before the pipeline is shared.
func (p *Pipeline) use(kind blur.Kind) {
	p.kind = kind
	p.backend = blur.Select(kind, p.device)
	if p.backend.Kind() == blur.DirectDraw || p.queue == nil {
		p.presenter = surface.NewLayerPresenter(p.screen)
		return
	}
	p.presenter = surface.NewGPUPresenter(p.screen, p.queue)
}

// Play binds src and waits in the background for it to become ready.
// The clock starts once it is, then onReady is called, once. A nil
// radius keeps the current one.
func (p *Pipeline) Play(src videosource.Source, radius *float64, onReady func()) error {
	if src == nil {
		return xerror.New("no source to play")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.state != Idle {
		return xerror.Errorf("%w: %s", ErrNotIdle, p.state)
	}
	if radius != nil {
		p.SetBlurRadius(*radius)
	}
	p.src = src
	p.state = Buffering
	log.Info("buffering source [%s]", src.UUID())

	p.waiting.Add(1)
	go p.awaitReady(src, onReady)
	return nil
}

func (p *Pipeline) awaitReady(src videosource.Source, onReady func()) {
	defer p.waiting.Done()
	select {
	case <-p.stopping:
		return
	case <-src.Ready():
	}

	p.notifying.Lock()
	defer p.notifying.Unlock()

	p.mu.Lock()
	if p.state != Buffering {
		p.mu.Unlock()
		return
	}
	if err := p.clock.Start(p.rate, p.tick); err != nil {
		p.mu.Unlock()
		log.Error("unable to start frame clock: %v", err)
		return
	}
	p.state = Playing
	p.mu.Unlock()

	log.Info("source [%s] ready, playing at %.2fHz", src.UUID(), p.rate)
	if onReady != nil {
		onReady()
	}
}

// playing returns the bound source while frames should still flow.
func (p *Pipeline) playing() (videosource.Source, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.src, p.state == Playing && p.src != nil
}

func (p *Pipeline) tick(t clock.Tick) {
	src, ok := p.playing()
	if !ok {
		return
	}
	defer p.ticks.Inc()

	now := t.Time
	if !src.HasNewFrame(now) {
		p.emptyTicks.Inc()
		return
	}
	frame, ok := src.TakeFrame(now)
	if !ok {
		p.emptyTicks.Inc()
		return
	}
	defer frame.Close()

	radius := p.radius.Load()

	p.render.Lock()
	defer p.render.Unlock()
	res := p.backend.Apply(frame.Image(), radius)
	if err := p.presenter.Present(res.Image, res.InPlace); err != nil {
		if errors.Is(err, surface.ErrSurfaceUnavailable) {
			p.surfaceFailures.Inc()
			log.Debug("skipping frame: %v", err)
			return
		}
		log.Error("unable to present frame: %v", err)
		return
	}
	p.frames.Inc()
}

// Stop halts playback from any state and is safe to call more than once.
// Once it returns no tick and no ready callback runs. It waits for one
// already running, so onReady must not call Stop directly; it can do so
// from its own goroutine. The source and backend are released in the
// background, Wait blocks until that is done.
func (p *Pipeline) Stop() {
	p.mu.Lock()
	if p.state != Stopped {
		log.Debug("stopping pipeline in state %s", p.state)
		p.state = Stopped
		close(p.stopping)
		src := p.src
		p.src = nil
		go p.release(src)
	}
	p.mu.Unlock()

	p.clock.Stop()
	p.notifying.Lock()
	defer p.notifying.Unlock()
}

func (p *Pipeline) release(src videosource.Source) {
	defer close(p.done)
	p.waiting.Wait()
	p.clock.Wait()

	if src != nil {
		if err := src.Close(); err != nil {
			log.Error("unable to close source [%s]: %v", src.UUID(), err)
		}
	}

	p.render.Lock()
	defer p.render.Unlock()
	if err := p.backend.Close(); err != nil {
		log.Error("unable to release blur backend: %v", err)
	}
	if p.queue != nil {
		if err := p.queue.Close(); err != nil {
			log.Error("unable to close command queue: %v", err)
		}
	}
}

// Wait blocks until a stopped pipeline has let go of everything. It
// returns straight away for a pipeline that was never played or stopped.
func (p *Pipeline) Wait() {
	p.mu.Lock()
	st := p.state
	p.mu.Unlock()
	if st == Idle {
		return
	}
	<-p.done
}

// SetBlurRadius takes effect from the next frame. Negative values and
// NaN mean no blur.
func (p *Pipeline) SetBlurRadius(v float64) {
	if v < 0 || math.IsNaN(v) {
		v = 0
	}
	p.radius.Store(v)
}

func (p *Pipeline) BlurRadius() float64 { return p.radius.Load() }

// SetBackend swaps the blur path between frames. A stopped pipeline
// ignores it.
func (p *Pipeline) SetBackend(kind blur.Kind) {
	p.render.Lock()
	defer p.render.Unlock()
	if kind == p.kind || p.State() == Stopped {
		return
	}
	old := p.backend
	p.use(kind)
	log.Info("switched blur backend from %s to %s", old.Kind(), p.backend.Kind())
	if err := old.Close(); err != nil {
		log.Error("unable to release blur backend: %v", err)
	}
}

// RequestedBackend is the kind last asked for, before any fallback.
func (p *Pipeline) RequestedBackend() blur.Kind {
	p.render.Lock()
	defer p.render.Unlock()
	return p.kind
}

// Backend reports the blur path frames currently go through, after any
// fallback.
func (p *Pipeline) Backend() blur.Kind {
	p.render.Lock()
	defer p.render.Unlock()
	return p.backend.Kind()
}

func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Pipeline) Stats() Stats {
	return Stats{
		Ticks:           p.ticks.Load(),
		Frames:          p.frames.Load(),
		EmptyTicks:      p.emptyTicks.Load(),
		SurfaceFailures: p.surfaceFailures.Load(),
	}
}
