// Package player turns a config into a running pipeline: it picks the
// graphics device, opens the stream and keeps everything needed to shut
// it all down again.
package player

import (
	"context"
	"sync"

	"github.com/tauraamui/blurplayer/pkg/blur"
	"github.com/tauraamui/blurplayer/pkg/configdef"
	"github.com/tauraamui/blurplayer/pkg/gpu"
	"github.com/tauraamui/blurplayer/pkg/log"
	"github.com/tauraamui/blurplayer/pkg/pipeline"
	"github.com/tauraamui/blurplayer/pkg/surface"
	"github.com/tauraamui/blurplayer/pkg/video/videosource"
	"github.com/tauraamui/xerror"
)

type Player interface {
	LoadConfiguration() error
	Config() configdef.Values
	Play(context.Context) error
	Ready() <-chan struct{}
	SetBlurRadius(float64)
	BlurRadius() float64
	SetBackend(blur.Kind)
	RequestedBackend() blur.Kind
	Backend() blur.Kind
	Stats() pipeline.Stats
	Shutdown() chan interface{}
}

type Option func(*player)

// WithSources overrides the source backend named in the config.
func WithSources(sources videosource.Backend) Option {
	return func(p *player) { p.sources = sources }
}

func New(resolver configdef.Resolver, screen surface.Screen, opts ...Option) Player {
	p := &player{
		configResolver: resolver,
		screen:         screen,
		ready:          make(chan struct{}),
		shutdownDone:   make(chan interface{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type player struct {
	configResolver configdef.Resolver
	config         configdef.Values
	screen         surface.Screen
	sources        videosource.Backend

	mu           sync.Mutex
	device       gpu.Device
	pipeline     *pipeline.Pipeline
	ready        chan struct{}
	readyOnce    sync.Once
	shutdownOnce sync.Once
	shutdownDone chan interface{}
}

func (p *player) LoadConfiguration() error {
	config, err := p.configResolver.Resolve()
	if err != nil {
		return err
	}

	p.config = config
	return nil
}

func (p *player) Config() configdef.Values { return p.config }

func (p *player) Play(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.pipeline != nil {
		return xerror.New("player is already playing")
	}

	kind, err := blur.ParseKind(p.config.Blur.Backend)
	if err != nil {
		return err
	}

	device := resolveDevice(p.config.Device)
	pl, err := pipeline.New(device, p.screen, pipeline.WithRate(p.config.FPS), pipeline.WithBackend(kind))
	if err != nil {
		closeDevice(device)
		return xerror.Errorf("unable to build pipeline: %w", err)
	}

	sources := p.sources
	if sources == nil {
		sources = videosource.Resolve(p.config.Stream.Source)
	}
	log.Info("Opening stream: [%s]...", p.config.Stream.URL)
	src, err := sources.Open(ctx, p.config.Stream.URL)
	if err != nil {
		pl.Stop()
		pl.Wait()
		closeDevice(device)
		return xerror.Errorf("unable to open stream: %w", err)
	}

	radius := p.config.Blur.Radius
	if err := pl.Play(src, &radius, p.onReady); err != nil {
		if cerr := src.Close(); cerr != nil {
			log.Error("unable to close source [%s]: %v", src.UUID(), cerr)
		}
		pl.Stop()
		pl.Wait()
		closeDevice(device)
		return err
	}

	p.device = device
	p.pipeline = pl
	return nil
}

func (p *player) onReady() {
	p.readyOnce.Do(func() {
		log.Info("Playing stream: [%s] with %s blur", p.config.Stream.URL, p.Backend())
		close(p.ready)
	})
}

func (p *player) Ready() <-chan struct{} { return p.ready }

func (p *player) current() *pipeline.Pipeline {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pipeline
}

func (p *player) SetBlurRadius(r float64) {
	if pl := p.current(); pl != nil {
		pl.SetBlurRadius(r)
	}
}

func (p *player) BlurRadius() float64 {
	if pl := p.current(); pl != nil {
		return pl.BlurRadius()
	}
	return p.config.Blur.Radius
}

func (p *player) SetBackend(kind blur.Kind) {
	if pl := p.current(); pl != nil {
		pl.SetBackend(kind)
	}
}

func (p *player) RequestedBackend() blur.Kind {
	if pl := p.current(); pl != nil {
		return pl.RequestedBackend()
	}
	kind, _ := blur.ParseKind(p.config.Blur.Backend)
	return kind
}

func (p *player) Backend() blur.Kind {
	if pl := p.current(); pl != nil {
		return pl.Backend()
	}
	kind, _ := blur.ParseKind(p.config.Blur.Backend)
	return kind
}

func (p *player) Stats() pipeline.Stats {
	if pl := p.current(); pl != nil {
		return pl.Stats()
	}
	return pipeline.Stats{}
}

func (p *player) shutdown() {
	p.mu.Lock()
	pl, device := p.pipeline, p.device
	p.mu.Unlock()

	if pl != nil {
		log.Warn("Stopping stream: [%s]...", p.config.Stream.URL)
		pl.Stop()
		pl.Wait()
	}
	closeDevice(device)
	close(p.shutdownDone)
}

// Shutdown stops playback in the background, the returned channel is
// closed once everything has been released.
func (p *player) Shutdown() chan interface{} {
	p.shutdownOnce.Do(func() { go p.shutdown() })
	return p.shutdownDone
}

func closeDevice(device gpu.Device) {
	if device == nil {
		return
	}
	if err := device.Close(); err != nil {
		log.Error("unable to close device %s: %v", device.Name(), err)
	}
}
