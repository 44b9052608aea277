package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/tauraamui/blurplayer/pkg/config"
	"github.com/tauraamui/blurplayer/pkg/configdef"
	"github.com/tauraamui/blurplayer/pkg/log"
	"github.com/tauraamui/blurplayer/pkg/player"
	"github.com/tauraamui/blurplayer/pkg/surface"
	"github.com/tauraamui/blurplayer/pkg/tui"
	"github.com/urfave/cli"
)

// flagSet is the part of *cli.Context the overrides read from.
type flagSet interface {
	IsSet(name string) bool
	String(name string) string
	Float64(name string) float64
	Bool(name string) bool
}

func applyFlags(flags flagSet, values *configdef.Values) {
	if flags.IsSet("url") {
		values.Stream.URL = flags.String("url")
	}
	if flags.IsSet("source") {
		values.Stream.Source = flags.String("source")
	}
	if flags.IsSet("radius") {
		values.Blur.Radius = flags.Float64("radius")
	}
	if flags.IsSet("backend") {
		values.Blur.Backend = flags.String("backend")
	}
	if flags.IsSet("device") {
		values.Device = flags.String("device")
	}
	if flags.IsSet("fps") {
		values.FPS = flags.Float64("fps")
	}
	if flags.Bool("headless") {
		values.Window.Headless = true
	}
}

// overrides layers command line flags on top of a resolved config.
type overrides struct {
	base  configdef.Resolver
	flags flagSet
}

func (o overrides) Resolve() (configdef.Values, error) {
	values, err := o.base.Resolve()
	if err != nil {
		return configdef.Values{}, err
	}

	applyFlags(o.flags, &values)
	if err := values.RunValidate(); err != nil {
		return configdef.Values{}, err
	}
	return values, nil
}

type resolved configdef.Values

func (r resolved) Resolve() (configdef.Values, error) { return configdef.Values(r), nil }

func play(c *cli.Context) error {
	values, err := overrides{base: config.DefaultResolver(), flags: c}.Resolve()
	if err != nil {
		return err
	}

	if os.Getenv("BLURPLAYER_LOGGING_LEVEL") == "" {
		if values.Debug {
			log.SetLevel("debug")
		}
		if c.Bool("tui") {
			log.SetLevel("silent")
		}
	}

	var window *surface.Window
	var screen surface.Screen
	if values.Window.Headless {
		screen = surface.NewMemory(values.Window.Width, values.Window.Height).Retain(1)
	} else {
		window = surface.NewWindow(values.Window.Title, values.Window.Width, values.Window.Height)
		screen = window
	}

	p := player.New(resolved(values), screen)
	if err := p.LoadConfiguration(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupt)
	go func() {
		select {
		case killSignal := <-interrupt:
			fmt.Print("\r")
			log.Error("Received signal: %s", killSignal)
			cancel()
		case <-ctx.Done():
		}
	}()

	log.Info("Starting blurplayer on %s...", values.Stream.URL)
	if err := p.Play(ctx); err != nil {
		return err
	}

	if c.Bool("tui") {
		go func() {
			if err := tui.Run(ctx, values.Window.Title, p); err != nil {
				log.Error("terminal controls stopped: %s", err)
			}
			cancel()
		}()
	}

	if window != nil {
		// main's goroutine is locked to the main thread in init
		if err := window.Run(ctx); err != nil {
			log.Error(err.Error())
		}
		cancel()
	}
	<-ctx.Done()

	log.Info("Shutting down player...")
	<-p.Shutdown()

	displayStats(p.Stats())
	return nil
}
