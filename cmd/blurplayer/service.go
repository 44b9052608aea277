package main

import (
	"runtime"

	"github.com/takama/daemon"
	"github.com/tauraamui/blurplayer/pkg/log"
	"github.com/urfave/cli"
)

type serviceCommand func(daemon.Daemon) (string, error)

// install registers the player headless, there is no display for a service.
func install(srv daemon.Daemon) (string, error) { return srv.Install("play", "--headless") }

func remove(srv daemon.Daemon) (string, error) { return srv.Remove() }

func start(srv daemon.Daemon) (string, error) { return srv.Start() }

func stop(srv daemon.Daemon) (string, error) { return srv.Stop() }

func status(srv daemon.Daemon) (string, error) { return srv.Status() }

var newDaemon = func() (daemon.Daemon, error) {
	daemonType := daemon.SystemDaemon
	if runtime.GOOS == "darwin" {
		daemonType = daemon.UserAgent
	}
	return daemon.New(name, description, daemonType)
}

func serviceAction(cmd serviceCommand) func(*cli.Context) error {
	return func(_ *cli.Context) error {
		srv, err := newDaemon()
		if err != nil {
			return err
		}

		result, err := cmd(srv)
		if err != nil {
			return err
		}
		log.Info("%s", result)
		return nil
	}
}
