package main

import (
	"os"
	"runtime"

	"github.com/tauraamui/blurplayer/pkg/log"
	"github.com/urfave/cli"
)

const (
	name        = "blurplayer"
	description = "Plays a video stream through a live Gaussian blur"
)

func init() {
	// highgui has to run on the main thread, play hands it main's goroutine
	runtime.LockOSThread()
	log.SetLevel(os.Getenv("BLURPLAYER_LOGGING_LEVEL"))
}

func main() {
	app := cli.NewApp()
	app.Name = name
	app.Usage = description
	app.Version = "0.1.0"
	app.Commands = []cli.Command{
		{
			Name:  "play",
			Usage: "play the configured stream with the blur applied",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "url",
					Usage: "stream address, overrides the config file",
				},
				cli.StringFlag{
					Name:  "source",
					Usage: "source backend to open the stream with (opencv, mock)",
				},
				cli.Float64Flag{
					Name:  "radius",
					Usage: "starting blur radius in pixels",
				},
				cli.StringFlag{
					Name:  "backend",
					Usage: "blur backend (composited, gpu_separable, direct_draw)",
				},
				cli.StringFlag{
					Name:  "device",
					Usage: "graphics device (cuda, software, none)",
				},
				cli.Float64Flag{
					Name:  "fps",
					Usage: "refresh rate of the frame clock",
				},
				cli.BoolFlag{
					Name:  "headless",
					Usage: "render off screen instead of opening a window",
				},
				cli.BoolFlag{
					Name:  "tui",
					Usage: "control the radius and backend from the terminal",
				},
			},
			Action: play,
		},
		{
			Name:   "setup",
			Usage:  "write the default config file",
			Action: setup,
		},
		{
			Name:   "devices",
			Usage:  "list the graphics devices the player can use",
			Action: listDevices,
		},
		{
			Name:  "service",
			Usage: "manage a headless player running as a system service",
			Subcommands: []cli.Command{
				{Name: "install", Usage: "install the service", Action: serviceAction(install)},
				{Name: "remove", Usage: "remove the service", Action: serviceAction(remove)},
				{Name: "start", Usage: "start the service", Action: serviceAction(start)},
				{Name: "stop", Usage: "stop the service", Action: serviceAction(stop)},
				{Name: "status", Usage: "show the service status", Action: serviceAction(status)},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}
