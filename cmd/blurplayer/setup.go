package main

import (
	"errors"

	"github.com/tauraamui/blurplayer/pkg/config"
	"github.com/tauraamui/blurplayer/pkg/configdef"
	"github.com/tauraamui/blurplayer/pkg/log"
	"github.com/urfave/cli"
)

func setup(_ *cli.Context) error {
	log.Info("Setting up blurplayer...")

	err := config.DefaultCreator().Create()
	if err != nil {
		if !errors.Is(err, configdef.ErrConfigAlreadyExists) {
			return err
		}
		log.Error(err.Error())
	}

	log.Info("Setup successful...")
	return nil
}
