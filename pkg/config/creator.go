package config

import (
	"github.com/tauraamui/blurplayer/internal/config"
	"github.com/tauraamui/blurplayer/pkg/configdef"
)

type Creator interface {
	configdef.Creator
}

func DefaultCreator() Creator {
	return config.DefaultCreator()
}
