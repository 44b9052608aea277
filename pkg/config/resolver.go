package config

import (
	"github.com/tauraamui/blurplayer/internal/config"
	"github.com/tauraamui/blurplayer/pkg/configdef"
)

type Resolver interface {
	configdef.Resolver
}

func DefaultResolver() Resolver {
	return config.DefaultResolver()
}
