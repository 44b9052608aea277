// Package config exposes the player's config file handling.
package config

import (
	"github.com/tauraamui/blurplayer/internal/config"
	"github.com/tauraamui/blurplayer/pkg/configdef"
)

type CreateResolver interface {
	configdef.CreateResolver
}

func DefaultCreateResolver() CreateResolver {
	return config.DefaultCreateResolver()
}
