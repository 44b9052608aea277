package log_test

import (
	"testing"

	"github.com/matryer/is"
	"github.com/tacusci/logging/v2"
	"github.com/tauraamui/blurplayer/pkg/log"
)

func TestSetLevelResolvesKnownNames(t *testing.T) {
	is := is.New(t)
	defer log.SetLevel("warn")

	log.SetLevel("DEBUG")
	is.Equal(logging.CurrentLoggingLevel, logging.DebugLevel)

	log.SetLevel("info")
	is.Equal(logging.CurrentLoggingLevel, logging.InfoLevel)

	log.SetLevel("silent")
	is.Equal(logging.CurrentLoggingLevel, logging.SilentLevel)
}

func TestSetLevelDefaultsToWarn(t *testing.T) {
	is := is.New(t)
	log.SetLevel("nonsense")
	is.Equal(logging.CurrentLoggingLevel, logging.WarnLevel)
}
