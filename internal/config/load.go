package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/tauraamui/blurplayer/pkg/configdef"
	"github.com/tauraamui/blurplayer/pkg/log"
	"github.com/tauraamui/xerror"
)

const (
	vendorName     = "tacusci"
	appName        = "blurplayer"
	configFileName = "config.json"
	configPathEnv  = "BLURPLAYER_CONFIG"
)

var fs afero.Fs = afero.NewOsFs()

func load() (configdef.Values, error) {
	var values configdef.Values

	configPath, err := resolveConfigPath()
	if err != nil {
		return configdef.Values{}, err
	}

	log.Info("Resolved config file location: %s", configPath)
	file, err := readConfigFile(configPath)
	if err != nil {
		return configdef.Values{}, err
	}

	if err := unmarshal(file, &values); err != nil {
		return configdef.Values{}, err
	}

	loadDefaults(&values)

	if err = values.RunValidate(); err != nil {
		return configdef.Values{}, err
	}

	return values, nil
}

// loadDefaults fills in whatever the file left out. A zero radius is a
// valid setting so it is left alone.
func loadDefaults(values *configdef.Values) {
	if values.FPS == 0 {
		values.FPS = defaultSettings[FPS].(float64)
	}
	if len(values.Device) == 0 {
		values.Device = defaultSettings[DEVICE].(string)
	}
	if len(values.Stream.Source) == 0 {
		values.Stream.Source = defaultSettings[STREAMSOURCE].(string)
	}
	if len(values.Blur.Backend) == 0 {
		values.Blur.Backend = defaultSettings[BLURBACKEND].(string)
	}
	if len(values.Window.Title) == 0 {
		values.Window.Title = defaultSettings[WINDOWTITLE].(string)
	}
	if values.Window.Width == 0 {
		values.Window.Width = defaultSettings[WINDOWWIDTH].(int)
	}
	if values.Window.Height == 0 {
		values.Window.Height = defaultSettings[WINDOWHEIGHT].(int)
	}
}

var readConfigFile = func(path string) ([]byte, error) {
	return afero.ReadFile(fs, path)
}

func unmarshal(content []byte, values *configdef.Values) error {
	err := json.Unmarshal(content, values)
	if err != nil {
		return errors.Errorf("parsing configuration error: %v", err)
	}
	return nil
}

func resolveConfigPath() (string, error) {
	configPath := os.Getenv(configPathEnv)
	if len(configPath) > 0 {
		return configPath, nil
	}

	configParentDir, err := userConfigDir()
	if err != nil {
		return "", xerror.Errorf("unable to resolve %s location: %w", configFileName, err)
	}

	return filepath.Join(
		configParentDir,
		vendorName,
		appName,
		configFileName), nil
}

var userConfigDir = func() (string, error) {
	return os.UserConfigDir()
}
