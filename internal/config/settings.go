package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"go-simpler.org/env"
)

// Settings are the process-level knobs read from the environment.
type Settings struct {
	ConfigDir   string `env:"MDDSKLBL_CONFIG_DIR"`
	ConfigFile  string `env:"MDDSKLBL_CONFIG_FILE"`
	LogDir      string `env:"MDDSKLBL_LOG_DIR"`
	LogLevel    string `env:"MDDSKLBL_LOG_LEVEL" default:"info"`
	Endpoint    string `env:"MDDSKLBL_ENDPOINT"`
	ShowConsole bool   `env:"MDDSKLBL_SHOW_CONSOLE"`
}

// LoadSettings reads Settings from the process environment.
func LoadSettings() (*Settings, error) {
	var s Settings
	if err := env.Load(&s, nil); err != nil {
		return nil, fmt.Errorf("load environment settings: %w", err)
	}
	s.LogLevel = strings.ToLower(strings.TrimSpace(s.LogLevel))
	return &s, nil
}

// Paths applies the directory overrides on top of DefaultPaths.
func (s *Settings) Paths() (Paths, error) {
	var paths Paths
	if s.ConfigDir != "" {
		paths = PathsIn(s.ConfigDir)
	} else {
		var err error
		if paths, err = DefaultPaths(); err != nil {
			return Paths{}, err
		}
	}

	if s.ConfigFile != "" {
		paths.CfgFile = s.ConfigFile
		paths.CfgDir = filepath.Dir(s.ConfigFile)
	}
	if s.LogDir != "" {
		paths.LogDir = s.LogDir
	}
	return paths, nil
}
