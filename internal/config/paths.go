package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	appDirName     = "mddsklbl"
	configFileName = "labels.json"
	logDirName     = "logs"
)

// Paths locates the files owned by the configuration store.
type Paths struct {
	CfgDir  string
	CfgFile string
	LogDir  string
}

// PathsIn returns the standard layout rooted at dir.
func PathsIn(dir string) Paths {
	return Paths{
		CfgDir:  dir,
		CfgFile: filepath.Join(dir, configFileName),
		LogDir:  filepath.Join(dir, logDirName),
	}
}

// DefaultPaths resolves the per-user configuration and log directories.
func DefaultPaths() (Paths, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return Paths{}, fmt.Errorf("determine user config dir: %w", err)
	}
	paths := PathsIn(filepath.Join(base, appDirName))

	if cache, err := os.UserCacheDir(); err == nil {
		paths.LogDir = filepath.Join(cache, appDirName, logDirName)
	}
	return paths, nil
}
