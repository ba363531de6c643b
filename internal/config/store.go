package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const tempFilePattern = ".labels-*.tmp"

// ParseError reports a configuration file that exists but cannot be decoded.
// Callers decide whether to fall back to defaults.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse config %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// LoadOrDefault reads the document at paths.CfgFile and applies migrations.
// A missing file yields Default() and migrated=false.
func LoadOrDefault(paths Paths) (*Config, bool, error) {
	raw, err := os.ReadFile(paths.CfgFile)
	if errors.Is(err, os.ErrNotExist) {
		return Default(), false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, false, &ParseError{Path: paths.CfgFile, Err: err}
	}
	if cfg.Desktops == nil {
		cfg.Desktops = make(map[string]DesktopLabel)
	}

	return cfg, migrate(cfg), nil
}

// migrate remaps the legacy snap-position default from S to L. Documents
// that already carry a version are never rewritten.
func migrate(cfg *Config) bool {
	if cfg.Version != nil {
		return false
	}
	if cfg.Hotkeys.SnapPosition.Key != "S" {
		return false
	}
	cfg.Hotkeys.SnapPosition.Key = "L"
	v := CurrentVersion
	cfg.Version = &v
	return true
}

// SaveAtomic writes cfg to paths.CfgFile through a temp file in the same
// directory followed by a rename, so readers see either the old or the new
// document in full.
func SaveAtomic(cfg *Config, paths Paths) error {
	if cfg == nil {
		return errors.New("nil configuration")
	}

	dir := filepath.Dir(paths.CfgFile)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	tmp, err := os.CreateTemp(dir, tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp config: %w", err)
	}
	tmpPath := tmp.Name()

	defer func() {
		if tmp != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp config: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("chmod temp config: %w", err)
	}
	if err := os.Rename(tmpPath, paths.CfgFile); err != nil {
		return fmt.Errorf("replace config: %w", err)
	}

	tmp = nil
	return nil
}

// IsTempFile reports whether name looks like a SaveAtomic temp file.
func IsTempFile(name string) bool {
	ok, _ := filepath.Match(tempFilePattern, filepath.Base(name))
	return ok
}
