package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const defaultDebounce = 100 * time.Millisecond

// ChangeFunc receives a freshly loaded document after the file changed.
type ChangeFunc func(cfg *Config, migrated bool)

// Watcher reloads the configuration file whenever it is replaced or edited.
// It only ever reads the file.
type Watcher struct {
	paths    Paths
	log      zerolog.Logger
	watcher  *fsnotify.Watcher
	debounce time.Duration
}

// NewWatcher watches the directory holding paths.CfgFile. The directory is
// created if needed because renames are observed on the parent.
func NewWatcher(paths Paths, log zerolog.Logger) (*Watcher, error) {
	dir := filepath.Dir(paths.CfgFile)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config directory: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	return &Watcher{
		paths:    paths,
		log:      log.With().Str("component", "config-watcher").Logger(),
		watcher:  fw,
		debounce: defaultDebounce,
	}, nil
}

// Run delivers reloads to onChange until ctx is done, then closes the watcher.
// Rapid bursts of events are coalesced.
func (w *Watcher) Run(ctx context.Context, onChange ChangeFunc) error {
	defer w.watcher.Close()

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("watch error")
		case <-fire:
			fire = nil
			w.reload(onChange)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != filepath.Clean(w.paths.CfgFile) {
		return false
	}
	return ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}

func (w *Watcher) reload(onChange ChangeFunc) {
	cfg, migrated, err := LoadOrDefault(w.paths)
	if err != nil {
		w.log.Warn().Err(err).Msg("reload failed; keeping previous state")
		return
	}
	w.log.Debug().Int("desktops", len(cfg.Desktops)).Bool("migrated", migrated).Msg("config reloaded")
	if onChange != nil {
		onChange(cfg, migrated)
	}
}
