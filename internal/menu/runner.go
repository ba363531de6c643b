package menu

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/example/mddsklbl/internal/config"
)

const defaultRefreshInterval = 30 * time.Second

// ErrTrayUnavailable is returned by Start when the build has no tray support.
var ErrTrayUnavailable = errors.New("system tray is unavailable without cgo support")

type trayController interface {
	Run(ctx context.Context, updates <-chan UpdatePayload) error
}

// UpdatePayload encapsulates tray menu updates and icon data.
type UpdatePayload struct {
	Items []Item
	Icon  []byte
}

// Runner keeps the tray menu in step with the label document. It reloads on
// demand (config watcher, Refresh) and on a slow timer as a fallback.
type Runner struct {
	paths           config.Paths
	log             zerolog.Logger
	refreshInterval time.Duration

	mu         sync.RWMutex
	lastItems  []Item
	lastDigest string

	tray            trayController
	updates         chan UpdatePayload
	refreshRequests chan struct{}
	pushed          chan *config.Config
}

// NewRunner constructs a Runner that reads labels from paths.
func NewRunner(paths config.Paths, log zerolog.Logger) *Runner {
	r := &Runner{
		paths:           paths,
		log:             log.With().Str("component", "tray").Logger(),
		refreshInterval: defaultRefreshInterval,
		updates:         make(chan UpdatePayload, 1),
		refreshRequests: make(chan struct{}, 1),
		pushed:          make(chan *config.Config, 1),
	}
	r.tray = newTrayController(r.log, r.Refresh)
	return r
}

// Start runs the tray and refreshes its menu until ctx is canceled or the
// user quits from the tray.
func (r *Runner) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	trayErr := make(chan error, 1)
	go func() {
		trayErr <- r.tray.Run(ctx, r.updates)
	}()

	r.log.Debug().Dur("refresh_interval", r.refreshInterval).Msg("tray runner initialising")
	if err := r.syncOnce(); err != nil {
		r.log.Warn().Err(err).Msg("initial menu load failed")
		r.setTrayState(BuildItems(nil, r.paths))
	}

	ticker := time.NewTicker(r.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.log.Info().Msg("tray stopping")
			return ctx.Err()
		case <-ticker.C:
			if err := r.syncOnce(); err != nil {
				r.log.Warn().Err(err).Msg("tray refresh failed")
			}
		case <-r.refreshRequests:
			if err := r.syncOnce(); err != nil {
				r.log.Warn().Err(err).Msg("manual tray refresh failed")
			}
		case cfg := <-r.pushed:
			r.setTrayState(BuildItems(cfg, r.paths))
		case err := <-trayErr:
			return err
		}
	}
}

// Refresh asks the runner to reload the document from disk. The tray's
// "Reload labels" entry calls it.
func (r *Runner) Refresh() {
	select {
	case r.refreshRequests <- struct{}{}:
	default:
	}
}

// Update publishes an already loaded document. It matches
// config.ChangeFunc so the watcher can feed the tray directly.
func (r *Runner) Update(cfg *config.Config, _ bool) {
	select {
	case r.pushed <- cfg:
	default:
		select {
		case <-r.pushed:
		default:
		}
		select {
		case r.pushed <- cfg:
		default:
		}
	}
}

// latestItems returns the most recently published menu entries.
func (r *Runner) latestItems() []Item {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Item, len(r.lastItems))
	copy(out, r.lastItems)
	return out
}

func (r *Runner) syncOnce() error {
	cfg, _, err := config.LoadOrDefault(r.paths)
	if err != nil {
		return err
	}
	r.setTrayState(BuildItems(cfg, r.paths))
	return nil
}

func (r *Runner) setTrayState(items []Item) {
	digest := hashItems(items)

	r.mu.Lock()
	if digest != "" && digest == r.lastDigest {
		r.mu.Unlock()
		return
	}
	r.lastItems = make([]Item, len(items))
	copy(r.lastItems, items)
	r.lastDigest = digest
	r.mu.Unlock()

	r.log.Debug().Int("items", len(items)).Str("digest", digest).Msg("published tray state")
	r.publish(items)
}

// publish replaces any update the tray has not consumed yet.
func (r *Runner) publish(items []Item) {
	payload := make([]Item, len(items))
	copy(payload, items)

	update := UpdatePayload{Items: payload, Icon: defaultIcon()}

	select {
	case r.updates <- update:
	default:
		select {
		case <-r.updates:
		default:
		}
		select {
		case r.updates <- update:
		default:
		}
	}
}

func hashItems(items []Item) string {
	if len(items) == 0 {
		return ""
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return ""
	}

	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
