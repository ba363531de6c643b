//go:build cgo || windows

package menu

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"github.com/getlantern/systray"
	"github.com/rs/zerolog"
)

type systrayController struct {
	log     zerolog.Logger
	refresh func()

	mu      sync.Mutex
	entries []trayEntry
}

type trayEntry struct {
	item   *systray.MenuItem
	cancel context.CancelFunc
}

func newTrayController(log zerolog.Logger, refresh func()) trayController {
	return &systrayController{log: log, refresh: refresh}
}

func (c *systrayController) Run(ctx context.Context, updates <-chan UpdatePayload) error {
	done := make(chan struct{})

	go systray.Run(func() {
		setIcon(defaultIcon())
		systray.SetTitle("")
		systray.SetTooltip("Desktop Labeler")

		go c.listen(ctx, updates)
	}, func() {
		c.shutdown()
		close(done)
	})

	select {
	case <-ctx.Done():
		systray.Quit()
		<-done
		return ctx.Err()
	case <-done:
		return nil
	}
}

func setIcon(icon []byte) {
	if len(icon) == 0 {
		return
	}
	if runtime.GOOS == "darwin" {
		systray.SetTemplateIcon(icon, icon)
		return
	}
	systray.SetIcon(icon)
}

func (c *systrayController) listen(ctx context.Context, updates <-chan UpdatePayload) {
	for {
		select {
		case <-ctx.Done():
			systray.Quit()
			return
		case update, ok := <-updates:
			if !ok {
				systray.Quit()
				return
			}
			setIcon(update.Icon)
			c.render(ctx, update.Items)
		}
	}
}

// render hides the previous entries and builds the new menu in their place.
// systray has no removal API, so stale items stay hidden.
func (c *systrayController) render(ctx context.Context, items []Item) {
	c.mu.Lock()
	old := c.entries
	c.entries = nil
	c.mu.Unlock()

	for _, entry := range old {
		entry.cancel()
		if entry.item != nil {
			entry.item.Hide()
		}
	}

	grouped := groupByParent(items)
	newEntries := c.renderGroup(ctx, grouped, "", nil)

	c.mu.Lock()
	c.entries = newEntries
	c.mu.Unlock()
}

func (c *systrayController) renderGroup(ctx context.Context, grouped map[string][]Item, parentID string, parent *systray.MenuItem) []trayEntry {
	entries := make([]trayEntry, 0)
	for _, item := range grouped[parentID] {
		entries = append(entries, c.addMenuItem(ctx, item, parent, grouped)...)
	}
	return entries
}

func (c *systrayController) addMenuItem(ctx context.Context, item Item, parent *systray.MenuItem, grouped map[string][]Item) []trayEntry {
	switch item.Type {
	case ItemDivider:
		if parent == nil {
			systray.AddSeparator()
		}
		return nil
	case ItemMenu:
		mi := makeMenuItem(parent, item)
		ctxItem, cancel := context.WithCancel(ctx)
		go onClick(ctxItem, mi.ClickedCh, func() {})
		entries := []trayEntry{{item: mi, cancel: cancel}}
		return append(entries, c.renderGroup(ctx, grouped, item.ID, mi)...)
	case ItemFolder:
		mi := makeMenuItem(parent, item)
		ctxItem, cancel := context.WithCancel(ctx)
		go onClick(ctxItem, mi.ClickedCh, func() {
			if err := openFolder(item.Path); err != nil {
				c.log.Warn().Err(err).Str("path", item.Path).Msg("open folder failed")
			}
		})
		return []trayEntry{{item: mi, cancel: cancel}}
	case ItemReload:
		mi := makeMenuItem(parent, item)
		ctxItem, cancel := context.WithCancel(ctx)
		go onClick(ctxItem, mi.ClickedCh, c.refresh)
		return []trayEntry{{item: mi, cancel: cancel}}
	case ItemQuit:
		mi := makeMenuItem(parent, item)
		ctxItem, cancel := context.WithCancel(ctx)
		go onClick(ctxItem, mi.ClickedCh, systray.Quit)
		return []trayEntry{{item: mi, cancel: cancel}}
	default:
		mi := makeMenuItem(parent, item)
		mi.Disable()
		return []trayEntry{{item: mi, cancel: func() {}}}
	}
}

func makeMenuItem(parent *systray.MenuItem, item Item) *systray.MenuItem {
	if parent == nil {
		return systray.AddMenuItem(item.Label, item.Description)
	}
	return parent.AddSubMenuItem(item.Label, item.Description)
}

func onClick(ctx context.Context, ch <-chan struct{}, action func()) {
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				return
			}
			action()
		}
	}
}

func groupByParent(items []Item) map[string][]Item {
	grouped := make(map[string][]Item)
	for _, item := range items {
		grouped[item.ParentID] = append(grouped[item.ParentID], item)
	}
	for key := range grouped {
		sort.SliceStable(grouped[key], func(i, j int) bool {
			if grouped[key][i].Order == grouped[key][j].Order {
				return grouped[key][i].ID < grouped[key][j].ID
			}
			return grouped[key][i].Order < grouped[key][j].Order
		})
	}
	return grouped
}

func (c *systrayController) shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, entry := range c.entries {
		entry.cancel()
	}
	c.entries = nil
}
