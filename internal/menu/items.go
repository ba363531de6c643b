package menu

import (
	"fmt"
	"sort"
	"strings"

	"github.com/example/mddsklbl/internal/config"
	"github.com/example/mddsklbl/internal/desktop"
)

// ItemType identifies how the tray renders an entry.
type ItemType string

const (
	ItemMenu    ItemType = "menu"
	ItemText    ItemType = "text"
	ItemFolder  ItemType = "folder"
	ItemReload  ItemType = "reload"
	ItemDivider ItemType = "divider"
	ItemQuit    ItemType = "quit"
)

// Item is one entry of the tray menu. Children reference their parent by ID.
type Item struct {
	ID          string   `json:"id"`
	ParentID    string   `json:"parent_id,omitempty"`
	Type        ItemType `json:"type"`
	Label       string   `json:"label,omitempty"`
	Description string   `json:"description,omitempty"`
	Path        string   `json:"path,omitempty"`
	Order       int      `json:"order"`
}

const desktopsMenuID = "desktops"

// BuildItems lays out the menu for cfg: the labelled desktops as a submenu,
// a reload entry, shortcuts to the config and log folders, and Quit.
func BuildItems(cfg *config.Config, paths config.Paths) []Item {
	labels := labelItems(cfg)

	items := []Item{{
		ID:          desktopsMenuID,
		Type:        ItemMenu,
		Label:       fmt.Sprintf("Desktops (%d)", len(labels)),
		Description: "Labelled virtual desktops",
	}}
	if len(labels) == 0 {
		items = append(items, Item{
			ID:       "desktops-empty",
			ParentID: desktopsMenuID,
			Type:     ItemText,
			Label:    "No labelled desktops",
		})
	}
	items = append(items, labels...)
	items = append(items,
		Item{ID: "divider", Type: ItemDivider},
		Item{ID: "reload", Type: ItemReload, Label: "Reload labels", Description: "Read the label document again"},
		Item{ID: "open-config", Type: ItemFolder, Label: "Open config folder", Description: paths.CfgDir, Path: paths.CfgDir},
		Item{ID: "open-logs", Type: ItemFolder, Label: "Open log folder", Description: paths.LogDir, Path: paths.LogDir},
		Item{ID: "quit", Type: ItemQuit, Label: "Quit", Description: "Stop the desktop labeler"},
	)

	EnsureSequentialOrder(items)
	return items
}

func labelItems(cfg *config.Config) []Item {
	if cfg == nil {
		return nil
	}

	type entry struct {
		guid  string
		label config.DesktopLabel
	}
	entries := make([]entry, 0, len(cfg.Desktops))
	for key, label := range cfg.Desktops {
		guid, ok := desktop.GUIDFromKey(key)
		if !ok {
			continue
		}
		entries = append(entries, entry{guid: guid, label: label})
	}
	sort.Slice(entries, func(i, j int) bool {
		ti, tj := strings.ToLower(entries[i].label.Title), strings.ToLower(entries[j].label.Title)
		if ti == tj {
			return entries[i].guid < entries[j].guid
		}
		return ti < tj
	})

	items := make([]Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, Item{
			ID:          "desktop-" + e.guid,
			ParentID:    desktopsMenuID,
			Type:        ItemText,
			Label:       displayLabel(e.guid, e.label),
			Description: e.label.Description,
		})
	}
	return items
}

func displayLabel(guid string, label config.DesktopLabel) string {
	title := strings.TrimSpace(label.Title)
	if title == "" {
		title = guid
	}
	if desc := strings.TrimSpace(label.Description); desc != "" {
		return title + ": " + desc
	}
	return title
}

// EnsureSequentialOrder assigns deterministic order values for menu items.
func EnsureSequentialOrder(items []Item) {
	for i := range items {
		items[i].Order = (i + 1) * 10
	}
}
