package config

// CurrentVersion is the schema version stamped by migration.
const CurrentVersion = 1

// DesktopLabel is the user-defined title and description of one virtual desktop.
type DesktopLabel struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// KeyChord is a keyboard shortcut: modifier flags plus a base key.
type KeyChord struct {
	Ctrl  bool   `json:"ctrl"`
	Alt   bool   `json:"alt"`
	Shift bool   `json:"shift"`
	Key   string `json:"key"`
}

// Hotkeys holds the four user-bindable shortcuts.
type Hotkeys struct {
	EditTitle       KeyChord `json:"edit_title"`
	EditDescription KeyChord `json:"edit_description"`
	ToggleOverlay   KeyChord `json:"toggle_overlay"`
	SnapPosition    KeyChord `json:"snap_position"`
}

// Appearance controls how the overlay is drawn.
type Appearance struct {
	FontFamily       string `json:"font_family"`
	FontSizeDIP      int    `json:"font_size_dip"`
	MarginPX         int    `json:"margin_px"`
	HideOnFullscreen bool   `json:"hide_on_fullscreen"`
}

// Config represents the persisted configuration file.
//
// Desktops is keyed by the formatted desktop key, "Desktop(Guid(<GUID>))".
// A nil Version marks a legacy document that has not been migrated.
type Config struct {
	Version    *int                    `json:"version,omitempty"`
	Desktops   map[string]DesktopLabel `json:"desktops"`
	Hotkeys    Hotkeys                 `json:"hotkeys"`
	Appearance Appearance              `json:"appearance"`
}

func chord(key string) KeyChord {
	return KeyChord{Ctrl: true, Alt: true, Key: key}
}

// DefaultHotkeys returns the shipped key bindings.
func DefaultHotkeys() Hotkeys {
	return Hotkeys{
		EditTitle:       chord("T"),
		EditDescription: chord("D"),
		ToggleOverlay:   chord("O"),
		SnapPosition:    chord("L"),
	}
}

// DefaultAppearance returns the shipped overlay settings.
func DefaultAppearance() Appearance {
	return Appearance{
		FontFamily:  "Segoe UI",
		FontSizeDIP: 16,
		MarginPX:    8,
	}
}

// Default returns a brand-new document: no desktops and no version.
func Default() *Config {
	return &Config{
		Desktops:   make(map[string]DesktopLabel),
		Hotkeys:    DefaultHotkeys(),
		Appearance: DefaultAppearance(),
	}
}

// Label returns the label stored under key, or the empty label.
func (c *Config) Label(key string) DesktopLabel {
	if c == nil {
		return DesktopLabel{}
	}
	return c.Desktops[key]
}

// SetLabel stores label under key.
func (c *Config) SetLabel(key string, label DesktopLabel) {
	if c.Desktops == nil {
		c.Desktops = make(map[string]DesktopLabel)
	}
	c.Desktops[key] = label
}

// RemoveLabel deletes the entry for key and reports whether one existed.
func (c *Config) RemoveLabel(key string) bool {
	if _, ok := c.Desktops[key]; !ok {
		return false
	}
	delete(c.Desktops, key)
	return true
}
