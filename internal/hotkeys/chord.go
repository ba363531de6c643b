package hotkeys

import (
	"errors"
	"fmt"
	"strings"

	"github.com/example/mddsklbl/internal/config"
)

// FormatChord renders kc as "Ctrl+Alt+Shift+K".
func FormatChord(kc config.KeyChord) string {
	parts := make([]string, 0, 4)
	if kc.Ctrl {
		parts = append(parts, "Ctrl")
	}
	if kc.Alt {
		parts = append(parts, "Alt")
	}
	if kc.Shift {
		parts = append(parts, "Shift")
	}
	parts = append(parts, kc.Key)
	return strings.Join(parts, "+")
}

// ParseChord parses "Ctrl+Alt+T" style input. Modifier names are
// case-insensitive; exactly one non-modifier key is required.
func ParseChord(raw string) (config.KeyChord, error) {
	var kc config.KeyChord
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return kc, errors.New("empty chord")
	}

	for _, part := range strings.Split(trimmed, "+") {
		p := strings.TrimSpace(part)
		switch strings.ToLower(p) {
		case "":
			return kc, fmt.Errorf("invalid chord %q", raw)
		case "ctrl", "control":
			kc.Ctrl = true
		case "alt":
			kc.Alt = true
		case "shift":
			kc.Shift = true
		default:
			if kc.Key != "" {
				return kc, fmt.Errorf("chord %q has more than one key", raw)
			}
			kc.Key = strings.ToUpper(p)
		}
	}

	if kc.Key == "" {
		return kc, fmt.Errorf("chord %q has no key", raw)
	}
	return kc, nil
}
