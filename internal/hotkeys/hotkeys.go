// Package hotkeys validates and formats the user-configurable key chords.
package hotkeys

import (
	"fmt"
	"strings"

	"github.com/example/mddsklbl/internal/config"
)

// Slot names, as they appear in the persisted document.
const (
	SlotEditTitle       = "edit_title"
	SlotEditDescription = "edit_description"
	SlotToggleOverlay   = "toggle_overlay"
	SlotSnapPosition    = "snap_position"
)

// NamedChord pairs a slot name with its binding.
type NamedChord struct {
	Slot  string
	Chord config.KeyChord
}

// Slots lists the bindings of h in document order.
func Slots(h config.Hotkeys) []NamedChord {
	return []NamedChord{
		{SlotEditTitle, h.EditTitle},
		{SlotEditDescription, h.EditDescription},
		{SlotToggleOverlay, h.ToggleOverlay},
		{SlotSnapPosition, h.SnapPosition},
	}
}

// Slot returns a pointer to the binding named slot, for in-place edits.
func Slot(h *config.Hotkeys, slot string) (*config.KeyChord, error) {
	switch strings.ToLower(strings.TrimSpace(slot)) {
	case SlotEditTitle:
		return &h.EditTitle, nil
	case SlotEditDescription:
		return &h.EditDescription, nil
	case SlotToggleOverlay:
		return &h.ToggleOverlay, nil
	case SlotSnapPosition:
		return &h.SnapPosition, nil
	default:
		return nil, fmt.Errorf("unknown hotkey slot %q", slot)
	}
}

type normalized struct {
	ctrl, alt, shift bool
	key              string
}

func normalize(kc config.KeyChord) normalized {
	return normalized{kc.Ctrl, kc.Alt, kc.Shift, strings.ToLower(kc.Key)}
}

// Equal reports whether two chords trigger on the same keystroke.
func Equal(a, b config.KeyChord) bool {
	return normalize(a) == normalize(b)
}

// HasDuplicates reports whether any two slots share a chord.
func HasDuplicates(h config.Hotkeys) bool {
	seen := make(map[normalized]struct{}, 4)
	for _, nc := range Slots(h) {
		n := normalize(nc.Chord)
		if _, ok := seen[n]; ok {
			return true
		}
		seen[n] = struct{}{}
	}
	return false
}

// Conflict names two slots bound to the same chord.
type Conflict struct {
	First  string
	Second string
	Chord  config.KeyChord
}

// Conflicts lists every colliding pair of slots in document order.
func Conflicts(h config.Hotkeys) []Conflict {
	slots := Slots(h)
	var out []Conflict
	for i := 0; i < len(slots); i++ {
		for j := i + 1; j < len(slots); j++ {
			if Equal(slots[i].Chord, slots[j].Chord) {
				out = append(out, Conflict{First: slots[i].Slot, Second: slots[j].Slot, Chord: slots[i].Chord})
			}
		}
	}
	return out
}

// DuplicateError is returned by Validate when slots collide.
type DuplicateError struct {
	Conflicts []Conflict
}

func (e *DuplicateError) Error() string {
	parts := make([]string, 0, len(e.Conflicts))
	for _, c := range e.Conflicts {
		parts = append(parts, fmt.Sprintf("%s and %s both use %s", c.First, c.Second, FormatChord(c.Chord)))
	}
	return "duplicate hotkeys: " + strings.Join(parts, "; ")
}

// Validate returns a *DuplicateError when any two slots collide.
func Validate(h config.Hotkeys) error {
	if !HasDuplicates(h) {
		return nil
	}
	return &DuplicateError{Conflicts: Conflicts(h)}
}
