package desktop

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	keyPrefix  = "Desktop(Guid("
	keySuffix  = "))"
	guidMarker = "Guid("
)

// FormatKey wraps a desktop identifier in the on-disk key form,
// "Desktop(Guid(<id>))".
func FormatKey(id string) string {
	return keyPrefix + id + keySuffix
}

// GUIDFromKey extracts the identifier between "Guid(" and the next ")".
func GUIDFromKey(key string) (string, bool) {
	start := strings.Index(key, guidMarker)
	if start < 0 {
		return "", false
	}
	rest := key[start+len(guidMarker):]
	end := strings.IndexByte(rest, ')')
	if end < 0 {
		return "", false
	}
	return rest[:end], true
}

// NormalizeID canonicalises a user-entered GUID (optional braces, any case)
// to the uppercase form the resolver reports.
func NormalizeID(raw string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", fmt.Errorf("invalid desktop id %q: %w", raw, err)
	}
	return strings.ToUpper(id.String()), nil
}
