// Package desktop maps windows to the virtual desktops that own them and
// formats desktop identifiers into configuration keys.
package desktop

import "errors"

// ErrUnavailable indicates virtual desktop lookups are not supported on this platform.
var ErrUnavailable = errors.New("virtual desktop lookup unavailable on this platform")

// Resolver returns the identifier of the desktop owning a window handle.
// Implementations must tolerate rapid repeated calls and report failures
// as errors.
type Resolver interface {
	Resolve(hwnd uint64) (string, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(hwnd uint64) (string, error)

// Resolve calls f(hwnd).
func (f ResolverFunc) Resolve(hwnd uint64) (string, error) {
	return f(hwnd)
}

type unavailableResolver struct{}

func (unavailableResolver) Resolve(uint64) (string, error) {
	return "", ErrUnavailable
}
