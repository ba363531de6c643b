//go:build !windows

package desktop

// NewResolver returns a resolver that fails every lookup with ErrUnavailable.
func NewResolver() Resolver {
	return unavailableResolver{}
}
