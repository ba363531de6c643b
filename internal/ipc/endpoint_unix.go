//go:build !windows

package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"syscall"
	"time"
)

// SOCK_SEQPACKET keeps message boundaries, like a message-mode pipe.
const network = "unixpacket"

func defaultName() string {
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, channelName+".sock")
}

// Listen creates one server instance of the channel. A socket file left by a
// dead process is removed; a live one yields ErrInUse.
func (e Endpoint) Listen() (net.Listener, error) {
	if err := os.MkdirAll(filepath.Dir(e.Name), 0o700); err != nil {
		return nil, fmt.Errorf("ensure socket directory: %w", err)
	}
	if err := removeStaleSocket(e.Name); err != nil {
		return nil, err
	}

	ln, err := net.ListenUnix(network, &net.UnixAddr{Name: e.Name, Net: network})
	if err != nil {
		return nil, err
	}
	ln.SetUnlinkOnClose(true)
	return ln, nil
}

// DialContext connects to the channel as a client.
func (e Endpoint) DialContext(ctx context.Context) (net.Conn, error) {
	var d net.Dialer
	return d.DialContext(ctx, network, e.Name)
}

// IsAlreadyConnected reports the benign "client already connected" condition.
func IsAlreadyConnected(err error) bool {
	return errors.Is(err, syscall.EISCONN)
}

// isReset reports a connection reset by the server, which happens to clients
// still queued when the server closes its listener.
func isReset(err error) bool {
	return errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE)
}

func removeStaleSocket(path string) error {
	if _, err := os.Lstat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	conn, err := net.DialTimeout(network, path, 200*time.Millisecond)
	if err == nil {
		_ = conn.Close()
		return fmt.Errorf("%w: %s", ErrInUse, path)
	}
	if !errors.Is(err, syscall.ECONNREFUSED) && !errors.Is(err, syscall.ENOENT) {
		// A full backlog or a timeout still means a live owner.
		return fmt.Errorf("%w: %s: %v", ErrInUse, path, err)
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove stale socket: %w", err)
	}
	return nil
}
