//go:build windows

package ipc

import (
	"context"
	"errors"
	"net"

	"github.com/Microsoft/go-winio"
	"golang.org/x/sys/windows"
)

const network = "npipe"

func defaultName() string {
	return `\\.\pipe\` + channelName
}

// Listen creates one server instance of the named pipe in message mode.
// The first instance flag makes a second live server fail creation.
func (e Endpoint) Listen() (net.Listener, error) {
	return winio.ListenPipe(e.Name, &winio.PipeConfig{
		MessageMode:      true,
		InputBufferSize:  BufferSize,
		OutputBufferSize: BufferSize,
	})
}

// DialContext connects to the pipe as a client, waiting while it is busy.
func (e Endpoint) DialContext(ctx context.Context) (net.Conn, error) {
	return winio.DialPipeContext(ctx, e.Name)
}

// IsAlreadyConnected reports ERROR_PIPE_CONNECTED: the client connected
// between pipe creation and the accept call.
func IsAlreadyConnected(err error) bool {
	return errors.Is(err, windows.ERROR_PIPE_CONNECTED)
}

func isReset(err error) bool {
	return errors.Is(err, windows.ERROR_BROKEN_PIPE) ||
		errors.Is(err, windows.ERROR_PIPE_NOT_CONNECTED) ||
		errors.Is(err, windows.ERROR_NO_DATA)
}
