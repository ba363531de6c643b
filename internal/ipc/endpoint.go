package ipc

import (
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/example/mddsklbl/internal/protocol"
)

// channelName is the product-scoped name of the local channel.
const channelName = "Acme.DesktopLabeler.mddsklbl"

// BufferSize is the size of the channel's input and output buffers and the
// largest request the server reads.
const BufferSize = protocol.MaxMessageSize

// ErrInUse is returned by Listen when another live server owns the endpoint.
var ErrInUse = errors.New("endpoint already in use")

// Endpoint names the duplex, message-framed local channel shared by the
// server and its clients.
type Endpoint struct {
	Name string
}

// DefaultEndpoint resolves the channel, honouring an explicit override.
func DefaultEndpoint(override string) Endpoint {
	if name := strings.TrimSpace(override); name != "" {
		return Endpoint{Name: name}
	}
	return Endpoint{Name: defaultName()}
}

// String provides a readable representation for logs.
func (e Endpoint) String() string {
	return fmt.Sprintf("%s://%s", network, e.Name)
}

// ReadMessage reads a single message of at most limit bytes from conn.
func ReadMessage(conn net.Conn, limit int) ([]byte, error) {
	buf := make([]byte, limit)
	n, err := conn.Read(buf)
	if n > 0 && (err == nil || errors.Is(err, io.EOF)) {
		return buf[:n], nil
	}
	if err == nil {
		return nil, errors.New("empty message")
	}
	return nil, err
}

// WriteMessage writes payload as a single message.
func WriteMessage(conn net.Conn, payload []byte) error {
	n, err := conn.Write(payload)
	if err != nil {
		return err
	}
	if n != len(payload) {
		return io.ErrShortWrite
	}
	return nil
}
