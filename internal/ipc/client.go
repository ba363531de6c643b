package ipc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/example/mddsklbl/internal/config"
	"github.com/example/mddsklbl/internal/protocol"
)

const (
	defaultDialRetry = 50 * time.Millisecond
	maxResponseSize  = 16 * BufferSize
)

// Client issues one request per connection to a running server.
type Client struct {
	endpoint   Endpoint
	retryDelay time.Duration
}

// NewClient constructs a Client for endpoint.
func NewClient(endpoint Endpoint) *Client {
	return &Client{endpoint: endpoint, retryDelay: defaultDialRetry}
}

// Call sends req and returns the decoded response. The server recreates its
// instance between clients, so dialing is retried until ctx is done. A client
// queued behind another one may be dropped when the server releases its
// instance; both queries are idempotent, so the request is sent again.
func (c *Client) Call(ctx context.Context, req protocol.Request) (*protocol.Response, error) {
	payload, err := protocol.EncodeRequest(req)
	if err != nil {
		return nil, err
	}

	for {
		data, err := c.exchange(ctx, payload)
		if err == nil {
			return protocol.DecodeResponse(data)
		}
		if !isDropped(err) || ctx.Err() != nil {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, err
		case <-time.After(c.retryDelay):
		}
	}
}

// exchange runs one connect, send, receive round on a fresh connection.
func (c *Client) exchange(ctx context.Context, payload []byte) ([]byte, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if err := WriteMessage(conn, payload); err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}

	data, err := ReadMessage(conn, maxResponseSize)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return data, nil
}

// isDropped reports a connection the server closed before answering.
func isDropped(err error) bool {
	return errors.Is(err, io.EOF) || isReset(err)
}

// List returns every labelled desktop keyed by GUID.
func (c *Client) List(ctx context.Context) (map[string]config.DesktopLabel, error) {
	resp, err := c.Call(ctx, protocol.ListRequest{})
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}
	return resp.Labels, nil
}

// ResolveWindow returns the desktop owning hwnd and its label.
func (c *Client) ResolveWindow(ctx context.Context, hwnd uint64) (string, config.DesktopLabel, error) {
	resp, err := c.Call(ctx, protocol.ResolveWindowRequest{HWND: hwnd})
	if err != nil {
		return "", config.DesktopLabel{}, err
	}
	if err := resp.Err(); err != nil {
		return "", config.DesktopLabel{}, err
	}
	var label config.DesktopLabel
	if resp.Label != nil {
		label = *resp.Label
	}
	return resp.DesktopID, label, nil
}

func (c *Client) dial(ctx context.Context) (net.Conn, error) {
	for {
		conn, err := c.endpoint.DialContext(ctx)
		if err == nil {
			return conn, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("connect %s: %w", c.endpoint, err)
		case <-time.After(c.retryDelay):
		}
	}
}
