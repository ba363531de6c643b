// Package service hosts the label query server: a single-instance accept loop
// on the local channel that answers one request per client connection.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"runtime"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"

	"github.com/example/mddsklbl/internal/config"
	"github.com/example/mddsklbl/internal/desktop"
	"github.com/example/mddsklbl/internal/ipc"
	"github.com/example/mddsklbl/internal/protocol"
)

const defaultRetryDelay = time.Second

// minimalFailure is written when even the fallback response cannot be encoded.
var minimalFailure = []byte(`{"ok":false,"error":"serialize failed"}`)

type listenFunc func() (net.Listener, error)

// Server answers List and ResolveWindow queries, one client at a time.
type Server struct {
	endpoint   ipc.Endpoint
	listen     listenFunc
	paths      config.Paths
	resolver   desktop.Resolver
	log        zerolog.Logger
	clock      clockwork.Clock
	retryDelay time.Duration
	marshal    func(any) ([]byte, error)
}

// Option customises a Server.
type Option func(*Server)

// WithClock replaces the clock used for the creation-failure backoff.
func WithClock(clock clockwork.Clock) Option {
	return func(s *Server) { s.clock = clock }
}

// WithRetryDelay replaces the one-second creation-failure backoff.
func WithRetryDelay(d time.Duration) Option {
	return func(s *Server) { s.retryDelay = d }
}

// New constructs a Server bound to endpoint that reads labels from paths.
func New(endpoint ipc.Endpoint, paths config.Paths, resolver desktop.Resolver, log zerolog.Logger, opts ...Option) *Server {
	s := &Server{
		endpoint:   endpoint,
		listen:     endpoint.Listen,
		paths:      paths,
		resolver:   resolver,
		log:        log.With().Str("component", "ipc").Logger(),
		clock:      clockwork.NewRealClock(),
		retryDelay: defaultRetryDelay,
		marshal:    json.Marshal,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Endpoint exposes the channel for logging and diagnostics.
func (s *Server) Endpoint() string {
	return s.endpoint.String()
}

// Start runs the accept loop on a dedicated goroutine locked to its own OS
// thread, so the caller's UI thread is never blocked. The returned channel
// yields Run's result.
func (s *Server) Start(ctx context.Context) <-chan error {
	errc := make(chan error, 1)
	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		errc <- s.Run(ctx)
	}()
	return errc
}

// Run serves clients until ctx is done. Per-client failures never end the
// loop; in production ctx lives as long as the process.
func (s *Server) Run(ctx context.Context) error {
	s.log.Info().Str("endpoint", s.Endpoint()).Msg("ipc server started")
	for {
		if err := ctx.Err(); err != nil {
			s.log.Info().Msg("ipc server stopped")
			return err
		}
		s.serveOnce(ctx)
	}
}

// serveOnce runs one create, accept, read, dispatch, write, release cycle.
// The channel instance is released on every return path.
func (s *Server) serveOnce(ctx context.Context) {
	ln, err := s.listen()
	if err != nil {
		s.log.Error().Err(err).Dur("retry_in", s.retryDelay).Msg("create channel instance failed")
		select {
		case <-ctx.Done():
		case <-s.clock.After(s.retryDelay):
		}
		return
	}
	defer ln.Close()
	stopListener := context.AfterFunc(ctx, func() { _ = ln.Close() })
	defer stopListener()

	conn, err := s.accept(ln)
	if err != nil {
		if ctx.Err() == nil {
			s.log.Warn().Err(err).Msg("client connection failed")
		}
		return
	}
	defer conn.Close()
	stopConn := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stopConn()

	start := s.clock.Now()
	var resp protocol.Response
	data, err := ipc.ReadMessage(conn, ipc.BufferSize)
	switch {
	case errors.Is(err, io.EOF):
		// Hung up without a request, e.g. another server checking liveness.
		s.log.Debug().Msg("client closed without a request")
		return
	case err != nil:
		resp = protocol.Failure("bad request", err)
	default:
		resp = s.Handle(data)
	}

	if err := ipc.WriteMessage(conn, s.encode(resp)); err != nil {
		s.log.Warn().Err(err).Msg("write response failed")
		return
	}
	flush(conn)

	s.log.Debug().
		Bool("ok", resp.OK).
		Str("error", resp.Error).
		Dur("elapsed", s.clock.Since(start)).
		Msg("request served")
}

// accept waits for a client. A client that connected before the wait began
// is not a failure; the wait simply resumes on the same instance.
func (s *Server) accept(ln net.Listener) (net.Conn, error) {
	for {
		conn, err := ln.Accept()
		if err == nil {
			return conn, nil
		}
		if !ipc.IsAlreadyConnected(err) {
			return nil, err
		}
		s.log.Debug().Msg("client already connected")
	}
}

func (s *Server) encode(resp protocol.Response) []byte {
	payload, err := s.marshal(resp)
	if err == nil {
		return payload
	}

	s.log.Error().Err(err).Msg("serialize response failed")
	fallback, ferr := json.Marshal(protocol.Failure("serialize failed", err))
	if ferr != nil {
		return minimalFailure
	}
	return fallback
}

type flusher interface {
	Flush() error
}

// flush pushes buffered pipe data to the client before disconnecting.
func flush(conn net.Conn) {
	if f, ok := conn.(flusher); ok {
		_ = f.Flush()
	}
}
