package service

import (
	"fmt"

	"github.com/example/mddsklbl/internal/config"
	"github.com/example/mddsklbl/internal/desktop"
	"github.com/example/mddsklbl/internal/protocol"
)

// Handle decodes one request message and produces its response. It never
// fails: every error becomes an ok=false response.
func (s *Server) Handle(data []byte) protocol.Response {
	req, err := protocol.DecodeRequest(data)
	if err != nil {
		return protocol.Failure("bad request", err)
	}

	switch r := req.(type) {
	case protocol.ListRequest:
		labels, err := s.listLabels()
		if err != nil {
			return protocol.Failure("list failed", err)
		}
		return protocol.ListResponse(labels)
	case protocol.ResolveWindowRequest:
		id, label, err := s.resolveWindow(r.HWND)
		if err != nil {
			return protocol.Failure("resolve_window failed", err)
		}
		return protocol.ResolveWindowResponse(id, label)
	default:
		return protocol.Failure("bad request", fmt.Errorf("unsupported request %T", req))
	}
}

func (s *Server) listLabels() (map[string]config.DesktopLabel, error) {
	cfg, _, err := config.LoadOrDefault(s.paths)
	if err != nil {
		return nil, err
	}

	out := make(map[string]config.DesktopLabel, len(cfg.Desktops))
	for key, label := range cfg.Desktops {
		guid, ok := desktop.GUIDFromKey(key)
		if !ok {
			s.log.Debug().Str("key", key).Msg("skipping desktop key without GUID")
			continue
		}
		out[guid] = label
	}
	return out, nil
}

func (s *Server) resolveWindow(hwnd uint64) (string, config.DesktopLabel, error) {
	if s.resolver == nil {
		return "", config.DesktopLabel{}, desktop.ErrUnavailable
	}

	id, err := s.resolver.Resolve(hwnd)
	if err != nil {
		return "", config.DesktopLabel{}, err
	}

	cfg, _, err := config.LoadOrDefault(s.paths)
	if err != nil {
		return "", config.DesktopLabel{}, err
	}
	return id, cfg.Label(desktop.FormatKey(id)), nil
}
