// Package protocol defines the JSON messages exchanged over the local channel.
// Each request and each response is exactly one transport message.
package protocol

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/example/mddsklbl/internal/config"
)

// MaxMessageSize bounds a single request or response.
const MaxMessageSize = 64 * 1024

const (
	// OpList requests every labelled desktop.
	OpList = "list"
	// OpResolveWindow requests the label of the desktop owning a window.
	OpResolveWindow = "resolve_window"
)

// ErrUnknownOp is wrapped by DecodeRequest for unrecognised operations.
var ErrUnknownOp = errors.New("unknown op")

// Request is one of ListRequest or ResolveWindowRequest.
type Request interface {
	op() string
}

// ListRequest asks for all desktop labels keyed by bare GUID.
type ListRequest struct{}

// ResolveWindowRequest asks which desktop owns HWND and what its label is.
type ResolveWindowRequest struct {
	HWND uint64
}

func (ListRequest) op() string          { return OpList }
func (ResolveWindowRequest) op() string { return OpResolveWindow }

type wireRequest struct {
	Op   string  `json:"op"`
	HWND *uint64 `json:"hwnd,omitempty"`
}

// DecodeRequest parses one request message.
func DecodeRequest(data []byte) (Request, error) {
	var w wireRequest
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, err
	}

	switch w.Op {
	case OpList:
		return ListRequest{}, nil
	case OpResolveWindow:
		if w.HWND == nil {
			return nil, errors.New("resolve_window requires hwnd")
		}
		return ResolveWindowRequest{HWND: *w.HWND}, nil
	case "":
		return nil, errors.New("missing op")
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownOp, w.Op)
	}
}

// EncodeRequest renders req as one request message.
func EncodeRequest(req Request) ([]byte, error) {
	switch r := req.(type) {
	case ListRequest:
		return json.Marshal(wireRequest{Op: OpList})
	case ResolveWindowRequest:
		hwnd := r.HWND
		return json.Marshal(wireRequest{Op: OpResolveWindow, HWND: &hwnd})
	default:
		return nil, fmt.Errorf("unsupported request type %T", req)
	}
}

// Response is the reply to any request. On success exactly one of Labels or
// (DesktopID, Label) is set; Error is set only on failure.
type Response struct {
	OK        bool                           `json:"ok"`
	Error     string                         `json:"error,omitempty"`
	Labels    map[string]config.DesktopLabel `json:"labels,omitzero"`
	DesktopID string                         `json:"desktop_id,omitempty"`
	Label     *config.DesktopLabel           `json:"label,omitempty"`
}

// ListResponse wraps a successful list result.
func ListResponse(labels map[string]config.DesktopLabel) Response {
	if labels == nil {
		labels = make(map[string]config.DesktopLabel)
	}
	return Response{OK: true, Labels: labels}
}

// ResolveWindowResponse wraps a successful window lookup.
func ResolveWindowResponse(desktopID string, label config.DesktopLabel) Response {
	return Response{OK: true, DesktopID: desktopID, Label: &label}
}

// Failure builds an error response of the form "<context>: <err>".
func Failure(context string, err error) Response {
	return Response{OK: false, Error: fmt.Sprintf("%s: %v", context, err)}
}

// DecodeResponse parses one response message.
func DecodeResponse(data []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &resp, nil
}

// Err converts a failed response into an error.
func (r *Response) Err() error {
	if r.OK {
		return nil
	}
	if r.Error == "" {
		return errors.New("request failed")
	}
	return errors.New(r.Error)
}
