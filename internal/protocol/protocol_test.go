package protocol

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/mddsklbl/internal/config"
)

func TestDecodeRequest(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Request
		wantErr bool
	}{
		{name: "list", input: `{"op":"list"}`, want: ListRequest{}},
		{name: "list ignores extra fields", input: `{"op":"list","hwnd":5}`, want: ListRequest{}},
		{name: "resolve", input: `{"op":"resolve_window","hwnd":12345}`, want: ResolveWindowRequest{HWND: 12345}},
		{name: "resolve max handle", input: `{"op":"resolve_window","hwnd":18446744073709551615}`, want: ResolveWindowRequest{HWND: math.MaxUint64}},
		{name: "resolve zero handle", input: `{"op":"resolve_window","hwnd":0}`, want: ResolveWindowRequest{HWND: 0}},
		{name: "resolve missing hwnd", input: `{"op":"resolve_window"}`, wantErr: true},
		{name: "resolve negative hwnd", input: `{"op":"resolve_window","hwnd":-1}`, wantErr: true},
		{name: "resolve string hwnd", input: `{"op":"resolve_window","hwnd":"12"}`, wantErr: true},
		{name: "missing op", input: `{}`, wantErr: true},
		{name: "unknown op", input: `{"op":"format_disk"}`, wantErr: true},
		{name: "not json", input: `hello`, wantErr: true},
		{name: "truncated", input: `{"op":"li`, wantErr: true},
		{name: "empty", input: ``, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeRequest([]byte(tt.input))
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeRequestUnknownOpIsTyped(t *testing.T) {
	_, err := DecodeRequest([]byte(`{"op":"nope"}`))
	assert.True(t, errors.Is(err, ErrUnknownOp))
}

func TestEncodeRequest(t *testing.T) {
	data, err := EncodeRequest(ListRequest{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"op":"list"}`, string(data))

	data, err = EncodeRequest(ResolveWindowRequest{HWND: 0})
	require.NoError(t, err)
	assert.JSONEq(t, `{"op":"resolve_window","hwnd":0}`, string(data))

	decoded, err := DecodeRequest(data)
	require.NoError(t, err)
	assert.Equal(t, ResolveWindowRequest{HWND: 0}, decoded)
}

func TestResponseWireShape(t *testing.T) {
	tests := []struct {
		name string
		resp Response
		want string
	}{
		{
			name: "list",
			resp: ListResponse(map[string]config.DesktopLabel{"AAAA": {Title: "Work", Description: "Tickets"}}),
			want: `{"ok":true,"labels":{"AAAA":{"title":"Work","description":"Tickets"}}}`,
		},
		{
			name: "empty list keeps labels",
			resp: ListResponse(nil),
			want: `{"ok":true,"labels":{}}`,
		},
		{
			name: "resolve with empty label",
			resp: ResolveWindowResponse("BBBB", config.DesktopLabel{}),
			want: `{"ok":true,"desktop_id":"BBBB","label":{"title":"","description":""}}`,
		},
		{
			name: "failure",
			resp: Failure("bad request", errors.New("boom")),
			want: `{"ok":false,"error":"bad request: boom"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.resp)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(data))
		})
	}
}

func TestDecodeResponseAndErr(t *testing.T) {
	resp, err := DecodeResponse([]byte(`{"ok":false,"error":"list failed: nope"}`))
	require.NoError(t, err)
	assert.EqualError(t, resp.Err(), "list failed: nope")

	resp, err = DecodeResponse([]byte(`{"ok":true,"desktop_id":"BBBB","label":{"title":"x","description":""}}`))
	require.NoError(t, err)
	assert.NoError(t, resp.Err())
	assert.Equal(t, "BBBB", resp.DesktopID)
	require.NotNil(t, resp.Label)
	assert.Equal(t, "x", resp.Label.Title)

	_, err = DecodeResponse([]byte(`nope`))
	assert.Error(t, err)
}
