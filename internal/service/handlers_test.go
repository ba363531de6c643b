package service

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/mddsklbl/internal/config"
	"github.com/example/mddsklbl/internal/desktop"
	"github.com/example/mddsklbl/internal/ipc"
	"github.com/example/mddsklbl/internal/protocol"
)

func newTestServer(t *testing.T, resolver desktop.Resolver, labels map[string]config.DesktopLabel, opts ...Option) *Server {
	t.Helper()
	paths := config.PathsIn(filepath.Join(t.TempDir(), "cfg"))
	if labels != nil {
		cfg := config.Default()
		for k, v := range labels {
			cfg.SetLabel(k, v)
		}
		require.NoError(t, config.SaveAtomic(cfg, paths))
	}
	return New(ipc.Endpoint{Name: "unused"}, paths, resolver, zerolog.Nop(), opts...)
}

func staticResolver(id string) desktop.Resolver {
	return desktop.ResolverFunc(func(uint64) (string, error) { return id, nil })
}

func encodeJSON(t *testing.T, resp protocol.Response) string {
	t.Helper()
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	return string(data)
}

func TestHandleListReturnsLabelsByGUID(t *testing.T) {
	srv := newTestServer(t, nil, map[string]config.DesktopLabel{
		"Desktop(Guid(AAAA))": {Title: "Work", Description: "Tickets"},
	})

	resp := srv.Handle([]byte(`{"op":"list"}`))

	assert.JSONEq(t, `{"ok":true,"labels":{"AAAA":{"title":"Work","description":"Tickets"}}}`, encodeJSON(t, resp))
}

func TestHandleListSkipsKeysWithoutGUID(t *testing.T) {
	srv := newTestServer(t, nil, map[string]config.DesktopLabel{
		"Desktop(Guid(AAAA))": {Title: "Work"},
		"guid-1":              {Title: "Legacy"},
	})

	resp := srv.Handle([]byte(`{"op":"list"}`))
	require.True(t, resp.OK)
	assert.Equal(t, map[string]config.DesktopLabel{"AAAA": {Title: "Work"}}, resp.Labels)
}

func TestHandleListWithoutConfigFile(t *testing.T) {
	srv := newTestServer(t, nil, nil)

	resp := srv.Handle([]byte(`{"op":"list"}`))

	assert.JSONEq(t, `{"ok":true,"labels":{}}`, encodeJSON(t, resp))
}

func TestHandleListReportsLoadFailure(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	require.NoError(t, os.MkdirAll(srv.paths.CfgDir, 0o755))
	require.NoError(t, os.WriteFile(srv.paths.CfgFile, []byte("{broken"), 0o644))

	resp := srv.Handle([]byte(`{"op":"list"}`))

	assert.False(t, resp.OK)
	assert.Contains(t, resp.Error, "list failed: ")
	assert.Nil(t, resp.Labels)
}

func TestHandleResolveWindowWithoutStoredLabel(t *testing.T) {
	var gotHWND uint64
	resolver := desktop.ResolverFunc(func(hwnd uint64) (string, error) {
		gotHWND = hwnd
		return "BBBB", nil
	})
	srv := newTestServer(t, resolver, map[string]config.DesktopLabel{
		"Desktop(Guid(AAAA))": {Title: "Work"},
	})

	resp := srv.Handle([]byte(`{"op":"resolve_window","hwnd":12345}`))

	assert.Equal(t, uint64(12345), gotHWND)
	assert.JSONEq(t, `{"ok":true,"desktop_id":"BBBB","label":{"title":"","description":""}}`, encodeJSON(t, resp))
}

func TestHandleResolveWindowWithStoredLabel(t *testing.T) {
	srv := newTestServer(t, staticResolver("AAAA"), map[string]config.DesktopLabel{
		"Desktop(Guid(AAAA))": {Title: "Work", Description: "Tickets"},
	})

	resp := srv.Handle([]byte(`{"op":"resolve_window","hwnd":1}`))

	require.True(t, resp.OK)
	assert.Equal(t, "AAAA", resp.DesktopID)
	require.NotNil(t, resp.Label)
	assert.Equal(t, config.DesktopLabel{Title: "Work", Description: "Tickets"}, *resp.Label)
	assert.Nil(t, resp.Labels)
}

func TestHandleResolveWindowFailures(t *testing.T) {
	failing := desktop.ResolverFunc(func(uint64) (string, error) {
		return "", errors.New("window not found")
	})

	t.Run("resolver error", func(t *testing.T) {
		srv := newTestServer(t, failing, nil)
		resp := srv.Handle([]byte(`{"op":"resolve_window","hwnd":7}`))
		assert.JSONEq(t, `{"ok":false,"error":"resolve_window failed: window not found"}`, encodeJSON(t, resp))
	})

	t.Run("no resolver", func(t *testing.T) {
		srv := newTestServer(t, nil, nil)
		resp := srv.Handle([]byte(`{"op":"resolve_window","hwnd":7}`))
		assert.False(t, resp.OK)
		assert.Contains(t, resp.Error, desktop.ErrUnavailable.Error())
	})

	t.Run("load error", func(t *testing.T) {
		srv := newTestServer(t, staticResolver("AAAA"), nil)
		require.NoError(t, os.MkdirAll(srv.paths.CfgDir, 0o755))
		require.NoError(t, os.WriteFile(srv.paths.CfgFile, []byte("[]"), 0o644))

		resp := srv.Handle([]byte(`{"op":"resolve_window","hwnd":7}`))
		assert.False(t, resp.OK)
		assert.Contains(t, resp.Error, "resolve_window failed: ")
		assert.Empty(t, resp.DesktopID)
		assert.Nil(t, resp.Label)
	})
}

func TestHandleBadRequests(t *testing.T) {
	srv := newTestServer(t, staticResolver("AAAA"), nil)

	for _, payload := range []string{
		"this is not json",
		`{"op":"delete_everything"}`,
		`{"op":"resolve_window"}`,
		`{"op":"resolve_window","hwnd":-3}`,
		``,
	} {
		resp := srv.Handle([]byte(payload))
		assert.False(t, resp.OK, payload)
		assert.Contains(t, resp.Error, "bad request: ", payload)
	}
}

func TestEncodeFallsBackWhenSerializationFails(t *testing.T) {
	srv := newTestServer(t, nil, nil)
	srv.marshal = func(any) ([]byte, error) { return nil, errors.New("unsupported value") }

	payload := srv.encode(protocol.ListResponse(nil))

	assert.JSONEq(t, `{"ok":false,"error":"serialize failed: unsupported value"}`, string(payload))
}

func TestMinimalFailureIsWellFormed(t *testing.T) {
	resp, err := protocol.DecodeResponse(minimalFailure)
	require.NoError(t, err)
	assert.False(t, resp.OK)
}
