package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/mddsklbl/internal/config"
	"github.com/example/mddsklbl/internal/hotkeys"
)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

// run executes the command line against a private config directory and
// returns stdout.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("MDDSKLBL_CONFIG_DIR", dir)
	t.Setenv("MDDSKLBL_LOG_DIR", filepath.Join(dir, "logs"))

	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func loadConfig(t *testing.T, dir string) *config.Config {
	t.Helper()
	cfg, _, err := config.LoadOrDefault(config.PathsIn(dir))
	require.NoError(t, err)
	return cfg
}

func TestRootHelpListsCommands(t *testing.T) {
	out, err := run(t, t.TempDir(), "--help")
	require.NoError(t, err)
	for _, name := range []string{"run", "serve", "list", "resolve", "label", "hotkeys", "config"} {
		assert.Contains(t, out, name)
	}
}

func TestVersionFlag(t *testing.T) {
	SetVersion("1.2.3")
	t.Cleanup(func() { version = "dev" })

	out, err := run(t, t.TempDir(), "--version")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3\n", out)
}

func TestLabelSetNormalizesGUID(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "label", "set", "{aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee}", "--title", "Work")
	require.NoError(t, err)
	_, err = run(t, dir, "label", "set", "AAAAAAAA-BBBB-CCCC-DDDD-EEEEEEEEEEEE", "--description", "Tickets")
	require.NoError(t, err)

	cfg := loadConfig(t, dir)
	assert.Equal(t, map[string]config.DesktopLabel{
		"Desktop(Guid(AAAAAAAA-BBBB-CCCC-DDDD-EEEEEEEEEEEE))": {Title: "Work", Description: "Tickets"},
	}, cfg.Desktops)
}

func TestLabelSetRejectsBadInput(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "label", "set", "not-a-guid", "--title", "Work")
	assert.Error(t, err)

	_, err = run(t, dir, "label", "set", "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")
	assert.ErrorContains(t, err, "nothing to set")

	_, err = os.Stat(filepath.Join(dir, "labels.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLabelRm(t *testing.T) {
	dir := t.TempDir()
	guid := "aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee"

	_, err := run(t, dir, "label", "set", guid, "--title", "Work")
	require.NoError(t, err)
	_, err = run(t, dir, "label", "rm", guid)
	require.NoError(t, err)
	assert.Empty(t, loadConfig(t, dir).Desktops)

	_, err = run(t, dir, "label", "rm", guid)
	assert.ErrorContains(t, err, "no label stored")
}

func TestListLocal(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.SetLabel("Desktop(Guid(AAAA))", config.DesktopLabel{Title: "Work", Description: "Tickets"})
	cfg.SetLabel("junk", config.DesktopLabel{Title: "Skipped"})
	require.NoError(t, config.SaveAtomic(cfg, config.PathsIn(dir)))

	out, err := run(t, dir, "list", "--local", "--json")
	require.NoError(t, err)
	var labels map[string]config.DesktopLabel
	require.NoError(t, json.Unmarshal([]byte(out), &labels))
	assert.Equal(t, map[string]config.DesktopLabel{"AAAA": {Title: "Work", Description: "Tickets"}}, labels)

	var copied string
	orig := copyToClipboard
	copyToClipboard = func(s string) error { copied = s; return nil }
	t.Cleanup(func() { copyToClipboard = orig })

	out, err = run(t, dir, "list", "--local", "--copy")
	require.NoError(t, err)
	assert.Contains(t, out, "GUID")
	assert.Contains(t, out, "AAAA  Work   Tickets")
	assert.Equal(t, out, copied)
}

func TestListLocalEmpty(t *testing.T) {
	out, err := run(t, t.TempDir(), "list", "--local")
	require.NoError(t, err)
	assert.Contains(t, out, "No labelled desktops")
}

func TestHotkeysSetRejectsDuplicate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, config.SaveAtomic(config.Default(), config.PathsIn(dir)))
	path := filepath.Join(dir, "labels.json")
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = run(t, dir, "hotkeys", "set", "toggle_overlay", "ctrl+alt+t")

	var dup *hotkeys.DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Contains(t, err.Error(), "edit_title and toggle_overlay both use Ctrl+Alt+T")

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestHotkeysSetAndShow(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "hotkeys", "set", "toggle_overlay", "Ctrl+Shift+F9")
	require.NoError(t, err)
	assert.Equal(t, config.KeyChord{Ctrl: true, Shift: true, Key: "F9"}, loadConfig(t, dir).Hotkeys.ToggleOverlay)

	out, err := run(t, dir, "hotkeys", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "toggle_overlay")
	assert.Contains(t, out, "Ctrl+Shift+F9")
	assert.NotContains(t, out, "both use")

	_, err = run(t, dir, "hotkeys", "set", "nope", "Ctrl+X")
	assert.ErrorContains(t, err, "unknown hotkey slot")
}

func TestConfigMigrate(t *testing.T) {
	dir := t.TempDir()
	legacy := `{"desktops":{},"hotkeys":{` +
		`"edit_title":{"ctrl":true,"alt":true,"shift":false,"key":"T"},` +
		`"edit_description":{"ctrl":true,"alt":true,"shift":false,"key":"D"},` +
		`"toggle_overlay":{"ctrl":true,"alt":true,"shift":false,"key":"O"},` +
		`"snap_position":{"ctrl":true,"alt":true,"shift":false,"key":"S"}}}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "labels.json"), []byte(legacy), 0o644))

	out, err := run(t, dir, "config", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Migrated")

	cfg := loadConfig(t, dir)
	require.NotNil(t, cfg.Version)
	assert.Equal(t, config.CurrentVersion, *cfg.Version)
	assert.Equal(t, "L", cfg.Hotkeys.SnapPosition.Key)

	out, err = run(t, dir, "config", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "already current")
}

func TestConfigPath(t *testing.T) {
	dir := t.TempDir()
	out, err := run(t, dir, "config", "path", "--endpoint", filepath.Join(dir, "x.sock"))
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "labels.json"))
	assert.Contains(t, out, filepath.Join(dir, "x.sock"))
}

func TestParseHWND(t *testing.T) {
	for raw, want := range map[string]uint64{"12345": 12345, "0x1F": 31, " 7 ": 7} {
		got, err := parseHWND(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
	_, err := parseHWND("-1")
	assert.Error(t, err)
}
