package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettingsDefaults(t *testing.T) {
	for _, key := range []string{"MDDSKLBL_LOG_LEVEL", "MDDSKLBL_CONFIG_DIR"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}

	s, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "info", s.LogLevel)
	assert.Empty(t, s.ConfigDir)
}

func TestLoadSettingsShowConsole(t *testing.T) {
	t.Setenv("MDDSKLBL_SHOW_CONSOLE", "true")

	s, err := LoadSettings()
	require.NoError(t, err)
	assert.True(t, s.ShowConsole)
}

func TestSettingsPathsOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MDDSKLBL_CONFIG_DIR", dir)
	t.Setenv("MDDSKLBL_LOG_DIR", filepath.Join(dir, "elsewhere"))
	t.Setenv("MDDSKLBL_LOG_LEVEL", " DEBUG ")

	s, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, "debug", s.LogLevel)

	paths, err := s.Paths()
	require.NoError(t, err)
	assert.Equal(t, dir, paths.CfgDir)
	assert.Equal(t, filepath.Join(dir, "labels.json"), paths.CfgFile)
	assert.Equal(t, filepath.Join(dir, "elsewhere"), paths.LogDir)
}

func TestSettingsConfigFileOverrideMovesDir(t *testing.T) {
	file := filepath.Join(t.TempDir(), "custom", "mine.json")
	s := &Settings{ConfigFile: file, ConfigDir: t.TempDir()}

	paths, err := s.Paths()
	require.NoError(t, err)
	assert.Equal(t, file, paths.CfgFile)
	assert.Equal(t, filepath.Dir(file), paths.CfgDir)
}
