package server

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, int64(10000), cfg.StartingStack)
	assert.Equal(t, 30*time.Second, cfg.IdleTimeout)
}

func TestLoadConfigYAMLOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(
		"addr: \":9999\"\nblind_size: 50\nidle_timeout: 5s\n"), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, int64(50), cfg.BlindSize)
	assert.Equal(t, 5*time.Second, cfg.IdleTimeout)
	assert.Equal(t, int64(10000), cfg.StartingStack, "untouched keys keep defaults")
}

func TestLoadConfigEnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":9999\"\n"), 0o600))
	t.Setenv("FUNPOKER_ADDR", ":7777")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.Addr)
}

func TestLoadConfigMissingFileFallsBack(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
}

func TestLoadConfigRejectsBrokeStack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(
		"blind_size: 10000\nstarting_stack: 100\n"), 0o600))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
