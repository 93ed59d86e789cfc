package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vkot/vkotcore/internal/screen"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, defaultFrameLockMS, cfg.FrameLockMS)
	assert.Equal(t, screen.MaxHistory, cfg.ScrollbackRows)
}

func TestLoadOverridesAndClampsScrollback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vkot.yaml")
	body := "socket: /tmp/custom.socket\nscrollback_rows: 999999\nframe_lock_ms: 20\n"
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.socket", cfg.Socket)
	assert.Equal(t, 20, cfg.FrameLockMS)
	assert.Equal(t, screen.MaxHistory, cfg.ScrollbackRows, "scrollback above the cap should clamp down")
}

func TestLoadMalformedFileIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("socket: [unterminated"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
