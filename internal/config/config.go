// Package config loads the YAML configuration for the ambient parts of a
// vkotcore run: the display-server socket path, palette overrides, and the
// optional debug server. The scrollback_rows and frame_lock_ms settings are
// parsed and clamped, but nothing reads them: the history cap stays
// screen.MaxHistory and the frame-lock window stays engine.FTIME.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vkot/vkotcore/internal/screen"
)

// Debug holds the optional introspection-server settings.
type Debug struct {
	Listen         string `yaml:"listen"`
	NgrokAuthtoken string `yaml:"ngrok_authtoken"`
}

// Config is the on-disk shape of a vkotcore config file. Every field has a
// workable zero value; Load fills in defaults for anything left blank.
type Config struct {
	Socket              string `yaml:"socket"`
	ScrollbackRows      int    `yaml:"scrollback_rows"`
	FrameLockMS         int    `yaml:"frame_lock_ms"`
	PaletteOverridePath string `yaml:"palette_override_path"`
	Debug               Debug  `yaml:"debug"`
}

const (
	defaultSocket      = "./vkot.socket"
	defaultFrameLockMS = 10
)

// Default returns a Config with every field at its documented default.
func Default() Config {
	return Config{
		Socket:         envOr("VKOT_SOCKET", defaultSocket),
		ScrollbackRows: screen.MaxHistory,
		FrameLockMS:    defaultFrameLockMS,
	}
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

// Load reads and parses the YAML config at path, starting from Default()
// and overriding with whatever the file sets. A missing file is not an
// error — Default() is returned unchanged. A malformed file is a startup-
// fatal error: it is always the operator's mistake, never a runtime
// condition the engine can recover from.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if cfg.ScrollbackRows <= 0 || cfg.ScrollbackRows > screen.MaxHistory {
		cfg.ScrollbackRows = screen.MaxHistory
	}
	if cfg.FrameLockMS <= 0 {
		cfg.FrameLockMS = defaultFrameLockMS
	}
	if cfg.Socket == "" {
		cfg.Socket = envOr("VKOT_SOCKET", defaultSocket)
	}
	return cfg, nil
}
