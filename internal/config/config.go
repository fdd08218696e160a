// Package config loads settings from I3LAYOUT_* environment variables.
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every variable name.
const Prefix = "I3LAYOUT"

// Settings holds environment configuration. Command-line flags override it.
type Settings struct {
	MsgBinary string `envconfig:"MSG_BINARY" default:"i3-msg"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"warn"`
	LogDev    bool   `envconfig:"LOG_DEV" default:"false"`
	// TempDir holds layout files passed to append_layout. Without
	// I3LAYOUT_TMPDIR the plain TMPDIR is used, then os.TempDir().
	TempDir string `envconfig:"TMPDIR"`
}

// Load reads Settings from the environment.
func Load() (*Settings, error) {
	var s Settings
	if err := envconfig.Process(Prefix, &s); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &s, nil
}

// Default returns the settings used when nothing is set.
func Default() *Settings {
	return &Settings{MsgBinary: "i3-msg", LogLevel: "warn"}
}
