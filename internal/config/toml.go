// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Play PlayConfig `toml:"play"`
	Sync SyncConfig `toml:"sync"`
}

// PlayConfig maps play-related settings.
type PlayConfig struct {
	File   *string  `toml:"file"`
	MIDI   *string  `toml:"midi"`
	Audio  *string  `toml:"audio"`
	Title  *string  `toml:"title"`
	Artist *string  `toml:"artist"`
	// Duration in seconds, used when no audio file provides one.
	Duration *float64 `toml:"duration"`
	Seed     *int     `toml:"seed"`
	Lines    *int     `toml:"lines"`
	TickMs   *int     `toml:"tick-ms"`
}

// SyncConfig maps synchronization thresholds. All values are optional and
// fall back to the built-in defaults.
type SyncConfig struct {
	GapLookAhead   *float64 `toml:"gap-look-ahead"`
	IntroLookAhead *float64 `toml:"intro-look-ahead"`
	CatchUpChars   *int     `toml:"catch-up-chars"`
	CatchUpGrace   *float64 `toml:"catch-up-grace"`
	CatchUpLead    *int     `toml:"catch-up-lead"`
	StallTimeout   *float64 `toml:"stall-timeout"`
	StartOffset    *float64 `toml:"start-offset"`
	EndOffset      *float64 `toml:"end-offset"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}
