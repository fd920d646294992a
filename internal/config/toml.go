// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Tester TesterConfig `toml:"tester"`
	Zen    ZenConfig    `toml:"zen"`
	Sound  SoundConfig  `toml:"sound"`
	Log    LogConfig    `toml:"log"`
}

// TesterConfig maps keyboard tester settings.
type TesterConfig struct {
	OS             *string `toml:"os"`
	Layout         *string `toml:"layout"`
	ChatterMs      *int    `toml:"chatter-ms"`
	History        *int    `toml:"history"`
	ReleaseMs      *int    `toml:"release-ms"`
	SuppressRepeat *bool   `toml:"suppress-repeat"`
}

// ZenConfig maps typing practice settings.
type ZenConfig struct {
	Corpus       *string `toml:"corpus"`
	KeepStreaks  *bool   `toml:"keep-streaks"`
	ResetOnExit  *bool   `toml:"reset-on-exit"`
	ErrorFlashMs *int    `toml:"error-flash-ms"`
}

// SoundConfig maps click feedback settings.
type SoundConfig struct {
	Backend      *string `toml:"backend"`
	MaxPerSecond *int    `toml:"max-per-second"`
}

// LogConfig maps log output settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
// Unknown keys are rejected so typos do not go unnoticed.
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
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
