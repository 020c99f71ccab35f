// Package config manages the schedge client configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Config holds all client configuration.
type Config struct {
	Server Server `toml:"server"`
	Editor Editor `toml:"editor"`
	Push   Push   `toml:"push"`
	Mock   Mock   `toml:"mock"`
}

// Server points the client at a schedge backend.
type Server struct {
	URL    string `toml:"url"`
	UserID int64  `toml:"user_id"`
}

// Editor controls edit-buffer behavior.
type Editor struct {
	DebounceMS int `toml:"debounce_ms"`
}

// Push controls event-stream reconnection.
type Push struct {
	BackoffBaseMS int `toml:"backoff_base_ms"`
	BackoffCapMS  int `toml:"backoff_cap_ms"`
}

// Mock controls the built-in mock server.
type Mock struct {
	Listen string `toml:"listen"`
	DBPath string `toml:"db_path"`
	Seed   string `toml:"seed"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	homeDir := schedgeHome()
	return Config{
		Server: Server{
			URL:    "http://127.0.0.1:8000",
			UserID: 1,
		},
		Editor: Editor{
			DebounceMS: 1000,
		},
		Push: Push{
			BackoffBaseMS: 1000,
			BackoffCapMS:  30000,
		},
		Mock: Mock{
			Listen: "127.0.0.1:8000",
			DBPath: filepath.Join(homeDir, "mock.db"),
			Seed:   "",
		},
	}
}

// LoadConfig reads config from ~/.schedge/config.toml, falling back to defaults.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	path := filepath.Join(schedgeHome(), "config.toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil // No config file yet
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}

	return cfg, nil
}

// SaveConfig writes the config to ~/.schedge/config.toml.
func SaveConfig(cfg Config) error {
	path := filepath.Join(schedgeHome(), "config.toml")
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	encoder := toml.NewEncoder(f)
	return encoder.Encode(cfg)
}

// Debounce returns the editor flush delay as a duration.
func (c Config) Debounce() time.Duration {
	if c.Editor.DebounceMS <= 0 {
		return time.Second
	}
	return time.Duration(c.Editor.DebounceMS) * time.Millisecond
}

// BackoffBase returns the reconnect back-off base as a duration.
func (c Config) BackoffBase() time.Duration {
	return time.Duration(c.Push.BackoffBaseMS) * time.Millisecond
}

// BackoffCap returns the reconnect back-off cap as a duration.
func (c Config) BackoffCap() time.Duration {
	return time.Duration(c.Push.BackoffCapMS) * time.Millisecond
}

// schedgeHome returns the schedge data directory.
func schedgeHome() string {
	if env := os.Getenv("SCHEDGE_HOME"); env != "" {
		return env
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".schedge")
}

// SchedgeHome is exported for use by other packages.
func SchedgeHome() string {
	return schedgeHome()
}
