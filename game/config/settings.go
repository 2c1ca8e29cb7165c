package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/wricardo/collect-game/game/engine"
)

// DefaultSessionTTL is how long an idle server session is kept
const DefaultSessionTTL = 24 * time.Hour

// Settings is the full tuning configuration. Values are layered: defaults,
// then the optional YAML file, then COLLECT_* environment variables.
type Settings struct {
	engine.Config `yaml:",inline"`

	// MapsDir holds the maps served by the server
	MapsDir string `yaml:"maps_dir" env:"COLLECT_MAPS_DIR"`
	// DefaultMap overrides the map picked for sessions created without one
	DefaultMap string `yaml:"default_map" env:"COLLECT_DEFAULT_MAP"`
	// SessionTTL expires idle server sessions; zero disables expiry
	SessionTTL time.Duration `yaml:"session_ttl" env:"COLLECT_SESSION_TTL"`
}

// DefaultSettings returns the stock settings
func DefaultSettings() *Settings {
	return &Settings{
		Config:     engine.DefaultConfig(),
		MapsDir:    "maps",
		SessionTTL: DefaultSessionTTL,
	}
}

// LoadSettings builds settings from defaults, the YAML file at path (when
// path is not empty) and the environment
func LoadSettings(path string) (*Settings, error) {
	s := DefaultSettings()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read settings file: %w", err)
		}
		if err := yaml.Unmarshal(data, s); err != nil {
			return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
		}
	}

	if err := ParseEnv(s); err != nil {
		return nil, err
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// ParseEnv overrides target's fields from environment variables
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Validate checks the engine tuning and the server settings
func (s *Settings) Validate() error {
	if err := s.Config.Validate(); err != nil {
		return err
	}
	if s.SessionTTL < 0 {
		return fmt.Errorf("config validation: session_ttl must not be negative, got %s", s.SessionTTL)
	}
	return nil
}
