// Package config provides configuration loading for liad.
//
// Configuration is composed from three layers, highest precedence first:
//
//  1. Environment variables (LIAD_SERVER_PORT, LIAD_AGENT_NAME, ...)
//  2. YAML config file (~/.config/liad/config.yaml by default)
//  3. Package defaults
//
// Each section unmarshals directly into the owning package's Config
// type, so a section's koanf tags live next to the code that reads them.
package config

import (
	"fmt"

	"github.com/lialabs/liad/internal/agent"
	"github.com/lialabs/liad/internal/events"
	"github.com/lialabs/liad/internal/httpapi"
	"github.com/lialabs/liad/internal/logging"
	"github.com/lialabs/liad/internal/memory"
	"github.com/lialabs/liad/internal/statestore"
	"github.com/lialabs/liad/internal/telemetry"
)

// Config holds the complete daemon configuration.
type Config struct {
	Agent         agent.Config      `koanf:"agent"`
	Server        httpapi.Config    `koanf:"server"`
	Logging       logging.Config    `koanf:"logging"`
	Observability telemetry.Config  `koanf:"observability"`
	Memory        memory.Config     `koanf:"memory"`
	State         statestore.Config `koanf:"state"`
	Events        events.Config     `koanf:"events"`
}

// Default returns the fully populated default configuration.
func Default() Config {
	memoryCfg := memory.Config{}
	memoryCfg.ApplyDefaults()

	stateCfg := statestore.Config{Enabled: true}
	stateCfg.ApplyDefaults()

	eventsCfg := events.Config{}
	eventsCfg.ApplyDefaults()

	return Config{
		Agent:         *agent.DefaultConfig(),
		Server:        httpapi.NewDefaultConfig(),
		Logging:       logging.NewDefaultConfig(),
		Observability: telemetry.NewDefaultConfig(),
		Memory:        memoryCfg,
		State:         stateCfg,
		Events:        eventsCfg,
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.Agent.Validate(); err != nil {
		return fmt.Errorf("agent: %w", err)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server: port must be in 1..65535, got %d", c.Server.Port)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if err := c.Observability.Validate(); err != nil {
		return fmt.Errorf("observability: %w", err)
	}
	if err := c.Memory.Validate(); err != nil {
		return fmt.Errorf("memory: %w", err)
	}
	if c.State.Enabled {
		if err := c.State.Validate(); err != nil {
			return fmt.Errorf("state: %w", err)
		}
	}
	return nil
}
