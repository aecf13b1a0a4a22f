package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	// envPrefix namespaces every liad environment variable.
	envPrefix = "LIAD_"

	maxConfigFileSize = 1024 * 1024 // 1MB
)

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".config", "liad", "config.yaml"), nil
}

// EnsureConfigDir creates the liad config directory if it does not exist.
// The directory is created with 0700 permissions.
func EnsureConfigDir() error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolving home directory: %w", err)
	}
	configDir := filepath.Join(home, ".config", "liad")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("creating config directory %s: %w", configDir, err)
	}
	return nil
}

// Load loads configuration from defaults and environment variables only.
func Load() (Config, error) {
	return load("")
}

// LoadWithFile loads configuration from a YAML file, then overrides with
// environment variables. An empty configPath selects the default path; a
// missing file is not an error, the defaults simply stand.
//
// Environment variables map to config keys by stripping the LIAD_ prefix,
// lowercasing, and splitting on the first underscore:
//
//	LIAD_SERVER_PORT        -> server.port
//	LIAD_AGENT_NAME         -> agent.name
//	LIAD_MEMORY_VECTOR_SIZE -> memory.vector_size
func LoadWithFile(configPath string) (Config, error) {
	if configPath == "" {
		path, err := DefaultPath()
		if err != nil {
			return Config{}, err
		}
		configPath = path
	}
	return load(configPath)
}

func load(configPath string) (Config, error) {
	k := koanf.New(".")

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			content, err := readConfigFile(configPath)
			if err != nil {
				return Config{}, err
			}
			if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
				return Config{}, fmt.Errorf("parsing config file %s: %w", configPath, err)
			}
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return Config{}, fmt.Errorf("loading environment variables: %w", err)
	}

	// Unmarshal over a defaults-filled struct: keys absent from file and
	// environment keep their default values.
	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// envTransform maps LIAD_SECTION_FIELD_NAME to section.field_name. Only
// the first underscore splits, so multi-word field names survive.
func envTransform(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

// readConfigFile opens and validates the config file in one pass, using
// the open descriptor for all checks to avoid TOCTOU races.
func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat config file: %w", err)
	}

	// Config may carry API keys; insist on owner-only permissions.
	if runtime.GOOS != "windows" {
		perm := info.Mode().Perm()
		if perm != 0600 && perm != 0400 {
			return nil, fmt.Errorf("insecure config file permissions: %v (expected 0600 or 0400)", perm)
		}
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return content, nil
}
