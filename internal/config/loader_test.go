package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfigFile writes YAML with owner-only permissions, the way a real
// deployment would.
func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("defaults without environment", func(t *testing.T) {
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "Lia", cfg.Agent.Name)
		assert.Equal(t, 8090, cfg.Server.Port)
	})

	t.Run("environment overrides defaults", func(t *testing.T) {
		t.Setenv("LIAD_AGENT_NAME", "Nova")
		t.Setenv("LIAD_SERVER_PORT", "9191")
		t.Setenv("LIAD_MEMORY_VECTOR_SIZE", "128")

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "Nova", cfg.Agent.Name)
		assert.Equal(t, 9191, cfg.Server.Port)
		assert.Equal(t, 128, cfg.Memory.VectorSize)

		// Untouched sections keep their defaults.
		assert.Equal(t, "info", cfg.Logging.Level)
	})
}

func TestLoadWithFile(t *testing.T) {
	t.Run("file overrides defaults", func(t *testing.T) {
		path := writeConfigFile(t, `
agent:
  name: Nova
server:
  port: 9191
  shutdown_timeout: 5s
memory:
  vector_size: 128
`)

		cfg, err := LoadWithFile(path)
		require.NoError(t, err)
		assert.Equal(t, "Nova", cfg.Agent.Name)
		assert.Equal(t, 9191, cfg.Server.Port)
		assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
		assert.Equal(t, 128, cfg.Memory.VectorSize)
		assert.Equal(t, "json", cfg.Logging.Format)
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		t.Setenv("LIAD_SERVER_PORT", "9999")
		path := writeConfigFile(t, "server:\n  port: 9191\n")

		cfg, err := LoadWithFile(path)
		require.NoError(t, err)
		assert.Equal(t, 9999, cfg.Server.Port)
	})

	t.Run("missing file falls back to defaults", func(t *testing.T) {
		cfg, err := LoadWithFile(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, "Lia", cfg.Agent.Name)
	})

	t.Run("rejects group-readable files", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 9191\n"), 0644))

		_, err := LoadWithFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "insecure config file permissions")
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		path := writeConfigFile(t, "agent: [unclosed\n")

		_, err := LoadWithFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "parsing config file")
	})

	t.Run("rejects values that fail validation", func(t *testing.T) {
		path := writeConfigFile(t, "server:\n  port: -1\n")

		_, err := LoadWithFile(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config validation failed")
	})
}

func TestEnvTransform(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"LIAD_SERVER_PORT", "server.port"},
		{"LIAD_AGENT_NAME", "agent.name"},
		{"LIAD_MEMORY_VECTOR_SIZE", "memory.vector_size"},
		{"LIAD_SERVER_SHUTDOWN_TIMEOUT", "server.shutdown_timeout"},
		{"LIAD_DEBUG", "debug"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, envTransform(tt.in))
		})
	}
}

func TestDefaultPath(t *testing.T) {
	path, err := DefaultPath()
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path))
	assert.True(t, strings.HasSuffix(path, filepath.Join(".config", "liad", "config.yaml")))
}
