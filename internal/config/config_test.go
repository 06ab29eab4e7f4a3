package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 5*time.Minute, cfg.Server.LeasePeriod)
	assert.Equal(t, 1000, cfg.Server.MaxSessions)
	assert.Equal(t, int32(10), cfg.Database.MaxConns)
	assert.Equal(t, time.Hour, cfg.Redis.SnapshotTTL)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Game.Deterministic)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, "riftcaller-server", cfg.Telemetry.ServiceName)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfigFile(t, `
server:
  address: ":9090"
  lease_period: 2m
  max_sessions: 50
database:
  url: "postgres://rift:rift@db:5432/riftcaller"
  max_conns: 20
  min_conns: 5
redis:
  addr: "localhost:6379"
  snapshot_ttl: 30m
logging:
  level: debug
  format: json
game:
  deterministic: true
  seed: 42
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, 2*time.Minute, cfg.Server.LeasePeriod)
	assert.Equal(t, 50, cfg.Server.MaxSessions)
	assert.Equal(t, "postgres://rift:rift@db:5432/riftcaller", cfg.Database.URL)
	assert.Equal(t, int32(20), cfg.Database.MaxConns)
	assert.Equal(t, int32(5), cfg.Database.MinConns)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 30*time.Minute, cfg.Redis.SnapshotTTL)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.True(t, cfg.Game.Deterministic)
	assert.Equal(t, uint64(42), cfg.Game.Seed)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Address)
}

func TestLoadEnvironmentOverride(t *testing.T) {
	t.Setenv("RIFTCALLER_SERVER_ADDRESS", ":7777")
	t.Setenv("RIFTCALLER_LOGGING_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7777", cfg.Server.Address)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{
			name: "zero lease period",
			contents: `
server:
  lease_period: 0s
`,
		},
		{
			name: "negative max sessions",
			contents: `
server:
  max_sessions: -1
`,
		},
		{
			name: "max conns below min conns",
			contents: `
database:
  max_conns: 1
  min_conns: 5
`,
		},
		{
			name: "telemetry enabled without endpoint",
			contents: `
telemetry:
  enabled: true
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfigFile(t, tt.contents))
			assert.Error(t, err)
		})
	}
}
