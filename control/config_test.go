package control_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-ipc/control"
	"github.com/momentics/hioload-ipc/core/protocol"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := control.Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, protocol.MaxProcesses, cfg.MaxProcesses)
	assert.Equal(t, control.PolicyUnbounded, cfg.QueuePolicy)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("IPC_MAX_PROCESSES", "8")
	t.Setenv("IPC_QUEUE_POLICY", "reject")
	t.Setenv("IPC_QUEUE_LIMIT", "64")
	t.Setenv("IPC_LOG_LEVEL", "debug")

	cfg, err := control.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.MaxProcesses)
	assert.Equal(t, control.PolicyReject, cfg.QueuePolicy)
	assert.Equal(t, 64, cfg.QueueLimit)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestParseConfigYAMLWithEnvOverride(t *testing.T) {
	t.Setenv("IPC_QUEUE_LIMIT", "10")
	data := []byte(`
max_processes: 16
queue_policy: drop-oldest
queue_limit: 500
log:
  level: warn
  development: true
`)
	cfg, err := control.ParseConfig(data)
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.MaxProcesses)
	assert.Equal(t, control.PolicyDropOldest, cfg.QueuePolicy)
	assert.Equal(t, 10, cfg.QueueLimit, "environment wins over yaml")
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.True(t, cfg.Log.Development)
}

func TestParseConfigKeepsDefaultsForMissingKeys(t *testing.T) {
	cfg, err := control.ParseConfig([]byte("loopback: true\n"))
	require.NoError(t, err)
	assert.True(t, cfg.Loopback)
	assert.Equal(t, protocol.MaxProcesses, cfg.MaxProcesses)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestValidateRejects(t *testing.T) {
	cases := map[string]func(*control.Config){
		"zero processes":       func(c *control.Config) { c.MaxProcesses = 0 },
		"too many processes":   func(c *control.Config) { c.MaxProcesses = protocol.MaxProcesses + 1 },
		"unknown policy":       func(c *control.Config) { c.QueuePolicy = "lifo" },
		"reject without limit": func(c *control.Config) { c.QueuePolicy = control.PolicyReject },
		"negative limit":       func(c *control.Config) { c.QueueLimit = -1 },
		"bad log level":        func(c *control.Config) { c.Log.Level = "loud" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := control.Default()
			mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestNewLogger(t *testing.T) {
	log, err := control.NewLogger(control.LogConfig{Level: "debug", Development: true})
	require.NoError(t, err)
	assert.NotNil(t, log)

	_, err = control.NewLogger(control.LogConfig{Level: "verbose"})
	assert.Error(t, err)
}
