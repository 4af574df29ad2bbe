// control/config.go
// Author: momentics <momentics@gmail.com>
//
// IPC configuration with environment and YAML sources.

package control

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"github.com/momentics/hioload-ipc/core/protocol"
)

// EnvPrefix is prepended to every environment variable, e.g. IPC_QUEUE_LIMIT.
const EnvPrefix = "IPC"

// QueuePolicy selects what Send does when a peer's write queue is at its limit.
type QueuePolicy string

const (
	// PolicyUnbounded queues without limit. A stuck peer grows memory.
	PolicyUnbounded QueuePolicy = "unbounded"
	// PolicyReject fails Send with api.ErrQueueFull.
	PolicyReject QueuePolicy = "reject"
	// PolicyDropOldest evicts the frame at the head of the queue.
	PolicyDropOldest QueuePolicy = "drop-oldest"
)

// Config holds the tunables of one IPC context.
//
// Fields carry no envconfig defaults on purpose: values already set from
// Default or YAML survive when the matching variable is unset.
type Config struct {
	MaxProcesses int         `envconfig:"MAX_PROCESSES" yaml:"max_processes"`
	QueuePolicy  QueuePolicy `envconfig:"QUEUE_POLICY" yaml:"queue_policy"`
	QueueLimit   int         `envconfig:"QUEUE_LIMIT" yaml:"queue_limit"`
	Loopback     bool        `envconfig:"LOOPBACK" yaml:"loopback"`
	Log          LogConfig   `envconfig:"LOG" yaml:"log"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LEVEL" yaml:"level"`
	Development bool   `envconfig:"DEV" yaml:"development"`
}

// Default returns default configuration.
func Default() Config {
	return Config{
		MaxProcesses: protocol.MaxProcesses,
		QueuePolicy:  PolicyUnbounded,
		QueueLimit:   0,
		Loopback:     false,
		Log: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}

// LoadConfig loads configuration from IPC_* environment variables on top
// of Default.
func LoadConfig() (Config, error) {
	cfg := Default()
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load ipc config: %w", err)
	}
	return cfg, cfg.Validate()
}

// ParseConfig decodes a YAML fragment (typically the "ipc" section of the
// host's config file), then applies environment overrides.
func ParseConfig(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse ipc config: %w", err)
	}
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to load ipc config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate checks ranges and enum values.
func (c Config) Validate() error {
	if c.MaxProcesses < 1 || c.MaxProcesses > protocol.MaxProcesses {
		return fmt.Errorf("max_processes must be in 1..%d, got %d", protocol.MaxProcesses, c.MaxProcesses)
	}
	switch c.QueuePolicy {
	case PolicyUnbounded:
	case PolicyReject, PolicyDropOldest:
		if c.QueueLimit <= 0 {
			return fmt.Errorf("queue_policy %q requires a positive queue_limit", c.QueuePolicy)
		}
	default:
		return fmt.Errorf("unknown queue_policy %q", c.QueuePolicy)
	}
	if c.QueueLimit < 0 {
		return fmt.Errorf("queue_limit must not be negative, got %d", c.QueueLimit)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}
