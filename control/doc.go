// Package control
// Author: momentics <momentics@gmail.com>
//
// Configuration, logging and runtime metrics for the alert IPC layer.
//
// Provides:
//   - Config loaded from the environment (envconfig) or from a YAML
//     fragment embedded in the host's own configuration
//   - zap logger construction matching the host's log settings
//   - Prometheus counters for alert traffic, drops and fatal pipe errors
//
// Nothing here reads a file by itself; the host owns configuration files.
package control
