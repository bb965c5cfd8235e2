// Package config provides configuration management for taskledger with
// layered precedence.
//
// Configuration sources are loaded in the following order (highest precedence
// first):
//  1. CLI flags (passed via LoadWithOverrides)
//  2. Environment variables (TASKLEDGER_* prefix)
//  3. Project config (.taskledger/config.yaml)
//  4. Global config (~/.taskledger/config.yaml)
//  5. Built-in defaults
//
// Each higher level completely overrides the lower level for the same key.
//
// IMPORTANT: This package may import internal/constants and internal/errors,
// but MUST NOT import internal/domain or other internal packages.
package config

// Config is the root configuration structure for taskledger.
type Config struct {
	// Ledger contains settings for the state ledger backend.
	Ledger LedgerConfig `yaml:"ledger" json:"ledger" mapstructure:"ledger"`

	// Logging contains settings for log output.
	Logging LoggingConfig `yaml:"logging" json:"logging" mapstructure:"logging"`
}

// LedgerConfig selects and configures the ledger backend.
type LedgerConfig struct {
	// Backend selects the ledger implementation: "memory" or "redis".
	// Default: "memory"
	Backend string `yaml:"backend" json:"backend" mapstructure:"backend"`

	// Redis configures the Redis backend. Ignored unless Backend is "redis".
	Redis RedisConfig `yaml:"redis" json:"redis" mapstructure:"redis"`
}

// RedisConfig contains connection settings for the Redis ledger backend.
type RedisConfig struct {
	// Addr is the host:port of the Redis server.
	// Default: "localhost:6379"
	Addr string `yaml:"addr" json:"addr" mapstructure:"addr"`

	// Password authenticates against the server. Empty means no auth.
	Password string `yaml:"password" json:"password" mapstructure:"password"`

	// DB is the logical Redis database number.
	// Default: 0
	DB int `yaml:"db" json:"db" mapstructure:"db"`

	// Namespace prefixes every key taskledger writes, keeping the ledger
	// separable from other tenants of the same server.
	// Default: "taskledger"
	Namespace string `yaml:"namespace" json:"namespace" mapstructure:"namespace"`
}

// LoggingConfig contains settings for log output.
type LoggingConfig struct {
	// Level is the minimum log level: "trace", "debug", "info", "warn",
	// "error", or "disabled".
	// Default: "info"
	Level string `yaml:"level" json:"level" mapstructure:"level"`

	// File enables an additional rotating JSON log file under
	// .taskledger/logs when true.
	// Default: false
	File bool `yaml:"file" json:"file" mapstructure:"file"`
}
