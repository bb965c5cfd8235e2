package config

import "github.com/mrz1836/taskledger/internal/constants"

// DefaultConfig returns a new Config with sensible default values.
// These defaults are used as the base layer that can be overridden by
// config files, environment variables, and CLI flags.
func DefaultConfig() *Config {
	return &Config{
		Ledger: LedgerConfig{
			// Backend: "memory" works without any external service and is
			// the right default for local and test use.
			Backend: constants.LedgerBackendMemory,

			Redis: RedisConfig{
				// Addr: the conventional local Redis endpoint.
				Addr: "localhost:6379",

				// Namespace: keeps taskledger keys separable from other
				// tenants of a shared server.
				Namespace: constants.AppName,
			},
		},
		Logging: LoggingConfig{
			// Level: "info" keeps routine operation quiet without hiding
			// warnings about degraded records or denied calls.
			Level: "info",
		},
	}
}
