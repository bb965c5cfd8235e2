package config

import (
	"github.com/rs/zerolog"

	"github.com/mrz1836/taskledger/internal/constants"
	"github.com/mrz1836/taskledger/internal/errors"
)

// Validate checks the configuration for invalid or inconsistent values.
// It returns an error describing the first validation failure found.
//
// Validation rules:
//   - ledger.backend must be "memory" or "redis"
//   - ledger.redis.addr must not be empty when the redis backend is selected
//   - ledger.redis.db must not be negative
//   - logging.level must be a zerolog level name
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.ErrConfigNil
	}

	if err := validateLedgerConfig(&cfg.Ledger); err != nil {
		return err
	}

	return validateLoggingConfig(&cfg.Logging)
}

// validateLedgerConfig checks ledger backend selection and connection values.
func validateLedgerConfig(cfg *LedgerConfig) error {
	switch cfg.Backend {
	case constants.LedgerBackendMemory:
		return nil
	case constants.LedgerBackendRedis:
		if cfg.Redis.Addr == "" {
			return errors.Wrap(errors.ErrConfigInvalidLedger,
				"ledger.redis.addr must not be empty for the redis backend")
		}
		if cfg.Redis.DB < 0 {
			return errors.Wrapf(errors.ErrConfigInvalidLedger,
				"ledger.redis.db must not be negative, got %d", cfg.Redis.DB)
		}
		return nil
	default:
		return errors.Wrapf(errors.ErrConfigInvalidLedger,
			"ledger.backend must be %q or %q, got %q",
			constants.LedgerBackendMemory, constants.LedgerBackendRedis, cfg.Backend)
	}
}

// validateLoggingConfig checks log output values.
func validateLoggingConfig(cfg *LoggingConfig) error {
	if _, err := zerolog.ParseLevel(cfg.Level); err != nil {
		return errors.Wrapf(errors.ErrConfigInvalidLogging,
			"logging.level %q is not a valid level", cfg.Level)
	}
	return nil
}
