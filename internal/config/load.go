package config

import (
	"context"
	stderrors "errors"
	"os"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/mrz1836/taskledger/internal/constants"
	"github.com/mrz1836/taskledger/internal/errors"
)

// newViperInstance creates a new Viper instance with standard taskledger
// configuration: defaults, the TASKLEDGER_ env prefix, and a key replacer so
// TASKLEDGER_LEDGER_BACKEND maps onto ledger.backend.
func newViperInstance() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// setDefaults registers the built-in defaults on a viper instance. These
// mirror DefaultConfig and form the lowest precedence layer.
func setDefaults(v *viper.Viper) {
	// Ledger defaults
	v.SetDefault("ledger.backend", constants.LedgerBackendMemory)
	v.SetDefault("ledger.redis.addr", "localhost:6379")
	v.SetDefault("ledger.redis.password", "")
	v.SetDefault("ledger.redis.db", 0)
	v.SetDefault("ledger.redis.namespace", constants.AppName)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file", false)
}

// isConfigNotFoundError returns true if the error is a viper config file not
// found error.
func isConfigNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	var configNotFoundErr viper.ConfigFileNotFoundError
	return stderrors.As(err, &configNotFoundErr)
}

// viperDecoderOption returns the decoder options for Viper unmarshal.
func viperDecoderOption() viper.DecoderConfigOption {
	return viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
		),
	)
}

// unmarshalAndValidate unmarshals viper config into Config and validates it.
func unmarshalAndValidate(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg, viperDecoderOption()); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return &cfg, nil
}

// Load reads configuration from all available sources with proper precedence.
// Configuration is loaded in the following order (highest precedence first):
//  1. Environment variables (TASKLEDGER_* prefix)
//  2. Project config (.taskledger/config.yaml)
//  3. Global config (~/.taskledger/config.yaml)
//  4. Built-in defaults
//
// Missing config files are not errors; many setups run on defaults and
// environment variables alone.
func Load(ctx context.Context) (*Config, error) {
	v := newViperInstance()

	if err := loadGlobalConfig(v); err != nil {
		return nil, err
	}
	if err := loadProjectConfig(v); err != nil {
		return nil, err
	}

	cfg, err := unmarshalAndValidate(v)
	if err != nil {
		return nil, err
	}

	logger := zerolog.Ctx(ctx).With().Str("component", "config").Logger()
	logger.Debug().
		Str("ledger.backend", cfg.Ledger.Backend).
		Str("logging.level", cfg.Logging.Level).
		Msg("configuration loaded")

	return cfg, nil
}

// LoadFromPaths loads configuration from specific file paths for testing.
// projectConfigPath is the higher priority level; globalConfigPath the lower.
// Either path can be empty to skip that level.
func LoadFromPaths(_ context.Context, projectConfigPath, globalConfigPath string) (*Config, error) {
	v := newViperInstance()

	if globalConfigPath != "" {
		v.SetConfigFile(globalConfigPath)
		if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read global config: %s", globalConfigPath)
		}
	}
	if projectConfigPath != "" {
		v.SetConfigFile(projectConfigPath)
		if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) && !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "failed to read project config: %s", projectConfigPath)
		}
	}

	return unmarshalAndValidate(v)
}

// LoadWithOverrides loads configuration and applies CLI flag overrides, which
// have the highest precedence. Only non-zero values in overrides are applied.
func LoadWithOverrides(ctx context.Context, overrides *Config) (*Config, error) {
	cfg, err := Load(ctx)
	if err != nil {
		return nil, err
	}

	if overrides != nil {
		applyOverrides(cfg, overrides)
	}

	if err := Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration after overrides")
	}
	return cfg, nil
}

// applyOverrides copies every non-zero field of src onto dst.
func applyOverrides(dst, src *Config) {
	if src.Ledger.Backend != "" {
		dst.Ledger.Backend = src.Ledger.Backend
	}
	if src.Ledger.Redis.Addr != "" {
		dst.Ledger.Redis.Addr = src.Ledger.Redis.Addr
	}
	if src.Ledger.Redis.Password != "" {
		dst.Ledger.Redis.Password = src.Ledger.Redis.Password
	}
	if src.Ledger.Redis.DB != 0 {
		dst.Ledger.Redis.DB = src.Ledger.Redis.DB
	}
	if src.Ledger.Redis.Namespace != "" {
		dst.Ledger.Redis.Namespace = src.Ledger.Redis.Namespace
	}
	if src.Logging.Level != "" {
		dst.Logging.Level = src.Logging.Level
	}
	if src.Logging.File {
		dst.Logging.File = true
	}
}

// loadGlobalConfig attempts to load ~/.taskledger/config.yaml.
// Returns nil if the file doesn't exist or the home directory is unavailable.
func loadGlobalConfig(v *viper.Viper) error {
	globalConfigPath, err := GlobalConfigPath()
	if err != nil {
		return nil
	}
	if !fileExists(globalConfigPath) {
		return nil
	}

	v.SetConfigFile(globalConfigPath)
	if err := v.ReadInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read global config file")
	}
	return nil
}

// loadProjectConfig attempts to load .taskledger/config.yaml.
// Returns nil if the file doesn't exist.
func loadProjectConfig(v *viper.Viper) error {
	projectConfigPath := ProjectConfigPath()
	if !fileExists(projectConfigPath) {
		return nil
	}

	v.SetConfigFile(projectConfigPath)
	if err := v.MergeInConfig(); err != nil && !isConfigNotFoundError(err) {
		return errors.Wrap(err, "failed to read project config file")
	}
	return nil
}

// fileExists returns true if the file at path exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
