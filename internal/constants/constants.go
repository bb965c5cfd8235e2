// Package constants provides shared constant values for the taskledger system.
//
// This package MUST NOT import any other internal packages.
package constants

// AppName is the canonical application name used in logs and user messages.
const AppName = "taskledger"

// EnvPrefix is the prefix for environment variable configuration
// (e.g., TASKLEDGER_LEDGER_BACKEND).
const EnvPrefix = "TASKLEDGER"

// Ledger key prefixes. Cross-entity collision is prevented by prefix
// discipline alone: caller-supplied IDs are never escaped.
const (
	// TaskKeyPrefix namespaces task aggregate records in the ledger.
	TaskKeyPrefix = "TASK_"

	// DocumentKeyPrefix namespaces per-document records. Reserved for future
	// per-document addressing; no current read/write path consults it.
	DocumentKeyPrefix = "DOC_"
)

// Ledger backend identifiers for config selection.
const (
	// LedgerBackendMemory selects the in-process ledger.
	LedgerBackendMemory = "memory"

	// LedgerBackendRedis selects the Redis-backed ledger.
	LedgerBackendRedis = "redis"
)

// Directory and file names for configuration and logs.
const (
	// ConfigDirName is the dot-directory holding config and logs
	// (global: ~/.taskledger, project: ./.taskledger).
	ConfigDirName = ".taskledger"

	// ConfigFileName is the YAML configuration file name.
	ConfigFileName = "config.yaml"

	// LogsDirName is the subdirectory for rotating log files.
	LogsDirName = "logs"

	// LogFileName is the rotating log file name.
	LogFileName = "taskledger.log"
)
