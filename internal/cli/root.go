package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mrz1836/taskledger/internal/config"
	"github.com/mrz1836/taskledger/internal/constants"
	"github.com/mrz1836/taskledger/internal/errors"
	"github.com/mrz1836/taskledger/internal/logging"
)

// BuildInfo contains version information set at build time via ldflags.
type BuildInfo struct {
	// Version is the semantic version (e.g., "1.0.0").
	Version string
	// Commit is the git commit hash.
	Commit string
	// Date is the build date.
	Date string
}

// globalLogger stores the initialized logger for use by subcommands.
// It is set during PersistentPreRunE and accessed via Logger.
var (
	globalLogger   zerolog.Logger //nolint:gochecknoglobals // CLI logger requires global access
	globalLoggerMu sync.RWMutex   //nolint:gochecknoglobals // Protects globalLogger
)

// Logger returns the initialized logger for use by subcommands.
//
// IMPORTANT: This function MUST only be called after the root command's
// PersistentPreRunE has executed. Calling it before initialization will
// return a zero-value logger that discards all log output.
//
// This function is safe for concurrent use.
func Logger() zerolog.Logger {
	globalLoggerMu.RLock()
	defer globalLoggerMu.RUnlock()
	return globalLogger
}

// newRootCmd creates and returns the root command for the taskledger CLI.
func newRootCmd(flags *GlobalFlags, info BuildInfo) *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   constants.AppName,
		Short: "taskledger - ledger-backed task and document workflow",
		Long: `taskledger manages task records and their document version trails on an
append-only state ledger.

Every task lives under a TASK_ key as a single aggregate: its status, its
documents and every version ever attached to them. Mutations append ledger
revisions, so the full history of each task stays queryable.

All operations run under a caller role (--role) and are answered with a
uniform envelope carrying the result or the reason for refusal.`,
		Version: formatVersion(info),
		// Run displays help when the root command is invoked without
		// subcommands, ensuring PersistentPreRunE still validates flags.
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := BindGlobalFlags(v, cmd); err != nil {
				return fmt.Errorf("failed to bind flags: %w", err)
			}

			if !IsValidOutputFormat(flags.Output) {
				return errors.Wrapf(errors.ErrInvalidOutputFormat,
					"%q must be one of %v", flags.Output, ValidOutputFormats())
			}

			cfg, err := config.Load(cmd.Context())
			if err != nil {
				return err
			}

			logPath := ""
			if cfg.Logging.File {
				logPath = config.ProjectLogFilePath()
			}

			globalLoggerMu.Lock()
			globalLogger = logging.Init(logging.Options{
				Level:    cfg.Logging.Level,
				Verbose:  flags.Verbose,
				Quiet:    flags.Quiet,
				FilePath: logPath,
			})
			globalLoggerMu.Unlock()

			return nil
		},
		// We print envelopes ourselves; cobra must not add its own noise.
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(cmd, flags)

	AddTaskCommand(cmd, flags)
	AddDocumentCommand(cmd, flags)
	AddWhoamiCommand(cmd, flags)
	AddConfigCommand(cmd)

	return cmd
}

// formatVersion creates the version string from build info.
func formatVersion(info BuildInfo) string {
	if info.Version == "" {
		info.Version = "dev"
	}
	if info.Commit == "" {
		info.Commit = "none"
	}
	if info.Date == "" {
		info.Date = "unknown"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", info.Version, info.Commit, info.Date)
}

// Execute runs the root command with the provided context and build info.
//
// Failure envelopes are already printed by the command that produced them;
// every other error is reported here since SilenceErrors keeps cobra quiet.
func Execute(ctx context.Context, info BuildInfo) error {
	flags := &GlobalFlags{}
	cmd := newRootCmd(flags, info)
	err := cmd.ExecuteContext(ctx)
	logging.CloseLogFile()

	if err != nil && !stderrors.Is(err, errors.ErrInvocationFailed) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %s\n", err)
	}
	return err
}
