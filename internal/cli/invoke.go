package cli

import (
	"github.com/spf13/cobra"

	"github.com/mrz1836/taskledger/internal/config"
)

// runInvocation builds a Service from the effective configuration, dispatches
// one invocation under the caller's role, and renders the envelope.
//
// Config load failure downgrades to defaults with a warning; a broken config
// file should not lock users out of the in-memory backend.
func runInvocation(cmd *cobra.Command, flags *GlobalFlags, function string, args []string) error {
	ctx := cmd.Context()
	logger := Logger()

	cfg, err := config.Load(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to load config, using defaults")
		cfg = config.DefaultConfig()
	}

	svc, err := NewService(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = svc.Close() }()

	env := svc.Invoke(ctx, flags.Role, function, args)
	return printEnvelope(cmd.OutOrStdout(), env, flags.Output)
}
