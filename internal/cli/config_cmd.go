package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mrz1836/taskledger/internal/config"
	"github.com/mrz1836/taskledger/internal/errors"
)

// AddConfigCommand adds the config command group to the root command.
func AddConfigCommand(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage taskledger configuration",
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())

	root.AddCommand(cmd)
}

// ConfigInitFlags holds flags specific to the config init command.
type ConfigInitFlags struct {
	// Global writes the global config instead of the project config.
	Global bool
	// Force overwrites an existing config file.
	Force bool
}

func newConfigInitCmd() *cobra.Command {
	flags := &ConfigInitFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file populated with defaults",
		Long: `Write a config file populated with the built-in defaults.

By default the project config (.taskledger/config.yaml) is written; use
--global for ~/.taskledger/config.yaml. Existing files are left untouched
unless --force is given.

Examples:
  taskledger config init
  taskledger config init --global --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigInit(cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().BoolVar(&flags.Global, "global", false, "write the global config (~/.taskledger/config.yaml)")
	cmd.Flags().BoolVar(&flags.Force, "force", false, "overwrite an existing config file")

	return cmd
}

func runConfigInit(w io.Writer, flags *ConfigInitFlags) error {
	path := config.ProjectConfigPath()
	if flags.Global {
		globalPath, err := config.GlobalConfigPath()
		if err != nil {
			return err
		}
		path = globalPath
	}

	if _, err := os.Stat(path); err == nil && !flags.Force {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
	}

	out, err := yaml.Marshal(config.DefaultConfig())
	if err != nil {
		return errors.Wrap(err, "failed to encode default config")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}
	if err := os.WriteFile(path, out, 0o600); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}

	_, err = fmt.Fprintf(w, "wrote %s\n", path)
	return err
}

// ConfigShowFlags holds flags specific to the config show command.
type ConfigShowFlags struct {
	// OutputFormat specifies the output format (yaml or json).
	OutputFormat string
}

func newConfigShowCmd() *cobra.Command {
	flags := &ConfigShowFlags{}

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Display the effective configuration",
		Long: `Display the effective configuration after merging all sources: built-in
defaults, the global config, the project config, and TASKLEDGER_*
environment variables.

Examples:
  taskledger config show
  taskledger config show --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, cmd.OutOrStdout(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.OutputFormat, "output", "yaml", "output format (yaml or json)")

	return cmd
}

func runConfigShow(cmd *cobra.Command, w io.Writer, flags *ConfigShowFlags) error {
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}

	var out []byte
	switch flags.OutputFormat {
	case "json":
		out, err = json.MarshalIndent(cfg, "", "  ")
		if err == nil {
			out = append(out, '\n')
		}
	case "yaml":
		out, err = yaml.Marshal(cfg)
	default:
		return errors.Wrapf(errors.ErrInvalidOutputFormat,
			"%q must be yaml or json", flags.OutputFormat)
	}
	if err != nil {
		return errors.Wrap(err, "failed to encode config")
	}

	_, err = w.Write(out)
	return err
}
