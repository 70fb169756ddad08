package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rshade/greenr/internal/config"
)

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage greenr configuration",
		Long: `Configuration lives in config.yaml inside the greenr home (~/.greenr by
default, or $GREENR_HOME). Environment variables such as GREENR_API_BASE_URL
and GREENR_STORAGE_BACKEND override the file; flags override both.`,
	}
	cmd.AddCommand(newConfigInitCmd(), newConfigShowCmd())
	return cmd
}

// newConfigInitCmd creates the config init command for initializing configuration.
func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration file with default values",
		Example: `  # Create ~/.greenr/config.yaml
  greenr config init

  # Create configuration, overwriting existing
  greenr config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeConfigInit(cmd, force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing configuration file")
	return cmd
}

func executeConfigInit(cmd *cobra.Command, force bool) error {
	a := appFrom(cmd)
	configPath := filepath.Join(a.home, config.ConfigFileName)

	if !force {
		_, err := os.Stat(configPath)
		if err == nil {
			return errors.New("configuration file already exists, use --force to overwrite")
		}
		if !os.IsNotExist(err) {
			return fmt.Errorf("cannot access config path %s: %w", configPath, err)
		}
	}

	if err := config.EnsureConfigDir(a.home); err != nil {
		return err
	}
	path, err := config.New().Save(a.home)
	if err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	cmd.Printf("Configuration initialized at %s\n", path)
	return nil
}

// newConfigShowCmd creates the config show command.
func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long:  "Prints the configuration after the config file, environment and flags are applied.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := appFrom(cmd).cfg.YAML()
			if err != nil {
				return err
			}
			cmd.Print(out)
			return nil
		},
	}
}
