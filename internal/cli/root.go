package cli

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rshade/greenr/internal/config"
	"github.com/rshade/greenr/internal/logging"
	"github.com/rshade/greenr/internal/session"
)

// isTerminal checks if the given file is a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// logger is the package-level logger for CLI operations.
var logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration

// RootOption adjusts how the root command builds snapshots.
type RootOption func(*rootOptions)

type rootOptions struct {
	clock session.Clock
	ids   session.IDGenerator
}

// WithClock replaces the wall clock used for snapshot timestamps and
// history windows.
func WithClock(c session.Clock) RootOption {
	return func(o *rootOptions) { o.clock = c }
}

// WithIDGenerator replaces the ULID source used for snapshot ids.
func WithIDGenerator(g session.IDGenerator) RootOption {
	return func(o *rootOptions) { o.ids = g }
}

// NewRootCmd creates the root Cobra command for the greenr CLI.
// It loads configuration, wires up logging and tracing, and registers the
// snapshot, comparison and maintenance subcommands.
func NewRootCmd(ver string, opts ...RootOption) *cobra.Command {
	o := rootOptions{clock: session.RealClock{}}
	for _, opt := range opts {
		opt(&o)
	}

	var logResult *logging.LogPathResult

	cmd := &cobra.Command{
		Use:     "greenr",
		Short:   "Carbon footprint snapshots and scenario comparisons",
		Long:    "greenr: save footprint calculations as snapshots and compare a baseline with a scenario",
		Version: ver,
		Example: rootCmdExample,

		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd, o)
			if err != nil {
				return err
			}
			config.SetGlobalConfig(a.cfg)

			result := setupLogging(cmd)
			logResult = &result
			cmd.SetContext(context.WithValue(cmd.Context(), appContextKey{}, a))
			return nil
		},
		PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
			return cleanupLogging(logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().String("home", "", "greenr home directory (default $GREENR_HOME or ~/.greenr)")
	cmd.PersistentFlags().String("storage", "", "session storage backend: file, sqlite or memory")
	cmd.PersistentFlags().String("api-url", "", "base URL of the footprint calculation API")

	cmd.AddCommand(
		newCalcCmd(),
		newSnapshotCmd(),
		newBaselineCmd(),
		newScenarioCmd(),
		newCompareCmd(),
		newLeversCmd(),
		newHistoryCmd(),
		newTrendCmd(),
		newExportCmd(),
		newImportCmd(),
		newSessionCmd(),
		newConfigCmd(),
		newHealthCmd(),
	)

	return cmd
}

const rootCmdExample = `  # Calculate a footprint and save it as a snapshot
  greenr calc --input household.json --label "Today"

  # List snapshots from the last 30 days
  greenr snapshot list --range 30d

  # Pin a baseline and a scenario, then compare them
  greenr baseline set 01HV3K8Z
  greenr scenario set 01HV3M2Q
  greenr compare

  # Try a what-if from the baseline: drive less, fly less
  greenr scenario build --miles 6000 --flights 1-2

  # Browse history interactively
  greenr history

  # Back up every snapshot
  greenr export --file backup.json`
