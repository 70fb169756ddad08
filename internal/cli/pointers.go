package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/rshade/greenr/internal/logging"
	"github.com/rshade/greenr/internal/session"
	"github.com/rshade/greenr/internal/tui"
)

// newBaselineCmd creates the baseline command group.
func newBaselineCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "baseline",
		Short: "Manage the baseline snapshot",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set <id>",
		Short: "Pin a snapshot as the baseline",
		Long: `Pins a snapshot as the baseline for comparisons. If the scenario pointed at
the same snapshot, the scenario is cleared.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeSetPointer(cmd, args[0], true)
		},
	})
	return cmd
}

// newScenarioCmd creates the scenario command group.
func newScenarioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario",
		Short: "Build or pin the scenario snapshot",
	}

	var clearPointer bool
	set := &cobra.Command{
		Use:   "set [id]",
		Short: "Pin a snapshot as the scenario, or clear it",
		Example: `  greenr scenario set 01HV3M2Q
  greenr scenario set --clear`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case clearPointer && len(args) > 0:
				return errors.New("pass either an id or --clear, not both")
			case clearPointer:
				return executeClearScenario(cmd)
			case len(args) == 0:
				return errors.New("an id is required unless --clear is given")
			default:
				return executeSetPointer(cmd, args[0], false)
			}
		},
	}
	set.Flags().BoolVar(&clearPointer, "clear", false, "clear the scenario pointer")

	cmd.AddCommand(set, newScenarioBuildCmd())
	return cmd
}

func executeSetPointer(cmd *cobra.Command, ref string, baseline bool) error {
	ctx := cmd.Context()
	a := appFrom(cmd)

	var snap session.Snapshot
	_, err := a.update(ctx, func(st session.State) (session.State, error) {
		var lookupErr error
		if snap, lookupErr = lookupSnapshot(st, ref); lookupErr != nil {
			return st, lookupErr
		}
		if baseline {
			return st.SetBaseline(snap.ID), nil
		}
		return st.SetScenario(&snap.ID), nil
	})
	if err != nil {
		return err
	}

	role := "scenario"
	if baseline {
		role = "baseline"
	}
	logging.FromContext(ctx).Info().
		Str("component", "cli").
		Str("operation", "set_"+role).
		Str("snapshot_id", snap.ID).
		Msg("pointer updated")
	cmd.Printf("Set %s to %s (%s)\n", role, tui.ShortID(snap.ID), snap.Label)
	return nil
}

func executeClearScenario(cmd *cobra.Command) error {
	if _, err := appFrom(cmd).update(cmd.Context(), func(st session.State) (session.State, error) {
		return st.SetScenario(nil), nil
	}); err != nil {
		return err
	}
	cmd.Println("Scenario cleared")
	return nil
}
