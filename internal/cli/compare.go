package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/greenr/internal/config"
	"github.com/rshade/greenr/internal/greenops"
	"github.com/rshade/greenr/internal/logging"
	"github.com/rshade/greenr/internal/session"
	"github.com/rshade/greenr/internal/tui"
)

type compareParams struct {
	baseline string
	scenario string
	output   string
}

// newCompareCmd creates the compare command.
func newCompareCmd() *cobra.Command {
	var params compareParams

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the baseline with the scenario",
		Long: `Shows the per-category change from the baseline to the scenario and
translates the total change into personalized equivalents.

Without flags the pinned pointers are used. When no baseline is pinned the
oldest snapshot is used; when no scenario is pinned the newest snapshot
other than the baseline is used. --baseline and --scenario override the
pinned pointers for this comparison only.`,
		Example: `  # Compare the pinned (or oldest/newest) pair
  greenr compare

  # Compare two specific snapshots
  greenr compare --baseline 01HV3K8Z --scenario 01HV3M2Q

  # Machine-readable
  greenr compare --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeCompare(cmd, params)
		},
	}

	cmd.Flags().StringVar(&params.baseline, "baseline", "", "baseline snapshot id (overrides the pinned baseline)")
	cmd.Flags().StringVar(&params.scenario, "scenario", "", "scenario snapshot id (overrides the pinned scenario)")
	cmd.Flags().StringVarP(&params.output, "output", "o", "", "output format: table, text or json")
	return cmd
}

func executeCompare(cmd *cobra.Command, params compareParams) error {
	ctx := cmd.Context()
	a := appFrom(cmd)

	format, err := a.outputFormat(cmd)
	if err != nil {
		return err
	}
	state, err := a.load(ctx)
	if err != nil {
		return err
	}

	baseline, scenario, err := comparisonPair(state, params)
	if err != nil {
		return err
	}

	cmp := greenops.Compare(baseline, scenario)
	logging.FromContext(ctx).Debug().
		Str("component", "cli").
		Str("operation", "compare").
		Str("baseline_id", baseline.ID).
		Str("scenario_id", scenario.ID).
		Float64("delta_kg", cmp.TotalDeltaKg).
		Bool("significant", cmp.Significant).
		Msg("comparison computed")

	if format == config.FormatJSON {
		return writeJSON(cmd.OutOrStdout(), cmp)
	}
	cmd.Print(tui.RenderComparison(cmp, a.precision(), tui.TerminalWidth(0)))
	return nil
}

// comparisonPair applies explicit ids as pointers on a local copy of the
// state and resolves the pair from there.
func comparisonPair(state session.State, params compareParams) (session.Snapshot, session.Snapshot, error) {
	if state.Len() == 0 {
		return session.Snapshot{}, session.Snapshot{}, fmt.Errorf("%w: no snapshots saved yet", greenops.ErrNoComparisonPair)
	}

	if params.baseline != "" {
		snap, err := lookupSnapshot(state, params.baseline)
		if err != nil {
			return session.Snapshot{}, session.Snapshot{}, fmt.Errorf("baseline: %w", err)
		}
		state = state.SetBaseline(snap.ID)
	}
	if params.scenario != "" {
		snap, err := lookupSnapshot(state, params.scenario)
		if err != nil {
			return session.Snapshot{}, session.Snapshot{}, fmt.Errorf("scenario: %w", err)
		}
		state = state.SetScenario(&snap.ID)
	}

	baseline, scenario, ok := state.ResolvePair()
	if !ok {
		return session.Snapshot{}, session.Snapshot{}, fmt.Errorf(
			"%w: save a second snapshot or pin a scenario with \"greenr scenario set\"", greenops.ErrNoComparisonPair)
	}
	return baseline, scenario, nil
}

// leversReport is the JSON shape of the levers command.
type leversReport struct {
	SnapshotID string           `json:"snapshotId"`
	Label      string           `json:"label"`
	TotalKg    float64          `json:"totalKg"`
	Levers     []greenops.Lever `json:"levers"`
}

// newLeversCmd creates the levers command.
func newLeversCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "levers [id]",
		Short: "Show the largest categories of a snapshot with suggestions",
		Long: `Lists the categories contributing most to a snapshot's footprint, with
concrete actions for each. Defaults to the newest snapshot.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := ""
			if len(args) == 1 {
				ref = args[0]
			}
			return executeLevers(cmd, ref)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: table or json")
	return cmd
}

func executeLevers(cmd *cobra.Command, ref string) error {
	a := appFrom(cmd)
	format, err := a.outputFormat(cmd)
	if err != nil {
		return err
	}
	state, err := a.load(cmd.Context())
	if err != nil {
		return err
	}

	var snap session.Snapshot
	if ref != "" {
		if snap, err = lookupSnapshot(state, ref); err != nil {
			return err
		}
	} else {
		sorted := state.SortedByCreated()
		if len(sorted) == 0 {
			return fmt.Errorf("%w: no snapshots saved yet", greenops.ErrMissingSnapshot)
		}
		snap = sorted[0]
	}

	levers := greenops.Levers(snap.Response.Breakdown)
	if format == config.FormatJSON {
		return writeJSON(cmd.OutOrStdout(), leversReport{
			SnapshotID: snap.ID,
			Label:      snap.Label,
			TotalKg:    snap.Response.Breakdown.TotalKg,
			Levers:     levers,
		})
	}
	cmd.Print(tui.RenderLevers(snap.Label, levers, a.precision()))
	return nil
}

// newTrendCmd creates the trend command.
func newTrendCmd() *cobra.Command {
	var (
		rng    string
		output string
	)

	cmd := &cobra.Command{
		Use:   "trend",
		Short: "Show total footprint over time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeTrend(cmd, rng)
		},
	}
	cmd.Flags().StringVar(&rng, "range", "all", "time range: 7d, 30d or all")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: table or json")
	return cmd
}

func executeTrend(cmd *cobra.Command, rangeFlag string) error {
	a := appFrom(cmd)

	rng, err := session.ParseRange(rangeFlag)
	if err != nil {
		return err
	}
	format, err := a.outputFormat(cmd)
	if err != nil {
		return err
	}
	state, err := a.load(cmd.Context())
	if err != nil {
		return err
	}

	points := session.Trend(state.Filter(session.HistoryFilter{Range: rng, Now: a.now()}))
	if format == config.FormatJSON {
		return writeJSON(cmd.OutOrStdout(), points)
	}
	cmd.Print(tui.RenderTrend(points))
	return nil
}
