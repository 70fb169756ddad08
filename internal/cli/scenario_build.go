package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/greenr/internal/config"
	"github.com/rshade/greenr/internal/footprint"
	"github.com/rshade/greenr/internal/greenops"
	"github.com/rshade/greenr/internal/logging"
	"github.com/rshade/greenr/internal/session"
	"github.com/rshade/greenr/internal/tui"
)

var errNoScenarioBase = errors.New(`no snapshot to build from: run "greenr calc" first`)

type scenarioBuildParams struct {
	from        string
	label       string
	miles       float64
	renewable   float64
	flights     string
	diet        string
	consumption string
	output      string
}

// newScenarioBuildCmd creates the scenario build command.
func newScenarioBuildCmd() *cobra.Command {
	var params scenarioBuildParams

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a scenario from the baseline and save it",
		Long: `Starts from the baseline's request (or the oldest snapshot when no baseline
is pinned), applies the given changes, recalculates and saves the result as a
new snapshot. The new snapshot becomes the scenario; the snapshot it was built
from becomes the baseline if none is pinned.

Only the flags you pass change the request.`,
		Example: `  # What if I drove half as much and stopped flying?
  greenr scenario build --miles 6000 --flights 0

  # Go vegetarian with 50% renewable electricity, starting from a given snapshot
  greenr scenario build --from 01HV3K8Z --diet vegetarian --renewable 50 --label "Green home"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeScenarioBuild(cmd, params)
		},
	}

	cmd.Flags().StringVar(&params.from, "from", "", "snapshot to start from (default: baseline, else oldest)")
	cmd.Flags().StringVarP(&params.label, "label", "l", "", "snapshot label (default \"Scenario N\")")
	cmd.Flags().Float64Var(&params.miles, "miles", 0, "annual miles driven")
	cmd.Flags().Float64Var(&params.renewable, "renewable", 0, "renewable electricity share in percent (0-100)")
	cmd.Flags().StringVar(&params.flights, "flights", "", "flights per year: 0, 1-2, 3-5 or 6+")
	cmd.Flags().StringVar(&params.diet, "diet", "", "diet: vegan, vegetarian, low_meat or high_meat")
	cmd.Flags().StringVar(&params.consumption, "consumption", "", "consumption: minimal, average or high")
	cmd.Flags().StringVarP(&params.output, "output", "o", "", "output format: table or json")

	return cmd
}

// scenarioTweaks turns the changed flags into scenario adjustments.
func scenarioTweaks(cmd *cobra.Command, params scenarioBuildParams) (footprint.ScenarioTweaks, error) {
	var tweaks footprint.ScenarioTweaks
	flags := cmd.Flags()

	if flags.Changed("miles") {
		tweaks.AnnualMiles = &params.miles
	}
	if flags.Changed("renewable") {
		tweaks.RenewablePercent = &params.renewable
	}
	if flags.Changed("flights") {
		b, err := footprint.ParseFlightBucket(params.flights)
		if err != nil {
			return tweaks, err
		}
		tweaks.Flights = &b
	}
	if flags.Changed("diet") {
		d, err := footprint.ParseDiet(params.diet)
		if err != nil {
			return tweaks, err
		}
		tweaks.Diet = &d
	}
	if flags.Changed("consumption") {
		c, err := footprint.ParseConsumption(params.consumption)
		if err != nil {
			return tweaks, err
		}
		tweaks.Consumption = &c
	}
	return tweaks, tweaks.Validate()
}

func executeScenarioBuild(cmd *cobra.Command, params scenarioBuildParams) error {
	ctx := cmd.Context()
	a := appFrom(cmd)
	log := logging.FromContext(ctx)

	format, err := a.outputFormat(cmd)
	if err != nil {
		return err
	}
	tweaks, err := scenarioTweaks(cmd, params)
	if err != nil {
		return err
	}

	current, err := a.load(ctx)
	if err != nil {
		return err
	}
	var base session.Snapshot
	if params.from != "" {
		if base, err = lookupSnapshot(current, params.from); err != nil {
			return err
		}
	} else {
		var ok bool
		if base, ok = current.ScenarioBase(); !ok {
			return errNoScenarioBase
		}
	}

	input := tweaks.Apply(footprint.ScenarioDraft(base.Request))
	result, err := a.client().Calculate(ctx, input)
	if err != nil {
		log.Error().
			Str("component", "cli").
			Str("operation", "scenario_build").
			Str("base_id", base.ID).
			Err(err).
			Msg("calculation failed")
		return fmt.Errorf("calculation failed: %w", err)
	}

	label := strings.TrimSpace(params.label)
	if label == "" {
		label = current.NextScenarioLabel()
	}
	snap := a.repo.Create(label, input, result)

	state, err := a.update(ctx, func(st session.State) (session.State, error) {
		return st.RecordScenario(snap, base.ID), nil
	})
	if err != nil {
		return err
	}

	saved, _ := state.Get(snap.ID)
	log.Info().
		Str("component", "cli").
		Str("operation", "scenario_build").
		Str("snapshot_id", saved.ID).
		Str("base_id", base.ID).
		Float64("total_kg", saved.Response.Breakdown.TotalKg).
		Msg("scenario saved")

	if format == config.FormatJSON {
		return writeJSON(cmd.OutOrStdout(), saved)
	}
	cmd.Printf("Saved scenario %s (%s)\n\n", tui.ShortID(saved.ID), saved.Label)
	if baseline, ok := state.Baseline(); ok {
		cmd.Print(tui.RenderComparison(greenops.Compare(baseline, saved), a.precision(), tui.TerminalWidth(0)))
	}
	return nil
}
