package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/greenr/internal/config"
	"github.com/rshade/greenr/internal/footprint"
	"github.com/rshade/greenr/internal/logging"
	"github.com/rshade/greenr/internal/session"
	"github.com/rshade/greenr/internal/tui"
)

type calcParams struct {
	input    string
	label    string
	note     string
	tags     []string
	baseline bool
	scenario bool
	output   string
}

// newCalcCmd creates the calc command, which sends a questionnaire to the
// calculation API and saves the result as a new snapshot.
func newCalcCmd() *cobra.Command {
	var params calcParams

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Calculate a footprint and save it as a snapshot",
		Long: `Sends a calculation request to the footprint API and saves the result as a
new snapshot. The request is read from --input (a JSON file, or - for stdin).
Without --input the current request draft is recalculated.`,
		Example: `  # Calculate from a request file
  greenr calc --input household.json --label "Before EV"

  # Pipe a request and pin the result as the baseline
  cat household.json | greenr calc --input - --baseline

  # Recalculate the current draft
  greenr calc --label "Recheck"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeCalc(cmd, params)
		},
	}

	cmd.Flags().StringVarP(&params.input, "input", "i", "", "calculation request JSON file, or - for stdin")
	cmd.Flags().StringVarP(&params.label, "label", "l", "", "snapshot label (default \"Untitled\")")
	cmd.Flags().StringVar(&params.note, "note", "", "free-text note")
	cmd.Flags().StringSliceVar(&params.tags, "tags", nil, "comma-separated tags")
	cmd.Flags().BoolVar(&params.baseline, "baseline", false, "pin the new snapshot as the baseline")
	cmd.Flags().BoolVar(&params.scenario, "scenario", false, "pin the new snapshot as the scenario")
	cmd.Flags().StringVarP(&params.output, "output", "o", "", "output format: table or json")
	cmd.MarkFlagsMutuallyExclusive("baseline", "scenario")

	return cmd
}

func executeCalc(cmd *cobra.Command, params calcParams) error {
	ctx := cmd.Context()
	a := appFrom(cmd)
	log := logging.FromContext(ctx)

	format, err := a.outputFormat(cmd)
	if err != nil {
		return err
	}

	current, err := a.load(ctx)
	if err != nil {
		return err
	}
	input := current.RequestDraft
	if params.input != "" {
		if input, err = readCalcInput(cmd, params.input); err != nil {
			return err
		}
	}

	result, err := a.client().Calculate(ctx, input)
	if err != nil {
		log.Error().
			Str("component", "cli").
			Str("operation", "calc").
			Err(err).
			Msg("calculation failed")
		return fmt.Errorf("calculation failed: %w", err)
	}

	snap := a.repo.Create(params.label, input, result)
	state, err := a.update(ctx, func(st session.State) (session.State, error) {
		next := st.Record(snap)
		if params.note != "" || len(params.tags) > 0 {
			next = next.UpdateMetadata(snap.ID, session.MetadataPatch{
				Note:    &params.note,
				Tags:    params.tags,
				SetTags: len(params.tags) > 0,
			})
		}
		switch {
		case params.baseline:
			next = next.SetBaseline(snap.ID)
		case params.scenario:
			next = next.SetScenario(&snap.ID)
		}
		return next, nil
	})
	if err != nil {
		return err
	}

	saved, _ := state.Get(snap.ID)
	log.Info().
		Str("component", "cli").
		Str("operation", "calc").
		Str("snapshot_id", saved.ID).
		Float64("total_kg", saved.Response.Breakdown.TotalKg).
		Msg("snapshot saved")

	if format == config.FormatJSON {
		return writeJSON(cmd.OutOrStdout(), saved)
	}
	cmd.Printf("Saved snapshot %s\n\n", tui.ShortID(saved.ID))
	cmd.Print(tui.RenderSnapshotDetail(saved, tui.MarksFor(state, saved.ID), a.precision()))
	return nil
}

// readCalcInput decodes a calculation request from a file or, for "-", stdin.
func readCalcInput(cmd *cobra.Command, path string) (footprint.CalculationInput, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return footprint.CalculationInput{}, fmt.Errorf("opening calculation request: %w", err)
		}
		defer f.Close()
		r = f
	}

	input := footprint.DefaultDraft()
	if err := json.NewDecoder(r).Decode(&input); err != nil {
		return footprint.CalculationInput{}, fmt.Errorf("decoding calculation request %s: %w", path, err)
	}
	return input, nil
}
