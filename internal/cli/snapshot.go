package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/greenr/internal/config"
	"github.com/rshade/greenr/internal/greenops"
	"github.com/rshade/greenr/internal/logging"
	"github.com/rshade/greenr/internal/session"
	"github.com/rshade/greenr/internal/tui"
)

const (
	listColWidthID    = 12
	listColWidthLabel = 28
	listColWidthDate  = 17
)

// newSnapshotCmd creates the snapshot command group.
func newSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "snapshot",
		Aliases: []string{"snapshots", "snap"},
		Short:   "Manage saved snapshots",
		Long:    "List, inspect, annotate and delete saved footprint snapshots.",
	}

	cmd.AddCommand(
		newSnapshotListCmd(),
		newSnapshotShowCmd(),
		newSnapshotEditCmd(),
		newSnapshotDeleteCmd(),
		newSnapshotUseCmd(),
	)
	return cmd
}

type listParams struct {
	rng    string
	query  string
	output string
}

// snapshotSummary is one row of the JSON listing.
type snapshotSummary struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	CreatedAt time.Time `json:"createdAt"`
	TotalKg   float64   `json:"totalKg"`
	Note      string    `json:"note,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	Baseline  bool      `json:"baseline"`
	Scenario  bool      `json:"scenario"`
}

func newSnapshotListCmd() *cobra.Command {
	var params listParams

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List snapshots, newest first",
		Example: `  # Everything
  greenr snapshot list

  # Last week, matching a tag
  greenr snapshot list --range 7d --query commute

  # Machine-readable
  greenr snapshot list --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeSnapshotList(cmd, params)
		},
	}

	cmd.Flags().StringVar(&params.rng, "range", "all", "time range: 7d, 30d or all")
	cmd.Flags().StringVarP(&params.query, "query", "q", "", "filter by label, note or tag")
	cmd.Flags().StringVarP(&params.output, "output", "o", "", "output format: table or json")
	return cmd
}

func executeSnapshotList(cmd *cobra.Command, params listParams) error {
	a := appFrom(cmd)

	rng, err := session.ParseRange(params.rng)
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
	snaps := state.Filter(session.HistoryFilter{Range: rng, Query: params.query, Now: a.now()})

	if format == config.FormatJSON {
		rows := make([]snapshotSummary, 0, len(snaps))
		for _, snap := range snaps {
			marks := tui.MarksFor(state, snap.ID)
			rows = append(rows, snapshotSummary{
				ID:        snap.ID,
				Label:     snap.Label,
				CreatedAt: snap.CreatedAt,
				TotalKg:   snap.Response.Breakdown.TotalKg,
				Note:      snap.Note,
				Tags:      snap.Tags,
				Baseline:  marks.Baseline,
				Scenario:  marks.Scenario,
			})
		}
		return writeJSON(cmd.OutOrStdout(), rows)
	}

	if len(snaps) == 0 {
		cmd.Println("No snapshots found.")
		return nil
	}
	renderSnapshotTable(cmd.OutOrStdout(), state, snaps, a.precision())
	return nil
}

func renderSnapshotTable(w io.Writer, state session.State, snaps []session.Snapshot, precision int) {
	fmt.Fprintf(w, "   %-*s %-*s %-*s %s\n",
		listColWidthID, "ID", listColWidthLabel, "LABEL", listColWidthDate, "CREATED", "TOTAL")
	for _, snap := range snaps {
		label := []rune(snap.Label)
		if len(label) > listColWidthLabel {
			label = append(label[:listColWidthLabel-3], []rune("...")...)
		}
		fmt.Fprintf(w, "%s %-*s %-*s %-*s %s\n",
			tui.MarksFor(state, snap.ID).String(),
			listColWidthID, tui.ShortID(snap.ID),
			listColWidthLabel, string(label),
			listColWidthDate, snap.CreatedAt.Local().Format("2006-01-02 15:04"),
			tui.FormatKg(snap.Response.Breakdown.TotalKg, precision))
	}
	fmt.Fprintf(w, "\n%s snapshot(s). B = baseline, S = scenario\n", greenops.FormatNumber(int64(len(snaps))))
}

func newSnapshotShowCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one snapshot with its breakdown",
		Long:  "Shows one snapshot. The id may be abbreviated to any unique prefix.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeSnapshotShow(cmd, args[0])
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: table or json")
	return cmd
}

func executeSnapshotShow(cmd *cobra.Command, ref string) error {
	a := appFrom(cmd)
	format, err := a.outputFormat(cmd)
	if err != nil {
		return err
	}

	state, err := a.load(cmd.Context())
	if err != nil {
		return err
	}
	snap, err := lookupSnapshot(state, ref)
	if err != nil {
		return err
	}

	if format == config.FormatJSON {
		return writeJSON(cmd.OutOrStdout(), snap)
	}
	cmd.Print(tui.RenderSnapshotDetail(snap, tui.MarksFor(state, snap.ID), a.precision()))
	return nil
}

type editParams struct {
	label string
	note  string
	tags  []string
}

func newSnapshotEditCmd() *cobra.Command {
	var params editParams

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change a snapshot's label, note or tags",
		Long: `Changes snapshot metadata. Only the flags given are applied; the
calculation itself never changes. A blank label becomes "Untitled" and
--tags "" removes every tag.`,
		Example: `  greenr snapshot edit 01HV3K8Z --label "After insulation"
  greenr snapshot edit 01HV3K8Z --note "Heat pump installed" --tags home,heating`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeSnapshotEdit(cmd, args[0], params)
		},
	}

	cmd.Flags().StringVarP(&params.label, "label", "l", "", "new label")
	cmd.Flags().StringVar(&params.note, "note", "", "new note")
	cmd.Flags().StringSliceVar(&params.tags, "tags", nil, "replacement tags, comma-separated")
	return cmd
}

func executeSnapshotEdit(cmd *cobra.Command, ref string, params editParams) error {
	ctx := cmd.Context()
	a := appFrom(cmd)

	var patch session.MetadataPatch
	if cmd.Flags().Changed("label") {
		patch.Label = &params.label
	}
	if cmd.Flags().Changed("note") {
		patch.Note = &params.note
	}
	if cmd.Flags().Changed("tags") {
		patch.Tags = params.tags
		patch.SetTags = true
	}
	if patch.Label == nil && patch.Note == nil && !patch.SetTags {
		return errors.New("nothing to change: pass --label, --note or --tags")
	}

	var id string
	state, err := a.update(ctx, func(st session.State) (session.State, error) {
		var resolveErr error
		if id, resolveErr = resolveSnapshotID(st, ref); resolveErr != nil {
			return st, resolveErr
		}
		return st.UpdateMetadata(id, patch), nil
	})
	if err != nil {
		return err
	}

	snap, _ := state.Get(id)
	logging.FromContext(ctx).Info().
		Str("component", "cli").
		Str("operation", "edit").
		Str("snapshot_id", id).
		Msg("snapshot metadata updated")
	cmd.Printf("Updated snapshot %s (%s)\n", tui.ShortID(id), snap.Label)
	return nil
}

func newSnapshotDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a snapshot",
		Long: `Deletes a snapshot. If it was the baseline or the scenario, that pointer
is cleared.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeSnapshotDelete(cmd, args[0], force)
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")
	return cmd
}

func executeSnapshotDelete(cmd *cobra.Command, ref string, force bool) error {
	ctx := cmd.Context()
	a := appFrom(cmd)

	state, err := a.load(ctx)
	if err != nil {
		return err
	}
	snap, err := lookupSnapshot(state, ref)
	if err != nil {
		return err
	}

	if !force {
		prompt := fmt.Sprintf("Delete snapshot %s (%s)? [y/N] ", tui.ShortID(snap.ID), snap.Label)
		if !confirmPrompt(cmd, prompt) {
			cmd.Println("Cancelled.")
			return nil
		}
	}

	if _, err = a.update(ctx, func(st session.State) (session.State, error) {
		return st.Delete(snap.ID), nil
	}); err != nil {
		return err
	}

	logging.FromContext(ctx).Info().
		Str("component", "cli").
		Str("operation", "delete").
		Str("snapshot_id", snap.ID).
		Msg("snapshot deleted")
	cmd.Printf("Deleted snapshot %s (%s)\n", tui.ShortID(snap.ID), snap.Label)
	return nil
}

func newSnapshotUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <id>",
		Short: "Load a snapshot back into the request draft",
		Long: `Makes a snapshot's request the current draft and its result the current
result, so "greenr calc" without --input recalculates it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return executeSnapshotUse(cmd, args[0])
		},
	}
}

func executeSnapshotUse(cmd *cobra.Command, ref string) error {
	a := appFrom(cmd)

	var snap session.Snapshot
	_, err := a.update(cmd.Context(), func(st session.State) (session.State, error) {
		var lookupErr error
		if snap, lookupErr = lookupSnapshot(st, ref); lookupErr != nil {
			return st, lookupErr
		}
		return st.SetCurrent(snap.ID), nil
	})
	if err != nil {
		return err
	}

	cmd.Printf("Loaded snapshot %s (%s) as the current draft\n", tui.ShortID(snap.ID), snap.Label)
	return nil
}
