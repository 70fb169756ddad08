package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/greenr/internal/config"
	"github.com/rshade/greenr/internal/greenops"
	"github.com/rshade/greenr/internal/session"
	"github.com/rshade/greenr/internal/tui"
)

// newSessionCmd creates the session command group.
func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect or reset the persisted session",
	}
	cmd.AddCommand(newSessionInfoCmd(), newSessionClearCmd())
	return cmd
}

// sessionInfo is the JSON shape of "session info".
type sessionInfo struct {
	Backend    string  `json:"backend"`
	Location   string  `json:"location"`
	Snapshots  int     `json:"snapshots"`
	BaselineID *string `json:"baselineId"`
	ScenarioID *string `json:"scenarioId"`
	HasResult  bool    `json:"hasResult"`
}

func newSessionInfoCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show where the session lives and what it holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeSessionInfo(cmd)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output format: table or json")
	return cmd
}

func executeSessionInfo(cmd *cobra.Command) error {
	ctx := cmd.Context()
	a := appFrom(cmd)
	format, err := a.outputFormat(cmd)
	if err != nil {
		return err
	}

	var info sessionInfo
	if err = a.withService(ctx, func(svc *session.Service) error {
		state := svc.Load(ctx)
		info = sessionInfo{
			Backend:    a.cfg.Storage.Backend,
			Location:   svc.Location(),
			Snapshots:  state.Len(),
			BaselineID: state.BaselineID,
			ScenarioID: state.ScenarioID,
			HasResult:  state.LastResult != nil,
		}
		return nil
	}); err != nil {
		return err
	}

	if format == config.FormatJSON {
		return writeJSON(cmd.OutOrStdout(), info)
	}
	cmd.Printf("Backend:   %s\n", info.Backend)
	cmd.Printf("Location:  %s\n", info.Location)
	cmd.Printf("Snapshots: %d\n", info.Snapshots)
	cmd.Printf("Baseline:  %s\n", pointerText(info.BaselineID))
	cmd.Printf("Scenario:  %s\n", pointerText(info.ScenarioID))
	return nil
}

func pointerText(id *string) string {
	if id == nil {
		return "(none)"
	}
	return tui.ShortID(*id)
}

func newSessionClearCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every snapshot and reset the session",
		Long: `Removes the persisted session: every snapshot, both pointers and the
request draft. Export first if you may want the history back.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeSessionClear(cmd, force)
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "skip confirmation prompt")
	return cmd
}

func executeSessionClear(cmd *cobra.Command, force bool) error {
	ctx := cmd.Context()
	a := appFrom(cmd)

	return a.withService(ctx, func(svc *session.Service) error {
		if !force {
			n := svc.Load(ctx).Len()
			if !confirmPrompt(cmd, "Delete all "+pluralSnapshots(n)+"? [y/N] ") {
				cmd.Println("Cancelled.")
				return nil
			}
		}
		if err := svc.Clear(ctx); err != nil {
			return err
		}
		cmd.Println("Session cleared.")
		return nil
	})
}

func pluralSnapshots(n int) string {
	if n == 1 {
		return "1 snapshot"
	}
	return greenops.FormatNumber(int64(n)) + " snapshots"
}
