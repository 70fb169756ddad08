package cli

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/rshade/greenr/internal/logging"
	"github.com/rshade/greenr/internal/session"
	"github.com/rshade/greenr/internal/tui"
)

var errNotInteractive = errors.New("history browser needs an interactive terminal")

// newHistoryCmd creates the interactive history browser command.
func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Browse snapshots interactively",
		Long: `Opens an interactive browser over saved snapshots.

Keys: / search, r cycle range (all, 30d, 7d), enter details,
b set baseline, s set scenario, x clear scenario, u use as draft,
c compare, esc back, q quit.

Pointer changes are saved when the browser exits. Use "greenr snapshot list"
in scripts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeHistory(cmd)
		},
	}
}

func executeHistory(cmd *cobra.Command) error {
	if !tui.IsTTY() || !isTerminal(os.Stdin) {
		return fmt.Errorf("%w: use \"greenr snapshot list\" instead", errNotInteractive)
	}

	ctx := cmd.Context()
	a := appFrom(cmd)

	return a.withService(ctx, func(svc *session.Service) error {
		model := tui.NewHistoryModel(svc.Load(ctx), a.precision(), a.now)

		p := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("failed to run history browser: %w", err)
		}

		if !model.Changed() {
			return nil
		}
		if err := svc.Save(ctx, model.State()); err != nil {
			return err
		}
		logging.FromContext(ctx).Info().
			Str("component", "cli").
			Str("operation", "history").
			Msg("history changes saved")
		cmd.Println("Changes saved.")
		return nil
	})
}
