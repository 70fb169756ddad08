package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newHealthCmd creates the health command.
func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the calculation API is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client := appFrom(cmd).client()
			if err := client.Health(cmd.Context()); err != nil {
				return fmt.Errorf("calculation API at %s is unavailable: %w", client.BaseURL(), err)
			}
			cmd.Printf("Calculation API at %s is healthy\n", client.BaseURL())
			return nil
		},
	}
}
