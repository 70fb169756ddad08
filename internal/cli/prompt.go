package cli

import (
	"bufio"
	"strings"

	"github.com/spf13/cobra"
)

// confirmPrompt asks a yes/no question on stderr and reads the answer from
// the command input. Anything other than "y" or "yes" declines.
func confirmPrompt(cmd *cobra.Command, prompt string) bool {
	cmd.PrintErr(prompt)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	if !scanner.Scan() {
		return false
	}

	response := strings.TrimSpace(strings.ToLower(scanner.Text()))
	return response == "y" || response == "yes"
}
