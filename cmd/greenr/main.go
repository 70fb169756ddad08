// Command greenr saves footprint calculations as snapshots and compares a
// baseline with a scenario.
package main

import (
	"fmt"
	"os"

	"github.com/rshade/greenr/internal/cli"
	"github.com/rshade/greenr/pkg/version"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

// run executes the root command. Cobra has already printed the error.
func run() error {
	return cli.NewRootCmd(versionString()).Execute()
}

func versionString() string {
	return fmt.Sprintf("%s (commit %s, built %s)",
		version.GetVersion(), version.GetCommit(), version.GetBuildDate())
}
