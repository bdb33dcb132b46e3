package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var (
	projectPath string
	logLevel    string
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "cadence",
	Version: Version,
	Short:   "Conversational project planning with structural plan diffs",
	Long: `Cadence turns a planning conversation into a day-by-day project plan.
Every revision is compared with the previous one so you can see:
1. How much the timeline moved
2. Which tasks grew, shrank, appeared or disappeared
3. Who carries the work and which tasks gate delivery`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() error {
	err := RootCmd.Execute()
	var cliErr *CLIError
	if errors.As(err, &cliErr) && cliErr.Hint != "" {
		fmt.Fprintf(os.Stderr, "Hint: %s\n", cliErr.Hint)
	}
	return err
}

// ExitCode returns the process exit code for an Execute error.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var cliErr *CLIError
	if errors.As(err, &cliErr) && cliErr.ExitCode != 0 {
		return cliErr.ExitCode
	}
	return 1
}

func init() {
	RootCmd.PersistentFlags().StringVar(&projectPath, "project", "", "Workspace directory (defaults to the current directory)")
	RootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level (debug, info, warn, error)")
}
