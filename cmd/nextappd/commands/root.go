// Package commands holds nextappd's cobra subcommands.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nextapp/nextappd/logger"
)

// RootCmd is nextappd's top-level CLI entry point.
var RootCmd = &cobra.Command{
	Use:   "nextappd",
	Short: "nextappd - personal organizer RPC server",
	Long: `nextappd serves the node tree and day-diary of a personal organizer
over a typed RPC transport, fanning out mutations to streaming subscribers.

Available commands:
  server   - Start the RPC server
  migrate  - Apply pending database migrations
  version  - Show build information
  config   - Manage the project configuration file`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("log-json")
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	RootCmd.PersistentFlags().Bool("log-json", false, "Emit structured JSON logs instead of console output")

	RootCmd.AddCommand(ServerCmd)
	RootCmd.AddCommand(MigrateCmd)
	RootCmd.AddCommand(VersionCmd)
}

// Execute runs the root command, exiting the process on failure.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
