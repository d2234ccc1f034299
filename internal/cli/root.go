// Package cli wires the timeclock commands: the HTTP server and the
// maintenance tasks that share its configuration.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCommand creates the timeclock root command.  Running it without
// a subcommand starts the server.
func NewRootCommand() *cobra.Command {
	serve := newServeCommand()
	cmd := &cobra.Command{
		Use:          "timeclock",
		Short:        "Employee time clock and attendance reports",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	cmd.AddCommand(serve)
	cmd.AddCommand(newMigrateCommand())
	cmd.AddCommand(newImportCommand())
	cmd.AddCommand(newExportCommand())
	return cmd
}
