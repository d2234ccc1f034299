package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iliyamo/timeclock/internal/config"
	"github.com/iliyamo/timeclock/internal/database"
)

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create tables and seed companies and the admin account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			db, err := database.Open(cfg.DBDriver, dsn(cfg))
			if err != nil {
				return fmt.Errorf("db connect: %w", err)
			}
			defer db.Close()
			if err := migrate(cmd.Context(), db, cfg); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "database ready")
			return nil
		},
	}
}
