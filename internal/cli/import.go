package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/iliyamo/timeclock/internal/config"
)

type importOptions struct {
	CompanyID uint64
}

func newImportCommand() *cobra.Command {
	opts := &importOptions{}
	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Register employees from a ';'-separated latin-1 CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.CompanyID == 0 {
				return fmt.Errorf("--company is required")
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			a, err := openApp(cmd.Context(), config.Load())
			if err != nil {
				return err
			}
			defer a.Close()

			if _, err := a.dir.Company(cmd.Context(), opts.CompanyID); err != nil {
				return fmt.Errorf("company %d: %w", opts.CompanyID, err)
			}
			rep, err := a.importer().Import(cmd.Context(), f, opts.CompanyID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "created: %d  skipped: %d  errors: %d\n", rep.Created, rep.Skipped, rep.Errored)
			for _, e := range rep.Errors {
				fmt.Fprintln(out, "  "+e)
			}
			return nil
		},
	}
	cmd.Flags().Uint64Var(&opts.CompanyID, "company", 0, "company id the employees belong to")
	return cmd
}
