package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/timeclock/internal/attendance"
	"github.com/iliyamo/timeclock/internal/config"
	"github.com/iliyamo/timeclock/internal/export"
	"github.com/iliyamo/timeclock/internal/model"
	"github.com/iliyamo/timeclock/internal/repository"
)

type exportOptions struct {
	Start     string
	End       string
	CompanyID uint64
	Output    string
}

func newExportCommand() *cobra.Command {
	opts := &exportOptions{}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the daily report and raw log as an xlsx workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, d := range []string{opts.Start, opts.End} {
				if _, err := time.Parse(model.DateLayout, d); err != nil {
					return fmt.Errorf("dates must be YYYY-MM-DD, got %q", d)
				}
			}
			a, err := openApp(cmd.Context(), config.Load())
			if err != nil {
				return err
			}
			defer a.Close()

			f := repository.PunchFilter{Start: opts.Start, End: opts.End}
			if opts.CompanyID != 0 {
				f.CompanyID = &opts.CompanyID
			}
			recs, err := a.punches.List(cmd.Context(), f)
			if err != nil {
				return err
			}
			rows := attendance.OrganizeRecords(recs)
			attendance.SortSummaries(rows)
			buf, err := export.Workbook(rows, recs)
			if err != nil {
				return err
			}
			if err := os.WriteFile(opts.Output, buf.Bytes(), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d days, %d events written to %s\n", len(rows), len(recs), opts.Output)
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.Start, "start", "", "first day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&opts.End, "end", "", "last day (YYYY-MM-DD)")
	cmd.Flags().Uint64Var(&opts.CompanyID, "company", 0, "restrict to one company")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "timesheet.xlsx", "output file")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}
