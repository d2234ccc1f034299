// Package export renders attendance data as an xlsx workbook with a daily
// report sheet and a raw event log sheet.
package export

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/iliyamo/timeclock/internal/attendance"
	"github.com/iliyamo/timeclock/internal/model"
)

const (
	DailySheet = "Daily Report"
	RawSheet   = "Event Log (Raw)"
)

// ContentType is the MIME type of the produced workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var (
	dailyHeader = []string{"Date", "Employee Code", "Employee Name", "Company", "Entrada", "Saída", "Total Hours Worked", "Notes"}
	rawHeader   = []string{"ID", "Code", "Name", "Date", "Time", "Event", "Deviation (min)", "Note", "Company"}
)

// Workbook builds the two-sheet file.  Summaries are written in the order
// given; raw events are sorted ascending by date and time.  Each column is
// as wide as its longest value plus two.
func Workbook(summaries []model.DailySummary, raw []model.PunchEvent) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", DailySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(RawSheet); err != nil {
		return nil, err
	}

	daily := [][]any{toRow(dailyHeader)}
	for _, s := range summaries {
		daily = append(daily, []any{
			attendance.DisplayDate(s.Date),
			s.EmployeeCode,
			s.EmployeeName,
			s.CompanyName,
			model.Display(s.Entrada),
			model.Display(s.Saida),
			model.Display(s.WorkedHours),
			s.Notes,
		})
	}
	if err := writeSheet(f, DailySheet, daily); err != nil {
		return nil, err
	}

	events := append([]model.PunchEvent(nil), raw...)
	attendance.SortRecords(events, false)
	rows := [][]any{toRow(rawHeader)}
	for _, ev := range events {
		rows = append(rows, []any{
			ev.ID,
			ev.EmployeeCode,
			ev.EmployeeName,
			attendance.DisplayDate(ev.Date),
			ev.Time,
			string(ev.Kind),
			ev.Deviation,
			ev.Note,
			ev.CompanyName,
		})
	}
	if err := writeSheet(f, RawSheet, rows); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf, nil
}

func writeSheet(f *excelize.File, sheet string, rows [][]any) error {
	widths := make([]int, len(rows[0]))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
		for j, v := range row {
			if n := utf8.RuneCountInString(fmt.Sprint(v)); n > widths[j] {
				widths[j] = n
			}
		}
	}
	for j, w := range widths {
		col, err := excelize.ColumnNumberToName(j + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, float64(w+2)); err != nil {
			return err
		}
	}
	return nil
}

func toRow(header []string) []any {
	row := make([]any, len(header))
	for i, h := range header {
		row[i] = h
	}
	return row
}
