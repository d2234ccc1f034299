package attendance

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/iliyamo/timeclock/internal/model"
)

// NoteSeparator joins the notes of a day in the organised report.
const NoteSeparator = " | "

type dayKey struct {
	date string
	code string
}

// OrganizeRecords pivots raw punches into one DailySummary per
// (date, employee).  Groups appear in the order they are first seen; the
// caller sorts for display or export.
func OrganizeRecords(records []model.PunchEvent) []model.DailySummary {
	if len(records) == 0 {
		return []model.DailySummary{}
	}

	index := make(map[dayKey]int)
	out := make([]model.DailySummary, 0, len(records)/2+1)
	notes := make([][]string, 0, cap(out))

	for _, r := range records {
		k := dayKey{date: r.Date, code: r.EmployeeCode}
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, model.DailySummary{
				Date:         r.Date,
				EmployeeCode: r.EmployeeCode,
				EmployeeName: r.EmployeeName,
				CompanyName:  r.CompanyName,
			})
			notes = append(notes, nil)
		}
		sum := &out[i]
		clock := r.Time
		switch model.NormalizeKind(string(r.Kind)) {
		case model.KindEntrada:
			if sum.Entrada == nil {
				sum.Entrada = &clock
			}
		case model.KindSaida:
			if sum.Saida == nil {
				sum.Saida = &clock
			}
		}
		if n := strings.TrimSpace(r.Note); n != "" && !contains(notes[i], n) {
			notes[i] = append(notes[i], n)
		}
	}

	for i := range out {
		out[i].WorkedHours = WorkedHours(out[i].Entrada, out[i].Saida)
		out[i].Notes = strings.Join(notes[i], NoteSeparator)
	}
	return out
}

// WorkedHours returns exit minus entrance as HH:MM, floored to the minute.
// It is nil when either end is missing, unparseable, or the exit precedes
// the entrance.
func WorkedHours(entrada, saida *string) *string {
	if entrada == nil || saida == nil {
		return nil
	}
	in, err := time.Parse(model.TimeLayout, *entrada)
	if err != nil {
		return nil
	}
	out, err := time.Parse(model.TimeLayout, *saida)
	if err != nil {
		return nil
	}
	d := out.Sub(in)
	if d < 0 {
		return nil
	}
	s := FormatHours(d)
	return &s
}

// FormatHours renders a non-negative duration as zero-padded HH:MM.
func FormatHours(d time.Duration) string {
	mins := int(d / time.Minute)
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// SortSummaries orders summaries by date, then employee code.
func SortSummaries(s []model.DailySummary) {
	sort.SliceStable(s, func(i, j int) bool {
		if s[i].Date != s[j].Date {
			return s[i].Date < s[j].Date
		}
		return s[i].EmployeeCode < s[j].EmployeeCode
	})
}

// SortRecords orders punches by date and time, newest first when desc.
func SortRecords(r []model.PunchEvent, desc bool) {
	sort.SliceStable(r, func(i, j int) bool {
		a := r[i].Date + " " + r[i].Time
		b := r[j].Date + " " + r[j].Time
		if desc {
			return a > b
		}
		return a < b
	})
}

// DisplayDate converts a stored YYYY-MM-DD date to DD/MM/YYYY.  Values that
// do not parse are returned unchanged.
func DisplayDate(date string) string {
	t, err := time.Parse(model.DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("02/01/2006")
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
