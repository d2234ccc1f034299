package model

import "strings"

// Layouts used for the date and time columns of the `punches` table.
// Both are stored as text so the same schema works on MySQL and SQLite.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// EventKind names a scheduled event of the working day.
type EventKind string

const (
	KindEntrada EventKind = "Entrada" // start of the working day
	KindSaida   EventKind = "Saída"   // end of the working day
)

// legacyKinds maps the event names written by older versions of the
// application to the current ones.
var legacyKinds = map[string]EventKind{
	"Início do Expediente": KindEntrada,
	"Fim do Expediente":    KindSaida,
}

// NormalizeKind returns the current name for a stored event kind.
func NormalizeKind(s string) EventKind {
	s = strings.TrimSpace(s)
	if k, ok := legacyKinds[s]; ok {
		return k
	}
	return EventKind(s)
}

// PunchEvent represents a row of the `punches` table.  A punch is appended
// once by the punch action and afterwards only its time and note change
// through an explicit edit.
//
// Fields:
//  ID           – employee code + "-" + timestamp of the punch.
//  EmployeeCode – references employees.code.
//  EmployeeName – employee name copied at write time.
//  Date         – local calendar date (DateLayout).
//  Time         – local time of day, second precision (TimeLayout).
//  Kind         – scheduled event this punch satisfies.
//  Sequence     – 0-based position of the punch within the day.
//  Deviation    – signed minutes after tolerance (positive = late).
//  Note         – free text added by an administrator.
//  CompanyName  – read-only, filled by queries that join companies.
type PunchEvent struct {
	ID           string    `json:"id"`
	EmployeeCode string    `json:"employee_code"`
	EmployeeName string    `json:"employee_name"`
	Date         string    `json:"date"`
	Time         string    `json:"time"`
	Kind         EventKind `json:"event"`
	Sequence     int       `json:"sequence"`
	Deviation    int       `json:"deviation_min"`
	Note         string    `json:"note"`
	CompanyName  string    `json:"company,omitempty"`
}

// PunchUpdate carries the optional fields of a record edit.  A nil field is
// left untouched.
type PunchUpdate struct {
	Time      *string
	Deviation *int
	Note      *string
}
