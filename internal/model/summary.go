package model

// NotAvailable is rendered for missing summary values.
const NotAvailable = "N/A"

// DailySummary is one line of the organised report: the punches of one
// employee on one date paired into entrance and exit columns.
type DailySummary struct {
	Date         string  `json:"date"`
	EmployeeCode string  `json:"employee_code"`
	EmployeeName string  `json:"employee_name"`
	CompanyName  string  `json:"company"`
	Entrada      *string `json:"entrada"`
	Saida        *string `json:"saida"`
	WorkedHours  *string `json:"worked_hours"`
	Notes        string  `json:"notes"`
}

// Display returns s or NotAvailable when s is nil.
func Display(s *string) string {
	if s == nil {
		return NotAvailable
	}
	return *s
}
