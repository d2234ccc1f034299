package attendance

import "fmt"

// Severity classifies an Outcome for display.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Outcome is the (message, severity) pair every user action ends with.
type Outcome struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

func success(format string, args ...any) Outcome {
	return Outcome{Message: fmt.Sprintf(format, args...), Severity: SeveritySuccess}
}

func warning(msg string) Outcome { return Outcome{Message: msg, Severity: SeverityWarning} }

// punchMessage describes a recorded punch.  The final deviation is the
// authoritative value; a nonzero raw deviation that the tolerance absorbed
// is still reported as on time.
func punchMessage(kind, name, clock string, raw, final int) string {
	extra := ""
	switch {
	case final > 0:
		extra = fmt.Sprintf(" (%d min late)", final)
	case final < 0:
		extra = fmt.Sprintf(" (%d min early)", -final)
	case raw != 0:
		extra = " (within tolerance, recorded as on time)"
	default:
		extra = " (on time)"
	}
	return fmt.Sprintf("'%s' recorded for %s at %s%s.", kind, name, clock, extra)
}

// DeviationLabel renders a stored deviation for record listings.
func DeviationLabel(final int) string {
	switch {
	case final > 0:
		return fmt.Sprintf("+%d min (late)", final)
	case final < 0:
		return fmt.Sprintf("%d min (early)", final)
	}
	return "On time"
}
