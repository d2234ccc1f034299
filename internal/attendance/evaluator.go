package attendance

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/iliyamo/timeclock/internal/model"
)

// DefaultTolerance is the number of minutes around a scheduled time that
// still counts as on time.
const DefaultTolerance = 5

// Evaluator computes punch deviations against a schedule in a single fixed
// time zone.
type Evaluator struct {
	Schedule  Schedule
	Tolerance int
	Location  *time.Location
}

// NewEvaluator returns an Evaluator.  A nil location means UTC and a
// negative tolerance is treated as zero.
func NewEvaluator(s Schedule, tolerance int, loc *time.Location) Evaluator {
	if len(s) == 0 {
		s = DefaultSchedule()
	}
	if tolerance < 0 {
		tolerance = 0
	}
	if loc == nil {
		loc = time.UTC
	}
	return Evaluator{Schedule: s, Tolerance: tolerance, Location: loc}
}

// NextEvent resolves the event expected after count punches already
// recorded today.  It returns ErrDayComplete once the schedule is exhausted.
func (e Evaluator) NextEvent(count int) (model.EventKind, error) {
	slot, ok := e.Schedule.NextEvent(count)
	if !ok {
		return "", ErrDayComplete
	}
	return slot.Kind, nil
}

// ApplyTolerance collapses |raw| <= tol to zero and shifts values outside
// the band towards zero by tol.
func ApplyTolerance(raw, tol int) int {
	switch {
	case raw > tol:
		return raw - tol
	case raw < -tol:
		return raw + tol
	}
	return 0
}

// roundMinutes converts a duration to whole minutes, ties to even.
func roundMinutes(d time.Duration) int {
	return int(math.RoundToEven(d.Minutes()))
}

// Evaluate returns the raw and final deviation in minutes of a punch for
// kind made at the moment at.  The scheduled instant is at's local date
// combined with the slot time.
func (e Evaluator) Evaluate(kind model.EventKind, at time.Time) (raw, final int, err error) {
	slot, ok := e.Schedule.Lookup(kind)
	if !ok {
		return 0, 0, &ValidationError{Field: "event", Message: fmt.Sprintf("no scheduled time for %q", kind)}
	}
	at = at.In(e.Location)
	scheduled := time.Date(at.Year(), at.Month(), at.Day(), slot.Hour, slot.Minute, 0, 0, e.Location)
	raw = roundMinutes(at.Sub(scheduled))
	return raw, ApplyTolerance(raw, e.Tolerance), nil
}

// ParseTimeOfDay validates an HH:MM:SS string and returns it normalised.
func ParseTimeOfDay(s string) (string, error) {
	t, err := time.Parse(model.TimeLayout, strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, s)
	}
	return t.Format(model.TimeLayout), nil
}

// RecomputeDeviation evaluates an edited time of day for a stored record
// with the same rounding and tolerance rules as a live punch.
func (e Evaluator) RecomputeDeviation(date string, kind model.EventKind, timeOfDay string) (int, error) {
	clock, err := ParseTimeOfDay(timeOfDay)
	if err != nil {
		return 0, err
	}
	at, err := time.ParseInLocation(model.DateLayout+" "+model.TimeLayout, date+" "+clock, e.Location)
	if err != nil {
		return 0, fmt.Errorf("%w: stored date %q", ErrInvalidFormat, date)
	}
	_, final, err := e.Evaluate(kind, at)
	return final, err
}
