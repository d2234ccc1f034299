package attendance

import (
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/timeclock/internal/model"
)

// Slot is one entry of the schedule table: an event and the time of day
// it is expected at.
type Slot struct {
	Kind   model.EventKind
	Hour   int
	Minute int
}

// Clock returns the slot time as HH:MM.
func (s Slot) Clock() string { return fmt.Sprintf("%02d:%02d", s.Hour, s.Minute) }

// Schedule is the ordered list of events of a working day.  The Nth punch
// of a day satisfies the Nth slot.
type Schedule []Slot

// DefaultSchedule is Entrada at 08:00 followed by Saída at 18:00.
func DefaultSchedule() Schedule {
	return Schedule{
		{Kind: model.KindEntrada, Hour: 8},
		{Kind: model.KindSaida, Hour: 18},
	}
}

// SlotSpec is the textual form of a slot as found in configuration.
type SlotSpec struct {
	Event string `yaml:"event"`
	Time  string `yaml:"time"` // HH:MM
}

// ParseSchedule builds a schedule from configuration entries.  Events must
// be known kinds and appear in their canonical order.
func ParseSchedule(specs []SlotSpec) (Schedule, error) {
	if len(specs) == 0 {
		return DefaultSchedule(), nil
	}
	canonical := DefaultSchedule()
	if len(specs) != len(canonical) {
		return nil, &ValidationError{Field: "schedule", Message: fmt.Sprintf("expected %d events, got %d", len(canonical), len(specs))}
	}
	out := make(Schedule, 0, len(specs))
	for i, sp := range specs {
		kind := model.NormalizeKind(sp.Event)
		if kind != canonical[i].Kind {
			return nil, &ValidationError{Field: "schedule", Message: fmt.Sprintf("event %d must be %q, got %q", i+1, canonical[i].Kind, sp.Event)}
		}
		t, err := time.Parse("15:04", strings.TrimSpace(sp.Time))
		if err != nil {
			return nil, fmt.Errorf("%w: schedule time %q for %s", ErrInvalidFormat, sp.Time, kind)
		}
		out = append(out, Slot{Kind: kind, Hour: t.Hour(), Minute: t.Minute()})
	}
	return out, nil
}

// NextEvent returns the slot at position count, or false when the day is
// complete.
func (s Schedule) NextEvent(count int) (Slot, bool) {
	if count < 0 || count >= len(s) {
		return Slot{}, false
	}
	return s[count], true
}

// Lookup finds the slot for kind.
func (s Schedule) Lookup(kind model.EventKind) (Slot, bool) {
	for _, sl := range s {
		if sl.Kind == kind {
			return sl, true
		}
	}
	return Slot{}, false
}
