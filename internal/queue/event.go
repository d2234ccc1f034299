// Package queue defines the punch.recorded payload and the consumer that
// keeps an append-only punch log fed from the broker.
package queue

import (
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/timeclock/internal/model"
)

// PunchQueueName is the durable queue punch events are routed to.
const PunchQueueName = "punch.recorded"

// PunchRecordedEvent is published after a punch is stored.  It carries
// enough for consumers to log or notify without reading the database.
type PunchRecordedEvent struct {
	EventID      string `json:"event_id"`
	PunchID      string `json:"punch_id"`
	EmployeeCode string `json:"employee_code"`
	EmployeeName string `json:"employee_name"`
	Date         string `json:"date"`
	Time         string `json:"time"`
	Event        string `json:"event"`
	Sequence     int    `json:"sequence"`
	DeviationMin int    `json:"deviation_min"`
	RecordedAt   string `json:"recorded_at"`
}

// NewPunchRecorded builds the event for a stored punch.
func NewPunchRecorded(ev model.PunchEvent) PunchRecordedEvent {
	return PunchRecordedEvent{
		EventID:      uuid.NewString(),
		PunchID:      ev.ID,
		EmployeeCode: ev.EmployeeCode,
		EmployeeName: ev.EmployeeName,
		Date:         ev.Date,
		Time:         ev.Time,
		Event:        string(ev.Kind),
		Sequence:     ev.Sequence,
		DeviationMin: ev.Deviation,
		RecordedAt:   time.Now().UTC().Format(time.RFC3339),
	}
}
