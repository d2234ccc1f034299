package config

import (
	"fmt"
	"os"
	"time"
	_ "time/tzdata"

	"gopkg.in/yaml.v3"

	"github.com/iliyamo/timeclock/internal/attendance"
)

// DefaultTimezone is used when neither TIMEZONE nor the schedule file set one.
const DefaultTimezone = "America/Fortaleza"

// ScheduleFile is the yaml document pointed to by SCHEDULE_FILE.
//
//	timezone: America/Fortaleza
//	tolerance_minutes: 5
//	schedule:
//	  - event: Entrada
//	    time: "08:00"
//	  - event: Saída
//	    time: "18:00"
type ScheduleFile struct {
	Timezone         string                `yaml:"timezone"`
	ToleranceMinutes *int                  `yaml:"tolerance_minutes"`
	Schedule         []attendance.SlotSpec `yaml:"schedule"`
}

// ReadScheduleFile decodes a schedule yaml file.
func ReadScheduleFile(path string) (ScheduleFile, error) {
	var f ScheduleFile
	b, err := os.ReadFile(path)
	if err != nil {
		return f, err
	}
	if err := yaml.Unmarshal(b, &f); err != nil {
		return f, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// LoadAttendance resolves timezone, tolerance and schedule from TIMEZONE,
// TOLERANCE_MINUTES and the optional SCHEDULE_FILE, the file winning.
func LoadAttendance() (Attendance, error) {
	tz := envStr("TIMEZONE", DefaultTimezone)
	att := Attendance{Tolerance: envInt("TOLERANCE_MINUTES", attendance.DefaultTolerance)}

	if path := os.Getenv("SCHEDULE_FILE"); path != "" {
		f, err := ReadScheduleFile(path)
		if err != nil {
			return att, err
		}
		if f.Timezone != "" {
			tz = f.Timezone
		}
		if f.ToleranceMinutes != nil {
			att.Tolerance = *f.ToleranceMinutes
		}
		att.Slots = f.Schedule
	}
	if att.Tolerance < 0 {
		return att, fmt.Errorf("tolerance must not be negative, got %d", att.Tolerance)
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return att, fmt.Errorf("timezone %q: %w", tz, err)
	}
	att.Location = loc
	return att, nil
}
