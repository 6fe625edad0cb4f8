package availability

import (
	"time"

	"github.com/google/uuid"
)

// Weekday ordering follows time.Weekday (Sunday = 0).
var weekdayNames = []string{
	"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
}

// DaySchedule maps to the day_schedule table: one row per (doctor, weekday).
// Times are stored as 24-hour "HH:MM" strings; disabled days carry empty times.
type DaySchedule struct {
	ID        uuid.UUID    `db:"id" json:"id"`
	DoctorID  string       `db:"doctor_id" json:"doctor_id"`
	Weekday   time.Weekday `db:"weekday" json:"weekday"`
	Enabled   bool         `db:"enabled" json:"enabled"`
	StartTime string       `db:"start_time" json:"start_time"`
	EndTime   string       `db:"end_time" json:"end_time"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt time.Time    `db:"updated_at" json:"updated_at"`
}

// WeekdayName returns the lowercase weekday label used in API paths.
func (d *DaySchedule) WeekdayName() string {
	return weekdayNames[int(d.Weekday)%7]
}

// ParseWeekday resolves a lowercase weekday name to a time.Weekday.
func ParseWeekday(name string) (time.Weekday, bool) {
	for i, n := range weekdayNames {
		if n == name {
			return time.Weekday(i), true
		}
	}
	return 0, false
}

// Window is one contiguous bookable interval for one clinician on one calendar
// date, as published to (and read back from) the remote schedule service.
// Remote window boundaries arrive as "HH:MM:SS" and are trimmed to "HH:MM".
type Window struct {
	ID        string `json:"id"`
	DoctorID  string `json:"doctor_id"`
	Date      string `json:"date"`       // "2006-01-02"
	StartTime string `json:"start_time"` // 24h "HH:MM"
	EndTime   string `json:"end_time"`   // 24h "HH:MM"
	Enabled   bool   `json:"enabled"`
}

// Slot is a derived, non-persisted value: one bookable option inside a window.
type Slot struct {
	WindowID string `json:"window_id"`
	Date     string `json:"date"`
	Label    string `json:"label"` // 12-hour display, e.g. "09:30 AM"
}

// Default working hours seeded when a clinician enables a weekday.
const (
	DefaultStartTime = "09:00"
	DefaultEndTime   = "17:00"
)

// PublishReport aggregates the outcome of a best-effort schedule publish.
// Individual create/delete failures are counted, not escalated.
type PublishReport struct {
	Created int `json:"created"`
	Deleted int `json:"deleted"`
	Failed  int `json:"failed"`
}
