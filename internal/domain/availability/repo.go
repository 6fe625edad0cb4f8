package availability

import (
	"context"
	"time"
)

// DayScheduleRepository stores the per-clinician weekly schedule template.
type DayScheduleRepository interface {
	GetWeek(ctx context.Context, doctorID string) ([]*DaySchedule, error)
	GetDay(ctx context.Context, doctorID string, weekday time.Weekday) (*DaySchedule, error)
	Upsert(ctx context.Context, d *DaySchedule) error
}
