package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/telemed/portal/internal/platform/visitapi"
	"github.com/telemed/portal/pkg/timefmt"
)

var (
	ErrDayNotFound     = errors.New("no schedule stored for that day")
	ErrDayDisabled     = errors.New("day is disabled; enable it before setting hours")
	ErrInvalidHours    = errors.New("start time must be before end time")
	ErrProfileRequired = errors.New("clinician profile must exist before publishing a schedule")
)

// ScheduleUpstream is the slice of the remote service used to publish windows.
type ScheduleUpstream interface {
	ListAvailability(ctx context.Context, doctorID string) ([]visitapi.AvailabilityWindow, error)
	CreateAvailability(ctx context.Context, req visitapi.CreateWindowRequest) (*visitapi.AvailabilityWindow, error)
	DeleteAvailabilitySlot(ctx context.Context, doctorID, slotID string) error
	GetClinicianProfile(ctx context.Context, doctorID string) (*visitapi.ClinicianProfile, error)
}

// Service edits the weekly schedule template and publishes it to the remote
// schedule service. The template rows in Postgres are the editing source of
// truth; the remote windows are what patients book against.
type Service struct {
	repo     DayScheduleRepository
	upstream ScheduleUpstream
	logger   zerolog.Logger
	now      func() time.Time
}

func NewService(repo DayScheduleRepository, upstream ScheduleUpstream, logger zerolog.Logger) *Service {
	return &Service{repo: repo, upstream: upstream, logger: logger, now: time.Now}
}

// Load returns the clinician's full week. Days without a stored row come back
// disabled with empty times.
func (s *Service) Load(ctx context.Context, doctorID string) ([]*DaySchedule, error) {
	stored, err := s.repo.GetWeek(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("load week: %w", err)
	}

	byDay := make(map[time.Weekday]*DaySchedule, len(stored))
	for _, d := range stored {
		byDay[d.Weekday] = d
	}

	week := make([]*DaySchedule, 7)
	for i := 0; i < 7; i++ {
		wd := time.Weekday(i)
		if d, ok := byDay[wd]; ok {
			week[i] = d
			continue
		}
		week[i] = &DaySchedule{DoctorID: doctorID, Weekday: wd}
	}
	return week, nil
}

// SetDayEnabled toggles one weekday. Enabling seeds the default working
// hours; disabling clears the stored times.
func (s *Service) SetDayEnabled(ctx context.Context, doctorID string, weekday time.Weekday, enabled bool) (*DaySchedule, error) {
	d, err := s.repo.GetDay(ctx, doctorID, weekday)
	if errors.Is(err, ErrDayNotFound) {
		d = &DaySchedule{DoctorID: doctorID, Weekday: weekday}
	} else if err != nil {
		return nil, err
	}

	d.Enabled = enabled
	if enabled {
		if d.StartTime == "" || d.EndTime == "" {
			d.StartTime = DefaultStartTime
			d.EndTime = DefaultEndTime
		}
	} else {
		d.StartTime = ""
		d.EndTime = ""
	}

	if err := s.repo.Upsert(ctx, d); err != nil {
		return nil, fmt.Errorf("save day: %w", err)
	}
	return d, nil
}

// SetDayHours updates an enabled day's working hours. Inputs are 12-hour
// display strings; stored times are 24-hour.
func (s *Service) SetDayHours(ctx context.Context, doctorID string, weekday time.Weekday, start12, end12 string) (*DaySchedule, error) {
	d, err := s.repo.GetDay(ctx, doctorID, weekday)
	if errors.Is(err, ErrDayNotFound) || (err == nil && !d.Enabled) {
		return nil, ErrDayDisabled
	}
	if err != nil {
		return nil, err
	}

	start, err := timefmt.To24Hour(start12)
	if err != nil {
		return nil, err
	}
	end, err := timefmt.To24Hour(end12)
	if err != nil {
		return nil, err
	}
	sm, _ := timefmt.Minutes(start)
	em, _ := timefmt.Minutes(end)
	if sm >= em {
		return nil, ErrInvalidHours
	}

	d.StartTime = start
	d.EndTime = end
	if err := s.repo.Upsert(ctx, d); err != nil {
		return nil, fmt.Errorf("save day: %w", err)
	}
	return d, nil
}

// Publish replaces the clinician's remote windows with the current template:
// fetch existing windows, delete each, then create one window per enabled day
// dated with that weekday's next occurrence. Individual delete/create
// failures are logged and counted but do not abort the remaining operations;
// only a failed initial fetch aborts the publish.
func (s *Service) Publish(ctx context.Context, doctorID string) (*PublishReport, error) {
	if _, err := s.upstream.GetClinicianProfile(ctx, doctorID); err != nil {
		if errors.Is(err, visitapi.ErrNotFound) {
			return nil, ErrProfileRequired
		}
		return nil, fmt.Errorf("profile check: %w", err)
	}

	existing, err := s.upstream.ListAvailability(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("fetch existing windows: %w", err)
	}

	report := &PublishReport{}
	for _, w := range existing {
		if err := s.upstream.DeleteAvailabilitySlot(ctx, doctorID, w.ID); err != nil {
			report.Failed++
			s.logger.Warn().Err(err).Str("doctor_id", doctorID).Str("window_id", w.ID).
				Msg("failed to delete remote window")
			continue
		}
		report.Deleted++
	}

	week, err := s.Load(ctx, doctorID)
	if err != nil {
		return report, err
	}
	for _, d := range week {
		if !d.Enabled || d.StartTime == "" || d.EndTime == "" {
			continue
		}
		date := nextOccurrence(s.now(), d.Weekday)
		_, err := s.upstream.CreateAvailability(ctx, visitapi.CreateWindowRequest{
			DoctorID:      doctorID,
			AvailableDate: date.Format("2006-01-02"),
			StartTime:     d.StartTime + ":00",
			EndTime:       d.EndTime + ":00",
		})
		if err != nil {
			report.Failed++
			s.logger.Warn().Err(err).Str("doctor_id", doctorID).Str("weekday", d.WeekdayName()).
				Msg("failed to create remote window")
			continue
		}
		report.Created++
	}

	s.logger.Info().Str("doctor_id", doctorID).
		Int("created", report.Created).Int("deleted", report.Deleted).Int("failed", report.Failed).
		Msg("schedule published")
	return report, nil
}

// nextOccurrence returns the date of the next occurrence of weekday, counting
// today as a candidate.
func nextOccurrence(from time.Time, weekday time.Weekday) time.Time {
	days := (int(weekday) - int(from.Weekday()) + 7) % 7
	return from.AddDate(0, 0, days)
}
