package availability

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/telemed/portal/internal/platform/visitapi"
)

// -- Mocks --

type mockDayRepo struct {
	days map[string]*DaySchedule // key doctorID/weekday
}

func newMockDayRepo() *mockDayRepo {
	return &mockDayRepo{days: make(map[string]*DaySchedule)}
}

func dayKey(doctorID string, wd time.Weekday) string {
	return fmt.Sprintf("%s/%d", doctorID, wd)
}

func (m *mockDayRepo) GetWeek(_ context.Context, doctorID string) ([]*DaySchedule, error) {
	var out []*DaySchedule
	for _, d := range m.days {
		if d.DoctorID == doctorID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (m *mockDayRepo) GetDay(_ context.Context, doctorID string, wd time.Weekday) (*DaySchedule, error) {
	d, ok := m.days[dayKey(doctorID, wd)]
	if !ok {
		return nil, ErrDayNotFound
	}
	return d, nil
}

func (m *mockDayRepo) Upsert(_ context.Context, d *DaySchedule) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	m.days[dayKey(d.DoctorID, d.Weekday)] = d
	return nil
}

type mockUpstream struct {
	windows    map[string]visitapi.AvailabilityWindow
	profiles   map[string]bool
	nextID     int
	failDelete map[string]bool
	failCreate bool
	listErr    error
}

func newMockUpstream() *mockUpstream {
	return &mockUpstream{
		windows:    make(map[string]visitapi.AvailabilityWindow),
		profiles:   map[string]bool{"doc-1": true},
		failDelete: make(map[string]bool),
	}
}

func (m *mockUpstream) ListAvailability(_ context.Context, doctorID string) ([]visitapi.AvailabilityWindow, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []visitapi.AvailabilityWindow
	for _, w := range m.windows {
		if w.DoctorID == doctorID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (m *mockUpstream) CreateAvailability(_ context.Context, req visitapi.CreateWindowRequest) (*visitapi.AvailabilityWindow, error) {
	if m.failCreate {
		return nil, &visitapi.StatusError{Code: 500}
	}
	m.nextID++
	w := visitapi.AvailabilityWindow{
		ID:            fmt.Sprintf("win-%d", m.nextID),
		DoctorID:      req.DoctorID,
		AvailableDate: req.AvailableDate,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
	}
	m.windows[w.ID] = w
	return &w, nil
}

func (m *mockUpstream) DeleteAvailabilitySlot(_ context.Context, _, slotID string) error {
	if m.failDelete[slotID] {
		return &visitapi.StatusError{Code: 500}
	}
	delete(m.windows, slotID)
	return nil
}

func (m *mockUpstream) GetClinicianProfile(_ context.Context, doctorID string) (*visitapi.ClinicianProfile, error) {
	if !m.profiles[doctorID] {
		return nil, visitapi.ErrNotFound
	}
	return &visitapi.ClinicianProfile{DoctorID: doctorID}, nil
}

func newTestService() (*Service, *mockDayRepo, *mockUpstream) {
	repo := newMockDayRepo()
	up := newMockUpstream()
	svc := NewService(repo, up, zerolog.Nop())
	// Monday 2024-03-04, a fixed reference point for next-occurrence dates.
	svc.now = func() time.Time {
		return time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	}
	return svc, repo, up
}

// -- Tests --

func TestLoad_DefaultsToDisabledWeek(t *testing.T) {
	svc, _, _ := newTestService()
	week, err := svc.Load(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(week) != 7 {
		t.Fatalf("expected 7 days, got %d", len(week))
	}
	for _, d := range week {
		if d.Enabled {
			t.Errorf("%s: expected disabled by default", d.WeekdayName())
		}
		if d.StartTime != "" || d.EndTime != "" {
			t.Errorf("%s: expected empty times, got %q-%q", d.WeekdayName(), d.StartTime, d.EndTime)
		}
	}
}

func TestSetDayEnabled_SeedsDefaultHours(t *testing.T) {
	svc, _, _ := newTestService()
	d, err := svc.SetDayEnabled(context.Background(), "doc-1", time.Monday, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.StartTime != "09:00" || d.EndTime != "17:00" {
		t.Errorf("expected default 09:00-17:00, got %s-%s", d.StartTime, d.EndTime)
	}
}

func TestSetDayEnabled_DisableClearsTimes(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	svc.SetDayEnabled(ctx, "doc-1", time.Monday, true)
	d, err := svc.SetDayEnabled(ctx, "doc-1", time.Monday, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Enabled || d.StartTime != "" || d.EndTime != "" {
		t.Errorf("expected disabled day with empty times, got %+v", d)
	}
}

func TestSetDayHours(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	svc.SetDayEnabled(ctx, "doc-1", time.Friday, true)
	d, err := svc.SetDayHours(ctx, "doc-1", time.Friday, "09:00 AM", "04:00 PM")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.StartTime != "09:00" || d.EndTime != "16:00" {
		t.Errorf("expected 09:00-16:00, got %s-%s", d.StartTime, d.EndTime)
	}
}

func TestSetDayHours_DisabledDay(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.SetDayHours(context.Background(), "doc-1", time.Monday, "09:00 AM", "05:00 PM")
	if !errors.Is(err, ErrDayDisabled) {
		t.Errorf("expected ErrDayDisabled, got %v", err)
	}
}

func TestSetDayHours_StartAfterEnd(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()
	svc.SetDayEnabled(ctx, "doc-1", time.Monday, true)
	_, err := svc.SetDayHours(ctx, "doc-1", time.Monday, "05:00 PM", "09:00 AM")
	if !errors.Is(err, ErrInvalidHours) {
		t.Errorf("expected ErrInvalidHours, got %v", err)
	}
}

func TestPublish_TwoEnabledDays(t *testing.T) {
	svc, _, up := newTestService()
	ctx := context.Background()

	svc.SetDayEnabled(ctx, "doc-1", time.Monday, true)
	svc.SetDayEnabled(ctx, "doc-1", time.Friday, true)
	svc.SetDayHours(ctx, "doc-1", time.Friday, "09:00 AM", "04:00 PM")

	report, err := svc.Publish(ctx, "doc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Created != 2 {
		t.Errorf("expected 2 windows created, got %d", report.Created)
	}
	if len(up.windows) != 2 {
		t.Errorf("expected 2 remote windows, got %d", len(up.windows))
	}

	// Reference "now" is Monday 2024-03-04; Friday resolves to 2024-03-08.
	dates := map[string]string{}
	for _, w := range up.windows {
		dates[w.AvailableDate] = w.StartTime + "-" + w.EndTime
	}
	if got := dates["2024-03-04"]; got != "09:00:00-17:00:00" {
		t.Errorf("monday window = %q, want 09:00:00-17:00:00", got)
	}
	if got := dates["2024-03-08"]; got != "09:00:00-16:00:00" {
		t.Errorf("friday window = %q, want 09:00:00-16:00:00", got)
	}

	// Load afterwards: two enabled days with matching bounds, five disabled
	// days with empty times.
	week, err := svc.Load(ctx, "doc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	enabled := 0
	for _, d := range week {
		if d.Enabled {
			enabled++
			continue
		}
		if d.StartTime != "" || d.EndTime != "" {
			t.Errorf("%s: disabled day with non-empty times", d.WeekdayName())
		}
	}
	if enabled != 2 {
		t.Errorf("expected 2 enabled days, got %d", enabled)
	}
}

func TestPublish_ReplacesExistingWindows(t *testing.T) {
	svc, _, up := newTestService()
	ctx := context.Background()
	up.windows["old-1"] = visitapi.AvailabilityWindow{ID: "old-1", DoctorID: "doc-1"}
	up.windows["old-2"] = visitapi.AvailabilityWindow{ID: "old-2", DoctorID: "doc-1"}

	svc.SetDayEnabled(ctx, "doc-1", time.Tuesday, true)
	report, err := svc.Publish(ctx, "doc-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if report.Deleted != 2 || report.Created != 1 {
		t.Errorf("expected deleted=2 created=1, got %+v", report)
	}
	if _, ok := up.windows["old-1"]; ok {
		t.Error("old window survived publish")
	}
}

func TestPublish_PartialDeleteFailureContinues(t *testing.T) {
	svc, _, up := newTestService()
	ctx := context.Background()
	up.windows["old-1"] = visitapi.AvailabilityWindow{ID: "old-1", DoctorID: "doc-1"}
	up.windows["old-2"] = visitapi.AvailabilityWindow{ID: "old-2", DoctorID: "doc-1"}
	up.failDelete["old-1"] = true

	svc.SetDayEnabled(ctx, "doc-1", time.Monday, true)
	report, err := svc.Publish(ctx, "doc-1")
	if err != nil {
		t.Fatalf("partial failures must not abort publish: %v", err)
	}
	if report.Deleted != 1 || report.Failed != 1 || report.Created != 1 {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestPublish_FetchFailureAborts(t *testing.T) {
	svc, _, up := newTestService()
	ctx := context.Background()
	up.listErr = &visitapi.StatusError{Code: 502}
	svc.SetDayEnabled(ctx, "doc-1", time.Monday, true)
	if _, err := svc.Publish(ctx, "doc-1"); err == nil {
		t.Error("expected error when the initial fetch fails")
	}
}

func TestPublish_RequiresProfile(t *testing.T) {
	svc, _, up := newTestService()
	delete(up.profiles, "doc-1")
	_, err := svc.Publish(context.Background(), "doc-1")
	if !errors.Is(err, ErrProfileRequired) {
		t.Errorf("expected ErrProfileRequired, got %v", err)
	}
}

func TestNextOccurrence(t *testing.T) {
	monday := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	if got := nextOccurrence(monday, time.Monday); !got.Equal(monday) {
		t.Errorf("same-day occurrence should be today, got %v", got)
	}
	friday := nextOccurrence(monday, time.Friday)
	if friday.Format("2006-01-02") != "2024-03-08" {
		t.Errorf("friday from monday = %s, want 2024-03-08", friday.Format("2006-01-02"))
	}
	sunday := nextOccurrence(monday, time.Sunday)
	if sunday.Format("2006-01-02") != "2024-03-10" {
		t.Errorf("sunday from monday = %s, want 2024-03-10", sunday.Format("2006-01-02"))
	}
}
