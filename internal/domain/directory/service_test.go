package directory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/telemed/portal/internal/platform/cache"
	"github.com/telemed/portal/internal/platform/visitapi"
)

type mockDirectoryUpstream struct {
	doctors    []visitapi.Doctor
	windows    map[string][]visitapi.AvailabilityWindow
	listErr    error
	windowsErr error
}

func (m *mockDirectoryUpstream) ListDoctors(context.Context) ([]visitapi.Doctor, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.doctors, nil
}

func (m *mockDirectoryUpstream) GetDoctorAvailability(_ context.Context, doctorID string) ([]visitapi.AvailabilityWindow, error) {
	if m.windowsErr != nil {
		return nil, m.windowsErr
	}
	return m.windows[doctorID], nil
}

func newDirectoryService(t *testing.T) (*Service, *mockDirectoryUpstream) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	up := &mockDirectoryUpstream{windows: make(map[string][]visitapi.AvailabilityWindow)}
	svc := NewService(up, cache.NewSnapshotStore(rdb, time.Minute), zerolog.Nop())
	return svc, up
}

func TestListDoctors_DecoratesSpecialties(t *testing.T) {
	svc, up := newDirectoryService(t)
	up.doctors = []visitapi.Doctor{
		{ID: "7", FullName: "Dr. Asha Rao", Specialization: "Cardiology"},
		{ID: "9", FullName: "Dr. Lee", Specialization: "Underwater Medicine"},
	}

	doctors, stale, err := svc.ListDoctors(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stale {
		t.Error("fresh fetch must not be marked stale")
	}
	if len(doctors) != 2 {
		t.Fatalf("expected 2 doctors, got %d", len(doctors))
	}
	if doctors[0].Tagline != "Heart and vascular care" {
		t.Errorf("cardiology tagline = %q", doctors[0].Tagline)
	}
	if doctors[1].Tagline != defaultMeta.Tagline || doctors[1].VisitMinutes != defaultMeta.VisitMinutes {
		t.Errorf("unknown specialty should get defaults, got %+v", doctors[1])
	}
}

func TestListDoctors_ServesSnapshotOnFailure(t *testing.T) {
	svc, up := newDirectoryService(t)
	up.doctors = []visitapi.Doctor{{ID: "7", FullName: "Dr. Asha Rao", Specialization: "Cardiology"}}

	if _, _, err := svc.ListDoctors(context.Background()); err != nil {
		t.Fatalf("warm-up fetch failed: %v", err)
	}

	up.listErr = &visitapi.StatusError{Code: 503}
	doctors, stale, err := svc.ListDoctors(context.Background())
	if err != nil {
		t.Fatalf("expected snapshot, got error: %v", err)
	}
	if !stale {
		t.Error("snapshot result must be marked stale")
	}
	if len(doctors) != 1 || doctors[0].ID != "7" {
		t.Errorf("unexpected snapshot content: %+v", doctors)
	}
}

func TestListDoctors_FailureWithoutSnapshot(t *testing.T) {
	svc, up := newDirectoryService(t)
	up.listErr = &visitapi.StatusError{Code: 503}
	if _, _, err := svc.ListDoctors(context.Background()); err == nil {
		t.Error("expected error when no snapshot exists")
	}
}

func TestListDoctors_UnauthorizedNeverDegrades(t *testing.T) {
	svc, up := newDirectoryService(t)
	up.doctors = []visitapi.Doctor{{ID: "7", FullName: "Dr. Asha Rao"}}
	svc.ListDoctors(context.Background())

	up.listErr = visitapi.ErrUnauthorized
	_, _, err := svc.ListDoctors(context.Background())
	if !errors.Is(err, visitapi.ErrUnauthorized) {
		t.Errorf("auth failures must surface, got %v", err)
	}
}

func TestGetAvailability_ExpandsWindows(t *testing.T) {
	svc, up := newDirectoryService(t)
	up.windows["7"] = []visitapi.AvailabilityWindow{
		{ID: "win-1", DoctorID: "7", AvailableDate: "2024-03-04", StartTime: "09:00:00", EndTime: "11:00:00"},
	}

	list, err := svc.GetAvailability(context.Background(), "7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if list.Stale {
		t.Error("fresh fetch must not be stale")
	}
	if len(list.Slots) != 4 {
		t.Fatalf("expected 4 slots for a 2h window, got %d", len(list.Slots))
	}
	first := list.Slots[0]
	if first.WindowID != "win-1" || first.Date != "2024-03-04" || first.Label != "09:00 AM" {
		t.Errorf("unexpected first slot: %+v", first)
	}
}

func TestGetAvailability_MissingWindowID(t *testing.T) {
	svc, up := newDirectoryService(t)
	up.windows["7"] = []visitapi.AvailabilityWindow{
		{ID: "win-1", DoctorID: "7", AvailableDate: "2024-03-04", StartTime: "09:00:00", EndTime: "10:00:00"},
		{DoctorID: "7", AvailableDate: "2024-03-05", StartTime: "09:00:00", EndTime: "10:00:00"},
	}

	_, err := svc.GetAvailability(context.Background(), "7")
	var missing *ErrMissingWindowID
	if !errors.As(err, &missing) {
		t.Fatalf("expected ErrMissingWindowID, got %v", err)
	}
	if missing.Position != 1 {
		t.Errorf("expected position 1, got %d", missing.Position)
	}
}

func TestGetAvailability_ServesSnapshotOnFailure(t *testing.T) {
	svc, up := newDirectoryService(t)
	up.windows["7"] = []visitapi.AvailabilityWindow{
		{ID: "win-1", DoctorID: "7", AvailableDate: "2024-03-04", StartTime: "09:00:00", EndTime: "10:00:00"},
	}
	if _, err := svc.GetAvailability(context.Background(), "7"); err != nil {
		t.Fatalf("warm-up fetch failed: %v", err)
	}

	up.windowsErr = &visitapi.StatusError{Code: 502}
	list, err := svc.GetAvailability(context.Background(), "7")
	if err != nil {
		t.Fatalf("expected snapshot, got error: %v", err)
	}
	if !list.Stale {
		t.Error("snapshot result must be marked stale")
	}
	if len(list.Slots) != 2 {
		t.Errorf("expected 2 cached slots, got %d", len(list.Slots))
	}
}

func TestGetAvailability_EmptyWindowList(t *testing.T) {
	svc, _ := newDirectoryService(t)
	list, err := svc.GetAvailability(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(list.Slots) != 0 {
		t.Errorf("expected no slots, got %d", len(list.Slots))
	}
}
