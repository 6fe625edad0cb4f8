package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/telemed/portal/internal/domain/availability"
	"github.com/telemed/portal/internal/platform/cache"
	"github.com/telemed/portal/internal/platform/visitapi"
)

// ErrMissingWindowID marks an availability window the remote service returned
// without an identifier. A slot without a window ID cannot be booked, so the
// window is a data-integrity error rather than something to paper over.
type ErrMissingWindowID struct {
	DoctorID string
	Position int
}

func (e *ErrMissingWindowID) Error() string {
	return fmt.Sprintf("availability window %d for doctor %s has no id", e.Position, e.DoctorID)
}

// DoctorEntry is one row of the patient-facing doctor list.
type DoctorEntry struct {
	ID             string `json:"doctorId"`
	FullName       string `json:"fullName"`
	Specialization string `json:"specialization"`
	Tagline        string `json:"tagline"`
	VisitMinutes   int    `json:"visitMinutes"`
}

// SlotList is the expanded bookable slots for one doctor. Stale is set when
// the data came from the snapshot cache instead of the remote service.
type SlotList struct {
	DoctorID string              `json:"doctorId"`
	Slots    []availability.Slot `json:"slots"`
	Stale    bool                `json:"stale"`
}

// DirectoryUpstream is the slice of the remote service the directory reads.
type DirectoryUpstream interface {
	ListDoctors(ctx context.Context) ([]visitapi.Doctor, error)
	GetDoctorAvailability(ctx context.Context, doctorID string) ([]visitapi.AvailabilityWindow, error)
}

type Service struct {
	upstream  DirectoryUpstream
	snapshots *cache.SnapshotStore
	logger    zerolog.Logger
}

func NewService(upstream DirectoryUpstream, snapshots *cache.SnapshotStore, logger zerolog.Logger) *Service {
	return &Service{upstream: upstream, snapshots: snapshots, logger: logger}
}

func doctorsKey() string              { return "directory:doctors" }
func slotsKey(doctorID string) string { return "directory:slots:" + doctorID }

// ListDoctors returns the remote doctor list decorated with specialty
// metadata. On a transport failure the last-known-good snapshot is returned;
// the error is only surfaced when no snapshot exists either.
func (s *Service) ListDoctors(ctx context.Context) ([]DoctorEntry, bool, error) {
	remote, err := s.upstream.ListDoctors(ctx)
	if err != nil {
		if errors.Is(err, visitapi.ErrUnauthorized) {
			return nil, false, err
		}
		var cached []DoctorEntry
		if cacheErr := s.snapshots.Get(ctx, doctorsKey(), &cached); cacheErr == nil {
			s.logger.Warn().Err(err).Msg("doctor list unavailable, serving snapshot")
			return cached, true, nil
		}
		return nil, false, fmt.Errorf("list doctors: %w", err)
	}

	entries := make([]DoctorEntry, 0, len(remote))
	for _, d := range remote {
		meta := MetaFor(d.Specialization)
		entries = append(entries, DoctorEntry{
			ID:             d.ID,
			FullName:       d.FullName,
			Specialization: d.Specialization,
			Tagline:        meta.Tagline,
			VisitMinutes:   meta.VisitMinutes,
		})
	}

	if err := s.snapshots.Put(ctx, doctorsKey(), entries); err != nil {
		s.logger.Warn().Err(err).Msg("failed to snapshot doctor list")
	}
	return entries, false, nil
}

// GetAvailability expands the doctor's current remote windows into bookable
// slots. A window without a remote identifier aborts the expansion with
// ErrMissingWindowID. On a transport failure the snapshot is served stale.
func (s *Service) GetAvailability(ctx context.Context, doctorID string) (*SlotList, error) {
	windows, err := s.upstream.GetDoctorAvailability(ctx, doctorID)
	if err != nil {
		if errors.Is(err, visitapi.ErrUnauthorized) || errors.Is(err, visitapi.ErrNotFound) {
			return nil, err
		}
		var cached SlotList
		if cacheErr := s.snapshots.Get(ctx, slotsKey(doctorID), &cached); cacheErr == nil {
			s.logger.Warn().Err(err).Str("doctor_id", doctorID).
				Msg("availability unavailable, serving snapshot")
			cached.Stale = true
			return &cached, nil
		}
		return nil, fmt.Errorf("fetch availability: %w", err)
	}

	list := &SlotList{DoctorID: doctorID, Slots: []availability.Slot{}}
	for i, w := range windows {
		if strings.TrimSpace(w.ID) == "" {
			return nil, &ErrMissingWindowID{DoctorID: doctorID, Position: i}
		}
		slots, err := availability.ExpandWindow(availability.Window{
			ID:        w.ID,
			DoctorID:  doctorID,
			Date:      w.AvailableDate,
			StartTime: trimSeconds(w.StartTime),
			EndTime:   trimSeconds(w.EndTime),
		}, availability.DefaultGranularity)
		if err != nil {
			return nil, fmt.Errorf("window %s: %w", w.ID, err)
		}
		list.Slots = append(list.Slots, slots...)
	}

	if err := s.snapshots.Put(ctx, slotsKey(doctorID), list); err != nil {
		s.logger.Warn().Err(err).Str("doctor_id", doctorID).Msg("failed to snapshot slots")
	}
	return list, nil
}

// trimSeconds reduces the remote HH:MM:SS boundary to the HH:MM the rest of
// the portal works with.
func trimSeconds(clock string) string {
	if len(clock) >= 5 {
		return clock[:5]
	}
	return clock
}
