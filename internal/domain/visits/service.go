package visits

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/telemed/portal/internal/platform/cache"
	"github.com/telemed/portal/internal/platform/visitapi"
	"github.com/telemed/portal/pkg/timefmt"
)

var ErrVisitNotFound = errors.New("visit not found")

// VisitsUpstream is the slice of the remote service that owns visits.
type VisitsUpstream interface {
	ListUpcomingVisits(ctx context.Context, patientID string) ([]visitapi.Visit, error)
	GetVisitDetails(ctx context.Context, visitID string) (*visitapi.VisitDetails, error)
	RescheduleVisit(ctx context.Context, visitID string, req visitapi.RescheduleRequest) (*visitapi.Visit, error)
	CancelVisit(ctx context.Context, visitID string, req visitapi.CancelRequest) error
}

type Service struct {
	upstream  VisitsUpstream
	snapshots *cache.SnapshotStore
	logger    zerolog.Logger
}

func NewService(upstream VisitsUpstream, snapshots *cache.SnapshotStore, logger zerolog.Logger) *Service {
	return &Service{upstream: upstream, snapshots: snapshots, logger: logger}
}

func upcomingKey(patientID string) string { return "visits:upcoming:" + patientID }

// ListUpcoming returns the patient's upcoming visits shaped for display. On a
// transport failure the last-known-good snapshot is served with Stale set;
// auth failures always surface.
func (s *Service) ListUpcoming(ctx context.Context, patientID string) (*VisitListing, error) {
	remote, err := s.upstream.ListUpcomingVisits(ctx, patientID)
	if err != nil {
		if errors.Is(err, visitapi.ErrUnauthorized) {
			return nil, err
		}
		var cached []VisitView
		if cacheErr := s.snapshots.Get(ctx, upcomingKey(patientID), &cached); cacheErr == nil {
			s.logger.Warn().Err(err).Str("patient_id", patientID).
				Msg("upcoming visits unavailable, serving snapshot")
			return &VisitListing{Visits: cached, Stale: true}, nil
		}
		return nil, fmt.Errorf("list upcoming visits: %w", err)
	}

	views := make([]VisitView, 0, len(remote))
	for _, v := range remote {
		view, err := viewFromVisit(v)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	if err := s.snapshots.Put(ctx, upcomingKey(patientID), views); err != nil {
		s.logger.Warn().Err(err).Str("patient_id", patientID).Msg("failed to snapshot visits")
	}
	return &VisitListing{Visits: views}, nil
}

// GetDetails fetches the extended record on demand.
func (s *Service) GetDetails(ctx context.Context, visitID string) (*DetailsView, error) {
	d, err := s.upstream.GetVisitDetails(ctx, visitID)
	if err != nil {
		if errors.Is(err, visitapi.ErrNotFound) {
			return nil, ErrVisitNotFound
		}
		return nil, fmt.Errorf("visit details: %w", err)
	}
	view, err := viewFromVisit(d.Visit)
	if err != nil {
		return nil, err
	}
	return &DetailsView{
		VisitView:         view,
		DoctorName:        d.DoctorName,
		ConsultationID:    d.ConsultationID,
		PrescriptionID:    d.PrescriptionID,
		ConsultationNotes: d.ConsultationNotes,
		PrescriptionNotes: d.PrescriptionNotes,
	}, nil
}

// Reschedule moves a visit to a new date and 12-hour time. The snapshot is
// updated optimistically and rolled back to the last confirmed server state
// when the remote call fails.
func (s *Service) Reschedule(ctx context.Context, patientID, visitID, newDate, newTime12, reason string) (*VisitView, error) {
	clock, err := timefmt.To24Hour(newTime12)
	if err != nil {
		return nil, err
	}
	scheduledTime := newDate + "T" + clock + ":00"

	restore := s.applyOptimistic(ctx, patientID, func(views []VisitView) []VisitView {
		for i := range views {
			if views[i].VisitID == visitID {
				views[i].Date = newDate
				views[i].Time = newTime12
				views[i].Status = StatusRescheduled
			}
		}
		return views
	})

	visit, err := s.upstream.RescheduleVisit(ctx, visitID, visitapi.RescheduleRequest{
		ScheduledTime: scheduledTime,
		Reason:        reason,
	})
	if err != nil {
		restore(ctx)
		if errors.Is(err, visitapi.ErrNotFound) {
			return nil, ErrVisitNotFound
		}
		return nil, fmt.Errorf("reschedule visit: %w", err)
	}

	view, err := viewFromVisit(*visit)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// Cancel removes a visit. Optimistic removal from the snapshot, rolled back
// when the remote call fails; the next ListUpcoming reflects server truth
// either way.
func (s *Service) Cancel(ctx context.Context, patientID, visitID, reason string) error {
	restore := s.applyOptimistic(ctx, patientID, func(views []VisitView) []VisitView {
		kept := views[:0]
		for _, v := range views {
			if v.VisitID != visitID {
				kept = append(kept, v)
			}
		}
		return kept
	})

	if err := s.upstream.CancelVisit(ctx, visitID, visitapi.CancelRequest{Reason: reason}); err != nil {
		restore(ctx)
		if errors.Is(err, visitapi.ErrNotFound) {
			return ErrVisitNotFound
		}
		return fmt.Errorf("cancel visit: %w", err)
	}
	return nil
}

// applyOptimistic mutates the patient's snapshot and returns a restore
// function that reinstates the previous snapshot. When no snapshot exists
// both the mutation and the restore are no-ops.
func (s *Service) applyOptimistic(ctx context.Context, patientID string, mutate func([]VisitView) []VisitView) func(context.Context) {
	key := upcomingKey(patientID)

	var before []VisitView
	if err := s.snapshots.Get(ctx, key, &before); err != nil {
		return func(context.Context) {}
	}

	after := mutate(append([]VisitView(nil), before...))
	if err := s.snapshots.Put(ctx, key, after); err != nil {
		s.logger.Warn().Err(err).Str("patient_id", patientID).Msg("optimistic snapshot update failed")
		return func(context.Context) {}
	}

	return func(ctx context.Context) {
		if err := s.snapshots.Put(ctx, key, before); err != nil {
			s.logger.Warn().Err(err).Str("patient_id", patientID).Msg("snapshot rollback failed")
		}
	}
}
