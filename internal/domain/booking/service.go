package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/telemed/portal/internal/domain/availability"
	"github.com/telemed/portal/internal/domain/directory"
	"github.com/telemed/portal/internal/platform/visitapi"
	"github.com/telemed/portal/pkg/timefmt"
)

var (
	ErrDoctorRequired = errors.New("select a doctor before continuing")
	ErrSlotRequired   = errors.New("select a time slot before continuing")
	ErrNotInReview    = errors.New("booking can only be submitted from the review step")
)

// SlotSource provides the expanded bookable slots for a doctor.
type SlotSource interface {
	GetAvailability(ctx context.Context, doctorID string) (*directory.SlotList, error)
}

// BookingUpstream is the slice of the remote service that creates visits.
type BookingUpstream interface {
	BookVisit(ctx context.Context, req visitapi.BookVisitRequest) (*visitapi.Visit, error)
}

type Service struct {
	sessions *SessionManager
	slots    SlotSource
	upstream BookingUpstream
	logger   zerolog.Logger
}

func NewService(sessions *SessionManager, slots SlotSource, upstream BookingUpstream, logger zerolog.Logger) *Service {
	return &Service{sessions: sessions, slots: slots, upstream: upstream, logger: logger}
}

func (s *Service) CreateSession(_ context.Context) *Session {
	return s.sessions.Create()
}

func (s *Service) GetSession(_ context.Context, id uuid.UUID) (*Session, error) {
	return s.sessions.Get(id)
}

// SelectDoctor records the doctor choice and starts an availability fetch for
// it. Switching doctors clears the slot fields and drops the previous
// doctor's availability list; the fetch sequence guarantees a slow response
// for the old doctor can never overwrite the new doctor's slots.
func (s *Service) SelectDoctor(ctx context.Context, id uuid.UUID, doctorID string) (*Session, error) {
	if doctorID == "" {
		return nil, ErrDoctorRequired
	}

	var seq uint64
	sess, err := s.sessions.Update(id, func(live *Session) error {
		if live.State != StateSelectDoctor {
			return ErrInvalidTransition
		}
		if live.Selection.DoctorID != doctorID {
			live.Selection.WindowID = ""
			live.Selection.Date = ""
			live.Selection.Time = ""
			live.Availability = nil
		}
		live.Selection.DoctorID = doctorID
		live.FetchSeq++
		seq = live.FetchSeq
		return nil
	})
	if err != nil {
		return nil, err
	}

	list, err := s.slots.GetAvailability(ctx, doctorID)
	if err != nil {
		// The doctor choice stands; the patient can retry the fetch by
		// re-selecting. Surface the failure.
		return sess, fmt.Errorf("fetch availability: %w", err)
	}
	return s.installAvailability(id, seq, list)
}

// installAvailability stores a fetch result only if the session's fetch
// sequence still matches the one the fetch was started under.
func (s *Service) installAvailability(id uuid.UUID, seq uint64, list *directory.SlotList) (*Session, error) {
	return s.sessions.Update(id, func(live *Session) error {
		if live.FetchSeq != seq {
			s.logger.Debug().Str("session_id", id.String()).
				Uint64("got", seq).Uint64("want", live.FetchSeq).
				Msg("dropping stale availability response")
			return nil
		}
		live.Availability = list.Slots
		return nil
	})
}

// SelectSlot records the slot choice and optional reason. The slot must come
// from the availability list fetched for the selected doctor.
func (s *Service) SelectSlot(_ context.Context, id uuid.UUID, windowID, date, time12, reason string) (*Session, error) {
	return s.sessions.Update(id, func(live *Session) error {
		if live.State != StateSelectSchedule {
			return ErrInvalidTransition
		}
		if windowID == "" || date == "" || time12 == "" {
			return ErrSlotRequired
		}
		if len(live.Availability) > 0 && !slotListed(live.Availability, windowID, date, time12) {
			return fmt.Errorf("slot %s %s is not in the offered availability", date, time12)
		}
		live.Selection.WindowID = windowID
		live.Selection.Date = date
		live.Selection.Time = time12
		live.Selection.Reason = reason
		return nil
	})
}

// Advance applies a Next, Back or Reset event. Next is guarded on the data
// that step was meant to collect.
func (s *Service) Advance(_ context.Context, id uuid.UUID, event Event) (*Session, error) {
	return s.sessions.Update(id, func(live *Session) error {
		if event == EventSubmit {
			return ErrInvalidTransition // submissions go through Submit
		}
		next, err := NextState(live.State, event)
		if err != nil {
			return err
		}
		if event == EventNext {
			switch live.State {
			case StateSelectDoctor:
				if live.Selection.DoctorID == "" {
					return ErrDoctorRequired
				}
			case StateSelectSchedule:
				if live.Selection.WindowID == "" {
					return ErrSlotRequired
				}
			}
		}
		if event == EventReset {
			live.Selection = Selection{}
			live.Availability = nil
			live.VisitID = ""
		}
		live.State = next
		return nil
	})
}

// Submit books the visit. On success the wizard moves to Confirmed; on
// failure it stays in Review with the selection intact so the patient can
// retry.
func (s *Service) Submit(ctx context.Context, id uuid.UUID, patientID string) (*Session, error) {
	sess, err := s.sessions.Get(id)
	if err != nil {
		return nil, err
	}
	if sess.State != StateReview {
		return nil, ErrNotInReview
	}
	sel := sess.Selection
	if sel.DoctorID == "" || sel.WindowID == "" || sel.Date == "" || sel.Time == "" {
		return nil, ErrSlotRequired
	}

	clock, err := timefmt.To24Hour(sel.Time)
	if err != nil {
		return nil, fmt.Errorf("slot time: %w", err)
	}
	scheduledTime := sel.Date + "T" + clock + ":00"

	visit, err := s.upstream.BookVisit(ctx, visitapi.BookVisitRequest{
		PatientID:      patientID,
		DoctorID:       sel.DoctorID,
		ScheduledTime:  scheduledTime,
		Reason:         sel.Reason,
		AvailabilityID: sel.WindowID,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("session_id", id.String()).Msg("booking failed")
		return nil, fmt.Errorf("book visit: %w", err)
	}

	return s.sessions.Update(id, func(live *Session) error {
		next, err := NextState(live.State, EventSubmit)
		if err != nil {
			return err
		}
		live.State = next
		live.VisitID = visit.VisitID
		return nil
	})
}

func slotListed(slots []availability.Slot, windowID, date, label string) bool {
	for _, s := range slots {
		if s.WindowID == windowID && s.Date == date && s.Label == label {
			return true
		}
	}
	return false
}
