package visits

import (
	"fmt"
	"time"

	"github.com/telemed/portal/internal/platform/visitapi"
	"github.com/telemed/portal/pkg/timefmt"
)

const scheduledTimeLayout = "2006-01-02T15:04:05"

// VisitView is one upcoming visit shaped for display: the ISO timestamp split
// into a date and a 12-hour time label, and the remote status bucketed.
type VisitView struct {
	VisitID  string         `json:"visitId"`
	DoctorID string         `json:"doctorId"`
	Date     string         `json:"date"` // "2006-01-02"
	Time     string         `json:"time"` // "hh:mm AM"
	Status   StatusCategory `json:"status"`
	Reason   string         `json:"reason,omitempty"`
}

// VisitListing is the upcoming visits plus the staleness marker.
type VisitListing struct {
	Visits []VisitView `json:"visits"`
	Stale  bool        `json:"stale"`
}

// DetailsView is the lazily fetched extended record.
type DetailsView struct {
	VisitView
	DoctorName        string `json:"doctorName,omitempty"`
	ConsultationID    string `json:"consultationId,omitempty"`
	PrescriptionID    string `json:"prescriptionId,omitempty"`
	ConsultationNotes string `json:"consultationNotes,omitempty"`
	PrescriptionNotes string `json:"prescriptionNotes,omitempty"`
}

func viewFromVisit(v visitapi.Visit) (VisitView, error) {
	view := VisitView{
		VisitID:  v.VisitID,
		DoctorID: v.DoctorID,
		Status:   MapStatus(v.Status),
		Reason:   v.Reason,
	}
	ts, err := time.Parse(scheduledTimeLayout, v.ScheduledTime)
	if err != nil {
		return view, fmt.Errorf("visit %s: bad scheduledTime %q: %w", v.VisitID, v.ScheduledTime, err)
	}
	view.Date = ts.Format("2006-01-02")
	label, err := timefmt.To12Hour(ts.Format("15:04"))
	if err != nil {
		return view, err
	}
	view.Time = label
	return view, nil
}
