package visitapi

// Doctor is a bookable clinician as listed by the remote service.
type Doctor struct {
	ID             string `json:"doctorId"`
	FullName       string `json:"fullName"`
	Specialization string `json:"specialization"`
}

// AvailabilityWindow is a published bookable interval. The remote service
// exchanges window boundaries as "HH:MM:SS".
type AvailabilityWindow struct {
	ID            string `json:"id"`
	DoctorID      string `json:"doctorId"`
	AvailableDate string `json:"availableDate"` // "2006-01-02"
	StartTime     string `json:"startTime"`     // "HH:MM:SS"
	EndTime       string `json:"endTime"`       // "HH:MM:SS"
}

// CreateWindowRequest is the body for POST /availability.
type CreateWindowRequest struct {
	DoctorID      string `json:"doctorId"`
	AvailableDate string `json:"availableDate"`
	StartTime     string `json:"startTime"` // "HH:MM:SS"
	EndTime       string `json:"endTime"`   // "HH:MM:SS"
}

// BookVisitRequest is the body for POST /patients/visits/book.
// ScheduledTime is ISO-8601 without zone, e.g. "2024-03-04T14:00:00".
type BookVisitRequest struct {
	PatientID      string `json:"patientId"`
	DoctorID       string `json:"doctorId"`
	ScheduledTime  string `json:"scheduledTime"`
	Reason         string `json:"reason,omitempty"`
	AvailabilityID string `json:"availabilityId,omitempty"`
}

// Visit is an appointment as owned by the remote service.
type Visit struct {
	VisitID        string `json:"visitId"`
	PatientID      string `json:"patientId"`
	DoctorID       string `json:"doctorId"`
	ScheduledTime  string `json:"scheduledTime"` // ISO-8601
	Status         string `json:"status"`        // SCHEDULED, CONFIRMED, ...
	Reason         string `json:"reason,omitempty"`
	ConsultationID string `json:"consultationId,omitempty"`
	PrescriptionID string `json:"prescriptionId,omitempty"`
}

// VisitDetails is the extended record fetched lazily on request.
type VisitDetails struct {
	Visit
	DoctorName        string `json:"doctorName,omitempty"`
	ConsultationNotes string `json:"consultationNotes,omitempty"`
	PrescriptionNotes string `json:"prescriptionNotes,omitempty"`
}

// RescheduleRequest is the body for POST /patients/visits/{id}/reschedule.
type RescheduleRequest struct {
	ScheduledTime string `json:"scheduledTime"`
	Reason        string `json:"reason,omitempty"`
}

// CancelRequest is the body for POST /patients/visits/{id}/cancel.
type CancelRequest struct {
	Reason string `json:"reason,omitempty"`
}

// ClinicianProfile gates clinician-side features; consumed read-only.
type ClinicianProfile struct {
	DoctorID       string `json:"doctorId"`
	FullName       string `json:"fullName"`
	Specialization string `json:"specialization"`
}
