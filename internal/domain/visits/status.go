package visits

import "strings"

// StatusCategory is the UI bucket a visit lands in.
type StatusCategory string

const (
	StatusPending     StatusCategory = "pending"
	StatusConfirmed   StatusCategory = "confirmed"
	StatusRescheduled StatusCategory = "rescheduled"
	StatusCancelled   StatusCategory = "cancelled"
	StatusCompleted   StatusCategory = "completed"
)

var statusCategories = map[string]StatusCategory{
	"SCHEDULED":   StatusConfirmed,
	"CONFIRMED":   StatusConfirmed,
	"PENDING":     StatusPending,
	"RESCHEDULED": StatusRescheduled,
	"CANCELLED":   StatusCancelled,
	"COMPLETED":   StatusCompleted,
}

// MapStatus buckets a remote visit status. Unknown statuses are treated as
// pending rather than failing the whole listing.
func MapStatus(remote string) StatusCategory {
	if c, ok := statusCategories[strings.ToUpper(strings.TrimSpace(remote))]; ok {
		return c
	}
	return StatusPending
}
