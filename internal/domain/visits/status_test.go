package visits

import "testing"

func TestMapStatus(t *testing.T) {
	cases := []struct {
		remote string
		want   StatusCategory
	}{
		{"SCHEDULED", StatusConfirmed},
		{"CONFIRMED", StatusConfirmed},
		{"PENDING", StatusPending},
		{"RESCHEDULED", StatusRescheduled},
		{"CANCELLED", StatusCancelled},
		{"COMPLETED", StatusCompleted},
		{"ONHOLD", StatusPending},
		{"", StatusPending},
		{"scheduled", StatusConfirmed},
		{" cancelled ", StatusCancelled},
	}
	for _, tc := range cases {
		if got := MapStatus(tc.remote); got != tc.want {
			t.Errorf("MapStatus(%q) = %s, want %s", tc.remote, got, tc.want)
		}
	}
}
