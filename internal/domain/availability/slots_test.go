package availability

import (
	"errors"
	"testing"
	"time"
)

func TestExpandWindow(t *testing.T) {
	w := Window{ID: "w1", Date: "2024-03-04", StartTime: "09:00", EndTime: "17:00"}
	slots, err := ExpandWindow(w, 30*time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 16 {
		t.Fatalf("expected 16 slots, got %d", len(slots))
	}
	if slots[0].Label != "09:00 AM" {
		t.Errorf("first slot = %q, want 09:00 AM", slots[0].Label)
	}
	if slots[len(slots)-1].Label != "04:30 PM" {
		t.Errorf("last slot = %q, want 04:30 PM", slots[len(slots)-1].Label)
	}
	for _, s := range slots {
		if s.Label == "05:00 PM" {
			t.Error("end time must be exclusive; got 05:00 PM")
		}
		if s.WindowID != "w1" || s.Date != "2024-03-04" {
			t.Errorf("slot not tagged with source window: %+v", s)
		}
	}
}

func TestExpandWindow_EmptyWhenStartEqualsEnd(t *testing.T) {
	w := Window{StartTime: "10:00", EndTime: "10:00"}
	slots, err := ExpandWindow(w, 30*time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 0 {
		t.Errorf("expected empty sequence, got %d slots", len(slots))
	}
}

func TestExpandWindow_SpansMidnight(t *testing.T) {
	w := Window{StartTime: "22:00", EndTime: "02:00"}
	_, err := ExpandWindow(w, 30*time.Minute)
	if !errors.Is(err, ErrInvalidWindow) {
		t.Errorf("expected ErrInvalidWindow, got %v", err)
	}
}

func TestExpandWindow_MalformedTime(t *testing.T) {
	w := Window{StartTime: "morning", EndTime: "17:00"}
	if _, err := ExpandWindow(w, 30*time.Minute); err == nil {
		t.Error("expected error for malformed start time")
	}
}

func TestExpandWindow_DefaultGranularity(t *testing.T) {
	w := Window{StartTime: "09:00", EndTime: "10:00"}
	slots, err := ExpandWindow(w, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 2 {
		t.Errorf("expected 2 slots at default 30m granularity, got %d", len(slots))
	}
}
