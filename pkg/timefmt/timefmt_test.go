package timefmt

import (
	"errors"
	"testing"
)

func TestTo24Hour(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"09:00 AM", "09:00"},
		{"12:30 AM", "00:30"},
		{"12:00 PM", "12:00"},
		{"02:00 PM", "14:00"},
		{"11:59 PM", "23:59"},
		{"1:05 pm", "13:05"},
	}
	for _, tc := range cases {
		got, err := To24Hour(tc.in)
		if err != nil {
			t.Fatalf("To24Hour(%q): unexpected error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("To24Hour(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTo24Hour_Malformed(t *testing.T) {
	for _, in := range []string{"", "09:00", "13:00 PM", "00:30 AM", "09:61 AM", "nine AM", "09:00 XM"} {
		_, err := To24Hour(in)
		if err == nil {
			t.Errorf("To24Hour(%q): expected error", in)
		}
		var fe *FormatError
		if !errors.As(err, &fe) {
			t.Errorf("To24Hour(%q): expected *FormatError, got %T", in, err)
		}
	}
}

func TestTo12Hour(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"00:30", "12:30 AM"},
		{"12:00", "12:00 PM"},
		{"09:00", "09:00 AM"},
		{"16:30", "04:30 PM"},
		{"23:59", "11:59 PM"},
	}
	for _, tc := range cases {
		got, err := To12Hour(tc.in)
		if err != nil {
			t.Fatalf("To12Hour(%q): unexpected error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("To12Hour(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTo12Hour_Malformed(t *testing.T) {
	for _, in := range []string{"", "24:00", "12:60", "noon"} {
		if _, err := To12Hour(in); err == nil {
			t.Errorf("To12Hour(%q): expected error", in)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	for _, in := range []string{"12:30 AM", "12:00 PM", "09:00 AM", "04:30 PM", "11:59 PM"} {
		wire, err := To24Hour(in)
		if err != nil {
			t.Fatalf("To24Hour(%q): %v", in, err)
		}
		back, err := To12Hour(wire)
		if err != nil {
			t.Fatalf("To12Hour(%q): %v", wire, err)
		}
		if back != in {
			t.Errorf("round trip %q -> %q -> %q", in, wire, back)
		}
	}
}

func TestMinutes(t *testing.T) {
	m, err := Minutes("09:30")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m != 570 {
		t.Errorf("Minutes(09:30) = %d, want 570", m)
	}
	if FromMinutes(570) != "09:30" {
		t.Errorf("FromMinutes(570) = %q, want 09:30", FromMinutes(570))
	}
}
