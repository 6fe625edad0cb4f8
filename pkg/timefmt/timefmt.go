// Package timefmt converts between 12-hour display times ("hh:mm AM") and
// 24-hour wire times ("HH:MM"). Conversions are pure and round-trip for any
// valid input.
package timefmt

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatError reports a malformed time string.
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid time %q: %s", e.Input, e.Reason)
}

// To24Hour converts a 12-hour time such as "02:30 PM" to "14:30".
// Hour 12 maps to 00 for AM and stays 12 for PM.
func To24Hour(time12h string) (string, error) {
	s := strings.TrimSpace(time12h)
	fields := strings.Fields(s)
	if len(fields) != 2 {
		return "", &FormatError{Input: time12h, Reason: "expected \"hh:mm AM|PM\""}
	}

	meridiem := strings.ToUpper(fields[1])
	if meridiem != "AM" && meridiem != "PM" {
		return "", &FormatError{Input: time12h, Reason: "missing or invalid meridiem"}
	}

	hour, minute, err := splitClock(fields[0])
	if err != nil {
		return "", &FormatError{Input: time12h, Reason: err.Error()}
	}
	if hour < 1 || hour > 12 {
		return "", &FormatError{Input: time12h, Reason: "hour out of range 1-12"}
	}
	if minute < 0 || minute > 59 {
		return "", &FormatError{Input: time12h, Reason: "minute out of range 0-59"}
	}

	if meridiem == "AM" {
		if hour == 12 {
			hour = 0
		}
	} else if hour != 12 {
		hour += 12
	}

	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// To12Hour converts a 24-hour time such as "14:30" to "02:30 PM".
func To12Hour(time24h string) (string, error) {
	hour, minute, err := splitClock(strings.TrimSpace(time24h))
	if err != nil {
		return "", &FormatError{Input: time24h, Reason: err.Error()}
	}
	if hour < 0 || hour > 23 {
		return "", &FormatError{Input: time24h, Reason: "hour out of range 0-23"}
	}
	if minute < 0 || minute > 59 {
		return "", &FormatError{Input: time24h, Reason: "minute out of range 0-59"}
	}

	meridiem := "AM"
	if hour >= 12 {
		meridiem = "PM"
	}
	if hour == 0 {
		hour = 12
	} else if hour > 12 {
		hour -= 12
	}

	return fmt.Sprintf("%02d:%02d %s", hour, minute, meridiem), nil
}

// Minutes returns the minute offset from midnight for a 24-hour time.
func Minutes(time24h string) (int, error) {
	hour, minute, err := splitClock(strings.TrimSpace(time24h))
	if err != nil {
		return 0, &FormatError{Input: time24h, Reason: err.Error()}
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return 0, &FormatError{Input: time24h, Reason: "out of range"}
	}
	return hour*60 + minute, nil
}

// FromMinutes renders a minute offset from midnight as a 24-hour time.
func FromMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func splitClock(s string) (hour, minute int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected hh:mm")
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("non-numeric hour")
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("non-numeric minute")
	}
	return hour, minute, nil
}
