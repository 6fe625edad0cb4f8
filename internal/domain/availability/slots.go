package availability

import (
	"errors"
	"time"

	"github.com/telemed/portal/pkg/timefmt"
)

// DefaultGranularity is the fixed step between bookable slots.
const DefaultGranularity = 30 * time.Minute

// ErrInvalidWindow is returned for windows that would span midnight
// (end before start). Such windows cannot be expanded.
var ErrInvalidWindow = errors.New("availability window spans midnight")

// ExpandWindow expands a window into an ordered sequence of bookable slots,
// one per granularity step, starting at the window's start time and stopping
// strictly before its end time (end-exclusive).
//
// A window whose start equals its end yields an empty sequence, not an error.
func ExpandWindow(w Window, granularity time.Duration) ([]Slot, error) {
	if granularity <= 0 {
		granularity = DefaultGranularity
	}

	start, err := timefmt.Minutes(w.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := timefmt.Minutes(w.EndTime)
	if err != nil {
		return nil, err
	}
	if start > end {
		return nil, ErrInvalidWindow
	}

	step := int(granularity.Minutes())
	slots := make([]Slot, 0, (end-start)/step)
	for m := start; m < end; m += step {
		label, err := timefmt.To12Hour(timefmt.FromMinutes(m))
		if err != nil {
			return nil, err
		}
		slots = append(slots, Slot{
			WindowID: w.ID,
			Date:     w.Date,
			Label:    label,
		})
	}
	return slots, nil
}
