package booking

import (
	"fmt"
	"time"
)

// ClockTime is a wall-clock time of day with second precision, stored
// as seconds since midnight. EndOfDay (24:00:00) is a valid interval
// boundary: windows are half-open, so an End of 24:00:00 still fits
// entirely within its calendar day.
type ClockTime int

const EndOfDay ClockTime = 24 * 60 * 60

// ParseClock12 parses a 12-hour clock string with an AM/PM designator,
// e.g. "02:00 PM". The layout is strict: "2pm" is rejected.
func ParseClock12(raw string) (ClockTime, error) {
	t, err := time.Parse("03:04 PM", raw)
	if err != nil {
		return 0, fmt.Errorf("start time %q: %w", raw, err)
	}
	return FromHMS(t.Hour(), t.Minute(), t.Second()), nil
}

func FromHMS(h, m, s int) ClockTime {
	return ClockTime(h*3600 + m*60 + s)
}

// AddHours computes the end of a window that starts at c and runs for
// the given whole number of hours. Windows must fit within the day:
// an end past 24:00:00 is an error rather than a wrapped value.
func (c ClockTime) AddHours(hours int) (ClockTime, error) {
	if hours <= 0 {
		return 0, fmt.Errorf("duration must be a positive number of hours, got %d", hours)
	}
	if c < 0 || c >= EndOfDay {
		return 0, fmt.Errorf("invalid start time %d", int(c))
	}
	end := c + ClockTime(hours)*3600
	if end > EndOfDay {
		return 0, fmt.Errorf("a %d hour booking starting at %s would run past midnight", hours, c)
	}
	return end, nil
}

func (c ClockTime) String() string {
	s := int(c)
	return fmt.Sprintf("%02d:%02d:%02d", s/3600, s/60%60, s%60)
}
