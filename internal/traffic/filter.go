package traffic

import (
	"fmt"
	"strconv"
	"time"
)

// Anchor is a time of day in minutes since midnight.
type Anchor int

const (
	// Unfiltered disables the time filter.
	Unfiltered Anchor = -1

	// MaxAnchor is the upper end of the slider range.
	MaxAnchor Anchor = 1440

	// WindowMinutes is how far a trip endpoint may be from the anchor.
	WindowMinutes = 60
)

// ParseAnchor converts a slider value into an Anchor.
// An empty string means Unfiltered.
func ParseAnchor(s string) (Anchor, error) {
	if s == "" {
		return Unfiltered, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: %w", s, err)
	}
	a := Anchor(n)
	if a < Unfiltered || a > MaxAnchor {
		return 0, fmt.Errorf("time %d out of range [%d, %d]", n, Unfiltered, MaxAnchor)
	}
	return a, nil
}

// MinutesSinceMidnight returns hour*60+minute of t's wall clock.
// Date, seconds and sub-second parts are ignored.
func MinutesSinceMidnight(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// FilterByAnchor keeps trips that started or ended within WindowMinutes of
// the anchor. Unfiltered returns trips as is. Input order is preserved.
//
// The window does not wrap around midnight: 23:50 and 00:10 are 1420
// minutes apart.
func FilterByAnchor(trips []Trip, anchor Anchor) []Trip {
	if anchor == Unfiltered {
		return trips
	}
	var out []Trip
	for _, t := range trips {
		if near(t.StartedAt, anchor) || near(t.EndedAt, anchor) {
			out = append(out, t)
		}
	}
	return out
}

func near(t time.Time, anchor Anchor) bool {
	if t.IsZero() {
		return false
	}
	return abs(MinutesSinceMidnight(t)-int(anchor)) <= WindowMinutes
}

// FormatAnchor renders the anchor as a clock label like "3:04 PM".
// Unfiltered renders as an empty string.
func FormatAnchor(anchor Anchor) string {
	if anchor == Unfiltered {
		return ""
	}
	t := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(anchor) * time.Minute)
	return t.Format("3:04 PM")
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
