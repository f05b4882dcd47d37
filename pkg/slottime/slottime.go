// Package slottime converts between one-hour slot labels such as
// "09:00-10:00 AM" and the time of day the slot starts.
package slottime

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidLabel = errors.New("invalid slot label")

// DefaultStart is used by callers when a label cannot be decoded.
var DefaultStart = TimeOfDay{Hour: 9}

type Shift string

const (
	ShiftMorning Shift = "Morning"
	ShiftEvening Shift = "Evening"
)

var shiftStartHours = map[Shift][]int{
	ShiftMorning: {9, 10, 11},
	ShiftEvening: {16, 17, 18},
}

// start meridiem is optional: "11:00 AM-12:00 PM" and "04:00-05:00 PM" are both valid
var labelRegex = regexp.MustCompile(`(?i)^\s*(\d{1,2}):(\d{2})\s*(AM|PM)?\s*-\s*(\d{1,2}):(\d{2})\s*(AM|PM)\s*$`)

// TimeOfDay is a wall-clock time in 24-hour form.
type TimeOfDay struct {
	Hour   int
	Minute int
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// On combines the calendar date of d with t, keeping d's location.
func (t TimeOfDay) On(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour, t.Minute, 0, 0, d.Location())
}

func (t TimeOfDay) minutes() int {
	return t.Hour*60 + t.Minute
}

// Decode returns the start of the window described by label.
func Decode(label string) (TimeOfDay, error) {
	m := labelRegex.FindStringSubmatch(label)
	if m == nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}

	endMarker := strings.ToUpper(m[6])
	startMarker := strings.ToUpper(m[3])
	if startMarker == "" {
		startMarker = endMarker
	}

	start, err := clock(m[1], m[2], startMarker)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}
	end, err := clock(m[4], m[5], endMarker)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidLabel, label)
	}

	// "11:00-12:00 PM" starts in the morning
	if start.minutes() > end.minutes() && start.Hour >= 12 {
		start.Hour -= 12
	}

	return start, nil
}

// Encode renders the one-hour window starting at start.
func Encode(start TimeOfDay) string {
	end := TimeOfDay{Hour: (start.Hour + 1) % 24, Minute: start.Minute}

	startClock, startMarker := twelveHour(start)
	endClock, endMarker := twelveHour(end)
	if startMarker == endMarker {
		return fmt.Sprintf("%s-%s %s", startClock, endClock, endMarker)
	}
	return fmt.Sprintf("%s %s-%s %s", startClock, startMarker, endClock, endMarker)
}

// Slots returns the bookable labels for a shift, in order.
func Slots(shift Shift) []string {
	hours := shiftStartHours[shift]
	labels := make([]string, 0, len(hours))
	for _, h := range hours {
		labels = append(labels, Encode(TimeOfDay{Hour: h}))
	}
	return labels
}

func clock(hour, minute, marker string) (TimeOfDay, error) {
	h, err := strconv.Atoi(hour)
	if err != nil || h < 1 || h > 12 {
		return TimeOfDay{}, ErrInvalidLabel
	}
	m, err := strconv.Atoi(minute)
	if err != nil || m > 59 {
		return TimeOfDay{}, ErrInvalidLabel
	}

	h %= 12
	if marker == "PM" {
		h += 12
	}
	return TimeOfDay{Hour: h, Minute: m}, nil
}

func twelveHour(t TimeOfDay) (string, string) {
	marker := "AM"
	if t.Hour >= 12 {
		marker = "PM"
	}
	h := t.Hour % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%02d:%02d", h, t.Minute), marker
}
