package usecase

import (
	"time"

	"go-healthbot/pkg/slottime"
	"go-healthbot/pkg/validator"

	"github.com/sirupsen/logrus"
)

type dateProblem int

const (
	dateOK dateProblem = iota
	dateMalformed
	dateInPast
)

const shiftMenu = "1. Morning (09:00 – 12:00)\n2. Evening (16:00 – 19:00)"

// scheduler holds the date, shift and slot rules shared by booking and rescheduling.
type scheduler struct {
	now func() time.Time
	log *logrus.Logger
}

// visitDate accepts today or any later calendar day.
func (s scheduler) visitDate(text string) (time.Time, dateProblem) {
	d, err := validator.ParseDate(text)
	if err != nil {
		return time.Time{}, dateMalformed
	}
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if d.Before(today) {
		return time.Time{}, dateInPast
	}
	return d, dateOK
}

func pickShift(text string) (slottime.Shift, []string, bool) {
	switch text {
	case "1":
		return slottime.ShiftMorning, slottime.Slots(slottime.ShiftMorning), true
	case "2":
		return slottime.ShiftEvening, slottime.Slots(slottime.ShiftEvening), true
	default:
		return "", nil, false
	}
}

// pickSlot returns the label at the 1-based choice. numeric is false when
// text is not a number at all.
func pickSlot(text string, slots []string) (label string, numeric bool, ok bool) {
	n, numeric := parseChoice(text)
	if !numeric {
		return "", false, false
	}
	if n < 1 || n > len(slots) {
		return "", true, false
	}
	return slots[n-1], true, true
}

// slotTime places the start of label on date. An undecodable label falls
// back to slottime.DefaultStart so the write still goes through.
func (s scheduler) slotTime(date time.Time, label string) time.Time {
	start, err := slottime.Decode(label)
	if err != nil {
		s.log.WithField("slot", label).Warnf("Failed to decode slot label, using default start %s: %+v", slottime.DefaultStart, err)
		start = slottime.DefaultStart
	}
	return start.On(date)
}
