package services

import (
	"fmt"
	"time"
)

type window struct {
	startHour, startMinute int
	endHour, endMinute     int
}

// Business windows, both ends inclusive.
var businessWindows = []window{
	{8, 0, 11, 30},
	{14, 0, 18, 0},
}

const slotStep = 30 * time.Minute

// SlotsFor lists the bookable half-hour labels for date. Saturdays and Sundays have
// none. The result does not look at existing bookings; see AppointmentService.OpenSlots.
func SlotsFor(date time.Time) []string {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return []string{}
	}

	slots := make([]string, 0, 17)
	for _, w := range businessWindows {
		start := time.Date(2000, 1, 1, w.startHour, w.startMinute, 0, 0, time.UTC)
		end := time.Date(2000, 1, 1, w.endHour, w.endMinute, 0, 0, time.UTC)
		for t := start; !t.After(end); t = t.Add(slotStep) {
			slots = append(slots, fmt.Sprintf("%02d:%02d", t.Hour(), t.Minute()))
		}
	}
	return slots
}

func isSlotFor(date time.Time, label string) bool {
	for _, slot := range SlotsFor(date) {
		if slot == label {
			return true
		}
	}
	return false
}
