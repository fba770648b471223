package models

import "fmt"

// TimeSlot is one fixed (start, end) pair of the routine catalog.
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

var timeSlots = []TimeSlot{
	{Start: "08:30", End: "10:00"},
	{Start: "10:00", End: "11:30"},
	{Start: "11:30", End: "13:00"},
	{Start: "13:00", End: "14:30"},
	{Start: "14:30", End: "16:00"},
	{Start: "16:00", End: "17:30"},
}

// TimeSlots returns the slot catalog in display order.
func TimeSlots() []TimeSlot {
	out := make([]TimeSlot, len(timeSlots))
	copy(out, timeSlots)
	return out
}

// SlotByStart looks up a catalog slot by its start boundary.
func SlotByStart(start string) (TimeSlot, bool) {
	for _, slot := range timeSlots {
		if slot.Start == start {
			return slot, true
		}
	}
	return TimeSlot{}, false
}

// Label renders the slot as "08:30 - 10:00".
func (s TimeSlot) Label() string {
	return fmt.Sprintf("%s - %s", s.Start, s.End)
}
