package scheduling

import (
	"time"

	"github.com/telecare/telecare/internal/domain/doctor"
)

// Slot is a discrete SlotMinutes-aligned candidate start time for a
// consultation on a given date.
type Slot struct {
	Start    time.Time `json:"start"`
	Bookable bool      `json:"bookable"`
}

// buildSlots walks the doctor's windows for one date in SlotMinutes steps and
// marks each candidate bookable unless an active appointment lies strictly
// within SlotDuration of it, or it is less than LeadTime from now.
//
// A slot must fit entirely inside its window: the last candidate start is the
// largest step with start+SlotDuration <= window end, so windows shorter than
// the slot yield nothing and trailing partial minutes are dropped.
func buildSlots(date time.Time, windows []doctor.Window, active []*Appointment, now time.Time) []Slot {
	var slots []Slot
	for _, w := range windows {
		for t := w.Start; int(t)+SlotMinutes <= int(w.End); t += SlotMinutes {
			start := t.OnDate(date)
			slots = append(slots, Slot{
				Start:    start,
				Bookable: slotBookable(start, active, now),
			})
		}
	}
	return slots
}

func slotBookable(start time.Time, active []*Appointment, now time.Time) bool {
	if start.Sub(now) < LeadTime {
		return false
	}
	for _, a := range active {
		if a.ConflictsWith(start) {
			return false
		}
	}
	return true
}
