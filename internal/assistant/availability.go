package assistant

import "time"

// WorkingHours is the fixed daily booking window.
type WorkingHours struct {
	StartHour int
	EndHour   int
}

// DefaultWorkingHours is the 09:00-17:00 booking window.
var DefaultWorkingHours = WorkingHours{StartHour: 9, EndHour: 17}

// Window returns the working-hours window on the given day.
func (h WorkingHours) Window(day time.Time) (start, end time.Time) {
	start = time.Date(day.Year(), day.Month(), day.Day(), h.StartHour, 0, 0, 0, day.Location())
	end = time.Date(day.Year(), day.Month(), day.Day(), h.EndHour, 0, 0, 0, day.Location())
	return start, end
}

// FreeSlot is a bookable half-open interval inside the working-hours window.
type FreeSlot struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// BusyInterval is a blocked interval sourced from the calendar.
type BusyInterval struct {
	Start time.Time
	End   time.Time
}

// PlanAvailability walks the working-hours window on the given day in fixed
// duration-sized steps and returns every candidate slot that overlaps no busy
// interval. Slots are quantized to duration multiples from the window start;
// a final period shorter than the duration is never offered.
func PlanAvailability(day time.Time, durationMinutes int, busy []BusyInterval, hours WorkingHours) []FreeSlot {
	if durationMinutes <= 0 {
		durationMinutes = 60
	}
	duration := time.Duration(durationMinutes) * time.Minute
	windowStart, windowEnd := hours.Window(day)

	slots := []FreeSlot{}
	for cursor := windowStart; !cursor.Add(duration).After(windowEnd); cursor = cursor.Add(duration) {
		slotEnd := cursor.Add(duration)
		if !overlapsAny(cursor, slotEnd, busy) {
			slots = append(slots, FreeSlot{Start: cursor, End: slotEnd})
		}
	}
	return slots
}

func overlapsAny(start, end time.Time, busy []BusyInterval) bool {
	for _, b := range busy {
		if start.Before(b.End) && end.After(b.Start) {
			return true
		}
	}
	return false
}
