package assistant

import (
	"fmt"
	"strings"
	"time"
)

const bookingDescription = "Booked via TailorTalk bot."

// Booking is a fully-resolved booking derived from extracted slots.
type Booking struct {
	Start       time.Time
	End         time.Time
	Summary     string
	Description string
	Attendees   []string
}

// BuildBooking resolves extracted slots into a concrete booking. The start
// is the extracted date at the extracted clock time; the end is start plus
// the extracted duration. Attendees are recorded in the description note
// only, never as structured invitees.
func BuildBooking(slots ExtractedSlots) Booking {
	start := time.Date(slots.Date.Year(), slots.Date.Month(), slots.Date.Day(),
		slots.Hour, slots.Minute, 0, 0, slots.Date.Location())
	end := start.Add(time.Duration(slots.DurationMinutes) * time.Minute)

	return Booking{
		Start:       start,
		End:         end,
		Summary:     slots.Title,
		Description: bookingDescription + attendeeNote(slots.Attendees),
		Attendees:   slots.Attendees,
	}
}

func attendeeNote(attendees []string) string {
	if len(attendees) == 0 {
		return ""
	}
	return fmt.Sprintf(" Attendees: %s.", strings.Join(attendees, ", "))
}

// ConfirmationMessage formats the user-facing booking confirmation.
func (b Booking) ConfirmationMessage() string {
	reply := fmt.Sprintf("Your meeting '%s' is booked for %s to %s!",
		b.Summary,
		b.Start.Format("2006-01-02 03:04 PM"),
		b.End.Format("03:04 PM"))
	if len(b.Attendees) > 0 {
		reply += fmt.Sprintf(" (Attendees: %s)", strings.Join(b.Attendees, ", "))
	}
	return reply
}
