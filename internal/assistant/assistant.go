package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/omriShneor/tailortalk/internal/gcal"
)

const upcomingMaxResults = 5

// Calendar is the calendar backend the assistant reads from and books against.
type Calendar interface {
	ListUpcoming(calendarID string, maxResults int64) ([]gcal.EventDetails, error)
	ListEventsInRange(calendarID string, timeMin, timeMax time.Time) ([]gcal.EventDetails, error)
	CreateEvent(calendarID string, input gcal.EventInput) (*gcal.EventDetails, error)
}

// Responder produces a free-form reply when no heuristic intent matches.
type Responder interface {
	Dispatch(ctx context.Context, message string) (string, error)
}

// Notifier delivers booking confirmations to extracted attendees.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, booking Booking) error
	IsConfigured() bool
}

// Config holds the assistant's calendar target and booking window.
type Config struct {
	CalendarID string
	Hours      WorkingHours
}

// Assistant runs one conversational turn at a time. It keeps no state across
// turns; prior messages never influence classification.
type Assistant struct {
	calendar Calendar
	llm      Responder
	notifier Notifier
	cfg      Config
	now      func() time.Time
}

func New(calendar Calendar, llm Responder, notifier Notifier, cfg Config) *Assistant {
	if cfg.CalendarID == "" {
		cfg.CalendarID = "primary"
	}
	if cfg.Hours == (WorkingHours{}) {
		cfg.Hours = DefaultWorkingHours
	}

	return &Assistant{
		calendar: calendar,
		llm:      llm,
		notifier: notifier,
		cfg:      cfg,
		now:      time.Now,
	}
}

// HandleMessage runs one turn: classify, extract, act, reply. It never
// panics outward; every failure comes back as the error return so the
// transport can shape it into an error reply instead of crashing.
func (a *Assistant) HandleMessage(ctx context.Context, message string) (reply string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("unhandled turn failure: %v", r)
		}
	}()

	if strings.TrimSpace(message) == "" {
		return "Please enter a message.", nil
	}

	switch Classify(message) {
	case IntentAvailabilityQuery:
		return a.replyAvailability(message)
	case IntentBookingRequest:
		return a.replyBooking(ctx, message)
	case IntentListUpcoming:
		return a.replyUpcoming()
	default:
		if a.llm == nil {
			return "", fmt.Errorf("no language model configured")
		}
		return a.llm.Dispatch(ctx, message)
	}
}

// Availability fetches the day's busy intervals from the calendar and plans
// free slots. Shared between the chat path and the /availability endpoint.
func (a *Assistant) Availability(day time.Time, durationMinutes int) ([]FreeSlot, error) {
	if a.calendar == nil {
		return nil, fmt.Errorf("calendar service not configured")
	}

	windowStart, windowEnd := a.cfg.Hours.Window(day)
	events, err := a.calendar.ListEventsInRange(a.cfg.CalendarID, windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch busy intervals: %w", err)
	}

	return PlanAvailability(day, durationMinutes, busyFromEvents(events), a.cfg.Hours), nil
}

// busyFromEvents keeps only events with concrete start and end times;
// all-day events never block availability.
func busyFromEvents(events []gcal.EventDetails) []BusyInterval {
	var busy []BusyInterval
	for _, e := range events {
		if e.AllDay || e.EndTime == nil {
			continue
		}
		busy = append(busy, BusyInterval{Start: e.StartTime, End: *e.EndTime})
	}
	return busy
}

func (a *Assistant) replyAvailability(message string) (string, error) {
	day := ExtractDate(message, a.now())
	slots, err := a.Availability(day, 60)
	if err != nil {
		return "", err
	}

	dateStr := day.Format("2006-01-02")
	if len(slots) == 0 {
		return fmt.Sprintf("Sorry, there are no available slots for %s.", dateStr), nil
	}

	lines := make([]string, len(slots))
	for i, s := range slots {
		lines[i] = fmt.Sprintf("%s to %s",
			s.Start.Format("2006-01-02T15:04:05"),
			s.End.Format("2006-01-02T15:04:05"))
	}
	return fmt.Sprintf("Here are the available slots for %s:\n%s", dateStr, strings.Join(lines, "\n")), nil
}

func (a *Assistant) replyBooking(ctx context.Context, message string) (string, error) {
	if a.calendar == nil {
		return "", fmt.Errorf("calendar service not configured")
	}

	booking := BuildBooking(Extract(message, a.now()))

	// Attendees are not attached to the calendar event; they live in the
	// description note and get a confirmation email instead.
	_, err := a.calendar.CreateEvent(a.cfg.CalendarID, gcal.EventInput{
		Summary:     booking.Summary,
		Description: booking.Description,
		StartTime:   booking.Start,
		EndTime:     booking.End,
	})
	if err != nil {
		return "", fmt.Errorf("failed to book meeting: %w", err)
	}

	if a.notifier != nil && a.notifier.IsConfigured() && len(booking.Attendees) > 0 {
		if err := a.notifier.SendBookingConfirmation(ctx, booking); err != nil {
			fmt.Printf("Warning: attendee confirmation email failed: %v\n", err)
		}
	}

	return booking.ConfirmationMessage(), nil
}

func (a *Assistant) replyUpcoming() (string, error) {
	if a.calendar == nil {
		return "", fmt.Errorf("calendar service not configured")
	}

	events, err := a.calendar.ListUpcoming(a.cfg.CalendarID, upcomingMaxResults)
	if err != nil {
		return "", fmt.Errorf("failed to fetch upcoming events: %w", err)
	}

	if len(events) == 0 {
		return "You have no upcoming bookings.", nil
	}

	lines := make([]string, len(events))
	for i, e := range events {
		summary := e.Summary
		if summary == "" {
			summary = "No Title"
		}
		start := e.StartTime.Format("2006-01-02T15:04:05")
		if e.AllDay {
			start = e.StartTime.Format("2006-01-02")
		}
		lines[i] = fmt.Sprintf("%s at %s", summary, start)
	}
	return "Here are your next bookings:\n" + strings.Join(lines, "\n"), nil
}
