package gcal

import (
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
)

// EventInput represents the input for creating a calendar event
type EventInput struct {
	Summary     string
	Description string
	StartTime   time.Time
	EndTime     time.Time
	Attendees   []string // Email addresses of attendees
}

// EventDetails represents a single Google Calendar event.
type EventDetails struct {
	ID          string     `json:"id"`
	Summary     string     `json:"summary"`
	Description string     `json:"description,omitempty"`
	StartTime   time.Time  `json:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty"`
	AllDay      bool       `json:"all_day"`
	CalendarID  string     `json:"calendar_id"`
}

func parseEventTimes(item *calendar.Event, loc *time.Location) (time.Time, time.Time, bool, error) {
	if item == nil || item.Start == nil || item.End == nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("event is missing start or end")
	}

	// All-day events use Date instead of DateTime.
	if item.Start.Date != "" {
		startDate, err := time.ParseInLocation("2006-01-02", item.Start.Date, loc)
		if err != nil {
			return time.Time{}, time.Time{}, false, fmt.Errorf("failed to parse all-day start date: %w", err)
		}
		endDate, err := time.ParseInLocation("2006-01-02", item.End.Date, loc)
		if err != nil {
			return time.Time{}, time.Time{}, false, fmt.Errorf("failed to parse all-day end date: %w", err)
		}
		return startDate, endDate, true, nil
	}

	if item.Start.DateTime == "" || item.End.DateTime == "" {
		return time.Time{}, time.Time{}, false, fmt.Errorf("event datetime is missing")
	}

	startTime, err := time.Parse(time.RFC3339, item.Start.DateTime)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("failed to parse start datetime: %w", err)
	}
	endTime, err := time.Parse(time.RFC3339, item.End.DateTime)
	if err != nil {
		return time.Time{}, time.Time{}, false, fmt.Errorf("failed to parse end datetime: %w", err)
	}

	return startTime, endTime, false, nil
}

func eventDetailsFromItem(item *calendar.Event, calendarID string, loc *time.Location) (EventDetails, error) {
	startTime, endTime, allDay, err := parseEventTimes(item, loc)
	if err != nil {
		return EventDetails{}, err
	}

	endCopy := endTime
	return EventDetails{
		ID:          item.Id,
		Summary:     item.Summary,
		Description: item.Description,
		StartTime:   startTime,
		EndTime:     &endCopy,
		AllDay:      allDay,
		CalendarID:  calendarID,
	}, nil
}

// CreateEvent creates a new event in Google Calendar and returns its details
func (c *Client) CreateEvent(calendarID string, input EventInput) (*EventDetails, error) {
	if c.service == nil {
		return nil, fmt.Errorf("calendar service not initialized")
	}

	if calendarID == "" {
		calendarID = "primary"
	}

	// RFC3339 format includes timezone offset, so Google Calendar can infer the timezone
	event := &calendar.Event{
		Summary:     input.Summary,
		Description: input.Description,
		Start: &calendar.EventDateTime{
			DateTime: input.StartTime.Format(time.RFC3339),
		},
		End: &calendar.EventDateTime{
			DateTime: input.EndTime.Format(time.RFC3339),
		},
	}

	if len(input.Attendees) > 0 {
		attendees := make([]*calendar.EventAttendee, len(input.Attendees))
		for i, email := range input.Attendees {
			attendees[i] = &calendar.EventAttendee{Email: email}
		}
		event.Attendees = attendees
	}

	created, err := c.service.Events.Insert(calendarID, event).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	details, err := eventDetailsFromItem(created, calendarID, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created event: %w", err)
	}
	return &details, nil
}

// ListEvents returns the first events on the calendar, ordered by start time.
func (c *Client) ListEvents(calendarID string, maxResults int64) ([]EventDetails, error) {
	if c.service == nil {
		return nil, fmt.Errorf("calendar service not initialized")
	}
	if calendarID == "" {
		calendarID = "primary"
	}

	events, err := c.service.Events.List(calendarID).
		MaxResults(maxResults).
		SingleEvents(true).
		OrderBy("startTime").
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	return collectEventDetails(events.Items, calendarID), nil
}

// ListUpcoming returns the next events starting from now, ordered by start time.
func (c *Client) ListUpcoming(calendarID string, maxResults int64) ([]EventDetails, error) {
	if c.service == nil {
		return nil, fmt.Errorf("calendar service not initialized")
	}
	if calendarID == "" {
		calendarID = "primary"
	}

	events, err := c.service.Events.List(calendarID).
		TimeMin(time.Now().UTC().Format(time.RFC3339)).
		MaxResults(maxResults).
		SingleEvents(true).
		OrderBy("startTime").
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming events: %w", err)
	}

	return collectEventDetails(events.Items, calendarID), nil
}

// ListEventsInRange returns events in a time window from Google Calendar.
func (c *Client) ListEventsInRange(calendarID string, timeMin, timeMax time.Time) ([]EventDetails, error) {
	if c.service == nil {
		return nil, fmt.Errorf("calendar service not initialized")
	}
	if timeMax.Before(timeMin) {
		return nil, fmt.Errorf("invalid range: time_max is before time_min")
	}
	if calendarID == "" {
		calendarID = "primary"
	}

	var result []EventDetails
	pageToken := ""

	for {
		call := c.service.Events.List(calendarID).
			TimeMin(timeMin.Format(time.RFC3339)).
			TimeMax(timeMax.Format(time.RFC3339)).
			SingleEvents(true).
			ShowDeleted(false).
			OrderBy("startTime")
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		events, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("failed to list events in range: %w", err)
		}

		result = append(result, collectEventDetails(events.Items, calendarID)...)

		if events.NextPageToken == "" {
			break
		}
		pageToken = events.NextPageToken
	}

	return result, nil
}

func collectEventDetails(items []*calendar.Event, calendarID string) []EventDetails {
	result := make([]EventDetails, 0, len(items))
	for _, item := range items {
		if item == nil || item.Status == "cancelled" {
			continue
		}

		details, err := eventDetailsFromItem(item, calendarID, time.UTC)
		if err != nil {
			// Skip malformed events rather than failing the whole request.
			continue
		}
		result = append(result, details)
	}
	return result
}
