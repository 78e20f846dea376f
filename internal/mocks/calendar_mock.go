package mocks

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/omriShneor/tailortalk/internal/gcal"
)

// InMemoryCalendar is a seedable stand-in for the Google Calendar client.
// The test server uses it so the chat flow can be exercised end to end
// without service account credentials.
type InMemoryCalendar struct {
	mu     sync.Mutex
	nextID int
	events []gcal.EventDetails
	now    func() time.Time
}

func NewInMemoryCalendar() *InMemoryCalendar {
	return &InMemoryCalendar{now: time.Now}
}

// Seed adds a busy event without going through CreateEvent, for test setup.
func (c *InMemoryCalendar) Seed(summary string, start, end time.Time) gcal.EventDetails {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.addLocked(summary, "", start, end)
}

// Reset drops every event.
func (c *InMemoryCalendar) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = nil
}

func (c *InMemoryCalendar) addLocked(summary, description string, start, end time.Time) gcal.EventDetails {
	c.nextID++
	endCopy := end
	details := gcal.EventDetails{
		ID:          fmt.Sprintf("mock-%d", c.nextID),
		Summary:     summary,
		Description: description,
		StartTime:   start,
		EndTime:     &endCopy,
		CalendarID:  "mock",
	}
	c.events = append(c.events, details)
	return details
}

func (c *InMemoryCalendar) CreateEvent(calendarID string, input gcal.EventInput) (*gcal.EventDetails, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	details := c.addLocked(input.Summary, input.Description, input.StartTime, input.EndTime)
	return &details, nil
}

func (c *InMemoryCalendar) ListUpcoming(calendarID string, maxResults int64) ([]gcal.EventDetails, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	var result []gcal.EventDetails
	for _, e := range c.events {
		if e.StartTime.Before(now) {
			continue
		}
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime.Before(result[j].StartTime) })

	if maxResults > 0 && int64(len(result)) > maxResults {
		result = result[:maxResults]
	}
	return result, nil
}

func (c *InMemoryCalendar) ListEventsInRange(calendarID string, timeMin, timeMax time.Time) ([]gcal.EventDetails, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var result []gcal.EventDetails
	for _, e := range c.events {
		if e.EndTime == nil {
			continue
		}
		if e.StartTime.Before(timeMax) && e.EndTime.After(timeMin) {
			result = append(result, e)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].StartTime.Before(result[j].StartTime) })
	return result, nil
}
