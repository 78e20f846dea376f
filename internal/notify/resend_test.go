package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omriShneor/tailortalk/internal/assistant"
)

func TestNewResendNotifier(t *testing.T) {
	assert.Nil(t, NewResendNotifier("", "TailorTalk <bookings@tailortalk.app>"))

	n := NewResendNotifier("re_test_key", "TailorTalk <bookings@tailortalk.app>")
	require.NotNil(t, n)
	assert.True(t, n.IsConfigured())
	assert.Equal(t, "resend", n.Name())

	assert.False(t, NewResendNotifier("re_test_key", "").IsConfigured())
}

func TestSendBookingConfirmationNoAttendees(t *testing.T) {
	n := NewResendNotifier("re_test_key", "TailorTalk <bookings@tailortalk.app>")

	err := n.SendBookingConfirmation(context.Background(), assistant.Booking{Summary: "Sync"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no attendees")
}

func TestFormatConfirmationHTML(t *testing.T) {
	booking := assistant.Booking{
		Summary: "Design Review",
		Start:   time.Date(2024, 6, 1, 15, 0, 0, 0, time.UTC),
		End:     time.Date(2024, 6, 1, 15, 30, 0, 0, time.UTC),
	}

	html := formatConfirmationHTML(booking)

	assert.Contains(t, html, "Design Review")
	assert.Contains(t, html, "Saturday, June 1, 2024 at 3:00 PM")
	assert.Contains(t, html, "- 3:30 PM")
	assert.NotContains(t, html, "at 3:30 PM", "same-day end shows time only")
}

func TestFormatConfirmationHTMLCrossMidnight(t *testing.T) {
	booking := assistant.Booking{
		Summary: "Offsite",
		Start:   time.Date(2024, 6, 1, 23, 0, 0, 0, time.UTC),
		End:     time.Date(2024, 6, 2, 1, 0, 0, 0, time.UTC),
	}

	html := formatConfirmationHTML(booking)

	assert.Contains(t, html, "Sunday, June 2, 2024 at 1:00 AM")
}
