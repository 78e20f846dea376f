package assistant

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected Intent
	}{
		{
			name:     "availability keyword",
			text:     "what's free time on 2024-06-01?",
			expected: IntentAvailabilityQuery,
		},
		{
			name:     "availability phrase",
			text:     "When can I book something next week?",
			expected: IntentAvailabilityQuery,
		},
		{
			name:     "open slot",
			text:     "any open slot tomorrow?",
			expected: IntentAvailabilityQuery,
		},
		{
			name:     "booking keyword",
			text:     "book a meeting tomorrow at 3pm",
			expected: IntentBookingRequest,
		},
		{
			name:     "schedule keyword",
			text:     "please schedule a call with bob",
			expected: IntentBookingRequest,
		},
		{
			name:     "set up meeting phrase",
			text:     "can you set up meeting for friday",
			expected: IntentBookingRequest,
		},
		{
			name:     "upcoming keyword",
			text:     "what are my upcoming meetings?",
			expected: IntentListUpcoming,
		},
		{
			name:     "misspelled upcomming",
			text:     "show upcomming events please",
			expected: IntentListUpcoming,
		},
		{
			name:     "show my bookings lists instead of booking",
			text:     "show my bookings",
			expected: IntentListUpcoming,
		},
		{
			name:     "my meetings",
			text:     "what's on my meetings list",
			expected: IntentListUpcoming,
		},
		{
			name:     "no keywords falls back",
			text:     "tell me a joke",
			expected: IntentFallback,
		},
		{
			name:     "empty message falls back",
			text:     "",
			expected: IntentFallback,
		},
		{
			name:     "case insensitive",
			text:     "BOOK a room",
			expected: IntentBookingRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Classify(tt.text))
		})
	}
}

// Rules are evaluated in a fixed order, so a message matching several
// categories resolves to the first one.
func TestClassifyPriorityOrder(t *testing.T) {
	t.Run("availability beats booking", func(t *testing.T) {
		assert.Equal(t, IntentAvailabilityQuery, Classify("book whatever is available tomorrow"))
	})

	t.Run("availability beats listing", func(t *testing.T) {
		assert.Equal(t, IntentAvailabilityQuery, Classify("is there free time before my upcoming meetings?"))
	})

	t.Run("booking beats listing", func(t *testing.T) {
		assert.Equal(t, IntentBookingRequest, Classify("schedule something before my upcoming meetings"))
	})
}

func TestClassifyWordBoundaries(t *testing.T) {
	t.Run("book inside bookings does not match", func(t *testing.T) {
		assert.Equal(t, IntentFallback, Classify("my bookings page looks odd"))
	})

	t.Run("book as a word matches", func(t *testing.T) {
		assert.Equal(t, IntentBookingRequest, Classify("book it"))
	})
}

func TestIntentString(t *testing.T) {
	assert.Equal(t, "availability", IntentAvailabilityQuery.String())
	assert.Equal(t, "booking", IntentBookingRequest.String())
	assert.Equal(t, "upcoming", IntentListUpcoming.String())
	assert.Equal(t, "fallback", IntentFallback.String())
}
