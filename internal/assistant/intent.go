package assistant

import (
	"regexp"
	"strings"
)

// Intent is the classified purpose of a user message.
type Intent int

const (
	IntentFallback Intent = iota
	IntentAvailabilityQuery
	IntentBookingRequest
	IntentListUpcoming
)

func (i Intent) String() string {
	switch i {
	case IntentAvailabilityQuery:
		return "availability"
	case IntentBookingRequest:
		return "booking"
	case IntentListUpcoming:
		return "upcoming"
	default:
		return "fallback"
	}
}

// intentRule pairs a keyword set with the intent it signals.
type intentRule struct {
	keywords []string
	intent   Intent
}

// intentRules are evaluated in order; the first matching rule wins, so a
// message containing both availability and booking cues is an availability
// query. "upcomming" is a deliberately matched misspelling.
var intentRules = []intentRule{
	{
		keywords: []string{"available", "free slot", "free time", "availability", "when can i book", "open slot"},
		intent:   IntentAvailabilityQuery,
	},
	{
		keywords: []string{"book", "schedule", "reserve", "set up meeting"},
		intent:   IntentBookingRequest,
	},
	{
		keywords: []string{"upcoming", "upcomming", "show my bookings", "my meetings", "next events", "upcoming meetings", "upcomming meetings"},
		intent:   IntentListUpcoming,
	},
}

// Keywords are matched on word boundaries so "bookings" never triggers the
// "book" rule.
var keywordPatterns = make(map[string]*regexp.Regexp)

func init() {
	for _, rule := range intentRules {
		for _, kw := range rule.keywords {
			keywordPatterns[kw] = regexp.MustCompile(`\b` + regexp.QuoteMeta(kw) + `\b`)
		}
	}
}

// Classify routes a message to an intent.
func Classify(text string) Intent {
	normalized := strings.ToLower(text)
	for _, rule := range intentRules {
		if containsAnyKeyword(normalized, rule.keywords) {
			return rule.intent
		}
	}
	return IntentFallback
}

func containsAnyKeyword(text string, keywords []string) bool {
	for _, kw := range keywords {
		if keywordPatterns[kw].MatchString(text) {
			return true
		}
	}
	return false
}
