package assistant

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultTitle is the event summary used when no title can be extracted.
const DefaultTitle = "Meeting"

var (
	dateRe     = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	timeRe     = regexp.MustCompile(`(?i)\d{1,2}(:\d{2})? ?(am|pm)?`)
	hourRe     = regexp.MustCompile(`\d{1,2}`)
	durationRe = regexp.MustCompile(`(\d+) ?(hour|hr|minute|min)`)
	emailRe    = regexp.MustCompile(`[\w.\-]+@[\w.\-]+`)
	quotedRe   = regexp.MustCompile(`"([^"]+)"|'([^']+)'`)
	withRe     = regexp.MustCompile(`with ([\w ]+)`)
)

// ExtractedSlots holds the structured fields pulled out of a free-text
// message. Every field has a safe default, so extraction never fails; a
// missing signal falls back to the default instead of erroring.
type ExtractedSlots struct {
	Date            time.Time // calendar date at midnight
	Hour            int
	Minute          int
	DurationMinutes int
	Attendees       []string
	Title           string
}

// Extract runs all sub-extractions over the message. Each sub-extraction is
// independent of the others.
func Extract(text string, now time.Time) ExtractedSlots {
	hour, minute := ExtractTime(text)
	return ExtractedSlots{
		Date:            ExtractDate(text, now),
		Hour:            hour,
		Minute:          minute,
		DurationMinutes: ExtractDuration(text),
		Attendees:       ExtractAttendees(text),
		Title:           ExtractTitle(text),
	}
}

// ExtractDate returns the first YYYY-MM-DD date in the text, else tomorrow's
// date if the text mentions "tomorrow", else today's date.
func ExtractDate(text string, now time.Time) time.Time {
	if match := dateRe.FindString(text); match != "" {
		if d, err := time.ParseInLocation("2006-01-02", match, now.Location()); err == nil {
			return d
		}
	}

	day := now
	if strings.Contains(strings.ToLower(text), "tomorrow") {
		day = now.AddDate(0, 0, 1)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, now.Location())
}

// ExtractTime returns the hour and minute of the first time-like token,
// defaulting to 9:00. A pm suffix adds 12 unless the hour is already 12; an
// am suffix maps 12 to 0. A bare "12" stays 12 (noon) since no am/pm
// adjustment applies without a suffix.
func ExtractTime(text string) (hour, minute int) {
	hour, minute = 9, 0

	token := timeRe.FindString(text)
	if token == "" {
		return hour, minute
	}

	t := strings.ToLower(strings.ReplaceAll(token, " ", ""))
	if digits := hourRe.FindString(t); digits != "" {
		if h, err := strconv.Atoi(digits); err == nil {
			hour = h
		}
	}

	if strings.Contains(t, "pm") && hour != 12 {
		hour += 12
	}
	if strings.Contains(t, "am") && hour == 12 {
		hour = 0
	}

	if idx := strings.Index(t, ":"); idx >= 0 {
		minutePart := t[idx+1:]
		if end := strings.IndexFunc(minutePart, func(r rune) bool { return r < '0' || r > '9' }); end >= 0 {
			minutePart = minutePart[:end]
		}
		if m, err := strconv.Atoi(minutePart); err == nil {
			minute = m
		}
	}

	return hour, minute
}

// ExtractDuration returns the requested duration in minutes, defaulting to 60.
func ExtractDuration(text string) int {
	m := durationRe.FindStringSubmatch(text)
	if m == nil {
		return 60
	}

	val, err := strconv.Atoi(m[1])
	if err != nil {
		return 60
	}
	if strings.Contains(m[2], "min") {
		return val
	}
	return val * 60
}

// ExtractAttendees returns every email address in the text, in order of
// appearance.
func ExtractAttendees(text string) []string {
	return emailRe.FindAllString(text, -1)
}

// ExtractTitle returns the first quoted substring, else the title-cased text
// after the word "with", else DefaultTitle.
func ExtractTitle(text string) string {
	if m := quotedRe.FindStringSubmatch(text); m != nil {
		if m[1] != "" {
			return m[1]
		}
		return m[2]
	}

	if m := withRe.FindStringSubmatch(text); m != nil {
		// cases.Caser carries transformer state, so each call gets its own
		// instead of sharing one across concurrent turns.
		return cases.Title(language.English).String(strings.TrimSpace(m[1]))
	}

	return DefaultTitle
}
