package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RelativeTime renders a Slack "sec.usec" timestamp as a human-readable
// string relative to now, per spec §4.5. Non-numeric input is returned
// unchanged.
func RelativeTime(slackTS string, now time.Time) string {
	secs, err := strconv.ParseFloat(slackTS, 64)
	if err != nil {
		return slackTS
	}

	t := time.Unix(0, int64(secs*float64(time.Second))).In(now.Location())
	delta := now.Sub(t)

	switch {
	case delta < 60*time.Second:
		return "just now"
	case delta < 60*time.Minute:
		mins := int(delta / time.Minute)
		return fmt.Sprintf("%d min ago", mins)
	}

	startOfToday := startOfDay(now)
	startOfMsgDay := startOfDay(t)

	switch {
	case startOfMsgDay.Equal(startOfToday):
		return "today at " + clockString(t)
	case startOfMsgDay.Equal(startOfToday.AddDate(0, 0, -1)):
		return "yesterday at " + clockString(t)
	case !startOfMsgDay.Before(startOfToday.AddDate(0, 0, -6)):
		return t.Weekday().String() + " at " + clockString(t)
	case t.Year() == now.Year():
		return fmt.Sprintf("%s %d at %s", t.Month().String()[:3], t.Day(), clockString(t))
	default:
		return fmt.Sprintf("%s %d, %d at %s", t.Month().String()[:3], t.Day(), t.Year(), clockString(t))
	}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func clockString(t time.Time) string {
	hour := t.Hour() % 12
	if hour == 0 {
		hour = 12
	}
	ampm := "AM"
	if t.Hour() >= 12 {
		ampm = "PM"
	}
	return fmt.Sprintf("%d:%02d %s", hour, t.Minute(), ampm)
}

// ParseSlackTimestamp converts a Slack "sec.usec" timestamp to a time.Time
// in UTC, for callers that need the instant rather than a rendered string.
// The tool handlers render timestamps through RelativeTime instead.
func ParseSlackTimestamp(slackTS string) (time.Time, error) {
	parts := strings.SplitN(slackTS, ".", 2)
	secs, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid slack timestamp %q: %w", slackTS, err)
	}
	var micros int64
	if len(parts) == 2 {
		// Pad/truncate to exactly 6 digits of microseconds.
		frac := parts[1]
		for len(frac) < 6 {
			frac += "0"
		}
		frac = frac[:6]
		micros, _ = strconv.ParseInt(frac, 10, 64)
	}
	return time.Unix(secs, micros*1000).UTC(), nil
}
