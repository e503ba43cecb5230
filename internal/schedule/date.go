// Package schedule derives scheduling state from application records: it
// parses the human-readable dates stored on applications and selects the next
// upcoming event together with how far along the user is towards it.
package schedule

import (
	"strings"
	"time"
)

// Layout is the only accepted textual date format ("MMM d, yyyy").
const Layout = "Jan 2, 2006"

// ParseDate parses text in the process-local time zone. Anything that does
// not match Layout, including the empty string, is reported as absent.
func ParseDate(text string) (time.Time, bool) {
	return ParseDateIn(text, time.Local)
}

// ParseDateIn is ParseDate with an explicit location.
func ParseDateIn(text string, loc *time.Location) (time.Time, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(Layout, text, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate renders t in Layout.
func FormatDate(t time.Time) string {
	return t.Format(Layout)
}

// IsFuture reports whether t is strictly after now.
func IsFuture(t, now time.Time) bool {
	return t.After(now)
}
