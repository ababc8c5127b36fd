// Package history turns flat meal lists into day buckets, goal progress and
// month calendars. Everything here is pure; callers supply meals and clocks.
package history

import "time"

// CutoffHour is the wall-clock hour a new logical day starts at. Meals eaten
// between midnight and CutoffHour count toward the previous date.
const CutoffHour = 4

// DateLayout is the YYYY-MM-DD key used for days throughout the API.
const DateLayout = "2006-01-02"

// ResolveLogicalDate returns the calendar date timestamp belongs to when its
// local hour is localHour. The result is midnight UTC of that date.
func ResolveLogicalDate(timestamp time.Time, localHour int) time.Time {
	y, m, d := timestamp.Date()
	date := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if localHour >= 0 && localHour < CutoffHour {
		return date.AddDate(0, 0, -1)
	}
	return date
}

// LogicalDate resolves t using its own wall clock. Pass a time carrying the
// client's offset to get the client's logical day.
func LogicalDate(t time.Time) time.Time {
	return ResolveLogicalDate(t, t.Hour())
}

// LogicalDateString is LogicalDate formatted as YYYY-MM-DD.
func LogicalDateString(t time.Time) string {
	return LogicalDate(t).Format(DateLayout)
}

// LogicalDayRange returns the half-open range [logicalToday, logicalToday+1)
// for now. Stored timestamps are filtered against it without further shifting.
func LogicalDayRange(now time.Time) (start, end time.Time) {
	start = LogicalDate(now)
	return start, start.AddDate(0, 0, 1)
}

// LogicalNoon anchors a "logged now" entry at 12:00 UTC of its logical date so
// it lands in the same bucket under raw UTC date grouping.
func LogicalNoon(now time.Time) time.Time {
	return LogicalDate(now).Add(12 * time.Hour)
}

// ParseDate parses a YYYY-MM-DD string as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}
