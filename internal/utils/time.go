package utils

import (
	"fmt"
	"time"
)

// DateLayout is the calendar date format accepted from callers
const DateLayout = "2006-01-02"

// DayWindow returns [start, end) of the calendar day containing t in loc
func DayWindow(t time.Time, loc *time.Location) (time.Time, time.Time) {
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}

// ParseDay parses a YYYY-MM-DD date in loc and returns its window
func ParseDay(date string, loc *time.Location) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation(DateLayout, date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}
	start, end := DayWindow(day, loc)
	return start, end, nil
}
