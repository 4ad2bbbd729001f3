package model

import (
    "math"
    "time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Date drops the clock part of t, keeping its calendar day, and returns
// the day at UTC midnight.  All stored dates use this form.
func Date(t time.Time) time.Time {
    y, m, d := t.Date()
    return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a UTC midnight date.
func ParseDate(s string) (time.Time, error) {
    return time.ParseInLocation(DateLayout, s, time.UTC)
}

// Nights returns ceil((checkOut - checkIn) in days).
func Nights(checkIn, checkOut time.Time) int {
    return int(math.Ceil(Date(checkOut).Sub(Date(checkIn)).Hours() / 24))
}

// DaysBetween returns the whole number of calendar days from a to b.
// It is negative when b is before a.
func DaysBetween(a, b time.Time) int {
    return int(math.Round(Date(b).Sub(Date(a)).Hours() / 24))
}
