package model

import "time"

// IntervalSource names where an occupied interval comes from.
type IntervalSource string

const (
    SourceBooking IntervalSource = "booking"
    SourceBlock   IntervalSource = "block"
)

// Interval is an occupied date range with inclusive bounds.  BookingID is
// set for bookings and for blocks auto-created by a booking; BlockID only
// for blocks.
type Interval struct {
    Start     time.Time      `json:"start"`
    End       time.Time      `json:"end"`
    Source    IntervalSource `json:"source"`
    BookingID *uint64        `json:"-"`
    BlockID   *uint64        `json:"-"`
}
