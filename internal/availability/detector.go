// Package availability decides whether a property is free over a date
// range.  Occupancy comes from binding bookings (confirmed, in progress)
// and active availability blocks; pending requests never occupy dates.
//
// All comparisons use inclusive bounds, so a stay that checks out on the
// day another checks in is a conflict.  Same-day turnover is not allowed.
package availability

import (
    "context"
    "time"

    "github.com/iliyamo/stay-reservation/internal/model"
)

// IntervalSource loads the occupied intervals of a property that may
// touch [start, end].  A source may over-fetch; the detector applies the
// exact test.  Both the pooled database and an open transaction satisfy
// this interface, so the same detector serves lock-free reads and the
// re-check inside a booking transaction.
type IntervalSource interface {
    Intervals(ctx context.Context, propertyID uint64, start, end time.Time) ([]model.Interval, error)
}

// Detector answers conflict queries for one interval source.
type Detector struct {
    src IntervalSource
}

// NewDetector returns a Detector reading from src.
func NewDetector(src IntervalSource) *Detector {
    return &Detector{src: src}
}

// Exclude drops intervals that belong to a booking from consideration.
// A booking being confirmed must not conflict with its own auto-block.
type Exclude struct {
    BookingID uint64
}

// HasConflict reports whether [start, end] overlaps any binding booking
// or active block on the property.
func (d *Detector) HasConflict(ctx context.Context, propertyID uint64, start, end time.Time) (bool, error) {
    hits, err := d.Conflicts(ctx, propertyID, start, end, Exclude{})
    if err != nil {
        return false, err
    }
    return len(hits) > 0, nil
}

// Conflicts returns the intervals that overlap [start, end], skipping
// anything tied to ex.BookingID when it is non-zero.
func (d *Detector) Conflicts(ctx context.Context, propertyID uint64, start, end time.Time, ex Exclude) ([]model.Interval, error) {
    existing, err := d.src.Intervals(ctx, propertyID, model.Date(start), model.Date(end))
    if err != nil {
        return nil, err
    }
    return Conflicting(existing, model.Interval{Start: start, End: end}, ex), nil
}

// Occupied lists the intervals that intersect [from, to], for calendars.
func (d *Detector) Occupied(ctx context.Context, propertyID uint64, from, to time.Time) ([]model.Interval, error) {
    return d.Conflicts(ctx, propertyID, from, to, Exclude{})
}

// Conflicting filters existing down to the intervals overlapping candidate.
func Conflicting(existing []model.Interval, candidate model.Interval, ex Exclude) []model.Interval {
    var out []model.Interval
    for _, iv := range existing {
        if ex.BookingID != 0 && iv.BookingID != nil && *iv.BookingID == ex.BookingID {
            continue
        }
        if Overlaps(iv, candidate) {
            out = append(out, iv)
        }
    }
    return out
}

// Overlaps applies the three inclusive tests: existing starts inside the
// candidate, existing ends inside the candidate, or existing encloses it.
func Overlaps(existing, candidate model.Interval) bool {
    es, ee := model.Date(existing.Start), model.Date(existing.End)
    cs, ce := model.Date(candidate.Start), model.Date(candidate.End)
    switch {
    case within(es, cs, ce):
        return true
    case within(ee, cs, ce):
        return true
    case !es.After(cs) && !ee.Before(ce):
        return true
    }
    return false
}

func within(d, lo, hi time.Time) bool {
    return !d.Before(lo) && !d.After(hi)
}
