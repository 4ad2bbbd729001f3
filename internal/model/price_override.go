package model

import "time"

// PriceOverride carries a custom nightly rate for an inclusive date range.
// When several overrides cover the same day the highest Priority wins and
// ties go to the most recently created one.
type PriceOverride struct {
    ID                 uint64    `json:"id"`                    // price_overrides.id
    PropertyID         uint64    `json:"property_id"`           // price_overrides.property_id
    StartDate          time.Time `json:"start_date"`            // price_overrides.start_date
    EndDate            time.Time `json:"end_date"`              // price_overrides.end_date
    PricePerNightCents int64     `json:"price_per_night_cents"` // price_overrides.price_per_night_cents
    Priority           int       `json:"priority"`              // price_overrides.priority
    Description        string    `json:"description"`           // price_overrides.description
    CreatedAt          time.Time `json:"created_at"`            // price_overrides.created_at
    UpdatedAt          time.Time `json:"updated_at"`            // price_overrides.updated_at
}

// Covers reports whether day falls inside the override's range.
func (o PriceOverride) Covers(day time.Time) bool {
    d := Date(day)
    return !d.Before(Date(o.StartDate)) && !d.After(Date(o.EndDate))
}
