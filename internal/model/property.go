package model

// PropertyStatus values come from the property catalog.  Only available
// properties accept new bookings.
const (
    PropertyAvailable   = "available"
    PropertyUnavailable = "unavailable"
    PropertyArchived    = "archived"
)

// Property is the read-only catalog view of a listing.  The catalog owns
// the row; this service only reads the fields it needs for validation and
// pricing.  Zero weekend or high-season rates mean "not defined".
type Property struct {
    ID                  uint64 `json:"id"`                     // properties.id
    OwnerID             uint64 `json:"owner_id"`               // properties.owner_id
    OwnerEmail          string `json:"-"`                      // properties.owner_email
    Title               string `json:"title"`                  // properties.title
    Status              string `json:"status"`                 // properties.status
    MaxGuests           int    `json:"max_guests"`             // properties.max_guests
    BaseRateCents       int64  `json:"base_rate_cents"`        // properties.base_rate_cents
    WeekendRateCents    int64  `json:"weekend_rate_cents"`     // properties.weekend_rate_cents
    HighSeasonRateCents int64  `json:"high_season_rate_cents"` // properties.high_season_rate_cents
}
