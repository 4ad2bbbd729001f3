// Package pricing resolves nightly rates and computes booking totals.
package pricing

import (
    "context"
    "sort"
    "time"

    "github.com/iliyamo/stay-reservation/internal/model"
)

// Season lists the months in which a property's high-season rate applies.
type Season struct {
    months map[time.Month]bool
}

// NewSeason builds a Season from a month list.
func NewSeason(months ...time.Month) Season {
    s := Season{months: make(map[time.Month]bool, len(months))}
    for _, m := range months {
        s.months[m] = true
    }
    return s
}

// Contains reports whether day falls in a high-season month.
func (s Season) Contains(day time.Time) bool {
    return s.months[day.Month()]
}

// IsWeekend reports Friday, Saturday and Sunday nights.
func IsWeekend(day time.Time) bool {
    switch day.Weekday() {
    case time.Friday, time.Saturday, time.Sunday:
        return true
    }
    return false
}

// NightlyRate returns the rate for one night.  Precedence: the
// highest-priority override covering the day (newest wins a tie), the
// high-season rate, the weekend rate, then the base rate.
func NightlyRate(p model.Property, overrides []model.PriceOverride, day time.Time, season Season) int64 {
    if o, ok := pickOverride(overrides, day); ok {
        return o.PricePerNightCents
    }
    if p.HighSeasonRateCents > 0 && season.Contains(day) {
        return p.HighSeasonRateCents
    }
    if p.WeekendRateCents > 0 && IsWeekend(day) {
        return p.WeekendRateCents
    }
    return p.BaseRateCents
}

func pickOverride(overrides []model.PriceOverride, day time.Time) (model.PriceOverride, bool) {
    var (
        best  model.PriceOverride
        found bool
    )
    for _, o := range overrides {
        if !o.Covers(day) {
            continue
        }
        if !found || beats(o, best) {
            best, found = o, true
        }
    }
    return best, found
}

func beats(a, b model.PriceOverride) bool {
    if a.Priority != b.Priority {
        return a.Priority > b.Priority
    }
    if !a.CreatedAt.Equal(b.CreatedAt) {
        return a.CreatedAt.After(b.CreatedAt)
    }
    return a.ID > b.ID
}

// Night is one line of a price breakdown.
type Night struct {
    Date      time.Time `json:"date"`
    RateCents int64     `json:"rate_cents"`
}

// Breakdown prices every night in [start, end).
func Breakdown(p model.Property, overrides []model.PriceOverride, start, end time.Time, season Season) []Night {
    start, end = model.Date(start), model.Date(end)
    var nights []Night
    for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
        nights = append(nights, Night{Date: d, RateCents: NightlyRate(p, overrides, d, season)})
    }
    return nights
}

// Sum adds up a breakdown.
func Sum(nights []Night) int64 {
    var total int64
    for _, n := range nights {
        total += n.RateCents
    }
    return total
}

// Catalog is the read side the Resolver needs.
type Catalog interface {
    Property(ctx context.Context, id uint64) (model.Property, error)
    Overrides(ctx context.Context, propertyID uint64, start, end time.Time) ([]model.PriceOverride, error)
}

// Resolver answers price queries for a property.
type Resolver struct {
    catalog Catalog
    season  Season
}

// NewResolver returns a Resolver that reads properties and overrides from c.
func NewResolver(c Catalog, season Season) *Resolver {
    return &Resolver{catalog: c, season: season}
}

// Season returns the configured high season.
func (r *Resolver) Season() Season { return r.season }

// PriceOnDate returns the nightly rate that applies to date.
func (r *Resolver) PriceOnDate(ctx context.Context, propertyID uint64, date time.Time) (int64, error) {
    p, err := r.catalog.Property(ctx, propertyID)
    if err != nil {
        return 0, err
    }
    date = model.Date(date)
    overrides, err := r.catalog.Overrides(ctx, propertyID, date, date)
    if err != nil {
        return 0, err
    }
    return NightlyRate(p, overrides, date, r.season), nil
}

// PriceOverRange returns the per-night breakdown and its sum for [start, end).
func (r *Resolver) PriceOverRange(ctx context.Context, propertyID uint64, start, end time.Time) ([]Night, int64, error) {
    p, err := r.catalog.Property(ctx, propertyID)
    if err != nil {
        return nil, 0, err
    }
    return r.priceOverRange(ctx, p, start, end)
}

// PriceProperty is PriceOverRange for an already loaded property.
func (r *Resolver) PriceProperty(ctx context.Context, p model.Property, start, end time.Time) ([]Night, int64, error) {
    return r.priceOverRange(ctx, p, start, end)
}

func (r *Resolver) priceOverRange(ctx context.Context, p model.Property, start, end time.Time) ([]Night, int64, error) {
    start, end = model.Date(start), model.Date(end)
    if !end.After(start) {
        return nil, 0, nil
    }
    overrides, err := r.catalog.Overrides(ctx, p.ID, start, end.AddDate(0, 0, -1))
    if err != nil {
        return nil, 0, err
    }
    nights := Breakdown(p, overrides, start, end, r.season)
    return nights, Sum(nights), nil
}

// SortOverrides orders overrides by resolution precedence, strongest first.
func SortOverrides(overrides []model.PriceOverride) {
    sort.SliceStable(overrides, func(i, j int) bool { return beats(overrides[i], overrides[j]) })
}
