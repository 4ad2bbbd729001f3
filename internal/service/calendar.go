package service

import (
    "context"
    "time"

    "github.com/iliyamo/stay-reservation/internal/model"
    "github.com/iliyamo/stay-reservation/internal/pricing"
)

// maxCalendarSpan bounds calendar and quote queries.
const maxCalendarSpan = 366

// Quote is the price of a prospective stay.
type Quote struct {
    PropertyID uint64          `json:"property_id"`
    CheckIn    string          `json:"check_in"`
    CheckOut   string          `json:"check_out"`
    Available  bool            `json:"available"`
    Nights     []pricing.Night `json:"nights"`
    // RangeTotalCents is the sum of the resolved nightly rates; Totals
    // follows the configured pricing mode and may differ from it.
    RangeTotalCents int64          `json:"range_total_cents"`
    Totals          pricing.Totals `json:"totals"`
}

func checkSpan(from, to time.Time, allowSameDay bool) error {
    if to.Before(from) || (!allowSameDay && to.Equal(from)) {
        return validationf("end date must be after start date")
    }
    if model.DaysBetween(from, to) > maxCalendarSpan {
        return validationf("range must not exceed %d days", maxCalendarSpan)
    }
    return nil
}

// CheckAvailability reports whether [checkIn, checkOut] is free of
// binding bookings and active blocks.  It does not lock.
func (s *Service) CheckAvailability(ctx context.Context, propertyID uint64, checkIn, checkOut time.Time) (bool, error) {
    checkIn, checkOut = model.Date(checkIn), model.Date(checkOut)
    if err := checkSpan(checkIn, checkOut, false); err != nil {
        return false, err
    }
    if _, err := s.store.Property(ctx, propertyID); err != nil {
        return false, translate(err)
    }
    conflict, err := s.detector.HasConflict(ctx, propertyID, checkIn, checkOut)
    if err != nil {
        return false, translate(err)
    }
    return !conflict, nil
}

// OccupiedDates lists the occupied intervals touching [from, to].
func (s *Service) OccupiedDates(ctx context.Context, propertyID uint64, from, to time.Time) ([]model.Interval, error) {
    from, to = model.Date(from), model.Date(to)
    if err := checkSpan(from, to, true); err != nil {
        return nil, err
    }
    if _, err := s.store.Property(ctx, propertyID); err != nil {
        return nil, translate(err)
    }
    out, err := s.detector.Occupied(ctx, propertyID, from, to)
    if err != nil {
        return nil, translate(err)
    }
    if out == nil {
        out = []model.Interval{}
    }
    return out, nil
}

// PriceOnDate returns the nightly rate of a property on date.
func (s *Service) PriceOnDate(ctx context.Context, propertyID uint64, date time.Time) (int64, error) {
    rate, err := s.resolver.PriceOnDate(ctx, propertyID, date)
    return rate, translate(err)
}

// Quote prices [checkIn, checkOut) night by night and computes the
// booking totals that CreateBooking would store.
func (s *Service) Quote(ctx context.Context, propertyID uint64, checkIn, checkOut time.Time) (Quote, error) {
    checkIn, checkOut = model.Date(checkIn), model.Date(checkOut)
    if err := checkSpan(checkIn, checkOut, false); err != nil {
        return Quote{}, err
    }
    p, err := s.store.Property(ctx, propertyID)
    if err != nil {
        return Quote{}, translate(err)
    }
    nights, sum, err := s.resolver.PriceProperty(ctx, p, checkIn, checkOut)
    if err != nil {
        return Quote{}, translate(err)
    }
    totals, _, err := s.totals(ctx, s.store, p, checkIn, checkOut)
    if err != nil {
        return Quote{}, translate(err)
    }
    conflict, err := s.detector.HasConflict(ctx, propertyID, checkIn, checkOut)
    if err != nil {
        return Quote{}, translate(err)
    }
    return Quote{
        PropertyID:      p.ID,
        CheckIn:         checkIn.Format(model.DateLayout),
        CheckOut:        checkOut.Format(model.DateLayout),
        Available:       !conflict,
        Nights:          nights,
        RangeTotalCents: sum,
        Totals:          totals,
    }, nil
}
