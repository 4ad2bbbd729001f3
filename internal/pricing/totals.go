package pricing

import (
    "errors"
    "time"

    "github.com/iliyamo/stay-reservation/internal/model"
)

// Fees are the booking-level charges added on top of lodging.
type Fees struct {
    CleaningCents     int64
    ServiceFeePercent int64
}

// Totals is the money breakdown persisted on a booking.
type Totals struct {
    Nights             int   `json:"nights"`
    PricePerNightCents int64 `json:"price_per_night_cents"`
    TotalPriceCents    int64 `json:"total_price_cents"`
    CleaningFeeCents   int64 `json:"cleaning_fee_cents"`
    ServiceFeeCents    int64 `json:"service_fee_cents"`
    FinalPriceCents    int64 `json:"final_price_cents"`
}

// ErrInvalidRange is returned when check-out is not after check-in.
var ErrInvalidRange = errors.New("check_out must be after check_in")

// ComputeTotals prices a stay at a flat nightly rate:
// total = rate × nights, service = total × percent / 100,
// final = total + cleaning + service.
func ComputeTotals(checkIn, checkOut time.Time, rateCents int64, fees Fees) (Totals, error) {
    nights := model.Nights(checkIn, checkOut)
    if nights <= 0 {
        return Totals{}, ErrInvalidRange
    }
    return finish(nights, rateCents, rateCents*int64(nights), fees), nil
}

// ComputeResolvedTotals prices a stay from a per-night breakdown.  The
// stored price per night is the rounded-down average.
func ComputeResolvedTotals(nights []Night, fees Fees) (Totals, error) {
    if len(nights) == 0 {
        return Totals{}, ErrInvalidRange
    }
    lodging := Sum(nights)
    return finish(len(nights), lodging/int64(len(nights)), lodging, fees), nil
}

func finish(nights int, perNight, lodging int64, fees Fees) Totals {
    service := lodging * fees.ServiceFeePercent / 100
    return Totals{
        Nights:             nights,
        PricePerNightCents: perNight,
        TotalPriceCents:    lodging,
        CleaningFeeCents:   fees.CleaningCents,
        ServiceFeeCents:    service,
        FinalPriceCents:    lodging + fees.CleaningCents + service,
    }
}

// Apply copies the totals onto a booking.
func (t Totals) Apply(b *model.Booking) {
    b.Nights = t.Nights
    b.PricePerNightCents = t.PricePerNightCents
    b.TotalPriceCents = t.TotalPriceCents
    b.CleaningFeeCents = t.CleaningFeeCents
    b.ServiceFeeCents = t.ServiceFeeCents
    b.FinalPriceCents = t.FinalPriceCents
}
