package pricing

import (
    "context"
    "testing"
    "time"

    "github.com/iliyamo/stay-reservation/internal/model"
)

func day(s string) time.Time {
    t, err := model.ParseDate(s)
    if err != nil {
        panic(err)
    }
    return t
}

var prop = model.Property{
    ID:                  1,
    BaseRateCents:       10000,
    WeekendRateCents:    12000,
    HighSeasonRateCents: 15000,
}

func TestNightlyRatePrecedence(t *testing.T) {
    season := NewSeason(time.July, time.August)
    created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
    overrides := []model.PriceOverride{
        {ID: 1, StartDate: day("2025-07-01"), EndDate: day("2025-07-10"), PricePerNightCents: 20000, Priority: 1, CreatedAt: created},
        {ID: 2, StartDate: day("2025-07-05"), EndDate: day("2025-07-06"), PricePerNightCents: 30000, Priority: 5, CreatedAt: created},
        {ID: 3, StartDate: day("2025-07-05"), EndDate: day("2025-07-06"), PricePerNightCents: 31000, Priority: 5, CreatedAt: created.Add(time.Hour)},
    }
    cases := []struct {
        name string
        day  string
        want int64
    }{
        {"weekday base", "2025-03-04", 10000},        // Tuesday
        {"friday weekend", "2025-03-07", 12000},      // Friday
        {"sunday weekend", "2025-03-09", 12000},      // Sunday
        {"monday base", "2025-03-10", 10000},         // Monday
        {"high season beats weekend", "2025-08-02", 15000},
        {"override beats season", "2025-07-02", 20000},
        {"higher priority wins", "2025-07-05", 31000},
        {"tie goes to newest", "2025-07-06", 31000},
        {"override end inclusive", "2025-07-10", 20000},
        {"after override falls back to season", "2025-07-11", 15000},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            if got := NightlyRate(prop, overrides, day(tc.day), season); got != tc.want {
                t.Fatalf("NightlyRate(%s) = %d, want %d", tc.day, got, tc.want)
            }
        })
    }
}

func TestNightlyRateUndefinedRatesFallBack(t *testing.T) {
    p := model.Property{BaseRateCents: 9000}
    if got := NightlyRate(p, nil, day("2025-07-05"), NewSeason(time.July)); got != 9000 {
        t.Fatalf("got %d, want base rate", got)
    }
}

func TestComputeTotalsExample(t *testing.T) {
    tot, err := ComputeTotals(day("2025-01-10"), day("2025-01-13"), 20000, Fees{CleaningCents: 5000, ServiceFeePercent: 10})
    if err != nil {
        t.Fatal(err)
    }
    want := Totals{Nights: 3, PricePerNightCents: 20000, TotalPriceCents: 60000, CleaningFeeCents: 5000, ServiceFeeCents: 6000, FinalPriceCents: 71000}
    if tot != want {
        t.Fatalf("totals = %+v, want %+v", tot, want)
    }
    if tot.FinalPriceCents != tot.TotalPriceCents+tot.CleaningFeeCents+tot.ServiceFeeCents {
        t.Fatal("final price invariant broken")
    }
}

func TestComputeTotalsRejectsEmptyStay(t *testing.T) {
    if _, err := ComputeTotals(day("2025-01-10"), day("2025-01-10"), 20000, Fees{}); err != ErrInvalidRange {
        t.Fatalf("err = %v, want ErrInvalidRange", err)
    }
}

type fakeCatalog struct {
    p         model.Property
    overrides []model.PriceOverride
}

func (f fakeCatalog) Property(context.Context, uint64) (model.Property, error) { return f.p, nil }
func (f fakeCatalog) Overrides(context.Context, uint64, time.Time, time.Time) ([]model.PriceOverride, error) {
    return f.overrides, nil
}

func TestResolverPriceOverRange(t *testing.T) {
    r := NewResolver(fakeCatalog{p: prop}, NewSeason())
    // Thu, Fri, Sat nights; check-out night not charged.
    nights, total, err := r.PriceOverRange(context.Background(), 1, day("2025-03-06"), day("2025-03-09"))
    if err != nil {
        t.Fatal(err)
    }
    if len(nights) != 3 {
        t.Fatalf("nights = %d, want 3", len(nights))
    }
    if total != 10000+12000+12000 {
        t.Fatalf("total = %d", total)
    }
    resolved, err := ComputeResolvedTotals(nights, Fees{CleaningCents: 5000, ServiceFeePercent: 10})
    if err != nil {
        t.Fatal(err)
    }
    if resolved.FinalPriceCents != 34000+5000+3400 {
        t.Fatalf("final = %d", resolved.FinalPriceCents)
    }
}

func TestResolverPriceOnDate(t *testing.T) {
    r := NewResolver(fakeCatalog{p: prop}, NewSeason())
    rate, err := r.PriceOnDate(context.Background(), 1, day("2025-03-08"))
    if err != nil {
        t.Fatal(err)
    }
    if rate != 12000 {
        t.Fatalf("rate = %d, want weekend rate", rate)
    }
}
