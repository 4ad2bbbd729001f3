package config

import (
    "log"
    "strconv"
    "strings"
    "time"
)

// Pricing modes for booking totals.
const (
    PricingFlat     = "flat"     // base rate × nights
    PricingResolved = "resolved" // per-night rates from the price resolver
)

// BookingConfig is the explicit configuration injected into the
// reservation service.  It replaces any process-wide toggles.
type BookingConfig struct {
    NoOnlinePayment   bool           // new bookings start confirmed and are paid at the property
    AutoBlock         bool           // create an availability block alongside each booking
    CleaningFeeCents  int64          // fixed cleaning fee per booking
    ServiceFeePercent int64          // service fee as a percentage of lodging
    PricingMode       string         // PricingFlat or PricingResolved
    HighSeasonMonths  []time.Month   // months where the high-season rate applies
    Location          *time.Location // timezone used to decide "today"
    NotifyTimeout     time.Duration  // upper bound for one fire-and-forget dispatch
}

// LoadBookingConfig reads BOOKING_* variables with defaults.
func LoadBookingConfig() BookingConfig {
    cfg := BookingConfig{
        NoOnlinePayment:   envBool("BOOKING_NO_ONLINE_PAYMENT", false),
        AutoBlock:         envBool("BOOKING_AUTO_BLOCK", true),
        CleaningFeeCents:  int64(envInt("BOOKING_CLEANING_FEE_CENTS", 5000)),
        ServiceFeePercent: int64(envInt("BOOKING_SERVICE_FEE_PERCENT", 10)),
        PricingMode:       strings.ToLower(envStr("BOOKING_PRICING_MODE", PricingFlat)),
        HighSeasonMonths:  parseMonths(envStr("BOOKING_HIGH_SEASON_MONTHS", "7,8,12")),
        NotifyTimeout:     envDur("BOOKING_NOTIFY_TIMEOUT", 10*time.Second),
    }
    if cfg.PricingMode != PricingResolved {
        cfg.PricingMode = PricingFlat
    }
    loc, err := time.LoadLocation(envStr("BOOKING_TIMEZONE", "UTC"))
    if err != nil {
        log.Printf("config: invalid BOOKING_TIMEZONE, using UTC: %v", err)
        loc = time.UTC
    }
    cfg.Location = loc
    return cfg
}

// DefaultBookingConfig returns the defaults without reading the environment.
func DefaultBookingConfig() BookingConfig {
    return BookingConfig{
        AutoBlock:         true,
        CleaningFeeCents:  5000,
        ServiceFeePercent: 10,
        PricingMode:       PricingFlat,
        HighSeasonMonths:  []time.Month{time.July, time.August, time.December},
        Location:          time.UTC,
        NotifyTimeout:     10 * time.Second,
    }
}

func parseMonths(s string) []time.Month {
    var out []time.Month
    for _, p := range strings.Split(s, ",") {
        n, err := strconv.Atoi(strings.TrimSpace(p))
        if err != nil || n < 1 || n > 12 {
            continue
        }
        out = append(out, time.Month(n))
    }
    return out
}
