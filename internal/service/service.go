// Package service implements the reservation lifecycle: creating,
// confirming and cancelling bookings, the availability and price queries
// behind the public calendar, owner maintenance of blocks and price
// overrides, and the sweeps that complete and expire bookings.
package service

import (
    "context"
    "sync"
    "time"

    "github.com/google/uuid"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/stay-reservation/internal/availability"
    "github.com/iliyamo/stay-reservation/internal/config"
    "github.com/iliyamo/stay-reservation/internal/model"
    "github.com/iliyamo/stay-reservation/internal/pricing"
    "github.com/iliyamo/stay-reservation/internal/queue"
    "github.com/iliyamo/stay-reservation/internal/repository"
)

// Store is the persistence the service needs.  repository.Store is the
// MySQL implementation; servicetest.Store is an in-memory one.
type Store interface {
    pricing.Catalog
    availability.IntervalSource

    Booking(ctx context.Context, uuid string) (model.Booking, error)
    BookingsByGuest(ctx context.Context, guestID uint64) ([]model.Booking, error)
    BookingsByProperty(ctx context.Context, propertyID uint64) ([]model.Booking, error)
    CompletableBookings(ctx context.Context, today time.Time) ([]model.Booking, error)
    ExpirableBookings(ctx context.Context, today time.Time) ([]model.Booking, error)

    Blocks(ctx context.Context, propertyID uint64) ([]model.AvailabilityBlock, error)

    PropertyOverrides(ctx context.Context, propertyID uint64) ([]model.PriceOverride, error)
    Override(ctx context.Context, id uint64) (model.PriceOverride, error)
    InsertOverride(ctx context.Context, o *model.PriceOverride) error
    UpdateOverride(ctx context.Context, o *model.PriceOverride) error
    DeleteOverride(ctx context.Context, propertyID, id uint64) error

    // Atomic runs fn under the exclusive lock of one property.
    Atomic(ctx context.Context, propertyID uint64, fn func(repository.Tx) error) error
}

// Clock supplies the current time.
type Clock interface {
    Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Option customises a Service.
type Option func(*Service)

// WithClock replaces the wall clock.
func WithClock(c Clock) Option { return func(s *Service) { s.clock = c } }

// WithIDGenerator replaces the uuid generator for booking identifiers.
func WithIDGenerator(gen func() string) Option { return func(s *Service) { s.newID = gen } }

// Service is the reservation lifecycle manager.  It is safe for
// concurrent use.
type Service struct {
    store      Store
    dispatcher queue.Dispatcher
    cfg        config.BookingConfig
    log        logrus.FieldLogger
    clock      Clock
    newID      func() string

    detector *availability.Detector
    resolver *pricing.Resolver
    season   pricing.Season

    pending sync.WaitGroup // in-flight notifications
}

// New wires a Service.  dispatcher may be nil, in which case no
// notifications are sent.
func New(store Store, dispatcher queue.Dispatcher, cfg config.BookingConfig, log logrus.FieldLogger, opts ...Option) *Service {
    if cfg.Location == nil {
        cfg.Location = time.UTC
    }
    if cfg.NotifyTimeout <= 0 {
        cfg.NotifyTimeout = 10 * time.Second
    }
    s := &Service{
        store:      store,
        dispatcher: dispatcher,
        cfg:        cfg,
        log:        log,
        clock:      SystemClock{},
        newID:      func() string { return uuid.NewString() },
        season:     pricing.NewSeason(cfg.HighSeasonMonths...),
    }
    for _, opt := range opts {
        opt(s)
    }
    s.detector = availability.NewDetector(store)
    s.resolver = pricing.NewResolver(store, s.season)
    return s
}

// Wait blocks until every in-flight notification has finished.  It is
// called on shutdown.
func (s *Service) Wait() { s.pending.Wait() }

// today is the current calendar day in the property timezone.
func (s *Service) today() time.Time {
    return model.Date(s.clock.Now().In(s.cfg.Location))
}

func (s *Service) now() time.Time { return s.clock.Now().UTC().Truncate(time.Second) }

func (s *Service) fees() pricing.Fees {
    return pricing.Fees{CleaningCents: s.cfg.CleaningFeeCents, ServiceFeePercent: s.cfg.ServiceFeePercent}
}

// totals prices a stay according to the configured pricing mode.
func (s *Service) totals(ctx context.Context, cat pricing.Catalog, p model.Property, checkIn, checkOut time.Time) (pricing.Totals, []pricing.Night, error) {
    if s.cfg.PricingMode == config.PricingResolved {
        nights, _, err := pricing.NewResolver(cat, s.season).PriceProperty(ctx, p, checkIn, checkOut)
        if err != nil {
            return pricing.Totals{}, nil, err
        }
        t, err := pricing.ComputeResolvedTotals(nights, s.fees())
        return t, nights, err
    }
    t, err := pricing.ComputeTotals(checkIn, checkOut, p.BaseRateCents, s.fees())
    return t, nil, err
}

// authorizeOwner loads a property and checks that actor owns it or is an
// admin.
func (s *Service) authorizeOwner(ctx context.Context, actor model.Actor, propertyID uint64) (model.Property, error) {
    p, err := s.store.Property(ctx, propertyID)
    if err != nil {
        return model.Property{}, translate(err)
    }
    if !actor.IsAdmin() && p.OwnerID != actor.ID {
        return model.Property{}, ErrPermission
    }
    return p, nil
}
