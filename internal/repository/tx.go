package repository

import (
    "context"
    "time"

    "github.com/iliyamo/stay-reservation/internal/model"
)

// Tx is the unit of work handed to Store.Atomic.  Every call runs inside
// one database transaction that holds the exclusive lock on a single
// property row, so a conflict check followed by an insert cannot
// interleave with another writer for the same property.
//
// Tx satisfies availability.IntervalSource and pricing.Catalog, so the
// detector and the resolver can run against the locked view.
type Tx interface {
    Property(ctx context.Context, id uint64) (model.Property, error)
    Overrides(ctx context.Context, propertyID uint64, start, end time.Time) ([]model.PriceOverride, error)
    Intervals(ctx context.Context, propertyID uint64, start, end time.Time) ([]model.Interval, error)

    BookingForUpdate(ctx context.Context, uuid string) (model.Booking, error)
    InsertBooking(ctx context.Context, b *model.Booking) error
    UpdateBooking(ctx context.Context, b *model.Booking) error

    InsertBlock(ctx context.Context, blk *model.AvailabilityBlock) error
    DeleteBlock(ctx context.Context, propertyID, blockID uint64) error
    // ReleaseBookingBlocks deletes the blocks auto-created for a booking.
    ReleaseBookingBlocks(ctx context.Context, bookingID uint64) error
}
