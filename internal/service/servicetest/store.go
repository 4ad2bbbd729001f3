// Package servicetest provides in-memory fakes for exercising the
// reservation service without MySQL, RabbitMQ or a wall clock.
package servicetest

import (
    "context"
    "fmt"
    "sort"
    "sync"
    "time"

    "github.com/iliyamo/stay-reservation/internal/model"
    "github.com/iliyamo/stay-reservation/internal/repository"
)

// Store is an in-memory reservation store.  Atomic serialises callers per
// property with a mutex, mirroring the row lock of the MySQL store, and
// undoes a unit of work whose callback fails.
type Store struct {
    mu         sync.Mutex
    propLocks  map[uint64]*sync.Mutex
    properties map[uint64]model.Property
    bookings   map[uint64]model.Booking
    byUUID     map[string]uint64
    blocks     map[uint64]model.AvailabilityBlock
    overrides  map[uint64]model.PriceOverride
    failures   map[string]error
    nextID     uint64
}

// NewStore returns an empty Store.
func NewStore() *Store {
    return &Store{
        propLocks:  map[uint64]*sync.Mutex{},
        properties: map[uint64]model.Property{},
        bookings:   map[uint64]model.Booking{},
        byUUID:     map[string]uint64{},
        blocks:     map[uint64]model.AvailabilityBlock{},
        overrides:  map[uint64]model.PriceOverride{},
        failures:   map[string]error{},
    }
}

// AddProperty seeds the catalog.
func (s *Store) AddProperty(p model.Property) {
    s.mu.Lock()
    defer s.mu.Unlock()
    s.properties[p.ID] = p
}

// PutBooking seeds a booking as is, assigning an id when it has none.
func (s *Store) PutBooking(b model.Booking) model.Booking {
    s.mu.Lock()
    defer s.mu.Unlock()
    if b.ID == 0 {
        b.ID = s.id()
    }
    s.bookings[b.ID] = b
    s.byUUID[b.UUID] = b.ID
    return b
}

// FailUpdates makes every update of the booking fail with err until
// cleared with a nil err.
func (s *Store) FailUpdates(uuid string, err error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    if err == nil {
        delete(s.failures, uuid)
        return
    }
    s.failures[uuid] = err
}

// AllBlocks returns every stored block.
func (s *Store) AllBlocks() []model.AvailabilityBlock {
    s.mu.Lock()
    defer s.mu.Unlock()
    out := make([]model.AvailabilityBlock, 0, len(s.blocks))
    for _, b := range s.blocks {
        out = append(out, b)
    }
    sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
    return out
}

func (s *Store) id() uint64 {
    s.nextID++
    return s.nextID
}

func notFound(what string, key any) error {
    return fmt.Errorf("%s %v: %w", what, key, repository.ErrNotFound)
}

func (s *Store) Property(_ context.Context, id uint64) (model.Property, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    p, ok := s.properties[id]
    if !ok {
        return model.Property{}, notFound("property", id)
    }
    return p, nil
}

func overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
    return !aStart.After(bEnd) && !aEnd.Before(bStart)
}

func (s *Store) Overrides(_ context.Context, propertyID uint64, start, end time.Time) ([]model.PriceOverride, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    out := []model.PriceOverride{}
    for _, o := range s.overrides {
        if o.PropertyID == propertyID && overlaps(o.StartDate, o.EndDate, start, end) {
            out = append(out, o)
        }
    }
    sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
    return out, nil
}

func (s *Store) Intervals(_ context.Context, propertyID uint64, start, end time.Time) ([]model.Interval, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    out := []model.Interval{}
    for _, b := range s.bookings {
        if b.PropertyID == propertyID && b.Status.IsBinding() && overlaps(b.CheckIn, b.CheckOut, start, end) {
            out = append(out, b.Interval())
        }
    }
    for _, blk := range s.blocks {
        if blk.PropertyID == propertyID && blk.IsActive && overlaps(blk.StartDate, blk.EndDate, start, end) {
            out = append(out, blk.Interval())
        }
    }
    sort.Slice(out, func(i, j int) bool { return out[i].Start.Before(out[j].Start) })
    return out, nil
}

func (s *Store) Booking(_ context.Context, uuid string) (model.Booking, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    id, ok := s.byUUID[uuid]
    if !ok {
        return model.Booking{}, notFound("booking", uuid)
    }
    return s.bookings[id], nil
}

func (s *Store) filterBookings(keep func(model.Booking) bool, less func(a, b model.Booking) bool) []model.Booking {
    s.mu.Lock()
    defer s.mu.Unlock()
    out := []model.Booking{}
    for _, b := range s.bookings {
        if keep(b) {
            out = append(out, b)
        }
    }
    sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
    return out
}

func byID(a, b model.Booking) bool { return a.ID < b.ID }

func (s *Store) BookingsByGuest(_ context.Context, guestID uint64) ([]model.Booking, error) {
    return s.filterBookings(func(b model.Booking) bool { return b.GuestID == guestID },
        func(a, b model.Booking) bool { return a.ID > b.ID }), nil
}

func (s *Store) BookingsByProperty(_ context.Context, propertyID uint64) ([]model.Booking, error) {
    return s.filterBookings(func(b model.Booking) bool { return b.PropertyID == propertyID }, byID), nil
}

func (s *Store) CompletableBookings(_ context.Context, today time.Time) ([]model.Booking, error) {
    return s.filterBookings(func(b model.Booking) bool {
        return b.Status == model.StatusConfirmed && b.CheckOut.Before(today)
    }, byID), nil
}

func (s *Store) ExpirableBookings(_ context.Context, today time.Time) ([]model.Booking, error) {
    return s.filterBookings(func(b model.Booking) bool {
        return b.Status == model.StatusPending && b.CheckIn.Before(today)
    }, byID), nil
}

func (s *Store) Blocks(_ context.Context, propertyID uint64) ([]model.AvailabilityBlock, error) {
    out := []model.AvailabilityBlock{}
    for _, b := range s.AllBlocks() {
        if b.PropertyID == propertyID {
            out = append(out, b)
        }
    }
    return out, nil
}

func (s *Store) PropertyOverrides(_ context.Context, propertyID uint64) ([]model.PriceOverride, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    out := []model.PriceOverride{}
    for _, o := range s.overrides {
        if o.PropertyID == propertyID {
            out = append(out, o)
        }
    }
    sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
    return out, nil
}

func (s *Store) Override(_ context.Context, id uint64) (model.PriceOverride, error) {
    s.mu.Lock()
    defer s.mu.Unlock()
    o, ok := s.overrides[id]
    if !ok {
        return model.PriceOverride{}, notFound("price override", id)
    }
    return o, nil
}

func (s *Store) InsertOverride(_ context.Context, o *model.PriceOverride) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    o.ID = s.id()
    s.overrides[o.ID] = *o
    return nil
}

func (s *Store) UpdateOverride(_ context.Context, o *model.PriceOverride) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    if _, ok := s.overrides[o.ID]; !ok {
        return notFound("price override", o.ID)
    }
    s.overrides[o.ID] = *o
    return nil
}

func (s *Store) DeleteOverride(_ context.Context, propertyID, id uint64) error {
    s.mu.Lock()
    defer s.mu.Unlock()
    o, ok := s.overrides[id]
    if !ok || o.PropertyID != propertyID {
        return notFound("price override", id)
    }
    delete(s.overrides, id)
    return nil
}

// Atomic locks the property, runs fn and undoes its writes when it fails.
func (s *Store) Atomic(ctx context.Context, propertyID uint64, fn func(repository.Tx) error) error {
    if _, err := s.Property(ctx, propertyID); err != nil {
        return err
    }
    s.mu.Lock()
    lock, ok := s.propLocks[propertyID]
    if !ok {
        lock = &sync.Mutex{}
        s.propLocks[propertyID] = lock
    }
    s.mu.Unlock()

    lock.Lock()
    defer lock.Unlock()

    tx := &memTx{s: s}
    if err := fn(tx); err != nil {
        tx.rollback()
        return err
    }
    return nil
}

// memTx applies writes immediately and records how to revert them.
type memTx struct {
    s    *Store
    undo []func()
}

func (t *memTx) rollback() {
    t.s.mu.Lock()
    defer t.s.mu.Unlock()
    for i := len(t.undo) - 1; i >= 0; i-- {
        t.undo[i]()
    }
}

func (t *memTx) Property(ctx context.Context, id uint64) (model.Property, error) {
    return t.s.Property(ctx, id)
}

func (t *memTx) Overrides(ctx context.Context, propertyID uint64, start, end time.Time) ([]model.PriceOverride, error) {
    return t.s.Overrides(ctx, propertyID, start, end)
}

func (t *memTx) Intervals(ctx context.Context, propertyID uint64, start, end time.Time) ([]model.Interval, error) {
    return t.s.Intervals(ctx, propertyID, start, end)
}

func (t *memTx) BookingForUpdate(ctx context.Context, uuid string) (model.Booking, error) {
    return t.s.Booking(ctx, uuid)
}

func (t *memTx) InsertBooking(_ context.Context, b *model.Booking) error {
    s := t.s
    s.mu.Lock()
    defer s.mu.Unlock()
    if _, dup := s.byUUID[b.UUID]; dup {
        return fmt.Errorf("duplicate booking uuid %s", b.UUID)
    }
    b.ID = s.id()
    s.bookings[b.ID] = *b
    s.byUUID[b.UUID] = b.ID
    id, uuid := b.ID, b.UUID
    t.undo = append(t.undo, func() {
        delete(s.bookings, id)
        delete(s.byUUID, uuid)
    })
    return nil
}

func (t *memTx) UpdateBooking(_ context.Context, b *model.Booking) error {
    s := t.s
    s.mu.Lock()
    defer s.mu.Unlock()
    if err := s.failures[b.UUID]; err != nil {
        return err
    }
    prev, ok := s.bookings[b.ID]
    if !ok {
        return notFound("booking", b.UUID)
    }
    s.bookings[b.ID] = *b
    t.undo = append(t.undo, func() { s.bookings[prev.ID] = prev })
    return nil
}

func (t *memTx) InsertBlock(_ context.Context, blk *model.AvailabilityBlock) error {
    s := t.s
    s.mu.Lock()
    defer s.mu.Unlock()
    blk.ID = s.id()
    s.blocks[blk.ID] = *blk
    id := blk.ID
    t.undo = append(t.undo, func() { delete(s.blocks, id) })
    return nil
}

func (t *memTx) DeleteBlock(_ context.Context, propertyID, blockID uint64) error {
    s := t.s
    s.mu.Lock()
    defer s.mu.Unlock()
    prev, ok := s.blocks[blockID]
    if !ok || prev.PropertyID != propertyID {
        return notFound("block", blockID)
    }
    delete(s.blocks, blockID)
    t.undo = append(t.undo, func() { s.blocks[prev.ID] = prev })
    return nil
}

func (t *memTx) ReleaseBookingBlocks(_ context.Context, bookingID uint64) error {
    s := t.s
    s.mu.Lock()
    defer s.mu.Unlock()
    for id, blk := range s.blocks {
        if blk.BookingID != nil && *blk.BookingID == bookingID && blk.BlockType == model.BlockBooking {
            delete(s.blocks, id)
            prev := blk
            t.undo = append(t.undo, func() { s.blocks[prev.ID] = prev })
        }
    }
    return nil
}
