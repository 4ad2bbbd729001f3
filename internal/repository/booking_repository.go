package repository

import (
    "context"
    "database/sql"
    "errors"
    "fmt"
    "time"

    "github.com/iliyamo/stay-reservation/internal/model"
)

// bookingColumns is the select list shared by every booking query; scanBooking
// reads the columns in this order.
const bookingColumns = `id, uuid, property_id, guest_id, guest_name, guest_email, guest_phone,
    check_in, check_out, guests, nights,
    price_per_night_cents, total_price_cents, cleaning_fee_cents, service_fee_cents,
    final_price_cents, refund_amount_cents, status, payment_status,
    cancellation_reason, cancelled_by, confirmed_at, cancelled_at, completed_at,
    created_at, updated_at`

type rowScanner interface {
    Scan(dest ...any) error
}

func scanBooking(sc rowScanner) (model.Booking, error) {
    var b model.Booking
    var status, payment, cancelledBy string
    var confirmedAt, cancelledAt, completedAt sql.NullTime
    err := sc.Scan(
        &b.ID, &b.UUID, &b.PropertyID, &b.GuestID, &b.Contact.Name, &b.Contact.Email, &b.Contact.Phone,
        &b.CheckIn, &b.CheckOut, &b.Guests, &b.Nights,
        &b.PricePerNightCents, &b.TotalPriceCents, &b.CleaningFeeCents, &b.ServiceFeeCents,
        &b.FinalPriceCents, &b.RefundAmountCents, &status, &payment,
        &b.CancellationReason, &cancelledBy, &confirmedAt, &cancelledAt, &completedAt,
        &b.CreatedAt, &b.UpdatedAt,
    )
    if err != nil {
        return model.Booking{}, err
    }
    b.Status = model.BookingStatus(status)
    b.PaymentStatus = model.PaymentStatus(payment)
    b.CancelledBy = model.CancelActor(cancelledBy)
    b.CheckIn, b.CheckOut = model.Date(b.CheckIn), model.Date(b.CheckOut)
    b.ConfirmedAt = nullTime(confirmedAt)
    b.CancelledAt = nullTime(cancelledAt)
    b.CompletedAt = nullTime(completedAt)
    return b, nil
}

func nullTime(t sql.NullTime) *time.Time {
    if !t.Valid {
        return nil
    }
    v := t.Time.UTC()
    return &v
}

func timeArg(t *time.Time) any {
    if t == nil {
        return nil
    }
    return t.UTC()
}

// Booking looks up a booking by its public uuid.
func (s *Store) Booking(ctx context.Context, uuid string) (model.Booking, error) {
    return getBooking(ctx, s.db, uuid, false)
}

func getBooking(ctx context.Context, q DBTX, uuid string, forUpdate bool) (model.Booking, error) {
    query := `SELECT ` + bookingColumns + ` FROM bookings WHERE uuid = ?`
    if forUpdate {
        query += ` FOR UPDATE`
    }
    b, err := scanBooking(q.QueryRowContext(ctx, query, uuid))
    if errors.Is(err, sql.ErrNoRows) {
        return model.Booking{}, fmt.Errorf("booking %s: %w", uuid, ErrNotFound)
    }
    return b, err
}

// BookingsByGuest lists the guest's bookings, newest first.
func (s *Store) BookingsByGuest(ctx context.Context, guestID uint64) ([]model.Booking, error) {
    return queryBookings(ctx, s.db,
        `SELECT `+bookingColumns+` FROM bookings WHERE guest_id = ? ORDER BY created_at DESC, id DESC`,
        guestID)
}

// BookingsByProperty lists the property's bookings ordered by check-in.
func (s *Store) BookingsByProperty(ctx context.Context, propertyID uint64) ([]model.Booking, error) {
    return queryBookings(ctx, s.db,
        `SELECT `+bookingColumns+` FROM bookings WHERE property_id = ? ORDER BY check_in, id`,
        propertyID)
}

// CompletableBookings returns confirmed bookings whose check-out date is
// before today.
func (s *Store) CompletableBookings(ctx context.Context, today time.Time) ([]model.Booking, error) {
    return queryBookings(ctx, s.db,
        `SELECT `+bookingColumns+` FROM bookings WHERE status = ? AND check_out < ? ORDER BY check_out, id`,
        model.StatusConfirmed, sqlDate(today))
}

// ExpirableBookings returns pending bookings whose check-in date is before
// today.
func (s *Store) ExpirableBookings(ctx context.Context, today time.Time) ([]model.Booking, error) {
    return queryBookings(ctx, s.db,
        `SELECT `+bookingColumns+` FROM bookings WHERE status = ? AND check_in < ? ORDER BY check_in, id`,
        model.StatusPending, sqlDate(today))
}

func queryBookings(ctx context.Context, q DBTX, query string, args ...any) ([]model.Booking, error) {
    rows, err := q.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.Booking, 0)
    for rows.Next() {
        b, err := scanBooking(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, b)
    }
    return out, rows.Err()
}

func insertBooking(ctx context.Context, q DBTX, b *model.Booking) error {
    const query = `INSERT INTO bookings (uuid, property_id, guest_id, guest_name, guest_email, guest_phone,
        check_in, check_out, guests, nights,
        price_per_night_cents, total_price_cents, cleaning_fee_cents, service_fee_cents,
        final_price_cents, refund_amount_cents, status, payment_status,
        cancellation_reason, cancelled_by, confirmed_at, cancelled_at, completed_at,
        created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
    res, err := q.ExecContext(ctx, query,
        b.UUID, b.PropertyID, b.GuestID, b.Contact.Name, b.Contact.Email, b.Contact.Phone,
        sqlDate(b.CheckIn), sqlDate(b.CheckOut), b.Guests, b.Nights,
        b.PricePerNightCents, b.TotalPriceCents, b.CleaningFeeCents, b.ServiceFeeCents,
        b.FinalPriceCents, b.RefundAmountCents, b.Status, b.PaymentStatus,
        b.CancellationReason, b.CancelledBy, timeArg(b.ConfirmedAt), timeArg(b.CancelledAt), timeArg(b.CompletedAt),
        b.CreatedAt.UTC(), b.UpdatedAt.UTC(),
    )
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    b.ID = uint64(id)
    return nil
}

// updateBooking writes the mutable lifecycle columns.  Dates, guests and
// the price breakdown are fixed once the booking exists.  Callers hold the
// row through BookingForUpdate, so existence is already known.
func updateBooking(ctx context.Context, q DBTX, b *model.Booking) error {
    const query = `UPDATE bookings SET status = ?, payment_status = ?, refund_amount_cents = ?,
        cancellation_reason = ?, cancelled_by = ?, confirmed_at = ?, cancelled_at = ?, completed_at = ?,
        updated_at = ?
        WHERE id = ?`
    _, err := q.ExecContext(ctx, query,
        b.Status, b.PaymentStatus, b.RefundAmountCents,
        b.CancellationReason, b.CancelledBy, timeArg(b.ConfirmedAt), timeArg(b.CancelledAt), timeArg(b.CompletedAt),
        b.UpdatedAt.UTC(), b.ID,
    )
    return err
}
