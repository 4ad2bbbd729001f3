package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/iliyamo/stay-reservation/internal/model"
)

// Intervals returns the occupied intervals of a property that touch
// [start, end]: binding bookings (confirmed, in progress) and active
// blocks.  Pending bookings are never returned.
func (s *Store) Intervals(ctx context.Context, propertyID uint64, start, end time.Time) ([]model.Interval, error) {
    return listIntervals(ctx, s.db, propertyID, start, end)
}

func listIntervals(ctx context.Context, q DBTX, propertyID uint64, start, end time.Time) ([]model.Interval, error) {
    out := make([]model.Interval, 0)

    rows, err := q.QueryContext(ctx,
        `SELECT id, check_in, check_out FROM bookings
         WHERE property_id = ? AND status IN (?, ?) AND check_in <= ? AND check_out >= ?
         ORDER BY check_in`,
        propertyID, model.StatusConfirmed, model.StatusInProgress, sqlDate(end), sqlDate(start))
    if err != nil {
        return nil, err
    }
    for rows.Next() {
        var id uint64
        var in, outDay time.Time
        if err := rows.Scan(&id, &in, &outDay); err != nil {
            rows.Close()
            return nil, err
        }
        bid := id
        out = append(out, model.Interval{Start: model.Date(in), End: model.Date(outDay), Source: model.SourceBooking, BookingID: &bid})
    }
    if err := rows.Close(); err != nil {
        return nil, err
    }

    rows, err = q.QueryContext(ctx,
        `SELECT id, start_date, end_date, booking_id FROM availability_blocks
         WHERE property_id = ? AND is_active = 1 AND start_date <= ? AND end_date >= ?
         ORDER BY start_date`,
        propertyID, sqlDate(end), sqlDate(start))
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    for rows.Next() {
        var id uint64
        var from, to time.Time
        var bookingID sql.NullInt64
        if err := rows.Scan(&id, &from, &to, &bookingID); err != nil {
            return nil, err
        }
        iv := model.Interval{Start: model.Date(from), End: model.Date(to), Source: model.SourceBlock}
        blk := id
        iv.BlockID = &blk
        if bookingID.Valid {
            b := uint64(bookingID.Int64)
            iv.BookingID = &b
        }
        out = append(out, iv)
    }
    return out, rows.Err()
}
