package repository

import (
    "context"
    "database/sql"
    "fmt"

    "github.com/iliyamo/stay-reservation/internal/model"
)

// Blocks lists every block of a property, active or not, by start date.
func (s *Store) Blocks(ctx context.Context, propertyID uint64) ([]model.AvailabilityBlock, error) {
    rows, err := s.db.QueryContext(ctx,
        `SELECT id, property_id, start_date, end_date, block_type, reason, is_active, booking_id, created_at
         FROM availability_blocks WHERE property_id = ? ORDER BY start_date, id`, propertyID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.AvailabilityBlock, 0)
    for rows.Next() {
        var blk model.AvailabilityBlock
        var blockType string
        var bookingID sql.NullInt64
        if err := rows.Scan(&blk.ID, &blk.PropertyID, &blk.StartDate, &blk.EndDate, &blockType,
            &blk.Reason, &blk.IsActive, &bookingID, &blk.CreatedAt); err != nil {
            return nil, err
        }
        blk.BlockType = model.BlockType(blockType)
        blk.StartDate, blk.EndDate = model.Date(blk.StartDate), model.Date(blk.EndDate)
        if bookingID.Valid {
            id := uint64(bookingID.Int64)
            blk.BookingID = &id
        }
        out = append(out, blk)
    }
    return out, rows.Err()
}

func insertBlock(ctx context.Context, q DBTX, blk *model.AvailabilityBlock) error {
    var bookingID any
    if blk.BookingID != nil {
        bookingID = *blk.BookingID
    }
    res, err := q.ExecContext(ctx,
        `INSERT INTO availability_blocks (property_id, start_date, end_date, block_type, reason, is_active, booking_id, created_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
        blk.PropertyID, sqlDate(blk.StartDate), sqlDate(blk.EndDate), blk.BlockType, blk.Reason,
        blk.IsActive, bookingID, blk.CreatedAt.UTC())
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    blk.ID = uint64(id)
    return nil
}

func deleteBlock(ctx context.Context, q DBTX, propertyID, blockID uint64) error {
    res, err := q.ExecContext(ctx,
        `DELETE FROM availability_blocks WHERE id = ? AND property_id = ?`, blockID, propertyID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return fmt.Errorf("block %d: %w", blockID, ErrNotFound)
    }
    return nil
}
