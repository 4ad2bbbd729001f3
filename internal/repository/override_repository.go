package repository

import (
    "context"
    "database/sql"
    "errors"
    "fmt"
    "time"

    "github.com/iliyamo/stay-reservation/internal/model"
)

const overrideColumns = `id, property_id, start_date, end_date, price_per_night_cents, priority, description, created_at, updated_at`

func scanOverride(sc rowScanner) (model.PriceOverride, error) {
    var o model.PriceOverride
    err := sc.Scan(&o.ID, &o.PropertyID, &o.StartDate, &o.EndDate, &o.PricePerNightCents,
        &o.Priority, &o.Description, &o.CreatedAt, &o.UpdatedAt)
    o.StartDate, o.EndDate = model.Date(o.StartDate), model.Date(o.EndDate)
    return o, err
}

// Overrides returns the overrides of a property that touch [start, end].
func (s *Store) Overrides(ctx context.Context, propertyID uint64, start, end time.Time) ([]model.PriceOverride, error) {
    return listOverridesInRange(ctx, s.db, propertyID, start, end)
}

// PropertyOverrides returns every override of a property by start date.
func (s *Store) PropertyOverrides(ctx context.Context, propertyID uint64) ([]model.PriceOverride, error) {
    return queryOverrides(ctx, s.db,
        `SELECT `+overrideColumns+` FROM price_overrides WHERE property_id = ? ORDER BY start_date, id`, propertyID)
}

func listOverridesInRange(ctx context.Context, q DBTX, propertyID uint64, start, end time.Time) ([]model.PriceOverride, error) {
    return queryOverrides(ctx, q,
        `SELECT `+overrideColumns+` FROM price_overrides
         WHERE property_id = ? AND start_date <= ? AND end_date >= ?
         ORDER BY priority DESC, created_at DESC, id DESC`,
        propertyID, sqlDate(end), sqlDate(start))
}

func queryOverrides(ctx context.Context, q DBTX, query string, args ...any) ([]model.PriceOverride, error) {
    rows, err := q.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := make([]model.PriceOverride, 0)
    for rows.Next() {
        o, err := scanOverride(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, o)
    }
    return out, rows.Err()
}

// Override looks up a single override by id.
func (s *Store) Override(ctx context.Context, id uint64) (model.PriceOverride, error) {
    o, err := scanOverride(s.db.QueryRowContext(ctx,
        `SELECT `+overrideColumns+` FROM price_overrides WHERE id = ?`, id))
    if errors.Is(err, sql.ErrNoRows) {
        return model.PriceOverride{}, fmt.Errorf("price override %d: %w", id, ErrNotFound)
    }
    return o, err
}

// InsertOverride stores a new override and sets its id.
func (s *Store) InsertOverride(ctx context.Context, o *model.PriceOverride) error {
    res, err := s.db.ExecContext(ctx,
        `INSERT INTO price_overrides (property_id, start_date, end_date, price_per_night_cents, priority, description, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
        o.PropertyID, sqlDate(o.StartDate), sqlDate(o.EndDate), o.PricePerNightCents, o.Priority,
        o.Description, o.CreatedAt.UTC(), o.UpdatedAt.UTC())
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    o.ID = uint64(id)
    return nil
}

// UpdateOverride rewrites the range, rate, priority and description.
func (s *Store) UpdateOverride(ctx context.Context, o *model.PriceOverride) error {
    res, err := s.db.ExecContext(ctx,
        `UPDATE price_overrides SET start_date = ?, end_date = ?, price_per_night_cents = ?, priority = ?,
         description = ?, updated_at = ? WHERE id = ? AND property_id = ?`,
        sqlDate(o.StartDate), sqlDate(o.EndDate), o.PricePerNightCents, o.Priority, o.Description,
        o.UpdatedAt.UTC(), o.ID, o.PropertyID)
    if err != nil {
        return err
    }
    // MySQL reports 0 affected rows when nothing changed, so existence is
    // checked by the caller before updating.
    _, err = res.RowsAffected()
    return err
}

// DeleteOverride removes an override of the given property.
func (s *Store) DeleteOverride(ctx context.Context, propertyID, id uint64) error {
    res, err := s.db.ExecContext(ctx,
        `DELETE FROM price_overrides WHERE id = ? AND property_id = ?`, id, propertyID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return fmt.Errorf("price override %d: %w", id, ErrNotFound)
    }
    return nil
}
