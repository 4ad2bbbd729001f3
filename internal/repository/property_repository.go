package repository

import (
    "context"
    "database/sql"
    "errors"
    "fmt"

    "github.com/iliyamo/stay-reservation/internal/model"
)

// Property returns the catalog view of a property.  The catalog owns the
// row; this service never writes it.
func (s *Store) Property(ctx context.Context, id uint64) (model.Property, error) {
    return getProperty(ctx, s.db, id)
}

func getProperty(ctx context.Context, q DBTX, id uint64) (model.Property, error) {
    const query = `SELECT id, owner_id, owner_email, title, status, max_guests,
                          base_rate_cents, weekend_rate_cents, high_season_rate_cents
                   FROM properties WHERE id = ?`
    var p model.Property
    var weekend, high sql.NullInt64
    err := q.QueryRowContext(ctx, query, id).Scan(
        &p.ID, &p.OwnerID, &p.OwnerEmail, &p.Title, &p.Status, &p.MaxGuests,
        &p.BaseRateCents, &weekend, &high,
    )
    if errors.Is(err, sql.ErrNoRows) {
        return model.Property{}, fmt.Errorf("property %d: %w", id, ErrNotFound)
    }
    if err != nil {
        return model.Property{}, err
    }
    p.WeekendRateCents = weekend.Int64
    p.HighSeasonRateCents = high.Int64
    return p, nil
}
