package repository

import (
    "context"
    "database/sql"
    "errors"
    "fmt"
    "time"

    "github.com/go-sql-driver/mysql"

    "github.com/iliyamo/stay-reservation/internal/model"
)

// MySQL error numbers that mean "the lock order lost, try again".
const (
    errDeadlock        = 1213
    errLockWaitTimeout = 1205
)

// DBTX is the query surface shared by *sql.DB and *sql.Tx.  The query
// helpers in this package take a DBTX so the same SQL serves pooled reads
// and reads inside a locked transaction.
type DBTX interface {
    ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
    QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
    QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the MySQL implementation of the reservation store.  Reads go
// straight to the pool; writes that must be serialised per property go
// through Atomic.
type Store struct {
    db         *sql.DB
    maxRetries int
}

// NewStore returns a Store bound to the given database.
func NewStore(db *sql.DB) *Store { return &Store{db: db, maxRetries: 3} }

// DB exposes the underlying pool for health checks.
func (s *Store) DB() *sql.DB { return s.db }

// Atomic runs fn inside a transaction that first takes an exclusive row
// lock on the property (SELECT ... FOR UPDATE).  Concurrent callers for
// the same property queue on that lock; callers for different properties
// do not contend.  Deadlocks and lock wait timeouts roll back and retry;
// when retries run out ErrLockContention is returned.  Any error returned
// by fn rolls the transaction back and is returned unchanged.
func (s *Store) Atomic(ctx context.Context, propertyID uint64, fn func(Tx) error) error {
    var err error
    for attempt := 0; attempt <= s.maxRetries; attempt++ {
        if attempt > 0 {
            select {
            case <-ctx.Done():
                return ctx.Err()
            case <-time.After(time.Duration(attempt*25) * time.Millisecond):
            }
        }
        err = s.atomicOnce(ctx, propertyID, fn)
        if !isRetryable(err) {
            return err
        }
    }
    return fmt.Errorf("%w: %v", ErrLockContention, err)
}

func (s *Store) atomicOnce(ctx context.Context, propertyID uint64, fn func(Tx) error) error {
    // READ COMMITTED makes reads after the lock see rows committed by the
    // previous lock holder.
    tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()

    var locked uint64
    err = tx.QueryRowContext(ctx, `SELECT id FROM properties WHERE id = ? FOR UPDATE`, propertyID).Scan(&locked)
    if errors.Is(err, sql.ErrNoRows) {
        return fmt.Errorf("property %d: %w", propertyID, ErrNotFound)
    }
    if err != nil {
        return err
    }

    if err := fn(&sqlTx{tx: tx}); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

func isRetryable(err error) bool {
    var me *mysql.MySQLError
    if errors.As(err, &me) {
        return me.Number == errDeadlock || me.Number == errLockWaitTimeout
    }
    return false
}

// sqlTx implements Tx over an open *sql.Tx.
type sqlTx struct {
    tx *sql.Tx
}

func (t *sqlTx) Property(ctx context.Context, id uint64) (model.Property, error) {
    return getProperty(ctx, t.tx, id)
}

func (t *sqlTx) Overrides(ctx context.Context, propertyID uint64, start, end time.Time) ([]model.PriceOverride, error) {
    return listOverridesInRange(ctx, t.tx, propertyID, start, end)
}

func (t *sqlTx) Intervals(ctx context.Context, propertyID uint64, start, end time.Time) ([]model.Interval, error) {
    return listIntervals(ctx, t.tx, propertyID, start, end)
}

func (t *sqlTx) BookingForUpdate(ctx context.Context, uuid string) (model.Booking, error) {
    return getBooking(ctx, t.tx, uuid, true)
}

func (t *sqlTx) InsertBooking(ctx context.Context, b *model.Booking) error {
    return insertBooking(ctx, t.tx, b)
}

func (t *sqlTx) UpdateBooking(ctx context.Context, b *model.Booking) error {
    return updateBooking(ctx, t.tx, b)
}

func (t *sqlTx) InsertBlock(ctx context.Context, blk *model.AvailabilityBlock) error {
    return insertBlock(ctx, t.tx, blk)
}

func (t *sqlTx) DeleteBlock(ctx context.Context, propertyID, blockID uint64) error {
    return deleteBlock(ctx, t.tx, propertyID, blockID)
}

func (t *sqlTx) ReleaseBookingBlocks(ctx context.Context, bookingID uint64) error {
    _, err := t.tx.ExecContext(ctx,
        `DELETE FROM availability_blocks WHERE booking_id = ? AND block_type = ?`,
        bookingID, model.BlockBooking)
    return err
}

// sqlDate renders a calendar date for DATE columns.
func sqlDate(t time.Time) string { return model.Date(t).Format(model.DateLayout) }
