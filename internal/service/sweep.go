package service

import (
    "context"
    "errors"
    "time"

    "github.com/sirupsen/logrus"

    "github.com/iliyamo/stay-reservation/internal/model"
    "github.com/iliyamo/stay-reservation/internal/repository"
)

// Sweep job names.
const (
    JobCompletion = "completion"
    JobExpiration = "expiration"
)

// SweepResult reports one sweep run.  Bookings holds the transitioned
// rows for the dispatch stage and is not serialised.
type SweepResult struct {
    Job      string          `json:"job"`
    Count    int             `json:"count"`
    Affected []string        `json:"affected"`
    Failed   []string        `json:"failed"`
    Bookings []model.Booking `json:"-"`
}

// errSkip marks a candidate that no longer matches the sweep filter once
// it is locked.  It is not a failure.
var errSkip = errors.New("no longer due")

// RunCompletionSweep marks confirmed bookings whose check-out is before
// today as completed.  Each booking moves in its own transaction; a
// failing booking is logged and left for the next run.  Running it twice
// in a row finds nothing the second time.
func (s *Service) RunCompletionSweep(ctx context.Context) (SweepResult, error) {
    today := s.today()
    due, err := s.store.CompletableBookings(ctx, today)
    if err != nil {
        return SweepResult{Job: JobCompletion}, translate(err)
    }
    return s.sweep(ctx, JobCompletion, due, func(tx repository.Tx, b *model.Booking, now time.Time) error {
        if b.Status != model.StatusConfirmed || !b.CheckOut.Before(today) {
            return errSkip
        }
        b.Status = model.StatusCompleted
        b.CompletedAt = &now
        b.UpdatedAt = now
        return tx.UpdateBooking(ctx, b)
    })
}

// RunExpirationSweep cancels pending bookings whose check-in is before
// today on behalf of the system and releases their auto-blocks.  A
// pending booking whose whole stay has passed is cancelled, never
// completed.  Notifications are not sent here; pass the result to
// NotifyExpired.
func (s *Service) RunExpirationSweep(ctx context.Context) (SweepResult, error) {
    today := s.today()
    due, err := s.store.ExpirableBookings(ctx, today)
    if err != nil {
        return SweepResult{Job: JobExpiration}, translate(err)
    }
    return s.sweep(ctx, JobExpiration, due, func(tx repository.Tx, b *model.Booking, now time.Time) error {
        if b.Status != model.StatusPending || !b.CheckIn.Before(today) {
            return errSkip
        }
        b.Status = model.StatusCancelled
        b.CancelledBy = model.CancelledBySystem
        b.CancellationReason = model.ExpiredReason
        b.CancelledAt = &now
        b.UpdatedAt = now
        if err := tx.ReleaseBookingBlocks(ctx, b.ID); err != nil {
            return err
        }
        return tx.UpdateBooking(ctx, b)
    })
}

func (s *Service) sweep(ctx context.Context, job string, due []model.Booking, apply func(repository.Tx, *model.Booking, time.Time) error) (SweepResult, error) {
    res := SweepResult{Job: job, Affected: []string{}, Failed: []string{}}
    log := s.log.WithField("job", job)
    for _, candidate := range due {
        if err := ctx.Err(); err != nil {
            return res, err
        }
        var moved model.Booking
        err := s.store.Atomic(ctx, candidate.PropertyID, func(tx repository.Tx) error {
            cur, err := tx.BookingForUpdate(ctx, candidate.UUID)
            if err != nil {
                return err
            }
            if err := apply(tx, &cur, s.now()); err != nil {
                return err
            }
            moved = cur
            return nil
        })
        switch {
        case errors.Is(err, errSkip):
            continue
        case err != nil:
            log.WithError(err).WithField("booking", candidate.UUID).Error("sweep transition failed")
            res.Failed = append(res.Failed, candidate.UUID)
            continue
        }
        res.Affected = append(res.Affected, moved.UUID)
        res.Bookings = append(res.Bookings, moved)
    }
    res.Count = len(res.Affected)
    log.WithFields(logrus.Fields{"count": res.Count, "failed": len(res.Failed)}).Info("sweep finished")
    return res, nil
}
