// Package scheduler runs the daily booking sweeps: completion first, then
// expiration followed by its notification stage.
package scheduler

import (
    "context"
    "errors"
    "time"

    "github.com/sirupsen/logrus"

    "github.com/iliyamo/stay-reservation/internal/config"
    "github.com/iliyamo/stay-reservation/internal/model"
    "github.com/iliyamo/stay-reservation/internal/service"
)

// Sweeper is the part of the reservation service the scheduler drives.
type Sweeper interface {
    RunCompletionSweep(ctx context.Context) (service.SweepResult, error)
    RunExpirationSweep(ctx context.Context) (service.SweepResult, error)
    NotifyExpired(ctx context.Context, expired []model.Booking) int
}

// Scheduler triggers sweeps on a wall-clock cadence and on demand.
type Scheduler struct {
    sweeper Sweeper
    locker  *Locker
    cfg     config.SchedulerConfig
    loc     *time.Location
    log     logrus.FieldLogger
    now     func() time.Time
}

// New returns a Scheduler.  loc is the timezone in which RunAt is read.
func New(sweeper Sweeper, locker *Locker, cfg config.SchedulerConfig, loc *time.Location, log logrus.FieldLogger) *Scheduler {
    if loc == nil {
        loc = time.UTC
    }
    return &Scheduler{sweeper: sweeper, locker: locker, cfg: cfg, loc: loc, log: log, now: time.Now}
}

// RunCompletion runs the completion sweep under its lock.
func (s *Scheduler) RunCompletion(ctx context.Context) (service.SweepResult, error) {
    var res service.SweepResult
    err := s.locker.Run(ctx, service.JobCompletion, func(ctx context.Context) error {
        var err error
        res, err = s.sweeper.RunCompletionSweep(ctx)
        return err
    })
    return res, err
}

// RunExpiration runs the expiration sweep under its lock and then sends
// the expiry notifications for the bookings it cancelled.
func (s *Scheduler) RunExpiration(ctx context.Context) (service.SweepResult, error) {
    var res service.SweepResult
    err := s.locker.Run(ctx, service.JobExpiration, func(ctx context.Context) error {
        var err error
        res, err = s.sweeper.RunExpirationSweep(ctx)
        return err
    })
    if len(res.Bookings) > 0 {
        sent := s.sweeper.NotifyExpired(ctx, res.Bookings)
        s.log.WithFields(logrus.Fields{"bookings": len(res.Bookings), "messages": sent}).Info("expiry notifications dispatched")
    }
    return res, err
}

// RunAll runs completion then expiration.  A failing or skipped sweep is
// logged and does not stop the other.
func (s *Scheduler) RunAll(ctx context.Context) {
    if _, err := s.RunCompletion(ctx); err != nil {
        s.logRunError(service.JobCompletion, err)
    }
    if _, err := s.RunExpiration(ctx); err != nil {
        s.logRunError(service.JobExpiration, err)
    }
}

func (s *Scheduler) logRunError(job string, err error) {
    entry := s.log.WithField("job", job)
    if errors.Is(err, ErrSweepInProgress) {
        entry.Info("sweep skipped, another run holds the lock")
        return
    }
    entry.WithError(err).Error("sweep failed")
}

// Start runs RunAll at the configured time of day and every Interval
// after that until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) {
    hour, minute, err := s.cfg.Clock()
    if err != nil {
        s.log.WithError(err).Warn("invalid sweep time, using 00:05")
        hour, minute = 0, 5
    }
    interval := s.cfg.Interval
    if interval <= 0 {
        interval = 24 * time.Hour
    }
    next := NextRun(s.now(), hour, minute, s.loc)
    s.log.WithField("next_run", next.Format(time.RFC3339)).Info("sweep scheduler started")
    for {
        timer := time.NewTimer(time.Until(next))
        select {
        case <-ctx.Done():
            timer.Stop()
            s.log.Info("sweep scheduler stopped")
            return
        case <-timer.C:
        }
        s.RunAll(ctx)
        now := s.now()
        for !next.After(now) {
            next = next.Add(interval)
        }
    }
}

// NextRun returns the first hour:minute in loc that is strictly after now.
func NextRun(now time.Time, hour, minute int, loc *time.Location) time.Time {
    local := now.In(loc)
    next := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, loc)
    if !next.After(local) {
        next = next.AddDate(0, 0, 1)
    }
    return next
}
