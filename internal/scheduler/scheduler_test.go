package scheduler

import (
    "context"
    "errors"
    "io"
    "sync"
    "testing"
    "time"

    "github.com/sirupsen/logrus"

    "github.com/iliyamo/stay-reservation/internal/config"
    "github.com/iliyamo/stay-reservation/internal/model"
    "github.com/iliyamo/stay-reservation/internal/service"
)

func quietLogger() *logrus.Logger {
    l := logrus.New()
    l.SetOutput(io.Discard)
    return l
}

type fakeSweeper struct {
    mu       sync.Mutex
    calls    []string
    expired  []model.Booking
    complErr error
}

func (f *fakeSweeper) record(s string) {
    f.mu.Lock()
    defer f.mu.Unlock()
    f.calls = append(f.calls, s)
}

func (f *fakeSweeper) RunCompletionSweep(context.Context) (service.SweepResult, error) {
    f.record("completion")
    return service.SweepResult{Job: service.JobCompletion}, f.complErr
}

func (f *fakeSweeper) RunExpirationSweep(context.Context) (service.SweepResult, error) {
    f.record("expiration")
    return service.SweepResult{Job: service.JobExpiration, Count: len(f.expired), Bookings: f.expired}, nil
}

func (f *fakeSweeper) NotifyExpired(_ context.Context, expired []model.Booking) int {
    f.record("notify")
    return 2 * len(expired)
}

func TestRunAllOrder(t *testing.T) {
    f := &fakeSweeper{expired: []model.Booking{{UUID: "x"}}, complErr: errors.New("db down")}
    s := New(f, NewLocker(nil, "test", time.Minute, quietLogger()), config.SchedulerConfig{}, time.UTC, quietLogger())
    s.RunAll(context.Background())
    want := []string{"completion", "expiration", "notify"}
    if len(f.calls) != len(want) {
        t.Fatalf("calls = %v", f.calls)
    }
    for i := range want {
        if f.calls[i] != want[i] {
            t.Fatalf("calls = %v, want %v", f.calls, want)
        }
    }
}

func TestNotifyOnlyWhenSomethingExpired(t *testing.T) {
    f := &fakeSweeper{}
    s := New(f, NewLocker(nil, "test", time.Minute, quietLogger()), config.SchedulerConfig{}, time.UTC, quietLogger())
    if _, err := s.RunExpiration(context.Background()); err != nil {
        t.Fatal(err)
    }
    if len(f.calls) != 1 || f.calls[0] != "expiration" {
        t.Fatalf("calls = %v", f.calls)
    }
}

func TestLockerSingleFlight(t *testing.T) {
    l := NewLocker(nil, "test", time.Minute, quietLogger())
    entered := make(chan struct{})
    release := make(chan struct{})
    done := make(chan error, 1)
    go func() {
        done <- l.Run(context.Background(), "completion", func(context.Context) error {
            close(entered)
            <-release
            return nil
        })
    }()
    <-entered

    err := l.Run(context.Background(), "completion", func(context.Context) error {
        t.Fatal("overlapping run must not execute")
        return nil
    })
    if !errors.Is(err, ErrSweepInProgress) {
        t.Fatalf("err = %v", err)
    }
    // A different job is not blocked.
    ran := false
    if err := l.Run(context.Background(), "expiration", func(context.Context) error { ran = true; return nil }); err != nil || !ran {
        t.Fatalf("other job: ran=%v err=%v", ran, err)
    }

    close(release)
    if err := <-done; err != nil {
        t.Fatal(err)
    }
    if err := l.Run(context.Background(), "completion", func(context.Context) error { return nil }); err != nil {
        t.Fatalf("after release: %v", err)
    }
}

func TestNextRun(t *testing.T) {
    berlin, err := time.LoadLocation("Europe/Berlin")
    if err != nil {
        t.Skip("tzdata not available")
    }
    cases := []struct {
        now  time.Time
        loc  *time.Location
        want time.Time
    }{
        {time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), time.UTC, time.Date(2025, 3, 1, 0, 5, 0, 0, time.UTC)},
        {time.Date(2025, 3, 1, 0, 5, 0, 0, time.UTC), time.UTC, time.Date(2025, 3, 2, 0, 5, 0, 0, time.UTC)},
        {time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC), time.UTC, time.Date(2026, 1, 1, 0, 5, 0, 0, time.UTC)},
        // 23:30 UTC is already 00:30 on the next day in Berlin.
        {time.Date(2025, 3, 1, 23, 30, 0, 0, time.UTC), berlin, time.Date(2025, 3, 3, 0, 5, 0, 0, berlin)},
    }
    for _, tc := range cases {
        got := NextRun(tc.now, 0, 5, tc.loc)
        if !got.Equal(tc.want) {
            t.Fatalf("NextRun(%s) = %s, want %s", tc.now, got, tc.want)
        }
    }
}

func TestStartStopsOnCancel(t *testing.T) {
    f := &fakeSweeper{}
    s := New(f, NewLocker(nil, "test", time.Minute, quietLogger()),
        config.SchedulerConfig{RunAt: "00:05", Interval: time.Hour}, time.UTC, quietLogger())
    ctx, cancel := context.WithCancel(context.Background())
    done := make(chan struct{})
    go func() {
        s.Start(ctx)
        close(done)
    }()
    cancel()
    select {
    case <-done:
    case <-time.After(2 * time.Second):
        t.Fatal("scheduler did not stop")
    }
}
