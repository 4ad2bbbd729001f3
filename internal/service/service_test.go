package service

import (
    "context"
    "errors"
    "fmt"
    "io"
    "sync"
    "testing"
    "time"

    "github.com/sirupsen/logrus"

    "github.com/iliyamo/stay-reservation/internal/config"
    "github.com/iliyamo/stay-reservation/internal/model"
    "github.com/iliyamo/stay-reservation/internal/queue"
    "github.com/iliyamo/stay-reservation/internal/service/servicetest"
)

var (
    guest    = model.Actor{ID: 7, Role: model.RoleGuest}
    stranger = model.Actor{ID: 8, Role: model.RoleGuest}
    owner    = model.Actor{ID: 100, Role: model.RoleOwner}
    admin    = model.Actor{ID: 1, Role: model.RoleAdmin}
)

type fixture struct {
    svc   *Service
    store *servicetest.Store
    clock *servicetest.Clock
    disp  *servicetest.Dispatcher
}

func d(s string) time.Time {
    t, err := model.ParseDate(s)
    if err != nil {
        panic(err)
    }
    return t
}

func newFixture(t *testing.T, mutate ...func(*config.BookingConfig)) *fixture {
    t.Helper()
    store := servicetest.NewStore()
    store.AddProperty(model.Property{
        ID: 1, OwnerID: owner.ID, OwnerEmail: "owner@example.com", Title: "Sea House",
        Status: model.PropertyAvailable, MaxGuests: 4, BaseRateCents: 20000,
    })
    store.AddProperty(model.Property{
        ID: 2, OwnerID: 200, Title: "Closed Cabin",
        Status: model.PropertyArchived, MaxGuests: 2, BaseRateCents: 10000,
    })
    cfg := config.DefaultBookingConfig()
    for _, m := range mutate {
        m(&cfg)
    }
    log := logrus.New()
    log.SetOutput(io.Discard)
    clock := servicetest.NewClock(time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC))
    disp := &servicetest.Dispatcher{}
    n := 0
    var mu sync.Mutex
    svc := New(store, disp, cfg, log, WithClock(clock), WithIDGenerator(func() string {
        mu.Lock()
        defer mu.Unlock()
        n++
        return fmt.Sprintf("b-%d", n)
    }))
    return &fixture{svc: svc, store: store, clock: clock, disp: disp}
}

func (f *fixture) create(t *testing.T, in, out string) model.Booking {
    t.Helper()
    b, err := f.svc.CreateBooking(context.Background(), guest, CreateBookingInput{
        PropertyID: 1, CheckIn: d(in), CheckOut: d(out), Guests: 2,
        Contact: model.GuestContact{Name: "Ana", Email: "ana@example.com"},
    })
    if err != nil {
        t.Fatalf("create %s..%s: %v", in, out, err)
    }
    return b
}

func TestCreateBookingComputesTotals(t *testing.T) {
    f := newFixture(t)
    b := f.create(t, "2025-03-10", "2025-03-13")

    if b.Status != model.StatusPending || b.PaymentStatus != model.PaymentUnpaid {
        t.Fatalf("status = %s/%s", b.Status, b.PaymentStatus)
    }
    if b.Nights != 3 || b.TotalPriceCents != 60000 || b.CleaningFeeCents != 5000 ||
        b.ServiceFeeCents != 6000 || b.FinalPriceCents != 71000 {
        t.Fatalf("totals = %+v", b)
    }
    if b.FinalPriceCents != b.TotalPriceCents+b.CleaningFeeCents+b.ServiceFeeCents {
        t.Fatal("final price is not the sum of its parts")
    }
    blocks := f.store.AllBlocks()
    if len(blocks) != 1 || blocks[0].BookingID == nil || *blocks[0].BookingID != b.ID ||
        !blocks[0].EndDate.Equal(d("2025-03-12")) {
        t.Fatalf("auto block = %+v", blocks)
    }
}

func TestCreateBookingThenUnavailable(t *testing.T) {
    f := newFixture(t)
    f.create(t, "2025-03-10", "2025-03-13")
    ok, err := f.svc.CheckAvailability(context.Background(), 1, d("2025-03-10"), d("2025-03-13"))
    if err != nil || ok {
        t.Fatalf("available = %v, err = %v", ok, err)
    }
}

func TestCreateBookingValidation(t *testing.T) {
    f := newFixture(t)
    ctx := context.Background()
    cases := []struct {
        name string
        in   CreateBookingInput
        want error
    }{
        {"same day", CreateBookingInput{PropertyID: 1, CheckIn: d("2025-03-10"), CheckOut: d("2025-03-10"), Guests: 1}, ErrValidation},
        {"reversed", CreateBookingInput{PropertyID: 1, CheckIn: d("2025-03-10"), CheckOut: d("2025-03-09"), Guests: 1}, ErrValidation},
        {"past", CreateBookingInput{PropertyID: 1, CheckIn: d("2025-02-20"), CheckOut: d("2025-02-22"), Guests: 1}, ErrValidation},
        {"no guests", CreateBookingInput{PropertyID: 1, CheckIn: d("2025-03-10"), CheckOut: d("2025-03-12"), Guests: 0}, ErrValidation},
        {"too many guests", CreateBookingInput{PropertyID: 1, CheckIn: d("2025-03-10"), CheckOut: d("2025-03-12"), Guests: 5}, ErrValidation},
        {"archived", CreateBookingInput{PropertyID: 2, CheckIn: d("2025-03-10"), CheckOut: d("2025-03-12"), Guests: 1}, ErrValidation},
        {"unknown property", CreateBookingInput{PropertyID: 99, CheckIn: d("2025-03-10"), CheckOut: d("2025-03-12"), Guests: 1}, ErrNotFound},
    }
    for _, tc := range cases {
        t.Run(tc.name, func(t *testing.T) {
            _, err := f.svc.CreateBooking(ctx, guest, tc.in)
            if !errors.Is(err, tc.want) {
                t.Fatalf("err = %v, want %v", err, tc.want)
            }
        })
    }
    if got := len(f.store.AllBlocks()); got != 0 {
        t.Fatalf("rejected requests wrote %d blocks", got)
    }
}

func TestCreateBookingConflicts(t *testing.T) {
    f := newFixture(t, func(c *config.BookingConfig) { c.AutoBlock = false })
    f.store.PutBooking(model.Booking{
        UUID: "existing", PropertyID: 1, GuestID: 9, Status: model.StatusConfirmed,
        CheckIn: d("2025-03-10"), CheckOut: d("2025-03-15"),
    })
    cases := []struct {
        in, out string
        conflict bool
    }{
        {"2025-03-12", "2025-03-14", true},  // inside
        {"2025-03-08", "2025-03-20", true},  // surrounds
        {"2025-03-15", "2025-03-18", true},  // same-day turnover
        {"2025-03-05", "2025-03-10", true},  // checks out on arrival day
        {"2025-03-16", "2025-03-18", false}, // clear
    }
    for _, tc := range cases {
        _, err := f.svc.CreateBooking(context.Background(), guest, CreateBookingInput{
            PropertyID: 1, CheckIn: d(tc.in), CheckOut: d(tc.out), Guests: 1,
        })
        if tc.conflict != errors.Is(err, ErrConflict) {
            t.Fatalf("%s..%s: err = %v, want conflict %v", tc.in, tc.out, err, tc.conflict)
        }
    }
}

func TestPendingBookingsDoNotBlockWithoutAutoBlock(t *testing.T) {
    f := newFixture(t, func(c *config.BookingConfig) { c.AutoBlock = false })
    f.create(t, "2025-03-10", "2025-03-13")
    f.create(t, "2025-03-10", "2025-03-13")
}

func TestConcurrentCreateOnlyOneWins(t *testing.T) {
    f := newFixture(t)
    const n = 8
    errs := make(chan error, n)
    var wg sync.WaitGroup
    for i := 0; i < n; i++ {
        wg.Add(1)
        go func() {
            defer wg.Done()
            _, err := f.svc.CreateBooking(context.Background(), guest, CreateBookingInput{
                PropertyID: 1, CheckIn: d("2025-04-01"), CheckOut: d("2025-04-05"), Guests: 2,
            })
            errs <- err
        }()
    }
    wg.Wait()
    close(errs)
    wins, conflicts := 0, 0
    for err := range errs {
        switch {
        case err == nil:
            wins++
        case errors.Is(err, ErrConflict):
            conflicts++
        default:
            t.Fatalf("unexpected error: %v", err)
        }
    }
    if wins != 1 || conflicts != n-1 {
        t.Fatalf("wins=%d conflicts=%d", wins, conflicts)
    }
}

func TestNoOnlinePaymentStartsConfirmed(t *testing.T) {
    f := newFixture(t, func(c *config.BookingConfig) { c.NoOnlinePayment = true })
    b := f.create(t, "2025-03-10", "2025-03-12")
    if b.Status != model.StatusConfirmed || b.PaymentStatus != model.PaymentPayAtProperty || b.ConfirmedAt == nil {
        t.Fatalf("booking = %+v", b)
    }
    f.svc.Wait()
    sent := f.disp.Sent()
    if len(sent) != 1 || sent[0].Template != queue.TemplateBookingConfirmed || sent[0].RecipientID != guest.ID {
        t.Fatalf("sent = %+v", sent)
    }
}

func TestResolvedPricingUsesOverrides(t *testing.T) {
    f := newFixture(t, func(c *config.BookingConfig) { c.PricingMode = config.PricingResolved })
    if _, err := f.svc.CreateOverride(context.Background(), owner, 1, OverrideInput{
        StartDate: d("2025-03-11"), EndDate: d("2025-03-11"), PricePerNightCents: 50000, Priority: 1,
    }); err != nil {
        t.Fatal(err)
    }
    // Mon 10th base, Tue 11th override, Wed 12th base.
    b := f.create(t, "2025-03-10", "2025-03-13")
    if b.TotalPriceCents != 90000 || b.PricePerNightCents != 30000 {
        t.Fatalf("totals = %d / %d", b.TotalPriceCents, b.PricePerNightCents)
    }
}

func TestConfirmBooking(t *testing.T) {
    f := newFixture(t)
    ctx := context.Background()
    b := f.create(t, "2025-03-10", "2025-03-13")

    if _, err := f.svc.ConfirmBooking(ctx, b.UUID, model.Actor{ID: 555, Role: model.RoleOwner}); !errors.Is(err, ErrPermission) {
        t.Fatalf("foreign owner: err = %v", err)
    }
    got, err := f.svc.ConfirmBooking(ctx, b.UUID, owner)
    if err != nil {
        t.Fatal(err)
    }
    if got.Status != model.StatusConfirmed || got.ConfirmedAt == nil {
        t.Fatalf("booking = %+v", got)
    }
    if _, err := f.svc.ConfirmBooking(ctx, b.UUID, admin); !errors.Is(err, ErrInvalidState) {
        t.Fatalf("second confirm: err = %v", err)
    }
    if _, err := f.svc.ConfirmBooking(ctx, "missing", owner); !errors.Is(err, ErrNotFound) {
        t.Fatalf("missing: err = %v", err)
    }

    f.svc.Wait()
    var confirmed int
    for _, n := range f.disp.Sent() {
        if n.Template == queue.TemplateBookingConfirmed && n.RecipientEmail == "ana@example.com" {
            confirmed++
        }
    }
    if confirmed != 1 {
        t.Fatalf("confirmation messages = %d", confirmed)
    }
}

func TestConfirmRechecksBlocks(t *testing.T) {
    f := newFixture(t)
    ctx := context.Background()
    b := f.create(t, "2025-03-10", "2025-03-13")
    if _, err := f.svc.CreateBlock(ctx, owner, 1, BlockInput{StartDate: d("2025-03-12"), EndDate: d("2025-03-20")}); err != nil {
        t.Fatal(err)
    }
    if _, err := f.svc.ConfirmBooking(ctx, b.UUID, owner); !errors.Is(err, ErrConflict) {
        t.Fatalf("err = %v, want conflict", err)
    }
}

func TestCancelRefundPolicy(t *testing.T) {
    cases := []struct {
        checkIn string
        want    int64
    }{
        {"2025-03-08", 71000}, // 7 days
        {"2025-03-07", 35500}, // 6 days
        {"2025-03-04", 35500}, // 3 days
        {"2025-03-03", 0},     // 2 days
        {"2025-03-01", 0},     // today
    }
    for _, tc := range cases {
        t.Run(tc.checkIn, func(t *testing.T) {
            f := newFixture(t)
            in := d(tc.checkIn)
            b := f.create(t, tc.checkIn, in.AddDate(0, 0, 3).Format(model.DateLayout))
            res, err := f.svc.CancelBooking(context.Background(), b.UUID, guest, "plans changed")
            if err != nil {
                t.Fatal(err)
            }
            if res.RefundAmountCents != tc.want || res.Booking.RefundAmountCents != tc.want {
                t.Fatalf("refund = %d, want %d", res.RefundAmountCents, tc.want)
            }
            if res.Booking.CancelledBy != model.CancelledByGuest || res.Booking.CancellationReason != "plans changed" ||
                res.Booking.CancelledAt == nil {
                t.Fatalf("booking = %+v", res.Booking)
            }
            if blocks := f.store.AllBlocks(); len(blocks) != 0 {
                t.Fatalf("auto block not released: %+v", blocks)
            }
        })
    }
}

func TestRefundAmountTable(t *testing.T) {
    for days, want := range map[int]int64{30: 1000, 7: 1000, 6: 500, 3: 500, 2: 0, 0: 0, -4: 0} {
        if got := RefundAmount(1000, days); got != want {
            t.Fatalf("RefundAmount(1000, %d) = %d, want %d", days, got, want)
        }
    }
    if got := RefundAmount(1001, 4); got != 500 {
        t.Fatalf("half refund rounds down, got %d", got)
    }
}

func TestCancelPermissionsAndStates(t *testing.T) {
    f := newFixture(t)
    ctx := context.Background()
    b := f.create(t, "2025-03-20", "2025-03-22")

    if _, err := f.svc.CancelBooking(ctx, b.UUID, stranger, ""); !errors.Is(err, ErrPermission) {
        t.Fatalf("stranger: err = %v", err)
    }
    res, err := f.svc.CancelBooking(ctx, b.UUID, owner, "maintenance")
    if err != nil {
        t.Fatal(err)
    }
    if res.Booking.CancelledBy != model.CancelledByOwner {
        t.Fatalf("cancelled_by = %s", res.Booking.CancelledBy)
    }
    if _, err := f.svc.CancelBooking(ctx, b.UUID, admin, ""); !errors.Is(err, ErrInvalidState) {
        t.Fatalf("second cancel: err = %v", err)
    }

    f.svc.Wait()
    var notified []uint64
    for _, n := range f.disp.Sent() {
        if n.Template == queue.TemplateBookingCancelled {
            notified = append(notified, n.RecipientID)
        }
    }
    if len(notified) != 1 || notified[0] != guest.ID {
        t.Fatalf("owner cancellation should notify the guest, got %v", notified)
    }
}

func TestCancelledDatesBecomeAvailable(t *testing.T) {
    f := newFixture(t)
    ctx := context.Background()
    b := f.create(t, "2025-03-20", "2025-03-22")
    if _, err := f.svc.ConfirmBooking(ctx, b.UUID, owner); err != nil {
        t.Fatal(err)
    }
    if _, err := f.svc.CancelBooking(ctx, b.UUID, admin, "fraud"); err != nil {
        t.Fatal(err)
    }
    ok, err := f.svc.CheckAvailability(ctx, 1, d("2025-03-20"), d("2025-03-22"))
    if err != nil || !ok {
        t.Fatalf("available = %v, err = %v", ok, err)
    }
}

func TestDispatchFailureDoesNotFailOperation(t *testing.T) {
    f := newFixture(t)
    f.disp.Err = errors.New("broker down")
    b := f.create(t, "2025-03-10", "2025-03-13")
    if _, err := f.svc.ConfirmBooking(context.Background(), b.UUID, owner); err != nil {
        t.Fatalf("confirm failed on notification error: %v", err)
    }
    f.svc.Wait()
    if len(f.disp.Sent()) != 2 {
        t.Fatalf("attempts = %d", len(f.disp.Sent()))
    }
}

func TestGetAndListBookings(t *testing.T) {
    f := newFixture(t)
    ctx := context.Background()
    b := f.create(t, "2025-03-10", "2025-03-13")
    f.create(t, "2025-04-10", "2025-04-13")

    if _, err := f.svc.GetBooking(ctx, b.UUID, owner); err != nil {
        t.Fatal(err)
    }
    if _, err := f.svc.GetBooking(ctx, b.UUID, stranger); !errors.Is(err, ErrNotFound) {
        t.Fatalf("stranger: err = %v", err)
    }
    mine, err := f.svc.ListGuestBookings(ctx, guest)
    if err != nil || len(mine) != 2 || mine[0].UUID != "b-2" {
        t.Fatalf("mine = %+v, err = %v", mine, err)
    }
    if _, err := f.svc.ListPropertyBookings(ctx, guest, 1, ""); !errors.Is(err, ErrPermission) {
        t.Fatalf("guest listing property: err = %v", err)
    }
    if _, err := f.svc.ConfirmBooking(ctx, b.UUID, owner); err != nil {
        t.Fatal(err)
    }
    confirmed, err := f.svc.ListPropertyBookings(ctx, owner, 1, model.StatusConfirmed)
    if err != nil || len(confirmed) != 1 || confirmed[0].UUID != b.UUID {
        t.Fatalf("confirmed = %+v, err = %v", confirmed, err)
    }
}

func TestCompletionSweep(t *testing.T) {
    f := newFixture(t)
    ctx := context.Background()
    b := f.create(t, "2025-03-02", "2025-03-04")
    if _, err := f.svc.ConfirmBooking(ctx, b.UUID, owner); err != nil {
        t.Fatal(err)
    }
    // Checked out on the 4th; not due until the 5th.
    f.clock.Set(time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC))
    res, err := f.svc.RunCompletionSweep(ctx)
    if err != nil || res.Count != 0 {
        t.Fatalf("early sweep = %+v, err = %v", res, err)
    }
    f.clock.Set(time.Date(2025, 3, 5, 0, 5, 0, 0, time.UTC))
    res, err = f.svc.RunCompletionSweep(ctx)
    if err != nil || res.Count != 1 || res.Affected[0] != b.UUID {
        t.Fatalf("sweep = %+v, err = %v", res, err)
    }
    got, _ := f.svc.GetBooking(ctx, b.UUID, admin)
    if got.Status != model.StatusCompleted || got.CompletedAt == nil {
        t.Fatalf("booking = %+v", got)
    }
    res, err = f.svc.RunCompletionSweep(ctx)
    if err != nil || res.Count != 0 {
        t.Fatalf("rerun = %+v, err = %v", res, err)
    }
}

func TestExpirationSweep(t *testing.T) {
    f := newFixture(t)
    ctx := context.Background()
    short := f.create(t, "2025-03-02", "2025-03-03")
    long := f.create(t, "2025-03-03", "2025-03-10")
    future := f.create(t, "2025-03-20", "2025-03-21")

    f.clock.Set(time.Date(2025, 3, 6, 0, 5, 0, 0, time.UTC))
    // Both stays have started; the short one has also ended and must still
    // be cancelled rather than completed.
    if res, _ := f.svc.RunCompletionSweep(ctx); res.Count != 0 {
        t.Fatalf("completion touched pending bookings: %+v", res)
    }
    res, err := f.svc.RunExpirationSweep(ctx)
    if err != nil || res.Count != 2 {
        t.Fatalf("sweep = %+v, err = %v", res, err)
    }
    for _, uuid := range []string{short.UUID, long.UUID} {
        got, _ := f.svc.GetBooking(ctx, uuid, admin)
        if got.Status != model.StatusCancelled || got.CancelledBy != model.CancelledBySystem ||
            got.CancellationReason != model.ExpiredReason {
            t.Fatalf("booking = %+v", got)
        }
    }
    if got, _ := f.svc.GetBooking(ctx, future.UUID, admin); got.Status != model.StatusPending {
        t.Fatalf("future booking = %s", got.Status)
    }
    if blocks := f.store.AllBlocks(); len(blocks) != 1 {
        t.Fatalf("blocks left = %d, want 1", len(blocks))
    }

    f.svc.Wait()
    before := len(f.disp.Sent())
    if sent := f.svc.NotifyExpired(ctx, res.Bookings); sent != 4 {
        t.Fatalf("sent = %d", sent)
    }
    msgs := f.disp.Sent()[before:]
    guests, owners := 0, 0
    for _, n := range msgs {
        switch n.Template {
        case queue.TemplateBookingExpiredGuest:
            guests++
        case queue.TemplateBookingExpiredOwner:
            owners++
        }
    }
    if guests != 2 || owners != 2 {
        t.Fatalf("guest=%d owner=%d", guests, owners)
    }

    res, err = f.svc.RunExpirationSweep(ctx)
    if err != nil || res.Count != 0 {
        t.Fatalf("rerun = %+v, err = %v", res, err)
    }
}

func TestSweepIsolatesFailures(t *testing.T) {
    f := newFixture(t)
    ctx := context.Background()
    a := f.create(t, "2025-03-02", "2025-03-03")
    b := f.create(t, "2025-03-04", "2025-03-05")
    f.store.FailUpdates(a.UUID, errors.New("disk full"))

    f.clock.Set(time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
    res, err := f.svc.RunExpirationSweep(ctx)
    if err != nil {
        t.Fatal(err)
    }
    if res.Count != 1 || res.Affected[0] != b.UUID || len(res.Failed) != 1 || res.Failed[0] != a.UUID {
        t.Fatalf("sweep = %+v", res)
    }
    // The failed booking kept its auto block because its unit of work rolled back.
    if got, _ := f.svc.GetBooking(ctx, a.UUID, admin); got.Status != model.StatusPending {
        t.Fatalf("failed booking = %s", got.Status)
    }
    f.store.FailUpdates(a.UUID, nil)
    res, _ = f.svc.RunExpirationSweep(ctx)
    if res.Count != 1 || res.Affected[0] != a.UUID {
        t.Fatalf("retry = %+v", res)
    }
}

func TestOwnerBlocks(t *testing.T) {
    f := newFixture(t)
    ctx := context.Background()
    if _, err := f.svc.CreateBlock(ctx, guest, 1, BlockInput{StartDate: d("2025-05-01"), EndDate: d("2025-05-03")}); !errors.Is(err, ErrPermission) {
        t.Fatalf("guest block: err = %v", err)
    }
    if _, err := f.svc.CreateBlock(ctx, owner, 1, BlockInput{StartDate: d("2025-05-03"), EndDate: d("2025-05-01")}); !errors.Is(err, ErrValidation) {
        t.Fatalf("reversed block: err = %v", err)
    }
    blk, err := f.svc.CreateBlock(ctx, owner, 1, BlockInput{StartDate: d("2025-05-01"), EndDate: d("2025-05-03"), BlockType: model.BlockMaintenance})
    if err != nil {
        t.Fatal(err)
    }
    _, err = f.svc.CreateBooking(ctx, guest, CreateBookingInput{PropertyID: 1, CheckIn: d("2025-05-03"), CheckOut: d("2025-05-05"), Guests: 1})
    if !errors.Is(err, ErrConflict) {
        t.Fatalf("booking over block: err = %v", err)
    }
    booked := f.create(t, "2025-06-01", "2025-06-03")
    blocks, _ := f.svc.ListBlocks(ctx, owner, 1)
    var auto uint64
    for _, b := range blocks {
        if b.BookingID != nil && *b.BookingID == booked.ID {
            auto = b.ID
        }
    }
    if err := f.svc.DeleteBlock(ctx, owner, 1, auto); !errors.Is(err, ErrInvalidState) {
        t.Fatalf("deleting auto block: err = %v", err)
    }
    if err := f.svc.DeleteBlock(ctx, owner, 1, blk.ID); err != nil {
        t.Fatal(err)
    }
    if err := f.svc.DeleteBlock(ctx, owner, 1, blk.ID); !errors.Is(err, ErrNotFound) {
        t.Fatalf("second delete: err = %v", err)
    }
}

func TestOverrideCRUD(t *testing.T) {
    f := newFixture(t)
    ctx := context.Background()
    o, err := f.svc.CreateOverride(ctx, owner, 1, OverrideInput{
        StartDate: d("2025-03-10"), EndDate: d("2025-03-12"), PricePerNightCents: 30000,
    })
    if err != nil {
        t.Fatal(err)
    }
    rate, err := f.svc.PriceOnDate(ctx, 1, d("2025-03-11"))
    if err != nil || rate != 30000 {
        t.Fatalf("rate = %d, err = %v", rate, err)
    }
    if _, err := f.svc.UpdateOverride(ctx, owner, 1, o.ID, OverrideInput{
        StartDate: d("2025-03-10"), EndDate: d("2025-03-12"), PricePerNightCents: 0,
    }); !errors.Is(err, ErrValidation) {
        t.Fatalf("zero price: err = %v", err)
    }
    if _, err := f.svc.UpdateOverride(ctx, owner, 1, o.ID, OverrideInput{
        StartDate: d("2025-03-10"), EndDate: d("2025-03-12"), PricePerNightCents: 25000, Priority: 2,
    }); err != nil {
        t.Fatal(err)
    }
    q, err := f.svc.Quote(ctx, 1, d("2025-03-10"), d("2025-03-14"))
    if err != nil {
        t.Fatal(err)
    }
    // 10,11,12 override; 13 base.
    if q.RangeTotalCents != 95000 || len(q.Nights) != 4 || !q.Available {
        t.Fatalf("quote = %+v", q)
    }
    if q.Totals.TotalPriceCents != 80000 {
        t.Fatalf("flat totals = %+v", q.Totals)
    }
    if err := f.svc.DeleteOverride(ctx, owner, 1, o.ID); err != nil {
        t.Fatal(err)
    }
    if err := f.svc.DeleteOverride(ctx, owner, 1, o.ID); !errors.Is(err, ErrNotFound) {
        t.Fatalf("second delete: err = %v", err)
    }
}

func TestOccupiedDates(t *testing.T) {
    f := newFixture(t)
    ctx := context.Background()
    b := f.create(t, "2025-03-10", "2025-03-13")
    if _, err := f.svc.ConfirmBooking(ctx, b.UUID, owner); err != nil {
        t.Fatal(err)
    }
    got, err := f.svc.OccupiedDates(ctx, 1, d("2025-03-01"), d("2025-03-31"))
    if err != nil {
        t.Fatal(err)
    }
    // The confirmed booking and its auto block.
    if len(got) != 2 {
        t.Fatalf("occupied = %+v", got)
    }
    if _, err := f.svc.OccupiedDates(ctx, 1, d("2025-03-31"), d("2025-03-01")); !errors.Is(err, ErrValidation) {
        t.Fatalf("reversed range: err = %v", err)
    }
    if _, err := f.svc.OccupiedDates(ctx, 99, d("2025-03-01"), d("2025-03-31")); !errors.Is(err, ErrNotFound) {
        t.Fatalf("unknown property: err = %v", err)
    }
}
