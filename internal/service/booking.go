package service

import (
    "context"
    "fmt"
    "strings"
    "time"

    "github.com/sirupsen/logrus"

    "github.com/iliyamo/stay-reservation/internal/availability"
    "github.com/iliyamo/stay-reservation/internal/model"
    "github.com/iliyamo/stay-reservation/internal/queue"
    "github.com/iliyamo/stay-reservation/internal/repository"
)

const maxReasonLen = 500

// CreateBookingInput is a guest's booking request.
type CreateBookingInput struct {
    PropertyID uint64
    CheckIn    time.Time
    CheckOut   time.Time
    Guests     int
    Contact    model.GuestContact
}

// CancelResult is returned by CancelBooking.
type CancelResult struct {
    Booking           model.Booking `json:"booking"`
    RefundAmountCents int64         `json:"refund_amount_cents"`
}

// CreateBooking validates the request, then checks availability and
// inserts the booking under the property lock so that two overlapping
// requests cannot both succeed.  The booking starts pending, or confirmed
// and payable at the property when online payment is disabled.  When
// auto-blocking is enabled an availability block covering the stay is
// stored alongside it.
func (s *Service) CreateBooking(ctx context.Context, actor model.Actor, in CreateBookingInput) (model.Booking, error) {
    checkIn, checkOut := model.Date(in.CheckIn), model.Date(in.CheckOut)
    if !checkOut.After(checkIn) {
        return model.Booking{}, validationf("check_out must be after check_in")
    }
    if checkIn.Before(s.today()) {
        return model.Booking{}, validationf("check_in is in the past")
    }
    if in.Guests < 1 {
        return model.Booking{}, validationf("guests must be at least 1")
    }
    p, err := s.store.Property(ctx, in.PropertyID)
    if err != nil {
        return model.Booking{}, translate(err)
    }
    if p.Status != model.PropertyAvailable {
        return model.Booking{}, validationf("property %d is not accepting bookings", p.ID)
    }
    if in.Guests > p.MaxGuests {
        return model.Booking{}, validationf("property %d accepts at most %d guests", p.ID, p.MaxGuests)
    }

    var b model.Booking
    err = s.store.Atomic(ctx, p.ID, func(tx repository.Tx) error {
        // Mandatory re-check: an earlier lock-free read may be stale.
        hits, err := availability.NewDetector(tx).Conflicts(ctx, p.ID, checkIn, checkOut, availability.Exclude{})
        if err != nil {
            return err
        }
        if len(hits) > 0 {
            return fmt.Errorf("%w: %s to %s overlaps %d existing stay(s)", ErrConflict,
                checkIn.Format(model.DateLayout), checkOut.Format(model.DateLayout), len(hits))
        }
        totals, _, err := s.totals(ctx, tx, p, checkIn, checkOut)
        if err != nil {
            return err
        }

        now := s.now()
        b = model.Booking{
            UUID:          s.newID(),
            PropertyID:    p.ID,
            GuestID:       actor.ID,
            Contact:       in.Contact,
            CheckIn:       checkIn,
            CheckOut:      checkOut,
            Guests:        in.Guests,
            Status:        model.StatusPending,
            PaymentStatus: model.PaymentUnpaid,
            CreatedAt:     now,
            UpdatedAt:     now,
        }
        totals.Apply(&b)
        if s.cfg.NoOnlinePayment {
            b.Status = model.StatusConfirmed
            b.PaymentStatus = model.PaymentPayAtProperty
            b.ConfirmedAt = &now
        }
        if err := tx.InsertBooking(ctx, &b); err != nil {
            return err
        }
        if s.cfg.AutoBlock {
            id := b.ID
            blk := model.AvailabilityBlock{
                PropertyID: p.ID,
                StartDate:  checkIn,
                EndDate:    checkOut.AddDate(0, 0, -1),
                BlockType:  model.BlockBooking,
                Reason:     "booking " + b.UUID,
                IsActive:   true,
                BookingID:  &id,
                CreatedAt:  now,
            }
            if err := tx.InsertBlock(ctx, &blk); err != nil {
                return err
            }
        }
        return nil
    })
    if err != nil {
        return model.Booking{}, translate(err)
    }

    s.log.WithFields(logrus.Fields{"booking": b.UUID, "property": p.ID, "status": b.Status}).Info("booking created")
    tpl := queue.TemplateBookingRequested
    if b.Status == model.StatusConfirmed {
        tpl = queue.TemplateBookingConfirmed
        s.dispatch(notificationFor(tpl, b, p, b.GuestID, b.Contact.Email, s.now()))
    } else {
        s.dispatch(notificationFor(tpl, b, p, p.OwnerID, p.OwnerEmail, s.now()))
    }
    return b, nil
}

// ConfirmBooking moves a pending booking to confirmed.  Only the property
// owner or an admin may confirm.  Binding conflicts are re-checked under
// the lock, ignoring the booking's own auto-block, because a manual block
// may have been placed after the request was made.
func (s *Service) ConfirmBooking(ctx context.Context, bookingUUID string, actor model.Actor) (model.Booking, error) {
    b, err := s.store.Booking(ctx, bookingUUID)
    if err != nil {
        return model.Booking{}, translate(err)
    }
    var p model.Property
    err = s.store.Atomic(ctx, b.PropertyID, func(tx repository.Tx) error {
        var err error
        if p, err = tx.Property(ctx, b.PropertyID); err != nil {
            return err
        }
        if !actor.IsAdmin() && actor.ID != p.OwnerID {
            return ErrPermission
        }
        cur, err := tx.BookingForUpdate(ctx, bookingUUID)
        if err != nil {
            return err
        }
        if !model.CanTransition(cur.Status, model.StatusConfirmed) {
            return fmt.Errorf("%w: cannot confirm a %s booking", ErrInvalidState, cur.Status)
        }
        hits, err := availability.NewDetector(tx).Conflicts(ctx, cur.PropertyID, cur.CheckIn, cur.CheckOut,
            availability.Exclude{BookingID: cur.ID})
        if err != nil {
            return err
        }
        if len(hits) > 0 {
            return fmt.Errorf("%w: the stay now overlaps %d existing stay(s)", ErrConflict, len(hits))
        }
        now := s.now()
        cur.Status = model.StatusConfirmed
        cur.ConfirmedAt = &now
        cur.UpdatedAt = now
        if err := tx.UpdateBooking(ctx, &cur); err != nil {
            return err
        }
        b = cur
        return nil
    })
    if err != nil {
        return model.Booking{}, translate(err)
    }
    s.log.WithFields(logrus.Fields{"booking": b.UUID, "actor": actor.ID}).Info("booking confirmed")
    s.dispatch(notificationFor(queue.TemplateBookingConfirmed, b, p, b.GuestID, b.Contact.Email, s.now()))
    return b, nil
}

// CancelBooking cancels a pending or confirmed booking on behalf of its
// guest, the property owner or an admin.  The refund is computed from the
// whole days left until check-in and stored on the booking.  Any block
// auto-created for the booking is released.
func (s *Service) CancelBooking(ctx context.Context, bookingUUID string, actor model.Actor, reason string) (CancelResult, error) {
    reason = strings.TrimSpace(reason)
    if len(reason) > maxReasonLen {
        return CancelResult{}, validationf("reason must be at most %d characters", maxReasonLen)
    }
    b, err := s.store.Booking(ctx, bookingUUID)
    if err != nil {
        return CancelResult{}, translate(err)
    }
    var p model.Property
    err = s.store.Atomic(ctx, b.PropertyID, func(tx repository.Tx) error {
        var err error
        if p, err = tx.Property(ctx, b.PropertyID); err != nil {
            return err
        }
        cur, err := tx.BookingForUpdate(ctx, bookingUUID)
        if err != nil {
            return err
        }
        by, ok := cancelActor(actor, cur, p)
        if !ok {
            return ErrPermission
        }
        if !model.CanTransition(cur.Status, model.StatusCancelled) {
            return fmt.Errorf("%w: cannot cancel a %s booking", ErrInvalidState, cur.Status)
        }
        now := s.now()
        cur.RefundAmountCents = RefundAmount(cur.FinalPriceCents, model.DaysBetween(s.today(), cur.CheckIn))
        if cur.PaymentStatus == model.PaymentPaid && cur.RefundAmountCents > 0 {
            cur.PaymentStatus = model.PaymentRefundDue
        }
        cur.Status = model.StatusCancelled
        cur.CancelledBy = by
        cur.CancellationReason = reason
        cur.CancelledAt = &now
        cur.UpdatedAt = now
        if err := tx.ReleaseBookingBlocks(ctx, cur.ID); err != nil {
            return err
        }
        if err := tx.UpdateBooking(ctx, &cur); err != nil {
            return err
        }
        b = cur
        return nil
    })
    if err != nil {
        return CancelResult{}, translate(err)
    }
    s.log.WithFields(logrus.Fields{
        "booking": b.UUID, "cancelled_by": b.CancelledBy, "refund_cents": b.RefundAmountCents,
    }).Info("booking cancelled")

    // Tell the other side.
    if b.CancelledBy == model.CancelledByGuest {
        s.dispatch(notificationFor(queue.TemplateBookingCancelled, b, p, p.OwnerID, p.OwnerEmail, s.now()))
    } else {
        s.dispatch(notificationFor(queue.TemplateBookingCancelled, b, p, b.GuestID, b.Contact.Email, s.now()))
    }
    return CancelResult{Booking: b, RefundAmountCents: b.RefundAmountCents}, nil
}

// cancelActor decides in which capacity actor may cancel b.
func cancelActor(actor model.Actor, b model.Booking, p model.Property) (model.CancelActor, bool) {
    switch {
    case actor.IsAdmin():
        return model.CancelledByAdmin, true
    case actor.ID == b.GuestID:
        return model.CancelledByGuest, true
    case actor.ID == p.OwnerID:
        return model.CancelledByOwner, true
    }
    return "", false
}

// GetBooking returns a booking visible to actor: its guest, the property
// owner or an admin.
func (s *Service) GetBooking(ctx context.Context, bookingUUID string, actor model.Actor) (model.Booking, error) {
    b, err := s.store.Booking(ctx, bookingUUID)
    if err != nil {
        return model.Booking{}, translate(err)
    }
    if actor.IsAdmin() || actor.ID == b.GuestID {
        return b, nil
    }
    p, err := s.store.Property(ctx, b.PropertyID)
    if err != nil {
        return model.Booking{}, translate(err)
    }
    if p.OwnerID != actor.ID {
        // Do not reveal that the booking exists.
        return model.Booking{}, fmt.Errorf("%w: booking %s", ErrNotFound, bookingUUID)
    }
    return b, nil
}

// ListGuestBookings returns the actor's own bookings, newest first.
func (s *Service) ListGuestBookings(ctx context.Context, actor model.Actor) ([]model.Booking, error) {
    list, err := s.store.BookingsByGuest(ctx, actor.ID)
    return list, translate(err)
}

// ListPropertyBookings returns every booking of a property to its owner
// or an admin.  A non-empty status filters the list.
func (s *Service) ListPropertyBookings(ctx context.Context, actor model.Actor, propertyID uint64, status model.BookingStatus) ([]model.Booking, error) {
    if _, err := s.authorizeOwner(ctx, actor, propertyID); err != nil {
        return nil, err
    }
    list, err := s.store.BookingsByProperty(ctx, propertyID)
    if err != nil {
        return nil, translate(err)
    }
    if status == "" {
        return list, nil
    }
    out := make([]model.Booking, 0, len(list))
    for _, b := range list {
        if b.Status == status {
            out = append(out, b)
        }
    }
    return out, nil
}
