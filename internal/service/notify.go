package service

import (
    "context"
    "fmt"
    "time"

    "github.com/sirupsen/logrus"

    "github.com/iliyamo/stay-reservation/internal/model"
    "github.com/iliyamo/stay-reservation/internal/queue"
)

func notificationFor(tpl queue.Template, b model.Booking, p model.Property, recipientID uint64, email string, at time.Time) queue.Notification {
    return queue.Notification{
        Template:          tpl,
        RecipientID:       recipientID,
        RecipientEmail:    email,
        BookingUUID:       b.UUID,
        PropertyID:        p.ID,
        PropertyTitle:     p.Title,
        GuestName:         b.Contact.Name,
        CheckIn:           b.CheckIn.Format(model.DateLayout),
        CheckOut:          b.CheckOut.Format(model.DateLayout),
        Nights:            b.Nights,
        FinalPriceCents:   b.FinalPriceCents,
        RefundAmountCents: b.RefundAmountCents,
        Reason:            b.CancellationReason,
        OccurredAt:        at.Format(time.RFC3339),
    }
}

// dispatch sends n in the background after the state change committed.
// A failure is logged as a dependency failure and never reaches the
// caller.
func (s *Service) dispatch(n queue.Notification) {
    if s.dispatcher == nil {
        return
    }
    s.pending.Add(1)
    go func() {
        defer s.pending.Done()
        ctx, cancel := context.WithTimeout(context.Background(), s.cfg.NotifyTimeout)
        defer cancel()
        s.send(ctx, n)
    }()
}

func (s *Service) send(ctx context.Context, n queue.Notification) bool {
    if err := s.dispatcher.Notify(ctx, n); err != nil {
        s.log.WithError(fmt.Errorf("%w: %v", ErrDependency, err)).WithFields(logrus.Fields{
            "template": n.Template, "booking": n.BookingUUID, "recipient": n.RecipientID,
        }).Warn("notification dispatch failed")
        return false
    }
    return true
}

// NotifyExpired is the dispatch stage of the expiration sweep: one message
// to the guest and one to the owner of every expired booking.  It returns
// the number of messages handed to the dispatcher.
func (s *Service) NotifyExpired(ctx context.Context, expired []model.Booking) int {
    if s.dispatcher == nil {
        return 0
    }
    sent := 0
    properties := map[uint64]model.Property{}
    for _, b := range expired {
        p, ok := properties[b.PropertyID]
        if !ok {
            var err error
            p, err = s.store.Property(ctx, b.PropertyID)
            if err != nil {
                s.log.WithError(err).WithField("booking", b.UUID).Warn("expired booking: property lookup failed")
                p = model.Property{ID: b.PropertyID}
            }
            properties[b.PropertyID] = p
        }
        now := s.now()
        for _, n := range []queue.Notification{
            notificationFor(queue.TemplateBookingExpiredGuest, b, p, b.GuestID, b.Contact.Email, now),
            notificationFor(queue.TemplateBookingExpiredOwner, b, p, p.OwnerID, p.OwnerEmail, now),
        } {
            cctx, cancel := context.WithTimeout(ctx, s.cfg.NotifyTimeout)
            if s.send(cctx, n) {
                sent++
            }
            cancel()
        }
    }
    return sent
}
