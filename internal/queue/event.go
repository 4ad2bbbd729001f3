// Package queue carries booking notifications over RabbitMQ.  The API
// side publishes Notification messages; the notifier worker consumes them
// and delivers e-mail.
package queue

import "context"

// Template names the message a notification renders.
type Template string

const (
    TemplateBookingRequested    Template = "booking_requested"     // to owner: a guest asked to book
    TemplateBookingConfirmed    Template = "booking_confirmed"     // to guest
    TemplateBookingCancelled    Template = "booking_cancelled"     // to the other party
    TemplateBookingExpiredGuest Template = "booking_expired_guest" // to guest: owner never answered
    TemplateBookingExpiredOwner Template = "booking_expired_owner" // to owner: request lapsed
)

// Notification is the JSON payload published to the notifications queue.
// It is self-contained so the worker never reads the primary database.
type Notification struct {
    Template          Template `json:"template"`
    RecipientID       uint64   `json:"recipient_id"`
    RecipientEmail    string   `json:"recipient_email"`
    BookingUUID       string   `json:"booking_uuid"`
    PropertyID        uint64   `json:"property_id"`
    PropertyTitle     string   `json:"property_title"`
    GuestName         string   `json:"guest_name"`
    CheckIn           string   `json:"check_in"`
    CheckOut          string   `json:"check_out"`
    Nights            int      `json:"nights"`
    FinalPriceCents   int64    `json:"final_price_cents"`
    RefundAmountCents int64    `json:"refund_amount_cents"`
    Reason            string   `json:"reason,omitempty"`
    OccurredAt        string   `json:"occurred_at"`
}

// Dispatcher sends a notification.  Implementations must be safe for
// concurrent use.
type Dispatcher interface {
    Notify(ctx context.Context, n Notification) error
}
