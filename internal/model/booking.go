package model

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
    StatusPending    BookingStatus = "pending"
    StatusConfirmed  BookingStatus = "confirmed"
    StatusInProgress BookingStatus = "in_progress"
    StatusCompleted  BookingStatus = "completed"
    StatusCancelled  BookingStatus = "cancelled"
)

// PaymentStatus tracks the money side of a booking.  Payment capture
// itself happens outside this service; only the status is recorded.
type PaymentStatus string

const (
    PaymentUnpaid        PaymentStatus = "unpaid"
    PaymentPaid          PaymentStatus = "paid"
    PaymentPayAtProperty PaymentStatus = "pay_at_property"
    PaymentRefundDue     PaymentStatus = "refund_due"
    PaymentRefunded      PaymentStatus = "refunded"
)

// ExpiredReason is recorded on bookings force-cancelled by the expiration sweep.
const ExpiredReason = "owner did not confirm in time"

// transitions lists every legal status change.  in_progress has no entry
// edge yet; it is reserved for check-in tracking.
var transitions = map[BookingStatus][]BookingStatus{
    StatusPending:    {StatusConfirmed, StatusCancelled},
    StatusConfirmed:  {StatusCancelled, StatusCompleted},
    StatusInProgress: {StatusCompleted},
}

// CanTransition reports whether a booking may move from one status to another.
func CanTransition(from, to BookingStatus) bool {
    for _, s := range transitions[from] {
        if s == to {
            return true
        }
    }
    return false
}

// IsTerminal reports whether no further transitions are possible.
func (s BookingStatus) IsTerminal() bool {
    return s == StatusCompleted || s == StatusCancelled
}

// IsBinding reports whether a booking in this status blocks other
// candidates.  Pending requests never do.
func (s BookingStatus) IsBinding() bool {
    return s == StatusConfirmed || s == StatusInProgress
}

// GuestContact is the contact data a guest leaves with a booking request.
type GuestContact struct {
    Name  string `json:"name"`
    Email string `json:"email"`
    Phone string `json:"phone,omitempty"`
}

// Booking is a reservation of a property for a date range.  It mirrors a
// row in the `bookings` table.  Money fields are integer cents.  CheckIn
// and CheckOut are calendar dates at UTC midnight.
type Booking struct {
    ID                 uint64        `json:"-"`                          // bookings.id
    UUID               string        `json:"uuid"`                       // bookings.uuid
    PropertyID         uint64        `json:"property_id"`                // bookings.property_id
    GuestID            uint64        `json:"guest_id"`                   // bookings.guest_id
    Contact            GuestContact  `json:"guest"`                      // bookings.guest_name/email/phone
    CheckIn            time.Time     `json:"check_in"`                   // bookings.check_in (DATE)
    CheckOut           time.Time     `json:"check_out"`                  // bookings.check_out (DATE)
    Guests             int           `json:"guests"`                     // bookings.guests
    Nights             int           `json:"nights"`                     // bookings.nights
    PricePerNightCents int64         `json:"price_per_night_cents"`      // bookings.price_per_night_cents
    TotalPriceCents    int64         `json:"total_price_cents"`          // bookings.total_price_cents
    CleaningFeeCents   int64         `json:"cleaning_fee_cents"`         // bookings.cleaning_fee_cents
    ServiceFeeCents    int64         `json:"service_fee_cents"`          // bookings.service_fee_cents
    FinalPriceCents    int64         `json:"final_price_cents"`          // bookings.final_price_cents
    RefundAmountCents  int64         `json:"refund_amount_cents"`        // bookings.refund_amount_cents
    Status             BookingStatus `json:"status"`                     // bookings.status
    PaymentStatus      PaymentStatus `json:"payment_status"`             // bookings.payment_status
    CancellationReason string        `json:"cancellation_reason,omitempty"`
    CancelledBy        CancelActor   `json:"cancelled_by,omitempty"`
    ConfirmedAt        *time.Time    `json:"confirmed_at,omitempty"`
    CancelledAt        *time.Time    `json:"cancelled_at,omitempty"`
    CompletedAt        *time.Time    `json:"completed_at,omitempty"`
    CreatedAt          time.Time     `json:"created_at"`
    UpdatedAt          time.Time     `json:"updated_at"`
}

// Interval returns the booking's stay as a binding interval candidate.
func (b Booking) Interval() Interval {
    id := b.ID
    return Interval{Start: b.CheckIn, End: b.CheckOut, Source: SourceBooking, BookingID: &id}
}
