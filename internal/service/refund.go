package service

// Refund policy thresholds in whole days before check-in.
const (
    fullRefundDays = 7
    halfRefundDays = 3
)

// RefundAmount returns the refund due on cancellation: the full final
// price at 7 or more days before check-in, half of it at 3 to 6 days and
// nothing closer than that.  Half refunds round down to the cent.
func RefundAmount(finalPriceCents int64, daysUntilCheckIn int) int64 {
    switch {
    case daysUntilCheckIn >= fullRefundDays:
        return finalPriceCents
    case daysUntilCheckIn >= halfRefundDays:
        return finalPriceCents / 2
    default:
        return 0
    }
}
