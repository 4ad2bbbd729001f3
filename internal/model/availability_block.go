package model

import "time"

// BlockType classifies an availability block.
type BlockType string

const (
    BlockManual      BlockType = "manual"
    BlockBooking     BlockType = "booking"
    BlockMaintenance BlockType = "maintenance"
)

// AvailabilityBlock marks a property unbookable over an inclusive date
// range.  BookingID is a weak back-reference, set only when the block was
// created automatically alongside a booking.
//
// Fields:
//  ID        – primary key identifier.
//  PropertyID – property the block applies to.
//  StartDate – first blocked day.
//  EndDate   – last blocked day (inclusive).
//  BlockType – manual, booking or maintenance.
//  Reason    – free text shown to the owner.
//  IsActive  – inactive blocks are ignored by conflict detection.
//  BookingID – originating booking for auto-created blocks (nullable).
type AvailabilityBlock struct {
    ID         uint64    `json:"id"`                   // availability_blocks.id
    PropertyID uint64    `json:"property_id"`          // availability_blocks.property_id
    StartDate  time.Time `json:"start_date"`           // availability_blocks.start_date
    EndDate    time.Time `json:"end_date"`             // availability_blocks.end_date
    BlockType  BlockType `json:"block_type"`           // availability_blocks.block_type
    Reason     string    `json:"reason"`               // availability_blocks.reason
    IsActive   bool      `json:"is_active"`            // availability_blocks.is_active
    BookingID  *uint64   `json:"booking_id,omitempty"` // availability_blocks.booking_id (nullable)
    CreatedAt  time.Time `json:"created_at"`           // availability_blocks.created_at
}

// Interval returns the block as an interval candidate.
func (b AvailabilityBlock) Interval() Interval {
    id := b.ID
    return Interval{Start: b.StartDate, End: b.EndDate, Source: SourceBlock, BlockID: &id, BookingID: b.BookingID}
}
