package events

import "time"

// Event types emitted on the booking lifecycle stream.
const (
	TypeBookingCreated   = "booking.created"
	TypeBookingCancelled = "booking.cancelled"
	TypeBookingRefunded  = "booking.refunded"
	TypePaymentPaid      = "payment.paid"
	TypePaymentFailed    = "payment.failed"
)

// Header keys carried on every message.
const (
	HeaderEventID   = "event-id"
	HeaderEventType = "event-type"
	HeaderSource    = "source"
	HeaderTimestamp = "timestamp"

	HeaderOriginalTopic = "original-topic"
	HeaderDLQError      = "dlq-error"
)

// BookingEvent is the payload published for every booking state change.
// Messages are keyed by BookingID so all events for one booking stay ordered
// within a partition.
type BookingEvent struct {
	Type          string    `json:"type"`
	BookingID     string    `json:"booking_id"`
	CustomerID    string    `json:"customer_id,omitempty"`
	HostID        string    `json:"host_id,omitempty"`
	ListingID     string    `json:"listing_id,omitempty"`
	PaymentStatus string    `json:"payment_status,omitempty"`
	TotalPrice    float64   `json:"total_price,omitempty"`
	OccurredAt    time.Time `json:"occurred_at"`
}
