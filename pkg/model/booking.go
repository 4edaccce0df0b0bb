package model

import "time"

// Payment statuses a booking moves through. Pending is the only initial
// state; refunded is terminal.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

const (
	MethodCard = "card"
	MethodUPI  = "upi"
	MethodCash = "cash"
)

type Booking struct {
	ID              string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	CustomerID      string    `json:"customer_id" bson:"customer_id" validate:"required,mongodb"`
	HostID          string    `json:"host_id" bson:"host_id" validate:"required,mongodb"`
	ListingID       string    `json:"listing_id" bson:"listing_id" validate:"required,mongodb"`
	StartDate       time.Time `json:"start_date" bson:"start_date" validate:"required"`
	EndDate         time.Time `json:"end_date" bson:"end_date" validate:"required,gtfield=StartDate"`
	TotalPrice      float64   `json:"total_price" bson:"total_price" validate:"required,gt=0"`
	PaymentStatus   string    `json:"payment_status" bson:"payment_status" validate:"required,oneof=pending paid failed refunded"`
	PaymentIntentID string    `json:"payment_intent_id,omitempty" bson:"payment_intent_id,omitempty"`
	PaymentMethod   string    `json:"payment_method,omitempty" bson:"payment_method,omitempty" validate:"omitempty,oneof=card upi cash"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	UpdatedAt       time.Time `json:"updated_at" bson:"updated_at" validate:"omitempty"`
}

// PaymentUpdate is the payload of the direct confirmation call: the client
// declares the outcome it observed, together with the gateway intent and the
// method it used. Cash confirmations keep the status at pending.
type PaymentUpdate struct {
	PaymentStatus   string `json:"payment_status" validate:"required,oneof=pending paid failed"`
	PaymentIntentID string `json:"payment_intent_id,omitempty"`
	PaymentMethod   string `json:"payment_method,omitempty" validate:"omitempty,oneof=card upi cash"`
}

// BookingDetail is the joined view returned by GetByID: the booking plus
// resolved listing and user summaries for display.
type BookingDetail struct {
	Booking  *Booking        `json:"booking"`
	Listing  *ListingSummary `json:"listing,omitempty"`
	Customer *UserSummary    `json:"customer,omitempty"`
	Host     *UserSummary    `json:"host,omitempty"`
}

// AllowedTransitions is the guarded payment-status table. A write lands only
// if the booking's current status is in the set for the requested target, so
// a stale direct confirmation or a late webhook cannot clobber a terminal
// state (in particular, refunded is never re-entered and paid never reverts
// to failed). Retrying after a failure is allowed, and re-applying the same
// terminal-free status is a no-op rather than an error, which makes webhook
// redelivery idempotent.
var AllowedTransitions = map[string][]string{
	PaymentPending:  {PaymentPending},
	PaymentPaid:     {PaymentPending, PaymentFailed, PaymentPaid},
	PaymentFailed:   {PaymentPending, PaymentFailed},
	PaymentRefunded: {PaymentPaid},
}

// TransitionAllowed reports whether a booking currently in `from` may move
// to `to`.
func TransitionAllowed(from, to string) bool {
	for _, s := range AllowedTransitions[to] {
		if s == from {
			return true
		}
	}
	return false
}
