package model

import "testing"

func TestTransitionAllowed(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		// first payment attempt
		{PaymentPending, PaymentPaid, true},
		{PaymentPending, PaymentFailed, true},
		// cash flow records a method without changing state
		{PaymentPending, PaymentPending, true},
		// retry after a failed attempt
		{PaymentFailed, PaymentPaid, true},
		{PaymentFailed, PaymentFailed, true},
		// gateway replays of a success
		{PaymentPaid, PaymentPaid, true},
		// refund only out of paid
		{PaymentPaid, PaymentRefunded, true},
		{PaymentPending, PaymentRefunded, false},
		{PaymentFailed, PaymentRefunded, false},
		// paid never reverts
		{PaymentPaid, PaymentFailed, false},
		{PaymentPaid, PaymentPending, false},
		// refunded is terminal
		{PaymentRefunded, PaymentPaid, false},
		{PaymentRefunded, PaymentFailed, false},
		{PaymentRefunded, PaymentPending, false},
		{PaymentRefunded, PaymentRefunded, false},
		// non-pending states cannot return to pending
		{PaymentFailed, PaymentPending, false},
		// unknown statuses never transition
		{"unknown", PaymentPaid, false},
		{PaymentPending, "unknown", false},
	}

	for _, tt := range tests {
		t.Run(tt.from+"_to_"+tt.to, func(t *testing.T) {
			if got := TransitionAllowed(tt.from, tt.to); got != tt.want {
				t.Errorf("TransitionAllowed(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestAllowedTransitionsCoversEveryStatus(t *testing.T) {
	for _, status := range []string{PaymentPending, PaymentPaid, PaymentFailed} {
		if _, ok := AllowedTransitions[status]; !ok {
			t.Errorf("no transition sources defined for target %q", status)
		}
	}
	if _, ok := AllowedTransitions[PaymentRefunded]; !ok {
		t.Error("no transition sources defined for target refunded")
	}
}

func TestPrincipalAccess(t *testing.T) {
	booking := &Booking{
		CustomerID: "cust",
		HostID:     "host",
	}

	tests := []struct {
		name      string
		principal Principal
		canAccess bool
	}{
		{"customer", Principal{ID: "cust"}, true},
		{"host", Principal{ID: "host"}, true},
		{"admin", Principal{ID: "other", IsAdmin: true}, true},
		{"stranger", Principal{ID: "other"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.principal.CanAccessBooking(booking); got != tt.canAccess {
				t.Errorf("CanAccessBooking() = %v, want %v", got, tt.canAccess)
			}
		})
	}
}
