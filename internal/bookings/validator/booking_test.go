package validator

import (
	"strings"
	"testing"
	"time"

	"roost/pkg/logger"
	"roost/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
}

func validBooking() *model.Booking {
	return &model.Booking{
		CustomerID: "64f000000000000000000001",
		HostID:     "64f000000000000000000002",
		ListingID:  "64f000000000000000000003",
		StartDate:  time.Date(2026, 9, 1, 14, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 9, 4, 11, 0, 0, 0, time.UTC),
		TotalPrice: 4720,
		PaymentStatus: model.PaymentPending,
	}
}

func TestValidateBooking(t *testing.T) {
	v := NewBookingValidator(testLogger())

	tests := []struct {
		name    string
		mutate  func(b *model.Booking)
		wantErr string
	}{
		{
			name:   "valid booking",
			mutate: func(b *model.Booking) {},
		},
		{
			name:    "missing customer",
			mutate:  func(b *model.Booking) { b.CustomerID = "" },
			wantErr: "CustomerID",
		},
		{
			name:    "malformed listing id",
			mutate:  func(b *model.Booking) { b.ListingID = "not-an-object-id" },
			wantErr: "ListingID",
		},
		{
			name:    "end before start",
			mutate:  func(b *model.Booking) { b.EndDate = b.StartDate.Add(-time.Hour) },
			wantErr: "EndDate",
		},
		{
			name:    "end equals start",
			mutate:  func(b *model.Booking) { b.EndDate = b.StartDate },
			wantErr: "EndDate",
		},
		{
			name:    "zero price",
			mutate:  func(b *model.Booking) { b.TotalPrice = 0 },
			wantErr: "TotalPrice",
		},
		{
			name:    "negative price",
			mutate:  func(b *model.Booking) { b.TotalPrice = -100 },
			wantErr: "TotalPrice",
		},
		{
			name:    "unknown payment status",
			mutate:  func(b *model.Booking) { b.PaymentStatus = "settled" },
			wantErr: "PaymentStatus",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBooking()
			tt.mutate(b)

			err := v.Validate(b)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("expected error mentioning %s, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error mentioning %s, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestValidatePaymentUpdate(t *testing.T) {
	v := NewBookingValidator(testLogger())

	tests := []struct {
		name    string
		update  model.PaymentUpdate
		wantErr bool
	}{
		{"paid with intent", model.PaymentUpdate{PaymentStatus: model.PaymentPaid, PaymentIntentID: "pi_1", PaymentMethod: model.MethodCard}, false},
		{"failed", model.PaymentUpdate{PaymentStatus: model.PaymentFailed}, false},
		{"cash stays pending", model.PaymentUpdate{PaymentStatus: model.PaymentPending, PaymentMethod: model.MethodCash}, false},
		{"refunded rejected", model.PaymentUpdate{PaymentStatus: model.PaymentRefunded}, true},
		{"empty status", model.PaymentUpdate{}, true},
		{"unknown status", model.PaymentUpdate{PaymentStatus: "settled"}, true},
		{"unknown method", model.PaymentUpdate{PaymentStatus: model.PaymentPaid, PaymentMethod: "barter"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidatePaymentUpdate(&tt.update)
			if tt.wantErr && err == nil {
				t.Error("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

