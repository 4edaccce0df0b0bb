package service

import (
	"context"
	"errors"
	"math"
	"testing"

	bookingservice "roost/internal/bookings/service"
	"roost/internal/payments/gateway"
	"roost/pkg/config"
	apperrors "roost/pkg/errors"
	"roost/pkg/logger"
	"roost/pkg/model"
)

// ────────────────────────────────────────────────
// Mocks
// ────────────────────────────────────────────────

type mockBookingService struct {
	getForRequesterFunc func(ctx context.Context, requester model.Principal, id string) (*model.Booking, error)
	updateStatusFunc    func(ctx context.Context, requester model.Principal, id string, update *model.PaymentUpdate) (*model.Booking, error)
	gatewayEvents       []string
}

func (m *mockBookingService) Create(ctx context.Context, requester model.Principal, booking *model.Booking) error {
	return nil
}

func (m *mockBookingService) GetByID(ctx context.Context, requester model.Principal, id string) (*model.BookingDetail, error) {
	return nil, nil
}

func (m *mockBookingService) GetForRequester(ctx context.Context, requester model.Principal, id string) (*model.Booking, error) {
	if m.getForRequesterFunc != nil {
		return m.getForRequesterFunc(ctx, requester, id)
	}
	return nil, apperrors.NotFoundWithID("Booking", id)
}

func (m *mockBookingService) ListForUser(ctx context.Context, requester model.Principal, userID string) ([]*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingService) UpdatePaymentStatus(ctx context.Context, requester model.Principal, id string, update *model.PaymentUpdate) (*model.Booking, error) {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, requester, id, update)
	}
	return nil, nil
}

func (m *mockBookingService) Cancel(ctx context.Context, requester model.Principal, id string) (*bookingservice.CancelResult, error) {
	return nil, nil
}

func (m *mockBookingService) ApplyGatewayEvent(ctx context.Context, bookingID, paymentIntentID, status string) error {
	m.gatewayEvents = append(m.gatewayEvents, bookingID+":"+status)
	return nil
}

type mockGateway struct {
	createIntentFunc   func(amountMinor int64, currency, bookingID, customerID string) (*gateway.Intent, error)
	retrieveIntentFunc func(id string) (*gateway.Intent, error)
}

func (m *mockGateway) CreateIntent(amountMinor int64, currency, bookingID, customerID string) (*gateway.Intent, error) {
	if m.createIntentFunc != nil {
		return m.createIntentFunc(amountMinor, currency, bookingID, customerID)
	}
	return &gateway.Intent{ID: "pi_test", ClientSecret: "pi_test_secret", AmountMinor: amountMinor, Currency: currency, BookingID: bookingID}, nil
}

func (m *mockGateway) RetrieveIntent(id string) (*gateway.Intent, error) {
	if m.retrieveIntentFunc != nil {
		return m.retrieveIntentFunc(id)
	}
	return nil, errors.New("no such intent")
}

// ────────────────────────────────────────────────
// Fixtures
// ────────────────────────────────────────────────

func testConfig() *config.Config {
	return &config.Config{
		PaymentCurrency: "inr",
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
	}
}

var customer = model.Principal{ID: "64f000000000000000000001"}

func pendingBooking() *model.Booking {
	return &model.Booking{
		ID:            "64f0000000000000000000aa",
		CustomerID:    customer.ID,
		HostID:        "64f000000000000000000002",
		ListingID:     "64f000000000000000000003",
		TotalPrice:    1180,
		PaymentStatus: model.PaymentPending,
	}
}

func wantCode(t *testing.T, err error, code string) {
	t.Helper()
	if !apperrors.IsAppError(err) {
		t.Fatalf("expected AppError with code %s, got %T: %v", code, err, err)
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != code {
		t.Fatalf("expected code %s, got %s", code, appErr.Code)
	}
}

// ────────────────────────────────────────────────
// GST split
// ────────────────────────────────────────────────

func TestSplit(t *testing.T) {
	tests := []struct {
		total    float64
		wantBase float64
		wantGST  float64
		wantMinor int64
	}{
		{1180, 1000, 180, 118000},
		{118, 100, 18, 11800},
		{4720, 4000, 720, 472000},
		// non-round totals still recombine exactly
		{999.99, 847.45, 152.54, 99999},
		{0.59, 0.5, 0.09, 59},
	}

	for _, tt := range tests {
		b := Split(tt.total, "inr")
		if b.Base != tt.wantBase {
			t.Errorf("Split(%v).Base = %v, want %v", tt.total, b.Base, tt.wantBase)
		}
		if b.GST != tt.wantGST {
			t.Errorf("Split(%v).GST = %v, want %v", tt.total, b.GST, tt.wantGST)
		}
		if b.AmountMinor != tt.wantMinor {
			t.Errorf("Split(%v).AmountMinor = %v, want %v", tt.total, b.AmountMinor, tt.wantMinor)
		}
		// base + gst must reconstruct the charged total to the paisa
		if math.Abs((b.Base+b.GST)-tt.total) > 0.005 {
			t.Errorf("Split(%v): base %v + gst %v does not recombine", tt.total, b.Base, b.GST)
		}
	}
}

// ────────────────────────────────────────────────
// CreateIntent
// ────────────────────────────────────────────────

func TestCreateIntent(t *testing.T) {
	booking := pendingBooking()
	bookings := &mockBookingService{
		getForRequesterFunc: func(ctx context.Context, requester model.Principal, id string) (*model.Booking, error) {
			return booking, nil
		},
	}

	var gotAmount int64
	gw := &mockGateway{
		createIntentFunc: func(amountMinor int64, currency, bookingID, customerID string) (*gateway.Intent, error) {
			gotAmount = amountMinor
			return &gateway.Intent{ID: "pi_1", ClientSecret: "secret_1", BookingID: bookingID}, nil
		},
	}

	svc := NewPaymentService(bookings, gw, testConfig())

	result, err := svc.CreateIntent(context.Background(), customer, booking.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAmount != 118000 {
		t.Errorf("expected gateway charge of 118000 minor units, got %d", gotAmount)
	}
	if result.ClientSecret != "secret_1" {
		t.Errorf("expected client secret passthrough, got %s", result.ClientSecret)
	}
	if result.Breakdown.Base != 1000 || result.Breakdown.GST != 180 {
		t.Errorf("unexpected breakdown: %+v", result.Breakdown)
	}
}

func TestCreateIntent_RejectsSettledBooking(t *testing.T) {
	for _, status := range []string{model.PaymentPaid, model.PaymentRefunded} {
		t.Run(status, func(t *testing.T) {
			booking := pendingBooking()
			booking.PaymentStatus = status
			bookings := &mockBookingService{
				getForRequesterFunc: func(ctx context.Context, requester model.Principal, id string) (*model.Booking, error) {
					return booking, nil
				},
			}
			svc := NewPaymentService(bookings, &mockGateway{}, testConfig())

			_, err := svc.CreateIntent(context.Background(), customer, booking.ID)
			wantCode(t, err, apperrors.CodeConflict)
		})
	}
}

func TestCreateIntent_GatewayFailure(t *testing.T) {
	booking := pendingBooking()
	bookings := &mockBookingService{
		getForRequesterFunc: func(ctx context.Context, requester model.Principal, id string) (*model.Booking, error) {
			return booking, nil
		},
	}
	gw := &mockGateway{
		createIntentFunc: func(int64, string, string, string) (*gateway.Intent, error) {
			return nil, errors.New("gateway down")
		},
	}
	svc := NewPaymentService(bookings, gw, testConfig())

	_, err := svc.CreateIntent(context.Background(), customer, booking.ID)
	wantCode(t, err, apperrors.CodeUpstream)
}

// ────────────────────────────────────────────────
// ConfirmBooking
// ────────────────────────────────────────────────

func TestConfirmBooking_VerifiesWithGateway(t *testing.T) {
	booking := pendingBooking()
	confirmed := false
	bookings := &mockBookingService{
		getForRequesterFunc: func(ctx context.Context, requester model.Principal, id string) (*model.Booking, error) {
			return booking, nil
		},
		updateStatusFunc: func(ctx context.Context, requester model.Principal, id string, update *model.PaymentUpdate) (*model.Booking, error) {
			confirmed = true
			b := *booking
			b.PaymentStatus = update.PaymentStatus
			return &b, nil
		},
	}
	gw := &mockGateway{
		retrieveIntentFunc: func(id string) (*gateway.Intent, error) {
			return &gateway.Intent{ID: id, Status: "succeeded", BookingID: booking.ID}, nil
		},
	}
	svc := NewPaymentService(bookings, gw, testConfig())

	updated, err := svc.ConfirmBooking(context.Background(), customer, booking.ID, "pi_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !confirmed || updated.PaymentStatus != model.PaymentPaid {
		t.Errorf("expected confirmed paid booking, got %+v", updated)
	}
}

func TestConfirmBooking_RejectsForeignIntent(t *testing.T) {
	booking := pendingBooking()
	bookings := &mockBookingService{
		getForRequesterFunc: func(ctx context.Context, requester model.Principal, id string) (*model.Booking, error) {
			return booking, nil
		},
	}
	gw := &mockGateway{
		retrieveIntentFunc: func(id string) (*gateway.Intent, error) {
			return &gateway.Intent{ID: id, Status: "succeeded", BookingID: "some-other-booking"}, nil
		},
	}
	svc := NewPaymentService(bookings, gw, testConfig())

	_, err := svc.ConfirmBooking(context.Background(), customer, booking.ID, "pi_1")
	wantCode(t, err, apperrors.CodeInvalidInput)
}

func TestConfirmBooking_RejectsUnsettledIntent(t *testing.T) {
	booking := pendingBooking()
	bookings := &mockBookingService{
		getForRequesterFunc: func(ctx context.Context, requester model.Principal, id string) (*model.Booking, error) {
			return booking, nil
		},
	}
	gw := &mockGateway{
		retrieveIntentFunc: func(id string) (*gateway.Intent, error) {
			return &gateway.Intent{ID: id, Status: "requires_payment_method", BookingID: booking.ID}, nil
		},
	}
	svc := NewPaymentService(bookings, gw, testConfig())

	_, err := svc.ConfirmBooking(context.Background(), customer, booking.ID, "pi_1")
	wantCode(t, err, apperrors.CodeConflict)
}

func TestConfirmBooking_RequiresIntentID(t *testing.T) {
	svc := NewPaymentService(&mockBookingService{}, &mockGateway{}, testConfig())

	_, err := svc.ConfirmBooking(context.Background(), customer, "64f0000000000000000000aa", "")
	wantCode(t, err, apperrors.CodeInvalidInput)
}
