package service

import (
	"context"
	"math"

	bookingservice "roost/internal/bookings/service"
	"roost/internal/payments/gateway"
	"roost/pkg/config"
	apperrors "roost/pkg/errors"
	"roost/pkg/model"
)

// Listed prices are GST-inclusive at 18%, so the tax component is carved out
// of the total rather than added on top.
const gstRate = 0.18

// Breakdown splits a GST-inclusive total into its components. Amounts are in
// major currency units; AmountMinor is the total in the gateway's minor unit.
type Breakdown struct {
	Total       float64 `json:"total"`
	Base        float64 `json:"base"`
	GST         float64 `json:"gst"`
	AmountMinor int64   `json:"amountMinor"`
	Currency    string  `json:"currency"`
}

// IntentResult is returned to the client so it can drive the provider's
// payment UI.
type IntentResult struct {
	PaymentIntentID string    `json:"paymentIntentId"`
	ClientSecret    string    `json:"clientSecret"`
	Breakdown       Breakdown `json:"breakdown"`
}

type PaymentService interface {
	CreateIntent(ctx context.Context, requester model.Principal, bookingID string) (*IntentResult, error)
	ConfirmBooking(ctx context.Context, requester model.Principal, bookingID, paymentIntentID string) (*model.Booking, error)
	Status(ctx context.Context, requester model.Principal, bookingID string) (*model.Booking, error)
	ApplyWebhookOutcome(ctx context.Context, bookingID, paymentIntentID, status string) error
}

type paymentService struct {
	bookings bookingservice.BookingService
	gateway  gateway.PaymentGateway
	currency string
	cfg      *config.Config
}

func NewPaymentService(bookings bookingservice.BookingService, gw gateway.PaymentGateway, cfg *config.Config) PaymentService {
	return &paymentService{
		bookings: bookings,
		gateway:  gw,
		currency: cfg.PaymentCurrency,
		cfg:      cfg,
	}
}

// Split carves the GST component out of a tax-inclusive total.
func Split(total float64, currency string) Breakdown {
	base := round2(total / (1 + gstRate))
	gst := round2(total - base)
	return Breakdown{
		Total:       total,
		Base:        base,
		GST:         gst,
		AmountMinor: int64(math.Round(total * 100)),
		Currency:    currency,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func (s *paymentService) CreateIntent(ctx context.Context, requester model.Principal, bookingID string) (*IntentResult, error) {
	booking, err := s.bookings.GetForRequester(ctx, requester, bookingID)
	if err != nil {
		return nil, err
	}

	if !requester.CanActFor(booking.CustomerID) {
		return nil, apperrors.Forbidden("Only the booking customer can pay for it")
	}
	if booking.PaymentStatus == model.PaymentPaid || booking.PaymentStatus == model.PaymentRefunded {
		return nil, apperrors.Conflict("Booking is not awaiting payment")
	}

	breakdown := Split(booking.TotalPrice, s.currency)

	intent, err := s.gateway.CreateIntent(breakdown.AmountMinor, s.currency, booking.ID, booking.CustomerID)
	if err != nil {
		s.cfg.Log.Error("Failed to create payment intent", "booking_id", bookingID, "error", err)
		return nil, apperrors.Upstream("Payment gateway rejected the request", err)
	}

	s.cfg.Log.Info("Payment intent created",
		"booking_id", bookingID,
		"payment_intent_id", intent.ID,
		"amount_minor", breakdown.AmountMinor,
	)

	return &IntentResult{
		PaymentIntentID: intent.ID,
		ClientSecret:    intent.ClientSecret,
		Breakdown:       breakdown,
	}, nil
}

// ConfirmBooking marks a booking paid after verifying with the gateway that
// the named intent actually succeeded and belongs to this booking. The
// client's claim alone is never trusted.
func (s *paymentService) ConfirmBooking(ctx context.Context, requester model.Principal, bookingID, paymentIntentID string) (*model.Booking, error) {
	if paymentIntentID == "" {
		return nil, apperrors.InvalidInput("Payment intent ID cannot be empty")
	}

	booking, err := s.bookings.GetForRequester(ctx, requester, bookingID)
	if err != nil {
		return nil, err
	}
	if !requester.CanActFor(booking.CustomerID) {
		return nil, apperrors.Forbidden("Only the booking customer can confirm payment")
	}

	intent, err := s.gateway.RetrieveIntent(paymentIntentID)
	if err != nil {
		s.cfg.Log.Error("Failed to retrieve payment intent", "payment_intent_id", paymentIntentID, "error", err)
		return nil, apperrors.Upstream("Could not verify payment with the gateway", err)
	}

	if intent.BookingID != bookingID {
		return nil, apperrors.InvalidInput("Payment intent does not belong to this booking")
	}
	if !intent.Succeeded() {
		return nil, apperrors.Conflict("Payment has not succeeded at the gateway")
	}

	return s.bookings.UpdatePaymentStatus(ctx, requester, bookingID, &model.PaymentUpdate{
		PaymentStatus:   model.PaymentPaid,
		PaymentIntentID: paymentIntentID,
		PaymentMethod:   model.MethodCard,
	})
}

func (s *paymentService) Status(ctx context.Context, requester model.Principal, bookingID string) (*model.Booking, error) {
	return s.bookings.GetForRequester(ctx, requester, bookingID)
}

func (s *paymentService) ApplyWebhookOutcome(ctx context.Context, bookingID, paymentIntentID, status string) error {
	return s.bookings.ApplyGatewayEvent(ctx, bookingID, paymentIntentID, status)
}
