// Package gateway wraps the payment provider behind a small interface so
// services and tests do not depend on the provider SDK directly.
package gateway

import (
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// Intent is the provider-neutral view of a payment attempt.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	AmountMinor  int64
	Currency     string
	BookingID    string
}

type PaymentGateway interface {
	CreateIntent(amountMinor int64, currency, bookingID, customerID string) (*Intent, error)
	RetrieveIntent(id string) (*Intent, error)
}

type stripeGateway struct {
	api *client.API
}

func NewStripeGateway(secretKey string) PaymentGateway {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &stripeGateway{api: api}
}

func (g *stripeGateway) CreateIntent(amountMinor int64, currency, bookingID, customerID string) (*Intent, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountMinor),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.AddMetadata("bookingId", bookingID)
	params.AddMetadata("customerId", customerID)

	pi, err := g.api.PaymentIntents.New(params)
	if err != nil {
		return nil, fmt.Errorf("creating payment intent: %w", err)
	}

	return fromStripe(pi), nil
}

func (g *stripeGateway) RetrieveIntent(id string) (*Intent, error) {
	pi, err := g.api.PaymentIntents.Get(id, nil)
	if err != nil {
		return nil, fmt.Errorf("retrieving payment intent %s: %w", id, err)
	}

	return fromStripe(pi), nil
}

func fromStripe(pi *stripe.PaymentIntent) *Intent {
	return &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		AmountMinor:  pi.Amount,
		Currency:     string(pi.Currency),
		BookingID:    pi.Metadata["bookingId"],
	}
}

// Succeeded reports whether the provider considers the attempt complete.
func (i *Intent) Succeeded() bool {
	return i.Status == string(stripe.PaymentIntentStatusSucceeded)
}
