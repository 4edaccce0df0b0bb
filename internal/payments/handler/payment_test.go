package handler

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stripe/stripe-go/v76"

	"roost/internal/payments/service"
	"roost/pkg/config"
	"roost/pkg/logger"
	"roost/pkg/model"
)

const webhookSecret = "whsec_test_secret"

// ────────────────────────────────────────────────
// Mock payment service
// ────────────────────────────────────────────────

type mockPaymentService struct {
	outcomes []string
	applyErr error
}

func (m *mockPaymentService) CreateIntent(ctx context.Context, requester model.Principal, bookingID string) (*service.IntentResult, error) {
	return nil, nil
}

func (m *mockPaymentService) ConfirmBooking(ctx context.Context, requester model.Principal, bookingID, paymentIntentID string) (*model.Booking, error) {
	return nil, nil
}

func (m *mockPaymentService) Status(ctx context.Context, requester model.Principal, bookingID string) (*model.Booking, error) {
	return nil, nil
}

func (m *mockPaymentService) ApplyWebhookOutcome(ctx context.Context, bookingID, paymentIntentID, status string) error {
	if m.applyErr != nil {
		return m.applyErr
	}
	m.outcomes = append(m.outcomes, fmt.Sprintf("%s|%s|%s", bookingID, paymentIntentID, status))
	return nil
}

// ────────────────────────────────────────────────
// Helpers
// ────────────────────────────────────────────────

func testHandler(svc service.PaymentService) *PaymentHandler {
	cfg := &config.Config{
		StripeWebhookSecret: webhookSecret,
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
	}
	return NewPaymentHandler(svc, cfg)
}

// signPayload builds a Stripe-Signature header the same way the provider
// does: v1 is an HMAC-SHA256 of "<timestamp>.<payload>".
func signPayload(payload []byte, secret string, ts time.Time) string {
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts.Unix(), payload)
	return fmt.Sprintf("t=%d,v1=%s", ts.Unix(), hex.EncodeToString(mac.Sum(nil)))
}

func eventPayload(t *testing.T, eventType string, pi map[string]any) []byte {
	t.Helper()
	payload, err := json.Marshal(map[string]any{
		"id":          "evt_test_1",
		"object":      "event",
		"api_version": stripe.APIVersion,
		"type":        eventType,
		"data":        map[string]any{"object": pi},
	})
	if err != nil {
		t.Fatalf("failed to marshal event: %v", err)
	}
	return payload
}

func postWebhook(h *PaymentHandler, payload []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/payments/webhook", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", signature)
	rec := httptest.NewRecorder()
	h.Webhook(rec, req)
	return rec
}

// ────────────────────────────────────────────────
// Tests
// ────────────────────────────────────────────────

func TestWebhook_PaymentSucceeded(t *testing.T) {
	svc := &mockPaymentService{}
	h := testHandler(svc)

	payload := eventPayload(t, "payment_intent.succeeded", map[string]any{
		"id":       "pi_1",
		"object":   "payment_intent",
		"metadata": map[string]string{"bookingId": "64f0000000000000000000aa"},
	})

	rec := postWebhook(h, payload, signPayload(payload, webhookSecret, time.Now()))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(svc.outcomes) != 1 || svc.outcomes[0] != "64f0000000000000000000aa|pi_1|paid" {
		t.Errorf("expected paid outcome applied, got %v", svc.outcomes)
	}

	var resp map[string]bool
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || !resp["received"] {
		t.Errorf("expected {received:true}, got %s", rec.Body.String())
	}
}

func TestWebhook_PaymentFailed(t *testing.T) {
	svc := &mockPaymentService{}
	h := testHandler(svc)

	payload := eventPayload(t, "payment_intent.payment_failed", map[string]any{
		"id":       "pi_2",
		"object":   "payment_intent",
		"metadata": map[string]string{"bookingId": "64f0000000000000000000aa"},
	})

	rec := postWebhook(h, payload, signPayload(payload, webhookSecret, time.Now()))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(svc.outcomes) != 1 || svc.outcomes[0] != "64f0000000000000000000aa|pi_2|failed" {
		t.Errorf("expected failed outcome applied, got %v", svc.outcomes)
	}
}

func TestWebhook_InvalidSignatureRejected(t *testing.T) {
	svc := &mockPaymentService{}
	h := testHandler(svc)

	payload := eventPayload(t, "payment_intent.succeeded", map[string]any{
		"id":       "pi_1",
		"object":   "payment_intent",
		"metadata": map[string]string{"bookingId": "64f0000000000000000000aa"},
	})

	rec := postWebhook(h, payload, signPayload(payload, "whsec_wrong_secret", time.Now()))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if len(svc.outcomes) != 0 {
		t.Errorf("no outcome should be applied on bad signature, got %v", svc.outcomes)
	}
}

func TestWebhook_ExpiredSignatureRejected(t *testing.T) {
	svc := &mockPaymentService{}
	h := testHandler(svc)

	payload := eventPayload(t, "payment_intent.succeeded", map[string]any{
		"id":       "pi_1",
		"object":   "payment_intent",
		"metadata": map[string]string{"bookingId": "64f0000000000000000000aa"},
	})

	// Outside the provider's default replay tolerance.
	stale := time.Now().Add(-time.Hour)
	rec := postWebhook(h, payload, signPayload(payload, webhookSecret, stale))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestWebhook_IgnoresUnrelatedEventTypes(t *testing.T) {
	svc := &mockPaymentService{}
	h := testHandler(svc)

	payload := eventPayload(t, "charge.dispute.created", map[string]any{
		"id":     "dp_1",
		"object": "dispute",
	})

	rec := postWebhook(h, payload, signPayload(payload, webhookSecret, time.Now()))

	if rec.Code != http.StatusOK {
		t.Fatalf("unrelated events still get 200, got %d", rec.Code)
	}
	if len(svc.outcomes) != 0 {
		t.Errorf("no outcome expected, got %v", svc.outcomes)
	}
}

func TestWebhook_MissingBookingMetadataAcknowledged(t *testing.T) {
	svc := &mockPaymentService{}
	h := testHandler(svc)

	payload := eventPayload(t, "payment_intent.succeeded", map[string]any{
		"id":     "pi_orphan",
		"object": "payment_intent",
	})

	rec := postWebhook(h, payload, signPayload(payload, webhookSecret, time.Now()))

	// Acknowledge so the provider stops redelivering an event we can never
	// attribute to a booking.
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(svc.outcomes) != 0 {
		t.Errorf("no outcome expected, got %v", svc.outcomes)
	}
}
