package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"

	"roost/internal/payments/service"
	"roost/pkg/config"
	apperrors "roost/pkg/errors"
	pkghttp "roost/pkg/http"
	"roost/pkg/middleware"
	"roost/pkg/model"
)

type PaymentHandler struct {
	service service.PaymentService
	cfg     *config.Config
}

func NewPaymentHandler(svc service.PaymentService, cfg *config.Config) *PaymentHandler {
	return &PaymentHandler{service: svc, cfg: cfg}
}

func (h *PaymentHandler) RegisterRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodPost, "/api/v1/payments/create-payment-intent", h.CreateIntent)
	router.HandlerFunc(http.MethodPost, "/api/v1/payments/confirm-booking", h.ConfirmBooking)
	router.HandlerFunc(http.MethodGet, "/api/v1/payments/status/:bookingId", h.Status)
	router.HandlerFunc(http.MethodPost, "/api/v1/payments/webhook", h.Webhook)
}

type createIntentRequest struct {
	BookingID string `json:"bookingId"`
}

func (h *PaymentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		pkghttp.WriteError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	var req createIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}
	if req.BookingID == "" {
		pkghttp.WriteError(w, apperrors.InvalidInput("bookingId is required"))
		return
	}

	result, err := h.service.CreateIntent(r.Context(), principal, req.BookingID)
	if err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	if err := pkghttp.WriteSuccess(w, result); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

type confirmBookingRequest struct {
	BookingID       string `json:"bookingId"`
	PaymentIntentID string `json:"paymentIntentId"`
}

func (h *PaymentHandler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		pkghttp.WriteError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	var req confirmBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}
	if req.BookingID == "" {
		pkghttp.WriteError(w, apperrors.InvalidInput("bookingId is required"))
		return
	}

	booking, err := h.service.ConfirmBooking(r.Context(), principal, req.BookingID, req.PaymentIntentID)
	if err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	if err := pkghttp.WriteSuccess(w, booking); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *PaymentHandler) Status(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		pkghttp.WriteError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	bookingID := httprouter.ParamsFromContext(r.Context()).ByName("bookingId")

	booking, err := h.service.Status(r.Context(), principal, bookingID)
	if err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	if err := pkghttp.WriteSuccess(w, map[string]string{
		"bookingId":     booking.ID,
		"paymentStatus": booking.PaymentStatus,
		"paymentMethod": booking.PaymentMethod,
	}); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

// Webhook receives gateway callbacks. Authentication is the provider's
// signature over the raw body, not a bearer token; the route is exempt from
// the auth middleware for that reason.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		pkghttp.WriteError(w, apperrors.InvalidInput("Could not read webhook payload"))
		return
	}

	event, err := webhook.ConstructEvent(payload, r.Header.Get("Stripe-Signature"), h.cfg.StripeWebhookSecret)
	if err != nil {
		h.cfg.Log.Warn("Webhook signature verification failed", "error", err)
		pkghttp.WriteError(w, apperrors.InvalidInput("Invalid webhook signature"))
		return
	}

	switch event.Type {
	case "payment_intent.succeeded", "payment_intent.payment_failed":
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			h.cfg.Log.Error("Failed to parse webhook payment intent", "event_id", event.ID, "error", err)
			pkghttp.WriteError(w, apperrors.InvalidInput("Malformed event payload"))
			return
		}

		bookingID := pi.Metadata["bookingId"]
		if bookingID == "" {
			h.cfg.Log.Warn("Webhook payment intent missing booking metadata", "payment_intent_id", pi.ID)
			break
		}

		status := model.PaymentPaid
		if event.Type == "payment_intent.payment_failed" {
			status = model.PaymentFailed
		}

		if err := h.service.ApplyWebhookOutcome(r.Context(), bookingID, pi.ID, status); err != nil {
			pkghttp.WriteError(w, err)
			return
		}

	default:
		h.cfg.Log.Debug("Ignoring webhook event type", "type", event.Type)
	}

	if err := pkghttp.WriteJSON(w, http.StatusOK, map[string]bool{"received": true}); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}
