package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"roost/internal/bookings/service"
	"roost/pkg/config"
	apperrors "roost/pkg/errors"
	pkghttp "roost/pkg/http"
	"roost/pkg/middleware"
	"roost/pkg/model"
)

type BookingHandler struct {
	service service.BookingService
	cfg     *config.Config
}

func NewBookingHandler(svc service.BookingService, cfg *config.Config) *BookingHandler {
	return &BookingHandler{service: svc, cfg: cfg}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodPost, "/api/v1/bookings", h.Create)
	router.HandlerFunc(http.MethodGet, "/api/v1/bookings/id/:id", h.GetByID)
	router.HandlerFunc(http.MethodDelete, "/api/v1/bookings/id/:id", h.Cancel)
	router.HandlerFunc(http.MethodPatch, "/api/v1/bookings/id/:id/payment-status", h.UpdatePaymentStatus)
	router.HandlerFunc(http.MethodGet, "/api/v1/bookings/user/:userId", h.ListForUser)
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		pkghttp.WriteError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	var booking model.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		pkghttp.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.Create(r.Context(), principal, &booking); err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	if err := pkghttp.WriteCreated(w, booking); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		pkghttp.WriteError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	id := httprouter.ParamsFromContext(r.Context()).ByName("id")

	detail, err := h.service.GetByID(r.Context(), principal, id)
	if err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	if err := pkghttp.WriteSuccess(w, detail); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *BookingHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		pkghttp.WriteError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	userID := httprouter.ParamsFromContext(r.Context()).ByName("userId")

	bookings, err := h.service.ListForUser(r.Context(), principal, userID)
	if err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	if err := pkghttp.WriteSuccess(w, bookings); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *BookingHandler) UpdatePaymentStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		pkghttp.WriteError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	id := httprouter.ParamsFromContext(r.Context()).ByName("id")

	var update model.PaymentUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		pkghttp.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	booking, err := h.service.UpdatePaymentStatus(r.Context(), principal, id, &update)
	if err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	if err := pkghttp.WriteSuccess(w, booking); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		pkghttp.WriteError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	id := httprouter.ParamsFromContext(r.Context()).ByName("id")

	result, err := h.service.Cancel(r.Context(), principal, id)
	if err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	if result.Refunded {
		if err := pkghttp.WriteSuccess(w, result.Booking); err != nil {
			h.cfg.Log.Error("Failed to write response", "error", err)
		}
		return
	}

	if err := pkghttp.WriteMessage(w, "Booking cancelled", nil); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}
