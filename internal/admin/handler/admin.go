package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"roost/internal/admin/service"
	"roost/pkg/config"
	apperrors "roost/pkg/errors"
	pkghttp "roost/pkg/http"
	"roost/pkg/middleware"
	"roost/pkg/model"
)

type AdminHandler struct {
	service service.AdminService
	cfg     *config.Config
}

func NewAdminHandler(svc service.AdminService, cfg *config.Config) *AdminHandler {
	return &AdminHandler{service: svc, cfg: cfg}
}

func (h *AdminHandler) RegisterRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/api/v1/admin/dashboard", h.Dashboard)
	router.HandlerFunc(http.MethodGet, "/api/v1/admin/users", h.ListUsers)
	router.HandlerFunc(http.MethodPut, "/api/v1/admin/users/:id", h.UpdateUser)
	router.HandlerFunc(http.MethodDelete, "/api/v1/admin/users/:id", h.DeleteUser)
	router.HandlerFunc(http.MethodGet, "/api/v1/admin/listings", h.ListListings)
	router.HandlerFunc(http.MethodPut, "/api/v1/admin/listings/:id", h.UpdateListing)
	router.HandlerFunc(http.MethodDelete, "/api/v1/admin/listings/:id", h.DeleteListing)
	router.HandlerFunc(http.MethodGet, "/api/v1/admin/bookings", h.ListBookings)
}

func (h *AdminHandler) principal(w http.ResponseWriter, r *http.Request) (model.Principal, bool) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		pkghttp.WriteError(w, apperrors.Unauthorized("Authentication required"))
		return model.Principal{}, false
	}
	return principal, true
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	stats, err := h.service.Dashboard(r.Context(), principal)
	if err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	if err := pkghttp.WriteSuccess(w, stats); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	limit, offset, err := pkghttp.ExtractLimitOffset(r)
	if err != nil {
		pkghttp.WriteError(w, apperrors.InvalidInput("Invalid pagination parameters"))
		return
	}

	users, total, err := h.service.ListUsers(r.Context(), principal, limit, offset)
	if err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	if err := pkghttp.WritePaginated(w, users, total, limit, offset); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *AdminHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	id := httprouter.ParamsFromContext(r.Context()).ByName("id")

	var update model.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		pkghttp.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	user, err := h.service.UpdateUser(r.Context(), principal, id, &update)
	if err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	if err := pkghttp.WriteSuccess(w, user); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	id := httprouter.ParamsFromContext(r.Context()).ByName("id")

	if err := h.service.DeleteUser(r.Context(), principal, id); err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	pkghttp.WriteNoContent(w)
}

func (h *AdminHandler) ListListings(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	limit, offset, err := pkghttp.ExtractLimitOffset(r)
	if err != nil {
		pkghttp.WriteError(w, apperrors.InvalidInput("Invalid pagination parameters"))
		return
	}

	listings, total, err := h.service.ListListings(r.Context(), principal, limit, offset)
	if err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	if err := pkghttp.WritePaginated(w, listings, total, limit, offset); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *AdminHandler) UpdateListing(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	id := httprouter.ParamsFromContext(r.Context()).ByName("id")

	var update model.ListingUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		pkghttp.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	listing, err := h.service.UpdateListing(r.Context(), principal, id, &update)
	if err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	if err := pkghttp.WriteSuccess(w, listing); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *AdminHandler) DeleteListing(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	id := httprouter.ParamsFromContext(r.Context()).ByName("id")

	if err := h.service.DeleteListing(r.Context(), principal, id); err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	pkghttp.WriteNoContent(w)
}

func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.principal(w, r)
	if !ok {
		return
	}

	limit, offset, err := pkghttp.ExtractLimitOffset(r)
	if err != nil {
		pkghttp.WriteError(w, apperrors.InvalidInput("Invalid pagination parameters"))
		return
	}

	bookings, total, err := h.service.ListBookings(r.Context(), principal, limit, offset)
	if err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	if err := pkghttp.WritePaginated(w, bookings, total, limit, offset); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}
