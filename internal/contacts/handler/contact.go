package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"roost/internal/contacts/service"
	"roost/pkg/config"
	apperrors "roost/pkg/errors"
	pkghttp "roost/pkg/http"
	"roost/pkg/middleware"
	"roost/pkg/model"
)

type ContactHandler struct {
	service service.ContactService
	cfg     *config.Config
}

func NewContactHandler(svc service.ContactService, cfg *config.Config) *ContactHandler {
	return &ContactHandler{service: svc, cfg: cfg}
}

func (h *ContactHandler) RegisterRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodPost, "/api/v1/contacts", h.Submit)
	router.HandlerFunc(http.MethodGet, "/api/v1/contacts", h.List)
	router.HandlerFunc(http.MethodPatch, "/api/v1/contacts/id/:id/status", h.UpdateStatus)
	router.HandlerFunc(http.MethodDelete, "/api/v1/contacts/id/:id", h.Delete)
}

// Submit accepts unauthenticated submissions; the route is exempt from the
// auth middleware.
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var contact model.Contact
	if err := json.NewDecoder(r.Body).Decode(&contact); err != nil {
		pkghttp.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.Submit(r.Context(), &contact); err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	if err := pkghttp.WriteCreated(w, contact); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *ContactHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		pkghttp.WriteError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	limit, offset, err := pkghttp.ExtractLimitOffset(r)
	if err != nil {
		pkghttp.WriteError(w, apperrors.InvalidInput("Invalid pagination parameters"))
		return
	}

	contacts, total, err := h.service.List(r.Context(), principal, limit, offset)
	if err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	if err := pkghttp.WritePaginated(w, contacts, total, limit, offset); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

func (h *ContactHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		pkghttp.WriteError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	id := httprouter.ParamsFromContext(r.Context()).ByName("id")

	var req statusUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	contact, err := h.service.UpdateStatus(r.Context(), principal, id, req.Status)
	if err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	if err := pkghttp.WriteSuccess(w, contact); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *ContactHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		pkghttp.WriteError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	id := httprouter.ParamsFromContext(r.Context()).ByName("id")

	if err := h.service.Delete(r.Context(), principal, id); err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	pkghttp.WriteNoContent(w)
}
