package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"roost/internal/reviews/service"
	"roost/pkg/config"
	apperrors "roost/pkg/errors"
	pkghttp "roost/pkg/http"
	"roost/pkg/middleware"
	"roost/pkg/model"
)

type ReviewHandler struct {
	service service.ReviewService
	cfg     *config.Config
}

func NewReviewHandler(svc service.ReviewService, cfg *config.Config) *ReviewHandler {
	return &ReviewHandler{service: svc, cfg: cfg}
}

func (h *ReviewHandler) RegisterRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodPost, "/api/v1/reviews", h.Create)
	router.HandlerFunc(http.MethodGet, "/api/v1/reviews/property/:propertyId", h.ListByProperty)
	router.HandlerFunc(http.MethodGet, "/api/v1/reviews/user/:userId", h.ListByUser)
	router.HandlerFunc(http.MethodPatch, "/api/v1/reviews/id/:id", h.Update)
	router.HandlerFunc(http.MethodDelete, "/api/v1/reviews/id/:id", h.Delete)
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		pkghttp.WriteError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	var review model.Review
	if err := json.NewDecoder(r.Body).Decode(&review); err != nil {
		pkghttp.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.Create(r.Context(), principal, &review); err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	if err := pkghttp.WriteCreated(w, review); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

// ListByProperty is public; prospective guests browse reviews before booking.
func (h *ReviewHandler) ListByProperty(w http.ResponseWriter, r *http.Request) {
	propertyID := httprouter.ParamsFromContext(r.Context()).ByName("propertyId")

	limit, offset, err := pkghttp.ExtractLimitOffset(r)
	if err != nil {
		pkghttp.WriteError(w, apperrors.InvalidInput("Invalid pagination parameters"))
		return
	}

	reviews, total, err := h.service.ListByProperty(r.Context(), propertyID, limit, offset)
	if err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	if err := pkghttp.WritePaginated(w, reviews, total, limit, offset); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *ReviewHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		pkghttp.WriteError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	userID := httprouter.ParamsFromContext(r.Context()).ByName("userId")

	reviews, err := h.service.ListByUser(r.Context(), principal, userID)
	if err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	if err := pkghttp.WriteSuccess(w, reviews); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *ReviewHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		pkghttp.WriteError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	id := httprouter.ParamsFromContext(r.Context()).ByName("id")

	var update model.ReviewUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		pkghttp.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	review, err := h.service.Update(r.Context(), principal, id, &update)
	if err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	if err := pkghttp.WriteSuccess(w, review); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
