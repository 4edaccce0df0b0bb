package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"roost/internal/users/service"
	"roost/pkg/config"
	apperrors "roost/pkg/errors"
	pkghttp "roost/pkg/http"
	"roost/pkg/middleware"
)

type UserHandler struct {
	service service.UserService
	cfg     *config.Config
}

func NewUserHandler(svc service.UserService, cfg *config.Config) *UserHandler {
	return &UserHandler{service: svc, cfg: cfg}
}

func (h *UserHandler) RegisterRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodPatch, "/api/v1/users/:userId/wishlist/:listingId", h.ToggleWishlist)
	router.HandlerFunc(http.MethodGet, "/api/v1/users/:userId/properties", h.ListProperties)
}

func (h *UserHandler) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		pkghttp.WriteError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	params := httprouter.ParamsFromContext(r.Context())
	userID := params.ByName("userId")
	listingID := params.ByName("listingId")

	result, err := h.service.ToggleWishlist(r.Context(), principal, userID, listingID)
	if err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	message := "Listing removed from wishlist"
	if result.Added {
		message = "Listing added to wishlist"
	}

	if err := pkghttp.WriteMessage(w, message, result); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *UserHandler) ListProperties(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.PrincipalFromContext(r.Context()); !ok {
		pkghttp.WriteError(w, apperrors.Unauthorized("Authentication required"))
		return
	}

	userID := httprouter.ParamsFromContext(r.Context()).ByName("userId")

	listings, err := h.service.ListProperties(r.Context(), userID)
	if err != nil {
		pkghttp.WriteError(w, err)
		return
	}

	if err := pkghttp.WriteSuccess(w, listings); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}
