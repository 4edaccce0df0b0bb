package service

import (
	"context"
	"errors"

	listingrepo "roost/internal/listings/repository"
	"roost/internal/users/repository"
	"roost/pkg/config"
	apperrors "roost/pkg/errors"
	"roost/pkg/model"
)

// WishlistResult reports the outcome of a wishlist toggle. Added is true
// when the listing was added, false when an existing entry was removed.
type WishlistResult struct {
	Added    bool     `json:"added"`
	WishList []string `json:"wish_list"`
}

type UserService interface {
	ToggleWishlist(ctx context.Context, requester model.Principal, userID, listingID string) (*WishlistResult, error)
	ListProperties(ctx context.Context, userID string) ([]*model.Listing, error)
}

type userService struct {
	users    repository.UserRepository
	listings listingrepo.ListingRepository
	cfg      *config.Config
}

func NewUserService(users repository.UserRepository, listings listingrepo.ListingRepository, cfg *config.Config) UserService {
	return &userService{
		users:    users,
		listings: listings,
		cfg:      cfg,
	}
}

func (s *userService) ToggleWishlist(ctx context.Context, requester model.Principal, userID, listingID string) (*WishlistResult, error) {
	if !requester.CanActFor(userID) {
		return nil, apperrors.Forbidden("Not authorized to modify another user's wishlist")
	}

	// Only existing listings can be wishlisted; removals go through the
	// same check so a stale id is reported rather than silently ignored.
	if _, err := s.listings.FindSummaryByID(ctx, listingID); err != nil {
		if errors.Is(err, listingrepo.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Listing", listingID)
		}
		if errors.Is(err, listingrepo.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid listing ID format")
		}
		s.cfg.Log.Error("Failed to look up listing for wishlist", "listing_id", listingID, "error", err)
		return nil, apperrors.Internal("Failed to update wishlist", err)
	}

	user, added, err := s.users.ToggleWishlist(ctx, userID, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("User", userID)
		}
		if errors.Is(err, repository.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid user ID format")
		}
		s.cfg.Log.Error("Failed to toggle wishlist", "user_id", userID, "listing_id", listingID, "error", err)
		return nil, apperrors.Internal("Failed to update wishlist", err)
	}

	s.cfg.Log.Info("Wishlist updated",
		"user_id", userID,
		"listing_id", listingID,
		"added", added,
	)

	return &WishlistResult{Added: added, WishList: user.WishList}, nil
}

// ListProperties returns the listings a user has published. Listings are
// public inventory, so any authenticated requester may view them.
func (s *userService) ListProperties(ctx context.Context, userID string) ([]*model.Listing, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}

	listings, err := s.listings.FindByCreator(ctx, userID)
	if err != nil {
		s.cfg.Log.Error("Failed to list properties", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve properties", err)
	}

	return listings, nil
}
