package service

import (
	"context"
	"errors"

	reviewserrors "roost/internal/reviews/errors"
	"roost/internal/reviews/repository"
	"roost/internal/reviews/validator"
	"roost/pkg/config"
	apperrors "roost/pkg/errors"
	"roost/pkg/model"
)

type ReviewService interface {
	Create(ctx context.Context, requester model.Principal, review *model.Review) error
	ListByProperty(ctx context.Context, propertyID string, limit int, offset int64) ([]*model.Review, int64, error)
	ListByUser(ctx context.Context, requester model.Principal, userID string) ([]*model.Review, error)
	Update(ctx context.Context, requester model.Principal, id string, update *model.ReviewUpdate) (*model.Review, error)
	Delete(ctx context.Context, requester model.Principal, id string) error
}

type reviewService struct {
	repo      repository.ReviewRepository
	validator *validator.ReviewValidator
	cfg       *config.Config
}

func NewReviewService(repo repository.ReviewRepository, reviewValidator *validator.ReviewValidator, cfg *config.Config) ReviewService {
	return &reviewService{
		repo:      repo,
		validator: reviewValidator,
		cfg:       cfg,
	}
}

func (s *reviewService) Create(ctx context.Context, requester model.Principal, review *model.Review) error {
	if !requester.CanActFor(review.UserID) {
		return apperrors.Forbidden("Not authorized to create a review for another user")
	}

	if err := s.validator.Validate(review); err != nil {
		s.cfg.Log.Warn("Review validation failed", "error", err)
		return apperrors.Validation("Review validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, review); err != nil {
		if errors.Is(err, reviewserrors.ErrDuplicate) {
			return apperrors.Conflict("You have already reviewed this property")
		}
		s.cfg.Log.Error("Failed to create review", "error", err)
		return apperrors.Internal("Failed to create review", err)
	}

	s.cfg.Log.Info("Review created", "id", review.ID, "user_id", review.UserID, "property_id", review.PropertyID)
	return nil
}

func (s *reviewService) ListByProperty(ctx context.Context, propertyID string, limit int, offset int64) ([]*model.Review, int64, error) {
	if propertyID == "" {
		return nil, 0, apperrors.InvalidInput("Property ID cannot be empty")
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	reviews, err := s.repo.FindByProperty(ctx, propertyID, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list reviews for property", "property_id", propertyID, "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve reviews", err)
	}

	total, err := s.repo.CountByProperty(ctx, propertyID)
	if err != nil {
		s.cfg.Log.Error("Failed to count reviews for property", "property_id", propertyID, "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve reviews", err)
	}

	return reviews, total, nil
}

func (s *reviewService) ListByUser(ctx context.Context, requester model.Principal, userID string) ([]*model.Review, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}
	if !requester.CanActFor(userID) {
		return nil, apperrors.Forbidden("Not authorized to view reviews for another user")
	}

	reviews, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		s.cfg.Log.Error("Failed to list reviews for user", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve reviews", err)
	}

	return reviews, nil
}

func (s *reviewService) Update(ctx context.Context, requester model.Principal, id string, update *model.ReviewUpdate) (*model.Review, error) {
	existing, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !requester.CanActFor(existing.UserID) {
		return nil, apperrors.Forbidden("Not authorized to update this review")
	}

	if err := s.validator.ValidateUpdate(update); err != nil {
		return nil, apperrors.Validation("Invalid review update", map[string]any{"error": err.Error()})
	}

	updated, err := s.repo.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, reviewserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Review", id)
		}
		s.cfg.Log.Error("Failed to update review", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update review", err)
	}

	s.cfg.Log.Info("Review updated", "id", id)
	return updated, nil
}

func (s *reviewService) Delete(ctx context.Context, requester model.Principal, id string) error {
	existing, err := s.findByID(ctx, id)
	if err != nil {
		return err
	}

	// Authors delete their own reviews; admins moderate everyone's.
	if !requester.CanActFor(existing.UserID) {
		return apperrors.Forbidden("Not authorized to delete this review")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, reviewserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Review", id)
		}
		s.cfg.Log.Error("Failed to delete review", "id", id, "error", err)
		return apperrors.Internal("Failed to delete review", err)
	}

	s.cfg.Log.Info("Review deleted", "id", id)
	return nil
}

func (s *reviewService) findByID(ctx context.Context, id string) (*model.Review, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Review ID cannot be empty")
	}

	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reviewserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Review", id)
		}
		if errors.Is(err, reviewserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid review ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve review", err)
	}

	return review, nil
}
