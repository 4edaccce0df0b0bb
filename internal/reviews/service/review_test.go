package service

import (
	"context"
	"testing"

	reviewserrors "roost/internal/reviews/errors"
	"roost/internal/reviews/validator"
	"roost/pkg/config"
	apperrors "roost/pkg/errors"
	"roost/pkg/logger"
	"roost/pkg/model"
)

// ────────────────────────────────────────────────
// Mock repository
// ────────────────────────────────────────────────

type mockReviewRepository struct {
	createFunc   func(ctx context.Context, review *model.Review) error
	findByIDFunc func(ctx context.Context, id string) (*model.Review, error)
	updateFunc   func(ctx context.Context, id string, update *model.ReviewUpdate) (*model.Review, error)
	deleteFunc   func(ctx context.Context, id string) error
}

func (m *mockReviewRepository) Create(ctx context.Context, review *model.Review) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, review)
	}
	review.ID = "generated-id"
	return nil
}

func (m *mockReviewRepository) FindByID(ctx context.Context, id string) (*model.Review, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, reviewserrors.ErrNotFound
}

func (m *mockReviewRepository) FindByProperty(ctx context.Context, propertyID string, limit int, offset int64) ([]*model.Review, error) {
	return []*model.Review{}, nil
}

func (m *mockReviewRepository) FindByUser(ctx context.Context, userID string) ([]*model.Review, error) {
	return []*model.Review{}, nil
}

func (m *mockReviewRepository) Update(ctx context.Context, id string, update *model.ReviewUpdate) (*model.Review, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, update)
	}
	return nil, reviewserrors.ErrNotFound
}

func (m *mockReviewRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockReviewRepository) CountByProperty(ctx context.Context, propertyID string) (int64, error) {
	return 0, nil
}

// ────────────────────────────────────────────────
// Fixtures
// ────────────────────────────────────────────────

func newTestService(repo *mockReviewRepository) ReviewService {
	cfg := &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
	}
	return NewReviewService(repo, validator.NewReviewValidator(cfg.Log), cfg)
}

var (
	author   = model.Principal{ID: "64f000000000000000000001"}
	stranger = model.Principal{ID: "64f0000000000000000000ff"}
	admin    = model.Principal{ID: "64f0000000000000000000ee", IsAdmin: true}
)

func validReview() *model.Review {
	return &model.Review{
		UserID:     author.ID,
		PropertyID: "64f000000000000000000003",
		Rating:     4.5,
		Text:       "Lovely stay, would book again.",
	}
}

func wantCode(t *testing.T, err error, code string) {
	t.Helper()
	if !apperrors.IsAppError(err) {
		t.Fatalf("expected AppError with code %s, got %T: %v", code, err, err)
	}
	appErr := apperrors.AsAppError(err)
	if appErr.Code != code {
		t.Fatalf("expected code %s, got %s", code, appErr.Code)
	}
}

// ────────────────────────────────────────────────
// Tests
// ────────────────────────────────────────────────

func TestCreateReview(t *testing.T) {
	svc := newTestService(&mockReviewRepository{})

	review := validReview()
	if err := svc.Create(context.Background(), author, review); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if review.ID == "" {
		t.Error("expected ID to be assigned")
	}
}

func TestCreateReview_DuplicateIsConflict(t *testing.T) {
	svc := newTestService(&mockReviewRepository{
		createFunc: func(ctx context.Context, review *model.Review) error {
			return reviewserrors.ErrDuplicate
		},
	})

	err := svc.Create(context.Background(), author, validReview())
	wantCode(t, err, apperrors.CodeConflict)
}

func TestCreateReview_ForbiddenForOtherUser(t *testing.T) {
	svc := newTestService(&mockReviewRepository{})

	err := svc.Create(context.Background(), stranger, validReview())
	wantCode(t, err, apperrors.CodeForbidden)
}

func TestCreateReview_RatingBounds(t *testing.T) {
	svc := newTestService(&mockReviewRepository{})

	tests := []struct {
		rating  float64
		wantErr bool
	}{
		{0.5, false},
		{5, false},
		{3.7, false},
		{0, true},
		{0.4, true},
		{5.5, true},
		{-1, true},
	}

	for _, tt := range tests {
		review := validReview()
		review.Rating = tt.rating

		err := svc.Create(context.Background(), author, review)
		if tt.wantErr && err == nil {
			t.Errorf("rating %v: expected validation error", tt.rating)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("rating %v: unexpected error: %v", tt.rating, err)
		}
	}
}

func TestUpdateReview_AuthorOnly(t *testing.T) {
	stored := validReview()
	stored.ID = "64f0000000000000000000bb"

	repo := &mockReviewRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Review, error) {
			return stored, nil
		},
		updateFunc: func(ctx context.Context, id string, update *model.ReviewUpdate) (*model.Review, error) {
			updated := *stored
			if update.Rating != nil {
				updated.Rating = *update.Rating
			}
			return &updated, nil
		},
	}
	svc := newTestService(repo)

	newRating := 2.5
	update := &model.ReviewUpdate{Rating: &newRating}

	if _, err := svc.Update(context.Background(), author, stored.ID, update); err != nil {
		t.Fatalf("author update failed: %v", err)
	}
	if _, err := svc.Update(context.Background(), admin, stored.ID, update); err != nil {
		t.Fatalf("admin update failed: %v", err)
	}
	_, err := svc.Update(context.Background(), stranger, stored.ID, update)
	wantCode(t, err, apperrors.CodeForbidden)
}

func TestUpdateReview_RequiresSomeChange(t *testing.T) {
	stored := validReview()
	stored.ID = "64f0000000000000000000bb"
	svc := newTestService(&mockReviewRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Review, error) {
			return stored, nil
		},
	})

	_, err := svc.Update(context.Background(), author, stored.ID, &model.ReviewUpdate{})
	wantCode(t, err, apperrors.CodeValidation)
}

func TestDeleteReview_AuthorAndAdmin(t *testing.T) {
	stored := validReview()
	stored.ID = "64f0000000000000000000bb"
	repo := &mockReviewRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Review, error) {
			return stored, nil
		},
	}
	svc := newTestService(repo)

	if err := svc.Delete(context.Background(), author, stored.ID); err != nil {
		t.Fatalf("author delete failed: %v", err)
	}
	if err := svc.Delete(context.Background(), admin, stored.ID); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
	err := svc.Delete(context.Background(), stranger, stored.ID)
	wantCode(t, err, apperrors.CodeForbidden)
}

func TestListByUser_SelfOnly(t *testing.T) {
	svc := newTestService(&mockReviewRepository{})

	if _, err := svc.ListByUser(context.Background(), author, author.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := svc.ListByUser(context.Background(), stranger, author.ID)
	wantCode(t, err, apperrors.CodeForbidden)
}
