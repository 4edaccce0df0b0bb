package service

import (
	"context"
	"testing"

	contactserrors "roost/internal/contacts/errors"
	"roost/internal/contacts/validator"
	"roost/pkg/config"
	apperrors "roost/pkg/errors"
	"roost/pkg/logger"
	"roost/pkg/model"
)

type mockContactRepository struct {
	createFunc       func(ctx context.Context, contact *model.Contact) error
	updateStatusFunc func(ctx context.Context, id, status string) (*model.Contact, error)
}

func (m *mockContactRepository) Create(ctx context.Context, contact *model.Contact) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, contact)
	}
	contact.ID = "generated-id"
	return nil
}

func (m *mockContactRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Contact, error) {
	return []*model.Contact{}, nil
}

func (m *mockContactRepository) UpdateStatus(ctx context.Context, id, status string) (*model.Contact, error) {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil, contactserrors.ErrNotFound
}

func (m *mockContactRepository) Delete(ctx context.Context, id string) error { return nil }

func (m *mockContactRepository) Count(ctx context.Context) (int64, error) { return 0, nil }

func newTestService(repo *mockContactRepository) ContactService {
	cfg := &config.Config{
		Log: logger.New(logger.Config{
			Level:   "error",
			Format:  logger.JSON,
			Service: "test",
		}),
	}
	return NewContactService(repo, validator.NewContactValidator(cfg.Log), cfg)
}

var (
	admin   = model.Principal{ID: "admin-1", IsAdmin: true}
	regular = model.Principal{ID: "user-1"}
)

func validContact() *model.Contact {
	return &model.Contact{
		Name:    "Priya Sharma",
		Email:   "priya@example.com",
		Subject: "Refund question",
		Message: "My booking was cancelled but I have not seen the refund yet.",
	}
}

func TestSubmit(t *testing.T) {
	svc := newTestService(&mockContactRepository{})

	contact := validContact()
	if err := svc.Submit(context.Background(), contact); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if contact.ID == "" {
		t.Error("expected ID assigned")
	}
}

func TestSubmit_RejectsBadEmail(t *testing.T) {
	svc := newTestService(&mockContactRepository{})

	contact := validContact()
	contact.Email = "not-an-email"

	err := svc.Submit(context.Background(), contact)
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestList_AdminOnly(t *testing.T) {
	svc := newTestService(&mockContactRepository{})

	if _, _, err := svc.List(context.Background(), admin, 10, 0); err != nil {
		t.Fatalf("admin list failed: %v", err)
	}

	_, _, err := svc.List(context.Background(), regular, 10, 0)
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestUpdateStatus(t *testing.T) {
	svc := newTestService(&mockContactRepository{
		updateStatusFunc: func(ctx context.Context, id, status string) (*model.Contact, error) {
			c := validContact()
			c.ID = id
			c.Status = status
			return c, nil
		},
	})

	updated, err := svc.UpdateStatus(context.Background(), admin, "64f0000000000000000000cc", model.ContactResolved)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != model.ContactResolved {
		t.Errorf("expected resolved, got %s", updated.Status)
	}

	_, err = svc.UpdateStatus(context.Background(), admin, "64f0000000000000000000cc", "archived")
	if appErr := apperrors.AsAppError(err); appErr.Code != apperrors.CodeValidation {
		t.Fatalf("expected validation error for unknown status, got %v", err)
	}
}
