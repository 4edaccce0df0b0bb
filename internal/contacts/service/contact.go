package service

import (
	"context"
	"errors"

	contactserrors "roost/internal/contacts/errors"
	"roost/internal/contacts/repository"
	"roost/internal/contacts/validator"
	"roost/pkg/config"
	apperrors "roost/pkg/errors"
	"roost/pkg/model"
)

type ContactService interface {
	Submit(ctx context.Context, contact *model.Contact) error
	List(ctx context.Context, requester model.Principal, limit int, offset int64) ([]*model.Contact, int64, error)
	UpdateStatus(ctx context.Context, requester model.Principal, id, status string) (*model.Contact, error)
	Delete(ctx context.Context, requester model.Principal, id string) error
}

type contactService struct {
	repo      repository.ContactRepository
	validator *validator.ContactValidator
	cfg       *config.Config
}

func NewContactService(repo repository.ContactRepository, contactValidator *validator.ContactValidator, cfg *config.Config) ContactService {
	return &contactService{
		repo:      repo,
		validator: contactValidator,
		cfg:       cfg,
	}
}

// Submit is the one unauthenticated write in the system; anything beyond
// validation (spam control) is handled upstream by rate limiting.
func (s *contactService) Submit(ctx context.Context, contact *model.Contact) error {
	if err := s.validator.Validate(contact); err != nil {
		s.cfg.Log.Warn("Contact validation failed", "error", err)
		return apperrors.Validation("Contact validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, contact); err != nil {
		s.cfg.Log.Error("Failed to create contact submission", "error", err)
		return apperrors.Internal("Failed to submit contact request", err)
	}

	s.cfg.Log.Info("Contact submission received", "id", contact.ID, "subject", contact.Subject)
	return nil
}

func (s *contactService) List(ctx context.Context, requester model.Principal, limit int, offset int64) ([]*model.Contact, int64, error) {
	if !requester.IsAdmin {
		return nil, 0, apperrors.Forbidden("Admin access required")
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	contacts, err := s.repo.FindAll(ctx, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list contact submissions", "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve contact submissions", err)
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to count contact submissions", "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve contact submissions", err)
	}

	return contacts, total, nil
}

func (s *contactService) UpdateStatus(ctx context.Context, requester model.Principal, id, status string) (*model.Contact, error) {
	if !requester.IsAdmin {
		return nil, apperrors.Forbidden("Admin access required")
	}
	if id == "" {
		return nil, apperrors.InvalidInput("Contact ID cannot be empty")
	}

	if err := s.validator.ValidateStatus(status); err != nil {
		return nil, apperrors.Validation("Invalid contact status", map[string]any{"error": err.Error()})
	}

	contact, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, contactserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Contact", id)
		}
		if errors.Is(err, contactserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid contact ID format")
		}
		s.cfg.Log.Error("Failed to update contact status", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update contact status", err)
	}

	s.cfg.Log.Info("Contact status updated", "id", id, "status", status)
	return contact, nil
}

func (s *contactService) Delete(ctx context.Context, requester model.Principal, id string) error {
	if !requester.IsAdmin {
		return apperrors.Forbidden("Admin access required")
	}
	if id == "" {
		return apperrors.InvalidInput("Contact ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, contactserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Contact", id)
		}
		if errors.Is(err, contactserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid contact ID format")
		}
		s.cfg.Log.Error("Failed to delete contact submission", "id", id, "error", err)
		return apperrors.Internal("Failed to delete contact submission", err)
	}

	s.cfg.Log.Info("Contact submission deleted", "id", id)
	return nil
}
