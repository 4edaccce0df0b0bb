package service

import (
	"context"
	"errors"
	"sync"

	"github.com/go-playground/validator/v10"

	bookingrepo "roost/internal/bookings/repository"
	listingrepo "roost/internal/listings/repository"
	userrepo "roost/internal/users/repository"
	"roost/pkg/config"
	apperrors "roost/pkg/errors"
	"roost/pkg/model"
)

// DashboardStats is the admin landing view: entity counts plus revenue
// across everything that was ever paid, refunds included.
type DashboardStats struct {
	TotalUsers    int64   `json:"total_users"`
	TotalListings int64   `json:"total_listings"`
	TotalBookings int64   `json:"total_bookings"`
	TotalRevenue  float64 `json:"total_revenue"`
}

type AdminService interface {
	Dashboard(ctx context.Context, requester model.Principal) (*DashboardStats, error)
	ListUsers(ctx context.Context, requester model.Principal, limit int, offset int64) ([]*model.User, int64, error)
	UpdateUser(ctx context.Context, requester model.Principal, id string, update *model.UserUpdate) (*model.User, error)
	DeleteUser(ctx context.Context, requester model.Principal, id string) error
	ListListings(ctx context.Context, requester model.Principal, limit int, offset int64) ([]*model.Listing, int64, error)
	UpdateListing(ctx context.Context, requester model.Principal, id string, update *model.ListingUpdate) (*model.Listing, error)
	DeleteListing(ctx context.Context, requester model.Principal, id string) error
	ListBookings(ctx context.Context, requester model.Principal, limit int, offset int64) ([]*model.Booking, int64, error)
}

type adminService struct {
	users    userrepo.UserRepository
	listings listingrepo.ListingRepository
	bookings bookingrepo.BookingRepository
	validate *validator.Validate
	cfg      *config.Config
}

func NewAdminService(
	users userrepo.UserRepository,
	listings listingrepo.ListingRepository,
	bookings bookingrepo.BookingRepository,
	cfg *config.Config,
) AdminService {
	return &adminService{
		users:    users,
		listings: listings,
		bookings: bookings,
		validate: validator.New(),
		cfg:      cfg,
	}
}

func (s *adminService) Dashboard(ctx context.Context, requester model.Principal) (*DashboardStats, error) {
	if !requester.IsAdmin {
		return nil, apperrors.Forbidden("Admin access required")
	}

	stats := &DashboardStats{}
	errs := make([]error, 4)

	var wg sync.WaitGroup
	wg.Add(4)

	go func() {
		defer wg.Done()
		stats.TotalUsers, errs[0] = s.users.Count(ctx)
	}()
	go func() {
		defer wg.Done()
		stats.TotalListings, errs[1] = s.listings.Count(ctx)
	}()
	go func() {
		defer wg.Done()
		stats.TotalBookings, errs[2] = s.bookings.Count(ctx)
	}()
	go func() {
		defer wg.Done()
		stats.TotalRevenue, errs[3] = s.bookings.TotalRevenue(ctx)
	}()

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			s.cfg.Log.Error("Failed to compute dashboard stats", "error", err)
			return nil, apperrors.Internal("Failed to compute dashboard statistics", err)
		}
	}

	return stats, nil
}

func (s *adminService) ListUsers(ctx context.Context, requester model.Principal, limit int, offset int64) ([]*model.User, int64, error) {
	if !requester.IsAdmin {
		return nil, 0, apperrors.Forbidden("Admin access required")
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	users, err := s.users.FindAll(ctx, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list users", "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve users", err)
	}

	total, err := s.users.Count(ctx)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to retrieve users", err)
	}

	return users, total, nil
}

func (s *adminService) UpdateUser(ctx context.Context, requester model.Principal, id string, update *model.UserUpdate) (*model.User, error) {
	if !requester.IsAdmin {
		return nil, apperrors.Forbidden("Admin access required")
	}
	if update.FirstName == nil && update.LastName == nil && update.Email == nil && update.IsAdmin == nil {
		return nil, apperrors.Validation("At least one field must be provided", nil)
	}
	if err := s.validate.Struct(update); err != nil {
		return nil, apperrors.Validation("User validation failed", map[string]any{"error": err.Error()})
	}

	user, err := s.users.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("User", id)
		}
		if errors.Is(err, userrepo.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid user ID format")
		}
		s.cfg.Log.Error("Failed to update user", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update user", err)
	}

	s.cfg.Log.Info("User updated by admin", "id", id, "admin_id", requester.ID)
	return user, nil
}

func (s *adminService) DeleteUser(ctx context.Context, requester model.Principal, id string) error {
	if !requester.IsAdmin {
		return apperrors.Forbidden("Admin access required")
	}
	// Admins cannot delete themselves; demote first, then delete.
	if requester.ID == id {
		return apperrors.Conflict("Admins cannot delete their own account")
	}

	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, userrepo.ErrNotFound) {
			return apperrors.NotFoundWithID("User", id)
		}
		if errors.Is(err, userrepo.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid user ID format")
		}
		s.cfg.Log.Error("Failed to delete user", "id", id, "error", err)
		return apperrors.Internal("Failed to delete user", err)
	}

	s.cfg.Log.Info("User deleted by admin", "id", id, "admin_id", requester.ID)
	return nil
}

func (s *adminService) ListListings(ctx context.Context, requester model.Principal, limit int, offset int64) ([]*model.Listing, int64, error) {
	if !requester.IsAdmin {
		return nil, 0, apperrors.Forbidden("Admin access required")
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	listings, err := s.listings.FindAll(ctx, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list listings", "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve listings", err)
	}

	total, err := s.listings.Count(ctx)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to retrieve listings", err)
	}

	return listings, total, nil
}

func (s *adminService) UpdateListing(ctx context.Context, requester model.Principal, id string, update *model.ListingUpdate) (*model.Listing, error) {
	if !requester.IsAdmin {
		return nil, apperrors.Forbidden("Admin access required")
	}
	if update.Title == nil && update.Category == nil && update.City == nil &&
		update.Country == nil && update.Price == nil && update.PhotoPaths == nil {
		return nil, apperrors.Validation("At least one field must be provided", nil)
	}
	if err := s.validate.Struct(update); err != nil {
		return nil, apperrors.Validation("Listing validation failed", map[string]any{"error": err.Error()})
	}

	listing, err := s.listings.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, listingrepo.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Listing", id)
		}
		if errors.Is(err, listingrepo.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid listing ID format")
		}
		s.cfg.Log.Error("Failed to update listing", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to update listing", err)
	}

	s.cfg.Log.Info("Listing updated by admin", "id", id, "admin_id", requester.ID)
	return listing, nil
}

func (s *adminService) DeleteListing(ctx context.Context, requester model.Principal, id string) error {
	if !requester.IsAdmin {
		return apperrors.Forbidden("Admin access required")
	}

	if err := s.listings.Delete(ctx, id); err != nil {
		if errors.Is(err, listingrepo.ErrNotFound) {
			return apperrors.NotFoundWithID("Listing", id)
		}
		if errors.Is(err, listingrepo.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid listing ID format")
		}
		s.cfg.Log.Error("Failed to delete listing", "id", id, "error", err)
		return apperrors.Internal("Failed to delete listing", err)
	}

	s.cfg.Log.Info("Listing deleted by admin", "id", id, "admin_id", requester.ID)
	return nil
}

func (s *adminService) ListBookings(ctx context.Context, requester model.Principal, limit int, offset int64) ([]*model.Booking, int64, error) {
	if !requester.IsAdmin {
		return nil, 0, apperrors.Forbidden("Admin access required")
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	bookings, err := s.bookings.FindAll(ctx, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve bookings", err)
	}

	total, err := s.bookings.Count(ctx)
	if err != nil {
		return nil, 0, apperrors.Internal("Failed to retrieve bookings", err)
	}

	return bookings, total, nil
}

