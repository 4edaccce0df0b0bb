package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "roost/internal/bookings/errors"
	"roost/internal/bookings/repository"
	"roost/internal/bookings/validator"
	listingrepo "roost/internal/listings/repository"
	userrepo "roost/internal/users/repository"
	"roost/pkg/config"
	apperrors "roost/pkg/errors"
	"roost/pkg/events"
	"roost/pkg/model"
)

// CancelResult reports how a cancellation resolved: a paid booking is kept
// and downgraded to refunded, anything else is deleted outright.
type CancelResult struct {
	Refunded bool
	Booking  *model.Booking
}

type BookingService interface {
	Create(ctx context.Context, requester model.Principal, booking *model.Booking) error
	GetByID(ctx context.Context, requester model.Principal, id string) (*model.BookingDetail, error)
	GetForRequester(ctx context.Context, requester model.Principal, id string) (*model.Booking, error)
	ListForUser(ctx context.Context, requester model.Principal, userID string) ([]*model.Booking, error)
	UpdatePaymentStatus(ctx context.Context, requester model.Principal, id string, update *model.PaymentUpdate) (*model.Booking, error)
	Cancel(ctx context.Context, requester model.Principal, id string) (*CancelResult, error)
	ApplyGatewayEvent(ctx context.Context, bookingID, paymentIntentID, status string) error
}

type bookingService struct {
	repo      repository.BookingRepository
	listings  listingrepo.ListingRepository
	users     userrepo.UserRepository
	validator *validator.BookingValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	listings listingrepo.ListingRepository,
	users userrepo.UserRepository,
	bookingValidator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		listings:  listings,
		users:     users,
		validator: bookingValidator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, requester model.Principal, booking *model.Booking) error {
	if !requester.CanActFor(booking.CustomerID) {
		return apperrors.Forbidden("Not authorized to create booking for another user")
	}

	// Fresh bookings always start pending with no payment attempt recorded,
	// regardless of what the client sent.
	booking.PaymentStatus = model.PaymentPending
	booking.PaymentIntentID = ""
	booking.PaymentMethod = ""

	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to create booking", "error", err)
		return apperrors.Internal("Failed to create booking", err)
	}

	s.publish(ctx, events.TypeBookingCreated, booking)
	s.cfg.Log.Info("Booking created",
		"id", booking.ID,
		"customer_id", booking.CustomerID,
		"listing_id", booking.ListingID,
		"total_price", booking.TotalPrice,
	)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, requester model.Principal, id string) (*model.BookingDetail, error) {
	booking, err := s.getAuthorized(ctx, requester, id)
	if err != nil {
		return nil, err
	}

	detail := &model.BookingDetail{Booking: booking}

	// Resolve references concurrently; a missing reference (listing or user
	// deleted since) leaves that summary nil rather than failing the view.
	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		listing, err := s.listings.FindSummaryByID(ctx, booking.ListingID)
		if err != nil {
			s.cfg.Log.Warn("Failed to resolve booking listing", "booking_id", id, "listing_id", booking.ListingID, "error", err)
			return
		}
		detail.Listing = listing
	}()

	go func() {
		defer wg.Done()
		customer, err := s.users.FindSummaryByID(ctx, booking.CustomerID)
		if err != nil {
			s.cfg.Log.Warn("Failed to resolve booking customer", "booking_id", id, "customer_id", booking.CustomerID, "error", err)
			return
		}
		detail.Customer = customer
	}()

	go func() {
		defer wg.Done()
		host, err := s.users.FindSummaryByID(ctx, booking.HostID)
		if err != nil {
			s.cfg.Log.Warn("Failed to resolve booking host", "booking_id", id, "host_id", booking.HostID, "error", err)
			return
		}
		detail.Host = host
	}()

	wg.Wait()
	return detail, nil
}

func (s *bookingService) GetForRequester(ctx context.Context, requester model.Principal, id string) (*model.Booking, error) {
	return s.getAuthorized(ctx, requester, id)
}

func (s *bookingService) ListForUser(ctx context.Context, requester model.Principal, userID string) ([]*model.Booking, error) {
	if userID == "" {
		return nil, apperrors.InvalidInput("User ID cannot be empty")
	}
	if !requester.CanActFor(userID) {
		return nil, apperrors.Forbidden("Not authorized to view bookings for another user")
	}

	bookings, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings for user", "user_id", userID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	return bookings, nil
}

func (s *bookingService) UpdatePaymentStatus(ctx context.Context, requester model.Principal, id string, update *model.PaymentUpdate) (*model.Booking, error) {
	existing, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Only the customer who owes the payment (or an admin) may declare a
	// payment outcome; the host cannot.
	if !requester.CanActFor(existing.CustomerID) {
		return nil, apperrors.Forbidden("Not authorized to update this booking")
	}

	if err := s.validator.ValidatePaymentUpdate(update); err != nil {
		s.cfg.Log.Warn("Payment update validation failed", "id", id, "error", err)
		return nil, apperrors.Validation("Invalid payment update", map[string]any{"error": err.Error()})
	}

	updated, err := s.transition(ctx, id, existing, update)
	if err != nil {
		return nil, err
	}

	s.cfg.Log.Info("Booking payment status updated",
		"id", id,
		"from", existing.PaymentStatus,
		"to", updated.PaymentStatus,
		"method", updated.PaymentMethod,
	)
	return updated, nil
}

// ApplyGatewayEvent applies a webhook outcome for the booking named in the
// payment intent's metadata. Gateway delivery is at-least-once, so replays
// of the same outcome succeed silently; stale events that would revert a
// terminal state (a late success after a refund) are logged and dropped
// rather than surfaced, since the gateway would otherwise redeliver forever.
func (s *bookingService) ApplyGatewayEvent(ctx context.Context, bookingID, paymentIntentID, status string) error {
	if status != model.PaymentPaid && status != model.PaymentFailed {
		return apperrors.InvalidInput(fmt.Sprintf("unsupported gateway outcome: %s", status))
	}

	existing, err := s.findByID(ctx, bookingID)
	if err != nil {
		return err
	}

	update := &model.PaymentUpdate{
		PaymentStatus:   status,
		PaymentIntentID: paymentIntentID,
	}

	if _, err := s.transition(ctx, bookingID, existing, update); err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Code == apperrors.CodeConflict {
			s.cfg.Log.Warn("Dropping stale gateway event",
				"booking_id", bookingID,
				"current_status", existing.PaymentStatus,
				"event_status", status,
			)
			return nil
		}
		return err
	}

	s.cfg.Log.Info("Gateway event applied",
		"booking_id", bookingID,
		"payment_intent_id", paymentIntentID,
		"status", status,
	)
	return nil
}

func (s *bookingService) Cancel(ctx context.Context, requester model.Principal, id string) (*CancelResult, error) {
	existing, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !requester.CanAccessBooking(existing) {
		return nil, apperrors.Forbidden("Not authorized to cancel this booking")
	}

	result := &CancelResult{}

	// The status check and the refund-or-delete write run in one transaction
	// so a payment confirmation landing mid-cancel cannot leave a paid
	// booking deleted.
	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		current, err := s.repo.FindByID(sessCtx, id)
		if err != nil {
			if errors.Is(err, bookingserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Booking", id)
			}
			return apperrors.Internal("Failed to load booking", err)
		}

		if current.PaymentStatus == model.PaymentPaid {
			updated, err := s.repo.UpdatePayment(sessCtx, id,
				model.AllowedTransitions[model.PaymentRefunded],
				&model.PaymentUpdate{PaymentStatus: model.PaymentRefunded},
			)
			if err != nil {
				return apperrors.Internal("Failed to refund booking", err)
			}
			result.Refunded = true
			result.Booking = updated
			return nil
		}

		if err := s.repo.Delete(sessCtx, id); err != nil {
			if errors.Is(err, bookingserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Booking", id)
			}
			return apperrors.Internal("Failed to delete booking", err)
		}
		result.Booking = current
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to cancel booking", "id", id, "error", err)
		return nil, err
	}

	if result.Refunded {
		s.publish(ctx, events.TypeBookingRefunded, result.Booking)
		s.cfg.Log.Info("Booking refunded", "id", id)
	} else {
		s.publish(ctx, events.TypeBookingCancelled, result.Booking)
		s.cfg.Log.Info("Booking cancelled and deleted", "id", id)
	}

	return result, nil
}

// --- Helpers ---

func (s *bookingService) findByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return booking, nil
}

func (s *bookingService) getAuthorized(ctx context.Context, requester model.Principal, id string) (*model.Booking, error) {
	booking, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !requester.CanAccessBooking(booking) {
		return nil, apperrors.Forbidden("Not authorized to view this booking")
	}
	return booking, nil
}

// transition performs the guarded status write and emits the matching event
// when the status actually changed.
func (s *bookingService) transition(ctx context.Context, id string, existing *model.Booking, update *model.PaymentUpdate) (*model.Booking, error) {
	allowedFrom := model.AllowedTransitions[update.PaymentStatus]

	updated, err := s.repo.UpdatePayment(ctx, id, allowedFrom, update)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotMatched) {
			// The booking existed moments ago; either it was deleted by a
			// concurrent cancel or its status moved somewhere the table
			// does not allow as a source.
			if _, findErr := s.repo.FindByID(ctx, id); errors.Is(findErr, bookingserrors.ErrNotFound) {
				return nil, apperrors.NotFoundWithID("Booking", id)
			}
			return nil, apperrors.Conflict(fmt.Sprintf(
				"payment status cannot move to %q from the booking's current state", update.PaymentStatus,
			))
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to update payment status", err)
	}

	if existing.PaymentStatus != updated.PaymentStatus {
		switch updated.PaymentStatus {
		case model.PaymentPaid:
			s.publish(ctx, events.TypePaymentPaid, updated)
		case model.PaymentFailed:
			s.publish(ctx, events.TypePaymentFailed, updated)
		}
	}

	return updated, nil
}

// publish is best-effort: event-stream failures are logged and never fail
// the request.
func (s *bookingService) publish(ctx context.Context, eventType string, booking *model.Booking) {
	if s.publisher == nil {
		return
	}

	evt := events.BookingEvent{
		Type:          eventType,
		BookingID:     booking.ID,
		CustomerID:    booking.CustomerID,
		HostID:        booking.HostID,
		ListingID:     booking.ListingID,
		PaymentStatus: booking.PaymentStatus,
		TotalPrice:    booking.TotalPrice,
		OccurredAt:    time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.cfg.Log.Error("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}
