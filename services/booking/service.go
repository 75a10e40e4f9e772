package booking

import (
	"context"
	"errors"
	"time"

	bookingRepo "carenow/database/repository/booking"
	"carenow/models"
	"carenow/services/matching"
	"carenow/services/notification"
	"carenow/utils"
)

// BookingService owns the booking state machine. All transitions are applied
// exclusively through it, as conditional writes against the store.
type BookingService interface {
	CreateBooking(ctx context.Context, req *models.BookingRequest) (*models.Booking, error)
	AcceptBooking(ctx context.Context, bookingID, partnerID string) (*models.Booking, error)
	StartBooking(ctx context.Context, bookingID, partnerID string) (*models.Booking, error)
	CompleteBooking(ctx context.Context, bookingID, partnerID string) (*models.Booking, error)
	CancelBooking(ctx context.Context, bookingID, userID, reason string) (*models.Booking, error)
	GetBooking(ctx context.Context, bookingID string) (*models.Booking, error)
	ListBookings(ctx context.Context, ownerID, startDate, endDate string, isPartner bool) ([]models.Booking, error)
}

// ReminderScheduler enqueues a reminder push to be delivered at fireAt.
// Implemented by the asynq-backed scheduler in services/tasks.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, payload models.ReminderPayload, fireAt time.Time) error
}

// DefaultBookingService implements BookingService. Notifier and Reminders
// are optional; a nil value disables the corresponding side effect.
type DefaultBookingService struct {
	Repo      bookingRepo.BookingRepository
	Matcher   matching.MatchingService
	Notifier  notification.Service
	Reminders ReminderScheduler
	Clock     utils.Clock
}

const (
	storeRetryAttempts = 3
	storeRetryDelay    = 200 * time.Millisecond
)

// transientStoreError reports whether a store failure is worth retrying.
// Validation failures, missing bookings and CAS conflicts are permanent.
func transientStoreError(err error) bool {
	return !IsValidation(err) &&
		!errors.Is(err, bookingRepo.ErrNotFound) &&
		!errors.Is(err, bookingRepo.ErrStatusConflict)
}

// GetBooking returns a booking by id.
func (svc *DefaultBookingService) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	return svc.fetch(ctx, bookingID)
}

// ListBookings returns the owner's bookings scheduled within the date range.
func (svc *DefaultBookingService) ListBookings(ctx context.Context, ownerID, startDate, endDate string, isPartner bool) ([]models.Booking, error) {
	bookings, err := svc.Repo.QueryByDateRange(ctx, ownerID, startDate, endDate, isPartner)
	if err != nil {
		return nil, &ServerError{Op: "list bookings", Err: err}
	}
	return bookings, nil
}

// fetch wraps repository lookup errors into the service taxonomy, passing
// ErrNotFound through for the handler layer.
func (svc *DefaultBookingService) fetch(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := svc.Repo.GetByID(ctx, bookingID)
	if errors.Is(err, bookingRepo.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, &ServerError{Op: "fetch booking", Err: err}
	}
	return b, nil
}
