package bookingRepo

import (
	"context"
	"errors"

	"carenow/models"
)

var (
	// ErrNotFound is returned when no booking matches the given id.
	ErrNotFound = errors.New("booking not found")
	// ErrStatusConflict is returned when a conditional status write finds the
	// booking in a different state than expected.
	ErrStatusConflict = errors.New("booking status changed concurrently")
)

// BookingRepository is the persistence port of the booking lifecycle manager.
// Status writes are conditional on the expected prior status so that
// concurrent accept/assign attempts on the same booking cannot both win.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)

	// UpdateStatus transitions id from expected to next, additionally setting
	// fields, and returns the updated booking. It fails with
	// ErrStatusConflict when the booking is no longer in the expected status.
	UpdateStatus(ctx context.Context, id string, expected, next models.BookingStatus, fields map[string]interface{}) (*models.Booking, error)

	// AssignPartner atomically sets the partner and moves a pending booking
	// to confirmed. It only succeeds while the booking is pending and either
	// unassigned or already assigned to partnerID.
	AssignPartner(ctx context.Context, id, partnerID string) (*models.Booking, error)

	QueryByPartnerAndStatus(ctx context.Context, partnerID string, status models.BookingStatus) ([]models.Booking, error)
	QueryByDateRange(ctx context.Context, ownerID, startDate, endDate string, isPartner bool) ([]models.Booking, error)

	SetPaymentStatus(ctx context.Context, id string, status models.PaymentStatus) error

	EnsureIndexes(ctx context.Context) error
}
