package booking

import (
	"context"

	"carenow/models"
	"carenow/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CreateBooking validates the request, persists a pending booking and, when
// requested, attempts to auto-assign a partner. Auto-assignment failure
// degrades gracefully: the pending booking is still returned for manual
// assignment.
func (svc *DefaultBookingService) CreateBooking(ctx context.Context, req *models.BookingRequest) (*models.Booking, error) {
	now := svc.Clock.Now()
	if result := ValidateBookingRequest(req, now); !result.IsValid {
		return nil, &ValidationError{Errors: result.Errors}
	}

	b := &models.Booking{
		ID:            uuid.New().String(),
		UserID:        req.UserID,
		ServiceID:     req.ServiceID,
		ServiceName:   req.ServiceName,
		Date:          req.Date,
		TimeSlot:      req.TimeSlot,
		Hours:         req.Hours,
		TotalPrice:    req.TotalPrice,
		Address:       req.Address,
		LocationGeo:   req.LocationGeo,
		Instructions:  req.Instructions,
		Status:        models.BookingStatusPending,
		PaymentStatus: models.PaymentStatusUnpaid,
		CreatedAt:     now,
	}

	err := utils.Retry(ctx, storeRetryAttempts, storeRetryDelay, transientStoreError, func() error {
		return svc.Repo.Create(ctx, b)
	})
	if err != nil {
		return nil, &ServerError{Op: "create booking", Err: err}
	}

	if req.AutoAssign {
		svc.autoAssign(ctx, b, req.ServiceTypes)
	}
	return b, nil
}

// autoAssign picks the best available partner and confirms the booking for
// them in one conditional write. Every failure path leaves the booking
// pending and logs why.
func (svc *DefaultBookingService) autoAssign(ctx context.Context, b *models.Booking, serviceTypes []string) {
	logger := utils.GetLogger()

	candidate, err := svc.Matcher.AutoAssignPartner(ctx, models.MatchRequest{
		ServiceTypes: serviceTypes,
		Location:     b.LocationGeo,
		Date:         b.Date,
		TimeSlot:     b.TimeSlot,
	})
	if err != nil {
		logger.Warn("booking: auto-assignment failed, booking left pending",
			zap.String("bookingId", b.ID), zap.Error(err))
		return
	}
	if candidate == nil {
		logger.Info("booking: no partner qualified for auto-assignment",
			zap.String("bookingId", b.ID))
		return
	}

	updated, err := svc.Repo.AssignPartner(ctx, b.ID, candidate.Partner.ID)
	if err != nil {
		logger.Warn("booking: could not confirm auto-assigned partner",
			zap.String("bookingId", b.ID),
			zap.String("partnerId", candidate.Partner.ID),
			zap.Error(err))
		return
	}
	*b = *updated

	svc.notifyPartner(ctx, b.PartnerID, "New job assigned",
		b.ServiceName+" on "+b.Date+" at "+b.TimeSlot,
		map[string]string{"type": "booking_assigned", "bookingId": b.ID})
	svc.scheduleReminders(ctx, b)
}
