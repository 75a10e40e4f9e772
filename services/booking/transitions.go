package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingRepo "carenow/database/repository/booking"
	"carenow/models"
	"carenow/utils"

	"go.uber.org/zap"
)

// AcceptBooking moves a pending booking to confirmed for the calling partner.
// Re-accepting an already-confirmed booking with the same partner is a no-op
// success; a booking held by a different partner is a distinct validation
// failure.
func (svc *DefaultBookingService) AcceptBooking(ctx context.Context, bookingID, partnerID string) (*models.Booking, error) {
	b, err := svc.fetch(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if b.Status == models.BookingStatusConfirmed && b.PartnerID == partnerID {
		return b, nil
	}
	if b.PartnerID != "" && b.PartnerID != partnerID {
		return nil, NewValidationError("booking is already assigned to another partner")
	}
	if b.Status != models.BookingStatusPending {
		return nil, NewValidationError(fmt.Sprintf("booking cannot be accepted while %s", b.Status))
	}

	updated, err := svc.Repo.AssignPartner(ctx, bookingID, partnerID)
	if errors.Is(err, bookingRepo.ErrStatusConflict) {
		// Lost the race; if we lost it to ourselves the accept still counts.
		current, ferr := svc.fetch(ctx, bookingID)
		if ferr == nil && current.Status == models.BookingStatusConfirmed && current.PartnerID == partnerID {
			return current, nil
		}
		return nil, NewValidationError("booking state changed, refresh and retry")
	}
	if err != nil {
		return nil, &ServerError{Op: "accept booking", Err: err}
	}

	svc.notifyUser(ctx, updated.UserID, "Booking confirmed",
		updated.ServiceName+" on "+updated.Date+" at "+updated.TimeSlot,
		map[string]string{"type": "booking_confirmed", "bookingId": updated.ID})
	svc.scheduleReminders(ctx, updated)
	return updated, nil
}

// StartBooking moves a confirmed booking to in_progress. Only the assigned
// partner may start it.
func (svc *DefaultBookingService) StartBooking(ctx context.Context, bookingID, partnerID string) (*models.Booking, error) {
	b, err := svc.fetch(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != models.BookingStatusConfirmed {
		return nil, NewValidationError(fmt.Sprintf("booking cannot be started while %s", b.Status))
	}
	if b.PartnerID != partnerID {
		return nil, NewValidationError("only the assigned partner can start this booking")
	}

	updated, err := svc.transition(ctx, bookingID, models.BookingStatusConfirmed, models.BookingStatusInProgress, nil)
	if err != nil {
		return nil, err
	}

	svc.notifyUser(ctx, updated.UserID, "Service started",
		updated.ServiceName+" is now in progress",
		map[string]string{"type": "booking_started", "bookingId": updated.ID})
	return updated, nil
}

// CompleteBooking moves an in-progress booking to completed. Only the
// assigned partner may complete it.
func (svc *DefaultBookingService) CompleteBooking(ctx context.Context, bookingID, partnerID string) (*models.Booking, error) {
	b, err := svc.fetch(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != models.BookingStatusInProgress {
		return nil, NewValidationError(fmt.Sprintf("booking cannot be completed while %s", b.Status))
	}
	if b.PartnerID != partnerID {
		return nil, NewValidationError("only the assigned partner can complete this booking")
	}

	updated, err := svc.transition(ctx, bookingID, models.BookingStatusInProgress, models.BookingStatusCompleted, nil)
	if err != nil {
		return nil, err
	}

	svc.notifyUser(ctx, updated.UserID, "Service completed",
		updated.ServiceName+" has been completed",
		map[string]string{"type": "booking_completed", "bookingId": updated.ID})
	return updated, nil
}

// CancelBooking cancels a pending or confirmed booking on behalf of the
// owning client, recording the reason. In-progress and later bookings can no
// longer be cancelled.
func (svc *DefaultBookingService) CancelBooking(ctx context.Context, bookingID, userID, reason string) (*models.Booking, error) {
	b, err := svc.fetch(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != userID {
		return nil, NewValidationError("only the booking owner can cancel this booking")
	}
	if !b.IsCancellable() {
		return nil, NewValidationError(fmt.Sprintf("booking cannot be cancelled while %s", b.Status))
	}

	updated, err := svc.transition(ctx, bookingID, b.Status, models.BookingStatusCancelled,
		map[string]interface{}{"cancellation_reason": reason})
	if err != nil {
		return nil, err
	}

	if updated.PartnerID != "" {
		svc.notifyPartner(ctx, updated.PartnerID, "Booking cancelled",
			updated.ServiceName+" on "+updated.Date+" was cancelled by the client",
			map[string]string{"type": "booking_cancelled", "bookingId": updated.ID})
	}
	return updated, nil
}

// transition applies one conditional status write with bounded retry on
// transient store failures. A CAS miss surfaces as a validation failure.
func (svc *DefaultBookingService) transition(ctx context.Context, bookingID string, from, to models.BookingStatus, fields map[string]interface{}) (*models.Booking, error) {
	var updated *models.Booking
	err := utils.Retry(ctx, storeRetryAttempts, storeRetryDelay, transientStoreError, func() error {
		var uerr error
		updated, uerr = svc.Repo.UpdateStatus(ctx, bookingID, from, to, fields)
		return uerr
	})
	if errors.Is(err, bookingRepo.ErrStatusConflict) {
		return nil, NewValidationError("booking state changed, refresh and retry")
	}
	if errors.Is(err, bookingRepo.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, &ServerError{Op: fmt.Sprintf("transition booking to %s", to), Err: err}
	}
	return updated, nil
}

// notifyUser dispatches a best-effort push to the client side.
func (svc *DefaultBookingService) notifyUser(ctx context.Context, userID, title, body string, data map[string]string) {
	if svc.Notifier == nil {
		return
	}
	if err := svc.Notifier.SendUserPush(ctx, userID, title, body, data); err != nil {
		utils.GetLogger().Warn("booking: client notification failed",
			zap.String("userId", userID), zap.Error(err))
	}
}

// notifyPartner dispatches a best-effort push to the partner side.
func (svc *DefaultBookingService) notifyPartner(ctx context.Context, partnerID, title, body string, data map[string]string) {
	if svc.Notifier == nil {
		return
	}
	if err := svc.Notifier.SendPartnerPush(ctx, partnerID, title, body, data); err != nil {
		utils.GetLogger().Warn("booking: partner notification failed",
			zap.String("partnerId", partnerID), zap.Error(err))
	}
}

// scheduleReminders enqueues pre-appointment reminder pushes for both sides,
// fired two hours before the scheduled start. Enqueue failures are logged,
// never propagated.
func (svc *DefaultBookingService) scheduleReminders(ctx context.Context, b *models.Booking) {
	if svc.Reminders == nil {
		return
	}
	start, err := time.ParseInLocation("2006-01-02 15:04", b.Date+" "+b.TimeSlot, svc.Clock.Now().Location())
	if err != nil {
		return
	}
	fireAt := start.Add(-2 * time.Hour)
	if !fireAt.After(svc.Clock.Now()) {
		return
	}

	payloads := []models.ReminderPayload{
		{
			Target:    "client",
			AccountID: b.UserID,
			BookingID: b.ID,
			Title:     "Upcoming booking",
			Body:      b.ServiceName + " starts at " + b.TimeSlot,
			FireDate:  fireAt.Format(time.RFC3339),
		},
		{
			Target:    "partner",
			AccountID: b.PartnerID,
			BookingID: b.ID,
			Title:     "Upcoming job",
			Body:      b.ServiceName + " at " + b.Address + " starts at " + b.TimeSlot,
			FireDate:  fireAt.Format(time.RFC3339),
		},
	}
	for _, p := range payloads {
		if p.AccountID == "" {
			continue
		}
		if err := svc.Reminders.ScheduleReminder(ctx, p, fireAt); err != nil {
			utils.GetLogger().Warn("booking: failed to schedule reminder",
				zap.String("bookingId", b.ID), zap.String("target", p.Target), zap.Error(err))
		}
	}
}
