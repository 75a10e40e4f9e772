package matching

import (
	"context"
	"fmt"
	"math"
	"time"

	bookingRepo "carenow/database/repository/booking"
	"carenow/models"
	"carenow/utils"

	"go.uber.org/zap"
)

// AvailabilityChecker decides whether a partner is free at a requested
// date/time given working hours and existing confirmed bookings.
type AvailabilityChecker interface {
	IsAvailable(ctx context.Context, partner *models.Partner, date, timeSlot string) bool
}

// DefaultAvailabilityChecker is the repository-backed implementation.
type DefaultAvailabilityChecker struct {
	BookingRepo bookingRepo.BookingRepository
}

// conflictGuardMinutes widens each occupied interval's lower bound: a new
// start landing within [existingStart - 1min, existingEnd) is a conflict.
const conflictGuardMinutes = 1

// IsAvailable checks the partner's working windows for the weekday of date
// and then scans confirmed bookings on the same date for interval conflicts.
// If the booking query fails, the checker fails open (partner treated as
// available) rather than blocking matching.
func (c *DefaultAvailabilityChecker) IsAvailable(ctx context.Context, partner *models.Partner, date, timeSlot string) bool {
	reqStart, err := ParseClockMinutes(timeSlot)
	if err != nil {
		return false
	}
	day, err := weekdayOf(date)
	if err != nil {
		return false
	}

	if !withinWorkingHours(partner.WorkingHours[day], reqStart) {
		return false
	}

	confirmed, err := c.BookingRepo.QueryByPartnerAndStatus(ctx, partner.ID, models.BookingStatusConfirmed)
	if err != nil {
		utils.GetLogger().Warn("availability: booking query failed, failing open",
			zap.String("partnerId", partner.ID), zap.Error(err))
		return true
	}

	for _, b := range confirmed {
		if b.Date != date {
			continue
		}
		existStart, err := ParseClockMinutes(b.TimeSlot)
		if err != nil {
			continue
		}
		existEnd := existStart + int(math.Round(b.Hours*60))
		if reqStart >= existStart-conflictGuardMinutes && reqStart < existEnd {
			return false
		}
	}
	return true
}

func withinWorkingHours(windows []models.TimeWindow, startMinute int) bool {
	for _, w := range windows {
		ws, err := ParseClockMinutes(w.Start)
		if err != nil {
			continue
		}
		we, err := ParseClockMinutes(w.End)
		if err != nil {
			continue
		}
		if startMinute >= ws && startMinute < we {
			return true
		}
	}
	return false
}

// ParseClockMinutes converts an "HH:MM" string to minutes from midnight.
func ParseClockMinutes(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid time slot %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func weekdayOf(date string) (string, error) {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", date, err)
	}
	return d.Weekday().String(), nil
}
