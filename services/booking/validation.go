package booking

import (
	"fmt"
	"time"

	"carenow/models"
)

// Validation bounds for incoming booking requests.
const (
	minLeadTime   = 2 * time.Hour
	minHours      = 0.5
	maxHours      = 12.0
	maxTotalPrice = 50000.0
	minAddressLen = 10
	maxAddressLen = 200
)

// ValidationResult aggregates every failing rule for one request. Rules are
// evaluated in order and never short-circuited, so the caller sees all
// problems at once.
type ValidationResult struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors,omitempty"`
}

// ValidateBookingRequest runs all request predicates against the injected
// "now". It is pure: no side effects, no ambient clock.
func ValidateBookingRequest(req *models.BookingRequest, now time.Time) ValidationResult {
	var errs []string

	date, dateErr := time.ParseInLocation("2006-01-02", req.Date, now.Location())
	if dateErr != nil {
		errs = append(errs, "scheduled date must be in YYYY-MM-DD format")
	} else {
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		if date.Before(today) {
			errs = append(errs, "scheduled date cannot be in the past")
		}
	}

	slot, slotErr := time.Parse("15:04", req.TimeSlot)
	if slotErr != nil {
		errs = append(errs, "time slot must be in HH:MM format")
	} else if dateErr == nil {
		start := time.Date(date.Year(), date.Month(), date.Day(), slot.Hour(), slot.Minute(), 0, 0, now.Location())
		if start.Sub(now) < minLeadTime {
			errs = append(errs, fmt.Sprintf("bookings must be scheduled at least %.0f hours in advance", minLeadTime.Hours()))
		}
	}

	if req.Hours < minHours || req.Hours > maxHours {
		errs = append(errs, fmt.Sprintf("duration must be between %.1f and %.0f hours", minHours, maxHours))
	}

	if req.TotalPrice <= 0 {
		errs = append(errs, "total price must be greater than zero")
	} else if req.TotalPrice > maxTotalPrice {
		errs = append(errs, fmt.Sprintf("total price exceeds the allowed maximum of %.0f", maxTotalPrice))
	}

	if len(req.Address) < minAddressLen || len(req.Address) > maxAddressLen {
		errs = append(errs, fmt.Sprintf("address must be between %d and %d characters", minAddressLen, maxAddressLen))
	}

	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}
