package booking

import (
	"testing"
	"time"

	"carenow/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func validRequest() *models.BookingRequest {
	return &models.BookingRequest{
		UserID:       "user-1",
		ServiceID:    "svc-clean",
		ServiceName:  "House Cleaning",
		ServiceTypes: []string{"cleaning"},
		Date:         "2026-03-10",
		TimeSlot:     "12:00",
		Hours:        3,
		TotalPrice:   120,
		Address:      "42 Rosewood Avenue, Springfield",
		LocationGeo:  models.NewGeoPoint(36.82, -1.29),
	}
}

func TestValidateBookingRequestOK(t *testing.T) {
	result := ValidateBookingRequest(validRequest(), testNow)
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
}

func TestValidateRejectsPastDate(t *testing.T) {
	req := validRequest()
	req.Date = "2026-03-09"
	result := ValidateBookingRequest(req, testNow)
	require.False(t, result.IsValid)
	assert.Contains(t, result.Errors, "scheduled date cannot be in the past")
}

func TestValidateRejectsShortLeadTime(t *testing.T) {
	req := validRequest()
	req.TimeSlot = "10:30" // 1.5h from testNow
	result := ValidateBookingRequest(req, testNow)
	require.False(t, result.IsValid)
	assert.Contains(t, result.Errors, "bookings must be scheduled at least 2 hours in advance")
}

func TestValidateLeadTimeBoundary(t *testing.T) {
	req := validRequest()
	req.TimeSlot = "11:00" // exactly 2h from testNow
	result := ValidateBookingRequest(req, testNow)
	assert.True(t, result.IsValid)
}

func TestValidateRejectsBadDuration(t *testing.T) {
	for _, hours := range []float64{0, 0.25, 12.5, 15} {
		req := validRequest()
		req.Hours = hours
		result := ValidateBookingRequest(req, testNow)
		require.Falsef(t, result.IsValid, "hours=%v", hours)
		assert.Contains(t, result.Errors, "duration must be between 0.5 and 12 hours")
	}
}

func TestValidateRejectsBadPrice(t *testing.T) {
	req := validRequest()
	req.TotalPrice = 0
	result := ValidateBookingRequest(req, testNow)
	require.False(t, result.IsValid)
	assert.Contains(t, result.Errors, "total price must be greater than zero")

	req = validRequest()
	req.TotalPrice = 60000
	result = ValidateBookingRequest(req, testNow)
	require.False(t, result.IsValid)
	assert.Contains(t, result.Errors, "total price exceeds the allowed maximum of 50000")
}

func TestValidateRejectsBadAddress(t *testing.T) {
	req := validRequest()
	req.Address = "short"
	result := ValidateBookingRequest(req, testNow)
	require.False(t, result.IsValid)
	assert.Contains(t, result.Errors, "address must be between 10 and 200 characters")
}

func TestValidateRejectsMalformedDateAndSlot(t *testing.T) {
	req := validRequest()
	req.Date = "10/03/2026"
	req.TimeSlot = "noonish"
	result := ValidateBookingRequest(req, testNow)
	require.False(t, result.IsValid)
	assert.Contains(t, result.Errors, "scheduled date must be in YYYY-MM-DD format")
	assert.Contains(t, result.Errors, "time slot must be in HH:MM format")
}

// All failing rules must be reported in one pass, not just the first.
func TestValidateAggregatesAllFailures(t *testing.T) {
	req := validRequest()
	req.Date = "2026-03-09"
	req.Hours = 15

	result := ValidateBookingRequest(req, testNow)
	require.False(t, result.IsValid)
	assert.Contains(t, result.Errors, "scheduled date cannot be in the past")
	assert.Contains(t, result.Errors, "duration must be between 0.5 and 12 hours")
	assert.GreaterOrEqual(t, len(result.Errors), 2)
}
