package handlers

import "github.com/gin-gonic/gin"

// HandlerBundle aggregates every route handler for registration.
type HandlerBundle struct {
	// Booking endpoints.
	CreateBooking   gin.HandlerFunc
	GetBooking      gin.HandlerFunc
	ListBookings    gin.HandlerFunc
	AcceptBooking   gin.HandlerFunc
	StartBooking    gin.HandlerFunc
	CompleteBooking gin.HandlerFunc
	CancelBooking   gin.HandlerFunc
	ProcessPayment  gin.HandlerFunc

	// Partner endpoints.
	MatchPartners  gin.HandlerFunc
	GetTopRated    gin.HandlerFunc
	GetPartnerByID gin.HandlerFunc

	// Device endpoints.
	UpdateDeviceToken gin.HandlerFunc
}
