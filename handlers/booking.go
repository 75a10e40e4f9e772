package handlers

import (
	"net/http"

	"carenow/middleware"
	"carenow/models"
	"carenow/services/booking"
	"carenow/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler exposes the booking lifecycle over HTTP.
type BookingHandler struct {
	Service  booking.BookingService
	Payments booking.PaymentService
	Logger   *zap.Logger
}

func NewBookingHandler(svc booking.BookingService, payments booking.PaymentService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{Service: svc, Payments: payments, Logger: logger}
}

// CreateBooking handles POST /api/bookings.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	// The requesting user is always the authenticated caller.
	req.UserID = c.GetString(middleware.ContextAccountID)

	b, err := h.Service.CreateBooking(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, b)
}

// GetBooking handles GET /api/bookings/:id.
func (h *BookingHandler) GetBooking(c *gin.Context) {
	b, err := h.Service.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	// Callers may only read their own bookings.
	caller := c.GetString(middleware.ContextAccountID)
	if b.UserID != caller && b.PartnerID != caller {
		utils.JSONError(c, http.StatusForbidden, "forbidden", "booking does not belong to caller")
		return
	}
	c.JSON(http.StatusOK, b)
}

// ListBookings handles GET /api/bookings?start=YYYY-MM-DD&end=YYYY-MM-DD.
func (h *BookingHandler) ListBookings(c *gin.Context) {
	start := c.Query("start")
	end := c.Query("end")
	if start == "" || end == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "start and end query parameters are required")
		return
	}

	caller := c.GetString(middleware.ContextAccountID)
	isPartner := c.GetString(middleware.ContextRole) == "partner"

	bookings, err := h.Service.ListBookings(c.Request.Context(), caller, start, end, isPartner)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// AcceptBooking handles POST /api/bookings/:id/accept (partner only).
func (h *BookingHandler) AcceptBooking(c *gin.Context) {
	partnerID := c.GetString(middleware.ContextAccountID)
	b, err := h.Service.AcceptBooking(c.Request.Context(), c.Param("id"), partnerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// StartBooking handles POST /api/bookings/:id/start (partner only).
func (h *BookingHandler) StartBooking(c *gin.Context) {
	partnerID := c.GetString(middleware.ContextAccountID)
	b, err := h.Service.StartBooking(c.Request.Context(), c.Param("id"), partnerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// CompleteBooking handles POST /api/bookings/:id/complete (partner only).
func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	partnerID := c.GetString(middleware.ContextAccountID)
	b, err := h.Service.CompleteBooking(c.Request.Context(), c.Param("id"), partnerID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// CancelBooking handles POST /api/bookings/:id/cancel (client only).
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	var input struct {
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	userID := c.GetString(middleware.ContextAccountID)
	b, err := h.Service.CancelBooking(c.Request.Context(), c.Param("id"), userID, input.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, b)
}

// ProcessPayment handles POST /api/bookings/:id/payment (client only).
func (h *BookingHandler) ProcessPayment(c *gin.Context) {
	var req models.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	payerID := c.GetString(middleware.ContextAccountID)
	inv, err := h.Payments.ProcessPayment(c.Request.Context(), c.Param("id"), payerID, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}
