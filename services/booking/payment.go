package booking

import (
	"context"
	"fmt"
	"math"
	"time"

	bookingRepo "carenow/database/repository/booking"
	"carenow/models"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.uber.org/zap"
)

// PaymentService settles the payment axis of a booking. Card payments go
// through Stripe; cash settles immediately.
type PaymentService interface {
	ProcessPayment(ctx context.Context, bookingID, payerID string, req models.PaymentRequest) (*models.Invoice, error)
}

// DefaultPaymentService implements PaymentService.
type DefaultPaymentService struct {
	Repo   bookingRepo.BookingRepository
	Logger *zap.Logger
}

func NewPaymentService(repo bookingRepo.BookingRepository, logger *zap.Logger) *DefaultPaymentService {
	return &DefaultPaymentService{Repo: repo, Logger: logger}
}

// ProcessPayment charges the booking's total price. Only the owning client
// may pay, only once, and only after a partner has been confirmed.
func (s *DefaultPaymentService) ProcessPayment(ctx context.Context, bookingID, payerID string, req models.PaymentRequest) (*models.Invoice, error) {
	b, err := s.Repo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.UserID != payerID {
		return nil, NewValidationError("only the booking owner can pay for this booking")
	}
	if b.Status == models.BookingStatusPending || b.Status == models.BookingStatusCancelled {
		return nil, NewValidationError(fmt.Sprintf("booking cannot be paid while %s", b.Status))
	}
	if b.PaymentStatus == models.PaymentStatusPaid {
		return nil, NewValidationError("booking is already paid")
	}

	currency := req.Currency
	if currency == "" {
		currency = "usd"
	}

	inv := &models.Invoice{
		InvoiceID: uuid.New().String(),
		BookingID: b.ID,
		UserID:    b.UserID,
		Amount:    b.TotalPrice,
		Currency:  currency,
		Method:    req.Method,
		CreatedAt: time.Now(),
	}

	switch req.Method {
	case "card":
		params := &stripe.PaymentIntentParams{
			Amount:   stripe.Int64(int64(math.Round(b.TotalPrice * 100))),
			Currency: stripe.String(currency),
		}
		params.AddMetadata("bookingId", b.ID)
		params.AddMetadata("userId", b.UserID)

		intent, err := paymentintent.New(params)
		if err != nil {
			return nil, &ServerError{Op: "create payment intent", Err: err}
		}
		inv.PaymentID = intent.ID
		inv.Status = "paid"
	case "cash":
		inv.Status = "paid"
	default:
		return nil, NewValidationError(fmt.Sprintf("unsupported payment method: %s", req.Method))
	}

	if err := s.Repo.SetPaymentStatus(ctx, b.ID, models.PaymentStatusPaid); err != nil {
		return nil, &ServerError{Op: "mark booking paid", Err: err}
	}

	s.Logger.Info("payment settled",
		zap.String("bookingId", b.ID),
		zap.String("invoiceId", inv.InvoiceID),
		zap.String("method", inv.Method))
	return inv, nil
}
