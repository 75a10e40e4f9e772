package models

import "time"

// PaymentRequest is the input to ProcessPayment.
type PaymentRequest struct {
	Method   string `json:"method"`   // "card" or "cash"
	Currency string `json:"currency"` // e.g. "usd"
}

// Invoice records the outcome of a payment attempt for a booking.
type Invoice struct {
	InvoiceID string    `bson:"invoice_id" json:"invoiceId"`
	BookingID string    `bson:"booking_id" json:"bookingId"`
	UserID    string    `bson:"user_id" json:"userId"`
	Amount    float64   `bson:"amount" json:"amount"`
	Currency  string    `bson:"currency" json:"currency"`
	Method    string    `bson:"method" json:"method"`
	Status    string    `bson:"status" json:"status"`
	PaymentID string    `bson:"payment_id,omitempty" json:"paymentId,omitempty"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
