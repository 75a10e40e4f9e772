package models

import "time"

// BookingStatus is the lifecycle state of a booking.
type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
)

// PaymentStatus is an independent axis from the booking lifecycle.
type PaymentStatus string

const (
	PaymentStatusUnpaid PaymentStatus = "unpaid"
	PaymentStatusPaid   PaymentStatus = "paid"
)

// statusTransitions holds, per status, the set of statuses reachable from it.
// Transitions only ever move forward; cancelled is reachable from pending and
// confirmed only.
var statusTransitions = map[BookingStatus][]BookingStatus{
	BookingStatusPending:    {BookingStatusConfirmed, BookingStatusCancelled},
	BookingStatusConfirmed:  {BookingStatusInProgress, BookingStatusCancelled},
	BookingStatusInProgress: {BookingStatusCompleted},
	BookingStatusCompleted:  {},
	BookingStatusCancelled:  {},
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are possible.
func (s BookingStatus) IsTerminal() bool {
	return len(statusTransitions[s]) == 0
}

// Booking represents one service engagement between a client and a partner.
type Booking struct {
	ID                 string        `bson:"id" json:"id"`
	UserID             string        `bson:"user_id" json:"userId"`
	PartnerID          string        `bson:"partner_id" json:"partnerId"` // empty until assigned
	ServiceID          string        `bson:"service_id" json:"serviceId"`
	ServiceName        string        `bson:"service_name" json:"serviceName"`
	Date               string        `bson:"date" json:"date"`          // "YYYY-MM-DD"
	TimeSlot           string        `bson:"time_slot" json:"timeSlot"` // "HH:MM"
	Hours              float64       `bson:"hours" json:"hours"`
	TotalPrice         float64       `bson:"total_price" json:"totalPrice"`
	Address            string        `bson:"address" json:"address"`
	LocationGeo        GeoPoint      `bson:"location_geo" json:"locationGeo"`
	Instructions       string        `bson:"instructions,omitempty" json:"instructions,omitempty"`
	Status             BookingStatus `bson:"status" json:"status"`
	PaymentStatus      PaymentStatus `bson:"payment_status" json:"paymentStatus"`
	CancellationReason string        `bson:"cancellation_reason,omitempty" json:"cancellationReason,omitempty"`
	CreatedAt          time.Time     `bson:"created_at" json:"createdAt"`
}

// IsCancellable reports whether the booking may still be cancelled by the
// owning client.
func (b *Booking) IsCancellable() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

// BookingRequest is the client input accepted by CreateBooking. The
// validation gate checks it before any state is written.
type BookingRequest struct {
	UserID       string   `json:"userId"`
	ServiceID    string   `json:"serviceId"`
	ServiceName  string   `json:"serviceName"`
	ServiceTypes []string `json:"serviceTypes"`
	Date         string   `json:"date"`     // "YYYY-MM-DD"
	TimeSlot     string   `json:"timeSlot"` // "HH:MM"
	Hours        float64  `json:"hours"`
	TotalPrice   float64  `json:"totalPrice"`
	Address      string   `json:"address"`
	LocationGeo  GeoPoint `json:"locationGeo"`
	Instructions string   `json:"instructions,omitempty"`
	AutoAssign   bool     `json:"autoAssignPartner"`
}
