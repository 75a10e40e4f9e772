package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carenow/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Create inserts a new booking document.
func (r *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("error creating booking: %w", err)
	}
	return nil
}

// GetByID retrieves a booking by its ID.
func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&booking)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching booking %s: %w", id, err)
	}
	return &booking, nil
}

// UpdateStatus performs a compare-and-swap status transition: the update only
// applies while the booking is still in the expected status.
func (r *MongoBookingRepo) UpdateStatus(ctx context.Context, id string, expected, next models.BookingStatus, fields map[string]interface{}) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"status": next}
	for k, v := range fields {
		set[k] = v
	}

	filter := bson.M{"id": id, "status": expected}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Booking
	err := r.coll.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, r.classifyMiss(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("error updating booking %s status: %w", id, err)
	}
	return &updated, nil
}

// AssignPartner atomically confirms a pending booking for partnerID. The
// filter admits a pending booking that is unassigned or pre-assigned to the
// same partner, so two partners can never both claim it.
func (r *MongoBookingRepo) AssignPartner(ctx context.Context, id, partnerID string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"id":     id,
		"status": models.BookingStatusPending,
		"$or": bson.A{
			bson.M{"partner_id": ""},
			bson.M{"partner_id": partnerID},
		},
	}
	update := bson.M{"$set": bson.M{
		"status":     models.BookingStatusConfirmed,
		"partner_id": partnerID,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated models.Booking
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, r.classifyMiss(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("error assigning partner to booking %s: %w", id, err)
	}
	return &updated, nil
}

// SetPaymentStatus flips the payment axis; it is independent of the lifecycle
// status, so no CAS is needed.
func (r *MongoBookingRepo) SetPaymentStatus(ctx context.Context, id string, status models.PaymentStatus) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": bson.M{"payment_status": status}})
	if err != nil {
		return fmt.Errorf("error updating booking %s payment status: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// classifyMiss distinguishes a missing booking from a CAS conflict.
func (r *MongoBookingRepo) classifyMiss(ctx context.Context, id string) error {
	count, err := r.coll.CountDocuments(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("error classifying update miss for booking %s: %w", id, err)
	}
	if count == 0 {
		return ErrNotFound
	}
	return ErrStatusConflict
}
