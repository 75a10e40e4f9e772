package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"carenow/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// QueryByPartnerAndStatus returns all bookings for partnerID in the given
// status. The availability checker uses it to find confirmed bookings.
func (r *MongoBookingRepo) QueryByPartnerAndStatus(ctx context.Context, partnerID string, status models.BookingStatus) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, bson.M{"partner_id": partnerID, "status": status})
	if err != nil {
		return nil, fmt.Errorf("error querying bookings for partner %s: %w", partnerID, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings for partner %s: %w", partnerID, err)
	}
	return bookings, nil
}

// QueryByDateRange returns the owner's bookings with scheduled dates in
// [startDate, endDate]. Dates are "YYYY-MM-DD" strings, so lexical range
// comparison matches chronological order.
func (r *MongoBookingRepo) QueryByDateRange(ctx context.Context, ownerID, startDate, endDate string, isPartner bool) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	ownerField := "user_id"
	if isPartner {
		ownerField = "partner_id"
	}
	filter := bson.M{
		ownerField: ownerID,
		"date":     bson.M{"$gte": startDate, "$lte": endDate},
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time_slot", Value: 1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error querying bookings for %s %s: %w", ownerField, ownerID, err)
	}
	defer cursor.Close(ctx)

	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("error decoding bookings for %s %s: %w", ownerField, ownerID, err)
	}
	return bookings, nil
}
