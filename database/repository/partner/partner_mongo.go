package partnerRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carenow/database"
	"carenow/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoPartnerRepo implements PartnerRepository on a MongoDB collection.
type MongoPartnerRepo struct {
	coll *mongo.Collection
}

// NewMongoPartnerRepo returns a repository bound to the "partners" collection.
func NewMongoPartnerRepo() *MongoPartnerRepo {
	return &MongoPartnerRepo{coll: database.Collection("partners")}
}

// EnsureIndexes creates the 2dsphere and rating indexes the directory
// queries depend on.
func (r *MongoPartnerRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}},
		{Keys: bson.D{{Key: "location_geo", Value: "2dsphere"}}},
		{Keys: bson.D{{Key: "rating", Value: -1}}},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create partner indexes: %w", err)
	}
	return nil
}

// QueryAvailablePartners runs a $geoNear pipeline filtered by service type
// membership and minimum rating.
func (r *MongoPartnerRepo) QueryAvailablePartners(ctx context.Context, services []string, location models.GeoPoint, radiusKm, minRating float64, limit int64) ([]models.Partner, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if len(location.Coordinates) < 2 {
		return nil, fmt.Errorf("invalid search center coordinates")
	}

	var pipeline mongo.Pipeline

	// $geoNear must come first to filter and sort by distance.
	pipeline = append(pipeline, bson.D{
		{Key: "$geoNear", Value: bson.D{
			{Key: "near", Value: bson.D{
				{Key: "type", Value: "Point"},
				{Key: "coordinates", Value: location.Coordinates},
			}},
			{Key: "distanceField", Value: "distance"},
			{Key: "spherical", Value: true},
			{Key: "maxDistance", Value: radiusKm * 1000},
		}},
	})

	matchFilter := bson.M{
		"rating": bson.M{"$gte": minRating},
	}
	if len(services) > 0 {
		matchFilter["service_types"] = bson.M{"$in": services}
	}
	pipeline = append(pipeline, bson.D{{Key: "$match", Value: matchFilter}})

	if limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: limit}})
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("partner search failed: %w", err)
	}
	defer cursor.Close(ctx)

	var partners []models.Partner
	if err := cursor.All(ctx, &partners); err != nil {
		return nil, fmt.Errorf("failed to decode partners: %w", err)
	}
	return partners, nil
}

// GetByID retrieves a partner by its ID.
func (r *MongoPartnerRepo) GetByID(ctx context.Context, id string) (*models.Partner, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var partner models.Partner
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&partner)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error fetching partner %s: %w", id, err)
	}
	return &partner, nil
}

// GetTopRated returns the highest-rated partners, most-reviewed first among
// equal ratings.
func (r *MongoPartnerRepo) GetTopRated(ctx context.Context, limit int64) ([]models.Partner, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "rating", Value: -1}, {Key: "total_reviews", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("error querying top rated partners: %w", err)
	}
	defer cursor.Close(ctx)

	var partners []models.Partner
	if err := cursor.All(ctx, &partners); err != nil {
		return nil, fmt.Errorf("failed to decode partners: %w", err)
	}
	return partners, nil
}
