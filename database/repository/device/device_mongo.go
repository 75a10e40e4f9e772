package deviceRepo

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

// ErrNoToken is returned when an account has no registered device token.
var ErrNoToken = errors.New("no device token registered")

// DeviceTokenRepository maps account ids to their current FCM token.
type DeviceTokenRepository interface {
	SaveToken(ctx context.Context, accountID, role, token string) error
	GetToken(ctx context.Context, accountID string) (string, error)
}

// MongoDeviceRepo implements DeviceTokenRepository on a MongoDB collection.
type MongoDeviceRepo struct {
	coll *mongo.Collection
}

// NewMongoDeviceRepo returns a repository bound to the "device_tokens" collection.
func NewMongoDeviceRepo() *MongoDeviceRepo {
	return &MongoDeviceRepo{coll: database.Collection("device_tokens")}
}

// SaveToken upserts the account's token. One token per account: a fresh
// sign-in on a new device replaces the old registration.
func (r *MongoDeviceRepo) SaveToken(ctx context.Context, accountID, role, token string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	doc := models.DeviceToken{
		AccountID: accountID,
		Role:      role,
		Token:     token,
		UpdatedAt: time.Now(),
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := r.coll.ReplaceOne(ctx, bson.M{"account_id": accountID}, doc, opts); err != nil {
		return fmt.Errorf("error saving device token for %s: %w", accountID, err)
	}
	return nil
}

// GetToken returns the account's current FCM token.
func (r *MongoDeviceRepo) GetToken(ctx context.Context, accountID string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc models.DeviceToken
	err := r.coll.FindOne(ctx, bson.M{"account_id": accountID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("error fetching device token for %s: %w", accountID, err)
	}
	if doc.Token == "" {
		return "", ErrNoToken
	}
	return doc.Token, nil
}
