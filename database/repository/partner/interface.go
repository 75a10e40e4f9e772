package partnerRepo

import (
	"context"
	"errors"

	"carenow/models"
)

// ErrNotFound is returned when no partner matches the given id.
var ErrNotFound = errors.New("partner not found")

// PartnerRepository is the read-only directory of service partners. Partner
// profiles are written by an external collaborator; the booking core only
// queries them.
type PartnerRepository interface {
	// QueryAvailablePartners returns partners offering at least one of the
	// requested services within radiusKm of location, with rating >= minRating.
	QueryAvailablePartners(ctx context.Context, services []string, location models.GeoPoint, radiusKm, minRating float64, limit int64) ([]models.Partner, error)

	GetByID(ctx context.Context, id string) (*models.Partner, error)
	GetTopRated(ctx context.Context, limit int64) ([]models.Partner, error)

	EnsureIndexes(ctx context.Context) error
}
