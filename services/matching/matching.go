package matching

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	partnerRepo "carenow/database/repository/partner"
	"carenow/models"
	"carenow/utils"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Thresholds for manual search vs unattended auto-assignment. Auto-assignment
// casts a wider net but demands a higher rating.
const (
	DefaultSearchRadiusKm = 10.0
	DefaultMinRating      = 3.0
	AutoAssignRadiusKm    = 15.0
	AutoAssignMinRating   = 3.5

	candidateQueryLimit = 100
	matchCacheTTL       = 2 * time.Minute
)

// RetrievalError wraps a failure of the partner-directory query. An empty
// candidate set is not an error; only collaborator I/O failures are.
type RetrievalError struct {
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("partner retrieval failed: %v", e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// MatchingService scores and ranks candidate partners for a service request.
type MatchingService interface {
	// MatchPartners returns eligible partners best-first, or an empty list
	// when none qualify.
	MatchPartners(ctx context.Context, req models.MatchRequest) ([]models.RankedPartner, error)
	// AutoAssignPartner returns the single best candidate under the stricter
	// auto-assignment thresholds, or nil when none qualifies.
	AutoAssignPartner(ctx context.Context, req models.MatchRequest) (*models.RankedPartner, error)
}

// DefaultMatchingService implements MatchingService. CacheClient may be nil,
// in which case match results are recomputed on every request.
type DefaultMatchingService struct {
	PartnerRepo  partnerRepo.PartnerRepository
	Availability AvailabilityChecker
	CacheClient  *redis.Client
}

// MatchPartners retrieves a ranked list of partners matching the request.
// Manual-search results are briefly cached; availability is rechecked when
// the cache misses.
func (s *DefaultMatchingService) MatchPartners(ctx context.Context, req models.MatchRequest) ([]models.RankedPartner, error) {
	if len(req.ServiceTypes) == 0 {
		return nil, fmt.Errorf("at least one service type is required")
	}
	if req.MaxDistanceKm <= 0 {
		req.MaxDistanceKm = DefaultSearchRadiusKm
	}
	if req.MinRating <= 0 {
		req.MinRating = DefaultMinRating
	}

	cacheKey, cached := s.fromCache(ctx, req)
	if cached != nil {
		return cached, nil
	}

	ranked, err := s.rank(ctx, req)
	if err != nil {
		return nil, err
	}

	s.toCache(ctx, cacheKey, ranked)
	return ranked, nil
}

// AutoAssignPartner runs the ranking with maxResults=1 and the stricter
// unattended thresholds. It never reads the cache: assignment decisions are
// always made against fresh availability.
func (s *DefaultMatchingService) AutoAssignPartner(ctx context.Context, req models.MatchRequest) (*models.RankedPartner, error) {
	if len(req.ServiceTypes) == 0 {
		return nil, fmt.Errorf("at least one service type is required")
	}
	req.MaxDistanceKm = AutoAssignRadiusKm
	req.MinRating = AutoAssignMinRating
	req.MaxResults = 1

	ranked, err := s.rank(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(ranked) == 0 {
		return nil, nil
	}
	return &ranked[0], nil
}

// rank performs the candidate fetch, availability filter, scoring and sort.
func (s *DefaultMatchingService) rank(ctx context.Context, req models.MatchRequest) ([]models.RankedPartner, error) {
	candidates, err := s.PartnerRepo.QueryAvailablePartners(
		ctx, req.ServiceTypes, req.Location, req.MaxDistanceKm, req.MinRating, candidateQueryLimit)
	if err != nil {
		return nil, &RetrievalError{Err: err}
	}

	ranked := make([]models.RankedPartner, 0, len(candidates))
	for i := range candidates {
		p := candidates[i]
		if !s.Availability.IsAvailable(ctx, &p, req.Date, req.TimeSlot) {
			continue
		}
		distanceKm := haversine(req.Location.Lat(), req.Location.Lon(), p.LocationGeo.Lat(), p.LocationGeo.Lon())
		ranked = append(ranked, models.RankedPartner{
			Partner:    p,
			Score:      scorePartner(&p, req.ServiceTypes, distanceKm),
			DistanceKm: distanceKm,
		})
	}

	// Best score first; equal scores break by ascending partner id so the
	// ordering is deterministic regardless of query order.
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Partner.ID < ranked[j].Partner.ID
	})

	if req.MaxResults > 0 && len(ranked) > req.MaxResults {
		ranked = ranked[:req.MaxResults]
	}
	return ranked, nil
}

// scorePartner computes the additive matching score, 100 points maximum:
// rating 0-50, experience 0-20, service overlap 0-20, proximity 0-10,
// verification +5, reviews 0-5.
func scorePartner(p *models.Partner, requested []string, distanceKm float64) float64 {
	score := p.Rating * 10
	score += math.Min(float64(p.YearsExperience)*2, 20)
	overlap := serviceOverlap(p.ServiceTypes, requested)
	score += float64(overlap) / float64(len(requested)) * 20
	score += math.Max(10-distanceKm, 0)
	if p.Verified {
		score += 5
	}
	score += math.Min(float64(p.TotalReviews)/10, 5)
	return score
}

// serviceOverlap counts how many of the requested service types the partner
// offers, case-insensitively.
func serviceOverlap(offered, requested []string) int {
	count := 0
	for _, want := range requested {
		for _, have := range offered {
			if strings.EqualFold(want, have) {
				count++
				break
			}
		}
	}
	return count
}

// haversine calculates the great-circle distance (in km) between two lat/lon points.
func haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const R = 6371
	dLat := (lat2 - lat1) * (math.Pi / 180)
	dLon := (lon2 - lon1) * (math.Pi / 180)
	lat1Rad := lat1 * (math.Pi / 180)
	lat2Rad := lat2 * (math.Pi / 180)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return R * c
}

// fromCache returns the cache key for req and any cached ranking under it.
func (s *DefaultMatchingService) fromCache(ctx context.Context, req models.MatchRequest) (string, []models.RankedPartner) {
	if s.CacheClient == nil {
		return "", nil
	}
	reqBytes, err := json.Marshal(req)
	if err != nil {
		return "", nil
	}
	key := fmt.Sprintf("match:%x", reqBytes)

	cached, err := s.CacheClient.Get(ctx, key).Result()
	if err != nil || cached == "" {
		return key, nil
	}
	var ranked []models.RankedPartner
	if err := json.Unmarshal([]byte(cached), &ranked); err != nil {
		// Stale or corrupt entry; recompute.
		return key, nil
	}
	return key, ranked
}

func (s *DefaultMatchingService) toCache(ctx context.Context, key string, ranked []models.RankedPartner) {
	if s.CacheClient == nil || key == "" {
		return
	}
	data, err := json.Marshal(ranked)
	if err != nil {
		return
	}
	if err := s.CacheClient.Set(ctx, key, data, matchCacheTTL).Err(); err != nil {
		utils.GetLogger().Debug("matching: failed to cache result", zap.Error(err))
	}
}
