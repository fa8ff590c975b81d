package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/cache"
	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/dtos"
	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/models"
	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/repositories"
	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/utils"
)

const recentMatchesWindow = 24 * time.Hour

// AnalyticsService maintains the per-location daily rollups and serves
// the aggregate pool statistics snapshot.
type AnalyticsService struct {
	requestRepo   repositories.RentalRequestRepository
	propertyRepo  repositories.PropertyRepository
	matchRepo     repositories.MatchRepository
	analyticsRepo repositories.PoolAnalyticsRepository
	statsCache    *cache.StatsCache
}

func NewAnalyticsService(
	requestRepo repositories.RentalRequestRepository,
	propertyRepo repositories.PropertyRepository,
	matchRepo repositories.MatchRepository,
	analyticsRepo repositories.PoolAnalyticsRepository,
	statsCache *cache.StatsCache,
) *AnalyticsService {
	return &AnalyticsService{
		requestRepo:   requestRepo,
		propertyRepo:  propertyRepo,
		matchRepo:     matchRepo,
		analyticsRepo: analyticsRepo,
		statsCache:    statsCache,
	}
}

// UpdatePoolAnalytics recomputes today's rollup for the location's
// city. Locations that normalize to an empty city are skipped.
func (s *AnalyticsService) UpdatePoolAnalytics(ctx context.Context, location string) error {
	city := AnalyticsLocationKey(location)
	if city == "" {
		return nil
	}

	counts, err := s.requestRepo.CountByStatusForLocation(ctx, city)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	return s.analyticsRepo.Upsert(ctx, &models.RequestPoolAnalytics{
		ID:              uuid.New(),
		Location:        city,
		Date:            time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		TotalRequests:   counts.Total,
		ActiveRequests:  counts.Active,
		MatchedRequests: counts.Matched,
		ExpiredRequests: counts.Expired,
		UpdatedAt:       now,
	})
}

// GetPoolStats serves the demand/supply snapshot, read-through cached.
// Cache failures degrade to a direct recompute.
func (s *AnalyticsService) GetPoolStats(ctx context.Context) (*dtos.PoolStatsDTO, error) {
	cached, err := s.statsCache.GetPoolStats(ctx)
	if err != nil {
		utils.Logger.WithError(err).Warn("Pool stats cache read failed")
	}
	if cached != nil {
		return cached, nil
	}

	active, err := s.requestRepo.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	orgs, err := s.propertyRepo.CountOrganizationsWithAvailable(ctx)
	if err != nil {
		return nil, err
	}
	recent, err := s.matchRepo.CountCreatedSince(ctx, time.Now().Add(-recentMatchesWindow))
	if err != nil {
		return nil, err
	}

	stats := &dtos.PoolStatsDTO{
		ActiveRequests:         active,
		AvailableOrganizations: orgs,
		RecentMatches:          recent,
		Timestamp:              time.Now().UTC(),
	}
	if err := s.statsCache.SetPoolStats(ctx, stats); err != nil {
		utils.Logger.WithError(err).Warn("Pool stats cache write failed")
	}
	return stats, nil
}

// AnalyticsLocationKey canonicalizes a free-text location to the city
// key used for rollup bucketing.
func AnalyticsLocationKey(location string) string {
	return strings.ToLower(utils.NormalizeASCII(utils.ExtractLikelyCity(location)))
}
