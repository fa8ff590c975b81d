package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/repositories"
)

func TestUpdatePoolAnalyticsBucketsPerCityAndDay(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	requestRepo.countsByLocation["poznan"] = repositories.PoolCounts{Total: 10, Active: 4, Matched: 3, Expired: 3}
	analyticsRepo := &fakeAnalyticsRepo{}
	svc := NewAnalyticsService(requestRepo, newFakePropertyRepo(), newFakeMatchRepo(), analyticsRepo, nil)

	require.NoError(t, svc.UpdatePoolAnalytics(context.Background(), "Poznań, Jeżyce"))

	require.Len(t, analyticsRepo.upserts, 1)
	row := analyticsRepo.upserts[0]
	assert.Equal(t, "poznan", row.Location)
	assert.Equal(t, 10, row.TotalRequests)
	assert.Equal(t, 4, row.ActiveRequests)
	assert.Equal(t, 3, row.MatchedRequests)
	assert.Equal(t, 3, row.ExpiredRequests)

	midnight := time.Now().UTC().Truncate(24 * time.Hour)
	assert.True(t, row.Date.Equal(midnight), "expected %v, got %v", midnight, row.Date)
}

func TestUpdatePoolAnalyticsSkipsEmptyLocation(t *testing.T) {
	analyticsRepo := &fakeAnalyticsRepo{}
	svc := NewAnalyticsService(newFakeRequestRepo(), newFakePropertyRepo(), newFakeMatchRepo(), analyticsRepo, nil)

	require.NoError(t, svc.UpdatePoolAnalytics(context.Background(), "   "))
	assert.Empty(t, analyticsRepo.upserts)
}

func TestGetPoolStatsWithoutCache(t *testing.T) {
	requestRepo := newFakeRequestRepo()
	requestRepo.activeCount = 7
	propertyRepo := newFakePropertyRepo()
	propertyRepo.orgsWithAvailable = 3
	matchRepo := newFakeMatchRepo()
	matchRepo.recentCount = 12

	svc := NewAnalyticsService(requestRepo, propertyRepo, matchRepo, &fakeAnalyticsRepo{}, nil)

	stats, err := svc.GetPoolStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, stats.ActiveRequests)
	assert.Equal(t, 3, stats.AvailableOrganizations)
	assert.Equal(t, 12, stats.RecentMatches)
	assert.WithinDuration(t, time.Now(), stats.Timestamp, time.Minute)
}
