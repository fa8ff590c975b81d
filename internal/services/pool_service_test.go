package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/config"
	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/models"
	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/utils"
)

type poolFixture struct {
	requestRepo   *fakeRequestRepo
	propertyRepo  *fakePropertyRepo
	matchRepo     *fakeMatchRepo
	analyticsRepo *fakeAnalyticsRepo
	notifier      *recordingNotifier
	pool          *PoolService
}

func newPoolFixture(cfg config.MatchingConfig, orgs ...*models.Organization) *poolFixture {
	f := &poolFixture{
		requestRepo:   newFakeRequestRepo(),
		propertyRepo:  newFakePropertyRepo(),
		matchRepo:     newFakeMatchRepo(),
		analyticsRepo: &fakeAnalyticsRepo{},
		notifier:      &recordingNotifier{},
	}
	scoring := NewScoringEngine(cfg, &fakeTrustClient{})
	discovery := NewCandidateDiscovery(cfg, f.propertyRepo)
	pipeline := NewMatchingPipeline(cfg, discovery, scoring, newFakeOrgRepo(orgs...), f.matchRepo, f.notifier)
	analytics := NewAnalyticsService(f.requestRepo, f.propertyRepo, f.matchRepo, f.analyticsRepo, nil)
	f.pool = NewPoolService(cfg, f.requestRepo, f.matchRepo, pipeline, analytics)
	return f
}

func TestAddToPoolPersistsAndMatches(t *testing.T) {
	org := &models.Organization{ID: uuid.New()}
	f := newPoolFixture(config.DefaultMatchingConfig(), org)
	f.propertyRepo.findResults = [][]*models.Property{{fitProperty(org.ID)}}

	req := testRequest()
	req.MoveInDate = nil

	matches, err := f.pool.AddToPool(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(1), matches)

	require.Len(t, f.requestRepo.created, 1)
	assert.Equal(t, models.PoolStatusActive, req.PoolStatus)
	require.NotNil(t, req.ExpiresAt)
	assert.WithinDuration(t, time.Now().Add(14*24*time.Hour), *req.ExpiresAt, time.Minute)

	// Admission refreshes the location rollup once.
	require.Len(t, f.requestRepo.countLocations, 1)
	assert.Equal(t, "poznan", f.requestRepo.countLocations[0])
	assert.Len(t, f.analyticsRepo.upserts, 1)
}

func TestAddToPoolCreateFailurePropagates(t *testing.T) {
	f := newPoolFixture(config.DefaultMatchingConfig())
	f.requestRepo.createErr = errors.New("connection reset")

	matches, err := f.pool.AddToPool(context.Background(), testRequest())
	assert.Error(t, err)
	assert.Zero(t, matches)
	assert.Empty(t, f.requestRepo.created)
	assert.Empty(t, f.propertyRepo.findCalls)
}

func TestAddToPoolMatchingFailureKeepsRequestAdmitted(t *testing.T) {
	f := newPoolFixture(config.DefaultMatchingConfig())
	f.propertyRepo.findErr = errors.New("query timeout")

	req := testRequest()
	matches, err := f.pool.AddToPool(context.Background(), req)
	require.NoError(t, err)
	assert.Zero(t, matches)

	// The admission survives the matching failure.
	require.Len(t, f.requestRepo.created, 1)
	assert.Equal(t, models.PoolStatusActive, req.PoolStatus)
	assert.Empty(t, f.notifier.batches)
}

func TestAddToPoolMatchPersistenceFailureKeepsRequestAdmitted(t *testing.T) {
	org := &models.Organization{ID: uuid.New()}
	f := newPoolFixture(config.DefaultMatchingConfig(), org)
	f.propertyRepo.findResults = [][]*models.Property{{fitProperty(org.ID)}}
	f.matchRepo.createErr = errors.New("deadlock detected")

	req := testRequest()
	matches, err := f.pool.AddToPool(context.Background(), req)
	require.NoError(t, err)
	assert.Zero(t, matches)

	require.Len(t, f.requestRepo.created, 1)
	assert.Empty(t, f.notifier.batches)
}

func TestExpiryForMoveInLeadTime(t *testing.T) {
	f := newPoolFixture(config.DefaultMatchingConfig())
	now := time.Now()

	// Far-off move-in: pool closes three days before it.
	farMoveIn := now.AddDate(0, 0, 30)
	req := &models.RentalRequest{MoveInDate: &farMoveIn}
	assert.WithinDuration(t, farMoveIn.Add(-3*24*time.Hour), f.pool.expiryFor(req, now), time.Second)

	// Imminent move-in: the grace floor wins.
	soonMoveIn := now.AddDate(0, 0, 1)
	req = &models.RentalRequest{MoveInDate: &soonMoveIn}
	assert.WithinDuration(t, now.Add(24*time.Hour), f.pool.expiryFor(req, now), time.Second)

	// Move-in already in the past still gets the grace window.
	pastMoveIn := now.AddDate(0, 0, -10)
	req = &models.RentalRequest{MoveInDate: &pastMoveIn}
	assert.WithinDuration(t, now.Add(24*time.Hour), f.pool.expiryFor(req, now), time.Second)
}

func TestRemoveFromPool(t *testing.T) {
	f := newPoolFixture(config.DefaultMatchingConfig())
	requestID := uuid.New()
	f.requestRepo.byID[requestID] = &models.RentalRequest{ID: requestID, Location: "Poznań"}
	f.requestRepo.setStatusAffected = 1

	err := f.pool.RemoveFromPool(context.Background(), requestID, models.PoolStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{requestID}, f.matchRepo.deletedRequests)
}

func TestRemoveFromPoolWrongStatus(t *testing.T) {
	f := newPoolFixture(config.DefaultMatchingConfig())
	f.requestRepo.setStatusAffected = 0

	err := f.pool.RemoveFromPool(context.Background(), uuid.New(), models.PoolStatusCancelled)
	assert.ErrorIs(t, err, utils.ErrWrongPoolStatus)
	assert.Empty(t, f.matchRepo.deletedRequests)
}

func TestCleanupExpiredRequestsBatchesAnalyticsPerLocation(t *testing.T) {
	f := newPoolFixture(config.DefaultMatchingConfig())
	f.requestRepo.expired = []*models.RentalRequest{
		{ID: uuid.New(), Location: "Poznań, Jeżyce"},
		{ID: uuid.New(), Location: "Poznan"},
		{ID: uuid.New(), Location: "Warszawa"},
	}

	count, err := f.pool.CleanupExpiredRequests(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, count)
	assert.Len(t, f.requestRepo.markedIDs, 3)

	// Two requests normalize to the same city; the rollup runs once
	// per distinct location.
	assert.Len(t, f.analyticsRepo.upserts, 2)
	assert.ElementsMatch(t, []string{"poznan", "warszawa"}, f.requestRepo.countLocations)
}

func TestCleanupExpiredRequestsListFailurePropagates(t *testing.T) {
	f := newPoolFixture(config.DefaultMatchingConfig())
	f.requestRepo.listExpiredErr = errors.New("connection reset")

	count, err := f.pool.CleanupExpiredRequests(context.Background())
	assert.Error(t, err)
	assert.Zero(t, count)
	assert.Empty(t, f.requestRepo.markedIDs)
}

func TestCleanupExpiredRequestsNothingToDo(t *testing.T) {
	f := newPoolFixture(config.DefaultMatchingConfig())

	count, err := f.pool.CleanupExpiredRequests(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.Empty(t, f.requestRepo.markedIDs)
	assert.Empty(t, f.analyticsRepo.upserts)
}
