package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/config"
	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/models"
	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/utils"
)

type reverseFixture struct {
	propertyRepo *fakePropertyRepo
	requestRepo  *fakeRequestRepo
	matchRepo    *fakeMatchRepo
	notifier     *recordingNotifier
	matcher      *ReverseMatcher
}

func newReverseFixture(cfg config.MatchingConfig, orgs ...*models.Organization) *reverseFixture {
	f := &reverseFixture{
		propertyRepo: newFakePropertyRepo(),
		requestRepo:  newFakeRequestRepo(),
		matchRepo:    newFakeMatchRepo(),
		notifier:     &recordingNotifier{},
	}
	scoring := NewScoringEngine(cfg, &fakeTrustClient{})
	f.matcher = NewReverseMatcher(cfg, scoring, f.propertyRepo, f.requestRepo, newFakeOrgRepo(orgs...), f.matchRepo, f.notifier)
	return f
}

func TestMatchRequestsForNewProperty(t *testing.T) {
	org := &models.Organization{ID: uuid.New()}
	f := newReverseFixture(config.DefaultMatchingConfig(), org)

	prop := fitProperty(org.ID)
	prop.Address = "ul. Półwiejska 10"
	f.propertyRepo.byID[prop.ID] = prop

	good := testRequest()
	tooCheap := &models.RentalRequest{ID: uuid.New(), Location: "Poznań", Budget: utils.Ptr(900.0)}
	f.requestRepo.findActiveResults = []*models.RentalRequest{good, tooCheap}

	inserted, err := f.matcher.MatchRequestsForNewProperty(context.Background(), prop.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), inserted)

	require.Len(t, f.matchRepo.inserted, 1)
	assert.Equal(t, good.ID, f.matchRepo.inserted[0].RentalRequestID)
	assert.Equal(t, prop.ID, f.matchRepo.inserted[0].PropertyID)

	require.Len(t, f.notifier.batches, 1)
	require.Len(t, f.notifier.batches[0], 1)
	assert.Equal(t, good.ID, f.notifier.batches[0][0].RentalRequestID)

	// The query floor admits requests whose stretched budget covers
	// the rent.
	require.Len(t, f.requestRepo.findActiveCalls, 1)
	filter := f.requestRepo.findActiveCalls[0]
	assert.InDelta(t, prop.MonthlyRent/1.2, filter.MinBudgetCap, 0.001)
	assert.Contains(t, filter.CityTokens, "poznan")
}

func TestMatchRequestsForUnmatchableProperty(t *testing.T) {
	org := &models.Organization{ID: uuid.New()}
	f := newReverseFixture(config.DefaultMatchingConfig(), org)

	rented := fitProperty(org.ID)
	rented.Status = models.PropertyStatusRented
	f.propertyRepo.byID[rented.ID] = rented

	withdrawn := fitProperty(org.ID)
	withdrawn.Availability = false
	f.propertyRepo.byID[withdrawn.ID] = withdrawn

	for _, prop := range []*models.Property{rented, withdrawn} {
		inserted, err := f.matcher.MatchRequestsForNewProperty(context.Background(), prop.ID)
		require.NoError(t, err)
		assert.Zero(t, inserted)
	}

	// Unmatchable listings never reach the request query.
	assert.Empty(t, f.requestRepo.findActiveCalls)
	assert.Empty(t, f.notifier.batches)
}

func TestMatchRequestsForMissingProperty(t *testing.T) {
	f := newReverseFixture(config.DefaultMatchingConfig())

	_, err := f.matcher.MatchRequestsForNewProperty(context.Background(), uuid.New())
	assert.ErrorIs(t, err, utils.ErrPropertyNotFound)
}
