package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/models"
	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/repositories"
)

/*──────────── property repository ────────────*/

type fakePropertyRepo struct {
	byID map[uuid.UUID]*models.Property

	// findResults is consumed per FindAvailable call, so tests can
	// stage a strict-query result and a relaxed-fallback result.
	findResults [][]*models.Property
	findCalls   []repositories.AvailablePropertyFilter
	findErr     error

	orgsWithAvailable int
}

func newFakePropertyRepo() *fakePropertyRepo {
	return &fakePropertyRepo{byID: map[uuid.UUID]*models.Property{}}
}

func (f *fakePropertyRepo) Create(ctx context.Context, p *models.Property) error {
	f.byID[p.ID] = p
	return nil
}

func (f *fakePropertyRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	return f.byID[id], nil
}

func (f *fakePropertyRepo) FindAvailable(ctx context.Context, filter repositories.AvailablePropertyFilter) ([]*models.Property, error) {
	f.findCalls = append(f.findCalls, filter)
	if f.findErr != nil {
		return nil, f.findErr
	}
	if len(f.findResults) == 0 {
		return nil, nil
	}
	result := f.findResults[0]
	f.findResults = f.findResults[1:]
	return result, nil
}

func (f *fakePropertyRepo) CountOrganizationsWithAvailable(ctx context.Context) (int, error) {
	return f.orgsWithAvailable, nil
}

/*──────────── rental request repository ────────────*/

type fakeRequestRepo struct {
	byID      map[uuid.UUID]*models.RentalRequest
	created   []*models.RentalRequest
	createErr error

	setStatusAffected int64
	setStatusCalls    []models.PoolStatusType

	expired        []*models.RentalRequest
	listExpiredErr error
	markedIDs      []uuid.UUID
	activeCount    int

	findActiveResults []*models.RentalRequest
	findActiveCalls   []repositories.ActiveRequestFilter

	viewIncrements     map[uuid.UUID]int64
	responseIncrements map[uuid.UUID]int64

	countsByLocation map[string]repositories.PoolCounts
	countLocations   []string
}

func newFakeRequestRepo() *fakeRequestRepo {
	return &fakeRequestRepo{
		byID:               map[uuid.UUID]*models.RentalRequest{},
		viewIncrements:     map[uuid.UUID]int64{},
		responseIncrements: map[uuid.UUID]int64{},
		countsByLocation:   map[string]repositories.PoolCounts{},
	}
}

func (f *fakeRequestRepo) Create(ctx context.Context, r *models.RentalRequest) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.byID[r.ID] = r
	f.created = append(f.created, r)
	return nil
}

func (f *fakeRequestRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.RentalRequest, error) {
	return f.byID[id], nil
}

func (f *fakeRequestRepo) SetPoolStatus(ctx context.Context, id uuid.UUID, status models.PoolStatusType) (int64, error) {
	f.setStatusCalls = append(f.setStatusCalls, status)
	return f.setStatusAffected, nil
}

func (f *fakeRequestRepo) ListExpired(ctx context.Context, now time.Time, limit int) ([]*models.RentalRequest, error) {
	if f.listExpiredErr != nil {
		return nil, f.listExpiredErr
	}
	return f.expired, nil
}

func (f *fakeRequestRepo) MarkExpired(ctx context.Context, ids []uuid.UUID) error {
	f.markedIDs = append(f.markedIDs, ids...)
	return nil
}

func (f *fakeRequestRepo) FindActiveCompatible(ctx context.Context, filter repositories.ActiveRequestFilter) ([]*models.RentalRequest, error) {
	f.findActiveCalls = append(f.findActiveCalls, filter)
	return f.findActiveResults, nil
}

func (f *fakeRequestRepo) IncrementViewCount(ctx context.Context, id uuid.UUID, delta int64) error {
	f.viewIncrements[id] += delta
	return nil
}

func (f *fakeRequestRepo) IncrementResponseCount(ctx context.Context, id uuid.UUID, delta int64) error {
	f.responseIncrements[id] += delta
	return nil
}

func (f *fakeRequestRepo) CountActive(ctx context.Context) (int, error) {
	return f.activeCount, nil
}

func (f *fakeRequestRepo) CountByStatusForLocation(ctx context.Context, cityToken string) (repositories.PoolCounts, error) {
	f.countLocations = append(f.countLocations, cityToken)
	return f.countsByLocation[cityToken], nil
}

/*──────────── organization repository ────────────*/

type fakeOrgRepo struct {
	orgs map[uuid.UUID]*models.Organization
}

func newFakeOrgRepo(orgs ...*models.Organization) *fakeOrgRepo {
	f := &fakeOrgRepo{orgs: map[uuid.UUID]*models.Organization{}}
	for _, org := range orgs {
		f.orgs[org.ID] = org
	}
	return f
}

func (f *fakeOrgRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	return f.orgs[id], nil
}

func (f *fakeOrgRepo) GetWithMembers(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	return f.orgs[id], nil
}

/*──────────── match repository ────────────*/

type fakeMatchRepo struct {
	inserted  []*models.LandlordRequestMatch
	createErr error

	// duplicates simulates rows already present; inserts into this set
	// report zero affected rows.
	duplicates map[string]bool

	viewedAffected   int64
	declinedAffected int64
	deletedRequests  []uuid.UUID
	recentCount      int
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{duplicates: map[string]bool{}}
}

func matchKey(m *models.LandlordRequestMatch) string {
	return m.OrganizationID.String() + "/" + m.RentalRequestID.String() + "/" + m.PropertyID.String()
}

func (f *fakeMatchRepo) CreateSkipDuplicates(ctx context.Context, matches []*models.LandlordRequestMatch) (int64, error) {
	if f.createErr != nil {
		return 0, f.createErr
	}
	var inserted int64
	for _, m := range matches {
		key := matchKey(m)
		if f.duplicates[key] {
			continue
		}
		f.duplicates[key] = true
		f.inserted = append(f.inserted, m)
		inserted++
	}
	return inserted, nil
}

func (f *fakeMatchRepo) ListByRequestID(ctx context.Context, requestID uuid.UUID) ([]*models.LandlordRequestMatch, error) {
	var out []*models.LandlordRequestMatch
	for _, m := range f.inserted {
		if m.RentalRequestID == requestID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeMatchRepo) DeleteByRequestID(ctx context.Context, requestID uuid.UUID) error {
	f.deletedRequests = append(f.deletedRequests, requestID)
	return nil
}

func (f *fakeMatchRepo) MarkViewed(ctx context.Context, orgID, requestID uuid.UUID) (int64, error) {
	affected := f.viewedAffected
	f.viewedAffected = 0
	return affected, nil
}

func (f *fakeMatchRepo) MarkDeclined(ctx context.Context, orgID, requestID uuid.UUID) (int64, error) {
	affected := f.declinedAffected
	f.declinedAffected = 0
	return affected, nil
}

func (f *fakeMatchRepo) CountCreatedSince(ctx context.Context, since time.Time) (int, error) {
	return f.recentCount, nil
}

/*──────────── analytics repository ────────────*/

type fakeAnalyticsRepo struct {
	upserts []*models.RequestPoolAnalytics
}

func (f *fakeAnalyticsRepo) Upsert(ctx context.Context, a *models.RequestPoolAnalytics) error {
	f.upserts = append(f.upserts, a)
	return nil
}

/*──────────── collaborators ────────────*/

type fakeTrustClient struct {
	levels map[uuid.UUID]models.TrustLevelType
	err    error
}

func (f *fakeTrustClient) GetUserTrustLevel(ctx context.Context, userID uuid.UUID) (models.TrustLevelType, error) {
	if f.err != nil {
		return models.TrustLevelNew, f.err
	}
	if level, ok := f.levels[userID]; ok {
		return level, nil
	}
	return models.TrustLevelNew, nil
}

type recordingNotifier struct {
	batches [][]MatchNotification
}

func (n *recordingNotifier) NotifyMany(ctx context.Context, items []MatchNotification) {
	n.batches = append(n.batches, items)
}
