package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/config"
	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/models"
	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/repositories"
	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/utils"
)

// PoolService owns the request pool lifecycle: admission, removal and
// the expiry sweep.
type PoolService struct {
	cfg         config.MatchingConfig
	requestRepo repositories.RentalRequestRepository
	matchRepo   repositories.MatchRepository
	pipeline    *MatchingPipeline
	analytics   *AnalyticsService
}

func NewPoolService(
	cfg config.MatchingConfig,
	requestRepo repositories.RentalRequestRepository,
	matchRepo repositories.MatchRepository,
	pipeline *MatchingPipeline,
	analytics *AnalyticsService,
) *PoolService {
	return &PoolService{
		cfg:         cfg,
		requestRepo: requestRepo,
		matchRepo:   matchRepo,
		pipeline:    pipeline,
		analytics:   analytics,
	}
}

// AddToPool admits a request and immediately runs matching for it.
// Persisting the request is the only step allowed to fail the call:
// analytics and matching degrade to zero matches instead of losing the
// admission.
func (s *PoolService) AddToPool(ctx context.Context, req *models.RentalRequest) (int64, error) {
	expiresAt := s.expiryFor(req, time.Now())
	req.PoolStatus = models.PoolStatusActive
	req.ExpiresAt = &expiresAt

	if err := s.requestRepo.Create(ctx, req); err != nil {
		return 0, err
	}

	if err := s.analytics.UpdatePoolAnalytics(ctx, req.Location); err != nil {
		utils.Logger.WithError(err).Warnf("Pool analytics update failed for request %s", req.ID)
	}

	matches, err := s.pipeline.FindAndPersistMatches(ctx, req)
	if err != nil {
		utils.Logger.WithError(err).Errorf("Matching failed for request %s; request stays in pool", req.ID)
		return 0, nil
	}
	return matches, nil
}

// expiryFor returns when the request leaves the pool: three days
// before the move-in date, but never less than the minimum grace
// period from now. Without a move-in date the default TTL applies.
func (s *PoolService) expiryFor(req *models.RentalRequest, now time.Time) time.Time {
	if req.MoveInDate == nil {
		return now.Add(s.cfg.DefaultPoolTTL)
	}
	expiresAt := req.MoveInDate.Add(-s.cfg.MoveInLeadTime)
	if floor := now.Add(s.cfg.MinPoolGrace); expiresAt.Before(floor) {
		return floor
	}
	return expiresAt
}

// RemoveFromPool transitions an ACTIVE request to the given terminal
// status and discards its matches. Removing a request that is not
// ACTIVE is reported as a wrong-status error.
func (s *PoolService) RemoveFromPool(ctx context.Context, requestID uuid.UUID, status models.PoolStatusType) error {
	affected, err := s.requestRepo.SetPoolStatus(ctx, requestID, status)
	if err != nil {
		return err
	}
	if affected == 0 {
		return utils.ErrWrongPoolStatus
	}
	if err := s.matchRepo.DeleteByRequestID(ctx, requestID); err != nil {
		return err
	}

	req, err := s.requestRepo.GetByID(ctx, requestID)
	if err == nil && req != nil {
		if err := s.analytics.UpdatePoolAnalytics(ctx, req.Location); err != nil {
			utils.Logger.WithError(err).Warnf("Pool analytics update failed for request %s", requestID)
		}
	}
	return nil
}

// CleanupExpiredRequests sweeps one batch of overdue ACTIVE requests
// into EXPIRED and refreshes analytics once per distinct location.
// Returns the number of requests expired.
func (s *PoolService) CleanupExpiredRequests(ctx context.Context) (int, error) {
	expired, err := s.requestRepo.ListExpired(ctx, time.Now(), s.cfg.ExpiredSweepBatch)
	if err != nil {
		return 0, err
	}
	if len(expired) == 0 {
		return 0, nil
	}

	ids := make([]uuid.UUID, 0, len(expired))
	locations := make(map[string]string)
	for _, req := range expired {
		ids = append(ids, req.ID)
		if key := AnalyticsLocationKey(req.Location); key != "" {
			locations[key] = req.Location
		}
	}

	if err := s.requestRepo.MarkExpired(ctx, ids); err != nil {
		return 0, err
	}

	for _, location := range locations {
		if err := s.analytics.UpdatePoolAnalytics(ctx, location); err != nil {
			utils.Logger.WithError(err).Warnf("Pool analytics update failed for location %q", location)
		}
	}

	utils.Logger.Infof("Expired %d pooled requests across %d locations", len(ids), len(locations))
	return len(ids), nil
}
