package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/repositories"
)

// EngagementService keeps the tenant-facing view and response counters
// in step with landlord activity on matches.
type EngagementService struct {
	requestRepo repositories.RentalRequestRepository
	matchRepo   repositories.MatchRepository
}

func NewEngagementService(
	requestRepo repositories.RentalRequestRepository,
	matchRepo repositories.MatchRepository,
) *EngagementService {
	return &EngagementService{requestRepo: requestRepo, matchRepo: matchRepo}
}

// MarkAsViewedForOrg flags the organization's unseen matches for a
// request as viewed and bumps the request's view counter by exactly
// the number of rows flipped. Repeat calls therefore add nothing.
func (s *EngagementService) MarkAsViewedForOrg(ctx context.Context, orgID, requestID uuid.UUID) error {
	affected, err := s.matchRepo.MarkViewed(ctx, orgID, requestID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return nil
	}
	return s.requestRepo.IncrementViewCount(ctx, requestID, affected)
}

// DeclineMatch records the organization's pass on a request and counts
// it as a response. Declining an already-declined match is a no-op.
func (s *EngagementService) DeclineMatch(ctx context.Context, orgID, requestID uuid.UUID) error {
	affected, err := s.matchRepo.MarkDeclined(ctx, orgID, requestID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return nil
	}
	return s.requestRepo.IncrementResponseCount(ctx, requestID, affected)
}
