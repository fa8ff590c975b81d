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

// ReverseMatcher runs matching in the property-to-requests direction:
// when a listing goes live, find the pooled requests it can serve.
type ReverseMatcher struct {
	cfg          config.MatchingConfig
	scoring      *ScoringEngine
	propertyRepo repositories.PropertyRepository
	requestRepo  repositories.RentalRequestRepository
	orgRepo      repositories.OrganizationRepository
	matchRepo    repositories.MatchRepository
	notifier     Notifier
}

func NewReverseMatcher(
	cfg config.MatchingConfig,
	scoring *ScoringEngine,
	propertyRepo repositories.PropertyRepository,
	requestRepo repositories.RentalRequestRepository,
	orgRepo repositories.OrganizationRepository,
	matchRepo repositories.MatchRepository,
	notifier Notifier,
) *ReverseMatcher {
	return &ReverseMatcher{
		cfg:          cfg,
		scoring:      scoring,
		propertyRepo: propertyRepo,
		requestRepo:  requestRepo,
		orgRepo:      orgRepo,
		matchRepo:    matchRepo,
		notifier:     notifier,
	}
}

// MatchRequestsForNewProperty scores every compatible ACTIVE request
// against the new listing and persists the ones clearing the
// threshold. Unavailable listings are a silent no-op. Returns the
// number of match rows inserted.
func (m *ReverseMatcher) MatchRequestsForNewProperty(ctx context.Context, propertyID uuid.UUID) (int64, error) {
	prop, err := m.propertyRepo.GetByID(ctx, propertyID)
	if err != nil {
		return 0, err
	}
	if prop == nil {
		return 0, utils.ErrPropertyNotFound
	}
	if !prop.Matchable() {
		utils.Logger.Debugf("Property %s is not matchable, skipping reverse matching", prop.ID)
		return 0, nil
	}

	now := time.Now()
	requests, err := m.requestRepo.FindActiveCompatible(ctx, repositories.ActiveRequestFilter{
		CityTokens: discoveryTokens(prop.City),
		// A request qualifies when the rent fits within its stretched
		// budget, so the floor is the rent divided by the tolerance.
		MinBudgetCap: prop.MonthlyRent / m.cfg.BudgetTolerance,
		CreatedSince: now.AddDate(0, 0, -m.cfg.ReverseMatchWindowDays),
		Now:          now,
		Limit:        m.cfg.MaxCandidateProperties,
	})
	if err != nil {
		return 0, err
	}
	if len(requests) == 0 {
		return 0, nil
	}

	org, err := m.orgRepo.GetWithMembers(ctx, prop.OrganizationID)
	if err != nil {
		return 0, err
	}
	if org == nil {
		return 0, nil
	}

	var matches []*models.LandlordRequestMatch
	for _, req := range requests {
		score := m.scoring.CalculateWeightedScore(ctx, org, req, prop)
		threshold := m.cfg.ScoreThreshold
		if !req.HasBudget() {
			threshold = m.cfg.NoBudgetScoreThreshold
		}
		if score < threshold {
			continue
		}
		matches = append(matches, &models.LandlordRequestMatch{
			ID:              uuid.New(),
			OrganizationID:  org.ID,
			RentalRequestID: req.ID,
			PropertyID:      prop.ID,
			MatchScore:      score,
			MatchReason:     m.scoring.GenerateMatchReason(prop, req, org),
			Status:          models.MatchStatusActive,
		})
	}
	if len(matches) == 0 {
		return 0, nil
	}

	inserted, err := m.matchRepo.CreateSkipDuplicates(ctx, matches)
	if err != nil {
		return 0, err
	}

	if inserted > 0 {
		byID := make(map[uuid.UUID]*models.RentalRequest, len(requests))
		for _, req := range requests {
			byID[req.ID] = req
		}
		items := make([]MatchNotification, 0, len(matches))
		for _, match := range matches {
			req := byID[match.RentalRequestID]
			items = append(items, MatchNotification{
				OrganizationID:  org.ID,
				RentalRequestID: req.ID,
				Title:           req.Title,
				TenantName:      req.TenantName,
			})
		}
		m.notifier.NotifyMany(ctx, items)
	}

	utils.Logger.Infof("Reverse matching for property %s created %d matches from %d active requests", prop.ID, inserted, len(requests))
	return inserted, nil
}
