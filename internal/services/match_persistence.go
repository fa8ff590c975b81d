package services

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/config"
	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/models"
	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/repositories"
	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/utils"
)

// scoredCandidate pairs an organization with its anchor property and
// the final weighted score.
type scoredCandidate struct {
	org    *models.Organization
	anchor *models.Property
	score  int
}

// MatchingPipeline runs discovery, anchor selection, scoring, ranking
// and persistence for one rental request.
type MatchingPipeline struct {
	cfg       config.MatchingConfig
	discovery *CandidateDiscovery
	scoring   *ScoringEngine
	orgRepo   repositories.OrganizationRepository
	matchRepo repositories.MatchRepository
	notifier  Notifier
}

func NewMatchingPipeline(
	cfg config.MatchingConfig,
	discovery *CandidateDiscovery,
	scoring *ScoringEngine,
	orgRepo repositories.OrganizationRepository,
	matchRepo repositories.MatchRepository,
	notifier Notifier,
) *MatchingPipeline {
	return &MatchingPipeline{
		cfg:       cfg,
		discovery: discovery,
		scoring:   scoring,
		orgRepo:   orgRepo,
		matchRepo: matchRepo,
		notifier:  notifier,
	}
}

// FindAndPersistMatches returns the number of match rows actually
// inserted. Re-running it for the same request is safe: duplicate
// (organization, request, property) rows are skipped at insert time.
func (p *MatchingPipeline) FindAndPersistMatches(ctx context.Context, req *models.RentalRequest) (int64, error) {
	buckets, err := p.discovery.FindCandidates(ctx, req)
	if err != nil {
		return 0, err
	}
	if len(buckets) == 0 {
		utils.Logger.Debugf("No candidate properties for request %s", req.ID)
		return 0, nil
	}

	candidates := p.scoreBuckets(ctx, req, buckets)
	selected := p.rank(req, candidates)
	if len(selected) == 0 {
		return 0, nil
	}

	matches := make([]*models.LandlordRequestMatch, 0, len(selected))
	for _, c := range selected {
		matches = append(matches, &models.LandlordRequestMatch{
			ID:              uuid.New(),
			OrganizationID:  c.org.ID,
			RentalRequestID: req.ID,
			PropertyID:      c.anchor.ID,
			MatchScore:      c.score,
			MatchReason:     p.scoring.GenerateMatchReason(c.anchor, req, c.org),
			Status:          models.MatchStatusActive,
		})
	}

	inserted, err := p.matchRepo.CreateSkipDuplicates(ctx, matches)
	if err != nil {
		return 0, err
	}

	if inserted > 0 {
		items := make([]MatchNotification, 0, len(matches))
		for _, m := range matches {
			items = append(items, MatchNotification{
				OrganizationID:  m.OrganizationID,
				RentalRequestID: req.ID,
				Title:           req.Title,
				TenantName:      req.TenantName,
			})
		}
		p.notifier.NotifyMany(ctx, items)
	}

	utils.Logger.Infof("Created %d matches for request %s (%d candidates)", inserted, req.ID, len(candidates))
	return inserted, nil
}

func (p *MatchingPipeline) scoreBuckets(ctx context.Context, req *models.RentalRequest, buckets []CandidateBucket) []scoredCandidate {
	candidates := make([]scoredCandidate, 0, len(buckets))
	for _, bucket := range buckets {
		anchor := PickBestProperty(bucket.Properties, req, p.cfg.BudgetStretchFar)
		if anchor == nil {
			continue
		}
		org, err := p.orgRepo.GetWithMembers(ctx, bucket.OrganizationID)
		if err != nil {
			utils.Logger.WithError(err).Warnf("Skipping organization %s: member lookup failed", bucket.OrganizationID)
			continue
		}
		if org == nil {
			continue
		}
		candidates = append(candidates, scoredCandidate{
			org:    org,
			anchor: anchor,
			score:  p.scoring.CalculateWeightedScore(ctx, org, req, anchor),
		})
	}
	return candidates
}

// rank orders candidates by score and applies the quality threshold.
// Requests without a budget use the lowered threshold. When nothing
// clears the bar but candidates exist, the top few are kept anyway so
// the tenant is never left with an empty pool result.
func (p *MatchingPipeline) rank(req *models.RentalRequest, candidates []scoredCandidate) []scoredCandidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	threshold := p.cfg.ScoreThreshold
	if !req.HasBudget() {
		threshold = p.cfg.NoBudgetScoreThreshold
	}

	var selected []scoredCandidate
	for _, c := range candidates {
		if c.score >= threshold {
			selected = append(selected, c)
		}
	}

	if len(selected) == 0 && len(candidates) > 0 {
		n := p.cfg.FallbackTopN
		if n > len(candidates) {
			n = len(candidates)
		}
		selected = candidates[:n]
	}

	if len(selected) > p.cfg.MaxMatchesPerRequest {
		selected = selected[:p.cfg.MaxMatchesPerRequest]
	}
	return selected
}
