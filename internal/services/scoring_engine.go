package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/config"
	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/models"
	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/utils"
)

// Sub-score caps. The configurable weights rescale these; the caps
// themselves are fixed so sub-scores stay comparable across deployments.
const (
	locationScoreMax    = 40
	budgetScoreMax      = 25
	featuresScoreMax    = 20
	timingScoreMax      = 10
	performanceScoreMax = 5
)

var trustLevelWeights = map[models.TrustLevelType]float64{
	models.TrustLevelNew:       0,
	models.TrustLevelReliable:  0.3,
	models.TrustLevelTrusted:   0.6,
	models.TrustLevelExcellent: 1,
}

// ScoringEngine computes the 0-100 weighted match score for an
// (organization, request, anchor-property) triple.
type ScoringEngine struct {
	cfg   config.MatchingConfig
	trust TrustLevelClient
}

func NewScoringEngine(cfg config.MatchingConfig, trust TrustLevelClient) *ScoringEngine {
	return &ScoringEngine{cfg: cfg, trust: trust}
}

// CalculateWeightedScore returns an integer in [0, 100]. No anchor
// property, no score.
func (s *ScoringEngine) CalculateWeightedScore(
	ctx context.Context,
	org *models.Organization,
	req *models.RentalRequest,
	prop *models.Property,
) int {
	if prop == nil {
		return 0
	}

	location := s.locationScore(req, prop)
	budget := s.budgetScore(req, prop)
	features := s.featuresScore(req, prop)
	timing := s.timingScore(req, prop)
	performance := s.performanceScore(ctx, org)

	total := float64(location)/locationScoreMax*float64(s.cfg.LocationWeight) +
		float64(budget)/budgetScoreMax*float64(s.cfg.BudgetWeight) +
		float64(features)/featuresScoreMax*float64(s.cfg.FeaturesWeight) +
		float64(timing)/timingScoreMax*float64(s.cfg.TimingWeight) +
		performance/performanceScoreMax*float64(s.cfg.PerformanceWeight)

	rounded := int(math.Round(total))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}

func (s *ScoringEngine) locationScore(req *models.RentalRequest, prop *models.Property) int {
	score := 0
	city := strings.ToLower(utils.NormalizeASCII(strings.TrimSpace(prop.City)))
	location := strings.ToLower(utils.NormalizeASCII(req.Location))
	tokens := utils.LocationTokens(req.Location)

	if city != "" {
		if strings.Contains(location, city) {
			score += 30
		} else {
			for _, tok := range tokens {
				if tok == city {
					score += 30
					break
				}
			}
		}
	}

	address := strings.ToLower(utils.NormalizeASCII(prop.Address))
	for _, tok := range tokens {
		if tok != "" && strings.Contains(address, tok) {
			score += 10
			break
		}
	}

	if score > locationScoreMax {
		score = locationScoreMax
	}
	return score
}

func (s *ScoringEngine) budgetScore(req *models.RentalRequest, prop *models.Property) int {
	maxBudget := req.MaxBudget()
	if maxBudget == nil {
		// Partial credit: an unknown budget is not a mismatch.
		return 10
	}
	rent := prop.MonthlyRent
	minBudget := req.MinBudget()

	switch {
	case minBudget != nil && rent >= *minBudget && rent <= *maxBudget:
		return 25
	case rent <= *maxBudget:
		return 20
	case rent <= *maxBudget*s.cfg.BudgetStretchNear:
		return 15
	case rent <= *maxBudget*s.cfg.BudgetStretchFar:
		return 10
	default:
		return 0
	}
}

func (s *ScoringEngine) featuresScore(req *models.RentalRequest, prop *models.Property) int {
	score := 0

	reqType := strings.ToLower(strings.TrimSpace(req.PropertyType))
	propType := strings.ToLower(strings.TrimSpace(prop.PropertyType))
	if reqType != "" && propType != "" &&
		(strings.Contains(propType, reqType) || strings.Contains(reqType, propType)) {
		score += 8
	}

	if req.Bedrooms != nil && prop.Bedrooms != nil {
		switch diff := *req.Bedrooms - *prop.Bedrooms; {
		case diff == 0:
			score += 6
		case diff == 1 || diff == -1:
			score += 3
		}
	}

	if req.Furnished != nil && *req.Furnished == prop.Furnished {
		score += 2
	}
	if req.Parking != nil && *req.Parking == prop.Parking {
		score += 2
	}
	if req.PetsAllowed != nil && *req.PetsAllowed == prop.PetsAllowed {
		score += 2
	}

	if score > featuresScoreMax {
		score = featuresScoreMax
	}
	return score
}

func (s *ScoringEngine) timingScore(req *models.RentalRequest, prop *models.Property) int {
	if req.MoveInDate == nil || prop.AvailableFrom == nil {
		return 0
	}
	diff := prop.AvailableFrom.Sub(*req.MoveInDate)
	days := int(math.Round(math.Abs(diff.Hours()) / 24))
	switch {
	case days == 0:
		return 10
	case days <= 7:
		return 8
	case days <= 30:
		return 5
	case days <= 90:
		return 3
	default:
		return 0
	}
}

// performanceScore is the one best-effort sub-score: any failure
// degrades to a neutral default instead of failing the pipeline.
func (s *ScoringEngine) performanceScore(ctx context.Context, org *models.Organization) float64 {
	score, err := s.reputationScore(ctx, org)
	if err != nil {
		utils.Logger.WithError(err).Debugf("Reputation score fallback for organization %v", orgID(org))
		if org != nil && org.IsPersonal {
			return 2
		}
		return 0
	}
	return score
}

type memberReputation struct {
	trust   float64
	rating  float64
	dispute float64
	recency float64
	misrep  float64
}

func (s *ScoringEngine) reputationScore(ctx context.Context, org *models.Organization) (float64, error) {
	if org == nil {
		return 0, fmt.Errorf("no organization")
	}
	members := org.Members
	if len(members) == 0 {
		return 0, fmt.Errorf("organization %s has no members", org.ID)
	}

	// Trust lookups are independent I/O calls with no ordering
	// dependency; fan them out and join before aggregating.
	now := time.Now()
	factors := make([]memberReputation, len(members))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for i, member := range members {
		g.Go(func() error {
			level, err := s.trust.GetUserTrustLevel(gctx, member.ID)
			if err != nil {
				// Degraded, not fatal: an unreachable trust service
				// scores the member as New.
				utils.Logger.WithError(err).Debugf("Trust lookup failed for user %s", member.ID)
				level = models.TrustLevelNew
			}

			f := memberReputation{trust: trustLevelWeights[level]}
			if member.TotalReviews >= 3 {
				f.rating = (member.AverageRating - 1) / 4
			}
			if member.IsSuspended {
				f.dispute = 0.5
			}
			f.recency = recencyBoost(member.LastActiveAt, now)
			if member.TotalReviews == 0 && member.AverageRating == 5.0 {
				f.misrep = 0.3
			}

			mu.Lock()
			factors[i] = f
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	var sum memberReputation
	for _, f := range factors {
		sum.trust += f.trust
		sum.rating += f.rating
		sum.dispute += f.dispute
		sum.recency += f.recency
		sum.misrep += f.misrep
	}
	n := float64(len(members))

	combined := 0.30*(sum.trust/n) +
		0.20*(sum.rating/n) -
		0.30*(sum.dispute/n) -
		0.20*(sum.misrep/n) +
		0.10*(sum.recency/n)

	scaled := combined * 5
	if scaled < 0 {
		scaled = 0
	}
	if scaled > performanceScoreMax {
		scaled = performanceScoreMax
	}
	return scaled, nil
}

func recencyBoost(lastActiveAt *time.Time, now time.Time) float64 {
	if lastActiveAt == nil {
		return 0
	}
	since := now.Sub(*lastActiveAt)
	switch {
	case since <= 24*time.Hour:
		return 1.0
	case since <= 7*24*time.Hour:
		return 0.8
	case since <= 30*24*time.Hour:
		return 0.5
	case since <= 90*24*time.Hour:
		return 0.2
	default:
		return 0
	}
}

// GenerateMatchReason builds the human-readable explanation stored on
// the match row.
func (s *ScoringEngine) GenerateMatchReason(
	prop *models.Property,
	req *models.RentalRequest,
	org *models.Organization,
) string {
	var reasons []string

	city := strings.ToLower(utils.NormalizeASCII(strings.TrimSpace(prop.City)))
	location := strings.ToLower(utils.NormalizeASCII(req.Location))
	if city != "" && strings.Contains(location, city) {
		reasons = append(reasons, fmt.Sprintf("Located in %s", prop.City))
	}

	if maxBudget := req.MaxBudget(); maxBudget != nil {
		switch rent := prop.MonthlyRent; {
		case rent <= *maxBudget:
			reasons = append(reasons, "Within your budget")
		case rent <= *maxBudget*s.cfg.BudgetStretchFar:
			reasons = append(reasons, "Slightly above your budget")
		}
	}

	reqType := strings.ToLower(strings.TrimSpace(req.PropertyType))
	propType := strings.ToLower(strings.TrimSpace(prop.PropertyType))
	if reqType != "" && propType != "" &&
		(strings.Contains(propType, reqType) || strings.Contains(reqType, propType)) {
		reasons = append(reasons, fmt.Sprintf("Property type: %s", prop.PropertyType))
	}

	if req.Bedrooms != nil && prop.Bedrooms != nil && *req.Bedrooms == *prop.Bedrooms {
		reasons = append(reasons, fmt.Sprintf("%d bedrooms", *prop.Bedrooms))
	}

	if org != nil && org.IsPersonal {
		reasons = append(reasons, "Private landlord")
	}

	if len(reasons) == 0 {
		return "Good overall fit for your request"
	}
	return strings.Join(reasons, ", ")
}

func orgID(org *models.Organization) interface{} {
	if org == nil {
		return "<nil>"
	}
	return org.ID
}
