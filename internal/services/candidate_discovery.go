package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/config"
	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/models"
	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/repositories"
	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/utils"
)

// CandidateBucket groups an organization's candidate properties.
// Buckets preserve repository ordering and each bucket is capped so a
// single large portfolio cannot crowd out smaller landlords.
type CandidateBucket struct {
	OrganizationID uuid.UUID
	Properties     []*models.Property
}

// CandidateDiscovery finds available properties compatible with a
// rental request and groups them per organization.
type CandidateDiscovery struct {
	cfg          config.MatchingConfig
	propertyRepo repositories.PropertyRepository
}

func NewCandidateDiscovery(cfg config.MatchingConfig, propertyRepo repositories.PropertyRepository) *CandidateDiscovery {
	return &CandidateDiscovery{cfg: cfg, propertyRepo: propertyRepo}
}

// FindCandidates queries with the standard budget tolerance first and
// retries with the relaxed tolerance only when nothing at all matched.
// A request without a budget skips the rent bound entirely.
func (d *CandidateDiscovery) FindCandidates(ctx context.Context, req *models.RentalRequest) ([]CandidateBucket, error) {
	filter := repositories.AvailablePropertyFilter{
		CityTokens: discoveryTokens(req.Location),
		Limit:      d.cfg.MaxCandidateProperties,
	}
	if until := moveInCutoff(req, d.cfg.MoveInWindowDays); until != nil {
		filter.AvailableUntil = until
	}

	filter.MinRent = req.MinBudget()
	maxBudget := req.MaxBudget()
	if maxBudget != nil {
		ceiling := *maxBudget * d.cfg.BudgetTolerance
		filter.MaxRent = &ceiling
	}

	props, err := d.propertyRepo.FindAvailable(ctx, filter)
	if err != nil {
		return nil, err
	}

	if len(props) == 0 && maxBudget != nil {
		relaxed := *maxBudget * d.cfg.RelaxedBudgetTolerance
		filter.MaxRent = &relaxed
		props, err = d.propertyRepo.FindAvailable(ctx, filter)
		if err != nil {
			return nil, err
		}
	}

	return d.groupByOrganization(props), nil
}

func (d *CandidateDiscovery) groupByOrganization(props []*models.Property) []CandidateBucket {
	var buckets []CandidateBucket
	index := make(map[uuid.UUID]int)

	for _, prop := range props {
		i, ok := index[prop.OrganizationID]
		if !ok {
			index[prop.OrganizationID] = len(buckets)
			buckets = append(buckets, CandidateBucket{OrganizationID: prop.OrganizationID})
			i = len(buckets) - 1
		}
		if len(buckets[i].Properties) >= d.cfg.MaxPropertiesPerOrg {
			continue
		}
		buckets[i].Properties = append(buckets[i].Properties, prop)
	}
	return buckets
}

// discoveryTokens collects both the raw and the accent-folded variants
// of each location segment so "Poznań" listings match "Poznan" requests
// and vice versa.
func discoveryTokens(location string) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(tok string) {
		if tok == "" {
			return
		}
		if _, ok := seen[tok]; ok {
			return
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	for _, part := range strings.Split(location, ",") {
		raw := strings.ToLower(strings.TrimSpace(part))
		add(raw)
		add(strings.ToLower(utils.NormalizeASCII(raw)))
	}
	return out
}

func moveInCutoff(req *models.RentalRequest, windowDays int) *time.Time {
	if req.MoveInDate == nil {
		return nil
	}
	cutoff := req.MoveInDate.AddDate(0, 0, windowDays)
	return &cutoff
}
