package services

import (
	"strings"

	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/models"
	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/utils"
)

// PickBestProperty selects the anchor property for an organization: the
// single listing that best fits the request and therefore represents
// the organization in scoring and notifications. budgetStretch is the
// over-budget multiplier still worth partial credit. Ties keep the
// earliest candidate, so repository ordering is preserved.
func PickBestProperty(props []*models.Property, req *models.RentalRequest, budgetStretch float64) *models.Property {
	var best *models.Property
	bestScore := -1

	for _, prop := range props {
		if prop == nil {
			continue
		}
		score := anchorScore(prop, req, budgetStretch)
		if score > bestScore {
			best = prop
			bestScore = score
		}
	}
	return best
}

func anchorScore(prop *models.Property, req *models.RentalRequest, budgetStretch float64) int {
	score := 0

	city := strings.ToLower(utils.NormalizeASCII(strings.TrimSpace(prop.City)))
	location := strings.ToLower(utils.NormalizeASCII(req.Location))
	if city != "" && strings.Contains(location, city) {
		score += 30
	}

	if maxBudget := req.MaxBudget(); maxBudget != nil {
		minBudget := req.MinBudget()
		switch rent := prop.MonthlyRent; {
		case minBudget != nil && rent >= *minBudget && rent <= *maxBudget:
			score += 25
		case rent <= *maxBudget:
			score += 20
		case rent <= *maxBudget*budgetStretch:
			score += 10
		}
	}

	reqType := strings.ToLower(strings.TrimSpace(req.PropertyType))
	propType := strings.ToLower(strings.TrimSpace(prop.PropertyType))
	if reqType != "" && propType != "" &&
		(strings.Contains(propType, reqType) || strings.Contains(reqType, propType)) {
		score += 20
	}

	if req.Bedrooms != nil && prop.Bedrooms != nil && *req.Bedrooms == *prop.Bedrooms {
		score += 15
	}

	return score
}
