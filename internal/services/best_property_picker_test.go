package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/config"
	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/models"
	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/utils"
)

func TestPickBestPropertyPrefersCloserFit(t *testing.T) {
	req := &models.RentalRequest{
		Location:     "Poznań",
		BudgetFrom:   utils.Ptr(2000.0),
		BudgetTo:     utils.Ptr(3000.0),
		PropertyType: "apartment",
		Bedrooms:     utils.Ptr(2),
	}

	wrongCity := &models.Property{ID: uuid.New(), City: "Warszawa", MonthlyRent: 2500, PropertyType: "apartment", Bedrooms: utils.Ptr(2)}
	overBudget := &models.Property{ID: uuid.New(), City: "Poznań", MonthlyRent: 5000, PropertyType: "apartment", Bedrooms: utils.Ptr(2)}
	fit := &models.Property{ID: uuid.New(), City: "Poznań", MonthlyRent: 2400, PropertyType: "apartment", Bedrooms: utils.Ptr(2)}

	best := PickBestProperty([]*models.Property{wrongCity, overBudget, fit}, req, config.DefaultMatchingConfig().BudgetStretchFar)
	require.NotNil(t, best)
	assert.Equal(t, fit.ID, best.ID)
}

func TestPickBestPropertyTieKeepsFirst(t *testing.T) {
	req := &models.RentalRequest{Location: "Poznań"}

	first := &models.Property{ID: uuid.New(), City: "Poznań", MonthlyRent: 2000}
	second := &models.Property{ID: uuid.New(), City: "Poznań", MonthlyRent: 2100}

	best := PickBestProperty([]*models.Property{first, second}, req, config.DefaultMatchingConfig().BudgetStretchFar)
	require.NotNil(t, best)
	assert.Equal(t, first.ID, best.ID)
}

func TestPickBestPropertyBudgetStretchIsConfigurable(t *testing.T) {
	req := &models.RentalRequest{Location: "Gdańsk", BudgetTo: utils.Ptr(2000.0)}

	stretched := &models.Property{ID: uuid.New(), City: "Gdańsk", MonthlyRent: 2900}
	elsewhere := &models.Property{ID: uuid.New(), City: "Sopot", MonthlyRent: 1900}

	// Rent 2900 only earns budget credit once the stretch reaches 1.5.
	assert.Equal(t, 30, anchorScore(stretched, req, 1.2))
	assert.Equal(t, 40, anchorScore(stretched, req, 1.5))

	best := PickBestProperty([]*models.Property{elsewhere, stretched}, req, 1.5)
	require.NotNil(t, best)
	assert.Equal(t, stretched.ID, best.ID)
}

func TestPickBestPropertyEmpty(t *testing.T) {
	assert.Nil(t, PickBestProperty(nil, &models.RentalRequest{Location: "Gdańsk"}, config.DefaultMatchingConfig().BudgetStretchFar))
}
