package dtos

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/models"
	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/utils"
)

var validate = validator.New()

// RentalRequestInput is the raw tenant submission: budgets may be
// locale-formatted text, the location is free text, bedrooms may be
// "2" or "2.0". This is the single boundary where loose input becomes
// the typed models.RentalRequest; everything downstream works on the
// normalized struct only.
type RentalRequestInput struct {
	TenantID     string `json:"tenant_id" validate:"required,uuid4"`
	TenantName   string `json:"tenant_name" validate:"required"`
	Title        string `json:"title"`
	Location     string `json:"location" validate:"required"`
	Budget       string `json:"budget"`
	BudgetFrom   string `json:"budget_from"`
	BudgetTo     string `json:"budget_to"`
	MoveInDate   string `json:"move_in_date"` // YYYY-MM-DD, optional
	PropertyType string `json:"property_type"`
	Bedrooms     string `json:"bedrooms"`
	Furnished    *bool  `json:"furnished,omitempty"`
	Parking      *bool  `json:"parking,omitempty"`
	PetsAllowed  *bool  `json:"pets_allowed,omitempty"`
}

// Normalize validates the raw input and produces the typed request.
// Unparseable optional fields degrade to nil rather than erroring;
// only structurally invalid input (missing tenant, bad UUID, empty
// location) is rejected.
func (in *RentalRequestInput) Normalize() (*models.RentalRequest, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}

	tenantID, err := uuid.Parse(in.TenantID)
	if err != nil {
		return nil, err
	}

	req := &models.RentalRequest{
		ID:           uuid.New(),
		TenantID:     tenantID,
		TenantName:   in.TenantName,
		Title:        in.Title,
		Location:     in.Location,
		Budget:       utils.ParseMoney(in.Budget),
		BudgetFrom:   utils.ParseMoney(in.BudgetFrom),
		BudgetTo:     utils.ParseMoney(in.BudgetTo),
		PropertyType: in.PropertyType,
		Bedrooms:     utils.AsInt(in.Bedrooms),
		Furnished:    in.Furnished,
		Parking:      in.Parking,
		PetsAllowed:  in.PetsAllowed,
	}

	if in.MoveInDate != "" {
		if d, err := time.Parse("2006-01-02", in.MoveInDate); err == nil {
			req.MoveInDate = &d
		}
	}
	return req, nil
}

// PoolStatsDTO is the GetPoolStats response shape.
type PoolStatsDTO struct {
	ActiveRequests         int       `json:"active_requests"`
	AvailableOrganizations int       `json:"available_organizations"`
	RecentMatches          int       `json:"recent_matches"`
	Timestamp              time.Time `json:"timestamp"`
}
