package dtos

import (
	"github.com/google/uuid"

	"github.com/basharjehadi/smart-rental-platform-clean-sub002/internal/models"
)

type HealthCheckResponse struct {
	Status string `json:"status"`
}

// SubmitRequestResponse reports the admitted request and how many
// matches the synchronous run produced.
type SubmitRequestResponse struct {
	Request        *models.RentalRequest `json:"request"`
	MatchesCreated int64                 `json:"matches_created"`
}

// MatchActionInput identifies one (organization, request) match for a
// landlord-side action.
type MatchActionInput struct {
	OrganizationID  string `json:"organization_id" validate:"required,uuid4"`
	RentalRequestID string `json:"rental_request_id" validate:"required,uuid4"`
}

// Parse validates the payload and returns the two typed IDs.
func (in *MatchActionInput) Parse() (orgID, requestID uuid.UUID, err error) {
	if err = validate.Struct(in); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	if orgID, err = uuid.Parse(in.OrganizationID); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	if requestID, err = uuid.Parse(in.RentalRequestID); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return orgID, requestID, nil
}

// ReverseMatchResponse reports a property-side matching run.
type ReverseMatchResponse struct {
	PropertyID     uuid.UUID `json:"property_id"`
	MatchesCreated int64     `json:"matches_created"`
}
