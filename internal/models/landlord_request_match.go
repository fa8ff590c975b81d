package models

import (
	"time"

	"github.com/google/uuid"
)

type MatchStatusType string

const (
	MatchStatusActive   MatchStatusType = "ACTIVE"
	MatchStatusDeclined MatchStatusType = "DECLINED"
)

// LandlordRequestMatch links one organization, one rental request and
// the single anchor property that justified the match. Unique on
// (organization_id, rental_request_id, property_id); duplicate inserts
// are silently skipped.
type LandlordRequestMatch struct {
	ID              uuid.UUID       `json:"id"`
	OrganizationID  uuid.UUID       `json:"organization_id"`
	RentalRequestID uuid.UUID       `json:"rental_request_id"`
	PropertyID      uuid.UUID       `json:"property_id"`
	MatchScore      int             `json:"match_score"`
	MatchReason     string          `json:"match_reason"`
	Status          MatchStatusType `json:"status"`
	IsViewed        bool            `json:"is_viewed"`
	IsResponded     bool            `json:"is_responded"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
