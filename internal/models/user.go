package models

import (
	"time"

	"github.com/google/uuid"
)

type TrustLevelType string

const (
	TrustLevelNew       TrustLevelType = "New"
	TrustLevelReliable  TrustLevelType = "Reliable"
	TrustLevelTrusted   TrustLevelType = "Trusted"
	TrustLevelExcellent TrustLevelType = "Excellent"
)

// User is an organization member. Only the fields feeding the
// reputation sub-score live here.
type User struct {
	ID            uuid.UUID  `json:"id"`
	Email         string     `json:"email"`
	PhoneNumber   string     `json:"phone_number,omitempty"`
	Name          string     `json:"name"`
	AverageRating float64    `json:"average_rating"`
	TotalReviews  int        `json:"total_reviews"`
	LastActiveAt  *time.Time `json:"last_active_at,omitempty"`
	IsSuspended   bool       `json:"is_suspended"`
}
