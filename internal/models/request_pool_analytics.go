package models

import (
	"time"

	"github.com/google/uuid"
)

// RequestPoolAnalytics is a per-(location, UTC day) rollup of pool
// counts, upserted by the analytics service.
type RequestPoolAnalytics struct {
	ID              uuid.UUID `json:"id"`
	Location        string    `json:"location"`
	Date            time.Time `json:"date"` // midnight UTC day bucket
	TotalRequests   int       `json:"total_requests"`
	ActiveRequests  int       `json:"active_requests"`
	MatchedRequests int       `json:"matched_requests"`
	ExpiredRequests int       `json:"expired_requests"`
	UpdatedAt       time.Time `json:"updated_at"`
}
