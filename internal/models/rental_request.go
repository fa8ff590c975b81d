package models

import (
	"time"

	"github.com/google/uuid"
)

type PoolStatusType string

const (
	PoolStatusActive    PoolStatusType = "ACTIVE"
	PoolStatusMatched   PoolStatusType = "MATCHED"
	PoolStatusExpired   PoolStatusType = "EXPIRED"
	PoolStatusCancelled PoolStatusType = "CANCELLED"
)

// RentalRequest is a tenant-submitted need. Budget and bedroom fields
// are already normalized at the DTO boundary; nil means "not given".
type RentalRequest struct {
	ID         uuid.UUID `json:"id"`
	TenantID   uuid.UUID `json:"tenant_id"`
	TenantName string    `json:"tenant_name"`
	Title      string    `json:"title"`

	Location     string     `json:"location"`
	Budget       *float64   `json:"budget,omitempty"`
	BudgetFrom   *float64   `json:"budget_from,omitempty"`
	BudgetTo     *float64   `json:"budget_to,omitempty"`
	MoveInDate   *time.Time `json:"move_in_date,omitempty"`
	PropertyType string     `json:"property_type"`
	Bedrooms     *int       `json:"bedrooms,omitempty"`

	Furnished   *bool `json:"furnished,omitempty"`
	Parking     *bool `json:"parking,omitempty"`
	PetsAllowed *bool `json:"pets_allowed,omitempty"`

	PoolStatus    PoolStatusType `json:"pool_status"`
	ExpiresAt     *time.Time     `json:"expires_at,omitempty"`
	ViewCount     int            `json:"view_count"`
	ResponseCount int            `json:"response_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasBudget reports whether the tenant gave any budget bound at all.
// Requests without one are scored against a lowered match threshold.
func (r *RentalRequest) HasBudget() bool {
	return r.Budget != nil || r.BudgetFrom != nil || r.BudgetTo != nil
}

// MaxBudget returns the effective upper budget bound: budget_to when
// present, otherwise the single budget value.
func (r *RentalRequest) MaxBudget() *float64 {
	if r.BudgetTo != nil {
		return r.BudgetTo
	}
	return r.Budget
}

// MinBudget returns the lower bound, if the tenant gave one.
func (r *RentalRequest) MinBudget() *float64 {
	return r.BudgetFrom
}
