package models

import (
	"time"

	"github.com/google/uuid"
)

type PropertyStatusType string

const (
	PropertyStatusAvailable   PropertyStatusType = "AVAILABLE"
	PropertyStatusRented      PropertyStatusType = "RENTED"
	PropertyStatusMaintenance PropertyStatusType = "MAINTENANCE"
)

type Property struct {
	ID             uuid.UUID          `json:"id"`
	OrganizationID uuid.UUID          `json:"organization_id"`
	Name           string             `json:"name"`
	Address        string             `json:"address"`
	City           string             `json:"city"`
	MonthlyRent    float64            `json:"monthly_rent"`
	PropertyType   string             `json:"property_type"`
	Bedrooms       *int               `json:"bedrooms,omitempty"`
	Furnished      bool               `json:"furnished"`
	Parking        bool               `json:"parking"`
	PetsAllowed    bool               `json:"pets_allowed"`
	Status         PropertyStatusType `json:"status"`
	Availability   bool               `json:"availability"`
	AvailableFrom  *time.Time         `json:"available_from,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}

// Matchable reports whether the property can anchor a match.
func (p *Property) Matchable() bool {
	return p.Status == PropertyStatusAvailable && p.Availability
}
