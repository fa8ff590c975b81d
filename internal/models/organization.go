package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization is the landlord-side matching unit. It may represent a
// single person (IsPersonal) or a team; matching always targets an
// organization, never an individual landlord.
type Organization struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	IsPersonal bool      `json:"is_personal"`
	Members    []*User   `json:"members,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
