package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization represents a tenant (a school or property-management company).
// All requests and all non-super-admin users belong to exactly one organization.
type Organization struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Domain    string    `json:"domain,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
