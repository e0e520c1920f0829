package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Person struct {
	ID             snowflake.ID  `gorm:"primaryKey" json:"id"`
	FirstName      string        `gorm:"not null" json:"first_name"`
	LastName       string        `gorm:"not null" json:"last_name"`
	PhoneNumber    string        `gorm:"not null;uniqueIndex" json:"phone_number"`
	OrganizationID *snowflake.ID `gorm:"index" json:"organization_id,omitempty"`
	CreatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// AssignedTo reports whether the person currently belongs to orgID.
func (p *Person) AssignedTo(orgID snowflake.ID) bool {
	return p.OrganizationID != nil && *p.OrganizationID == orgID
}

// Assigned reports whether the person belongs to any organization.
func (p *Person) Assigned() bool {
	return p.OrganizationID != nil && *p.OrganizationID != 0
}

// OrganizationView is the resolved remote organization embedded in responses.
// It is nil when the person is unassigned or the organization could not be
// resolved; readers must tolerate its absence.
type OrganizationView struct {
	ID     snowflake.ID `json:"id"`
	Name   string       `json:"name"`
	Budget float64      `json:"budget"`
}

// Response is the outward-facing person view.
type Response struct {
	ID           snowflake.ID      `json:"id"`
	FirstName    string            `json:"first_name"`
	LastName     string            `json:"last_name"`
	PhoneNumber  string            `json:"phone_number"`
	Organization *OrganizationView `json:"organization,omitempty"`
}
