package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

type Organization struct {
	ID        snowflake.ID                     `gorm:"primaryKey" json:"id"`
	Name      string                           `gorm:"not null;uniqueIndex" json:"name"`
	Budget    float64                          `gorm:"not null;default:0" json:"budget"`
	MemberIDs datatypes.JSONSlice[snowflake.ID] `gorm:"not null" json:"-"`
	CreatedAt time.Time                        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time                        `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// The member list is an ordered set owned by the organization row. All
// access goes through the methods below; Members hands out a copy so no
// caller can mutate the stored order out from under the entity.

// HasMember reports whether personID is in the member list.
func (o *Organization) HasMember(personID snowflake.ID) bool {
	for _, id := range o.MemberIDs {
		if id == personID {
			return true
		}
	}
	return false
}

// AddMember appends personID, preserving insertion order. It returns false
// when the id is already present.
func (o *Organization) AddMember(personID snowflake.ID) bool {
	if o.HasMember(personID) {
		return false
	}
	o.MemberIDs = append(o.MemberIDs, personID)
	return true
}

// RemoveMember deletes personID from the member list, keeping the order of
// the remaining ids. It returns false when the id is not present.
func (o *Organization) RemoveMember(personID snowflake.ID) bool {
	for i, id := range o.MemberIDs {
		if id == personID {
			o.MemberIDs = append(o.MemberIDs[:i], o.MemberIDs[i+1:]...)
			return true
		}
	}
	return false
}

// Members returns a copy of the ordered member ids.
func (o *Organization) Members() []snowflake.ID {
	out := make([]snowflake.ID, len(o.MemberIDs))
	copy(out, o.MemberIDs)
	return out
}

// MemberView is the resolved remote person embedded in responses.
type MemberView struct {
	ID          snowflake.ID `json:"id"`
	FirstName   string       `json:"first_name"`
	LastName    string       `json:"last_name"`
	PhoneNumber string       `json:"phone_number"`
}

// Response is the outward-facing organization view. MemberIDs always carries
// the ordered ids; Members carries the resolved person views when member
// resolution was requested and the person service answered.
type Response struct {
	ID        snowflake.ID   `json:"id"`
	Name      string         `json:"name"`
	Budget    float64        `json:"budget"`
	MemberIDs []snowflake.ID `json:"member_ids"`
	Members   []MemberView   `json:"members,omitempty"`
}
