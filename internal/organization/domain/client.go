package domain

import (
	"context"

	"github.com/avbinvest/staffsync/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
)

// RemotePerson is the person service's view of a person, as resolved over
// the wire.
type RemotePerson struct {
	ID          snowflake.ID `json:"id"`
	FirstName   string       `json:"first_name"`
	LastName    string       `json:"last_name"`
	PhoneNumber string       `json:"phone_number"`
}

// PersonClient is the remote store contract against the person service.
// Implementations return ErrPersonServiceUnavailable for transport or server
// failures; a batch resolution that finds none of the requested ids is an
// empty page, not an error.
type PersonClient interface {
	GetByIDs(ctx context.Context, ids []snowflake.ID, page pagination.Request) (pagination.Page[RemotePerson], error)
	// RemoveMembership tells the person service to clear the organization
	// reference of personID. A person that is already unassigned or deleted
	// is not an error; cascade cleanup must converge when retried.
	RemoveMembership(ctx context.Context, personID, organizationID snowflake.ID) error
}
