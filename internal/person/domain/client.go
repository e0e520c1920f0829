package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// RemoteOrganization is the organization service's view of an organization,
// as resolved over the wire.
type RemoteOrganization struct {
	ID     snowflake.ID `json:"id"`
	Name   string       `json:"name"`
	Budget float64      `json:"budget"`
}

// OrganizationClient is the remote store contract against the organization
// service. Implementations must return ErrOrganizationNotFound for a missing
// organization, ErrMembershipNotFound for a missing membership on remove,
// and ErrOrganizationUnavailable for any transport or server failure, so the
// coordinator can always tell "absent" from "unreachable".
type OrganizationClient interface {
	GetByID(ctx context.Context, id snowflake.ID) (*RemoteOrganization, error)
	AddMember(ctx context.Context, organizationID, personID snowflake.ID) error
	RemoveMember(ctx context.Context, organizationID, personID snowflake.ID) error
}
