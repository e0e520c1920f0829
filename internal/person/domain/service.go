package domain

import (
	"context"
	"errors"

	"github.com/avbinvest/staffsync/pkg/db/pagination"
)

type CreateRequest struct {
	FirstName      string
	LastName       string
	PhoneNumber    string
	OrganizationID string
}

// UpdateRequest carries a partial update. Empty fields are left untouched.
// A non-empty OrganizationID that differs from the current assignment
// triggers the remote reassignment choreography; clearing an assignment goes
// through RemoveMembership instead.
type UpdateRequest struct {
	FirstName      string
	LastName       string
	PhoneNumber    string
	OrganizationID string
}

type ListRequest struct {
	Page pagination.Request
}

type ListByIDsRequest struct {
	IDs  []string
	Page pagination.Request
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Response, error)
	GetByID(ctx context.Context, id string) (*Response, error)
	List(ctx context.Context, req ListRequest) (pagination.Page[Response], error)
	ListByIDs(ctx context.Context, req ListByIDsRequest) (pagination.Page[Response], error)
	Delete(ctx context.Context, id string) error
	AddMembership(ctx context.Context, id, organizationID string) (*Response, error)
	RemoveMembership(ctx context.Context, id, organizationID string) error
}

var (
	ErrInvalidID          = errors.New("invalid_id")
	ErrInvalidFirstName   = errors.New("invalid_first_name")
	ErrInvalidLastName    = errors.New("invalid_last_name")
	ErrInvalidPhoneNumber = errors.New("invalid_phone_number")

	ErrNotFound          = errors.New("person_not_found")
	ErrPhoneNumberExists = errors.New("phone_number_exists")

	// ErrAlreadyAssigned rejects a membership add while the person belongs
	// to a different organization.
	ErrAlreadyAssigned = errors.New("person_already_assigned")
	// ErrNotMember rejects a membership removal naming an organization the
	// person does not belong to.
	ErrNotMember = errors.New("person_not_in_organization")

	ErrOrganizationNotFound = errors.New("organization_not_found")
	// ErrMembershipNotFound is returned by the remote store when asked to
	// remove a membership it does not hold. Coordinators treat it as
	// already-removed so retried operations converge.
	ErrMembershipNotFound = errors.New("membership_not_found")
	// ErrOrganizationUnavailable is the transport-level failure talking to
	// the organization service. It is never folded into ErrOrganizationNotFound.
	ErrOrganizationUnavailable = errors.New("organization_service_unavailable")
)
