package domain

import (
	"context"
	"errors"

	"github.com/avbinvest/staffsync/pkg/db/pagination"
)

type CreateRequest struct {
	Name   string
	Budget float64
}

// UpdateRequest patches name and budget. The member list is not patchable;
// membership changes only happen through AddMember and RemoveMember so the
// ordered set stays consistent with the person side.
type UpdateRequest struct {
	Name   *string
	Budget *float64
}

type GetRequest struct {
	ID             string
	IncludeMembers bool
}

type ListRequest struct {
	Page           pagination.Request
	IncludeMembers bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Response, error)
	GetByID(ctx context.Context, req GetRequest) (*Response, error)
	List(ctx context.Context, req ListRequest) (pagination.Page[Response], error)
	Delete(ctx context.Context, id string) error
	AddMember(ctx context.Context, id, personID string) error
	RemoveMember(ctx context.Context, id, personID string) error
}

var (
	ErrInvalidID     = errors.New("invalid_id")
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidBudget = errors.New("invalid_budget")

	ErrNotFound   = errors.New("organization_not_found")
	ErrNameExists = errors.New("organization_name_exists")

	// ErrMemberNotFound is reported when removing a person that is not in
	// the member list; the remove side of the membership contract is not
	// idempotent on the wire so drift is observable.
	ErrMemberNotFound = errors.New("member_not_found")

	// ErrPersonServiceUnavailable is the transport-level failure talking to
	// the person service.
	ErrPersonServiceUnavailable = errors.New("person_service_unavailable")
)
