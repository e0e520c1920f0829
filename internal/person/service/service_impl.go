package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/avbinvest/staffsync/internal/cache"
	"github.com/avbinvest/staffsync/internal/config"
	"github.com/avbinvest/staffsync/internal/observability/metrics"
	"github.com/avbinvest/staffsync/internal/person/domain"
	"github.com/avbinvest/staffsync/pkg/db"
	"github.com/avbinvest/staffsync/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// phonePattern accepts E.164-style international numbers.
var phonePattern = regexp.MustCompile(`^\+[1-9][0-9]{6,14}$`)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	Orgs     domain.OrganizationClient
	Tunables *config.TunablesHolder
	Metrics  *metrics.Metrics `optional:"true"`
}

// Service coordinates person writes with the organization service so the
// membership relation stays consistent on both sides. Local validation always
// runs before the first remote call; a remote failure after the local write
// has committed is surfaced to the caller, never swallowed.
type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     domain.Repository
	orgs     domain.OrganizationClient
	tunables *config.TunablesHolder
	metrics  *metrics.Metrics
	orgCache cache.Cache[snowflake.ID, domain.OrganizationView]
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("person.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		orgs:     p.Orgs,
		tunables: p.Tunables,
		metrics:  p.Metrics,
		orgCache: cache.NewTTLCache[snowflake.ID, domain.OrganizationView](),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	firstName := strings.TrimSpace(req.FirstName)
	if firstName == "" {
		return nil, domain.ErrInvalidFirstName
	}
	lastName := strings.TrimSpace(req.LastName)
	if lastName == "" {
		return nil, domain.ErrInvalidLastName
	}
	phoneNumber := strings.TrimSpace(req.PhoneNumber)
	if !phonePattern.MatchString(phoneNumber) {
		return nil, domain.ErrInvalidPhoneNumber
	}

	if err := s.checkPhoneNumberUnique(ctx, phoneNumber, 0); err != nil {
		return nil, err
	}

	// Resolve the organization before persisting so a bad reference never
	// creates an orphaned person row.
	var orgID *snowflake.ID
	var org *domain.RemoteOrganization
	if strings.TrimSpace(req.OrganizationID) != "" {
		id, err := s.parseID(req.OrganizationID)
		if err != nil {
			return nil, err
		}
		org, err = s.orgs.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		orgID = &id
	}

	now := time.Now().UTC()
	person := domain.Person{
		ID:             s.genID.Generate(),
		FirstName:      firstName,
		LastName:       lastName,
		PhoneNumber:    phoneNumber,
		OrganizationID: orgID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repo.Insert(ctx, s.db, &person); err != nil {
		// The pre-check can race a concurrent insert; the unique index is
		// the backstop.
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrPhoneNumberExists
		}
		return nil, err
	}

	if orgID != nil {
		// The person row is already committed. A failure here leaves the
		// organization side behind and is reported to the caller so an
		// external retry can repair the drift.
		if err := s.orgs.AddMember(ctx, *orgID, person.ID); err != nil {
			s.log.Error("membership add failed after person create",
				zap.String("person_id", person.ID.String()),
				zap.String("organization_id", orgID.String()),
				zap.Error(err),
			)
			return nil, err
		}
		s.metrics.RecordMembershipTransition(ctx, "assign")
	}

	s.log.Info("person created", zap.String("person_id", person.ID.String()))
	return buildResponse(&person, orgViewFromRemote(org)), nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Response, error) {
	personID, err := s.parseID(id)
	if err != nil {
		return nil, err
	}

	person, err := s.loadPerson(ctx, personID)
	if err != nil {
		return nil, err
	}

	if firstName := strings.TrimSpace(req.FirstName); firstName != "" {
		person.FirstName = firstName
	}
	if lastName := strings.TrimSpace(req.LastName); lastName != "" {
		person.LastName = lastName
	}
	if phoneNumber := strings.TrimSpace(req.PhoneNumber); phoneNumber != "" && phoneNumber != person.PhoneNumber {
		if !phonePattern.MatchString(phoneNumber) {
			return nil, domain.ErrInvalidPhoneNumber
		}
		if err := s.checkPhoneNumberUnique(ctx, phoneNumber, person.ID); err != nil {
			return nil, err
		}
		person.PhoneNumber = phoneNumber
	}

	var orgView *domain.OrganizationView
	if strings.TrimSpace(req.OrganizationID) != "" {
		newOrgID, err := s.parseID(req.OrganizationID)
		if err != nil {
			return nil, err
		}

		if person.AssignedTo(newOrgID) {
			orgView = s.resolveOrganization(ctx, newOrgID)
		} else {
			org, err := s.orgs.GetByID(ctx, newOrgID)
			if err != nil {
				return nil, err
			}

			// Reassignment is remove-then-add: the person can be observed
			// briefly unassigned on the remote side, never in two
			// organizations at once.
			if person.Assigned() {
				if err := s.removeRemoteMember(ctx, *person.OrganizationID, person.ID); err != nil {
					return nil, err
				}
			}
			if err := s.orgs.AddMember(ctx, newOrgID, person.ID); err != nil {
				return nil, err
			}
			person.OrganizationID = &newOrgID
			s.metrics.RecordMembershipTransition(ctx, "reassign")
			orgView = orgViewFromRemote(org)
		}
	} else if person.Assigned() {
		orgView = s.resolveOrganization(ctx, *person.OrganizationID)
	}

	person.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, s.db, person); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrPhoneNumberExists
		}
		return nil, err
	}

	s.log.Info("person updated", zap.String("person_id", person.ID.String()))
	return buildResponse(person, orgView), nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Response, error) {
	personID, err := s.parseID(id)
	if err != nil {
		return nil, err
	}

	person, err := s.loadPerson(ctx, personID)
	if err != nil {
		return nil, err
	}

	var orgView *domain.OrganizationView
	if person.Assigned() {
		orgView = s.resolveOrganization(ctx, *person.OrganizationID)
	}
	return buildResponse(person, orgView), nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (pagination.Page[domain.Response], error) {
	page := req.Page.Normalize(s.tunables.Current().MaxPageSize)

	persons, total, err := s.repo.List(ctx, s.db, page)
	if err != nil {
		return pagination.Page[domain.Response]{}, err
	}
	return pagination.NewPage(s.assemble(ctx, persons), total, page), nil
}

func (s *Service) ListByIDs(ctx context.Context, req domain.ListByIDsRequest) (pagination.Page[domain.Response], error) {
	page := req.Page.Normalize(s.tunables.Current().MaxPageSize)

	ids := make([]snowflake.ID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := s.parseID(raw)
		if err != nil {
			return pagination.Page[domain.Response]{}, err
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return pagination.NewPage[domain.Response](nil, 0, page), nil
	}

	persons, total, err := s.repo.ListByIDs(ctx, s.db, ids, page)
	if err != nil {
		return pagination.Page[domain.Response]{}, err
	}
	return pagination.NewPage(s.assemble(ctx, persons), total, page), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	personID, err := s.parseID(id)
	if err != nil {
		return err
	}

	person, err := s.loadPerson(ctx, personID)
	if err != nil {
		return err
	}

	// Remote cleanup first: if it fails the person row survives, so there
	// is never a deleted person still listed as a member.
	if person.Assigned() {
		if err := s.removeRemoteMember(ctx, *person.OrganizationID, person.ID); err != nil {
			return err
		}
		s.metrics.RecordMembershipTransition(ctx, "unassign")
	}

	if err := s.repo.Delete(ctx, s.db, person.ID); err != nil {
		return err
	}

	s.log.Info("person deleted", zap.String("person_id", person.ID.String()))
	return nil
}

func (s *Service) AddMembership(ctx context.Context, id, organizationID string) (*domain.Response, error) {
	personID, err := s.parseID(id)
	if err != nil {
		return nil, err
	}
	orgID, err := s.parseID(organizationID)
	if err != nil {
		return nil, err
	}

	person, err := s.loadPerson(ctx, personID)
	if err != nil {
		return nil, err
	}

	// Membership state is checked before any remote call goes out.
	if person.Assigned() && !person.AssignedTo(orgID) {
		return nil, domain.ErrAlreadyAssigned
	}

	org, err := s.orgs.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}

	if person.AssignedTo(orgID) {
		// Already a member; safe to repeat.
		return buildResponse(person, orgViewFromRemote(org)), nil
	}

	if err := s.orgs.AddMember(ctx, orgID, person.ID); err != nil {
		return nil, err
	}

	person.OrganizationID = &orgID
	person.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, s.db, person); err != nil {
		return nil, err
	}
	s.metrics.RecordMembershipTransition(ctx, "assign")

	s.log.Info("membership added",
		zap.String("person_id", person.ID.String()),
		zap.String("organization_id", orgID.String()),
	)
	return buildResponse(person, orgViewFromRemote(org)), nil
}

func (s *Service) RemoveMembership(ctx context.Context, id, organizationID string) error {
	personID, err := s.parseID(id)
	if err != nil {
		return err
	}
	orgID, err := s.parseID(organizationID)
	if err != nil {
		return err
	}

	person, err := s.loadPerson(ctx, personID)
	if err != nil {
		return err
	}
	if !person.AssignedTo(orgID) {
		return domain.ErrNotMember
	}

	if _, err := s.orgs.GetByID(ctx, orgID); err != nil {
		return err
	}
	if err := s.removeRemoteMember(ctx, orgID, person.ID); err != nil {
		return err
	}

	person.OrganizationID = nil
	person.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, s.db, person); err != nil {
		return err
	}
	s.metrics.RecordMembershipTransition(ctx, "unassign")

	s.log.Info("membership removed",
		zap.String("person_id", person.ID.String()),
		zap.String("organization_id", orgID.String()),
	)
	return nil
}

func (s *Service) loadPerson(ctx context.Context, id snowflake.ID) (*domain.Person, error) {
	person, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if person == nil {
		return nil, domain.ErrNotFound
	}
	return person, nil
}

// checkPhoneNumberUnique is the local uniqueness validator. excludeID is the
// person being updated, zero on create.
func (s *Service) checkPhoneNumberUnique(ctx context.Context, phoneNumber string, excludeID snowflake.ID) error {
	existing, err := s.repo.FindByPhoneNumber(ctx, s.db, phoneNumber)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != excludeID {
		return domain.ErrPhoneNumberExists
	}
	return nil
}

// removeRemoteMember drops the person from the remote member list. A
// membership the remote side no longer holds counts as removed so retried
// operations converge instead of wedging on drift.
func (s *Service) removeRemoteMember(ctx context.Context, orgID, personID snowflake.ID) error {
	err := s.orgs.RemoveMember(ctx, orgID, personID)
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrMembershipNotFound) || errors.Is(err, domain.ErrOrganizationNotFound) {
		s.log.Warn("remote membership already gone",
			zap.String("person_id", personID.String()),
			zap.String("organization_id", orgID.String()),
			zap.Error(err),
		)
		return nil
	}
	return err
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
