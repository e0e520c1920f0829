package service

import (
	"context"
	"strings"
	"time"

	"github.com/avbinvest/staffsync/internal/cache"
	"github.com/avbinvest/staffsync/internal/config"
	"github.com/avbinvest/staffsync/internal/observability/metrics"
	"github.com/avbinvest/staffsync/internal/organization/domain"
	"github.com/avbinvest/staffsync/pkg/db"
	"github.com/avbinvest/staffsync/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     domain.Repository
	Persons  domain.PersonClient
	Tunables *config.TunablesHolder
	Metrics  *metrics.Metrics `optional:"true"`
}

// Service owns the organization store and the organization side of the
// membership relation. The member list is only ever mutated through AddMember
// and RemoveMember; deleting an organization first clears the membership of
// every member on the person side so no person keeps a dangling reference.
type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	repo        domain.Repository
	persons     domain.PersonClient
	tunables    *config.TunablesHolder
	metrics     *metrics.Metrics
	personCache cache.Cache[snowflake.ID, domain.MemberView]
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("organization.service"),
		genID:       p.GenID,
		repo:        p.Repo,
		persons:     p.Persons,
		tunables:    p.Tunables,
		metrics:     p.Metrics,
		personCache: cache.NewTTLCache[snowflake.ID, domain.MemberView](),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}
	if req.Budget < 0 {
		return nil, domain.ErrInvalidBudget
	}
	if err := s.checkNameUnique(ctx, name, 0); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	org := domain.Organization{
		ID:        s.genID.Generate(),
		Name:      name,
		Budget:    req.Budget,
		MemberIDs: []snowflake.ID{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &org); err != nil {
		// The pre-check can race a concurrent insert; the unique index is
		// the backstop.
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrNameExists
		}
		return nil, err
	}

	s.log.Info("organization created", zap.String("organization_id", org.ID.String()))
	return buildResponse(&org, nil), nil
}

func (s *Service) Update(ctx context.Context, id string, req domain.UpdateRequest) (*domain.Response, error) {
	orgID, err := s.parseID(id)
	if err != nil {
		return nil, err
	}

	org, err := s.loadOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		if name != org.Name {
			if err := s.checkNameUnique(ctx, name, org.ID); err != nil {
				return nil, err
			}
			org.Name = name
		}
	}
	if req.Budget != nil {
		if *req.Budget < 0 {
			return nil, domain.ErrInvalidBudget
		}
		org.Budget = *req.Budget
	}

	org.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, s.db, org); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrNameExists
		}
		return nil, err
	}

	s.log.Info("organization updated", zap.String("organization_id", org.ID.String()))
	return buildResponse(org, nil), nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetRequest) (*domain.Response, error) {
	orgID, err := s.parseID(req.ID)
	if err != nil {
		return nil, err
	}

	org, err := s.loadOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}

	var members []domain.MemberView
	if req.IncludeMembers {
		members = s.resolveMembers(ctx, org)
	}
	return buildResponse(org, members), nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (pagination.Page[domain.Response], error) {
	page := req.Page.Normalize(s.tunables.Current().MaxPageSize)

	orgs, total, err := s.repo.List(ctx, s.db, page)
	if err != nil {
		return pagination.Page[domain.Response]{}, err
	}

	content := make([]domain.Response, 0, len(orgs))
	for _, org := range orgs {
		var members []domain.MemberView
		if req.IncludeMembers {
			members = s.resolveMembers(ctx, org)
		}
		content = append(content, *buildResponse(org, members))
	}
	return pagination.NewPage(content, total, page), nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	orgID, err := s.parseID(id)
	if err != nil {
		return err
	}

	org, err := s.loadOrganization(ctx, orgID)
	if err != nil {
		return err
	}

	// Cascade in member order before the row goes away. An unreachable
	// person service aborts the delete; the operation is safe to retry
	// because the person side treats an already-cleared membership as
	// success.
	for _, personID := range org.Members() {
		if err := s.persons.RemoveMembership(ctx, personID, org.ID); err != nil {
			s.log.Error("membership cascade aborted",
				zap.String("organization_id", org.ID.String()),
				zap.String("person_id", personID.String()),
				zap.Error(err),
			)
			return err
		}
		s.metrics.RecordMembershipTransition(ctx, "unassign")
	}

	if err := s.repo.Delete(ctx, s.db, org.ID); err != nil {
		return err
	}

	s.log.Info("organization deleted", zap.String("organization_id", org.ID.String()))
	return nil
}

func (s *Service) AddMember(ctx context.Context, id, personID string) error {
	orgID, err := s.parseID(id)
	if err != nil {
		return err
	}
	pID, err := s.parseID(personID)
	if err != nil {
		return err
	}

	org, err := s.loadOrganization(ctx, orgID)
	if err != nil {
		return err
	}

	// Adding an existing member is a no-op so the person side can retry
	// the add leg of a membership handshake.
	if !org.AddMember(pID) {
		return nil
	}

	org.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, s.db, org); err != nil {
		return err
	}
	s.metrics.RecordMembershipTransition(ctx, "assign")

	s.log.Info("member added",
		zap.String("organization_id", org.ID.String()),
		zap.String("person_id", pID.String()),
	)
	return nil
}

func (s *Service) RemoveMember(ctx context.Context, id, personID string) error {
	orgID, err := s.parseID(id)
	if err != nil {
		return err
	}
	pID, err := s.parseID(personID)
	if err != nil {
		return err
	}

	org, err := s.loadOrganization(ctx, orgID)
	if err != nil {
		return err
	}

	if !org.RemoveMember(pID) {
		return domain.ErrMemberNotFound
	}

	org.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(ctx, s.db, org); err != nil {
		return err
	}
	s.metrics.RecordMembershipTransition(ctx, "unassign")

	s.log.Info("member removed",
		zap.String("organization_id", org.ID.String()),
		zap.String("person_id", pID.String()),
	)
	return nil
}

func (s *Service) loadOrganization(ctx context.Context, id snowflake.ID) (*domain.Organization, error) {
	org, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	return org, nil
}

func (s *Service) checkNameUnique(ctx context.Context, name string, excludeID snowflake.ID) error {
	existing, err := s.repo.FindByName(ctx, s.db, name)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != excludeID {
		return domain.ErrNameExists
	}
	return nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
