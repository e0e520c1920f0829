package service

import (
	"context"

	"github.com/avbinvest/staffsync/internal/person/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
)

func buildResponse(p *domain.Person, org *domain.OrganizationView) *domain.Response {
	return &domain.Response{
		ID:           p.ID,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		PhoneNumber:  p.PhoneNumber,
		Organization: org,
	}
}

func orgViewFromRemote(org *domain.RemoteOrganization) *domain.OrganizationView {
	if org == nil {
		return nil
	}
	return &domain.OrganizationView{
		ID:     org.ID,
		Name:   org.Name,
		Budget: org.Budget,
	}
}

// resolveOrganization fetches the organization view for read paths. Lookups
// go through a short-lived cache so listing a page of persons from the same
// organization costs one remote call. A failed lookup degrades to a partial
// view rather than failing the read.
func (s *Service) resolveOrganization(ctx context.Context, id snowflake.ID) *domain.OrganizationView {
	if view, ok := s.orgCache.Get(id); ok {
		return &view
	}

	org, err := s.orgs.GetByID(ctx, id)
	if err != nil {
		s.log.Warn("organization lookup failed, returning partial view",
			zap.String("organization_id", id.String()),
			zap.Error(err),
		)
		return nil
	}

	view := orgViewFromRemote(org)
	s.orgCache.Set(id, *view, s.tunables.Current().ResolverCacheTTL)
	return view
}

func (s *Service) assemble(ctx context.Context, persons []*domain.Person) []domain.Response {
	out := make([]domain.Response, 0, len(persons))
	for _, p := range persons {
		var org *domain.OrganizationView
		if p.Assigned() {
			org = s.resolveOrganization(ctx, *p.OrganizationID)
		}
		out = append(out, *buildResponse(p, org))
	}
	return out
}
