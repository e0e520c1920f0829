package service

import (
	"context"

	"github.com/avbinvest/staffsync/internal/organization/domain"
	"github.com/avbinvest/staffsync/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
)

func buildResponse(org *domain.Organization, members []domain.MemberView) *domain.Response {
	return &domain.Response{
		ID:        org.ID,
		Name:      org.Name,
		Budget:    org.Budget,
		MemberIDs: org.Members(),
		Members:   members,
	}
}

// resolveMembers turns the ordered member ids into person views. Recently
// resolved persons come from the cache; the rest are fetched in one batch
// call. Resolution failures degrade to ids only; a read never fails because
// the person service is down.
func (s *Service) resolveMembers(ctx context.Context, org *domain.Organization) []domain.MemberView {
	ids := org.Members()
	if len(ids) == 0 {
		return nil
	}

	byID := make(map[snowflake.ID]domain.MemberView, len(ids))
	missing := make([]snowflake.ID, 0, len(ids))
	for _, id := range ids {
		if view, ok := s.personCache.Get(id); ok {
			byID[id] = view
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) > 0 {
		page, err := s.persons.GetByIDs(ctx, missing, pagination.Request{Page: 0, Size: len(missing)})
		if err != nil {
			s.log.Warn("member resolution failed, returning ids only",
				zap.String("organization_id", org.ID.String()),
				zap.Error(err),
			)
			return nil
		}
		ttl := s.tunables.Current().ResolverCacheTTL
		for _, p := range page.Content {
			view := domain.MemberView{
				ID:          p.ID,
				FirstName:   p.FirstName,
				LastName:    p.LastName,
				PhoneNumber: p.PhoneNumber,
			}
			byID[p.ID] = view
			s.personCache.Set(p.ID, view, ttl)
		}
	}

	// Preserve the stored member order; ids the person service no longer
	// knows are skipped rather than rendered empty.
	out := make([]domain.MemberView, 0, len(ids))
	for _, id := range ids {
		view, ok := byID[id]
		if !ok {
			continue
		}
		out = append(out, view)
	}
	return out
}
