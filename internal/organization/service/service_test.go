package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/avbinvest/staffsync/internal/cache"
	"github.com/avbinvest/staffsync/internal/organization/domain"
	"github.com/avbinvest/staffsync/internal/organization/repository"
	"github.com/avbinvest/staffsync/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type stubPersonClient struct {
	persons    map[snowflake.ID]domain.RemotePerson
	batchErr   error
	removeErr  error
	removed    []string
	batchCalls int
}

func (s *stubPersonClient) GetByIDs(ctx context.Context, ids []snowflake.ID, page pagination.Request) (pagination.Page[domain.RemotePerson], error) {
	s.batchCalls++
	if s.batchErr != nil {
		return pagination.Page[domain.RemotePerson]{}, s.batchErr
	}
	content := make([]domain.RemotePerson, 0, len(ids))
	for _, id := range ids {
		if p, ok := s.persons[id]; ok {
			content = append(content, p)
		}
	}
	return pagination.NewPage(content, int64(len(content)), page), nil
}

func (s *stubPersonClient) RemoveMembership(ctx context.Context, personID, organizationID snowflake.ID) error {
	s.removed = append(s.removed, fmt.Sprintf("%s:%s", organizationID, personID))
	return s.removeErr
}

func newTestService(t *testing.T) (*Service, *stubPersonClient, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&domain.Organization{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(2)
	if err != nil {
		t.Fatalf("snowflake: %v", err)
	}

	client := &stubPersonClient{persons: map[snowflake.ID]domain.RemotePerson{}}
	svc := &Service{
		db:          db,
		log:         zap.NewNop(),
		genID:       node,
		repo:        repository.Provide(),
		persons:     client,
		personCache: cache.NewTTLCache[snowflake.ID, domain.MemberView](),
	}
	return svc, client, db
}

func mustCreate(t *testing.T, svc *Service, name string) *domain.Response {
	t.Helper()
	resp, err := svc.Create(context.Background(), domain.CreateRequest{Name: name, Budget: 500})
	if err != nil {
		t.Fatalf("create %s: %v", name, err)
	}
	return resp
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	svc, _, _ := newTestService(t)
	mustCreate(t, svc, "acme")

	_, err := svc.Create(context.Background(), domain.CreateRequest{Name: "acme", Budget: 0})
	if !errors.Is(err, domain.ErrNameExists) {
		t.Fatalf("expected ErrNameExists, got %v", err)
	}
}

func TestCreateRejectsNegativeBudget(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Create(context.Background(), domain.CreateRequest{Name: "acme", Budget: -1})
	if !errors.Is(err, domain.ErrInvalidBudget) {
		t.Fatalf("expected ErrInvalidBudget, got %v", err)
	}
}

func TestUpdateKeepsOwnNameWithoutConflict(t *testing.T) {
	svc, _, _ := newTestService(t)
	org := mustCreate(t, svc, "acme")

	name := "acme"
	budget := 900.0
	updated, err := svc.Update(context.Background(), org.ID.String(), domain.UpdateRequest{
		Name:   &name,
		Budget: &budget,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Budget != 900 {
		t.Fatalf("budget not updated: %v", updated.Budget)
	}
}

func TestAddMemberPreservesOrderAndIsIdempotent(t *testing.T) {
	svc, _, _ := newTestService(t)
	org := mustCreate(t, svc, "acme")

	first, second := snowflake.ID(101), snowflake.ID(102)
	for _, id := range []snowflake.ID{first, second, first} {
		if err := svc.AddMember(context.Background(), org.ID.String(), id.String()); err != nil {
			t.Fatalf("add %s: %v", id, err)
		}
	}

	got, err := svc.GetByID(context.Background(), domain.GetRequest{ID: org.ID.String()})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.MemberIDs) != 2 || got.MemberIDs[0] != first || got.MemberIDs[1] != second {
		t.Fatalf("unexpected member order %v", got.MemberIDs)
	}
}

func TestRemoveMemberAbsentFails(t *testing.T) {
	svc, _, _ := newTestService(t)
	org := mustCreate(t, svc, "acme")

	err := svc.RemoveMember(context.Background(), org.ID.String(), snowflake.ID(101).String())
	if !errors.Is(err, domain.ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestRemoveMemberKeepsRemainingOrder(t *testing.T) {
	svc, _, _ := newTestService(t)
	org := mustCreate(t, svc, "acme")

	ids := []snowflake.ID{101, 102, 103}
	for _, id := range ids {
		if err := svc.AddMember(context.Background(), org.ID.String(), id.String()); err != nil {
			t.Fatalf("add %s: %v", id, err)
		}
	}
	if err := svc.RemoveMember(context.Background(), org.ID.String(), snowflake.ID(102).String()); err != nil {
		t.Fatalf("remove: %v", err)
	}

	got, err := svc.GetByID(context.Background(), domain.GetRequest{ID: org.ID.String()})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.MemberIDs) != 2 || got.MemberIDs[0] != 101 || got.MemberIDs[1] != 103 {
		t.Fatalf("unexpected member order %v", got.MemberIDs)
	}
}

func TestDeleteCascadesMembershipInOrder(t *testing.T) {
	svc, client, db := newTestService(t)
	org := mustCreate(t, svc, "acme")

	ids := []snowflake.ID{101, 102, 103}
	for _, id := range ids {
		if err := svc.AddMember(context.Background(), org.ID.String(), id.String()); err != nil {
			t.Fatalf("add %s: %v", id, err)
		}
	}

	if err := svc.Delete(context.Background(), org.ID.String()); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if len(client.removed) != len(ids) {
		t.Fatalf("expected %d cascade removals, got %v", len(ids), client.removed)
	}
	for i, id := range ids {
		want := fmt.Sprintf("%s:%s", org.ID, id)
		if client.removed[i] != want {
			t.Fatalf("cascade %d: got %s, want %s", i, client.removed[i], want)
		}
	}
	var count int64
	db.Model(&domain.Organization{}).Count(&count)
	if count != 0 {
		t.Fatalf("organization row survived delete")
	}
}

func TestDeleteAbortsWhenPersonServiceUnavailable(t *testing.T) {
	svc, client, db := newTestService(t)
	org := mustCreate(t, svc, "acme")

	if err := svc.AddMember(context.Background(), org.ID.String(), snowflake.ID(101).String()); err != nil {
		t.Fatalf("add: %v", err)
	}

	client.removeErr = domain.ErrPersonServiceUnavailable
	err := svc.Delete(context.Background(), org.ID.String())
	if !errors.Is(err, domain.ErrPersonServiceUnavailable) {
		t.Fatalf("expected ErrPersonServiceUnavailable, got %v", err)
	}

	var count int64
	db.Model(&domain.Organization{}).Count(&count)
	if count != 1 {
		t.Fatalf("organization row must survive a failed cascade")
	}
}

func TestMemberResolutionUsesCacheOnRepeatedReads(t *testing.T) {
	svc, client, _ := newTestService(t)
	org := mustCreate(t, svc, "acme")

	person := snowflake.ID(101)
	client.persons[person] = domain.RemotePerson{ID: person, FirstName: "Ada", LastName: "Lovelace", PhoneNumber: "+15550000001"}
	if err := svc.AddMember(context.Background(), org.ID.String(), person.String()); err != nil {
		t.Fatalf("add: %v", err)
	}

	for i := 0; i < 3; i++ {
		got, err := svc.GetByID(context.Background(), domain.GetRequest{ID: org.ID.String(), IncludeMembers: true})
		if err != nil {
			t.Fatalf("get %d: %v", i, err)
		}
		if len(got.Members) != 1 || got.Members[0].ID != person {
			t.Fatalf("get %d: unexpected members %+v", i, got.Members)
		}
	}
	if client.batchCalls != 1 {
		t.Fatalf("expected one batch resolution, got %d", client.batchCalls)
	}
}

func TestGetByIDResolvesMembersSafely(t *testing.T) {
	svc, client, _ := newTestService(t)
	org := mustCreate(t, svc, "acme")

	known, gone := snowflake.ID(101), snowflake.ID(102)
	client.persons[known] = domain.RemotePerson{ID: known, FirstName: "Ada", LastName: "Lovelace", PhoneNumber: "+15550000001"}
	for _, id := range []snowflake.ID{known, gone} {
		if err := svc.AddMember(context.Background(), org.ID.String(), id.String()); err != nil {
			t.Fatalf("add %s: %v", id, err)
		}
	}

	got, err := svc.GetByID(context.Background(), domain.GetRequest{ID: org.ID.String(), IncludeMembers: true})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	// Ids always present; the resolvable member shows up, the stale one is
	// skipped.
	if len(got.MemberIDs) != 2 {
		t.Fatalf("unexpected ids %v", got.MemberIDs)
	}
	if len(got.Members) != 1 || got.Members[0].ID != known {
		t.Fatalf("unexpected member views %+v", got.Members)
	}

	client.batchErr = domain.ErrPersonServiceUnavailable
	got, err = svc.GetByID(context.Background(), domain.GetRequest{ID: org.ID.String(), IncludeMembers: true})
	if err != nil {
		t.Fatalf("read must not fail on peer outage: %v", err)
	}
	if got.Members != nil {
		t.Fatalf("expected ids-only view, got %+v", got.Members)
	}
}
