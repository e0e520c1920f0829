package personclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/avbinvest/staffsync/internal/config"
	orgdomain "github.com/avbinvest/staffsync/internal/organization/domain"
	"github.com/avbinvest/staffsync/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
)

func newClient(baseURL string) *Client {
	return New(config.Config{PeerServiceURL: baseURL}, nil, nil)
}

func TestGetByIDsEmptyInputSkipsTheWire(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("no request expected for an empty id list")
	}))
	defer srv.Close()

	page, err := newClient(srv.URL).GetByIDs(context.Background(), nil, pagination.Request{Size: 10})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if page.TotalElements != 0 || len(page.Content) != 0 {
		t.Fatalf("expected empty page, got %+v", page)
	}
}

func TestGetByIDsPostsIDsAndDecodesPage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/persons/by-ids" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var ids []string
		if err := json.NewDecoder(r.Body).Decode(&ids); err != nil {
			t.Errorf("decode ids: %v", err)
		}
		if len(ids) != 2 || ids[0] != "101" || ids[1] != "102" {
			t.Errorf("unexpected ids %v", ids)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"data":{"content":[{"id":"101","first_name":"Ada","last_name":"Lovelace","phone_number":"+15550000001"}],"total_elements":1,"total_pages":1,"number":0,"size":10}}`))
	}))
	defer srv.Close()

	page, err := newClient(srv.URL).GetByIDs(context.Background(), []snowflake.ID{101, 102}, pagination.Request{Size: 10})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(page.Content) != 1 || page.Content[0].ID != 101 || page.Content[0].FirstName != "Ada" {
		t.Fatalf("unexpected page %+v", page)
	}
}

func TestGetByIDsServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newClient(srv.URL).GetByIDs(context.Background(), []snowflake.ID{101}, pagination.Request{Size: 10})
	if !errors.Is(err, orgdomain.ErrPersonServiceUnavailable) {
		t.Fatalf("expected ErrPersonServiceUnavailable, got %v", err)
	}
}

func TestRemoveMembershipConvergesOnGoneAndConflict(t *testing.T) {
	for _, status := range []int{http.StatusNoContent, http.StatusNotFound, http.StatusConflict} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete {
				t.Errorf("unexpected method %s", r.Method)
			}
			if r.URL.Query().Get("organizationId") != "42" {
				t.Errorf("missing organizationId query: %s", r.URL.RawQuery)
			}
			w.WriteHeader(status)
		}))

		err := newClient(srv.URL).RemoveMembership(context.Background(), snowflake.ID(7), snowflake.ID(42))
		srv.Close()
		if err != nil {
			t.Fatalf("status %d must converge, got %v", status, err)
		}
	}
}

func TestRemoveMembershipTransportErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	err := newClient(srv.URL).RemoveMembership(context.Background(), snowflake.ID(7), snowflake.ID(42))
	if !errors.Is(err, orgdomain.ErrPersonServiceUnavailable) {
		t.Fatalf("expected ErrPersonServiceUnavailable, got %v", err)
	}
}
