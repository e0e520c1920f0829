package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	persondomain "github.com/avbinvest/staffsync/internal/person/domain"
	"github.com/avbinvest/staffsync/pkg/db/pagination"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubPersonService returns canned results so handler tests only exercise
// binding, status mapping and the response envelope.
type stubPersonService struct {
	resp *persondomain.Response
	page pagination.Page[persondomain.Response]
	err  error
}

func (s *stubPersonService) Create(ctx context.Context, req persondomain.CreateRequest) (*persondomain.Response, error) {
	return s.resp, s.err
}

func (s *stubPersonService) Update(ctx context.Context, id string, req persondomain.UpdateRequest) (*persondomain.Response, error) {
	return s.resp, s.err
}

func (s *stubPersonService) GetByID(ctx context.Context, id string) (*persondomain.Response, error) {
	return s.resp, s.err
}

func (s *stubPersonService) List(ctx context.Context, req persondomain.ListRequest) (pagination.Page[persondomain.Response], error) {
	return s.page, s.err
}

func (s *stubPersonService) ListByIDs(ctx context.Context, req persondomain.ListByIDsRequest) (pagination.Page[persondomain.Response], error) {
	return s.page, s.err
}

func (s *stubPersonService) Delete(ctx context.Context, id string) error { return s.err }

func (s *stubPersonService) AddMembership(ctx context.Context, id, organizationID string) (*persondomain.Response, error) {
	return s.resp, s.err
}

func (s *stubPersonService) RemoveMembership(ctx context.Context, id, organizationID string) error {
	return s.err
}

func newPersonRouter(svc persondomain.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterPersonRoutes(r, svc, nil)
	return r
}

func perform(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetPersonWrapsDataEnvelope(t *testing.T) {
	r := newPersonRouter(&stubPersonService{resp: &persondomain.Response{
		ID:          42,
		FirstName:   "Ada",
		LastName:    "Lovelace",
		PhoneNumber: "+15550000001",
	}})

	w := perform(r, http.MethodGet, "/api/persons/42", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data persondomain.Response `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Ada", body.Data.FirstName)
	assert.Nil(t, body.Data.Organization)
}

func TestErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
	}{
		{"invalid phone", persondomain.ErrInvalidPhoneNumber, http.StatusBadRequest, "invalid_phone_number"},
		{"person missing", persondomain.ErrNotFound, http.StatusNotFound, "person_not_found"},
		{"organization missing", persondomain.ErrOrganizationNotFound, http.StatusNotFound, "organization_not_found"},
		{"duplicate phone", persondomain.ErrPhoneNumberExists, http.StatusConflict, "phone_number_exists"},
		{"already assigned", persondomain.ErrAlreadyAssigned, http.StatusConflict, "person_already_assigned"},
		{"not a member", persondomain.ErrNotMember, http.StatusConflict, "person_not_in_organization"},
		{"peer down", persondomain.ErrOrganizationUnavailable, http.StatusBadGateway, "organization_service_unavailable"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newPersonRouter(&stubPersonService{err: tc.err})
			w := perform(r, http.MethodGet, "/api/persons/42", "")
			require.Equal(t, tc.wantStatus, w.Code)

			var body errorBody
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tc.wantType, body.Error.Type)
			assert.NotEmpty(t, body.Error.Message)
		})
	}
}

func TestWrappedErrorKeepsStableType(t *testing.T) {
	status, errType := MapError(wrap(persondomain.ErrOrganizationUnavailable))
	assert.Equal(t, http.StatusBadGateway, status)
	assert.Equal(t, "organization_service_unavailable", errType)
}

func wrap(err error) error {
	return &wrapped{err}
}

type wrapped struct{ inner error }

func (w *wrapped) Error() string { return "remote call: " + w.inner.Error() }
func (w *wrapped) Unwrap() error { return w.inner }

func TestListByIDsWrapsPageEnvelope(t *testing.T) {
	r := newPersonRouter(&stubPersonService{
		page: pagination.NewPage([]persondomain.Response{
			{ID: 101, FirstName: "Ada", LastName: "Lovelace", PhoneNumber: "+15550000001"},
		}, 1, pagination.Request{Page: 0, Size: 10}),
	})

	w := perform(r, http.MethodPost, "/api/persons/by-ids?page=0&size=10", `["101","102"]`)
	require.Equal(t, http.StatusOK, w.Code)

	// The page shape inside the data envelope is what the organization
	// service's client decodes.
	var body struct {
		Data pagination.Page[persondomain.Response] `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, int64(1), body.Data.TotalElements)
	require.Len(t, body.Data.Content, 1)
	assert.Equal(t, "Ada", body.Data.Content[0].FirstName)
}

func TestDeleteReturnsNoContent(t *testing.T) {
	r := newPersonRouter(&stubPersonService{})
	w := perform(r, http.MethodDelete, "/api/persons/42", "")
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestRemoveMembershipReturnsNoContent(t *testing.T) {
	r := newPersonRouter(&stubPersonService{})
	w := perform(r, http.MethodDelete, "/api/persons/42/organization?organizationId=7", "")
	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestCreatePersonReturnsCreated(t *testing.T) {
	r := newPersonRouter(&stubPersonService{resp: &persondomain.Response{ID: 42}})
	w := perform(r, http.MethodPost, "/api/persons", `{"first_name":"Ada","last_name":"Lovelace","phone_number":"+15550000001"}`)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestMalformedBodyIsBadRequest(t *testing.T) {
	r := newPersonRouter(&stubPersonService{})
	w := perform(r, http.MethodPost, "/api/persons", `{"first_name":`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// A body that fails to parse is reported as a request problem, not as
	// a bad field value.
	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "invalid_request", body.Error.Type)
}

func TestInternalErrorHidesDetails(t *testing.T) {
	r := newPersonRouter(&stubPersonService{err: assert.AnError})
	w := perform(r, http.MethodGet, "/api/persons/42", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "internal_error", body.Error.Type)
	assert.NotContains(t, body.Error.Message, assert.AnError.Error())
}
