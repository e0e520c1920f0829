// Package orgclient is the person service's typed client for the
// organization service's membership API.
package orgclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/avbinvest/staffsync/internal/config"
	"github.com/avbinvest/staffsync/internal/observability/metrics"
	persondomain "github.com/avbinvest/staffsync/internal/person/domain"
	"github.com/bwmarrin/snowflake"
)

type Client struct {
	baseURL  string
	client   *http.Client
	tunables *config.TunablesHolder
	metrics  *metrics.Metrics
}

func New(cfg config.Config, tunables *config.TunablesHolder, m *metrics.Metrics) *Client {
	return &Client{
		baseURL:  cfg.PeerServiceURL,
		client:   &http.Client{},
		tunables: tunables,
		metrics:  m,
	}
}

type response struct {
	status int
	body   []byte
}

type dataEnvelope struct {
	Data persondomain.RemoteOrganization `json:"data"`
}

type errorEnvelope struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *Client) GetByID(ctx context.Context, id snowflake.ID) (*persondomain.RemoteOrganization, error) {
	path := fmt.Sprintf("/api/organizations/%s?includeMembers=false", id)
	resp, err := c.doRequest(ctx, http.MethodGet, path, nil, "get_organization")
	if err != nil {
		return nil, err
	}

	switch {
	case resp.status == http.StatusNotFound:
		return nil, persondomain.ErrOrganizationNotFound
	case resp.status >= http.StatusBadRequest:
		return nil, unexpectedStatus(resp, "get organization")
	}

	var envelope dataEnvelope
	if err := json.Unmarshal(resp.body, &envelope); err != nil {
		return nil, fmt.Errorf("%w: decode organization: %v", persondomain.ErrOrganizationUnavailable, err)
	}
	if envelope.Data.ID == 0 {
		return nil, fmt.Errorf("%w: empty organization payload", persondomain.ErrOrganizationUnavailable)
	}
	return &envelope.Data, nil
}

func (c *Client) AddMember(ctx context.Context, organizationID, personID snowflake.ID) error {
	body, err := json.Marshal(map[string]string{"person_id": personID.String()})
	if err != nil {
		return err
	}

	path := fmt.Sprintf("/api/organizations/%s/members", organizationID)
	resp, err := c.doRequest(ctx, http.MethodPost, path, body, "add_member")
	if err != nil {
		return err
	}

	switch {
	case resp.status == http.StatusNotFound:
		return persondomain.ErrOrganizationNotFound
	case resp.status >= http.StatusBadRequest:
		return unexpectedStatus(resp, "add member")
	}
	return nil
}

func (c *Client) RemoveMember(ctx context.Context, organizationID, personID snowflake.ID) error {
	path := fmt.Sprintf("/api/organizations/%s/members/%s", organizationID, personID)
	resp, err := c.doRequest(ctx, http.MethodDelete, path, nil, "remove_member")
	if err != nil {
		return err
	}

	switch {
	case resp.status == http.StatusNotFound:
		if errorType(resp.body) == "organization_not_found" {
			return persondomain.ErrOrganizationNotFound
		}
		return persondomain.ErrMembershipNotFound
	case resp.status >= http.StatusBadRequest:
		return unexpectedStatus(resp, "remove member")
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, body []byte, operation string) (*response, error) {
	ctx, cancel := context.WithTimeout(ctx, c.tunables.Current().RemoteTimeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.metrics.RecordRemoteCall(ctx, operation, "transport_error")
		return nil, fmt.Errorf("%w: %s: %v", persondomain.ErrOrganizationUnavailable, operation, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.RecordRemoteCall(ctx, operation, "transport_error")
		return nil, fmt.Errorf("%w: %s: %v", persondomain.ErrOrganizationUnavailable, operation, err)
	}

	outcome := "ok"
	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		outcome = "server_error"
	case resp.StatusCode >= http.StatusBadRequest:
		outcome = "rejected"
	}
	c.metrics.RecordRemoteCall(ctx, operation, outcome)

	return &response{status: resp.StatusCode, body: payload}, nil
}

func unexpectedStatus(resp *response, operation string) error {
	return fmt.Errorf("%w: %s: unexpected status %d", persondomain.ErrOrganizationUnavailable, operation, resp.status)
}

func errorType(body []byte) string {
	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	return envelope.Error.Type
}
