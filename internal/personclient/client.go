// Package personclient is the organization service's typed client for the
// person service's batch-resolution and membership API.
package personclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/avbinvest/staffsync/internal/config"
	"github.com/avbinvest/staffsync/internal/observability/metrics"
	orgdomain "github.com/avbinvest/staffsync/internal/organization/domain"
	"github.com/avbinvest/staffsync/pkg/db/pagination"
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

type pageEnvelope struct {
	Data pagination.Page[orgdomain.RemotePerson] `json:"data"`
}

func (c *Client) GetByIDs(ctx context.Context, ids []snowflake.ID, page pagination.Request) (pagination.Page[orgdomain.RemotePerson], error) {
	var empty pagination.Page[orgdomain.RemotePerson]
	if len(ids) == 0 {
		return pagination.NewPage[orgdomain.RemotePerson](nil, 0, page), nil
	}

	encoded := make([]string, 0, len(ids))
	for _, id := range ids {
		encoded = append(encoded, id.String())
	}
	body, err := json.Marshal(encoded)
	if err != nil {
		return empty, err
	}

	path := fmt.Sprintf("/api/persons/by-ids?page=%d&size=%d", page.Page, page.Size)
	resp, err := c.doRequest(ctx, http.MethodPost, path, body, "get_persons_by_ids")
	if err != nil {
		return empty, err
	}

	if resp.status >= http.StatusBadRequest {
		return empty, fmt.Errorf("%w: get persons by ids: unexpected status %d", orgdomain.ErrPersonServiceUnavailable, resp.status)
	}

	var envelope pageEnvelope
	if err := json.Unmarshal(resp.body, &envelope); err != nil {
		return empty, fmt.Errorf("%w: decode person page: %v", orgdomain.ErrPersonServiceUnavailable, err)
	}
	return envelope.Data, nil
}

func (c *Client) RemoveMembership(ctx context.Context, personID, organizationID snowflake.ID) error {
	path := fmt.Sprintf("/api/persons/%s/organization?organizationId=%s", personID, organizationID)
	resp, err := c.doRequest(ctx, http.MethodDelete, path, nil, "remove_membership")
	if err != nil {
		return err
	}

	switch {
	case resp.status == http.StatusNotFound, resp.status == http.StatusConflict:
		// Person already gone or already unassigned. Cascade cleanup keeps
		// going so a retried organization delete converges.
		return nil
	case resp.status >= http.StatusBadRequest:
		return fmt.Errorf("%w: remove membership: unexpected status %d", orgdomain.ErrPersonServiceUnavailable, resp.status)
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
		return nil, fmt.Errorf("%w: %s: %v", orgdomain.ErrPersonServiceUnavailable, operation, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.RecordRemoteCall(ctx, operation, "transport_error")
		return nil, fmt.Errorf("%w: %s: %v", orgdomain.ErrPersonServiceUnavailable, operation, err)
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
