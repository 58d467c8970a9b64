// Package supabase implements the Backend port against the Supabase REST and
// storage APIs, authenticated with the project's anonymous key.
//
// SQL goes through a server-side exec_sql(query text) RPC; the deployment
// must expose that function with sufficient privilege for DDL and policy
// changes, since the anonymous key itself has none.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/simplibiz/sbdoctor/internal/ports/secondary"
)

// DefaultTimeout bounds each backend call; the tool is short-lived and
// offers no cancellation beyond the operator's interrupt.
const DefaultTimeout = 30 * time.Second

// Client is an HTTP implementation of secondary.Backend.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
}

var _ secondary.Backend = (*Client)(nil)

// NewClient creates a new Client for the given project URL and anonymous key.
// A non-positive timeout falls back to DefaultTimeout.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// ExecSQL posts the statement to the exec_sql RPC and decodes the result rows.
func (c *Client) ExecSQL(ctx context.Context, statement string) ([]secondary.Row, error) {
	payload, err := json.Marshal(map[string]string{"query": statement})
	if err != nil {
		return nil, fmt.Errorf("failed to encode exec_sql payload: %w", err)
	}

	body, err := c.do(ctx, http.MethodPost, "/rest/v1/rpc/exec_sql", payload)
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		// DDL and other row-less statements return no result set.
		return nil, nil
	}

	var rows []secondary.Row
	if err := json.Unmarshal(trimmed, &rows); err != nil {
		// Some RPC configurations return a single object instead of an array.
		var single secondary.Row
		if err2 := json.Unmarshal(trimmed, &single); err2 != nil {
			return nil, fmt.Errorf("failed to decode exec_sql response: %w", err)
		}
		return []secondary.Row{single}, nil
	}
	return rows, nil
}

// ListBuckets fetches the storage bucket registry.
func (c *Client) ListBuckets(ctx context.Context) ([]secondary.BucketInfo, error) {
	body, err := c.do(ctx, http.MethodGet, "/storage/v1/bucket", nil)
	if err != nil {
		return nil, err
	}

	var payload []struct {
		ID     string `json:"id"`
		Name   string `json:"name"`
		Public bool   `json:"public"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode bucket list: %w", err)
	}

	buckets := make([]secondary.BucketInfo, len(payload))
	for i, b := range payload {
		buckets[i] = secondary.BucketInfo{ID: b.ID, Name: b.Name, Public: b.Public}
	}
	return buckets, nil
}

// CreateBucket creates a storage bucket through the administrative API.
func (c *Client) CreateBucket(ctx context.Context, name string, public bool) error {
	payload, err := json.Marshal(map[string]any{
		"id":     name,
		"name":   name,
		"public": public,
	})
	if err != nil {
		return fmt.Errorf("failed to encode bucket payload: %w", err)
	}

	if _, err := c.do(ctx, http.MethodPost, "/storage/v1/bucket", payload); err != nil {
		return err
	}
	return nil
}

// do issues one request and returns the response body, folding transport
// errors and non-2xx statuses into a single error carrying the backend's
// message inline.
func (c *Client) do(ctx context.Context, method, path string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%s returned %s: %s", path, resp.Status, backendMessage(body))
	}
	return body, nil
}

// backendMessage extracts the human-readable message from an error response.
func backendMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	if msg := strings.TrimSpace(string(body)); msg != "" {
		return msg
	}
	return "no error detail"
}
