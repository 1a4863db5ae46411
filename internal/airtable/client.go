// Package airtable implements the data layer against the remote Airtable
// base: a thin REST client, a fingerprint-keyed query cache, a pagination
// decorator over the cursor-based listing API, and one repository per
// entity (users, ingredients, recipes, compositions).
//
// The official listing API never exposes direct page access, only a forward
// "offset" cursor, and the cache needs to see the raw query parameters to
// fingerprint them. Both requirements rule out the existing Airtable client
// wrappers, so the client here talks to the REST API directly.
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// DefaultBaseURL is the Airtable REST endpoint.
const DefaultBaseURL = "https://api.airtable.com/v0"

// Record is a raw Airtable record: a store-assigned identity plus an
// untyped field map. Repositories validate and convert it into a domain
// entity.
type Record struct {
	ID          string         `json:"id"`
	Fields      map[string]any `json:"fields"`
	CreatedTime string         `json:"createdTime,omitempty"`
}

// SelectParams are the query parameters of a listing request. They are part
// of the cache fingerprint, so two selects differing in any parameter are
// cached independently.
type SelectParams struct {
	FilterByFormula string   `json:"filterByFormula,omitempty"`
	Fields          []string `json:"fields,omitempty"`
	PageSize        int      `json:"pageSize,omitempty"`
}

// ListResponse is one page of a listing call: the records for that call and
// the cursor of the next page, empty when the chain ends.
type ListResponse struct {
	Records []Record `json:"records"`
	Offset  string   `json:"offset,omitempty"`
}

// Client is a minimal Airtable REST client bound to a single base.
type Client struct {
	baseURL string
	apiKey  string
	baseID  string
	http    *http.Client
}

// NewClient returns a client for the given base. The HTTP client carries a
// conservative timeout; Airtable is interactive-latency.
func NewClient(apiKey, baseID string) *Client {
	return &Client{
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		baseID:  baseID,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// WithBaseURL overrides the API endpoint. Used by tests to point the client
// at a local server.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

// ListRecords issues one listing call. A non-empty offset resumes the
// cursor chain from a previous response.
func (c *Client) ListRecords(ctx context.Context, table string, params SelectParams, offset string) (*ListResponse, error) {
	body := struct {
		SelectParams
		Offset string `json:"offset,omitempty"`
	}{SelectParams: params, Offset: offset}

	var out ListResponse
	if err := c.do(ctx, http.MethodPost, c.tablePath(table)+"/listRecords", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateRecord writes a new record and returns it with its store-assigned
// identity and any computed fields.
func (c *Client) CreateRecord(ctx context.Context, table string, fields map[string]any) (*Record, error) {
	body := map[string]any{"fields": fields}
	var out Record
	if err := c.do(ctx, http.MethodPost, c.tablePath(table), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateRecord patches only the given fields of an existing record.
func (c *Client) UpdateRecord(ctx context.Context, table, recordID string, fields map[string]any) (*Record, error) {
	body := map[string]any{"fields": fields}
	var out Record
	if err := c.do(ctx, http.MethodPatch, c.tablePath(table)+"/"+url.PathEscape(recordID), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) tablePath(table string) string {
	return "/" + url.PathEscape(c.baseID) + "/" + url.PathEscape(table)
}

// do performs one JSON round trip. Errors carry the HTTP status and a
// trimmed body excerpt for diagnosis; callers log and propagate them.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("airtable: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("airtable: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("airtable: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("airtable: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("airtable: %s %s: status %d: %s", method, path, resp.StatusCode, excerpt(raw))
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("airtable: decode response: %w", err)
		}
	}
	return nil
}

func excerpt(b []byte) string {
	const max = 256
	if len(b) > max {
		return string(b[:max]) + "…"
	}
	return string(b)
}
