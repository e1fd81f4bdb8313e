// Package postgrest persists matched payments and customers through a
// PostgREST endpoint (Supabase REST API) instead of a direct SQL connection.
package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/radhian/pix-reconciliation/config"
	"github.com/radhian/pix-reconciliation/entity"
)

const (
	tablePayments  = "transacoes"
	tableCustomers = "clientes"
)

// Store implements the ledger and customer directory on top of PostgREST.
type Store struct {
	baseURL string
	key     string
	http    *http.Client
	now     func() time.Time
}

func NewStore(cfg config.PostgRESTConfig) *Store {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Store{
		baseURL: strings.TrimRight(cfg.URL, "/"),
		key:     cfg.Key,
		http:    &http.Client{Timeout: timeout},
		now:     time.Now,
	}
}

// query is an ordered list of PostgREST parameters. A column may appear more
// than once (gte and lte on the same column).
type query [][2]string

func (q query) encode() string {
	parts := make([]string, 0, len(q))
	for _, p := range q {
		parts = append(parts, url.QueryEscape(p[0])+"="+url.QueryEscape(p[1]))
	}
	return strings.Join(parts, "&")
}

func (s *Store) setHeaders(req *http.Request) {
	req.Header.Set("apikey", s.key)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	// new style secret keys are rejected when sent as a bearer token
	if !strings.HasPrefix(s.key, "sb_") {
		req.Header.Set("Authorization", "Bearer "+s.key)
	}
}

func (s *Store) selectRows(ctx context.Context, table string, q query, out interface{}) error {
	endpoint := fmt.Sprintf("%s/rest/v1/%s?%s", s.baseURL, table, q.encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: build %s query: %v", entity.ErrUpstream, table, err)
	}
	s.setHeaders(req)

	body, status, err := s.do(req)
	if err != nil {
		return fmt.Errorf("%w: query %s: %v", entity.ErrUpstream, table, err)
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("%w: query %s returned status %d: %s", entity.ErrUpstream, table, status, body)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode %s rows: %v", entity.ErrUpstream, table, err)
	}
	return nil
}

// insertRow posts one row. The returned status lets callers classify
// constraint violations (409).
func (s *Store) insertRow(ctx context.Context, table string, row interface{}) (int, []byte, error) {
	payload, err := json.Marshal(row)
	if err != nil {
		return 0, nil, err
	}
	endpoint := fmt.Sprintf("%s/rest/v1/%s", s.baseURL, table)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, err
	}
	s.setHeaders(req)
	req.Header.Set("Prefer", "return=representation")

	body, status, err := s.do(req)
	return status, body, err
}

// writeRows sends a PATCH or DELETE to the rows matching q and returns the
// affected rows as PostgREST represents them.
func (s *Store) writeRows(ctx context.Context, method, table string, q query, row interface{}) ([]byte, error) {
	var reqBody io.Reader
	if row != nil {
		payload, err := json.Marshal(row)
		if err != nil {
			return nil, fmt.Errorf("encode %s row: %w", table, err)
		}
		reqBody = bytes.NewReader(payload)
	}
	endpoint := fmt.Sprintf("%s/rest/v1/%s?%s", s.baseURL, table, q.encode())
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: build %s %s: %v", entity.ErrUpstream, method, table, err)
	}
	s.setHeaders(req)
	req.Header.Set("Prefer", "return=representation")

	body, status, err := s.do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", entity.ErrUpstream, method, table, err)
	}
	if status < 200 || status >= 300 {
		return nil, fmt.Errorf("%w: %s %s returned status %d: %s", entity.ErrUpstream, method, table, status, body)
	}
	return body, nil
}

func (s *Store) do(req *http.Request) ([]byte, int, error) {
	resp, err := s.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

// flexID accepts numeric and text primary keys and keeps them as text.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id is neither text nor number: %s", b)
	}
	*f = flexID(n.String())
	return nil
}
