package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Filter is one document store filter clause, encoded as [field, op, value]
type Filter struct {
	Field string
	Op    string
	Value any
}

// Eq builds an equality filter
func Eq(field string, value any) Filter {
	return Filter{Field: field, Op: "=", Value: value}
}

// MarshalJSON encodes the filter as the positional array the API expects
func (f Filter) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{f.Field, f.Op, f.Value})
}

// ListRequest describes a list-with-filters query
type ListRequest struct {
	Doctype string
	Fields  []string
	Filters []Filter
	Limit   int
	OrderBy string
}

// FrappeClient talks to the document store REST API
type FrappeClient struct {
	baseURL   string
	apiKey    string
	apiSecret string
	http      *http.Client
}

// NewFrappeClient creates a new FrappeClient. apiKey and apiSecret may be
// empty for guest access.
func NewFrappeClient(baseURL, apiKey, apiSecret string, timeout time.Duration) *FrappeClient {
	return &FrappeClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    apiKey,
		apiSecret: apiSecret,
		http:      &http.Client{Timeout: timeout},
	}
}

// List runs a list query and decodes the "data" array into out
func (c *FrappeClient) List(ctx context.Context, req ListRequest, out any) error {
	q := url.Values{}
	if len(req.Fields) > 0 {
		fields, err := json.Marshal(req.Fields)
		if err != nil {
			return fmt.Errorf("failed to encode fields: %w", err)
		}
		q.Set("fields", string(fields))
	}
	if len(req.Filters) > 0 {
		filters, err := json.Marshal(req.Filters)
		if err != nil {
			return fmt.Errorf("failed to encode filters: %w", err)
		}
		q.Set("filters", string(filters))
	}
	if req.Limit > 0 {
		q.Set("limit_page_length", strconv.Itoa(req.Limit))
	}
	if req.OrderBy != "" {
		q.Set("order_by", req.OrderBy)
	}

	endpoint := fmt.Sprintf("%s/api/resource/%s?%s", c.baseURL, url.PathEscape(req.Doctype), q.Encode())
	envelope := struct {
		Data any `json:"data"`
	}{Data: out}
	if err := c.do(ctx, http.MethodGet, endpoint, nil, &envelope); err != nil {
		return fmt.Errorf("failed to list %s: %w", req.Doctype, err)
	}
	return nil
}

// Create inserts a document and returns its name
func (c *FrappeClient) Create(ctx context.Context, doctype string, doc any) (string, error) {
	body, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("failed to encode %s: %w", doctype, err)
	}

	endpoint := fmt.Sprintf("%s/api/resource/%s", c.baseURL, url.PathEscape(doctype))
	var envelope struct {
		Data struct {
			Name string `json:"name"`
		} `json:"data"`
	}
	if err := c.do(ctx, http.MethodPost, endpoint, body, &envelope); err != nil {
		return "", err
	}
	if envelope.Data.Name == "" {
		return "", fmt.Errorf("document store created %s without returning a name", doctype)
	}
	return envelope.Data.Name, nil
}

// Fetch downloads a file served by the document store, e.g. "/files/coffee.png"
func (c *FrappeClient) Fetch(ctx context.Context, path string) ([]byte, error) {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	req, err := c.newRequest(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("file endpoint returned status %d for %s", resp.StatusCode, path)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

func (c *FrappeClient) newRequest(ctx context.Context, method, endpoint string, body []byte) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("token %s:%s", c.apiKey, c.apiSecret))
	}
	return req, nil
}

func (c *FrappeClient) do(ctx context.Context, method, endpoint string, body []byte, out any) error {
	req, err := c.newRequest(ctx, method, endpoint, body)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("❌ DocStore: %s %s failed: %v", method, req.URL.Path, err)
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	log.Printf("📡 DocStore: %s %s -> %d (%s)", method, req.URL.Path, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newRemoteError(resp.StatusCode, data)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func newRemoteError(status int, body []byte) *RemoteError {
	remote := &RemoteError{StatusCode: status, Body: body}
	var envelope struct {
		ExcType        string `json:"exc_type"`
		Exception      string `json:"exception"`
		ServerMessages string `json:"_server_messages"`
	}
	// Non-JSON bodies (proxies, HTML error pages) keep only the status and raw body.
	if err := json.Unmarshal(body, &envelope); err == nil {
		remote.ExcType = envelope.ExcType
		remote.Exception = envelope.Exception
		remote.ServerMessages = envelope.ServerMessages
	}
	return remote
}
