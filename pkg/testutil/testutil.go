// Package testutil provides the HTTP clients and response assertions used by
// the twin's own tests: a TwinClient for the device surface and an
// AdminClient for the control plane.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// TwinClient issues requests against a running twin and fails the test on
// transport-level errors, so test bodies only assert on responses.
type TwinClient struct {
	BaseURL    string
	HTTPClient *http.Client
	t          *testing.T
}

// NewTwinClient creates a client for an httptest server.
func NewTwinClient(t *testing.T, server *httptest.Server) *TwinClient {
	return &TwinClient{
		BaseURL:    server.URL,
		HTTPClient: server.Client(),
		t:          t,
	}
}

// NewTwinClientURL creates a client for an externally running twin.
func NewTwinClientURL(t *testing.T, baseURL string) *TwinClient {
	return &TwinClient{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{},
		t:          t,
	}
}

// Get performs a GET request.
func (c *TwinClient) Get(path string) *Response {
	c.t.Helper()
	return c.DoWithHeaders(http.MethodGet, path, nil, nil)
}

// Post performs a POST request; a non-nil body is sent as JSON.
func (c *TwinClient) Post(path string, body any) *Response {
	c.t.Helper()
	return c.DoWithHeaders(http.MethodPost, path, body, nil)
}

// Put performs a PUT request; a non-nil body is sent as JSON.
func (c *TwinClient) Put(path string, body any) *Response {
	c.t.Helper()
	return c.DoWithHeaders(http.MethodPut, path, body, nil)
}

// Delete performs a DELETE request.
func (c *TwinClient) Delete(path string) *Response {
	c.t.Helper()
	return c.DoWithHeaders(http.MethodDelete, path, nil, nil)
}

// DoWithHeaders performs an arbitrary request with extra headers.
func (c *TwinClient) DoWithHeaders(method, path string, body any, headers map[string]string) *Response {
	c.t.Helper()

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshaling request body: %v", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.BaseURL+path, payload)
	if err != nil {
		c.t.Fatalf("building %s %s: %v", method, path, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.t.Fatalf("reading %s %s response: %v", method, path, err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       raw,
		Headers:    resp.Header,
		t:          c.t,
	}
}

// Response is a fully read HTTP response with assertion helpers.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
	t          *testing.T
}

// JSON decodes the body into v, failing the test on invalid JSON.
func (r *Response) JSON(v any) {
	r.t.Helper()
	if err := json.Unmarshal(r.Body, v); err != nil {
		r.t.Fatalf("decoding response body: %v\nbody: %s", err, r.Body)
	}
}

// JSONMap decodes the body as a generic JSON object.
func (r *Response) JSONMap() map[string]any {
	r.t.Helper()
	var m map[string]any
	r.JSON(&m)
	return m
}

// AssertStatus checks the status code; chainable.
func (r *Response) AssertStatus(want int) *Response {
	r.t.Helper()
	if r.StatusCode != want {
		r.t.Errorf("expected status %d, got %d\nbody: %s", want, r.StatusCode, r.Body)
	}
	return r
}

// AssertBodyContains checks for a substring in the body; chainable.
func (r *Response) AssertBodyContains(substr string) *Response {
	r.t.Helper()
	if !strings.Contains(string(r.Body), substr) {
		r.t.Errorf("expected body to contain %q, got: %s", substr, r.Body)
	}
	return r
}

// AdminClient wraps a TwinClient with the /admin/* operations.
type AdminClient struct {
	*TwinClient
}

// NewAdminClient creates an admin client sharing the twin client's transport.
func NewAdminClient(tc *TwinClient) *AdminClient {
	return &AdminClient{tc}
}

// Reset calls POST /admin/reset.
func (ac *AdminClient) Reset() *Response {
	ac.t.Helper()
	return ac.Post("/admin/reset", nil)
}

// GetState calls GET /admin/state.
func (ac *AdminClient) GetState() *Response {
	ac.t.Helper()
	return ac.Get("/admin/state")
}

// LoadState calls POST /admin/state.
func (ac *AdminClient) LoadState(state any) *Response {
	ac.t.Helper()
	return ac.Post("/admin/state", state)
}

// InjectFault calls POST /admin/fault/{endpoint}.
func (ac *AdminClient) InjectFault(endpoint string, fault any) *Response {
	ac.t.Helper()
	return ac.Post("/admin/fault/"+strings.TrimPrefix(endpoint, "/"), fault)
}

// RemoveFault calls DELETE /admin/fault/{endpoint}.
func (ac *AdminClient) RemoveFault(endpoint string) *Response {
	ac.t.Helper()
	return ac.Delete("/admin/fault/" + strings.TrimPrefix(endpoint, "/"))
}

// GetRequests calls GET /admin/requests.
func (ac *AdminClient) GetRequests() *Response {
	ac.t.Helper()
	return ac.Get("/admin/requests")
}

// Health calls GET /admin/health.
func (ac *AdminClient) Health() *Response {
	ac.t.Helper()
	return ac.Get("/admin/health")
}
