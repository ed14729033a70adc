package scenario

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pixeltwin-dev/pixeltwin/internal/client"
)

// StepResult records the outcome of a single step.
type StepResult struct {
	Name     string
	Passed   bool
	Duration time.Duration
	Error    string // empty when passed
}

// Result records the outcome of an entire scenario.
type Result struct {
	ScenarioName string
	Passed       bool
	Steps        []StepResult
	Duration     time.Duration
}

// Runner executes probe scenarios against a running twin.
type Runner struct {
	baseURL string
	admin   *client.AdminClient
	http    *http.Client
	vars    map[string]string // captured variables
}

// NewRunner creates a Runner targeting the twin at baseURL.
func NewRunner(baseURL string) *Runner {
	baseURL = strings.TrimRight(baseURL, "/")
	return &Runner{
		baseURL: baseURL,
		admin:   client.New(baseURL),
		http:    &http.Client{Timeout: 10 * time.Second},
		vars:    make(map[string]string),
	}
}

// Run executes a single scenario and returns its result.
func (r *Runner) Run(s *Scenario) (*Result, error) {
	start := time.Now()
	result := &Result{
		ScenarioName: s.Name,
		Passed:       true,
	}

	// Reset captured variables for each scenario run
	r.vars = make(map[string]string)

	// Copy initial variables from the scenario
	for k, v := range s.Variables {
		r.vars[k] = v
	}

	// --- Setup phase ---
	if s.Setup != nil {
		if err := r.runSetup(s.Setup); err != nil {
			return nil, fmt.Errorf("setup failed: %w", err)
		}
	}

	// --- Steps phase ---
	for _, step := range s.Steps {
		sr := r.runStep(&step)
		result.Steps = append(result.Steps, sr)
		if !sr.Passed {
			result.Passed = false
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}

// runSetup executes the reset and seed operations against the admin surface.
func (r *Runner) runSetup(setup *Setup) error {
	if setup.Reset {
		if _, err := r.admin.Reset(); err != nil {
			return fmt.Errorf("reset: %w", err)
		}
	}
	if setup.SeedFile != "" {
		if _, err := r.admin.Seed(setup.SeedFile); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}
	return nil
}

// runStep executes a single scenario step and returns its result.
func (r *Runner) runStep(step *Step) StepResult {
	start := time.Now()
	sr := StepResult{Name: step.Name}

	fail := func(format string, args ...any) StepResult {
		sr.Error = fmt.Sprintf(format, args...)
		sr.Duration = time.Since(start)
		return sr
	}

	// Expand templates in the path
	path, err := ExpandTemplates(step.Request.Path, r.baseURL, r.vars)
	if err != nil {
		return fail("template expansion in path: %v", err)
	}
	url := path
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = r.baseURL + path
	}

	// Build request body
	var reqBody io.Reader
	if step.Request.Body != nil {
		bodyStr, err := r.buildBody(step.Request.Body)
		if err != nil {
			return fail("building request body: %v", err)
		}
		reqBody = strings.NewReader(bodyStr)
	}

	// Build HTTP request
	req, err := http.NewRequest(step.Request.Method, url, reqBody)
	if err != nil {
		return fail("building request: %v", err)
	}

	// Set headers with template expansion
	for k, v := range step.Request.Headers {
		expanded, err := ExpandTemplates(v, r.baseURL, r.vars)
		if err != nil {
			return fail("template expansion in header %q: %v", k, err)
		}
		req.Header.Set(k, expanded)
	}

	// Set content-type for body requests if not already set
	if step.Request.Body != nil && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", "application/json")
	}

	// Execute request
	resp, err := r.http.Do(req)
	if err != nil {
		return fail("request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail("reading response body: %v", err)
	}

	// Capture variables from response
	for varName, jsonPath := range step.Capture {
		val, err := ExtractJSONPath(respBody, jsonPath)
		if err != nil {
			return fail("capture %q: %v", varName, err)
		}
		r.vars[varName] = fmt.Sprintf("%v", val)
	}

	// Run assertions
	if step.Assert != nil {
		if err := r.runAssertions(step.Assert, resp, respBody); err != nil {
			return fail("%s", err.Error())
		}
	}

	sr.Passed = true
	sr.Duration = time.Since(start)
	return sr
}

// buildBody converts the request body to a JSON string with template expansion.
func (r *Runner) buildBody(body any) (string, error) {
	// If it's a string, expand templates directly
	if s, ok := body.(string); ok {
		return ExpandTemplates(s, r.baseURL, r.vars)
	}

	// Otherwise marshal to JSON then expand templates
	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling body: %w", err)
	}

	return ExpandTemplates(string(data), r.baseURL, r.vars)
}

// runAssertions evaluates all assertions against the HTTP response.
func (r *Runner) runAssertions(assert *Assert, resp *http.Response, body []byte) error {
	// Assert status
	if assert.Status != 0 && resp.StatusCode != assert.Status {
		return fmt.Errorf("expected status %d, got %d", assert.Status, resp.StatusCode)
	}

	// Assert body_contains
	if assert.BodyContains != "" {
		if !strings.Contains(string(body), assert.BodyContains) {
			return fmt.Errorf("body does not contain %q", assert.BodyContains)
		}
	}

	// Assert body_equals: exact match for the plain-text getprop endpoints.
	// An empty string is a valid expectation (the getprop miss answer).
	if assert.BodyEquals != nil {
		expanded, err := ExpandTemplates(*assert.BodyEquals, r.baseURL, r.vars)
		if err != nil {
			return fmt.Errorf("template expansion in body_equals: %v", err)
		}
		if string(body) != expanded {
			return fmt.Errorf("expected body %q, got %q", expanded, string(body))
		}
	}

	// Assert headers
	for key, expected := range assert.Headers {
		actual := resp.Header.Get(key)
		if actual != expected {
			return fmt.Errorf("header %q: expected %q, got %q", key, expected, actual)
		}
	}

	// Assert body (JSONPath-based)
	if len(assert.Body) > 0 {
		// Expand templates in expected values before comparison
		expandedAssertions := make(map[string]any, len(assert.Body))
		for path, expected := range assert.Body {
			if s, ok := expected.(string); ok {
				expanded, err := ExpandTemplates(s, r.baseURL, r.vars)
				if err != nil {
					return fmt.Errorf("template expansion in assertion %q: %v", path, err)
				}
				expandedAssertions[path] = expanded
			} else {
				expandedAssertions[path] = expected
			}
		}
		if err := EvaluateBodyAssertions(body, expandedAssertions); err != nil {
			return err
		}
	}

	return nil
}
