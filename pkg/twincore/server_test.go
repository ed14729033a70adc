package twincore

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestJSONHelper(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, map[string]string{"device": "Pixel 5"})

	if rec.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON content type, got %q", ct)
	}
	var m map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if m["device"] != "Pixel 5" {
		t.Errorf("unexpected body: %v", m)
	}
}

func TestErrorHelper(t *testing.T) {
	rec := httptest.NewRecorder()
	Error(rec, http.StatusBadRequest, "unknown device")

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
	var body struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Code    int    `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON body: %v", err)
	}
	if body.Error.Message != "unknown device" || body.Error.Code != 400 {
		t.Errorf("unexpected error body: %+v", body.Error)
	}
}

func TestTextHelper(t *testing.T) {
	rec := httptest.NewRecorder()
	Text(rec, http.StatusOK, "google/husky/husky:14")

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Errorf("expected plain text content type, got %q", ct)
	}
	if rec.Body.String() != "google/husky/husky:14" {
		t.Errorf("unexpected body: %q", rec.Body.String())
	}
}

func TestTextHelperEmptyBody(t *testing.T) {
	rec := httptest.NewRecorder()
	Text(rec, http.StatusOK, "")

	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rec.Body.String())
	}
}

func TestTwinServesRoutes(t *testing.T) {
	twin := New(&Config{Name: "pixeltwin-test"})
	twin.Router.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		Text(w, http.StatusOK, "pong")
	})

	rec := httptest.NewRecorder()
	twin.ServeHTTP(rec, httptest.NewRequest("GET", "/ping", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
		t.Errorf("unexpected response: %d %q", rec.Code, rec.Body.String())
	}
	if twin.Middleware() == nil {
		t.Error("expected middleware to be exposed")
	}
}
