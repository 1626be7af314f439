package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"equipment_search_backend/internal/search/repository"
	"equipment_search_backend/internal/search/service"
	"equipment_search_backend/platform/config"
	"equipment_search_backend/platform/logger"
	"equipment_search_backend/platform/typesense"
	"equipment_search_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

type stubEngine struct {
	calls  int
	result *typesense.SearchResult
	err    error
}

func (s *stubEngine) Search(context.Context, typesense.SearchParams) (*typesense.SearchResult, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newTestRouter(engine *stubEngine) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{SearchMaxPageSize: 100}
	svc := service.New(repository.New(engine), cfg, logger.New("test"))
	h := New(svc, validator.New())

	router := gin.New()
	h.RegisterRoutes(router.Group("/api/v1/search"))
	return router
}

func get(router *gin.Engine, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	router.ServeHTTP(rec, req)
	return rec
}

func TestSearchOK(t *testing.T) {
	engine := &stubEngine{result: &typesense.SearchResult{
		Found: 1,
		Hits:  []typesense.Hit{{Document: json.RawMessage(`{"id":"equipment-1","category":"boots"}`)}},
	}}
	router := newTestRouter(engine)

	rec := get(router, "/api/v1/search?q=boots&page=1&pageSize=10")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Documents    []map[string]interface{} `json:"documents"`
		TotalResults int                      `json:"totalResults"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(body.Documents) != 1 || body.TotalResults != 1 {
		t.Fatalf("unexpected payload: %s", rec.Body.String())
	}
	if body.Documents[0]["id"] != "equipment-1" {
		t.Fatalf("unexpected document: %v", body.Documents[0])
	}
}

func TestSearchBadInput(t *testing.T) {
	engine := &stubEngine{result: &typesense.SearchResult{}}
	router := newTestRouter(engine)

	cases := []string{
		"/api/v1/search?q=x&page=abc&pageSize=10", // non-numeric page
		"/api/v1/search?q=x&pageSize=10",          // missing page
		"/api/v1/search?q=x&page=0&pageSize=10",   // page below 1
		"/api/v1/search?q=x&page=1&pageSize=-5",   // negative page size
		"/api/v1/search?q=x&page=1&pageSize=10&sortBy=bogus",
		"/api/v1/search?q=a&q=b&page=1&pageSize=10", // repeated q
	}
	for _, target := range cases {
		rec := get(router, target)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", target, rec.Code)
		}
		var body struct {
			Error string `json:"error"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.Error == "" {
			t.Fatalf("%s: expected an error message, got %s", target, rec.Body.String())
		}
	}
	if engine.calls != 0 {
		t.Fatalf("engine must not be called for invalid requests, got %d calls", engine.calls)
	}
}

func TestSearchEngineFailure(t *testing.T) {
	engine := &stubEngine{err: errors.New("connection refused")}
	router := newTestRouter(engine)

	rec := get(router, "/api/v1/search?q=x&page=1&pageSize=10")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	engine.err = &typesense.StatusError{StatusCode: 400, Message: "Could not find a field named `bogus`"}
	rec = get(router, "/api/v1/search?q=x&page=1&pageSize=10")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("engine query rejection must surface as 500, got %d", rec.Code)
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body.Error == "" {
		t.Fatalf("expected descriptive error, got %s", rec.Body.String())
	}
}
