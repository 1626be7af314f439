package service

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"equipment_search_backend/internal/search/repository"
	"equipment_search_backend/internal/search/transport"
	"equipment_search_backend/platform/apperr"
	"equipment_search_backend/platform/config"
	"equipment_search_backend/platform/logger"
	"equipment_search_backend/platform/typesense"
)

type stubEngine struct {
	calls  []typesense.SearchParams
	result *typesense.SearchResult
	err    error
}

func (s *stubEngine) Search(_ context.Context, params typesense.SearchParams) (*typesense.SearchResult, error) {
	s.calls = append(s.calls, params)
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func newService(engine *stubEngine) *Service {
	cfg := &config.Config{SearchMaxPageSize: 100}
	return New(repository.New(engine), cfg, logger.New("test"))
}

func doc(id string) typesense.Hit {
	return typesense.Hit{Document: json.RawMessage(`{"id":"` + id + `"}`)}
}

func TestSearchRejectsBadPagingBeforeEngineCall(t *testing.T) {
	engine := &stubEngine{result: &typesense.SearchResult{}}
	svc := newService(engine)

	cases := []transport.SearchRequest{
		{Q: "boots", Page: 0, PageSize: 10},
		{Q: "boots", Page: -1, PageSize: 10},
		{Q: "boots", Page: 1, PageSize: 0},
		{Q: "boots", Page: 1, PageSize: 101},
	}
	for _, req := range cases {
		_, err := svc.Search(context.Background(), req)
		if !apperr.Is(err, apperr.KindBadRequest) {
			t.Fatalf("request %+v: expected bad request, got %v", req, err)
		}
	}
	if len(engine.calls) != 0 {
		t.Fatalf("engine must not be called for invalid paging, got %d calls", len(engine.calls))
	}
}

func TestSearchRejectsBadDateRange(t *testing.T) {
	engine := &stubEngine{result: &typesense.SearchResult{}}
	svc := newService(engine)

	_, err := svc.Search(context.Background(), transport.SearchRequest{
		Q: "x", Page: 1, PageSize: 10, ManufacturedFrom: "not-a-date",
	})
	if !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request for malformed bound, got %v", err)
	}

	_, err = svc.Search(context.Background(), transport.SearchRequest{
		Q: "x", Page: 1, PageSize: 10,
		ManufacturedFrom: "2024-06-01T00:00:00Z",
		ManufacturedTo:   "2023-06-01T00:00:00Z",
	})
	if !apperr.Is(err, apperr.KindBadRequest) {
		t.Fatalf("expected bad request for inverted range, got %v", err)
	}
	if len(engine.calls) != 0 {
		t.Fatal("engine must not be called for invalid date ranges")
	}
}

func TestSearchEngineErrorMapping(t *testing.T) {
	engine := &stubEngine{err: errors.New("dial tcp: connection refused")}
	svc := newService(engine)

	_, err := svc.Search(context.Background(), transport.SearchRequest{Q: "x", Page: 1, PageSize: 10})
	if !apperr.Is(err, apperr.KindUnavailable) {
		t.Fatalf("network failure must map to unavailable, got %v", err)
	}

	engine.err = &typesense.StatusError{StatusCode: 404, Message: "Could not find a field named `bogus`"}
	_, err = svc.Search(context.Background(), transport.SearchRequest{Q: "x", Page: 1, PageSize: 10})
	if !apperr.Is(err, apperr.KindInternal) {
		t.Fatalf("engine rejection must map to internal, got %v", err)
	}
}

func TestSearchIdempotent(t *testing.T) {
	engine := &stubEngine{result: &typesense.SearchResult{
		Found: 2,
		Hits:  []typesense.Hit{doc("equipment-1"), doc("equipment-2")},
	}}
	svc := newService(engine)

	req := transport.SearchRequest{Q: "boots", Page: 1, PageSize: 10}
	first, err := svc.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Search(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical requests against an unchanged index must yield identical responses")
	}
	if len(engine.calls) != 2 || !reflect.DeepEqual(engine.calls[0], engine.calls[1]) {
		t.Fatal("identical requests must produce identical engine parameters")
	}
}

func TestSearchBootsScenario(t *testing.T) {
	// Corpus: 2 matching "boots" records among 10; page size 10.
	engine := &stubEngine{result: &typesense.SearchResult{
		Found: 2,
		Hits:  []typesense.Hit{doc("equipment-boots-1"), doc("equipment-boots-2")},
	}}
	svc := newService(engine)

	resp, err := svc.Search(context.Background(), transport.SearchRequest{Q: "boots", Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Documents) != 2 || resp.TotalResults != 2 {
		t.Fatalf("page 1: expected 2 documents and total 2, got %d/%d", len(resp.Documents), resp.TotalResults)
	}

	// Page 2 of the same query: no documents, same total.
	engine.result = &typesense.SearchResult{Found: 2, Hits: nil}
	resp, err = svc.Search(context.Background(), transport.SearchRequest{Q: "boots", Page: 2, PageSize: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Documents) != 0 || resp.TotalResults != 2 {
		t.Fatalf("page 2: expected 0 documents and total 2, got %d/%d", len(resp.Documents), resp.TotalResults)
	}
	if resp.Documents == nil {
		t.Fatal("documents must be an empty list, never nil")
	}
}
