package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"equipment_search_backend/internal/browse"
	"equipment_search_backend/platform/logger"
)

func TestFetchBuildsRequest(t *testing.T) {
	var gotPath string
	var gotQuery map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = map[string]string{}
		for k, v := range r.URL.Query() {
			gotQuery[k] = v[0]
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"documents":[{"id":"equipment-1"}],"totalResults":12}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, logger.New("test"))
	resp, err := c.Fetch(context.Background(), browse.Query{
		Text:     "boots",
		Page:     2,
		PageSize: 10,
		SortKey:  "assignee",
		SortDir:  "desc",
		Category: "boots",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/api/v1/search" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotQuery["q"] != "boots" || gotQuery["page"] != "2" || gotQuery["pageSize"] != "10" ||
		gotQuery["sortBy"] != "assignee" || gotQuery["sortDir"] != "desc" || gotQuery["category"] != "boots" {
		t.Fatalf("unexpected query params: %v", gotQuery)
	}
	if len(resp.Documents) != 1 || resp.TotalResults != 12 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestFetchSurfacesGatewayError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"search engine unavailable"}`))
	}))
	defer srv.Close()

	c := New(srv.URL, time.Second, logger.New("test"))
	_, err := c.Fetch(context.Background(), browse.Query{Text: "x", Page: 1, PageSize: 10})
	if err == nil {
		t.Fatal("expected an error")
	}
}
