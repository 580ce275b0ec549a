package rest

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"find-a-house/internal/adapters/memstorage"
	"find-a-house/internal/adapters/notifier"
	"find-a-house/internal/contextkeys"
	"find-a-house/internal/core/domain"
	"find-a-house/internal/core/usecase"
)

func newTestServer(t *testing.T) (*httptest.Server, *memstorage.MemoryListingRepository, *notifier.SSENotifier) {
	t.Helper()
	ctx := context.Background()
	logger := contextkeys.LoggerFromContext(ctx)

	repo := memstorage.NewMemoryListingRepository(nil)
	repo.Add(ctx, domain.Listing{ID: "daft_1", Source: "daft", Title: "Studio, Dublin 2", Price: 1500, Bedrooms: 0, Bathrooms: 1, Area: "Dublin 2", URL: "https://www.daft.ie/1"})
	repo.Add(ctx, domain.Listing{ID: "rent_ie_2", Source: "rent_ie", Title: "Room", Price: 800, Bedrooms: domain.BedroomsUnknown, Bathrooms: 1, Area: "Dublin", URL: "https://www.rent.ie/2"})
	repo.MarkNotified(ctx, "daft_1")

	stream := notifier.NewSSENotifier(logger, nil)
	t.Cleanup(func() { stream.Close() })

	handlers := NewListingHandler(usecase.NewListingQueriesUseCase(repo, nil), stream)
	srv := httptest.NewServer(NewRouter(handlers, []string{"*"}, logger))
	t.Cleanup(srv.Close)
	return srv, repo, stream
}

func TestRoutes(t *testing.T) {
	srv, _, _ := newTestServer(t)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantBody   string
	}{
		{"health", http.MethodGet, "/health", http.StatusOK, `"status":"ok"`},
		{"stats", http.MethodGet, "/api/v1/stats", http.StatusOK, `"total":2`},
		{"recent", http.MethodGet, "/api/v1/listings/recent", http.StatusOK, `"total":2`},
		{"recent bad hours", http.MethodGet, "/api/v1/listings/recent?hours=abc", http.StatusBadRequest, `"error"`},
		{"recent window too wide", http.MethodGet, "/api/v1/listings/recent?hours=100000", http.StatusBadRequest, `"error"`},
		{"uncontacted", http.MethodGet, "/api/v1/listings/uncontacted", http.StatusOK, `"id":"daft_1"`},
		{"by id unknown bedrooms", http.MethodGet, "/api/v1/listings/rent_ie_2", http.StatusOK, `"bedrooms":null`},
		{"by id missing", http.MethodGet, "/api/v1/listings/daft_404", http.StatusNotFound, `"error"`},
		{"contacted", http.MethodPost, "/api/v1/listings/daft_1/contacted", http.StatusOK, `"status":"contacted"`},
		{"contacted twice", http.MethodPost, "/api/v1/listings/daft_1/contacted", http.StatusConflict, `Already contacted`},
		{"contacted missing", http.MethodPost, "/api/v1/listings/daft_404/contacted", http.StatusNotFound, `"error"`},
	}
	for _, tt := range tests {
		req, _ := http.NewRequest(tt.method, srv.URL+tt.path, nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		var body strings.Builder
		bufio.NewReader(resp.Body).WriteTo(&body)
		resp.Body.Close()

		if resp.StatusCode != tt.wantStatus {
			t.Errorf("%s: status = %d; want %d (body %s)", tt.name, resp.StatusCode, tt.wantStatus, body.String())
		}
		if !strings.Contains(body.String(), tt.wantBody) {
			t.Errorf("%s: body %s lacks %s", tt.name, body.String(), tt.wantBody)
		}
		if resp.Header.Get("X-Trace-ID") == "" {
			t.Errorf("%s: missing X-Trace-ID header", tt.name)
		}
	}
}

func TestStatsPayload(t *testing.T) {
	srv, _, _ := newTestServer(t)
	resp, err := http.Get(srv.URL + "/api/v1/stats")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var stats domain.ListingStats
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.Total != 2 || stats.Notified != 1 || stats.Last24h != 2 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestSubscribeToMatchesStreamsEvents(t *testing.T) {
	srv, _, stream := newTestServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/api/v1/matches/stream?profile=city", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}

	reader := bufio.NewReader(resp.Body)
	readLine := func() string {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		return strings.TrimRight(line, "\n")
	}

	if line := readLine(); line != "event: connected" {
		t.Fatalf("first line = %q", line)
	}
	readLine() // data: {}
	readLine() // пустая строка

	match := domain.MatchedListing{
		Listing: domain.Listing{ID: "daft_9", Source: "daft", Price: 2000, Bedrooms: 2, Bathrooms: 1, Area: "Dublin 8", URL: "https://www.daft.ie/9"},
		Profile: "city",
		RunID:   "run-1",
	}
	if err := stream.Notify(context.Background(), match); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	if line := readLine(); line != "event: listing.matched" {
		t.Fatalf("event line = %q", line)
	}
	if line := readLine(); !strings.Contains(line, `"id":"daft_9"`) {
		t.Errorf("data line = %q", line)
	}
}
