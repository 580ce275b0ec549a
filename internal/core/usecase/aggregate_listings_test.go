package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"find-a-house/internal/core/domain"
	"find-a-house/internal/core/port"
	"find-a-house/internal/core/usecase"
)

type staticSource struct {
	name     string
	listings []domain.Listing
}

func (s *staticSource) Name() string { return s.name }
func (s *staticSource) FetchListings(ctx context.Context) ([]domain.Listing, error) {
	return s.listings, nil
}

type panicSource struct{}

func (panicSource) Name() string { return "panics" }
func (panicSource) FetchListings(ctx context.Context) ([]domain.Listing, error) {
	panic("selector exploded")
}

type errorSource struct{}

func (errorSource) Name() string { return "errors" }
func (errorSource) FetchListings(ctx context.Context) ([]domain.Listing, error) {
	return []domain.Listing{{ID: "errors_1"}}, errors.New("bad gateway")
}

// hangingSource не смотрит на контекст и держит горутину до release
type hangingSource struct {
	release chan struct{}
}

func (h *hangingSource) Name() string { return "hangs" }
func (h *hangingSource) FetchListings(ctx context.Context) ([]domain.Listing, error) {
	<-h.release
	return []domain.Listing{{ID: "hangs_1"}}, nil
}

func listingsWithIDs(ids ...string) []domain.Listing {
	out := make([]domain.Listing, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.Listing{ID: id, Bedrooms: domain.BedroomsUnknown})
	}
	return out
}

func TestFetchAllIsolatesFailures(t *testing.T) {
	hang := &hangingSource{release: make(chan struct{})}
	t.Cleanup(func() { close(hang.release) })

	sources := []port.ListingSourcePort{
		&staticSource{name: "daft", listings: listingsWithIDs("daft_1", "daft_2")},
		panicSource{},
		hang,
		errorSource{},
		&staticSource{name: "rent_ie", listings: listingsWithIDs("rent_ie_9")},
	}

	uc := usecase.NewAggregateListingsUseCase(50 * time.Millisecond)
	got, stats := uc.FetchAll(context.Background(), sources)

	wantIDs := []string{"daft_1", "daft_2", "rent_ie_9"}
	if len(got) != len(wantIDs) {
		t.Fatalf("FetchAll returned %d listings; want %d", len(got), len(wantIDs))
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("listing %d = %q; want %q", i, got[i].ID, id)
		}
	}

	if stats.Configured != 5 || stats.Succeeded != 2 || stats.Failed != 2 || stats.TimedOut != 1 {
		t.Errorf("stats = %+v; want configured 5, succeeded 2, failed 2, timed out 1", stats)
	}
	if len(stats.Outcomes) != 5 || !stats.Outcomes[2].TimedOut {
		t.Errorf("outcome of hanging source should be marked as timed out: %+v", stats.Outcomes)
	}
}

func TestFetchAllNoSources(t *testing.T) {
	uc := usecase.NewAggregateListingsUseCase(time.Second)
	got, stats := uc.FetchAll(context.Background(), nil)
	if len(got) != 0 || stats.Configured != 0 {
		t.Errorf("FetchAll(nil) = %v, %+v; want empty", got, stats)
	}
}

type ctxAwareSource struct{}

func (ctxAwareSource) Name() string { return "slow" }
func (ctxAwareSource) FetchListings(ctx context.Context) ([]domain.Listing, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(5 * time.Second):
		return listingsWithIDs("slow_1"), nil
	}
}

func TestFetchAllCountsDeadlineAsTimeout(t *testing.T) {
	uc := usecase.NewAggregateListingsUseCase(20 * time.Millisecond)
	got, stats := uc.FetchAll(context.Background(), []port.ListingSourcePort{ctxAwareSource{}})
	if len(got) != 0 {
		t.Errorf("expected empty contribution, got %d listings", len(got))
	}
	if stats.TimedOut != 1 {
		t.Errorf("TimedOut = %d; want 1", stats.TimedOut)
	}
}
