package memstorage

import (
	"context"
	"errors"
	"testing"
	"time"

	"find-a-house/internal/core/domain"
)

type stepClock struct{ now time.Time }

func (c *stepClock) Now() time.Time { return c.now }

func TestAddIsIdempotentByID(t *testing.T) {
	repo := NewMemoryListingRepository(nil)
	ctx := context.Background()
	l := domain.Listing{ID: "daft_1", Price: 1800, Bedrooms: domain.BedroomsUnknown}

	added, err := repo.Add(ctx, l)
	if err != nil || !added {
		t.Fatalf("first Add = %v, %v; want true", added, err)
	}
	l.Price = 1700
	added, err = repo.Add(ctx, l)
	if err != nil || added {
		t.Fatalf("second Add = %v, %v; want false", added, err)
	}

	stored, err := repo.GetListing(ctx, "daft_1")
	if err != nil {
		t.Fatalf("GetListing: %v", err)
	}
	if stored.Price != 1800 || stored.Bedrooms != domain.BedroomsUnknown {
		t.Errorf("stored = %+v; first version must be kept with unknown bedrooms", stored.Listing)
	}
	if ok, _ := repo.Exists(ctx, "daft_1"); !ok {
		t.Error("Exists must report a stored listing")
	}
}

func TestMarkContactedOnlyOnce(t *testing.T) {
	repo := NewMemoryListingRepository(nil)
	ctx := context.Background()
	repo.Add(ctx, domain.Listing{ID: "myhome_7"})

	if err := repo.MarkContacted(ctx, "myhome_7"); err != nil {
		t.Fatalf("MarkContacted: %v", err)
	}
	if err := repo.MarkContacted(ctx, "myhome_7"); !errors.Is(err, domain.ErrAlreadyContacted) {
		t.Errorf("second MarkContacted err = %v; want ErrAlreadyContacted", err)
	}
	if err := repo.MarkContacted(ctx, "missing"); !errors.Is(err, domain.ErrListingNotFound) {
		t.Errorf("unknown id err = %v; want ErrListingNotFound", err)
	}
}

func TestRecentAndStats(t *testing.T) {
	clock := &stepClock{now: time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)}
	repo := NewMemoryListingRepository(clock.Now)
	ctx := context.Background()

	repo.Add(ctx, domain.Listing{ID: "rent_ie_old"})
	repo.MarkNotified(ctx, "rent_ie_old")

	clock.now = clock.now.Add(48 * time.Hour)
	repo.Add(ctx, domain.Listing{ID: "rent_ie_new"})
	repo.MarkNotified(ctx, "rent_ie_new")
	repo.MarkContacted(ctx, "rent_ie_new")

	recent, _ := repo.RecentListings(ctx, clock.now.Add(-24*time.Hour))
	if len(recent) != 1 || recent[0].ID != "rent_ie_new" {
		t.Errorf("recent = %v; want only rent_ie_new", recent)
	}

	uncontacted, _ := repo.UncontactedListings(ctx)
	if len(uncontacted) != 1 || uncontacted[0].ID != "rent_ie_old" {
		t.Errorf("uncontacted = %v; want only rent_ie_old", uncontacted)
	}

	stats, _ := repo.Stats(ctx, clock.now)
	want := domain.ListingStats{Total: 2, Notified: 2, Contacted: 1, Active: 2, Last24h: 1, NotifiedLast24: 1, ContactedLast24: 1}
	if stats != want {
		t.Errorf("stats = %+v; want %+v", stats, want)
	}
}
