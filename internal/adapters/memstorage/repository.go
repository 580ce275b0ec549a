package memstorage

import (
	"context"
	"find-a-house/internal/core/domain"
	"find-a-house/internal/core/port"
	"fmt"
	"sort"
	"sync"
	"time"
)

// MemoryListingRepository - хранилище в памяти процесса, используется без DATABASE_URL.
// Объявления теряются при перезапуске, поэтому после старта все снова считаются новыми.
type MemoryListingRepository struct {
	mu       sync.RWMutex
	listings map[string]*domain.StoredListing
	clock    port.Clock
}

func NewMemoryListingRepository(clock port.Clock) *MemoryListingRepository {
	if clock == nil {
		clock = time.Now
	}
	return &MemoryListingRepository{
		listings: make(map[string]*domain.StoredListing),
		clock:    clock,
	}
}

func (r *MemoryListingRepository) Exists(ctx context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.listings[id]
	return ok, nil
}

// Add сохраняет объявление, если его еще нет. Повторное добавление ничего не меняет.
func (r *MemoryListingRepository) Add(ctx context.Context, listing domain.Listing) (bool, error) {
	if listing.ID == "" {
		return false, fmt.Errorf("memstorage: listing without id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.listings[listing.ID]; ok {
		return false, nil
	}
	r.listings[listing.ID] = &domain.StoredListing{
		Listing:     listing,
		FirstSeenAt: r.clock().UTC(),
		IsActive:    true,
	}
	return true, nil
}

func (r *MemoryListingRepository) MarkNotified(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.listings[id]
	if !ok {
		return fmt.Errorf("mark notified %s: %w", id, domain.ErrListingNotFound)
	}
	now := r.clock().UTC()
	stored.NotifiedAt = &now
	return nil
}

func (r *MemoryListingRepository) MarkContacted(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.listings[id]
	if !ok {
		return fmt.Errorf("mark contacted %s: %w", id, domain.ErrListingNotFound)
	}
	if stored.ContactedAt != nil {
		return fmt.Errorf("mark contacted %s: %w", id, domain.ErrAlreadyContacted)
	}
	now := r.clock().UTC()
	stored.ContactedAt = &now
	return nil
}

func (r *MemoryListingRepository) GetListing(ctx context.Context, id string) (*domain.StoredListing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.listings[id]
	if !ok {
		return nil, domain.ErrListingNotFound
	}
	copied := *stored
	return &copied, nil
}

// RecentListings - объявления, впервые увиденные не раньше since, новые первыми
func (r *MemoryListingRepository) RecentListings(ctx context.Context, since time.Time) ([]domain.StoredListing, error) {
	return r.collect(func(s *domain.StoredListing) bool {
		return !s.FirstSeenAt.Before(since)
	}), nil
}

func (r *MemoryListingRepository) UncontactedListings(ctx context.Context) ([]domain.StoredListing, error) {
	return r.collect(func(s *domain.StoredListing) bool {
		return s.NotifiedAt != nil && s.ContactedAt == nil && s.IsActive
	}), nil
}

func (r *MemoryListingRepository) collect(keep func(*domain.StoredListing) bool) []domain.StoredListing {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.StoredListing, 0)
	for _, stored := range r.listings {
		if keep(stored) {
			out = append(out, *stored)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].FirstSeenAt.Equal(out[j].FirstSeenAt) {
			return out[i].FirstSeenAt.After(out[j].FirstSeenAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (r *MemoryListingRepository) Stats(ctx context.Context, now time.Time) (domain.ListingStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cutoff := now.Add(-24 * time.Hour)
	var stats domain.ListingStats
	for _, s := range r.listings {
		stats.Total++
		if !s.FirstSeenAt.Before(cutoff) {
			stats.Last24h++
		}
		if s.IsActive {
			stats.Active++
		}
		if s.NotifiedAt != nil {
			stats.Notified++
			if !s.NotifiedAt.Before(cutoff) {
				stats.NotifiedLast24++
			}
		}
		if s.ContactedAt != nil {
			stats.Contacted++
			if !s.ContactedAt.Before(cutoff) {
				stats.ContactedLast24++
			}
		}
	}
	return stats, nil
}
