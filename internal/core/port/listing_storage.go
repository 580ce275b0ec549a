package port

import (
	"context"
	"find-a-house/internal/core/domain"
	"time"
)

// ListingStoragePort - хранилище, через которое идет дедупликация.
// Add возвращает true, только если объявление с таким ID сохранено впервые.
type ListingStoragePort interface {
	Exists(ctx context.Context, id string) (bool, error)
	Add(ctx context.Context, listing domain.Listing) (bool, error)
	MarkNotified(ctx context.Context, id string) error
}

// ListingQueryPort - чтение сохраненных объявлений и статистики
type ListingQueryPort interface {
	GetListing(ctx context.Context, id string) (*domain.StoredListing, error)
	RecentListings(ctx context.Context, since time.Time) ([]domain.StoredListing, error)
	// UncontactedListings - отправленные пользователю, но еще без отклика
	UncontactedListings(ctx context.Context) ([]domain.StoredListing, error)
	MarkContacted(ctx context.Context, id string) error
	Stats(ctx context.Context, now time.Time) (domain.ListingStats, error)
}

// ListingRepositoryPort объединяет запись и чтение
type ListingRepositoryPort interface {
	ListingStoragePort
	ListingQueryPort
}
