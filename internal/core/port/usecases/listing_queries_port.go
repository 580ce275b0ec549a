package usecases_port

import (
	"context"
	"find-a-house/internal/core/domain"
	"time"
)

// ListingQueriesPort - чтение сохраненных объявлений и отметка об отклике
type ListingQueriesPort interface {
	Stats(ctx context.Context) (domain.ListingStats, error)
	Recent(ctx context.Context, window time.Duration) ([]domain.StoredListing, error)
	Uncontacted(ctx context.Context) ([]domain.StoredListing, error)
	Get(ctx context.Context, id string) (*domain.StoredListing, error)
	MarkContacted(ctx context.Context, id string) error
}
