package port

import (
	"context"
	"find-a-house/internal/core/domain"
)

// ListingSourcePort - один сайт с объявлениями.
// Ошибка страницы обрывает пагинацию, но уже собранные объявления возвращаются.
type ListingSourcePort interface {
	Name() string
	FetchListings(ctx context.Context) ([]domain.Listing, error)
}
