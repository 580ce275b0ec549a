package usecases_port

import (
	"context"
	"find-a-house/internal/core/domain"
	"find-a-house/internal/core/port"
)

type AggregateListingsPort interface {
	FetchAll(ctx context.Context, sources []port.ListingSourcePort) ([]domain.Listing, domain.AggregateStats)
}
