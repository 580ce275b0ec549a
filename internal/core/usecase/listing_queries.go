package usecase

import (
	"context"
	"find-a-house/internal/contextkeys"
	"find-a-house/internal/core/domain"
	"find-a-house/internal/core/port"
	"fmt"
	"strings"
	"time"
)

// MaxRecentWindow ограничивает окно выборки свежих объявлений
const MaxRecentWindow = 30 * 24 * time.Hour

var ErrInvalidWindow = fmt.Errorf("window must be between 1h and %s", MaxRecentWindow)

type ListingQueriesUseCase struct {
	repo  port.ListingQueryPort
	clock port.Clock
}

func NewListingQueriesUseCase(repo port.ListingQueryPort, clock port.Clock) *ListingQueriesUseCase {
	if clock == nil {
		clock = time.Now
	}
	return &ListingQueriesUseCase{repo: repo, clock: clock}
}

func (uc *ListingQueriesUseCase) Stats(ctx context.Context) (domain.ListingStats, error) {
	stats, err := uc.repo.Stats(ctx, uc.clock())
	if err != nil {
		return domain.ListingStats{}, fmt.Errorf("listing queries: stats: %w", err)
	}
	return stats, nil
}

func (uc *ListingQueriesUseCase) Recent(ctx context.Context, window time.Duration) ([]domain.StoredListing, error) {
	if window < time.Hour || window > MaxRecentWindow {
		return nil, ErrInvalidWindow
	}
	listings, err := uc.repo.RecentListings(ctx, uc.clock().Add(-window))
	if err != nil {
		return nil, fmt.Errorf("listing queries: recent: %w", err)
	}
	return listings, nil
}

func (uc *ListingQueriesUseCase) Uncontacted(ctx context.Context) ([]domain.StoredListing, error) {
	listings, err := uc.repo.UncontactedListings(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing queries: uncontacted: %w", err)
	}
	return listings, nil
}

func (uc *ListingQueriesUseCase) Get(ctx context.Context, id string) (*domain.StoredListing, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrListingNotFound
	}
	return uc.repo.GetListing(ctx, id)
}

// MarkContacted отмечает, что пользователь откликнулся на объявление.
// Ошибки ErrListingNotFound и ErrAlreadyContacted пробрасываются как есть.
func (uc *ListingQueriesUseCase) MarkContacted(ctx context.Context, id string) error {
	ucLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"use_case":   "MarkContacted",
		"listing_id": id,
	})
	if err := uc.repo.MarkContacted(ctx, strings.TrimSpace(id)); err != nil {
		ucLogger.Warn("Listing was not marked as contacted", port.Fields{"error": err.Error()})
		return err
	}
	ucLogger.Info("Listing marked as contacted", nil)
	return nil
}
