package port

import (
	"context"
	"find-a-house/internal/core/domain"
)

// NotifierPort доставляет подходящее объявление пользователю
type NotifierPort interface {
	Notify(ctx context.Context, matched domain.MatchedListing) error
}
