package notifier

import (
	"context"
	"find-a-house/internal/contextkeys"
	"find-a-house/internal/core/domain"
	"find-a-house/internal/core/port"
)

// LogNotifier пишет совпадения в лог. Используется, когда брокер не настроен.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(ctx context.Context, matched domain.MatchedListing) error {
	l := matched.Listing
	contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"component": "LogNotifier"}).Info(FormatTitle(l), port.Fields{
		"listing_id": l.ID,
		"source":     l.Source,
		"title":      l.Title,
		"area":       l.Area,
		"price":      l.Price,
		"bedrooms":   l.BedroomsLabel(),
		"profile":    matched.Profile,
		"score":      matched.Score,
		"url":        l.URL,
	})
	return nil
}
