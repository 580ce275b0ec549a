package notifier

import (
	"context"
	"errors"
	"find-a-house/internal/contextkeys"
	"find-a-house/internal/core/domain"
	"find-a-house/internal/core/port"
	"fmt"
)

// FanoutNotifier отправляет совпадение во все каналы по очереди.
// Каналы опрашиваются все, даже если какой-то из них упал; ошибки объединяются.
type FanoutNotifier struct {
	notifiers []port.NotifierPort
}

func NewFanoutNotifier(notifiers ...port.NotifierPort) (*FanoutNotifier, error) {
	active := make([]port.NotifierPort, 0, len(notifiers))
	for _, n := range notifiers {
		if n != nil {
			active = append(active, n)
		}
	}
	if len(active) == 0 {
		return nil, fmt.Errorf("fanout notifier: at least one notifier is required")
	}
	return &FanoutNotifier{notifiers: active}, nil
}

func (f *FanoutNotifier) Notify(ctx context.Context, matched domain.MatchedListing) error {
	var errs []error
	for _, n := range f.notifiers {
		if err := n.Notify(ctx, matched); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}

	contextkeys.LoggerFromContext(ctx).Warn("Notifiers failed", port.Fields{
		"component":  "FanoutNotifier",
		"listing_id": matched.Listing.ID,
		"failed":     len(errs),
		"total":      len(f.notifiers),
	})
	return fmt.Errorf("fanout notifier: %w", errors.Join(errs...))
}
