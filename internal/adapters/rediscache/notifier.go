package rediscache

import (
	"context"
	"find-a-house/internal/contextkeys"
	"find-a-house/internal/contracts"
	"find-a-house/internal/core/domain"
	"find-a-house/internal/core/port"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// PubSubClient - публикация в канал. *redis.Client ему удовлетворяет.
type PubSubClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// PubSubNotifier публикует событие о совпадении в канал Redis
type PubSubNotifier struct {
	client  PubSubClient
	channel string
	clock   port.Clock
}

func NewPubSubNotifier(client PubSubClient, channel string, clock port.Clock) (*PubSubNotifier, error) {
	if client == nil {
		return nil, fmt.Errorf("redis notifier: client cannot be nil")
	}
	if channel == "" {
		return nil, fmt.Errorf("redis notifier: channel cannot be empty")
	}
	if clock == nil {
		clock = time.Now
	}
	return &PubSubNotifier{client: client, channel: channel, clock: clock}, nil
}

func (n *PubSubNotifier) Notify(ctx context.Context, matched domain.MatchedListing) error {
	body, err := contracts.MarshalEvent(contracts.NewListingMatchedEvent(matched, n.clock()))
	if err != nil {
		return fmt.Errorf("redis notifier: %w", err)
	}

	receivers, err := n.client.Publish(ctx, n.channel, body).Result()
	if err != nil {
		return fmt.Errorf("redis notifier: publish to %q: %w", n.channel, err)
	}

	notifierLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{"component": "RedisPubSubNotifier"})
	if receivers == 0 {
		notifierLogger.Warn("Matched listing published, but nobody is subscribed", port.Fields{"channel": n.channel, "listing_id": matched.Listing.ID})
		return nil
	}
	notifierLogger.Debug("Matched listing published", port.Fields{"channel": n.channel, "listing_id": matched.Listing.ID, "receivers": receivers})
	return nil
}
