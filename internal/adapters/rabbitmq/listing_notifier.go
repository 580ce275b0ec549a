package rabbitmq

import (
	"context"
	"find-a-house/internal/constants"
	"find-a-house/internal/contextkeys"
	"find-a-house/internal/contracts"
	"find-a-house/internal/core/domain"
	"find-a-house/internal/core/port"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 10 * time.Second

// Publisher - то, что адаптеру нужно от производителя.
// *rabbitmq_producer.Publisher ему удовлетворяет.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error
}

// ListingNotifierAdapter публикует подходящие объявления в обменник уведомлений
type ListingNotifierAdapter struct {
	producer   Publisher
	routingKey string
	clock      port.Clock
}

func NewListingNotifierAdapter(producer Publisher, routingKey string, clock port.Clock) (*ListingNotifierAdapter, error) {
	if producer == nil {
		return nil, fmt.Errorf("rabbitmq adapter: producer cannot be nil")
	}
	if routingKey == "" {
		return nil, fmt.Errorf("rabbitmq adapter: routingKey cannot be empty")
	}
	if clock == nil {
		clock = time.Now
	}
	return &ListingNotifierAdapter{producer: producer, routingKey: routingKey, clock: clock}, nil
}

func (a *ListingNotifierAdapter) Notify(ctx context.Context, matched domain.MatchedListing) error {
	adapterLogger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "RabbitMQListingNotifier",
		"routing_key": a.routingKey,
		"listing_id":  matched.Listing.ID,
	})

	event := contracts.NewListingMatchedEvent(matched, a.clock())
	body, err := contracts.MarshalEvent(event)
	if err != nil {
		adapterLogger.Error("Event does not satisfy contract", err, nil)
		return fmt.Errorf("rabbitmq notifier: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.MatchedAt,
		MessageId:    event.EventID.String(),
		Headers: amqp.Table{
			"event-type":    constants.EventTypeListingMatched,
			"event-version": constants.EventVersionListingMatched,
			"source":        matched.Listing.Source,
		},
	}
	if traceID := contextkeys.TraceIDFromContext(ctx); traceID != "" {
		msg.Headers["x-trace-id"] = traceID
	}

	publishCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := a.producer.Publish(publishCtx, a.routingKey, msg); err != nil {
		adapterLogger.Error("Failed to publish matched listing", err, nil)
		return fmt.Errorf("rabbitmq notifier: %w", err)
	}

	adapterLogger.Info("Matched listing published", port.Fields{"profile": matched.Profile, "event_id": event.EventID.String()})
	return nil
}
