package rabbitmq

import (
	"context"
	"errors"
	"testing"
	"time"

	"find-a-house/internal/constants"
	"find-a-house/internal/contextkeys"
	"find-a-house/internal/contracts"
	"find-a-house/internal/core/domain"
	"find-a-house/internal/core/port"

	amqp "github.com/rabbitmq/amqp091-go"
)

type fakePublisher struct {
	routingKeys []string
	messages    []amqp.Publishing
	err         error
}

func (p *fakePublisher) Publish(ctx context.Context, routingKey string, msg amqp.Publishing) error {
	if p.err != nil {
		return p.err
	}
	p.routingKeys = append(p.routingKeys, routingKey)
	p.messages = append(p.messages, msg)
	return nil
}

func sampleMatch() domain.MatchedListing {
	return domain.MatchedListing{
		Listing: domain.Listing{
			ID: "daft_1234567", Source: "daft", Title: "2 bed apartment", Price: 2100, Bedrooms: 2, Bathrooms: 1,
			Area: "Dublin 6", URL: "https://www.daft.ie/for-rent/apartment/1234567",
		},
		Profile: "city",
		Score:   1,
		RunID:   "run-42",
	}
}

func TestNotifyPublishesValidEvent(t *testing.T) {
	pub := &fakePublisher{}
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	adapter, err := NewListingNotifierAdapter(pub, constants.RoutingKeyListingMatched, func() time.Time { return fixed })
	if err != nil {
		t.Fatalf("NewListingNotifierAdapter: %v", err)
	}

	ctx := contextkeys.ContextWithTraceID(context.Background(), "run-42")
	if err := adapter.Notify(ctx, sampleMatch()); err != nil {
		t.Fatalf("Notify: %v", err)
	}

	if len(pub.messages) != 1 || pub.routingKeys[0] != constants.RoutingKeyListingMatched {
		t.Fatalf("published %d messages with keys %v", len(pub.messages), pub.routingKeys)
	}
	msg := pub.messages[0]
	if msg.Headers["event-type"] != constants.EventTypeListingMatched || msg.Headers["x-trace-id"] != "run-42" {
		t.Errorf("headers = %v", msg.Headers)
	}
	if msg.DeliveryMode != amqp.Persistent || !msg.Timestamp.Equal(fixed) {
		t.Errorf("delivery mode %d, timestamp %v", msg.DeliveryMode, msg.Timestamp)
	}
	if err := contracts.ValidateEvent(constants.EventTypeListingMatched, constants.EventVersionListingMatched, msg.Body); err != nil {
		t.Errorf("published body violates contract: %v", err)
	}
}

func TestNotifyReturnsPublishError(t *testing.T) {
	pub := &fakePublisher{err: errors.New("channel closed")}
	adapter, _ := NewListingNotifierAdapter(pub, constants.RoutingKeyListingMatched, nil)
	if err := adapter.Notify(context.Background(), sampleMatch()); err == nil {
		t.Error("expected publish error to be returned")
	}
}

func TestNewListingNotifierAdapterValidates(t *testing.T) {
	if _, err := NewListingNotifierAdapter(nil, "key", nil); err == nil {
		t.Error("expected error for nil producer")
	}
	if _, err := NewListingNotifierAdapter(&fakePublisher{}, "", nil); err == nil {
		t.Error("expected error for empty routing key")
	}
}

type capturingLogger struct{ fields []port.Fields }

func (l *capturingLogger) Info(msg string, f port.Fields)             { l.fields = append(l.fields, f) }
func (l *capturingLogger) Warn(msg string, f port.Fields)             { l.fields = append(l.fields, f) }
func (l *capturingLogger) Error(msg string, err error, f port.Fields) { l.fields = append(l.fields, f) }
func (l *capturingLogger) Debug(msg string, f port.Fields)            { l.fields = append(l.fields, f) }
func (l *capturingLogger) WithFields(f port.Fields) port.LoggerPort   { return l }

func TestPkgLoggerBridgeSkipsMalformedPairs(t *testing.T) {
	logger := &capturingLogger{}
	bridge := NewPkgLoggerBridge(logger)
	bridge.Info("declaring exchange", "name", "rental_notifications", 42, "ignored", "dangling")

	got := logger.fields[0]
	if len(got) != 1 || got["name"] != "rental_notifications" {
		t.Errorf("fields = %v; want only name", got)
	}
}
