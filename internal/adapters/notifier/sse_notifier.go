package notifier

import (
	"context"
	"find-a-house/internal/constants"
	"find-a-house/internal/contextkeys"
	"find-a-house/internal/contracts"
	"find-a-house/internal/core/domain"
	"find-a-house/internal/core/port"
	"fmt"
	"sync"
	"time"
)

// AllProfiles - ключ подписки на совпадения по всем профилям
const AllProfiles = ""

// ClientChannel - канал, через который события уходят одному клиенту (вкладке браузера)
type ClientChannel chan []byte

type matchWithContext struct {
	ctx     context.Context
	matched domain.MatchedListing
}

// SSENotifier рассылает совпадения подписчикам Server-Sent Events.
// Notify не блокирует цикл: событие уходит во внутренний буфер, рассылкой занимается dispatcher.
type SSENotifier struct {
	// clients: ключ - имя профиля (AllProfiles - все), значение - открытые соединения
	clients map[string][]ClientChannel
	mu      sync.RWMutex

	events chan matchWithContext
	done   chan struct{}
	once   sync.Once
	clock  port.Clock

	logger port.LoggerPort
}

func NewSSENotifier(baseLogger port.LoggerPort, clock port.Clock) *SSENotifier {
	if clock == nil {
		clock = time.Now
	}
	n := &SSENotifier{
		clients: make(map[string][]ClientChannel),
		events:  make(chan matchWithContext, 100),
		done:    make(chan struct{}),
		clock:   clock,
		logger:  baseLogger.WithFields(port.Fields{"component": "SSENotifier"}),
	}

	go n.dispatcher()

	return n
}

func (n *SSENotifier) dispatcher() {
	n.logger.Debug("Notifier dispatcher started.", nil)
	for {
		select {
		case <-n.done:
			n.logger.Debug("Notifier dispatcher stopped.", nil)
			return
		case ev := <-n.events:
			n.dispatch(ev)
		}
	}
}

func (n *SSENotifier) dispatch(ev matchWithContext) {
	eventLogger := contextkeys.LoggerFromContext(ev.ctx).WithFields(port.Fields{
		"component":  "SSENotifier.dispatcher",
		"listing_id": ev.matched.Listing.ID,
		"profile":    ev.matched.Profile,
	})

	body, err := contracts.MarshalEvent(contracts.NewListingMatchedEvent(ev.matched, n.clock()))
	if err != nil {
		eventLogger.Error("Failed to marshal event", err, nil)
		return
	}
	message := []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", constants.RoutingKeyListingMatched, body))

	n.mu.RLock()
	defer n.mu.RUnlock()

	targets := append([]ClientChannel{}, n.clients[AllProfiles]...)
	if ev.matched.Profile != AllProfiles {
		targets = append(targets, n.clients[ev.matched.Profile]...)
	}
	if len(targets) == 0 {
		eventLogger.Debug("No active clients, event dropped.", nil)
		return
	}

	for _, ch := range targets {
		// клиент с переполненным буфером пропускает событие
		select {
		case ch <- message:
		default:
			eventLogger.Warn("Client channel is full, skipping.", nil)
		}
	}
}

// Notify ставит событие в очередь рассылки. При полном буфере событие отбрасывается.
func (n *SSENotifier) Notify(ctx context.Context, matched domain.MatchedListing) error {
	select {
	case <-n.done:
		return fmt.Errorf("sse notifier: closed")
	default:
	}

	select {
	case n.events <- matchWithContext{ctx: ctx, matched: matched}:
	default:
		contextkeys.LoggerFromContext(ctx).Warn("SSE event buffer is full, event dropped", port.Fields{"listing_id": matched.Listing.ID})
	}
	return nil
}

// AddClient регистрирует новое SSE-соединение для профиля
func (n *SSENotifier) AddClient(profile string) ClientChannel {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch := make(ClientChannel, 100)
	n.clients[profile] = append(n.clients[profile], ch)

	n.logger.Info("Client connected", port.Fields{
		"profile":           profile,
		"total_connections": len(n.clients[profile]),
	})
	return ch
}

// RemoveClient удаляет канал клиента, когда тот отключился
func (n *SSENotifier) RemoveClient(profile string, ch ClientChannel) {
	n.mu.Lock()
	defer n.mu.Unlock()

	channels, found := n.clients[profile]
	if !found {
		return
	}
	remaining := make([]ClientChannel, 0, len(channels))
	for _, c := range channels {
		if c != ch {
			remaining = append(remaining, c)
		}
	}

	if len(remaining) == 0 {
		delete(n.clients, profile)
		n.logger.Debug("Last client disconnected for profile.", port.Fields{"profile": profile})
		return
	}
	n.clients[profile] = remaining
	n.logger.Info("Client disconnected", port.Fields{
		"profile":               profile,
		"remaining_connections": len(remaining),
	})
}

// Close останавливает dispatcher. Открытые соединения закрывает HTTP-сервер.
func (n *SSENotifier) Close() error {
	n.once.Do(func() { close(n.done) })
	return nil
}
