package rediscache

import (
	"context"
	"find-a-house/internal/contextkeys"
	"find-a-house/internal/core/domain"
	"find-a-house/internal/core/port"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const seenKeyPrefix = "find-a-house:seen:"

// SeenClient - команды Redis, нужные кэшу. *redis.Client им удовлетворяет.
type SeenClient interface {
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
}

// SeenCacheRepository - декоратор хранилища с кэшем уже виденных ID.
// Ключ в кэше означает, что объявление уже сохранялось; отсутствие ключа ничего не значит,
// решение тогда принимает внутреннее хранилище. Ошибки Redis не прерывают цикл.
type SeenCacheRepository struct {
	port.ListingRepositoryPort
	client SeenClient
	ttl    time.Duration
}

func NewSeenCacheRepository(inner port.ListingRepositoryPort, client SeenClient, ttl time.Duration) (*SeenCacheRepository, error) {
	if inner == nil {
		return nil, fmt.Errorf("seen cache: inner repository cannot be nil")
	}
	if client == nil {
		return nil, fmt.Errorf("seen cache: redis client cannot be nil")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("seen cache: ttl must be positive, got %s", ttl)
	}
	return &SeenCacheRepository{ListingRepositoryPort: inner, client: client, ttl: ttl}, nil
}

func seenKey(id string) string {
	return seenKeyPrefix + id
}

func (r *SeenCacheRepository) logger(ctx context.Context, method string) port.LoggerPort {
	return contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "SeenCacheRepository",
		"method":    method,
	})
}

// cached сообщает, есть ли ID в кэше; при ошибке Redis считаем, что нет
func (r *SeenCacheRepository) cached(ctx context.Context, id string) bool {
	n, err := r.client.Exists(ctx, seenKey(id)).Result()
	if err != nil {
		r.logger(ctx, "cached").Warn("Redis EXISTS failed, falling back to storage", port.Fields{"id": id, "error": err.Error()})
		return false
	}
	return n > 0
}

func (r *SeenCacheRepository) remember(ctx context.Context, id string) {
	if err := r.client.SetNX(ctx, seenKey(id), 1, r.ttl).Err(); err != nil {
		r.logger(ctx, "remember").Warn("Redis SETNX failed", port.Fields{"id": id, "error": err.Error()})
	}
}

func (r *SeenCacheRepository) Exists(ctx context.Context, id string) (bool, error) {
	if r.cached(ctx, id) {
		return true, nil
	}
	return r.ListingRepositoryPort.Exists(ctx, id)
}

// Add не обращается к хранилищу, если ID уже есть в кэше
func (r *SeenCacheRepository) Add(ctx context.Context, listing domain.Listing) (bool, error) {
	if listing.ID != "" && r.cached(ctx, listing.ID) {
		return false, nil
	}

	inserted, err := r.ListingRepositoryPort.Add(ctx, listing)
	if err != nil {
		return false, err
	}
	r.remember(ctx, listing.ID)
	return inserted, nil
}
