package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"creation-server/internal/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// publishedFeedKey - ключ, под которым кэшируется публичная лента.
const publishedFeedKey = "published_creations"

// FeedCache определяет методы для кэширования публичной ленты.
// Промахи кэша и ошибки Redis не являются фатальными: вызывающий код
// должен в этом случае идти в БД.
//
//go:generate mockery --name FeedCache --output ../mocks --outpkg mocks --case=underscore
type FeedCache interface {
	// GetPublished возвращает закэшированную ленту.
	// Возвращает models.ErrNotFound при промахе кэша.
	GetPublished(ctx context.Context) ([]models.Creation, error)

	// SetPublished кэширует ленту с TTL.
	SetPublished(ctx context.Context, creations []models.Creation) error

	// Invalidate сбрасывает кэш ленты (после публикации или лайка).
	Invalidate(ctx context.Context) error
}

// Compile-time check to ensure redisFeedCache implements FeedCache
var _ FeedCache = (*redisFeedCache)(nil)

type redisFeedCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisFeedCache creates a new Redis-backed FeedCache.
func NewRedisFeedCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) FeedCache {
	return &redisFeedCache{
		client: client,
		ttl:    ttl,
		logger: logger.Named("RedisFeedCache"),
	}
}

// GetPublished возвращает закэшированную публичную ленту.
func (c *redisFeedCache) GetPublished(ctx context.Context) ([]models.Creation, error) {
	data, err := c.client.Get(ctx, publishedFeedKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			c.logger.Debug("Published feed cache miss")
			return nil, models.ErrNotFound
		}
		c.logger.Error("Failed to get published feed from redis", zap.Error(err))
		return nil, fmt.Errorf("failed to get published feed from redis: %w", err)
	}

	var creations []models.Creation
	if err := json.Unmarshal(data, &creations); err != nil {
		// Поврежденные данные в кэше: сбрасываем ключ и считаем промахом.
		c.logger.Error("Corrupted published feed data in redis, invalidating", zap.Error(err))
		c.client.Del(ctx, publishedFeedKey)
		return nil, models.ErrNotFound
	}

	c.logger.Debug("Published feed cache hit", zap.Int("count", len(creations)))
	return creations, nil
}

// SetPublished кэширует публичную ленту.
func (c *redisFeedCache) SetPublished(ctx context.Context, creations []models.Creation) error {
	data, err := json.Marshal(creations)
	if err != nil {
		c.logger.Error("Failed to marshal published feed for cache", zap.Error(err))
		return fmt.Errorf("failed to marshal published feed: %w", err)
	}

	if err := c.client.Set(ctx, publishedFeedKey, data, c.ttl).Err(); err != nil {
		c.logger.Error("Failed to set published feed in redis", zap.Error(err))
		return fmt.Errorf("failed to set published feed in redis: %w", err)
	}

	c.logger.Debug("Published feed cached", zap.Int("count", len(creations)), zap.Duration("ttl", c.ttl))
	return nil
}

// Invalidate сбрасывает кэш публичной ленты.
func (c *redisFeedCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, publishedFeedKey).Err(); err != nil {
		c.logger.Error("Failed to invalidate published feed cache", zap.Error(err))
		return fmt.Errorf("failed to invalidate published feed cache: %w", err)
	}
	c.logger.Debug("Published feed cache invalidated")
	return nil
}
