package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/reviewhub/backend/internal/domain/review"
	"go.uber.org/zap"
)

const (
	defaultSummaryTTL      = 5 * time.Minute
	defaultScanBatchSize   = 100
	defaultCleanupInterval = 30 * time.Second
)

// ReviewSummaryCache caches the public rating aggregate per product.
// The aggregate is recomputed from the reviews table on a miss and
// invalidated when a review or group changes.
type ReviewSummaryCache interface {
	Get(ctx context.Context, shop, productID string) (*review.Summary, error)
	Set(ctx context.Context, shop, productID string, summary *review.Summary) error
	InvalidateShop(ctx context.Context, shop string) error
	Close() error
}

// RedisReviewSummaryCache implements ReviewSummaryCache using Redis
type RedisReviewSummaryCache struct {
	client     *redis.Client
	ownsClient bool // true if we created the client and should close it
	ttl        time.Duration
	logger     *zap.Logger
}

// RedisReviewSummaryCacheOption is a functional option for configuring the cache
type RedisReviewSummaryCacheOption func(*RedisReviewSummaryCache)

// WithSummaryTTL sets the summary expiry
func WithSummaryTTL(ttl time.Duration) RedisReviewSummaryCacheOption {
	return func(c *RedisReviewSummaryCache) {
		c.ttl = ttl
	}
}

// WithSummaryLogger sets the logger for the cache
func WithSummaryLogger(logger *zap.Logger) RedisReviewSummaryCacheOption {
	return func(c *RedisReviewSummaryCache) {
		c.logger = logger
	}
}

// NewRedisReviewSummaryCache creates a new Redis-based summary cache
func NewRedisReviewSummaryCache(cfg RedisConfig, opts ...RedisReviewSummaryCacheOption) (*RedisReviewSummaryCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cache := &RedisReviewSummaryCache{
		client:     client,
		ownsClient: true,
		ttl:        defaultSummaryTTL,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache, nil
}

// NewRedisReviewSummaryCacheWithClient creates a cache with an existing Redis client
// Note: The caller retains ownership of the client and is responsible for closing it
func NewRedisReviewSummaryCacheWithClient(client *redis.Client, opts ...RedisReviewSummaryCacheOption) *RedisReviewSummaryCache {
	cache := &RedisReviewSummaryCache{
		client:     client,
		ownsClient: false,
		ttl:        defaultSummaryTTL,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

func (c *RedisReviewSummaryCache) summaryKey(shop, productID string) string {
	return fmt.Sprintf("review:summary:%s:%s", shop, productID)
}

// Get retrieves a product summary from cache; a miss returns nil, nil
func (c *RedisReviewSummaryCache) Get(ctx context.Context, shop, productID string) (*review.Summary, error) {
	key := c.summaryKey(shop, productID)

	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		c.logger.Debug("Cache miss for review summary",
			zap.String("shop", shop),
			zap.String("product_id", productID))
		return nil, nil
	}
	if err != nil {
		c.logger.Error("Failed to get review summary from cache",
			zap.String("shop", shop),
			zap.String("product_id", productID),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get summary from cache: %w", err)
	}

	var summary review.Summary
	if err := json.Unmarshal(data, &summary); err != nil {
		c.logger.Error("Failed to unmarshal review summary",
			zap.String("shop", shop),
			zap.String("product_id", productID),
			zap.Error(err))
		// Delete corrupted cache entry
		_ = c.client.Del(ctx, key)
		return nil, fmt.Errorf("failed to unmarshal summary: %w", err)
	}

	return &summary, nil
}

// Set stores a product summary in cache
func (c *RedisReviewSummaryCache) Set(ctx context.Context, shop, productID string, summary *review.Summary) error {
	if summary == nil {
		return nil
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	if err := c.client.Set(ctx, c.summaryKey(shop, productID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set summary in cache: %w", err)
	}
	return nil
}

// InvalidateShop drops every cached summary for a shop. Review
// moderation and group changes affect pooled aggregates across
// products, so invalidation is shop-wide.
func (c *RedisReviewSummaryCache) InvalidateShop(ctx context.Context, shop string) error {
	pattern := fmt.Sprintf("review:summary:%s:*", shop)

	iter := c.client.Scan(ctx, 0, pattern, defaultScanBatchSize).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan summary keys: %w", err)
	}

	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("failed to delete summary keys: %w", err)
		}
	}
	return nil
}

// Close closes the Redis client if this cache owns it
func (c *RedisReviewSummaryCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

// Ensure RedisReviewSummaryCache implements ReviewSummaryCache
var _ ReviewSummaryCache = (*RedisReviewSummaryCache)(nil)
