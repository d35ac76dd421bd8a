package cache

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/reviewhub/backend/internal/domain/review"
	"go.uber.org/zap"
)

// InMemoryReviewSummaryCache implements ReviewSummaryCache using
// in-memory storage. Suitable for single-instance deployments and as a
// fallback when Redis is unavailable.
type InMemoryReviewSummaryCache struct {
	summaries sync.Map // map[string]*summaryEntry
	ttl       time.Duration
	logger    *zap.Logger
	stopCh    chan struct{}
	stopped   int32

	// Stats for monitoring
	hits   int64
	misses int64
}

// summaryEntry wraps a cached summary with expiration time
type summaryEntry struct {
	value     *review.Summary
	expiresAt time.Time
}

func (e *summaryEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// InMemoryReviewSummaryCacheOption is a functional option for configuring the cache
type InMemoryReviewSummaryCacheOption func(*InMemoryReviewSummaryCache)

// WithInMemorySummaryTTL sets the summary expiry
func WithInMemorySummaryTTL(ttl time.Duration) InMemoryReviewSummaryCacheOption {
	return func(c *InMemoryReviewSummaryCache) {
		c.ttl = ttl
	}
}

// WithInMemorySummaryLogger sets the logger for the cache
func WithInMemorySummaryLogger(logger *zap.Logger) InMemoryReviewSummaryCacheOption {
	return func(c *InMemoryReviewSummaryCache) {
		c.logger = logger
	}
}

// NewInMemoryReviewSummaryCache creates a new in-memory summary cache.
// It starts a background goroutine to clean up expired entries.
func NewInMemoryReviewSummaryCache(opts ...InMemoryReviewSummaryCacheOption) *InMemoryReviewSummaryCache {
	cache := &InMemoryReviewSummaryCache{
		ttl:    defaultSummaryTTL,
		logger: zap.NewNop(),
		stopCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(cache)
	}

	go cache.cleanupExpiredSummaries()

	return cache
}

func (c *InMemoryReviewSummaryCache) summaryKey(shop, productID string) string {
	return shop + ":" + productID
}

// Get retrieves a product summary from cache; a miss returns nil, nil
func (c *InMemoryReviewSummaryCache) Get(ctx context.Context, shop, productID string) (*review.Summary, error) {
	key := c.summaryKey(shop, productID)

	if value, ok := c.summaries.Load(key); ok {
		entry := value.(*summaryEntry)
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			return entry.value, nil
		}
		// Expired, remove from cache
		c.summaries.Delete(key)
	}

	atomic.AddInt64(&c.misses, 1)
	c.logger.Debug("Cache miss for review summary",
		zap.String("shop", shop),
		zap.String("product_id", productID))
	return nil, nil
}

// Set stores a product summary in cache
func (c *InMemoryReviewSummaryCache) Set(ctx context.Context, shop, productID string, summary *review.Summary) error {
	if summary == nil {
		return nil
	}

	c.summaries.Store(c.summaryKey(shop, productID), &summaryEntry{
		value:     summary,
		expiresAt: time.Now().Add(c.ttl),
	})
	return nil
}

// InvalidateShop drops every cached summary for a shop
func (c *InMemoryReviewSummaryCache) InvalidateShop(ctx context.Context, shop string) error {
	prefix := shop + ":"
	c.summaries.Range(func(key, _ any) bool {
		if strings.HasPrefix(key.(string), prefix) {
			c.summaries.Delete(key)
		}
		return true
	})
	return nil
}

// Close stops the cleanup goroutine
func (c *InMemoryReviewSummaryCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

// Stats returns cache hit and miss counters
func (c *InMemoryReviewSummaryCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// cleanupExpiredSummaries periodically removes expired entries
func (c *InMemoryReviewSummaryCache) cleanupExpiredSummaries() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.summaries.Range(func(key, value any) bool {
				if value.(*summaryEntry).isExpired() {
					c.summaries.Delete(key)
				}
				return true
			})
		}
	}
}

// Ensure InMemoryReviewSummaryCache implements ReviewSummaryCache
var _ ReviewSummaryCache = (*InMemoryReviewSummaryCache)(nil)
