package outreach

import (
	"context"

	"github.com/google/uuid"
	"github.com/reviewhub/backend/internal/domain/shared"
)

// WebhookLogRepository defines the interface for webhook log persistence
type WebhookLogRepository interface {
	// Create appends a new log row
	Create(ctx context.Context, l *WebhookLog) error

	// Save updates an existing log row
	Save(ctx context.Context, l *WebhookLog) error

	// FindByID finds a log row by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*WebhookLog, error)

	// FindAllForShop finds log rows for a shop, newest first
	FindAllForShop(ctx context.Context, shop string, filter shared.Filter) ([]WebhookLog, error)

	// DeleteAllForShop deletes every log row belonging to a shop.
	// Returns the number of rows removed.
	DeleteAllForShop(ctx context.Context, shop string) (int64, error)
}

// SessionRepository defines the interface for Shopify session persistence
type SessionRepository interface {
	// FindByID finds a session by its Shopify session ID
	FindByID(ctx context.Context, id string) (*Session, error)

	// FindByShop finds all sessions for a shop
	FindByShop(ctx context.Context, shop string) ([]Session, error)

	// Save creates or updates a session
	Save(ctx context.Context, s *Session) error

	// DeleteAllForShop deletes every session belonging to a shop.
	// Returns the number of rows removed.
	DeleteAllForShop(ctx context.Context, shop string) (int64, error)
}
