package outreach

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/reviewhub/backend/internal/domain/shared"
)

// ReviewRequestRepository defines the interface for review request persistence
type ReviewRequestRepository interface {
	// FindByID finds a request by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*ReviewRequest, error)

	// FindByOrder finds the request for an order within a shop.
	// Returns shared.ErrNotFound when none exists.
	FindByOrder(ctx context.Context, shop, orderID string) (*ReviewRequest, error)

	// FindAllForShop finds all requests for a shop
	FindAllForShop(ctx context.Context, shop string, filter shared.Filter) ([]ReviewRequest, error)

	// FindDue finds pending requests whose scheduled send date has
	// passed, oldest first, capped at limit.
	FindDue(ctx context.Context, shop string, now time.Time, limit int) ([]ReviewRequest, error)

	// FindDueAcrossShops is FindDue without the shop scope, used by the
	// background poller.
	FindDueAcrossShops(ctx context.Context, now time.Time, limit int) ([]ReviewRequest, error)

	// Create inserts a new request. Returns shared.ErrAlreadyExists when
	// a request for the same (shop, order) pair already exists; the
	// composite unique constraint makes this safe under concurrent
	// webhook deliveries.
	Create(ctx context.Context, r *ReviewRequest) error

	// Save updates an existing request
	Save(ctx context.Context, r *ReviewRequest) error

	// Delete deletes a request
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteAllForShop deletes every request belonging to a shop.
	// Returns the number of rows removed.
	DeleteAllForShop(ctx context.Context, shop string) (int64, error)

	// CountByCustomerEmail counts a customer's requests within a shop
	CountByCustomerEmail(ctx context.Context, shop, email string) (int64, error)

	// DeleteByCustomerEmail deletes a customer's requests within a shop.
	// Returns the number of rows removed.
	DeleteByCustomerEmail(ctx context.Context, shop, email string) (int64, error)

	// Count counts requests matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
