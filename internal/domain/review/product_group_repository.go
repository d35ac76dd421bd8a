package review

import (
	"context"

	"github.com/google/uuid"
	"github.com/reviewhub/backend/internal/domain/shared"
)

// ProductGroupRepository defines the interface for product group persistence
type ProductGroupRepository interface {
	// FindByID finds a group by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*ProductGroup, error)

	// FindByIDForShop finds a group by ID within a shop
	FindByIDForShop(ctx context.Context, shop string, id uuid.UUID) (*ProductGroup, error)

	// FindAllForShop finds all groups for a shop
	FindAllForShop(ctx context.Context, shop string, filter shared.Filter) ([]ProductGroup, error)

	// FindByProduct finds the group containing the given product, if any.
	// Returns shared.ErrNotFound when the product is ungrouped.
	FindByProduct(ctx context.Context, shop string, productID string) (*ProductGroup, error)

	// Save creates or updates a group
	Save(ctx context.Context, g *ProductGroup) error

	// Delete deletes a group
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteAllForShop deletes every group belonging to a shop.
	// Returns the number of rows removed.
	DeleteAllForShop(ctx context.Context, shop string) (int64, error)

	// Count counts groups matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
