package review

import (
	"context"

	"github.com/google/uuid"
	"github.com/reviewhub/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReviewRepository defines the interface for review persistence
type ReviewRepository interface {
	// FindByID finds a review by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Review, error)

	// FindByIDForShop finds a review by ID within a shop
	FindByIDForShop(ctx context.Context, shop string, id uuid.UUID) (*Review, error)

	// FindAllForShop finds all reviews for a shop
	FindAllForShop(ctx context.Context, shop string, filter shared.Filter) ([]Review, error)

	// FindByProducts finds reviews for any of the given product IDs.
	// When approvedOnly is true, unapproved reviews are excluded.
	FindByProducts(ctx context.Context, shop string, productIDs []string, approvedOnly bool, filter shared.Filter) ([]Review, error)

	// Save creates or updates a review
	Save(ctx context.Context, r *Review) error

	// Delete deletes a review
	Delete(ctx context.Context, id uuid.UUID) error

	// DeleteAllForShop deletes every review belonging to a shop.
	// Returns the number of rows removed.
	DeleteAllForShop(ctx context.Context, shop string) (int64, error)

	// CountByCustomerEmail counts a customer's reviews within a shop
	CountByCustomerEmail(ctx context.Context, shop, email string) (int64, error)

	// DeleteByCustomerEmail deletes a customer's reviews within a shop.
	// Returns the number of rows removed.
	DeleteByCustomerEmail(ctx context.Context, shop, email string) (int64, error)

	// Count counts reviews matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByProducts counts reviews for any of the given product IDs
	CountByProducts(ctx context.Context, shop string, productIDs []string, approvedOnly bool) (int64, error)

	// StatsForShop aggregates moderation counters over all of a shop's
	// reviews in a single query.
	StatsForShop(ctx context.Context, shop string) (*Stats, error)

	// AverageRatingByProducts computes the mean rating over approved
	// reviews for the given product IDs. Returns zero when no reviews exist.
	AverageRatingByProducts(ctx context.Context, shop string, productIDs []string) (decimal.Decimal, error)

	// AssignGroupByProducts stamps the group ID onto every review whose
	// product ID is in the set. Returns the number of rows updated.
	AssignGroupByProducts(ctx context.Context, shop string, groupID uuid.UUID, productIDs []string) (int64, error)

	// ClearGroupAssignments detaches all reviews from the given group.
	// Returns the number of rows updated.
	ClearGroupAssignments(ctx context.Context, shop string, groupID uuid.UUID) (int64, error)
}
