package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/reviewhub/backend/internal/domain/review"
	"github.com/reviewhub/backend/internal/domain/shared"
	"github.com/reviewhub/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReviewRepository implements ReviewRepository using GORM
type GormReviewRepository struct {
	db *gorm.DB
}

// NewGormReviewRepository creates a new GormReviewRepository
func NewGormReviewRepository(db *gorm.DB) *GormReviewRepository {
	return &GormReviewRepository{db: db}
}

// FindByID finds a review by its ID
func (r *GormReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*review.Review, error) {
	var model models.ReviewModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForShop finds a review by ID within a shop
func (r *GormReviewRepository) FindByIDForShop(ctx context.Context, shop string, id uuid.UUID) (*review.Review, error) {
	var model models.ReviewModel
	if err := r.db.WithContext(ctx).
		Where("shop = ? AND id = ?", shop, id).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForShop finds all reviews for a shop
func (r *GormReviewRepository) FindAllForShop(ctx context.Context, shop string, filter shared.Filter) ([]review.Review, error) {
	var rows []models.ReviewModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.ReviewModel{}).Where("shop = ?", shop), filter)
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainReviews(rows), nil
}

// FindByProducts finds reviews for any of the given product IDs
func (r *GormReviewRepository) FindByProducts(ctx context.Context, shop string, productIDs []string, approvedOnly bool, filter shared.Filter) ([]review.Review, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	query := r.db.WithContext(ctx).Model(&models.ReviewModel{}).
		Where("shop = ? AND product_id IN ?", shop, productIDs)
	if approvedOnly {
		query = query.Where("approved = ?", true)
	}
	query = r.applyFilter(query, filter)

	var rows []models.ReviewModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainReviews(rows), nil
}

// Save creates or updates a review
func (r *GormReviewRepository) Save(ctx context.Context, rv *review.Review) error {
	model := models.ReviewModelFromDomain(rv)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a review
func (r *GormReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ReviewModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteAllForShop deletes every review belonging to a shop
func (r *GormReviewRepository) DeleteAllForShop(ctx context.Context, shop string) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.ReviewModel{}, "shop = ?", shop)
	return result.RowsAffected, result.Error
}

// CountByCustomerEmail counts a customer's reviews within a shop
func (r *GormReviewRepository) CountByCustomerEmail(ctx context.Context, shop, email string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ReviewModel{}).
		Where("shop = ? AND customer_email = ?", shop, email).
		Count(&count).Error
	return count, err
}

// DeleteByCustomerEmail deletes a customer's reviews within a shop
func (r *GormReviewRepository) DeleteByCustomerEmail(ctx context.Context, shop, email string) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.ReviewModel{}, "shop = ? AND customer_email = ?", shop, email)
	return result.RowsAffected, result.Error
}

// Count counts reviews matching the filter
func (r *GormReviewRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.ReviewModel{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByProducts counts reviews for any of the given product IDs
func (r *GormReviewRepository) CountByProducts(ctx context.Context, shop string, productIDs []string, approvedOnly bool) (int64, error) {
	if len(productIDs) == 0 {
		return 0, nil
	}
	query := r.db.WithContext(ctx).Model(&models.ReviewModel{}).
		Where("shop = ? AND product_id IN ?", shop, productIDs)
	if approvedOnly {
		query = query.Where("approved = ?", true)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// StatsForShop aggregates moderation counters over all of a shop's reviews
func (r *GormReviewRepository) StatsForShop(ctx context.Context, shop string) (*review.Stats, error) {
	var row struct {
		Total         int64
		Approved      int64
		WithMedia     int64
		AverageRating decimal.NullDecimal
	}
	err := r.db.WithContext(ctx).Model(&models.ReviewModel{}).
		Where("shop = ?", shop).
		Select("COUNT(*) AS total, " +
			"COALESCE(SUM(CASE WHEN approved THEN 1 ELSE 0 END), 0) AS approved, " +
			"COALESCE(SUM(CASE WHEN media_urls <> '' AND media_urls <> '[]' THEN 1 ELSE 0 END), 0) AS with_media, " +
			"AVG(CASE WHEN approved THEN rating END) AS average_rating").
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	stats := &review.Stats{
		Total:     row.Total,
		Approved:  row.Approved,
		Pending:   row.Total - row.Approved,
		WithMedia: row.WithMedia,
	}
	if row.AverageRating.Valid {
		stats.AverageRating = row.AverageRating.Decimal
	}
	return stats, nil
}

// AverageRatingByProducts computes the mean rating over approved reviews
func (r *GormReviewRepository) AverageRatingByProducts(ctx context.Context, shop string, productIDs []string) (decimal.Decimal, error) {
	if len(productIDs) == 0 {
		return decimal.Zero, nil
	}
	var avg decimal.NullDecimal
	err := r.db.WithContext(ctx).Model(&models.ReviewModel{}).
		Where("shop = ? AND product_id IN ? AND approved = ?", shop, productIDs, true).
		Select("AVG(rating)").
		Scan(&avg).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !avg.Valid {
		return decimal.Zero, nil
	}
	return avg.Decimal, nil
}

// AssignGroupByProducts stamps the group ID onto reviews for the given products
func (r *GormReviewRepository) AssignGroupByProducts(ctx context.Context, shop string, groupID uuid.UUID, productIDs []string) (int64, error) {
	if len(productIDs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Model(&models.ReviewModel{}).
		Where("shop = ? AND product_id IN ?", shop, productIDs).
		Update("product_group_id", groupID)
	return result.RowsAffected, result.Error
}

// ClearGroupAssignments detaches all reviews from the given group
func (r *GormReviewRepository) ClearGroupAssignments(ctx context.Context, shop string, groupID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.ReviewModel{}).
		Where("shop = ? AND product_group_id = ?", shop, groupID).
		Update("product_group_id", nil)
	return result.RowsAffected, result.Error
}

// applyFilter applies filter options to the query
func (r *GormReviewRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	// Apply pagination
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	// Apply ordering
	orderBy := ValidateSortField(filter.OrderBy, ReviewSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormReviewRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + strings.TrimSpace(filter.Search) + "%"
		query = query.Where("customer_name ILIKE ? OR review_text ILIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "shop":
			query = query.Where("shop = ?", value)
		case "approved":
			query = query.Where("approved = ?", value)
		case "product_id":
			query = query.Where("product_id = ?", value)
		case "rating":
			query = query.Where("rating = ?", value)
		case "product_group_id":
			query = query.Where("product_group_id = ?", value)
		}
	}

	return query
}

func toDomainReviews(rows []models.ReviewModel) []review.Review {
	out := make([]review.Review, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}
