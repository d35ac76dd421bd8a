package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/reviewhub/backend/internal/domain/outreach"
	"github.com/reviewhub/backend/internal/domain/shared"
	"github.com/reviewhub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormReviewRequestRepository implements ReviewRequestRepository using GORM
type GormReviewRequestRepository struct {
	db *gorm.DB
}

// NewGormReviewRequestRepository creates a new GormReviewRequestRepository
func NewGormReviewRequestRepository(db *gorm.DB) *GormReviewRequestRepository {
	return &GormReviewRequestRepository{db: db}
}

// FindByID finds a request by its ID
func (r *GormReviewRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*outreach.ReviewRequest, error) {
	var model models.ReviewRequestModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByOrder finds the request for an order within a shop
func (r *GormReviewRequestRepository) FindByOrder(ctx context.Context, shop, orderID string) (*outreach.ReviewRequest, error) {
	var model models.ReviewRequestModel
	if err := r.db.WithContext(ctx).
		Where("shop = ? AND order_id = ?", shop, orderID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForShop finds all requests for a shop
func (r *GormReviewRequestRepository) FindAllForShop(ctx context.Context, shop string, filter shared.Filter) ([]outreach.ReviewRequest, error) {
	query := r.db.WithContext(ctx).Model(&models.ReviewRequestModel{}).Where("shop = ?", shop)

	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, ReviewRequestSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	var rows []models.ReviewRequestModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainRequests(rows), nil
}

// FindDue finds pending requests whose scheduled send date has passed,
// oldest first, capped at limit
func (r *GormReviewRequestRepository) FindDue(ctx context.Context, shop string, now time.Time, limit int) ([]outreach.ReviewRequest, error) {
	var rows []models.ReviewRequestModel
	if err := r.db.WithContext(ctx).
		Where("shop = ? AND status = ? AND scheduled_send_date <= ?", shop, outreach.RequestStatusPending, now).
		Order("scheduled_send_date ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainRequests(rows), nil
}

// FindDueAcrossShops is FindDue without the shop scope
func (r *GormReviewRequestRepository) FindDueAcrossShops(ctx context.Context, now time.Time, limit int) ([]outreach.ReviewRequest, error) {
	var rows []models.ReviewRequestModel
	if err := r.db.WithContext(ctx).
		Where("status = ? AND scheduled_send_date <= ?", outreach.RequestStatusPending, now).
		Order("scheduled_send_date ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toDomainRequests(rows), nil
}

// Create inserts a new request. The composite unique index on
// (shop, order_id) turns concurrent duplicate inserts into
// shared.ErrAlreadyExists instead of a second row.
func (r *GormReviewRequestRepository) Create(ctx context.Context, req *outreach.ReviewRequest) error {
	model := models.ReviewRequestModelFromDomain(req)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if isUniqueViolation(err) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Save updates an existing request
func (r *GormReviewRequestRepository) Save(ctx context.Context, req *outreach.ReviewRequest) error {
	model := models.ReviewRequestModelFromDomain(req)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a request
func (r *GormReviewRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ReviewRequestModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteAllForShop deletes every request belonging to a shop
func (r *GormReviewRequestRepository) DeleteAllForShop(ctx context.Context, shop string) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.ReviewRequestModel{}, "shop = ?", shop)
	return result.RowsAffected, result.Error
}

// CountByCustomerEmail counts a customer's requests within a shop
func (r *GormReviewRequestRepository) CountByCustomerEmail(ctx context.Context, shop, email string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ReviewRequestModel{}).
		Where("shop = ? AND customer_email = ?", shop, email).
		Count(&count).Error
	return count, err
}

// DeleteByCustomerEmail deletes a customer's requests within a shop
func (r *GormReviewRequestRepository) DeleteByCustomerEmail(ctx context.Context, shop, email string) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.ReviewRequestModel{}, "shop = ? AND customer_email = ?", shop, email)
	return result.RowsAffected, result.Error
}

// Count counts requests matching the filter
func (r *GormReviewRequestRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ReviewRequestModel{})
	if shop, ok := filter.Filters["shop"]; ok {
		query = query.Where("shop = ?", shop)
	}
	if status, ok := filter.Filters["status"]; ok {
		query = query.Where("status = ?", status)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// isUniqueViolation reports whether the error is a unique constraint
// violation from either the Postgres or SQLite driver
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint")
}

func toDomainRequests(rows []models.ReviewRequestModel) []outreach.ReviewRequest {
	out := make([]outreach.ReviewRequest, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out
}
