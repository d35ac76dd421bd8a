package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/reviewhub/backend/internal/domain/outreach"
	"github.com/reviewhub/backend/internal/domain/shared"
	"github.com/reviewhub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormWebhookLogRepository implements WebhookLogRepository using GORM
type GormWebhookLogRepository struct {
	db *gorm.DB
}

// NewGormWebhookLogRepository creates a new GormWebhookLogRepository
func NewGormWebhookLogRepository(db *gorm.DB) *GormWebhookLogRepository {
	return &GormWebhookLogRepository{db: db}
}

// Create appends a new log row
func (r *GormWebhookLogRepository) Create(ctx context.Context, l *outreach.WebhookLog) error {
	model := models.WebhookLogModelFromDomain(l)
	return r.db.WithContext(ctx).Create(model).Error
}

// Save updates an existing log row
func (r *GormWebhookLogRepository) Save(ctx context.Context, l *outreach.WebhookLog) error {
	model := models.WebhookLogModelFromDomain(l)
	return r.db.WithContext(ctx).Save(model).Error
}

// FindByID finds a log row by its ID
func (r *GormWebhookLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*outreach.WebhookLog, error) {
	var model models.WebhookLogModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAllForShop finds log rows for a shop, newest first
func (r *GormWebhookLogRepository) FindAllForShop(ctx context.Context, shop string, filter shared.Filter) ([]outreach.WebhookLog, error) {
	query := r.db.WithContext(ctx).Model(&models.WebhookLogModel{}).Where("shop = ?", shop)

	if webhookType, ok := filter.Filters["webhook_type"]; ok {
		query = query.Where("webhook_type = ?", webhookType)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, WebhookLogSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	var rows []models.WebhookLogModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	logs := make([]outreach.WebhookLog, len(rows))
	for i := range rows {
		logs[i] = *rows[i].ToDomain()
	}
	return logs, nil
}

// DeleteAllForShop deletes every log row belonging to a shop
func (r *GormWebhookLogRepository) DeleteAllForShop(ctx context.Context, shop string) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.WebhookLogModel{}, "shop = ?", shop)
	return result.RowsAffected, result.Error
}
