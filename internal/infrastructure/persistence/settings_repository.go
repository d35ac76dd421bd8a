package persistence

import (
	"context"
	"errors"

	"github.com/reviewhub/backend/internal/domain/outreach"
	"github.com/reviewhub/backend/internal/domain/shared"
	"github.com/reviewhub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSettingsRepository implements SettingsRepository using GORM
type GormSettingsRepository struct {
	db *gorm.DB
}

// NewGormSettingsRepository creates a new GormSettingsRepository
func NewGormSettingsRepository(db *gorm.DB) *GormSettingsRepository {
	return &GormSettingsRepository{db: db}
}

// FindByShop finds the settings row for a shop
func (r *GormSettingsRepository) FindByShop(ctx context.Context, shop string) (*outreach.AutomationSettings, error) {
	var model models.AutomationSettingsModel
	if err := r.db.WithContext(ctx).
		Where("shop = ?", shop).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Upsert creates or replaces the settings row for the shop
func (r *GormSettingsRepository) Upsert(ctx context.Context, s *outreach.AutomationSettings) error {
	model := models.AutomationSettingsModelFromDomain(s)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "shop"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"enabled", "delivery_tag_name",
				"delay_days", "delay_hours", "delay_seconds",
				"email_provider", "api_key",
				"whats_app_provider", "whats_app_api_key",
				"email_subject", "max_reminders", "updated_at",
			}),
		}).
		Create(model).Error
}

// DeleteForShop deletes the settings row for a shop
func (r *GormSettingsRepository) DeleteForShop(ctx context.Context, shop string) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.AutomationSettingsModel{}, "shop = ?", shop)
	return result.RowsAffected, result.Error
}
