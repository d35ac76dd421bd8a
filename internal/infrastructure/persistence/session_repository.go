package persistence

import (
	"context"
	"errors"

	"github.com/reviewhub/backend/internal/domain/outreach"
	"github.com/reviewhub/backend/internal/domain/shared"
	"github.com/reviewhub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSessionRepository implements SessionRepository using GORM
type GormSessionRepository struct {
	db *gorm.DB
}

// NewGormSessionRepository creates a new GormSessionRepository
func NewGormSessionRepository(db *gorm.DB) *GormSessionRepository {
	return &GormSessionRepository{db: db}
}

// FindByID finds a session by its Shopify session ID
func (r *GormSessionRepository) FindByID(ctx context.Context, id string) (*outreach.Session, error) {
	var model models.SessionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByShop finds all sessions for a shop
func (r *GormSessionRepository) FindByShop(ctx context.Context, shop string) ([]outreach.Session, error) {
	var rows []models.SessionModel
	if err := r.db.WithContext(ctx).
		Where("shop = ?", shop).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	sessions := make([]outreach.Session, len(rows))
	for i := range rows {
		sessions[i] = *rows[i].ToDomain()
	}
	return sessions, nil
}

// Save creates or updates a session
func (r *GormSessionRepository) Save(ctx context.Context, s *outreach.Session) error {
	model := &models.SessionModel{}
	model.FromDomain(s)
	return r.db.WithContext(ctx).Save(model).Error
}

// DeleteAllForShop deletes every session belonging to a shop
func (r *GormSessionRepository) DeleteAllForShop(ctx context.Context, shop string) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.SessionModel{}, "shop = ?", shop)
	return result.RowsAffected, result.Error
}
