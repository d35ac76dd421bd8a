package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/reviewhub/backend/internal/domain/review"
	"github.com/reviewhub/backend/internal/domain/shared"
	"github.com/reviewhub/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormProductGroupRepository implements ProductGroupRepository using GORM
type GormProductGroupRepository struct {
	db *gorm.DB
}

// NewGormProductGroupRepository creates a new GormProductGroupRepository
func NewGormProductGroupRepository(db *gorm.DB) *GormProductGroupRepository {
	return &GormProductGroupRepository{db: db}
}

// FindByID finds a group by its ID
func (r *GormProductGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*review.ProductGroup, error) {
	var model models.ProductGroupModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForShop finds a group by ID within a shop
func (r *GormProductGroupRepository) FindByIDForShop(ctx context.Context, shop string, id uuid.UUID) (*review.ProductGroup, error) {
	var model models.ProductGroupModel
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

// FindAllForShop finds all groups for a shop
func (r *GormProductGroupRepository) FindAllForShop(ctx context.Context, shop string, filter shared.Filter) ([]review.ProductGroup, error) {
	query := r.db.WithContext(ctx).Model(&models.ProductGroupModel{}).Where("shop = ?", shop)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	orderBy := ValidateSortField(filter.OrderBy, ProductGroupSortFields, "created_at")
	query = query.Order(orderBy + " " + ValidateSortOrder(filter.OrderDir))

	var rows []models.ProductGroupModel
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	groups := make([]review.ProductGroup, len(rows))
	for i := range rows {
		groups[i] = *rows[i].ToDomain()
	}
	return groups, nil
}

// FindByProduct finds the group containing the given product, if any.
// Product sets are stored as JSON arrays, so membership is checked in
// memory over the shop's groups rather than with a JSON operator; a
// shop has at most a handful of groups.
func (r *GormProductGroupRepository) FindByProduct(ctx context.Context, shop string, productID string) (*review.ProductGroup, error) {
	var rows []models.ProductGroupModel
	if err := r.db.WithContext(ctx).
		Where("shop = ?", shop).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		g := rows[i].ToDomain()
		if g.ContainsProduct(productID) {
			return g, nil
		}
	}
	return nil, shared.ErrNotFound
}

// Save creates or updates a group
func (r *GormProductGroupRepository) Save(ctx context.Context, g *review.ProductGroup) error {
	model := models.ProductGroupModelFromDomain(g)
	return r.db.WithContext(ctx).Save(model).Error
}

// Delete deletes a group
func (r *GormProductGroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ProductGroupModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteAllForShop deletes every group belonging to a shop
func (r *GormProductGroupRepository) DeleteAllForShop(ctx context.Context, shop string) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.ProductGroupModel{}, "shop = ?", shop)
	return result.RowsAffected, result.Error
}

// Count counts groups matching the filter
func (r *GormProductGroupRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	query := r.db.WithContext(ctx).Model(&models.ProductGroupModel{})
	if shop, ok := filter.Filters["shop"]; ok {
		query = query.Where("shop = ?", shop)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
