package review

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/reviewhub/backend/internal/domain/review"
	"github.com/reviewhub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductGroupService handles product group management. Groups pool
// reviews across product variants; creating or editing a group restamps
// group membership on the affected reviews.
type ProductGroupService struct {
	groupRepo  review.ProductGroupRepository
	reviewRepo review.ReviewRepository
	summaries  SummaryCache
	logger     *zap.Logger
}

// NewProductGroupService creates a new ProductGroupService
func NewProductGroupService(
	groupRepo review.ProductGroupRepository,
	reviewRepo review.ReviewRepository,
	summaries SummaryCache,
	logger *zap.Logger,
) *ProductGroupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductGroupService{
		groupRepo:  groupRepo,
		reviewRepo: reviewRepo,
		summaries:  summaries,
		logger:     logger,
	}
}

// Create creates a product group and stamps its ID onto existing
// reviews of the grouped products
func (s *ProductGroupService) Create(ctx context.Context, shop string, req CreateProductGroupRequest) (*ProductGroupResponse, error) {
	for _, productID := range req.ProductIDs {
		existing, err := s.groupRepo.FindByProduct(ctx, shop, productID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if existing != nil {
			return nil, shared.NewDomainError("PRODUCT_ALREADY_GROUPED", "Product "+productID+" already belongs to group "+existing.Name)
		}
	}

	group, err := review.NewProductGroup(shop, req.Name, req.Description, req.ProductIDs)
	if err != nil {
		return nil, err
	}

	if err := s.groupRepo.Save(ctx, group); err != nil {
		return nil, err
	}

	updated, err := s.reviewRepo.AssignGroupByProducts(ctx, shop, group.ID, group.ProductIDs)
	if err != nil {
		return nil, err
	}

	s.invalidateSummaries(ctx, shop)
	s.logger.Info("Product group created",
		zap.String("shop", shop),
		zap.String("group", group.Name),
		zap.Int64("reviews_assigned", updated),
	)

	response := ToProductGroupResponse(group)
	return &response, nil
}

// GetByID retrieves a group by ID within a shop
func (s *ProductGroupService) GetByID(ctx context.Context, shop string, id uuid.UUID) (*ProductGroupResponse, error) {
	group, err := s.groupRepo.FindByIDForShop(ctx, shop, id)
	if err != nil {
		return nil, err
	}

	response := ToProductGroupResponse(group)
	return &response, nil
}

// List retrieves all groups for a shop
func (s *ProductGroupService) List(ctx context.Context, shop string, page, pageSize int) ([]ProductGroupResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}

	filter := shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  map[string]any{"shop": shop},
	}

	groups, err := s.groupRepo.FindAllForShop(ctx, shop, filter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.groupRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductGroupResponses(groups), total, nil
}

// Update replaces a group's name and product set and restamps review
// membership accordingly
func (s *ProductGroupService) Update(ctx context.Context, shop string, id uuid.UUID, req UpdateProductGroupRequest) (*ProductGroupResponse, error) {
	group, err := s.groupRepo.FindByIDForShop(ctx, shop, id)
	if err != nil {
		return nil, err
	}

	for _, productID := range req.ProductIDs {
		other, err := s.groupRepo.FindByProduct(ctx, shop, productID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
		if other != nil && other.ID != group.ID {
			return nil, shared.NewDomainError("PRODUCT_ALREADY_GROUPED", "Product "+productID+" already belongs to group "+other.Name)
		}
	}

	if err := group.Update(req.Name, req.Description, req.ProductIDs); err != nil {
		return nil, err
	}

	if err := s.groupRepo.Save(ctx, group); err != nil {
		return nil, err
	}

	// Reviews of products removed from the set detach before the new
	// set is stamped on.
	if _, err := s.reviewRepo.ClearGroupAssignments(ctx, shop, group.ID); err != nil {
		return nil, err
	}
	if _, err := s.reviewRepo.AssignGroupByProducts(ctx, shop, group.ID, group.ProductIDs); err != nil {
		return nil, err
	}

	s.invalidateSummaries(ctx, shop)

	response := ToProductGroupResponse(group)
	return &response, nil
}

// Delete removes a group, detaching its reviews first
func (s *ProductGroupService) Delete(ctx context.Context, shop string, id uuid.UUID) error {
	group, err := s.groupRepo.FindByIDForShop(ctx, shop, id)
	if err != nil {
		return err
	}

	if _, err := s.reviewRepo.ClearGroupAssignments(ctx, shop, group.ID); err != nil {
		return err
	}

	if err := s.groupRepo.Delete(ctx, group.ID); err != nil {
		return err
	}

	s.invalidateSummaries(ctx, shop)
	return nil
}

// LookupProduct reports whether a product belongs to a group
func (s *ProductGroupService) LookupProduct(ctx context.Context, shop, productID string) (*ProductGroupLookupResponse, error) {
	group, err := s.groupRepo.FindByProduct(ctx, shop, productID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return &ProductGroupLookupResponse{HasGroup: false}, nil
		}
		return nil, err
	}

	response := ToProductGroupResponse(group)
	return &ProductGroupLookupResponse{
		HasGroup:     true,
		ProductGroup: &response,
	}, nil
}

func (s *ProductGroupService) invalidateSummaries(ctx context.Context, shop string) {
	if s.summaries == nil {
		return
	}
	if err := s.summaries.InvalidateShop(ctx, shop); err != nil {
		s.logger.Warn("Summary cache invalidation failed", zap.String("shop", shop), zap.Error(err))
	}
}
