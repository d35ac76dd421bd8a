package review

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/reviewhub/backend/internal/domain/review"
	"github.com/reviewhub/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// SummaryCache caches public rating summaries per product. Implemented
// by the Redis and in-memory caches in infrastructure/cache.
type SummaryCache interface {
	Get(ctx context.Context, shop, productID string) (*review.Summary, error)
	Set(ctx context.Context, shop, productID string, summary *review.Summary) error
	InvalidateShop(ctx context.Context, shop string) error
}

// csvExportPageSize is the page size used when streaming reviews into
// the CSV export.
const csvExportPageSize = 500

// ReviewService handles review submission, moderation, and public queries
type ReviewService struct {
	reviewRepo review.ReviewRepository
	groupRepo  review.ProductGroupRepository
	summaries  SummaryCache
	logger     *zap.Logger
}

// NewReviewService creates a new ReviewService
func NewReviewService(
	reviewRepo review.ReviewRepository,
	groupRepo review.ProductGroupRepository,
	summaries SummaryCache,
	logger *zap.Logger,
) *ReviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewService{
		reviewRepo: reviewRepo,
		groupRepo:  groupRepo,
		summaries:  summaries,
		logger:     logger,
	}
}

// Submit creates a new unapproved review from a storefront submission
func (s *ReviewService) Submit(ctx context.Context, shop string, req SubmitReviewRequest) (*ReviewResponse, error) {
	r, err := review.NewReview(shop, req.ProductID, req.CustomerName, req.CustomerEmail, req.Rating, req.ReviewText, req.MediaURLs)
	if err != nil {
		return nil, err
	}

	// Inherit the product's group membership so group pooling covers the
	// review from the moment it is approved.
	group, err := s.groupRepo.FindByProduct(ctx, shop, req.ProductID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if group != nil {
		r.AssignGroup(group.ID)
	}

	if err := s.reviewRepo.Save(ctx, r); err != nil {
		return nil, err
	}

	s.logger.Info("Review submitted",
		zap.String("shop", shop),
		zap.String("product_id", req.ProductID),
		zap.Int("rating", req.Rating),
	)

	response := ToReviewResponse(r)
	return &response, nil
}

// GetByID retrieves a review by ID within a shop
func (s *ReviewService) GetByID(ctx context.Context, shop string, id uuid.UUID) (*ReviewResponse, error) {
	r, err := s.reviewRepo.FindByIDForShop(ctx, shop, id)
	if err != nil {
		return nil, err
	}

	response := ToReviewResponse(r)
	return &response, nil
}

// List retrieves reviews for the moderation page with filtering and pagination
func (s *ReviewService) List(ctx context.Context, shop string, filter ReviewListFilter) ([]ReviewResponse, int64, error) {
	domainFilter := buildReviewFilter(shop, filter)

	reviews, err := s.reviewRepo.FindAllForShop(ctx, shop, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.reviewRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToReviewResponses(reviews), total, nil
}

// Stats returns the moderation counters for a shop
func (s *ReviewService) Stats(ctx context.Context, shop string) (*review.Stats, error) {
	return s.reviewRepo.StatsForShop(ctx, shop)
}

// Approve makes a review publicly visible
func (s *ReviewService) Approve(ctx context.Context, shop string, id uuid.UUID) (*ReviewResponse, error) {
	return s.setApproval(ctx, shop, id, true)
}

// Unapprove hides a review from public listings again
func (s *ReviewService) Unapprove(ctx context.Context, shop string, id uuid.UUID) (*ReviewResponse, error) {
	return s.setApproval(ctx, shop, id, false)
}

func (s *ReviewService) setApproval(ctx context.Context, shop string, id uuid.UUID, approved bool) (*ReviewResponse, error) {
	r, err := s.reviewRepo.FindByIDForShop(ctx, shop, id)
	if err != nil {
		return nil, err
	}

	if approved {
		r.Approve()
	} else {
		r.Unapprove()
	}

	if err := s.reviewRepo.Save(ctx, r); err != nil {
		return nil, err
	}

	s.invalidateSummaries(ctx, shop)

	response := ToReviewResponse(r)
	return &response, nil
}

// Delete removes a review within a shop
func (s *ReviewService) Delete(ctx context.Context, shop string, id uuid.UUID) error {
	r, err := s.reviewRepo.FindByIDForShop(ctx, shop, id)
	if err != nil {
		return err
	}

	if err := s.reviewRepo.Delete(ctx, r.ID); err != nil {
		return err
	}

	s.invalidateSummaries(ctx, shop)
	return nil
}

// ProductReviews returns the public paginated approved reviews for a
// product. When the product belongs to a group the listing and summary
// pool over every product in the group.
func (s *ReviewService) ProductReviews(ctx context.Context, shop, productID string, page, pageSize int) (*ProductReviewsResponse, int64, error) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 50 {
		pageSize = 10
	}

	productIDs := []string{productID}
	var groupInfo *GroupInfo
	var groupName string

	group, err := s.groupRepo.FindByProduct(ctx, shop, productID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, 0, err
	}
	if group != nil {
		productIDs = group.ProductIDs
		groupInfo = toGroupInfo(group)
		groupName = group.Name
	}

	filter := shared.Filter{
		Page:     page,
		PageSize: pageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}

	reviews, err := s.reviewRepo.FindByProducts(ctx, shop, productIDs, true, filter)
	if err != nil {
		return nil, 0, err
	}

	summary, err := s.productSummary(ctx, shop, productID, productIDs, groupName)
	if err != nil {
		return nil, 0, err
	}

	return &ProductReviewsResponse{
		Reviews: ToReviewResponses(reviews),
		Summary: *summary,
		Group:   groupInfo,
	}, summary.ReviewCount, nil
}

// productSummary returns the cached rating aggregate for a product,
// computing and caching it on a miss.
func (s *ReviewService) productSummary(ctx context.Context, shop, productID string, productIDs []string, groupName string) (*review.Summary, error) {
	if s.summaries != nil {
		cached, err := s.summaries.Get(ctx, shop, productID)
		if err != nil {
			s.logger.Warn("Summary cache read failed", zap.String("shop", shop), zap.Error(err))
		} else if cached != nil {
			return cached, nil
		}
	}

	count, err := s.reviewRepo.CountByProducts(ctx, shop, productIDs, true)
	if err != nil {
		return nil, err
	}

	avg, err := s.reviewRepo.AverageRatingByProducts(ctx, shop, productIDs)
	if err != nil {
		return nil, err
	}

	summary := &review.Summary{
		ProductID:     productID,
		GroupName:     groupName,
		ReviewCount:   count,
		AverageRating: avg,
	}

	if s.summaries != nil {
		if err := s.summaries.Set(ctx, shop, productID, summary); err != nil {
			s.logger.Warn("Summary cache write failed", zap.String("shop", shop), zap.Error(err))
		}
	}
	return summary, nil
}

// ExportCSV renders every review of the shop as CSV, newest first
func (s *ReviewService) ExportCSV(ctx context.Context, shop string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"id", "product_id", "customer_name", "customer_email", "rating", "review_text", "approved", "created_at"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	filter := shared.Filter{
		Page:     1,
		PageSize: csvExportPageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
	}
	for {
		reviews, err := s.reviewRepo.FindAllForShop(ctx, shop, filter)
		if err != nil {
			return nil, err
		}
		for i := range reviews {
			r := &reviews[i]
			record := []string{
				r.ID.String(),
				r.ProductID,
				r.CustomerName,
				r.CustomerEmail,
				strconv.Itoa(r.Rating),
				r.ReviewText,
				strconv.FormatBool(r.Approved),
				r.CreatedAt.Format(time.RFC3339),
			}
			if err := w.Write(record); err != nil {
				return nil, err
			}
		}
		if len(reviews) < filter.PageSize {
			break
		}
		filter.Page++
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *ReviewService) invalidateSummaries(ctx context.Context, shop string) {
	if s.summaries == nil {
		return
	}
	if err := s.summaries.InvalidateShop(ctx, shop); err != nil {
		s.logger.Warn("Summary cache invalidation failed", zap.String("shop", shop), zap.Error(err))
	}
}

// buildReviewFilter maps the list filter onto the domain filter
func buildReviewFilter(shop string, filter ReviewListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "created_at"
	}
	if filter.OrderDir == "" {
		filter.OrderDir = "desc"
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  map[string]any{"shop": shop},
	}
	if filter.ProductID != "" {
		domainFilter.Filters["product_id"] = filter.ProductID
	}
	if filter.Approved != nil {
		domainFilter.Filters["approved"] = *filter.Approved
	}
	if filter.Rating != nil {
		domainFilter.Filters["rating"] = *filter.Rating
	}
	return domainFilter
}
