package outreach

import (
	"context"

	"go.uber.org/zap"

	"github.com/reviewhub/backend/internal/domain/outreach"
	"github.com/reviewhub/backend/internal/domain/shared"
)

// RequestListFilter carries the requests page query parameters
type RequestListFilter struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Status   string `form:"status"`
}

// RequestService exposes the scheduled review requests to the admin
type RequestService struct {
	requestRepo outreach.ReviewRequestRepository
	logger      *zap.Logger
}

// NewRequestService creates a new request service
func NewRequestService(requestRepo outreach.ReviewRequestRepository, logger *zap.Logger) *RequestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RequestService{requestRepo: requestRepo, logger: logger}
}

// List returns the shop's review requests, newest first, with the
// total count for pagination
func (s *RequestService) List(ctx context.Context, shop string, req RequestListFilter) ([]ReviewRequestResponse, int64, error) {
	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	filter.Filters = map[string]interface{}{"shop": shop}
	if req.Status != "" {
		filter.Filters["status"] = req.Status
	}

	requests, err := s.requestRepo.FindAllForShop(ctx, shop, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.requestRepo.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToReviewRequestResponses(requests), total, nil
}
