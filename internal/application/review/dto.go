package review

import (
	"time"

	"github.com/google/uuid"
	"github.com/reviewhub/backend/internal/domain/review"
)

// =============================================================================
// Review DTOs
// =============================================================================

// SubmitReviewRequest represents a storefront review submission
type SubmitReviewRequest struct {
	ProductID     string   `json:"product_id" binding:"required,min=1,max=255"`
	CustomerName  string   `json:"customer_name" binding:"required,min=1,max=200"`
	CustomerEmail string   `json:"customer_email" binding:"omitempty,email,max=200"`
	Rating        int      `json:"rating" binding:"required,min=1,max=5"`
	ReviewText    string   `json:"review_text" binding:"required,min=10"`
	MediaURLs     []string `json:"media_urls" binding:"omitempty,max=10,dive,url"`
}

// ReviewListFilter represents filter options for the moderation list
type ReviewListFilter struct {
	Page      int    `form:"page"`
	PageSize  int    `form:"page_size"`
	OrderBy   string `form:"order_by"`
	OrderDir  string `form:"order_dir"`
	Search    string `form:"search"`
	ProductID string `form:"product_id"`
	Approved  *bool  `form:"approved"`
	Rating    *int   `form:"rating"`
}

// ReviewResponse represents a review in API responses
type ReviewResponse struct {
	ID             uuid.UUID  `json:"id"`
	Shop           string     `json:"shop"`
	ProductID      string     `json:"product_id"`
	CustomerName   string     `json:"customer_name"`
	CustomerEmail  string     `json:"customer_email"`
	Rating         int        `json:"rating"`
	ReviewText     string     `json:"review_text"`
	MediaURLs      []string   `json:"media_urls"`
	Approved       bool       `json:"approved"`
	ProductGroupID *uuid.UUID `json:"product_group_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ProductReviewsResponse is the public paginated review listing for a
// product, pooled across its group when one exists.
type ProductReviewsResponse struct {
	Reviews []ReviewResponse `json:"reviews"`
	Summary review.Summary   `json:"summary"`
	Group   *GroupInfo       `json:"group,omitempty"`
}

// GroupInfo describes the group a product belongs to
type GroupInfo struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	ProductIDs []string  `json:"product_ids"`
}

// =============================================================================
// Product group DTOs
// =============================================================================

// CreateProductGroupRequest represents a request to create a product group
type CreateProductGroupRequest struct {
	Name        string   `json:"name" binding:"required,min=1,max=200"`
	Description string   `json:"description" binding:"max=2000"`
	ProductIDs  []string `json:"product_ids" binding:"required,min=1,dive,min=1"`
}

// UpdateProductGroupRequest represents a request to update a product group
type UpdateProductGroupRequest struct {
	Name        string   `json:"name" binding:"required,min=1,max=200"`
	Description string   `json:"description" binding:"max=2000"`
	ProductIDs  []string `json:"product_ids" binding:"required,min=1,dive,min=1"`
}

// ProductGroupResponse represents a product group in API responses
type ProductGroupResponse struct {
	ID          uuid.UUID `json:"id"`
	Shop        string    `json:"shop"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ProductIDs  []string  `json:"product_ids"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductGroupLookupResponse tells the widget whether a product pools
// its reviews with a group.
type ProductGroupLookupResponse struct {
	HasGroup     bool                  `json:"has_group"`
	ProductGroup *ProductGroupResponse `json:"product_group,omitempty"`
}

// =============================================================================
// Mappers
// =============================================================================

// ToReviewResponse converts a domain review to a response DTO
func ToReviewResponse(r *review.Review) ReviewResponse {
	return ReviewResponse{
		ID:             r.ID,
		Shop:           r.Shop,
		ProductID:      r.ProductID,
		CustomerName:   r.CustomerName,
		CustomerEmail:  r.CustomerEmail,
		Rating:         r.Rating,
		ReviewText:     r.ReviewText,
		MediaURLs:      r.MediaURLs,
		Approved:       r.Approved,
		ProductGroupID: r.ProductGroupID,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// ToReviewResponses converts a slice of domain reviews to response DTOs
func ToReviewResponses(reviews []review.Review) []ReviewResponse {
	responses := make([]ReviewResponse, len(reviews))
	for i := range reviews {
		responses[i] = ToReviewResponse(&reviews[i])
	}
	return responses
}

// ToProductGroupResponse converts a domain group to a response DTO
func ToProductGroupResponse(g *review.ProductGroup) ProductGroupResponse {
	return ProductGroupResponse{
		ID:          g.ID,
		Shop:        g.Shop,
		Name:        g.Name,
		Description: g.Description,
		ProductIDs:  g.ProductIDs,
		CreatedAt:   g.CreatedAt,
		UpdatedAt:   g.UpdatedAt,
	}
}

// ToProductGroupResponses converts a slice of domain groups to response DTOs
func ToProductGroupResponses(groups []review.ProductGroup) []ProductGroupResponse {
	responses := make([]ProductGroupResponse, len(groups))
	for i := range groups {
		responses[i] = ToProductGroupResponse(&groups[i])
	}
	return responses
}

func toGroupInfo(g *review.ProductGroup) *GroupInfo {
	return &GroupInfo{
		ID:         g.ID,
		Name:       g.Name,
		ProductIDs: g.ProductIDs,
	}
}
