package review

import (
	"strings"

	"github.com/google/uuid"
	"github.com/reviewhub/backend/internal/domain/shared"
)

const (
	// MinReviewTextLength is the minimum number of characters for the review body
	MinReviewTextLength = 10

	// MaxMediaURLs caps the number of media attachments per review
	MaxMediaURLs = 10
)

// Review represents a customer product review submitted through the
// storefront widget. Reviews start unapproved and become publicly
// visible only after a merchant approves them.
type Review struct {
	shared.ShopAggregateRoot
	ProductID      string
	CustomerName   string
	CustomerEmail  string
	Rating         int
	ReviewText     string
	MediaURLs      []string
	Approved       bool
	ProductGroupID *uuid.UUID
}

// NewReview creates a new unapproved review with required fields
func NewReview(shop, productID, customerName, customerEmail string, rating int, reviewText string, mediaURLs []string) (*Review, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, shared.NewDomainError("INVALID_PRODUCT_ID", "Product ID is required")
	}
	if strings.TrimSpace(customerName) == "" {
		return nil, shared.NewDomainError("INVALID_CUSTOMER_NAME", "Customer name is required")
	}
	if err := validateRating(rating); err != nil {
		return nil, err
	}
	if err := validateReviewText(reviewText); err != nil {
		return nil, err
	}
	if len(mediaURLs) > MaxMediaURLs {
		return nil, shared.NewDomainError("TOO_MANY_MEDIA_URLS", "A review cannot carry more than 10 media attachments")
	}

	return &Review{
		ShopAggregateRoot: shared.NewShopAggregateRoot(shop),
		ProductID:         productID,
		CustomerName:      strings.TrimSpace(customerName),
		CustomerEmail:     strings.TrimSpace(customerEmail),
		Rating:            rating,
		ReviewText:        strings.TrimSpace(reviewText),
		MediaURLs:         mediaURLs,
		Approved:          false,
	}, nil
}

// Approve marks the review as publicly visible
func (r *Review) Approve() {
	r.Approved = true
}

// Unapprove hides the review from public listings again
func (r *Review) Unapprove() {
	r.Approved = false
}

// AssignGroup attaches the review to a product group
func (r *Review) AssignGroup(groupID uuid.UUID) {
	r.ProductGroupID = &groupID
}

// ClearGroup detaches the review from its product group
func (r *Review) ClearGroup() {
	r.ProductGroupID = nil
}

// UpdateRating changes the star rating
func (r *Review) UpdateRating(rating int) error {
	if err := validateRating(rating); err != nil {
		return err
	}
	r.Rating = rating
	return nil
}

// UpdateText changes the review body
func (r *Review) UpdateText(text string) error {
	if err := validateReviewText(text); err != nil {
		return err
	}
	r.ReviewText = strings.TrimSpace(text)
	return nil
}

func validateRating(rating int) error {
	if rating < 1 || rating > 5 {
		return shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}
	return nil
}

func validateReviewText(text string) error {
	if len(strings.TrimSpace(text)) < MinReviewTextLength {
		return shared.NewDomainError("REVIEW_TEXT_TOO_SHORT", "Review text must be at least 10 characters")
	}
	return nil
}
