package review

import (
	"strings"

	"github.com/reviewhub/backend/internal/domain/shared"
)

// ProductGroup pools reviews across the products it contains so that
// variants of one product share a single review stream.
type ProductGroup struct {
	shared.ShopAggregateRoot
	Name        string
	Description string
	ProductIDs  []string
}

// NewProductGroup creates a new product group with required fields.
// Description is optional merchant-facing text shown in the admin.
func NewProductGroup(shop, name, description string, productIDs []string) (*ProductGroup, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_GROUP_NAME", "Group name is required")
	}
	if len(productIDs) == 0 {
		return nil, shared.NewDomainError("EMPTY_PRODUCT_SET", "A product group needs at least one product")
	}

	return &ProductGroup{
		ShopAggregateRoot: shared.NewShopAggregateRoot(shop),
		Name:              strings.TrimSpace(name),
		Description:       strings.TrimSpace(description),
		ProductIDs:        dedupeProductIDs(productIDs),
	}, nil
}

// Update replaces the group's name, description and product set
func (g *ProductGroup) Update(name, description string, productIDs []string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_GROUP_NAME", "Group name is required")
	}
	if len(productIDs) == 0 {
		return shared.NewDomainError("EMPTY_PRODUCT_SET", "A product group needs at least one product")
	}
	g.Name = strings.TrimSpace(name)
	g.Description = strings.TrimSpace(description)
	g.ProductIDs = dedupeProductIDs(productIDs)
	return nil
}

// ContainsProduct reports whether the product belongs to this group
func (g *ProductGroup) ContainsProduct(productID string) bool {
	for _, id := range g.ProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}

func dedupeProductIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
