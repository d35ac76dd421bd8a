package review

import "github.com/shopspring/decimal"

// Summary is the public rating aggregate for a product. When the
// product belongs to a group the counts pool over every product in the
// group.
type Summary struct {
	ProductID     string          `json:"productId"`
	GroupName     string          `json:"groupName,omitempty"`
	ReviewCount   int64           `json:"reviewCount"`
	AverageRating decimal.Decimal `json:"averageRating"`
}

// Stats aggregates moderation counters for a shop's review list page.
// The average pools approved reviews only, matching the public summary.
type Stats struct {
	Total         int64           `json:"total"`
	Approved      int64           `json:"approved"`
	Pending       int64           `json:"pending"`
	WithMedia     int64           `json:"withMedia"`
	AverageRating decimal.Decimal `json:"averageRating"`
}
