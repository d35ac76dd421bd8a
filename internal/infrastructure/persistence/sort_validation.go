package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// ReviewSortFields contains allowed sort fields for reviews
var ReviewSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"updated_at":    true,
	"rating":        true,
	"approved":      true,
	"product_id":    true,
	"customer_name": true,
}

// ProductGroupSortFields contains allowed sort fields for product groups
var ProductGroupSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
}

// ReviewRequestSortFields contains allowed sort fields for review requests
var ReviewRequestSortFields = map[string]bool{
	"id":                  true,
	"created_at":          true,
	"updated_at":          true,
	"scheduled_send_date": true,
	"status":              true,
	"order_id":            true,
	"sent_at":             true,
}

// WebhookLogSortFields contains allowed sort fields for webhook logs
var WebhookLogSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"webhook_type": true,
}
