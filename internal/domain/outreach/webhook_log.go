package outreach

import (
	"github.com/reviewhub/backend/internal/domain/shared"
)

// WebhookLog is an append-only audit record for an inbound webhook
type WebhookLog struct {
	shared.ShopAggregateRoot
	WebhookType  string
	OrderID      string
	Payload      string
	Processed    bool
	Success      bool
	ErrorMessage string
}

// NewWebhookLog creates an unprocessed log row for an inbound webhook
func NewWebhookLog(shop, webhookType, orderID, payload string) *WebhookLog {
	return &WebhookLog{
		ShopAggregateRoot: shared.NewShopAggregateRoot(shop),
		WebhookType:       webhookType,
		OrderID:           orderID,
		Payload:           payload,
	}
}

// MarkProcessed records the outcome of handling the webhook
func (l *WebhookLog) MarkProcessed(success bool, errorMessage string) {
	l.Processed = true
	l.Success = success
	l.ErrorMessage = errorMessage
}
