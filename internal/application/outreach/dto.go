package outreach

import (
	"time"

	"github.com/reviewhub/backend/internal/domain/outreach"
	"github.com/reviewhub/backend/internal/infrastructure/messaging"
)

// UpdateSettingsRequest carries the automation settings form. Pointer
// fields distinguish "leave unchanged" from explicit zero values.
type UpdateSettingsRequest struct {
	Enabled          *bool   `json:"enabled"`
	DeliveryTagName  *string `json:"deliveryTagName"`
	DelayDays        *int    `json:"delayDays" binding:"omitempty,min=0"`
	DelayHours       *int    `json:"delayHours" binding:"omitempty,min=0"`
	DelaySeconds     *int    `json:"delaySeconds" binding:"omitempty,min=0"`
	EmailProvider    *string `json:"emailProvider"`
	APIKey           *string `json:"apiKey"`
	WhatsAppProvider *string `json:"whatsappProvider"`
	WhatsAppAPIKey   *string `json:"whatsappApiKey"`
	EmailSubject     *string `json:"emailSubject"`
	MaxReminders     *int    `json:"maxReminders" binding:"omitempty,min=0"`
}

// SettingsResponse is the automation settings representation returned
// to the embedded admin
type SettingsResponse struct {
	Shop             string `json:"shop"`
	Enabled          bool   `json:"enabled"`
	DeliveryTagName  string `json:"deliveryTagName"`
	DelayDays        int    `json:"delayDays"`
	DelayHours       int    `json:"delayHours"`
	DelaySeconds     int    `json:"delaySeconds"`
	EmailProvider    string `json:"emailProvider"`
	APIKey           string `json:"apiKey"`
	WhatsAppProvider string `json:"whatsappProvider"`
	WhatsAppAPIKey   string `json:"whatsappApiKey"`
	EmailSubject     string `json:"emailSubject"`
	MaxReminders     int    `json:"maxReminders"`
}

// ToSettingsResponse maps the settings entity to its response
func ToSettingsResponse(s *outreach.AutomationSettings) *SettingsResponse {
	return &SettingsResponse{
		Shop:             s.Shop,
		Enabled:          s.Enabled,
		DeliveryTagName:  s.DeliveryTagName,
		DelayDays:        s.DelayDays,
		DelayHours:       s.DelayHours,
		DelaySeconds:     s.DelaySeconds,
		EmailProvider:    string(s.EmailProvider),
		APIKey:           s.APIKey,
		WhatsAppProvider: string(s.WhatsAppProvider),
		WhatsAppAPIKey:   s.WhatsAppAPIKey,
		EmailSubject:     s.EmailSubject,
		MaxReminders:     s.MaxReminders,
	}
}

// ReviewRequestResponse is one scheduled review request as shown on the
// requests page
type ReviewRequestResponse struct {
	ID                string     `json:"id"`
	OrderID           string     `json:"orderId"`
	OrderNumber       string     `json:"orderNumber"`
	CustomerName      string     `json:"customerName"`
	CustomerEmail     string     `json:"customerEmail"`
	Status            string     `json:"status"`
	EmailSent         bool       `json:"emailSent"`
	WhatsAppSent      bool       `json:"whatsappSent"`
	ScheduledSendDate time.Time  `json:"scheduledSendDate"`
	SentAt            *time.Time `json:"sentAt,omitempty"`
	ErrorMessage      string     `json:"errorMessage,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
}

// ToReviewRequestResponse maps a request entity to its response
func ToReviewRequestResponse(r *outreach.ReviewRequest) *ReviewRequestResponse {
	return &ReviewRequestResponse{
		ID:                r.ID.String(),
		OrderID:           r.OrderID,
		OrderNumber:       r.OrderNumber,
		CustomerName:      r.CustomerName,
		CustomerEmail:     r.CustomerEmail,
		Status:            string(r.Status),
		EmailSent:         r.EmailSent,
		WhatsAppSent:      r.WhatsAppSent,
		ScheduledSendDate: r.ScheduledSendDate,
		SentAt:            r.SentAt,
		ErrorMessage:      r.ErrorMessage,
		CreatedAt:         r.CreatedAt,
	}
}

// ToReviewRequestResponses maps a slice of request entities
func ToReviewRequestResponses(requests []outreach.ReviewRequest) []ReviewRequestResponse {
	responses := make([]ReviewRequestResponse, len(requests))
	for i := range requests {
		responses[i] = *ToReviewRequestResponse(&requests[i])
	}
	return responses
}

// TestEmailRequest asks for a one-off test email to the given address
type TestEmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// TestWhatsAppRequest asks for a one-off test WhatsApp message
type TestWhatsAppRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// SendResultResponse reports a provider dispatch outcome
type SendResultResponse struct {
	MessageID string `json:"messageId,omitempty"`
	Provider  string `json:"provider"`
	Channel   string `json:"channel"`
	Method    string `json:"method,omitempty"`
}

// ToSendResultResponse maps a provider result to its response
func ToSendResultResponse(r *messaging.SendResult) *SendResultResponse {
	return &SendResultResponse{
		MessageID: r.MessageID,
		Provider:  r.Provider,
		Channel:   string(r.Channel),
		Method:    r.Method,
	}
}

// ProcessPendingResponse reports how many due requests went out
type ProcessPendingResponse struct {
	Processed int `json:"processed"`
}

// CustomerDataReport is the compliance record for a customer data
// request webhook
type CustomerDataReport struct {
	Shop          string `json:"shop"`
	CustomerEmail string `json:"customerEmail"`
	Reviews       int64  `json:"reviews"`
	Requests      int64  `json:"requests"`
}

// CustomerErasureReport records what a customer erasure removed
type CustomerErasureReport struct {
	Shop            string `json:"shop"`
	CustomerEmail   string `json:"customerEmail"`
	ReviewsDeleted  int64  `json:"reviewsDeleted"`
	RequestsDeleted int64  `json:"requestsDeleted"`
}

// ShopErasureReport records per-table row counts removed by a full shop
// erasure
type ShopErasureReport struct {
	Shop          string `json:"shop"`
	Reviews       int64  `json:"reviews"`
	ProductGroups int64  `json:"productGroups"`
	Requests      int64  `json:"requests"`
	Settings      int64  `json:"settings"`
	WebhookLogs   int64  `json:"webhookLogs"`
	Sessions      int64  `json:"sessions"`
}
