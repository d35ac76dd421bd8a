package outreach

import (
	"strings"
	"time"

	"github.com/reviewhub/backend/internal/domain/shared"
)

// RequestStatus represents the lifecycle state of a review request
type RequestStatus string

const (
	RequestStatusPending RequestStatus = "pending"
	RequestStatusSent    RequestStatus = "sent"
	// RequestStatusPartiallySent means WhatsApp went out but the email
	// has not been sent yet.
	RequestStatusPartiallySent RequestStatus = "partially-sent"
	RequestStatusFailed        RequestStatus = "failed"
)

// ReviewRequest is a scheduled outbound review invitation for one order.
// Exactly one request exists per (shop, order); duplicates are rejected
// by a composite unique constraint at the persistence layer.
type ReviewRequest struct {
	shared.ShopAggregateRoot
	OrderID           string
	OrderNumber       string
	CustomerName      string
	CustomerEmail     string
	CustomerPhone     string
	ProductIDs        []string
	DeliveryDate      time.Time
	ScheduledSendDate time.Time
	Status            RequestStatus
	EmailProvider     EmailProviderKind
	EmailSent         bool
	WhatsAppSent      bool
	SentAt            *time.Time
	ErrorMessage      string
}

// NewReviewRequest creates a pending request scheduled delay after the
// delivery timestamp
func NewReviewRequest(shop, orderID, orderNumber, customerName, customerEmail, customerPhone string, productIDs []string, deliveredAt time.Time, delay time.Duration, provider EmailProviderKind) (*ReviewRequest, error) {
	if strings.TrimSpace(orderID) == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_ID", "Order ID is required")
	}
	if strings.TrimSpace(customerEmail) == "" {
		return nil, shared.NewDomainError("MISSING_CUSTOMER_EMAIL", "No customer email available for this order")
	}

	return &ReviewRequest{
		ShopAggregateRoot: shared.NewShopAggregateRoot(shop),
		OrderID:           orderID,
		OrderNumber:       orderNumber,
		CustomerName:      customerName,
		CustomerEmail:     customerEmail,
		CustomerPhone:     customerPhone,
		ProductIDs:        productIDs,
		DeliveryDate:      deliveredAt,
		ScheduledSendDate: deliveredAt.Add(delay),
		Status:            RequestStatusPending,
		EmailProvider:     provider,
	}, nil
}

// IsDue reports whether the request is ready to send at the given time
func (r *ReviewRequest) IsDue(now time.Time) bool {
	return r.Status == RequestStatusPending && !r.ScheduledSendDate.After(now)
}

// MarkSent records a successful email delivery. The WhatsApp flag is
// tracked independently and does not affect the status.
func (r *ReviewRequest) MarkSent(whatsappSent bool, at time.Time) {
	r.Status = RequestStatusSent
	r.EmailSent = true
	r.WhatsAppSent = whatsappSent
	r.SentAt = &at
	r.ErrorMessage = ""
}

// MarkWhatsAppSent records a successful WhatsApp delivery on its own.
// The request is only fully sent once the email has gone out too.
func (r *ReviewRequest) MarkWhatsAppSent(at time.Time) {
	r.WhatsAppSent = true
	if r.EmailSent {
		r.Status = RequestStatusSent
	} else {
		r.Status = RequestStatusPartiallySent
	}
	r.SentAt = &at
}

// MarkFailed records a failed delivery attempt
func (r *ReviewRequest) MarkFailed(reason string, whatsappSent bool) {
	r.Status = RequestStatusFailed
	r.EmailSent = false
	r.WhatsAppSent = whatsappSent
	r.SentAt = nil
	r.ErrorMessage = reason
}
