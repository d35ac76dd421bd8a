package models

import (
	"time"

	"github.com/reviewhub/backend/internal/domain/outreach"
)

// ReviewRequestModel is the persistence model for the ReviewRequest
// domain entity. The composite unique index on (shop, order_id) is what
// makes create-if-absent safe under concurrent webhook deliveries.
type ReviewRequestModel struct {
	AggregateModel
	Shop              string                        `gorm:"type:varchar(255);not null;uniqueIndex:idx_review_request_shop_order,priority:1"`
	OrderID           string                        `gorm:"type:varchar(64);not null;uniqueIndex:idx_review_request_shop_order,priority:2"`
	OrderNumber       string                        `gorm:"type:varchar(64)"`
	CustomerName      string                        `gorm:"type:varchar(255)"`
	CustomerEmail     string                        `gorm:"type:varchar(255);not null"`
	CustomerPhone     string                        `gorm:"type:varchar(64)"`
	ProductIDs        string                        `gorm:"type:text"`
	DeliveryDate      time.Time                     `gorm:"not null"`
	ScheduledSendDate time.Time                     `gorm:"not null;index"`
	Status            outreach.RequestStatus        `gorm:"type:varchar(20);not null;default:'pending';index"`
	EmailProvider     outreach.EmailProviderKind    `gorm:"type:varchar(20)"`
	EmailSent         bool                          `gorm:"not null;default:false"`
	WhatsAppSent      bool                          `gorm:"not null;default:false"`
	SentAt            *time.Time
	ErrorMessage      string                        `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (ReviewRequestModel) TableName() string {
	return "review_requests"
}

// ToDomain converts the persistence model to a domain ReviewRequest entity.
func (m *ReviewRequestModel) ToDomain() *outreach.ReviewRequest {
	r := &outreach.ReviewRequest{
		OrderID:           m.OrderID,
		OrderNumber:       m.OrderNumber,
		CustomerName:      m.CustomerName,
		CustomerEmail:     m.CustomerEmail,
		CustomerPhone:     m.CustomerPhone,
		ProductIDs:        unmarshalStrings(m.ProductIDs),
		DeliveryDate:      m.DeliveryDate,
		ScheduledSendDate: m.ScheduledSendDate,
		Status:            m.Status,
		EmailProvider:     m.EmailProvider,
		EmailSent:         m.EmailSent,
		WhatsAppSent:      m.WhatsAppSent,
		SentAt:            m.SentAt,
		ErrorMessage:      m.ErrorMessage,
	}
	r.BaseAggregateRoot.BaseEntity.ID = m.ID
	r.BaseAggregateRoot.BaseEntity.CreatedAt = m.CreatedAt
	r.BaseAggregateRoot.BaseEntity.UpdatedAt = m.UpdatedAt
	r.BaseAggregateRoot.Version = m.Version
	r.Shop = m.Shop
	return r
}

// FromDomain populates the persistence model from a domain ReviewRequest entity.
func (m *ReviewRequestModel) FromDomain(r *outreach.ReviewRequest) {
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	m.Shop = r.Shop
	m.OrderID = r.OrderID
	m.OrderNumber = r.OrderNumber
	m.CustomerName = r.CustomerName
	m.CustomerEmail = r.CustomerEmail
	m.CustomerPhone = r.CustomerPhone
	m.ProductIDs = marshalStrings(r.ProductIDs)
	m.DeliveryDate = r.DeliveryDate
	m.ScheduledSendDate = r.ScheduledSendDate
	m.Status = r.Status
	m.EmailProvider = r.EmailProvider
	m.EmailSent = r.EmailSent
	m.WhatsAppSent = r.WhatsAppSent
	m.SentAt = r.SentAt
	m.ErrorMessage = r.ErrorMessage
}

// ReviewRequestModelFromDomain creates a new persistence model from a domain ReviewRequest entity.
func ReviewRequestModelFromDomain(r *outreach.ReviewRequest) *ReviewRequestModel {
	m := &ReviewRequestModel{}
	m.FromDomain(r)
	return m
}

// AutomationSettingsModel is the persistence model for AutomationSettings.
// One row per shop.
type AutomationSettingsModel struct {
	AggregateModel
	Shop             string                        `gorm:"type:varchar(255);not null;uniqueIndex"`
	Enabled          bool                          `gorm:"not null;default:true"`
	DeliveryTagName  string                        `gorm:"type:varchar(255);not null;default:'delivered'"`
	DelayDays        int                           `gorm:"not null;default:3"`
	DelayHours       int                           `gorm:"not null;default:0"`
	DelaySeconds     int                           `gorm:"not null;default:0"`
	EmailProvider    outreach.EmailProviderKind    `gorm:"type:varchar(20);not null;default:'klaviyo'"`
	APIKey           string                        `gorm:"type:text"`
	WhatsAppProvider outreach.WhatsAppProviderKind `gorm:"type:varchar(20)"`
	WhatsAppAPIKey   string                        `gorm:"type:text"`
	EmailSubject     string                        `gorm:"type:varchar(500)"`
	MaxReminders     int                           `gorm:"not null;default:1"`
}

// TableName returns the table name for GORM
func (AutomationSettingsModel) TableName() string {
	return "email_automation_settings"
}

// ToDomain converts the persistence model to domain AutomationSettings.
func (m *AutomationSettingsModel) ToDomain() *outreach.AutomationSettings {
	s := &outreach.AutomationSettings{
		Enabled:          m.Enabled,
		DeliveryTagName:  m.DeliveryTagName,
		DelayDays:        m.DelayDays,
		DelayHours:       m.DelayHours,
		DelaySeconds:     m.DelaySeconds,
		EmailProvider:    m.EmailProvider,
		APIKey:           m.APIKey,
		WhatsAppProvider: m.WhatsAppProvider,
		WhatsAppAPIKey:   m.WhatsAppAPIKey,
		EmailSubject:     m.EmailSubject,
		MaxReminders:     m.MaxReminders,
	}
	s.BaseAggregateRoot.BaseEntity.ID = m.ID
	s.BaseAggregateRoot.BaseEntity.CreatedAt = m.CreatedAt
	s.BaseAggregateRoot.BaseEntity.UpdatedAt = m.UpdatedAt
	s.BaseAggregateRoot.Version = m.Version
	s.Shop = m.Shop
	return s
}

// FromDomain populates the persistence model from domain AutomationSettings.
func (m *AutomationSettingsModel) FromDomain(s *outreach.AutomationSettings) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.Shop = s.Shop
	m.Enabled = s.Enabled
	m.DeliveryTagName = s.DeliveryTagName
	m.DelayDays = s.DelayDays
	m.DelayHours = s.DelayHours
	m.DelaySeconds = s.DelaySeconds
	m.EmailProvider = s.EmailProvider
	m.APIKey = s.APIKey
	m.WhatsAppProvider = s.WhatsAppProvider
	m.WhatsAppAPIKey = s.WhatsAppAPIKey
	m.EmailSubject = s.EmailSubject
	m.MaxReminders = s.MaxReminders
}

// AutomationSettingsModelFromDomain creates a new persistence model from domain AutomationSettings.
func AutomationSettingsModelFromDomain(s *outreach.AutomationSettings) *AutomationSettingsModel {
	m := &AutomationSettingsModel{}
	m.FromDomain(s)
	return m
}

// WebhookLogModel is the persistence model for WebhookLog.
type WebhookLogModel struct {
	ShopAggregateModel
	WebhookType  string `gorm:"type:varchar(100);not null;index"`
	OrderID      string `gorm:"type:varchar(64)"`
	Payload      string `gorm:"type:text"`
	Processed    bool   `gorm:"not null;default:false"`
	Success      bool   `gorm:"not null;default:false"`
	ErrorMessage string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (WebhookLogModel) TableName() string {
	return "webhook_logs"
}

// ToDomain converts the persistence model to a domain WebhookLog entity.
func (m *WebhookLogModel) ToDomain() *outreach.WebhookLog {
	return &outreach.WebhookLog{
		ShopAggregateRoot: m.shopAggregateRoot(),
		WebhookType:       m.WebhookType,
		OrderID:           m.OrderID,
		Payload:           m.Payload,
		Processed:         m.Processed,
		Success:           m.Success,
		ErrorMessage:      m.ErrorMessage,
	}
}

// FromDomain populates the persistence model from a domain WebhookLog entity.
func (m *WebhookLogModel) FromDomain(l *outreach.WebhookLog) {
	m.FromDomainShopAggregateRoot(l.ShopAggregateRoot)
	m.WebhookType = l.WebhookType
	m.OrderID = l.OrderID
	m.Payload = l.Payload
	m.Processed = l.Processed
	m.Success = l.Success
	m.ErrorMessage = l.ErrorMessage
}

// WebhookLogModelFromDomain creates a new persistence model from a domain WebhookLog entity.
func WebhookLogModelFromDomain(l *outreach.WebhookLog) *WebhookLogModel {
	m := &WebhookLogModel{}
	m.FromDomain(l)
	return m
}

// SessionModel is the persistence model for Shopify app sessions.
// The primary key is the session ID issued by Shopify, not a UUID.
type SessionModel struct {
	ID          string     `gorm:"type:varchar(255);primary_key"`
	Shop        string     `gorm:"type:varchar(255);not null;index"`
	State       string     `gorm:"type:varchar(255)"`
	IsOnline    bool       `gorm:"not null;default:false"`
	Scope       string     `gorm:"type:text"`
	AccessToken string     `gorm:"type:text"`
	Expires     *time.Time
	UserID      *int64
	CreatedAt   time.Time  `gorm:"not null"`
	UpdatedAt   time.Time  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (SessionModel) TableName() string {
	return "sessions"
}

// ToDomain converts the persistence model to a domain Session.
func (m *SessionModel) ToDomain() *outreach.Session {
	return &outreach.Session{
		ID:          m.ID,
		Shop:        m.Shop,
		State:       m.State,
		IsOnline:    m.IsOnline,
		Scope:       m.Scope,
		AccessToken: m.AccessToken,
		Expires:     m.Expires,
		UserID:      m.UserID,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

// FromDomain populates the persistence model from a domain Session.
func (m *SessionModel) FromDomain(s *outreach.Session) {
	m.ID = s.ID
	m.Shop = s.Shop
	m.State = s.State
	m.IsOnline = s.IsOnline
	m.Scope = s.Scope
	m.AccessToken = s.AccessToken
	m.Expires = s.Expires
	m.UserID = s.UserID
	m.CreatedAt = s.CreatedAt
	m.UpdatedAt = s.UpdatedAt
}
