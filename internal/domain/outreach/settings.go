package outreach

import (
	"strings"
	"time"

	"github.com/reviewhub/backend/internal/domain/shared"
)

// EmailProviderKind identifies one of the supported email providers.
// The set is closed; dispatch happens over these constants, never over
// free-form strings from storage.
type EmailProviderKind string

const (
	EmailProviderKlaviyo    EmailProviderKind = "klaviyo"
	EmailProviderKwikEngage EmailProviderKind = "kwikengage"
)

// Valid reports whether the kind is a known email provider
func (k EmailProviderKind) Valid() bool {
	switch k {
	case EmailProviderKlaviyo, EmailProviderKwikEngage:
		return true
	}
	return false
}

// WhatsAppProviderKind identifies one of the supported WhatsApp providers
type WhatsAppProviderKind string

const (
	WhatsAppProviderWati     WhatsAppProviderKind = "wati"
	WhatsAppProviderMetaAPI  WhatsAppProviderKind = "whatsapp-api"
	WhatsAppProviderGallabox WhatsAppProviderKind = "gallabox"
	WhatsAppProviderInterakt WhatsAppProviderKind = "interakt"
)

// Valid reports whether the kind is a known WhatsApp provider
func (k WhatsAppProviderKind) Valid() bool {
	switch k {
	case WhatsAppProviderWati, WhatsAppProviderMetaAPI, WhatsAppProviderGallabox, WhatsAppProviderInterakt:
		return true
	}
	return false
}

// Default values applied when a shop has no settings row yet
const (
	DefaultDeliveryTagName = "delivered"
	DefaultDelayDays       = 3
	DefaultEmailSubject    = "How was your recent purchase?"
	DefaultMaxReminders    = 1
)

// AutomationSettings holds the per-shop configuration for the review
// request pipeline. One row per shop, upserted from the settings page.
type AutomationSettings struct {
	shared.ShopAggregateRoot
	Enabled          bool
	DeliveryTagName  string
	DelayDays        int
	DelayHours       int
	DelaySeconds     int
	EmailProvider    EmailProviderKind
	APIKey           string
	WhatsAppProvider WhatsAppProviderKind
	WhatsAppAPIKey   string
	EmailSubject     string
	MaxReminders     int
}

// NewAutomationSettings creates settings for a shop with default values
func NewAutomationSettings(shop string) *AutomationSettings {
	return &AutomationSettings{
		ShopAggregateRoot: shared.NewShopAggregateRoot(shop),
		Enabled:           true,
		DeliveryTagName:   DefaultDeliveryTagName,
		DelayDays:         DefaultDelayDays,
		EmailProvider:     EmailProviderKlaviyo,
		EmailSubject:      DefaultEmailSubject,
		MaxReminders:      DefaultMaxReminders,
	}
}

// Delay returns the configured send delay as a single duration.
// scheduled send time = delivery time + days*86400s + hours*3600s + seconds
func (s *AutomationSettings) Delay() time.Duration {
	return time.Duration(s.DelayDays)*24*time.Hour +
		time.Duration(s.DelayHours)*time.Hour +
		time.Duration(s.DelaySeconds)*time.Second
}

// Subject returns the configured subject line, falling back to the default
func (s *AutomationSettings) Subject() string {
	if strings.TrimSpace(s.EmailSubject) == "" {
		return DefaultEmailSubject
	}
	return s.EmailSubject
}

// DeliveryTag returns the configured delivery tag, falling back to the default
func (s *AutomationSettings) DeliveryTag() string {
	if strings.TrimSpace(s.DeliveryTagName) == "" {
		return DefaultDeliveryTagName
	}
	return s.DeliveryTagName
}

// WhatsAppConfigured reports whether WhatsApp sending is set up
func (s *AutomationSettings) WhatsAppConfigured() bool {
	return s.WhatsAppProvider.Valid() && s.WhatsAppAPIKey != ""
}

// Validate checks the settings are internally consistent
func (s *AutomationSettings) Validate() error {
	if s.Shop == "" {
		return shared.NewDomainError("INVALID_SHOP", "Shop domain is required")
	}
	if !s.EmailProvider.Valid() {
		return shared.NewDomainError("INVALID_EMAIL_PROVIDER", "Unknown email provider")
	}
	if s.WhatsAppProvider != "" && !s.WhatsAppProvider.Valid() {
		return shared.NewDomainError("INVALID_WHATSAPP_PROVIDER", "Unknown WhatsApp provider")
	}
	if s.DelayDays < 0 || s.DelayHours < 0 || s.DelaySeconds < 0 {
		return shared.NewDomainError("INVALID_DELAY", "Delay components must not be negative")
	}
	if s.MaxReminders < 0 {
		return shared.NewDomainError("INVALID_MAX_REMINDERS", "Max reminders must not be negative")
	}
	return nil
}
