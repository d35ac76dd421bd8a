package messaging

import (
	"fmt"

	"github.com/reviewhub/backend/internal/domain/outreach"
	"github.com/reviewhub/backend/internal/infrastructure/config"
)

// Registry builds provider adapters from per-shop credentials. Shared
// identifiers that are not per-shop (Meta phone number ID, Gallabox
// channel ID) come from app configuration.
type Registry struct {
	messaging config.MessagingConfig
}

// NewRegistry creates a new provider registry
func NewRegistry(messaging config.MessagingConfig) *Registry {
	return &Registry{messaging: messaging}
}

// EmailProvider builds the adapter for an email provider kind
func (r *Registry) EmailProvider(kind outreach.EmailProviderKind, apiKey string) (EmailProvider, error) {
	switch kind {
	case outreach.EmailProviderKlaviyo:
		return NewKlaviyoAdapter(KlaviyoConfig{APIKey: apiKey})
	case outreach.EmailProviderKwikEngage:
		return NewKwikEngageAdapter(KwikEngageConfig{APIKey: apiKey})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, kind)
	}
}

// WhatsAppProvider builds the adapter for a WhatsApp provider kind
func (r *Registry) WhatsAppProvider(kind outreach.WhatsAppProviderKind, apiKey string) (WhatsAppProvider, error) {
	switch kind {
	case outreach.WhatsAppProviderWati:
		return NewWatiAdapter(WatiConfig{APIKey: apiKey})
	case outreach.WhatsAppProviderMetaAPI:
		return NewMetaWhatsAppAdapter(MetaWhatsAppConfig{
			AccessToken:   apiKey,
			PhoneNumberID: r.messaging.WhatsAppPhoneNumberID,
		})
	case outreach.WhatsAppProviderGallabox:
		return NewGallaboxAdapter(GallaboxConfig{
			APIKey:    apiKey,
			ChannelID: r.messaging.GallaboxChannelID,
		})
	case outreach.WhatsAppProviderInterakt:
		return NewInteraktAdapter(InteraktConfig{APIKey: apiKey})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedProvider, kind)
	}
}
