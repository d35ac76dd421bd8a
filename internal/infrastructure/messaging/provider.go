package messaging

import (
	"context"
	"errors"
)

// Channel identifies the delivery channel of a send attempt
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
)

// Errors returned by provider adapters
var (
	ErrMissingAPIKey         = errors.New("messaging: missing API key")
	ErrMissingRecipient      = errors.New("messaging: missing recipient")
	ErrMissingPhone          = errors.New("messaging: customer phone number not available")
	ErrProviderUnavailable   = errors.New("messaging: provider unavailable")
	ErrProviderRequestFailed = errors.New("messaging: provider request failed")
	ErrUnsupportedProvider   = errors.New("messaging: unsupported provider")
)

// EmailMessage is one review request rendered for the email channel
type EmailMessage struct {
	To           string
	Subject      string
	HTML         string
	CustomerName string
	OrderNumber  string
	ReviewLink   string
}

// WhatsAppMessage is one review request rendered for the WhatsApp
// channel. Phone must already be in E.164 form; see FormatPhoneNumber.
type WhatsAppMessage struct {
	Phone        string
	Body         string
	CustomerName string
	OrderNumber  string
	ReviewLink   string
}

// SendResult describes a successful send
type SendResult struct {
	MessageID string
	Provider  string
	Channel   Channel
	// Method distinguishes fallback paths within a provider, e.g.
	// Klaviyo's transactional send versus event tracking
	Method string
}

// EmailProvider sends review request emails
type EmailProvider interface {
	SendEmail(ctx context.Context, msg EmailMessage) (*SendResult, error)
	TestConnection(ctx context.Context) error
}

// WhatsAppProvider sends review request WhatsApp messages
type WhatsAppProvider interface {
	SendWhatsApp(ctx context.Context, msg WhatsAppMessage) (*SendResult, error)
	TestConnection(ctx context.Context) error
}
