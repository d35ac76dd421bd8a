package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	metaGraphAPIBaseURL  = "https://graph.facebook.com/v18.0"
	metaTemplateName     = "review_request"
	metaTemplateLanguage = "en"
)

// MetaWhatsAppConfig contains configuration for the WhatsApp Business
// Cloud API
type MetaWhatsAppConfig struct {
	// AccessToken is the system user token
	AccessToken string
	// PhoneNumberID is the registered sender phone number ID
	PhoneNumberID string
	// BaseURL overrides the API endpoint, used in tests
	BaseURL string
}

var errMetaMissingPhoneNumberID = errors.New("messaging: missing WhatsApp phone number ID")

// MetaWhatsAppAdapter implements WhatsAppProvider for the Meta WhatsApp
// Business Cloud API. The review_request template carries the customer
// name and order number in the body and the review link on a URL button.
type MetaWhatsAppAdapter struct {
	config     MetaWhatsAppConfig
	httpClient *http.Client
}

// NewMetaWhatsAppAdapter creates a new Meta WhatsApp adapter
func NewMetaWhatsAppAdapter(config MetaWhatsAppConfig) (*MetaWhatsAppAdapter, error) {
	if config.AccessToken == "" {
		return nil, ErrMissingAPIKey
	}
	if config.PhoneNumberID == "" {
		return nil, errMetaMissingPhoneNumberID
	}
	if config.BaseURL == "" {
		config.BaseURL = metaGraphAPIBaseURL
	}
	return &MetaWhatsAppAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// SendWhatsApp sends a review request template message
func (a *MetaWhatsAppAdapter) SendWhatsApp(ctx context.Context, msg WhatsAppMessage) (*SendResult, error) {
	if msg.Phone == "" {
		return nil, ErrMissingPhone
	}

	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                msg.Phone,
		"type":              "template",
		"template": map[string]any{
			"name": metaTemplateName,
			"language": map[string]any{
				"code": metaTemplateLanguage,
			},
			"components": []any{
				map[string]any{
					"type": "body",
					"parameters": []any{
						map[string]any{"type": "text", "text": msg.CustomerName},
						map[string]any{"type": "text", "text": msg.OrderNumber},
					},
				},
				map[string]any{
					"type":     "button",
					"sub_type": "url",
					"index":    "0",
					"parameters": []any{
						map[string]any{"type": "text", "text": msg.ReviewLink},
					},
				},
			},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("whatsapp-api: failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", a.config.BaseURL, a.config.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("whatsapp-api: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.config.AccessToken)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("whatsapp-api: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrProviderRequestFailed, errResp.Error.Message)
		}
		return nil, fmt.Errorf("%w: HTTP %d", ErrProviderRequestFailed, resp.StatusCode)
	}

	var parsed struct {
		Messages []struct {
			ID string `json:"id"`
		} `json:"messages"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("whatsapp-api: failed to parse response: %w", err)
	}
	var messageID string
	if len(parsed.Messages) > 0 {
		messageID = parsed.Messages[0].ID
	}
	return &SendResult{MessageID: messageID, Provider: "whatsapp-api", Channel: ChannelWhatsApp}, nil
}

// TestConnection verifies the token can read the phone number resource
func (a *MetaWhatsAppAdapter) TestConnection(ctx context.Context) error {
	url := fmt.Sprintf("%s/%s", a.config.BaseURL, a.config.PhoneNumberID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("whatsapp-api: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.config.AccessToken)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: invalid WhatsApp Business API token", ErrProviderRequestFailed)
	}
	return nil
}
