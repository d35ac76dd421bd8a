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
	gallaboxAPIBaseURL       = "https://server.gallabox.com"
	gallaboxSendMessagePath  = "/devapi/messages/whatsapp"
	gallaboxListChannelsPath = "/devapi/channels"
	gallaboxTemplateID       = "review_request"
)

// GallaboxConfig contains configuration for the Gallabox WhatsApp API
type GallaboxConfig struct {
	APIKey string
	// ChannelID identifies the WhatsApp channel registered in Gallabox
	ChannelID string
	// BaseURL overrides the API endpoint, used in tests
	BaseURL string
}

var errGallaboxMissingChannelID = errors.New("messaging: missing Gallabox channel ID")

// GallaboxAdapter implements WhatsAppProvider for Gallabox
type GallaboxAdapter struct {
	config     GallaboxConfig
	httpClient *http.Client
}

// NewGallaboxAdapter creates a new Gallabox adapter
func NewGallaboxAdapter(config GallaboxConfig) (*GallaboxAdapter, error) {
	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if config.ChannelID == "" {
		return nil, errGallaboxMissingChannelID
	}
	if config.BaseURL == "" {
		config.BaseURL = gallaboxAPIBaseURL
	}
	return &GallaboxAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// SendWhatsApp sends a review request template message through Gallabox
func (a *GallaboxAdapter) SendWhatsApp(ctx context.Context, msg WhatsAppMessage) (*SendResult, error) {
	if msg.Phone == "" {
		return nil, ErrMissingPhone
	}

	payload := map[string]any{
		"channelId":   a.config.ChannelID,
		"channelType": "whatsapp",
		"recipient": map[string]any{
			"name":  msg.CustomerName,
			"phone": msg.Phone,
		},
		"whatsapp": map[string]any{
			"type": "template",
			"template": map[string]any{
				"templateId": gallaboxTemplateID,
				"bodyVariables": []string{
					msg.CustomerName,
					msg.OrderNumber,
					msg.ReviewLink,
				},
			},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("gallabox: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.BaseURL+gallaboxSendMessagePath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gallabox: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", a.config.APIKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("gallabox: failed to read response: %w", err)
	}

	var parsed struct {
		MessageID string `json:"messageId"`
		Message   string `json:"message"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil && resp.StatusCode < 400 {
		return nil, fmt.Errorf("gallabox: failed to parse response: %w", err)
	}

	if resp.StatusCode >= 400 {
		if parsed.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrProviderRequestFailed, parsed.Message)
		}
		return nil, fmt.Errorf("%w: HTTP %d", ErrProviderRequestFailed, resp.StatusCode)
	}

	return &SendResult{MessageID: parsed.MessageID, Provider: "gallabox", Channel: ChannelWhatsApp}, nil
}

// TestConnection validates the API key by listing channels
func (a *GallaboxAdapter) TestConnection(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.config.BaseURL+gallaboxListChannelsPath, nil)
	if err != nil {
		return fmt.Errorf("gallabox: failed to create request: %w", err)
	}
	req.Header.Set("apikey", a.config.APIKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: invalid Gallabox API key", ErrProviderRequestFailed)
	}
	return nil
}
