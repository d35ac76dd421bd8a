package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	kwikEngageAPIBaseURL      = "https://api.kwikengage.ai"
	kwikEngageSendMessagePath = "/send-message/v2"
)

// KwikEngageConfig contains configuration for the KwikEngage API
type KwikEngageConfig struct {
	APIKey string
	// BaseURL overrides the API endpoint, used in tests
	BaseURL string
}

// KwikEngageAdapter implements both EmailProvider and WhatsAppProvider
// over KwikEngage's unified send-message endpoint.
type KwikEngageAdapter struct {
	config     KwikEngageConfig
	httpClient *http.Client
}

// NewKwikEngageAdapter creates a new KwikEngage adapter
func NewKwikEngageAdapter(config KwikEngageConfig) (*KwikEngageAdapter, error) {
	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if config.BaseURL == "" {
		config.BaseURL = kwikEngageAPIBaseURL
	}
	return &KwikEngageAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// SendEmail sends a review request email through KwikEngage
func (a *KwikEngageAdapter) SendEmail(ctx context.Context, msg EmailMessage) (*SendResult, error) {
	if msg.To == "" {
		return nil, ErrMissingRecipient
	}

	payload := map[string]any{
		"channel":   "email",
		"recipient": msg.To,
		"message": map[string]any{
			"subject": msg.Subject,
			"body":    msg.HTML,
			"variables": map[string]any{
				"customer_name": msg.CustomerName,
				"review_link":   msg.ReviewLink,
			},
		},
		"metadata": map[string]any{
			"type":   "review_request",
			"source": "shopify_automation",
		},
	}

	id, err := a.send(ctx, payload)
	if err != nil {
		return nil, err
	}
	return &SendResult{MessageID: id, Provider: "kwikengage", Channel: ChannelEmail}, nil
}

// SendWhatsApp sends a review request WhatsApp message through KwikEngage
func (a *KwikEngageAdapter) SendWhatsApp(ctx context.Context, msg WhatsAppMessage) (*SendResult, error) {
	if msg.Phone == "" {
		return nil, ErrMissingPhone
	}

	payload := map[string]any{
		"channel":   "whatsapp",
		"recipient": msg.Phone,
		"message": map[string]any{
			"type": "text",
			"text": msg.Body,
		},
		"variables": map[string]any{
			"customer_name": msg.CustomerName,
			"review_link":   msg.ReviewLink,
		},
		"metadata": map[string]any{
			"type":   "review_request_whatsapp",
			"source": "shopify_automation",
		},
	}

	id, err := a.send(ctx, payload)
	if err != nil {
		return nil, err
	}
	return &SendResult{MessageID: id, Provider: "kwikengage", Channel: ChannelWhatsApp}, nil
}

// TestConnection validates the API key with a flagged test send
func (a *KwikEngageAdapter) TestConnection(ctx context.Context) error {
	payload := map[string]any{
		"channel":   "email",
		"recipient": "test@example.com",
		"message": map[string]any{
			"subject": "Connection Test",
			"body":    "API connection test",
		},
		"test": true,
	}
	_, err := a.send(ctx, payload)
	return err
}

func (a *KwikEngageAdapter) send(ctx context.Context, payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("kwikengage: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.BaseURL+kwikEngageSendMessagePath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("kwikengage: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.config.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("kwikengage: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%w: HTTP %d: %s", ErrProviderRequestFailed, resp.StatusCode, respBody)
	}

	var parsed struct {
		Success   bool   `json:"success"`
		MessageID string `json:"messageId"`
		ID        string `json:"id"`
		Error     string `json:"error"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("kwikengage: failed to parse response: %w", err)
	}
	if !parsed.Success {
		return "", fmt.Errorf("%w: %s", ErrProviderRequestFailed, parsed.Error)
	}
	if parsed.MessageID != "" {
		return parsed.MessageID, nil
	}
	return parsed.ID, nil
}
