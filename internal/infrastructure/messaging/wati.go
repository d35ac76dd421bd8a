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
	watiAPIBaseURL       = "https://live-server.wati.io"
	watiSendTemplatePath = "/api/v1/sendTemplateMessage"
	watiGetTemplatesPath = "/api/v1/getTemplates"
	watiTemplateName     = "review_request"
)

// WatiConfig contains configuration for the Wati WhatsApp API
type WatiConfig struct {
	APIKey string
	// BaseURL overrides the API endpoint, used in tests
	BaseURL string
}

// WatiAdapter implements WhatsAppProvider for Wati. Messages go out as
// the pre-approved review_request template with body variables for the
// customer name, order number and review link.
type WatiAdapter struct {
	config     WatiConfig
	httpClient *http.Client
}

// NewWatiAdapter creates a new Wati adapter
func NewWatiAdapter(config WatiConfig) (*WatiAdapter, error) {
	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if config.BaseURL == "" {
		config.BaseURL = watiAPIBaseURL
	}
	return &WatiAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// SendWhatsApp sends a review request template message through Wati
func (a *WatiAdapter) SendWhatsApp(ctx context.Context, msg WhatsAppMessage) (*SendResult, error) {
	if msg.Phone == "" {
		return nil, ErrMissingPhone
	}

	payload := map[string]any{
		"whatsappNumber": msg.Phone,
		"templateName":   watiTemplateName,
		"bodyVariables": []string{
			msg.CustomerName,
			msg.OrderNumber,
			msg.ReviewLink,
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("wati: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.BaseURL+watiSendTemplatePath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("wati: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+a.config.APIKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("wati: failed to read response: %w", err)
	}

	var parsed struct {
		ID      string `json:"id"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil && resp.StatusCode < 400 {
		return nil, fmt.Errorf("wati: failed to parse response: %w", err)
	}

	if resp.StatusCode >= 400 {
		if parsed.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrProviderRequestFailed, parsed.Message)
		}
		return nil, fmt.Errorf("%w: HTTP %d", ErrProviderRequestFailed, resp.StatusCode)
	}

	return &SendResult{MessageID: parsed.ID, Provider: "wati", Channel: ChannelWhatsApp}, nil
}

// TestConnection validates the API key by listing templates
func (a *WatiAdapter) TestConnection(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.config.BaseURL+watiGetTemplatesPath, nil)
	if err != nil {
		return fmt.Errorf("wati: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.config.APIKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: invalid Wati API key", ErrProviderRequestFailed)
	}
	return nil
}
