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
	interaktAPIBaseURL      = "https://api.interakt.ai"
	interaktSendMessagePath = "/v1/public/message/"
	interaktTrackUsersPath  = "/v1/public/track/users/"
	interaktTemplateName    = "review_request"
)

// InteraktConfig contains configuration for the Interakt WhatsApp API
type InteraktConfig struct {
	// APIKey is the base64 key sent as Basic authorization
	APIKey string
	// BaseURL overrides the API endpoint, used in tests
	BaseURL string
}

// InteraktAdapter implements WhatsAppProvider for Interakt. Interakt
// wants the country code and national number as separate fields, split
// from the E.164 phone.
type InteraktAdapter struct {
	config     InteraktConfig
	httpClient *http.Client
}

// NewInteraktAdapter creates a new Interakt adapter
func NewInteraktAdapter(config InteraktConfig) (*InteraktAdapter, error) {
	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if config.BaseURL == "" {
		config.BaseURL = interaktAPIBaseURL
	}
	return &InteraktAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// SendWhatsApp sends a review request template message through Interakt
func (a *InteraktAdapter) SendWhatsApp(ctx context.Context, msg WhatsAppMessage) (*SendResult, error) {
	if len(msg.Phone) < 4 {
		return nil, ErrMissingPhone
	}

	payload := map[string]any{
		"countryCode": msg.Phone[1:3],
		"phoneNumber": msg.Phone[3:],
		"type":        "Template",
		"template": map[string]any{
			"name":         interaktTemplateName,
			"languageCode": "en",
			"bodyValues": []string{
				msg.CustomerName,
				msg.OrderNumber,
				msg.ReviewLink,
			},
		},
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("interakt: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.BaseURL+interaktSendMessagePath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("interakt: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Basic "+a.config.APIKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("interakt: failed to read response: %w", err)
	}

	var parsed struct {
		Result    bool   `json:"result"`
		MessageID string `json:"messageId"`
		Message   string `json:"message"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil && resp.StatusCode < 400 {
		return nil, fmt.Errorf("interakt: failed to parse response: %w", err)
	}

	if resp.StatusCode >= 400 || !parsed.Result {
		if parsed.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrProviderRequestFailed, parsed.Message)
		}
		return nil, fmt.Errorf("%w: HTTP %d", ErrProviderRequestFailed, resp.StatusCode)
	}

	return &SendResult{MessageID: parsed.MessageID, Provider: "interakt", Channel: ChannelWhatsApp}, nil
}

// TestConnection validates the API key against the user tracking endpoint
func (a *InteraktAdapter) TestConnection(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.config.BaseURL+interaktTrackUsersPath, nil)
	if err != nil {
		return fmt.Errorf("interakt: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Basic "+a.config.APIKey)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("%w: invalid Interakt API key", ErrProviderRequestFailed)
	}
	return nil
}
