package messaging

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const (
	klaviyoAPIBaseURL   = "https://a.klaviyo.com/api"
	klaviyoEmailsPath   = "/emails/"
	klaviyoEventsPath   = "/events/"
	klaviyoProfilesPath = "/profiles/"
	klaviyoAccountsPath = "/accounts/"
	klaviyoAPIRevision  = "2024-06-15"
	klaviyoMetricName   = "Review Request Sent"
)

// KlaviyoConfig contains configuration for the Klaviyo API
type KlaviyoConfig struct {
	// APIKey is the private API key (pk_...)
	APIKey string
	// FromEmail and FromName set the sender on transactional emails
	FromEmail string
	FromName  string
	// BaseURL overrides the API endpoint, used in tests
	BaseURL string
}

// KlaviyoAdapter implements EmailProvider for Klaviyo. Sending tries
// three methods in order: the transactional email API, then event
// tracking (delivery happens through a configured Klaviyo flow), then
// a bare profile upsert so the contact at least lands in Klaviyo.
type KlaviyoAdapter struct {
	config     KlaviyoConfig
	httpClient *http.Client
}

// NewKlaviyoAdapter creates a new Klaviyo adapter
func NewKlaviyoAdapter(config KlaviyoConfig) (*KlaviyoAdapter, error) {
	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if config.BaseURL == "" {
		config.BaseURL = klaviyoAPIBaseURL
	}
	return &KlaviyoAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// SendEmail sends a review request email through Klaviyo
func (a *KlaviyoAdapter) SendEmail(ctx context.Context, msg EmailMessage) (*SendResult, error) {
	if msg.To == "" {
		return nil, ErrMissingRecipient
	}

	if id, err := a.sendTransactional(ctx, msg); err == nil {
		return &SendResult{MessageID: id, Provider: "klaviyo", Channel: ChannelEmail, Method: "transactional_email"}, nil
	}

	if id, err := a.trackEvent(ctx, msg); err == nil {
		return &SendResult{MessageID: id, Provider: "klaviyo", Channel: ChannelEmail, Method: "event_tracking"}, nil
	}

	id, err := a.upsertProfile(ctx, msg)
	if err != nil {
		return nil, err
	}
	return &SendResult{MessageID: id, Provider: "klaviyo", Channel: ChannelEmail, Method: "profile_update"}, nil
}

// TestConnection verifies the API key against the accounts endpoint
func (a *KlaviyoAdapter) TestConnection(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.config.BaseURL+klaviyoAccountsPath, nil)
	if err != nil {
		return fmt.Errorf("klaviyo: failed to create request: %w", err)
	}
	a.setHeaders(req)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: HTTP %d: %s", ErrProviderRequestFailed, resp.StatusCode, body)
	}
	return nil
}

func (a *KlaviyoAdapter) sendTransactional(ctx context.Context, msg EmailMessage) (string, error) {
	name := msg.CustomerName
	if name == "" {
		name = "Valued Customer"
	}
	payload := map[string]any{
		"data": map[string]any{
			"type": "email",
			"attributes": map[string]any{
				"send_options": map[string]any{
					"use_smart_sending":  false,
					"ignore_preferences": false,
				},
				"send_strategy": map[string]any{
					"method": "immediate",
				},
				"recipient": map[string]any{
					"email": msg.To,
					"name":  name,
				},
				"from_email": a.config.FromEmail,
				"from_name":  a.config.FromName,
				"subject":    msg.Subject,
				"content": map[string]any{
					"html": msg.HTML,
					"text": stripHTML(msg.HTML),
				},
			},
		},
	}
	return a.post(ctx, klaviyoEmailsPath, payload)
}

func (a *KlaviyoAdapter) trackEvent(ctx context.Context, msg EmailMessage) (string, error) {
	payload := map[string]any{
		"data": map[string]any{
			"type": "event",
			"attributes": map[string]any{
				"properties": map[string]any{
					"order_number":  msg.OrderNumber,
					"customer_name": msg.CustomerName,
					"review_link":   msg.ReviewLink,
					"email_subject": msg.Subject,
				},
				"metric": map[string]any{
					"data": map[string]any{
						"type": "metric",
						"attributes": map[string]any{
							"name": klaviyoMetricName,
						},
					},
				},
				"profile": map[string]any{
					"data": map[string]any{
						"type": "profile",
						"attributes": map[string]any{
							"email": msg.To,
						},
					},
				},
				"time": time.Now().UTC().Format(time.RFC3339),
			},
		},
	}
	return a.post(ctx, klaviyoEventsPath, payload)
}

func (a *KlaviyoAdapter) upsertProfile(ctx context.Context, msg EmailMessage) (string, error) {
	attributes := map[string]any{
		"email": msg.To,
		"properties": map[string]any{
			"last_order_number":  msg.OrderNumber,
			"last_review_link":   msg.ReviewLink,
			"last_email_subject": msg.Subject,
			"source":             "review_request_app",
		},
	}
	if msg.CustomerName != "" {
		attributes["first_name"] = strings.Fields(msg.CustomerName)[0]
	}
	payload := map[string]any{
		"data": map[string]any{
			"type":       "profile",
			"attributes": attributes,
		},
	}
	return a.post(ctx, klaviyoProfilesPath, payload)
}

// post sends a JSON payload and returns the created resource ID
func (a *KlaviyoAdapter) post(ctx context.Context, path string, payload any) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("klaviyo: failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.config.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("klaviyo: failed to create request: %w", err)
	}
	a.setHeaders(req)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("klaviyo: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("%w: HTTP %d: %s", ErrProviderRequestFailed, resp.StatusCode, respBody)
	}

	// Some endpoints return 202 with an empty body
	if len(bytes.TrimSpace(respBody)) == 0 {
		return "", nil
	}

	var parsed struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", fmt.Errorf("klaviyo: failed to parse response: %w", err)
	}
	return parsed.Data.ID, nil
}

func (a *KlaviyoAdapter) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Klaviyo-API-Key "+a.config.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Revision", klaviyoAPIRevision)
}

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// stripHTML produces a plain-text rendition of an HTML body
func stripHTML(html string) string {
	text := htmlTagPattern.ReplaceAllString(html, "")
	replacer := strings.NewReplacer(
		"&nbsp;", " ",
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&#39;", "'",
		"&quot;", `"`,
	)
	return strings.TrimSpace(replacer.Replace(text))
}
