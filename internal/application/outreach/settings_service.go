package outreach

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/reviewhub/backend/internal/domain/outreach"
	"github.com/reviewhub/backend/internal/domain/shared"
)

// SettingsService manages the per-shop automation settings
type SettingsService struct {
	settingsRepo outreach.SettingsRepository
	logger       *zap.Logger
}

// NewSettingsService creates a new settings service
func NewSettingsService(settingsRepo outreach.SettingsRepository, logger *zap.Logger) *SettingsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsService{settingsRepo: settingsRepo, logger: logger}
}

// Get returns the shop's settings, creating a defaults row the first
// time a shop opens the settings page
func (s *SettingsService) Get(ctx context.Context, shop string) (*SettingsResponse, error) {
	settings, err := s.loadOrDefault(ctx, shop)
	if err != nil {
		return nil, err
	}
	return ToSettingsResponse(settings), nil
}

// Update applies the submitted fields on top of the current settings
// and persists the result
func (s *SettingsService) Update(ctx context.Context, shop string, req UpdateSettingsRequest) (*SettingsResponse, error) {
	settings, err := s.loadOrDefault(ctx, shop)
	if err != nil {
		return nil, err
	}

	if req.Enabled != nil {
		settings.Enabled = *req.Enabled
	}
	if req.DeliveryTagName != nil {
		settings.DeliveryTagName = *req.DeliveryTagName
	}
	if req.DelayDays != nil {
		settings.DelayDays = *req.DelayDays
	}
	if req.DelayHours != nil {
		settings.DelayHours = *req.DelayHours
	}
	if req.DelaySeconds != nil {
		settings.DelaySeconds = *req.DelaySeconds
	}
	if req.EmailProvider != nil {
		settings.EmailProvider = outreach.EmailProviderKind(*req.EmailProvider)
	}
	if req.APIKey != nil {
		settings.APIKey = *req.APIKey
	}
	if req.WhatsAppProvider != nil {
		settings.WhatsAppProvider = outreach.WhatsAppProviderKind(*req.WhatsAppProvider)
	}
	if req.WhatsAppAPIKey != nil {
		settings.WhatsAppAPIKey = *req.WhatsAppAPIKey
	}
	if req.EmailSubject != nil {
		settings.EmailSubject = *req.EmailSubject
	}
	if req.MaxReminders != nil {
		settings.MaxReminders = *req.MaxReminders
	}

	if err := settings.Validate(); err != nil {
		return nil, err
	}

	if err := s.settingsRepo.Upsert(ctx, settings); err != nil {
		s.logger.Error("Failed to save automation settings",
			zap.String("shop", shop),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Automation settings updated",
		zap.String("shop", shop),
		zap.Bool("enabled", settings.Enabled),
		zap.String("email_provider", string(settings.EmailProvider)))

	return ToSettingsResponse(settings), nil
}

// loadOrDefault reads the shop's settings, seeding a defaults row when
// the shop has none yet
func (s *SettingsService) loadOrDefault(ctx context.Context, shop string) (*outreach.AutomationSettings, error) {
	settings, err := s.settingsRepo.FindByShop(ctx, shop)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	settings = outreach.NewAutomationSettings(shop)
	if err := s.settingsRepo.Upsert(ctx, settings); err != nil {
		return nil, err
	}
	s.logger.Info("Created default automation settings", zap.String("shop", shop))
	return settings, nil
}
