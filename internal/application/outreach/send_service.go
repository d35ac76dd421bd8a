package outreach

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/reviewhub/backend/internal/domain/outreach"
	"github.com/reviewhub/backend/internal/domain/shared"
	"github.com/reviewhub/backend/internal/infrastructure/messaging"
)

// manualBatchSize caps how many due requests a manual process-pending
// trigger sends in one call
const manualBatchSize = 10

// ProviderRegistry builds channel adapters from per-shop credentials.
// Implemented by messaging.Registry.
type ProviderRegistry interface {
	EmailProvider(kind outreach.EmailProviderKind, apiKey string) (messaging.EmailProvider, error)
	WhatsAppProvider(kind outreach.WhatsAppProviderKind, apiKey string) (messaging.WhatsAppProvider, error)
}

// SendService dispatches review requests over email and WhatsApp and
// records the outcome on the request row
type SendService struct {
	requestRepo  outreach.ReviewRequestRepository
	settingsRepo outreach.SettingsRepository
	registry     ProviderRegistry
	spacing      time.Duration
	logger       *zap.Logger
	now          func() time.Time
}

// NewSendService creates a new send service. spacing is the pause
// between consecutive sends in a batch; zero disables it.
func NewSendService(
	requestRepo outreach.ReviewRequestRepository,
	settingsRepo outreach.SettingsRepository,
	registry ProviderRegistry,
	spacing time.Duration,
	logger *zap.Logger,
) *SendService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SendService{
		requestRepo:  requestRepo,
		settingsRepo: settingsRepo,
		registry:     registry,
		spacing:      spacing,
		logger:       logger,
		now:          time.Now,
	}
}

// SendReviewRequest sends one request over both configured channels and
// saves the resulting status. The email outcome decides sent vs failed;
// a WhatsApp delivery without the email leaves the row partially sent.
func (s *SendService) SendReviewRequest(ctx context.Context, req *outreach.ReviewRequest, settings *outreach.AutomationSettings) error {
	link := messaging.ReviewLink(req.Shop, firstProductID(req), req.OrderID, req.CustomerEmail)
	data := messaging.TemplateData{
		CustomerName: req.CustomerName,
		OrderNumber:  req.OrderNumber,
		ReviewLink:   link,
	}

	whatsappSent := req.WhatsAppSent
	if !whatsappSent && settings.WhatsAppConfigured() && req.CustomerPhone != "" {
		if _, err := s.dispatchWhatsApp(ctx, req, settings, data); err != nil {
			s.logger.Warn("WhatsApp send failed",
				zap.String("shop", req.Shop),
				zap.String("order_id", req.OrderID),
				zap.Error(err))
		} else {
			whatsappSent = true
		}
	}

	html, err := messaging.RenderEmailHTML(data)
	if err != nil {
		req.MarkFailed(err.Error(), whatsappSent)
		if saveErr := s.requestRepo.Save(ctx, req); saveErr != nil {
			return saveErr
		}
		return err
	}

	provider, err := s.registry.EmailProvider(settings.EmailProvider, settings.APIKey)
	if err != nil {
		req.MarkFailed(err.Error(), whatsappSent)
		if saveErr := s.requestRepo.Save(ctx, req); saveErr != nil {
			return saveErr
		}
		return err
	}

	result, err := provider.SendEmail(ctx, messaging.EmailMessage{
		To:           req.CustomerEmail,
		Subject:      settings.Subject(),
		HTML:         html,
		CustomerName: req.CustomerName,
		OrderNumber:  req.OrderNumber,
		ReviewLink:   link,
	})
	if err != nil {
		req.MarkFailed(err.Error(), whatsappSent)
		if saveErr := s.requestRepo.Save(ctx, req); saveErr != nil {
			return saveErr
		}
		s.logger.Error("Review request email failed",
			zap.String("shop", req.Shop),
			zap.String("order_id", req.OrderID),
			zap.String("provider", string(settings.EmailProvider)),
			zap.Error(err))
		return err
	}

	req.MarkSent(whatsappSent, s.now())
	if err := s.requestRepo.Save(ctx, req); err != nil {
		return err
	}

	s.logger.Info("Review request sent",
		zap.String("shop", req.Shop),
		zap.String("order_id", req.OrderID),
		zap.String("provider", result.Provider),
		zap.String("method", result.Method),
		zap.Bool("whatsapp_sent", whatsappSent))
	return nil
}

// SendWhatsApp dispatches only the WhatsApp channel for a request and
// marks the row partially sent on success. Used for the immediate send
// on delivery when no delay is configured.
func (s *SendService) SendWhatsApp(ctx context.Context, req *outreach.ReviewRequest, settings *outreach.AutomationSettings) (*messaging.SendResult, error) {
	link := messaging.ReviewLink(req.Shop, firstProductID(req), req.OrderID, req.CustomerEmail)
	result, err := s.dispatchWhatsApp(ctx, req, settings, messaging.TemplateData{
		CustomerName: req.CustomerName,
		OrderNumber:  req.OrderNumber,
		ReviewLink:   link,
	})
	if err != nil {
		return nil, err
	}

	req.MarkWhatsAppSent(s.now())
	if err := s.requestRepo.Save(ctx, req); err != nil {
		return nil, err
	}

	s.logger.Info("WhatsApp review request sent",
		zap.String("shop", req.Shop),
		zap.String("order_id", req.OrderID),
		zap.String("provider", result.Provider))
	return result, nil
}

func (s *SendService) dispatchWhatsApp(ctx context.Context, req *outreach.ReviewRequest, settings *outreach.AutomationSettings, data messaging.TemplateData) (*messaging.SendResult, error) {
	provider, err := s.registry.WhatsAppProvider(settings.WhatsAppProvider, settings.WhatsAppAPIKey)
	if err != nil {
		return nil, err
	}
	return provider.SendWhatsApp(ctx, messaging.WhatsAppMessage{
		Phone:        messaging.FormatPhoneNumber(req.CustomerPhone),
		Body:         messaging.RenderWhatsAppText(data),
		CustomerName: req.CustomerName,
		OrderNumber:  req.OrderNumber,
		ReviewLink:   data.ReviewLink,
	})
}

// ProcessPending sends due requests across all shops, oldest first.
// Returns the number of requests sent successfully. Implements the
// background poller's processor contract.
func (s *SendService) ProcessPending(ctx context.Context, batchSize int) (int, error) {
	due, err := s.requestRepo.FindDueAcrossShops(ctx, s.now(), batchSize)
	if err != nil {
		return 0, err
	}
	return s.sendBatch(ctx, due)
}

// ProcessPendingForShop sends due requests for one shop, capped at the
// manual batch size. Backs the process-pending admin trigger.
func (s *SendService) ProcessPendingForShop(ctx context.Context, shop string) (int, error) {
	due, err := s.requestRepo.FindDue(ctx, shop, s.now(), manualBatchSize)
	if err != nil {
		return 0, err
	}
	return s.sendBatch(ctx, due)
}

// sendBatch sends requests sequentially with a pause between sends.
// Per-shop settings are loaded once per batch; shops with automation
// disabled are skipped.
func (s *SendService) sendBatch(ctx context.Context, due []outreach.ReviewRequest) (int, error) {
	settingsByShop := make(map[string]*outreach.AutomationSettings)
	sent := 0
	for i := range due {
		if i > 0 && s.spacing > 0 {
			select {
			case <-ctx.Done():
				return sent, ctx.Err()
			case <-time.After(s.spacing):
			}
		}

		req := &due[i]
		settings, ok := settingsByShop[req.Shop]
		if !ok {
			loaded, err := s.settingsRepo.FindByShop(ctx, req.Shop)
			if errors.Is(err, shared.ErrNotFound) {
				loaded = outreach.NewAutomationSettings(req.Shop)
			} else if err != nil {
				s.logger.Error("Failed to load settings for due request",
					zap.String("shop", req.Shop),
					zap.Error(err))
				continue
			}
			settings = loaded
			settingsByShop[req.Shop] = settings
		}

		if !settings.Enabled {
			continue
		}

		if err := s.SendReviewRequest(ctx, req, settings); err != nil {
			continue
		}
		sent++
	}
	return sent, nil
}

// SendTestEmail sends a sample review request email to the given
// address using the shop's stored credentials. No request row is
// created or updated.
func (s *SendService) SendTestEmail(ctx context.Context, shop, to string) (*messaging.SendResult, error) {
	settings, err := s.settingsRepo.FindByShop(ctx, shop)
	if err != nil {
		return nil, err
	}
	provider, err := s.registry.EmailProvider(settings.EmailProvider, settings.APIKey)
	if err != nil {
		return nil, err
	}

	link := messaging.ReviewLink(shop, "0", "test", to)
	data := messaging.TemplateData{
		CustomerName: "Test Customer",
		OrderNumber:  "12345",
		ReviewLink:   link,
	}
	html, err := messaging.RenderEmailHTML(data)
	if err != nil {
		return nil, err
	}

	return provider.SendEmail(ctx, messaging.EmailMessage{
		To:           to,
		Subject:      settings.Subject(),
		HTML:         html,
		CustomerName: data.CustomerName,
		OrderNumber:  data.OrderNumber,
		ReviewLink:   link,
	})
}

// SendTestWhatsApp sends a sample review request message to the given
// phone number using the shop's stored credentials
func (s *SendService) SendTestWhatsApp(ctx context.Context, shop, phone string) (*messaging.SendResult, error) {
	settings, err := s.settingsRepo.FindByShop(ctx, shop)
	if err != nil {
		return nil, err
	}
	provider, err := s.registry.WhatsAppProvider(settings.WhatsAppProvider, settings.WhatsAppAPIKey)
	if err != nil {
		return nil, err
	}

	link := messaging.ReviewLink(shop, "0", "test", "")
	data := messaging.TemplateData{
		CustomerName: "Test Customer",
		OrderNumber:  "12345",
		ReviewLink:   link,
	}
	return provider.SendWhatsApp(ctx, messaging.WhatsAppMessage{
		Phone:        messaging.FormatPhoneNumber(phone),
		Body:         messaging.RenderWhatsAppText(data),
		CustomerName: data.CustomerName,
		OrderNumber:  data.OrderNumber,
		ReviewLink:   link,
	})
}

// TestEmailConnection verifies the shop's email credentials against the
// provider's read endpoint
func (s *SendService) TestEmailConnection(ctx context.Context, shop string) error {
	settings, err := s.settingsRepo.FindByShop(ctx, shop)
	if err != nil {
		return err
	}
	provider, err := s.registry.EmailProvider(settings.EmailProvider, settings.APIKey)
	if err != nil {
		return err
	}
	return provider.TestConnection(ctx)
}

// TestWhatsAppConnection verifies the shop's WhatsApp credentials
// against the provider's read endpoint
func (s *SendService) TestWhatsAppConnection(ctx context.Context, shop string) error {
	settings, err := s.settingsRepo.FindByShop(ctx, shop)
	if err != nil {
		return err
	}
	provider, err := s.registry.WhatsAppProvider(settings.WhatsAppProvider, settings.WhatsAppAPIKey)
	if err != nil {
		return err
	}
	return provider.TestConnection(ctx)
}

func firstProductID(req *outreach.ReviewRequest) string {
	if len(req.ProductIDs) > 0 {
		return req.ProductIDs[0]
	}
	return "0"
}
