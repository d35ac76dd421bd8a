package outreach

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/reviewhub/backend/internal/domain/outreach"
	"github.com/reviewhub/backend/internal/domain/shared"
	"github.com/reviewhub/backend/internal/infrastructure/messaging"
	"github.com/reviewhub/backend/internal/infrastructure/shopify"
)

// WebhookTopicOrdersUpdated is the Shopify topic handled by the order
// pipeline
const WebhookTopicOrdersUpdated = "orders/updated"

// WhatsAppDispatcher sends the WhatsApp channel for a freshly created
// request. Implemented by SendService.
type WhatsAppDispatcher interface {
	SendWhatsApp(ctx context.Context, req *outreach.ReviewRequest, settings *outreach.AutomationSettings) (*messaging.SendResult, error)
}

// OrderWebhookService turns delivered-order webhooks into scheduled
// review requests
type OrderWebhookService struct {
	requestRepo  outreach.ReviewRequestRepository
	settingsRepo outreach.SettingsRepository
	logRepo      outreach.WebhookLogRepository
	dedup        shared.IdempotencyStore
	dedupTTL     time.Duration
	dispatcher   WhatsAppDispatcher
	logger       *zap.Logger
	now          func() time.Time
}

// NewOrderWebhookService creates a new order webhook service. dedup may
// be nil when duplicate suppression is disabled; dispatcher may be nil
// when immediate WhatsApp sends are not wanted.
func NewOrderWebhookService(
	requestRepo outreach.ReviewRequestRepository,
	settingsRepo outreach.SettingsRepository,
	logRepo outreach.WebhookLogRepository,
	dedup shared.IdempotencyStore,
	dedupTTL time.Duration,
	dispatcher WhatsAppDispatcher,
	logger *zap.Logger,
) *OrderWebhookService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dedupTTL <= 0 {
		dedupTTL = shared.DefaultIdempotencyConfig().TTL
	}
	return &OrderWebhookService{
		requestRepo:  requestRepo,
		settingsRepo: settingsRepo,
		logRepo:      logRepo,
		dedup:        dedup,
		dedupTTL:     dedupTTL,
		dispatcher:   dispatcher,
		logger:       logger,
		now:          time.Now,
	}
}

// ProcessOrderUpdated handles one orders/updated delivery. Duplicate
// deliveries, orders without a delivery tag, and orders without a
// customer email are all acknowledged without creating a request.
func (s *OrderWebhookService) ProcessOrderUpdated(ctx context.Context, shop, webhookID string, payload []byte) error {
	if s.dedup != nil && webhookID != "" {
		fresh, err := s.dedup.MarkProcessed(ctx, "webhook:"+webhookID, s.dedupTTL)
		if err != nil {
			// Redis being down must not drop webhooks; the unique
			// index still prevents duplicate requests.
			s.logger.Warn("Webhook dedup check failed, continuing",
				zap.String("shop", shop),
				zap.Error(err))
		} else if !fresh {
			s.logger.Debug("Duplicate webhook delivery skipped",
				zap.String("shop", shop),
				zap.String("webhook_id", webhookID))
			return nil
		}
	}

	log := outreach.NewWebhookLog(shop, WebhookTopicOrdersUpdated, "", string(payload))
	if err := s.logRepo.Create(ctx, log); err != nil {
		s.logger.Error("Failed to record webhook",
			zap.String("shop", shop),
			zap.Error(err))
		return err
	}

	order, err := shopify.ParseOrder(payload)
	if err != nil {
		s.finishLog(ctx, log, false, "invalid order payload: "+err.Error())
		return shared.NewDomainError("INVALID_PAYLOAD", "Order webhook payload could not be parsed")
	}
	log.OrderID = order.OrderID()

	settings, err := s.loadSettings(ctx, shop)
	if err != nil {
		s.finishLog(ctx, log, false, err.Error())
		return err
	}

	if !settings.Enabled {
		s.finishLog(ctx, log, true, "")
		return nil
	}

	tag, found := order.DeliveryTag(settings.DeliveryTag())
	if !found {
		s.finishLog(ctx, log, true, "")
		return nil
	}

	email := order.CustomerEmail()
	if email == "" {
		s.logger.Info("Delivered order has no customer email, skipping",
			zap.String("shop", shop),
			zap.String("order_id", order.OrderID()))
		s.finishLog(ctx, log, true, "")
		return nil
	}

	req, err := outreach.NewReviewRequest(
		shop,
		order.OrderID(),
		order.DisplayNumber(),
		order.CustomerName(),
		email,
		order.CustomerPhone(),
		order.ProductIDs(),
		s.now(),
		settings.Delay(),
		settings.EmailProvider,
	)
	if err != nil {
		s.finishLog(ctx, log, false, err.Error())
		return err
	}

	if err := s.requestRepo.Create(ctx, req); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			s.logger.Debug("Review request already scheduled for order",
				zap.String("shop", shop),
				zap.String("order_id", order.OrderID()))
			s.finishLog(ctx, log, true, "")
			return nil
		}
		s.finishLog(ctx, log, false, err.Error())
		return err
	}

	s.logger.Info("Review request scheduled",
		zap.String("shop", shop),
		zap.String("order_id", order.OrderID()),
		zap.String("delivery_tag", tag),
		zap.Time("scheduled_send_date", req.ScheduledSendDate))

	if settings.Delay() == 0 && settings.WhatsAppConfigured() && req.CustomerPhone != "" && s.dispatcher != nil {
		if _, err := s.dispatcher.SendWhatsApp(ctx, req, settings); err != nil {
			s.logger.Warn("Immediate WhatsApp send failed",
				zap.String("shop", shop),
				zap.String("order_id", order.OrderID()),
				zap.Error(err))
		}
	}

	s.finishLog(ctx, log, true, "")
	return nil
}

// loadSettings reads the shop's settings, falling back to defaults for
// shops that never saved any
func (s *OrderWebhookService) loadSettings(ctx context.Context, shop string) (*outreach.AutomationSettings, error) {
	settings, err := s.settingsRepo.FindByShop(ctx, shop)
	if errors.Is(err, shared.ErrNotFound) {
		return outreach.NewAutomationSettings(shop), nil
	}
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *OrderWebhookService) finishLog(ctx context.Context, log *outreach.WebhookLog, success bool, errorMessage string) {
	log.MarkProcessed(success, errorMessage)
	if err := s.logRepo.Save(ctx, log); err != nil {
		s.logger.Warn("Failed to update webhook log",
			zap.String("shop", log.Shop),
			zap.Error(err))
	}
}
