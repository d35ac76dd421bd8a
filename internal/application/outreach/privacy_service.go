package outreach

import (
	"context"

	"go.uber.org/zap"

	"github.com/reviewhub/backend/internal/domain/outreach"
	"github.com/reviewhub/backend/internal/domain/review"
)

// PrivacyService handles Shopify's GDPR webhooks: customer data
// requests, customer erasure, and full shop erasure on uninstall
type PrivacyService struct {
	reviewRepo   review.ReviewRepository
	groupRepo    review.ProductGroupRepository
	requestRepo  outreach.ReviewRequestRepository
	settingsRepo outreach.SettingsRepository
	logRepo      outreach.WebhookLogRepository
	sessionRepo  outreach.SessionRepository
	logger       *zap.Logger
}

// NewPrivacyService creates a new privacy service
func NewPrivacyService(
	reviewRepo review.ReviewRepository,
	groupRepo review.ProductGroupRepository,
	requestRepo outreach.ReviewRequestRepository,
	settingsRepo outreach.SettingsRepository,
	logRepo outreach.WebhookLogRepository,
	sessionRepo outreach.SessionRepository,
	logger *zap.Logger,
) *PrivacyService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PrivacyService{
		reviewRepo:   reviewRepo,
		groupRepo:    groupRepo,
		requestRepo:  requestRepo,
		settingsRepo: settingsRepo,
		logRepo:      logRepo,
		sessionRepo:  sessionRepo,
		logger:       logger,
	}
}

// CustomerDataRequest reports what the app stores about a customer.
// The counts are logged as the compliance record; Shopify only needs
// the acknowledgement.
func (s *PrivacyService) CustomerDataRequest(ctx context.Context, shop, email string) (*CustomerDataReport, error) {
	reviews, err := s.reviewRepo.CountByCustomerEmail(ctx, shop, email)
	if err != nil {
		return nil, err
	}
	requests, err := s.requestRepo.CountByCustomerEmail(ctx, shop, email)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Customer data request received",
		zap.String("shop", shop),
		zap.Int64("reviews", reviews),
		zap.Int64("requests", requests))

	return &CustomerDataReport{
		Shop:          shop,
		CustomerEmail: email,
		Reviews:       reviews,
		Requests:      requests,
	}, nil
}

// CustomerErasure deletes everything stored about one customer within
// the shop: their reviews and their review requests
func (s *PrivacyService) CustomerErasure(ctx context.Context, shop, email string) (*CustomerErasureReport, error) {
	reviews, err := s.reviewRepo.DeleteByCustomerEmail(ctx, shop, email)
	if err != nil {
		return nil, err
	}
	requests, err := s.requestRepo.DeleteByCustomerEmail(ctx, shop, email)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Customer data erased",
		zap.String("shop", shop),
		zap.Int64("reviews_deleted", reviews),
		zap.Int64("requests_deleted", requests))

	return &CustomerErasureReport{
		Shop:            shop,
		CustomerEmail:   email,
		ReviewsDeleted:  reviews,
		RequestsDeleted: requests,
	}, nil
}

// EraseShop deletes every row the app holds for a shop across all six
// tables. Partial failure stops at the failing table so a retry can
// finish the job.
func (s *PrivacyService) EraseShop(ctx context.Context, shop string) (*ShopErasureReport, error) {
	report := &ShopErasureReport{Shop: shop}
	var err error

	if report.Reviews, err = s.reviewRepo.DeleteAllForShop(ctx, shop); err != nil {
		return nil, err
	}
	if report.ProductGroups, err = s.groupRepo.DeleteAllForShop(ctx, shop); err != nil {
		return nil, err
	}
	if report.Requests, err = s.requestRepo.DeleteAllForShop(ctx, shop); err != nil {
		return nil, err
	}
	if report.Settings, err = s.settingsRepo.DeleteForShop(ctx, shop); err != nil {
		return nil, err
	}
	if report.WebhookLogs, err = s.logRepo.DeleteAllForShop(ctx, shop); err != nil {
		return nil, err
	}
	if report.Sessions, err = s.sessionRepo.DeleteAllForShop(ctx, shop); err != nil {
		return nil, err
	}

	s.logger.Info("Shop data erased",
		zap.String("shop", shop),
		zap.Int64("reviews", report.Reviews),
		zap.Int64("product_groups", report.ProductGroups),
		zap.Int64("requests", report.Requests),
		zap.Int64("settings", report.Settings),
		zap.Int64("webhook_logs", report.WebhookLogs),
		zap.Int64("sessions", report.Sessions))

	return report, nil
}
