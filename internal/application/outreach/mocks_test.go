package outreach

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/reviewhub/backend/internal/domain/outreach"
	"github.com/reviewhub/backend/internal/domain/review"
	"github.com/reviewhub/backend/internal/domain/shared"
	"github.com/reviewhub/backend/internal/infrastructure/messaging"
)

const testShop = "demo.myshopify.com"

// MockReviewRequestRepository is a mock implementation of ReviewRequestRepository
type MockReviewRequestRepository struct {
	mock.Mock
}

func (m *MockReviewRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*outreach.ReviewRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outreach.ReviewRequest), args.Error(1)
}

func (m *MockReviewRequestRepository) FindByOrder(ctx context.Context, shop, orderID string) (*outreach.ReviewRequest, error) {
	args := m.Called(ctx, shop, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outreach.ReviewRequest), args.Error(1)
}

func (m *MockReviewRequestRepository) FindAllForShop(ctx context.Context, shop string, filter shared.Filter) ([]outreach.ReviewRequest, error) {
	args := m.Called(ctx, shop, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]outreach.ReviewRequest), args.Error(1)
}

func (m *MockReviewRequestRepository) FindDue(ctx context.Context, shop string, now time.Time, limit int) ([]outreach.ReviewRequest, error) {
	args := m.Called(ctx, shop, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]outreach.ReviewRequest), args.Error(1)
}

func (m *MockReviewRequestRepository) FindDueAcrossShops(ctx context.Context, now time.Time, limit int) ([]outreach.ReviewRequest, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]outreach.ReviewRequest), args.Error(1)
}

func (m *MockReviewRequestRepository) Create(ctx context.Context, r *outreach.ReviewRequest) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReviewRequestRepository) Save(ctx context.Context, r *outreach.ReviewRequest) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReviewRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReviewRequestRepository) DeleteAllForShop(ctx context.Context, shop string) (int64, error) {
	args := m.Called(ctx, shop)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewRequestRepository) CountByCustomerEmail(ctx context.Context, shop, email string) (int64, error) {
	args := m.Called(ctx, shop, email)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewRequestRepository) DeleteByCustomerEmail(ctx context.Context, shop, email string) (int64, error) {
	args := m.Called(ctx, shop, email)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewRequestRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockSettingsRepository is a mock implementation of SettingsRepository
type MockSettingsRepository struct {
	mock.Mock
}

func (m *MockSettingsRepository) FindByShop(ctx context.Context, shop string) (*outreach.AutomationSettings, error) {
	args := m.Called(ctx, shop)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outreach.AutomationSettings), args.Error(1)
}

func (m *MockSettingsRepository) Upsert(ctx context.Context, s *outreach.AutomationSettings) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSettingsRepository) DeleteForShop(ctx context.Context, shop string) (int64, error) {
	args := m.Called(ctx, shop)
	return args.Get(0).(int64), args.Error(1)
}

// MockWebhookLogRepository is a mock implementation of WebhookLogRepository
type MockWebhookLogRepository struct {
	mock.Mock
}

func (m *MockWebhookLogRepository) Create(ctx context.Context, l *outreach.WebhookLog) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockWebhookLogRepository) Save(ctx context.Context, l *outreach.WebhookLog) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

func (m *MockWebhookLogRepository) FindByID(ctx context.Context, id uuid.UUID) (*outreach.WebhookLog, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outreach.WebhookLog), args.Error(1)
}

func (m *MockWebhookLogRepository) FindAllForShop(ctx context.Context, shop string, filter shared.Filter) ([]outreach.WebhookLog, error) {
	args := m.Called(ctx, shop, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]outreach.WebhookLog), args.Error(1)
}

func (m *MockWebhookLogRepository) DeleteAllForShop(ctx context.Context, shop string) (int64, error) {
	args := m.Called(ctx, shop)
	return args.Get(0).(int64), args.Error(1)
}

// MockSessionRepository is a mock implementation of SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) FindByID(ctx context.Context, id string) (*outreach.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*outreach.Session), args.Error(1)
}

func (m *MockSessionRepository) FindByShop(ctx context.Context, shop string) ([]outreach.Session, error) {
	args := m.Called(ctx, shop)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]outreach.Session), args.Error(1)
}

func (m *MockSessionRepository) Save(ctx context.Context, s *outreach.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockSessionRepository) DeleteAllForShop(ctx context.Context, shop string) (int64, error) {
	args := m.Called(ctx, shop)
	return args.Get(0).(int64), args.Error(1)
}

// MockIdempotencyStore is a mock implementation of shared.IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, key, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockRegistry is a mock implementation of ProviderRegistry
type MockRegistry struct {
	mock.Mock
}

func (m *MockRegistry) EmailProvider(kind outreach.EmailProviderKind, apiKey string) (messaging.EmailProvider, error) {
	args := m.Called(kind, apiKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(messaging.EmailProvider), args.Error(1)
}

func (m *MockRegistry) WhatsAppProvider(kind outreach.WhatsAppProviderKind, apiKey string) (messaging.WhatsAppProvider, error) {
	args := m.Called(kind, apiKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(messaging.WhatsAppProvider), args.Error(1)
}

// MockEmailProvider is a mock implementation of messaging.EmailProvider
type MockEmailProvider struct {
	mock.Mock
}

func (m *MockEmailProvider) SendEmail(ctx context.Context, msg messaging.EmailMessage) (*messaging.SendResult, error) {
	args := m.Called(ctx, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*messaging.SendResult), args.Error(1)
}

func (m *MockEmailProvider) TestConnection(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockWhatsAppProvider is a mock implementation of messaging.WhatsAppProvider
type MockWhatsAppProvider struct {
	mock.Mock
}

func (m *MockWhatsAppProvider) SendWhatsApp(ctx context.Context, msg messaging.WhatsAppMessage) (*messaging.SendResult, error) {
	args := m.Called(ctx, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*messaging.SendResult), args.Error(1)
}

func (m *MockWhatsAppProvider) TestConnection(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// MockDispatcher is a mock implementation of WhatsAppDispatcher
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) SendWhatsApp(ctx context.Context, req *outreach.ReviewRequest, settings *outreach.AutomationSettings) (*messaging.SendResult, error) {
	args := m.Called(ctx, req, settings)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*messaging.SendResult), args.Error(1)
}

// MockReviewRepository is a mock implementation of review.ReviewRepository
type MockReviewRepository struct {
	mock.Mock
}

func (m *MockReviewRepository) FindByID(ctx context.Context, id uuid.UUID) (*review.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.Review), args.Error(1)
}

func (m *MockReviewRepository) FindByIDForShop(ctx context.Context, shop string, id uuid.UUID) (*review.Review, error) {
	args := m.Called(ctx, shop, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.Review), args.Error(1)
}

func (m *MockReviewRepository) FindAllForShop(ctx context.Context, shop string, filter shared.Filter) ([]review.Review, error) {
	args := m.Called(ctx, shop, filter)
	return args.Get(0).([]review.Review), args.Error(1)
}

func (m *MockReviewRepository) FindByProducts(ctx context.Context, shop string, productIDs []string, approvedOnly bool, filter shared.Filter) ([]review.Review, error) {
	args := m.Called(ctx, shop, productIDs, approvedOnly, filter)
	return args.Get(0).([]review.Review), args.Error(1)
}

func (m *MockReviewRepository) Save(ctx context.Context, r *review.Review) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockReviewRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReviewRepository) DeleteAllForShop(ctx context.Context, shop string) (int64, error) {
	args := m.Called(ctx, shop)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewRepository) CountByCustomerEmail(ctx context.Context, shop, email string) (int64, error) {
	args := m.Called(ctx, shop, email)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewRepository) DeleteByCustomerEmail(ctx context.Context, shop, email string) (int64, error) {
	args := m.Called(ctx, shop, email)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewRepository) CountByProducts(ctx context.Context, shop string, productIDs []string, approvedOnly bool) (int64, error) {
	args := m.Called(ctx, shop, productIDs, approvedOnly)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewRepository) StatsForShop(ctx context.Context, shop string) (*review.Stats, error) {
	args := m.Called(ctx, shop)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.Stats), args.Error(1)
}

func (m *MockReviewRepository) AverageRatingByProducts(ctx context.Context, shop string, productIDs []string) (decimal.Decimal, error) {
	args := m.Called(ctx, shop, productIDs)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockReviewRepository) AssignGroupByProducts(ctx context.Context, shop string, groupID uuid.UUID, productIDs []string) (int64, error) {
	args := m.Called(ctx, shop, groupID, productIDs)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReviewRepository) ClearGroupAssignments(ctx context.Context, shop string, groupID uuid.UUID) (int64, error) {
	args := m.Called(ctx, shop, groupID)
	return args.Get(0).(int64), args.Error(1)
}

// MockProductGroupRepository is a mock implementation of review.ProductGroupRepository
type MockProductGroupRepository struct {
	mock.Mock
}

func (m *MockProductGroupRepository) FindByID(ctx context.Context, id uuid.UUID) (*review.ProductGroup, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.ProductGroup), args.Error(1)
}

func (m *MockProductGroupRepository) FindByIDForShop(ctx context.Context, shop string, id uuid.UUID) (*review.ProductGroup, error) {
	args := m.Called(ctx, shop, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.ProductGroup), args.Error(1)
}

func (m *MockProductGroupRepository) FindAllForShop(ctx context.Context, shop string, filter shared.Filter) ([]review.ProductGroup, error) {
	args := m.Called(ctx, shop, filter)
	return args.Get(0).([]review.ProductGroup), args.Error(1)
}

func (m *MockProductGroupRepository) FindByProduct(ctx context.Context, shop string, productID string) (*review.ProductGroup, error) {
	args := m.Called(ctx, shop, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*review.ProductGroup), args.Error(1)
}

func (m *MockProductGroupRepository) Save(ctx context.Context, g *review.ProductGroup) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *MockProductGroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductGroupRepository) DeleteAllForShop(ctx context.Context, shop string) (int64, error) {
	args := m.Called(ctx, shop)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductGroupRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}
