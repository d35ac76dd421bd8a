package outreach

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type privacyServiceFixture struct {
	reviewRepo   *MockReviewRepository
	groupRepo    *MockProductGroupRepository
	requestRepo  *MockReviewRequestRepository
	settingsRepo *MockSettingsRepository
	logRepo      *MockWebhookLogRepository
	sessionRepo  *MockSessionRepository
	service      *PrivacyService
}

func newPrivacyServiceFixture() *privacyServiceFixture {
	f := &privacyServiceFixture{
		reviewRepo:   new(MockReviewRepository),
		groupRepo:    new(MockProductGroupRepository),
		requestRepo:  new(MockReviewRequestRepository),
		settingsRepo: new(MockSettingsRepository),
		logRepo:      new(MockWebhookLogRepository),
		sessionRepo:  new(MockSessionRepository),
	}
	f.service = NewPrivacyService(
		f.reviewRepo, f.groupRepo, f.requestRepo,
		f.settingsRepo, f.logRepo, f.sessionRepo, nil,
	)
	return f
}

func TestPrivacyService_CustomerDataRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("reports stored data counts", func(t *testing.T) {
		f := newPrivacyServiceFixture()
		f.reviewRepo.On("CountByCustomerEmail", ctx, testShop, "jane@example.com").Return(int64(3), nil)
		f.requestRepo.On("CountByCustomerEmail", ctx, testShop, "jane@example.com").Return(int64(1), nil)

		report, err := f.service.CustomerDataRequest(ctx, testShop, "jane@example.com")
		require.NoError(t, err)
		assert.Equal(t, int64(3), report.Reviews)
		assert.Equal(t, int64(1), report.Requests)
		assert.Equal(t, testShop, report.Shop)
	})

	t.Run("propagates count errors", func(t *testing.T) {
		f := newPrivacyServiceFixture()
		f.reviewRepo.On("CountByCustomerEmail", ctx, testShop, "jane@example.com").Return(int64(0), assert.AnError)

		_, err := f.service.CustomerDataRequest(ctx, testShop, "jane@example.com")
		assert.Error(t, err)
		f.requestRepo.AssertNotCalled(t, "CountByCustomerEmail", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPrivacyService_CustomerErasure(t *testing.T) {
	ctx := context.Background()

	t.Run("removes the customer's reviews and requests", func(t *testing.T) {
		f := newPrivacyServiceFixture()
		f.reviewRepo.On("DeleteByCustomerEmail", ctx, testShop, "jane@example.com").Return(int64(2), nil)
		f.requestRepo.On("DeleteByCustomerEmail", ctx, testShop, "jane@example.com").Return(int64(1), nil)

		report, err := f.service.CustomerErasure(ctx, testShop, "jane@example.com")
		require.NoError(t, err)
		assert.Equal(t, int64(2), report.ReviewsDeleted)
		assert.Equal(t, int64(1), report.RequestsDeleted)
	})

	t.Run("does not touch requests when review deletion fails", func(t *testing.T) {
		f := newPrivacyServiceFixture()
		f.reviewRepo.On("DeleteByCustomerEmail", ctx, testShop, "jane@example.com").Return(int64(0), assert.AnError)

		_, err := f.service.CustomerErasure(ctx, testShop, "jane@example.com")
		assert.Error(t, err)
		f.requestRepo.AssertNotCalled(t, "DeleteByCustomerEmail", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestPrivacyService_EraseShop(t *testing.T) {
	ctx := context.Background()

	t.Run("clears all six tables and reports counts", func(t *testing.T) {
		f := newPrivacyServiceFixture()
		f.reviewRepo.On("DeleteAllForShop", ctx, testShop).Return(int64(40), nil)
		f.groupRepo.On("DeleteAllForShop", ctx, testShop).Return(int64(4), nil)
		f.requestRepo.On("DeleteAllForShop", ctx, testShop).Return(int64(12), nil)
		f.settingsRepo.On("DeleteForShop", ctx, testShop).Return(int64(1), nil)
		f.logRepo.On("DeleteAllForShop", ctx, testShop).Return(int64(25), nil)
		f.sessionRepo.On("DeleteAllForShop", ctx, testShop).Return(int64(2), nil)

		report, err := f.service.EraseShop(ctx, testShop)
		require.NoError(t, err)

		assert.Equal(t, int64(40), report.Reviews)
		assert.Equal(t, int64(4), report.ProductGroups)
		assert.Equal(t, int64(12), report.Requests)
		assert.Equal(t, int64(1), report.Settings)
		assert.Equal(t, int64(25), report.WebhookLogs)
		assert.Equal(t, int64(2), report.Sessions)
	})

	t.Run("stops at the first failing table", func(t *testing.T) {
		f := newPrivacyServiceFixture()
		f.reviewRepo.On("DeleteAllForShop", ctx, testShop).Return(int64(40), nil)
		f.groupRepo.On("DeleteAllForShop", ctx, testShop).Return(int64(0), assert.AnError)

		_, err := f.service.EraseShop(ctx, testShop)
		assert.Error(t, err)
		f.requestRepo.AssertNotCalled(t, "DeleteAllForShop", mock.Anything, mock.Anything)
		f.sessionRepo.AssertNotCalled(t, "DeleteAllForShop", mock.Anything, mock.Anything)
	})
}
