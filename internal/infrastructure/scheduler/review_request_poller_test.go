package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubProcessor struct {
	runs      int64
	batchSize int64
	processed int
	err       error
}

func (s *stubProcessor) ProcessPending(ctx context.Context, batchSize int) (int, error) {
	atomic.AddInt64(&s.runs, 1)
	atomic.StoreInt64(&s.batchSize, int64(batchSize))
	return s.processed, s.err
}

func (s *stubProcessor) runCount() int64 {
	return atomic.LoadInt64(&s.runs)
}

func TestReviewRequestPollerConfigValidate(t *testing.T) {
	t.Run("default config is valid", func(t *testing.T) {
		cfg := DefaultReviewRequestPollerConfig()
		assert.NoError(t, cfg.Validate())
	})

	t.Run("rejects non-positive poll interval", func(t *testing.T) {
		cfg := DefaultReviewRequestPollerConfig()
		cfg.PollInterval = 0
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("rejects non-positive batch size", func(t *testing.T) {
		cfg := DefaultReviewRequestPollerConfig()
		cfg.BatchSize = 0
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})

	t.Run("rejects non-positive run timeout", func(t *testing.T) {
		cfg := DefaultReviewRequestPollerConfig()
		cfg.RunTimeout = 0
		assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
	})
}

func TestReviewRequestPoller(t *testing.T) {
	logger := zap.NewNop()

	t.Run("processes due requests on tick", func(t *testing.T) {
		processor := &stubProcessor{processed: 3}
		cfg := ReviewRequestPollerConfig{
			Enabled:      true,
			PollInterval: 10 * time.Millisecond,
			BatchSize:    10,
			RunTimeout:   time.Second,
		}

		poller, err := NewReviewRequestPoller(cfg, processor, logger)
		require.NoError(t, err)

		require.NoError(t, poller.Start(context.Background()))
		defer poller.Stop(context.Background())

		assert.Eventually(t, func() bool {
			return processor.runCount() >= 2
		}, time.Second, 5*time.Millisecond)

		assert.Equal(t, int64(10), atomic.LoadInt64(&processor.batchSize))
	})

	t.Run("run once returns processed count", func(t *testing.T) {
		processor := &stubProcessor{processed: 2}
		poller, err := NewReviewRequestPoller(DefaultReviewRequestPollerConfig(), processor, logger)
		require.NoError(t, err)

		require.NoError(t, poller.Start(context.Background()))
		defer poller.Stop(context.Background())

		processed, err := poller.RunOnce(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, processed)
	})

	t.Run("run once on stopped poller fails", func(t *testing.T) {
		poller, err := NewReviewRequestPoller(DefaultReviewRequestPollerConfig(), &stubProcessor{}, logger)
		require.NoError(t, err)

		_, err = poller.RunOnce(context.Background())
		assert.ErrorIs(t, err, ErrPollerNotRunning)
	})

	t.Run("processor errors do not stop the loop", func(t *testing.T) {
		processor := &stubProcessor{err: errors.New("provider unavailable")}
		cfg := ReviewRequestPollerConfig{
			Enabled:      true,
			PollInterval: 10 * time.Millisecond,
			BatchSize:    5,
			RunTimeout:   time.Second,
		}

		poller, err := NewReviewRequestPoller(cfg, processor, logger)
		require.NoError(t, err)

		require.NoError(t, poller.Start(context.Background()))
		defer poller.Stop(context.Background())

		assert.Eventually(t, func() bool {
			return processor.runCount() >= 3
		}, time.Second, 5*time.Millisecond)
	})

	t.Run("start is idempotent and stop is graceful", func(t *testing.T) {
		poller, err := NewReviewRequestPoller(DefaultReviewRequestPollerConfig(), &stubProcessor{}, logger)
		require.NoError(t, err)

		require.NoError(t, poller.Start(context.Background()))
		require.NoError(t, poller.Start(context.Background()))

		stopCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		require.NoError(t, poller.Stop(stopCtx))
		require.NoError(t, poller.Stop(stopCtx))
	})

	t.Run("invalid config is rejected", func(t *testing.T) {
		cfg := DefaultReviewRequestPollerConfig()
		cfg.BatchSize = -1
		_, err := NewReviewRequestPoller(cfg, &stubProcessor{}, logger)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}
