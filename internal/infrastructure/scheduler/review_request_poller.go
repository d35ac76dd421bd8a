package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// PendingRequestProcessor sends review requests whose scheduled send date has
// passed. It returns how many requests were picked up in this run.
type PendingRequestProcessor interface {
	ProcessPending(ctx context.Context, batchSize int) (int, error)
}

// ReviewRequestPollerConfig holds configuration for the review request poller
type ReviewRequestPollerConfig struct {
	// Enabled indicates if the poller is enabled
	Enabled bool
	// PollInterval is how often to check for due review requests
	PollInterval time.Duration
	// BatchSize is the maximum number of requests processed per run
	BatchSize int
	// RunTimeout is the maximum time a single run can take
	RunTimeout time.Duration
}

// DefaultReviewRequestPollerConfig returns default poller configuration
func DefaultReviewRequestPollerConfig() ReviewRequestPollerConfig {
	return ReviewRequestPollerConfig{
		Enabled:      true,
		PollInterval: time.Minute,
		BatchSize:    10,
		RunTimeout:   5 * time.Minute,
	}
}

// Validate validates the configuration
func (c *ReviewRequestPollerConfig) Validate() error {
	if c.PollInterval <= 0 {
		return ErrInvalidConfig
	}
	if c.BatchSize <= 0 {
		return ErrInvalidConfig
	}
	if c.RunTimeout <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// ReviewRequestPoller periodically drains due review requests through a
// PendingRequestProcessor.
type ReviewRequestPoller struct {
	config    ReviewRequestPollerConfig
	processor PendingRequestProcessor
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewReviewRequestPoller creates a new review request poller
func NewReviewRequestPoller(config ReviewRequestPollerConfig, processor PendingRequestProcessor, logger *zap.Logger) (*ReviewRequestPoller, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &ReviewRequestPoller{
		config:    config,
		processor: processor,
		logger:    logger,
	}, nil
}

// Start starts the poller loop
func (p *ReviewRequestPoller) Start(ctx context.Context) error {
	p.mu.Lock()
	if p.isRunning {
		p.mu.Unlock()
		return nil
	}
	p.isRunning = true
	p.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	p.wg.Add(1)
	go p.runLoop(ctx)

	p.logger.Info("Review request poller started",
		zap.Duration("poll_interval", p.config.PollInterval),
		zap.Int("batch_size", p.config.BatchSize),
	)

	return nil
}

// Stop gracefully stops the poller
func (p *ReviewRequestPoller) Stop(ctx context.Context) error {
	p.mu.Lock()
	if !p.isRunning {
		p.mu.Unlock()
		return nil
	}
	p.isRunning = false
	p.mu.Unlock()

	if p.cancel != nil {
		p.cancel()
	}

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		p.logger.Info("Review request poller stopped gracefully")
		return nil
	case <-ctx.Done():
		p.logger.Warn("Review request poller stop timed out")
		return ctx.Err()
	}
}

// RunOnce triggers a single processing run outside the poll loop.
// Used by the manual "process now" endpoint.
func (p *ReviewRequestPoller) RunOnce(ctx context.Context) (int, error) {
	p.mu.Lock()
	running := p.isRunning
	p.mu.Unlock()
	if !running {
		return 0, ErrPollerNotRunning
	}

	return p.runBatch(ctx)
}

// runLoop processes due review requests on every tick
func (p *ReviewRequestPoller) runLoop(ctx context.Context) {
	defer p.wg.Done()

	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Debug("Review request poll loop stopping")
			return
		case <-ticker.C:
			if _, err := p.runBatch(ctx); err != nil {
				p.logger.Error("Review request processing run failed", zap.Error(err))
			}
		}
	}
}

// runBatch executes a single processing run with a timeout
func (p *ReviewRequestPoller) runBatch(ctx context.Context) (int, error) {
	runCtx, cancel := context.WithTimeout(ctx, p.config.RunTimeout)
	defer cancel()

	processed, err := p.processor.ProcessPending(runCtx, p.config.BatchSize)
	if err != nil {
		return processed, err
	}

	if processed > 0 {
		p.logger.Info("Processed due review requests",
			zap.Int("processed", processed),
		)
	}
	return processed, nil
}
