package scheduler

import "errors"

var (
	// ErrPollerNotRunning is returned when triggering a run on a stopped poller
	ErrPollerNotRunning = errors.New("poller is not running")

	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid poller configuration")
)
