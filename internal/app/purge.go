package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/verdantcrew/crewcal/internal/service"
)

// PurgeTask periodically removes ended one-off availability events so the
// base-event collection stays small enough to re-expand on every view
// change.
type PurgeTask struct {
	availability  *service.AvailabilityService
	logger        *zap.Logger
	retentionDays int
	stopChan      chan struct{}
}

func NewPurgeTask(availability *service.AvailabilityService, retentionDays int, logger *zap.Logger) *PurgeTask {
	return &PurgeTask{
		availability:  availability,
		logger:        logger,
		retentionDays: retentionDays,
		stopChan:      make(chan struct{}),
	}
}

// Start launches the background purge loop.
func (t *PurgeTask) Start(ctx context.Context) {
	t.logger.Info("starting availability purge task",
		zap.Int("retention_days", t.retentionDays))

	go t.run(ctx)
}

// Stop terminates the loop.
func (t *PurgeTask) Stop() {
	t.logger.Info("stopping availability purge task")
	close(t.stopChan)
}

func (t *PurgeTask) run(ctx context.Context) {
	// First pass immediately on startup.
	t.purge(ctx)

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			t.purge(ctx)
		case <-t.stopChan:
			t.logger.Info("availability purge task stopped")
			return
		case <-ctx.Done():
			t.logger.Info("availability purge task cancelled")
			return
		}
	}
}

func (t *PurgeTask) purge(ctx context.Context) {
	if _, err := t.availability.PurgeEnded(ctx, t.retentionDays); err != nil {
		t.logger.Error("availability purge failed", zap.Error(err))
	}
}
