package jobs

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"nft-launchpad.backend/internal/usecases"
	"nft-launchpad.backend/pkg/logger"
)

const DefaultBackfillInterval = 10 * time.Minute

type backfillRunner interface {
	Run(ctx context.Context) (*usecases.BackfillReport, error)
}

// CollectionBackfillJob re-runs the collection backfill on a fixed interval.
type CollectionBackfillJob struct {
	runner   backfillRunner
	interval time.Duration
	stop     chan struct{}
	stopOnce sync.Once
}

func NewCollectionBackfillJob(runner backfillRunner, interval time.Duration) *CollectionBackfillJob {
	if interval <= 0 {
		interval = DefaultBackfillInterval
	}
	return &CollectionBackfillJob{
		runner:   runner,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// RunOnce performs a single pass and returns its report.
func (j *CollectionBackfillJob) RunOnce(ctx context.Context) (*usecases.BackfillReport, error) {
	started := time.Now()
	report, err := j.runner.Run(ctx)
	if err != nil {
		logger.Error(ctx, "collection backfill pass failed", zap.Error(err))
		return report, err
	}
	logger.Info(ctx, "collection backfill pass done",
		zap.Int("collections", len(report.Collections)),
		zap.Int("persisted", report.Persisted),
		zap.Duration("took", time.Since(started)),
	)
	return report, nil
}

// Start runs one pass immediately, then one per interval until ctx is
// cancelled or Stop is called.
func (j *CollectionBackfillJob) Start(ctx context.Context) {
	logger.Info(ctx, "starting collection backfill job", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	_, _ = j.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			logger.Info(ctx, "collection backfill job stopped (context cancelled)")
			return
		case <-j.stop:
			logger.Info(ctx, "collection backfill job stopped")
			return
		case <-ticker.C:
			_, _ = j.RunOnce(ctx)
		}
	}
}

func (j *CollectionBackfillJob) Stop() {
	j.stopOnce.Do(func() { close(j.stop) })
}
