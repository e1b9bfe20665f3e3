package planning

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/stockpilot/backend/internal/domain/shared"
)

// WorkerConfig tunes the recalculation worker
type WorkerConfig struct {
	// InitialBackoff is the first retry delay after a failed pass
	InitialBackoff time.Duration
	// MaxBackoff caps the retry delay
	MaxBackoff time.Duration
	// MaxElapsed bounds the total retry time for one batch; zero retries forever
	MaxElapsed time.Duration
}

// DefaultWorkerConfig returns the production retry policy
func DefaultWorkerConfig() WorkerConfig {
	return WorkerConfig{
		InitialBackoff: 500 * time.Millisecond,
		MaxBackoff:     30 * time.Second,
		MaxElapsed:     5 * time.Minute,
	}
}

// Worker drains the dirty set on its own goroutine and runs the
// recalculation service over each batch. Delivery is at least once: a failed
// batch is retried with exponential backoff, and once retries are exhausted
// the batch is re-enqueued rather than dropped.
type Worker struct {
	service *RecalculationService
	dirty   *DirtySet
	cfg     WorkerConfig
	logger  *zap.Logger

	stopOnce sync.Once
	stopped  chan struct{}
	done     chan struct{}
}

// NewWorker creates a recalculation worker over the given dirty set
func NewWorker(service *RecalculationService, dirty *DirtySet, cfg WorkerConfig, logger *zap.Logger) *Worker {
	return &Worker{
		service: service,
		dirty:   dirty,
		cfg:     cfg,
		logger:  logger,
		stopped: make(chan struct{}),
		done:    make(chan struct{}),
	}
}

// Start launches the drain loop
func (w *Worker) Start(ctx context.Context) {
	go w.run(ctx)
}

// Stop signals the drain loop to finish and waits for it
func (w *Worker) Stop(ctx context.Context) error {
	w.stopOnce.Do(func() { close(w.stopped) })
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Worker) run(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopped:
			return
		case <-w.dirty.Wake():
		}

		for !w.dirty.Empty() {
			configIDs, materialIDs, full := w.dirty.Drain()
			if err := w.process(ctx, configIDs, materialIDs, full); err != nil {
				w.logger.Error("recalculation batch exhausted retries, re-enqueueing",
					zap.Error(fmt.Errorf("%w: %v", shared.ErrRecalculationFailed, err)),
					zap.Int("config_count", len(configIDs)),
					zap.Int("material_count", len(materialIDs)),
					zap.Bool("full", full))
				if full {
					w.dirty.MarkFull()
				} else {
					w.dirty.MarkConfigs(configIDs...)
					w.dirty.MarkMaterials(materialIDs...)
				}
				// Leave the loop so re-enqueued work waits for the next wake
				// or trigger instead of spinning on a persistent failure.
				break
			}
		}
	}
}

// process runs one batch under the retry policy
func (w *Worker) process(ctx context.Context, configIDs, materialIDs []uuid.UUID, full bool) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = w.cfg.InitialBackoff
	policy.MaxInterval = w.cfg.MaxBackoff
	policy.MaxElapsedTime = w.cfg.MaxElapsed

	attempt := 0
	return backoff.Retry(func() error {
		attempt++
		var err error
		if full {
			err = w.service.RecalculateFull(ctx)
		} else {
			err = w.service.RecalculateProductConfigs(ctx, configIDs)
			if err == nil {
				err = w.service.RecalculateMaterials(ctx, materialIDs)
			}
		}
		if err != nil {
			w.logger.Warn("recalculation attempt failed",
				zap.Error(err),
				zap.Int("attempt", attempt),
				zap.Bool("full", full))
		}
		return err
	}, backoff.WithContext(policy, ctx))
}
