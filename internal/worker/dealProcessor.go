package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/rs/xid"

	"dealflow/internal/domain/entity"
	"dealflow/internal/domain/service/deal"
	"dealflow/internal/domain/value"
	"dealflow/pkg/contextx"
	"dealflow/pkg/logx"
)

type DealService interface {
	ListDeals(ctx context.Context, statuses []value.Status, limit int) ([]entity.Deal, error)
	ProcessAndPublish(ctx context.Context, dealID string) (deal.Outcome, error)
}

// CycleResult summarizes one pass over the backlog.
type CycleResult struct {
	Processed int
	Failed    int
	Matched   int
	Skipped   int
}

// DealProcessor polls deals in the configured statuses and runs each one
// through the pipeline, one deal per transaction, in creation order.
type DealProcessor struct {
	service DealService
	metrics *Metrics

	interval    time.Duration
	batchSize   int
	dealTimeout time.Duration
	statuses    []value.Status

	// Control fields
	mu         sync.Mutex
	cancelFunc context.CancelFunc
	isRunning  bool
	wg         sync.WaitGroup
}

func NewDealProcessor(service DealService, metrics *Metrics) *DealProcessor {
	return &DealProcessor{
		service:     service,
		metrics:     metrics,
		interval:    time.Minute,
		batchSize:   50,
		dealTimeout: 30 * time.Second,
		statuses:    DefaultStatuses(),
	}
}

func (w *DealProcessor) WithInterval(d time.Duration) *DealProcessor {
	w.interval = d
	return w
}

func (w *DealProcessor) WithBatchSize(n int) *DealProcessor {
	w.batchSize = n
	return w
}

func (w *DealProcessor) WithDealTimeout(d time.Duration) *DealProcessor {
	w.dealTimeout = d
	return w
}

func (w *DealProcessor) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isRunning {
		return errors.New("processor is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel
	w.isRunning = true

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() {
			w.mu.Lock()
			w.isRunning = false
			w.cancelFunc = nil
			w.mu.Unlock()
		}()

		if err := w.Run(runCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger(ctx).Error("deal processor stopped", logx.Error(err))
		}
	}()

	return nil
}

// Stop cancels the loop and waits for the deal in flight to finish.
func (w *DealProcessor) Stop() {
	w.mu.Lock()

	if !w.isRunning {
		w.mu.Unlock()
		return
	}

	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	w.mu.Unlock()

	w.wg.Wait()
}

func (w *DealProcessor) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.isRunning
}

func (w *DealProcessor) Run(ctx context.Context) error {
	logger(ctx).Info("deal processor started",
		slog.Duration("interval", w.interval),
		slog.Int("batch-size", w.batchSize),
	)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		w.RunOnce(ctx)

		select {
		case <-ctx.Done():
			logger(ctx).Info("deal processor stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// RunOnce processes one batch. Cancelling ctx lets the current deal finish
// and stops before the next one.
func (w *DealProcessor) RunOnce(ctx context.Context) CycleResult {
	traceID := xid.New().String()
	ctx = contextx.WithTraceID(ctx, contextx.TraceID(traceID))
	ctx = contextx.WithLogger(ctx, logger(ctx).With(slog.String(logx.FieldTraceID, traceID)))

	start := time.Now()
	defer func() {
		if w.metrics != nil {
			w.metrics.cycleDuration.Observe(time.Since(start).Seconds())
		}
	}()

	var result CycleResult

	deals, err := w.service.ListDeals(ctx, w.Statuses(), w.batchSize)
	if err != nil {
		logger(ctx).Error("failed to list deals", logx.Error(err))
		return result
	}

	for _, d := range deals {
		select {
		case <-ctx.Done():
			result.Skipped = len(deals) - result.Processed - result.Failed
			logger(ctx).Info("cycle interrupted", slog.Int("skipped", result.Skipped))
			return result
		default:
		}

		out, err := w.processOne(ctx, d.ID)
		w.metrics.observe(out, err)

		if err != nil {
			result.Failed++
			logger(ctx).Error("deal processing failed, retrying next cycle",
				slog.String("deal-id", d.ID),
				logx.Error(err),
			)
			continue
		}

		result.Processed++
		if out.Match != nil && out.Match.Matched() {
			result.Matched++
		}
	}

	if len(deals) > 0 {
		logger(ctx).Info("cycle completed",
			slog.Int("processed", result.Processed),
			slog.Int("failed", result.Failed),
			slog.Int("matched", result.Matched),
		)
	}

	return result
}

func (w *DealProcessor) processOne(ctx context.Context, dealID string) (deal.Outcome, error) {
	// The deal in flight is not interrupted by shutdown, only bounded by
	// its own timeout.
	dealCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.dealTimeout)
	defer cancel()

	return w.service.ProcessAndPublish(dealCtx, dealID)
}
