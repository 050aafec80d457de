package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/allisson/gateway/internal/metrics"
	usageDomain "github.com/allisson/gateway/internal/usage/domain"
)

// RecorderConfig holds the tuning knobs for the usage recorder.
type RecorderConfig struct {
	QueueSize     int
	Workers       int
	MaxRetries    int
	RetryInterval time.Duration
}

// usageRecorder implements UsageRecorder with a bounded queue drained by a
// pool of worker goroutines. The queue sits between the response path and
// the ledger so a slow or failing database never blocks forwarded calls.
type usageRecorder struct {
	eventRepo UsageEventRepository
	metrics   metrics.GatewayMetrics
	logger    *slog.Logger
	cfg       RecorderConfig

	queue  chan *usageDomain.UsageEvent
	mu     sync.RWMutex
	closed bool
}

// Enqueue hands an event to the background workers. Events arriving while
// the queue is full or after shutdown are dropped and counted.
func (r *usageRecorder) Enqueue(event *usageDomain.UsageEvent) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		r.drop(event, "shutdown")
		return
	}

	select {
	case r.queue <- event:
	default:
		r.drop(event, "queue_full")
	}
}

// Run starts the worker pool and blocks until ctx is canceled. Events
// queued before cancellation are still appended before Run returns.
func (r *usageRecorder) Run(ctx context.Context) error {
	var wg sync.WaitGroup

	for i := 0; i < r.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for event := range r.queue {
				r.append(event)
			}
		}()
	}

	<-ctx.Done()

	r.mu.Lock()
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	wg.Wait()

	return nil
}

// append writes one event to the ledger, retrying a bounded number of
// times before dropping it. Appends use a fresh context so draining keeps
// working during shutdown.
func (r *usageRecorder) append(event *usageDomain.UsageEvent) {
	var err error
	for attempt := 0; attempt < r.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(r.cfg.RetryInterval)
		}

		if err = r.eventRepo.Create(context.Background(), event); err == nil {
			return
		}

		r.logger.Warn("usage event append failed",
			slog.String("api_key_id", event.APIKeyID.String()),
			slog.Int("attempt", attempt+1),
			slog.Any("error", err),
		)
	}

	r.drop(event, "append_failed")
}

func (r *usageRecorder) drop(event *usageDomain.UsageEvent, reason string) {
	r.metrics.RecordUsageDrop(context.Background(), reason)
	r.logger.Error("usage event dropped",
		slog.String("api_key_id", event.APIKeyID.String()),
		slog.String("endpoint", event.Endpoint),
		slog.String("reason", reason),
	)
}

// NewUsageRecorder creates a UsageRecorder with the given queue and worker
// configuration. Run must be started for enqueued events to be persisted.
func NewUsageRecorder(
	eventRepo UsageEventRepository,
	m metrics.GatewayMetrics,
	logger *slog.Logger,
	cfg RecorderConfig,
) UsageRecorder {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1024
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 1
	}

	return &usageRecorder{
		eventRepo: eventRepo,
		metrics:   m,
		logger:    logger,
		cfg:       cfg,
		queue:     make(chan *usageDomain.UsageEvent, cfg.QueueSize),
	}
}
