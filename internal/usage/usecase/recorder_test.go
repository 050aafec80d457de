package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	usageDomain "github.com/allisson/gateway/internal/usage/domain"
)

// fakeEventStore collects appended events, optionally failing every append.
type fakeEventStore struct {
	mu     sync.Mutex
	events []*usageDomain.UsageEvent
	err    error
}

func (f *fakeEventStore) Create(_ context.Context, event *usageDomain.UsageEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeEventStore) CountByKeyAndWindow(context.Context, uuid.UUID, time.Time, time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeEventStore) TotalByUser(context.Context, uuid.UUID, *uuid.UUID, time.Time, time.Time) (int64, error) {
	return 0, nil
}

func (f *fakeEventStore) PerDayByUser(
	context.Context,
	uuid.UUID,
	*uuid.UUID,
	time.Time,
	time.Time,
) ([]usageDomain.DayCount, error) {
	return nil, nil
}

func (f *fakeEventStore) stored() []*usageDomain.UsageEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*usageDomain.UsageEvent(nil), f.events...)
}

// countingGatewayMetrics counts drops per reason.
type countingGatewayMetrics struct {
	mu    sync.Mutex
	drops map[string]int
}

func newCountingGatewayMetrics() *countingGatewayMetrics {
	return &countingGatewayMetrics{drops: make(map[string]int)}
}

func (c *countingGatewayMetrics) RecordAdmission(context.Context, string) {}

func (c *countingGatewayMetrics) RecordUsageDrop(_ context.Context, reason string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.drops[reason]++
}

func (c *countingGatewayMetrics) dropCount(reason string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.drops[reason]
}

func testEvent() *usageDomain.UsageEvent {
	return &usageDomain.UsageEvent{
		ID:         uuid.Must(uuid.NewV7()),
		APIKeyID:   uuid.Must(uuid.NewV7()),
		Timestamp:  time.Now().UTC(),
		Endpoint:   "/gateway/weather/current",
		LatencyMS:  12,
		StatusCode: 200,
	}
}

func newTestRecorder(store UsageEventRepository, m *countingGatewayMetrics, cfg RecorderConfig) UsageRecorder {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewUsageRecorder(store, m, logger, cfg)
}

func TestUsageRecorder_DrainsQueueOnShutdown(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := &fakeEventStore{}
	recorder := newTestRecorder(store, newCountingGatewayMetrics(), RecorderConfig{
		QueueSize:     64,
		Workers:       2,
		MaxRetries:    1,
		RetryInterval: time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- recorder.Run(ctx)
	}()

	for i := 0; i < 10; i++ {
		recorder.Enqueue(testEvent())
	}

	cancel()
	require.NoError(t, <-done)

	assert.Len(t, store.stored(), 10)
}

func TestUsageRecorder_DropsWhenQueueFull(t *testing.T) {
	store := &fakeEventStore{}
	m := newCountingGatewayMetrics()
	recorder := newTestRecorder(store, m, RecorderConfig{
		QueueSize:     1,
		Workers:       1,
		MaxRetries:    1,
		RetryInterval: time.Millisecond,
	})

	// No worker pool running, the queue fills at capacity.
	recorder.Enqueue(testEvent())
	recorder.Enqueue(testEvent())
	recorder.Enqueue(testEvent())

	assert.Equal(t, 2, m.dropCount("queue_full"))
}

func TestUsageRecorder_DropsAfterRetriesExhausted(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := &fakeEventStore{err: errors.New("db down")}
	m := newCountingGatewayMetrics()
	recorder := newTestRecorder(store, m, RecorderConfig{
		QueueSize:     8,
		Workers:       1,
		MaxRetries:    3,
		RetryInterval: time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- recorder.Run(ctx)
	}()

	recorder.Enqueue(testEvent())

	// Give the worker time to exhaust the retries before shutdown.
	time.Sleep(50 * time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	assert.Empty(t, store.stored())
	assert.Equal(t, 1, m.dropCount("append_failed"))
}

func TestUsageRecorder_EnqueueAfterShutdownDoesNotPanic(t *testing.T) {
	defer goleak.VerifyNone(t)

	store := &fakeEventStore{}
	m := newCountingGatewayMetrics()
	recorder := newTestRecorder(store, m, RecorderConfig{
		QueueSize:     8,
		Workers:       1,
		MaxRetries:    1,
		RetryInterval: time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- recorder.Run(ctx)
	}()

	cancel()
	require.NoError(t, <-done)

	recorder.Enqueue(testEvent())

	assert.Empty(t, store.stored())
	assert.Equal(t, 1, m.dropCount("shutdown"))
	assert.Equal(t, 0, m.dropCount("queue_full"))
}
