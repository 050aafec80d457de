package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// GatewayMetrics records admission decisions and usage recorder health for the
// request forwarding pipeline.
type GatewayMetrics interface {
	// RecordAdmission records the outcome of one admission decision.
	// Outcome examples: "admitted", "unauthenticated", "forbidden",
	// "quota_exceeded", "not_found", "upstream_error", "internal_error".
	RecordAdmission(ctx context.Context, outcome string)

	// RecordUsageDrop counts usage events lost by the recorder, labeled by
	// reason ("queue_full" or "append_failed").
	RecordUsageDrop(ctx context.Context, reason string)
}

type gatewayMetrics struct {
	admissionCounter metric.Int64Counter
	usageDropCounter metric.Int64Counter
}

// NewGatewayMetrics creates a GatewayMetrics implementation using the provided meter provider.
func NewGatewayMetrics(meterProvider metric.MeterProvider, namespace string) (GatewayMetrics, error) {
	meter := meterProvider.Meter(namespace)

	admissionCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_admissions_total", namespace),
		metric.WithDescription("Total number of gateway admission decisions"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create admission counter: %w", err)
	}

	usageDropCounter, err := meter.Int64Counter(
		fmt.Sprintf("%s_usage_events_dropped_total", namespace),
		metric.WithDescription("Total number of usage events dropped by the recorder"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create usage drop counter: %w", err)
	}

	return &gatewayMetrics{
		admissionCounter: admissionCounter,
		usageDropCounter: usageDropCounter,
	}, nil
}

// RecordAdmission increments the admission counter with an outcome label.
func (g *gatewayMetrics) RecordAdmission(ctx context.Context, outcome string) {
	g.admissionCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.String("outcome", outcome)),
	)
}

// RecordUsageDrop increments the dropped usage event counter with a reason label.
func (g *gatewayMetrics) RecordUsageDrop(ctx context.Context, reason string) {
	g.usageDropCounter.Add(ctx, 1,
		metric.WithAttributes(attribute.String("reason", reason)),
	)
}

// NoOpGatewayMetrics is a no-op implementation of GatewayMetrics for when metrics are disabled.
type NoOpGatewayMetrics struct{}

// NewNoOpGatewayMetrics creates a no-op GatewayMetrics implementation.
func NewNoOpGatewayMetrics() GatewayMetrics {
	return &NoOpGatewayMetrics{}
}

// RecordAdmission does nothing when metrics are disabled.
func (n *NoOpGatewayMetrics) RecordAdmission(ctx context.Context, outcome string) {
	// No-op
}

// RecordUsageDrop does nothing when metrics are disabled.
func (n *NoOpGatewayMetrics) RecordUsageDrop(ctx context.Context, reason string) {
	// No-op
}
