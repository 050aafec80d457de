package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/allisson/gateway/internal/app"
	"github.com/allisson/gateway/internal/config"
)

// RunReconcileUsage rewrites quota counters from the usage ledger. A crash
// between a quota reservation and the usage recording leaves the counter
// ahead of the ledger, this sweep corrects the drift for windows older
// than the configured lag.
//
// Intended to run on a schedule (e.g. daily via cron).
func RunReconcileUsage(ctx context.Context, limit int, format string) error {
	if limit <= 0 {
		return fmt.Errorf("limit must be positive, got: %d", limit)
	}

	cfg := config.Load()

	container := app.NewContainer(cfg)
	logger := container.Logger()

	defer closeContainer(container, logger)

	usageUseCase, err := container.UsageUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize usage use case: %w", err)
	}

	before := time.Now().UTC().Add(-cfg.ReconcileLag)
	logger.Info("reconciling quota counters",
		slog.Time("before", before),
		slog.Int("limit", limit),
	)

	report, err := usageUseCase.Reconcile(ctx, before, limit)
	if err != nil {
		return fmt.Errorf("failed to reconcile usage: %w", err)
	}

	if format == "json" {
		outputJSON(map[string]interface{}{
			"checked":   report.Checked,
			"rewritten": report.Rewritten,
		})
	} else {
		fmt.Printf("Checked %d counter(s), rewrote %d\n", report.Checked, report.Rewritten)
	}

	logger.Info("reconciliation sweep completed",
		slog.Int("checked", report.Checked),
		slog.Int("rewritten", report.Rewritten),
	)

	return nil
}
