package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/allisson/gateway/internal/app"
	"github.com/allisson/gateway/internal/config"
)

// RunRenewSubscriptions charges every active subscription whose period ends
// within the configured lookahead window. Successful charges extend the
// period, declined charges mark the subscription past due.
//
// Intended to run on a schedule (e.g. hourly via cron).
func RunRenewSubscriptions(ctx context.Context, limit int, format string) error {
	if limit <= 0 {
		return fmt.Errorf("limit must be positive, got: %d", limit)
	}

	cfg := config.Load()

	container := app.NewContainer(cfg)
	logger := container.Logger()

	defer closeContainer(container, logger)

	subscriptionUseCase, err := container.SubscriptionUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize subscription use case: %w", err)
	}

	before := time.Now().UTC().Add(cfg.RenewalLookahead)
	logger.Info("renewing due subscriptions",
		slog.Time("before", before),
		slog.Int("limit", limit),
	)

	report, err := subscriptionUseCase.RenewDue(ctx, before, limit)
	if err != nil {
		return fmt.Errorf("failed to renew subscriptions: %w", err)
	}

	if format == "json" {
		outputJSON(map[string]interface{}{
			"renewed":         report.Renewed,
			"marked_past_due": report.MarkedPastDue,
		})
	} else {
		fmt.Printf("Renewed %d subscription(s), marked %d past due\n", report.Renewed, report.MarkedPastDue)
	}

	logger.Info("renewal sweep completed",
		slog.Int("renewed", report.Renewed),
		slog.Int("marked_past_due", report.MarkedPastDue),
	)

	return nil
}
