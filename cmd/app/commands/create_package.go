package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/allisson/gateway/internal/app"
	catalogDomain "github.com/allisson/gateway/internal/catalog/domain"
	"github.com/allisson/gateway/internal/config"
)

// RunCreatePackage registers a new package bundling existing catalog APIs.
//
// Requirements: Database must be migrated and accessible, and the
// referenced APIs must already exist.
func RunCreatePackage(
	ctx context.Context,
	name, description string,
	priceCents int64,
	cycle string,
	apiIDsStr string,
	popular bool,
	format string,
) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if priceCents < 0 {
		return fmt.Errorf("price-cents must be zero or positive, got: %d", priceCents)
	}

	billingCycle := catalogDomain.BillingCycle(cycle)
	if !billingCycle.IsValid() {
		return fmt.Errorf("invalid cycle: %s (valid options: monthly, quarterly, yearly)", cycle)
	}

	apiIDs, err := parseAPIIDs(apiIDsStr)
	if err != nil {
		return err
	}
	if len(apiIDs) == 0 {
		return fmt.Errorf("api-ids is required")
	}

	cfg := config.Load()

	container := app.NewContainer(cfg)
	logger := container.Logger()
	logger.Info("creating package",
		slog.String("name", name),
		slog.Int("api_count", len(apiIDs)),
	)

	defer closeContainer(container, logger)

	catalogUseCase, err := container.CatalogUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize catalog use case: %w", err)
	}

	pkg, err := catalogUseCase.CreatePackage(ctx, &catalogDomain.CreatePackageInput{
		Name:        name,
		Description: description,
		PriceCents:  priceCents,
		Cycle:       billingCycle,
		IsPopular:   popular,
		APIIDs:      apiIDs,
	})
	if err != nil {
		return fmt.Errorf("failed to create package: %w", err)
	}

	if format == "json" {
		outputJSON(map[string]interface{}{
			"id":          pkg.ID.String(),
			"name":        pkg.Name,
			"price_cents": pkg.PriceCents,
			"cycle":       string(pkg.Cycle),
			"api_count":   len(pkg.APIIDs),
		})
	} else {
		fmt.Printf("Created package %s (%s) with %d API(s)\n", pkg.Name, pkg.ID, len(pkg.APIIDs))
	}

	return nil
}

// parseAPIIDs parses a comma-separated list of API UUIDs.
func parseAPIIDs(apiIDsStr string) ([]uuid.UUID, error) {
	if apiIDsStr == "" {
		return nil, nil
	}

	parts := strings.Split(apiIDsStr, ",")
	apiIDs := make([]uuid.UUID, 0, len(parts))

	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		apiID, err := uuid.Parse(trimmed)
		if err != nil {
			return nil, fmt.Errorf("invalid api id %q: %w", trimmed, err)
		}
		apiIDs = append(apiIDs, apiID)
	}

	return apiIDs, nil
}
