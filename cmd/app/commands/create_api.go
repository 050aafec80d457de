package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/allisson/gateway/internal/app"
	catalogDomain "github.com/allisson/gateway/internal/catalog/domain"
	"github.com/allisson/gateway/internal/config"
)

// RunCreateAPI registers a new upstream API in the catalog.
//
// Requirements: Database must be migrated and accessible.
func RunCreateAPI(
	ctx context.Context,
	name, description, category, endpoint string,
	usageLimit int64,
	format string,
) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if endpoint == "" {
		return fmt.Errorf("endpoint is required")
	}
	if usageLimit < 0 {
		return fmt.Errorf("usage-limit must be zero or positive, got: %d", usageLimit)
	}

	cfg := config.Load()

	container := app.NewContainer(cfg)
	logger := container.Logger()
	logger.Info("creating api",
		slog.String("name", name),
		slog.Int64("usage_limit", usageLimit),
	)

	defer closeContainer(container, logger)

	catalogUseCase, err := container.CatalogUseCase()
	if err != nil {
		return fmt.Errorf("failed to initialize catalog use case: %w", err)
	}

	api, err := catalogUseCase.CreateAPI(ctx, &catalogDomain.CreateAPIInput{
		Name:        name,
		Description: description,
		Category:    category,
		Endpoint:    endpoint,
		UsageLimit:  usageLimit,
	})
	if err != nil {
		return fmt.Errorf("failed to create api: %w", err)
	}

	if format == "json" {
		outputJSON(map[string]interface{}{
			"id":          api.ID.String(),
			"name":        api.Name,
			"endpoint":    api.Endpoint,
			"usage_limit": api.UsageLimit,
		})
	} else {
		fmt.Printf("Created API %s (%s) with monthly limit %d\n", api.Name, api.ID, api.UsageLimit)
	}

	return nil
}

// outputJSON prints the result in JSON format for machine consumption.
func outputJSON(result map[string]interface{}) {
	jsonBytes, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal JSON: %v\n", err)
		return
	}

	fmt.Println(string(jsonBytes))
}
