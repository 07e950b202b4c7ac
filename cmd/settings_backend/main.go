package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/promoflow/campaign_settings/internal/core/domain"
	portssvc "github.com/promoflow/campaign_settings/internal/core/ports/services"
	"github.com/promoflow/campaign_settings/internal/core/services"
	"github.com/promoflow/campaign_settings/internal/platform/config"
	"github.com/promoflow/campaign_settings/internal/repositories/database/pgsql"
	"github.com/promoflow/campaign_settings/internal/rules/exprrule"
	"github.com/promoflow/campaign_settings/pkg/database"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	logger.Info("Running database migrations...")
	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath); err != nil {
		logger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Database migrations applied.")

	repos := pgsql.NewRepositoryProvider(dbPool)
	container := services.NewServiceContainer(repos,
		services.WithValidators(defaultValidators()),
	)

	// Sanity-check the wiring before reporting ready.
	if _, err := container.ExchangeRate.RateOn(context.Background(), "USD", time.Now()); err != nil {
		logger.Error("Service container self-check failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Settings engine initialized.",
		slog.Bool("production", cfg.IsProduction),
	)
}

// defaultValidators installs the stock business rules applied on every commit.
func defaultValidators() map[domain.EntityType][]portssvc.Validator {
	return map[domain.EntityType][]portssvc.Validator{
		domain.EntityAdGroup: {
			exprrule.MustNew("cpc-positive",
				`not changed("cpc_cc") or changes.cpc_cc > 0`,
				"CPC must be greater than zero").Validator(),
			exprrule.MustNew("budget-covers-cpc",
				`not changed("daily_budget") or not changed("cpc_cc") or changes.daily_budget >= changes.cpc_cc`,
				"daily budget must cover at least one click").Validator(),
		},
		domain.EntityAdGroupSource: {
			exprrule.MustNew("source-cpc-positive",
				`not changed("cpc_cc") or changes.cpc_cc > 0`,
				"CPC must be greater than zero").Validator(),
		},
		domain.EntityCampaign: {
			exprrule.MustNew("campaign-name-present",
				`not changed("name") or len(changes.name) > 0`,
				"campaign name must not be empty").Validator(),
		},
	}
}
