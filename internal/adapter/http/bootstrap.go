package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"userapp/internal/adapter/database/postgres"
	pgrepository "userapp/internal/adapter/database/postgres/repository"
	"userapp/internal/adapter/database/sqlite"
	sqliterepository "userapp/internal/adapter/database/sqlite/repository"
	"userapp/internal/adapter/http/routes"
	"userapp/internal/config"
	"userapp/internal/core/port"
	"userapp/internal/core/telemetry"
	"userapp/pkg/logging"
	pkgtelemetry "userapp/pkg/telemetry"
)

// StartServer opens the configured database, wires the container and
// serves until the listener fails or is shut down.
func StartServer(cfg *config.Config, metrics *pkgtelemetry.AppMetrics, logger *logging.Logger) error {
	repo, closeDB, err := openRepository(cfg)

	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	defer closeDB()

	container := NewContainer(repo, logger, metrics, cfg.Version, cfg.AppEnv)

	router := routes.SetupRouter(routes.HandlersConfig{
		UserHandler:   container.UserHandler,
		HealthHandler: container.HealthHandler,
	}, metrics, logger, cfg.GetCORSAllowedOrigins())

	slog.Info("Server starting",
		"port", cfg.Port,
		"environment", cfg.AppEnv,
		"database_driver", cfg.DatabaseDriver)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}

func openRepository(cfg *config.Config) (port.UserRepository, func(), error) {
	probe := telemetry.NewNoOpProbe()

	if cfg.TelemetryEnabled {
		probe = telemetry.NewOTELProbe(slog.Default())
	}

	switch cfg.DatabaseDriver {
	case config.DriverPostgres:
		db, err := postgres.Open(context.Background(), cfg.PostgresURL(), cfg.MigrationsDir())

		if err != nil {
			return nil, nil, err
		}

		return pgrepository.NewUserRepository(db, probe), db.Close, nil
	default:
		db, err := sqlite.Open(cfg.DatabasePath, cfg.MigrationsDir())

		if err != nil {
			return nil, nil, err
		}

		return sqliterepository.NewUserRepository(db, probe), func() { db.Close() }, nil
	}
}
