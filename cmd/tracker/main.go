package main

import (
	"context"
	"database/sql"
	"realm-warp/internal/constants"
	fxmodules "realm-warp/internal/fx"
	"realm-warp/internal/metrics"
	"realm-warp/internal/tracker"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func main() {
	fx.New(
		fxmodules.Module,
		fx.Invoke(runTracker),
	).Run()
}

func runTracker(
	lc fx.Lifecycle,
	t *tracker.Tracker,
	metricsServer *metrics.Server,
	db *sql.DB,
	logger zerolog.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := metricsServer.Start(); err != nil {
				return err
			}
			t.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("shutting down tracker")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
			defer cancel()

			if err := t.Stop(shutdownCtx); err != nil {
				logger.Error().Err(err).Msg("tracker shutdown failed")
			}
			if err := metricsServer.Stop(shutdownCtx); err != nil {
				logger.Warn().Err(err).Msg("metrics server shutdown failed")
			}
			if err := db.Close(); err != nil {
				logger.Warn().Err(err).Msg("error closing database connection")
			}

			logger.Info().Msg("tracker stopped gracefully")
			return nil
		},
	})
}
