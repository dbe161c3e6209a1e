package fx

import (
	"database/sql"
	"realm-warp/internal/api"
	"realm-warp/internal/config"
	"realm-warp/internal/database"
	"realm-warp/internal/db"
	"realm-warp/internal/logger"
	"realm-warp/internal/metrics"
	"realm-warp/internal/repository"
	"realm-warp/internal/service"
	"realm-warp/internal/tracker"

	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

func ProvideQueries(sqlDB *sql.DB) *db.Queries {
	return db.New(sqlDB)
}

func ProvideProfileService(riot *api.Client, accounts *repository.AccountRepository, logger zerolog.Logger) *service.ProfileService {
	return service.NewProfileService(riot, accounts, logger)
}

func ProvideLeagueService(riot *api.Client, leagues *repository.LeagueRepository, accounts *repository.AccountRepository, logger zerolog.Logger) *service.LeagueService {
	return service.NewLeagueService(riot, leagues, accounts, logger)
}

func ProvideMatchService(riot *api.Client, matches *repository.MatchRepository, logger zerolog.Logger) *service.MatchService {
	return service.NewMatchService(riot, matches, logger)
}

// Core is everything short of the tracker loop; one-shot commands use it
// on its own.
var Core = fx.Options(
	fx.Provide(config.Load),
	fx.Provide(logger.New),
	fx.Provide(database.New),
	fx.Provide(ProvideQueries),
	fx.Provide(metrics.New),
	// repos
	fx.Provide(repository.NewAccountRepository),
	fx.Provide(repository.NewLeagueRepository),
	fx.Provide(repository.NewMatchRepository),
	fx.Provide(repository.NewTimelineRepository),
	// api client
	fx.Provide(api.NewClient),
)

var Module = fx.Options(
	Core,
	// svc
	fx.Provide(ProvideProfileService),
	fx.Provide(ProvideLeagueService),
	fx.Provide(ProvideMatchService),
	// loop
	fx.Provide(tracker.New),
	fx.Provide(metrics.NewServer),
)

func ProvideAccountService(riot *api.Client, accounts *repository.AccountRepository, logger zerolog.Logger) *service.AccountService {
	return service.NewAccountService(riot, accounts, logger)
}
