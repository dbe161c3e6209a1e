package service

import (
	"context"
	"errors"
	"fmt"
	"realm-warp/internal/api"
	"realm-warp/internal/constants"
	"realm-warp/internal/domain"
	"realm-warp/internal/repository"

	"github.com/rs/zerolog"
)

type MatchUpstream interface {
	FetchRecentMatchIDs(ctx context.Context, platform domain.Platform, puuid string, count int) ([]string, error)
	FetchMatch(ctx context.Context, platform domain.Platform, matchID string) (*domain.Match, error)
	FetchTimeline(ctx context.Context, platform domain.Platform, matchID string) (*domain.Timeline, error)
}

type MatchStore interface {
	FindByID(ctx context.Context, matchID string) (*domain.Match, error)
	FindLatestForAccount(ctx context.Context, accountID string) (*domain.Match, error)
	Insert(ctx context.Context, match *domain.Match, timeline *domain.Timeline) error
	LinkAccount(ctx context.Context, link repository.MatchLink) (bool, error)
}

type IngestResult int

const (
	// IngestUpToDate: the newest upstream match is already the account's latest.
	IngestUpToDate IngestResult = iota
	IngestNoMatches
	IngestCreated
	IngestLinked
	// IngestAlreadyLinked: the match was stored and owned by the account.
	IngestAlreadyLinked
)

func (r IngestResult) String() string {
	switch r {
	case IngestUpToDate:
		return "up_to_date"
	case IngestNoMatches:
		return "no_matches"
	case IngestCreated:
		return "created"
	case IngestLinked:
		return "linked"
	case IngestAlreadyLinked:
		return "already_linked"
	default:
		return "unknown"
	}
}

type MatchService struct {
	riot    MatchUpstream
	matches MatchStore
	logger  zerolog.Logger
}

func NewMatchService(riot MatchUpstream, matches MatchStore, logger zerolog.Logger) *MatchService {
	return &MatchService{
		riot:    riot,
		matches: matches,
		logger:  logger.With().Str("component", "match").Logger(),
	}
}

// Ingest brings the account's most recent match into the store. entries
// must be the account's league entries after reconciliation; they provide
// the rank snapshot for ranked queues.
func (s *MatchService) Ingest(ctx context.Context, account domain.Account, entries []domain.LeagueEntry) (IngestResult, error) {
	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	ids, err := s.riot.FetchRecentMatchIDs(apiCtx, account.Platform, account.PUUID, constants.RecentMatchCount)
	cancel()
	if err != nil {
		return 0, fmt.Errorf("failed to fetch match ids: %w", err)
	}
	if len(ids) == 0 {
		return IngestNoMatches, nil
	}
	matchID := ids[0]

	dbCtx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	latest, err := s.matches.FindLatestForAccount(dbCtx, account.ID)
	cancel()
	if err != nil {
		return 0, fmt.Errorf("failed to find latest match: %w", err)
	}
	if latest != nil && latest.MatchID == matchID {
		return IngestUpToDate, nil
	}

	dbCtx, cancel = context.WithTimeout(ctx, constants.DatabaseTimeout)
	stored, err := s.matches.FindByID(dbCtx, matchID)
	cancel()
	switch {
	case err == nil:
		return s.link(ctx, account, entries, stored)
	case !errors.Is(err, repository.ErrNotFound):
		return 0, fmt.Errorf("failed to find match %s: %w", matchID, err)
	}

	return s.create(ctx, account, entries, matchID)
}

func (s *MatchService) create(ctx context.Context, account domain.Account, entries []domain.LeagueEntry, matchID string) (IngestResult, error) {
	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	match, err := s.riot.FetchMatch(apiCtx, account.Platform, matchID)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch match %s: %w", matchID, err)
	}
	if match.MatchID != matchID {
		return 0, fmt.Errorf("%w: asked for match %s, got %s", api.ErrMalformed, matchID, match.MatchID)
	}

	if snapshot := s.snapshot(account, entries, match); snapshot != nil {
		match.Participant(account.PUUID).League = snapshot
	}
	match.RefAccounts = []string{account.ID}

	timeline, err := s.riot.FetchTimeline(apiCtx, account.Platform, matchID)
	switch {
	case errors.Is(err, api.ErrNotFound):
		s.logger.Warn().Str("match_id", matchID).Msg("timeline not available, storing match without it")
		timeline = nil
	case err != nil:
		return 0, fmt.Errorf("failed to fetch timeline %s: %w", matchID, err)
	}

	dbCtx, dbCancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	err = s.matches.Insert(dbCtx, match, timeline)
	dbCancel()
	if errors.Is(err, repository.ErrDuplicateMatch) {
		// another account stored it between our lookup and insert
		s.logger.Debug().Str("match_id", matchID).Msg("match stored concurrently, linking instead")
		findCtx, findCancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
		stored, err := s.matches.FindByID(findCtx, matchID)
		findCancel()
		if err != nil {
			return 0, fmt.Errorf("failed to reload match %s: %w", matchID, err)
		}
		return s.link(ctx, account, entries, stored)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to insert match %s: %w", matchID, err)
	}

	s.logger.Info().
		Str("account_id", account.ID).
		Str("match_id", matchID).
		Int("queue_id", match.QueueID).
		Bool("timeline", timeline != nil).
		Msg("match created")
	return IngestCreated, nil
}

// link adds the account to a stored match. An account that already owns
// the match causes no write, so its snapshot stays as first recorded.
func (s *MatchService) link(ctx context.Context, account domain.Account, entries []domain.LeagueEntry, match *domain.Match) (IngestResult, error) {
	if match.HasRef(account.ID) {
		return IngestAlreadyLinked, nil
	}

	dbCtx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	added, err := s.matches.LinkAccount(dbCtx, repository.MatchLink{
		MatchID:   match.MatchID,
		AccountID: account.ID,
		PUUID:     account.PUUID,
		League:    s.snapshot(account, entries, match),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to link match %s: %w", match.MatchID, err)
	}
	if !added {
		return IngestAlreadyLinked, nil
	}

	s.logger.Info().
		Str("account_id", account.ID).
		Str("match_id", match.MatchID).
		Int("owners", len(match.RefAccounts)+1).
		Msg("match linked")
	return IngestLinked, nil
}

// snapshot returns the account's standing in the match's ranked queue, or
// nil for unranked queues and accounts without an entry for it.
func (s *MatchService) snapshot(account domain.Account, entries []domain.LeagueEntry, match *domain.Match) *domain.RankSnapshot {
	queueType, ranked := domain.RankedQueueType(match.QueueID)
	if !ranked {
		return nil
	}
	if match.Participant(account.PUUID) == nil {
		s.logger.Warn().
			Str("account_id", account.ID).
			Str("match_id", match.MatchID).
			Msg("account is not a participant, snapshot skipped")
		return nil
	}

	for _, entry := range entries {
		if entry.QueueType == queueType {
			snapshot := entry.Snapshot()
			return &snapshot
		}
	}

	s.logger.Info().
		Str("account_id", account.ID).
		Str("match_id", match.MatchID).
		Str("queue_type", string(queueType)).
		Msg("no league entry for queue, snapshot skipped")
	return nil
}
