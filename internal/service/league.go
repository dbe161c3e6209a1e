package service

import (
	"context"
	"fmt"
	"realm-warp/internal/constants"
	"realm-warp/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

type LeagueUpstream interface {
	FetchLeagueEntries(ctx context.Context, platform domain.Platform, puuid string) ([]domain.LeagueEntryInfo, error)
}

type LeagueStore interface {
	ListByAccount(ctx context.Context, accountID string) ([]domain.LeagueEntry, error)
	Upsert(ctx context.Context, entry *domain.LeagueEntry) error
}

type LeagueService struct {
	riot     LeagueUpstream
	leagues  LeagueStore
	accounts AccountStore
	logger   zerolog.Logger
}

func NewLeagueService(riot LeagueUpstream, leagues LeagueStore, accounts AccountStore, logger zerolog.Logger) *LeagueService {
	return &LeagueService{
		riot:     riot,
		leagues:  leagues,
		accounts: accounts,
		logger:   logger.With().Str("component", "league").Logger(),
	}
}

func (s *LeagueService) Sync(ctx context.Context, account domain.Account) ([]domain.LeagueEntry, bool, error) {
	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	fetched, err := s.riot.FetchLeagueEntries(apiCtx, account.Platform, account.PUUID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to fetch league entries: %w", err)
	}
	return s.Reconcile(ctx, account, fetched)
}

// Reconcile upserts every fetched queue that is new or differs from the
// stored entry. Queues missing from fetched are kept as they are. The
// returned entries are the account's full post-reconciliation set.
func (s *LeagueService) Reconcile(ctx context.Context, account domain.Account, fetched []domain.LeagueEntryInfo) ([]domain.LeagueEntry, bool, error) {
	dbCtx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	entries, err := s.leagues.ListByAccount(dbCtx, account.ID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to list league entries: %w", err)
	}

	byQueue := make(map[domain.QueueType]int, len(entries))
	for i, e := range entries {
		byQueue[e.QueueType] = i
	}

	changed := false
	for _, info := range fetched {
		idx, exists := byQueue[info.QueueType]
		if exists && cmp.Equal(entries[idx].LeagueEntryInfo, info) {
			continue
		}

		entry := domain.LeagueEntry{AccountID: account.ID, LeagueEntryInfo: info}
		if exists {
			entry.ID = entries[idx].ID
			entry.CreatedAt = entries[idx].CreatedAt
		}
		if err := s.leagues.Upsert(dbCtx, &entry); err != nil {
			return nil, false, fmt.Errorf("failed to upsert %s entry: %w", info.QueueType, err)
		}

		if exists {
			entries[idx] = entry
		} else {
			byQueue[info.QueueType] = len(entries)
			entries = append(entries, entry)
		}
		changed = true

		s.logger.Info().
			Str("account_id", account.ID).
			Str("queue_type", string(info.QueueType)).
			Str("tier", string(info.Tier)).
			Str("rank", string(info.Rank)).
			Int("lp", info.LeaguePoints).
			Bool("new", !exists).
			Msg("league entry updated")
	}

	if !account.InitialRankFetched {
		if err := s.accounts.SetInitialRankFetched(dbCtx, account.ID, true); err != nil {
			return nil, false, fmt.Errorf("failed to set initial rank fetched: %w", err)
		}
	}

	return entries, changed, nil
}
