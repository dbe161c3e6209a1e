package repository

import (
	"cmp"
	"context"
	"fmt"
	"realm-warp/internal/db"
	"realm-warp/internal/domain"
	"slices"
	"time"

	"github.com/goccy/go-json"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type LeagueRepository struct {
	queries *db.Queries
	logger  zerolog.Logger
}

func NewLeagueRepository(queries *db.Queries, logger zerolog.Logger) *LeagueRepository {
	return &LeagueRepository{
		queries: queries,
		logger:  logger.With().Str("component", "league_repository").Logger(),
	}
}

func toLeagueEntry(e db.LeagueEntry) (domain.LeagueEntry, error) {
	miniSeries, err := decodeMiniSeries(e.MiniSeries)
	if err != nil {
		return domain.LeagueEntry{}, err
	}
	return domain.LeagueEntry{
		ID:        e.ID,
		AccountID: e.AccountID,
		LeagueEntryInfo: domain.LeagueEntryInfo{
			QueueType:    domain.QueueType(e.QueueType),
			LeagueID:     e.LeagueID,
			Tier:         domain.Tier(e.Tier),
			Rank:         domain.Division(e.Rank),
			LeaguePoints: int(e.LeaguePoints),
			Wins:         int(e.Wins),
			Losses:       int(e.Losses),
			HotStreak:    e.HotStreak,
			Veteran:      e.Veteran,
			FreshBlood:   e.FreshBlood,
			Inactive:     e.Inactive,
			MiniSeries:   miniSeries,
		},
		CreatedAt: e.CreatedAt,
		UpdatedAt: e.UpdatedAt,
	}, nil
}

func decodeMiniSeries(raw *string) (*domain.MiniSeries, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	var ms domain.MiniSeries
	if err := json.Unmarshal([]byte(*raw), &ms); err != nil {
		return nil, fmt.Errorf("decode mini series: %w: %w", ErrStore, err)
	}
	return &ms, nil
}

func encodeMiniSeries(ms *domain.MiniSeries) (*string, error) {
	if ms == nil {
		return nil, nil
	}
	b, err := json.Marshal(ms)
	if err != nil {
		return nil, fmt.Errorf("encode mini series: %w", err)
	}
	s := string(b)
	return &s, nil
}

func (r *LeagueRepository) ListByAccount(ctx context.Context, accountID string) ([]domain.LeagueEntry, error) {
	rows, err := r.queries.ListLeagueEntriesByAccount(ctx, accountID)
	if err != nil {
		return nil, wrap("list league entries", err)
	}

	entries := make([]domain.LeagueEntry, 0, len(rows))
	for _, row := range rows {
		entry, err := toLeagueEntry(row)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (r *LeagueRepository) Find(ctx context.Context, accountID string, queueType domain.QueueType) (*domain.LeagueEntry, error) {
	row, err := r.queries.GetLeagueEntry(ctx, db.GetLeagueEntryParams{
		AccountID: accountID,
		QueueType: string(queueType),
	})
	if err != nil {
		return nil, wrap("find league entry", err)
	}
	entry, err := toLeagueEntry(row)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Upsert writes the entry keyed on (account, queue type). A new entry gets
// an id; an existing row keeps its original id and creation time.
func (r *LeagueRepository) Upsert(ctx context.Context, entry *domain.LeagueEntry) error {
	if entry.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate nanoid: %w", err)
		}
		entry.ID = id
	}
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	miniSeries, err := encodeMiniSeries(entry.MiniSeries)
	if err != nil {
		return err
	}

	err = r.queries.UpsertLeagueEntry(ctx, db.UpsertLeagueEntryParams{
		ID:           entry.ID,
		AccountID:    entry.AccountID,
		QueueType:    string(entry.QueueType),
		LeagueID:     entry.LeagueID,
		Tier:         string(entry.Tier),
		Rank:         string(entry.Rank),
		LeaguePoints: int64(entry.LeaguePoints),
		Wins:         int64(entry.Wins),
		Losses:       int64(entry.Losses),
		HotStreak:    entry.HotStreak,
		Veteran:      entry.Veteran,
		FreshBlood:   entry.FreshBlood,
		Inactive:     entry.Inactive,
		MiniSeries:   miniSeries,
		CreatedAt:    entry.CreatedAt,
		UpdatedAt:    entry.UpdatedAt,
	})
	if err != nil {
		return wrap("upsert league entry", err)
	}

	r.logger.Debug().
		Str("account_id", entry.AccountID).
		Str("queue_type", string(entry.QueueType)).
		Str("tier", string(entry.Tier)).
		Str("rank", string(entry.Rank)).
		Int("lp", entry.LeaguePoints).
		Msg("league entry upserted")
	return nil
}

// Leaderboard returns the top entries of a queue ordered by ladder score,
// ties broken by Riot ID.
func (r *LeagueRepository) Leaderboard(ctx context.Context, queueType domain.QueueType, limit int) ([]domain.LeaderboardRow, error) {
	rows, err := r.queries.GetLeaderboard(ctx, string(queueType))
	if err != nil {
		return nil, wrap("leaderboard", err)
	}

	result := make([]domain.LeaderboardRow, 0, len(rows))
	for _, row := range rows {
		entry, err := toLeagueEntry(db.LeagueEntry{
			ID:           row.EntryID,
			AccountID:    row.ID,
			QueueType:    row.QueueType,
			LeagueID:     row.LeagueID,
			Tier:         row.Tier,
			Rank:         row.Rank,
			LeaguePoints: row.LeaguePoints,
			Wins:         row.Wins,
			Losses:       row.Losses,
			HotStreak:    row.HotStreak,
			Veteran:      row.Veteran,
			FreshBlood:   row.FreshBlood,
			Inactive:     row.Inactive,
			MiniSeries:   row.MiniSeries,
			CreatedAt:    row.EntryCreatedAt,
			UpdatedAt:    row.EntryUpdatedAt,
		})
		if err != nil {
			return nil, err
		}
		result = append(result, domain.LeaderboardRow{
			Account: toAccount(db.Account{
				ID:                 row.ID,
				Puuid:              row.Puuid,
				GameName:           row.GameName,
				TagLine:            row.TagLine,
				Platform:           row.Platform,
				SummonerID:         row.SummonerID,
				ProfileIconID:      row.ProfileIconID,
				SummonerLevel:      row.SummonerLevel,
				InitialRankFetched: row.InitialRankFetched,
				CreatedAt:          row.CreatedAt,
				UpdatedAt:          row.UpdatedAt,
			}),
			Entry: entry,
		})
	}
	// rows arrive sorted by Riot ID, the stable sort keeps that for ties
	slices.SortStableFunc(result, func(a, b domain.LeaderboardRow) int {
		return cmp.Compare(b.Entry.LadderScore(), a.Entry.LadderScore())
	})
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}
