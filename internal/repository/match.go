package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"realm-warp/internal/db"
	"realm-warp/internal/domain"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

type MatchRepository struct {
	queries   *db.Queries
	db        *sql.DB
	timelines *TimelineRepository
	logger    zerolog.Logger
}

func NewMatchRepository(sqlDB *sql.DB, queries *db.Queries, timelines *TimelineRepository, logger zerolog.Logger) *MatchRepository {
	return &MatchRepository{
		queries:   queries,
		db:        sqlDB,
		timelines: timelines,
		logger:    logger.With().Str("component", "match_repository").Logger(),
	}
}

// MatchLink adds one tracked account to a stored match. League, when set,
// is frozen onto the participant with PUUID in the same transaction.
type MatchLink struct {
	MatchID   string
	AccountID string
	PUUID     string
	League    *domain.RankSnapshot
}

func (r *MatchRepository) FindByID(ctx context.Context, matchID string) (*domain.Match, error) {
	return findMatch(ctx, r.queries, matchID)
}

func findMatch(ctx context.Context, q *db.Queries, matchID string) (*domain.Match, error) {
	row, err := q.GetMatch(ctx, matchID)
	if err != nil {
		return nil, wrap("get match", err)
	}
	participants, err := q.ListMatchParticipants(ctx, matchID)
	if err != nil {
		return nil, wrap("list match participants", err)
	}
	refs, err := q.ListMatchAccountIDs(ctx, matchID)
	if err != nil {
		return nil, wrap("list match accounts", err)
	}

	match := &domain.Match{
		MatchID:            row.MatchID,
		DataVersion:        row.DataVersion,
		GameID:             row.GameID,
		GameCreation:       row.GameCreation,
		GameDuration:       row.GameDuration,
		GameStartTimestamp: row.GameStartTimestamp,
		GameEndTimestamp:   row.GameEndTimestamp,
		GameMode:           row.GameMode,
		GameName:           row.GameName,
		GameType:           row.GameType,
		GameVersion:        row.GameVersion,
		MapID:              int(row.MapID),
		PlatformID:         row.PlatformID,
		QueueID:            int(row.QueueID),
		EndOfGameResult:    row.EndOfGameResult,
		TournamentCode:     row.TournamentCode,
		Teams:              json.RawMessage(row.Teams),
		Participants:       make([]domain.Participant, len(participants)),
		RefAccounts:        refs,
		CreatedAt:          row.CreatedAt,
		UpdatedAt:          row.UpdatedAt,
	}
	for i, p := range participants {
		match.Participants[i] = toParticipant(p)
	}
	return match, nil
}

func toParticipant(p db.MatchParticipant) domain.Participant {
	participant := domain.Participant{
		ParticipantID:  int(p.ParticipantID),
		PUUID:          p.Puuid,
		RiotIDGameName: p.RiotIDGameName,
		RiotIDTagline:  p.RiotIDTagline,
		ChampionID:     int(p.ChampionID),
		ChampionName:   p.ChampionName,
		TeamID:         int(p.TeamID),
		TeamPosition:   p.TeamPosition,
		Win:            p.Win,
		Kills:          int(p.Kills),
		Deaths:         int(p.Deaths),
		Assists:        int(p.Assists),
		TotalMinions:   int(p.TotalMinions),
		GoldEarned:     int(p.GoldEarned),
		DamageDealt:    int(p.DamageDealt),
		VisionScore:    int(p.VisionScore),
		ChampLevel:     int(p.ChampLevel),
		Stats:          json.RawMessage(p.Stats),
	}
	if p.LeagueTier != nil && p.LeagueRank != nil && p.LeaguePoints != nil {
		participant.League = &domain.RankSnapshot{
			Tier:         domain.Tier(*p.LeagueTier),
			Rank:         domain.Division(*p.LeagueRank),
			LeaguePoints: int(*p.LeaguePoints),
		}
	}
	return participant
}

func leagueParams(snapshot *domain.RankSnapshot) (*string, *string, *int64) {
	if snapshot == nil {
		return nil, nil, nil
	}
	tier := string(snapshot.Tier)
	rank := string(snapshot.Rank)
	lp := int64(snapshot.LeaguePoints)
	return &tier, &rank, &lp
}

func rawOr(raw json.RawMessage, empty string) string {
	if len(raw) == 0 {
		return empty
	}
	return string(raw)
}

// FindLatestForAccount returns the linked match with the newest game end
// timestamp, or nil when the account has no matches yet.
func (r *MatchRepository) FindLatestForAccount(ctx context.Context, accountID string) (*domain.Match, error) {
	matchID, err := r.queries.GetLatestMatchIDForAccount(ctx, accountID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrap("get latest match", err)
	}
	return r.FindByID(ctx, matchID)
}

// ListForAccount returns up to limit linked matches, newest first.
func (r *MatchRepository) ListForAccount(ctx context.Context, accountID string, limit int) ([]domain.Match, error) {
	ids, err := r.queries.ListMatchIDsForAccount(ctx, db.ListMatchIDsForAccountParams{
		AccountID: accountID,
		Limit:     int64(limit),
	})
	if err != nil {
		return nil, wrap("list matches for account", err)
	}

	matches := make([]domain.Match, 0, len(ids))
	for _, id := range ids {
		match, err := r.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		matches = append(matches, *match)
	}
	return matches, nil
}

// Insert stores a new match with its participants, its initial account
// links and its timeline in one transaction. ErrDuplicateMatch is returned
// when another writer stored the same match id first; nothing is written
// in that case.
func (r *MatchRepository) Insert(ctx context.Context, match *domain.Match, timeline *domain.Timeline) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return wrap("begin transaction", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)
	now := time.Now().UTC()
	if match.CreatedAt.IsZero() {
		match.CreatedAt = now
	}
	match.UpdatedAt = now

	n, err := qtx.InsertMatch(ctx, db.InsertMatchParams{
		MatchID:            match.MatchID,
		DataVersion:        match.DataVersion,
		GameID:             match.GameID,
		GameCreation:       match.GameCreation,
		GameDuration:       match.GameDuration,
		GameStartTimestamp: match.GameStartTimestamp,
		GameEndTimestamp:   match.GameEndTimestamp,
		GameMode:           match.GameMode,
		GameName:           match.GameName,
		GameType:           match.GameType,
		GameVersion:        match.GameVersion,
		MapID:              int64(match.MapID),
		PlatformID:         match.PlatformID,
		QueueID:            int64(match.QueueID),
		EndOfGameResult:    match.EndOfGameResult,
		TournamentCode:     match.TournamentCode,
		Teams:              rawOr(match.Teams, "[]"),
		CreatedAt:          match.CreatedAt,
		UpdatedAt:          match.UpdatedAt,
	})
	if err != nil {
		return wrap("insert match", err)
	}
	if n == 0 {
		return fmt.Errorf("insert match %s: %w", match.MatchID, ErrDuplicateMatch)
	}

	for _, p := range match.Participants {
		tier, rank, lp := leagueParams(p.League)
		err := qtx.InsertMatchParticipant(ctx, db.InsertMatchParticipantParams{
			MatchID:        match.MatchID,
			Puuid:          p.PUUID,
			ParticipantID:  int64(p.ParticipantID),
			RiotIDGameName: p.RiotIDGameName,
			RiotIDTagline:  p.RiotIDTagline,
			ChampionID:     int64(p.ChampionID),
			ChampionName:   p.ChampionName,
			TeamID:         int64(p.TeamID),
			TeamPosition:   p.TeamPosition,
			Win:            p.Win,
			Kills:          int64(p.Kills),
			Deaths:         int64(p.Deaths),
			Assists:        int64(p.Assists),
			TotalMinions:   int64(p.TotalMinions),
			GoldEarned:     int64(p.GoldEarned),
			DamageDealt:    int64(p.DamageDealt),
			VisionScore:    int64(p.VisionScore),
			ChampLevel:     int64(p.ChampLevel),
			Stats:          rawOr(p.Stats, "{}"),
			LeagueTier:     tier,
			LeagueRank:     rank,
			LeaguePoints:   lp,
		})
		if err != nil {
			return wrap(fmt.Sprintf("insert participant %s/%d", match.MatchID, p.ParticipantID), err)
		}
	}

	for _, accountID := range match.RefAccounts {
		if _, err := qtx.LinkMatchAccount(ctx, db.LinkMatchAccountParams{
			MatchID:   match.MatchID,
			AccountID: accountID,
			LinkedAt:  now,
		}); err != nil {
			return wrap("link match account", err)
		}
	}

	if timeline != nil {
		timeline.MatchID = match.MatchID
		if _, err := r.timelines.insert(ctx, qtx, timeline); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return wrap("commit match", err)
	}

	r.logger.Debug().
		Str("match_id", match.MatchID).
		Int("participants", len(match.Participants)).
		Strs("ref_accounts", match.RefAccounts).
		Bool("timeline", timeline != nil).
		Msg("match inserted")
	return nil
}

// LinkAccount adds the account to the match's owner set. It reports false
// when the account was already linked, in which case the participant
// snapshot is left untouched.
func (r *MatchRepository) LinkAccount(ctx context.Context, link MatchLink) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, wrap("begin transaction", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)
	now := time.Now().UTC()

	n, err := qtx.LinkMatchAccount(ctx, db.LinkMatchAccountParams{
		MatchID:   link.MatchID,
		AccountID: link.AccountID,
		LinkedAt:  now,
	})
	if err != nil {
		return false, wrap("link match account", err)
	}
	if n == 0 {
		return false, nil
	}

	if link.League != nil && link.PUUID != domain.BotPUUID {
		tier, rank, lp := leagueParams(link.League)
		updated, err := qtx.SetParticipantLeague(ctx, db.SetParticipantLeagueParams{
			LeagueTier:   tier,
			LeagueRank:   rank,
			LeaguePoints: lp,
			MatchID:      link.MatchID,
			Puuid:        link.PUUID,
		})
		if err != nil {
			return false, wrap("set participant league", err)
		}
		if updated == 0 {
			r.logger.Warn().
				Str("match_id", link.MatchID).
				Str("puuid", link.PUUID).
				Msg("participant not found, snapshot skipped")
		}
	}

	if err := qtx.TouchMatch(ctx, db.TouchMatchParams{UpdatedAt: now, MatchID: link.MatchID}); err != nil {
		return false, wrap("touch match", err)
	}
	if err := tx.Commit(); err != nil {
		return false, wrap("commit link", err)
	}
	return true, nil
}
