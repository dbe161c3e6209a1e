package repository

import (
	"context"
	"fmt"
	"realm-warp/internal/db"
	"realm-warp/internal/domain"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
)

type AccountRepository struct {
	queries *db.Queries
	logger  zerolog.Logger
}

func NewAccountRepository(queries *db.Queries, logger zerolog.Logger) *AccountRepository {
	return &AccountRepository{
		queries: queries,
		logger:  logger.With().Str("component", "account_repository").Logger(),
	}
}

func toAccount(a db.Account) domain.Account {
	return domain.Account{
		ID:                 a.ID,
		PUUID:              a.Puuid,
		GameName:           a.GameName,
		TagLine:            a.TagLine,
		Platform:           domain.Platform(a.Platform),
		SummonerID:         a.SummonerID,
		ProfileIconID:      int(a.ProfileIconID),
		SummonerLevel:      int(a.SummonerLevel),
		InitialRankFetched: a.InitialRankFetched,
		CreatedAt:          a.CreatedAt,
		UpdatedAt:          a.UpdatedAt,
	}
}

func (r *AccountRepository) List(ctx context.Context) ([]domain.Account, error) {
	rows, err := r.queries.ListAccounts(ctx)
	if err != nil {
		return nil, wrap("list accounts", err)
	}

	accounts := make([]domain.Account, len(rows))
	for i, row := range rows {
		accounts[i] = toAccount(row)
	}
	return accounts, nil
}

func (r *AccountRepository) Get(ctx context.Context, id string) (*domain.Account, error) {
	row, err := r.queries.GetAccount(ctx, id)
	if err != nil {
		return nil, wrap("get account", err)
	}
	account := toAccount(row)
	return &account, nil
}

func (r *AccountRepository) GetByPUUID(ctx context.Context, puuid string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByPuuid(ctx, puuid)
	if err != nil {
		return nil, wrap("get account by puuid", err)
	}
	account := toAccount(row)
	return &account, nil
}

// GetByRiotID matches name, tag and platform case-insensitively.
func (r *AccountRepository) GetByRiotID(ctx context.Context, gameName, tagLine string, platform domain.Platform) (*domain.Account, error) {
	row, err := r.queries.GetAccountByRiotID(ctx, db.GetAccountByRiotIDParams{
		GameName: gameName,
		TagLine:  tagLine,
		Platform: string(platform),
	})
	if err != nil {
		return nil, wrap("get account by riot id", err)
	}
	account := toAccount(row)
	return &account, nil
}

// Create assigns the store id and timestamps when they are unset.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	if account.ID == "" {
		id, err := gonanoid.New()
		if err != nil {
			return fmt.Errorf("failed to generate nanoid: %w", err)
		}
		account.ID = id
	}
	now := time.Now().UTC()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now

	err := r.queries.CreateAccount(ctx, db.CreateAccountParams{
		ID:                 account.ID,
		Puuid:              account.PUUID,
		GameName:           account.GameName,
		TagLine:            account.TagLine,
		Platform:           string(account.Platform),
		SummonerID:         account.SummonerID,
		ProfileIconID:      int64(account.ProfileIconID),
		SummonerLevel:      int64(account.SummonerLevel),
		InitialRankFetched: account.InitialRankFetched,
		CreatedAt:          account.CreatedAt,
		UpdatedAt:          account.UpdatedAt,
	})
	if err != nil {
		return wrap("create account", err)
	}

	r.logger.Debug().Str("account_id", account.ID).Str("riot_id", account.RiotID()).Msg("account created")
	return nil
}

// Update replaces the profile fields of an existing account.
func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) error {
	account.UpdatedAt = time.Now().UTC()

	n, err := r.queries.UpdateAccountProfile(ctx, db.UpdateAccountProfileParams{
		Puuid:         account.PUUID,
		GameName:      account.GameName,
		TagLine:       account.TagLine,
		Platform:      string(account.Platform),
		SummonerID:    account.SummonerID,
		ProfileIconID: int64(account.ProfileIconID),
		SummonerLevel: int64(account.SummonerLevel),
		UpdatedAt:     account.UpdatedAt,
		ID:            account.ID,
	})
	if err != nil {
		return wrap("update account", err)
	}
	if n == 0 {
		return fmt.Errorf("update account %s: %w", account.ID, ErrNotFound)
	}
	return nil
}

func (r *AccountRepository) SetInitialRankFetched(ctx context.Context, id string, fetched bool) error {
	n, err := r.queries.SetInitialRankFetched(ctx, db.SetInitialRankFetchedParams{
		InitialRankFetched: fetched,
		UpdatedAt:          time.Now().UTC(),
		ID:                 id,
	})
	if err != nil {
		return wrap("set initial rank fetched", err)
	}
	if n == 0 {
		return fmt.Errorf("set initial rank fetched %s: %w", id, ErrNotFound)
	}
	return nil
}

// Delete removes the account together with its league entries and match
// links. Matches stay.
func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	n, err := r.queries.DeleteAccount(ctx, id)
	if err != nil {
		return wrap("delete account", err)
	}
	if n == 0 {
		return fmt.Errorf("delete account %s: %w", id, ErrNotFound)
	}
	return nil
}
