package service

import (
	"context"
	"errors"
	"fmt"
	"realm-warp/internal/constants"
	"realm-warp/internal/domain"
	"realm-warp/internal/repository"
	"strings"

	"github.com/rs/zerolog"
)

var ErrAccountTracked = errors.New("account is already tracked")

type AccountUpstream interface {
	FetchAccount(ctx context.Context, platform domain.Platform, gameName, tagLine string) (*domain.AccountInfo, error)
	FetchProfile(ctx context.Context, platform domain.Platform, puuid string) (*domain.ProfileInfo, error)
}

type AccountRegistry interface {
	GetByRiotID(ctx context.Context, gameName, tagLine string, platform domain.Platform) (*domain.Account, error)
	GetByPUUID(ctx context.Context, puuid string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) error
}

type AccountService struct {
	riot     AccountUpstream
	accounts AccountRegistry
	logger   zerolog.Logger
}

func NewAccountService(riot AccountUpstream, accounts AccountRegistry, logger zerolog.Logger) *AccountService {
	return &AccountService{
		riot:     riot,
		accounts: accounts,
		logger:   logger.With().Str("component", "account").Logger(),
	}
}

// Register starts tracking the player behind gameName#tagLine on platform.
// The Riot ID check is case-insensitive; a player already tracked under an
// older name is caught by its puuid.
func (s *AccountService) Register(ctx context.Context, gameName, tagLine string, platform domain.Platform) (*domain.Account, error) {
	gameName, tagLine = strings.TrimSpace(gameName), strings.TrimSpace(tagLine)
	if gameName == "" || tagLine == "" {
		return nil, fmt.Errorf("game name and tag line are required")
	}

	if err := s.ensureUntracked(ctx, func(ctx context.Context) (*domain.Account, error) {
		return s.accounts.GetByRiotID(ctx, gameName, tagLine, platform)
	}); err != nil {
		return nil, err
	}

	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	info, err := s.riot.FetchAccount(apiCtx, platform, gameName, tagLine)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch account %s#%s: %w", gameName, tagLine, err)
	}

	if err := s.ensureUntracked(ctx, func(ctx context.Context) (*domain.Account, error) {
		return s.accounts.GetByPUUID(ctx, info.PUUID)
	}); err != nil {
		return nil, err
	}

	profile, err := s.riot.FetchProfile(apiCtx, platform, info.PUUID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch profile: %w", err)
	}

	account := &domain.Account{
		PUUID:         info.PUUID,
		GameName:      info.GameName,
		TagLine:       info.TagLine,
		Platform:      platform,
		SummonerID:    profile.SummonerID,
		ProfileIconID: profile.ProfileIconID,
		SummonerLevel: profile.SummonerLevel,
	}

	dbCtx, dbCancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer dbCancel()

	if err := s.accounts.Create(dbCtx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("%w: %s", ErrAccountTracked, account.RiotID())
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	s.logger.Info().
		Str("account_id", account.ID).
		Str("riot_id", account.RiotID()).
		Str("platform", string(platform)).
		Msg("account registered")
	return account, nil
}

func (s *AccountService) ensureUntracked(ctx context.Context, lookup func(context.Context) (*domain.Account, error)) error {
	dbCtx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	existing, err := lookup(dbCtx)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s (%s)", ErrAccountTracked, existing.RiotID(), existing.ID)
	case errors.Is(err, repository.ErrNotFound):
		return nil
	default:
		return fmt.Errorf("failed to look up account: %w", err)
	}
}
