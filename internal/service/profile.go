package service

import (
	"context"
	"fmt"
	"realm-warp/internal/api"
	"realm-warp/internal/constants"
	"realm-warp/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/rs/zerolog"
)

type ProfileUpstream interface {
	FetchAccountByPUUID(ctx context.Context, platform domain.Platform, puuid string) (*domain.AccountInfo, error)
	FetchProfile(ctx context.Context, platform domain.Platform, puuid string) (*domain.ProfileInfo, error)
}

type AccountStore interface {
	Update(ctx context.Context, account *domain.Account) error
	SetInitialRankFetched(ctx context.Context, id string, fetched bool) error
}

type ProfileService struct {
	riot     ProfileUpstream
	accounts AccountStore
	logger   zerolog.Logger
}

func NewProfileService(riot ProfileUpstream, accounts AccountStore, logger zerolog.Logger) *ProfileService {
	return &ProfileService{
		riot:     riot,
		accounts: accounts,
		logger:   logger.With().Str("component", "profile").Logger(),
	}
}

// store-owned fields never take part in change detection
var profileComparer = cmpopts.IgnoreFields(domain.Account{}, "ID", "InitialRankFetched", "CreatedAt", "UpdatedAt")

// Sync fetches the account-v1 and summoner-v4 views of the account and
// reconciles them with the stored record.
func (s *ProfileService) Sync(ctx context.Context, account domain.Account) (domain.Account, bool, error) {
	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	info, err := s.riot.FetchAccountByPUUID(apiCtx, account.Platform, account.PUUID)
	if err != nil {
		return account, false, fmt.Errorf("failed to fetch account: %w", err)
	}
	profile, err := s.riot.FetchProfile(apiCtx, account.Platform, account.PUUID)
	if err != nil {
		return account, false, fmt.Errorf("failed to fetch profile: %w", err)
	}

	return s.Reconcile(ctx, account, *info, *profile)
}

// Reconcile writes the merged profile only when a compared field differs
// and reports whether it did.
func (s *ProfileService) Reconcile(ctx context.Context, stored domain.Account, info domain.AccountInfo, profile domain.ProfileInfo) (domain.Account, bool, error) {
	if info.PUUID != stored.PUUID || profile.PUUID != stored.PUUID {
		s.logger.Error().
			Str("account_id", stored.ID).
			Str("stored_puuid", stored.PUUID).
			Str("account_puuid", info.PUUID).
			Str("summoner_puuid", profile.PUUID).
			Msg("puuid mismatch")
		return stored, false, fmt.Errorf("%w: puuid mismatch for account %s", api.ErrMalformed, stored.ID)
	}

	merged := stored
	merged.GameName = info.GameName
	merged.TagLine = info.TagLine
	merged.ProfileIconID = profile.ProfileIconID
	merged.SummonerLevel = profile.SummonerLevel
	if profile.SummonerID != "" {
		merged.SummonerID = profile.SummonerID
	}

	if cmp.Equal(stored, merged, profileComparer) {
		return stored, false, nil
	}

	dbCtx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	defer cancel()

	if err := s.accounts.Update(dbCtx, &merged); err != nil {
		return stored, false, fmt.Errorf("failed to update account: %w", err)
	}

	s.logger.Info().
		Str("account_id", stored.ID).
		Str("riot_id", merged.RiotID()).
		Str("diff", cmp.Diff(stored, merged, profileComparer)).
		Msg("profile updated")
	return merged, true, nil
}
