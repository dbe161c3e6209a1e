// Package apitest provides an in-memory stand-in for the Riot client.
package apitest

import (
	"context"
	"realm-warp/internal/api"
	"realm-warp/internal/domain"
	"slices"
	"sync"
)

const (
	MethodAccount  = "FetchAccount"
	MethodByPUUID  = "FetchAccountByPUUID"
	MethodProfile  = "FetchProfile"
	MethodLeague   = "FetchLeagueEntries"
	MethodMatchIDs = "FetchRecentMatchIDs"
	MethodMatch    = "FetchMatch"
	MethodTimeline = "FetchTimeline"
)

// Fake serves whatever was put into it. Lookups that miss answer with a
// NotFound error, failures registered with Fail take precedence.
type Fake struct {
	mu        sync.Mutex
	accounts  map[string]domain.AccountInfo
	profiles  map[string]domain.ProfileInfo
	leagues   map[string][]domain.LeagueEntryInfo
	matchIDs  map[string][]string
	matches   map[string]domain.Match
	timelines map[string]domain.Timeline
	failures  map[string]error
	calls     map[string]int
}

func New() *Fake {
	return &Fake{
		accounts:  make(map[string]domain.AccountInfo),
		profiles:  make(map[string]domain.ProfileInfo),
		leagues:   make(map[string][]domain.LeagueEntryInfo),
		matchIDs:  make(map[string][]string),
		matches:   make(map[string]domain.Match),
		timelines: make(map[string]domain.Timeline),
		failures:  make(map[string]error),
		calls:     make(map[string]int),
	}
}

// SetPlayer registers both the account-v1 and the summoner-v4 view.
func (f *Fake) SetPlayer(info domain.AccountInfo, profile domain.ProfileInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.accounts[info.PUUID] = info
	f.profiles[info.PUUID] = profile
}

func (f *Fake) SetLeagues(puuid string, entries ...domain.LeagueEntryInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.leagues[puuid] = slices.Clone(entries)
}

// SetMatchIDs sets the history of puuid, newest first.
func (f *Fake) SetMatchIDs(puuid string, ids ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.matchIDs[puuid] = slices.Clone(ids)
}

func (f *Fake) SetMatch(match domain.Match, timeline *domain.Timeline) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.matches[match.MatchID] = match
	if timeline != nil {
		f.timelines[match.MatchID] = *timeline
	}
}

// Fail makes method fail with err for key (puuid or match id).
func (f *Fake) Fail(method, key string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[method+":"+key] = err
}

func (f *Fake) Clear(method, key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.failures, method+":"+key)
}

func (f *Fake) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func (f *Fake) enter(method, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[method]++
	return f.failures[method+":"+key]
}

func notFound(method string) error {
	return &api.Error{Kind: api.KindNotFound, Endpoint: method, Status: 404}
}

func (f *Fake) FetchAccount(ctx context.Context, platform domain.Platform, gameName, tagLine string) (*domain.AccountInfo, error) {
	if err := f.enter(MethodAccount, gameName+"#"+tagLine); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, info := range f.accounts {
		if info.GameName == gameName && info.TagLine == tagLine {
			return &info, nil
		}
	}
	return nil, notFound(MethodAccount)
}

func (f *Fake) FetchAccountByPUUID(ctx context.Context, platform domain.Platform, puuid string) (*domain.AccountInfo, error) {
	if err := f.enter(MethodByPUUID, puuid); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	info, ok := f.accounts[puuid]
	if !ok {
		return nil, notFound(MethodByPUUID)
	}
	return &info, nil
}

func (f *Fake) FetchProfile(ctx context.Context, platform domain.Platform, puuid string) (*domain.ProfileInfo, error) {
	if err := f.enter(MethodProfile, puuid); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	profile, ok := f.profiles[puuid]
	if !ok {
		return nil, notFound(MethodProfile)
	}
	return &profile, nil
}

func (f *Fake) FetchLeagueEntries(ctx context.Context, platform domain.Platform, puuid string) ([]domain.LeagueEntryInfo, error) {
	if err := f.enter(MethodLeague, puuid); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.leagues[puuid]), nil
}

func (f *Fake) FetchRecentMatchIDs(ctx context.Context, platform domain.Platform, puuid string, count int) ([]string, error) {
	if err := f.enter(MethodMatchIDs, puuid); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := f.matchIDs[puuid]
	if len(ids) > count {
		ids = ids[:count]
	}
	return slices.Clone(ids), nil
}

// FetchMatch returns a deep enough copy that callers may edit participants.
func (f *Fake) FetchMatch(ctx context.Context, platform domain.Platform, matchID string) (*domain.Match, error) {
	if err := f.enter(MethodMatch, matchID); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	match, ok := f.matches[matchID]
	if !ok {
		return nil, notFound(MethodMatch)
	}
	match.Participants = slices.Clone(match.Participants)
	match.RefAccounts = nil
	return &match, nil
}

func (f *Fake) FetchTimeline(ctx context.Context, platform domain.Platform, matchID string) (*domain.Timeline, error) {
	if err := f.enter(MethodTimeline, matchID); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	timeline, ok := f.timelines[matchID]
	if !ok {
		return nil, notFound(MethodTimeline)
	}
	return &timeline, nil
}
