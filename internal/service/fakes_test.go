package service

import (
	"context"
	"fmt"
	"realm-warp/internal/domain"
	"realm-warp/internal/repository"
	"slices"
	"sync"
)

type memAccounts struct {
	mu       sync.Mutex
	accounts map[string]domain.Account
	updates  int
	flags    int
}

func newMemAccounts(accounts ...domain.Account) *memAccounts {
	m := &memAccounts{accounts: make(map[string]domain.Account)}
	for _, a := range accounts {
		m.accounts[a.ID] = a
	}
	return m
}

func (m *memAccounts) Update(ctx context.Context, account *domain.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.ID]; !ok {
		return fmt.Errorf("update account: %w", repository.ErrNotFound)
	}
	m.accounts[account.ID] = *account
	m.updates++
	return nil
}

func (m *memAccounts) SetInitialRankFetched(ctx context.Context, id string, fetched bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[id]
	if !ok {
		return fmt.Errorf("set initial rank fetched: %w", repository.ErrNotFound)
	}
	a.InitialRankFetched = fetched
	m.accounts[id] = a
	m.flags++
	return nil
}

type memLeagues struct {
	mu      sync.Mutex
	entries map[string][]domain.LeagueEntry
	upserts int
	nextID  int
}

func newMemLeagues() *memLeagues {
	return &memLeagues{entries: make(map[string][]domain.LeagueEntry)}
}

func (m *memLeagues) ListByAccount(ctx context.Context, accountID string) ([]domain.LeagueEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.entries[accountID]), nil
}

func (m *memLeagues) Upsert(ctx context.Context, entry *domain.LeagueEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upserts++
	list := m.entries[entry.AccountID]
	for i := range list {
		if list[i].QueueType == entry.QueueType {
			entry.ID = list[i].ID
			list[i] = *entry
			return nil
		}
	}
	if entry.ID == "" {
		m.nextID++
		entry.ID = fmt.Sprintf("entry-%d", m.nextID)
	}
	m.entries[entry.AccountID] = append(list, *entry)
	return nil
}

type memMatches struct {
	mu        sync.Mutex
	matches   map[string]*domain.Match
	timelines map[string]*domain.Timeline
	inserts   int
	links     int

	// beforeInsert runs without the lock held, right before Insert stores.
	beforeInsert func()
}

func newMemMatches() *memMatches {
	return &memMatches{
		matches:   make(map[string]*domain.Match),
		timelines: make(map[string]*domain.Timeline),
	}
}

func cloneMatch(m *domain.Match) *domain.Match {
	c := *m
	c.Participants = make([]domain.Participant, len(m.Participants))
	for i, p := range m.Participants {
		if p.League != nil {
			league := *p.League
			p.League = &league
		}
		c.Participants[i] = p
	}
	c.RefAccounts = slices.Clone(m.RefAccounts)
	return &c
}

func (m *memMatches) writes() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inserts + m.links
}

func (m *memMatches) get(id string) *domain.Match {
	m.mu.Lock()
	defer m.mu.Unlock()
	if match, ok := m.matches[id]; ok {
		return cloneMatch(match)
	}
	return nil
}

func (m *memMatches) FindByID(ctx context.Context, matchID string) (*domain.Match, error) {
	if match := m.get(matchID); match != nil {
		return match, nil
	}
	return nil, fmt.Errorf("get match: %w", repository.ErrNotFound)
}

func (m *memMatches) FindLatestForAccount(ctx context.Context, accountID string) (*domain.Match, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var latest *domain.Match
	for _, match := range m.matches {
		if match.HasRef(accountID) && (latest == nil || match.GameEndTimestamp > latest.GameEndTimestamp) {
			latest = match
		}
	}
	if latest == nil {
		return nil, nil
	}
	return cloneMatch(latest), nil
}

func (m *memMatches) Insert(ctx context.Context, match *domain.Match, timeline *domain.Timeline) error {
	if m.beforeInsert != nil {
		m.beforeInsert()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.matches[match.MatchID]; ok {
		return fmt.Errorf("insert match: %w", repository.ErrDuplicateMatch)
	}
	m.matches[match.MatchID] = cloneMatch(match)
	if timeline != nil {
		t := *timeline
		m.timelines[match.MatchID] = &t
	}
	m.inserts++
	return nil
}

func (m *memMatches) LinkAccount(ctx context.Context, link repository.MatchLink) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	match, ok := m.matches[link.MatchID]
	if !ok {
		return false, fmt.Errorf("link match: %w", repository.ErrNotFound)
	}
	if match.HasRef(link.AccountID) {
		return false, nil
	}
	match.RefAccounts = append(match.RefAccounts, link.AccountID)
	if link.League != nil {
		if p := match.Participant(link.PUUID); p != nil {
			league := *link.League
			p.League = &league
		}
	}
	m.links++
	return true, nil
}
