// Package tracker drives the reconciliation loop: once per interval every
// tracked account has its profile, league entries and latest match brought
// up to date. A failing account never stops the rest of the roster.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"realm-warp/internal/api"
	"realm-warp/internal/config"
	"realm-warp/internal/constants"
	"realm-warp/internal/domain"
	"realm-warp/internal/metrics"
	"realm-warp/internal/repository"
	"realm-warp/internal/service"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type AccountLister interface {
	List(ctx context.Context) ([]domain.Account, error)
}

type ProfileSyncer interface {
	Sync(ctx context.Context, account domain.Account) (domain.Account, bool, error)
}

type LeagueSyncer interface {
	Sync(ctx context.Context, account domain.Account) ([]domain.LeagueEntry, bool, error)
}

type MatchIngester interface {
	Ingest(ctx context.Context, account domain.Account, entries []domain.LeagueEntry) (service.IngestResult, error)
}

type Options struct {
	Interval       time.Duration
	Concurrency    int
	AccountTimeout time.Duration
}

type Tracker struct {
	accounts AccountLister
	profiles ProfileSyncer
	leagues  LeagueSyncer
	matches  MatchIngester
	opts     Options
	metrics  *metrics.Metrics
	logger   zerolog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func New(
	cfg *config.Config,
	accounts *repository.AccountRepository,
	profiles *service.ProfileService,
	leagues *service.LeagueService,
	matches *service.MatchService,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *Tracker {
	return newTracker(accounts, profiles, leagues, matches, Options{
		Interval:       cfg.Tracker.Interval,
		Concurrency:    cfg.Tracker.Concurrency,
		AccountTimeout: cfg.Tracker.AccountTimeout,
	}, m, logger)
}

func newTracker(accounts AccountLister, profiles ProfileSyncer, leagues LeagueSyncer, matches MatchIngester, opts Options, m *metrics.Metrics, logger zerolog.Logger) *Tracker {
	if opts.Interval <= 0 {
		opts.Interval = constants.DefaultPollInterval
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = constants.DefaultConcurrency
	}
	if opts.AccountTimeout <= 0 {
		opts.AccountTimeout = constants.DefaultAccountTimeout
	}
	return &Tracker{
		accounts: accounts,
		profiles: profiles,
		leagues:  leagues,
		matches:  matches,
		opts:     opts,
		metrics:  m,
		logger:   logger.With().Str("component", "tracker").Logger(),
	}
}

// CycleReport summarises one pass over the roster.
type CycleReport struct {
	CycleID        string
	Accounts       int
	Processed      int
	Failed         int
	ProfileUpdates int
	LeagueUpdates  int
	MatchesCreated int
	MatchesLinked  int
	// Failures counts failed accounts per error class.
	Failures map[string]int
	Duration time.Duration
	// Err is set when the roster could not be listed and the cycle was skipped.
	Err error
}

type accountOutcome struct {
	profileUpdated bool
	leagueChanged  bool
	ingest         service.IngestResult
	ingested       bool
	class          string
	err            error
}

func (r *CycleReport) add(o accountOutcome) {
	if o.err != nil {
		r.Failed++
		r.Failures[o.class]++
	} else {
		r.Processed++
	}
	if o.profileUpdated {
		r.ProfileUpdates++
	}
	if o.leagueChanged {
		r.LeagueUpdates++
	}
	if o.ingested {
		switch o.ingest {
		case service.IngestCreated:
			r.MatchesCreated++
		case service.IngestLinked:
			r.MatchesLinked++
		}
	}
}

// Start runs the loop in the background until Stop is called.
func (t *Tracker) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.cancel = cancel
	t.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		t.Run(ctx)
	}(t.done)
}

// Stop cancels the loop and waits for the current cycle to wind down or
// for ctx to expire.
func (t *Tracker) Stop(ctx context.Context) error {
	t.mu.Lock()
	cancel, done := t.cancel, t.done
	t.cancel, t.done = nil, nil
	t.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()

	select {
	case <-done:
		t.logger.Info().Msg("tracker stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("tracker did not stop in time: %w", ctx.Err())
	}
}

// Run reconciles the roster, sleeps for the interval and repeats until ctx
// is cancelled.
func (t *Tracker) Run(ctx context.Context) {
	t.logger.Info().
		Dur("interval", t.opts.Interval).
		Int("concurrency", t.opts.Concurrency).
		Msg("tracker started")

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		t.RunCycle(ctx)
		timer.Reset(t.opts.Interval)
	}
}

// RunCycle makes one pass over every tracked account.
func (t *Tracker) RunCycle(ctx context.Context) CycleReport {
	start := time.Now()
	report := CycleReport{
		CycleID:  uuid.NewString(),
		Failures: make(map[string]int),
	}
	log := t.logger.With().Str("cycle_id", report.CycleID).Logger()

	dbCtx, cancel := context.WithTimeout(ctx, constants.DatabaseTimeout)
	accounts, err := t.accounts.List(dbCtx)
	cancel()
	if err != nil {
		log.Error().Err(err).Msg("failed to list accounts, skipping cycle")
		report.Err = err
		report.Duration = time.Since(start)
		return report
	}
	report.Accounts = len(accounts)
	log.Debug().Int("accounts", len(accounts)).Msg("cycle started")

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(t.opts.Concurrency)

	for _, account := range accounts {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			outcome := t.processAccount(ctx, log, account)
			mu.Lock()
			report.add(outcome)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	report.Duration = time.Since(start)
	t.metrics.ObserveCycle(report.Duration, report.Accounts)

	log.Info().
		Int("accounts", report.Accounts).
		Int("processed", report.Processed).
		Int("failed", report.Failed).
		Int("profile_updates", report.ProfileUpdates).
		Int("league_updates", report.LeagueUpdates).
		Int("matches_created", report.MatchesCreated).
		Int("matches_linked", report.MatchesLinked).
		Dur("duration", report.Duration).
		Msg("cycle completed")
	return report
}

func (t *Tracker) processAccount(ctx context.Context, log zerolog.Logger, account domain.Account) (out accountOutcome) {
	ctx, cancel := context.WithTimeout(ctx, t.opts.AccountTimeout)
	defer cancel()

	log = log.With().
		Str("account_id", account.ID).
		Str("riot_id", account.RiotID()).
		Str("platform", string(account.Platform)).
		Logger()

	defer func() {
		if out.err != nil {
			out.class = t.report(log, out.err)
			t.metrics.AccountResult(out.class)
			return
		}
		t.metrics.AccountResult("ok")
	}()

	account, updated, err := t.profiles.Sync(ctx, account)
	if err != nil {
		out.err = fmt.Errorf("profile: %w", err)
		return out
	}
	if out.profileUpdated = updated; updated {
		t.metrics.ProfileUpdated()
	}

	entries, changed, err := t.leagues.Sync(ctx, account)
	if err != nil {
		out.err = fmt.Errorf("league: %w", err)
		return out
	}
	if out.leagueChanged = changed; changed {
		t.metrics.LeagueUpdated()
	}
	account.InitialRankFetched = true

	result, err := t.matches.Ingest(ctx, account, entries)
	if err != nil {
		out.err = fmt.Errorf("match: %w", err)
		return out
	}
	out.ingest, out.ingested = result, true
	t.metrics.MatchIngested(result.String())

	log.Debug().Str("match", result.String()).Msg("account reconciled")
	return out
}

// report logs err at the level its class calls for and returns the class.
func (t *Tracker) report(log zerolog.Logger, err error) string {
	class, level := classify(err)
	event := log.WithLevel(level).Err(err).Str("class", class)

	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		event = event.Str("endpoint", apiErr.Endpoint).Int("status", apiErr.Status)
		if apiErr.Kind == api.KindMalformed || apiErr.Kind == api.KindRemote {
			event = event.Str("body", apiErr.Body)
		}
	}
	event.Msg("account reconciliation failed")
	return class
}

// classify maps an account failure to a metric label and a log level.
func classify(err error) (string, zerolog.Level) {
	if kind, ok := api.KindOf(err); ok {
		switch kind {
		case api.KindNotFound, api.KindRateLimited:
			return kind.String(), zerolog.WarnLevel
		default:
			return kind.String(), zerolog.ErrorLevel
		}
	}

	switch {
	case errors.Is(err, api.ErrMalformed):
		return api.KindMalformed.String(), zerolog.ErrorLevel
	case errors.Is(err, repository.ErrNotFound):
		// account removed while the cycle was running
		return "not_found", zerolog.WarnLevel
	case errors.Is(err, repository.ErrStore), errors.Is(err, repository.ErrDuplicate):
		// a duplicate here is a write the store refused, e.g. a rename onto
		// another tracked Riot ID
		return "store", zerolog.ErrorLevel
	case errors.Is(err, context.DeadlineExceeded):
		return api.KindRemote.String(), zerolog.ErrorLevel
	case errors.Is(err, context.Canceled):
		return "canceled", zerolog.InfoLevel
	default:
		return "internal", zerolog.ErrorLevel
	}
}
