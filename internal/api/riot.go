package api

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"realm-warp/internal/config"
	"realm-warp/internal/constants"
	"realm-warp/internal/domain"
	"realm-warp/internal/metrics"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpproxy"
	"golang.org/x/time/rate"
)

const (
	defaultBaseURL = "https://{routing}.api.riotgames.com"
	breakerName    = "riot-api"
	tokenHeader    = "X-Riot-Token"
)

const (
	endpointAccountByRiotID = "account-v1.by-riot-id"
	endpointAccountByPUUID  = "account-v1.by-puuid"
	endpointSummoner        = "summoner-v4.by-puuid"
	endpointLeagueEntries   = "league-v4.entries-by-puuid"
	endpointMatchIDs        = "match-v5.ids-by-puuid"
	endpointMatch           = "match-v5.match"
	endpointTimeline        = "match-v5.timeline"
)

// Client talks to the Riot API. One limiter and one breaker are shared by
// every goroutine using the client.
type Client struct {
	apiKey   string
	baseURL  string
	client   *fasthttp.Client
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker[[]byte]
	validate *validator.Validate
	metrics  *metrics.Metrics
	logger   zerolog.Logger

	rateLimitMu sync.RWMutex
	rateLimit   RateLimitInfo
}

// RateLimitInfo mirrors the last rate limit headers seen.
type RateLimitInfo struct {
	AppLimit    string
	AppCount    string
	MethodLimit string
	MethodCount string
	RetryAfter  time.Duration
	UpdatedAt   time.Time
}

func NewClient(cfg *config.Config, m *metrics.Metrics, logger zerolog.Logger) *Client {
	logger = logger.With().Str("component", "riot_client").Logger()

	baseURL := cfg.Riot.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	httpClient := &fasthttp.Client{
		Name:                "realm-warp",
		MaxConnsPerHost:     100,
		ReadTimeout:         constants.ExternalAPITimeout,
		WriteTimeout:        constants.ExternalAPITimeout,
		MaxIdleConnDuration: 1 * time.Minute,
	}
	if addr := cfg.Riot.ProxyAddr(); addr != "" {
		httpClient.Dial = fasthttpproxy.FasthttpHTTPDialerTimeout(addr, constants.ExternalAPITimeout)
		logger.Info().Str("proxy", addr).Msg("forwarding riot requests through rate limiter proxy")
	}

	c := &Client{
		apiKey:   cfg.Riot.APIKey,
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   httpClient,
		limiter:  rate.NewLimiter(rate.Limit(cfg.Riot.RequestsPerSecond), cfg.Riot.Burst),
		validate: validator.New(),
		metrics:  m,
		logger:   logger,
	}
	if cfg.Riot.Breaker {
		c.breaker = c.newBreaker()
	}
	return c
}

func (c *Client) newBreaker() *gobreaker.CircuitBreaker[[]byte] {
	c.metrics.SetBreakerState(breakerName, 0)

	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// only transport and 5xx failures say anything about upstream health
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, ErrRemote)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn().Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			c.metrics.SetBreakerState(name, breakerValue(to))
		},
	})
}

func breakerValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

func (c *Client) GetRateLimitInfo() RateLimitInfo {
	c.rateLimitMu.RLock()
	defer c.rateLimitMu.RUnlock()
	return c.rateLimit
}

func (c *Client) updateRateLimit(resp *fasthttp.Response) {
	c.rateLimitMu.Lock()
	defer c.rateLimitMu.Unlock()

	if v := string(resp.Header.Peek("X-App-Rate-Limit")); v != "" {
		c.rateLimit.AppLimit = v
	}
	if v := string(resp.Header.Peek("X-App-Rate-Limit-Count")); v != "" {
		c.rateLimit.AppCount = v
	}
	if v := string(resp.Header.Peek("X-Method-Rate-Limit")); v != "" {
		c.rateLimit.MethodLimit = v
	}
	if v := string(resp.Header.Peek("X-Method-Rate-Limit-Count")); v != "" {
		c.rateLimit.MethodCount = v
	}
	if wait, ok := retryAfter(resp); ok {
		c.rateLimit.RetryAfter = wait
	}
	c.rateLimit.UpdatedAt = time.Now()
}

func retryAfter(resp *fasthttp.Response) (time.Duration, bool) {
	raw := string(resp.Header.Peek(fasthttp.HeaderRetryAfter))
	if raw == "" {
		return 0, false
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds < 0 {
		return constants.RiotRetryAfterDefault, true
	}
	return time.Duration(seconds) * time.Second, true
}

func (c *Client) regionURL(platform domain.Platform, endpoint, path string) (string, error) {
	region := platform.Region()
	if region == "" {
		return "", newError(KindMalformed, endpoint, 0, nil, fmt.Errorf("%w: platform %q", domain.ErrInvalidEnum, platform))
	}
	return strings.ReplaceAll(c.baseURL, "{routing}", string(region)) + path, nil
}

func (c *Client) platformURL(platform domain.Platform, endpoint, path string) (string, error) {
	if platform.Region() == "" {
		return "", newError(KindMalformed, endpoint, 0, nil, fmt.Errorf("%w: platform %q", domain.ErrInvalidEnum, platform))
	}
	return strings.ReplaceAll(c.baseURL, "{routing}", string(platform)) + path, nil
}

func (c *Client) FetchAccount(ctx context.Context, platform domain.Platform, gameName, tagLine string) (*domain.AccountInfo, error) {
	u, err := c.regionURL(platform, endpointAccountByRiotID,
		fmt.Sprintf("/riot/account/v1/accounts/by-riot-id/%s/%s", url.PathEscape(gameName), url.PathEscape(tagLine)))
	if err != nil {
		return nil, err
	}
	dto, err := doRequest[accountDTO](ctx, c, endpointAccountByRiotID, u)
	if err != nil {
		return nil, err
	}
	return dto.toDomain(), nil
}

func (c *Client) FetchAccountByPUUID(ctx context.Context, platform domain.Platform, puuid string) (*domain.AccountInfo, error) {
	u, err := c.regionURL(platform, endpointAccountByPUUID, "/riot/account/v1/accounts/by-puuid/"+url.PathEscape(puuid))
	if err != nil {
		return nil, err
	}
	dto, err := doRequest[accountDTO](ctx, c, endpointAccountByPUUID, u)
	if err != nil {
		return nil, err
	}
	return dto.toDomain(), nil
}

func (c *Client) FetchProfile(ctx context.Context, platform domain.Platform, puuid string) (*domain.ProfileInfo, error) {
	u, err := c.platformURL(platform, endpointSummoner, "/lol/summoner/v4/summoners/by-puuid/"+url.PathEscape(puuid))
	if err != nil {
		return nil, err
	}
	dto, err := doRequest[summonerDTO](ctx, c, endpointSummoner, u)
	if err != nil {
		return nil, err
	}
	return dto.toDomain(), nil
}

func (c *Client) FetchLeagueEntries(ctx context.Context, platform domain.Platform, puuid string) ([]domain.LeagueEntryInfo, error) {
	u, err := c.platformURL(platform, endpointLeagueEntries, "/lol/league/v4/entries/by-puuid/"+url.PathEscape(puuid))
	if err != nil {
		return nil, err
	}
	dto, err := doRequest[leagueEntriesDTO](ctx, c, endpointLeagueEntries, u)
	if err != nil {
		return nil, err
	}
	entries, err := dto.toDomain()
	if err != nil {
		return nil, newError(KindMalformed, endpointLeagueEntries, fasthttp.StatusOK, nil, err)
	}
	return entries, nil
}

// FetchRecentMatchIDs lists match ids newest first.
func (c *Client) FetchRecentMatchIDs(ctx context.Context, platform domain.Platform, puuid string, count int) ([]string, error) {
	u, err := c.regionURL(platform, endpointMatchIDs,
		fmt.Sprintf("/lol/match/v5/matches/by-puuid/%s/ids?start=0&count=%d", url.PathEscape(puuid), count))
	if err != nil {
		return nil, err
	}
	dto, err := doRequest[matchIDsDTO](ctx, c, endpointMatchIDs, u)
	if err != nil {
		return nil, err
	}
	return []string(*dto), nil
}

func (c *Client) FetchMatch(ctx context.Context, platform domain.Platform, matchID string) (*domain.Match, error) {
	u, err := c.regionURL(platform, endpointMatch, "/lol/match/v5/matches/"+url.PathEscape(matchID))
	if err != nil {
		return nil, err
	}
	dto, err := doRequest[matchDTO](ctx, c, endpointMatch, u)
	if err != nil {
		return nil, err
	}
	match, err := dto.toDomain(c.validate)
	if err != nil {
		return nil, newError(KindMalformed, endpointMatch, fasthttp.StatusOK, nil, err)
	}
	return match, nil
}

func (c *Client) FetchTimeline(ctx context.Context, platform domain.Platform, matchID string) (*domain.Timeline, error) {
	u, err := c.regionURL(platform, endpointTimeline, "/lol/match/v5/matches/"+url.PathEscape(matchID)+"/timeline")
	if err != nil {
		return nil, err
	}
	dto, err := doRequest[timelineDTO](ctx, c, endpointTimeline, u)
	if err != nil {
		return nil, err
	}
	return dto.toDomain(), nil
}

func doRequest[T any](ctx context.Context, client *Client, endpoint, url string) (result *T, err error) {
	start := time.Now()
	defer func() {
		outcome := "ok"
		if err != nil {
			kind, _ := KindOf(err)
			outcome = kind.String()
		}
		client.metrics.ObserveUpstream(endpoint, outcome, time.Since(start))
	}()

	body, err := client.execute(ctx, endpoint, url)
	if err != nil {
		return nil, err
	}

	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, newError(KindMalformed, endpoint, fasthttp.StatusOK, body, err)
	}
	if err := client.check(&out); err != nil {
		return nil, newError(KindMalformed, endpoint, fasthttp.StatusOK, body, err)
	}
	return &out, nil
}

type selfValidating interface {
	validateWith(v *validator.Validate) error
}

func (c *Client) check(v any) error {
	if sv, ok := v.(selfValidating); ok {
		return sv.validateWith(c.validate)
	}
	return c.validate.Struct(v)
}

func (c *Client) execute(ctx context.Context, endpoint, url string) ([]byte, error) {
	if c.breaker == nil {
		return c.exchange(ctx, endpoint, url)
	}

	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.exchange(ctx, endpoint, url)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, newError(KindRemote, endpoint, 0, nil, err)
	}
	return body, err
}

// exchange performs the request, waiting once on Retry-After when the
// upstream answers 429.
func (c *Client) exchange(ctx context.Context, endpoint, url string) ([]byte, error) {
	for attempt := 0; ; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, newError(KindRemote, endpoint, 0, nil, err)
		}

		status, body, wait, err := c.do(ctx, url)
		if err != nil {
			return nil, newError(KindRemote, endpoint, 0, nil, err)
		}

		switch {
		case status == fasthttp.StatusOK:
			return body, nil
		case status == fasthttp.StatusNotFound:
			return nil, newError(KindNotFound, endpoint, status, body, nil)
		case status == fasthttp.StatusTooManyRequests && attempt == 0:
			if wait < 0 {
				wait = constants.RiotRetryAfterDefault
			}
			wait = min(wait, constants.RiotRetryAfterMax)
			c.logger.Warn().Str("endpoint", endpoint).Dur("retry_after", wait).Msg("rate limited, retrying once")
			if err := sleep(ctx, wait); err != nil {
				return nil, newError(KindRateLimited, endpoint, status, body, err)
			}
		case status == fasthttp.StatusTooManyRequests:
			return nil, newError(KindRateLimited, endpoint, status, body, nil)
		default:
			return nil, newError(KindRemote, endpoint, status, body, nil)
		}
	}
}

func (c *Client) do(ctx context.Context, url string) (int, []byte, time.Duration, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(tokenHeader, c.apiKey)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(constants.ExternalAPITimeout)
	}
	if err := c.client.DoDeadline(req, resp, deadline); err != nil {
		return 0, nil, 0, err
	}

	c.updateRateLimit(resp)

	wait, ok := retryAfter(resp)
	if !ok {
		wait = -1
	}

	// the response buffer is recycled on release
	body := append([]byte(nil), resp.Body()...)
	return resp.StatusCode(), body, wait, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func excerpt(body []byte) string {
	if len(body) > constants.RiotErrorBodyLimit {
		return string(body[:constants.RiotErrorBodyLimit])
	}
	return string(body)
}
