package api

import (
	"context"
	"errors"
	"net"
	"realm-warp/internal/config"
	"realm-warp/internal/domain"
	"realm-warp/internal/metrics"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"
)

const matchBody = `{
  "metadata": {"dataVersion": "2", "matchId": "EUW1_7000"},
  "info": {
    "gameCreation": 1700000000000, "gameDuration": 1800, "gameEndTimestamp": 1700001800000,
    "gameId": 7000, "gameMode": "CLASSIC", "gameType": "MATCHED_GAME", "gameVersion": "14.1.1",
    "mapId": 11, "platformId": "EUW1", "queueId": 420, "endOfGameResult": "GameComplete",
    "teams": [{"teamId": 100, "win": true}],
    "participants": [
      {"participantId": 1, "puuid": "p1", "championName": "Ahri", "kills": 7, "deaths": 2, "assists": 9,
       "totalMinionsKilled": 180, "neutralMinionsKilled": 12, "goldEarned": 12000,
       "totalDamageDealtToChampions": 25000, "visionScore": 30, "champLevel": 17, "win": true,
       "pentaKills": 1},
      {"participantId": 2, "puuid": "p2", "championName": "Zed", "win": false}
    ]
  }
}`

type stubServer struct {
	calls   atomic.Int32
	handler fasthttp.RequestHandler
}

func newTestClient(t *testing.T, handler fasthttp.RequestHandler, mutate func(*config.Config)) (*Client, *stubServer) {
	t.Helper()

	stub := &stubServer{handler: handler}
	ln := fasthttputil.NewInmemoryListener()
	go fasthttp.Serve(ln, func(ctx *fasthttp.RequestCtx) {
		stub.calls.Add(1)
		stub.handler(ctx)
	})
	t.Cleanup(func() { ln.Close() })

	cfg := config.Default()
	cfg.Riot.APIKey = "RGAPI-test"
	cfg.Riot.BaseURL = "http://riot.test/{routing}"
	cfg.Riot.RequestsPerSecond = 1000
	cfg.Riot.Burst = 1000
	if mutate != nil {
		mutate(&cfg)
	}

	client := NewClient(&cfg, metrics.New(), zerolog.Nop())
	client.client.Dial = func(addr string) (net.Conn, error) {
		return ln.Dial()
	}
	return client, stub
}

func respond(ctx *fasthttp.RequestCtx, status int, body string) {
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBodyString(body)
}

func TestClientEndpoints(t *testing.T) {
	Convey("Given a stub Riot API", t, func() {
		var token, path, query string
		client, _ := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
			token = string(ctx.Request.Header.Peek(tokenHeader))
			path = string(ctx.Path())
			query = string(ctx.QueryArgs().QueryString())

			switch {
			case strings.HasPrefix(path, "/europe/riot/account/v1/accounts/"):
				respond(ctx, 200, `{"puuid":"p1","gameName":"Faker","tagLine":"KR1"}`)
			case strings.HasPrefix(path, "/euw1/lol/summoner/v4/"):
				respond(ctx, 200, `{"puuid":"p1","profileIconId":29,"summonerLevel":512}`)
			case strings.HasPrefix(path, "/euw1/lol/league/v4/"):
				respond(ctx, 200, `[{"leagueId":"L1","queueType":"RANKED_SOLO_5x5","tier":"GOLD","rank":"II","leaguePoints":40,"wins":10,"losses":8,"hotStreak":true}]`)
			case strings.HasSuffix(path, "/ids"):
				respond(ctx, 200, `["EUW1_7000"]`)
			case strings.HasSuffix(path, "/timeline"):
				respond(ctx, 200, `{"metadata":{"matchId":"EUW1_7000"},"info":{"frameInterval":60000,"frames":[{"timestamp":0}],"participants":[{"participantId":1,"puuid":"p1"}]}}`)
			case strings.HasPrefix(path, "/europe/lol/match/v5/matches/"):
				respond(ctx, 200, matchBody)
			default:
				respond(ctx, 404, `{"status":{"status_code":404}}`)
			}
		}, nil)
		ctx := context.Background()

		Convey("Account lookups use the routing region and the api key", func() {
			info, err := client.FetchAccount(ctx, domain.PlatformEUW1, "Faker", "KR1")
			So(err, ShouldBeNil)
			So(info.PUUID, ShouldEqual, "p1")
			So(token, ShouldEqual, "RGAPI-test")
			So(path, ShouldEqual, "/europe/riot/account/v1/accounts/by-riot-id/Faker/KR1")

			info, err = client.FetchAccountByPUUID(ctx, domain.PlatformEUW1, "p1")
			So(err, ShouldBeNil)
			So(info.GameName, ShouldEqual, "Faker")
			So(path, ShouldEqual, "/europe/riot/account/v1/accounts/by-puuid/p1")
		})

		Convey("Profile and league lookups use the platform host", func() {
			profile, err := client.FetchProfile(ctx, domain.PlatformEUW1, "p1")
			So(err, ShouldBeNil)
			So(profile.SummonerLevel, ShouldEqual, 512)
			So(profile.SummonerID, ShouldBeEmpty)

			entries, err := client.FetchLeagueEntries(ctx, domain.PlatformEUW1, "p1")
			So(err, ShouldBeNil)
			So(entries, ShouldHaveLength, 1)
			So(entries[0].QueueType, ShouldEqual, domain.QueueRankedSolo)
			So(entries[0].Tier, ShouldEqual, domain.TierGold)
			So(entries[0].Rank, ShouldEqual, domain.DivisionII)
			So(entries[0].HotStreak, ShouldBeTrue)
		})

		Convey("Recent match ids ask for a single match", func() {
			ids, err := client.FetchRecentMatchIDs(ctx, domain.PlatformEUW1, "p1", 1)
			So(err, ShouldBeNil)
			So(ids, ShouldResemble, []string{"EUW1_7000"})
			So(query, ShouldEqual, "start=0&count=1")
		})

		Convey("Matches keep the full participant payload", func() {
			match, err := client.FetchMatch(ctx, domain.PlatformEUW1, "EUW1_7000")
			So(err, ShouldBeNil)
			So(match.QueueID, ShouldEqual, 420)
			So(match.Participants, ShouldHaveLength, 2)

			p := match.Participant("p1")
			So(p, ShouldNotBeNil)
			So(p.TotalMinions, ShouldEqual, 192)
			So(p.DamageDealt, ShouldEqual, 25000)
			So(string(p.Stats), ShouldContainSubstring, "pentaKills")
			So(p.League, ShouldBeNil)
		})

		Convey("Timelines keep frames as raw json", func() {
			tl, err := client.FetchTimeline(ctx, domain.PlatformEUW1, "EUW1_7000")
			So(err, ShouldBeNil)
			So(tl.MatchID, ShouldEqual, "EUW1_7000")
			So(tl.FrameInterval, ShouldEqual, 60000)
			So(string(tl.Frames), ShouldContainSubstring, "timestamp")
		})

		Convey("Unknown platforms fail before any request", func() {
			_, err := client.FetchProfile(ctx, domain.Platform("xx9"), "p1")
			So(errors.Is(err, ErrMalformed), ShouldBeTrue)
		})
	})
}

func TestClientFailureKinds(t *testing.T) {
	ctx := context.Background()

	Convey("A 404 is NotFound", t, func() {
		client, _ := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
			respond(ctx, 404, `{"status":{"message":"Data not found"}}`)
		}, nil)

		_, err := client.FetchMatch(ctx, domain.PlatformEUW1, "EUW1_1")
		So(errors.Is(err, ErrNotFound), ShouldBeTrue)

		var apiErr *Error
		So(errors.As(err, &apiErr), ShouldBeTrue)
		So(apiErr.Status, ShouldEqual, 404)
		So(apiErr.Endpoint, ShouldEqual, endpointMatch)
	})

	Convey("A single 429 is retried after Retry-After", t, func() {
		var n atomic.Int32
		client, stub := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
			if n.Add(1) == 1 {
				ctx.Response.Header.Set(fasthttp.HeaderRetryAfter, "0")
				respond(ctx, 429, `{}`)
				return
			}
			respond(ctx, 200, `["EUW1_1"]`)
		}, nil)

		ids, err := client.FetchRecentMatchIDs(ctx, domain.PlatformEUW1, "p1", 1)
		So(err, ShouldBeNil)
		So(ids, ShouldHaveLength, 1)
		So(stub.calls.Load(), ShouldEqual, 2)
	})

	Convey("A repeated 429 is RateLimited", t, func() {
		client, stub := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
			ctx.Response.Header.Set(fasthttp.HeaderRetryAfter, "0")
			ctx.Response.Header.Set("X-App-Rate-Limit", "20:1,100:120")
			respond(ctx, 429, `{}`)
		}, nil)

		_, err := client.FetchRecentMatchIDs(ctx, domain.PlatformEUW1, "p1", 1)
		So(errors.Is(err, ErrRateLimited), ShouldBeTrue)
		So(stub.calls.Load(), ShouldEqual, 2)
		So(client.GetRateLimitInfo().AppLimit, ShouldEqual, "20:1,100:120")
	})

	Convey("A 5xx is a RemoteError carrying the body", t, func() {
		client, _ := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
			respond(ctx, 503, `{"status":{"message":"Service unavailable"}}`)
		}, nil)

		_, err := client.FetchProfile(ctx, domain.PlatformEUW1, "p1")
		So(errors.Is(err, ErrRemote), ShouldBeTrue)

		var apiErr *Error
		So(errors.As(err, &apiErr), ShouldBeTrue)
		So(apiErr.Body, ShouldContainSubstring, "Service unavailable")
	})

	Convey("Undecodable or invalid payloads are Malformed", t, func() {
		body := `{"puuid":"p1","gameName":"Faker","tagLine":"KR1"`
		client, _ := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
			respond(ctx, 200, body)
		}, nil)

		_, err := client.FetchAccountByPUUID(ctx, domain.PlatformEUW1, "p1")
		So(errors.Is(err, ErrMalformed), ShouldBeTrue)

		body = `{"gameName":"Faker","tagLine":"KR1"}`
		_, err = client.FetchAccountByPUUID(ctx, domain.PlatformEUW1, "p1")
		So(errors.Is(err, ErrMalformed), ShouldBeTrue)

		body = `[{"queueType":"RANKED_SOLO_5x5","tier":"WOOD","rank":"I"}]`
		_, err = client.FetchLeagueEntries(ctx, domain.PlatformEUW1, "p1")
		So(errors.Is(err, ErrMalformed), ShouldBeTrue)
		So(errors.Is(err, domain.ErrInvalidEnum), ShouldBeTrue)
	})

	Convey("The breaker opens after consecutive remote failures", t, func() {
		client, stub := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
			respond(ctx, 500, `{}`)
		}, nil)

		for i := 0; i < 5; i++ {
			_, err := client.FetchProfile(ctx, domain.PlatformEUW1, "p1")
			So(errors.Is(err, ErrRemote), ShouldBeTrue)
		}
		_, err := client.FetchProfile(ctx, domain.PlatformEUW1, "p1")
		So(errors.Is(err, ErrRemote), ShouldBeTrue)
		So(stub.calls.Load(), ShouldEqual, 5)
	})

	Convey("NotFound does not trip the breaker", t, func() {
		client, stub := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
			respond(ctx, 404, `{}`)
		}, nil)

		for i := 0; i < 7; i++ {
			_, err := client.FetchProfile(ctx, domain.PlatformEUW1, "p1")
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		}
		So(stub.calls.Load(), ShouldEqual, 7)
	})

	Convey("Without the breaker every call reaches upstream", t, func() {
		client, stub := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
			respond(ctx, 500, `{}`)
		}, func(cfg *config.Config) {
			cfg.Riot.Breaker = false
		})

		for i := 0; i < 7; i++ {
			_, _ = client.FetchProfile(ctx, domain.PlatformEUW1, "p1")
		}
		So(stub.calls.Load(), ShouldEqual, 7)
	})
}

func TestClientMatchParticipants(t *testing.T) {
	ctx := context.Background()

	matchWith := func(participants string) string {
		return `{"metadata":{"matchId":"EUW1_870"},"info":{"queueId":870,"participants":[` + participants + `]}}`
	}

	Convey("Bots sharing the placeholder puuid are all kept", t, func() {
		client, _ := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
			respond(ctx, 200, matchWith(`{"participantId":1,"puuid":"p1"},{"participantId":2,"puuid":"BOT"},{"participantId":3,"puuid":"BOT"}`))
		}, nil)

		match, err := client.FetchMatch(ctx, domain.PlatformEUW1, "EUW1_870")
		So(err, ShouldBeNil)
		So(match.Participants, ShouldHaveLength, 3)
		So(match.Participant("p1"), ShouldNotBeNil)
		So(match.Participant(domain.BotPUUID), ShouldBeNil)
	})

	Convey("A repeated participant id is malformed", t, func() {
		client, _ := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
			respond(ctx, 200, matchWith(`{"participantId":1,"puuid":"p1"},{"participantId":1,"puuid":"p2"}`))
		}, nil)

		_, err := client.FetchMatch(ctx, domain.PlatformEUW1, "EUW1_870")
		So(errors.Is(err, ErrMalformed), ShouldBeTrue)
	})

	Convey("A missing participant id is malformed", t, func() {
		client, _ := newTestClient(t, func(ctx *fasthttp.RequestCtx) {
			respond(ctx, 200, matchWith(`{"puuid":"p1"}`))
		}, nil)

		_, err := client.FetchMatch(ctx, domain.PlatformEUW1, "EUW1_870")
		So(errors.Is(err, ErrMalformed), ShouldBeTrue)
	})
}
