package repository

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"realm-warp/internal/database"
	"realm-warp/internal/db"
	"realm-warp/internal/domain"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	. "github.com/smartystreets/goconvey/convey"
)

type fixture struct {
	sqlDB     *sql.DB
	accounts  *AccountRepository
	leagues   *LeagueRepository
	matches   *MatchRepository
	timelines *TimelineRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	sqlDB, err := database.Open(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { sqlDB.Close() })

	queries := db.New(sqlDB)
	timelines := NewTimelineRepository(queries, zerolog.Nop())
	return &fixture{
		sqlDB:     sqlDB,
		accounts:  NewAccountRepository(queries, zerolog.Nop()),
		leagues:   NewLeagueRepository(queries, zerolog.Nop()),
		matches:   NewMatchRepository(sqlDB, queries, timelines, zerolog.Nop()),
		timelines: timelines,
	}
}

func (f *fixture) account(ctx context.Context, name, puuid string) domain.Account {
	a := domain.Account{
		PUUID:    puuid,
		GameName: name,
		TagLine:  "EUW",
		Platform: domain.PlatformEUW1,
	}
	So(f.accounts.Create(ctx, &a), ShouldBeNil)
	return a
}

func sampleMatch(id string, queueID int, puuids ...string) *domain.Match {
	m := &domain.Match{
		MatchID:          id,
		DataVersion:      "2",
		GameEndTimestamp: 1_700_000_000_000,
		GameMode:         "CLASSIC",
		QueueID:          queueID,
		PlatformID:       "EUW1",
		Teams:            json.RawMessage(`[{"teamId":100,"win":true}]`),
	}
	for i, p := range puuids {
		m.Participants = append(m.Participants, domain.Participant{
			ParticipantID: i + 1,
			PUUID:         p,
			ChampionName:  "Ahri",
			Kills:         i,
			Stats:         json.RawMessage(`{"kills":1}`),
		})
	}
	return m
}

func TestAccountRepository(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	Convey("Given a stored account", t, func() {
		a := f.account(ctx, "Faker", "puuid-acc-"+t.Name())
		Reset(func() { f.accounts.Delete(ctx, a.ID) })

		So(a.ID, ShouldNotBeEmpty)

		Convey("It is found by riot id regardless of case", func() {
			got, err := f.accounts.GetByRiotID(ctx, "faker", "euw", domain.PlatformEUW1)
			So(err, ShouldBeNil)
			So(got.ID, ShouldEqual, a.ID)
			So(got.Platform, ShouldEqual, domain.PlatformEUW1)
		})

		Convey("A second account with the same riot id is rejected", func() {
			dup := domain.Account{PUUID: "other", GameName: "FAKER", TagLine: "euw", Platform: domain.PlatformEUW1}
			err := f.accounts.Create(ctx, &dup)
			So(errors.Is(err, ErrDuplicate), ShouldBeTrue)
		})

		Convey("Update persists profile fields", func() {
			a.SummonerLevel = 300
			a.ProfileIconID = 7
			So(f.accounts.Update(ctx, &a), ShouldBeNil)

			got, err := f.accounts.Get(ctx, a.ID)
			So(err, ShouldBeNil)
			So(got.SummonerLevel, ShouldEqual, 300)
			So(got.ProfileIconID, ShouldEqual, 7)
		})

		Convey("The initial rank flag can be set", func() {
			So(f.accounts.SetInitialRankFetched(ctx, a.ID, true), ShouldBeNil)
			got, err := f.accounts.GetByPUUID(ctx, a.PUUID)
			So(err, ShouldBeNil)
			So(got.InitialRankFetched, ShouldBeTrue)
		})

		Convey("Missing rows surface as ErrNotFound", func() {
			_, err := f.accounts.Get(ctx, "missing")
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)

			ghost := domain.Account{ID: "missing"}
			So(errors.Is(f.accounts.Update(ctx, &ghost), ErrNotFound), ShouldBeTrue)
		})
	})
}

func TestLeagueRepository(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	Convey("Given an account with a solo queue entry", t, func() {
		a := f.account(ctx, "Caps", "puuid-caps")
		Reset(func() { f.accounts.Delete(ctx, a.ID) })

		entry := domain.LeagueEntry{
			AccountID: a.ID,
			LeagueEntryInfo: domain.LeagueEntryInfo{
				QueueType:    domain.QueueRankedSolo,
				Tier:         domain.TierGold,
				Rank:         domain.DivisionII,
				LeaguePoints: 40,
				MiniSeries:   &domain.MiniSeries{Progress: "WLN", Target: 3, Wins: 1, Losses: 1},
			},
		}
		So(f.leagues.Upsert(ctx, &entry), ShouldBeNil)

		Convey("Upserting the same queue overwrites in place", func() {
			again := domain.LeagueEntry{AccountID: a.ID, LeagueEntryInfo: entry.LeagueEntryInfo}
			again.LeaguePoints = 75
			again.MiniSeries = nil
			So(f.leagues.Upsert(ctx, &again), ShouldBeNil)

			entries, err := f.leagues.ListByAccount(ctx, a.ID)
			So(err, ShouldBeNil)
			So(entries, ShouldHaveLength, 1)
			So(entries[0].ID, ShouldEqual, entry.ID)
			So(entries[0].LeaguePoints, ShouldEqual, 75)
			So(entries[0].MiniSeries, ShouldBeNil)
		})

		Convey("Find returns the mini series", func() {
			got, err := f.leagues.Find(ctx, a.ID, domain.QueueRankedSolo)
			So(err, ShouldBeNil)
			So(got.MiniSeries, ShouldNotBeNil)
			So(got.MiniSeries.Progress, ShouldEqual, "WLN")

			_, err = f.leagues.Find(ctx, a.ID, domain.QueueRankedFlex)
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})

		Convey("The leaderboard is ordered by tier, division and points", func() {
			b := f.account(ctx, "Rekkles", "puuid-rekkles")
			c := f.account(ctx, "Jankos", "puuid-jankos")
			Reset(func() {
				f.accounts.Delete(ctx, b.ID)
				f.accounts.Delete(ctx, c.ID)
			})
			So(f.leagues.Upsert(ctx, &domain.LeagueEntry{AccountID: b.ID, LeagueEntryInfo: domain.LeagueEntryInfo{
				QueueType: domain.QueueRankedSolo, Tier: domain.TierGold, Rank: domain.DivisionI, LeaguePoints: 10,
			}}), ShouldBeNil)
			So(f.leagues.Upsert(ctx, &domain.LeagueEntry{AccountID: c.ID, LeagueEntryInfo: domain.LeagueEntryInfo{
				QueueType: domain.QueueRankedSolo, Tier: domain.TierDiamond, Rank: domain.DivisionIV, LeaguePoints: 0,
			}}), ShouldBeNil)

			rows, err := f.leagues.Leaderboard(ctx, domain.QueueRankedSolo, 10)
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 3)
			So(rows[0].Account.ID, ShouldEqual, c.ID)
			So(rows[1].Account.ID, ShouldEqual, b.ID)
			So(rows[2].Account.ID, ShouldEqual, a.ID)
		})

		Convey("Apex tiers rank on points and the limit keeps the top", func() {
			b := f.account(ctx, "Faker", "puuid-faker")
			c := f.account(ctx, "Chovy", "puuid-chovy")
			d := f.account(ctx, "Zeus", "puuid-zeus")
			Reset(func() {
				f.accounts.Delete(ctx, b.ID)
				f.accounts.Delete(ctx, c.ID)
				f.accounts.Delete(ctx, d.ID)
			})
			So(f.leagues.Upsert(ctx, &domain.LeagueEntry{AccountID: b.ID, LeagueEntryInfo: domain.LeagueEntryInfo{
				QueueType: domain.QueueRankedSolo, Tier: domain.TierChallenger, Rank: domain.DivisionI, LeaguePoints: 900,
			}}), ShouldBeNil)
			So(f.leagues.Upsert(ctx, &domain.LeagueEntry{AccountID: c.ID, LeagueEntryInfo: domain.LeagueEntryInfo{
				QueueType: domain.QueueRankedSolo, Tier: domain.TierMaster, Rank: domain.DivisionI, LeaguePoints: 1200,
			}}), ShouldBeNil)
			So(f.leagues.Upsert(ctx, &domain.LeagueEntry{AccountID: d.ID, LeagueEntryInfo: domain.LeagueEntryInfo{
				QueueType: domain.QueueRankedSolo, Tier: domain.TierGrandmaster, Rank: domain.DivisionI, LeaguePoints: 900,
			}}), ShouldBeNil)

			rows, err := f.leagues.Leaderboard(ctx, domain.QueueRankedSolo, 2)
			So(err, ShouldBeNil)
			So(rows, ShouldHaveLength, 2)
			So(rows[0].Account.ID, ShouldEqual, c.ID)
			// equal scores fall back to Riot ID order
			So(rows[1].Account.ID, ShouldEqual, b.ID)
			So(rows[1].Entry.LadderScore(), ShouldEqual, domain.LadderScore(domain.TierGrandmaster, domain.DivisionI, 900))
		})

		Convey("Deleting the account removes its entries", func() {
			So(f.accounts.Delete(ctx, a.ID), ShouldBeNil)
			entries, err := f.leagues.ListByAccount(ctx, a.ID)
			So(err, ShouldBeNil)
			So(entries, ShouldBeEmpty)
		})
	})
}

func TestMatchRepository(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	Convey("Given two tracked accounts", t, func() {
		a := f.account(ctx, "Alpha", "puuid-a")
		b := f.account(ctx, "Bravo", "puuid-b")
		Reset(func() {
			f.sqlDB.Exec("DELETE FROM matches")
			f.accounts.Delete(ctx, a.ID)
			f.accounts.Delete(ctx, b.ID)
		})

		Convey("With no matches the latest match is nil", func() {
			latest, err := f.matches.FindLatestForAccount(ctx, a.ID)
			So(err, ShouldBeNil)
			So(latest, ShouldBeNil)
		})

		Convey("Inserting a match stores participants, links and timeline", func() {
			m := sampleMatch("EUW1_1", 420, "puuid-a", "puuid-b", "puuid-x")
			m.RefAccounts = []string{a.ID}
			m.Participants[0].League = &domain.RankSnapshot{Tier: domain.TierGold, Rank: domain.DivisionII, LeaguePoints: 40}
			tl := &domain.Timeline{FrameInterval: 60000, Frames: json.RawMessage(`[{"timestamp":0}]`)}

			So(f.matches.Insert(ctx, m, tl), ShouldBeNil)

			got, err := f.matches.FindByID(ctx, "EUW1_1")
			So(err, ShouldBeNil)
			So(got.Participants, ShouldHaveLength, 3)
			So(got.RefAccounts, ShouldResemble, []string{a.ID})
			So(got.Participant("puuid-a").League, ShouldResemble, m.Participants[0].League)
			So(got.Participant("puuid-b").League, ShouldBeNil)

			stored, err := f.timelines.FindByMatchID(ctx, "EUW1_1")
			So(err, ShouldBeNil)
			So(stored.FrameInterval, ShouldEqual, 60000)

			latest, err := f.matches.FindLatestForAccount(ctx, a.ID)
			So(err, ShouldBeNil)
			So(latest.MatchID, ShouldEqual, "EUW1_1")

			Convey("A second insert of the same id is a duplicate", func() {
				err := f.matches.Insert(ctx, sampleMatch("EUW1_1", 420, "puuid-b"), nil)
				So(errors.Is(err, ErrDuplicateMatch), ShouldBeTrue)

				again, err := f.matches.FindByID(ctx, "EUW1_1")
				So(err, ShouldBeNil)
				So(again.Participants, ShouldHaveLength, 3)
			})

			Convey("Linking a second account snapshots only its participant", func() {
				snap := &domain.RankSnapshot{Tier: domain.TierPlatinum, Rank: domain.DivisionIV, LeaguePoints: 12}
				added, err := f.matches.LinkAccount(ctx, MatchLink{MatchID: "EUW1_1", AccountID: b.ID, PUUID: "puuid-b", League: snap})
				So(err, ShouldBeNil)
				So(added, ShouldBeTrue)

				got, err := f.matches.FindByID(ctx, "EUW1_1")
				So(err, ShouldBeNil)
				So(got.RefAccounts, ShouldHaveLength, 2)
				So(got.HasRef(b.ID), ShouldBeTrue)
				So(got.Participant("puuid-b").League, ShouldResemble, snap)
				So(got.Participant("puuid-a").League.Tier, ShouldEqual, domain.TierGold)

				Convey("Linking again is a no-op", func() {
					other := &domain.RankSnapshot{Tier: domain.TierIron, Rank: domain.DivisionIV, LeaguePoints: 0}
					added, err := f.matches.LinkAccount(ctx, MatchLink{MatchID: "EUW1_1", AccountID: b.ID, PUUID: "puuid-b", League: other})
					So(err, ShouldBeNil)
					So(added, ShouldBeFalse)

					got, err := f.matches.FindByID(ctx, "EUW1_1")
					So(err, ShouldBeNil)
					So(got.RefAccounts, ShouldHaveLength, 2)
					So(got.Participant("puuid-b").League, ShouldResemble, snap)
				})
			})

			Convey("A timeline is never stored twice", func() {
				added, err := f.timelines.Insert(ctx, &domain.Timeline{MatchID: "EUW1_1", FrameInterval: 1})
				So(err, ShouldBeNil)
				So(added, ShouldBeFalse)

				stored, err := f.timelines.FindByMatchID(ctx, "EUW1_1")
				So(err, ShouldBeNil)
				So(stored.FrameInterval, ShouldEqual, 60000)
			})

			Convey("Deleting an account keeps the match", func() {
				So(f.accounts.Delete(ctx, a.ID), ShouldBeNil)
				got, err := f.matches.FindByID(ctx, "EUW1_1")
				So(err, ShouldBeNil)
				So(got.RefAccounts, ShouldBeEmpty)
			})
		})

		Convey("A co-op vs AI match with several bots is stored whole", func() {
			m := sampleMatch("EUW1_BOTS", 870, "puuid-a", domain.BotPUUID, domain.BotPUUID, domain.BotPUUID, "puuid-b")
			m.RefAccounts = []string{a.ID}
			So(f.matches.Insert(ctx, m, nil), ShouldBeNil)

			got, err := f.matches.FindByID(ctx, "EUW1_BOTS")
			So(err, ShouldBeNil)
			So(got.Participants, ShouldHaveLength, 5)
			So(got.Participants[1].PUUID, ShouldEqual, domain.BotPUUID)
			So(got.Participants[3].ParticipantID, ShouldEqual, 4)
			So(got.Participant(domain.BotPUUID), ShouldBeNil)

			Convey("and linking a human snapshots only that human", func() {
				snap := &domain.RankSnapshot{Tier: domain.TierSilver, Rank: domain.DivisionI, LeaguePoints: 3}
				added, err := f.matches.LinkAccount(ctx, MatchLink{MatchID: "EUW1_BOTS", AccountID: b.ID, PUUID: "puuid-b", League: snap})
				So(err, ShouldBeNil)
				So(added, ShouldBeTrue)

				got, err := f.matches.FindByID(ctx, "EUW1_BOTS")
				So(err, ShouldBeNil)
				So(got.Participant("puuid-b").League, ShouldResemble, snap)
				for _, p := range got.Participants {
					if p.PUUID == domain.BotPUUID {
						So(p.League, ShouldBeNil)
					}
				}
			})
		})

		Convey("Participants sharing a participant id are rejected", func() {
			m := sampleMatch("EUW1_DUP", 420, "puuid-a", "puuid-b")
			m.Participants[1].ParticipantID = 1
			m.RefAccounts = []string{a.ID}

			err := f.matches.Insert(ctx, m, nil)
			So(errors.Is(err, ErrDuplicate), ShouldBeTrue)
			_, err = f.matches.FindByID(ctx, "EUW1_DUP")
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
		})

		Convey("History lists linked matches newest first", func() {
			older := sampleMatch("EUW1_10", 450, "puuid-a")
			older.GameEndTimestamp = 100
			older.RefAccounts = []string{a.ID}
			newer := sampleMatch("EUW1_11", 450, "puuid-a")
			newer.GameEndTimestamp = 200
			newer.RefAccounts = []string{a.ID}
			So(f.matches.Insert(ctx, older, nil), ShouldBeNil)
			So(f.matches.Insert(ctx, newer, nil), ShouldBeNil)

			history, err := f.matches.ListForAccount(ctx, a.ID, 10)
			So(err, ShouldBeNil)
			So(history, ShouldHaveLength, 2)
			So(history[0].MatchID, ShouldEqual, "EUW1_11")

			latest, err := f.matches.FindLatestForAccount(ctx, a.ID)
			So(err, ShouldBeNil)
			So(latest.MatchID, ShouldEqual, "EUW1_11")
		})
	})
}
