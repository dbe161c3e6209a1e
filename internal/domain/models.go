package domain

import (
	"time"

	"github.com/goccy/go-json"
)

type Account struct {
	ID                 string // nanoid
	PUUID              string
	GameName           string
	TagLine            string
	Platform           Platform
	SummonerID         string
	ProfileIconID      int
	SummonerLevel      int
	InitialRankFetched bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (a Account) RiotID() string {
	return a.GameName + "#" + a.TagLine
}

// AccountInfo is the account-v1 view of a player.
type AccountInfo struct {
	PUUID    string
	GameName string
	TagLine  string
}

// ProfileInfo is the summoner-v4 view of a player.
type ProfileInfo struct {
	PUUID         string
	SummonerID    string
	ProfileIconID int
	SummonerLevel int
}

type MiniSeries struct {
	Losses   int    `json:"losses"`
	Progress string `json:"progress"`
	Target   int    `json:"target"`
	Wins     int    `json:"wins"`
}

// LeagueEntryInfo is one ranked queue standing as reported upstream.
type LeagueEntryInfo struct {
	QueueType    QueueType
	LeagueID     string
	Tier         Tier
	Rank         Division
	LeaguePoints int
	Wins         int
	Losses       int
	HotStreak    bool
	Veteran      bool
	FreshBlood   bool
	Inactive     bool
	MiniSeries   *MiniSeries
}

type LeagueEntry struct {
	ID        string // nanoid
	AccountID string
	LeagueEntryInfo
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e LeagueEntry) LadderScore() int {
	return LadderScore(e.Tier, e.Rank, e.LeaguePoints)
}

// Snapshot freezes the entry's current standing.
func (e LeagueEntry) Snapshot() RankSnapshot {
	return RankSnapshot{Tier: e.Tier, Rank: e.Rank, LeaguePoints: e.LeaguePoints}
}

type RankSnapshot struct {
	Tier         Tier     `json:"tier"`
	Rank         Division `json:"rank"`
	LeaguePoints int      `json:"leaguePoints"`
}

type Match struct {
	MatchID            string
	DataVersion        string
	GameID             int64
	GameCreation       int64
	GameDuration       int64
	GameStartTimestamp int64
	GameEndTimestamp   int64
	GameMode           string
	GameName           string
	GameType           string
	GameVersion        string
	MapID              int
	PlatformID         string
	QueueID            int
	EndOfGameResult    string
	TournamentCode     string
	Teams              json.RawMessage
	Participants       []Participant
	RefAccounts        []string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// BotPUUID is the placeholder puuid upstream gives every bot in a match.
const BotPUUID = "BOT"

// Participant returns the participant entry for puuid, or nil. Bots share
// one puuid and never resolve to a participant.
func (m *Match) Participant(puuid string) *Participant {
	if puuid == BotPUUID {
		return nil
	}
	for i := range m.Participants {
		if m.Participants[i].PUUID == puuid {
			return &m.Participants[i]
		}
	}
	return nil
}

func (m *Match) HasRef(accountID string) bool {
	for _, ref := range m.RefAccounts {
		if ref == accountID {
			return true
		}
	}
	return false
}

type Participant struct {
	ParticipantID  int
	PUUID          string
	RiotIDGameName string
	RiotIDTagline  string
	ChampionID     int
	ChampionName   string
	TeamID         int
	TeamPosition   string
	Win            bool
	Kills          int
	Deaths         int
	Assists        int
	TotalMinions   int
	GoldEarned     int
	DamageDealt    int
	VisionScore    int
	ChampLevel     int
	// Stats keeps the full upstream participant object.
	Stats  json.RawMessage
	League *RankSnapshot
}

type Timeline struct {
	ID            string // nanoid
	MatchID       string
	DataVersion   string
	FrameInterval int64
	Participants  json.RawMessage
	Frames        json.RawMessage
	CreatedAt     time.Time
}

// LeaderboardRow is one ladder position as read by the HTTP API.
type LeaderboardRow struct {
	Account Account
	Entry   LeagueEntry
}
