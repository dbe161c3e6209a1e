package api

import (
	"fmt"
	"realm-warp/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

type accountDTO struct {
	PUUID    string `json:"puuid" validate:"required"`
	GameName string `json:"gameName" validate:"required"`
	TagLine  string `json:"tagLine" validate:"required"`
}

func (d *accountDTO) toDomain() *domain.AccountInfo {
	return &domain.AccountInfo{
		PUUID:    d.PUUID,
		GameName: d.GameName,
		TagLine:  d.TagLine,
	}
}

type summonerDTO struct {
	// id is no longer returned by every platform
	ID            string `json:"id"`
	PUUID         string `json:"puuid" validate:"required"`
	ProfileIconID int    `json:"profileIconId" validate:"min=0"`
	SummonerLevel int    `json:"summonerLevel" validate:"min=0"`
}

func (d *summonerDTO) toDomain() *domain.ProfileInfo {
	return &domain.ProfileInfo{
		PUUID:         d.PUUID,
		SummonerID:    d.ID,
		ProfileIconID: d.ProfileIconID,
		SummonerLevel: d.SummonerLevel,
	}
}

type leagueEntryDTO struct {
	LeagueID     string             `json:"leagueId"`
	QueueType    string             `json:"queueType" validate:"required"`
	Tier         string             `json:"tier" validate:"required"`
	Rank         string             `json:"rank" validate:"required"`
	LeaguePoints int                `json:"leaguePoints" validate:"min=0"`
	Wins         int                `json:"wins" validate:"min=0"`
	Losses       int                `json:"losses" validate:"min=0"`
	HotStreak    bool               `json:"hotStreak"`
	Veteran      bool               `json:"veteran"`
	FreshBlood   bool               `json:"freshBlood"`
	Inactive     bool               `json:"inactive"`
	MiniSeries   *domain.MiniSeries `json:"miniSeries"`
}

type leagueEntriesDTO []leagueEntryDTO

func (d leagueEntriesDTO) validateWith(v *validator.Validate) error {
	for i := range d {
		if err := v.Struct(&d[i]); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}
	return nil
}

func (d leagueEntriesDTO) toDomain() ([]domain.LeagueEntryInfo, error) {
	entries := make([]domain.LeagueEntryInfo, 0, len(d))
	for _, e := range d {
		queueType, err := domain.ParseQueueType(e.QueueType)
		if err != nil {
			return nil, err
		}
		tier, err := domain.ParseTier(e.Tier)
		if err != nil {
			return nil, err
		}
		rank, err := domain.ParseDivision(e.Rank)
		if err != nil {
			return nil, err
		}
		entries = append(entries, domain.LeagueEntryInfo{
			QueueType:    queueType,
			LeagueID:     e.LeagueID,
			Tier:         tier,
			Rank:         rank,
			LeaguePoints: e.LeaguePoints,
			Wins:         e.Wins,
			Losses:       e.Losses,
			HotStreak:    e.HotStreak,
			Veteran:      e.Veteran,
			FreshBlood:   e.FreshBlood,
			Inactive:     e.Inactive,
			MiniSeries:   e.MiniSeries,
		})
	}
	return entries, nil
}

type matchIDsDTO []string

func (d matchIDsDTO) validateWith(v *validator.Validate) error {
	for i, id := range d {
		if id == "" {
			return fmt.Errorf("match id %d is empty", i)
		}
	}
	return nil
}

type matchDTO struct {
	Metadata struct {
		DataVersion string `json:"dataVersion"`
		MatchID     string `json:"matchId" validate:"required"`
	} `json:"metadata"`
	Info struct {
		EndOfGameResult    string            `json:"endOfGameResult"`
		GameCreation       int64             `json:"gameCreation"`
		GameDuration       int64             `json:"gameDuration"`
		GameEndTimestamp   int64             `json:"gameEndTimestamp"`
		GameID             int64             `json:"gameId"`
		GameMode           string            `json:"gameMode"`
		GameName           string            `json:"gameName"`
		GameStartTimestamp int64             `json:"gameStartTimestamp"`
		GameType           string            `json:"gameType"`
		GameVersion        string            `json:"gameVersion"`
		MapID              int               `json:"mapId"`
		Participants       []json.RawMessage `json:"participants" validate:"required,min=1"`
		PlatformID         string            `json:"platformId"`
		QueueID            int               `json:"queueId" validate:"min=0"`
		Teams              json.RawMessage   `json:"teams"`
		TournamentCode     string            `json:"tournamentCode"`
	} `json:"info"`
}

type participantDTO struct {
	ParticipantID               int    `json:"participantId" validate:"min=1"`
	PUUID                       string `json:"puuid" validate:"required"`
	RiotIDGameName              string `json:"riotIdGameName"`
	RiotIDTagline               string `json:"riotIdTagline"`
	ChampionID                  int    `json:"championId"`
	ChampionName                string `json:"championName"`
	TeamID                      int    `json:"teamId"`
	TeamPosition                string `json:"teamPosition"`
	Win                         bool   `json:"win"`
	Kills                       int    `json:"kills"`
	Deaths                      int    `json:"deaths"`
	Assists                     int    `json:"assists"`
	TotalMinionsKilled          int    `json:"totalMinionsKilled"`
	NeutralMinionsKilled        int    `json:"neutralMinionsKilled"`
	GoldEarned                  int    `json:"goldEarned"`
	TotalDamageDealtToChampions int    `json:"totalDamageDealtToChampions"`
	VisionScore                 int    `json:"visionScore"`
	ChampLevel                  int    `json:"champLevel"`
}

// toDomain keeps every participant object verbatim in Stats next to the
// columns the store indexes.
func (d *matchDTO) toDomain(v *validator.Validate) (*domain.Match, error) {
	match := &domain.Match{
		MatchID:            d.Metadata.MatchID,
		DataVersion:        d.Metadata.DataVersion,
		GameID:             d.Info.GameID,
		GameCreation:       d.Info.GameCreation,
		GameDuration:       d.Info.GameDuration,
		GameStartTimestamp: d.Info.GameStartTimestamp,
		GameEndTimestamp:   d.Info.GameEndTimestamp,
		GameMode:           d.Info.GameMode,
		GameName:           d.Info.GameName,
		GameType:           d.Info.GameType,
		GameVersion:        d.Info.GameVersion,
		MapID:              d.Info.MapID,
		PlatformID:         d.Info.PlatformID,
		QueueID:            d.Info.QueueID,
		EndOfGameResult:    d.Info.EndOfGameResult,
		TournamentCode:     d.Info.TournamentCode,
		Teams:              d.Info.Teams,
		Participants:       make([]domain.Participant, 0, len(d.Info.Participants)),
	}

	seen := make(map[int]struct{}, len(d.Info.Participants))
	for i, raw := range d.Info.Participants {
		var p participantDTO
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("participant %d: %w", i, err)
		}
		if err := v.Struct(&p); err != nil {
			return nil, fmt.Errorf("participant %d: %w", i, err)
		}
		// participant ids key the stored rows, puuids repeat for bots
		if _, dup := seen[p.ParticipantID]; dup {
			return nil, fmt.Errorf("participant %d: duplicate participant id %d", i, p.ParticipantID)
		}
		seen[p.ParticipantID] = struct{}{}
		match.Participants = append(match.Participants, domain.Participant{
			ParticipantID:  p.ParticipantID,
			PUUID:          p.PUUID,
			RiotIDGameName: p.RiotIDGameName,
			RiotIDTagline:  p.RiotIDTagline,
			ChampionID:     p.ChampionID,
			ChampionName:   p.ChampionName,
			TeamID:         p.TeamID,
			TeamPosition:   p.TeamPosition,
			Win:            p.Win,
			Kills:          p.Kills,
			Deaths:         p.Deaths,
			Assists:        p.Assists,
			TotalMinions:   p.TotalMinionsKilled + p.NeutralMinionsKilled,
			GoldEarned:     p.GoldEarned,
			DamageDealt:    p.TotalDamageDealtToChampions,
			VisionScore:    p.VisionScore,
			ChampLevel:     p.ChampLevel,
			Stats:          raw,
		})
	}
	return match, nil
}

type timelineDTO struct {
	Metadata struct {
		DataVersion string `json:"dataVersion"`
		MatchID     string `json:"matchId" validate:"required"`
	} `json:"metadata"`
	Info struct {
		FrameInterval int64           `json:"frameInterval" validate:"min=0"`
		Frames        json.RawMessage `json:"frames" validate:"required"`
		Participants  json.RawMessage `json:"participants"`
	} `json:"info"`
}

func (d *timelineDTO) toDomain() *domain.Timeline {
	return &domain.Timeline{
		MatchID:       d.Metadata.MatchID,
		DataVersion:   d.Metadata.DataVersion,
		FrameInterval: d.Info.FrameInterval,
		Participants:  d.Info.Participants,
		Frames:        d.Info.Frames,
	}
}
