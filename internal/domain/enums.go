package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidEnum = errors.New("invalid enum value")

type Platform string

const (
	PlatformBR1  Platform = "br1"
	PlatformEUN1 Platform = "eun1"
	PlatformEUW1 Platform = "euw1"
	PlatformJP1  Platform = "jp1"
	PlatformKR   Platform = "kr"
	PlatformLA1  Platform = "la1"
	PlatformLA2  Platform = "la2"
	PlatformME1  Platform = "me1"
	PlatformNA1  Platform = "na1"
	PlatformOC1  Platform = "oc1"
	PlatformTR1  Platform = "tr1"
	PlatformRU   Platform = "ru"
	PlatformPH2  Platform = "ph2"
	PlatformSG2  Platform = "sg2"
	PlatformTH2  Platform = "th2"
	PlatformTW2  Platform = "tw2"
	PlatformVN2  Platform = "vn2"
)

type Region string

const (
	RegionAmericas Region = "americas"
	RegionEurope   Region = "europe"
	RegionAsia     Region = "asia"
	RegionSEA      Region = "sea"
)

var platformRegions = map[Platform]Region{
	PlatformBR1:  RegionAmericas,
	PlatformEUN1: RegionEurope,
	PlatformEUW1: RegionEurope,
	PlatformJP1:  RegionAsia,
	PlatformKR:   RegionAsia,
	PlatformLA1:  RegionAmericas,
	PlatformLA2:  RegionAmericas,
	PlatformME1:  RegionEurope,
	PlatformNA1:  RegionAmericas,
	PlatformOC1:  RegionSEA,
	PlatformTR1:  RegionEurope,
	PlatformRU:   RegionEurope,
	PlatformPH2:  RegionSEA,
	PlatformSG2:  RegionSEA,
	PlatformTH2:  RegionSEA,
	PlatformTW2:  RegionSEA,
	PlatformVN2:  RegionSEA,
}

func ParsePlatform(s string) (Platform, error) {
	p := Platform(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := platformRegions[p]; !ok {
		return "", fmt.Errorf("%w: platform %q", ErrInvalidEnum, s)
	}
	return p, nil
}

// Region returns the routing region serving account, match and timeline
// endpoints for the platform. Unknown platforms map to "".
func (p Platform) Region() Region {
	return platformRegions[p]
}

type QueueType string

const (
	QueueRankedSolo        QueueType = "RANKED_SOLO_5x5"
	QueueRankedFlex        QueueType = "RANKED_FLEX_SR"
	QueueRankedFlexTT      QueueType = "RANKED_FLEX_TT"
	QueueRankedTFT         QueueType = "RANKED_TFT"
	QueueRankedTFTDoubleUp QueueType = "RANKED_TFT_DOUBLE_UP"
	QueueRankedTFTTurbo    QueueType = "RANKED_TFT_TURBO"
)

var knownQueueTypes = map[QueueType]struct{}{
	QueueRankedSolo:        {},
	QueueRankedFlex:        {},
	QueueRankedFlexTT:      {},
	QueueRankedTFT:         {},
	QueueRankedTFTDoubleUp: {},
	QueueRankedTFTTurbo:    {},
}

func ParseQueueType(s string) (QueueType, error) {
	q := QueueType(s)
	if _, ok := knownQueueTypes[q]; !ok {
		return "", fmt.Errorf("%w: queue type %q", ErrInvalidEnum, s)
	}
	return q, nil
}

const (
	QueueIDRankedSolo = 420
	QueueIDRankedFlex = 440
)

var rankedQueueIDs = map[int]QueueType{
	QueueIDRankedSolo: QueueRankedSolo,
	QueueIDRankedFlex: QueueRankedFlex,
}

// RankedQueueType maps a match queue id to the ladder it counts towards.
// ok is false for every non-ranked queue.
func RankedQueueType(queueID int) (QueueType, bool) {
	q, ok := rankedQueueIDs[queueID]
	return q, ok
}

type Tier string

const (
	TierIron        Tier = "IRON"
	TierBronze      Tier = "BRONZE"
	TierSilver      Tier = "SILVER"
	TierGold        Tier = "GOLD"
	TierPlatinum    Tier = "PLATINUM"
	TierEmerald     Tier = "EMERALD"
	TierDiamond     Tier = "DIAMOND"
	TierMaster      Tier = "MASTER"
	TierGrandmaster Tier = "GRANDMASTER"
	TierChallenger  Tier = "CHALLENGER"
)

// tierScores follows the ladder order; apex tiers share a score and are
// separated by league points.
var tierScores = map[Tier]int{
	TierIron:        0,
	TierBronze:      400,
	TierSilver:      800,
	TierGold:        1200,
	TierPlatinum:    1600,
	TierEmerald:     2000,
	TierDiamond:     2400,
	TierMaster:      2800,
	TierGrandmaster: 2800,
	TierChallenger:  2800,
}

func ParseTier(s string) (Tier, error) {
	t := Tier(s)
	if _, ok := tierScores[t]; !ok {
		return "", fmt.Errorf("%w: tier %q", ErrInvalidEnum, s)
	}
	return t, nil
}

func (t Tier) Score() int {
	return tierScores[t]
}

type Division string

const (
	DivisionI   Division = "I"
	DivisionII  Division = "II"
	DivisionIII Division = "III"
	DivisionIV  Division = "IV"
)

var divisionScores = map[Division]int{
	DivisionIV:  0,
	DivisionIII: 100,
	DivisionII:  200,
	DivisionI:   300,
}

func ParseDivision(s string) (Division, error) {
	d := Division(s)
	if _, ok := divisionScores[d]; !ok {
		return "", fmt.Errorf("%w: division %q", ErrInvalidEnum, s)
	}
	return d, nil
}

func (d Division) Score() int {
	return divisionScores[d]
}

// LadderScore orders entries across tiers and divisions.
func LadderScore(t Tier, d Division, lp int) int {
	return t.Score() + d.Score() + lp
}
