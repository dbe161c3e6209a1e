package domain

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestPlatformRouting(t *testing.T) {
	Convey("Given the platform table", t, func() {
		Convey("Known platforms resolve to their routing region", func() {
			p, err := ParsePlatform("EUW1")
			So(err, ShouldBeNil)
			So(p, ShouldEqual, PlatformEUW1)
			So(p.Region(), ShouldEqual, RegionEurope)
			So(PlatformKR.Region(), ShouldEqual, RegionAsia)
			So(PlatformNA1.Region(), ShouldEqual, RegionAmericas)
			So(PlatformVN2.Region(), ShouldEqual, RegionSEA)
		})

		Convey("Every platform has a region", func() {
			for p := range platformRegions {
				So(p.Region(), ShouldNotBeEmpty)
			}
		})

		Convey("Unknown platforms are rejected", func() {
			_, err := ParsePlatform("moon1")
			So(errors.Is(err, ErrInvalidEnum), ShouldBeTrue)
		})
	})
}

func TestRankedQueueType(t *testing.T) {
	Convey("Only solo and flex queue ids count as ranked", t, func() {
		q, ok := RankedQueueType(420)
		So(ok, ShouldBeTrue)
		So(q, ShouldEqual, QueueRankedSolo)

		q, ok = RankedQueueType(440)
		So(ok, ShouldBeTrue)
		So(q, ShouldEqual, QueueRankedFlex)

		for _, id := range []int{0, 400, 430, 450, 1700} {
			_, ok := RankedQueueType(id)
			So(ok, ShouldBeFalse)
		}
	})
}

func TestLadderEnums(t *testing.T) {
	Convey("Tier and division parsing", t, func() {
		_, err := ParseTier("GOLD")
		So(err, ShouldBeNil)
		_, err = ParseTier("gold")
		So(errors.Is(err, ErrInvalidEnum), ShouldBeTrue)

		_, err = ParseDivision("II")
		So(err, ShouldBeNil)
		_, err = ParseDivision("V")
		So(errors.Is(err, ErrInvalidEnum), ShouldBeTrue)

		_, err = ParseQueueType("CHERRY")
		So(errors.Is(err, ErrInvalidEnum), ShouldBeTrue)
	})

	Convey("Ladder score orders tiers before divisions before points", t, func() {
		So(LadderScore(TierGold, DivisionI, 99), ShouldBeLessThan, LadderScore(TierPlatinum, DivisionIV, 0))
		So(LadderScore(TierGold, DivisionIII, 99), ShouldBeLessThan, LadderScore(TierGold, DivisionII, 0))
		So(LadderScore(TierMaster, DivisionI, 10), ShouldBeLessThan, LadderScore(TierChallenger, DivisionI, 11))
	})
}
