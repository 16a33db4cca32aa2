package selection

import (
	"github.com/okian/crease/internal/domain/metric"
	"github.com/okian/crease/internal/domain/role"
	"github.com/okian/crease/internal/domain/scoring"
)

const (
	defaultScore = "composite"
	impactScore  = "impact"
)

// BattingSlots are the stock batting quotas: two openers, an anchor, two
// middle-order batters and a finisher.
func BattingSlots() []Slot {
	return []Slot{
		{Name: "opener", Pool: metric.Batting, Role: role.Opener, Score: defaultScore, Quota: 2},
		{Name: "anchor", Pool: metric.Batting, Role: role.Anchor, Score: defaultScore, Quota: 1},
		{Name: "middle_order", Pool: metric.Batting, Role: role.Middle, Score: defaultScore, Quota: 2},
		{Name: "finisher", Pool: metric.Batting, Role: role.Finisher, Score: defaultScore, Quota: 1},
	}
}

// BowlingSlots are the stock bowling quotas.
func BowlingSlots() []Slot {
	return []Slot{
		{Name: "powerplay", Pool: metric.Bowling, Role: role.PowerplayBowler, Score: defaultScore, Quota: 2},
		{Name: "death", Pool: metric.Bowling, Role: role.DeathBowler, Score: defaultScore, Quota: 1},
		{Name: "middle_overs", Pool: metric.Bowling, Role: role.MiddleBowler, Score: defaultScore, Quota: 1},
	}
}

// BowlingTypeSlots lock the attack by type: the best spinner and the two best
// pacers by the impact index.
func BowlingTypeSlots() []Slot {
	return []Slot{
		{Name: "spinner", Pool: metric.Bowling, Kind: role.Spinner, Score: impactScore, Quota: 1},
		{Name: "pace", Pool: metric.Bowling, Kind: role.Pace, Score: impactScore, Quota: 2},
	}
}

// AllRounderSlots reserve one bat-weighted and one bowl-weighted all-rounder.
func AllRounderSlots() []Slot {
	return []Slot{
		{Name: "batting_allrounder", Pool: metric.AllRounders, Score: scoring.BatAllRounder, Quota: 1},
		{Name: "bowling_allrounder", Pool: metric.AllRounders, Score: scoring.BowlAllRounder, Quota: 1},
	}
}

// DefaultBackfill tops up from both pools by the generic composite.
func DefaultBackfill() []Backfill {
	return []Backfill{
		{Pool: metric.Batting, Score: defaultScore},
		{Pool: metric.Bowling, Score: defaultScore},
	}
}

// ElitePlan is an eleven that locks two all-rounders and a spinner plus two
// pacers before the batting quotas, then backfills from both pools. When one
// player leads both all-rounder indices the bowl-weighted slot takes the next
// best.
func ElitePlan() Plan {
	slots := append(AllRounderSlots(), BowlingTypeSlots()...)
	slots = append(slots, BattingSlots()...)
	return Plan{Target: 11, TieBreak: ByPopulation, Slots: slots, Backfill: DefaultBackfill()}
}

// RolePlan fills the batting quotas and the phase bowling quotas, then
// backfills. It ignores all-rounders and bowling type.
func RolePlan() Plan {
	slots := append(BattingSlots(), BowlingSlots()...)
	return Plan{Target: 11, TieBreak: ByPopulation, Slots: slots, Backfill: DefaultBackfill()}
}
