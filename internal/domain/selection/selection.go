// Package selection fills a roster from scored tables under per-slot quotas.
package selection

import (
	"errors"
	"fmt"
	"sort"

	"github.com/okian/crease/internal/domain/metric"
	"github.com/okian/crease/internal/domain/scoring"
)

// Sentinel kinds.
var ErrInvalidPlan = errors.New("invalid roster plan")

// TieBreak orders players with equal scores.
type TieBreak string

const (
	// ByPopulation keeps first-appearance order.
	ByPopulation TieBreak = "population"
	// ByName orders ties alphabetically.
	ByName TieBreak = "name"
)

// Slot is a quota bucket: up to Quota players of Role (and Kind, if set)
// from Pool, best Score first.
type Slot struct {
	Name  string      `koanf:"name"`
	Pool  metric.Pool `koanf:"pool"`
	Role  string      `koanf:"role"`
	Kind  string      `koanf:"kind"`
	Score string      `koanf:"score"`
	Quota int         `koanf:"quota"`
}

// Backfill names a pool and score used to top up an under-filled roster.
type Backfill struct {
	Pool  metric.Pool `koanf:"pool"`
	Score string      `koanf:"score"`
}

// Plan is an ordered list of slots plus the backfill rule.
type Plan struct {
	Target   int        `koanf:"target"`
	TieBreak TieBreak   `koanf:"tie_break"`
	Slots    []Slot     `koanf:"slots"`
	Backfill []Backfill `koanf:"backfill"`
}

// Validate checks the plan's shape.
func (p Plan) Validate() error {
	if p.Target <= 0 {
		return fmt.Errorf("%w: target %d", ErrInvalidPlan, p.Target)
	}
	switch p.TieBreak {
	case "", ByPopulation, ByName:
	default:
		return fmt.Errorf("%w: tie break %q", ErrInvalidPlan, p.TieBreak)
	}
	names := make(map[string]struct{}, len(p.Slots))
	for _, s := range p.Slots {
		if s.Name == "" || s.Pool == "" || s.Score == "" {
			return fmt.Errorf("%w: slot %+v needs a name, pool and score", ErrInvalidPlan, s)
		}
		if _, dup := names[s.Name]; dup {
			return fmt.Errorf("%w: duplicate slot %q", ErrInvalidPlan, s.Name)
		}
		names[s.Name] = struct{}{}
		if s.Quota < 0 {
			return fmt.Errorf("%w: slot %q quota %d", ErrInvalidPlan, s.Name, s.Quota)
		}
	}
	for _, b := range p.Backfill {
		if b.Pool == "" || b.Score == "" {
			return fmt.Errorf("%w: backfill %+v needs a pool and score", ErrInvalidPlan, b)
		}
	}
	return nil
}

// Pick is one selected player.
type Pick struct {
	Player string      `json:"player"`
	Role   string      `json:"role"`
	Kind   string      `json:"kind,omitempty"`
	Slot   string      `json:"slot"` // "backfill" for top-up picks
	Pool   metric.Pool `json:"pool"`
	Score  float64     `json:"score"`
}

// BackfillSlot labels picks made after the quota slots.
const BackfillSlot = "backfill"

// Roster is the selection outcome. Shortfall is Target minus picks when the
// candidates ran out.
type Roster struct {
	Picks     []Pick `json:"picks"`
	Target    int    `json:"target"`
	Shortfall int    `json:"shortfall"`
}

// Count returns the picks made for a slot name.
func (r Roster) Count(slot string) int {
	n := 0
	for _, p := range r.Picks {
		if p.Slot == slot {
			n++
		}
	}
	return n
}

// Players lists picked names in order.
func (r Roster) Players() []string {
	out := make([]string, len(r.Picks))
	for i, p := range r.Picks {
		out[i] = p.Player
	}
	return out
}

// Select fills the plan from tables keyed by pool. A missing table is an
// empty pool. Slots are filled in order and later slots skip players already
// taken; the roster never exceeds Target.
func Select(plan Plan, tables map[metric.Pool]scoring.Table) (Roster, error) {
	if err := plan.Validate(); err != nil {
		return Roster{}, err
	}
	byName := plan.TieBreak == ByName
	taken := make(map[string]struct{})
	roster := Roster{Target: plan.Target}

	for _, slot := range plan.Slots {
		if len(roster.Picks) >= plan.Target {
			break
		}
		t, err := table(tables, slot.Pool, slot.Score)
		if err != nil {
			return Roster{}, fmt.Errorf("slot %s: %w", slot.Name, err)
		}
		n := 0
		for _, row := range t.Ranked(slot.Score, byName) {
			if n >= slot.Quota || len(roster.Picks) >= plan.Target {
				break
			}
			if slot.Role != "" && row.Role != slot.Role {
				continue
			}
			if slot.Kind != "" && row.Kind != slot.Kind {
				continue
			}
			if _, ok := taken[row.Player]; ok {
				continue
			}
			taken[row.Player] = struct{}{}
			roster.Picks = append(roster.Picks, pick(row, slot.Name, slot.Pool, slot.Score))
			n++
		}
	}

	if len(roster.Picks) < plan.Target {
		rest, err := backfill(plan, tables, taken, byName)
		if err != nil {
			return Roster{}, err
		}
		for _, p := range rest {
			if len(roster.Picks) >= plan.Target {
				break
			}
			roster.Picks = append(roster.Picks, p)
		}
	}
	roster.Shortfall = plan.Target - len(roster.Picks)
	return roster, nil
}

// backfill merges the untaken players of every backfill pool by score.
func backfill(plan Plan, tables map[metric.Pool]scoring.Table, taken map[string]struct{}, byName bool) ([]Pick, error) {
	var merged []Pick
	seen := make(map[string]struct{})
	for _, b := range plan.Backfill {
		t, err := table(tables, b.Pool, b.Score)
		if err != nil {
			return nil, fmt.Errorf("backfill: %w", err)
		}
		for _, row := range t.Ranked(b.Score, byName) {
			if _, ok := taken[row.Player]; ok {
				continue
			}
			if _, ok := seen[row.Player]; ok {
				continue
			}
			seen[row.Player] = struct{}{}
			merged = append(merged, pick(row, BackfillSlot, b.Pool, b.Score))
		}
	}
	sort.SliceStable(merged, func(i, j int) bool {
		if merged[i].Score != merged[j].Score {
			return merged[i].Score > merged[j].Score
		}
		if byName {
			return merged[i].Player < merged[j].Player
		}
		return false
	})
	return merged, nil
}

func table(tables map[metric.Pool]scoring.Table, pool metric.Pool, score string) (scoring.Table, error) {
	t, ok := tables[pool]
	if !ok || len(t.Rows) == 0 {
		return scoring.Table{Pool: pool}, nil
	}
	if !t.HasScore(score) {
		return scoring.Table{}, fmt.Errorf("%w: %s has no score %q", scoring.ErrUnknownScore, pool, score)
	}
	return t, nil
}

func pick(row scoring.Row, slot string, pool metric.Pool, score string) Pick {
	return Pick{
		Player: row.Player,
		Role:   row.Role,
		Kind:   row.Kind,
		Slot:   slot,
		Pool:   pool,
		Score:  row.Score(score),
	}
}
