package scoring

import (
	"fmt"

	"github.com/okian/crease/internal/domain/metric"
)

// All-rounder score names.
const (
	BatAllRounder  = "bat_ar"
	BowlAllRounder = "bowl_ar"
)

// AllRounderRole labels every row of the all-rounder table.
const AllRounderRole = "AllRounder"

// AllRounderWeights configures the dual-impact indices.
type AllRounderWeights struct {
	BattingScore string `koanf:"batting_score"`
	BowlingScore string `koanf:"bowling_score"`
	// Primary is the weight of the leading discipline in each index.
	Primary float64 `koanf:"primary"`
}

// DefaultAllRounderWeights blends the generic composites 65/35.
func DefaultAllRounderWeights() AllRounderWeights {
	return AllRounderWeights{BattingScore: "composite", BowlingScore: "composite", Primary: 0.65}
}

// Validate checks the blend.
func (w AllRounderWeights) Validate() error {
	if w.BattingScore == "" || w.BowlingScore == "" {
		return fmt.Errorf("%w: all-rounder scores not named", ErrInvalidComposite)
	}
	if w.Primary < 0 || w.Primary > 1 {
		return fmt.Errorf("%w: all-rounder primary weight %g outside [0,1]", ErrInvalidComposite, w.Primary)
	}
	return nil
}

// AllRounders builds the dual-impact table for players present in both
// tables, in batting order. bat_ar leans on batting and bowl_ar on bowling.
func AllRounders(bat, bowl Table, w AllRounderWeights) (Table, error) {
	if err := w.Validate(); err != nil {
		return Table{}, err
	}
	if !bat.HasScore(w.BattingScore) {
		return Table{}, fmt.Errorf("%w: batting %q", ErrUnknownScore, w.BattingScore)
	}
	if !bowl.HasScore(w.BowlingScore) {
		return Table{}, fmt.Errorf("%w: bowling %q", ErrUnknownScore, w.BowlingScore)
	}

	p := w.Primary
	var rows []Row
	for _, br := range bat.Rows {
		wr, ok := bowl.Find(br.Player)
		if !ok {
			continue
		}
		bs, ws := br.Score(w.BattingScore), wr.Score(w.BowlingScore)
		values := map[string]float64{
			"batting":      bs,
			"bowling":      ws,
			BatAllRounder:  p*bs + (1-p)*ws,
			BowlAllRounder: p*ws + (1-p)*bs,
		}
		rows = append(rows, Row{
			Player:     br.Player,
			Role:       AllRounderRole,
			Kind:       wr.Kind,
			Raw:        map[string]float64{"batting": bs, "bowling": ws},
			Normalized: map[string]float64{},
			Scores:     map[string]float64{BatAllRounder: values[BatAllRounder], BowlAllRounder: values[BowlAllRounder]},
			src:        metric.Static{Name: br.Player, Values: values},
			qualified:  map[string]bool{BatAllRounder: true, BowlAllRounder: true},
		})
	}
	return Table{Pool: metric.AllRounders, Rows: rows, scores: []string{BatAllRounder, BowlAllRounder}}, nil
}
