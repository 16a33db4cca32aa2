package synth

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/okian/crease/internal/adapters/ingest"
	"github.com/okian/crease/pkg/logger"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// namespace scopes generated match ids, so the same fixture always gets the
// same id.
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://crease.local/synth"))

const (
	oversPerInnings = 20
	ballsPerOver    = 6

	wideRate   = 0.035
	noBallRate = 0.010
	legByeRate = 0.020
)

// Scorecard is one generated match and the id it is stored under.
type Scorecard struct {
	ID   string
	File ingest.File
}

// MatchID returns the id of fixture number in event and season.
func MatchID(event, season string, number int) string {
	return uuid.NewSHA1(namespace, []byte(fmt.Sprintf("%s/%s/%d", event, season, number))).String()
}

// Generate plays cfg.Matches fixtures. The same Config always yields the same
// scorecards.
func Generate(cfg Config) ([]Scorecard, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	squads := Squads(cfg)
	pairs := fixtures(len(squads))
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))

	out := make([]Scorecard, cfg.Matches)
	for i := range out {
		p := pairs[i%len(pairs)]
		out[i] = playMatch(rng, cfg, i+1, squads[p[0]], squads[p[1]])
	}
	return out, nil
}

// WriteDir generates cfg and writes one <id>.json file per match into dir.
// It returns the written paths.
func WriteDir(ctx context.Context, dir string, cfg Config) ([]string, error) {
	cards, err := Generate(cfg)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create %s: %w", dir, err)
	}
	paths := make([]string, 0, len(cards))
	for _, c := range cards {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		raw, err := json.MarshalIndent(c.File, "", "  ")
		if err != nil {
			return paths, fmt.Errorf("encode %s: %w", c.ID, err)
		}
		path := filepath.Join(dir, c.ID+".json")
		if err := os.WriteFile(path, raw, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	logger.Named("synth").Info(ctx, "match files written",
		logger.String("dir", dir),
		logger.Int("matches", len(paths)),
		logger.Int("teams", len(cfg.Teams)))
	return paths, nil
}

// fixtures lists every pairing of n teams.
func fixtures(n int) [][2]int {
	var out [][2]int
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			out = append(out, [2]int{a, b})
		}
	}
	return out
}

func playMatch(rng *rand.Rand, cfg Config, number int, a, b Squad) Scorecard {
	toss, other := a, b
	if rng.IntN(2) == 1 {
		toss, other = b, a
	}
	decision := "bat"
	first, second := toss, other
	if rng.IntN(2) == 1 {
		decision = "field"
		first, second = other, toss
	}

	inn1 := playInnings(rng, first, second, 0)
	inn2 := playInnings(rng, second, first, inn1.total+1)

	var winner string
	switch {
	case inn1.total > inn2.total:
		winner = first.Team
	case inn2.total > inn1.total:
		winner = second.Team
	}

	return Scorecard{
		ID: MatchID(cfg.Event, cfg.Season, number),
		File: ingest.File{
			Info: ingest.Info{
				Dates:   []string{cfg.Start.AddDate(0, 0, number-1).Format(time.DateOnly)},
				Event:   ingest.Event{Name: cfg.Event, MatchNumber: number},
				Season:  ingest.Season(cfg.Season),
				Teams:   []string{a.Team, b.Team},
				Toss:    ingest.Toss{Winner: toss.Team, Decision: decision},
				Outcome: ingest.Outcome{Winner: winner},
				Venue:   cfg.Venues[rng.IntN(len(cfg.Venues))],
			},
			Innings: []ingest.Innings{inn1.card, inn2.card},
		},
	}
}

type innings struct {
	card  ingest.Innings
	total int
}

// playInnings bowls up to twenty overs. A positive target ends the innings as
// soon as it is reached.
func playInnings(rng *rand.Rand, bat, field Squad, target int) innings {
	attack := append([]Player(nil), field.Attack()...)
	rng.Shuffle(len(attack), func(i, j int) { attack[i], attack[j] = attack[j], attack[i] })

	inn := innings{card: ingest.Innings{Team: bat.Team}}
	striker, nonStriker, next := 0, 1, 2
	done := func() bool {
		return next > squadSize || (target > 0 && inn.total >= target)
	}

	for over := 0; over < oversPerInnings && !done(); over++ {
		bowler := attack[over%attackSize]
		ov := ingest.Over{Over: over}
		for legal := 0; legal < ballsPerOver && !done(); {
			d, outEnd, legalBall := deliver(rng, bat.Players[striker], bat.Players[nonStriker], bowler, over)
			ov.Deliveries = append(ov.Deliveries, d)
			inn.total += d.Runs.Total
			if legalBall {
				legal++
			}

			ran := d.Runs.Batter
			if d.Extras != nil {
				ran += d.Extras.Byes + d.Extras.LegByes
			}
			if ran%2 == 1 {
				striker, nonStriker = nonStriker, striker
			}

			if len(d.Wickets) > 0 {
				if next >= squadSize {
					next++ // all out
					continue
				}
				if outEnd == endNonStriker {
					nonStriker = next
				} else {
					striker = next
				}
				next++
			}
		}
		inn.card.Overs = append(inn.card.Overs, ov)
		striker, nonStriker = nonStriker, striker
	}
	return inn
}

type end int

const (
	endStriker end = iota
	endNonStriker
)

var dismissals = []string{"caught", "bowled", "lbw", "run out", "stumped"}

// deliver plays one ball. It reports which end lost a batter, if any, and
// whether the ball was legal.
func deliver(rng *rand.Rand, striker, nonStriker, bowler Player, over int) (ingest.Delivery, end, bool) {
	d := ingest.Delivery{Batter: striker.Name, NonStriker: nonStriker.Name, Bowler: bowler.Name}
	aggr := intent(striker.bat.aggression, over)

	r := rng.Float64()
	switch {
	case r < wideRate:
		d.Extras = &ingest.Extras{Wides: 1}
		d.Runs = ingest.Runs{Extras: 1, Total: 1}
		return d, endStriker, false
	case r < wideRate+noBallRate:
		runs := shot(rng, aggr, bowler.control)
		d.Extras = &ingest.Extras{NoBalls: 1}
		d.Runs = ingest.Runs{Batter: runs, Extras: 1, Total: runs + 1}
		return d, endStriker, false
	}

	pOut := 0.02 + 0.05*(1-striker.bat.skill) + 0.03*aggr + 0.02*bowler.control
	if rng.Float64() < pOut {
		kind := dismissals[int(distuv.NewCategorical([]float64{55, 20, 12, 8, 5}, rng).Rand())]
		if kind == "stumped" && !bowler.Spinner {
			kind = "caught"
		}
		at, out := endStriker, striker.Name
		if kind == "run out" && rng.IntN(3) == 0 {
			at, out = endNonStriker, nonStriker.Name
		}
		d.Wickets = []ingest.Wicket{{PlayerOut: out, Kind: kind}}
		return d, at, true
	}

	if rng.Float64() < legByeRate {
		d.Extras = &ingest.Extras{LegByes: 1}
		d.Runs = ingest.Runs{Extras: 1, Total: 1}
		return d, endStriker, true
	}

	runs := shot(rng, aggr, bowler.control)
	d.Runs = ingest.Runs{Batter: runs, Total: runs}
	return d, endStriker, true
}

// intent lifts aggression in the powerplay and at the death.
func intent(aggression float64, over int) float64 {
	switch {
	case over < 6:
		aggression += 0.15
	case over >= 16:
		aggression += 0.30
	}
	return min(aggression, 1)
}

var shotRuns = []int{0, 1, 2, 3, 4, 6}

// shot draws runs off the bat.
func shot(rng *rand.Rand, aggr, control float64) int {
	w := []float64{
		max(0.42-0.15*aggr+0.10*control, 0.05),
		0.33,
		0.08,
		0.01,
		0.10 + 0.08*aggr,
		0.03 + 0.09*aggr - 0.02*control,
	}
	return shotRuns[int(distuv.NewCategorical(w, rng).Rand())]
}
