package stats

// Baselines maps a phase label to a tournament reference value: strike rate
// for batting, economy for bowling.
type Baselines map[string]float64

// BattingBaselines pools the given batters' phase lines into a strike rate
// per phase.
func BattingBaselines(rows []Batter) Baselines {
	out := make(Baselines)
	if len(rows) == 0 {
		return out
	}
	for _, label := range rows[0].phases.labels {
		var runs, balls int
		for _, b := range rows {
			l := b.phases.lines[label]
			runs += l.Runs
			balls += l.Balls
		}
		out[label] = ratio(float64(runs), float64(balls), 100)
	}
	return out
}

// BowlingBaselines pools the given bowlers' phase lines into an economy per
// phase.
func BowlingBaselines(rows []Bowler) Baselines {
	out := make(Baselines)
	if len(rows) == 0 {
		return out
	}
	for _, label := range rows[0].phases.labels {
		var runs, balls int
		for _, b := range rows {
			l := b.phases.lines[label]
			runs += l.Runs
			balls += l.Balls
		}
		out[label] = ratio(float64(runs), float64(balls), 6)
	}
	return out
}
