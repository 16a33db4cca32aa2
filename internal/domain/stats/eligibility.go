package stats

// BatterEligibility sets the participation minimums for ranking a batter.
type BatterEligibility struct {
	MinMatches int `koanf:"min_matches"`
	MinBalls   int `koanf:"min_balls"`
	// MinBallsByRole overrides MinBalls for batters of a given role.
	MinBallsByRole map[string]int `koanf:"min_balls_by_role"`
}

// Allows reports whether b qualifies given its provisional role.
func (e BatterEligibility) Allows(b Batter, role string) bool {
	minBalls := e.MinBalls
	if v, ok := e.MinBallsByRole[role]; ok {
		minBalls = v
	}
	return b.Matches >= e.MinMatches && b.Balls >= minBalls
}

// FilterBatters returns the eligible subset, in input order. roleOf supplies
// the provisional role used for role-dependent minimums; it may be nil.
func FilterBatters(rows []Batter, e BatterEligibility, roleOf func(Batter) (string, error)) ([]Batter, error) {
	out := make([]Batter, 0, len(rows))
	for _, b := range rows {
		var role string
		if roleOf != nil && len(e.MinBallsByRole) > 0 {
			r, err := roleOf(b)
			if err != nil {
				return nil, err
			}
			role = r
		}
		if e.Allows(b, role) {
			out = append(out, b)
		}
	}
	return out, nil
}

// BowlerEligibility sets the participation minimums for ranking a bowler.
type BowlerEligibility struct {
	MinMatches int     `koanf:"min_matches"`
	MinOvers   float64 `koanf:"min_overs"`
}

// Allows reports whether b qualifies.
func (e BowlerEligibility) Allows(b Bowler) bool {
	return b.Matches >= e.MinMatches && b.Overs() >= e.MinOvers
}

// FilterBowlers returns the eligible subset, in input order.
func FilterBowlers(rows []Bowler, e BowlerEligibility) []Bowler {
	out := make([]Bowler, 0, len(rows))
	for _, b := range rows {
		if e.Allows(b) {
			out = append(out, b)
		}
	}
	return out
}
