// Package model contains the delivery-level records passed between layers.
package model

// Extras holds the extras breakdown of a single delivery. Values are run
// counts as recorded; a non-zero Wides or NoBalls marks an illegal ball.
type Extras struct {
	Wides   int
	NoBalls int
	Byes    int
	LegByes int
	Penalty int
}

// Wicket is the dismissal recorded on a delivery.
type Wicket struct {
	Kind      string // e.g. "caught", "bowled", "run out"
	PlayerOut string
}

// Delivery is one ball bowled, flattened together with the match and innings
// context needed downstream.
type Delivery struct {
	MatchID string
	Innings int // 1-based
	Over    int // 0-based
	Ball    int // 1-based position within the over, illegal balls included

	BattingTeam string
	BowlingTeam string
	Batter      string
	NonStriker  string
	Bowler      string

	BatterRuns int
	ExtraRuns  int
	TotalRuns  int
	Extras     Extras

	// Wicket is nil when no dismissal happened on this ball. Only the first
	// recorded wicket of a delivery is kept.
	Wicket *Wicket

	Venue  string
	Season string
	Winner string

	// Innings progress, this delivery included.
	WicketsFallen     int
	InningsRuns       int
	InningsDeliveries int
}

// IsLegal reports whether the ball counts toward the six-ball over.
func (d Delivery) IsLegal() bool {
	return d.Extras.Wides == 0 && d.Extras.NoBalls == 0
}

// IsDot reports a legal ball with no runs off the bat.
func (d Delivery) IsDot() bool {
	return d.IsLegal() && d.BatterRuns == 0
}

// IsBoundary reports a four or a six off the bat.
func (d Delivery) IsBoundary() bool {
	return d.BatterRuns == 4 || d.BatterRuns == 6
}

// IsRotation reports a one, two or three off the bat.
func (d Delivery) IsRotation() bool {
	return d.BatterRuns >= 1 && d.BatterRuns <= 3
}

// IsWicket reports whether a dismissal was recorded.
func (d Delivery) IsWicket() bool {
	return d.Wicket != nil
}

// RunRateSoFar is the innings run rate (runs per six deliveries) up to and
// including this ball.
func (d Delivery) RunRateSoFar() float64 {
	if d.InningsDeliveries == 0 {
		return 0
	}
	return float64(d.InningsRuns) / (float64(d.InningsDeliveries) / 6)
}

// WonMatch reports whether the batting side went on to win the match.
func (d Delivery) WonMatch() bool {
	return d.Winner != "" && d.Winner == d.BattingTeam
}
