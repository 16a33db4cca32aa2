package model

import (
	"errors"
	"fmt"
)

// Sentinel kinds for malformed match records.
var (
	ErrMalformedMatch = errors.New("malformed match record")
)

// Match is a parsed scorecard: match metadata and the innings in order.
type Match struct {
	ID      string
	Info    MatchInfo
	Innings []Innings
}

// MatchInfo carries match-level metadata.
type MatchInfo struct {
	EventName    string
	MatchNumber  int
	Season       string
	Venue        string
	Dates        []string
	Teams        []string
	TossWinner   string
	TossDecision string
	Winner       string
}

// Innings is one side's batting innings.
type Innings struct {
	Team  string
	Overs []Over
}

// Over groups the deliveries of one over, in bowling order.
type Over struct {
	Number     int
	Deliveries []Ball
}

// Ball is a delivery as recorded on the scorecard, before flattening.
type Ball struct {
	Batter     string
	NonStriker string
	Bowler     string
	BatterRuns int
	ExtraRuns  int
	TotalRuns  int
	Extras     Extras
	Wickets    []Wicket
}

// Flatten turns parsed matches into an ordered delivery sequence: match,
// innings, over and ball order are preserved. It keeps no state between calls.
func Flatten(matches []Match) ([]Delivery, error) {
	var out []Delivery
	for _, m := range matches {
		if m.ID == "" {
			return nil, fmt.Errorf("%w: match without id", ErrMalformedMatch)
		}
		for i, inn := range m.Innings {
			rows, err := flattenInnings(m, i+1, inn)
			if err != nil {
				return nil, err
			}
			out = append(out, rows...)
		}
	}
	return out, nil
}

func flattenInnings(m Match, number int, inn Innings) ([]Delivery, error) {
	bowling := opponent(m.Info.Teams, inn.Team)

	var (
		out     []Delivery
		wickets int
		runs    int
		bowled  int
	)
	for _, over := range inn.Overs {
		if over.Number < 0 {
			return nil, fmt.Errorf("%w: match %s innings %d: negative over %d", ErrMalformedMatch, m.ID, number, over.Number)
		}
		for j, b := range over.Deliveries {
			if b.Batter == "" || b.Bowler == "" {
				return nil, fmt.Errorf("%w: match %s innings %d over %d ball %d: missing batter or bowler",
					ErrMalformedMatch, m.ID, number, over.Number, j+1)
			}
			if b.TotalRuns < b.BatterRuns {
				return nil, fmt.Errorf("%w: match %s innings %d over %d ball %d: total runs %d below batter runs %d",
					ErrMalformedMatch, m.ID, number, over.Number, j+1, b.TotalRuns, b.BatterRuns)
			}

			bowled++
			runs += b.TotalRuns
			var w *Wicket
			if len(b.Wickets) > 0 {
				first := b.Wickets[0]
				w = &first
				wickets++
			}

			out = append(out, Delivery{
				MatchID:           m.ID,
				Innings:           number,
				Over:              over.Number,
				Ball:              j + 1,
				BattingTeam:       inn.Team,
				BowlingTeam:       bowling,
				Batter:            b.Batter,
				NonStriker:        b.NonStriker,
				Bowler:            b.Bowler,
				BatterRuns:        b.BatterRuns,
				ExtraRuns:         b.ExtraRuns,
				TotalRuns:         b.TotalRuns,
				Extras:            b.Extras,
				Wicket:            w,
				Venue:             m.Info.Venue,
				Season:            m.Info.Season,
				Winner:            m.Info.Winner,
				WicketsFallen:     wickets,
				InningsRuns:       runs,
				InningsDeliveries: bowled,
			})
		}
	}
	return out, nil
}

// opponent returns the first team that is not batting, or "" if unknown.
func opponent(teams []string, batting string) string {
	for _, t := range teams {
		if t != batting {
			return t
		}
	}
	return ""
}
