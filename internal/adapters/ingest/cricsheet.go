package ingest

import (
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/okian/crease/internal/domain/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// File is the on-disk ball-by-ball scorecard.
type File struct {
	Info    Info      `json:"info"`
	Innings []Innings `json:"innings"`
}

// Info is the match metadata block.
type Info struct {
	Dates   []string `json:"dates"`
	Event   Event    `json:"event"`
	Season  Season   `json:"season"`
	Teams   []string `json:"teams"`
	Toss    Toss     `json:"toss"`
	Outcome Outcome  `json:"outcome"`
	Venue   string   `json:"venue"`
}

type Event struct {
	Name        string `json:"name"`
	MatchNumber int    `json:"match_number,omitempty"`
}

type Toss struct {
	Winner   string `json:"winner"`
	Decision string `json:"decision"`
}

// Outcome names the winner; it is empty for a tie or no result.
type Outcome struct {
	Winner string `json:"winner,omitempty"`
}

// Season is written either as a string ("2023/24") or a bare year.
type Season string

func (s *Season) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		return nil
	}
	if unq, err := strconv.Unquote(raw); err == nil {
		*s = Season(unq)
		return nil
	}
	*s = Season(raw)
	return nil
}

type Innings struct {
	Team  string `json:"team"`
	Overs []Over `json:"overs"`
}

type Over struct {
	Over       int        `json:"over"`
	Deliveries []Delivery `json:"deliveries"`
}

type Delivery struct {
	Batter     string   `json:"batter"`
	Bowler     string   `json:"bowler"`
	NonStriker string   `json:"non_striker"`
	Runs       Runs     `json:"runs"`
	Extras     *Extras  `json:"extras,omitempty"`
	Wickets    []Wicket `json:"wickets,omitempty"`
}

type Runs struct {
	Batter int `json:"batter"`
	Extras int `json:"extras"`
	Total  int `json:"total"`
}

type Extras struct {
	Wides   int `json:"wides,omitempty"`
	NoBalls int `json:"noballs,omitempty"`
	Byes    int `json:"byes,omitempty"`
	LegByes int `json:"legbyes,omitempty"`
	Penalty int `json:"penalty,omitempty"`
}

type Wicket struct {
	PlayerOut string `json:"player_out"`
	Kind      string `json:"kind"`
}

// decode parses one scorecard into the match model.
func decode(id string, raw []byte) (model.Match, error) {
	var f File
	if err := json.Unmarshal(raw, &f); err != nil {
		return model.Match{}, err
	}
	return f.Match(id), nil
}

// Match converts the scorecard into the match model under id.
func (f File) Match(id string) model.Match {
	m := model.Match{
		ID: id,
		Info: model.MatchInfo{
			EventName:    f.Info.Event.Name,
			MatchNumber:  f.Info.Event.MatchNumber,
			Season:       string(f.Info.Season),
			Venue:        f.Info.Venue,
			Dates:        f.Info.Dates,
			Teams:        f.Info.Teams,
			TossWinner:   f.Info.Toss.Winner,
			TossDecision: f.Info.Toss.Decision,
			Winner:       f.Info.Outcome.Winner,
		},
		Innings: make([]model.Innings, len(f.Innings)),
	}
	for i, inn := range f.Innings {
		out := model.Innings{Team: inn.Team, Overs: make([]model.Over, len(inn.Overs))}
		for j, ov := range inn.Overs {
			balls := make([]model.Ball, len(ov.Deliveries))
			for k, d := range ov.Deliveries {
				b := model.Ball{
					Batter:     d.Batter,
					NonStriker: d.NonStriker,
					Bowler:     d.Bowler,
					BatterRuns: d.Runs.Batter,
					ExtraRuns:  d.Runs.Extras,
					TotalRuns:  d.Runs.Total,
				}
				if d.Extras != nil {
					b.Extras = model.Extras(*d.Extras)
				}
				for _, w := range d.Wickets {
					b.Wickets = append(b.Wickets, model.Wicket{Kind: w.Kind, PlayerOut: w.PlayerOut})
				}
				balls[k] = b
			}
			out.Overs[j] = model.Over{Number: ov.Over, Deliveries: balls}
		}
		m.Innings[i] = out
	}
	return m
}
