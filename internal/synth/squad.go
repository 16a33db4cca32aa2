package synth

import "fmt"

const (
	squadSize  = 11
	attackSize = 5 // the last five in the order bowl four overs each
)

// profile shapes how a player bats.
type profile struct {
	aggression float64 // 0 anchors, 1 hits from ball one
	skill      float64 // lowers the chance of getting out
}

// Player is one squad member.
type Player struct {
	Name    string
	Spinner bool
	bat     profile
	control float64 // bowling; higher concedes less and takes more wickets
}

// Squad is a team in batting order.
type Squad struct {
	Team    string
	Players []Player
}

// batting profiles by order position: openers, anchors, middle, finisher,
// all-rounder, tail.
var order = []profile{
	{0.80, 0.70}, {0.65, 0.75},
	{0.35, 0.85}, {0.40, 0.80},
	{0.55, 0.65}, {0.90, 0.55},
	{0.60, 0.45},
	{0.40, 0.30}, {0.30, 0.25}, {0.25, 0.20}, {0.20, 0.15},
}

func newSquad(team string, spinners int) Squad {
	s := Squad{Team: team, Players: make([]Player, squadSize)}
	for i := range s.Players {
		p := Player{Name: fmt.Sprintf("%s %02d", team, i+1), bat: order[i]}
		if i >= squadSize-attackSize {
			k := i - (squadSize - attackSize)
			p.control = 0.45 + 0.1*float64(k%3)
			p.Spinner = k >= attackSize-spinners
		}
		s.Players[i] = p
	}
	return s
}

// Attack returns the five bowlers.
func (s Squad) Attack() []Player {
	return s.Players[squadSize-attackSize:]
}

// Spinners names every spin bowler in the squads.
func Spinners(squads []Squad) []string {
	var out []string
	for _, s := range squads {
		for _, p := range s.Attack() {
			if p.Spinner {
				out = append(out, p.Name)
			}
		}
	}
	return out
}

// Squads builds the squads for cfg.
func Squads(cfg Config) []Squad {
	out := make([]Squad, len(cfg.Teams))
	for i, t := range cfg.Teams {
		out[i] = newSquad(t, cfg.Spinners)
	}
	return out
}
