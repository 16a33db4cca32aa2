package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/okian/crease/internal/domain/metric"
	"github.com/okian/crease/internal/domain/normalize"
)

// Candidate is an eligible player entering the scorer.
type Candidate struct {
	Source metric.Source
	Role   string
	Kind   string // bowling type; empty for batters
}

// Row is one scored player. Rows are never modified after construction.
type Row struct {
	Player     string             `json:"player"`
	Role       string             `json:"role"`
	Kind       string             `json:"kind,omitempty"`
	Raw        map[string]float64 `json:"raw"`
	Normalized map[string]float64 `json:"normalized"`
	Scores     map[string]float64 `json:"scores"`

	src       metric.Source
	qualified map[string]bool
}

// Score returns the named score, or 0 when absent.
func (r Row) Score(name string) float64 { return r.Scores[name] }

// Qualified reports whether the row met the composite's qualifier.
func (r Row) Qualified(name string) bool { return r.qualified[name] }

func (r Row) clone() Row {
	out := r
	out.Raw = cloneMap(r.Raw)
	out.Normalized = cloneMap(r.Normalized)
	out.Scores = cloneMap(r.Scores)
	out.qualified = make(map[string]bool, len(r.qualified))
	for k, v := range r.qualified {
		out.qualified[k] = v
	}
	return out
}

func cloneMap(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Table is a scored population in population order.
type Table struct {
	Pool   metric.Pool `json:"pool"`
	Rows   []Row       `json:"rows"`
	scores []string
}

// ScoreNames lists the scores carried by every row, in declaration order.
func (t Table) ScoreNames() []string {
	out := make([]string, len(t.scores))
	copy(out, t.scores)
	return out
}

// HasScore reports whether name is one of the table's scores.
func (t Table) HasScore(name string) bool {
	for _, s := range t.scores {
		if s == name {
			return true
		}
	}
	return false
}

// Filter returns a table holding the rows keep accepts.
func (t Table) Filter(keep func(Row) bool) Table {
	out := Table{Pool: t.Pool, scores: t.ScoreNames()}
	for _, r := range t.Rows {
		if keep(r) {
			out.Rows = append(out.Rows, r)
		}
	}
	return out
}

// Find returns the row for player.
func (t Table) Find(player string) (Row, bool) {
	for _, r := range t.Rows {
		if r.Player == player {
			return r, true
		}
	}
	return Row{}, false
}

// Ranked returns rows ordered by score descending. Ties keep population order,
// or fall back to player name when byName is set.
func (t Table) Ranked(score string, byName bool) []Row {
	out := make([]Row, len(t.Rows))
	copy(out, t.Rows)
	SortRows(out, score, byName)
	return out
}

// SortRows orders rows in place by score descending with a stable tie-break.
func SortRows(rows []Row, score string, byName bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i].Scores[score], rows[j].Scores[score]
		if a != b {
			return a > b
		}
		if byName {
			return rows[i].Player < rows[j].Player
		}
		return false
	})
}

// Score computes every composite over the candidates and returns a new table.
// Normalization runs over the candidates that qualify for each composite.
func Score(pool metric.Pool, candidates []Candidate, composites []Composite) (Table, error) {
	if err := ValidateAll(pool, composites); err != nil {
		return Table{}, err
	}

	rows := make([]Row, len(candidates))
	for i, c := range candidates {
		rows[i] = Row{
			Player:     c.Source.Player(),
			Role:       c.Role,
			Kind:       c.Kind,
			Raw:        make(map[string]float64),
			Normalized: make(map[string]float64),
			Scores:     make(map[string]float64, len(composites)),
			src:        c.Source,
			qualified:  make(map[string]bool, len(composites)),
		}
	}

	names := make([]string, 0, len(composites))
	for _, comp := range composites {
		names = append(names, comp.Name)
		if err := apply(rows, comp); err != nil {
			return Table{}, err
		}
	}
	return Table{Pool: pool, Rows: rows, scores: names}, nil
}

// apply fills one composite into rows, which were built by the caller.
func apply(rows []Row, comp Composite) error {
	var members []int
	for i := range rows {
		ok, err := metric.All(rows[i].src, comp.Qualifier)
		if err != nil {
			return fmt.Errorf("score %s: %w", comp.Name, err)
		}
		rows[i].qualified[comp.Name] = ok
		rows[i].Scores[comp.Name] = 0
		if ok {
			members = append(members, i)
		}
	}

	for _, term := range comp.Terms {
		normed, err := normalizeTerm(rows, members, term, comp.Method)
		if err != nil {
			return fmt.Errorf("score %s: %w", comp.Name, err)
		}
		key := Key(comp.Name, term.Metric)
		for k, i := range members {
			rows[i].Normalized[key] = normed[k]
			rows[i].Scores[comp.Name] += term.Weight * normed[k]
		}
	}
	return nil
}

// normalizeTerm reads, transforms and normalizes a term for the member rows.
// Members with missing data (NaN or infinite) stay out of the population and
// contribute 0.
func normalizeTerm(rows []Row, members []int, term Term, method normalize.Method) ([]float64, error) {
	out := make([]float64, len(members))
	var (
		present []int
		vals    []float64
	)
	for k, i := range members {
		v, err := rows[i].src.Metric(term.Metric)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			rows[i].Raw[term.Metric] = 0
			continue
		}
		rows[i].Raw[term.Metric] = v
		present = append(present, k)
		vals = append(vals, term.Transform.Apply(v))
	}
	normed, err := method.Apply(vals)
	if err != nil {
		return nil, err
	}
	for j, k := range present {
		out[k] = normed[j]
	}
	return out, nil
}
