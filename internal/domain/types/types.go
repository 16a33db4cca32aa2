// Package types contains common types used across the application
package types

// Entry is one ranked player in a published table.
type Entry struct {
	Rank   int     `json:"rank"`
	Player string  `json:"player"`
	Role   string  `json:"role"`
	Kind   string  `json:"kind,omitempty"`
	Score  float64 `json:"score"`
}

// AssignRanks numbers entries already sorted by score descending. Equal
// scores share a rank and the next distinct score takes the next rank.
func AssignRanks(entries []Entry) {
	rank := 0
	for i := range entries {
		if i == 0 || entries[i].Score != entries[i-1].Score {
			rank++
		}
		entries[i].Rank = rank
	}
}
