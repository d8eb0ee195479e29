package recommend

import (
	"cmp"
	"slices"
)

// Rank sorts candidates by score (highest first) and keeps the top k.
// Equal scores keep their input order. Repeated ids are dropped, keeping
// the first occurrence. A non-positive k keeps every candidate.
// The boolean is false when there is nothing to rank.
// The input slice is not modified.
func Rank(scored []Scored, k int) ([]Scored, bool) {
	if len(scored) == 0 {
		return nil, false
	}

	seen := make(map[string]struct{}, len(scored))
	ranked := make([]Scored, 0, len(scored))
	for _, s := range scored {
		if _, dup := seen[s.ID]; dup {
			continue
		}
		seen[s.ID] = struct{}{}
		ranked = append(ranked, s)
	}

	slices.SortStableFunc(ranked, func(a, b Scored) int {
		return cmp.Compare(b.Score, a.Score)
	})

	if k > 0 && k < len(ranked) {
		ranked = ranked[:k]
	}
	return ranked, true
}
