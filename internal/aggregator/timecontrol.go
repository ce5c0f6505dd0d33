package aggregator

import (
	"sort"

	"github.com/pable/go-chess-report/internal/model"
)

// OutcomeByTimeControl joins every game to its time-control rank and
// cross-tabulates rank × outcome.
//
// The join is an exact string match on the descriptor. Games without a rank
// are left out of this aggregate only. Each rank is expanded to every
// descriptor that matched it (first-seen order) and each row carries the
// rank's count, so a rank shared by two descriptors appears twice with the
// same numbers. Rows are ordered by outcome, then rank, then descriptor.
func OutcomeByTimeControl(games []model.Game, ranks []model.TimeControlRank) []model.TimeControlOutcome {
	ds := model.Dataset{Ranks: ranks}
	idx := ds.RankIndex()

	type cell struct {
		rank    int
		outcome model.Outcome
	}
	counts := make(map[cell]int)
	descriptors := make(map[int][]string)
	seen := make(map[string]bool)

	for i := range games {
		g := &games[i]
		rank, ok := idx[g.TimeControl]
		if !ok {
			continue
		}
		counts[cell{rank, g.Outcome}]++
		if !seen[g.TimeControl] {
			seen[g.TimeControl] = true
			descriptors[rank] = append(descriptors[rank], g.TimeControl)
		}
	}

	rankOrder := make([]int, 0, len(descriptors))
	for r := range descriptors {
		rankOrder = append(rankOrder, r)
	}
	sort.Ints(rankOrder)

	var out []model.TimeControlOutcome
	for _, o := range model.Outcomes {
		for _, r := range rankOrder {
			for _, tc := range descriptors[r] {
				out = append(out, model.TimeControlOutcome{
					Rank:        r,
					TimeControl: tc,
					Outcome:     o,
					Count:       counts[cell{r, o}],
				})
			}
		}
	}
	return out
}

// UnmatchedTimeControls returns the descriptors that have no rank, with the
// number of games using each.
func UnmatchedTimeControls(games []model.Game, ranks []model.TimeControlRank) map[string]int {
	ds := model.Dataset{Ranks: ranks}
	idx := ds.RankIndex()
	out := make(map[string]int)
	for i := range games {
		if _, ok := idx[games[i].TimeControl]; !ok {
			out[games[i].TimeControl]++
		}
	}
	return out
}
