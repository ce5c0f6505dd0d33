package aggregator

import (
	"sort"

	"github.com/pable/go-chess-report/internal/model"
)

// OpeningOutcomes counts outcomes per opening short name and normalises each
// opening's counts into proportions that sum to 1. Openings are sorted by
// name; an opening with no games is skipped rather than divided by zero.
func OpeningOutcomes(games []model.Game) []model.OpeningOutcome {
	counts := make(map[string]map[model.Outcome]int)
	for i := range games {
		g := &games[i]
		byOutcome := counts[g.Opening.ShortName]
		if byOutcome == nil {
			byOutcome = make(map[model.Outcome]int, len(model.Outcomes))
			counts[g.Opening.ShortName] = byOutcome
		}
		byOutcome[g.Outcome]++
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]model.OpeningOutcome, 0, len(names))
	for _, name := range names {
		row := model.OpeningOutcome{
			Opening:     name,
			Counts:      make(map[model.Outcome]int, len(model.Outcomes)),
			Proportions: make(map[model.Outcome]float64, len(model.Outcomes)),
		}
		for _, o := range model.Outcomes {
			row.Counts[o] = counts[name][o]
			row.Total += row.Counts[o]
		}
		if row.Total == 0 {
			continue
		}
		for _, o := range model.Outcomes {
			row.Proportions[o] = float64(row.Counts[o]) / float64(row.Total)
		}
		out = append(out, row)
	}
	return out
}
