package aggregator

import "github.com/pable/go-chess-report/internal/model"

// OutcomeByWinner cross-tabulates decisive games by outcome and winner.
//
// A game is dropped when its outcome is Draw, and separately when its winner
// is Draw; either clause alone is enough to exclude it. The table is
// zero-filled over every non-draw outcome and winner, one row per cell,
// ordered by winner and then outcome.
func OutcomeByWinner(games []model.Game) []model.OutcomeWinnerCount {
	type cell struct {
		outcome model.Outcome
		winner  model.Winner
	}
	counts := make(map[cell]int)
	for i := range games {
		g := &games[i]
		if g.Outcome == model.OutcomeDraw {
			continue
		}
		if g.Winner == model.WinnerDraw {
			continue
		}
		counts[cell{g.Outcome, g.Winner}]++
	}

	var out []model.OutcomeWinnerCount
	for _, w := range decisiveWinners() {
		for _, o := range decisiveOutcomes() {
			out = append(out, model.OutcomeWinnerCount{
				Outcome: o,
				Winner:  w,
				Count:   counts[cell{o, w}],
			})
		}
	}
	return out
}

// RatedProportion counts rated and unrated games. Both rows are always
// present, rated first.
func RatedProportion(games []model.Game) []model.RatedCount {
	var rated, unrated int
	for i := range games {
		if games[i].Rated {
			rated++
		} else {
			unrated++
		}
	}
	return []model.RatedCount{
		{Rated: true, Games: rated},
		{Rated: false, Games: unrated},
	}
}

func decisiveOutcomes() []model.Outcome {
	out := make([]model.Outcome, 0, len(model.Outcomes)-1)
	for _, o := range model.Outcomes {
		if o != model.OutcomeDraw {
			out = append(out, o)
		}
	}
	return out
}

func decisiveWinners() []model.Winner {
	return []model.Winner{model.WinnerWhite, model.WinnerBlack}
}

// DecisiveTotal sums the Count column of an outcome × winner table.
func DecisiveTotal(rows []model.OutcomeWinnerCount) int {
	n := 0
	for _, r := range rows {
		n += r.Count
	}
	return n
}
