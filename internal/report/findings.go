package report

import (
	"fmt"

	"github.com/pable/go-chess-report/internal/aggregator"
	"github.com/pable/go-chess-report/internal/model"
)

// Finding returns a one-line, data-derived observation for a section, or ""
// when the section has nothing to observe.
func Finding(id SectionID, r model.Report) string {
	switch id {
	case SectionOverview:
		if r.Overview.Games == 0 {
			return ""
		}
		return fmt.Sprintf("The dataset holds %d games between %d players, using %d openings and %d time controls.",
			r.Overview.Games, r.Overview.Players, r.Overview.Openings, r.Overview.TimeControls)

	case SectionOutcomes:
		total := aggregator.DecisiveTotal(r.OutcomeByWinner)
		if total == 0 {
			return ""
		}
		white := 0
		for _, row := range r.OutcomeByWinner {
			if row.Winner == model.WinnerWhite {
				white += row.Count
			}
		}
		ws := float64(white) / float64(total) * 100
		return fmt.Sprintf("White won %.1f%% of %d decisive games and black %.1f%%, a gap of %.1f points.",
			ws, total, 100-ws, ws-(100-ws))

	case SectionLength:
		if len(r.Distributions) == 0 {
			return ""
		}
		lo, hi := r.Distributions[0], r.Distributions[0]
		for _, d := range r.Distributions[1:] {
			if d.Turns.Median < lo.Turns.Median {
				lo = d
			}
			if d.Turns.Median > hi.Turns.Median {
				hi = d
			}
		}
		return fmt.Sprintf("Median game length runs from %.0f turns (%s) to %.0f turns (%s).",
			lo.Turns.Median, lo.Outcome, hi.Turns.Median, hi.Outcome)

	case SectionFirstMove:
		if len(r.FirstMoves) == 0 {
			return ""
		}
		best, total := r.FirstMoves[0], 0
		for _, m := range r.FirstMoves {
			total += m.Games
			if m.Games > best.Games {
				best = m
			}
		}
		return fmt.Sprintf("The most common first move is %q, played in %s of games.", best.Move, pct(best.Games, total))

	case SectionRated:
		var rated, unrated int
		for _, row := range r.Rated {
			if row.Rated {
				rated += row.Games
			} else {
				unrated += row.Games
			}
		}
		if rated+unrated == 0 {
			return ""
		}
		return fmt.Sprintf("%s of games were rated and %s unrated.", pct(rated, rated+unrated), pct(unrated, rated+unrated))

	case SectionTimeControl:
		byTC := make(map[string]int)
		var order []string
		for _, row := range r.TimeControl {
			if _, ok := byTC[row.TimeControl]; !ok {
				order = append(order, row.TimeControl)
			}
			byTC[row.TimeControl] += row.Count
		}
		if len(order) == 0 {
			return ""
		}
		best := order[0]
		for _, tc := range order[1:] {
			if byTC[tc] > byTC[best] {
				best = tc
			}
		}
		return fmt.Sprintf("%d ranked time controls; the most played is %s with %d games.", len(order), best, byTC[best])

	case SectionOpenings:
		if len(r.Openings) == 0 {
			return ""
		}
		return fmt.Sprintf("%d distinct opening sequences were played.", len(r.Openings))

	case SectionPlayers:
		if len(r.Players) == 0 {
			return ""
		}
		top := r.Players[0]
		return fmt.Sprintf("The top %d players are shown; %s leads with a rank metric of %.1f over %d games.",
			len(r.Players), top.PlayerID, top.RankMetric, top.GamesPlayed)
	}
	return ""
}
