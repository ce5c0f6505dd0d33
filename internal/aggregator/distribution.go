package aggregator

import (
	"math"
	"sort"

	"github.com/pable/go-chess-report/internal/model"
)

// TurnScatter returns one point per game: total turns against opening moves.
func TurnScatter(games []model.Game) []model.ScatterPoint {
	out := make([]model.ScatterPoint, len(games))
	for i := range games {
		out[i] = model.ScatterPoint{
			Turns:        games[i].Turns,
			OpeningMoves: games[i].OpeningMoves,
			Outcome:      games[i].Outcome,
		}
	}
	return out
}

// Distributions computes box-plot statistics of total turns and of opening
// moves for every outcome present in games, in outcome display order.
func Distributions(games []model.Game) []model.OutcomeDistribution {
	turns := make(map[model.Outcome][]float64)
	opening := make(map[model.Outcome][]float64)
	for i := range games {
		g := &games[i]
		turns[g.Outcome] = append(turns[g.Outcome], float64(g.Turns))
		opening[g.Outcome] = append(opening[g.Outcome], float64(g.OpeningMoves))
	}

	var out []model.OutcomeDistribution
	for _, o := range model.Outcomes {
		if len(turns[o]) == 0 {
			continue
		}
		out = append(out, model.OutcomeDistribution{
			Outcome:      o,
			Turns:        boxStats(turns[o]),
			OpeningMoves: boxStats(opening[o]),
		})
	}
	return out
}

// boxStats sorts xs in place and summarises it. Quartiles use linear
// interpolation between closest ranks; whiskers reach the most extreme
// values within 1.5 IQR of the box.
func boxStats(xs []float64) model.BoxStats {
	if len(xs) == 0 {
		return model.BoxStats{}
	}
	sort.Float64s(xs)
	b := model.BoxStats{
		N:      len(xs),
		Min:    xs[0],
		Max:    xs[len(xs)-1],
		Q1:     quantile(xs, 0.25),
		Median: quantile(xs, 0.5),
		Q3:     quantile(xs, 0.75),
	}
	iqr := b.Q3 - b.Q1
	loLimit, hiLimit := b.Q1-1.5*iqr, b.Q3+1.5*iqr
	b.LowerFence, b.UpperFence = b.Max, b.Min
	for _, x := range xs {
		if x < loLimit || x > hiLimit {
			b.Outliers++
			continue
		}
		b.LowerFence = math.Min(b.LowerFence, x)
		b.UpperFence = math.Max(b.UpperFence, x)
	}
	return b
}

// quantile expects sorted input.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
