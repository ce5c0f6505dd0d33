package report

import (
	"github.com/pable/go-chess-report/internal/aggregator"
	"github.com/pable/go-chess-report/internal/model"
	"github.com/pable/go-chess-report/internal/selection"
)

// View holds the three control selections of the report. The zero value
// selects everything.
type View struct {
	Outcomes selection.Selection // multi-select over games, section 2
	Timing   selection.Selection // single-select over the time-control table
	Opening  selection.Selection // exclusive choice of opening proportion column
}

// ParseView resolves raw control values against the outcomes present in ds.
func ParseView(ds *model.Dataset, outcomes []string, timing, opening string) View {
	available := selection.Available(ds.Games)
	return View{
		Outcomes: selection.Parse(outcomes, available),
		Timing:   selection.ParseSingle(timing, available),
		Opening:  selection.ParseSingle(opening, available),
	}
}

// Narrow applies v to a built report. Section 2 is recomputed from the
// selected games; the time-control table is filtered. Opening columns are
// narrowed at render time with OpeningColumns. r itself is not modified.
func Narrow(ds *model.Dataset, r model.Report, v View) model.Report {
	out := r
	if !v.Outcomes.IsAll() {
		games := selection.Games(ds.Games, v.Outcomes)
		out.Scatter = aggregator.TurnScatter(games)
		out.Distributions = aggregator.Distributions(games)
	}
	out.TimeControl = selection.TimeControl(r.TimeControl, v.Timing)
	return out
}

// OpeningColumns returns the outcome columns the opening table shows under v.
func (v View) OpeningColumns() []model.Outcome {
	return selection.OpeningColumns(v.Opening)
}
