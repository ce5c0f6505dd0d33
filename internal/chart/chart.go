// Package chart draws report sections as SVG or PNG images.
package chart

import (
	"errors"
	"fmt"
	"html"
	"io"
	"sort"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/pable/go-chess-report/internal/model"
	"github.com/pable/go-chess-report/internal/report"
)

// ErrNoData is returned when a section has nothing to draw. Callers show
// report.NoData in its place.
var ErrNoData = errors.New("no data to plot")

// ErrNoChart is returned for sections that are tables only.
var ErrNoChart = errors.New("section has no chart")

// Format selects the image encoding.
type Format int

const (
	SVG Format = iota
	PNG
)

// ParseFormat maps "svg" or "png" to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "svg":
		return SVG, nil
	case "png":
		return PNG, nil
	}
	return SVG, fmt.Errorf("unknown image format %q (want svg or png)", s)
}

// Ext returns the file extension for f, with the dot.
func (f Format) Ext() string {
	if f == PNG {
		return ".png"
	}
	return ".svg"
}

// ContentType returns the MIME type for f.
func (f Format) ContentType() string {
	if f == PNG {
		return "image/png"
	}
	return "image/svg+xml"
}

func (f Format) provider() chart.RendererProvider {
	if f == PNG {
		return chart.PNG
	}
	return chart.SVG
}

const (
	width  = 900
	height = 450
)

// outcomeColor keeps one colour per outcome across every chart.
func outcomeColor(o model.Outcome) drawing.Color {
	for i, v := range model.Outcomes {
		if v == o {
			return chart.GetDefaultColor(i)
		}
	}
	return chart.ColorLightGray
}

// Drawable is any go-chart chart.
type Drawable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

// Render draws section id of r under view v. For SVG, labels taken from the
// data are escaped first; go-chart writes SVG text verbatim.
func Render(w io.Writer, id report.SectionID, r model.Report, v report.View, f Format) error {
	var (
		c   Drawable
		err error
	)
	if f == SVG {
		r = escapeLabels(r)
	}
	switch id {
	case report.SectionOutcomes:
		c, err = OutcomeByWinner(r.OutcomeByWinner)
	case report.SectionLength:
		c, err = TurnScatter(r.Scatter)
	case report.SectionFirstMove:
		c, err = FirstMoves(r.FirstMoves)
	case report.SectionRated:
		c, err = Rated(r.Rated)
	case report.SectionTimeControl:
		c, err = TimeControl(r.TimeControl)
	case report.SectionOpenings:
		c, err = Openings(r.Openings, v.OpeningColumns())
	default:
		return ErrNoChart
	}
	if err != nil {
		return err
	}
	if err := c.Render(f.provider(), w); err != nil {
		return fmt.Errorf("render %s chart: %w", id, err)
	}
	return nil
}

// escapeLabels returns a copy of r whose free-text labels are XML-escaped.
// Outcome and winner names come from fixed enumerations and need none.
func escapeLabels(r model.Report) model.Report {
	moves := make([]model.FirstMoveCount, len(r.FirstMoves))
	for i, m := range r.FirstMoves {
		m.Move = html.EscapeString(m.Move)
		moves[i] = m
	}
	r.FirstMoves = moves

	openings := make([]model.OpeningOutcome, len(r.Openings))
	for i, o := range r.Openings {
		o.Opening = html.EscapeString(o.Opening)
		openings[i] = o
	}
	r.Openings = openings
	return r
}

// HasChart reports whether Render can draw section id.
func HasChart(id report.SectionID) bool {
	switch id {
	case report.SectionOutcomes, report.SectionLength, report.SectionFirstMove,
		report.SectionRated, report.SectionTimeControl, report.SectionOpenings:
		return true
	}
	return false
}

// OutcomeByWinner draws one bar per (winner, outcome) cell, coloured by outcome.
func OutcomeByWinner(rows []model.OutcomeWinnerCount) (*chart.BarChart, error) {
	top := 0
	for _, r := range rows {
		top = max(top, r.Count)
	}
	if top == 0 {
		return nil, ErrNoData
	}
	c := &chart.BarChart{
		Title:      "Wins by side and outcome",
		Width:      width,
		Height:     height,
		BarWidth:   60,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: float64(top)}},
	}
	for _, r := range rows {
		c.Bars = append(c.Bars, chart.Value{
			Label: fmt.Sprintf("%s %s", r.Winner, r.Outcome),
			Value: float64(r.Count),
			Style: chart.Style{FillColor: outcomeColor(r.Outcome), StrokeColor: outcomeColor(r.Outcome)},
		})
	}
	return c, nil
}

// TurnScatter plots total turns against opening moves, one series per outcome.
func TurnScatter(points []model.ScatterPoint) (*chart.Chart, error) {
	if len(points) == 0 {
		return nil, ErrNoData
	}
	xs := make(map[model.Outcome][]float64)
	ys := make(map[model.Outcome][]float64)
	maxX, maxY := 1.0, 1.0
	for _, p := range points {
		x, y := float64(p.Turns), float64(p.OpeningMoves)
		xs[p.Outcome] = append(xs[p.Outcome], x)
		ys[p.Outcome] = append(ys[p.Outcome], y)
		maxX = max(maxX, x)
		maxY = max(maxY, y)
	}

	graph := &chart.Chart{
		Title:  "Total turns vs moves in opening sequence",
		Width:  width,
		Height: height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20},
		},
		XAxis: chart.XAxis{Name: "Total Turns", Range: &chart.ContinuousRange{Min: 0, Max: maxX}},
		YAxis: chart.YAxis{Name: "No. of moves in Opening Sequence", Range: &chart.ContinuousRange{Min: 0, Max: maxY}},
	}
	for _, o := range model.Outcomes {
		if len(xs[o]) == 0 {
			continue
		}
		graph.Series = append(graph.Series, chart.ContinuousSeries{
			Name:    string(o),
			XValues: xs[o],
			YValues: ys[o],
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    2,
				DotColor:    outcomeColor(o),
			},
		})
	}
	graph.Elements = []chart.Renderable{chart.Legend(graph)}
	return graph, nil
}

// FirstMoves draws a bar per first-move token.
func FirstMoves(rows []model.FirstMoveCount) (*chart.BarChart, error) {
	top := 0
	for _, r := range rows {
		top = max(top, r.Games)
	}
	if top == 0 {
		return nil, ErrNoData
	}
	c := &chart.BarChart{
		Title:      "First moves",
		Width:      max(width, 40*len(rows)),
		Height:     height,
		BarWidth:   24,
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: float64(top)}},
	}
	for _, r := range rows {
		c.Bars = append(c.Bars, chart.Value{Label: r.Move, Value: float64(r.Games)})
	}
	return c, nil
}

// Rated draws the rated/unrated split as a pie.
func Rated(rows []model.RatedCount) (*chart.PieChart, error) {
	c := &chart.PieChart{Title: "Rated vs unrated", Width: height, Height: height}
	for _, r := range rows {
		if r.Games == 0 {
			continue
		}
		c.Values = append(c.Values, chart.Value{
			Label: fmt.Sprintf("%s (%d)", model.RatedLabel(r.Rated), r.Games),
			Value: float64(r.Games),
		})
	}
	if len(c.Values) == 0 {
		return nil, ErrNoData
	}
	return c, nil
}

// TimeControl draws one line per outcome across time-control ranks.
func TimeControl(rows []model.TimeControlOutcome) (*chart.Chart, error) {
	// Descriptors sharing a rank repeat the rank's count; keep one per rank.
	type key struct {
		o    model.Outcome
		rank int
	}
	counts := make(map[key]int)
	ranks := make(map[model.Outcome][]int)
	maxY, minR, maxR := 0, 0, 0
	first := true
	for _, r := range rows {
		k := key{r.Outcome, r.Rank}
		if _, ok := counts[k]; ok {
			continue
		}
		counts[k] = r.Count
		ranks[r.Outcome] = append(ranks[r.Outcome], r.Rank)
		maxY = max(maxY, r.Count)
		if first {
			minR, maxR, first = r.Rank, r.Rank, false
		}
		minR = min(minR, r.Rank)
		maxR = max(maxR, r.Rank)
	}
	if maxY == 0 {
		return nil, ErrNoData
	}

	graph := &chart.Chart{
		Title:      "Game outcomes by time-control rank",
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 20}},
		XAxis:      chart.XAxis{Name: "Time control rank", Range: &chart.ContinuousRange{Min: float64(minR - 1), Max: float64(maxR + 1)}},
		YAxis:      chart.YAxis{Name: "Games", Range: &chart.ContinuousRange{Min: 0, Max: float64(maxY)}},
	}
	for _, o := range model.Outcomes {
		rs := ranks[o]
		if len(rs) == 0 {
			continue
		}
		sort.Ints(rs)
		s := chart.ContinuousSeries{
			Name:  string(o),
			Style: chart.Style{StrokeColor: outcomeColor(o), StrokeWidth: 2, DotWidth: 3, DotColor: outcomeColor(o)},
		}
		for _, rank := range rs {
			s.XValues = append(s.XValues, float64(rank))
			s.YValues = append(s.YValues, float64(counts[key{o, rank}]))
		}
		graph.Series = append(graph.Series, s)
	}
	graph.Elements = []chart.Renderable{chart.Legend(graph)}
	return graph, nil
}

// Openings draws each opening's outcome shares: stacked to 100% when every
// column is shown, or a plain bar per opening for a single column.
func Openings(rows []model.OpeningOutcome, cols []model.Outcome) (Drawable, error) {
	if len(cols) == 1 {
		return openingShare(rows, cols[0])
	}
	c := &chart.StackedBarChart{
		Title:      "Outcome share per opening",
		Height:     height + 150,
		BarSpacing: 4,
		Background: chart.Style{Padding: chart.Box{Top: 40, Bottom: 150}},
	}
	for _, r := range rows {
		bar := chart.StackedBar{Name: r.Opening, Width: 14}
		for _, o := range cols {
			p := r.Proportion(o)
			if p == 0 {
				continue
			}
			bar.Values = append(bar.Values, chart.Value{
				Label: string(o),
				Value: p,
				Style: chart.Style{FillColor: outcomeColor(o), StrokeColor: outcomeColor(o)},
			})
		}
		if len(bar.Values) == 0 {
			continue
		}
		c.Bars = append(c.Bars, bar)
	}
	if len(c.Bars) == 0 {
		return nil, ErrNoData
	}
	c.Width = max(width, 18*len(c.Bars)+100)
	return c, nil
}

func openingShare(rows []model.OpeningOutcome, o model.Outcome) (*chart.BarChart, error) {
	top := 0.0
	for _, r := range rows {
		top = max(top, r.Proportion(o))
	}
	if top == 0 {
		return nil, ErrNoData
	}
	c := &chart.BarChart{
		Title:      fmt.Sprintf("Share of %s per opening", o),
		Width:      max(width, 18*len(rows)+100),
		Height:     height + 150,
		BarWidth:   14,
		BarSpacing: 4,
		Background: chart.Style{Padding: chart.Box{Top: 40, Bottom: 150}},
		YAxis:      chart.YAxis{Range: &chart.ContinuousRange{Min: 0, Max: 1}},
	}
	for _, r := range rows {
		c.Bars = append(c.Bars, chart.Value{
			Label: r.Opening,
			Value: r.Proportion(o),
			Style: chart.Style{FillColor: outcomeColor(o), StrokeColor: outcomeColor(o)},
		})
	}
	return c, nil
}
