package chart_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-chess-report/internal/aggregator"
	"github.com/pable/go-chess-report/internal/chart"
	"github.com/pable/go-chess-report/internal/model"
	"github.com/pable/go-chess-report/internal/report"
	"github.com/pable/go-chess-report/internal/selection"
)

func dataset() *model.Dataset {
	mk := func(o model.Outcome, w model.Winner, turns, opening int, tc, name string, rated bool) model.Game {
		return model.Game{
			Rated: rated, Turns: turns, OpeningMoves: opening, Outcome: o, Winner: w, TimeControl: tc,
			WhiteID: "a", WhiteRating: 1500, BlackID: "b", BlackRating: 1400, MoveList: "e4 e5",
			Opening: model.Opening{ShortName: name},
		}
	}
	return &model.Dataset{
		Games: []model.Game{
			mk(model.OutcomeMate, model.WinnerWhite, 40, 4, "10+0", "Sicilian Defense", true),
			mk(model.OutcomeResign, model.WinnerBlack, 60, 2, "10+0", "French Defense", false),
			mk(model.OutcomeOutOfTime, model.WinnerWhite, 80, 6, "15+15", "Sicilian Defense", true),
			mk(model.OutcomeDraw, model.WinnerDraw, 120, 3, "15+15", "Ruy Lopez", true),
		},
		Ranks: []model.TimeControlRank{{TimeControl: "10+0", Rank: 1}, {TimeControl: "15+15", Rank: 3}},
	}
}

func TestRender_SVGForEveryChartedSection(t *testing.T) {
	r := aggregator.Build(dataset(), aggregator.Options{})
	for _, id := range report.IDs() {
		sid := report.SectionID(id)
		if !chart.HasChart(sid) {
			continue
		}
		t.Run(id, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, chart.Render(&buf, sid, r, report.View{}, chart.SVG))
			assert.Contains(t, buf.String(), "<svg")
		})
	}
}

func TestRender_PNG(t *testing.T) {
	r := aggregator.Build(dataset(), aggregator.Options{})
	var buf bytes.Buffer
	require.NoError(t, chart.Render(&buf, report.SectionFirstMove, r, report.View{}, chart.PNG))
	assert.Equal(t, []byte("\x89PNG"), buf.Bytes()[:4])
}

func TestRender_SingleOpeningColumn(t *testing.T) {
	r := aggregator.Build(dataset(), aggregator.Options{})
	v := report.View{Opening: selection.Of(model.OutcomeMate)}
	var buf bytes.Buffer
	require.NoError(t, chart.Render(&buf, report.SectionOpenings, r, v, chart.SVG))
	assert.Contains(t, buf.String(), "Share of Mate per opening")
}

func TestRender_NoData(t *testing.T) {
	r := aggregator.Build(&model.Dataset{}, aggregator.Options{})
	for _, id := range []report.SectionID{
		report.SectionOutcomes, report.SectionLength, report.SectionFirstMove,
		report.SectionRated, report.SectionTimeControl, report.SectionOpenings,
	} {
		err := chart.Render(&bytes.Buffer{}, id, r, report.View{}, chart.SVG)
		assert.ErrorIs(t, err, chart.ErrNoData, id)
	}
}

func TestRender_TableOnlySection(t *testing.T) {
	err := chart.Render(&bytes.Buffer{}, report.SectionPlayers, model.Report{}, report.View{}, chart.SVG)
	assert.ErrorIs(t, err, chart.ErrNoChart)
}

func TestOutcomeByWinner_AllDraws(t *testing.T) {
	rows := aggregator.OutcomeByWinner([]model.Game{{Outcome: model.OutcomeDraw, Winner: model.WinnerDraw}})
	_, err := chart.OutcomeByWinner(rows)
	assert.ErrorIs(t, err, chart.ErrNoData)
}

func TestParseFormat(t *testing.T) {
	f, err := chart.ParseFormat(".PNG")
	require.NoError(t, err)
	assert.Equal(t, chart.PNG, f)
	assert.Equal(t, "image/png", f.ContentType())

	_, err = chart.ParseFormat("gif")
	assert.Error(t, err)
}

func TestRender_SVGEscapesDataLabels(t *testing.T) {
	r := model.Report{
		FirstMoves: []model.FirstMoveCount{{Move: "<i>x", Games: 3}, {Move: "e4", Games: 5}},
		Openings: []model.OpeningOutcome{{
			Opening:     "A&B",
			Total:       2,
			Counts:      map[model.Outcome]int{model.OutcomeMate: 1, model.OutcomeDraw: 1},
			Proportions: map[model.Outcome]float64{model.OutcomeMate: 0.5, model.OutcomeDraw: 0.5},
		}},
	}

	var moves bytes.Buffer
	require.NoError(t, chart.Render(&moves, report.SectionFirstMove, r, report.View{}, chart.SVG))
	assert.NotContains(t, moves.String(), "<i>")
	assert.Contains(t, moves.String(), "&lt;i&gt;x")

	for _, v := range []report.View{{}, {Opening: selection.Of(model.OutcomeMate)}} {
		var openings bytes.Buffer
		require.NoError(t, chart.Render(&openings, report.SectionOpenings, r, v, chart.SVG))
		assert.NotContains(t, openings.String(), "A&B")
		assert.Contains(t, openings.String(), "A&amp;B")
	}

	assert.Equal(t, "<i>x", r.FirstMoves[0].Move, "caller's report is not modified")
	assert.Equal(t, "A&B", r.Openings[0].Opening)
}
