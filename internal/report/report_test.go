package report_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-chess-report/internal/aggregator"
	"github.com/pable/go-chess-report/internal/model"
	"github.com/pable/go-chess-report/internal/report"
	"github.com/pable/go-chess-report/internal/selection"
)

func fixture() *model.Dataset {
	mk := func(id string, o model.Outcome, w model.Winner, turns int, tc string) model.Game {
		return model.Game{
			ID: id, Rated: true, Turns: turns, OpeningMoves: 3, Outcome: o, Winner: w,
			TimeControl: tc, WhiteID: "w" + id, WhiteRating: 1500, BlackID: "b" + id, BlackRating: 1400,
			MoveList: "e4 e5", Opening: model.Opening{ShortName: "King's Pawn Game"},
		}
	}
	return &model.Dataset{
		Games: []model.Game{
			mk("1", model.OutcomeMate, model.WinnerWhite, 30, "10+0"),
			mk("2", model.OutcomeResign, model.WinnerBlack, 50, "10+0"),
			mk("3", model.OutcomeDraw, model.WinnerDraw, 90, "15+15"),
		},
		Ranks: []model.TimeControlRank{{TimeControl: "10+0", Rank: 1}, {TimeControl: "15+15", Rank: 4}},
	}
}

func TestPrint_AllSections(t *testing.T) {
	ds := fixture()
	r := aggregator.Build(ds, aggregator.Options{})

	var buf bytes.Buffer
	require.NoError(t, report.Print(&buf, r, report.View{}))
	out := buf.String()

	for _, s := range report.Sections() {
		assert.Contains(t, out, s.Heading())
	}
	assert.Contains(t, out, "White won 50.0% of 2 decisive games")
	assert.Contains(t, out, "King's Pawn Game")
	assert.NotContains(t, out, report.NoData)
}

func TestPrint_UnknownSection(t *testing.T) {
	err := report.Print(&bytes.Buffer{}, model.Report{}, report.View{}, "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestPrint_EmptyTablesShowNoData(t *testing.T) {
	var buf bytes.Buffer
	r := aggregator.Build(&model.Dataset{}, aggregator.Options{})
	require.NoError(t, report.Print(&buf, r, report.View{}, report.SectionOutcomes, report.SectionOpenings, report.SectionPlayers))
	assert.Equal(t, 3, strings.Count(buf.String(), report.NoData))
}

func TestPrintOutcomeByWinner_AllDrawsIsNoData(t *testing.T) {
	var buf bytes.Buffer
	report.PrintOutcomeByWinner(&buf, aggregator.OutcomeByWinner([]model.Game{{Outcome: model.OutcomeDraw, Winner: model.WinnerDraw}}))
	assert.Equal(t, report.NoData+"\n", buf.String())
}

func TestNarrow(t *testing.T) {
	ds := fixture()
	r := aggregator.Build(ds, aggregator.Options{})
	v := report.ParseView(ds, []string{"Mate"}, "Resign", "Draw")

	n := report.Narrow(ds, r, v)
	require.Len(t, n.Scatter, 1)
	assert.Equal(t, model.OutcomeMate, n.Scatter[0].Outcome)
	for _, row := range n.TimeControl {
		assert.Equal(t, model.OutcomeResign, row.Outcome)
	}
	assert.Equal(t, []model.Outcome{model.OutcomeDraw}, v.OpeningColumns())
	assert.Len(t, r.Scatter, 3, "original report must be untouched")
}

func TestParseView_StaleSelectionsFallBackToAll(t *testing.T) {
	ds := fixture()
	v := report.ParseView(ds, []string{"Out of Time"}, "Out of Time", "")
	assert.True(t, v.Outcomes.IsAll())
	assert.True(t, v.Timing.IsAll())
	assert.Equal(t, selection.Selection{}, v.Opening)
}

func TestLookup(t *testing.T) {
	s, ok := report.Lookup("TimeControl")
	require.True(t, ok)
	assert.Equal(t, "5. Game Timing", s.Heading())

	_, ok = report.Lookup("missing")
	assert.False(t, ok)
	assert.Len(t, report.IDs(), len(report.Sections()))
}

func TestPrintQuery(t *testing.T) {
	var buf bytes.Buffer
	report.PrintQuery(&buf, []string{"winner", "games"}, [][]string{{"white", "12"}, {"black", "9"}})
	out := buf.String()
	assert.Contains(t, strings.ToUpper(out), "WINNER")
	assert.Contains(t, out, "white")
	assert.Contains(t, out, "12")
	assert.Contains(t, out, "2 row(s)")

	buf.Reset()
	report.PrintQuery(&buf, []string{"winner"}, nil)
	assert.Equal(t, "Query returned no rows.\n", buf.String())
}
