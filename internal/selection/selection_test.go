package selection_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-chess-report/internal/model"
	"github.com/pable/go-chess-report/internal/selection"
)

func game(id string, o model.Outcome) model.Game {
	return model.Game{ID: id, Outcome: o}
}

func TestParse_AllAndEmpty(t *testing.T) {
	assert.True(t, selection.Parse(nil, model.Outcomes).IsAll())
	assert.True(t, selection.Parse([]string{""}, model.Outcomes).IsAll())
	assert.True(t, selection.Parse([]string{"All"}, model.Outcomes).IsAll())
	assert.True(t, selection.Parse([]string{"Mate", "all"}, model.Outcomes).IsAll())
}

func TestParse_KeepsValidSubsetInDisplayOrder(t *testing.T) {
	sel := selection.Parse([]string{"Out of Time", "Mate", "Bogus"}, model.Outcomes)
	require.False(t, sel.IsAll())
	assert.Equal(t, []model.Outcome{model.OutcomeMate, model.OutcomeOutOfTime}, sel.Outcomes())
	assert.Equal(t, "Mate,Out of Time", sel.String())
}

func TestParse_CommaSeparated(t *testing.T) {
	sel := selection.Parse([]string{"Mate,Resign"}, model.Outcomes)
	assert.Equal(t, []model.Outcome{model.OutcomeMate, model.OutcomeResign}, sel.Outcomes())
}

func TestParse_StaleValueIsAll(t *testing.T) {
	available := []model.Outcome{model.OutcomeMate, model.OutcomeResign}
	sel := selection.Parse([]string{"Draw"}, available)
	assert.True(t, sel.IsAll(), "a category absent from the data must behave as All")
}

func TestParseSingle(t *testing.T) {
	assert.Equal(t, []model.Outcome{model.OutcomeDraw}, selection.ParseSingle("draw", model.Outcomes).Outcomes())
	assert.True(t, selection.ParseSingle("Mate,Draw", model.Outcomes).IsAll())
	assert.True(t, selection.ParseSingle("Stalemate", model.Outcomes).IsAll())
}

func TestOptions(t *testing.T) {
	assert.Equal(t, []string{"All", "Mate", "Resign", "Draw", "Out of Time"}, selection.Options(model.Outcomes))
	assert.Equal(t, []string{"All", "Mate"}, selection.Options([]model.Outcome{model.OutcomeMate}))
}

func TestAvailable(t *testing.T) {
	games := []model.Game{game("1", model.OutcomeDraw), game("2", model.OutcomeMate), game("3", model.OutcomeDraw)}
	assert.Equal(t, []model.Outcome{model.OutcomeMate, model.OutcomeDraw}, selection.Available(games))
}

func TestGames(t *testing.T) {
	games := []model.Game{
		game("1", model.OutcomeMate),
		game("2", model.OutcomeDraw),
		game("3", model.OutcomeResign),
	}

	t.Run("all returns input unchanged", func(t *testing.T) {
		got := selection.Games(games, selection.Selection{})
		assert.Equal(t, games, got)
	})

	t.Run("subset", func(t *testing.T) {
		got := selection.Games(games, selection.Of(model.OutcomeMate, model.OutcomeResign))
		require.Len(t, got, 2)
		assert.Equal(t, "1", got[0].ID)
		assert.Equal(t, "3", got[1].ID)
		assert.Len(t, games, 3, "input must not be modified")
	})
}

func TestTimeControl(t *testing.T) {
	rows := []model.TimeControlOutcome{
		{Rank: 1, TimeControl: "10+0", Outcome: model.OutcomeMate, Count: 3},
		{Rank: 1, TimeControl: "10+0", Outcome: model.OutcomeResign, Count: 5},
	}
	assert.Equal(t, rows, selection.TimeControl(rows, selection.Selection{}))

	got := selection.TimeControl(rows, selection.ParseSingle("Resign", model.Outcomes))
	require.Len(t, got, 1)
	assert.Equal(t, 5, got[0].Count)
}

func TestOpeningColumns(t *testing.T) {
	assert.Equal(t, model.Outcomes, selection.OpeningColumns(selection.Selection{}))
	assert.Equal(t, []model.Outcome{model.OutcomeOutOfTime},
		selection.OpeningColumns(selection.ParseSingle("Out of Time", model.Outcomes)))
}

func TestValues(t *testing.T) {
	assert.Equal(t, []string{"All"}, selection.Selection{}.Values())
	assert.Equal(t, []string{"Mate"}, selection.Of(model.OutcomeMate).Values())
}
