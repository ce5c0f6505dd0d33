// Package export writes every report section to an Excel workbook, one
// sheet per section.
package export

import (
	"fmt"
	"io"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/pable/go-chess-report/internal/model"
	"github.com/pable/go-chess-report/internal/report"
)

// sheet is one worksheet's header and rows.
type sheet struct {
	name   string
	header []any
	rows   [][]any
}

// Sheets lists the worksheet names Write produces, in order.
func Sheets() []string {
	var out []string
	for _, s := range buildSheets(model.Report{}, report.View{}) {
		out = append(out, s.name)
	}
	return out
}

// WriteFile writes the workbook to path.
func WriteFile(path string, r model.Report, v report.View) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, r, v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Write encodes r, narrowed to v, as an xlsx workbook.
func Write(w io.Writer, r model.Report, v report.View) error {
	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	defaultSheet := f.GetSheetName(0)
	for i, s := range buildSheets(r, v) {
		if i == 0 {
			if err := f.SetSheetName(defaultSheet, s.name); err != nil {
				return fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return fmt.Errorf("create sheet %s: %w", s.name, err)
		}
		if err := writeSheet(f, s, bold); err != nil {
			return err
		}
	}
	f.SetActiveSheet(0)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, s sheet, headerStyle int) error {
	if err := f.SetSheetRow(s.name, "A1", &s.header); err != nil {
		return fmt.Errorf("%s header: %w", s.name, err)
	}
	last, err := excelize.CoordinatesToCellName(len(s.header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(s.name, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("%s header style: %w", s.name, err)
	}
	if len(s.rows) == 0 {
		return f.SetCellValue(s.name, "A2", report.NoData)
	}
	for i, row := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", s.name, i+2, err)
		}
	}
	return nil
}

func buildSheets(r model.Report, v report.View) []sheet {
	ov := r.Overview
	sheets := []sheet{{
		name:   string(report.SectionOverview),
		header: []any{"metric", "value"},
	}}
	if ov.Games > 0 {
		sheets[0].rows = [][]any{
			{"games", ov.Games},
			{"players", ov.Players},
			{"openings", ov.Openings},
			{"time_controls", ov.TimeControls},
			{"ranked_time_controls", ov.RankedTimeControls},
			{"games_without_rank", ov.UnmatchedGames},
			{"min_turns", ov.MinTurns},
			{"max_turns", ov.MaxTurns},
			{"min_rating", ov.MinRating},
			{"max_rating", ov.MaxRating},
			{"outcome_winner_disagree", ov.OutcomeWinnerMisfit},
		}
	}

	outcomes := sheet{name: string(report.SectionOutcomes), header: []any{"victory_status", "winner", "games"}}
	decisive := 0
	for _, row := range r.OutcomeByWinner {
		decisive += row.Count
	}
	if decisive > 0 {
		for _, row := range r.OutcomeByWinner {
			outcomes.rows = append(outcomes.rows, []any{string(row.Outcome), string(row.Winner), row.Count})
		}
	}

	length := sheet{name: string(report.SectionLength), header: []any{
		"victory_status", "measure", "n", "min", "lower_fence", "q1", "median", "q3", "upper_fence", "max", "outliers",
	}}
	for _, d := range r.Distributions {
		for _, m := range []struct {
			name string
			b    model.BoxStats
		}{{"turns", d.Turns}, {"opening_moves", d.OpeningMoves}} {
			length.rows = append(length.rows, []any{
				string(d.Outcome), m.name, m.b.N, m.b.Min, m.b.LowerFence, m.b.Q1, m.b.Median, m.b.Q3, m.b.UpperFence, m.b.Max, m.b.Outliers,
			})
		}
	}

	scatter := sheet{name: "scatter", header: []any{"turns", "opening_moves", "victory_status"}}
	for _, p := range r.Scatter {
		scatter.rows = append(scatter.rows, []any{p.Turns, p.OpeningMoves, string(p.Outcome)})
	}

	first := sheet{name: string(report.SectionFirstMove), header: []any{"first_move", "games"}}
	for _, m := range r.FirstMoves {
		first.rows = append(first.rows, []any{m.Move, m.Games})
	}

	rated := sheet{name: string(report.SectionRated), header: []any{"rated", "games"}}
	for _, row := range r.Rated {
		rated.rows = append(rated.rows, []any{model.RatedLabel(row.Rated), row.Games})
	}

	timing := sheet{name: string(report.SectionTimeControl), header: []any{"time_rank", "time_increment", "victory_status", "games"}}
	for _, row := range r.TimeControl {
		timing.rows = append(timing.rows, []any{row.Rank, row.TimeControl, string(row.Outcome), row.Count})
	}

	cols := v.OpeningColumns()
	openings := sheet{name: string(report.SectionOpenings), header: []any{"opening_shortname", "games"}}
	for _, o := range cols {
		openings.header = append(openings.header, string(o))
	}
	for _, row := range r.Openings {
		vals := []any{row.Opening, row.Total}
		for _, o := range cols {
			vals = append(vals, row.Proportion(o))
		}
		openings.rows = append(openings.rows, vals)
	}

	players := sheet{name: string(report.SectionPlayers), header: []any{
		"player_id", "games_played", "checkmates", "resignations", "timeouts", "draws",
		"most_played_time", "most_common_opening", "highest_rating", "highest_avg_rating",
		"rated_games", "unrated_games", "rank_metric",
	}}
	for _, s := range r.Players {
		players.rows = append(players.rows, []any{
			s.PlayerID, s.GamesPlayed, s.Checkmates, s.Resignations, s.Timeouts, s.Draws,
			s.MostPlayedTime, s.MostCommonOpen, s.HighestRating, s.HighestAvgRating,
			s.RatedGames, s.UnratedGames, s.RankMetric,
		})
	}

	return append(sheets, outcomes, length, scatter, first, rated, timing, openings, players)
}
