// Package report renders the chess games report as terminal tables and
// holds the section catalogue shared by every renderer.
package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-chess-report/internal/aggregator"
	"github.com/pable/go-chess-report/internal/model"
)

// NoData replaces a table or chart whose input is empty.
const NoData = "No data available to plot."

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignRight},
		},
		Header: tw.CellConfig{
			Alignment: tw.CellAlignment{Global: tw.AlignCenter},
		},
	}))
}

func printNoData(w io.Writer) {
	fmt.Fprintln(w, NoData)
}

func pct(part, whole int) string {
	if whole == 0 {
		return "—"
	}
	return fmt.Sprintf("%.1f%%", float64(part)/float64(whole)*100)
}

// Print writes the given sections, or every section when ids is empty. r is
// expected to be narrowed to v already (see Narrow).
func Print(w io.Writer, r model.Report, v View, ids ...SectionID) error {
	if len(ids) == 0 {
		for _, s := range sections {
			ids = append(ids, s.ID)
		}
	}
	for _, id := range ids {
		s, ok := Lookup(string(id))
		if !ok {
			return fmt.Errorf("unknown section %q", id)
		}
		fmt.Fprintf(w, "\n=== %s ===\n\n", s.Heading())
		fmt.Fprintln(w, s.Narrative)
		if f := Finding(s.ID, r); f != "" {
			fmt.Fprintln(w, f)
		}
		fmt.Fprintln(w)
		if s.Caption != "" {
			fmt.Fprintln(w, s.Caption)
		}
		PrintSection(w, s.ID, r, v)
	}
	return nil
}

// PrintSection writes the table for one section.
func PrintSection(w io.Writer, id SectionID, r model.Report, v View) {
	switch id {
	case SectionOverview:
		PrintOverview(w, r.Overview)
	case SectionOutcomes:
		PrintOutcomeByWinner(w, r.OutcomeByWinner)
	case SectionLength:
		PrintDistributions(w, r.Distributions)
	case SectionFirstMove:
		PrintFirstMoves(w, r.FirstMoves)
	case SectionRated:
		PrintRated(w, r.Rated)
	case SectionTimeControl:
		PrintTimeControl(w, r.TimeControl)
	case SectionOpenings:
		PrintOpenings(w, r.Openings, v.OpeningColumns())
	case SectionPlayers:
		PrintPlayers(w, r.Players)
	}
}

// PrintOverview prints headline dataset counts.
func PrintOverview(w io.Writer, ov model.Overview) {
	if ov.Games == 0 {
		printNoData(w)
		return
	}
	table := newTable(w)
	table.Header("METRIC", "VALUE")
	table.Append("Games", strconv.Itoa(ov.Games))
	table.Append("Players", strconv.Itoa(ov.Players))
	table.Append("Openings", strconv.Itoa(ov.Openings))
	table.Append("Time controls", fmt.Sprintf("%d (%d ranked)", ov.TimeControls, ov.RankedTimeControls))
	table.Append("Games without rank", strconv.Itoa(ov.UnmatchedGames))
	table.Append("Turns", fmt.Sprintf("%d – %d", ov.MinTurns, ov.MaxTurns))
	table.Append("Ratings", fmt.Sprintf("%d – %d", ov.MinRating, ov.MaxRating))
	table.Append("Outcome/winner disagree", strconv.Itoa(ov.OutcomeWinnerMisfit))
	table.Render()
}

// PrintOutcomeByWinner prints decisive games pivoted to one row per outcome
// with a column per winning side.
func PrintOutcomeByWinner(w io.Writer, rows []model.OutcomeWinnerCount) {
	total := aggregator.DecisiveTotal(rows)
	if total == 0 {
		printNoData(w)
		return
	}
	type key struct {
		o model.Outcome
		w model.Winner
	}
	counts := make(map[key]int, len(rows))
	var outcomes []model.Outcome
	seen := make(map[model.Outcome]bool)
	for _, r := range rows {
		counts[key{r.Outcome, r.Winner}] = r.Count
		if !seen[r.Outcome] {
			seen[r.Outcome] = true
			outcomes = append(outcomes, r.Outcome)
		}
	}

	table := newTable(w)
	table.Header("OUTCOME", "WHITE", "BLACK", "TOTAL")
	var white, black int
	for _, o := range outcomes {
		wc, bc := counts[key{o, model.WinnerWhite}], counts[key{o, model.WinnerBlack}]
		white += wc
		black += bc
		table.Append(string(o), strconv.Itoa(wc), strconv.Itoa(bc), strconv.Itoa(wc+bc))
	}
	table.Append("All", fmt.Sprintf("%d (%s)", white, pct(white, total)),
		fmt.Sprintf("%d (%s)", black, pct(black, total)), strconv.Itoa(total))
	table.Render()
}

// PrintDistributions prints box statistics of turns and opening moves per outcome.
func PrintDistributions(w io.Writer, dists []model.OutcomeDistribution) {
	if len(dists) == 0 {
		printNoData(w)
		return
	}
	table := newTable(w)
	table.Header("OUTCOME", "MEASURE", "N", "MIN", "LOW", "Q1", "MEDIAN", "Q3", "HIGH", "MAX", "OUTLIERS")
	for _, d := range dists {
		for _, m := range []struct {
			name string
			b    model.BoxStats
		}{
			{"Total turns", d.Turns},
			{"Opening moves", d.OpeningMoves},
		} {
			table.Append(
				string(d.Outcome),
				m.name,
				strconv.Itoa(m.b.N),
				fmt.Sprintf("%.0f", m.b.Min),
				fmt.Sprintf("%.0f", m.b.LowerFence),
				fmt.Sprintf("%.1f", m.b.Q1),
				fmt.Sprintf("%.1f", m.b.Median),
				fmt.Sprintf("%.1f", m.b.Q3),
				fmt.Sprintf("%.0f", m.b.UpperFence),
				fmt.Sprintf("%.0f", m.b.Max),
				strconv.Itoa(m.b.Outliers),
			)
		}
	}
	table.Render()
}

// PrintFirstMoves prints first-move frequencies.
func PrintFirstMoves(w io.Writer, rows []model.FirstMoveCount) {
	if len(rows) == 0 {
		printNoData(w)
		return
	}
	total := 0
	for _, r := range rows {
		total += r.Games
	}
	table := newTable(w)
	table.Header("FIRST MOVE", "GAMES", "SHARE")
	for _, r := range rows {
		table.Append(r.Move, strconv.Itoa(r.Games), pct(r.Games, total))
	}
	table.Render()
}

// PrintRated prints the rated and unrated game counts.
func PrintRated(w io.Writer, rows []model.RatedCount) {
	total := 0
	for _, r := range rows {
		total += r.Games
	}
	if total == 0 {
		printNoData(w)
		return
	}
	table := newTable(w)
	table.Header("TYPE", "GAMES", "SHARE")
	for _, r := range rows {
		table.Append(model.RatedLabel(r.Rated), strconv.Itoa(r.Games), pct(r.Games, total))
	}
	table.Render()
}

// PrintTimeControl prints game counts per time-control rank, one column per
// outcome present in rows.
func PrintTimeControl(w io.Writer, rows []model.TimeControlOutcome) {
	if len(rows) == 0 {
		printNoData(w)
		return
	}
	type key struct {
		rank int
		tc   string
	}
	var keys []key
	var outcomes []model.Outcome
	seenKey := make(map[key]bool)
	seenOutcome := make(map[model.Outcome]bool)
	counts := make(map[key]map[model.Outcome]int)
	for _, r := range rows {
		k := key{r.Rank, r.TimeControl}
		if !seenKey[k] {
			seenKey[k] = true
			keys = append(keys, k)
			counts[k] = make(map[model.Outcome]int)
		}
		if !seenOutcome[r.Outcome] {
			seenOutcome[r.Outcome] = true
			outcomes = append(outcomes, r.Outcome)
		}
		counts[k][r.Outcome] = r.Count
	}
	sort.SliceStable(keys, func(i, j int) bool { return keys[i].rank < keys[j].rank })

	header := []any{"RANK", "TIME CONTROL"}
	for _, o := range outcomes {
		header = append(header, string(o))
	}
	table := newTable(w)
	table.Header(header...)
	for _, k := range keys {
		row := []any{strconv.Itoa(k.rank), k.tc}
		for _, o := range outcomes {
			row = append(row, strconv.Itoa(counts[k][o]))
		}
		table.Append(row...)
	}
	table.Render()
}

// PrintOpenings prints per-opening outcome shares for the given columns.
func PrintOpenings(w io.Writer, rows []model.OpeningOutcome, cols []model.Outcome) {
	if len(rows) == 0 || len(cols) == 0 {
		printNoData(w)
		return
	}
	header := []any{"OPENING", "GAMES"}
	for _, o := range cols {
		header = append(header, string(o))
	}
	table := newTable(w)
	table.Header(header...)
	for _, r := range rows {
		row := []any{r.Opening, strconv.Itoa(r.Total)}
		for _, o := range cols {
			row = append(row, fmt.Sprintf("%.1f%%", r.Proportion(o)*100))
		}
		table.Append(row...)
	}
	table.Render()
}

// PrintPlayers prints the player leaderboard.
func PrintPlayers(w io.Writer, rows []model.PlayerSummary) {
	if len(rows) == 0 {
		printNoData(w)
		return
	}
	table := newTable(w)
	table.Header(
		"#", "PLAYER", "GAMES", "MATE", "RESIGN", "TIMEOUT", "DRAW",
		"TIME", "OPENING", "HIGHEST", "AVG_HI_LO", "RATED", "UNRATED", "RANK",
	)
	for i, s := range rows {
		table.Append(
			strconv.Itoa(i+1),
			s.PlayerID,
			strconv.Itoa(s.GamesPlayed),
			strconv.Itoa(s.Checkmates),
			strconv.Itoa(s.Resignations),
			strconv.Itoa(s.Timeouts),
			strconv.Itoa(s.Draws),
			s.MostPlayedTime,
			s.MostCommonOpen,
			strconv.Itoa(s.HighestRating),
			fmt.Sprintf("%.1f", s.HighestAvgRating),
			strconv.Itoa(s.RatedGames),
			strconv.Itoa(s.UnratedGames),
			fmt.Sprintf("%.1f", s.RankMetric),
		)
	}
	table.Render()
}

// PrintQuery prints the result of a raw snapshot query, one row per line
// with the column names as header. NULL cells arrive as empty strings.
func PrintQuery(w io.Writer, cols []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "Query returned no rows.")
		return
	}
	table := newTable(w)
	table.Header(anySlice(cols)...)
	for _, row := range rows {
		table.Append(anySlice(row)...)
	}
	table.Render()
	fmt.Fprintf(w, "%d row(s)\n", len(rows))
}

func anySlice(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
