package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pable/go-chess-report/internal/aggregator"
	"github.com/pable/go-chess-report/internal/model"
	"github.com/pable/go-chess-report/internal/report"
	"github.com/pable/go-chess-report/internal/selection"
)

func TestSplitArgs(t *testing.T) {
	got, err := splitArgs(`report timecontrol --timing "Out of Time"  length`)
	if err != nil {
		t.Fatalf("splitArgs: %v", err)
	}
	want := []string{"report", "timecontrol", "--timing", "Out of Time", "length"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("tokens (-want +got):\n%s", diff)
	}

	if _, err := splitArgs(`set timing "Out of`); err == nil {
		t.Error("expected error for unterminated quote")
	}
}

func TestParseReportArgs(t *testing.T) {
	base := viewFlags{outcomes: []string{"Draw"}, timing: "Mate"}
	sections, vf, err := parseReportArgs(
		[]string{"length", "--outcome=Mate", "--outcome", "Resign", "openings", "--opening=Draw"}, base)
	if err != nil {
		t.Fatalf("parseReportArgs: %v", err)
	}
	if diff := cmp.Diff([]string{"length", "openings"}, sections); diff != "" {
		t.Errorf("sections (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Mate", "Resign"}, vf.outcomes); diff != "" {
		t.Errorf("outcomes (-want +got):\n%s", diff)
	}
	if vf.timing != "Mate" || vf.opening != "Draw" {
		t.Errorf("unexpected flags: %+v", vf)
	}
	// The session's selections are untouched.
	if diff := cmp.Diff([]string{"Draw"}, base.outcomes); diff != "" {
		t.Errorf("base modified (-want +got):\n%s", diff)
	}

	if _, _, err := parseReportArgs([]string{"--colour=white"}, viewFlags{}); err == nil {
		t.Error("expected error for unknown option")
	}
	if _, _, err := parseReportArgs([]string{"--timing"}, viewFlags{}); err == nil {
		t.Error("expected error for missing value")
	}
}

func TestSectionArgs(t *testing.T) {
	ids, err := sectionArgs([]string{"Outcomes", "players"})
	if err != nil {
		t.Fatalf("sectionArgs: %v", err)
	}
	if diff := cmp.Diff([]report.SectionID{report.SectionOutcomes, report.SectionPlayers}, ids); diff != "" {
		t.Errorf("ids (-want +got):\n%s", diff)
	}
	if _, err := sectionArgs([]string{"heatmap"}); err == nil {
		t.Error("expected error for unknown section")
	}
}

func testDataset() *model.Dataset {
	return &model.Dataset{
		Games: []model.Game{
			{ID: "1", Rated: true, Turns: 20, OpeningMoves: 2, Outcome: model.OutcomeMate, Winner: model.WinnerWhite,
				TimeControl: "5+0", WhiteID: "ann", WhiteRating: 1700, BlackID: "ben", BlackRating: 1650,
				MoveList: "e4 e5", Opening: model.Opening{ShortName: "King's Pawn Game"}},
			{ID: "2", Rated: true, Turns: 44, OpeningMoves: 3, Outcome: model.OutcomeDraw, Winner: model.WinnerDraw,
				TimeControl: "5+0", WhiteID: "ben", WhiteRating: 1655, BlackID: "cat", BlackRating: 1400,
				MoveList: "c4 e5", Opening: model.Opening{ShortName: "English Opening"}},
		},
		Ranks: []model.TimeControlRank{{TimeControl: "5+0", Rank: 1}},
	}
}

func TestFindPlayers(t *testing.T) {
	rows, missing := findPlayers(testDataset(), []string{"cat", "nobody", "ben"})
	if len(rows) != 2 || rows[0].PlayerID != "cat" || rows[1].PlayerID != "ben" {
		t.Errorf("unexpected rows: %+v", rows)
	}
	if rows[1].GamesPlayed != 2 {
		t.Errorf("ben: expected 2 games, got %d", rows[1].GamesPlayed)
	}
	if diff := cmp.Diff([]string{"nobody"}, missing); diff != "" {
		t.Errorf("missing (-want +got):\n%s", diff)
	}
}

func TestAnalysisContext(t *testing.T) {
	ds := testDataset()
	v := report.View{Opening: selection.Of(model.OutcomeDraw)}
	data, err := analysisContext(aggregator.Build(ds, aggregator.Options{}), v)
	if err != nil {
		t.Fatalf("analysisContext: %v", err)
	}

	var doc struct {
		Overview struct {
			Games int `json:"games"`
		} `json:"overview"`
		Selections struct {
			Opening []string `json:"opening"`
		} `json:"selections"`
		Openings []struct {
			Opening string             `json:"opening"`
			Shares  map[string]float64 `json:"shares"`
		} `json:"openings_top_played"`
		Rated map[string]int `json:"rated"`
	}
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.Overview.Games != 2 {
		t.Errorf("expected 2 games, got %d", doc.Overview.Games)
	}
	if diff := cmp.Diff([]string{"Draw"}, doc.Selections.Opening); diff != "" {
		t.Errorf("opening selection (-want +got):\n%s", diff)
	}
	for _, o := range doc.Openings {
		if len(o.Shares) != 1 {
			t.Errorf("%s: expected only the Draw share, got %v", o.Opening, o.Shares)
		}
	}
	if doc.Rated[model.RatedLabel(true)] != 2 {
		t.Errorf("expected 2 rated games, got %v", doc.Rated)
	}
}

func TestRound3(t *testing.T) {
	if got := round3(1.0 / 3); got != 0.333 {
		t.Errorf("round3(1/3) = %v", got)
	}
}

func TestRemoveSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chess.db")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	removed, err := removeSnapshot(path)
	if err != nil || !removed {
		t.Fatalf("first remove = %v, %v; want true, nil", removed, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("snapshot still present: %v", err)
	}

	removed, err = removeSnapshot(path)
	if err != nil || removed {
		t.Errorf("second remove = %v, %v; want false, nil", removed, err)
	}
}
