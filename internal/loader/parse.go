package loader

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/pable/go-chess-report/internal/model"
)

// Games source column names. Alternatives are tried in order.
var (
	colGameID       = []string{"game_id", "id"}
	colRated        = []string{"rated"}
	colTurns        = []string{"turns"}
	colOutcome      = []string{"victory_status"}
	colWinner       = []string{"winner"}
	colTime         = []string{"time_increment", "increment_code"}
	colWhiteID      = []string{"white_id"}
	colWhiteRating  = []string{"white_rating"}
	colBlackID      = []string{"black_id"}
	colBlackRating  = []string{"black_rating"}
	colMoves        = []string{"moves"}
	colOpeningCode  = []string{"opening_code", "opening_eco"}
	colOpeningMoves = []string{"opening_moves", "opening_ply"}
	colOpeningFull  = []string{"opening_fullname", "opening_name"}
	colOpeningShort = []string{"opening_shortname"}
	colOpeningResp  = []string{"opening_response"}
	colOpeningVar   = []string{"opening_variation"}

	colRank = []string{"time_rank", "time_rank_x", "rank"}
)

var zipMagic = []byte("PK\x03\x04")

// readTable returns every row of a CSV or XLSX source, header first. XLSX is
// chosen by extension or by the zip signature; only the first sheet is read.
func readTable(source string, data []byte) ([][]string, error) {
	if strings.HasSuffix(strings.ToLower(source), ".xlsx") || bytes.HasPrefix(data, zipMagic) {
		return readXLSX(source, data)
	}
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: parse csv: %w", source, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: empty source", source)
	}
	return rows, nil
}

func readXLSX(source string, data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: open xlsx: %w", source, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: workbook has no sheets", source)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%s: read sheet %q: %w", source, sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: sheet %q is empty", source, sheets[0])
	}
	return rows, nil
}

// normalizeHeader lowercases a column name and strips spaces, underscores
// and hyphens, so "White Rating" and "white_rating" match.
func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(s, "\ufeff")))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}

// findColumn returns the index of the first header matching any of names, or -1.
func findColumn(header []string, names []string) int {
	for _, name := range names {
		want := normalizeHeader(name)
		for i, col := range header {
			if normalizeHeader(col) == want {
				return i
			}
		}
	}
	return -1
}

// table is a header-indexed view over parsed rows.
type table struct {
	source string
	header []string
	rows   [][]string
}

func newTable(source string, rows [][]string) *table {
	return &table{source: source, header: rows[0], rows: rows[1:]}
}

// require resolves a required column or returns a *ColumnError.
func (t *table) require(names []string) (int, error) {
	if i := findColumn(t.header, names); i >= 0 {
		return i, nil
	}
	return -1, &ColumnError{Source: t.source, Column: names[0]}
}

// cell returns row r's value at column i; short rows read as empty.
func (t *table) cell(r, i int) string {
	if i < 0 || i >= len(t.rows[r]) {
		return ""
	}
	return strings.TrimSpace(t.rows[r][i])
}

func (t *table) blank(r int) bool {
	for _, v := range t.rows[r] {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func (t *table) cellErr(r, i int, err error) *CellError {
	return &CellError{Source: t.source, Row: r + 2, Column: t.header[i], Value: t.cell(r, i), Err: err}
}

// intCell parses an integer cell. Spreadsheet exports write "12.0", so an
// integral float is accepted.
func (t *table) intCell(r, i int) (int, error) {
	v := t.cell(r, i)
	if n, err := strconv.Atoi(v); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, t.cellErr(r, i, errors.New("not an integer"))
	}
	if f != math.Trunc(f) {
		return 0, t.cellErr(r, i, errors.New("not an integer"))
	}
	return int(f), nil
}

// gameColumns holds resolved column indices for the games source.
type gameColumns struct {
	id, rated, turns, outcome, winner, time                    int
	whiteID, whiteRating, blackID, blackRating, moves          int
	openCode, openMoves, openFull, openShort, openResp, openVar int
}

func resolveGameColumns(t *table) (gameColumns, error) {
	var c gameColumns
	required := []struct {
		dst   *int
		names []string
	}{
		{&c.id, colGameID},
		{&c.rated, colRated},
		{&c.turns, colTurns},
		{&c.outcome, colOutcome},
		{&c.winner, colWinner},
		{&c.time, colTime},
		{&c.whiteID, colWhiteID},
		{&c.whiteRating, colWhiteRating},
		{&c.blackID, colBlackID},
		{&c.blackRating, colBlackRating},
		{&c.moves, colMoves},
		{&c.openCode, colOpeningCode},
		{&c.openMoves, colOpeningMoves},
		{&c.openFull, colOpeningFull},
		{&c.openShort, colOpeningShort},
		{&c.openResp, colOpeningResp},
		{&c.openVar, colOpeningVar},
	}
	for _, r := range required {
		i, err := t.require(r.names)
		if err != nil {
			return c, err
		}
		*r.dst = i
	}
	return c, nil
}

// ParseGames parses the games source. Missing columns and malformed values
// are fatal. Rows that break soft invariants are kept and counted in the
// returned warnings.
func ParseGames(source string, data []byte) ([]model.Game, Warnings, error) {
	var warn Warnings
	rows, err := readTable(source, data)
	if err != nil {
		return nil, warn, err
	}
	t := newTable(source, rows)
	c, err := resolveGameColumns(t)
	if err != nil {
		return nil, warn, err
	}

	games := make([]model.Game, 0, len(t.rows))
	for r := range t.rows {
		if t.blank(r) {
			continue
		}
		g, err := parseGame(t, c, r)
		if err != nil {
			return nil, warn, err
		}
		if g.Turns < g.OpeningMoves {
			warn.OpeningExceedsTurns++
		}
		if (g.Outcome == model.OutcomeDraw) != (g.Winner == model.WinnerDraw) {
			warn.DrawMismatch++
		}
		games = append(games, g)
	}
	return games, warn, nil
}

func parseGame(t *table, c gameColumns, r int) (model.Game, error) {
	g := model.Game{
		ID:          t.cell(r, c.id),
		TimeControl: t.cell(r, c.time),
		WhiteID:     t.cell(r, c.whiteID),
		BlackID:     t.cell(r, c.blackID),
		MoveList:    t.cell(r, c.moves),
		Opening: model.Opening{
			Code:      t.cell(r, c.openCode),
			FullName:  t.cell(r, c.openFull),
			ShortName: t.cell(r, c.openShort),
			Response:  t.cell(r, c.openResp),
			Variation: t.cell(r, c.openVar),
		},
	}

	var err error
	if g.Rated, err = strconv.ParseBool(t.cell(r, c.rated)); err != nil {
		return g, t.cellErr(r, c.rated, errors.New("not a boolean"))
	}
	if g.Turns, err = t.intCell(r, c.turns); err != nil {
		return g, err
	}
	if g.Turns < 0 {
		return g, t.cellErr(r, c.turns, errors.New("negative"))
	}
	if g.OpeningMoves, err = t.intCell(r, c.openMoves); err != nil {
		return g, err
	}
	if g.OpeningMoves < 0 {
		return g, t.cellErr(r, c.openMoves, errors.New("negative"))
	}
	if g.WhiteRating, err = t.intCell(r, c.whiteRating); err != nil {
		return g, err
	}
	if g.BlackRating, err = t.intCell(r, c.blackRating); err != nil {
		return g, err
	}
	if g.Outcome, err = model.ParseOutcome(t.cell(r, c.outcome)); err != nil {
		return g, t.cellErr(r, c.outcome, err)
	}
	if g.Winner, err = model.ParseWinner(t.cell(r, c.winner)); err != nil {
		return g, t.cellErr(r, c.winner, err)
	}
	return g, nil
}

// ParseRanking parses the time-control ranking source. A row with a blank
// rank cannot be placed on the time-control axis; it is skipped and counted
// in the second return value. A non-numeric rank is fatal.
func ParseRanking(source string, data []byte) ([]model.TimeControlRank, int, error) {
	rows, err := readTable(source, data)
	if err != nil {
		return nil, 0, err
	}
	t := newTable(source, rows)
	timeCol, err := t.require(colTime)
	if err != nil {
		return nil, 0, err
	}
	rankCol, err := t.require(colRank)
	if err != nil {
		return nil, 0, err
	}

	ranks := make([]model.TimeControlRank, 0, len(t.rows))
	skipped := 0
	for r := range t.rows {
		if t.blank(r) {
			continue
		}
		if t.cell(r, rankCol) == "" {
			skipped++
			continue
		}
		rank, err := t.intCell(r, rankCol)
		if err != nil {
			return nil, 0, err
		}
		ranks = append(ranks, model.TimeControlRank{TimeControl: t.cell(r, timeCol), Rank: rank})
	}
	return ranks, skipped, nil
}
