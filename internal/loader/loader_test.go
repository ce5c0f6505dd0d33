package loader_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pable/go-chess-report/internal/loader"
	"github.com/pable/go-chess-report/internal/model"
)

const gamesCSV = `game_id,rated,turns,victory_status,winner,time_increment,white_id,white_rating,black_id,black_rating,moves,opening_code,opening_moves,opening_fullname,opening_shortname,opening_response,opening_variation
1,FALSE,13,Out of Time,White,15+2,bourgris,1500,a-00,1191,d4 d5 c4 c6 cxd5 e6 dxe6 fxe6 Nf3 Bb4+ Nc3 Ba5 Bf4,D10,5,Slav Defense: Exchange Variation,Slav Defense,,Exchange Variation
2,TRUE,16,Resign,Black,5+10,a-00,1322,skinnerua,1261,d4 Nc6 e4 e5 f4 f6 dxe5 fxe5 fxe5 Nxe5 Qd4 Nc6 Qe5+ Nxe5 c4 Bb4+,B00,4,Nimzowitsch Defense: Kennedy Variation,Nimzowitsch Defense,,Kennedy Variation
3,TRUE,61,Mate,White,5+10,ischia,1496,a-00,1500,e4 e5 d3 d6 Be3 c6 Be2 b5 Nd2 a5 a4 c5 axb5 Nc6 bxc6 Ra6 Nc4 a4 c3 a3 Nxa3 Rxa3 Rxa3 c4 dxc4 d5 cxd5 Qxd5 exd5 Be6 Ra8+ Ke7 Bc5+ Kf6 Bxf8 Kg6 Bxg7 Kxg7 dxe6 Kh6 exf7 Nf6 Rxh8 Nh5 Bxh5 Kg5 Rxh7 Kf5 Qf3+ Ke6 Bxe5 Kxe5 Qf5+ Kd6 f8=Q+ Kc6 Qxb5+ Kc7 Qd7#,C20,3,King's Pawn Game: Leonardis Variation,King's Pawn Game,,Leonardis Variation
4,TRUE,95,Draw,Draw,20+0,daniamurashov,1439,adivanov2009,1454,d4 d5 Nf3 Bf5 Nc3 Nf6 Bf4 Ng4 e3 Nc6,D02,3,Queen's Pawn Game: Zukertort Variation,Queen's Pawn Game,,Zukertort Variation
`

const rankingCSV = `time_increment,time_rank_x
15+2,3
5+10,1
`

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/games.csv", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(gamesCSV))
	})
	mux.HandleFunc("/ranking.csv", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(rankingCSV))
	})
	mux.HandleFunc("/broken.csv", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream exploded", http.StatusBadGateway)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{Level: log.ErrorLevel})
}

func TestLoad_FromHTTP(t *testing.T) {
	srv := newServer(t)
	ds, rep, err := loader.Load(context.Background(),
		loader.Sources{Games: srv.URL + "/games.csv", Ranking: srv.URL + "/ranking.csv"},
		loader.WithHTTPClient(srv.Client()), loader.WithLogger(quietLogger()))
	require.NoError(t, err)

	require.Len(t, ds.Games, 4)
	require.Len(t, ds.Ranks, 2)
	assert.Equal(t, 4, rep.Games)
	assert.Equal(t, 1, rep.Warnings.UnrankedGames, "20+0 has no rank")
	assert.Equal(t, map[string]int{"20+0": 1}, rep.Unmatched)

	g := ds.Games[0]
	assert.Equal(t, "1", g.ID)
	assert.False(t, g.Rated)
	assert.Equal(t, model.OutcomeOutOfTime, g.Outcome)
	assert.Equal(t, model.WinnerWhite, g.Winner)
	assert.Equal(t, "15+2", g.TimeControl)
	assert.Equal(t, 1191, g.BlackRating)
	assert.Equal(t, "Slav Defense", g.Opening.ShortName)
	assert.Equal(t, "", g.Opening.Response)

	assert.Equal(t, model.TimeControlRank{TimeControl: "5+10", Rank: 1}, ds.Ranks[1])
}

func TestLoad_HTTPFailureIsFatal(t *testing.T) {
	srv := newServer(t)
	_, _, err := loader.Load(context.Background(),
		loader.Sources{Games: srv.URL + "/broken.csv", Ranking: srv.URL + "/ranking.csv"},
		loader.WithHTTPClient(srv.Client()), loader.WithLogger(quietLogger()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
	assert.Contains(t, err.Error(), "upstream exploded")
	assert.Contains(t, err.Error(), "/broken.csv")
}

func TestLoad_FromFiles(t *testing.T) {
	dir := t.TempDir()
	games := filepath.Join(dir, "games.csv")
	ranking := filepath.Join(dir, "ranking.csv")
	require.NoError(t, os.WriteFile(games, []byte(gamesCSV), 0o644))
	require.NoError(t, os.WriteFile(ranking, []byte(rankingCSV), 0o644))

	ds, _, err := loader.Load(context.Background(), loader.Sources{Games: games, Ranking: ranking},
		loader.WithLogger(quietLogger()))
	require.NoError(t, err)
	assert.Len(t, ds.Games, 4)
}

func TestLoad_MissingFile(t *testing.T) {
	_, _, err := loader.Load(context.Background(),
		loader.Sources{Games: filepath.Join(t.TempDir(), "nope.csv"), Ranking: "x"},
		loader.WithLogger(quietLogger()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.csv")
}

func TestParseGames_MissingColumn(t *testing.T) {
	data := strings.Replace(gamesCSV, "victory_status", "status", 1)
	_, _, err := loader.ParseGames("games.csv", []byte(data))

	var colErr *loader.ColumnError
	require.True(t, errors.As(err, &colErr), "expected *ColumnError, got %v", err)
	assert.Equal(t, "victory_status", colErr.Column)
	assert.Contains(t, err.Error(), "victory_status")
}

// renameColumn replaces one exact header field of gamesCSV.
func renameColumn(column, to string) string {
	header, body, _ := strings.Cut(gamesCSV, "\n")
	fields := strings.Split(header, ",")
	for i, f := range fields {
		if f == column {
			fields[i] = to
		}
	}
	return strings.Join(fields, ",") + "\n" + body
}

func TestParseGames_EveryColumnIsRequired(t *testing.T) {
	header, _, _ := strings.Cut(gamesCSV, "\n")
	for _, column := range strings.Split(header, ",") {
		_, _, err := loader.ParseGames("games.csv", []byte(renameColumn(column, "unused")))

		var colErr *loader.ColumnError
		require.True(t, errors.As(err, &colErr), "%s: expected *ColumnError, got %v", column, err)
		assert.Equal(t, column, colErr.Column)
		assert.Contains(t, err.Error(), column)
	}
}

func TestParseGames_HeaderNormalization(t *testing.T) {
	header := "Game ID,Rated,Turns,Victory Status,Winner,Time-Increment,White ID,White Rating,Black ID,Black Rating,Moves," +
		"Opening Code,Opening Moves,Opening Fullname,Opening Shortname,Opening Response,Opening Variation\n"
	row := "g1,true,10,Mate,Black,10+0,a,1200,b,1300,e4 e5,C20,2,King's Pawn Game: Busch-Gass Gambit,King's Pawn Game,,Busch-Gass Gambit\n"
	games, _, err := loader.ParseGames("games.csv", []byte(header+row))
	require.NoError(t, err)
	require.Len(t, games, 1)
	assert.Equal(t, "g1", games[0].ID)
	assert.Equal(t, model.WinnerBlack, games[0].Winner)
	assert.Equal(t, "C20", games[0].Opening.Code)
	assert.Equal(t, "Busch-Gass Gambit", games[0].Opening.Variation)
}

func TestParseGames_BadCell(t *testing.T) {
	data := strings.Replace(gamesCSV, ",13,Out of Time", ",thirteen,Out of Time", 1)
	_, _, err := loader.ParseGames("games.csv", []byte(data))

	var cellErr *loader.CellError
	require.True(t, errors.As(err, &cellErr), "expected *CellError, got %v", err)
	assert.Equal(t, 2, cellErr.Row)
	assert.Equal(t, "turns", cellErr.Column)
	assert.Equal(t, "thirteen", cellErr.Value)
}

func TestParseGames_UnknownOutcome(t *testing.T) {
	data := strings.Replace(gamesCSV, "Out of Time", "Stalemate", 1)
	_, _, err := loader.ParseGames("games.csv", []byte(data))
	var cellErr *loader.CellError
	require.True(t, errors.As(err, &cellErr))
	assert.Equal(t, "victory_status", cellErr.Column)
}

func TestParseGames_SoftInvariantWarnings(t *testing.T) {
	data := gamesCSV +
		"5,TRUE,2,Mate,White,5+10,x,1000,y,1000,e4 e5,C20,6,King's Pawn,King's Pawn,,\n" +
		"6,TRUE,40,Draw,White,5+10,x,1000,y,1000,e4 e5,C20,2,King's Pawn,King's Pawn,,\n"
	games, warn, err := loader.ParseGames("games.csv", []byte(data))
	require.NoError(t, err)
	assert.Len(t, games, 6, "warned rows are kept")
	assert.Equal(t, 1, warn.OpeningExceedsTurns)
	assert.Equal(t, 1, warn.DrawMismatch)
}

func TestParseRanking_RankColumnAlternatives(t *testing.T) {
	for _, col := range []string{"time_rank", "time_rank_x", "rank"} {
		ranks, _, err := loader.ParseRanking("r.csv", []byte("time_increment,"+col+"\n10+0,2.0\n"))
		require.NoError(t, err, col)
		assert.Equal(t, []model.TimeControlRank{{TimeControl: "10+0", Rank: 2}}, ranks, col)
	}

	_, _, err := loader.ParseRanking("r.csv", []byte("time_increment,position\n10+0,2\n"))
	var colErr *loader.ColumnError
	require.True(t, errors.As(err, &colErr))
	assert.Equal(t, "time_rank", colErr.Column)
}

func TestParseRanking_XLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"time_increment", "time_rank"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"10+0", 4}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	ranks, _, err := loader.ParseRanking("ranking.xlsx", buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []model.TimeControlRank{{TimeControl: "10+0", Rank: 4}}, ranks)
}

func TestParseRanking_BlankRankIsSkipped(t *testing.T) {
	data := "time_increment,time_rank\n10+0,2\n45+45,\n15+0,3\n"
	ranks, skipped, err := loader.ParseRanking("r.csv", []byte(data))
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, []model.TimeControlRank{{TimeControl: "10+0", Rank: 2}, {TimeControl: "15+0", Rank: 3}}, ranks)

	_, _, err = loader.ParseRanking("r.csv", []byte("time_increment,time_rank\n10+0,fast\n"))
	var cellErr *loader.CellError
	require.True(t, errors.As(err, &cellErr), "non-numeric rank stays fatal, got %v", err)
	assert.Equal(t, "time_rank", cellErr.Column)
}

func TestLoad_ReportsBlankRanks(t *testing.T) {
	dir := t.TempDir()
	games := filepath.Join(dir, "games.csv")
	ranking := filepath.Join(dir, "ranking.csv")
	require.NoError(t, os.WriteFile(games, []byte(gamesCSV), 0o644))
	require.NoError(t, os.WriteFile(ranking, []byte(rankingCSV+"20+0,\n"), 0o644))

	ds, rep, err := loader.Load(context.Background(), loader.Sources{Games: games, Ranking: ranking},
		loader.WithLogger(quietLogger()))
	require.NoError(t, err)
	assert.Len(t, ds.Ranks, 2)
	assert.Equal(t, 1, rep.Warnings.BlankRanks)
	assert.Equal(t, 1, rep.Warnings.UnrankedGames, "20+0 stays unranked")
}
