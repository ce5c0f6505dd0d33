package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pable/go-chess-report/internal/model"
)

// ErrNoSnapshot is returned when nothing has been imported yet.
var ErrNoSnapshot = errors.New("no dataset imported yet")

// SnapshotInfo describes the stored dataset.
type SnapshotInfo struct {
	ImportedAt    time.Time
	GamesSource   string
	RankingSource string
	Games         int
	Ranks         int
}

// ReplaceDataset stores ds in place of any previous snapshot, in one transaction.
func (db *DB) ReplaceDataset(ds *model.Dataset, gamesSource, rankingSource string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, q := range []string{"DELETE FROM games", "DELETE FROM time_control_ranks"} {
		if _, err := tx.Exec(q); err != nil {
			return fmt.Errorf("clear snapshot: %w", err)
		}
	}

	stmt, err := tx.Prepare(`
		INSERT INTO games(
			seq, game_id, rated, turns, victory_status, winner, time_increment,
			white_id, white_rating, black_id, black_rating, moves,
			opening_code, opening_moves, opening_fullname, opening_shortname,
			opening_response, opening_variation
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, g := range ds.Games {
		_, err = stmt.Exec(
			i, g.ID, boolInt(g.Rated), g.Turns, string(g.Outcome), string(g.Winner), g.TimeControl,
			g.WhiteID, g.WhiteRating, g.BlackID, g.BlackRating, g.MoveList,
			g.Opening.Code, g.OpeningMoves, g.Opening.FullName, g.Opening.ShortName,
			g.Opening.Response, g.Opening.Variation,
		)
		if err != nil {
			return fmt.Errorf("insert game %s: %w", g.ID, err)
		}
	}

	for i, r := range ds.Ranks {
		if _, err := tx.Exec(`INSERT INTO time_control_ranks(seq, time_increment, time_rank) VALUES (?, ?, ?)`,
			i, r.TimeControl, r.Rank); err != nil {
			return fmt.Errorf("insert rank %s: %w", r.TimeControl, err)
		}
	}

	_, err = tx.Exec(`
		INSERT INTO imports(imported_at, games_source, ranking_source, games, ranks)
		VALUES (?, ?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339), gamesSource, rankingSource, len(ds.Games), len(ds.Ranks),
	)
	if err != nil {
		return fmt.Errorf("record import: %w", err)
	}
	return tx.Commit()
}

// LoadDataset reads the snapshot back in its original row order.
func (db *DB) LoadDataset() (*model.Dataset, error) {
	if _, err := db.Info(); err != nil {
		return nil, err
	}

	rows, err := db.conn.Query(`
		SELECT game_id, rated, turns, victory_status, winner, time_increment,
		       white_id, white_rating, black_id, black_rating, moves,
		       opening_code, opening_moves, opening_fullname, opening_shortname,
		       opening_response, opening_variation
		FROM games ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ds := &model.Dataset{}
	for rows.Next() {
		var (
			g               model.Game
			rated           int
			outcome, winner string
		)
		if err := rows.Scan(
			&g.ID, &rated, &g.Turns, &outcome, &winner, &g.TimeControl,
			&g.WhiteID, &g.WhiteRating, &g.BlackID, &g.BlackRating, &g.MoveList,
			&g.Opening.Code, &g.OpeningMoves, &g.Opening.FullName, &g.Opening.ShortName,
			&g.Opening.Response, &g.Opening.Variation,
		); err != nil {
			return nil, err
		}
		g.Rated = rated != 0
		if g.Outcome, err = model.ParseOutcome(outcome); err != nil {
			return nil, fmt.Errorf("game %s: %w", g.ID, err)
		}
		if g.Winner, err = model.ParseWinner(winner); err != nil {
			return nil, fmt.Errorf("game %s: %w", g.ID, err)
		}
		ds.Games = append(ds.Games, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	rrows, err := db.conn.Query(`SELECT time_increment, time_rank FROM time_control_ranks ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rrows.Close()
	for rrows.Next() {
		var r model.TimeControlRank
		if err := rrows.Scan(&r.TimeControl, &r.Rank); err != nil {
			return nil, err
		}
		ds.Ranks = append(ds.Ranks, r)
	}
	return ds, rrows.Err()
}

// Info returns the latest import, or ErrNoSnapshot.
func (db *DB) Info() (*SnapshotInfo, error) {
	var (
		info SnapshotInfo
		at   string
	)
	err := db.conn.QueryRow(`
		SELECT imported_at, games_source, ranking_source, games, ranks
		FROM imports ORDER BY id DESC LIMIT 1`).
		Scan(&at, &info.GamesSource, &info.RankingSource, &info.Games, &info.Ranks)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, err
	}
	if info.ImportedAt, err = time.Parse(time.RFC3339, at); err != nil {
		return nil, fmt.Errorf("parse import time %q: %w", at, err)
	}
	return &info, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
