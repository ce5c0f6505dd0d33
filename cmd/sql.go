package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-chess-report/internal/report"
	"github.com/pable/go-chess-report/internal/storage"
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query>",
	Short: "Run a raw SQL query against the imported snapshot",
	Long: `Run an arbitrary SQL query against the snapshot written by 'import' and print
the result as a table.

Schema overview:
  imports(id, imported_at, games_source, ranking_source, games, ranks)
  games(seq, game_id, rated, turns, victory_status, winner, time_increment,
    white_id, white_rating, black_id, black_rating, moves, opening_code,
    opening_moves, opening_fullname, opening_shortname, opening_response,
    opening_variation)
  time_control_ranks(seq, time_increment, time_rank)

Example: SELECT winner, COUNT(*) FROM games GROUP BY winner`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSQL,
}

func runSQL(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open snapshot: %w", err)
	}
	defer db.Close()

	cols, rows, err := db.QueryRaw(strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("run query: %w", err)
	}
	report.PrintQuery(cmd.OutOrStdout(), cols, rows)
	return nil
}
