package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-chess-report/internal/aggregator"
	"github.com/pable/go-chess-report/internal/model"
	"github.com/pable/go-chess-report/internal/report"
)

// playerCmd prints the player-stats row for one or more players, whether or
// not they make the leaderboard.
var playerCmd = &cobra.Command{
	Use:   "player <player_id> [<player_id>...]",
	Short: "Show player stats for the given players",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPlayer,
}

func runPlayer(cmd *cobra.Command, args []string) error {
	ds, err := loadDataset(cmd.Context())
	if err != nil {
		return err
	}
	rows, missing := findPlayers(ds, args)
	for _, id := range missing {
		fmt.Fprintf(os.Stderr, "No games found for player %q\n", id)
	}
	if len(rows) == 0 {
		return nil
	}
	report.PrintPlayers(os.Stdout, rows)
	return nil
}

// findPlayers returns the summaries of ids in argument order, and the ids
// that play no game.
func findPlayers(ds *model.Dataset, ids []string) ([]model.PlayerSummary, []string) {
	byID := make(map[string]model.PlayerSummary)
	for _, s := range aggregator.PlayerSummaries(ds.Games) {
		byID[s.PlayerID] = s
	}
	var (
		out     []model.PlayerSummary
		missing []string
	)
	for _, id := range ids {
		s, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		out = append(out, s)
	}
	return out, missing
}
