package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"

	"github.com/pable/go-chess-report/internal/aggregator"
	"github.com/pable/go-chess-report/internal/report"
	"github.com/pable/go-chess-report/internal/storage"
)

// summaryCmd is the cobra command for displaying a high-level snapshot overview.
var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show a high-level overview of the imported snapshot",
	Long: `Display where the snapshot came from and when, headline dataset counts,
the most played openings and the games per victory status.`,
	Args: cobra.NoArgs,
	RunE: runSummary,
}

func runSummary(cmd *cobra.Command, args []string) error {
	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	info, err := db.Info()
	if errors.Is(err, storage.ErrNoSnapshot) {
		fmt.Fprintln(os.Stdout, "No snapshot stored yet. Run 'chessreport import' to add one.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("get snapshot info: %w", err)
	}
	ds, err := db.LoadDataset()
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	fmt.Fprintf(os.Stdout, "\n=== Snapshot Summary ===\n\n")
	fmt.Fprintf(os.Stdout, "  Imported at   : %s\n", info.ImportedAt.Local().Format("2006-01-02 15:04"))
	fmt.Fprintf(os.Stdout, "  Games source  : %s\n", info.GamesSource)
	fmt.Fprintf(os.Stdout, "  Ranking source: %s\n", info.RankingSource)
	fmt.Fprintf(os.Stdout, "  Games stored  : %d\n", info.Games)
	fmt.Fprintf(os.Stdout, "  Ranks stored  : %d\n", info.Ranks)

	fmt.Fprintf(os.Stdout, "\n--- Dataset ---\n\n")
	report.PrintOverview(os.Stdout, aggregator.Overview(ds))

	// Most played openings.
	cols, rows, err := db.QueryRaw(`
		SELECT opening_shortname AS opening, COUNT(*) AS games
		FROM games GROUP BY opening_shortname
		ORDER BY games DESC, opening_shortname LIMIT 10`)
	if err != nil {
		return fmt.Errorf("get top openings: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\n--- Most Played Openings ---\n\n")
	report.PrintQuery(os.Stdout, cols, rows)

	// Victory status breakdown.
	_, rows, err = db.QueryRaw(`
		SELECT victory_status, COUNT(*), SUM(rated)
		FROM games GROUP BY victory_status ORDER BY victory_status`)
	if err != nil {
		return fmt.Errorf("get victory statuses: %w", err)
	}
	fmt.Fprintf(os.Stdout, "\n--- Victory Status ---\n\n")
	vt := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
	vt.Header("VICTORY STATUS", "GAMES", "RATED")
	for _, r := range rows {
		vt.Append(r[0], r[1], r[2])
	}
	vt.Render()
	return nil
}
