package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-chess-report/internal/loader"
	"github.com/pable/go-chess-report/internal/storage"
)

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Fetch both sources and store them as the local snapshot",
	Long: `Fetch the games table and the time-control ranking and replace the SQLite
snapshot with them. Later commands can read it with --from-db.`,
	Args: cobra.NoArgs,
	RunE: runImport,
}

func runImport(cmd *cobra.Command, args []string) error {
	src := cfg.LoaderSources()
	ds, rep, err := loader.Load(cmd.Context(), src,
		loader.WithHTTPClient(loader.NewHTTPClient(cfg.Sources.Timeout)),
		loader.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open storage: %w", err)
	}
	defer db.Close()

	if err := db.ReplaceDataset(ds, src.Games, src.Ranking); err != nil {
		return fmt.Errorf("store snapshot: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Imported %d games and %d time-control ranks into %s\n", rep.Games, rep.Ranks, cfg.DBPath)
	return nil
}
