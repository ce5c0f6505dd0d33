package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-chess-report/internal/aggregator"
	"github.com/pable/go-chess-report/internal/loader"
	"github.com/pable/go-chess-report/internal/model"
	"github.com/pable/go-chess-report/internal/report"
	"github.com/pable/go-chess-report/internal/storage"
)

// loadDataset reads the snapshot with --from-db, otherwise fetches both sources.
func loadDataset(ctx context.Context) (*model.Dataset, error) {
	if fromDB {
		db, err := storage.Open(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		defer db.Close()

		ds, err := db.LoadDataset()
		if err != nil {
			return nil, fmt.Errorf("load snapshot: %w", err)
		}
		logger.Info("dataset loaded from snapshot", "db", cfg.DBPath, "games", len(ds.Games), "ranks", len(ds.Ranks))
		return ds, nil
	}

	ds, _, err := loader.Load(ctx, cfg.LoaderSources(),
		loader.WithHTTPClient(loader.NewHTTPClient(cfg.Sources.Timeout)),
		loader.WithLogger(logger),
	)
	return ds, err
}

// buildReport applies the configured aggregation options.
func buildReport(ds *model.Dataset) (model.Report, error) {
	first, ok := aggregator.FirstMoveStrategy(cfg.Report.FirstMove)
	if !ok {
		return model.Report{}, fmt.Errorf("unknown first-move strategy %q (want heuristic or san)", cfg.Report.FirstMove)
	}
	return aggregator.Build(ds, aggregator.Options{FirstMove: first, TopPlayers: cfg.Report.TopPlayers}), nil
}

// loadReport is loadDataset followed by buildReport.
func loadReport(ctx context.Context) (*model.Dataset, model.Report, error) {
	ds, err := loadDataset(ctx)
	if err != nil {
		return nil, model.Report{}, err
	}
	r, err := buildReport(ds)
	if err != nil {
		return nil, model.Report{}, err
	}
	return ds, r, nil
}

// viewFlags carries the three selection controls on the command line.
type viewFlags struct {
	outcomes []string
	timing   string
	opening  string
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.outcomes, "outcome", nil, "victory statuses for turns and opening moves (repeatable, default All)")
	cmd.Flags().StringVar(&f.timing, "timing", "", "victory status for the game-timing table (default All)")
	cmd.Flags().StringVar(&f.opening, "opening", "", "outcome column for the opening table (default All)")
}

func (f *viewFlags) view(ds *model.Dataset) report.View {
	return report.ParseView(ds, f.outcomes, f.timing, f.opening)
}

// sectionArgs resolves section ids given as arguments.
func sectionArgs(args []string) ([]report.SectionID, error) {
	var ids []report.SectionID
	for _, a := range args {
		s, ok := report.Lookup(a)
		if !ok {
			return nil, fmt.Errorf("unknown section %q (want one of %s)", a, strings.Join(report.IDs(), ", "))
		}
		ids = append(ids, s.ID)
	}
	return ids, nil
}
