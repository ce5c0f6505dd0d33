package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pable/go-chess-report/internal/chart"
	"github.com/pable/go-chess-report/internal/report"
)

var (
	chartOut    string
	chartFormat string
	chartView   viewFlags
)

var chartCmd = &cobra.Command{
	Use:   "chart <section>",
	Short: "Draw one section's figure as PNG or SVG",
	Long: `Render the figure of a report section to an image file. The format is taken
from --format, or from the extension of --out.

Sections with figures: outcomes, length, firstmove, rated, timecontrol, openings.`,
	Args: cobra.ExactArgs(1),
	RunE: runChart,
}

func init() {
	chartCmd.Flags().StringVarP(&chartOut, "out", "o", "", "output file (default <section>.<format>)")
	chartCmd.Flags().StringVar(&chartFormat, "format", "", "png or svg (default from --out, else png)")
	chartView.register(chartCmd)
}

func runChart(cmd *cobra.Command, args []string) error {
	ids, err := sectionArgs(args)
	if err != nil {
		return err
	}
	id := ids[0]
	if !chart.HasChart(id) {
		return fmt.Errorf("section %q has no figure", id)
	}

	f := chart.PNG
	switch {
	case chartFormat != "":
		if f, err = chart.ParseFormat(chartFormat); err != nil {
			return err
		}
	case chartOut != "":
		if f, err = chart.ParseFormat(filepath.Ext(chartOut)); err != nil {
			return err
		}
	}
	out := chartOut
	if out == "" {
		out = string(id) + f.Ext()
	}

	ds, r, err := loadReport(cmd.Context())
	if err != nil {
		return err
	}
	v := chartView.view(ds)

	file, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("create %s: %w", out, err)
	}
	err = chart.Render(file, id, report.Narrow(ds, r, v), v, f)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if errors.Is(err, chart.ErrNoData) {
		os.Remove(out)
		fmt.Fprintln(os.Stdout, report.NoData)
		return nil
	}
	if err != nil {
		return fmt.Errorf("draw %s: %w", id, err)
	}
	fmt.Fprintf(os.Stdout, "Wrote %s\n", out)
	return nil
}
