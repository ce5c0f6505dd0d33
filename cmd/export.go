package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-chess-report/internal/export"
	"github.com/pable/go-chess-report/internal/report"
)

var (
	exportOut  string
	exportView viewFlags
)

// exportCmd writes every section to an Excel workbook.
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write every report section to an Excel workbook",
	Long: `Write one worksheet per report section to an .xlsx file. The selection
flags narrow the sheets the same way they narrow the terminal report.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "chessreport.xlsx", "output workbook path")
	exportView.register(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	ds, r, err := loadReport(cmd.Context())
	if err != nil {
		return err
	}
	v := exportView.view(ds)
	if err := export.WriteFile(exportOut, report.Narrow(ds, r, v), v); err != nil {
		return fmt.Errorf("export workbook: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Wrote %d sheets to %s\n", len(export.Sheets()), exportOut)
	return nil
}
