package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pable/go-chess-report/internal/report"
)

var reportView viewFlags

var reportCmd = &cobra.Command{
	Use:   "report [section...]",
	Short: "Print the report to the terminal",
	Long: `Print every report section, or only the named ones, as text tables.

Sections: ` + strings.Join(report.IDs(), ", ") + `

Selections:
  --outcome   narrows the turns/opening-moves section (repeatable)
  --timing    narrows the game-timing table to one victory status
  --opening   picks the outcome column(s) of the opening table`,
	RunE: runReport,
}

func init() {
	reportView.register(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	ids, err := sectionArgs(args)
	if err != nil {
		return err
	}
	ds, r, err := loadReport(cmd.Context())
	if err != nil {
		return err
	}
	v := reportView.view(ds)
	return report.Print(os.Stdout, report.Narrow(ds, r, v), v, ids...)
}
