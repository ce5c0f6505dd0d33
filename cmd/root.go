package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pable/go-chess-report/internal/config"
)

var (
	configPath string
	dbPath     string
	gamesSrc   string
	rankingSrc string
	logLevel   string
	fromDB     bool
	topPlayers int
	firstMove  string

	cfg    *config.Config
	logger *log.Logger
)

var rootCmd = &cobra.Command{
	Use:   "chessreport",
	Short: "Descriptive report over a dataset of online chess games",
	Long: `Load a table of online chess games and a time-control ranking, and report
win rates by colour, game length, first moves, rated play, time controls,
openings and a player leaderboard, in the terminal, as a web page, as charts
or as an Excel workbook.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "path to YAML config (default ./"+config.DefaultFile+" if present)")
	pf.StringVar(&dbPath, "db", "", "path to SQLite snapshot database")
	pf.StringVar(&gamesSrc, "games", "", "games table: URL or file path (csv or xlsx)")
	pf.StringVar(&rankingSrc, "ranking", "", "time-control ranking: URL or file path (csv or xlsx)")
	pf.StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	pf.BoolVar(&fromDB, "from-db", false, "read the imported snapshot instead of the sources")
	pf.IntVar(&topPlayers, "top", 0, "players in the leaderboard (negative for all)")
	pf.StringVar(&firstMove, "first-move", "", "first-move extraction: heuristic or san")

	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(dropCmd)
}

// setup resolves configuration, lets explicit flags win, and installs the logger.
func setup(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("db") {
		c.DBPath = dbPath
	}
	if flags.Changed("games") {
		c.Sources.Games = gamesSrc
	}
	if flags.Changed("ranking") {
		c.Sources.Ranking = rankingSrc
	}
	if flags.Changed("log-level") {
		c.LogLevel = logLevel
	}
	if flags.Changed("top") {
		c.Report.TopPlayers = topPlayers
	}
	if flags.Changed("first-move") {
		c.Report.FirstMove = firstMove
	}

	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("parse log level: %w", err)
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: level == log.DebugLevel,
		Prefix:          "chessreport",
	})
	log.SetDefault(logger)

	cfg = c
	return nil
}
