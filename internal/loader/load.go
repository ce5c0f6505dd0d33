package loader

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pable/go-chess-report/internal/aggregator"
	"github.com/pable/go-chess-report/internal/model"
)

// Public copies of the dataset the report was built around.
const (
	DefaultGamesURL   = "https://raw.githubusercontent.com/tjayolagz/instructionaldatasets/refs/heads/main/data/chess_games.csv"
	DefaultRankingURL = "https://raw.githubusercontent.com/tjayolagz/Northeastern/refs/heads/main/time_increment_ranking.csv"
)

// Sources locates the two inputs. Each is an http(s) URL or a local path.
type Sources struct {
	Games   string
	Ranking string
}

// DefaultSources returns the public dataset locations.
func DefaultSources() Sources {
	return Sources{Games: DefaultGamesURL, Ranking: DefaultRankingURL}
}

// Warnings counts rows that break soft invariants. They are kept in the
// dataset and reported, never rejected.
type Warnings struct {
	OpeningExceedsTurns int // opening_moves > turns
	DrawMismatch        int // exactly one of outcome and winner is Draw
	UnrankedGames       int // time control absent from the ranking
	BlankRanks          int // ranking rows without a rank, skipped
}

// Report summarises a load.
type Report struct {
	Games     int
	Ranks     int
	Duration  time.Duration
	Warnings  Warnings
	Unmatched map[string]int // unranked time control -> games
}

// Option configures Load.
type Option func(*settings)

type settings struct {
	client *http.Client
	logger *log.Logger
}

// WithHTTPClient overrides the client used for remote sources.
func WithHTTPClient(c *http.Client) Option {
	return func(s *settings) { s.client = c }
}

// WithLogger overrides the default logger.
func WithLogger(l *log.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// Load fetches and parses both sources. Any fetch or parse failure aborts
// the whole load; there is no partial dataset.
func Load(ctx context.Context, src Sources, opts ...Option) (*model.Dataset, *Report, error) {
	s := settings{logger: log.Default()}
	for _, o := range opts {
		o(&s)
	}
	if s.client == nil {
		s.client = NewHTTPClient(0)
	}
	lg := s.logger.WithPrefix("loader")
	start := time.Now()

	lg.Debug("fetching games", "source", src.Games)
	gamesRaw, err := Fetch(ctx, s.client, src.Games)
	if err != nil {
		return nil, nil, fmt.Errorf("load games: %w", err)
	}
	games, warn, err := ParseGames(src.Games, gamesRaw)
	if err != nil {
		return nil, nil, fmt.Errorf("load games: %w", err)
	}

	lg.Debug("fetching ranking", "source", src.Ranking)
	rankRaw, err := Fetch(ctx, s.client, src.Ranking)
	if err != nil {
		return nil, nil, fmt.Errorf("load ranking: %w", err)
	}
	ranks, blankRanks, err := ParseRanking(src.Ranking, rankRaw)
	if err != nil {
		return nil, nil, fmt.Errorf("load ranking: %w", err)
	}
	warn.BlankRanks = blankRanks

	ds := &model.Dataset{Games: games, Ranks: ranks}
	rep := &Report{
		Games:     len(games),
		Ranks:     len(ranks),
		Duration:  time.Since(start),
		Unmatched: aggregator.UnmatchedTimeControls(games, ranks),
	}
	for _, n := range rep.Unmatched {
		warn.UnrankedGames += n
	}
	rep.Warnings = warn

	LogReport(lg, rep)
	return ds, rep, nil
}

// LogReport writes a load summary and one warning per soft-invariant class.
func LogReport(lg *log.Logger, rep *Report) {
	lg.Info("dataset loaded", "games", rep.Games, "ranks", rep.Ranks, "took", rep.Duration.Round(time.Millisecond))
	if rep.Warnings.OpeningExceedsTurns > 0 {
		lg.Warn("opening longer than game", "games", rep.Warnings.OpeningExceedsTurns)
	}
	if rep.Warnings.DrawMismatch > 0 {
		lg.Warn("outcome and winner disagree on draw", "games", rep.Warnings.DrawMismatch)
	}
	if rep.Warnings.BlankRanks > 0 {
		lg.Debug("ranking rows without a rank skipped", "rows", rep.Warnings.BlankRanks)
	}
	if rep.Warnings.UnrankedGames > 0 {
		tcs := make([]string, 0, len(rep.Unmatched))
		for tc := range rep.Unmatched {
			tcs = append(tcs, tc)
		}
		sort.Strings(tcs)
		lg.Warn("time controls without a rank", "games", rep.Warnings.UnrankedGames, "time_controls", len(tcs))
		for _, tc := range tcs {
			lg.Debug("unranked time control", "time_control", tc, "games", rep.Unmatched[tc])
		}
	}
}
