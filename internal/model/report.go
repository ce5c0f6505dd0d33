package model

// ---- Derived report tables ----
//
// Every type below is a row of a view computed from a Dataset. Views are
// recomputed per render and never written back.

// OutcomeWinnerCount is one cell of the outcome × winner contingency table.
type OutcomeWinnerCount struct {
	Outcome Outcome
	Winner  Winner
	Count   int
}

// FirstMoveCount is the number of games opening with Move.
type FirstMoveCount struct {
	Move  string
	Games int
}

// RatedCount is the number of rated (or unrated) games.
type RatedCount struct {
	Rated bool
	Games int
}

// TimeControlOutcome is one (rank, descriptor, outcome) cell of the
// time-control trend. Count is the total for the rank, so descriptors that
// share a rank repeat the same count.
type TimeControlOutcome struct {
	Rank        int
	TimeControl string
	Outcome     Outcome
	Count       int
}

// OpeningOutcome holds outcome counts and proportions for one opening short name.
type OpeningOutcome struct {
	Opening     string
	Counts      map[Outcome]int
	Total       int
	Proportions map[Outcome]float64
}

// Proportion returns the share of the opening's games that ended with o.
func (o *OpeningOutcome) Proportion(out Outcome) float64 {
	return o.Proportions[out]
}

// PlayerSummary aggregates every game a player appears in, from either side.
type PlayerSummary struct {
	PlayerID         string
	GamesPlayed      int
	Checkmates       int
	Resignations     int
	Timeouts         int
	Draws            int
	MostPlayedTime   string
	MostCommonOpen   string
	HighestRating    int
	HighestAvgRating float64 // mean of the player's highest and lowest rating
	RatedGames       int
	UnratedGames     int
	RankMetric       float64
}

// ScatterPoint is one game plotted as total turns against opening moves.
type ScatterPoint struct {
	Turns        int
	OpeningMoves int
	Outcome      Outcome
}

// BoxStats summarises a sample the way a box plot draws it.
type BoxStats struct {
	N          int
	Min        float64
	Q1         float64
	Median     float64
	Q3         float64
	Max        float64
	LowerFence float64 // lowest value within Q1 - 1.5*IQR
	UpperFence float64 // highest value within Q3 + 1.5*IQR
	Outliers   int
}

// OutcomeDistribution holds the turn and opening-length distributions of one outcome.
type OutcomeDistribution struct {
	Outcome      Outcome
	Turns        BoxStats
	OpeningMoves BoxStats
}

// Overview is the headline description of a dataset.
type Overview struct {
	Games               int
	Players             int
	Openings            int
	TimeControls        int
	RankedTimeControls  int
	UnmatchedGames      int // games whose time control has no rank
	MinTurns, MaxTurns  int
	MinRating           int
	MaxRating           int
	OutcomeWinnerMisfit int // games where exactly one of outcome/winner is Draw
}

// Report bundles every section of the report, before any selection is applied.
type Report struct {
	Overview        Overview
	OutcomeByWinner []OutcomeWinnerCount
	Scatter         []ScatterPoint
	Distributions   []OutcomeDistribution
	FirstMoves      []FirstMoveCount
	Rated           []RatedCount
	TimeControl     []TimeControlOutcome
	Openings        []OpeningOutcome
	Players         []PlayerSummary // sorted by RankMetric, already cut to the top N
}
