package aggregator

import "github.com/pable/go-chess-report/internal/model"

// DefaultTopPlayers is the length of the player leaderboard.
const DefaultTopPlayers = 10

// Options tunes how a Report is built.
type Options struct {
	FirstMove  FirstMoveFunc // nil means HeuristicFirstMove
	TopPlayers int           // 0 means DefaultTopPlayers, negative means all
}

// Build derives every report section from ds. ds is not modified.
func Build(ds *model.Dataset, opts Options) model.Report {
	top := opts.TopPlayers
	if top == 0 {
		top = DefaultTopPlayers
	}
	return model.Report{
		Overview:        Overview(ds),
		OutcomeByWinner: OutcomeByWinner(ds.Games),
		Scatter:         TurnScatter(ds.Games),
		Distributions:   Distributions(ds.Games),
		FirstMoves:      FirstMoveFrequency(ds.Games, opts.FirstMove),
		Rated:           RatedProportion(ds.Games),
		TimeControl:     OutcomeByTimeControl(ds.Games, ds.Ranks),
		Openings:        OpeningOutcomes(ds.Games),
		Players:         TopPlayers(PlayerSummaries(ds.Games), top),
	}
}

// Overview computes headline counts for ds.
func Overview(ds *model.Dataset) model.Overview {
	ov := model.Overview{Games: len(ds.Games)}
	if len(ds.Games) == 0 {
		return ov
	}

	idx := ds.RankIndex()
	players := make(map[string]struct{})
	openings := make(map[string]struct{})
	times := make(map[string]struct{})
	ranked := make(map[string]struct{})

	first := &ds.Games[0]
	ov.MinTurns, ov.MaxTurns = first.Turns, first.Turns
	ov.MinRating, ov.MaxRating = first.WhiteRating, first.WhiteRating

	for i := range ds.Games {
		g := &ds.Games[i]
		players[g.WhiteID] = struct{}{}
		players[g.BlackID] = struct{}{}
		openings[g.Opening.ShortName] = struct{}{}
		times[g.TimeControl] = struct{}{}
		if _, ok := idx[g.TimeControl]; ok {
			ranked[g.TimeControl] = struct{}{}
		} else {
			ov.UnmatchedGames++
		}
		ov.MinTurns = min(ov.MinTurns, g.Turns)
		ov.MaxTurns = max(ov.MaxTurns, g.Turns)
		ov.MinRating = min(ov.MinRating, g.WhiteRating, g.BlackRating)
		ov.MaxRating = max(ov.MaxRating, g.WhiteRating, g.BlackRating)
		if (g.Outcome == model.OutcomeDraw) != (g.Winner == model.WinnerDraw) {
			ov.OutcomeWinnerMisfit++
		}
	}
	ov.Players = len(players)
	ov.Openings = len(openings)
	ov.TimeControls = len(times)
	ov.RankedTimeControls = len(ranked)
	return ov
}
