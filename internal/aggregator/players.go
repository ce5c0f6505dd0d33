package aggregator

import (
	"math"
	"sort"

	"github.com/pable/go-chess-report/internal/model"
)

// playerGame is one game seen from one player's side of the board.
type playerGame struct {
	playerID    string
	rating      int
	timeControl string
	outcome     model.Outcome
	rated       bool
	opening     string
}

// perspectives duplicates every game into a white row and a black row:
// all white rows in game order, then all black rows in game order.
func perspectives(games []model.Game) []playerGame {
	rows := make([]playerGame, 0, 2*len(games))
	for i := range games {
		g := &games[i]
		rows = append(rows, playerGame{
			playerID:    g.WhiteID,
			rating:      g.WhiteRating,
			timeControl: g.TimeControl,
			outcome:     g.Outcome,
			rated:       g.Rated,
			opening:     g.Opening.ShortName,
		})
	}
	for i := range games {
		g := &games[i]
		rows = append(rows, playerGame{
			playerID:    g.BlackID,
			rating:      g.BlackRating,
			timeControl: g.TimeControl,
			outcome:     g.Outcome,
			rated:       g.Rated,
			opening:     g.Opening.ShortName,
		})
	}
	return rows
}

// PlayerSummaries aggregates every player's games across both colours and
// ranks players by RankMetric, highest first. Players with equal metrics
// keep their id order.
func PlayerSummaries(games []model.Game) []model.PlayerSummary {
	rows := perspectives(games)

	byPlayer := make(map[string][]int) // player id -> indices into rows
	for i, r := range rows {
		byPlayer[r.playerID] = append(byPlayer[r.playerID], i)
	}
	ids := make([]string, 0, len(byPlayer))
	for id := range byPlayer {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]model.PlayerSummary, 0, len(ids))
	for _, id := range ids {
		out = append(out, summarisePlayer(id, rows, byPlayer[id]))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].RankMetric > out[j].RankMetric
	})
	return out
}

func summarisePlayer(id string, rows []playerGame, idx []int) model.PlayerSummary {
	s := model.PlayerSummary{PlayerID: id, GamesPlayed: len(idx)}

	times := make([]string, 0, len(idx))
	openings := make([]string, 0, len(idx))
	lo, hi := math.MaxInt, math.MinInt
	for _, i := range idx {
		r := rows[i]
		switch r.outcome {
		case model.OutcomeMate:
			s.Checkmates++
		case model.OutcomeResign:
			s.Resignations++
		case model.OutcomeOutOfTime:
			s.Timeouts++
		case model.OutcomeDraw:
			s.Draws++
		}
		if r.rated {
			s.RatedGames++
		} else {
			s.UnratedGames++
		}
		if r.rating > hi {
			hi = r.rating
		}
		if r.rating < lo {
			lo = r.rating
		}
		times = append(times, r.timeControl)
		openings = append(openings, r.opening)
	}

	s.MostPlayedTime = mode(times)
	s.MostCommonOpen = mode(openings)
	s.HighestRating = hi
	if len(idx) > 1 {
		s.HighestAvgRating = float64(hi+lo) / 2
	} else {
		s.HighestAvgRating = float64(hi)
	}
	s.RankMetric = math.Max(float64(s.HighestRating), s.HighestAvgRating)
	return s
}

// mode returns the most frequent value; ties go to the value seen first.
func mode(values []string) string {
	counts := make(map[string]int, len(values))
	maxN := 0
	for _, v := range values {
		counts[v]++
		if counts[v] > maxN {
			maxN = counts[v]
		}
	}
	for _, v := range values {
		if counts[v] == maxN {
			return v
		}
	}
	return ""
}

// TopPlayers returns the first n ranked summaries. n <= 0 returns all.
func TopPlayers(summaries []model.PlayerSummary, n int) []model.PlayerSummary {
	if n <= 0 || n >= len(summaries) {
		return summaries
	}
	return summaries[:n]
}
