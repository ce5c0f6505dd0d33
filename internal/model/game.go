package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Outcome is the terminal condition of a game (the victory_status column).
type Outcome string

const (
	OutcomeMate      Outcome = "Mate"
	OutcomeResign    Outcome = "Resign"
	OutcomeDraw      Outcome = "Draw"
	OutcomeOutOfTime Outcome = "Out of Time"
)

// Outcomes lists every outcome in display order.
var Outcomes = []Outcome{OutcomeMate, OutcomeResign, OutcomeDraw, OutcomeOutOfTime}

// ParseOutcome maps a victory_status cell to an Outcome.
func ParseOutcome(s string) (Outcome, error) {
	for _, o := range Outcomes {
		if strings.EqualFold(strings.TrimSpace(s), string(o)) {
			return o, nil
		}
	}
	// Lichess exports spell it "outoftime".
	if strings.EqualFold(strings.ReplaceAll(strings.TrimSpace(s), " ", ""), "outoftime") {
		return OutcomeOutOfTime, nil
	}
	return "", fmt.Errorf("unknown outcome %q", s)
}

// Winner is the side credited with the game.
type Winner string

const (
	WinnerWhite Winner = "White"
	WinnerBlack Winner = "Black"
	WinnerDraw  Winner = "Draw"
)

// Winners lists every winner value in display order.
var Winners = []Winner{WinnerWhite, WinnerBlack, WinnerDraw}

// ParseWinner maps a winner cell to a Winner.
func ParseWinner(s string) (Winner, error) {
	for _, w := range Winners {
		if strings.EqualFold(strings.TrimSpace(s), string(w)) {
			return w, nil
		}
	}
	return "", fmt.Errorf("unknown winner %q", s)
}

// Opening is the externally sourced classification of a game's opening.
type Opening struct {
	Code      string
	FullName  string
	ShortName string
	Response  string
	Variation string
}

// Game is one match record.
type Game struct {
	ID           string
	Rated        bool
	Turns        int
	OpeningMoves int
	Outcome      Outcome
	Winner       Winner
	TimeControl  string // "start+increment", seconds
	WhiteID      string
	WhiteRating  int
	BlackID      string
	BlackRating  int
	MoveList     string // serialized move list as read from the source
	Opening      Opening
}

// Moves returns the ordered move tokens of the game.
func (g *Game) Moves() []string {
	return strings.Fields(g.MoveList)
}

// RatedLabel is the display label for the rated flag.
func RatedLabel(rated bool) string {
	if rated {
		return "Rated"
	}
	return "Unrated"
}

// TimeControlRank orders a time-control descriptor along a chart axis.
type TimeControlRank struct {
	TimeControl string
	Rank        int
}

// ParseTimeControl splits a "start+increment" descriptor into its two parts.
func ParseTimeControl(s string) (start, increment int, err error) {
	a, b, ok := strings.Cut(strings.TrimSpace(s), "+")
	if !ok {
		return 0, 0, fmt.Errorf("time control %q: missing '+'", s)
	}
	if start, err = strconv.Atoi(a); err != nil {
		return 0, 0, fmt.Errorf("time control %q: start: %w", s, err)
	}
	if increment, err = strconv.Atoi(b); err != nil {
		return 0, 0, fmt.Errorf("time control %q: increment: %w", s, err)
	}
	return start, increment, nil
}

// Dataset is the loaded, read-only snapshot every report view is derived from.
type Dataset struct {
	Games []Game
	Ranks []TimeControlRank
}

// RankIndex maps each ranked time-control descriptor to its rank. When a
// descriptor appears twice in the ranking table the first entry wins.
func (d *Dataset) RankIndex() map[string]int {
	idx := make(map[string]int, len(d.Ranks))
	for _, r := range d.Ranks {
		if _, ok := idx[r.TimeControl]; !ok {
			idx[r.TimeControl] = r.Rank
		}
	}
	return idx
}
