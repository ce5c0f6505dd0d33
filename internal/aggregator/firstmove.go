package aggregator

import (
	"sort"
	"strings"

	"github.com/notnil/chess"

	"github.com/pable/go-chess-report/internal/model"
)

// Unparsed is the first-move bucket for games whose opening token is not a
// legal move from the starting position.
const Unparsed = "(unparsed)"

// FirstMoveFunc extracts the first-move token from a serialized move list.
type FirstMoveFunc func(moveList string) string

// HeuristicFirstMove returns the leading two characters of the serialized
// move list. It is a truncation, not a parse: "Nf3 d5" yields "Nf", and a
// one-character list yields that character.
func HeuristicFirstMove(moveList string) string {
	r := []rune(moveList)
	if len(r) > 2 {
		r = r[:2]
	}
	return string(r)
}

// SANFirstMove returns the first token of the move list in canonical SAN,
// or Unparsed when the token is not a legal opening move.
func SANFirstMove(moveList string) string {
	tokens := strings.Fields(moveList)
	if len(tokens) == 0 {
		return Unparsed
	}
	pos := chess.NewGame().Position()
	notation := chess.AlgebraicNotation{}
	m, err := notation.Decode(pos, tokens[0])
	if err != nil {
		return Unparsed
	}
	return notation.Encode(pos, m)
}

// FirstMoveStrategy resolves a strategy name ("heuristic" or "san").
func FirstMoveStrategy(name string) (FirstMoveFunc, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "heuristic":
		return HeuristicFirstMove, true
	case "san":
		return SANFirstMove, true
	default:
		return nil, false
	}
}

// FirstMoveFrequency counts games by first-move token, sorted by token.
func FirstMoveFrequency(games []model.Game, first FirstMoveFunc) []model.FirstMoveCount {
	if first == nil {
		first = HeuristicFirstMove
	}
	counts := make(map[string]int)
	for i := range games {
		counts[first(games[i].MoveList)]++
	}
	out := make([]model.FirstMoveCount, 0, len(counts))
	for mv, n := range counts {
		out = append(out, model.FirstMoveCount{Move: mv, Games: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Move < out[j].Move })
	return out
}
