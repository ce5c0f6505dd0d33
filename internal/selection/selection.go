// Package selection narrows report tables to the outcome categories picked in
// a report control. Every function is pure: the selection is an explicit
// value and the input tables are never modified.
package selection

import (
	"strings"

	"github.com/pable/go-chess-report/internal/model"
)

// All is the sentinel option that selects every category.
const All = "All"

// Selection is either All (the zero value) or a non-empty set of outcomes.
type Selection struct {
	outcomes []model.Outcome
}

// IsAll reports whether s selects every category.
func (s Selection) IsAll() bool { return len(s.outcomes) == 0 }

// Outcomes returns the selected outcomes in display order, or nil for All.
func (s Selection) Outcomes() []model.Outcome {
	if s.IsAll() {
		return nil
	}
	out := make([]model.Outcome, len(s.outcomes))
	copy(out, s.outcomes)
	return out
}

// Contains reports whether o passes the selection.
func (s Selection) Contains(o model.Outcome) bool {
	if s.IsAll() {
		return true
	}
	for _, v := range s.outcomes {
		if v == o {
			return true
		}
	}
	return false
}

// Values returns the selection as control values: ["All"] or the outcome names.
func (s Selection) Values() []string {
	if s.IsAll() {
		return []string{All}
	}
	out := make([]string, len(s.outcomes))
	for i, o := range s.outcomes {
		out[i] = string(o)
	}
	return out
}

func (s Selection) String() string { return strings.Join(s.Values(), ",") }

// Of selects exactly the given outcomes. An empty call is All.
func Of(outcomes ...model.Outcome) Selection {
	return Parse(outcomeStrings(outcomes), model.Outcomes)
}

// Parse resolves multi-select control values against the categories present
// in the data. "All" anywhere, empty input, and values not among available
// resolve to All; otherwise the valid subset is kept in display order.
// Comma-separated values are split, so "Mate,Resign" is two values.
func Parse(values []string, available []model.Outcome) Selection {
	picked := make(map[model.Outcome]bool)
	for _, raw := range values {
		for _, v := range strings.Split(raw, ",") {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			if strings.EqualFold(v, All) {
				return Selection{}
			}
			o, err := model.ParseOutcome(v)
			if err != nil {
				continue
			}
			picked[o] = true
		}
	}

	var out []model.Outcome
	for _, o := range model.Outcomes {
		if picked[o] && containsOutcome(available, o) {
			out = append(out, o)
		}
	}
	return Selection{outcomes: out}
}

// ParseSingle resolves a single-select or exclusive-choice control value.
func ParseSingle(value string, available []model.Outcome) Selection {
	if strings.Contains(value, ",") {
		return Selection{}
	}
	return Parse([]string{value}, available)
}

// Options lists a control's choices: All followed by the available
// categories in display order.
func Options(available []model.Outcome) []string {
	opts := []string{All}
	for _, o := range model.Outcomes {
		if containsOutcome(available, o) {
			opts = append(opts, string(o))
		}
	}
	return opts
}

// Available returns the outcomes that occur in games, in display order.
func Available(games []model.Game) []model.Outcome {
	seen := make(map[model.Outcome]bool)
	for i := range games {
		seen[games[i].Outcome] = true
	}
	var out []model.Outcome
	for _, o := range model.Outcomes {
		if seen[o] {
			out = append(out, o)
		}
	}
	return out
}

// Games narrows raw games to the selected outcomes. All returns games as is.
func Games(games []model.Game, sel Selection) []model.Game {
	if sel.IsAll() {
		return games
	}
	out := make([]model.Game, 0, len(games))
	for i := range games {
		if sel.Contains(games[i].Outcome) {
			out = append(out, games[i])
		}
	}
	return out
}

// TimeControl narrows the time-control aggregate to the selected outcome.
func TimeControl(rows []model.TimeControlOutcome, sel Selection) []model.TimeControlOutcome {
	if sel.IsAll() {
		return rows
	}
	out := make([]model.TimeControlOutcome, 0, len(rows))
	for _, r := range rows {
		if sel.Contains(r.Outcome) {
			out = append(out, r)
		}
	}
	return out
}

// OpeningColumns returns the proportion columns to show for the opening
// table: every outcome for All, otherwise only the chosen one.
func OpeningColumns(sel Selection) []model.Outcome {
	if sel.IsAll() {
		return append([]model.Outcome(nil), model.Outcomes...)
	}
	return sel.Outcomes()
}

func containsOutcome(list []model.Outcome, o model.Outcome) bool {
	for _, v := range list {
		if v == o {
			return true
		}
	}
	return false
}

func outcomeStrings(outcomes []model.Outcome) []string {
	out := make([]string, len(outcomes))
	for i, o := range outcomes {
		out[i] = string(o)
	}
	return out
}
