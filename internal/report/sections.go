package report

import (
	"fmt"
	"strings"
)

// SectionID names a report section on the command line, in URLs and as a
// workbook sheet.
type SectionID string

const (
	SectionOverview    SectionID = "overview"
	SectionOutcomes    SectionID = "outcomes"
	SectionLength      SectionID = "length"
	SectionFirstMove   SectionID = "firstmove"
	SectionRated       SectionID = "rated"
	SectionTimeControl SectionID = "timecontrol"
	SectionOpenings    SectionID = "openings"
	SectionPlayers     SectionID = "players"
)

// Section describes one part of the report.
type Section struct {
	ID        SectionID
	Number    int
	Title     string
	Caption   string
	Narrative string
}

var sections = []Section{
	{
		ID:    SectionOverview,
		Title: "Scope of Study",
		Narrative: "A limited review of key game elements in a sample of online games: " +
			"playing white or black, the length of games, the first move, the opening " +
			"sequence and the time control. The source carries little metadata; it " +
			"appears to come from a public online chess site.",
	},
	{
		ID:      SectionOutcomes,
		Number:  1,
		Title:   "White versus Black",
		Caption: "Fig. 1 Frequency of wins between White and Black pieces",
		Narrative: "White moves first, which is commonly assumed to be an advantage. " +
			"Drawn games are left out and the remaining wins are split by the side " +
			"that won and by how the game ended.",
	},
	{
		ID:      SectionLength,
		Number:  2,
		Title:   "Total Number of Turns and Moves in Opening Sequence",
		Caption: "Fig. 2 Total turns against moves in the opening sequence, by outcome",
		Narrative: "Each game is plotted by its total turns and the length of its opening " +
			"sequence. The box statistics below summarise both measures for every " +
			"outcome; whiskers reach the last value within 1.5 IQR of the box.",
	},
	{
		ID:      SectionFirstMove,
		Number:  3,
		Title:   "First Move",
		Caption: "Fig. 3 Frequency of first moves",
		Narrative: "How often each first move was played. A handful of pawn moves " +
			"make up most openings.",
	},
	{
		ID:      SectionRated,
		Number:  4,
		Title:   "Rankings and Ratings",
		Caption: "Fig. 4 Proportion of rated and unrated games",
		Narrative: "Games are either rated or unrated. A large unrated share suggests " +
			"mostly casual play.",
	},
	{
		ID:      SectionTimeControl,
		Number:  5,
		Title:   "Game Timing",
		Caption: "Fig. 5 Game outcomes by time-control rank",
		Narrative: "A time control 'x+y' gives each player x seconds at the start and " +
			"adds y seconds after every move. Time controls are ranked by length and " +
			"games are counted by outcome at each rank; time controls missing from " +
			"the ranking are left out.",
	},
	{
		ID:      SectionOpenings,
		Number:  6,
		Title:   "Opening Sequence",
		Caption: "Fig. 6 Share of each outcome per opening sequence",
		Narrative: "For every opening, the share of its games that ended in each " +
			"outcome. Openings played only a few times show the most extreme shares.",
	},
	{
		ID:      SectionPlayers,
		Number:  7,
		Title:   "Player Stats",
		Caption: "Table 1 Player rankings",
		Narrative: "Players are ranked by the larger of their highest rating and the " +
			"midpoint of their highest and lowest ratings, across games as white and " +
			"as black.",
	},
}

// Sections returns every section in report order.
func Sections() []Section {
	out := make([]Section, len(sections))
	copy(out, sections)
	return out
}

// Lookup finds a section by id, ignoring case.
func Lookup(id string) (Section, bool) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, s := range sections {
		if string(s.ID) == id {
			return s, true
		}
	}
	return Section{}, false
}

// IDs lists every section id in report order.
func IDs() []string {
	out := make([]string, len(sections))
	for i, s := range sections {
		out[i] = string(s.ID)
	}
	return out
}

// Heading returns "N. Title", or just the title for the unnumbered overview.
func (s Section) Heading() string {
	if s.Number == 0 {
		return s.Title
	}
	return fmt.Sprintf("%d. %s", s.Number, s.Title)
}
