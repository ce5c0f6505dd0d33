package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-chess-report/internal/model"
	"github.com/pable/go-chess-report/internal/report"
	"github.com/pable/go-chess-report/internal/selection"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cMuted    = color.New(color.Faint)
	cError    = color.New(color.FgRed, color.Bold)
	cWarn     = color.New(color.FgYellow)
	cHeader   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Load the dataset once and explore the report interactively. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

// shellSession holds the dataset and the selections that persist between
// commands.
type shellSession struct {
	ds   *model.Dataset
	r    model.Report
	view viewFlags
}

func runShell(cmd *cobra.Command, _ []string) error {
	ds, r, err := loadReport(cmd.Context())
	if err != nil {
		return err
	}
	s := &shellSession{ds: ds, r: r}

	cGreeting.Println("chessreport shell")
	cMuted.Printf("%d games loaded; type 'help' or 'exit'\n", len(ds.Games))
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("chessreport")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		tokens, err := splitArgs(scanner.Text())
		if err != nil {
			cError.Fprintf(os.Stderr, "error: %v\n", err)
			continue
		}
		if len(tokens) == 0 {
			continue
		}

		name, args := tokens[0], tokens[1:]
		switch name {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "sections":
			shellSections()
		case "report":
			s.report(args)
		case "set":
			s.set(args)
		case "view":
			s.show()
		case "player":
			if len(args) == 0 {
				cError.Fprintln(os.Stderr, "usage: player <player_id> [<player_id>...]")
				continue
			}
			s.player(args)
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", name)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"sections", "list report sections"},
		{"report [section...]", "print sections under the current selections"},
		{"report <section> --outcome=Mate ...", "same, with one-off selections"},
		{"set outcome|timing|opening <value>", "change a selection (All resets)"},
		{"view", "show the current selections"},
		{"player <player_id> [...]", "player stats for the given players"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-38s", r.cmd)
		fmt.Println(r.desc)
	}
	cMuted.Println(`  quote values with spaces: set timing "Out of Time"`)
	fmt.Println()
}

func shellSections() {
	for _, sec := range report.Sections() {
		fmt.Print("  ")
		cCmd.Printf("%-12s", sec.ID)
		fmt.Println(sec.Heading())
	}
}

func (s *shellSession) report(args []string) {
	sections, vf, err := parseReportArgs(args, s.view)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	ids, err := sectionArgs(sections)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	v := vf.view(s.ds)
	if err := report.Print(os.Stdout, report.Narrow(s.ds, s.r, v), v, ids...); err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
	}
}

func (s *shellSession) set(args []string) {
	if len(args) < 2 {
		cError.Fprintln(os.Stderr, "usage: set outcome|timing|opening <value> [<value>...]")
		return
	}
	if err := s.view.apply(args[0], args[1:]); err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	s.show()
}

func (s *shellSession) show() {
	v := s.view.view(s.ds)
	cHeader.Println("Selections")
	fmt.Printf("  outcome : %s\n", v.Outcomes)
	fmt.Printf("  timing  : %s\n", v.Timing)
	fmt.Printf("  opening : %s\n", v.Opening)
	cMuted.Printf("  choices : %s\n", strings.Join(selection.Options(selection.Available(s.ds.Games)), ", "))
}

func (s *shellSession) player(ids []string) {
	rows, missing := findPlayers(s.ds, ids)
	for _, id := range missing {
		cWarn.Fprintf(os.Stderr, "no games for player %q\n", id)
	}
	if len(rows) > 0 {
		report.PrintPlayers(os.Stdout, rows)
	}
}

// apply sets one selection control by name.
func (f *viewFlags) apply(name string, values []string) error {
	switch strings.ToLower(name) {
	case "outcome":
		f.outcomes = values
	case "timing":
		f.timing = strings.Join(values, ",")
	case "opening":
		f.opening = strings.Join(values, ",")
	default:
		return fmt.Errorf("unknown selection %q (want outcome, timing or opening)", name)
	}
	return nil
}

// parseReportArgs separates section names from --outcome/--timing/--opening
// options. Options override base for this call only.
func parseReportArgs(args []string, base viewFlags) ([]string, viewFlags, error) {
	vf := base
	var (
		sections []string
		outcomes []string
	)
	for i := 0; i < len(args); i++ {
		a := args[i]
		if !strings.HasPrefix(a, "--") {
			sections = append(sections, a)
			continue
		}
		name, value, ok := strings.Cut(strings.TrimPrefix(a, "--"), "=")
		if !ok {
			if i+1 >= len(args) {
				return nil, vf, fmt.Errorf("option --%s needs a value", name)
			}
			i++
			value = args[i]
		}
		if name == "outcome" {
			outcomes = append(outcomes, value)
			continue
		}
		if err := vf.apply(name, []string{value}); err != nil {
			return nil, vf, err
		}
	}
	if outcomes != nil {
		vf.outcomes = outcomes
	}
	return sections, vf, nil
}

// splitArgs splits a line on whitespace, keeping double-quoted runs together.
func splitArgs(line string) ([]string, error) {
	var (
		out     []string
		cur     strings.Builder
		quoted  bool
		inToken bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			quoted = !quoted
			inToken = true
		case !quoted && (r == ' ' || r == '\t'):
			if inToken {
				out = append(out, cur.String())
				cur.Reset()
				inToken = false
			}
		default:
			cur.WriteRune(r)
			inToken = true
		}
	}
	if quoted {
		return nil, fmt.Errorf("unterminated quote")
	}
	if inToken {
		out = append(out, cur.String())
	}
	return out, nil
}
