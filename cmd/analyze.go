package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"

	"github.com/pable/go-chess-report/internal/model"
	"github.com/pable/go-chess-report/internal/report"
)

const analyzeSystemPrompt = `You are a chess data analyst. You are given aggregate tables computed from a
dataset of online chess games and a question about them.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific numbers when making a claim.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise. Describe what the data shows; do not give playing advice.

Glossary:
- victory_status: how a game ended (Mate, Resign, Out of Time, Draw).
- winner: White, Black or Draw.
- time control "x+y": x seconds at the start, y seconds added per move.
- time_rank: position of a time control when ordered by length; lower is faster.
- opening share: fraction of an opening's games that ended with a given status.
- rank_metric: max(highest rating, midpoint of highest and lowest rating).`

// maxOpeningsInContext bounds the opening table sent as context.
const maxOpeningsInContext = 25

var (
	analyzeModel  string
	analyzeAPIKey string
	analyzeView   viewFlags
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <question>",
	Short: "AI-grounded narrative over the report (requires ANTHROPIC_API_KEY)",
	Long: `Build the report, send its aggregate tables with your question to the
Anthropic API and stream the answer. Selection flags narrow the tables first.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeModel, "model", "", "Anthropic model to use (default from config)")
	analyzeCmd.Flags().StringVar(&analyzeAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")
	analyzeView.register(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	question := strings.Join(args, " ")
	ds, r, err := loadReport(cmd.Context())
	if err != nil {
		return err
	}
	v := analyzeView.view(ds)

	data, err := analysisContext(report.Narrow(ds, r, v), v)
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}

	modelID := cfg.Anthropic.Model
	if analyzeModel != "" {
		modelID = analyzeModel
	}
	apiKey := cfg.Anthropic.APIKey
	if analyzeAPIKey != "" {
		apiKey = analyzeAPIKey
	}
	return callAnthropic(cmd.Context(), apiKey, modelID, data, question)
}

// analysisContext serialises the narrowed report as compact JSON.
func analysisContext(r model.Report, v report.View) (string, error) {
	type opening struct {
		Opening string             `json:"opening"`
		Games   int                `json:"games"`
		Shares  map[string]float64 `json:"shares"`
	}
	openings := make([]opening, 0, len(r.Openings))
	for i := range r.Openings {
		o := &r.Openings[i]
		row := opening{Opening: o.Opening, Games: o.Total, Shares: map[string]float64{}}
		for _, c := range v.OpeningColumns() {
			row.Shares[string(c)] = round3(o.Proportion(c))
		}
		openings = append(openings, row)
	}
	sort.SliceStable(openings, func(i, j int) bool { return openings[i].Games > openings[j].Games })
	if len(openings) > maxOpeningsInContext {
		openings = openings[:maxOpeningsInContext]
	}

	outcomes := make([]map[string]any, 0, len(r.OutcomeByWinner))
	for _, row := range r.OutcomeByWinner {
		outcomes = append(outcomes, map[string]any{
			"victory_status": row.Outcome, "winner": row.Winner, "games": row.Count,
		})
	}
	lengths := make([]map[string]any, 0, len(r.Distributions))
	for _, d := range r.Distributions {
		lengths = append(lengths, map[string]any{
			"victory_status":        d.Outcome,
			"games":                 d.Turns.N,
			"median_turns":          d.Turns.Median,
			"q1_turns":              d.Turns.Q1,
			"q3_turns":              d.Turns.Q3,
			"median_opening_moves":  d.OpeningMoves.Median,
			"turns_outliers":        d.Turns.Outliers,
			"opening_move_outliers": d.OpeningMoves.Outliers,
		})
	}
	timing := make([]map[string]any, 0, len(r.TimeControl))
	for _, row := range r.TimeControl {
		timing = append(timing, map[string]any{
			"time_rank": row.Rank, "time_control": row.TimeControl, "victory_status": row.Outcome, "games": row.Count,
		})
	}
	first := make(map[string]int, len(r.FirstMoves))
	for _, m := range r.FirstMoves {
		first[m.Move] = m.Games
	}
	rated := make(map[string]int, len(r.Rated))
	for _, row := range r.Rated {
		rated[model.RatedLabel(row.Rated)] = row.Games
	}
	players := make([]map[string]any, 0, len(r.Players))
	for _, p := range r.Players {
		players = append(players, map[string]any{
			"player_id":           p.PlayerID,
			"games_played":        p.GamesPlayed,
			"checkmates":          p.Checkmates,
			"resignations":        p.Resignations,
			"timeouts":            p.Timeouts,
			"draws":               p.Draws,
			"most_played_time":    p.MostPlayedTime,
			"most_common_opening": p.MostCommonOpen,
			"highest_rating":      p.HighestRating,
			"rank_metric":         round3(p.RankMetric),
		})
	}

	doc := map[string]any{
		"overview": map[string]any{
			"games":          r.Overview.Games,
			"players":        r.Overview.Players,
			"openings":       r.Overview.Openings,
			"time_controls":  r.Overview.TimeControls,
			"unranked_games": r.Overview.UnmatchedGames,
			"turns_range":    []int{r.Overview.MinTurns, r.Overview.MaxTurns},
			"rating_range":   []int{r.Overview.MinRating, r.Overview.MaxRating},
		},
		"selections": map[string]any{
			"outcome": v.Outcomes.Values(),
			"timing":  v.Timing.Values(),
			"opening": v.Opening.Values(),
		},
		"wins_by_side":        outcomes,
		"game_length":         lengths,
		"first_moves":         first,
		"rated":               rated,
		"outcomes_by_timing":  timing,
		"openings_top_played": openings,
		"top_players":         players,
	}
	b, err := json.Marshal(doc)
	return string(b), err
}

// round3 rounds to 3 decimal places.
func round3(v float64) float64 {
	return float64(int(v*1000+0.5)) / 1000
}

// callAnthropic streams a response from the Anthropic API and prints it to stdout.
func callAnthropic(ctx context.Context, apiKey, modelID, dataJSON, question string) error {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if apiKey == "" {
		return fmt.Errorf("no API key: set ANTHROPIC_API_KEY or use --api-key")
	}

	client := anthropic.NewClient(option.WithAPIKey(apiKey))

	userMsg := fmt.Sprintf("DATA:\n%s\n\nQUESTION: %s", dataJSON, question)

	fmt.Fprintln(os.Stdout, "\n─── AI Analysis ─────────────────────────────────────")

	stream := client.Messages.NewStreaming(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(modelID),
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: analyzeSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userMsg)),
		},
	})

	for stream.Next() {
		evt := stream.Current()
		if evt.Type == "content_block_delta" {
			delta := evt.AsContentBlockDelta()
			if delta.Delta.Type == "text_delta" {
				fmt.Fprint(os.Stdout, delta.Delta.AsTextDelta().Text)
			}
		}
	}
	fmt.Fprintln(os.Stdout, "\n─────────────────────────────────────────────────────")

	if err := stream.Err(); err != nil {
		errStr := err.Error()
		if strings.Contains(errStr, "401") || strings.Contains(errStr, "authentication") {
			return fmt.Errorf("API authentication failed, check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	return nil
}
