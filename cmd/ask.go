package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/spf13/cobra"

	"github.com/pable/go-sb-networks/internal/report"
)

const askSystemPrompt = `You are a football tactics analyst. You are given structured network data
computed from one match's event log and a question from the user.

Rules:
- Answer ONLY from the data provided. Never invent or estimate statistics.
- Always cite specific players and weights when making a claim.
- If the data is insufficient to answer confidently, say so explicitly.
- Be concise. Explain what the networks suggest about how the match was played.

Glossary:
- pass_networks: directed edges passer -> recipient counting decisive passes (assists,
  through balls, crosses, counter-attack passes, passes followed by a shot within a few
  seconds, and highly progressive passes). most_connected is the player with the highest
  weighted degree.
- duel networks: edges attacker -> defender weighted by confrontation score (tackle 3,
  blocked shot 2, turnover, foul won and pressed backward pass 1 each).
- proximity networks: for each shot, the nearest outfield opponent in the freeze frame.
- matching: the one-to-one attacker/defender assignment with maximum total weight.
  total_weight is its sum.
- strongest: each attacker's heaviest single opponent. Where it differs from the matching,
  that defender was more valuable elsewhere.`

var askAPIKey string

var askCmd = &cobra.Command{
	Use:   "ask <match-id> <question>",
	Short: "AI-grounded explanation of a stored analysis (requires ANTHROPIC_API_KEY)",
	Args:  cobra.ExactArgs(2),
	RunE:  runAsk,
}

func init() {
	askCmd.Flags().String("model", "", "Anthropic model to use (default from config)")
	askCmd.Flags().StringVar(&askAPIKey, "api-key", "", "Anthropic API key (falls back to $ANTHROPIC_API_KEY)")
}

func runAsk(cmd *cobra.Command, args []string) error {
	matchID, err := parseMatchID(args[0])
	if err != nil {
		return err
	}
	question := args[1]

	modelID, _ := cmd.Flags().GetString("model")
	if modelID == "" {
		modelID = cfg.AnthropicModel
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	latest, err := db.LatestAnalysis(matchID)
	if err != nil {
		return fmt.Errorf("query analysis: %w", err)
	}
	if latest == nil {
		return fmt.Errorf("no analysis stored for match %d: run 'sbnet analyze %d' first", matchID, matchID)
	}
	res, err := db.LoadResult(latest.RunID)
	if err != nil {
		return fmt.Errorf("load run %s: %w", latest.RunID, err)
	}

	data, err := json.Marshal(report.NewView(res))
	if err != nil {
		return fmt.Errorf("build context: %w", err)
	}
	return callAnthropic(cmd.Context(), askAPIKey, modelID, string(data), question)
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
			{Text: askSystemPrompt},
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
			return fmt.Errorf("API authentication failed: check your API key")
		}
		return fmt.Errorf("streaming error: %w", err)
	}
	return nil
}
