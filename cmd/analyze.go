package cmd

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-sb-networks/internal/analysis"
	"github.com/pable/go-sb-networks/internal/report"
	"github.com/pable/go-sb-networks/internal/storage"
)

var (
	cStatus = color.New(color.FgCyan)
	cMuted  = color.New(color.Faint)
	cError  = color.New(color.FgRed, color.Bold)
	cWarn   = color.New(color.FgYellow)
	cHeader = color.New(color.FgCyan, color.Bold)
)

var (
	analyzeRandom bool
	analyzeForce  bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [match-id]",
	Short: "Build pass and duel networks for a match and store them",
	Long: `Fetch a match's events, classify decisive passes, score duels, aggregate
the networks and compute the optimal attacker/defender matching.

A stored analysis is shown instead of re-running unless --force is given.
With --random a match is drawn from the matches that ship 360 data.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if analyzeRandom {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeRandom, "random", false, "analyze a random match with 360 data")
	analyzeCmd.Flags().BoolVarP(&analyzeForce, "force", "f", false, "refetch events and re-run even if stored")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	client := newClient(analyzeForce)

	var matchID int64
	if analyzeRandom {
		id, err := client.RandomThreeSixtyMatch(ctx, rand.New(rand.NewSource(time.Now().UnixNano())))
		if err != nil {
			return fmt.Errorf("pick random match: %w", err)
		}
		matchID = id
		cStatus.Fprintf(os.Stdout, "Picked match %d\n", matchID)
	} else {
		id, err := parseMatchID(args[0])
		if err != nil {
			return err
		}
		matchID = id
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	if !analyzeForce {
		existing, err := db.LatestAnalysis(matchID)
		if err != nil {
			return fmt.Errorf("check stored analysis: %w", err)
		}
		if existing != nil {
			cMuted.Fprintf(os.Stdout, "Match %d already analysed, showing run %s (use --force to re-run).\n",
				matchID, existing.RunID)
			return showRun(db, existing.RunID)
		}
	}

	cStatus.Fprintf(os.Stdout, "Analysing match %d...\n", matchID)
	res, err := analysis.Analyze(ctx, client, matchID, cfg.Thresholds(),
		analysis.WithLogger(logger), analysis.WithMetrics(recorder))
	if err != nil {
		return err
	}
	if err := db.InsertAnalysis(res); err != nil {
		return fmt.Errorf("store analysis: %w", err)
	}

	report.PrintResult(os.Stdout, res)
	return nil
}

func parseMatchID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid match id %q", s)
	}
	return id, nil
}

func showRun(db *storage.DB, runID string) error {
	res, err := db.LoadResult(runID)
	if err != nil {
		return fmt.Errorf("load run %s: %w", runID, err)
	}
	if res == nil {
		return fmt.Errorf("run not found: %s", runID)
	}
	report.PrintResult(os.Stdout, res)
	return nil
}
