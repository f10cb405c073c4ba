package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show <match-id>",
	Short: "Show the latest stored analysis of a match",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	matchID, err := parseMatchID(args[0])
	if err != nil {
		return err
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
		fmt.Fprintf(os.Stderr, "No analysis stored for match %d. Run 'sbnet analyze %d' first.\n", matchID, matchID)
		return nil
	}
	return showRun(db, latest.RunID)
}
