package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-sb-networks/internal/report"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all stored analyses",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	runs, err := db.ListAnalyses()
	if err != nil {
		return fmt.Errorf("list analyses: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(os.Stdout, "No analyses stored yet. Run 'sbnet analyze <match-id>' to add one.")
		return nil
	}
	report.PrintAnalysisList(os.Stdout, runs)
	return nil
}
