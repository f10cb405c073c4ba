package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	dropForce bool
	dropMatch int64
)

// dropCmd deletes the database file, or one match's runs with --match.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the analysis database",
	Long:  "Permanently delete the SQLite analysis database, or only the stored runs of one match with --match. Cached event files are kept.",
	Args:  cobra.NoArgs,
	RunE:  runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
	dropCmd.Flags().Int64Var(&dropMatch, "match", 0, "only delete runs of this match id")
}

func runDrop(cmd *cobra.Command, args []string) error {
	target := dbPath
	if dropMatch > 0 {
		target = fmt.Sprintf("all runs of match %d in %s", dropMatch, dbPath)
	}
	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s\n", target)
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}

	if dropMatch > 0 {
		db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()
		n, err := db.DeleteMatch(dropMatch)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Deleted %d run(s) of match %d\n", n, dropMatch)
		return nil
	}

	if err := os.Remove(dbPath); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
			return nil
		}
		return fmt.Errorf("remove database: %w", err)
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", dbPath)
	return nil
}
