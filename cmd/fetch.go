package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-sb-networks/internal/statsbomb"
)

var fetchForce bool

// fetchCmd downloads event files into the local cache without analysing them.
var fetchCmd = &cobra.Command{
	Use:   "fetch <match-id>...",
	Short: "Download match events into the local cache",
	Long: `Downloads the event log of each match into the zstd-compressed cache so
later analyses run offline.

Examples:
  sbnet fetch 3869685 3869519
  sbnet fetch --force 3869685`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().BoolVarP(&fetchForce, "force", "f", false, "refetch even if cached")
}

func runFetch(cmd *cobra.Command, args []string) error {
	ids := make([]int64, 0, len(args))
	for _, a := range args {
		id, err := parseMatchID(a)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	cache := statsbomb.NewCache(cfg.CacheDir)
	client := newClient(fetchForce)

	failed := 0
	for i, id := range ids {
		fmt.Printf("[%d/%d] match %d  ", i+1, len(ids), id)
		if !fetchForce && cache.Has(id) {
			cMuted.Println("already cached")
			continue
		}
		body, err := client.RawEvents(cmd.Context(), id)
		if err != nil {
			failed++
			if errors.Is(err, statsbomb.ErrNotFound) {
				cWarn.Fprintln(os.Stderr, "not found")
			} else {
				cError.Fprintf(os.Stderr, "error: %v\n", err)
			}
			logger.Warn("fetch failed", "match_id", id, "error", err)
			continue
		}
		fmt.Printf("%d KiB\n", len(body)/1024)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d matches could not be fetched", failed, len(ids))
	}
	return nil
}
