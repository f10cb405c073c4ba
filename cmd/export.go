package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pable/go-sb-networks/internal/report"
)

var (
	exportOut    string
	exportFormat string
)

var exportCmd = &cobra.Command{
	Use:   "export <match-id>",
	Short: "Export the stored networks of a match as adjacency matrices",
	Long: `Writes the latest stored analysis of a match to --out.

csv:  one <match>_<network>_<team>.csv adjacency matrix per network. Pass
      networks use passers as rows and recipients as columns; duel and
      proximity networks use attackers as rows and defenders as columns.
yaml: a single <match>.yaml holding the edges, matchings and matrices.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", ".", "output directory")
	exportCmd.Flags().StringVar(&exportFormat, "format", "csv", "csv or yaml")
}

func runExport(_ *cobra.Command, args []string) error {
	matchID, err := parseMatchID(args[0])
	if err != nil {
		return err
	}
	if exportFormat != "csv" && exportFormat != "yaml" {
		return fmt.Errorf("unknown format %q: use csv or yaml", exportFormat)
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
		return fmt.Errorf("no analysis stored for match %d", matchID)
	}
	res, err := db.LoadResult(latest.RunID)
	if err != nil {
		return fmt.Errorf("load run %s: %w", latest.RunID, err)
	}

	if err := os.MkdirAll(exportOut, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	if exportFormat == "yaml" {
		path := filepath.Join(exportOut, fmt.Sprintf("%d.yaml", matchID))
		if err := writeFile(path, func(f *os.File) error { return report.WriteYAML(f, res) }); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Wrote %s\n", path)
		return nil
	}

	for _, ng := range report.Graphs(res) {
		path := filepath.Join(exportOut, fmt.Sprintf("%d_%s.csv", matchID, ng.Name))
		g := ng.Graph
		if err := writeFile(path, func(f *os.File) error { return report.WriteMatrixCSV(f, g) }); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Wrote %s\n", path)
	}
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
