package cmd

import (
	"github.com/spf13/cobra"

	"github.com/pable/go-sb-networks/internal/mcpserver"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run an MCP server on stdio",
	Long: `Serve the analyze_match and get_analysis tools over the Model Context
Protocol on stdin/stdout. Logs go to stderr and the configured log file.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	srv := mcpserver.New(version, mcpserver.Deps{
		Source:     newClient(false),
		Store:      db,
		Thresholds: cfg.Thresholds(),
		Logger:     logger,
		Metrics:    recorder,
	})
	logger.Info("mcp server starting", "version", version, "db", dbPath)
	return srv.Run(cmd.Context())
}
