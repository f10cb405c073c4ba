package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pable/go-sb-networks/internal/config"
	"github.com/pable/go-sb-networks/internal/logging"
	"github.com/pable/go-sb-networks/internal/metrics"
	"github.com/pable/go-sb-networks/internal/statsbomb"
	"github.com/pable/go-sb-networks/internal/storage"
)

// version is overridden at build time with -ldflags "-X ...cmd.version=...".
var version = "dev"

var (
	dbPath      string
	configPath  string
	logLevel    string
	metricsFile string

	cfg      *config.Config
	logger   = logging.Discard()
	recorder *metrics.Recorder
	closeLog = func() error { return nil }
)

var rootCmd = &cobra.Command{
	Use:   "sbnet",
	Short: "Football pass and duel network analysis",
	Long: `Fetch StatsBomb open-data matches, build decisive-pass networks and
attacker/defender duel networks, and find the optimal one-to-one marking
assignment with maximum-weight matching.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setup,
	PersistentPostRunE: teardown,
}

// Execute runs the root command.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "path to SQLite database (default ~/.sbnet/sbnet.db)")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "YAML config file (falls back to $SBNET_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus textfile metrics here on exit")

	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(shellCmd)
}

// setup loads config and wires the logger and metrics. Flags win over config.
func setup(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}
	if dbPath == "" {
		dbPath = cfg.DBPath
	}
	if logLevel == "" {
		logLevel = cfg.LogLevel
	}
	if metricsFile == "" {
		metricsFile = cfg.MetricsFile
	}

	logger, closeLog = logging.Setup(cfg.LogFile, logging.ParseLevel(logLevel))
	slog.SetDefault(logger)
	recorder = metrics.New()
	logger.Debug("config loaded", "command", cmd.Name(), "db", dbPath, "cache", cfg.CacheDir)
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if err := recorder.WriteTextfile(metricsFile); err != nil {
		logger.Warn("metrics not written", "error", err, "file", metricsFile)
	}
	return closeLog()
}

// openDB creates the database directory if needed and opens the store.
func openDB() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}

func newClient(force bool) *statsbomb.Client {
	return statsbomb.NewClient(
		statsbomb.WithBaseURL(cfg.BaseURL),
		statsbomb.WithTimeout(cfg.HTTPTimeout()),
		statsbomb.WithCache(cfg.CacheDir),
		statsbomb.WithForce(force),
	)
}
