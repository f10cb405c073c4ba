package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/pable/go-sb-networks/internal/analysis"
	"github.com/pable/go-sb-networks/internal/report"
	"github.com/pable/go-sb-networks/internal/storage"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the database. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

func runShell(cmd *cobra.Command, _ []string) error {
	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	cGreeting.Println("sbnet shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("sbnet")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		name, args := tokens[0], tokens[1:]

		switch name {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
		case "list":
			shellList(db)
		case "show":
			if len(args) != 1 {
				cError.Fprintln(os.Stderr, "usage: show <match-id>")
				continue
			}
			shellShow(db, args[0])
		case "analyze":
			if len(args) != 1 {
				cError.Fprintln(os.Stderr, "usage: analyze <match-id>")
				continue
			}
			shellAnalyze(cmd, db, args[0])
		default:
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", name)
		}
	}
	return nil
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list all stored analyses"},
		{"show <match-id>", "show the latest analysis of a match"},
		{"analyze <match-id>", "fetch, analyse and store a match"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-24s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}

func shellList(db *storage.DB) {
	runs, err := db.ListAnalyses()
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if len(runs) == 0 {
		cMuted.Println("No analyses stored yet.")
		return
	}
	cHeader.Fprintf(os.Stdout, "%d stored run(s)\n", len(runs))
	report.PrintAnalysisList(os.Stdout, runs)
}

func shellShow(db *storage.DB, arg string) {
	matchID, err := parseMatchID(arg)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	latest, err := db.LatestAnalysis(matchID)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if latest == nil {
		fmt.Fprintf(os.Stderr, "no analysis stored for match %d\n", matchID)
		return
	}
	if err := showRun(db, latest.RunID); err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
	}
}

func shellAnalyze(cmd *cobra.Command, db *storage.DB, arg string) {
	matchID, err := parseMatchID(arg)
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	res, err := analysis.Analyze(cmd.Context(), newClient(false), matchID, cfg.Thresholds(),
		analysis.WithLogger(logger), analysis.WithMetrics(recorder))
	if err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	if err := db.InsertAnalysis(res); err != nil {
		cError.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	report.PrintResult(os.Stdout, res)
}
