package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/spf13/cobra"
)

var (
	matchesCompetition int
	matchesSeason      int
)

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List competitions, or the fixtures of one competition season",
	Long: `Without flags, lists every competition and season in the open-data
repository. With --competition and --season, lists that season's fixtures
with their match ids.

Example:
  sbnet matches --competition 43 --season 106`,
	Args: cobra.NoArgs,
	RunE: runMatches,
}

func init() {
	matchesCmd.Flags().IntVar(&matchesCompetition, "competition", 0, "competition id")
	matchesCmd.Flags().IntVar(&matchesSeason, "season", 0, "season id")
	matchesCmd.MarkFlagsRequiredTogether("competition", "season")
}

func runMatches(cmd *cobra.Command, args []string) error {
	client := newClient(false)
	table := tablewriter.NewTable(os.Stdout, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignLeft}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))

	if matchesCompetition == 0 {
		comps, err := client.Competitions(cmd.Context())
		if err != nil {
			return fmt.Errorf("list competitions: %w", err)
		}
		table.Header("COMP", "SEASON", "COUNTRY", "COMPETITION", "SEASON NAME", "360")
		for _, c := range comps {
			has360 := ""
			if c.Available360 != "" {
				has360 = "yes"
			}
			table.Append(strconv.Itoa(c.CompetitionID), strconv.Itoa(c.SeasonID),
				c.CountryName, c.CompetitionName, c.SeasonName, has360)
		}
		table.Render()
		return nil
	}

	fixtures, err := client.Matches(cmd.Context(), matchesCompetition, matchesSeason)
	if err != nil {
		return fmt.Errorf("list matches: %w", err)
	}
	table.Header("MATCH", "DATE", "HOME", "SCORE", "AWAY", "360")
	for _, m := range fixtures {
		table.Append(strconv.FormatInt(m.MatchID, 10), m.MatchDate, m.HomeTeam.Name,
			fmt.Sprintf("%d-%d", m.HomeScore, m.AwayScore), m.AwayTeam.Name, m.Status360)
	}
	table.Render()
	fmt.Fprintf(os.Stdout, "\n(%d matches)\n", len(fixtures))
	return nil
}
