package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/pable/go-sb-networks/internal/analysis"
	"github.com/pable/go-sb-networks/internal/model"
	"github.com/pable/go-sb-networks/internal/network"
)

func newTable(w io.Writer) *tablewriter.Table {
	return tablewriter.NewTable(w, tablewriter.WithConfig(tablewriter.Config{
		Row:    tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignRight}},
		Header: tw.CellConfig{Alignment: tw.CellAlignment{Global: tw.AlignCenter}},
	}))
}

// PrintResult prints every table for one analysis run.
func PrintResult(w io.Writer, res *analysis.Result) {
	PrintAnalysisHeader(w, res)
	for _, p := range res.Passes {
		fmt.Fprintf(w, "\nDecisive passes: %s\n", p.Team)
		PrintPassNetwork(w, p.Graph)
		PrintCentrality(w, p.Centrality)
	}
	for _, c := range res.Confrontations {
		fmt.Fprintf(w, "\n%s network: %s attacking vs %s\n", kindTitle(c.Kind), c.Attacking, c.Defending)
		PrintDuelNetwork(w, c.Graph)
		PrintMatching(w, c.Matching)
		PrintStrongestVsMatched(w, c.Strongest, c.Matching)
	}
}

// PrintAnalysisHeader prints a one-line summary header for the run.
func PrintAnalysisHeader(w io.Writer, res *analysis.Result) {
	fmt.Fprintf(w, "\nMatch: %d  |  %s vs %s  |  Events: %d  |  Run: %s  |  At: %s\n",
		res.MatchID, res.Teams[0], res.Teams[1], res.EventCount, shortID(res.RunID),
		res.CreatedAt.Format("2006-01-02 15:04"))
}

// PrintPassNetwork prints a directed pass network, heaviest edges first.
func PrintPassNetwork(w io.Writer, g *model.RelationGraph) {
	if g.NumEdges() == 0 {
		fmt.Fprintln(w, "(no decisive passes)")
		return
	}
	table := newTable(w)
	table.Header("PASSER", "RECIPIENT", "PASSES")
	for _, e := range byWeight(g.Edges) {
		table.Append(e.Source, e.Target, strconv.Itoa(e.Weight))
	}
	table.Render()
}

// PrintCentrality prints weighted in/out degrees per player.
func PrintCentrality(w io.Writer, cs []network.NodeCentrality) {
	if len(cs) == 0 {
		return
	}
	table := newTable(w)
	table.Header("PLAYER", "DEGREE", "IN", "OUT", "SHARE")
	for _, c := range cs {
		table.Append(
			c.Player,
			strconv.Itoa(c.Degree),
			strconv.Itoa(c.In),
			strconv.Itoa(c.Out),
			fmt.Sprintf("%.0f%%", c.Share*100),
		)
	}
	table.Render()
}

// PrintDuelNetwork prints a bipartite attacker/defender network.
func PrintDuelNetwork(w io.Writer, g *model.RelationGraph) {
	if g.NumEdges() == 0 {
		fmt.Fprintln(w, "(no confrontations)")
		return
	}
	table := newTable(w)
	table.Header("ATTACKER", "DEFENDER", "SCORE")
	for _, e := range byWeight(g.Edges) {
		table.Append(e.Source, e.Target, strconv.Itoa(e.Weight))
	}
	table.Render()
}

// PrintMatching prints the optimal one-to-one assignment and its total.
func PrintMatching(w io.Writer, m model.Matching) {
	if len(m.Pairs) == 0 {
		return
	}
	table := newTable(w)
	table.Header("ATTACKER", "MARKED BY", "WEIGHT")
	for _, p := range m.Pairs {
		table.Append(p.A, p.B, strconv.Itoa(p.Weight))
	}
	table.Footer("", "TOTAL", strconv.Itoa(m.TotalWeight()))
	table.Render()
}

// PrintStrongestVsMatched compares each attacker's heaviest opponent with the
// defender the matching assigned. Rows where they differ are marked with "*".
func PrintStrongestVsMatched(w io.Writer, strongest []model.Pair, m model.Matching) {
	if len(strongest) == 0 {
		return
	}
	table := newTable(w)
	table.Header(" ", "ATTACKER", "STRONGEST", "SCORE", "MATCHED")
	for _, s := range strongest {
		matched, ok := m.PartnerOf(s.A)
		if !ok {
			matched = "—"
		}
		marker := " "
		if matched != s.B {
			marker = "*"
		}
		table.Append(marker, s.A, s.B, strconv.Itoa(s.Weight), matched)
	}
	table.Render()
}

// PrintAnalysisList prints stored runs, newest first.
func PrintAnalysisList(w io.Writer, list []model.AnalysisSummary) {
	table := newTable(w)
	table.Header("RUN", "MATCH", "HOME", "AWAY", "EVENTS", "CREATED")
	for _, s := range list {
		table.Append(
			shortID(s.RunID),
			strconv.FormatInt(s.MatchID, 10),
			s.HomeTeam,
			s.AwayTeam,
			strconv.Itoa(s.EventCount),
			s.CreatedAt,
		)
	}
	table.Render()
}

func kindTitle(k model.NetworkKind) string {
	switch k {
	case model.NetworkDuel:
		return "Duel"
	case model.NetworkProximity:
		return "Shot proximity"
	default:
		return "Pass"
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// byWeight returns a copy of edges ordered by weight descending, keeping the
// (Source, Target) order between equal weights.
func byWeight(edges []model.Edge) []model.Edge {
	out := make([]model.Edge, len(edges))
	copy(out, edges)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Weight > out[j].Weight })
	return out
}
