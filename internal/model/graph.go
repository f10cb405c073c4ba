package model

// NetworkKind identifies which relationship a graph describes.
type NetworkKind string

const (
	NetworkPass      NetworkKind = "pass"
	NetworkDuel      NetworkKind = "duel"
	NetworkProximity NetworkKind = "proximity"
)

// Side is the partition a player belongs to in a bipartite network.
type Side int

const (
	SideNone     Side = 0
	SideAttacker Side = 1
	SideDefender Side = 2
)

func (s Side) String() string {
	switch s {
	case SideAttacker:
		return "attacker"
	case SideDefender:
		return "defender"
	default:
		return "-"
	}
}

// Edge is an aggregated relationship. For directed networks Source -> Target;
// for bipartite networks Source is the attacker and Target the defender.
type Edge struct {
	Source string
	Target string
	Weight int
}

// RelationGraph is the weighted graph produced by aggregation. There is at most
// one edge per (Source, Target), every edge has Weight >= 1, and only players
// with at least one observation appear as nodes.
type RelationGraph struct {
	Kind     NetworkKind
	Directed bool
	Team     string // passing team, or attacking team for bipartite networks
	Opponent string // defending team; empty for pass networks

	Nodes     []string // sorted
	Attackers []string // sorted; bipartite networks only
	Defenders []string // sorted; bipartite networks only
	Edges     []Edge   // sorted by (Source, Target)
}

// NumEdges returns the number of edges, treating a nil graph as empty.
func (g *RelationGraph) NumEdges() int {
	if g == nil {
		return 0
	}
	return len(g.Edges)
}

// Weight returns the weight of the edge u->v (or u-v for undirected graphs), 0 if absent.
func (g *RelationGraph) Weight(u, v string) int {
	if g == nil {
		return 0
	}
	for _, e := range g.Edges {
		if e.Source == u && e.Target == v {
			return e.Weight
		}
		if !g.Directed && e.Source == v && e.Target == u {
			return e.Weight
		}
	}
	return 0
}

// SideOf reports the partition of a node in a bipartite network.
func (g *RelationGraph) SideOf(node string) Side {
	if g == nil {
		return SideNone
	}
	for _, a := range g.Attackers {
		if a == node {
			return SideAttacker
		}
	}
	for _, d := range g.Defenders {
		if d == node {
			return SideDefender
		}
	}
	return SideNone
}

// TotalWeight sums all edge weights.
func (g *RelationGraph) TotalWeight() int {
	if g == nil {
		return 0
	}
	total := 0
	for _, e := range g.Edges {
		total += e.Weight
	}
	return total
}

// Pair is one matched attacker/defender (or u/v) pair.
type Pair struct {
	A, B   string
	Weight int
}

// Matching is a set of node-disjoint edges chosen from a RelationGraph.
type Matching struct {
	Pairs []Pair // sorted by (A, B)
}

// TotalWeight sums the weights of all matched pairs.
func (m Matching) TotalWeight() int {
	total := 0
	for _, p := range m.Pairs {
		total += p.Weight
	}
	return total
}

// PartnerOf returns the node matched with n, if any.
func (m Matching) PartnerOf(n string) (string, bool) {
	for _, p := range m.Pairs {
		if p.A == n {
			return p.B, true
		}
		if p.B == n {
			return p.A, true
		}
	}
	return "", false
}

// AnalysisSummary is a lightweight record for list/show commands.
type AnalysisSummary struct {
	RunID      string
	MatchID    int64
	HomeTeam   string
	AwayTeam   string
	EventCount int
	CreatedAt  string
}
