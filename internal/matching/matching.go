// Package matching extracts the maximum-weight matching of a relation graph.
// The engine works on general graphs, so inputs that are not strictly
// bipartite are still matched optimally.
package matching

import (
	"sort"

	"github.com/pable/go-sb-networks/internal/model"
)

// Problem is an undirected graph prepared for the engine.
type Problem struct {
	Nodes []string
	Edges []WeightedEdge
	// orientation of each node pair as it appeared in the source graph
	sourceFirst map[[2]int]bool
}

// FromGraph converts g into an undirected problem. Directed graphs are
// symmetrised by summing u->v and v->u into one edge. Self-loops are dropped.
func FromGraph(g *model.RelationGraph) Problem {
	p := Problem{sourceFirst: make(map[[2]int]bool)}
	if g == nil {
		return p
	}
	p.Nodes = append([]string(nil), g.Nodes...)
	sort.Strings(p.Nodes)
	pos := make(map[string]int, len(p.Nodes))
	for i, n := range p.Nodes {
		pos[n] = i
	}

	sums := make(map[[2]int]int64)
	var order [][2]int
	for _, e := range g.Edges {
		u, okU := pos[e.Source]
		v, okV := pos[e.Target]
		if !okU || !okV || u == v {
			continue
		}
		k := [2]int{min(u, v), max(u, v)}
		if _, seen := sums[k]; !seen {
			order = append(order, k)
			if !g.Directed {
				p.sourceFirst[k] = u < v
			}
		}
		sums[k] += int64(e.Weight)
	}
	for _, k := range order {
		p.Edges = append(p.Edges, WeightedEdge{I: k[0], J: k[1], W: sums[k]})
	}
	return p
}

// Solve runs the engine and returns the matched pairs. For bipartite graphs A
// is the attacker and B the defender; otherwise A sorts before B.
func (p Problem) Solve() model.Matching {
	if len(p.Edges) == 0 {
		return model.Matching{}
	}
	mate := MaxWeightMatching(len(p.Nodes), p.Edges)

	weight := make(map[[2]int]int64, len(p.Edges))
	for _, e := range p.Edges {
		weight[[2]int{e.I, e.J}] = e.W
	}

	var m model.Matching
	for u, v := range mate {
		if v < u {
			continue
		}
		k := [2]int{u, v}
		a, b := p.Nodes[u], p.Nodes[v]
		if first, ok := p.sourceFirst[k]; ok && !first {
			a, b = b, a
		}
		m.Pairs = append(m.Pairs, model.Pair{A: a, B: b, Weight: int(weight[k])})
	}
	sort.Slice(m.Pairs, func(i, j int) bool {
		if m.Pairs[i].A != m.Pairs[j].A {
			return m.Pairs[i].A < m.Pairs[j].A
		}
		return m.Pairs[i].B < m.Pairs[j].B
	})
	return m
}

// MaxWeight computes the maximum-weight matching of g. An empty graph yields
// an empty matching.
func MaxWeight(g *model.RelationGraph) model.Matching {
	return FromGraph(g).Solve()
}
