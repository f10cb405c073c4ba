package network

import (
	"sort"

	"github.com/pable/go-sb-networks/internal/model"
)

// NodeCentrality holds a player's weighted degrees in one graph. For bipartite
// graphs Out is the weight as attacker and In the weight as defender.
type NodeCentrality struct {
	Player string
	Degree int
	In     int
	Out    int
	Share  float64 // Degree / sum of all degrees
}

// Centrality returns weighted degrees for every node, sorted by Degree
// descending then by name.
func Centrality(g *model.RelationGraph) []NodeCentrality {
	if g.NumEdges() == 0 {
		return nil
	}
	byNode := make(map[string]*NodeCentrality, len(g.Nodes))
	get := func(n string) *NodeCentrality {
		c, ok := byNode[n]
		if !ok {
			c = &NodeCentrality{Player: n}
			byNode[n] = c
		}
		return c
	}

	totalDegree := 0
	for _, e := range g.Edges {
		src, dst := get(e.Source), get(e.Target)
		src.Out += e.Weight
		dst.In += e.Weight
		src.Degree += e.Weight
		dst.Degree += e.Weight
		totalDegree += 2 * e.Weight
	}

	out := make([]NodeCentrality, 0, len(byNode))
	for _, c := range byNode {
		c.Share = float64(c.Degree) / float64(totalDegree)
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Degree != out[j].Degree {
			return out[i].Degree > out[j].Degree
		}
		return out[i].Player < out[j].Player
	})
	return out
}

// MostConnected returns the node with the highest weighted degree.
func MostConnected(g *model.RelationGraph) (NodeCentrality, bool) {
	c := Centrality(g)
	if len(c) == 0 {
		return NodeCentrality{}, false
	}
	return c[0], true
}

// StrongestOpponents returns, for each attacker of a bipartite graph, the
// defender joined by its heaviest edge. Ties go to the lexically first
// defender. Unlike a matching, one defender may be chosen by many attackers.
func StrongestOpponents(g *model.RelationGraph) []model.Pair {
	if g.NumEdges() == 0 {
		return nil
	}
	best := make(map[string]model.Pair)
	for _, e := range g.Edges {
		cur, ok := best[e.Source]
		if !ok || e.Weight > cur.Weight || (e.Weight == cur.Weight && e.Target < cur.B) {
			best[e.Source] = model.Pair{A: e.Source, B: e.Target, Weight: e.Weight}
		}
	}
	out := make([]model.Pair, 0, len(best))
	for _, p := range best {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].A < out[j].A })
	return out
}

// Matrix is a dense adjacency matrix, Cells[r][c] = weight(Rows[r], Cols[c]).
type Matrix struct {
	Rows  []string
	Cols  []string
	Cells [][]int
}

// AdjacencyMatrix lays a graph out for export. Pass networks use the sorted
// node list on both axes; bipartite networks use attackers x defenders.
func AdjacencyMatrix(g *model.RelationGraph) Matrix {
	if g == nil {
		return Matrix{}
	}
	m := Matrix{Rows: g.Nodes, Cols: g.Nodes}
	if !g.Directed {
		m.Rows, m.Cols = g.Attackers, g.Defenders
	}
	row := make(map[string]int, len(m.Rows))
	for i, n := range m.Rows {
		row[n] = i
	}
	col := make(map[string]int, len(m.Cols))
	for i, n := range m.Cols {
		col[n] = i
	}
	m.Cells = make([][]int, len(m.Rows))
	for i := range m.Cells {
		m.Cells[i] = make([]int, len(m.Cols))
	}
	for _, e := range g.Edges {
		r, okR := row[e.Source]
		c, okC := col[e.Target]
		if okR && okC {
			m.Cells[r][c] = e.Weight
		}
	}
	return m
}
