package matching

import (
	"math/rand"
	"testing"

	"github.com/pable/go-sb-networks/internal/model"
)

// bruteForce returns the best achievable total weight by trying every matching.
func bruteForce(n int, edges []WeightedEdge) int64 {
	w := make([][]int64, n)
	for i := range w {
		w[i] = make([]int64, n)
	}
	for _, e := range edges {
		if e.I == e.J || e.W <= 0 {
			continue
		}
		if e.W > w[e.I][e.J] {
			w[e.I][e.J], w[e.J][e.I] = e.W, e.W
		}
	}
	var best func(used uint) int64
	best = func(used uint) int64 {
		v := 0
		for v < n && used&(1<<v) != 0 {
			v++
		}
		if v == n {
			return 0
		}
		used |= 1 << v
		result := best(used) // v stays unmatched
		for u := v + 1; u < n; u++ {
			if used&(1<<u) != 0 || w[v][u] == 0 {
				continue
			}
			if total := w[v][u] + best(used|1<<u); total > result {
				result = total
			}
		}
		return result
	}
	return best(0)
}

// checkMate validates mate and returns the matched weight.
func checkMate(t *testing.T, n int, edges []WeightedEdge, mate []int) int64 {
	t.Helper()
	if len(mate) != n {
		t.Fatalf("mate has length %d, want %d", len(mate), n)
	}
	w := make(map[[2]int]int64)
	for _, e := range edges {
		i, j := min(e.I, e.J), max(e.I, e.J)
		if e.W > w[[2]int{i, j}] {
			w[[2]int{i, j}] = e.W
		}
	}
	var total int64
	for v, u := range mate {
		if u == -1 {
			continue
		}
		if u < 0 || u >= n || mate[u] != v || u == v {
			t.Fatalf("inconsistent mate: %v", mate)
		}
		if v < u {
			ew, ok := w[[2]int{v, u}]
			if !ok || ew <= 0 {
				t.Fatalf("matched %d-%d without a positive edge", v, u)
			}
			total += ew
		}
	}
	return total
}

func TestMaxWeightMatching_KnownGraphs(t *testing.T) {
	cases := []struct {
		name  string
		n     int
		edges []WeightedEdge
		want  int64 // -1: compare against brute force
	}{
		{"empty", 0, nil, 0},
		{"no edges", 3, nil, 0},
		{"single edge", 2, []WeightedEdge{{0, 1, 1}}, 1},
		{"path prefers middle", 4, []WeightedEdge{{0, 1, 5}, {1, 2, 11}, {2, 3, 5}}, 11},
		{"path prefers ends", 4, []WeightedEdge{{0, 1, 6}, {1, 2, 11}, {2, 3, 6}}, 12},
		{"triangle", 3, []WeightedEdge{{0, 1, 4}, {1, 2, 5}, {0, 2, 6}}, 6},
		{"s-blossom", 4, []WeightedEdge{{0, 1, 8}, {0, 2, 9}, {1, 2, 10}, {2, 3, 7}}, 15},
		{"s-blossom augment", 6, []WeightedEdge{{0, 1, 8}, {0, 2, 9}, {1, 2, 10}, {2, 3, 7}, {0, 5, 5}, {3, 4, 6}}, 21},
		{"t-blossom", 6, []WeightedEdge{{0, 1, 9}, {0, 2, 8}, {1, 2, 10}, {0, 3, 5}, {3, 4, 4}, {0, 5, 3}}, 17},
		{"nested s-blossom", 8, []WeightedEdge{
			{0, 1, 9}, {0, 2, 9}, {1, 2, 10}, {1, 3, 8}, {2, 4, 8}, {3, 4, 10}, {4, 5, 6},
		}, 23},
		{"nested blossom expand", 9, []WeightedEdge{
			{1, 2, 19}, {1, 3, 20}, {1, 8, 8}, {2, 3, 25}, {2, 4, 18}, {3, 5, 18}, {4, 5, 13}, {4, 7, 7}, {5, 6, 7},
		}, -1},
		{"blossom relabel", 11, []WeightedEdge{
			{1, 2, 45}, {1, 5, 45}, {2, 3, 50}, {3, 4, 45}, {4, 5, 50}, {1, 6, 30}, {3, 9, 35}, {4, 8, 35}, {5, 7, 26}, {9, 10, 5},
		}, -1},
		{"negative weights ignored", 3, []WeightedEdge{{0, 1, -2}, {1, 2, 0}}, 0},
		{"parallel edges keep heaviest", 2, []WeightedEdge{{0, 1, 2}, {1, 0, 7}}, 7},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mate := MaxWeightMatching(tc.n, tc.edges)
			got := checkMate(t, tc.n, tc.edges, mate)
			want := tc.want
			if want < 0 {
				want = bruteForce(tc.n, tc.edges)
			}
			if got != want {
				t.Errorf("total weight %d, want %d (mate %v)", got, want, mate)
			}
		})
	}
}

func TestMaxWeightMatching_AgainstBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 500; trial++ {
		n := 1 + rng.Intn(8)
		var edges []WeightedEdge
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if rng.Intn(3) == 0 {
					continue
				}
				edges = append(edges, WeightedEdge{I: i, J: j, W: int64(rng.Intn(24) - 3)})
			}
		}
		mate := MaxWeightMatching(n, edges)
		got := checkMate(t, n, edges, mate)
		if want := bruteForce(n, edges); got != want {
			t.Fatalf("trial %d: n=%d edges=%v total %d, want %d (mate %v)", trial, n, edges, got, want, mate)
		}
	}
}

func TestMaxWeightMatching_InsertionOrderDoesNotChangeTotal(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	edges := []WeightedEdge{
		{0, 1, 6}, {0, 2, 5}, {1, 2, 7}, {1, 3, 4}, {2, 4, 4}, {3, 4, 8}, {3, 5, 3}, {4, 5, 2}, {5, 6, 9}, {6, 7, 1},
	}
	want := checkMate(t, 8, edges, MaxWeightMatching(8, edges))
	for i := 0; i < 20; i++ {
		rng.Shuffle(len(edges), func(i, j int) { edges[i], edges[j] = edges[j], edges[i] })
		if got := checkMate(t, 8, edges, MaxWeightMatching(8, edges)); got != want {
			t.Fatalf("shuffled total %d, want %d", got, want)
		}
	}
}

func duelGraph(obs ...model.Edge) *model.RelationGraph {
	g := &model.RelationGraph{Kind: model.NetworkDuel, Team: "ARG", Opponent: "FRA", Edges: obs}
	att, def, nodes := map[string]bool{}, map[string]bool{}, map[string]bool{}
	for _, e := range obs {
		att[e.Source], nodes[e.Source] = true, true
		def[e.Target], nodes[e.Target] = true, true
	}
	for a := range att {
		g.Attackers = append(g.Attackers, a)
	}
	for d := range def {
		g.Defenders = append(g.Defenders, d)
	}
	for n := range nodes {
		g.Nodes = append(g.Nodes, n)
	}
	return g
}

func TestMaxWeight_AttackerDefenderExample(t *testing.T) {
	// {A-X} totals 3; {A-Y, B-X} only 2.
	g := duelGraph(
		model.Edge{Source: "A", Target: "X", Weight: 3},
		model.Edge{Source: "A", Target: "Y", Weight: 1},
		model.Edge{Source: "B", Target: "X", Weight: 1},
	)
	m := MaxWeight(g)
	if m.TotalWeight() != 3 {
		t.Fatalf("total weight %d, want 3", m.TotalWeight())
	}
	if len(m.Pairs) != 1 || m.Pairs[0] != (model.Pair{A: "A", B: "X", Weight: 3}) {
		t.Errorf("unexpected pairs %+v", m.Pairs)
	}
	if _, ok := m.PartnerOf("B"); ok {
		t.Error("B should be unmatched")
	}
}

func TestMaxWeight_KeepsAttackerDefenderOrientation(t *testing.T) {
	// Attacker name sorts after the defender name.
	g := duelGraph(model.Edge{Source: "Zidane", Target: "Abidal", Weight: 2})
	m := MaxWeight(g)
	if len(m.Pairs) != 1 || m.Pairs[0].A != "Zidane" || m.Pairs[0].B != "Abidal" {
		t.Errorf("expected attacker first, got %+v", m.Pairs)
	}
}

func TestMaxWeight_EmptyGraph(t *testing.T) {
	if m := MaxWeight(nil); len(m.Pairs) != 0 || m.TotalWeight() != 0 {
		t.Errorf("nil graph should give empty matching, got %+v", m)
	}
	if m := MaxWeight(&model.RelationGraph{}); len(m.Pairs) != 0 {
		t.Errorf("empty graph should give empty matching, got %+v", m)
	}
}

func TestFromGraph_SymmetrisesDirected(t *testing.T) {
	g := &model.RelationGraph{
		Kind:     model.NetworkPass,
		Directed: true,
		Nodes:    []string{"a", "b", "c"},
		Edges: []model.Edge{
			{Source: "a", Target: "b", Weight: 2},
			{Source: "b", Target: "a", Weight: 3},
			{Source: "b", Target: "c", Weight: 4},
			{Source: "c", Target: "c", Weight: 9},
		},
	}
	p := FromGraph(g)
	if len(p.Edges) != 2 {
		t.Fatalf("expected 2 undirected edges, got %+v", p.Edges)
	}
	if p.Edges[0] != (WeightedEdge{I: 0, J: 1, W: 5}) {
		t.Errorf("a-b should sum both directions, got %+v", p.Edges[0])
	}
	m := p.Solve()
	if m.TotalWeight() != 5 {
		t.Errorf("expected a-b (5) over b-c (4), got %+v", m)
	}
}

func TestMaxWeight_NonBipartiteInput(t *testing.T) {
	// Same-side edges from malformed input form an odd cycle.
	g := duelGraph(
		model.Edge{Source: "A", Target: "B", Weight: 5},
		model.Edge{Source: "B", Target: "C", Weight: 5},
		model.Edge{Source: "C", Target: "A", Weight: 5},
		model.Edge{Source: "C", Target: "D", Weight: 4},
	)
	m := MaxWeight(g)
	if m.TotalWeight() != 9 {
		t.Errorf("total weight %d, want 9 (%+v)", m.TotalWeight(), m.Pairs)
	}
	seen := map[string]bool{}
	for _, p := range m.Pairs {
		if seen[p.A] || seen[p.B] {
			t.Fatalf("node matched twice in %+v", m.Pairs)
		}
		seen[p.A], seen[p.B] = true, true
	}
}
