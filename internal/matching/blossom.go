package matching

// WeightedEdge is an undirected edge between vertex indices I and J.
type WeightedEdge struct {
	I, J int
	W    int64
}

// MaxWeightMatching computes a maximum-weight matching of a general graph on
// n vertices using Edmonds' blossom algorithm with primal-dual updates, in
// O(n^3). The result mate[v] is the vertex matched to v, or -1.
//
// Cardinality is not maximised: edges with non-positive weight never
// improve the total and are ignored, as are self-loops. Parallel edges keep
// the heaviest weight.
func MaxWeightMatching(n int, edges []WeightedEdge) []int {
	mate := make([]int, n)
	for i := range mate {
		mate[i] = -1
	}
	clean := normalize(n, edges)
	if len(clean) == 0 {
		return mate
	}
	s := newSolver(n, clean)
	s.solve()
	for v := 0; v < n; v++ {
		if s.mate[v] >= 0 {
			mate[v] = s.endpoint[s.mate[v]]
		}
	}
	return mate
}

func normalize(n int, edges []WeightedEdge) []WeightedEdge {
	type key struct{ i, j int }
	best := make(map[key]int64)
	var order []key
	for _, e := range edges {
		i, j := e.I, e.J
		if i == j || i < 0 || j < 0 || i >= n || j >= n || e.W <= 0 {
			continue
		}
		if i > j {
			i, j = j, i
		}
		k := key{i, j}
		w, seen := best[k]
		if !seen {
			order = append(order, k)
		}
		if !seen || e.W > w {
			best[k] = e.W
		}
	}
	out := make([]WeightedEdge, 0, len(order))
	for _, k := range order {
		// Doubled so that halving an S-S slack stays integral.
		out = append(out, WeightedEdge{I: k.i, J: k.j, W: 2 * best[k]})
	}
	return out
}

// solver holds the state of one run. Vertices are 0..n-1, non-trivial
// blossoms n..2n-1. Endpoint p belongs to edge p/2; endpoint[p] is its vertex.
type solver struct {
	n     int
	edges []WeightedEdge

	endpoint  []int
	neighbend [][]int

	mate     []int // vertex -> remote endpoint of its matched edge, or -1
	label    []int // 0 free, 1 S, 2 T; bit 4 marks scanBlossom breadcrumbs
	labelend []int

	inblossom        []int
	blossomparent    []int
	blossomchilds    [][]int
	blossombase      []int
	blossomendps     [][]int
	bestedge         []int
	blossombestedges [][]int
	unusedblossoms   []int

	dualvar   []int64
	allowedge []bool
	queue     []int
}

func newSolver(n int, edges []WeightedEdge) *solver {
	nedge := len(edges)
	s := &solver{
		n:                n,
		edges:            edges,
		endpoint:         make([]int, 2*nedge),
		neighbend:        make([][]int, n),
		mate:             make([]int, n),
		label:            make([]int, 2*n),
		labelend:         make([]int, 2*n),
		inblossom:        make([]int, n),
		blossomparent:    make([]int, 2*n),
		blossomchilds:    make([][]int, 2*n),
		blossombase:      make([]int, 2*n),
		blossomendps:     make([][]int, 2*n),
		bestedge:         make([]int, 2*n),
		blossombestedges: make([][]int, 2*n),
		dualvar:          make([]int64, 2*n),
		allowedge:        make([]bool, nedge),
	}

	var maxweight int64
	for k, e := range edges {
		s.endpoint[2*k] = e.I
		s.endpoint[2*k+1] = e.J
		s.neighbend[e.I] = append(s.neighbend[e.I], 2*k+1)
		s.neighbend[e.J] = append(s.neighbend[e.J], 2*k)
		if e.W > maxweight {
			maxweight = e.W
		}
	}
	for v := 0; v < n; v++ {
		s.mate[v] = -1
		s.inblossom[v] = v
		s.blossombase[v] = v
		s.dualvar[v] = maxweight
	}
	for b := 0; b < 2*n; b++ {
		s.labelend[b] = -1
		s.blossomparent[b] = -1
		s.bestedge[b] = -1
		if b >= n {
			s.blossombase[b] = -1
		}
	}
	for b := n; b < 2*n; b++ {
		s.unusedblossoms = append(s.unusedblossoms, b)
	}
	return s
}

func (s *solver) slack(k int) int64 {
	e := s.edges[k]
	return s.dualvar[e.I] + s.dualvar[e.J] - 2*e.W
}

func (s *solver) leaves(b int, out []int) []int {
	if b < s.n {
		return append(out, b)
	}
	for _, t := range s.blossomchilds[b] {
		if t < s.n {
			out = append(out, t)
		} else {
			out = s.leaves(t, out)
		}
	}
	return out
}

// at indexes a cyclic child list, allowing negative positions.
func at(list []int, i int) int {
	if i < 0 {
		i += len(list)
	}
	return list[i]
}

func indexOf(list []int, x int) int {
	for i, v := range list {
		if v == x {
			return i
		}
	}
	return -1
}

func (s *solver) assignLabel(w, t, p int) {
	b := s.inblossom[w]
	s.label[w], s.label[b] = t, t
	s.labelend[w], s.labelend[b] = p, p
	s.bestedge[w], s.bestedge[b] = -1, -1
	if t == 1 {
		s.queue = s.leaves(b, s.queue)
		return
	}
	if t == 2 {
		base := s.blossombase[b]
		s.assignLabel(s.endpoint[s.mate[base]], 1, s.mate[base]^1)
	}
}

// scanBlossom traces back from v and w to find a new blossom base, or -1 if
// the two paths reach different roots (an augmenting path).
func (s *solver) scanBlossom(v, w int) int {
	var path []int
	base := -1
	for v != -1 || w != -1 {
		b := s.inblossom[v]
		if s.label[b]&4 != 0 {
			base = s.blossombase[b]
			break
		}
		path = append(path, b)
		s.label[b] = 5
		if s.labelend[b] == -1 {
			v = -1
		} else {
			v = s.endpoint[s.labelend[b]]
			b = s.inblossom[v]
			v = s.endpoint[s.labelend[b]]
		}
		if w != -1 {
			v, w = w, v
		}
	}
	for _, b := range path {
		s.label[b] = 1
	}
	return base
}

func (s *solver) addBlossom(base, k int) {
	v, w := s.edges[k].I, s.edges[k].J
	bb := s.inblossom[base]
	bv := s.inblossom[v]
	bw := s.inblossom[w]

	b := s.unusedblossoms[len(s.unusedblossoms)-1]
	s.unusedblossoms = s.unusedblossoms[:len(s.unusedblossoms)-1]
	s.blossombase[b] = base
	s.blossomparent[b] = -1
	s.blossomparent[bb] = b

	var path, endps []int
	for bv != bb {
		s.blossomparent[bv] = b
		path = append(path, bv)
		endps = append(endps, s.labelend[bv])
		v = s.endpoint[s.labelend[bv]]
		bv = s.inblossom[v]
	}
	path = append(path, bb)
	reverse(path)
	reverse(endps)
	endps = append(endps, 2*k)
	for bw != bb {
		s.blossomparent[bw] = b
		path = append(path, bw)
		endps = append(endps, s.labelend[bw]^1)
		w = s.endpoint[s.labelend[bw]]
		bw = s.inblossom[w]
	}
	s.blossomchilds[b] = path
	s.blossomendps[b] = endps

	s.label[b] = 1
	s.labelend[b] = s.labelend[bb]
	s.dualvar[b] = 0
	for _, leaf := range s.leaves(b, nil) {
		if s.label[s.inblossom[leaf]] == 2 {
			s.queue = append(s.queue, leaf)
		}
		s.inblossom[leaf] = b
	}

	bestedgeto := make([]int, 2*s.n)
	for i := range bestedgeto {
		bestedgeto[i] = -1
	}
	for _, sub := range path {
		var nblists [][]int
		if s.blossombestedges[sub] == nil {
			for _, leaf := range s.leaves(sub, nil) {
				list := make([]int, 0, len(s.neighbend[leaf]))
				for _, p := range s.neighbend[leaf] {
					list = append(list, p/2)
				}
				nblists = append(nblists, list)
			}
		} else {
			nblists = [][]int{s.blossombestedges[sub]}
		}
		for _, nblist := range nblists {
			for _, ek := range nblist {
				j := s.edges[ek].J
				if s.inblossom[j] == b {
					j = s.edges[ek].I
				}
				bj := s.inblossom[j]
				if bj != b && s.label[bj] == 1 &&
					(bestedgeto[bj] == -1 || s.slack(ek) < s.slack(bestedgeto[bj])) {
					bestedgeto[bj] = ek
				}
			}
		}
		s.blossombestedges[sub] = nil
		s.bestedge[sub] = -1
	}

	var best []int
	for _, ek := range bestedgeto {
		if ek != -1 {
			best = append(best, ek)
		}
	}
	s.blossombestedges[b] = best
	if best == nil {
		s.blossombestedges[b] = []int{}
	}
	s.bestedge[b] = -1
	for _, ek := range best {
		if s.bestedge[b] == -1 || s.slack(ek) < s.slack(s.bestedge[b]) {
			s.bestedge[b] = ek
		}
	}
}

func (s *solver) expandBlossom(b int, endstage bool) {
	for _, sub := range s.blossomchilds[b] {
		s.blossomparent[sub] = -1
		switch {
		case sub < s.n:
			s.inblossom[sub] = sub
		case endstage && s.dualvar[sub] == 0:
			s.expandBlossom(sub, endstage)
		default:
			for _, leaf := range s.leaves(sub, nil) {
				s.inblossom[leaf] = sub
			}
		}
	}

	if !endstage && s.label[b] == 2 {
		childs := s.blossomchilds[b]
		endps := s.blossomendps[b]
		entrychild := s.inblossom[s.endpoint[s.labelend[b]^1]]
		j := indexOf(childs, entrychild)
		var jstep, endptrick int
		if j&1 != 0 {
			j -= len(childs)
			jstep, endptrick = 1, 0
		} else {
			jstep, endptrick = -1, 1
		}
		p := s.labelend[b]
		for j != 0 {
			s.label[s.endpoint[p^1]] = 0
			s.label[s.endpoint[at(endps, j-endptrick)^endptrick^1]] = 0
			s.assignLabel(s.endpoint[p^1], 2, p)
			s.allowedge[at(endps, j-endptrick)/2] = true
			j += jstep
			p = at(endps, j-endptrick) ^ endptrick
			s.allowedge[p/2] = true
			j += jstep
		}
		bv := at(childs, j)
		s.label[s.endpoint[p^1]], s.label[bv] = 2, 2
		s.labelend[s.endpoint[p^1]], s.labelend[bv] = p, p
		s.bestedge[bv] = -1
		j += jstep
		for at(childs, j) != entrychild {
			bv = at(childs, j)
			if s.label[bv] == 1 {
				j += jstep
				continue
			}
			found := -1
			for _, leaf := range s.leaves(bv, nil) {
				if s.label[leaf] != 0 {
					found = leaf
					break
				}
			}
			if found >= 0 {
				s.label[found] = 0
				s.label[s.endpoint[s.mate[s.blossombase[bv]]]] = 0
				s.assignLabel(found, 2, s.labelend[found])
			}
			j += jstep
		}
	}

	s.label[b], s.labelend[b] = -1, -1
	s.blossomchilds[b], s.blossomendps[b] = nil, nil
	s.blossombase[b] = -1
	s.blossombestedges[b] = nil
	s.bestedge[b] = -1
	s.unusedblossoms = append(s.unusedblossoms, b)
}

// augmentBlossom swaps matched and unmatched edges along the path from
// vertex v to the base of blossom b, then rotates b so v becomes its base.
func (s *solver) augmentBlossom(b, v int) {
	t := v
	for s.blossomparent[t] != b {
		t = s.blossomparent[t]
	}
	if t >= s.n {
		s.augmentBlossom(t, v)
	}
	childs := s.blossomchilds[b]
	endps := s.blossomendps[b]
	i := indexOf(childs, t)
	j := i
	var jstep, endptrick int
	if i&1 != 0 {
		j -= len(childs)
		jstep, endptrick = 1, 0
	} else {
		jstep, endptrick = -1, 1
	}
	for j != 0 {
		j += jstep
		t = at(childs, j)
		p := at(endps, j-endptrick) ^ endptrick
		if t >= s.n {
			s.augmentBlossom(t, s.endpoint[p])
		}
		j += jstep
		t = at(childs, j)
		if t >= s.n {
			s.augmentBlossom(t, s.endpoint[p^1])
		}
		s.mate[s.endpoint[p]] = p ^ 1
		s.mate[s.endpoint[p^1]] = p
	}
	s.blossomchilds[b] = rotate(childs, i)
	s.blossomendps[b] = rotate(endps, i)
	s.blossombase[b] = s.blossombase[s.blossomchilds[b][0]]
}

func (s *solver) augmentMatching(k int) {
	v, w := s.edges[k].I, s.edges[k].J
	for _, start := range [2][2]int{{v, 2*k + 1}, {w, 2 * k}} {
		sv, p := start[0], start[1]
		for {
			bs := s.inblossom[sv]
			if bs >= s.n {
				s.augmentBlossom(bs, sv)
			}
			s.mate[sv] = p
			if s.labelend[bs] == -1 {
				break
			}
			t := s.endpoint[s.labelend[bs]]
			bt := s.inblossom[t]
			sv = s.endpoint[s.labelend[bt]]
			j := s.endpoint[s.labelend[bt]^1]
			if bt >= s.n {
				s.augmentBlossom(bt, j)
			}
			s.mate[j] = s.labelend[bt]
			p = s.labelend[bt] ^ 1
		}
	}
}

func (s *solver) solve() {
	n := s.n
	for stage := 0; stage < n; stage++ {
		for i := range s.label {
			s.label[i] = 0
			s.bestedge[i] = -1
		}
		for b := n; b < 2*n; b++ {
			s.blossombestedges[b] = nil
		}
		for k := range s.allowedge {
			s.allowedge[k] = false
		}
		s.queue = s.queue[:0]

		for v := 0; v < n; v++ {
			if s.mate[v] == -1 && s.label[s.inblossom[v]] == 0 {
				s.assignLabel(v, 1, -1)
			}
		}

		augmented := false
		for {
			for len(s.queue) > 0 && !augmented {
				v := s.queue[len(s.queue)-1]
				s.queue = s.queue[:len(s.queue)-1]

				for _, p := range s.neighbend[v] {
					k := p / 2
					w := s.endpoint[p]
					if s.inblossom[v] == s.inblossom[w] {
						continue
					}
					var kslack int64
					if !s.allowedge[k] {
						kslack = s.slack(k)
						if kslack <= 0 {
							s.allowedge[k] = true
						}
					}
					switch {
					case s.allowedge[k]:
						switch {
						case s.label[s.inblossom[w]] == 0:
							s.assignLabel(w, 2, p^1)
						case s.label[s.inblossom[w]] == 1:
							if base := s.scanBlossom(v, w); base >= 0 {
								s.addBlossom(base, k)
							} else {
								s.augmentMatching(k)
								augmented = true
							}
						case s.label[w] == 0:
							s.label[w] = 2
							s.labelend[w] = p ^ 1
						}
					case s.label[s.inblossom[w]] == 1:
						b := s.inblossom[v]
						if s.bestedge[b] == -1 || kslack < s.slack(s.bestedge[b]) {
							s.bestedge[b] = k
						}
					case s.label[w] == 0:
						if s.bestedge[w] == -1 || kslack < s.slack(s.bestedge[w]) {
							s.bestedge[w] = k
						}
					}
					if augmented {
						break
					}
				}
			}
			if augmented {
				break
			}

			// Delta type 1: a free vertex's dual reaches zero.
			deltatype := 1
			delta := s.dualvar[0]
			for v := 1; v < n; v++ {
				if s.dualvar[v] < delta {
					delta = s.dualvar[v]
				}
			}
			deltaedge, deltablossom := -1, -1

			// Type 2: an S vertex and a free vertex become tight.
			for v := 0; v < n; v++ {
				if s.label[s.inblossom[v]] == 0 && s.bestedge[v] != -1 {
					if d := s.slack(s.bestedge[v]); d < delta {
						delta, deltatype, deltaedge = d, 2, s.bestedge[v]
					}
				}
			}
			// Type 3: two S blossoms become tight.
			for b := 0; b < 2*n; b++ {
				if s.blossomparent[b] == -1 && s.label[b] == 1 && s.bestedge[b] != -1 {
					if d := s.slack(s.bestedge[b]) / 2; d < delta {
						delta, deltatype, deltaedge = d, 3, s.bestedge[b]
					}
				}
			}
			// Type 4: a T blossom's dual reaches zero.
			for b := n; b < 2*n; b++ {
				if s.blossombase[b] >= 0 && s.blossomparent[b] == -1 && s.label[b] == 2 && s.dualvar[b] < delta {
					delta, deltatype, deltablossom = s.dualvar[b], 4, b
				}
			}

			for v := 0; v < n; v++ {
				switch s.label[s.inblossom[v]] {
				case 1:
					s.dualvar[v] -= delta
				case 2:
					s.dualvar[v] += delta
				}
			}
			for b := n; b < 2*n; b++ {
				if s.blossombase[b] >= 0 && s.blossomparent[b] == -1 {
					switch s.label[b] {
					case 1:
						s.dualvar[b] += delta
					case 2:
						s.dualvar[b] -= delta
					}
				}
			}

			switch deltatype {
			case 1:
			case 2:
				s.allowedge[deltaedge] = true
				i, j := s.edges[deltaedge].I, s.edges[deltaedge].J
				if s.label[s.inblossom[i]] == 0 {
					i = j
				}
				s.queue = append(s.queue, i)
				continue
			case 3:
				s.allowedge[deltaedge] = true
				s.queue = append(s.queue, s.edges[deltaedge].I)
				continue
			case 4:
				s.expandBlossom(deltablossom, false)
				continue
			}
			break
		}

		if !augmented {
			break
		}

		for b := n; b < 2*n; b++ {
			if s.blossomparent[b] == -1 && s.blossombase[b] >= 0 && s.label[b] == 1 && s.dualvar[b] == 0 {
				s.expandBlossom(b, true)
			}
		}
	}
}

func reverse(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func rotate(s []int, i int) []int {
	out := make([]int, 0, len(s))
	out = append(out, s[i:]...)
	return append(out, s[:i]...)
}
