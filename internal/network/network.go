// Package network folds pass and duel observations into weighted relation
// graphs and computes simple per-player metrics over them.
package network

import (
	"sort"

	"github.com/pable/go-sb-networks/internal/model"
)

type pairKey struct{ source, target string }

// BuildPassNetwork aggregates a team's decisive passes into a directed graph
// where each edge weight is the number of passes from Source to Target.
// Observations from other teams are ignored.
func BuildPassNetwork(team string, obs []model.PassObservation) *model.RelationGraph {
	weights := make(map[pairKey]int)
	for _, o := range obs {
		if o.Team != team || o.Source == "" || o.Target == "" {
			continue
		}
		weights[pairKey{o.Source, o.Target}]++
	}
	g := &model.RelationGraph{Kind: model.NetworkPass, Directed: true, Team: team}
	g.Edges = sortedEdges(weights)
	g.Nodes = nodesOf(g.Edges)
	return g
}

// BuildDuelNetwork aggregates scored confrontations into a bipartite graph.
// Edge weight is the cumulative score of an (attacker, defender) pair.
func BuildDuelNetwork(kind model.NetworkKind, attacking, defending string, obs []model.DuelObservation) *model.RelationGraph {
	weights := make(map[pairKey]int)
	for _, o := range obs {
		if o.Attacker == "" || o.Defender == "" || o.Score <= 0 {
			continue
		}
		weights[pairKey{o.Attacker, o.Defender}] += o.Score
	}
	return bipartite(kind, attacking, defending, weights)
}

// FromEdges rebuilds a graph from already aggregated edges, such as rows read
// back from storage. Duplicate pairs are summed.
func FromEdges(kind model.NetworkKind, team, opponent string, edges []model.Edge) *model.RelationGraph {
	weights := make(map[pairKey]int)
	for _, e := range edges {
		if e.Source == "" || e.Target == "" || e.Weight <= 0 {
			continue
		}
		weights[pairKey{e.Source, e.Target}] += e.Weight
	}
	if kind == model.NetworkPass {
		g := &model.RelationGraph{Kind: kind, Directed: true, Team: team}
		g.Edges = sortedEdges(weights)
		g.Nodes = nodesOf(g.Edges)
		return g
	}
	return bipartite(kind, team, opponent, weights)
}

func bipartite(kind model.NetworkKind, attacking, defending string, weights map[pairKey]int) *model.RelationGraph {
	g := &model.RelationGraph{Kind: kind, Team: attacking, Opponent: defending}
	g.Edges = sortedEdges(weights)
	g.Nodes = nodesOf(g.Edges)

	attackers := make(map[string]bool)
	defenders := make(map[string]bool)
	for _, e := range g.Edges {
		attackers[e.Source] = true
		defenders[e.Target] = true
	}
	g.Attackers = sortedKeys(attackers)
	g.Defenders = sortedKeys(defenders)
	return g
}

func sortedEdges(weights map[pairKey]int) []model.Edge {
	edges := make([]model.Edge, 0, len(weights))
	for k, w := range weights {
		if w <= 0 {
			continue
		}
		edges = append(edges, model.Edge{Source: k.source, Target: k.target, Weight: w})
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Source != edges[j].Source {
			return edges[i].Source < edges[j].Source
		}
		return edges[i].Target < edges[j].Target
	})
	return edges
}

func nodesOf(edges []model.Edge) []string {
	set := make(map[string]bool)
	for _, e := range edges {
		set[e.Source] = true
		set[e.Target] = true
	}
	return sortedKeys(set)
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
