package report

import (
	"time"

	"github.com/pable/go-sb-networks/internal/analysis"
	"github.com/pable/go-sb-networks/internal/model"
	"github.com/pable/go-sb-networks/internal/network"
)

// View is the serialisable form of a run, shared by the MCP tools, the ask
// prompt and YAML export.
type View struct {
	RunID          string              `json:"run_id" yaml:"run_id"`
	MatchID        int64               `json:"match_id" yaml:"match_id"`
	Teams          [2]string           `json:"teams" yaml:"teams"`
	EventCount     int                 `json:"event_count" yaml:"event_count"`
	CreatedAt      string              `json:"created_at" yaml:"created_at"`
	PassNetworks   []PassView          `json:"pass_networks" yaml:"pass_networks"`
	Confrontations []ConfrontationView `json:"confrontations" yaml:"confrontations"`
}

type EdgeView struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	Weight int    `json:"weight" yaml:"weight"`
}

type PassView struct {
	Team          string     `json:"team" yaml:"team"`
	Edges         []EdgeView `json:"edges" yaml:"edges"`
	MostConnected string     `json:"most_connected,omitempty" yaml:"most_connected,omitempty"`
}

type PairView struct {
	Attacker string `json:"attacker" yaml:"attacker"`
	Defender string `json:"defender" yaml:"defender"`
	Weight   int    `json:"weight" yaml:"weight"`
}

type ConfrontationView struct {
	Network     string     `json:"network" yaml:"network"`
	Attacking   string     `json:"attacking" yaml:"attacking"`
	Defending   string     `json:"defending" yaml:"defending"`
	Edges       []EdgeView `json:"edges" yaml:"edges"`
	Matching    []PairView `json:"matching" yaml:"matching"`
	TotalWeight int        `json:"total_weight" yaml:"total_weight"`
	Strongest   []PairView `json:"strongest" yaml:"strongest"`
}

// NewView flattens a run for serialisation.
func NewView(res *analysis.Result) View {
	v := View{
		RunID:      res.RunID,
		MatchID:    res.MatchID,
		Teams:      res.Teams,
		EventCount: res.EventCount,
		CreatedAt:  res.CreatedAt.UTC().Format(time.RFC3339),
	}
	for _, p := range res.Passes {
		pv := PassView{Team: p.Team, Edges: edgeViews(p.Graph)}
		if top, ok := network.MostConnected(p.Graph); ok {
			pv.MostConnected = top.Player
		}
		v.PassNetworks = append(v.PassNetworks, pv)
	}
	for _, c := range res.Confrontations {
		v.Confrontations = append(v.Confrontations, ConfrontationView{
			Network:     string(c.Kind),
			Attacking:   c.Attacking,
			Defending:   c.Defending,
			Edges:       edgeViews(c.Graph),
			Matching:    pairViews(c.Matching.Pairs),
			TotalWeight: c.Matching.TotalWeight(),
			Strongest:   pairViews(c.Strongest),
		})
	}
	return v
}

func edgeViews(g *model.RelationGraph) []EdgeView {
	out := make([]EdgeView, 0, g.NumEdges())
	if g == nil {
		return out
	}
	for _, e := range g.Edges {
		out = append(out, EdgeView{Source: e.Source, Target: e.Target, Weight: e.Weight})
	}
	return out
}

func pairViews(pairs []model.Pair) []PairView {
	out := make([]PairView, 0, len(pairs))
	for _, p := range pairs {
		out = append(out, PairView{Attacker: p.A, Defender: p.B, Weight: p.Weight})
	}
	return out
}
