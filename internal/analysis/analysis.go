// Package analysis runs the full pipeline for one match: index the events,
// classify passes and score duels per team, aggregate the networks and match
// attackers to defenders.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/pable/go-sb-networks/internal/duels"
	"github.com/pable/go-sb-networks/internal/matching"
	"github.com/pable/go-sb-networks/internal/metrics"
	"github.com/pable/go-sb-networks/internal/model"
	"github.com/pable/go-sb-networks/internal/network"
	"github.com/pable/go-sb-networks/internal/passes"
	"github.com/pable/go-sb-networks/internal/timeline"
)

// ErrTeams is returned when the event stream does not name exactly two teams.
var ErrTeams = errors.New("expected exactly two teams in event stream")

// Context identifies one analysis. It is passed explicitly so concurrent
// analyses never share state.
type Context struct {
	MatchID    int64
	Teams      [2]string
	Thresholds passes.Thresholds
}

// EventSource supplies the events of a match.
type EventSource interface {
	Events(ctx context.Context, matchID int64) ([]model.Event, error)
}

// TeamPasses is one team's decisive-pass network.
type TeamPasses struct {
	Team       string
	Graph      *model.RelationGraph
	Stats      passes.Stats
	Centrality []network.NodeCentrality
}

// Confrontation is one directional bipartite network with its optimal
// matching and the greedy per-attacker choice for comparison.
type Confrontation struct {
	Kind      model.NetworkKind
	Attacking string
	Defending string
	Graph     *model.RelationGraph
	Matching  model.Matching
	Strongest []model.Pair
	Stats     duels.Stats
}

// Result is everything one run produces.
type Result struct {
	RunID      string
	MatchID    int64
	Teams      [2]string
	EventCount int
	CreatedAt  time.Time

	Passes         []TeamPasses    // in Teams order
	Confrontations []Confrontation // per attacking team in Teams order: duel, then proximity
}

// PassNetwork returns the pass network of team, or nil.
func (r *Result) PassNetwork(team string) *model.RelationGraph {
	for i := range r.Passes {
		if r.Passes[i].Team == team {
			return r.Passes[i].Graph
		}
	}
	return nil
}

// Confrontation returns the network of the given kind where team attacks.
func (r *Result) Confrontation(kind model.NetworkKind, attacking string) (*Confrontation, bool) {
	for i := range r.Confrontations {
		c := &r.Confrontations[i]
		if c.Kind == kind && c.Attacking == attacking {
			return c, true
		}
	}
	return nil, false
}

type options struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
	now     func() time.Time
}

// Option configures Run and Analyze.
type Option func(*options)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithMetrics records counters on m.
func WithMetrics(m *metrics.Recorder) Option {
	return func(o *options) { o.metrics = m }
}

// WithClock overrides the creation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		logger: slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Teams returns the two distinct team names in order of first appearance.
func Teams(events []model.Event) ([2]string, error) {
	var teams []string
	seen := make(map[string]bool)
	for i := range events {
		t := events[i].Team
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		teams = append(teams, t)
	}
	if len(teams) != 2 {
		return [2]string{}, fmt.Errorf("%w: found %d", ErrTeams, len(teams))
	}
	return [2]string{teams[0], teams[1]}, nil
}

// Analyze fetches a match from src and runs the pipeline on it.
func Analyze(ctx context.Context, src EventSource, matchID int64, th passes.Thresholds, opts ...Option) (*Result, error) {
	events, err := src.Events(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("fetch events for match %d: %w", matchID, err)
	}
	teams, err := Teams(events)
	if err != nil {
		return nil, fmt.Errorf("match %d: %w", matchID, err)
	}
	return Run(ctx, Context{MatchID: matchID, Teams: teams, Thresholds: th}, events, opts...)
}

// Run analyses events for ac. Both teams are processed concurrently over one
// shared, read-only index.
func Run(ctx context.Context, ac Context, events []model.Event, opts ...Option) (*Result, error) {
	o := buildOptions(opts)
	if ac.Teams[0] == "" || ac.Teams[1] == "" || ac.Teams[0] == ac.Teams[1] {
		return nil, fmt.Errorf("%w: got %q and %q", ErrTeams, ac.Teams[0], ac.Teams[1])
	}

	idx := timeline.New(events)
	o.metrics.EventsScanned(idx.Len())

	res := &Result{
		RunID:          uuid.NewString(),
		MatchID:        ac.MatchID,
		Teams:          ac.Teams,
		EventCount:     idx.Len(),
		CreatedAt:      o.now().UTC(),
		Passes:         make([]TeamPasses, 2),
		Confrontations: make([]Confrontation, 4),
	}
	log := o.logger.With("match_id", ac.MatchID, "run_id", res.RunID)

	g, gctx := errgroup.WithContext(ctx)
	for i := range ac.Teams {
		team, opponent := ac.Teams[i], ac.Teams[1-i]
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res.Passes[i] = teamPasses(idx, team, ac.Thresholds, o)

			sides := duels.Sides{Attacking: team, Defending: opponent}
			obs, st := duels.NewScorer().Scan(idx, sides)
			res.Confrontations[2*i] = confront(model.NetworkDuel, sides, obs, st, o)

			if err := gctx.Err(); err != nil {
				return err
			}
			obs, st = duels.Proximity(idx, sides)
			res.Confrontations[2*i+1] = confront(model.NetworkProximity, sides, obs, st, o)

			log.Info("team analysed",
				"team", team,
				"decisive_passes", res.Passes[i].Stats.Emitted,
				"duel_edges", res.Confrontations[2*i].Graph.NumEdges(),
				"duel_matching_weight", res.Confrontations[2*i].Matching.TotalWeight(),
			)
			log.Debug("skipped events",
				"team", team,
				"passes_without_recipient", res.Passes[i].Stats.NoRecipient,
				"duels", res.Confrontations[2*i].Stats.Skipped,
				"proximity", res.Confrontations[2*i+1].Stats.Skipped,
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("analyse match %d: %w", ac.MatchID, err)
	}

	o.metrics.AnalysisCompleted()
	return res, nil
}

func teamPasses(idx *timeline.Index, team string, th passes.Thresholds, o options) TeamPasses {
	obs, st := passes.NewClassifier(th).Classify(idx, team)
	g := network.BuildPassNetwork(team, obs)
	o.metrics.DecisivePasses(team, st.Emitted)
	o.metrics.EventsSkipped("passes", st.NoRecipient)
	return TeamPasses{Team: team, Graph: g, Stats: st, Centrality: network.Centrality(g)}
}

func confront(kind model.NetworkKind, s duels.Sides, obs []model.DuelObservation, st duels.Stats, o options) Confrontation {
	g := network.BuildDuelNetwork(kind, s.Attacking, s.Defending, obs)

	start := time.Now()
	m := matching.MaxWeight(g)
	o.metrics.ObserveMatching(time.Since(start))

	for rule, n := range st.ByRule {
		o.metrics.DuelObservations(rule, n)
	}
	o.metrics.EventsSkipped(string(kind), st.Skipped)

	return Confrontation{
		Kind:      kind,
		Attacking: s.Attacking,
		Defending: s.Defending,
		Graph:     g,
		Matching:  m,
		Strongest: network.StrongestOpponents(g),
		Stats:     st,
	}
}
