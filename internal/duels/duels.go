// Package duels scores confrontations between one attacking team and one
// defending team. Each scanned event yields at most one observation, produced
// by the first rule in priority order whose type and preconditions hold.
package duels

import (
	"github.com/pable/go-sb-networks/internal/model"
	"github.com/pable/go-sb-networks/internal/timeline"
)

// Rule names, also used as metric labels.
const (
	RuleTackle         = "tackle"
	RuleBlockedShot    = "blocked_shot"
	RuleTurnover       = "turnover"
	RuleFoulWon        = "foul_won"
	RuleRegressivePass = "regressive_pass"
	RuleShotProximity  = "shot_proximity"
)

// Sides names the two teams of one directional analysis.
type Sides struct {
	Attacking string
	Defending string
}

// Rule is one scoring heuristic. Applies is the cheap type match; Resolve
// checks the preconditions and names the pair. A rule that applies but cannot
// resolve leaves the event to the rules after it.
type Rule struct {
	Name    string
	Score   int
	Applies func(e *model.Event, s Sides) bool
	Resolve func(idx *timeline.Index, e *model.Event, s Sides) (attacker, defender string, ok bool)
}

// DefaultRules returns the heuristics in priority order.
func DefaultRules() []Rule {
	return []Rule{
		{Name: RuleTackle, Score: 3, Applies: isTackle, Resolve: resolveTackle},
		{Name: RuleBlockedShot, Score: 2, Applies: isBlock, Resolve: resolveBlock},
		{Name: RuleTurnover, Score: 1, Applies: isTurnover, Resolve: resolveTurnover},
		{Name: RuleFoulWon, Score: 1, Applies: isFoulWon, Resolve: resolveFoulWon},
		{Name: RuleRegressivePass, Score: 1, Applies: isBackwardPass, Resolve: resolveRegressivePass},
	}
}

func isTackle(e *model.Event, s Sides) bool {
	return e.Type == model.EventDuel && e.Team == s.Defending &&
		e.Duel != nil && e.Duel.Type == model.DuelTypeTackle
}

func resolveTackle(idx *timeline.Index, e *model.Event, s Sides) (string, string, bool) {
	prev, ok := idx.Predecessor(e)
	if !ok || prev.Type != model.EventDribble || prev.Team != s.Attacking {
		return "", "", false
	}
	if prev.Dribble == nil || prev.Dribble.Outcome == model.DribbleComplete {
		return "", "", false
	}
	if e.Duel.Outcome != model.OutcomeWon {
		return "", "", false
	}
	return prev.Player, e.Player, true
}

func isBlock(e *model.Event, s Sides) bool {
	return e.Type == model.EventBlock && e.Team == s.Defending
}

func resolveBlock(idx *timeline.Index, e *model.Event, s Sides) (string, string, bool) {
	prev, ok := idx.Predecessor(e)
	if !ok || prev.Type != model.EventShot || prev.Team != s.Attacking {
		return "", "", false
	}
	if prev.Shot == nil || prev.Shot.Outcome != model.ShotBlocked {
		return "", "", false
	}
	return prev.Player, e.Player, true
}

func isTurnover(e *model.Event, s Sides) bool {
	return (e.Type == model.EventInterception || e.Type == model.EventBallRecovery) && e.Team == s.Defending
}

func resolveTurnover(idx *timeline.Index, e *model.Event, s Sides) (string, string, bool) {
	prev, ok := idx.Predecessor(e)
	if !ok || prev.Type != model.EventPass || prev.Team != s.Attacking || prev.Pass == nil {
		return "", "", false
	}
	switch prev.Pass.Outcome {
	case model.PassIncomplete, model.PassOut:
		return prev.Player, e.Player, true
	}
	return "", "", false
}

func isFoulWon(e *model.Event, s Sides) bool {
	return e.Type == model.EventFoulWon && e.Team == s.Defending
}

// resolveFoulWon follows related_events in either direction to the committed
// foul; the first one by the attacking team in index order names the attacker.
func resolveFoulWon(idx *timeline.Index, e *model.Event, s Sides) (string, string, bool) {
	for _, linked := range idx.Linked(e) {
		if linked.Type == model.EventFoulCommitted && linked.Team == s.Attacking {
			return linked.Player, e.Player, true
		}
	}
	return "", "", false
}

func isBackwardPass(e *model.Event, s Sides) bool {
	if e.Type != model.EventPass || e.Team != s.Attacking {
		return false
	}
	if e.Location == nil || e.Pass == nil || e.Pass.EndLocation == nil {
		return false
	}
	return e.Pass.EndLocation.X < e.Location.X
}

// resolveRegressivePass takes the defender from the pressing predecessor, not
// from the pass itself.
func resolveRegressivePass(idx *timeline.Index, e *model.Event, s Sides) (string, string, bool) {
	prev, ok := idx.Predecessor(e)
	if !ok || prev.Team != s.Defending {
		return "", "", false
	}
	switch prev.Type {
	case model.EventPressure, model.EventDuel, model.EventTackle:
		return e.Player, prev.Player, true
	}
	return "", "", false
}

// Stats counts what the scorer saw.
type Stats struct {
	Candidates int            // events at least one rule applied to
	Scored     int            // observations returned
	Skipped    int            // candidates no rule could resolve
	ByRule     map[string]int // rule name -> observations
}

// Scorer applies an ordered rule list.
type Scorer struct {
	Rules []Rule
}

// NewScorer returns a Scorer with DefaultRules.
func NewScorer() *Scorer {
	return &Scorer{Rules: DefaultRules()}
}

// Score returns the observation for a single event. applied reports whether
// any rule type-matched the event; ok whether one produced an observation.
func (sc *Scorer) Score(idx *timeline.Index, e *model.Event, s Sides) (obs model.DuelObservation, applied, ok bool) {
	for _, r := range sc.Rules {
		if !r.Applies(e, s) {
			continue
		}
		applied = true
		attacker, defender, resolved := r.Resolve(idx, e, s)
		if !resolved || attacker == "" || defender == "" || r.Score <= 0 {
			continue
		}
		return model.DuelObservation{Attacker: attacker, Defender: defender, Score: r.Score, Rule: r.Name}, true, true
	}
	return model.DuelObservation{}, applied, false
}

// Scan scores every event of the match for the given sides, in index order.
func (sc *Scorer) Scan(idx *timeline.Index, s Sides) ([]model.DuelObservation, Stats) {
	st := Stats{ByRule: make(map[string]int)}
	if idx == nil || s.Attacking == "" || s.Defending == "" {
		return nil, st
	}

	var out []model.DuelObservation
	events := idx.Events()
	for i := range events {
		obs, applied, ok := sc.Score(idx, &events[i], s)
		if !applied {
			continue
		}
		st.Candidates++
		if !ok {
			st.Skipped++
			continue
		}
		st.ByRule[obs.Rule]++
		out = append(out, obs)
	}
	st.Scored = len(out)
	return out, st
}
