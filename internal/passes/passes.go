// Package passes classifies a team's passes as decisive and emits one
// observation per decisive pass that has a recipient.
package passes

import (
	"github.com/pable/go-sb-networks/internal/model"
	"github.com/pable/go-sb-networks/internal/timeline"
)

// Default thresholds. Their calibration is provisional, so they are exposed
// through Thresholds and config rather than used directly.
const (
	DefaultShotWindowSeconds     = 5
	DefaultProgressiveMinAdvance = 20.0
	DefaultProgressiveMinEndX    = 80.0
)

// Thresholds tunes the time-window and progression criteria.
type Thresholds struct {
	ShotWindowSeconds     int     // shot must follow the pass within (0, N] seconds
	ProgressiveMinAdvance float64 // end.x - start.x must exceed this
	ProgressiveMinEndX    float64 // end.x must exceed this
}

// DefaultThresholds returns the standard thresholds (5s, 20 units, x > 80).
func DefaultThresholds() Thresholds {
	return Thresholds{
		ShotWindowSeconds:     DefaultShotWindowSeconds,
		ProgressiveMinAdvance: DefaultProgressiveMinAdvance,
		ProgressiveMinEndX:    DefaultProgressiveMinEndX,
	}
}

// Rule is one decisive-pass criterion.
type Rule struct {
	Name  string
	Match func(idx *timeline.Index, pass *model.Event, th Thresholds) bool
}

// Rule names, also used as metric labels.
const (
	RuleGoalAssist        = "goal_assist"
	RuleShotAssist        = "shot_assist"
	RuleThroughBall       = "through_ball"
	RuleCross             = "cross"
	RuleCounterAttack     = "counter_attack"
	RuleLeadsToShot       = "leads_to_shot"
	RuleHighlyProgressive = "highly_progressive"
)

// DefaultRules returns the criteria in evaluation order. Any match makes the
// pass decisive; the order only decides which rule is credited.
func DefaultRules() []Rule {
	return []Rule{
		{Name: RuleGoalAssist, Match: func(_ *timeline.Index, p *model.Event, _ Thresholds) bool { return p.Pass.GoalAssist }},
		{Name: RuleShotAssist, Match: func(_ *timeline.Index, p *model.Event, _ Thresholds) bool { return p.Pass.ShotAssist }},
		{Name: RuleThroughBall, Match: func(_ *timeline.Index, p *model.Event, _ Thresholds) bool { return p.Pass.ThroughBall }},
		{Name: RuleCross, Match: func(_ *timeline.Index, p *model.Event, _ Thresholds) bool { return p.Pass.Cross }},
		{Name: RuleCounterAttack, Match: func(_ *timeline.Index, p *model.Event, _ Thresholds) bool {
			return p.PlayPattern == model.PlayPatternCounterAttack
		}},
		{Name: RuleLeadsToShot, Match: LeadsToShot},
		{Name: RuleHighlyProgressive, Match: func(_ *timeline.Index, p *model.Event, th Thresholds) bool {
			return HighlyProgressive(p, th)
		}},
	}
}

// LeadsToShot reports whether the passing team shoots within the shot window
// after the pass, in the same possession.
func LeadsToShot(idx *timeline.Index, pass *model.Event, th Thresholds) bool {
	if idx == nil {
		return false
	}
	return idx.AnyWithin(pass, model.EventShot, pass.Team, th.ShotWindowSeconds)
}

// HighlyProgressive reports whether the pass advances more than the minimum
// distance and ends beyond the minimum x. Missing coordinates never qualify.
func HighlyProgressive(pass *model.Event, th Thresholds) bool {
	if pass.Location == nil || pass.Pass == nil || pass.Pass.EndLocation == nil {
		return false
	}
	endX := pass.Pass.EndLocation.X
	return endX-pass.Location.X > th.ProgressiveMinAdvance && endX > th.ProgressiveMinEndX
}

// Stats counts what the classifier saw.
type Stats struct {
	Passes       int            // passes by the team
	Decisive     int            // passes meeting at least one rule
	NoRecipient  int            // decisive passes dropped for lacking a recipient or passer
	Emitted      int            // observations returned
	CreditedRule map[string]int // rule name -> decisive passes credited to it
}

// Classifier labels decisive passes.
type Classifier struct {
	Rules      []Rule
	Thresholds Thresholds
}

// NewClassifier returns a Classifier with the default rules and the given thresholds.
func NewClassifier(th Thresholds) *Classifier {
	return &Classifier{Rules: DefaultRules(), Thresholds: th}
}

// Decisive returns the name of the first rule the pass meets, or "" if none.
func (c *Classifier) Decisive(idx *timeline.Index, pass *model.Event) string {
	if pass == nil || pass.Type != model.EventPass || pass.Pass == nil {
		return ""
	}
	for _, r := range c.Rules {
		if r.Match(idx, pass, c.Thresholds) {
			return r.Name
		}
	}
	return ""
}

// Classify scans the team's passes and returns one observation per decisive
// pass with a recipient.
func (c *Classifier) Classify(idx *timeline.Index, team string) ([]model.PassObservation, Stats) {
	st := Stats{CreditedRule: make(map[string]int)}
	if idx == nil {
		return nil, st
	}

	var out []model.PassObservation
	for p := range idx.Filter(model.EventPass, team) {
		st.Passes++
		rule := c.Decisive(idx, p)
		if rule == "" {
			continue
		}
		st.Decisive++
		st.CreditedRule[rule]++
		if p.Pass.Recipient == "" || p.Player == "" {
			st.NoRecipient++
			continue
		}
		out = append(out, model.PassObservation{
			Source: p.Player,
			Target: p.Pass.Recipient,
			Team:   team,
		})
	}
	st.Emitted = len(out)
	return out, st
}
