package duels

import (
	"testing"

	"github.com/pable/go-sb-networks/internal/model"
	"github.com/pable/go-sb-networks/internal/timeline"
)

const (
	att = "Argentina"
	def = "France"
)

var sides = Sides{Attacking: att, Defending: def}

func event(index int, typ model.EventType, team, player string) model.Event {
	return model.Event{
		ID:         team + "-" + player + "-" + string(typ),
		Index:      index,
		Minute:     30,
		Second:     index,
		Type:       typ,
		Team:       team,
		Player:     player,
		Possession: 12,
	}
}

func dribble(index int, player, outcome string) model.Event {
	e := event(index, model.EventDribble, att, player)
	e.Dribble = &model.DribbleDetail{Outcome: outcome}
	return e
}

func tackle(index int, player, outcome string) model.Event {
	e := event(index, model.EventDuel, def, player)
	e.Duel = &model.DuelDetail{Type: model.DuelTypeTackle, Outcome: outcome}
	return e
}

func scan(t *testing.T, events ...model.Event) ([]model.DuelObservation, Stats) {
	t.Helper()
	return NewScorer().Scan(timeline.New(events), sides)
}

func expectOne(t *testing.T, obs []model.DuelObservation, attacker, defender string, score int, rule string) {
	t.Helper()
	if len(obs) != 1 {
		t.Fatalf("expected 1 observation, got %d: %+v", len(obs), obs)
	}
	o := obs[0]
	if o.Attacker != attacker || o.Defender != defender || o.Score != score || o.Rule != rule {
		t.Errorf("got %+v, want {%s %s %d %s}", o, attacker, defender, score, rule)
	}
}

func TestTackle_Scored(t *testing.T) {
	obs, _ := scan(t, dribble(1, "Messi", "Incomplete"), tackle(2, "Kante", model.OutcomeWon))
	expectOne(t, obs, "Messi", "Kante", 3, RuleTackle)
}

func TestTackle_Preconditions(t *testing.T) {
	cases := []struct {
		name   string
		events []model.Event
	}{
		{"completed dribble", []model.Event{dribble(1, "Messi", model.DribbleComplete), tackle(2, "Kante", model.OutcomeWon)}},
		{"tackle not won", []model.Event{dribble(1, "Messi", "Incomplete"), tackle(2, "Kante", "Lost In Play")}},
		{"predecessor not a dribble", []model.Event{event(1, model.EventCarry, att, "Messi"), tackle(2, "Kante", model.OutcomeWon)}},
		{"predecessor missing", []model.Event{dribble(1, "Messi", "Incomplete"), tackle(3, "Kante", model.OutcomeWon)}},
		{"dribble by own team", []model.Event{
			func() model.Event { e := dribble(1, "Griezmann", "Incomplete"); e.Team = def; return e }(),
			tackle(2, "Kante", model.OutcomeWon),
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			obs, st := scan(t, tc.events...)
			if len(obs) != 0 {
				t.Fatalf("expected no observation, got %+v", obs)
			}
			if st.Candidates != 1 || st.Skipped != 1 {
				t.Errorf("expected the tackle to be counted as skipped, got %+v", st)
			}
		})
	}
}

func TestBlockedShot(t *testing.T) {
	shot := event(1, model.EventShot, att, "Di Maria")
	shot.Shot = &model.ShotDetail{Outcome: model.ShotBlocked}
	obs, _ := scan(t, shot, event(2, model.EventBlock, def, "Varane"))
	expectOne(t, obs, "Di Maria", "Varane", 2, RuleBlockedShot)

	saved := shot
	saved.Shot = &model.ShotDetail{Outcome: "Saved"}
	obs, _ = scan(t, saved, event(2, model.EventBlock, def, "Varane"))
	if len(obs) != 0 {
		t.Errorf("block after a saved shot should not score, got %+v", obs)
	}
}

func TestTurnover(t *testing.T) {
	for _, typ := range []model.EventType{model.EventInterception, model.EventBallRecovery} {
		for _, outcome := range []string{model.PassIncomplete, model.PassOut} {
			pass := event(1, model.EventPass, att, "De Paul")
			pass.Pass = &model.PassDetail{Outcome: outcome}
			obs, _ := scan(t, pass, event(2, typ, def, "Tchouameni"))
			expectOne(t, obs, "De Paul", "Tchouameni", 1, RuleTurnover)
		}
	}

	completed := event(1, model.EventPass, att, "De Paul")
	completed.Pass = &model.PassDetail{}
	obs, _ := scan(t, completed, event(2, model.EventInterception, def, "Tchouameni"))
	if len(obs) != 0 {
		t.Errorf("interception after a completed pass should not score, got %+v", obs)
	}
}

func TestFoulWon_EitherLinkDirection(t *testing.T) {
	t.Run("won references committed", func(t *testing.T) {
		committed := event(1, model.EventFoulCommitted, att, "Otamendi")
		committed.ID = "c1"
		won := event(2, model.EventFoulWon, def, "Mbappe")
		won.RelatedEvents = []string{"c1"}
		obs, _ := scan(t, committed, won)
		expectOne(t, obs, "Otamendi", "Mbappe", 1, RuleFoulWon)
	})
	t.Run("committed references won", func(t *testing.T) {
		won := event(2, model.EventFoulWon, def, "Mbappe")
		won.ID = "w1"
		committed := event(1, model.EventFoulCommitted, att, "Otamendi")
		committed.RelatedEvents = []string{"w1"}
		obs, _ := scan(t, committed, won)
		expectOne(t, obs, "Otamendi", "Mbappe", 1, RuleFoulWon)
	})
	t.Run("broken link skipped", func(t *testing.T) {
		won := event(2, model.EventFoulWon, def, "Mbappe")
		won.RelatedEvents = []string{"does-not-exist"}
		obs, st := scan(t, won)
		if len(obs) != 0 || st.Skipped != 1 {
			t.Errorf("expected skipped foul, got obs=%+v stats=%+v", obs, st)
		}
	})
	t.Run("committed by wrong team", func(t *testing.T) {
		committed := event(1, model.EventFoulCommitted, def, "Upamecano")
		committed.ID = "c2"
		won := event(2, model.EventFoulWon, def, "Mbappe")
		won.RelatedEvents = []string{"c2"}
		obs, _ := scan(t, committed, won)
		if len(obs) != 0 {
			t.Errorf("foul committed by the defending team must not score, got %+v", obs)
		}
	})
}

func TestRegressivePass_DefenderFromPredecessor(t *testing.T) {
	pressure := event(1, model.EventPressure, def, "Rabiot")
	pass := event(2, model.EventPass, att, "Mac Allister")
	pass.Location = &model.Point{X: 70, Y: 40}
	pass.Pass = &model.PassDetail{Recipient: "Romero", EndLocation: &model.Point{X: 50, Y: 30}}

	obs, _ := scan(t, pressure, pass)
	expectOne(t, obs, "Mac Allister", "Rabiot", 1, RuleRegressivePass)

	forward := pass
	forward.Pass = &model.PassDetail{Recipient: "Messi", EndLocation: &model.Point{X: 90, Y: 30}}
	obs, _ = scan(t, pressure, forward)
	if len(obs) != 0 {
		t.Errorf("forward pass should not score, got %+v", obs)
	}

	carry := event(1, model.EventCarry, def, "Rabiot")
	obs, _ = scan(t, carry, pass)
	if len(obs) != 0 {
		t.Errorf("backward pass without pressure should not score, got %+v", obs)
	}
}

func TestScore_PriorityScoresOnce(t *testing.T) {
	// A lower-priority rule that would also match the tackle.
	greedy := Rule{
		Name:    "greedy",
		Score:   5,
		Applies: func(e *model.Event, s Sides) bool { return e.Team == s.Defending },
		Resolve: func(_ *timeline.Index, e *model.Event, _ Sides) (string, string, bool) {
			return "someone", e.Player, true
		},
	}
	sc := &Scorer{Rules: append(DefaultRules(), greedy)}
	idx := timeline.New([]model.Event{dribble(1, "Messi", "Incomplete"), tackle(2, "Kante", model.OutcomeWon)})

	obs, st := sc.Scan(idx, sides)
	expectOne(t, obs, "Messi", "Kante", 3, RuleTackle)
	if st.ByRule["greedy"] != 0 {
		t.Errorf("lower-priority rule must not score the same event, got %+v", st.ByRule)
	}

	// When the tackle's preconditions fail, the next applicable rule scores it.
	idx = timeline.New([]model.Event{dribble(1, "Messi", model.DribbleComplete), tackle(2, "Kante", model.OutcomeWon)})
	obs, _ = sc.Scan(idx, sides)
	expectOne(t, obs, "someone", "Kante", 5, "greedy")
}

func TestScan_DirectionMatters(t *testing.T) {
	events := []model.Event{dribble(1, "Messi", "Incomplete"), tackle(2, "Kante", model.OutcomeWon)}
	obs, _ := NewScorer().Scan(timeline.New(events), Sides{Attacking: def, Defending: att})
	if len(obs) != 0 {
		t.Errorf("reversed sides should not score, got %+v", obs)
	}
}

func TestScan_EmptyInput(t *testing.T) {
	obs, st := NewScorer().Scan(timeline.New(nil), sides)
	if len(obs) != 0 || st.Candidates != 0 {
		t.Errorf("expected empty result, got %+v %+v", obs, st)
	}
	if obs, _ := NewScorer().Scan(nil, sides); obs != nil {
		t.Error("nil index should yield nil observations")
	}
}

func TestProximity_NearestOutfieldOpponent(t *testing.T) {
	shot := event(1, model.EventShot, att, "Alvarez")
	shot.Location = &model.Point{X: 100, Y: 40}
	shot.Shot = &model.ShotDetail{
		Outcome: "Saved",
		FreezeFrame: []model.FreezeFramePlayer{
			{Player: "Lloris", Position: model.PositionGoalkeeper, Location: model.Point{X: 101, Y: 40}},
			{Player: "Messi", Teammate: true, Location: model.Point{X: 100, Y: 41}},
			{Player: "Varane", Position: "Right Center Back", Location: model.Point{X: 105, Y: 40}},
			{Player: "Kounde", Position: "Right Back", Location: model.Point{X: 102, Y: 42}},
		},
	}
	noFrame := event(2, model.EventShot, att, "Messi")
	noFrame.Location = &model.Point{X: 110, Y: 40}
	noFrame.Shot = &model.ShotDetail{Outcome: "Goal"}

	obs, st := Proximity(timeline.New([]model.Event{shot, noFrame}), sides)
	expectOne(t, obs, "Alvarez", "Kounde", 1, RuleShotProximity)
	if st.Candidates != 2 || st.Skipped != 1 {
		t.Errorf("unexpected stats %+v", st)
	}
}
