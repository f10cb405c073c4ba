package duels

import (
	"math"

	"github.com/pable/go-sb-networks/internal/model"
	"github.com/pable/go-sb-networks/internal/timeline"
)

// Proximity pairs each attacking shot carrying a 360 freeze frame with the
// nearest outfield opponent at the moment of the shot. Shots without a
// location or freeze frame are skipped.
func Proximity(idx *timeline.Index, s Sides) ([]model.DuelObservation, Stats) {
	st := Stats{ByRule: make(map[string]int)}
	if idx == nil || s.Attacking == "" {
		return nil, st
	}

	var out []model.DuelObservation
	for shot := range idx.Filter(model.EventShot, s.Attacking) {
		st.Candidates++
		defender, ok := nearestDefender(shot)
		if !ok || shot.Player == "" {
			st.Skipped++
			continue
		}
		out = append(out, model.DuelObservation{
			Attacker: shot.Player,
			Defender: defender,
			Score:    1,
			Rule:     RuleShotProximity,
		})
		st.ByRule[RuleShotProximity]++
	}
	st.Scored = len(out)
	return out, st
}

// nearestDefender returns the closest non-goalkeeper opponent in the shot's
// freeze frame. Equal distances keep the earlier freeze-frame entry.
func nearestDefender(shot *model.Event) (string, bool) {
	if shot.Location == nil || shot.Shot == nil || len(shot.Shot.FreezeFrame) == 0 {
		return "", false
	}
	best := ""
	bestDist := math.Inf(1)
	for _, ff := range shot.Shot.FreezeFrame {
		if ff.Teammate || ff.Position == model.PositionGoalkeeper || ff.Player == "" {
			continue
		}
		d := math.Hypot(ff.Location.X-shot.Location.X, ff.Location.Y-shot.Location.Y)
		if d < bestDist {
			best, bestDist = ff.Player, d
		}
	}
	return best, best != ""
}
