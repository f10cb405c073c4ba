package statsbomb

import (
	"encoding/json"
	"sort"

	"github.com/pable/go-sb-networks/internal/model"
)

type named struct {
	Name string `json:"name"`
}

func (n *named) name() string {
	if n == nil {
		return ""
	}
	return n.Name
}

type rawEvent struct {
	ID            string    `json:"id"`
	Index         int       `json:"index"`
	Period        int       `json:"period"`
	Minute        int       `json:"minute"`
	Second        int       `json:"second"`
	Type          *named    `json:"type"`
	Possession    int       `json:"possession"`
	PlayPattern   *named    `json:"play_pattern"`
	Team          *named    `json:"team"`
	Player        *named    `json:"player"`
	Location      []float64 `json:"location"`
	RelatedEvents []string  `json:"related_events"`

	Pass *struct {
		Recipient   *named    `json:"recipient"`
		EndLocation []float64 `json:"end_location"`
		GoalAssist  bool      `json:"goal_assist"`
		ShotAssist  bool      `json:"shot_assist"`
		ThroughBall bool      `json:"through_ball"`
		Cross       bool      `json:"cross"`
		Outcome     *named    `json:"outcome"`
		Technique   *named    `json:"technique"`
	} `json:"pass"`

	Shot *struct {
		Outcome     *named `json:"outcome"`
		FreezeFrame []struct {
			Location []float64 `json:"location"`
			Player   *named    `json:"player"`
			Position *named    `json:"position"`
			Teammate bool      `json:"teammate"`
		} `json:"freeze_frame"`
	} `json:"shot"`

	Duel *struct {
		Type    *named `json:"type"`
		Outcome *named `json:"outcome"`
	} `json:"duel"`

	Dribble *struct {
		Outcome *named `json:"outcome"`
	} `json:"dribble"`
}

func point(coords []float64) *model.Point {
	if len(coords) < 2 {
		return nil
	}
	return &model.Point{X: coords[0], Y: coords[1]}
}

// DecodeEvents parses a StatsBomb events file into model events sorted by
// index. Missing nested objects decode to zero values rather than errors.
func DecodeEvents(body []byte) ([]model.Event, error) {
	var raw []rawEvent
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, err
	}

	events := make([]model.Event, 0, len(raw))
	for i := range raw {
		events = append(events, convert(&raw[i]))
	}
	sort.SliceStable(events, func(i, j int) bool { return events[i].Index < events[j].Index })
	return events, nil
}

func convert(r *rawEvent) model.Event {
	e := model.Event{
		ID:            r.ID,
		Index:         r.Index,
		Period:        r.Period,
		Minute:        r.Minute,
		Second:        r.Second,
		Type:          model.EventType(r.Type.name()),
		Team:          r.Team.name(),
		Player:        r.Player.name(),
		Possession:    r.Possession,
		PlayPattern:   r.PlayPattern.name(),
		Location:      point(r.Location),
		RelatedEvents: r.RelatedEvents,
	}

	if p := r.Pass; p != nil {
		e.Pass = &model.PassDetail{
			Recipient:   p.Recipient.name(),
			EndLocation: point(p.EndLocation),
			GoalAssist:  p.GoalAssist,
			ShotAssist:  p.ShotAssist,
			ThroughBall: p.ThroughBall || p.Technique.name() == "Through Ball",
			Cross:       p.Cross,
			Outcome:     p.Outcome.name(),
		}
	}
	if s := r.Shot; s != nil {
		e.Shot = &model.ShotDetail{Outcome: s.Outcome.name()}
		for _, ff := range s.FreezeFrame {
			loc := point(ff.Location)
			if loc == nil {
				continue
			}
			e.Shot.FreezeFrame = append(e.Shot.FreezeFrame, model.FreezeFramePlayer{
				Player:   ff.Player.name(),
				Position: ff.Position.name(),
				Location: *loc,
				Teammate: ff.Teammate,
			})
		}
	}
	if d := r.Duel; d != nil {
		e.Duel = &model.DuelDetail{Type: d.Type.name(), Outcome: d.Outcome.name()}
	}
	if d := r.Dribble; d != nil {
		e.Dribble = &model.DribbleDetail{Outcome: d.Outcome.name()}
	}
	return e
}
