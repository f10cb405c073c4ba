package analysis

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-sb-networks/internal/metrics"
	"github.com/pable/go-sb-networks/internal/model"
	"github.com/pable/go-sb-networks/internal/passes"
)

const (
	arg = "Argentina"
	fra = "France"
)

// matchEvents builds a short match where Argentina completes a goal-assist
// pass and both sides win a tackle against the other.
func matchEvents() []model.Event {
	return []model.Event{
		{ID: "1", Index: 1, Type: model.EventStartingXI, Team: arg},
		{ID: "2", Index: 2, Type: model.EventStartingXI, Team: fra},
		{ID: "3", Index: 3, Minute: 1, Type: model.EventPass, Team: arg, Player: "De Paul", Possession: 2,
			Location: &model.Point{X: 50, Y: 40},
			Pass:     &model.PassDetail{Recipient: "Messi", EndLocation: &model.Point{X: 70, Y: 40}, GoalAssist: true}},
		{ID: "4", Index: 4, Minute: 1, Second: 3, Type: model.EventShot, Team: arg, Player: "Messi", Possession: 2,
			Location: &model.Point{X: 108, Y: 40},
			Shot: &model.ShotDetail{Outcome: "Goal", FreezeFrame: []model.FreezeFramePlayer{
				{Player: "Varane", Position: "Center Back", Location: model.Point{X: 110, Y: 41}},
				{Player: "Lloris", Position: model.PositionGoalkeeper, Location: model.Point{X: 119, Y: 40}},
			}}},
		{ID: "5", Index: 5, Minute: 5, Type: model.EventDribble, Team: arg, Player: "Messi", Possession: 3,
			Dribble: &model.DribbleDetail{Outcome: "Incomplete"}},
		{ID: "6", Index: 6, Minute: 5, Type: model.EventDuel, Team: fra, Player: "Kante", Possession: 3,
			Duel: &model.DuelDetail{Type: model.DuelTypeTackle, Outcome: model.OutcomeWon}},
		{ID: "7", Index: 7, Minute: 9, Type: model.EventDribble, Team: fra, Player: "Mbappe", Possession: 4,
			Dribble: &model.DribbleDetail{Outcome: "Incomplete"}},
		{ID: "8", Index: 8, Minute: 9, Type: model.EventDuel, Team: arg, Player: "Romero", Possession: 4,
			Duel: &model.DuelDetail{Type: model.DuelTypeTackle, Outcome: model.OutcomeWon}},
		{ID: "9", Index: 9, Minute: 12, Type: model.EventDribble, Team: arg, Player: "Messi", Possession: 5,
			Dribble: &model.DribbleDetail{Outcome: "Incomplete"}},
		{ID: "10", Index: 10, Minute: 12, Type: model.EventDuel, Team: fra, Player: "Kante", Possession: 5,
			Duel: &model.DuelDetail{Type: model.DuelTypeTackle, Outcome: model.OutcomeWon}},
	}
}

type stubSource struct {
	events []model.Event
	err    error
}

func (s stubSource) Events(context.Context, int64) ([]model.Event, error) {
	return s.events, s.err
}

func TestTeams(t *testing.T) {
	teams, err := Teams(matchEvents())
	require.NoError(t, err)
	assert.Equal(t, [2]string{arg, fra}, teams)

	_, err = Teams([]model.Event{{Team: arg}, {Team: ""}})
	assert.ErrorIs(t, err, ErrTeams)

	_, err = Teams([]model.Event{{Team: "a"}, {Team: "b"}, {Team: "c"}})
	assert.ErrorIs(t, err, ErrTeams)
}

func TestRun_BuildsAllNetworks(t *testing.T) {
	fixed := time.Date(2022, 12, 18, 15, 0, 0, 0, time.UTC)
	ac := Context{MatchID: 3869685, Teams: [2]string{arg, fra}, Thresholds: passes.DefaultThresholds()}

	res, err := Run(context.Background(), ac, matchEvents(), WithClock(func() time.Time { return fixed }))
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, fixed, res.CreatedAt)
	assert.Equal(t, 10, res.EventCount)
	require.Len(t, res.Passes, 2)
	require.Len(t, res.Confrontations, 4)

	argPasses := res.PassNetwork(arg)
	require.NotNil(t, argPasses)
	assert.Equal(t, []model.Edge{{Source: "De Paul", Target: "Messi", Weight: 1}}, argPasses.Edges)
	assert.Zero(t, res.PassNetwork(fra).NumEdges())

	argAttacks, ok := res.Confrontation(model.NetworkDuel, arg)
	require.True(t, ok)
	assert.Equal(t, fra, argAttacks.Defending)
	assert.Equal(t, 6, argAttacks.Graph.Weight("Messi", "Kante"))
	assert.Equal(t, []model.Pair{{A: "Messi", B: "Kante", Weight: 6}}, argAttacks.Matching.Pairs)

	fraAttacks, ok := res.Confrontation(model.NetworkDuel, fra)
	require.True(t, ok)
	assert.Equal(t, 3, fraAttacks.Matching.TotalWeight())

	prox, ok := res.Confrontation(model.NetworkProximity, arg)
	require.True(t, ok)
	assert.Equal(t, []model.Pair{{A: "Messi", B: "Varane", Weight: 1}}, prox.Matching.Pairs)

	_, ok = res.Confrontation(model.NetworkPass, arg)
	assert.False(t, ok)
}

func TestRun_Deterministic(t *testing.T) {
	ac := Context{MatchID: 1, Teams: [2]string{arg, fra}, Thresholds: passes.DefaultThresholds()}
	a, err := Run(context.Background(), ac, matchEvents())
	require.NoError(t, err)
	b, err := Run(context.Background(), ac, matchEvents())
	require.NoError(t, err)

	assert.NotEqual(t, a.RunID, b.RunID)
	assert.Equal(t, a.Passes, b.Passes)
	assert.Equal(t, a.Confrontations, b.Confrontations)
}

func TestRun_EmptyEventsGiveEmptyGraphs(t *testing.T) {
	ac := Context{MatchID: 1, Teams: [2]string{arg, fra}, Thresholds: passes.DefaultThresholds()}
	res, err := Run(context.Background(), ac, nil)
	require.NoError(t, err)
	for _, c := range res.Confrontations {
		assert.Zero(t, c.Graph.NumEdges())
		assert.Empty(t, c.Matching.Pairs)
	}
}

func TestRun_RejectsBadContext(t *testing.T) {
	_, err := Run(context.Background(), Context{Teams: [2]string{arg, arg}}, matchEvents())
	assert.ErrorIs(t, err, ErrTeams)
}

func TestRun_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ac := Context{MatchID: 1, Teams: [2]string{arg, fra}, Thresholds: passes.DefaultThresholds()}
	_, err := Run(ctx, ac, matchEvents())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_RecordsMetricsAndLogs(t *testing.T) {
	rec := metrics.New()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	ac := Context{MatchID: 7, Teams: [2]string{arg, fra}, Thresholds: passes.DefaultThresholds()}
	_, err := Run(context.Background(), ac, matchEvents(), WithMetrics(rec), WithLogger(logger))
	require.NoError(t, err)

	n, err := testutil.GatherAndCount(rec.Registry(), "sbnet_analyses_total", "sbnet_duel_observations_total")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Contains(t, buf.String(), "team analysed")
	assert.Contains(t, buf.String(), "match_id=7")
}

func TestAnalyze(t *testing.T) {
	res, err := Analyze(context.Background(), stubSource{events: matchEvents()}, 3869685, passes.DefaultThresholds())
	require.NoError(t, err)
	assert.Equal(t, int64(3869685), res.MatchID)
	assert.Equal(t, [2]string{arg, fra}, res.Teams)

	upstream := errors.New("connection refused")
	_, err = Analyze(context.Background(), stubSource{err: upstream}, 1, passes.DefaultThresholds())
	assert.ErrorIs(t, err, upstream)

	_, err = Analyze(context.Background(), stubSource{events: []model.Event{{Team: arg}}}, 1, passes.DefaultThresholds())
	assert.ErrorIs(t, err, ErrTeams)
}
