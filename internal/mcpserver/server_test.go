package mcpserver_test

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-sb-networks/internal/mcpserver"
	"github.com/pable/go-sb-networks/internal/model"
	"github.com/pable/go-sb-networks/internal/passes"
	"github.com/pable/go-sb-networks/internal/report"
	"github.com/pable/go-sb-networks/internal/storage"
)

type countingSource struct {
	calls atomic.Int32
}

func (s *countingSource) Events(_ context.Context, matchID int64) ([]model.Event, error) {
	s.calls.Add(1)
	return []model.Event{
		{ID: "1", Index: 1, Type: model.EventDribble, Team: "Argentina", Player: "Messi",
			Dribble: &model.DribbleDetail{Outcome: "Incomplete"}},
		{ID: "2", Index: 2, Type: model.EventDuel, Team: "France", Player: "Kante",
			Duel: &model.DuelDetail{Type: model.DuelTypeTackle, Outcome: model.OutcomeWon}},
	}, nil
}

func connect(t *testing.T) (*mcp.ClientSession, *countingSource) {
	t.Helper()
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	src := &countingSource{}
	srv := mcpserver.New("0.1.0-test", mcpserver.Deps{
		Source:     src,
		Store:      db,
		Thresholds: passes.DefaultThresholds(),
	})

	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	go func() {
		_ = srv.MCPServer().Run(ctx, serverTransport)
	}()

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })
	return session, src
}

func callText(t *testing.T, session *mcp.ClientSession, name string, args map[string]any) (string, bool) {
	t.Helper()
	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text, res.IsError
}

func TestToolsListed(t *testing.T) {
	session, _ := connect(t)
	tools, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"analyze_match", "get_analysis"}, names)
}

func TestAnalyzeThenGet(t *testing.T) {
	session, src := connect(t)

	text, isErr := callText(t, session, "analyze_match", map[string]any{"match_id": 3869685})
	require.False(t, isErr, text)

	var v report.View
	require.NoError(t, json.Unmarshal([]byte(text), &v))
	assert.Equal(t, int64(3869685), v.MatchID)
	assert.Equal(t, [2]string{"Argentina", "France"}, v.Teams)
	require.Len(t, v.Confrontations, 4)
	assert.Equal(t, 3, v.Confrontations[0].TotalWeight)
	assert.Equal(t, "Kante", v.Confrontations[0].Matching[0].Defender)

	text, isErr = callText(t, session, "get_analysis", map[string]any{"match_id": 3869685})
	require.False(t, isErr, text)
	var stored report.View
	require.NoError(t, json.Unmarshal([]byte(text), &stored))
	assert.Equal(t, v.RunID, stored.RunID)

	// A second analyze reuses the stored run unless forced.
	_, _ = callText(t, session, "analyze_match", map[string]any{"match_id": 3869685})
	assert.Equal(t, int32(1), src.calls.Load())
	_, _ = callText(t, session, "analyze_match", map[string]any{"match_id": 3869685, "force": true})
	assert.Equal(t, int32(2), src.calls.Load())
}

func TestGetAnalysisMissing(t *testing.T) {
	session, _ := connect(t)
	text, isErr := callText(t, session, "get_analysis", map[string]any{"match_id": 42})
	assert.True(t, isErr)
	assert.Contains(t, text, "no stored analysis")
}

func TestAnalyzeRequiresMatchID(t *testing.T) {
	session, src := connect(t)
	text, isErr := callText(t, session, "analyze_match", map[string]any{})
	assert.True(t, isErr)
	assert.Contains(t, text, "match_id is required")
	assert.Zero(t, src.calls.Load())
}
