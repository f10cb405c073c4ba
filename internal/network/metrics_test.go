package network

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pable/go-sb-networks/internal/model"
)

func TestCentrality_PassNetwork(t *testing.T) {
	g := BuildPassNetwork("ARG", passObs("ARG",
		[2]string{"Messi", "Alvarez"},
		[2]string{"Messi", "Alvarez"},
		[2]string{"De Paul", "Messi"},
	))

	c := Centrality(g)
	require.Len(t, c, 3)
	assert.Equal(t, NodeCentrality{Player: "Messi", Degree: 3, In: 1, Out: 2, Share: 0.5}, c[0])
	assert.Equal(t, "Alvarez", c[1].Player)
	assert.Equal(t, 2, c[1].In)
	assert.Equal(t, "De Paul", c[2].Player)

	total := 0.0
	for _, n := range c {
		total += n.Share
	}
	assert.InDelta(t, 1.0, total, 1e-9)

	top, ok := MostConnected(g)
	require.True(t, ok)
	assert.Equal(t, "Messi", top.Player)
}

func TestMostConnected_TieBreaksByName(t *testing.T) {
	g := BuildPassNetwork("ARG", passObs("ARG", [2]string{"Zeta", "Alpha"}))
	top, ok := MostConnected(g)
	require.True(t, ok)
	assert.Equal(t, "Alpha", top.Player)
}

func TestStrongestOpponents(t *testing.T) {
	g := BuildDuelNetwork(model.NetworkDuel, "ARG", "FRA", []model.DuelObservation{
		{Attacker: "Messi", Defender: "Kante", Score: 3},
		{Attacker: "Messi", Defender: "Varane", Score: 1},
		{Attacker: "Alvarez", Defender: "Kante", Score: 2},
		{Attacker: "Alvarez", Defender: "Upamecano", Score: 2},
	})

	got := StrongestOpponents(g)
	assert.Equal(t, []model.Pair{
		{A: "Alvarez", B: "Kante", Weight: 2},
		{A: "Messi", B: "Kante", Weight: 3},
	}, got, "greedy choice may reuse a defender")
}

func TestAdjacencyMatrix(t *testing.T) {
	duel := BuildDuelNetwork(model.NetworkDuel, "ARG", "FRA", []model.DuelObservation{
		{Attacker: "Messi", Defender: "Kante", Score: 3},
		{Attacker: "Alvarez", Defender: "Varane", Score: 1},
	})
	m := AdjacencyMatrix(duel)
	assert.Equal(t, []string{"Alvarez", "Messi"}, m.Rows)
	assert.Equal(t, []string{"Kante", "Varane"}, m.Cols)
	assert.Equal(t, [][]int{{0, 1}, {3, 0}}, m.Cells)

	pass := BuildPassNetwork("ARG", passObs("ARG", [2]string{"B", "A"}, [2]string{"B", "A"}))
	m = AdjacencyMatrix(pass)
	assert.Equal(t, []string{"A", "B"}, m.Rows)
	assert.Equal(t, m.Rows, m.Cols)
	assert.Equal(t, [][]int{{0, 0}, {2, 0}}, m.Cells)

	assert.Empty(t, AdjacencyMatrix(nil).Cells)
}
