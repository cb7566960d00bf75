package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tranvictor/ensgraph/graph"
)

func TestParsePairsSelfReference(t *testing.T) {
	pairs, diags := graph.ParsePairs("a.eth, A.ETH")
	assert.Empty(t, pairs)
	require.Len(t, diags, 1)
	assert.Equal(t, `Line 1: Cannot connect "a.eth" to itself`, diags[0])
}

func TestParsePairsTooManyTokens(t *testing.T) {
	pairs, diags := graph.ParsePairs("a.eth, b.eth, c.eth")
	assert.Empty(t, pairs)
	assert.Equal(t, []string{`Line 1: Invalid format. Use "name1.eth, name2.eth"`}, diags)
}

func TestParsePairsMixedInput(t *testing.T) {
	input := "vitalik.eth, balajis.eth\n" +
		"\n" +
		"broken\n" +
		"  nick.eth ,  santi.eth  \n" +
		"x.eth, \n" +
		"foo, bar.eth\n" +
		"lfield.eth, vitalik.eth"

	pairs, diags := graph.ParsePairs(input)
	assert.Equal(t, []graph.Edge{
		{A: "vitalik.eth", B: "balajis.eth"},
		{A: "nick.eth", B: "santi.eth"},
		{A: "lfield.eth", B: "vitalik.eth"},
	}, pairs)
	assert.Equal(t, []string{
		`Line 3: Invalid format. Use "name1.eth, name2.eth"`,
		"Line 5: Both ENS names are required",
		"Line 6: Invalid ENS format (must include domain like .eth)",
	}, diags)
}

func TestParsePairsBlank(t *testing.T) {
	pairs, diags := graph.ParsePairs("  \n\t\n")
	assert.Empty(t, pairs)
	assert.Empty(t, diags)
}

func TestDefaultExampleParsesCleanly(t *testing.T) {
	pairs, diags := graph.ParsePairs(graph.DefaultExample)
	assert.Empty(t, diags)
	assert.Len(t, pairs, 5)
}

func TestEdgeSameIgnoresOrientation(t *testing.T) {
	e := graph.NewEdge("b.eth", "a.eth")
	assert.True(t, e.Same(graph.NewEdge("a.eth", "b.eth")))
	assert.Equal(t, graph.Edge{A: "a.eth", B: "b.eth"}, e.Ordered())
	assert.True(t, graph.Contains([]graph.Edge{e}, graph.NewEdge("a.eth", "b.eth")))
	assert.False(t, graph.Contains([]graph.Edge{e}, graph.NewEdge("a.eth", "c.eth")))
}

func TestEdgeJSON(t *testing.T) {
	data, err := graph.NewEdge("a.eth", "b.eth").MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `["a.eth","b.eth"]`, string(data))

	var e graph.Edge
	require.NoError(t, e.UnmarshalJSON([]byte(`["x.eth","y.eth"]`)))
	assert.Equal(t, graph.Edge{A: "x.eth", B: "y.eth"}, e)
	assert.Error(t, e.UnmarshalJSON([]byte(`["x.eth"]`)))
}
