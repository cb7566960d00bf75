package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tranvictor/ensgraph/graph"
)

func TestBuildFirstSeenNodes(t *testing.T) {
	pairs := []graph.Edge{
		{A: "vitalik.eth", B: "balajis.eth"},
		{A: "santi.eth", B: "vitalik.eth"},
	}
	custom := []graph.Edge{{A: "nick.eth", B: "santi.eth"}}

	data := graph.Build(pairs, custom)
	assert.Equal(t, []string{"vitalik.eth", "balajis.eth", "santi.eth", "nick.eth"}, data.NodeNames())
	assert.Equal(t, []graph.Link{
		{Source: "vitalik.eth", Target: "balajis.eth"},
		{Source: "santi.eth", Target: "vitalik.eth"},
		{Source: "nick.eth", Target: "santi.eth", Custom: true},
	}, data.Links)
	assert.Equal(t, "3 connections (2 from input, 1 custom), 4 unique ENS names", data.Summary())
}

func TestBuildEmpty(t *testing.T) {
	data := graph.Build(nil, nil)
	assert.Empty(t, data.Nodes)
	assert.Empty(t, data.Links)
	assert.NotNil(t, data.Nodes)
}

func TestFind(t *testing.T) {
	names := []string{"vitalik.eth", "balajis.eth", "Vitalik-fan.eth", "santi.eth"}
	matches := graph.Find("vitalik", names)
	if assert.Len(t, matches, 2) {
		assert.Equal(t, "vitalik.eth", matches[0].Name)
		assert.Equal(t, "Vitalik-fan.eth", matches[1].Name)
	}
	assert.Empty(t, graph.Find("zzz", names))
}
