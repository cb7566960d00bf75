package graph

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

const maxMatches = 10

type NodeMatch struct {
	Name  string
	Score int
}

// FuzzySource adapts node names to fuzzy.Source.
type FuzzySource []string

func (self FuzzySource) Len() int {
	return len(self)
}

func (self FuzzySource) String(i int) string {
	return strings.ToLower(self[i])
}

// Find returns up to 10 node names matching input, best first.
func Find(input string, names []string) []NodeMatch {
	source := FuzzySource(names)
	matches := fuzzy.FindFrom(strings.ToLower(strings.TrimSpace(input)), source)
	result := []NodeMatch{}
	for i := 0; i < maxMatches && i < len(matches); i++ {
		result = append(result, NodeMatch{
			Name:  source[matches[i].Index],
			Score: matches[i].Score,
		})
	}
	return result
}
