package graph

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Edge is an undirected relationship between two names. A and B keep the
// orientation they were written in; use Same to compare edges.
type Edge struct {
	A string
	B string
}

func NewEdge(a, b string) Edge {
	return Edge{A: strings.TrimSpace(a), B: strings.TrimSpace(b)}
}

func (e Edge) String() string {
	return fmt.Sprintf("%s <-> %s", e.A, e.B)
}

// SelfLoop reports whether both ends name the same node, ignoring case.
func (e Edge) SelfLoop() bool {
	return strings.EqualFold(e.A, e.B)
}

// Ordered returns the edge with its ends sorted lexicographically.
func (e Edge) Ordered() Edge {
	if e.B < e.A {
		return Edge{A: e.B, B: e.A}
	}
	return e
}

// Same reports whether e and o connect the same two nodes in either
// orientation.
func (e Edge) Same(o Edge) bool {
	return (e.A == o.A && e.B == o.B) || (e.A == o.B && e.B == o.A)
}

// MarshalJSON writes the edge as a two element array.
func (e Edge) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{e.A, e.B})
}

func (e *Edge) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("edge must have exactly 2 names, got %d", len(pair))
	}
	e.A, e.B = pair[0], pair[1]
	return nil
}

// Contains reports whether edges already holds e in either orientation.
func Contains(edges []Edge, e Edge) bool {
	for _, x := range edges {
		if x.Same(e) {
			return true
		}
	}
	return false
}
