package graph

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultExample is the relationship list shown to first time users.
const DefaultExample = `vitalik.eth, balajis.eth
vitalik.eth, santi.eth
lfield.eth, vitalik.eth
chancellor.eth, vitalik.eth
balajis.eth, santi.eth`

// ParsePairs reads one "name1.eth, name2.eth" pair per line. Blank lines are
// skipped. A malformed line yields a diagnostic prefixed with its 1-based
// line number and is left out of the result; parsing always continues.
func ParsePairs(text string) ([]Edge, []string) {
	pairs := []Edge{}
	diagnostics := []string{}
	if strings.TrimSpace(text) == "" {
		return pairs, diagnostics
	}
	for i, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		e, err := parseLine(line)
		if err != nil {
			diagnostics = append(diagnostics, fmt.Sprintf("Line %d: %s", i+1, err))
			continue
		}
		pairs = append(pairs, e)
	}
	return pairs, diagnostics
}

func parseLine(line string) (Edge, error) {
	parts := strings.Split(line, ",")
	if len(parts) != 2 {
		return Edge{}, errors.New(`Invalid format. Use "name1.eth, name2.eth"`)
	}
	e := NewEdge(parts[0], parts[1])
	if e.A == "" || e.B == "" {
		return Edge{}, errors.New("Both ENS names are required")
	}
	if e.SelfLoop() {
		return Edge{}, fmt.Errorf(`Cannot connect "%s" to itself`, e.A)
	}
	if !strings.Contains(e.A, ".") || !strings.Contains(e.B, ".") {
		return Edge{}, errors.New("Invalid ENS format (must include domain like .eth)")
	}
	return e, nil
}
