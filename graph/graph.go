package graph

import "fmt"

type Node struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Custom bool   `json:"custom"`
}

// Data is the renderable graph. It is always derived from the two edge
// collections and never persisted.
type Data struct {
	Nodes []Node `json:"nodes"`
	Links []Link `json:"links"`
}

// Build merges the parsed pairs and the custom edges, in that order. Nodes
// appear in first-seen order.
func Build(pairs, custom []Edge) Data {
	data := Data{Nodes: []Node{}, Links: []Link{}}
	seen := map[string]bool{}
	add := func(e Edge, isCustom bool) {
		for _, id := range []string{e.A, e.B} {
			if !seen[id] {
				seen[id] = true
				data.Nodes = append(data.Nodes, Node{ID: id, Name: id})
			}
		}
		data.Links = append(data.Links, Link{Source: e.A, Target: e.B, Custom: isCustom})
	}
	for _, e := range pairs {
		add(e, false)
	}
	for _, e := range custom {
		add(e, true)
	}
	return data
}

func (d Data) NodeNames() []string {
	names := make([]string, 0, len(d.Nodes))
	for _, n := range d.Nodes {
		names = append(names, n.ID)
	}
	return names
}

func (d Data) CustomCount() int {
	count := 0
	for _, l := range d.Links {
		if l.Custom {
			count++
		}
	}
	return count
}

// Summary describes the graph in one line.
func (d Data) Summary() string {
	custom := d.CustomCount()
	return fmt.Sprintf(
		"%d connections (%d from input, %d custom), %d unique ENS names",
		len(d.Links), len(d.Links)-custom, custom, len(d.Nodes),
	)
}
