package graph

import (
	"errors"
	"fmt"
)

var (
	ErrNotCustom = errors.New("can only delete custom edges, this edge is from the input text")
	ErrExists    = errors.New("connection already exists")
)

type Mode int

const (
	ViewMode Mode = iota
	EditMode
)

func (m Mode) String() string {
	if m == EditMode {
		return "edit"
	}
	return "view"
}

// EdgeSink persists custom edges created or removed by the editor.
type EdgeSink interface {
	List() []Edge
	Add(e Edge) error
	Remove(e Edge) bool
}

// ClickResult tells the caller what a node click did.
type ClickResult int

const (
	// Open means the node was clicked in view mode and its profile should
	// be shown.
	Open ClickResult = iota
	Selected
	Deselected
	Created
	Duplicate
)

// Editor is the node selection state machine of the graph view. It holds at
// most one selected node.
type Editor struct {
	mode     Mode
	selected string
	pairs    []Edge
	sink     EdgeSink
}

func NewEditor(sink EdgeSink) *Editor {
	return &Editor{sink: sink}
}

// SetPairs replaces the edges coming from the input text.
func (ed *Editor) SetPairs(pairs []Edge) {
	ed.pairs = pairs
}

func (ed *Editor) Mode() Mode {
	return ed.mode
}

// Selected returns the pending selection, if any.
func (ed *Editor) Selected() (string, bool) {
	return ed.selected, ed.selected != ""
}

// ToggleMode flips between view and edit and always drops the selection.
func (ed *Editor) ToggleMode() Mode {
	if ed.mode == ViewMode {
		ed.mode = EditMode
	} else {
		ed.mode = ViewMode
	}
	ed.selected = ""
	return ed.mode
}

// Escape cancels a pending selection.
func (ed *Editor) Escape() {
	ed.selected = ""
}

// Data builds the current graph from the input pairs and stored edges.
func (ed *Editor) Data() Data {
	return Build(ed.pairs, ed.sink.List())
}

func (ed *Editor) all() []Edge {
	return append(append([]Edge{}, ed.pairs...), ed.sink.List()...)
}

// Click handles a click on node id.
func (ed *Editor) Click(id string) (ClickResult, error) {
	if ed.mode == ViewMode {
		return Open, nil
	}
	if ed.selected == "" {
		ed.selected = id
		return Selected, nil
	}
	first := ed.selected
	ed.selected = ""
	if first == id {
		return Deselected, nil
	}
	e := Edge{A: first, B: id}
	if Contains(ed.all(), e) {
		return Duplicate, fmt.Errorf("%w between %s and %s", ErrExists, first, id)
	}
	if err := ed.sink.Add(e); err != nil {
		return Duplicate, err
	}
	return Created, nil
}

// RemoveLink deletes a custom edge. Edges from the input text cannot be
// removed here.
func (ed *Editor) RemoveLink(e Edge) error {
	if !Contains(ed.sink.List(), e) {
		return ErrNotCustom
	}
	ed.sink.Remove(e)
	return nil
}
