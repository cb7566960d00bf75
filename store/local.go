package store

import (
	"encoding/json"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/tranvictor/ensgraph/graph"
)

// EdgesKey is the storage key holding the custom edge list.
const EdgesKey = "ens-custom-edges"

var (
	ErrDuplicateEdge = errors.New("connection already exists")
	ErrSelfLoop      = errors.New("cannot connect a name to itself")
)

// Local keeps custom edges under EdgesKey as a JSON list of [a, b] pairs.
// Storage failures are logged and otherwise ignored: a failed read looks
// like an empty list and a failed write keeps nothing.
type Local struct {
	kv     KV
	logger *zap.Logger
	mu     sync.Mutex
}

func NewLocal(kv KV, logger *zap.Logger) *Local {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Local{kv: kv, logger: logger}
}

func (l *Local) load() []graph.Edge {
	edges := []graph.Edge{}
	raw, found, err := l.kv.Get(EdgesKey)
	if err != nil {
		l.logger.Warn("failed to load custom edges", zap.Error(err))
		return edges
	}
	if !found || raw == "" {
		return edges
	}
	if err := json.Unmarshal([]byte(raw), &edges); err != nil {
		l.logger.Warn("failed to decode custom edges", zap.Error(err))
		return []graph.Edge{}
	}
	return edges
}

func (l *Local) save(edges []graph.Edge) {
	data, err := json.Marshal(edges)
	if err != nil {
		l.logger.Warn("failed to encode custom edges", zap.Error(err))
		return
	}
	if err := l.kv.Set(EdgesKey, string(data)); err != nil {
		l.logger.Warn("failed to save custom edges", zap.Error(err))
	}
}

func (l *Local) List() []graph.Edge {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load()
}

func (l *Local) Has(e graph.Edge) bool {
	return graph.Contains(l.List(), e)
}

// Add appends e unless it is a self-loop or already stored in either
// orientation.
func (l *Local) Add(e graph.Edge) error {
	if e.SelfLoop() {
		return ErrSelfLoop
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	edges := l.load()
	if graph.Contains(edges, e) {
		return ErrDuplicateEdge
	}
	l.save(append(edges, e))
	return nil
}

// Remove deletes e in either orientation and reports whether it was stored.
func (l *Local) Remove(e graph.Edge) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	edges := l.load()
	for i, x := range edges {
		if x.Same(e) {
			l.save(append(edges[:i], edges[i+1:]...))
			return true
		}
	}
	return false
}

func (l *Local) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.save([]graph.Edge{})
}
