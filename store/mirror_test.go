package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tranvictor/ensgraph/graph"
	"github.com/tranvictor/ensgraph/store"
)

type fakeRemote struct {
	rows    []graph.Edge
	added   []graph.Edge
	deleted []graph.Edge
	fail    bool
}

func (f *fakeRemote) Friendships(ctx context.Context) []graph.Edge { return f.rows }

func (f *fakeRemote) AddFriendship(ctx context.Context, e graph.Edge) bool {
	if f.fail {
		return false
	}
	f.added = append(f.added, e.Ordered())
	return true
}

func (f *fakeRemote) DeleteFriendship(ctx context.Context, e graph.Edge) bool {
	f.deleted = append(f.deleted, e)
	return !f.fail
}

func newLocal(t *testing.T) *store.Local {
	return store.NewLocal(store.NewFileKV(filepath.Join(t.TempDir(), "edges.json")), nil)
}

func TestPushAndPull(t *testing.T) {
	ctx := context.Background()
	local := newLocal(t)
	require.NoError(t, local.Add(graph.NewEdge("vitalik.eth", "balajis.eth")))

	remote := &fakeRemote{rows: []graph.Edge{
		{A: "balajis.eth", B: "vitalik.eth"},
		{A: "nick.eth", B: "santi.eth"},
	}}

	assert.Equal(t, store.SyncResult{Synced: 1}, store.Push(ctx, local, remote))
	assert.Equal(t, []graph.Edge{{A: "balajis.eth", B: "vitalik.eth"}}, remote.added)

	assert.Equal(t, store.SyncResult{Synced: 1, Skipped: 1}, store.Pull(ctx, local, remote))
	assert.True(t, local.Has(graph.NewEdge("santi.eth", "nick.eth")))

	remote.fail = true
	assert.Equal(t, store.SyncResult{Failed: 2}, store.Push(ctx, local, remote))
}

func TestMirroredForwardsChanges(t *testing.T) {
	remote := &fakeRemote{}
	sink := store.Mirrored{Local: newLocal(t), Remote: remote}

	ed := graph.NewEditor(sink)
	ed.ToggleMode()
	_, _ = ed.Click("a.eth")
	res, err := ed.Click("b.eth")
	require.NoError(t, err)
	assert.Equal(t, graph.Created, res)
	assert.Equal(t, []graph.Edge{{A: "a.eth", B: "b.eth"}}, remote.added)

	require.NoError(t, ed.RemoveLink(graph.NewEdge("b.eth", "a.eth")))
	assert.Equal(t, []graph.Edge{{A: "b.eth", B: "a.eth"}}, remote.deleted)
	assert.Empty(t, sink.List())
}
