package store

import (
	"context"

	"github.com/tranvictor/ensgraph/graph"
)

type SyncResult struct {
	Synced  int
	Skipped int
	Failed  int
}

// Push uploads every local custom edge to the remote.
func Push(ctx context.Context, local *Local, remote Remote) SyncResult {
	res := SyncResult{}
	for _, e := range local.List() {
		if remote.AddFriendship(ctx, e) {
			res.Synced++
		} else {
			res.Failed++
		}
	}
	return res
}

// Pull copies remote friendships that are missing locally.
func Pull(ctx context.Context, local *Local, remote Remote) SyncResult {
	res := SyncResult{}
	for _, e := range remote.Friendships(ctx) {
		switch err := local.Add(e); err {
		case nil:
			res.Synced++
		case ErrDuplicateEdge, ErrSelfLoop:
			res.Skipped++
		default:
			res.Failed++
		}
	}
	return res
}

// Mirrored is a graph.EdgeSink over a Local store that also forwards
// additions and removals to Remote when one is set. Remote failures do not
// undo the local change.
type Mirrored struct {
	*Local
	Remote Remote
}

func (m Mirrored) Add(e graph.Edge) error {
	if err := m.Local.Add(e); err != nil {
		return err
	}
	if m.Remote != nil {
		m.Remote.AddFriendship(context.Background(), e)
	}
	return nil
}

func (m Mirrored) Remove(e graph.Edge) bool {
	removed := m.Local.Remove(e)
	if removed && m.Remote != nil {
		m.Remote.DeleteFriendship(context.Background(), e)
	}
	return removed
}
