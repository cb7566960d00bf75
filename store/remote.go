package store

import (
	"context"

	"go.uber.org/zap"

	"github.com/tranvictor/ensgraph/graph"
)

// FriendshipsTable is the remote table mirroring custom edges.
const FriendshipsTable = "friendships"

// Remote mirrors edges to a shared relational table. Implementations never
// return errors: failures are logged and reported as false or an empty
// list.
type Remote interface {
	// Friendships lists stored pairs, newest first.
	Friendships(ctx context.Context) []graph.Edge
	// AddFriendship stores e with its names in lexicographic order. A pair
	// that already exists counts as success.
	AddFriendship(ctx context.Context, e graph.Edge) bool
	// DeleteFriendship removes e in either orientation.
	DeleteFriendship(ctx context.Context, e graph.Edge) bool
}

// Unconfigured is the Remote used when no backend is set up.
type Unconfigured struct {
	Logger *zap.Logger
}

func (u Unconfigured) warn() {
	if u.Logger != nil {
		u.Logger.Warn("remote edge store not configured")
	}
}

func (u Unconfigured) Friendships(ctx context.Context) []graph.Edge {
	u.warn()
	return []graph.Edge{}
}

func (u Unconfigured) AddFriendship(ctx context.Context, e graph.Edge) bool {
	u.warn()
	return false
}

func (u Unconfigured) DeleteFriendship(ctx context.Context, e graph.Edge) bool {
	u.warn()
	return false
}

func validPair(logger *zap.Logger, e graph.Edge) bool {
	if e.A == "" || e.B == "" {
		logger.Warn("both ENS names are required", zap.Stringer("edge", e))
		return false
	}
	return true
}
