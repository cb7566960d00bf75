package store

import (
	"context"
	"fmt"

	"github.com/supabase-community/postgrest-go"
	"github.com/supabase-community/supabase-go"
	"go.uber.org/zap"

	"github.com/tranvictor/ensgraph/graph"
)

type friendshipRow struct {
	Name1 string `json:"ens_name_1"`
	Name2 string `json:"ens_name_2"`
}

// SupabaseRemote talks to the friendships table through the Supabase REST
// gateway.
type SupabaseRemote struct {
	client *supabase.Client
	logger *zap.Logger
}

func NewSupabaseRemote(url, key string, logger *zap.Logger) (*SupabaseRemote, error) {
	client, err := supabase.NewClient(url, key, nil)
	if err != nil {
		return nil, fmt.Errorf("creating supabase client: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SupabaseRemote{client: client, logger: logger}, nil
}

func eitherOrientation(a, b string) string {
	return fmt.Sprintf(
		"and(ens_name_1.eq.%s,ens_name_2.eq.%s),and(ens_name_1.eq.%s,ens_name_2.eq.%s)",
		a, b, b, a,
	)
}

func (s *SupabaseRemote) Friendships(ctx context.Context) []graph.Edge {
	rows := []friendshipRow{}
	_, err := s.client.From(FriendshipsTable).
		Select("*", "", false).
		Order("created_at", &postgrest.OrderOpts{Ascending: false}).
		ExecuteTo(&rows)
	if err != nil {
		s.logger.Warn("error fetching friendships", zap.Error(err))
		return []graph.Edge{}
	}
	edges := make([]graph.Edge, 0, len(rows))
	for _, r := range rows {
		edges = append(edges, graph.Edge{A: r.Name1, B: r.Name2})
	}
	return edges
}

func (s *SupabaseRemote) AddFriendship(ctx context.Context, e graph.Edge) bool {
	if !validPair(s.logger, e) {
		return false
	}
	o := e.Ordered()

	existing := []map[string]interface{}{}
	_, err := s.client.From(FriendshipsTable).
		Select("id", "", false).
		Or(eitherOrientation(o.A, o.B), "").
		ExecuteTo(&existing)
	if err == nil && len(existing) > 0 {
		s.logger.Debug("friendship already exists", zap.Stringer("edge", o))
		return true
	}

	_, _, err = s.client.From(FriendshipsTable).
		Insert([]friendshipRow{{Name1: o.A, Name2: o.B}}, false, "", "minimal", "").
		Execute()
	if err != nil {
		s.logger.Warn("error adding friendship", zap.Stringer("edge", o), zap.Error(err))
		return false
	}
	s.logger.Info("added friendship", zap.Stringer("edge", o))
	return true
}

func (s *SupabaseRemote) DeleteFriendship(ctx context.Context, e graph.Edge) bool {
	if !validPair(s.logger, e) {
		return false
	}
	_, _, err := s.client.From(FriendshipsTable).
		Delete("minimal", "").
		Or(eitherOrientation(e.A, e.B), "").
		Execute()
	if err != nil {
		s.logger.Warn("error deleting friendship", zap.Stringer("edge", e), zap.Error(err))
		return false
	}
	s.logger.Info("deleted friendship", zap.Stringer("edge", e))
	return true
}
