package store_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tranvictor/ensgraph/graph"
	"github.com/tranvictor/ensgraph/store"
)

func openSQLRemote(t *testing.T) *store.SQLRemote {
	r, err := store.OpenSQLRemote(context.Background(), filepath.Join(t.TempDir(), "remote.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSQLRemoteFriendships(t *testing.T) {
	ctx := context.Background()
	r := openSQLRemote(t)

	assert.True(t, r.AddFriendship(ctx, graph.NewEdge("vitalik.eth", "balajis.eth")))
	assert.True(t, r.AddFriendship(ctx, graph.NewEdge("balajis.eth", "vitalik.eth")))
	assert.True(t, r.AddFriendship(ctx, graph.NewEdge("santi.eth", "nick.eth")))

	assert.Equal(t, []graph.Edge{
		{A: "nick.eth", B: "santi.eth"},
		{A: "balajis.eth", B: "vitalik.eth"},
	}, r.Friendships(ctx))

	assert.True(t, r.DeleteFriendship(ctx, graph.NewEdge("vitalik.eth", "balajis.eth")))
	assert.Equal(t, []graph.Edge{{A: "nick.eth", B: "santi.eth"}}, r.Friendships(ctx))

	assert.False(t, r.AddFriendship(ctx, graph.NewEdge("", "nick.eth")))
}

func TestUnconfiguredRemote(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	r := store.Unconfigured{Logger: zap.New(core)}
	ctx := context.Background()

	assert.Empty(t, r.Friendships(ctx))
	assert.False(t, r.AddFriendship(ctx, graph.NewEdge("a.eth", "b.eth")))
	assert.False(t, r.DeleteFriendship(ctx, graph.NewEdge("a.eth", "b.eth")))
	assert.Equal(t, 3, logs.Len())
}

func TestSupabaseRemoteFriendships(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/friendships"), r.URL.Path)
		assert.Equal(t, "anon", r.Header.Get("apikey"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			{"id": 2, "ens_name_1": "nick.eth", "ens_name_2": "santi.eth", "created_at": "2024-05-02T00:00:00Z"},
			{"id": 1, "ens_name_1": "balajis.eth", "ens_name_2": "vitalik.eth", "created_at": "2024-05-01T00:00:00Z"},
		})
	}))
	defer srv.Close()

	r, err := store.NewSupabaseRemote(srv.URL, "anon", zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, []graph.Edge{
		{A: "nick.eth", B: "santi.eth"},
		{A: "balajis.eth", B: "vitalik.eth"},
	}, r.Friendships(context.Background()))
}

func TestSupabaseRemoteAddInsertsOrderedPair(t *testing.T) {
	var inserted []map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPost {
			body, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(body, &inserted)
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte("[]"))
			return
		}
		_, _ = w.Write([]byte("[]"))
	}))
	defer srv.Close()

	r, err := store.NewSupabaseRemote(srv.URL, "anon", zap.NewNop())
	require.NoError(t, err)
	assert.True(t, r.AddFriendship(context.Background(), graph.NewEdge("vitalik.eth", "balajis.eth")))
	assert.Equal(t, []map[string]string{{"ens_name_1": "balajis.eth", "ens_name_2": "vitalik.eth"}}, inserted)
}

func TestSupabaseRemoteFailureIsFalse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"code":"XX000","message":"boom"}`))
	}))
	defer srv.Close()

	r, err := store.NewSupabaseRemote(srv.URL, "anon", zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, r.Friendships(context.Background()))
	assert.False(t, r.DeleteFriendship(context.Background(), graph.NewEdge("a.eth", "b.eth")))
}
