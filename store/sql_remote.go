package store

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/tranvictor/ensgraph/graph"
)

// DriverType identifies the database behind a SQLRemote.
type DriverType int

const (
	DriverSQLite DriverType = iota
	DriverPostgres
)

const sqliteFriendships = `
CREATE TABLE IF NOT EXISTS friendships (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	ens_name_1 TEXT NOT NULL,
	ens_name_2 TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	UNIQUE (ens_name_1, ens_name_2)
);
`

const postgresFriendships = `
CREATE TABLE IF NOT EXISTS friendships (
	id BIGSERIAL PRIMARY KEY,
	ens_name_1 TEXT NOT NULL,
	ens_name_2 TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (ens_name_1, ens_name_2)
);
`

// SQLRemote keeps the friendships table in PostgreSQL, or in SQLite for
// local setups and tests.
type SQLRemote struct {
	db     *sql.DB
	driver DriverType
	logger *zap.Logger
}

// detectDriver determines the driver type from the DSN.
func detectDriver(dsn string) (DriverType, string) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return DriverPostgres, "postgres"
	}
	return DriverSQLite, "sqlite"
}

// OpenSQLRemote connects to dsn and creates the friendships table if
// needed. postgres:// URLs use PostgreSQL, anything else is a SQLite path.
func OpenSQLRemote(ctx context.Context, dsn string, logger *zap.Logger) (*SQLRemote, error) {
	driver, driverName := detectDriver(dsn)
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	schema := postgresFriendships
	if driver == DriverSQLite {
		db.SetMaxOpenConns(1)
		schema = sqliteFriendships
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating friendships table: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SQLRemote{db: db, driver: driver, logger: logger}, nil
}

func (s *SQLRemote) Close() error {
	return s.db.Close()
}

var placeholderRegex = regexp.MustCompile(`\?`)

// q converts ? placeholders to $1, $2, ... for PostgreSQL.
func (s *SQLRemote) q(query string) string {
	if s.driver != DriverPostgres {
		return query
	}
	counter := 0
	return placeholderRegex.ReplaceAllStringFunc(query, func(_ string) string {
		counter++
		return fmt.Sprintf("$%d", counter)
	})
}

func (s *SQLRemote) Friendships(ctx context.Context) []graph.Edge {
	edges := []graph.Edge{}
	rows, err := s.db.QueryContext(ctx,
		"SELECT ens_name_1, ens_name_2 FROM friendships ORDER BY created_at DESC, id DESC")
	if err != nil {
		s.logger.Warn("error fetching friendships", zap.Error(err))
		return edges
	}
	defer rows.Close()
	for rows.Next() {
		var e graph.Edge
		if err := rows.Scan(&e.A, &e.B); err != nil {
			s.logger.Warn("error fetching friendships", zap.Error(err))
			return []graph.Edge{}
		}
		edges = append(edges, e)
	}
	if err := rows.Err(); err != nil {
		s.logger.Warn("error fetching friendships", zap.Error(err))
		return []graph.Edge{}
	}
	return edges
}

func (s *SQLRemote) AddFriendship(ctx context.Context, e graph.Edge) bool {
	if !validPair(s.logger, e) {
		return false
	}
	o := e.Ordered()
	_, err := s.db.ExecContext(ctx, s.q(
		`INSERT INTO friendships (ens_name_1, ens_name_2) VALUES (?, ?)
		 ON CONFLICT (ens_name_1, ens_name_2) DO NOTHING`),
		o.A, o.B,
	)
	if err != nil {
		s.logger.Warn("error adding friendship", zap.Stringer("edge", o), zap.Error(err))
		return false
	}
	return true
}

func (s *SQLRemote) DeleteFriendship(ctx context.Context, e graph.Edge) bool {
	if !validPair(s.logger, e) {
		return false
	}
	_, err := s.db.ExecContext(ctx, s.q(
		`DELETE FROM friendships
		 WHERE (ens_name_1 = ? AND ens_name_2 = ?) OR (ens_name_1 = ? AND ens_name_2 = ?)`),
		e.A, e.B, e.B, e.A,
	)
	if err != nil {
		s.logger.Warn("error deleting friendship", zap.Stringer("edge", e), zap.Error(err))
		return false
	}
	return true
}
