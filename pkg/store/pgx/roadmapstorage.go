package pgx

import (
	"context"

	pgxv5 "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type pgxIConn interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...any) (pgxv5.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...any) pgxv5.Row
	Begin(ctx context.Context) (pgxv5.Tx, error)
}

// RoadmapDBStorage implements the store.RoadmapStorage interface on
// PostgreSQL. Roadmap documents are stored as a JSONB column next to the run
// row, so a completed run and its result travel together.
type RoadmapDBStorage struct {
	conn pgxIConn
}

// NewRoadmapDBStorageWithConnection creates a new RoadmapDBStorage using an
// existing database connection or pool.
func NewRoadmapDBStorageWithConnection(conn pgxIConn) *RoadmapDBStorage {
	return &RoadmapDBStorage{conn: conn}
}
