package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	_ DB        = (*pgxpool.Pool)(nil)
	_ DB        = (*pgx.Conn)(nil)
	_ Queryable = (pgx.Tx)(nil)
)

// Queryable runs statements, it's implemented by connections, pools and transactions.
type Queryable interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB is a database handle repositories open their transactions on.
type DB interface {
	Queryable
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
}
