package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"notielf/internal/domain/repositories"
)

// RepositoryConfig holds shared dependencies for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds the (optionally prefixed) table names the engine touches.
type TableNames struct {
	Folders           string
	Documents         string
	DocumentOwnership string
	Invites           string
	UserDocuments     string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Folders:           prefix + "folders",
		Documents:         prefix + "documents",
		DocumentOwnership: prefix + "document_ownership",
		Invites:           prefix + "invites",
		UserDocuments:     prefix + "user_documents",
	}
}

// CreateConnectionPool creates a new pgx connection pool and verifies the
// connection. Connection poolers in transaction mode (port 6543) do not
// support prepared statements, so cache_describe mode is selected there;
// an explicit default_query_exec_mode in the connection string wins.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for pooler compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the appropriate query executor for the context.
// If a transaction is present in the context, it returns the transaction;
// otherwise the pool. This lets query code automatically participate in
// transactions when one exists.
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
