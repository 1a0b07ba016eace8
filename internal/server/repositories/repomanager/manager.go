// Package repomanager constructs the repository set for the configured
// storage backend. The DSN scheme selects the implementation: mongodb:// for
// the document store, postgres:// (or postgresql://) for PostgreSQL.
package repomanager

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/users"
)

// RepositoryManager owns the store connection and hands out repositories.
type RepositoryManager interface {
	Users() users.Repository
	Tasks() tasks.Repository
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// NewRepositoryManager dispatches on the DSN scheme.
func NewRepositoryManager(ctx context.Context, dsn string) (RepositoryManager, error) {
	switch {
	case strings.HasPrefix(dsn, "mongodb://"), strings.HasPrefix(dsn, "mongodb+srv://"):
		return NewMongoRepositoryManager(ctx, dsn)
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return NewPostgresRepositoryManager(ctx, dsn)
	default:
		return nil, fmt.Errorf("unsupported database dsn: %s", dsn)
	}
}
