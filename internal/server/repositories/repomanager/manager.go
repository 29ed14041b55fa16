// Package repomanager wires the per-entity repositories to a database handle
// and runs schema migrations at startup.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/vaultkeeper/internal/server/repositories/credentials"
	"github.com/dmitrijs2005/vaultkeeper/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Conn() *sql.DB
	Users() users.Repository
	Credentials() credentials.Repository
	Close() error
}
