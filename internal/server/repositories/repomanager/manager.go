// Package repomanager vends repositories bound to a database handle and owns
// the schema and transaction lifecycle of the backing store.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/gophtasks/internal/dbx"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/tokens"
	"github.com/dmitrijs2005/gophtasks/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	// Conn is the non-transactional handle to pass to the repository factories.
	Conn() dbx.DBTX
	// WithinTx runs fn in a transaction; repositories built from the handle
	// fn receives take part in it.
	WithinTx(ctx context.Context, fn dbx.TxFunc) error
	Users(db dbx.DBTX) users.Repository
	Tasks(db dbx.DBTX) tasks.Repository
	Tokens(db dbx.DBTX) tokens.Repository
	Close() error
}
