package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/movievault/internal/dbx"
	"github.com/dmitrijs2005/movievault/internal/server/repositories/categories"
	"github.com/dmitrijs2005/movievault/internal/server/repositories/movies"
	"github.com/dmitrijs2005/movievault/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Movies(db dbx.DBTX) movies.Repository
	Categories(db dbx.DBTX) categories.Repository
}
