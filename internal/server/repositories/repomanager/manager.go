package repomanager

import (
	"context"
	"database/sql"

	"github.com/cuadratic/tasklist/internal/dbx"
	"github.com/cuadratic/tasklist/internal/server/repositories/tasks"
)

// RepositoryManager vends repository implementations bound to a DBTX and
// exposes the schema bootstrap hook.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Tasks(db dbx.DBTX) tasks.Repository
}
