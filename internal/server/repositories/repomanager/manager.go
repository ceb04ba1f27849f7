package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/penguintracker/internal/dbx"
	"github.com/dmitrijs2005/penguintracker/internal/server/repositories/penguins"
	"github.com/dmitrijs2005/penguintracker/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Penguins(db dbx.DBTX) penguins.Repository
}
