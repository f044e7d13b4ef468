package repomanager

import (
	"context"
	"database/sql"

	"github.com/UdayKhare09/Elrond/internal/dbx"
	"github.com/UdayKhare09/Elrond/internal/server/repositories/users"
	"github.com/UdayKhare09/Elrond/internal/server/repositories/verificationtokens"
)

// RepositoryManager vends repositories bound to a DBTX, so the same code
// runs against the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	VerificationTokens(db dbx.DBTX) verificationtokens.Repository
}
