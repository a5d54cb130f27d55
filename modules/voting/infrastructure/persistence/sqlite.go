package persistence

import (
	"context"
	"embed"
	"io/fs"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/iota-uz/vitstation/modules/voting/domain"
)

const driverName = "sqlite"

//go:embed migrations/*.sql
var migrationsFS embed.FS

func init() {
	sqlx.BindDriver(driverName, sqlx.QUESTION)
}

// DatabasePath turns a store URL into the path of the SQLite file.
// Accepted forms: plain path, sqlite://path, sqlite:path, file:path; query strings are dropped.
func DatabasePath(dbURL string) string {
	p := strings.TrimSpace(dbURL)
	for _, prefix := range []string{"sqlite://", "sqlite:", "file:"} {
		if strings.HasPrefix(p, prefix) {
			p = strings.TrimPrefix(p, prefix)
			break
		}
	}
	if i := strings.IndexByte(p, '?'); i >= 0 {
		p = p[:i]
	}
	return p
}

// Open acquires a connection to the SQLite file at path. The handle is limited to a single
// connection; SQLite creates the file when it does not exist yet.
func Open(ctx context.Context, path string) (*sqlx.DB, error) {
	db, err := sqlx.Open(driverName, path)
	if err != nil {
		return nil, errors.Wrapf(domain.ErrNoConnection, "open %s: %v", path, err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(domain.ErrNoConnection, "ping %s: %v", path, err)
	}
	return db, nil
}

// Migrate applies every pending embedded migration.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	fsys, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return errors.Wrap(err, "failed to load migrations")
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db.DB, fsys)
	if err != nil {
		return errors.Wrap(err, "failed to create migration provider")
	}
	if _, err := provider.Up(ctx); err != nil {
		return errors.Wrap(err, "failed to apply migrations")
	}
	return nil
}
