package database

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/trezcool/goose"
	_ "modernc.org/sqlite"

	"github.com/trezcool/tuzo/core"
	appfs "github.com/trezcool/tuzo/fs"
)

func init() {
	sqlx.BindDriver("sqlite", sqlx.QUESTION)
}

// sqlite tuning applied on every open; mirrors what the store has always
// run with (WAL keeps readers unblocked during writes).
var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA cache_size=-64000", // 64MB cache
	"PRAGMA temp_store=MEMORY",
	"PRAGMA foreign_keys=ON",
}

// Open opens (creating if needed) the single store file.
func Open(conf *core.Config) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", conf.Database.Path)
	if err != nil {
		return nil, errors.Wrap(err, "opening database")
	}
	// the store file is a single-writer resource
	db.SetMaxOpenConns(1)

	for _, pragma := range pragmas {
		if _, err = db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, errors.Wrapf(err, "applying %q", pragma)
		}
	}
	return db, nil
}

func Migrate(db *sql.DB) error {
	if err := goose.SetDialect("sqlite3"); err != nil {
		return errors.Wrap(err, "setting goose dialect")
	}
	if err := goose.RunFS("up", db, appfs.FS, "migrations"); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}
