package testutil

import (
	"io"
	"log"
	"path/filepath"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/tuzo/core"
	logsvc "github.com/trezcool/tuzo/services/logger"
	"github.com/trezcool/tuzo/storage/database"
)

// NewConfig returns a config pointing at throwaway store and backup
// locations under the test's temp dir.
func NewConfig(t *testing.T) *core.Config {
	t.Helper()
	conf := &core.Config{Env: "TEST", AppName: "Tuzo"}
	conf.Database.Path = filepath.Join(t.TempDir(), "app.db")
	conf.Backup.Dir = filepath.Join(t.TempDir(), "backups")
	conf.Backup.Keep = 10
	conf.Admin.Username = "admin"
	conf.Admin.Password = "Sup3r-Secret!"
	return conf
}

// PrepareDB opens a fresh migrated store file for the test.
func PrepareDB(t *testing.T, conf *core.Config) *sqlx.DB {
	t.Helper()
	db, err := database.Open(conf)
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err = database.Migrate(db.DB); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	return db
}

// Logger returns a quiet logger for tests.
func Logger() core.Logger {
	return logsvc.NewConsoleLogger(log.New(io.Discard, "", 0))
}
