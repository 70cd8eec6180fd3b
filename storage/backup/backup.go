// Package backup manages the store-file snapshot lifecycle: creation,
// enumeration, retention pruning and restore.
package backup

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/tuzo/core"
)

var (
	// errors
	ErrStoreMissing  = core.NewNotFoundError("store file not found")
	ErrBackupMissing = core.NewNotFoundError("backup file not found")

	nowFunc    = time.Now  // mockable
	removeFunc = os.Remove // mockable
)

const nameTimestampLayout = "20060102_150405"

// Backup describes one snapshot file.
type Backup struct {
	Name      string    `json:"name"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

type Manager struct {
	dbPath string
	dir    string
	keep   int
	db     core.DBExecutor // optional; lets Create checkpoint the WAL first
	log    core.Logger
}

// NewManager returns a backup manager for the configured store file.
// db may be nil when no live connection exists (offline maintenance).
func NewManager(conf *core.Config, db core.DBExecutor, log core.Logger) *Manager {
	return &Manager{
		dbPath: conf.Database.Path,
		dir:    conf.Backup.Dir,
		keep:   conf.Backup.Keep,
		db:     db,
		log:    log,
	}
}

// prefix returns the backup file name prefix derived from the store file
// name, e.g. "app_backup_" for "app.db".
func (m *Manager) prefix() string {
	base := filepath.Base(m.dbPath)
	return strings.TrimSuffix(base, filepath.Ext(base)) + "_backup_"
}

// Create copies the store file byte-for-byte into the backup directory
// under a timestamped name, then prunes to the retention count. The copy
// is a best-effort snapshot: concurrent writers are deliberately not
// locked out (the WAL is checkpointed first when a live connection is
// available, so the main file holds all committed state).
func (m *Manager) Create() (string, error) {
	if _, err := os.Stat(m.dbPath); err != nil {
		if os.IsNotExist(err) {
			return "", ErrStoreMissing
		}
		return "", errors.Wrap(err, "checking store file")
	}

	if m.db != nil {
		if _, err := m.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
			m.log.Warn("WAL checkpoint before backup failed", err)
		}
	}

	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return "", errors.Wrap(err, "creating backup directory")
	}

	name := m.prefix() + nowFunc().Format(nameTimestampLayout) + filepath.Ext(m.dbPath)
	path := filepath.Join(m.dir, name)
	if err := copyFile(m.dbPath, path); err != nil {
		return "", errors.Wrap(err, "copying store file")
	}

	if err := m.Prune(m.keep); err != nil {
		return "", err
	}
	return path, nil
}

// List enumerates available backups, newest first. A missing backup
// directory is an empty list, not an error.
func (m *Manager) List() ([]Backup, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Backup{}, nil
		}
		return nil, errors.Wrap(err, "listing backup directory")
	}

	prefix, ext := m.prefix(), filepath.Ext(m.dbPath)
	backups := make([]Backup, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ext) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue // deleted between readdir and stat
		}
		backups = append(backups, Backup{
			Name:      name,
			Path:      filepath.Join(m.dir, name),
			Size:      info.Size(),
			CreatedAt: info.ModTime(),
		})
	}

	// backups are write-once, so mtime is creation time; names embed the
	// same second-granular timestamp and break ties
	sort.Slice(backups, func(i, j int) bool {
		if backups[i].CreatedAt.Equal(backups[j].CreatedAt) {
			return backups[i].Name > backups[j].Name
		}
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// Prune deletes every backup beyond the `keep` most recent ones. One
// undeletable file must not abort pruning of the rest: individual
// deletion failures are logged and skipped.
func (m *Manager) Prune(keep int) error {
	if keep < 0 {
		keep = 0
	}
	backups, err := m.List()
	if err != nil {
		return err
	}
	if len(backups) <= keep {
		return nil
	}
	for _, old := range backups[keep:] {
		if err := removeFunc(old.Path); err != nil {
			m.log.Warn("pruning backup failed", err, map[string]interface{}{"path": old.Path})
		}
	}
	return nil
}

// Restore overwrites the live store file with the backup's bytes. A
// fresh backup of the current store is always taken first, so a bad
// restore target never destroys the only copy of current data.
func (m *Manager) Restore(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return ErrBackupMissing
		}
		return errors.Wrap(err, "checking backup file")
	}

	if _, err := m.Create(); err != nil {
		return errors.Wrap(err, "backing up current store")
	}

	if err := copyFile(path, m.dbPath); err != nil {
		return errors.Wrap(err, "restoring store file")
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err = out.Sync(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
