// Package backup implements named snapshots of the codebase with a
// SQLite catalog.
package backup

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mvanek/mcp-codebase-browser/internal/codebase"
	"github.com/mvanek/mcp-codebase-browser/pkg/types"
)

// Snapshot describes one catalog entry.
type Snapshot struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	FileCount int       `json:"fileCount"`
	SizeBytes int64     `json:"sizeBytes"`
	Note      string    `json:"note,omitempty"`
}

// Manager creates, lists, restores and deletes snapshots. Snapshot data
// lives under dir/<name>; metadata lives in the catalog database.
type Manager struct {
	store *codebase.Store
	dir   string
	db    *sql.DB
}

// NewManager opens the catalog at dbPath and ensures the snapshot
// directory exists.
func NewManager(store *codebase.Store, dir, dbPath string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create catalog directory: %w", err)
	}

	// WAL mode for concurrent reads, busy_timeout to wait for locks
	// instead of failing immediately.
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS snapshots (
			name TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			file_count INTEGER NOT NULL,
			size_bytes INTEGER NOT NULL,
			note TEXT NOT NULL DEFAULT ''
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create catalog schema: %w", err)
	}

	return &Manager{store: store, dir: dir, db: db}, nil
}

// Close closes the catalog database.
func (m *Manager) Close() error {
	return m.db.Close()
}

// Create snapshots the entire codebase under the given name. Names must
// be unique; an existing snapshot is refused.
func (m *Manager) Create(name, note string) (*Snapshot, error) {
	if err := validateName(name); err != nil {
		return nil, err
	}

	var exists int
	if err := m.db.QueryRow(`SELECT COUNT(*) FROM snapshots WHERE name = ?`, name).Scan(&exists); err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	if exists > 0 {
		return nil, fmt.Errorf("%s: %w", name, types.ErrBackupExists)
	}

	target := filepath.Join(m.dir, name)
	files, bytes, err := copyTree(m.store.Root(), target, m.dir)
	if err != nil {
		os.RemoveAll(target)
		return nil, fmt.Errorf("failed to snapshot codebase: %w", err)
	}

	snap := &Snapshot{
		Name:      name,
		CreatedAt: time.Now().UTC(),
		FileCount: files,
		SizeBytes: bytes,
		Note:      note,
	}

	_, err = m.db.Exec(
		`INSERT INTO snapshots (name, created_at, file_count, size_bytes, note) VALUES (?, ?, ?, ?, ?)`,
		snap.Name, snap.CreatedAt, snap.FileCount, snap.SizeBytes, snap.Note,
	)
	if err != nil {
		os.RemoveAll(target)
		return nil, fmt.Errorf("failed to record snapshot: %w", err)
	}

	slog.Info("snapshot created", "name", name, "files", files, "bytes", bytes)
	return snap, nil
}

// List returns all snapshots, newest first.
func (m *Manager) List() ([]Snapshot, error) {
	rows, err := m.db.Query(`SELECT name, created_at, file_count, size_bytes, note FROM snapshots ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	defer rows.Close()

	snapshots := []Snapshot{}
	for rows.Next() {
		var s Snapshot
		if err := rows.Scan(&s.Name, &s.CreatedAt, &s.FileCount, &s.SizeBytes, &s.Note); err != nil {
			return nil, fmt.Errorf("failed to scan catalog row: %w", err)
		}
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

// Get returns one snapshot by name.
func (m *Manager) Get(name string) (*Snapshot, error) {
	var s Snapshot
	err := m.db.QueryRow(
		`SELECT name, created_at, file_count, size_bytes, note FROM snapshots WHERE name = ?`, name,
	).Scan(&s.Name, &s.CreatedAt, &s.FileCount, &s.SizeBytes, &s.Note)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%s: %w", name, types.ErrBackupNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query catalog: %w", err)
	}
	return &s, nil
}

// Restore copies a snapshot back over the codebase, overwriting files
// that exist in the snapshot. Files created after the snapshot are left
// in place.
func (m *Manager) Restore(name string) (*Snapshot, error) {
	snap, err := m.Get(name)
	if err != nil {
		return nil, err
	}

	source := filepath.Join(m.dir, name)
	if _, err := os.Stat(source); os.IsNotExist(err) {
		return nil, fmt.Errorf("snapshot data missing for %s: %w", name, types.ErrBackupNotFound)
	}

	if _, _, err := copyTree(source, m.store.Root(), ""); err != nil {
		return nil, fmt.Errorf("failed to restore snapshot: %w", err)
	}

	// The copy bypasses the store, so its overview cache must be dropped here.
	m.store.InvalidateOverview()

	slog.Info("snapshot restored", "name", name)
	return snap, nil
}

// Delete removes a snapshot and its catalog entry.
func (m *Manager) Delete(name string) error {
	res, err := m.db.Exec(`DELETE FROM snapshots WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("failed to delete catalog entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete catalog entry: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", name, types.ErrBackupNotFound)
	}

	if err := os.RemoveAll(filepath.Join(m.dir, name)); err != nil {
		return fmt.Errorf("failed to delete snapshot data: %w", err)
	}

	slog.Info("snapshot deleted", "name", name)
	return nil
}

// validateName rejects names that would escape the snapshot directory.
func validateName(name string) error {
	if name == "" || name == "." || name == ".." ||
		strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("invalid snapshot name %q: %w", name, types.ErrOutsideRoot)
	}
	return nil
}

// copyTree copies every file under src into dst, skipping dot-prefixed
// directories and anything under skipDir. It returns the file count and
// total bytes copied.
func copyTree(src, dst, skipDir string) (int, int64, error) {
	files := 0
	var bytes int64

	err := filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != src && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			if skipDir != "" && path == skipDir {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		n, err := copyFile(path, target)
		if err != nil {
			return err
		}

		files++
		bytes += n
		return nil
	})
	return files, bytes, err
}

func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return 0, err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		os.Remove(dst)
		return 0, err
	}
	return n, out.Close()
}
