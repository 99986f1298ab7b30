package backup

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/mvanek/mcp-codebase-browser/internal/codebase"
	"github.com/mvanek/mcp-codebase-browser/pkg/types"
)

func newTestManager(t *testing.T) (*Manager, *codebase.Store) {
	t.Helper()

	store, err := codebase.NewStore(t.TempDir(), false)
	if err != nil {
		t.Fatal(err)
	}

	stateDir := t.TempDir()
	mgr, err := NewManager(store, filepath.Join(stateDir, "backups"), filepath.Join(stateDir, "backups.db"))
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	t.Cleanup(func() { mgr.Close() })

	return mgr, store
}

func TestCreateAndList(t *testing.T) {
	mgr, store := newTestManager(t)

	if err := store.WriteFile("src/main.go", "package main\n", false); err != nil {
		t.Fatal(err)
	}
	if err := store.WriteFile("README.md", "# hi\n", false); err != nil {
		t.Fatal(err)
	}

	snap, err := mgr.Create("v1", "before refactor")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if snap.FileCount != 2 {
		t.Errorf("fileCount = %d, want 2", snap.FileCount)
	}
	if snap.SizeBytes != int64(len("package main\n")+len("# hi\n")) {
		t.Errorf("sizeBytes = %d", snap.SizeBytes)
	}
	if snap.Note != "before refactor" {
		t.Errorf("note = %q", snap.Note)
	}

	list, err := mgr.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 1 || list[0].Name != "v1" {
		t.Errorf("list = %+v, want one snapshot v1", list)
	}
}

func TestCreateDuplicateName(t *testing.T) {
	mgr, store := newTestManager(t)
	if err := store.WriteFile("a.txt", "x", false); err != nil {
		t.Fatal(err)
	}

	if _, err := mgr.Create("v1", ""); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.Create("v1", ""); !errors.Is(err, types.ErrBackupExists) {
		t.Errorf("Create() duplicate = %v, want ErrBackupExists", err)
	}
}

func TestCreateInvalidName(t *testing.T) {
	mgr, _ := newTestManager(t)

	for _, name := range []string{"", ".", "..", "a/b", `a\b`} {
		if _, err := mgr.Create(name, ""); err == nil {
			t.Errorf("Create(%q) succeeded, want error", name)
		}
	}
}

func TestRestore(t *testing.T) {
	mgr, store := newTestManager(t)

	if err := store.WriteFile("a.txt", "original", false); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.Create("v1", ""); err != nil {
		t.Fatal(err)
	}

	// Mutate after the snapshot.
	if err := store.WriteFile("a.txt", "modified", false); err != nil {
		t.Fatal(err)
	}
	if err := store.WriteFile("new.txt", "added later", false); err != nil {
		t.Fatal(err)
	}

	if _, err := mgr.Restore("v1"); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	got, err := store.ReadFile("a.txt", 0)
	if err != nil {
		t.Fatal(err)
	}
	if got.Content != "original" {
		t.Errorf("restored content = %q, want original", got.Content)
	}

	// Files created after the snapshot survive a restore.
	if _, err := store.ReadFile("new.txt", 0); err != nil {
		t.Errorf("post-snapshot file removed by restore: %v", err)
	}
}

func TestRestoreInvalidatesOverview(t *testing.T) {
	mgr, store := newTestManager(t)

	if err := store.WriteFile("README.md", "# original project\n", false); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.Create("v1", ""); err != nil {
		t.Fatal(err)
	}

	if err := store.WriteFile("README.md", "# renamed project\n", false); err != nil {
		t.Fatal(err)
	}
	// Prime the cache with the post-snapshot state.
	before, err := store.Overview()
	if err != nil {
		t.Fatal(err)
	}
	if before.Readme != "# renamed project\n" {
		t.Fatalf("overview readme = %q before restore", before.Readme)
	}

	if _, err := mgr.Restore("v1"); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	// The restore writes behind the store's back, so it must drop the cache.
	after, err := store.Overview()
	if err != nil {
		t.Fatal(err)
	}
	if after.Readme != "# original project\n" {
		t.Errorf("overview readme = %q after restore, want snapshot contents", after.Readme)
	}
}

func TestRestoreMissing(t *testing.T) {
	mgr, _ := newTestManager(t)

	if _, err := mgr.Restore("nope"); !errors.Is(err, types.ErrBackupNotFound) {
		t.Errorf("Restore() error = %v, want ErrBackupNotFound", err)
	}
}

func TestDelete(t *testing.T) {
	mgr, store := newTestManager(t)

	if err := store.WriteFile("a.txt", "x", false); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.Create("v1", ""); err != nil {
		t.Fatal(err)
	}

	if err := mgr.Delete("v1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	list, err := mgr.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 0 {
		t.Errorf("list after delete = %+v, want empty", list)
	}

	if err := mgr.Delete("v1"); !errors.Is(err, types.ErrBackupNotFound) {
		t.Errorf("Delete() missing = %v, want ErrBackupNotFound", err)
	}
}

func TestGet(t *testing.T) {
	mgr, store := newTestManager(t)

	if err := store.WriteFile("a.txt", "x", false); err != nil {
		t.Fatal(err)
	}
	if _, err := mgr.Create("v1", "note"); err != nil {
		t.Fatal(err)
	}

	snap, err := mgr.Get("v1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if snap.Name != "v1" || snap.Note != "note" {
		t.Errorf("snapshot = %+v", snap)
	}

	if _, err := mgr.Get("nope"); !errors.Is(err, types.ErrBackupNotFound) {
		t.Errorf("Get() missing = %v, want ErrBackupNotFound", err)
	}
}

func TestSnapshotSkipsDotDirectories(t *testing.T) {
	mgr, store := newTestManager(t)

	if err := store.WriteFile("a.txt", "x", false); err != nil {
		t.Fatal(err)
	}
	if err := store.WriteFile(".git/config", "[core]", false); err != nil {
		t.Fatal(err)
	}

	snap, err := mgr.Create("v1", "")
	if err != nil {
		t.Fatal(err)
	}
	if snap.FileCount != 1 {
		t.Errorf("fileCount = %d, want 1 (dot directories excluded)", snap.FileCount)
	}
}
