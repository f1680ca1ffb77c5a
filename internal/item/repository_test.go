package item

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func testRepository(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "items"))
	if err != nil {
		t.Fatalf("NewRepository() error = %v", err)
	}
	return repo
}

func TestNewRepository_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "items")

	if _, err := NewRepository(dir); err != nil {
		t.Fatalf("NewRepository() error = %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("data directory was not created: %v", err)
	}

	// Idempotent on an existing directory.
	if _, err := NewRepository(dir); err != nil {
		t.Errorf("NewRepository() on existing dir error = %v", err)
	}
}

func TestRepository_WriteRead(t *testing.T) {
	repo := testRepository(t)

	want := map[string]any{"title": "t", "count": float64(3)}
	if err := repo.Write("id-1", want); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := repo.Read("id-1")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	obj := got.(map[string]any)
	if obj["title"] != "t" || obj["count"] != float64(3) {
		t.Errorf("Read() = %v, want %v", got, want)
	}
}

func TestRepository_WriteIsPrettyPrinted(t *testing.T) {
	repo := testRepository(t)

	if err := repo.Write("id-1", map[string]any{"a": float64(1), "b": float64(2)}); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(repo.Dir(), "id-1.json"))
	if err != nil {
		t.Fatalf("reading written file: %v", err)
	}
	if !strings.Contains(string(data), "\n  ") {
		t.Errorf("file is not indented: %q", string(data))
	}
}

func TestRepository_ReadMissing(t *testing.T) {
	repo := testRepository(t)

	_, err := repo.Read("nonexistent")
	if !errors.Is(err, ErrItemNotFound) {
		t.Errorf("Read() error = %v, want ErrItemNotFound", err)
	}
}

func TestRepository_ReadCorrupt(t *testing.T) {
	repo := testRepository(t)

	path := filepath.Join(repo.Dir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0600); err != nil {
		t.Fatalf("writing corrupt file: %v", err)
	}

	_, err := repo.Read("bad")
	if !errors.Is(err, ErrCorruptDocument) {
		t.Errorf("Read() error = %v, want ErrCorruptDocument", err)
	}
}

func TestRepository_DeleteIsIdempotent(t *testing.T) {
	repo := testRepository(t)

	if err := repo.Write("id-1", "value"); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if err := repo.Delete("id-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	// Second delete of the same id must also succeed.
	if err := repo.Delete("id-1"); err != nil {
		t.Errorf("Delete() second call error = %v, want nil", err)
	}

	_, err := repo.Read("id-1")
	if !errors.Is(err, ErrItemNotFound) {
		t.Errorf("Read() after delete error = %v, want ErrItemNotFound", err)
	}
}

func TestRepository_ListIDs(t *testing.T) {
	repo := testRepository(t)

	for _, id := range []string{"aaa", "bbb"} {
		if err := repo.Write(id, "v"); err != nil {
			t.Fatalf("Write(%s) error = %v", id, err)
		}
	}
	// Files not matching the naming convention are ignored.
	if err := os.WriteFile(filepath.Join(repo.Dir(), "README.txt"), []byte("x"), 0600); err != nil {
		t.Fatalf("writing stray file: %v", err)
	}
	if err := os.Mkdir(filepath.Join(repo.Dir(), "sub.json"), 0750); err != nil {
		t.Fatalf("creating stray dir: %v", err)
	}

	ids, err := repo.ListIDs()
	if err != nil {
		t.Fatalf("ListIDs() error = %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("ListIDs() = %v, want 2 ids", ids)
	}
	found := map[string]bool{}
	for _, id := range ids {
		found[id] = true
	}
	if !found["aaa"] || !found["bbb"] {
		t.Errorf("ListIDs() = %v, want [aaa bbb]", ids)
	}
}

func TestRepository_Age(t *testing.T) {
	repo := testRepository(t)

	if err := repo.Write("old", "v"); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	// Backdate the file to simulate an aged item.
	past := time.Now().Add(-48 * time.Hour)
	if err := os.Chtimes(filepath.Join(repo.Dir(), "old.json"), past, past); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	age, err := repo.Age("old")
	if err != nil {
		t.Fatalf("Age() error = %v", err)
	}
	if age < 47*time.Hour || age > 49*time.Hour {
		t.Errorf("Age() = %v, want ~48h", age)
	}

	if _, err := repo.Age("nonexistent"); !errors.Is(err, ErrItemNotFound) {
		t.Errorf("Age() error = %v, want ErrItemNotFound", err)
	}
}

func TestRepository_RejectsUnsafeIDs(t *testing.T) {
	repo := testRepository(t)

	for _, id := range []string{"", "../escape", "a/b", `a\b`} {
		t.Run("id "+id, func(t *testing.T) {
			if err := repo.Write(id, "v"); !errors.Is(err, ErrInvalidID) {
				t.Errorf("Write(%q) error = %v, want ErrInvalidID", id, err)
			}
			if _, err := repo.Read(id); !errors.Is(err, ErrInvalidID) {
				t.Errorf("Read(%q) error = %v, want ErrInvalidID", id, err)
			}
		})
	}
}
