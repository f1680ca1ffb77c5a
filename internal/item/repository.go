package item

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// File storage constants.
const (
	// fileSuffix is appended to item IDs to form filenames.
	fileSuffix = ".json"

	// dirPermissions is the permission mode for the data directory.
	dirPermissions = 0750

	// filePermissions is the permission mode for item files.
	filePermissions = 0600
)

// Repository persists items as individual JSON files in a directory.
//
// Each item lives at <dir>/<id>.json, pretty-printed. The repository is the
// fallback read source and the only state surviving a restart. Writes are
// best effort: there is no fsync and no atomic rename, matching the
// durability contract of the service.
type Repository struct {
	dir string
}

// NewRepository creates a file-backed item repository rooted at dir.
// The directory is created (idempotently) if it does not exist.
func NewRepository(dir string) (*Repository, error) {
	if err := os.MkdirAll(dir, dirPermissions); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &Repository{dir: dir}, nil
}

// Dir returns the data directory path.
func (r *Repository) Dir() string {
	return r.dir
}

// Write serializes v and creates or overwrites the item's file.
func (r *Repository) Write(id string, v Value) error {
	path, err := r.path(id)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding item %s: %w", id, err)
	}

	if err := os.WriteFile(path, data, filePermissions); err != nil {
		return fmt.Errorf("writing item %s: %w", id, err)
	}
	return nil
}

// Read deserializes the item's file.
// A missing file is ErrItemNotFound, not a failure.
func (r *Repository) Read(id string) (Value, error) {
	path, err := r.path(id)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("reading item %s: %w", id, err)
	}

	var v Value
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptDocument, id, err)
	}
	return v, nil
}

// Delete removes the item's file.
//
// Removing a file that is already gone is success: the repository only
// guarantees the file is absent afterwards. Callers that need "did it
// exist" semantics must check before deleting.
func (r *Repository) Delete(id string) error {
	path, err := r.path(id)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("deleting item %s: %w", id, err)
	}
	return nil
}

// ListIDs enumerates the IDs of all item files in the directory.
// Entries not matching the <id>.json convention are ignored.
func (r *Repository) ListIDs() ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("listing data directory: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, fileSuffix))
	}
	return ids, nil
}

// Age returns the duration since the item's file was last modified.
// Used by the retention sweeper.
func (r *Repository) Age(id string) (time.Duration, error) {
	path, err := r.path(id)
	if err != nil {
		return 0, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, ErrItemNotFound
		}
		return 0, fmt.Errorf("stat item %s: %w", id, err)
	}
	return time.Since(info.ModTime()), nil
}

// path maps an ID to its file path, rejecting IDs that could escape the
// data directory. Generated IDs are UUIDs, but read paths accept IDs from
// the URL, so this is checked on every operation.
func (r *Repository) path(id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || strings.Contains(id, "..") {
		return "", ErrInvalidID
	}
	return filepath.Join(r.dir, id+fileSuffix), nil
}
