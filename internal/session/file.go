package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
)

// FileStorage stores the record as a JSON document readable only by the owner.
type FileStorage struct {
	path string
}

// NewFileStorage creates a FileStorage at path, or at DefaultSessionPath when path is empty.
func NewFileStorage(path string) *FileStorage {
	if path == "" {
		path = DefaultSessionPath()
	}
	return &FileStorage{path: path}
}

// DefaultSessionPath lives under the per-login runtime directory so the
// session does not outlive the user's login session.
func DefaultSessionPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "adminctl", "session.json")
	}
	return filepath.Join(os.TempDir(), "adminctl-"+strconv.Itoa(os.Getuid()), "session.json")
}

// Path returns the file location.
func (f *FileStorage) Path() string { return f.path }

func (f *FileStorage) Load(_ context.Context) (Record, bool, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("reading %s: %w", f.path, err)
	}

	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, false, fmt.Errorf("decoding %s: %w", f.path, err)
	}
	return rec, true, nil
}

func (f *FileStorage) Save(_ context.Context, rec Record) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("creating session dir: %w", err)
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return os.Rename(tmp, f.path)
}

func (f *FileStorage) Clear(_ context.Context) error {
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
