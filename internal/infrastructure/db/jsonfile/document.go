// Package jsonfile implements the stores as whole-document JSON files, one
// file per store, compatible with the Mini Social Network data directory.
package jsonfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/minisocial/socialnet/internal/core/domain"
)

const (
	UsersFile     = "users.json"
	PostsFile     = "posts.json"
	FollowersFile = "followers.json"
)

// document is a single JSON file that is always read and written whole.
// mu serialises read-modify-write cycles within the process.
type document struct {
	path string
	mu   sync.Mutex
}

func newDocument(dir, name string) *document {
	return &document{path: filepath.Join(dir, name)}
}

// load decodes the file into v. It reports false when the file is absent or
// empty, and wraps domain.ErrStorageCorrupt when the content does not decode.
func (d *document) load(v any) (bool, error) {
	data, err := os.ReadFile(d.path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("read %s: %w", d.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("%w: %s: %v", domain.ErrStorageCorrupt, d.path, err)
	}
	return true, nil
}

// save replaces the file with v. The new content is written to a temp file in
// the same directory and renamed over the old one, so a failed write leaves
// the previous document intact.
func (d *document) save(v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", d.path, err)
	}
	data = append(data, '\n')

	dir := filepath.Dir(d.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("write %s: %w", d.path, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(d.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write %s: %w", d.path, err)
	}
	tmpName := tmp.Name()
	cleanup := func(cause error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", d.path, cause)
	}

	if _, err := tmp.Write(data); err != nil {
		return cleanup(err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", d.path, err)
	}
	if err := os.Rename(tmpName, d.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", d.path, err)
	}
	return nil
}
