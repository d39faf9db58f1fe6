package file

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

// ErrRevisionMismatch is returned when a file changed since it was read
var ErrRevisionMismatch = errors.New("file revision mismatch")

// Revision returns the content revision of data: a sha256 hex digest
func Revision(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Store reads and writes whole files, guarding writes with content revisions.
// Check-and-write is serialized per path inside the process; an edit made by
// another process between the check and the rename is not detected.
type Store struct {
	fs    afero.Fs
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewStore creates a store over fs
func NewStore(fs afero.Fs) *Store {
	return &Store{fs: fs, locks: make(map[string]*sync.Mutex)}
}

// Fs returns the underlying filesystem
func (s *Store) Fs() afero.Fs {
	return s.fs
}

// Read returns the file content and its revision
func (s *Store) Read(path string) ([]byte, string, error) {
	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		return nil, "", err
	}
	return data, Revision(data), nil
}

// WriteIfMatch replaces path with data when its current revision equals
// revision. An empty revision writes unconditionally; a revision given for a
// file that no longer exists is a mismatch.
func (s *Store) WriteIfMatch(path string, data []byte, revision string) error {
	l := s.lockFor(path)
	l.Lock()
	defer l.Unlock()

	if revision != "" {
		current, err := afero.ReadFile(s.fs, path)
		switch {
		case errors.Is(err, os.ErrNotExist):
			return fmt.Errorf("%s was removed: %w", path, ErrRevisionMismatch)
		case err != nil:
			return fmt.Errorf("failed to read %s: %w", path, err)
		case Revision(current) != revision:
			return fmt.Errorf("%s changed on disk: %w", path, ErrRevisionMismatch)
		}
	}
	return WriteFileAtomic(s.fs, path, data)
}

func (s *Store) lockFor(path string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := filepath.Clean(path)
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	return l
}

// WriteFileAtomic writes data to a file atomically using temp file + rename
// This ensures that the file is either fully written or not written at all
func WriteFileAtomic(fs afero.Fs, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	// Temp file in the same directory so the rename stays on one device
	tmpFile, err := afero.TempFile(fs, dir, ".taskcore-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer fs.Remove(tmpPath)

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := fs.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file to %s: %w", path, err)
	}
	return nil
}
