package credstore

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
)

// FileStore persists the record as a 0600 file. Writes go through a
// temporary file plus rename, so readers never observe a torn record.
// Multiple managers in one process are serialized by the mutex; across
// processes the semantics are last-write-wins.
type FileStore struct {
	path string
	mu   sync.Mutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Save(_ context.Context, record *Record) error {
	if record == nil || !record.Valid() {
		return errors.New("refusing to save structurally invalid record")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return errors.Wrap(err, "create credential directory")
	}

	tmp, err := os.CreateTemp(dir, ".credstore-*")
	if err != nil {
		return errors.Wrap(err, "create temp credential file")
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, "chmod temp credential file")
	}
	if _, err := tmp.Write(encodeRecord(record)); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Wrap(err, "write credential file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "close credential file")
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return errors.Wrap(err, "replace credential file")
	}

	return nil
}

func (s *FileStore) Load(_ context.Context) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "read credential file")
	}

	// corrupt content is an absent record, never an error
	return decodeRecord(data), nil
}

func (s *FileStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "remove credential file")
	}
	return nil
}
