package credstore

import (
	"context"
	"sync"

	"github.com/pkg/errors"
)

// MemStore holds the encoded record in memory. It exists for tests and
// ephemeral sessions; it intentionally stores the encoded bytes rather than
// the struct so corruption handling can be exercised via SetRaw.
type MemStore struct {
	mu   sync.Mutex
	data []byte
}

func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Save(_ context.Context, record *Record) error {
	if record == nil || !record.Valid() {
		return errors.New("refusing to save structurally invalid record")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = encodeRecord(record)
	return nil
}

func (s *MemStore) Load(_ context.Context) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return nil, nil
	}
	return decodeRecord(s.data), nil
}

func (s *MemStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = nil
	return nil
}

// SetRaw replaces the stored bytes verbatim, bypassing the codec. Test hook
// for corrupt-storage behavior.
func (s *MemStore) SetRaw(data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
}
