package ledger

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// InMemoryStore keeps records in process memory. Used by tests and by
// the gateway when no database is configured.
type InMemoryStore struct {
	mu       sync.Mutex
	receipts map[string]Record
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{receipts: make(map[string]Record)}
}

func (s *InMemoryStore) InsertReceipt(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.receipts[rec.ID]; ok {
		return ErrDuplicateID
	}
	if rec.DocID == "" {
		rec.DocID = uuid.NewString()
	}
	s.receipts[rec.ID] = rec
	return nil
}

func (s *InMemoryStore) GetReceiptByID(_ context.Context, id string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.receipts[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return rec, nil
}

func (s *InMemoryStore) Close() error {
	return nil
}

// ReplaceReceipt overwrites a stored record in place, bypassing the
// insert-once contract. Tests use it to simulate out-of-band tampering
// with the backing store.
func (s *InMemoryStore) ReplaceReceipt(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.receipts[rec.ID] = rec
}
