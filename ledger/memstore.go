package ledger

import (
	"context"
	"sort"
	"sync"
)

// MemStore is an in-memory Store. Each Update works on a copy of the state
// that replaces the live state only when the callback succeeds.
type MemStore struct {
	mu      sync.RWMutex
	buckets map[string]map[string][]byte
	seqs    map[string]uint64
	closed  bool
}

// Compile-time interface check.
var _ Store = (*MemStore)(nil)

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		buckets: make(map[string]map[string][]byte),
		seqs:    make(map[string]uint64),
	}
}

// Update runs fn with exclusive access to the store.
func (s *MemStore) Update(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	tx := &memTx{
		buckets:  make(map[string]map[string][]byte, len(s.buckets)),
		seqs:     make(map[string]uint64, len(s.seqs)),
		writable: true,
	}
	for name, b := range s.buckets {
		cp := make(map[string][]byte, len(b))
		for k, v := range b {
			cp[k] = v
		}
		tx.buckets[name] = cp
	}
	for name, seq := range s.seqs {
		tx.seqs[name] = seq
	}

	if err := fn(tx); err != nil {
		return err
	}

	s.buckets = tx.buckets
	s.seqs = tx.seqs
	return nil
}

// View runs fn against a read-only view of the store.
func (s *MemStore) View(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrStoreClosed
	}
	return fn(&memTx{buckets: s.buckets, seqs: s.seqs})
}

// Close marks the store closed.
func (s *MemStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

type memTx struct {
	buckets  map[string]map[string][]byte
	seqs     map[string]uint64
	writable bool
}

func (t *memTx) Get(bucket string, key []byte) ([]byte, error) {
	if err := checkKey(bucket, key); err != nil {
		return nil, err
	}
	v, ok := t.buckets[bucket][string(key)]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneBytes(v), nil
}

func (t *memTx) Put(bucket string, key, value []byte) error {
	if err := checkKey(bucket, key); err != nil {
		return err
	}
	if !t.writable {
		return ErrReadOnly
	}
	b, ok := t.buckets[bucket]
	if !ok {
		b = make(map[string][]byte)
		t.buckets[bucket] = b
	}
	b[string(key)] = cloneBytes(value)
	return nil
}

func (t *memTx) Delete(bucket string, key []byte) error {
	if err := checkKey(bucket, key); err != nil {
		return err
	}
	if !t.writable {
		return ErrReadOnly
	}
	delete(t.buckets[bucket], string(key))
	return nil
}

func (t *memTx) ForEach(bucket string, fn func(key, value []byte) error) error {
	b := t.buckets[bucket]
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := fn([]byte(k), cloneBytes(b[k])); err != nil {
			return err
		}
	}
	return nil
}

func (t *memTx) NextSequence(bucket string) (uint64, error) {
	if bucket == "" {
		return 0, ErrEmptyKey
	}
	if !t.writable {
		return 0, ErrReadOnly
	}
	t.seqs[bucket]++
	return t.seqs[bucket], nil
}
