package ledger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.etcd.io/bbolt"
)

// BoltStore persists ledger state in a bbolt database. bbolt serializes
// writers, so every Update has exclusive access to all buckets.
type BoltStore struct {
	db *bbolt.DB
}

// Compile-time interface check.
var _ Store = (*BoltStore)(nil)

// OpenBoltStore opens or creates the database at dbPath. The parent directory
// is created if it does not exist. timeout bounds the wait for the file lock
// held by another process; zero waits forever.
func OpenBoltStore(dbPath string, timeout time.Duration) (*BoltStore, error) {
	if dbPath == "" {
		return nil, fmt.Errorf("ledger: database path is required")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("ledger: create directory: %w", err)
	}
	db, err := bbolt.Open(filepath.Clean(dbPath), 0600, &bbolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("ledger: open bolt db: %w", err)
	}
	return &BoltStore{db: db}, nil
}

// Update runs fn in a bbolt read-write transaction.
func (s *BoltStore) Update(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return ErrStoreClosed
	}
	return s.db.Update(func(btx *bbolt.Tx) error {
		return fn(&boltTx{tx: btx})
	})
}

// View runs fn in a bbolt read-only transaction.
func (s *BoltStore) View(ctx context.Context, fn func(tx Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return ErrStoreClosed
	}
	return s.db.View(func(btx *bbolt.Tx) error {
		return fn(&boltTx{tx: btx})
	})
}

// Close closes the underlying database.
func (s *BoltStore) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file path.
func (s *BoltStore) Path() string { return s.db.Path() }

type boltTx struct {
	tx *bbolt.Tx
}

func (t *boltTx) Get(bucket string, key []byte) ([]byte, error) {
	if err := checkKey(bucket, key); err != nil {
		return nil, err
	}
	b := t.tx.Bucket([]byte(bucket))
	if b == nil {
		return nil, ErrNotFound
	}
	v := b.Get(key)
	if v == nil {
		return nil, ErrNotFound
	}
	// bbolt values are only valid for the life of the transaction.
	return cloneBytes(v), nil
}

func (t *boltTx) Put(bucket string, key, value []byte) error {
	if err := checkKey(bucket, key); err != nil {
		return err
	}
	b, err := t.writableBucket(bucket)
	if err != nil {
		return err
	}
	return b.Put(key, value)
}

func (t *boltTx) Delete(bucket string, key []byte) error {
	if err := checkKey(bucket, key); err != nil {
		return err
	}
	if !t.tx.Writable() {
		return ErrReadOnly
	}
	b := t.tx.Bucket([]byte(bucket))
	if b == nil {
		return nil
	}
	return b.Delete(key)
}

func (t *boltTx) ForEach(bucket string, fn func(key, value []byte) error) error {
	b := t.tx.Bucket([]byte(bucket))
	if b == nil {
		return nil
	}
	return b.ForEach(func(k, v []byte) error {
		return fn(cloneBytes(k), cloneBytes(v))
	})
}

func (t *boltTx) NextSequence(bucket string) (uint64, error) {
	b, err := t.writableBucket(bucket)
	if err != nil {
		return 0, err
	}
	return b.NextSequence()
}

func (t *boltTx) writableBucket(bucket string) (*bbolt.Bucket, error) {
	if bucket == "" {
		return nil, ErrEmptyKey
	}
	if !t.tx.Writable() {
		return nil, ErrReadOnly
	}
	b, err := t.tx.CreateBucketIfNotExists([]byte(bucket))
	if err != nil {
		return nil, fmt.Errorf("ledger: create bucket %q: %w", bucket, err)
	}
	return b, nil
}
