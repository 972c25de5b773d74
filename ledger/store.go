// Package ledger provides the host ledger the escrow engine runs on: a
// bucketed key/value store whose Update calls are atomic, all-or-nothing units
// of work. An error returned from an Update callback discards every write made
// inside it.
package ledger

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
)

// Store executes transactions against persisted ledger state.
type Store interface {
	// Update runs fn in a read-write transaction. Writes commit only if fn
	// returns nil.
	Update(ctx context.Context, fn func(tx Tx) error) error

	// View runs fn in a read-only transaction.
	View(ctx context.Context, fn func(tx Tx) error) error

	// Close releases the store.
	Close() error
}

// Tx is a single ledger transaction. Values returned by Get are owned by the
// caller.
type Tx interface {
	// Get returns the value at key in bucket, or ErrNotFound.
	Get(bucket string, key []byte) ([]byte, error)

	// Put stores value at key in bucket, creating the bucket if needed.
	Put(bucket string, key, value []byte) error

	// Delete removes key from bucket. Deleting a missing key is not an error.
	Delete(bucket string, key []byte) error

	// ForEach visits every key in bucket in ascending byte order.
	ForEach(bucket string, fn func(key, value []byte) error) error

	// NextSequence returns a monotonically increasing counter for bucket.
	NextSequence(bucket string) (uint64, error)
}

// GetGob loads and gob-decodes the value at key into v.
func GetGob(tx Tx, bucket string, key []byte, v interface{}) error {
	data, err := tx.Get(bucket, key)
	if err != nil {
		return err
	}
	if err := DecodeGob(data, v); err != nil {
		return fmt.Errorf("%s: %w", bucket, err)
	}
	return nil
}

// DecodeGob decodes a value written by PutGob.
func DecodeGob(data []byte, v interface{}) error {
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(v); err != nil {
		return fmt.Errorf("ledger: decode: %w", err)
	}
	return nil
}

// PutGob gob-encodes v and stores it at key.
func PutGob(tx Tx, bucket string, key []byte, v interface{}) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return fmt.Errorf("ledger: encode %s: %w", bucket, err)
	}
	return tx.Put(bucket, key, buf.Bytes())
}

// Exists reports whether key is present in bucket.
func Exists(tx Tx, bucket string, key []byte) (bool, error) {
	_, err := tx.Get(bucket, key)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

func checkKey(bucket string, key []byte) error {
	if bucket == "" || len(key) == 0 {
		return ErrEmptyKey
	}
	return nil
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
