package event

import (
	"errors"
	"fmt"

	"github.com/bitfsorg/libescrow-go/address"
	"github.com/bitfsorg/libescrow-go/ledger"
)

const bucketEvents = "events"

// Load reads the event stored at addr.
func Load(tx ledger.Tx, addr address.Address) (*Event, error) {
	var e Event
	if err := ledger.GetGob(tx, bucketEvents, addr[:], &e); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, addr)
		}
		return nil, err
	}
	return &e, nil
}

// Exists reports whether an event is stored at addr.
func Exists(tx ledger.Tx, addr address.Address) (bool, error) {
	return ledger.Exists(tx, bucketEvents, addr[:])
}

// Save writes e at its address.
func Save(tx ledger.Tx, e *Event) error {
	return ledger.PutGob(tx, bucketEvents, e.Address[:], e)
}

// Remove deletes the event record at addr.
func Remove(tx ledger.Tx, addr address.Address) error {
	return tx.Delete(bucketEvents, addr[:])
}

// List returns every stored event accepted by keep, ordered by address.
// A nil keep returns all events.
func List(tx ledger.Tx, keep func(*Event) bool) ([]*Event, error) {
	var out []*Event
	err := tx.ForEach(bucketEvents, func(key, value []byte) error {
		var e Event
		if err := ledger.DecodeGob(value, &e); err != nil {
			return fmt.Errorf("event %x: %w", key, err)
		}
		if keep == nil || keep(&e) {
			out = append(out, &e)
		}
		return nil
	})
	return out, err
}
