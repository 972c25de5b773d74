package token

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/bitfsorg/libescrow-go/address"
	"github.com/bitfsorg/libescrow-go/ledger"
)

// NativeBalance returns the native deposit balance of addr. Unknown accounts
// hold zero.
func NativeBalance(tx ledger.Tx, addr address.Address) (uint64, error) {
	data, err := tx.Get(bucketNative, addr[:])
	if errors.Is(err, ledger.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	if len(data) != 8 {
		return 0, fmt.Errorf("token: corrupt native balance for %s", addr)
	}
	return binary.BigEndian.Uint64(data), nil
}

// CreditNative adds amount to the native balance of addr.
func CreditNative(tx ledger.Tx, addr address.Address, amount uint64) error {
	bal, err := NativeBalance(tx, addr)
	if err != nil {
		return err
	}
	if bal > ^uint64(0)-amount {
		return fmt.Errorf("%w: native %s", ErrOverflow, addr)
	}
	return putNative(tx, addr, bal+amount)
}

// MoveNative moves amount of native balance from one account to another.
func MoveNative(tx ledger.Tx, from, to address.Address, amount uint64) error {
	if amount == 0 || from == to {
		return nil
	}
	bal, err := NativeBalance(tx, from)
	if err != nil {
		return err
	}
	if bal < amount {
		return fmt.Errorf("%w: native balance %d, need %d", ErrInsufficientFunds, bal, amount)
	}
	if err := CreditNative(tx, to, amount); err != nil {
		return err
	}
	return putNative(tx, from, bal-amount)
}

func putNative(tx ledger.Tx, addr address.Address, amount uint64) error {
	if amount == 0 {
		return tx.Delete(bucketNative, addr[:])
	}
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, amount)
	return tx.Put(bucketNative, addr[:], buf)
}
