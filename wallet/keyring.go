// Package wallet derives escrow participant keys from a BIP39 seed.
//
// Key hierarchy: m/44'/CoinType'/{account}'/0/{index}. An account groups the
// keys of one participant; every key's ledger address is the x-coordinate of
// its public key.
package wallet

import (
	"fmt"

	bip32 "github.com/bsv-blockchain/go-sdk/compat/bip32"
	ec "github.com/bsv-blockchain/go-sdk/primitives/ec"
	chaincfg "github.com/bsv-blockchain/go-sdk/transaction/chaincfg"

	"github.com/bitfsorg/libescrow-go/address"
)

const (
	PurposeBIP44 = 44
	CoinType     = 236

	// MaxIndex is the largest non-hardened BIP32 index.
	MaxIndex = 1<<31 - 1

	// Hardened is the BIP32 hardened offset.
	Hardened = 0x80000000
)

// Keyring derives participant keys from a master key.
type Keyring struct {
	master *bip32.ExtendedKey
}

// Participant is one signing identity on the ledger.
type Participant struct {
	PrivateKey *ec.PrivateKey
	PublicKey  *ec.PublicKey
	Address    address.Address
	Path       string
}

// NewKeyring creates a keyring from a BIP39 seed. testnet selects testnet
// extended-key version bytes; derived keys are otherwise identical.
func NewKeyring(seed []byte, testnet bool) (*Keyring, error) {
	if len(seed) == 0 {
		return nil, ErrInvalidSeed
	}
	net := &chaincfg.MainNet
	if testnet {
		net = &chaincfg.TestNet
	}
	master, err := bip32.NewMaster(seed, net)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDerivationFailed, err)
	}
	return &Keyring{master: master}, nil
}

// Participant derives the key at m/44'/236'/account'/0/index.
func (k *Keyring) Participant(account, index uint32) (*Participant, error) {
	if account > MaxIndex || index > MaxIndex {
		return nil, fmt.Errorf("%w: account=%d index=%d", ErrIndexOutOfRange, account, index)
	}

	key := k.master
	for _, step := range []uint32{PurposeBIP44 + Hardened, CoinType + Hardened, account + Hardened, 0, index} {
		child, err := key.Child(step)
		if err != nil {
			return nil, fmt.Errorf("%w: child %d: %w", ErrDerivationFailed, step, err)
		}
		key = child
	}

	priv, err := key.ECPrivKey()
	if err != nil {
		return nil, fmt.Errorf("%w: extract private key: %w", ErrDerivationFailed, err)
	}
	pub := priv.PubKey()
	addr, err := address.FromPubKey(pub)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDerivationFailed, err)
	}
	return &Participant{
		PrivateKey: priv,
		PublicKey:  pub,
		Address:    addr,
		Path:       fmt.Sprintf("m/%d'/%d'/%d'/0/%d", PurposeBIP44, CoinType, account, index),
	}, nil
}
