package wallet

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// KeyFileName is the encrypted seed file inside a data directory.
const KeyFileName = "wallet.enc"

// SaveSeed encrypts seed under password and writes it to path.
func SaveSeed(path string, seed []byte, password string) error {
	data, err := EncryptSeed(seed, password)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("wallet: create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("wallet: write %s: %w", path, err)
	}
	return nil
}

// LoadSeed reads and decrypts the seed at path.
func LoadSeed(path, password string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrKeyFileNotFound, path)
		}
		return nil, fmt.Errorf("wallet: read %s: %w", path, err)
	}
	return DecryptSeed(data, password)
}
