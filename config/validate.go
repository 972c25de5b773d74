// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

package config

import (
	"fmt"
	"strings"

	"github.com/bitfsorg/libescrow-go/address"
)

// validLogLevels lists the accepted log level strings.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// ValidateConfig checks that all configuration values are within acceptable
// ranges and returns the first error encountered, or nil if valid.
func ValidateConfig(cfg Config) error {
	if cfg.DataDir == "" {
		return ErrEmptyDataDir
	}

	if !validLogLevels[strings.ToLower(cfg.LogLevel)] {
		return ErrInvalidLogLevel
	}

	if _, err := cfg.Program(); err != nil {
		return err
	}

	if cfg.LockTimeout <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidLockTimeout, cfg.LockTimeout)
	}

	return nil
}

// Program returns the configured program id, or the zero address when unset.
func (c Config) Program() (address.Address, error) {
	if c.ProgramID == "" {
		return address.Zero, nil
	}
	id, err := address.ParseHex(c.ProgramID)
	if err != nil {
		return address.Zero, fmt.Errorf("%w: %w", ErrInvalidProgramID, err)
	}
	return id, nil
}
