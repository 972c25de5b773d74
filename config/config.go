// Copyright (c) 2024 The BitFS developers
// Use of this source code is governed by the Open BSV License v5
// that can be found in the LICENSE file.

// Package config loads escrow node settings from a key = value file in the
// data directory, overlaid with ESCROW_* environment variables.
package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the node settings.
type Config struct {
	DataDir       string        `env:"ESCROW_DATA_DIR"`
	LogLevel      string        `env:"ESCROW_LOG_LEVEL"`
	LogFile       string        `env:"ESCROW_LOG_FILE"`
	ProgramID     string        `env:"ESCROW_PROGRAM_ID"` // hex; empty selects the built-in id
	RecordDeposit uint64        `env:"ESCROW_RECORD_DEPOSIT"`
	LockTimeout   time.Duration `env:"ESCROW_LOCK_TIMEOUT"`
}

const configFileName = "config"

// DefaultDataDir returns ~/.escrow, or .escrow when the home directory is unknown.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".escrow"
	}
	return filepath.Join(home, ".escrow")
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		DataDir:     DefaultDataDir(),
		LogLevel:    "info",
		LockTimeout: time.Second,
	}
}

// ConfigPath returns the config file location inside dataDir.
func ConfigPath(dataDir string) string {
	return filepath.Join(dataDir, configFileName)
}

// Load builds the effective configuration for dataDir: defaults, then the
// config file if present, then environment overrides. The result is validated.
func Load(dataDir string) (Config, error) {
	cfg := DefaultConfig()
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	fileCfg, err := loadInto(ConfigPath(cfg.DataDir), cfg)
	switch {
	case err == nil:
		cfg = fileCfg
		if dataDir != "" {
			cfg.DataDir = dataDir
		}
	case errors.Is(err, ErrConfigNotFound):
	default:
		return Config{}, err
	}

	if err := ApplyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := ValidateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with any ESCROW_* variables that are set.
func ApplyEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadConfig reads the file at path on top of DefaultConfig. Unknown keys are
// ignored.
func LoadConfig(path string) (Config, error) {
	return loadInto(path, DefaultConfig())
}

func loadInto(path string, cfg Config) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return Config{}, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return Config{}, fmt.Errorf("%w: line %d: %q", ErrInvalidConfigLine, lineNo, line)
		}
		if err := cfg.set(strings.ToLower(strings.TrimSpace(key)), strings.TrimSpace(value)); err != nil {
			return Config{}, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) set(key, value string) error {
	switch key {
	case "datadir":
		c.DataDir = value
	case "loglevel":
		c.LogLevel = value
	case "logfile":
		c.LogFile = value
	case "programid":
		c.ProgramID = value
	case "deposit":
		n, err := strconv.ParseUint(value, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: deposit %q", ErrInvalidConfigValue, value)
		}
		c.RecordDeposit = n
	case "locktimeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("%w: locktimeout %q", ErrInvalidConfigValue, value)
		}
		c.LockTimeout = d
	}
	return nil
}

// SaveConfig writes cfg to path, creating parent directories.
func SaveConfig(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("config: create directory: %w", err)
	}

	var b strings.Builder
	b.WriteString("# Escrow Configuration\n")
	fmt.Fprintf(&b, "datadir = %s\n", cfg.DataDir)
	fmt.Fprintf(&b, "loglevel = %s\n", cfg.LogLevel)
	fmt.Fprintf(&b, "logfile = %s\n", cfg.LogFile)
	fmt.Fprintf(&b, "programid = %s\n", cfg.ProgramID)
	fmt.Fprintf(&b, "deposit = %d\n", cfg.RecordDeposit)
	fmt.Fprintf(&b, "locktimeout = %s\n", cfg.LockTimeout)

	if err := os.WriteFile(path, []byte(b.String()), 0600); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}
