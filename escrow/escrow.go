// Package escrow opens an escrow node rooted at a data directory: it loads the
// configuration, builds the logger, opens the bbolt ledger and wires them into
// an engine.
package escrow

import (
	"errors"
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/bitfsorg/libescrow-go/config"
	"github.com/bitfsorg/libescrow-go/engine"
	"github.com/bitfsorg/libescrow-go/ledger"
	"github.com/bitfsorg/libescrow-go/logging"
	"github.com/bitfsorg/libescrow-go/wallet"
)

// LedgerFileName is the bbolt database inside the data directory.
const LedgerFileName = "ledger.db"

// Escrow is an open node. The embedded engine executes instructions and
// answers queries.
type Escrow struct {
	*engine.Engine

	Config config.Config
	Log    *zap.Logger

	store *ledger.BoltStore
}

// Open loads the configuration for dataDir and opens the node.
func Open(dataDir string) (*Escrow, error) {
	cfg, err := config.Load(dataDir)
	if err != nil {
		return nil, fmt.Errorf("escrow: load config: %w", err)
	}
	return OpenWithConfig(cfg)
}

// OpenWithConfig opens a node from an already loaded configuration.
func OpenWithConfig(cfg config.Config) (*Escrow, error) {
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("escrow: %w", err)
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, fmt.Errorf("escrow: %w", err)
	}

	store, err := ledger.OpenBoltStore(filepath.Join(cfg.DataDir, LedgerFileName), cfg.LockTimeout)
	if err != nil {
		return nil, fmt.Errorf("escrow: open ledger: %w", err)
	}

	opts := []engine.Option{
		engine.WithLogger(log),
		engine.WithRecordDeposit(cfg.RecordDeposit),
	}
	program, _ := cfg.Program()
	if !program.IsZero() {
		opts = append(opts, engine.WithProgramID(program))
	}
	eng := engine.New(store, opts...)

	log.Info("escrow node opened",
		zap.String("data_dir", cfg.DataDir),
		zap.Stringer("program", eng.ProgramID()),
		zap.Uint64("record_deposit", cfg.RecordDeposit),
	)
	return &Escrow{Engine: eng, Config: cfg, Log: log, store: store}, nil
}

// Keyring decrypts the node's seed file and returns its participant keyring.
func (e *Escrow) Keyring(password string, testnet bool) (*wallet.Keyring, error) {
	seed, err := wallet.LoadSeed(filepath.Join(e.Config.DataDir, wallet.KeyFileName), password)
	if err != nil {
		return nil, fmt.Errorf("escrow: load seed: %w", err)
	}
	return wallet.NewKeyring(seed, testnet)
}

// Close releases the ledger and flushes the logger.
func (e *Escrow) Close() error {
	err := e.store.Close()
	if syncErr := e.Log.Sync(); syncErr != nil && e.Config.LogFile != "" {
		err = errors.Join(err, syncErr)
	}
	return err
}
