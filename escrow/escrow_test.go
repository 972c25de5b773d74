package escrow

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bitfsorg/libescrow-go/config"
	"github.com/bitfsorg/libescrow-go/engine"
	"github.com/bitfsorg/libescrow-go/event"
	"github.com/bitfsorg/libescrow-go/wallet"
)

const testMnemonic = "abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon abandon about"

// setupDataDir writes a config and an encrypted seed into a fresh data directory.
func setupDataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.DataDir = dir
	cfg.LogFile = filepath.Join(dir, "escrow.log")
	cfg.RecordDeposit = 100
	require.NoError(t, config.SaveConfig(config.ConfigPath(dir), cfg))

	seed, err := wallet.SeedFromMnemonic(testMnemonic, "")
	require.NoError(t, err)
	require.NoError(t, wallet.SaveSeed(filepath.Join(dir, wallet.KeyFileName), seed, "pw"))
	return dir
}

func participants(t *testing.T, node *Escrow) (organizer, sponsor, attendee, issuer *wallet.Participant) {
	t.Helper()
	keys, err := node.Keyring("pw", false)
	require.NoError(t, err)
	get := func(account uint32) *wallet.Participant {
		p, err := keys.Participant(account, 0)
		require.NoError(t, err)
		return p
	}
	return get(0), get(1), get(2), get(3)
}

func TestOpen_EndToEndPersists(t *testing.T) {
	ctx := context.Background()
	dir := setupDataDir(t)

	node, err := Open(dir)
	require.NoError(t, err)
	assert.Equal(t, uint64(100), node.Config.RecordDeposit)

	organizer, sponsor, attendee, issuer := participants(t, node)
	usdc := issuer.Address
	require.NoError(t, node.IssueCurrency(ctx, usdc, 2, issuer.Address))
	_, err = node.MintCurrency(ctx, usdc, issuer.Address, sponsor.Address, 10_000)
	require.NoError(t, err)
	_, err = node.MintCurrency(ctx, usdc, issuer.Address, attendee.Address, 3_000)
	require.NoError(t, err)
	require.NoError(t, node.CreditNative(ctx, organizer.Address, 100))

	var nonce uint64
	exec := func(p *wallet.Participant, ix engine.Instruction) *engine.Receipt {
		t.Helper()
		nonce++
		si, err := node.Sign(ix, nonce, p.PrivateKey)
		require.NoError(t, err)
		r, err := node.Execute(ctx, si)
		require.NoError(t, err)
		return r
	}

	created := exec(organizer, engine.CreateEvent{
		Params:       event.Params{ID: "gala-2026", Name: "Spring Gala", TicketPrice: 10, TokenPrice: 5},
		AcceptedMint: usdc,
	})
	ev := created.Event
	exec(sponsor, engine.SponsorEvent{Event: ev, Quantity: 20})
	exec(attendee, engine.BuyTickets{Event: ev, Quantity: 3})
	exec(organizer, engine.CloseEvent{Event: ev})
	require.NoError(t, node.Close())

	node, err = Open(dir)
	require.NoError(t, err)
	defer node.Close()

	b, err := node.Balances(ctx, ev)
	require.NoError(t, err)
	assert.Equal(t, uint64(10_000), b.Capital)
	assert.Equal(t, uint64(3_000), b.Revenue)

	nonce = 100
	r := exec(sponsor, engine.WithdrawEarnings{Event: ev})
	assert.Equal(t, uint64(3_000), r.Amount)

	receipts, err := node.ListReceipts(ctx, ev)
	require.NoError(t, err)
	assert.Len(t, receipts, 5)

	logData, err := os.ReadFile(filepath.Join(dir, "escrow.log"))
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(logData), "instruction executed"))
}

func TestOpen_ProgramIDFromEnv(t *testing.T) {
	dir := setupDataDir(t)
	id := strings.Repeat("ab", 32)
	t.Setenv("ESCROW_PROGRAM_ID", id)

	node, err := Open(dir)
	require.NoError(t, err)
	defer node.Close()
	assert.Equal(t, id, node.ProgramID().String())
}

func TestOpen_InvalidConfig(t *testing.T) {
	t.Setenv("ESCROW_LOG_LEVEL", "loud")
	_, err := Open(t.TempDir())
	assert.ErrorIs(t, err, config.ErrInvalidLogLevel)
}

func TestOpenWithConfig_Defaults(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.LogFile = filepath.Join(cfg.DataDir, "escrow.log")

	node, err := OpenWithConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, engine.DefaultProgramID, node.ProgramID())
	require.NoError(t, node.Close())

	_, err = os.Stat(filepath.Join(cfg.DataDir, LedgerFileName))
	assert.NoError(t, err)
}

func TestKeyring_WrongPassword(t *testing.T) {
	node, err := Open(setupDataDir(t))
	require.NoError(t, err)
	defer node.Close()

	_, err = node.Keyring("nope", false)
	assert.ErrorIs(t, err, wallet.ErrDecryptionFailed)
}
