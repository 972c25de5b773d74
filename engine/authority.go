package engine

import (
	"fmt"

	"github.com/bitfsorg/libescrow-go/address"
	"github.com/bitfsorg/libescrow-go/event"
	"github.com/bitfsorg/libescrow-go/ledger"
	"github.com/bitfsorg/libescrow-go/token"
)

// eventAuthority moves funds out of an event's vaults and mints its claim
// tokens. It is created by handlers only, after the record's derived
// addresses have been re-verified.
type eventAuthority struct {
	tx    ledger.Tx
	event *event.Event
}

func (e *Engine) authorityFor(tx ledger.Tx, ev *event.Event) (*eventAuthority, error) {
	if err := ev.VerifyAddresses(e.programID); err != nil {
		return nil, err
	}
	return &eventAuthority{tx: tx, event: ev}, nil
}

func (a *eventAuthority) withdrawCapital(to address.Address, amount uint64) error {
	if err := token.Transfer(a.tx, a.event.CapitalVault, to, a.event.Address, amount); err != nil {
		return fmt.Errorf("capital vault: %w", err)
	}
	return nil
}

func (a *eventAuthority) payRevenue(to address.Address, amount uint64) error {
	if err := token.Transfer(a.tx, a.event.RevenueVault, to, a.event.Address, amount); err != nil {
		return fmt.Errorf("revenue vault: %w", err)
	}
	return nil
}

func (a *eventAuthority) mintClaims(to address.Address, amount uint64) error {
	if err := token.MintTo(a.tx, a.event.ClaimMint, to, a.event.Address, amount); err != nil {
		return fmt.Errorf("claim mint: %w", err)
	}
	return nil
}
