package event

import (
	"fmt"

	"github.com/bitfsorg/libescrow-go/address"
)

// Derivation seeds.
const (
	SeedEvent         = "event"
	SeedEventMint     = "event_mint"
	SeedTreasuryVault = "treasury_vault"
	SeedGainVault     = "gain_vault"
)

// Bumps are the derivation bumps of the event's accounts.
type Bumps struct {
	Event        uint8
	ClaimMint    uint8
	CapitalVault uint8
	RevenueVault uint8
}

// Addresses are the derived accounts of one event.
type Addresses struct {
	Event        address.Address
	ClaimMint    address.Address
	CapitalVault address.Address
	RevenueVault address.Address
	Bumps        Bumps
}

// DeriveAddresses computes the event record, claim mint and vault addresses
// for id created by authority.
//
//	event         = [id, "event", authority]
//	claim mint    = ["event_mint", event]
//	capital vault = ["treasury_vault", event]
//	revenue vault = ["gain_vault", event]
func DeriveAddresses(programID address.Address, id string, authority address.Address) (Addresses, error) {
	var out Addresses
	var err error

	out.Event, out.Bumps.Event, err = address.FindProgramAddress(programID, []byte(id), []byte(SeedEvent), authority[:])
	if err != nil {
		return Addresses{}, fmt.Errorf("derive event: %w", err)
	}
	out.ClaimMint, out.Bumps.ClaimMint, err = address.FindProgramAddress(programID, []byte(SeedEventMint), out.Event[:])
	if err != nil {
		return Addresses{}, fmt.Errorf("derive claim mint: %w", err)
	}
	out.CapitalVault, out.Bumps.CapitalVault, err = address.FindProgramAddress(programID, []byte(SeedTreasuryVault), out.Event[:])
	if err != nil {
		return Addresses{}, fmt.Errorf("derive capital vault: %w", err)
	}
	out.RevenueVault, out.Bumps.RevenueVault, err = address.FindProgramAddress(programID, []byte(SeedGainVault), out.Event[:])
	if err != nil {
		return Addresses{}, fmt.Errorf("derive revenue vault: %w", err)
	}
	return out, nil
}

// VerifyAddresses re-derives every stored sub-account from its recorded bump.
func (e *Event) VerifyAddresses(programID address.Address) error {
	checks := []struct {
		name  string
		addr  address.Address
		bump  uint8
		seeds [][]byte
	}{
		{"event", e.Address, e.Bumps.Event, [][]byte{[]byte(e.ID), []byte(SeedEvent), e.Authority[:]}},
		{"claim mint", e.ClaimMint, e.Bumps.ClaimMint, [][]byte{[]byte(SeedEventMint), e.Address[:]}},
		{"capital vault", e.CapitalVault, e.Bumps.CapitalVault, [][]byte{[]byte(SeedTreasuryVault), e.Address[:]}},
		{"revenue vault", e.RevenueVault, e.Bumps.RevenueVault, [][]byte{[]byte(SeedGainVault), e.Address[:]}},
	}
	for _, c := range checks {
		if err := address.VerifyProgramAddress(c.addr, programID, c.bump, c.seeds...); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrAddressMismatch, c.name, err)
		}
	}
	return nil
}
