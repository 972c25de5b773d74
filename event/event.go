// Package event defines the Event record: identity, pricing, lifecycle status,
// lifetime counters and the deterministic addresses of the accounts the event
// owns.
package event

import (
	"fmt"
	"time"

	"github.com/bitfsorg/libescrow-go/address"
	"github.com/bitfsorg/libescrow-go/revshare"
)

const (
	MaxIDLen          = 16
	MaxNameLen        = 40
	MaxDescriptionLen = 150
)

// Status is the lifecycle state of a stored event.
type Status uint8

const (
	StatusActive Status = iota + 1
	StatusClosed
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusClosed:
		return "closed"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// Params holds the caller-supplied fields of a new event.
type Params struct {
	ID          string
	Name        string
	Description string
	TicketPrice uint64 // whole units of the accepted currency
	TokenPrice  uint64 // whole units of the accepted currency per claim-token
}

// Validate checks field lengths and prices. Lengths are measured in bytes.
func (p Params) Validate() error {
	if p.ID == "" || len(p.ID) > MaxIDLen {
		return fmt.Errorf("%w: %d bytes (1-%d allowed)", ErrInvalidID, len(p.ID), MaxIDLen)
	}
	if len(p.Name) > MaxNameLen {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInvalidName, len(p.Name), MaxNameLen)
	}
	if len(p.Description) > MaxDescriptionLen {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInvalidDescription, len(p.Description), MaxDescriptionLen)
	}
	if p.TicketPrice == 0 || p.TokenPrice == 0 {
		return fmt.Errorf("%w: ticket=%d token=%d", ErrInvalidPrice, p.TicketPrice, p.TokenPrice)
	}
	return nil
}

// Event is the durable record of one sponsorable, ticketed event.
type Event struct {
	Address     address.Address
	ID          string
	Name        string
	Description string

	TicketPrice uint64
	TokenPrice  uint64

	Active bool

	TotalSponsors   uint64 // lifetime sponsorship actions
	CurrentSponsors uint64 // sponsorship actions not yet redeemed
	TokensSold      uint64 // lifetime claim-tokens minted; never decremented by burns
	TicketsSold     uint64

	Authority    address.Address
	AcceptedMint address.Address

	ClaimMint    address.Address
	CapitalVault address.Address
	RevenueVault address.Address
	Bumps        Bumps

	Deposit   uint64 // native reserve returned to the authority on delete
	CreatedAt time.Time
	ClosedAt  time.Time
}

// New builds an active event with zeroed counters.
func New(p Params, addrs Addresses, authority, acceptedMint address.Address, deposit uint64, now time.Time) *Event {
	return &Event{
		Address:      addrs.Event,
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		TicketPrice:  p.TicketPrice,
		TokenPrice:   p.TokenPrice,
		Active:       true,
		Authority:    authority,
		AcceptedMint: acceptedMint,
		ClaimMint:    addrs.ClaimMint,
		CapitalVault: addrs.CapitalVault,
		RevenueVault: addrs.RevenueVault,
		Bumps:        addrs.Bumps,
		Deposit:      deposit,
		CreatedAt:    now.UTC(),
	}
}

// Status reports the lifecycle state.
func (e *Event) Status() Status {
	if e.Active {
		return StatusActive
	}
	return StatusClosed
}

// RequireActive fails with ErrInactive once the event is closed.
func (e *Event) RequireActive() error {
	if !e.Active {
		return fmt.Errorf("%w: %s", ErrInactive, e.ID)
	}
	return nil
}

// Close deactivates the event. There is no way back to active; closing a
// closed event keeps the first close time.
func (e *Event) Close(now time.Time) {
	if !e.Active {
		return
	}
	e.Active = false
	e.ClosedAt = now.UTC()
}

// AddSponsorship records one sponsorship of quantity claim-tokens. Either all
// counters move or none do.
func (e *Event) AddSponsorship(quantity uint64) error {
	tokens, err := revshare.AddChecked(e.TokensSold, quantity)
	if err != nil {
		return fmt.Errorf("%w: tokens_sold", ErrCounterOverflow)
	}
	total, err := revshare.AddChecked(e.TotalSponsors, 1)
	if err != nil {
		return fmt.Errorf("%w: total_sponsors", ErrCounterOverflow)
	}
	current, err := revshare.AddChecked(e.CurrentSponsors, 1)
	if err != nil {
		return fmt.Errorf("%w: current_sponsors", ErrCounterOverflow)
	}
	e.TokensSold, e.TotalSponsors, e.CurrentSponsors = tokens, total, current
	return nil
}

// AddTickets records quantity tickets sold.
func (e *Event) AddTickets(quantity uint64) error {
	sold, err := revshare.AddChecked(e.TicketsSold, quantity)
	if err != nil {
		return fmt.Errorf("%w: tickets_sold", ErrCounterOverflow)
	}
	e.TicketsSold = sold
	return nil
}
